package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"interest-quiz-service/internal/domain"
)

func TestBankRepositoryCaches(t *testing.T) {
	loader := &countingLoader{
		BankLoader: NewStaticBankLoader(map[string]domain.Bank{
			"default": sampleBank(),
		}),
	}
	repo := NewBankRepository(loader, time.Minute)

	bank, err := repo.GetBank(context.Background(), "default")
	if err != nil {
		t.Fatalf("get bank: %v", err)
	}
	if bank.ID != "default" || bank.Len() != 1 {
		t.Fatalf("unexpected bank %+v", bank)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader once, got %d", loader.calls)
	}

	if _, err := repo.GetBank(context.Background(), "default"); err != nil {
		t.Fatalf("get bank 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.calls)
	}
}

func TestBankRepositoryReloadsAfterExpiry(t *testing.T) {
	loader := &countingLoader{
		BankLoader: NewStaticBankLoader(map[string]domain.Bank{"default": sampleBank()}),
	}
	repo := NewBankRepository(loader, time.Minute)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	repo.clock = func() time.Time { return now }

	if _, err := repo.GetBank(context.Background(), "default"); err != nil {
		t.Fatalf("get bank: %v", err)
	}
	now = now.Add(2 * time.Minute)
	if _, err := repo.GetBank(context.Background(), "default"); err != nil {
		t.Fatalf("get bank after expiry: %v", err)
	}
	if loader.calls != 2 {
		t.Fatalf("expected reload after ttl, loader calls %d", loader.calls)
	}
}

func TestBankRepositoryUnknownBank(t *testing.T) {
	repo := NewBankRepository(NewStaticBankLoader(nil), 0)
	_, err := repo.GetBank(context.Background(), "missing")
	if !errors.Is(err, domain.ErrBankNotFound) {
		t.Fatalf("expected bank not found, got %v", err)
	}
}

func TestBankRepositoryConcurrentDistinctBanks(t *testing.T) {
	banks := make(map[string]domain.Bank)
	for i := 0; i < 16; i++ {
		banks[fmt.Sprintf("bank-%d", i)] = sampleBank()
	}
	repo := NewBankRepository(NewStaticBankLoader(banks), time.Minute)

	var wg sync.WaitGroup
	errs := make(chan error, len(banks))
	for id := range banks {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			bank, err := repo.GetBank(context.Background(), id)
			if err == nil && bank.ID != id {
				err = fmt.Errorf("got bank %q for %q", bank.ID, id)
			}
			errs <- err
		}(id)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent load: %v", err)
		}
	}
}

type countingLoader struct {
	BankLoader
	calls int
}

func (l *countingLoader) LoadBank(ctx context.Context, bankID string) (domain.Bank, error) {
	l.calls++
	return l.BankLoader.LoadBank(ctx, bankID)
}

func sampleBank() domain.Bank {
	return domain.Bank{
		Questions: []domain.Question{
			{
				Text: "周末你更愿意做什么？",
				Options: []domain.Option{
					{Text: "做实验", Field: domain.FieldScience},
					{Text: "读历史", Field: domain.FieldHumanities},
					{Text: "画画", Field: domain.FieldArts},
					{Text: "摆摊", Field: domain.FieldBusiness},
				},
			},
		},
	}
}
