package app

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"interest-quiz-service/internal/domain"
)

// twoFieldBank builds n questions, each with one science and one arts option.
func twoFieldBank(n int) domain.Bank {
	bank := domain.Bank{ID: "test"}
	for i := 0; i < n; i++ {
		bank.Questions = append(bank.Questions, domain.Question{
			Text: "question",
			Options: []domain.Option{
				{Text: "science", Field: domain.FieldScience},
				{Text: "arts", Field: domain.FieldArts},
			},
		})
	}
	return bank
}

func TestScenarioAnswersSkipsAndCompletion(t *testing.T) {
	p := NewProgress(twoFieldBank(4), 2)

	require.NoError(t, p.RecordAnswer(0, "science"))
	require.NoError(t, p.RecordAnswer(1, "science"))
	require.NoError(t, p.Skip(2))
	assert.False(t, p.IsComplete())
	assert.Equal(t, 1, p.Remaining())

	require.NoError(t, p.RecordAnswer(3, "arts"))
	assert.True(t, p.IsComplete())

	report := p.Score()
	science := report.Domain(domain.FieldScience)
	arts := report.Domain(domain.FieldArts)
	assert.Equal(t, 2, science.AbsoluteScore)
	assert.Equal(t, 2, science.AnsweredCount)
	assert.Equal(t, 100.0, science.Percentage)
	assert.Equal(t, 1, arts.AbsoluteScore)
	assert.Equal(t, 100.0, arts.Percentage)
	assert.ElementsMatch(t, []domain.Field{domain.FieldScience, domain.FieldArts}, report.Strongest)
}

func TestAnswerOnSkippedQuestionIsRejected(t *testing.T) {
	p := NewProgress(twoFieldBank(4), 2)
	require.NoError(t, p.RecordAnswer(1, "arts"))
	require.NoError(t, p.Skip(0))

	err := p.RecordAnswer(0, "science")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrQuestionSkipped))
	assert.True(t, errors.Is(err, domain.ErrInvalidOption))
	_, answered := p.Answer(0)
	assert.False(t, answered)
	assert.Equal(t, 1, p.AnsweredCount())

	require.NoError(t, p.Unskip(0))
	require.NoError(t, p.RecordAnswer(0, "science"))
}

func TestSkipDropsAnswerAndUnskipDoesNotRestoreIt(t *testing.T) {
	p := NewProgress(twoFieldBank(2), 2)
	require.NoError(t, p.RecordAnswer(0, "arts"))
	require.NoError(t, p.Skip(0))
	_, answered := p.Answer(0)
	assert.False(t, answered)
	assert.True(t, p.IsSkipped(0))

	require.NoError(t, p.Unskip(0))
	_, answered = p.Answer(0)
	assert.False(t, answered)
	assert.False(t, p.IsSkipped(0))
}

func TestRecordAnswerValidation(t *testing.T) {
	p := NewProgress(twoFieldBank(2), 2)

	assert.ErrorIs(t, p.RecordAnswer(-1, "arts"), domain.ErrInvalidQuestionID)
	assert.ErrorIs(t, p.RecordAnswer(2, "arts"), domain.ErrInvalidQuestionID)
	assert.ErrorIs(t, p.RecordAnswer(0, "music"), domain.ErrInvalidOption)
	assert.ErrorIs(t, p.Skip(5), domain.ErrInvalidQuestionID)
	assert.ErrorIs(t, p.Unskip(5), domain.ErrInvalidQuestionID)
	assert.Equal(t, 0, p.AnsweredCount())

	require.NoError(t, p.RecordAnswer(0, "arts"))
	require.NoError(t, p.RecordAnswer(0, "science"))
	text, _ := p.Answer(0)
	assert.Equal(t, "science", text)
}

func TestRandomOperationsKeepInvariants(t *testing.T) {
	const total = 25
	rnd := rand.New(rand.NewSource(42))
	p := NewProgress(twoFieldBank(total), 10)
	options := []string{"science", "arts"}

	for i := 0; i < 2000; i++ {
		id := rnd.Intn(total)
		switch rnd.Intn(3) {
		case 0:
			_ = p.RecordAnswer(id, options[rnd.Intn(2)])
		case 1:
			_ = p.Skip(id)
		case 2:
			_ = p.Unskip(id)
		}

		for answered := range p.answers {
			require.False(t, p.IsSkipped(answered), "question %d both answered and skipped", answered)
		}
		require.Equal(t, p.AnsweredCount()+p.SkippedCount() == total, p.IsComplete())
	}
}

func TestPageStats(t *testing.T) {
	p := NewProgress(twoFieldBank(5), 2)
	require.NoError(t, p.RecordAnswer(0, "arts"))
	require.NoError(t, p.Skip(1))
	require.NoError(t, p.RecordAnswer(4, "science"))

	stats, err := p.PageStats(0)
	require.NoError(t, err)
	assert.Equal(t, domain.PageStats{Page: 0, Start: 0, End: 2, Answered: 1, Skipped: 1, Size: 2}, stats)
	assert.Equal(t, 1.0, stats.Ratio())

	stats, err = p.PageStats(2)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Size)
	assert.Equal(t, 1, stats.Answered)

	_, err = p.PageStats(3)
	assert.ErrorIs(t, err, domain.ErrInvalidPage)
}

func TestSetPage(t *testing.T) {
	p := NewProgress(twoFieldBank(5), 2)
	require.NoError(t, p.SetPage(2))
	assert.Equal(t, 2, p.Page())
	assert.ErrorIs(t, p.SetPage(3), domain.ErrInvalidPage)
	assert.ErrorIs(t, p.SetPage(-1), domain.ErrInvalidPage)
	assert.Equal(t, 2, p.Page())
}

func TestCompleteLifecycle(t *testing.T) {
	p := NewProgress(twoFieldBank(2), 2)
	require.NoError(t, p.RecordAnswer(0, "arts"))

	err := p.Complete()
	var incomplete *domain.IncompleteError
	require.ErrorAs(t, err, &incomplete)
	assert.Equal(t, 1, incomplete.Remaining)
	assert.False(t, p.Completed())

	require.NoError(t, p.Skip(1))
	require.NoError(t, p.Complete())
	assert.True(t, p.Completed())
	assert.ErrorIs(t, p.RecordAnswer(0, "science"), domain.ErrSessionCompleted)
	assert.ErrorIs(t, p.Unskip(1), domain.ErrSessionCompleted)

	p.Reopen()
	require.NoError(t, p.Unskip(1))

	p.Reset()
	assert.Equal(t, 0, p.AnsweredCount())
	assert.Equal(t, 0, p.SkippedCount())
	assert.Equal(t, 0, p.Page())
	assert.False(t, p.Completed())
}

func TestView(t *testing.T) {
	p := NewProgress(twoFieldBank(4), 2)
	require.NoError(t, p.RecordAnswer(3, "arts"))
	require.NoError(t, p.Skip(2))
	require.NoError(t, p.SetPage(1))

	view := p.View("s1")
	assert.Equal(t, "s1", view.SessionID)
	assert.Equal(t, 2, view.TotalPages)
	assert.Equal(t, 2, view.Remaining)
	assert.Equal(t, 0.5, view.Progress)
	assert.Equal(t, 1.0, view.PageRatio)
	assert.Equal(t, map[int]string{3: "arts"}, view.Answers)
	assert.Equal(t, []int{2}, view.SkippedIDs)
}

func TestPaging(t *testing.T) {
	tests := []struct {
		name               string
		page, size, total  int
		wantStart, wantEnd int
	}{
		{"first page", 0, 100, 200, 0, 100},
		{"second page", 1, 100, 200, 100, 200},
		{"short last page", 2, 2, 5, 4, 5},
		{"single page", 0, 100, 4, 0, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := PageRange(tt.page, tt.size, tt.total)
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantEnd, end)
		})
	}

	assert.Equal(t, 2, TotalPages(200, 100))
	assert.Equal(t, 3, TotalPages(201, 100))
	assert.Equal(t, 1, TotalPages(4, 100))
	assert.Panics(t, func() { TotalPages(10, 0) })
}
