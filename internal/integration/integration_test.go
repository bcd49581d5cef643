package integration

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"

	"interest-quiz-service/internal/app"
	"interest-quiz-service/internal/domain"
	pgstore "interest-quiz-service/internal/infra/postgres"
	pgmigrations "interest-quiz-service/internal/infra/postgres/migrations"
	infraredis "interest-quiz-service/internal/infra/redis"
)

func TestQuizEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	seedBank(t, ctx, pgURL, sampleBank())

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	loader := pgstore.NewBankLoader(pool)

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	bankRepo := infraredis.NewBankRepository(redisClient, loader, 5*time.Minute)
	sessionStore := infraredis.NewSessionStore(redisClient, 5*time.Minute)
	service := app.NewQuizService(sessionStore, bankRepo, "bank-1", 2)

	if _, err := service.Start(ctx, "s1"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := service.Answer(ctx, "s1", 0, "写代码"); err != nil {
		t.Fatalf("answer: %v", err)
	}
	if _, err := service.Skip(ctx, "s1", 1); err != nil {
		t.Fatalf("skip: %v", err)
	}
	if _, err := service.GoToPage(ctx, "s1", 1); err != nil {
		t.Fatalf("page: %v", err)
	}
	if _, err := service.Answer(ctx, "s1", 2, "写小说"); err != nil {
		t.Fatalf("answer: %v", err)
	}
	snap, err := service.Save(ctx, "s1")
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	report, err := service.Submit(ctx, "s1")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if len(report.Strongest) != 2 {
		t.Fatalf("expected science and humanities to tie, got %v", report.Strongest)
	}
	if got := report.Domain(domain.FieldHumanities).AbsoluteScore; got != 1 {
		t.Fatalf("expected humanities score 1, got %d", got)
	}

	service.Close(ctx, "s1")
	if n, _ := redisClient.Exists(ctx, "quiz:session:s1").Result(); n != 0 {
		t.Fatalf("expected session key to be removed after close")
	}

	raw, err := app.EncodeSnapshot(snap)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	offline, err := service.ScoreSnapshot(ctx, raw)
	if err != nil {
		t.Fatalf("score snapshot: %v", err)
	}
	if len(offline.Strongest) != len(report.Strongest) {
		t.Fatalf("expected offline score to match, got %v", offline.Strongest)
	}
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "quiz", "POSTGRES_PASSWORD": "quizpass", "POSTGRES_DB": "quizdb"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start postgres: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://quiz:quizpass@%s:%s/quizdb?sslmode=disable", host, port.Port())
	return dsn, func() {
		_ = container.Terminate(ctx)
	}
}

func startRedis(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start redis: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("redis host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("redis port: %v", err)
	}
	url := fmt.Sprintf("redis://%s:%s", host, port.Port())
	return url, func() {
		_ = container.Terminate(ctx)
	}
}

func seedBank(t *testing.T, ctx context.Context, dsn string, bank domain.Bank) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		t.Fatalf("migrator init: %v", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := pgstore.NewBankWriter(db).SaveBank(ctx, bank); err != nil {
		t.Fatalf("save bank: %v", err)
	}
}

func sampleBank() domain.Bank {
	option := func(text string, field domain.Field) domain.Option {
		return domain.Option{Text: text, Field: field}
	}
	return domain.Bank{
		ID: "bank-1",
		Questions: []domain.Question{
			{Text: "你最喜欢的课后活动？", Options: []domain.Option{option("写代码", domain.FieldScience), option("写小说", domain.FieldHumanities)}},
			{Text: "你想去哪里实习？", Options: []domain.Option{option("银行", domain.FieldBusiness), option("医院", domain.FieldService)}},
			{Text: "你更喜欢读什么？", Options: []domain.Option{option("科普", domain.FieldScience), option("写小说", domain.FieldHumanities)}},
		},
	}
}

func redisClientFromURL(url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	}), nil
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}
