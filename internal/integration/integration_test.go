package integration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"survey-flow-service/internal/app"
	"survey-flow-service/internal/domain"
	"survey-flow-service/internal/infra/postgres"
	pgmigrations "survey-flow-service/internal/infra/postgres/migrations"
	infraredis "survey-flow-service/internal/infra/redis"
	"survey-flow-service/internal/webhook"

	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
)

func TestQuotaAdmissionEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	seedSurvey(t, ctx, pgURL, quotaSurvey())

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}

	surveyRepo := postgres.NewSurveyRepository(pool)
	surveys := infraredis.NewSurveyCache(redisClient, surveyRepo, 5*time.Minute)
	responses := postgres.NewResponseRepository(pool)
	webhooks := postgres.NewWebhookRepository(pool)
	counters := infraredis.NewCounterStore(redisClient)
	service := app.NewResponseService(surveys, responses, webhooks, counters, webhook.NewDispatcher(nil))

	submit := func(uid string) app.SubmitResult {
		t.Helper()
		result, err := service.Submit(ctx, "survey-1", app.Submission{
			Data: domain.ResponseData{
				"q-age": domain.NumberValue(30),
			},
			RespondentUID: uid,
			Duration:      60,
			PageHistory:   []string{"page-1"},
		})
		if err != nil {
			t.Fatalf("submit %s: %v", uid, err)
		}
		return result
	}

	// Quota limit is 2; the first two responses are admitted.
	for i, uid := range []string{"uid-1", "uid-2"} {
		if result := submit(uid); !result.Accepted {
			t.Fatalf("submission %d: expected accepted, got %+v", i, result)
		}
	}

	// Third one hits the filled quota.
	result := submit("uid-3")
	if !result.Closed || result.QuotaID != "quota-over-25" {
		t.Fatalf("expected quota rejection, got %+v", result)
	}

	stored, total, err := responses.List(ctx, "survey-1", 0, 10)
	if err != nil {
		t.Fatalf("list responses: %v", err)
	}
	if total != 2 || len(stored) != 2 {
		t.Fatalf("expected 2 stored responses, got %d", total)
	}
	for _, r := range stored {
		if r.Status != domain.ResponseCompleted {
			t.Fatalf("expected completed status, got %s", r.Status)
		}
		if n, ok := r.Data["q-age"].Number(); !ok || n != 30 {
			t.Fatalf("answer did not survive the jsonb round trip: %+v", r.Data["q-age"])
		}
	}

	// The counter lives in Redis and survives service restarts.
	snapshot, err := counters.Snapshot(ctx, "survey-1", []string{"quota-over-25"})
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if snapshot["quota-over-25"] != 2 {
		t.Fatalf("expected counter 2, got %d", snapshot["quota-over-25"])
	}
}

func TestDuplicatePreventionEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()

	survey := quotaSurvey()
	survey.Quotas = nil
	survey.Settings.Respondent = &domain.RespondentSettings{PreventDuplicate: true}
	seedSurvey(t, ctx, pgURL, survey)

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	surveys := postgres.NewSurveyRepository(pool)
	responses := postgres.NewResponseRepository(pool)
	service := app.NewResponseService(surveys, responses, postgres.NewWebhookRepository(pool),
		postgres.NewCounterStore(pool), webhook.NewDispatcher(nil))

	sub := app.Submission{
		Data:          domain.ResponseData{"q-age": domain.NumberValue(40)},
		RespondentUID: "uid-1",
	}
	if _, err := service.Submit(ctx, "survey-1", sub); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if _, err := service.Submit(ctx, "survey-1", sub); err != domain.ErrDuplicateResponse {
		t.Fatalf("expected ErrDuplicateResponse, got %v", err)
	}
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "survey", "POSTGRES_PASSWORD": "surveypass", "POSTGRES_DB": "surveydb"},
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
	dsn := fmt.Sprintf("postgres://survey:surveypass@%s:%s/surveydb?sslmode=disable", host, port.Port())
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

func seedSurvey(t *testing.T, ctx context.Context, dsn string, survey domain.Survey) {
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

	data, err := json.Marshal(survey)
	if err != nil {
		t.Fatalf("marshal survey: %v", err)
	}
	if _, err := db.ExecContext(ctx, `INSERT INTO surveys (id, data) VALUES (?, ?::jsonb) ON CONFLICT (id) DO UPDATE SET data=EXCLUDED.data`, survey.ID, string(data)); err != nil {
		t.Fatalf("insert survey: %v", err)
	}
}

func quotaSurvey() domain.Survey {
	return domain.Survey{
		ID:     "survey-1",
		Title:  "Screening survey",
		Status: domain.StatusPublished,
		Structure: domain.SurveyStructure{
			Pages: []domain.Page{
				{
					ID: "page-1",
					Questions: []domain.Question{
						{
							ID:       "q-age",
							Type:     domain.NumberInput,
							Text:     "How old are you?",
							Required: true,
						},
					},
				},
			},
		},
		Quotas: []domain.Quota{
			{
				ID:   "quota-over-25",
				Name: "Respondents over 25",
				Conditions: []domain.QuotaCondition{
					{
						QuestionID:    "q-age",
						ConditionType: domain.QuotaNumeric,
						Operator:      domain.OpGreaterThan,
						Value:         25,
					},
				},
				Limit:   2,
				Action:  domain.QuotaClose,
				Enabled: true,
			},
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
