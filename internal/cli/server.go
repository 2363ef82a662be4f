package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"survey-flow-service/internal/app"
	"survey-flow-service/internal/config"
	"survey-flow-service/internal/domain"
	"survey-flow-service/internal/infra/memory"
	"survey-flow-service/internal/infra/postgres"
	rediscache "survey-flow-service/internal/infra/redis"
	transport "survey-flow-service/internal/transport/http"
	"survey-flow-service/internal/webhook"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the survey server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
	}

	// Survey source: Postgres when configured, otherwise a built-in
	// sample survey so the server runs standalone.
	var (
		loader  rediscache.SurveyLoader
		surveys app.SurveyRepository
	)
	if pool != nil {
		repo := postgres.NewSurveyRepository(pool)
		loader, surveys = repo, repo
	} else {
		store := memory.NewSurveyStore(sampleSurveys())
		loader, surveys = store, store
	}

	surveyTTL := config.Duration(cfg.Survey.TTL, 10*time.Minute)
	if redisClient != nil {
		surveys = rediscache.NewSurveyCache(redisClient, loader, surveyTTL)
	}

	var responses app.ResponseRepository = memory.NewResponseStore()
	var webhookRepo app.WebhookRepository = memory.NewWebhookStore()
	if pool != nil {
		responses = postgres.NewResponseRepository(pool)
		webhookRepo = postgres.NewWebhookRepository(pool)
	}

	var counters app.QuotaCounterStore = memory.NewCounterStore()
	switch {
	case redisClient != nil:
		counters = rediscache.NewCounterStore(redisClient)
	case pool != nil:
		counters = postgres.NewCounterStore(pool)
	}

	webhookTimeout := config.Duration(cfg.Webhook.Timeout, 10*time.Second)
	dispatcher := webhook.NewDispatcher(&http.Client{Timeout: webhookTimeout})
	runner := app.NewComputedRunner(&http.Client{})

	sessionSvc := app.NewSessionService(surveys, responses, memory.NewSessionStore(), runner)
	responseSvc := app.NewResponseService(surveys, responses, webhookRepo, counters, dispatcher)
	surveySvc := app.NewSurveyService(surveys, responses, counters)
	webhookSvc := app.NewWebhookService(webhookRepo, dispatcher)

	wsHandler := transport.NewWSHandler(sessionSvc, responseSvc)
	restHandler := transport.NewRESTHandler(surveySvc, responseSvc, webhookSvc)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", wsHandler.ServeWS)
	restHandler.Register(mux)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting survey service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// sampleSurveys seeds the in-memory store for standalone/demo runs.
func sampleSurveys() map[string]domain.Survey {
	return map[string]domain.Survey{
		"survey-1": {
			ID:     "survey-1",
			Title:  "Product feedback",
			Status: domain.StatusPublished,
			Structure: domain.SurveyStructure{
				Pages: []domain.Page{
					{
						ID:    "page-1",
						Title: "Your experience",
						Questions: []domain.Question{
							{
								ID:       "q-satisfaction",
								Type:     domain.SingleChoice,
								Text:     "How satisfied are you with the product?",
								Required: true,
								Choices: []domain.Choice{
									{ID: "c1", Text: "Very satisfied", Value: "very_satisfied"},
									{ID: "c2", Text: "Satisfied", Value: "satisfied"},
									{ID: "c3", Text: "Dissatisfied", Value: "dissatisfied"},
								},
							},
						},
					},
					{
						ID:    "page-2",
						Title: "Details",
						Questions: []domain.Question{
							{
								ID:   "q-comments",
								Type: domain.OpenText,
								Text: "Anything else you would like to share?",
							},
						},
					},
				},
			},
		},
	}
}
