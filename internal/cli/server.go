package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"persona-quiz-service/internal/app"
	"persona-quiz-service/internal/config"
	"persona-quiz-service/internal/domain"
	"persona-quiz-service/internal/infra/memory"
	pgstore "persona-quiz-service/internal/infra/postgres"
	redisstore "persona-quiz-service/internal/infra/redis"
	transport "persona-quiz-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the verdict server",
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

	var loader memory.CatalogLoader = memory.NewStaticCatalogLoader(seedCatalog())
	if pool != nil {
		loader = pgstore.NewCatalogLoader(pool)
	}

	catalogTTL := config.TTLDuration(cfg.Catalog.TTL, 10*time.Minute)
	var catalogRepo app.CatalogRepository
	if redisClient != nil {
		catalogRepo = redisstore.NewCatalogRepository(redisClient, loader, catalogTTL)
	} else {
		catalogRepo = memory.NewCatalogRepository(loader, catalogTTL)
	}

	var gate app.AttemptGate
	switch {
	case redisClient != nil:
		gate = redisstore.NewAttemptGate(redisClient)
	case pool != nil:
		gate = pgstore.NewAttemptGate(pool)
	default:
		gate = memory.NewAttemptGate()
	}

	var results app.ResultStore
	if pool != nil {
		results = pgstore.NewResultStore(pool)
	} else {
		results = memory.NewResultStore()
	}

	service := app.NewVerdictService(catalogRepo, gate, results)
	handler := transport.NewHandler(service)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	handler.Routes(r)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting verdict service on :%s", finalPort)
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

// seedCatalog provides a small built-in catalog; production deployments load
// questions from Postgres instead.
func seedCatalog() domain.Catalog {
	return domain.Catalog{
		Questions: []domain.Question{
			{
				ID:       "q1",
				Text:     "A project is falling behind. What do you do first?",
				Weight:   4,
				Position: 1,
				Options: []domain.Option{
					{ID: "o1", Text: "Redesign the plan", Scores: map[string]int{"architect": 3, "leader": 1}},
					{ID: "o2", Text: "Rally the team", Scores: map[string]int{"leader": 3}},
					{ID: "o3", Text: "Talk to everyone involved", Scores: map[string]int{"diplomat": 3}},
				},
			},
			{
				ID:       "q2",
				Text:     "What do colleagues come to you for?",
				Weight:   2,
				Position: 2,
				Options: []domain.Option{
					{ID: "o1", Text: "Structure and clarity", Scores: map[string]int{"architect": 3}},
					{ID: "o2", Text: "Direction", Scores: map[string]int{"leader": 2, "diplomat": 1}},
					{ID: "o3", Text: "Mediation", Scores: map[string]int{"diplomat": 3}},
				},
			},
			{
				ID:       "q3",
				Text:     "Your ideal role in a crisis?",
				Weight:   5,
				Position: 3,
				Options: []domain.Option{
					{ID: "o1", Text: "Taking charge", Scores: map[string]int{"leader": 3}},
					{ID: "o2", Text: "Designing the way out", Scores: map[string]int{"architect": 2}},
					{ID: "o3", Text: "Keeping people calm", Scores: map[string]int{"diplomat": 2, "leader": 1}},
				},
			},
		},
		Categories: map[string]domain.Category{
			"architect": {
				ID:          "architect",
				Name:        "The Architect",
				Description: "Systematic thinker who designs robust plans before acting.",
				Traits:      []string{"analytical", "methodical", "independent"},
			},
			"leader": {
				ID:          "leader",
				Name:        "The Leader",
				Description: "Decisive organizer who moves people toward a goal.",
				Traits:      []string{"decisive", "energetic", "responsible"},
			},
			"diplomat": {
				ID:          "diplomat",
				Name:        "The Diplomat",
				Description: "Empathetic communicator who keeps groups aligned.",
				Traits:      []string{"empathetic", "patient", "persuasive"},
			},
		},
	}
}
