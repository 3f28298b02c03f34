// The tracking binary serves only the public recipient-facing endpoints:
// tracking links, the quiz, and health. It can be deployed on the exposed
// edge while the management API stays internal, sharing state through the
// configured storage backend and Redis locks.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ignite/phishing-trainer/internal/api"
	"github.com/ignite/phishing-trainer/internal/config"
	"github.com/ignite/phishing-trainer/internal/pkg/distlock"
	"github.com/ignite/phishing-trainer/internal/pkg/logger"
	"github.com/ignite/phishing-trainer/internal/quiz"
	"github.com/ignite/phishing-trainer/internal/service/campaign"
	"github.com/ignite/phishing-trainer/internal/service/recorder"
	"github.com/ignite/phishing-trainer/internal/storage"
	"github.com/ignite/phishing-trainer/internal/templates"
	"github.com/ignite/phishing-trainer/internal/tracking"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.LoadFromEnv("")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}
	logger.SetLevel(logger.ParseLevel(cfg.Logging.Level))

	var store storage.Store
	switch cfg.Storage.Type {
	case "postgres":
		db, err := sql.Open("postgres", cfg.Storage.DatabaseURL)
		if err != nil {
			log.Fatalf("opening database: %v", err)
		}
		defer db.Close()
		pg := storage.NewPostgresStore(db)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := pg.EnsureSchema(ctx); err != nil {
			cancel()
			log.Fatalf("ensuring schema: %v", err)
		}
		cancel()
		store = pg
	default:
		fs, err := storage.NewFileStore(cfg.Storage.Path)
		if err != nil {
			log.Fatalf("opening file store: %v", err)
		}
		store = fs
	}

	var locks distlock.Locker = distlock.NewKeyedMutex()
	if cfg.Redis.Enabled {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer client.Close()
		locks = distlock.NewRedisLocker(client, 30*time.Second)
	}

	signer := tracking.NewSigner(cfg.Tracking.SecretKey)
	links := tracking.NewLinkGenerator(signer, cfg.Tracking.BaseURL)
	campaigns := campaign.NewService(store, links, locks)
	rec := recorder.NewService(store, signer, locks)

	bank := quiz.DefaultBank()
	if cfg.Quiz.QuestionsFile != "" {
		if bank, err = quiz.LoadBank(cfg.Quiz.QuestionsFile); err != nil {
			log.Fatalf("loading question bank: %v", err)
		}
	}

	h := api.NewHandlers(campaigns, rec, bank, templates.NewEngine(), cfg.Quiz.QuestionsPerQuiz)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Get("/track", h.HandleTrack)
	r.Get("/quiz", h.HandleGetQuiz)
	r.Post("/quiz", h.HandleSubmitQuiz)
	r.Get("/health", h.HealthCheck)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("tracking service listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down tracking service")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	srv.Shutdown(ctx)
}
