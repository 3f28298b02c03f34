package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

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
	configPath := flag.String("config", "", "path to config.yaml (optional)")
	flag.Parse()

	cfg, err := config.LoadFromEnv(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	logger.SetLevel(logger.ParseLevel(cfg.Logging.Level))
	if cfg.Logging.RedactEmail != nil {
		logger.SetRedactPII(*cfg.Logging.RedactEmail)
	}

	store, closeStore, err := buildStore(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	defer closeStore()

	locks, closeLocks := buildLocker(cfg)
	defer closeLocks()

	bank := quiz.DefaultBank()
	if cfg.Quiz.QuestionsFile != "" {
		bank, err = quiz.LoadBank(cfg.Quiz.QuestionsFile)
		if err != nil {
			log.Fatalf("Failed to load question bank: %v", err)
		}
	}

	signer := tracking.NewSigner(cfg.Tracking.SecretKey)
	links := tracking.NewLinkGenerator(signer, cfg.Tracking.BaseURL)
	campaigns := campaign.NewService(store, links, locks)
	rec := recorder.NewService(store, signer, locks)

	handlers := api.NewHandlers(campaigns, rec, bank, templates.NewEngine(), cfg.Quiz.QuestionsPerQuiz)
	router := api.SetupRoutes(handlers)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", addr, "storage", cfg.Storage.Type)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	<-done
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "error", err.Error())
	}
}

// buildStore selects the snapshot backend from config.
func buildStore(cfg *config.Config) (storage.Store, func(), error) {
	switch cfg.Storage.Type {
	case "postgres":
		db, err := sql.Open("postgres", cfg.Storage.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("opening database: %w", err)
		}
		db.SetMaxOpenConns(10)
		db.SetConnMaxLifetime(5 * time.Minute)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("pinging database: %w", err)
		}
		pg := storage.NewPostgresStore(db)
		if err := pg.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("ensuring schema: %w", err)
		}
		return pg, func() { db.Close() }, nil

	default:
		fs, err := storage.NewFileStore(cfg.Storage.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("opening file store: %w", err)
		}
		return fs, func() {}, nil
	}
}

// buildLocker returns Redis-backed campaign locks when configured, and
// in-process locks otherwise.
func buildLocker(cfg *config.Config) (distlock.Locker, func()) {
	if !cfg.Redis.Enabled {
		return distlock.NewKeyedMutex(), func() {}
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unavailable, falling back to in-process locks",
			"addr", cfg.Redis.Addr, "error", err.Error())
		client.Close()
		return distlock.NewKeyedMutex(), func() {}
	}
	logger.Info("using redis campaign locks", "addr", cfg.Redis.Addr)
	return distlock.NewRedisLocker(client, 30*time.Second), func() { client.Close() }
}
