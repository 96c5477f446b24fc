package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	pgxvec "github.com/pgvector/pgvector-go/pgx"
	"github.com/redis/go-redis/v9"

	"github.com/fabrecsai/wardrobe-service/internal/cache"
	"github.com/fabrecsai/wardrobe-service/internal/caption"
	"github.com/fabrecsai/wardrobe-service/internal/config"
	"github.com/fabrecsai/wardrobe-service/internal/embedding"
	"github.com/fabrecsai/wardrobe-service/internal/handler"
	"github.com/fabrecsai/wardrobe-service/internal/repository"
	"github.com/fabrecsai/wardrobe-service/internal/router"
	"github.com/fabrecsai/wardrobe-service/internal/service"
	"github.com/fabrecsai/wardrobe-service/internal/storage"
	"github.com/fabrecsai/wardrobe-service/seeds"
)

func main() {
	// Load .env for local dev
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config %v", err)
	}

	ctx := context.Background()

	// ------------ PostgreSQL ---------------
	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to parse database config %v", err)
	}
	poolConfig.MaxConns = int32(cfg.DBPoolSize)
	poolConfig.AfterConnect = pgxvec.RegisterTypes
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		log.Fatalf("failed to connect to database %v", err)
	}
	defer pool.Close()

	if err := waitForDB(ctx, pool); err != nil {
		log.Fatalf("database not ready: %v", err)
	}
	log.Println("connected to PostgreSQL")

	// ------------ Run Migrations ---------------
	// for migrate-down using CLI command
	if len(os.Args) > 1 && os.Args[1] == "migrate-down" {
		if err := migrateDown(ctx, pool); err != nil {
			log.Fatalf("failed to migrate down %v", err)
		}
		log.Println("migrations dropped")
		return
	}

	if err := migrateUp(ctx, pool); err != nil {
		log.Fatalf("failed to migrate up %v", err)
	}

	// ------------ Embedding backend ---------------
	var embedder embedding.Client
	if cfg.OpenAIAPIKey != "" {
		embedder = embedding.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.EmbeddingDims)
	} else {
		log.Println("OPENAI_API_KEY not set, using deterministic mock embedder")
		embedder = embedding.NewMockClient(cfg.EmbeddingDims)
	}

	// ------------ Setup Seed Data ---------------
	if err := checkSeed(ctx, pool, embedder); err != nil {
		log.Fatalf("failed to check seed %v", err)
	}

	// ------------ Redis ---------------
	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to parse redis url %v", err)
	}
	embCache := cache.NewCache(redis.NewClient(redisOpts), cfg.CacheTTL)

	var vectorCache service.VectorCache
	if err := embCache.Ping(ctx); err != nil {
		log.Printf("redis unavailable, embedding cache disabled: %v", err)
	} else {
		log.Println("connected to Redis")
		vectorCache = embCache
	}

	// ------------ Object storage ---------------
	store, err := storage.NewClient(storage.Options{
		Endpoint:  cfg.S3Endpoint,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		Bucket:    cfg.S3Bucket,
		UseSSL:    cfg.S3UseSSL,
		URLExpiry: cfg.SignedURLTTL,
	})
	if err != nil {
		log.Fatalf("failed to create storage client %v", err)
	}

	captioner := caption.NewClient(cfg.CaptionEndpoint, cfg.CaptionToken, store)

	// ---------------- Server --------------------
	repo := repository.New(pool)
	svc := service.New(repo, embedder, store, captioner, vectorCache, service.Options{
		TopK:        cfg.MatchTopK,
		Concurrency: cfg.MatchConcurrency,
	})
	h := handler.NewHandler(svc)

	server := &http.Server{
		Addr:    cfg.Addr(),
		Handler: router.Setup(h),
	}

	go func() {
		log.Printf("Server running on %s", cfg.Addr())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}
	log.Println("server stopped")
}

func waitForDB(ctx context.Context, pool *pgxpool.Pool) error {
	for i := 0; i < 30; i++ {
		if err := pool.Ping(ctx); err == nil {
			return nil
		}
		log.Printf("waiting for database... (%d/30)", i+1)
		time.Sleep(1 * time.Second)
	}
	return fmt.Errorf("database connection timeout after 30s")
}

func migrateDown(ctx context.Context, pool *pgxpool.Pool) error {
	sql, err := os.ReadFile("migrations/create_tables.down.sql")
	if err != nil {
		return fmt.Errorf("read migration file: %w", err)
	}
	if _, err := pool.Exec(ctx, string(sql)); err != nil {
		return fmt.Errorf("execute migration: %w", err)
	}
	log.Println("migrations dropped successfully")
	return nil
}

func migrateUp(ctx context.Context, pool *pgxpool.Pool) error {
	sql, err := os.ReadFile("migrations/create_tables.up.sql")
	if err != nil {
		return fmt.Errorf("read migration file: %w", err)
	}
	if _, err := pool.Exec(ctx, string(sql)); err != nil {
		return fmt.Errorf("execute migration: %w", err)
	}
	log.Println("migrations applied successfully")
	return nil
}

func checkSeed(ctx context.Context, pool *pgxpool.Pool, embedder embedding.Client) error {
	var count int
	if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM wardrobe_items").Scan(&count); err != nil {
		return fmt.Errorf("check wardrobe items count: %w", err)
	}
	if count > 0 {
		log.Printf("database already seeded (%d items), skipping", count)
		return nil
	}
	return seeds.Setup(ctx, pool, embedder)
}
