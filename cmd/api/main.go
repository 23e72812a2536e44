package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/bondfi/bondfi/internal/api"
	"github.com/bondfi/bondfi/internal/config"
	"github.com/bondfi/bondfi/internal/service"
	"github.com/bondfi/bondfi/internal/store"
	"github.com/bondfi/bondfi/internal/token"
	"github.com/bondfi/bondfi/pkg/stellar"
)

func main() {
	// Load .env for local development. In production, env vars are set directly.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("cannot load config: %v", err)
	}

	repo, cleanup, err := openStore(cfg)
	if err != nil {
		log.Fatalf("cannot open store: %v", err)
	}
	defer cleanup()

	// Initialize Layers
	tokens := token.NewManager(cfg.TokenSecret, time.Duration(cfg.TokenTTLHours)*time.Hour)
	svc := service.New(repo, tokens, cfg.StartingBalance)
	chain := stellar.NewClient(cfg.HorizonURL)
	handler := api.NewHandler(svc, chain)

	router := api.NewRouter(handler, api.RouterOptions{
		CORSOrigins:      cfg.CORSOrigins,
		SimulatedLatency: time.Duration(cfg.SimulatedLatencyMS) * time.Millisecond,
	})

	server := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s (store=%s)", cfg.ServerPort, cfg.StoreDriver)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not start server: %s", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}
	log.Println("Server gracefully stopped")
}

func openStore(cfg *config.Config) (store.Repository, func(), error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		pg, err := store.NewPostgresStore(context.Background(), cfg.DBSource)
		if err != nil {
			return nil, nil, err
		}
		return pg, pg.Close, nil
	default:
		fs, err := store.NewFileStore(cfg.DataDir)
		if err != nil {
			return nil, nil, err
		}
		return fs, func() {}, nil
	}
}
