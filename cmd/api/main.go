package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/kargotek/destek/backend/internal/config"
	"github.com/kargotek/destek/backend/internal/handler"
	"github.com/kargotek/destek/backend/internal/handler/supportchat"
	"github.com/kargotek/destek/backend/internal/model/shipment"
	"github.com/kargotek/destek/backend/internal/orchestrator"
	"github.com/kargotek/destek/backend/internal/service/action"
	"github.com/kargotek/destek/backend/internal/service/ai"
	"github.com/kargotek/destek/backend/internal/service/estimate"
	"github.com/kargotek/destek/backend/internal/service/session"
	"github.com/kargotek/destek/backend/internal/service/speech"
	"github.com/kargotek/destek/backend/internal/service/storage"
	"github.com/kargotek/destek/backend/internal/service/verify"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// Shipment storage collaborator.
	var store shipment.Store
	sqliteStore, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		log.Fatalf("failed to open shipment database: %v", err)
	}
	defer sqliteStore.Close()
	if err := sqliteStore.Migrate(ctx); err != nil {
		log.Fatalf("failed to migrate shipment database: %v", err)
	}
	if err := sqliteStore.Seed(ctx); err != nil {
		log.Fatalf("failed to seed shipment database: %v", err)
	}
	store = sqliteStore

	// Delivery-time estimator, fitted from historical deliveries when the
	// CSV is present.
	var estimator *estimate.Estimator
	if est, err := estimate.Load(cfg.Storage.HistoryCSV); err != nil {
		log.Printf("warning: delivery estimator unavailable: %v", err)
	} else {
		estimator = est
		log.Printf("delivery estimator fitted from %d records", est.Samples())
	}

	// Intent resolution and response composition.
	var aiService *ai.Service
	if cfg.AI.Enabled() {
		aiService, err = ai.NewService(ctx, cfg.AI)
		if err != nil {
			log.Printf("warning: failed to initialize AI service: %v", err)
			log.Println("continuing without intent resolution - check the ARK_* environment variables")
		} else {
			log.Println("AI service initialized successfully")
		}
	} else {
		log.Println("ark credentials not configured, skipping AI initialization")
	}

	// Speech rendering collaborator.
	var synth supportchat.Synthesizer
	if cfg.Speech.Enabled {
		synth = speech.NewClient(cfg.Speech, cfg.Storage.StaticDir)
		log.Println("speech synthesis initialized successfully")
	} else {
		log.Println("speech credentials not configured, replies will be text only")
	}

	sessions := session.NewStore()
	verifier := verify.NewVerifier(store)
	registry := action.NewRegistry(store, estimator)

	var resolver orchestrator.Resolver
	var composer orchestrator.Composer
	if aiService != nil {
		resolver = aiService
		composer = aiService
	}
	turns := orchestrator.New(sessions, verifier, registry, resolver, composer)

	router := handler.NewRouter(turns, synth, cfg.Storage.StaticDir)

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("Kargo destek backend listening on %s", serverCfg.Addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
