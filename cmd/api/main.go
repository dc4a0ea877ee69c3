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

	"github.com/havenlabs/haven/backend/internal/config"
	"github.com/havenlabs/haven/backend/internal/handler"
	"github.com/havenlabs/haven/backend/internal/index"
	"github.com/havenlabs/haven/backend/internal/service/ai"
	"github.com/havenlabs/haven/backend/internal/service/chat"
	"github.com/havenlabs/haven/backend/internal/service/crisis"
	"github.com/havenlabs/haven/backend/internal/service/recommend"
	"github.com/havenlabs/haven/backend/internal/service/summary"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// The resource index must be usable before the first request; a corpus
	// that fails to load is a deployment error, not a degraded mode.
	resources := index.New()
	if err := resources.Initialize(); err != nil {
		log.Fatalf("failed to initialize resource index: %v", err)
	}
	log.Printf("resource index ready with %d documents", resources.Len())

	// Initialize the completion service used for narrative summaries and
	// crisis action augmentation. Missing credentials degrade to templates.
	var completion *ai.Service
	if cfg.AI.Enabled() {
		completion, err = ai.NewService(ctx, cfg.AI,
			time.Duration(cfg.Analysis.CompletionTimeoutSeconds)*time.Second,
			cfg.Analysis.ExpansionCacheSize)
		if err != nil {
			log.Printf("warning: failed to initialize completion service: %v", err)
			log.Println("continuing with template fallbacks only")
			completion = nil
		} else {
			log.Println("completion service initialized successfully")
		}
	} else {
		log.Println("completion credentials not configured, using template fallbacks")
	}

	chatService := chat.NewService()
	assessor := crisis.NewAssessor(resources, completion, cfg.Analysis.CrisisWindow)
	summaries := summary.NewService(completion, cfg.Analysis.InsightsWindow)
	ranker := recommend.NewRanker(resources)
	pipeline := chat.NewPipeline(chatService, assessor, summaries, ranker)

	router := handler.NewRouter(chatService, pipeline, resources, completion)

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("Haven analytics backend listening on %s", addr)
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
