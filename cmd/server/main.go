package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tubelens/internal/enhance"
	"tubelens/internal/keywords"
	"tubelens/internal/recommend"
	"tubelens/internal/transcribe"
	"tubelens/internal/trendwatch"
	"tubelens/internal/web"
	"tubelens/internal/youtube"
	"tubelens/shared/config"
	"tubelens/shared/scheduler"
	"tubelens/shared/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Create context that responds to signals
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	prefs, err := storage.NewPrefsStore(cfg.DataDir)
	if err != nil {
		log.Fatalf("Failed to open preferences store: %v", err)
	}

	agent := trendwatch.NewAgent(cfg, prefs)
	s := scheduler.New(cfg, agent)

	if len(os.Args) > 1 && os.Args[1] == "--once" {
		fmt.Println("Running once...")
		if err := agent.Initialize(); err != nil {
			log.Fatalf("Failed to initialize agent: %v", err)
		}

		if err := s.RunOnce(ctx); err != nil {
			log.Fatalf("Failed to run: %v", err)
		}
		return
	}

	api := web.NewServer(
		cfg,
		youtube.NewClient(&cfg.YouTube),
		enhance.NewDispatcher(&cfg.Providers),
		recommend.NewAggregator(&cfg.ToolServer, &cfg.Providers),
		transcribe.NewClient(&cfg.ToolServer),
		keywords.NewClient(&cfg.ToolServer),
		agent,
		prefs,
	)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: api.Handler(),
	}

	go func() {
		log.Printf("Dashboard API listening on %s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("API server failed: %v", err)
		}
	}()

	fmt.Println("Starting scheduler...")
	if err := s.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("Scheduler failed: %v", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("API server shutdown error: %v", err)
	}
}
