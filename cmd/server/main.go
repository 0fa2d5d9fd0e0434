package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/bylawgest/internal/api"
	"github.com/dgallion1/bylawgest/internal/config"
	"github.com/dgallion1/bylawgest/internal/hierarchy"
	"github.com/dgallion1/bylawgest/internal/parser"
	"github.com/dgallion1/bylawgest/internal/persist"
	"github.com/dgallion1/bylawgest/internal/pipeline"
	"github.com/dgallion1/bylawgest/internal/segment"
	"github.com/dgallion1/bylawgest/internal/store"
)

func main() {
	cfg := config.Load()
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database.
	dialect, err := store.ParseDialect(cfg.DatabaseDriver)
	if err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	db, err := store.Open(ctx, dialect, cfg.DatabaseURL)
	if err != nil {
		log.Error("database unavailable", "error", err)
		os.Exit(1)
	}
	st := store.New(db, dialect)
	if err := st.Migrate(ctx); err != nil {
		log.Error("migrations failed", "error", err)
		os.Exit(1)
	}

	// Structuring.
	levels, err := hierarchy.Load(cfg.HierarchyConfig)
	if err != nil {
		log.Error("invalid hierarchy", "error", err)
		os.Exit(1)
	}
	strategy, err := segment.ParseStrategy(cfg.DedupStrategy)
	if err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	writer := persist.NewWriter(st, log)
	writer.BatchSize = cfg.InsertBatchSize
	writer.PipelineDepth = cfg.InsertPipelineDepth
	importer := pipeline.NewImporter(st, writer, levels, strategy, pipeline.NewImportStats(cfg.StatsWindow), log)

	// Notion stays off without a token.
	var notion pipeline.PageExtractor
	if cfg.NotionAPIKey != "" {
		notion = parser.NewNotionExtractor(cfg.NotionAPIKey)
	}

	orch := pipeline.NewOrchestrator(cfg, importer, notion, log)
	orch.Start(ctx)

	srv := api.NewServer(orch, st, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		orch.Stop()
		st.Close()
	}()

	log.Info("starting bylawgest",
		"port", cfg.Port,
		"driver", string(dialect),
		"dedup_strategy", string(strategy),
		"notion", notion != nil,
	)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
