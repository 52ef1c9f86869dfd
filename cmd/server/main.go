package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/ssiserve/internal/api"
	"github.com/dgallion1/ssiserve/internal/config"
	"github.com/dgallion1/ssiserve/internal/content"
	"github.com/dgallion1/ssiserve/internal/deps"
	"github.com/dgallion1/ssiserve/internal/filetype"
	"github.com/dgallion1/ssiserve/internal/watch"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	overrides, err := config.LoadTypeMap(cfg.FileTypeMapPath)
	if err != nil {
		log.Error("invalid file type map", "error", err)
		os.Exit(1)
	}
	types := filetype.NewSet(cfg.IncludeFileTypes, overrides)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	files := content.NewDir(cfg.DocRoot)
	index := deps.NewIndex()

	var watcher *watch.Watcher
	if cfg.LiveReload {
		watcher, err = watch.New(cfg.DocRoot, index, log)
		if err != nil {
			log.Error("start watcher", "error", err)
			os.Exit(1)
		}
		watcher.Start(ctx)
	}

	srv := api.NewServer(files, index, watcher, types, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // /events streams indefinitely
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		if watcher != nil {
			watcher.Stop()
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	log.Info("starting ssiserve", "port", cfg.Port, "root", cfg.DocRoot)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
