package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/V1K1NGM4N/file-converter-buddy/app/api"
	"github.com/V1K1NGM4N/file-converter-buddy/app/cfg"
	"github.com/V1K1NGM4N/file-converter-buddy/app/config"
	"github.com/V1K1NGM4N/file-converter-buddy/app/database"
	"github.com/V1K1NGM4N/file-converter-buddy/app/export"
	"github.com/V1K1NGM4N/file-converter-buddy/app/feed"
	"github.com/V1K1NGM4N/file-converter-buddy/app/fetcher"
	"github.com/V1K1NGM4N/file-converter-buddy/app/tasks"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	logLevel := slog.LevelInfo
	if appCfg.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting File Converter Buddy server", "version", appCfg.Version)

	// Fetch profile (proxy chain and retry policy)
	profileLoader := config.NewLoader(appCfg.FetchProfile)
	profile, err := profileLoader.Load()
	if err != nil {
		slog.Error("Failed to load fetch profile", "path", appCfg.FetchProfile, "error", err)
		os.Exit(1)
	}
	slog.Info("Fetch profile loaded",
		"proxies", len(profile.Proxies),
		"max_retries", profile.MaxRetries)

	// Optional fetch cache
	var cacheRepo *database.FetchCacheRepository
	var fetchCache fetcher.Cache
	if appCfg.CacheEnabled {
		db, err := database.NewConnection(appCfg.CachePath)
		if err != nil {
			slog.Error("Failed to open fetch cache database", "path", appCfg.CachePath, "error", err)
			os.Exit(1)
		}
		defer db.Close()

		version, dirty, err := database.RunMigrations(db)
		if err != nil {
			slog.Error("Failed to run migrations", "error", err)
			os.Exit(1)
		}
		slog.Info("Fetch cache ready",
			"path", appCfg.CachePath,
			"schema_version", version,
			"dirty", dirty)

		cacheRepo = database.NewFetchCacheRepository(db, time.Duration(appCfg.CacheTTL)*time.Second)
		fetchCache = cacheRepo
	}

	// Core components
	feedFetcher := fetcher.New(profile, appCfg.UserAgent, fetchCache)
	feedParser := feed.NewParser()

	downloader := export.NewDownloader(appCfg.UserAgent)
	saver := export.NewDiskSaver(appCfg.DownloadDir)
	exporter := export.NewExporter(downloader, saver, time.Duration(appCfg.ExportDelayMs)*time.Millisecond)

	// Export jobs run on a single worker so archives finish in the
	// order they were requested.
	registry := tasks.NewJobRegistry()
	scheduler := tasks.NewScheduler(1)
	scheduler.Start()
	defer scheduler.Stop()

	if cacheRepo != nil {
		if err := scheduler.EnqueueTask(tasks.NewPruneCacheTask(cacheRepo)); err != nil {
			slog.Warn("Failed to enqueue cache prune task", "error", err)
		}
	}

	// HTTP server
	apiHandler := api.NewHandler(feedParser, feedFetcher, exporter, scheduler, registry, cacheRepo)
	server := api.NewServer(apiHandler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", appCfg.Port)
		slog.Info("Endpoints available",
			"parse", fmt.Sprintf("http://localhost:%s/parse", appCfg.Port),
			"fetch", fmt.Sprintf("http://localhost:%s/fetch", appCfg.Port),
			"exports", fmt.Sprintf("http://localhost:%s/exports", appCfg.Port),
			"health", fmt.Sprintf("http://localhost:%s/health", appCfg.Port))

		if appCfg.APIAccessKey == "" {
			slog.Info("Export endpoints are unauthenticated (API_ACCESS_KEY not set)")
		}

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped")
	}

	slog.Info("Shutdown complete")
}
