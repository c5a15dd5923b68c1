package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/ddanilenko/newsbrief/app/api"
	"github.com/ddanilenko/newsbrief/app/cfg"
	"github.com/ddanilenko/newsbrief/app/database"
	"github.com/ddanilenko/newsbrief/app/dedup"
	"github.com/ddanilenko/newsbrief/app/feed"
	"github.com/ddanilenko/newsbrief/app/papers"
	"github.com/ddanilenko/newsbrief/app/publish"
	"github.com/ddanilenko/newsbrief/app/summarizer"
	"github.com/ddanilenko/newsbrief/app/tasks"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown
		return
	}

	logLevel := slog.LevelInfo
	if appCfg.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting newsbrief", "phase", appCfg.Phase, "version", appCfg.Version)

	db, err := database.Open(filepath.Join(appCfg.DataDir, "newsbrief.db"))
	if err != nil {
		slog.Error("Failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	sources, err := feed.LoadSources(appCfg.SourcesFile)
	if err != nil {
		slog.Error("Failed to load sources", "error", err)
		os.Exit(1)
	}

	seenRepo := database.NewSeenItemRepository(db)
	bufferRepo := database.NewBufferedItemRepository(db)
	digestRepo := database.NewDigestRecordRepository(db)

	strategy := summarizer.NewStrategy(appCfg.AnthropicAPIKey, appCfg.Model)
	httpClient := &http.Client{}
	httpTimeout := time.Duration(appCfg.HTTPTimeout) * time.Second

	var publisher publish.Publisher
	if appCfg.SkipPublish {
		publisher = publish.NewFilePublisher(appCfg.DataDir)
	} else {
		publisher = publish.NewGitPublisher(appCfg.RepoDir, appCfg.BaseBranch)
	}

	switch appCfg.Phase {
	case "collect":
		matcher := dedup.NewMatcher(appCfg.SimilarityThreshold)
		store := dedup.NewStore(seenRepo, matcher, dedup.ScopeArticles,
			time.Duration(appCfg.DedupWindowDays)*24*time.Hour)

		maxAge := time.Duration(sources.Settings.MaxAgeHours) * time.Hour
		fetcher := feed.NewFetcher(sources.AllFeeds(), httpClient, feed.NewParser(),
			appCfg.UserAgent, appCfg.WorkerCount, httpTimeout, maxAge)

		pipeline := summarizer.NewPipeline(strategy, nil, appCfg.BatchSize, appCfg.SelectionCount)
		runTask(tasks.NewCollectTask(fetcher, store, pipeline, bufferRepo))

	case "digest":
		fulltext := feed.NewFullTextFetcher(httpClient, feed.NewContentExtractor(),
			appCfg.UserAgent, httpTimeout)
		pipeline := summarizer.NewPipeline(strategy, fulltext, appCfg.BatchSize, appCfg.SelectionCount)
		runTask(tasks.NewDigestTask(bufferRepo, digestRepo, pipeline, publisher))

	case "paper":
		store := dedup.NewStore(seenRepo, nil, dedup.ScopePapers,
			time.Duration(appCfg.PaperWindowDays)*24*time.Hour)
		searcher := papers.NewClient(appCfg.UserAgent, httpTimeout)
		runTask(tasks.NewPaperTask(sources.PaperCategories, searcher, store, strategy, publisher))

	case "serve":
		serve(appCfg, seenRepo, bufferRepo, digestRepo)
	}
}

func runTask(task tasks.TaskInterface) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	task.Start()
	if err := task.Execute(ctx); err != nil {
		slog.Error("Task failed", "type", task.GetType(), "error", err, "duration", task.GetDuration())
		os.Exit(1)
	}
}

func serve(appCfg *cfg.Cfg, seenRepo database.SeenRepository,
	bufferRepo database.BufferRepository, digestRepo database.DigestRepository) {
	handler := api.NewHandler(seenRepo, bufferRepo, digestRepo,
		time.Duration(appCfg.DedupWindowDays)*24*time.Hour,
		time.Duration(appCfg.PaperWindowDays)*24*time.Hour,
		appCfg.Version)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      api.NewServer(handler),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("HTTP server error", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped")
	}
}
