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

	"github.com/kbarbary/ghdash/app/api"
	"github.com/kbarbary/ghdash/app/cfg"
	"github.com/kbarbary/ghdash/app/database"
	"github.com/kbarbary/ghdash/app/fetch"
	"github.com/kbarbary/ghdash/app/github"
	"github.com/kbarbary/ghdash/app/page"
	"github.com/kbarbary/ghdash/app/users"
)

func main() {
	appCfg, command, err := cfg.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if appCfg == nil {
		// help was shown
		return
	}

	level := slog.LevelInfo
	if appCfg.Debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	switch command {
	case "fetch":
		os.Exit(runFetch(appCfg))
	case "build":
		os.Exit(runBuild(appCfg))
	case "serve":
		os.Exit(runServe(appCfg))
	case "":
		fmt.Fprintln(os.Stderr, "usage: ghdash [options] <fetch|build|serve>")
		os.Exit(2)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q (expected fetch, build or serve)\n", command)
		os.Exit(2)
	}
}

func openDatabase(appCfg *cfg.Cfg) (*database.DB, error) {
	db, err := database.NewConnection(appCfg.DBPath)
	if err != nil {
		return nil, err
	}

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	slog.Debug("Database ready", "path", appCfg.DBPath, "schema_version", version, "dirty", dirty)

	return db, nil
}

func newFetcher(appCfg *cfg.Cfg, db *database.DB) (*fetch.Fetcher, *fetch.QuotaTracker) {
	client := github.NewClient(github.DefaultBaseURL,
		github.StaticCredentials(appCfg.Token), appCfg.UserAgent, appCfg.RequestTimeout)

	quota := fetch.NewQuotaTracker()
	fetcher := fetch.NewFetcher(client, database.NewUserRepository(db),
		database.NewEventRepository(db), quota, fetch.Options{
			Policy:     appCfg.Policy,
			MaxPages:   appCfg.MaxPages,
			MaxRetries: appCfg.MaxRetries,
		})

	return fetcher, quota
}

// runFetch performs one polling pass over the tracked users. Exit status
// is zero unless some user ended the run in a non-retryable error.
func runFetch(appCfg *cfg.Cfg) int {
	logins, err := users.Load(appCfg.UsersFile)
	if err != nil {
		slog.Error("Failed to load users", "error", err)
		return 1
	}
	if len(logins) == 0 {
		slog.Warn("No users to poll", "file", appCfg.UsersFile)
		return 0
	}

	db, err := openDatabase(appCfg)
	if err != nil {
		slog.Error("Failed to open database", "error", err)
		return 1
	}
	defer db.Close()

	fetcher, _ := newFetcher(appCfg, db)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	summary := fetcher.Run(ctx, logins)

	for _, result := range summary.Results {
		slog.Info(result.Describe())
	}
	if summary.Deferred {
		slog.Warn("Request budget exhausted, polling halted",
			"reset_in", summary.ResetIn.Round(time.Second))
	}
	slog.Info("Fetch pass complete", "users", len(logins), "new_events", summary.NewEvents())

	if summary.Failed() {
		return 1
	}
	return 0
}

// runBuild renders the stored history into a static page.
func runBuild(appCfg *cfg.Cfg) int {
	db, err := openDatabase(appCfg)
	if err != nil {
		slog.Error("Failed to open database", "error", err)
		return 1
	}
	defer db.Close()

	stored, err := database.NewEventRepository(db).GetAllEvents()
	if err != nil {
		slog.Error("Failed to read events", "error", err)
		return 1
	}

	builder, err := page.NewBuilder()
	if err != nil {
		slog.Error("Failed to initialize page builder", "error", err)
		return 1
	}

	if err := builder.WriteFile(appCfg.OutputFile, stored); err != nil {
		slog.Error("Failed to write page", "error", err)
		return 1
	}

	slog.Info("Page written", "path", appCfg.OutputFile, "events", len(stored))
	return 0
}

// runServe serves the dashboard over HTTP; each page load runs a fetch
// pass (throttling keeps that cheap) and renders from the store.
func runServe(appCfg *cfg.Cfg) int {
	logins, err := users.Load(appCfg.UsersFile)
	if err != nil {
		slog.Error("Failed to load users", "error", err)
		return 1
	}

	db, err := openDatabase(appCfg)
	if err != nil {
		slog.Error("Failed to open database", "error", err)
		return 1
	}
	defer db.Close()

	builder, err := page.NewBuilder()
	if err != nil {
		slog.Error("Failed to initialize page builder", "error", err)
		return 1
	}

	fetcher, quota := newFetcher(appCfg, db)
	handler := api.NewHandler(fetcher, quota,
		database.NewUserRepository(db), database.NewEventRepository(db), builder, logins)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      api.NewServer(handler),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 3 * time.Minute, // a cold dashboard load polls every user
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", appCfg.Port, "version", appCfg.Version)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal, shutting down", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("HTTP server error", "error", err)
		return 1
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
		return 1
	}

	slog.Info("Shutdown complete")
	return 0
}
