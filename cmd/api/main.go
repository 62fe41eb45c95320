package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/studioflow/internal/app"
	"github.com/MrJamesThe3rd/studioflow/internal/config"
	"github.com/MrJamesThe3rd/studioflow/internal/database"
	studioHttp "github.com/MrJamesThe3rd/studioflow/internal/http"
	"github.com/MrJamesThe3rd/studioflow/internal/http/actor"
	automationHandler "github.com/MrJamesThe3rd/studioflow/internal/http/automation"
	documentHandler "github.com/MrJamesThe3rd/studioflow/internal/http/document"
	expenseHandler "github.com/MrJamesThe3rd/studioflow/internal/http/expense"
	projectHandler "github.com/MrJamesThe3rd/studioflow/internal/http/project"
	"github.com/MrJamesThe3rd/studioflow/internal/logging"
	"github.com/MrJamesThe3rd/studioflow/internal/retry"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger, err := logging.Setup(cfg.App.LogFormat, cfg.App.LogLevel)
	if err != nil {
		slog.Error("failed to set up logging", "error", err)
		os.Exit(1)
	}

	loc, err := cfg.Location()
	if err != nil {
		logger.Error("failed to load timezone", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.DB.Driver, cfg.ConnectionString())
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	a := app.New(db, app.Options{
		Location: loc,
		Logger:   logger,
		Retry: retry.Policy{
			Attempts:  cfg.Retry.Attempts,
			BaseDelay: cfg.Retry.BaseDelay,
			Retryable: database.IsTransient,
		},
		FallbackInterval: cfg.Scheduler.FallbackInterval,
		ErrorBackoff:     cfg.Scheduler.ErrorBackoff,
		RunTimeout:       cfg.Scheduler.RunTimeout,
	})
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Scheduler.RunOnStart {
		res := a.Automations.RunAutomations(ctx)
		if !res.Success {
			logger.Warn("startup automations finished with failures")
		}
	} else if _, err := a.Scanner.ScheduleNextDeadlineCheck(ctx); err != nil {
		logger.Error("failed to arm deadline check", "error", err)
	}

	var (
		documentsH   = documentHandler.NewHandler(a.Documents)
		projectsH    = projectHandler.NewHandler(a.Projects)
		expensesH    = expenseHandler.NewHandler(a.ExpenseStore, a.Calendar)
		automationsH = automationHandler.NewHandler(a.Automations, a.Scanner)
	)

	router := studioHttp.New(studioHttp.Options{
		CORSOrigins: cfg.Server.CORSOrigins,
		Timeout:     cfg.Server.Timeout,
		Actors:      actor.NewResolver(cfg.Auth.JWTSecret),
	}, documentsH, projectsH, expensesH, automationsH)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		logger.Info("starting server", "port", srv.Addr, "driver", cfg.DB.Driver)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", "error", err)
		}
	}
}
