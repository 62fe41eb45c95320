package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/studioflow/internal/app"
	"github.com/MrJamesThe3rd/studioflow/internal/cli"
	"github.com/MrJamesThe3rd/studioflow/internal/config"
	"github.com/MrJamesThe3rd/studioflow/internal/database"
	"github.com/MrJamesThe3rd/studioflow/internal/logging"
	"github.com/MrJamesThe3rd/studioflow/internal/retry"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := logging.Setup(cfg.App.LogFormat, cfg.App.LogLevel)
	if err != nil {
		return err
	}

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	db, err := database.New(cfg.DB.Driver, cfg.ConnectionString())
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
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
		ErrorBackoff: cfg.Scheduler.ErrorBackoff,
		RunTimeout:   cfg.Scheduler.RunTimeout,
	})
	defer a.Close()

	return cli.NewRootCmd(a).Execute()
}
