package main

import (
	"context"
	"flag"
	"os"

	"pfm/internal/auth"
	"pfm/internal/cli"
	"pfm/internal/config"
	"pfm/internal/services"
	"pfm/internal/snapshot"
)

func main() {
	dbPath := flag.String("db", "", "path to the database file (overrides PFM_DB_PATH)")
	flag.Parse()

	cli.LoadEnvFile()

	cfg := config.Load()
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}

	logger := cli.SetupLogger(cfg.SlogLevel())
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	ledger := cli.InitLedger(logger, cfg.DBPath)
	defer ledger.Close()

	budgets := services.NewBudgetEngine(ledger)
	app := cli.NewApp(
		os.Stdin,
		os.Stdout,
		auth.NewService(ledger),
		services.NewTransactionService(ledger, budgets),
		budgets,
		services.NewReportEngine(ledger),
		snapshot.New(ledger.Path()),
		cfg.BackupDir,
	)

	if err := app.Run(context.Background()); err != nil {
		logger.Error("Session ended with error", "error", err)
		os.Exit(1)
	}

	logger.Info("Session closed", "db", cfg.DBPath)
}
