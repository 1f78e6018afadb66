package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/alexanderramin/sitemenu/internal/cli"
	"github.com/alexanderramin/sitemenu/internal/config"
	"github.com/alexanderramin/sitemenu/internal/db"
	"github.com/alexanderramin/sitemenu/internal/metrics"
	"github.com/alexanderramin/sitemenu/internal/repository"
	"github.com/alexanderramin/sitemenu/internal/service"
	"github.com/alexanderramin/sitemenu/internal/telemetry"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Config file: SITEMENU_CONFIG, else sitemenu.yaml in . or ~/.sitemenu
	cfg, err := config.Load(os.Getenv("SITEMENU_CONFIG"))
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ctx := context.Background()
	shutdownTracing, err := telemetry.Setup(ctx, cfg.OTel)
	if err != nil {
		return fmt.Errorf("setting up tracing: %w", err)
	}
	defer func() { _ = shutdownTracing(ctx) }()

	// Open database
	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	siteRepo := repository.NewSQLiteSiteRepo(database)
	pageRepo := repository.NewSQLitePageRepo(database)
	menuRepo := repository.NewSQLiteMenuRepo(database)

	// Wire unit of work for transactional operations
	uow := db.NewSQLiteUnitOfWork(database)

	var observer service.UseCaseObserver = service.NoopUseCaseObserver{}
	if cfg.LogUseCases {
		observer = service.NewSlogUseCaseObserver(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	}
	recorder := metrics.NewPrometheusRecorder(nil)

	app := &cli.App{
		Sites: service.NewSiteService(siteRepo, uow),
		Pages: service.NewPageService(pageRepo, uow),
		Menus: service.NewMenuService(menuRepo, uow, observer),
		Navigation: service.NewNavigationService(menuRepo, pageRepo,
			service.WithRecorder(recorder),
			service.WithObserver(observer),
		),
		Import:  service.NewImportService(uow, observer),
		Config:  cfg,
		Metrics: recorder.HTTPHandler(),
	}

	// Forms and confirmations only run on a terminal.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	// Execute root command
	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}
