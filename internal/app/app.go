package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"CategoryScanner/internal/aggregate"
	"CategoryScanner/internal/config"
	"CategoryScanner/internal/infrastructure/httpfetch"
	"CategoryScanner/internal/infrastructure/parser"
	"CategoryScanner/internal/infrastructure/storage"
	"CategoryScanner/internal/infrastructure/telegram"
	"CategoryScanner/internal/logging"
	"CategoryScanner/internal/report"
	"CategoryScanner/internal/scanner"
	"CategoryScanner/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg        config.Config
	pipeline   *usecase.Pipeline
	writer     report.Writer
	repository *storage.PostgresRepository
}

// New builds a runnable application instance. The report is rendered to out.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger, out io.Writer) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	origin, err := cfg.Crawl.ResolveOrigin()
	if err != nil {
		return nil, err
	}
	policy, err := aggregate.ParseFailurePolicy(cfg.Crawl.FailurePolicy)
	if err != nil {
		return nil, err
	}
	writer, err := report.New(cfg.Report.Format, out)
	if err != nil {
		return nil, err
	}

	registry := scanner.NewRegistry()
	registry.Register(parser.NewWikiScanner(parser.WikiOptions{
		ArticlePrefix:      cfg.Crawl.ArticlePrefix,
		NamespaceSeparator: cfg.Crawl.NamespaceSeparator,
		CategorySelector:   cfg.Crawl.CategorySelector,
		LinkLimit:          cfg.Crawl.LinkLimit,
	}, baseLogger.With("component", "scanner.wiki")))

	sc, err := registry.Resolve(cfg.Crawl.Scanner)
	if err != nil {
		return nil, err
	}

	fetcher := httpfetch.NewFetcher(&http.Client{Timeout: cfg.Crawl.RequestTimeout}, cfg.Crawl.UserAgent)

	aggregator := aggregate.New(fetcher, sc, origin,
		aggregate.WithConcurrency(cfg.Crawl.Concurrency),
		aggregate.WithFailurePolicy(policy),
		aggregate.WithLogger(baseLogger.With("component", "aggregator")),
	)

	deps := usecase.PipelineDeps{
		SeedURL:    cfg.Crawl.SeedURL,
		MinCount:   cfg.Report.MinCount,
		Fetcher:    fetcher,
		Scanner:    sc,
		Aggregator: aggregator,
		Logger:     baseLogger.With("component", "pipeline"),
	}

	application := &Application{cfg: cfg, writer: writer}

	if cfg.Database.DSN != "" {
		repo, err := storage.Open(ctx, cfg.Database.DSN)
		if err != nil {
			return nil, err
		}
		application.repository = repo
		deps.Repository = repo
	}

	if cfg.Notifications.Telegram.Enabled() {
		deps.Notifier = telegram.NewNotifier(cfg.Notifications.Telegram.BotToken, cfg.Notifications.Telegram.ChatID)
	}

	application.pipeline = usecase.NewPipeline(deps)
	return application, nil
}

// Run performs a single scan and renders its report.
func (a *Application) Run(ctx context.Context) error {
	rep, err := a.pipeline.Run(ctx)
	if err != nil {
		return err
	}
	return a.writer.Write(rep)
}

// Close releases the database connection, if any.
func (a *Application) Close() error {
	if a.repository == nil {
		return nil
	}
	return a.repository.Close()
}

// Show renders the stored report of a previous run. It requires a database DSN.
func Show(ctx context.Context, cfg config.Config, runID string, out io.Writer) error {
	if cfg.Database.DSN == "" {
		return fmt.Errorf("show requires database.dsn or DATABASE_DSN")
	}

	writer, err := report.New(cfg.Report.Format, out)
	if err != nil {
		return err
	}

	repo, err := storage.Open(ctx, cfg.Database.DSN)
	if err != nil {
		return err
	}
	defer repo.Close()

	return render(ctx, usecase.NewHistory(repo), runID, writer)
}

func render(ctx context.Context, history *usecase.History, runID string, writer report.Writer) error {
	rep, err := history.Load(ctx, runID)
	if err != nil {
		return err
	}
	return writer.Write(rep)
}
