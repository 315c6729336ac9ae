package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/metrodocs/docflow/internal/config"
	"github.com/metrodocs/docflow/internal/core/ports"
	"github.com/metrodocs/docflow/internal/core/routing"
	"github.com/metrodocs/docflow/internal/core/usecase"
	"github.com/metrodocs/docflow/internal/infrastructure/extract"
	"github.com/metrodocs/docflow/internal/infrastructure/llm/openai"
	"github.com/metrodocs/docflow/internal/infrastructure/ocr/tesseract"
	"github.com/metrodocs/docflow/internal/infrastructure/queue/nats"
	"github.com/metrodocs/docflow/internal/infrastructure/repository/postgres"
	"github.com/metrodocs/docflow/internal/infrastructure/resilience"
	"github.com/metrodocs/docflow/internal/infrastructure/storage/gcs"
	"github.com/metrodocs/docflow/internal/infrastructure/storage/localfs"
)

type App struct {
	Config config.Config
	Logger *slog.Logger

	Queue       *nats.Queue
	Repo        ports.DocumentRepository
	Events      ports.EventRepository
	IntakeUC    ports.DocumentIntake
	ReprocessUC ports.DocumentReprocessor

	// FileHandler serves stored blobs over HTTP when the localfs backend is
	// active; nil for remote backends with their own public URLs.
	FileHandler http.Handler

	closeFn func()
}

func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	repo := postgres.NewDocumentRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	events := postgres.NewEventRepository(db)

	executor := resilience.NewExecutor(resilience.DefaultPolicy())

	var blobs ports.BlobStore
	var fileHandler http.Handler
	var closeStorage func()
	switch cfg.StorageBackend {
	case "gcs":
		store, err := gcs.New(ctx, cfg.GCSBucket)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("init gcs storage: %w", err)
		}
		blobs = store
		closeStorage = func() { _ = store.Close() }
	default:
		store, err := localfs.New(cfg.StoragePath, cfg.PublicBaseURL)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("init local storage: %w", err)
		}
		blobs = store
		fileHandler = http.FileServer(http.Dir(cfg.StoragePath))
	}

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSChangedSubject, cfg.NATSReprocessSubject, nats.Options{
		ResilienceExecutor: executor,
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	// A missing AI credential fails startup here, before any document can
	// reach the enrichment stage.
	openaiClient, err := openai.New(
		cfg.OpenAIBaseURL,
		cfg.OpenAIAPIKey,
		cfg.OpenAIModel,
		time.Duration(cfg.OpenAITimeoutSeconds)*time.Second,
		executor,
	)
	if err != nil {
		queue.Close()
		_ = db.Close()
		return nil, fmt.Errorf("init openai client: %w", err)
	}
	enricher := openai.NewEnricher(openaiClient)

	recognizer := tesseract.New(cfg.OCRBaseURL, time.Duration(cfg.OCRTimeoutSeconds)*time.Second, executor)
	extractor := extract.New()

	rules := routing.DefaultRules()
	if cfg.RoutingRulesPath != "" {
		rules, err = routing.LoadFile(cfg.RoutingRulesPath)
		if err != nil {
			queue.Close()
			_ = db.Close()
			return nil, fmt.Errorf("load routing rules: %w", err)
		}
	}

	intakeUC := usecase.NewIntakeUseCase(repo, events, blobs, recognizer, extractor, enricher, queue, rules, logger)
	reprocessUC := usecase.NewReprocessUseCase(repo, events, blobs, recognizer, extractor, enricher, queue, rules, logger)

	return &App{
		Config: cfg,
		Logger: logger,

		Queue:       queue,
		Repo:        repo,
		Events:      events,
		IntakeUC:    intakeUC,
		ReprocessUC: reprocessUC,
		FileHandler: fileHandler,

		closeFn: func() {
			queue.Close()
			if closeStorage != nil {
				closeStorage()
			}
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
