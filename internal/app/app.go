// Package app wires configuration into the processing services shared by the
// HTTP server and the command line.
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"alfredoptarigan/resume-screener/internal/config"
	"alfredoptarigan/resume-screener/internal/repositories"
	"alfredoptarigan/resume-screener/internal/services"
)

type App struct {
	cfg       *config.Config
	logger    *zap.Logger
	extractor services.TextExtractor
	fields    services.FieldExtractor
	matcher   services.SkillMatcher
}

func New(cfg *config.Config, logger *zap.Logger) *App {
	recognizer := NewRecognizer(cfg, logger)

	extractor := services.NewTextExtractor(
		services.NewPDFReader(logger),
		services.NewDocxReader(),
		services.NewTesseractOCR(cfg.OCR.TesseractPath, cfg.OCR.Language, logger),
		logger,
	)

	return &App{
		cfg:       cfg,
		logger:    logger,
		extractor: extractor,
		fields:    services.NewFieldExtractor(recognizer, cfg.Pipeline.SkillsWindow, logger),
		matcher:   services.NewSkillMatcher(),
	}
}

// Pipeline returns a pipeline over the shared stages. A nil store disables
// persistence.
func (a *App) Pipeline(store repositories.CandidateStore) services.Pipeline {
	return services.NewPipeline(
		a.extractor,
		a.fields,
		a.matcher,
		store,
		services.PipelineOptions{
			Concurrency:     a.cfg.Pipeline.Concurrency,
			DocumentTimeout: a.cfg.Pipeline.DocumentTimeout,
		},
		a.logger,
	)
}

// NewRecognizer returns a lazily built Gemini recognizer, or a no-op one
// when NER is disabled or no API key is configured.
func NewRecognizer(cfg *config.Config, logger *zap.Logger) services.EntityRecognizer {
	if !cfg.Gemini.NEREnabled || cfg.Gemini.APIKey == "" {
		logger.Info("entity recognition disabled, names come from the first line only")
		return services.NopRecognizer{}
	}

	return services.NewSharedRecognizer(func() (services.EntityRecognizer, error) {
		gemini, err := services.NewGeminiService(context.Background(), cfg.Gemini.APIKey, cfg.Gemini.Model, logger)
		if err != nil {
			return nil, err
		}
		logger.Info("entity recognizer ready", zap.String("model", cfg.Gemini.Model))
		return services.NewGeminiRecognizer(gemini, cfg.Gemini.MaxRetries, logger), nil
	})
}

// OpenStore opens the configured candidate store. The returned func releases
// its resources.
func OpenStore(cfg *config.Config, logger *zap.Logger) (repositories.CandidateStore, func() error, error) {
	switch cfg.Store.Backend {
	case config.StoreBackendWorkbook:
		logger.Info("using workbook store", zap.String("path", cfg.Store.WorkbookPath))
		return repositories.NewWorkbookStore(cfg.Store.WorkbookPath, logger), func() error { return nil }, nil
	case config.StoreBackendPostgres:
		db, err := config.InitDatabase(cfg, logger)
		if err != nil {
			return nil, nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get database handle: %w", err)
		}
		return repositories.NewCandidateRepository(db), sqlDB.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}
