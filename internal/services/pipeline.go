package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"alfredoptarigan/resume-screener/internal/logger"
	"alfredoptarigan/resume-screener/internal/models"
	"alfredoptarigan/resume-screener/internal/repositories"
)

const DefaultConcurrency = 3

type Pipeline interface {
	// Run processes every document independently and returns one result per
	// document in input order.
	Run(ctx context.Context, docs []models.Document, req models.JobRequirements) []models.DocumentResult
	// ProcessBatch parses the requirements, runs the batch and appends every
	// successful record to the store.
	ProcessBatch(ctx context.Context, docs []models.Document, rawRequirements []byte) (*models.BatchResult, error)
}

type PipelineOptions struct {
	Concurrency     int
	DocumentTimeout time.Duration
}

type pipeline struct {
	extractor TextExtractor
	fields    FieldExtractor
	matcher   SkillMatcher
	store     repositories.CandidateStore
	opts      PipelineOptions
	logger    *zap.Logger
}

// NewPipeline wires the processing stages. A nil store disables persistence.
func NewPipeline(
	extractor TextExtractor,
	fields FieldExtractor,
	matcher SkillMatcher,
	store repositories.CandidateStore,
	opts PipelineOptions,
	logger *zap.Logger,
) Pipeline {
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	return &pipeline{
		extractor: extractor,
		fields:    fields,
		matcher:   matcher,
		store:     store,
		opts:      opts,
		logger:    logger,
	}
}

// Run implements Pipeline.
func (p *pipeline) Run(ctx context.Context, docs []models.Document, req models.JobRequirements) []models.DocumentResult {
	results := make([]models.DocumentResult, len(docs))

	var g errgroup.Group
	g.SetLimit(p.opts.Concurrency)

	for i := range docs {
		g.Go(func() error {
			results[i] = p.processDocument(ctx, docs[i], req.Skills)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// ProcessBatch implements Pipeline.
func (p *pipeline) ProcessBatch(ctx context.Context, docs []models.Document, rawRequirements []byte) (*models.BatchResult, error) {
	req, err := models.ParseJobRequirements(rawRequirements)
	if err != nil {
		return nil, err
	}

	batch := &models.BatchResult{
		BatchID: uuid.New(),
		Results: p.Run(ctx, docs, req),
	}
	p.persist(ctx, batch)

	p.logger.Info("batch processed",
		logger.BatchID(batch.BatchID),
		zap.Strings("required_skills", req.Skills),
		zap.Int("documents", len(docs)),
		zap.Int("processed", batch.Processed()),
		zap.Int("failed", batch.Failed()),
	)

	return batch, nil
}

func (p *pipeline) processDocument(ctx context.Context, doc models.Document, required []string) (result models.DocumentResult) {
	result.Filename = doc.Filename
	log := p.logger.With(logger.Filename(doc.Filename))

	defer func() {
		if r := recover(); r != nil {
			log.Error("document processing panicked", zap.Any("panic", r))
			result = models.DocumentResult{
				Filename: doc.Filename,
				Err:      fmt.Errorf("failed to process %s: panic: %v", doc.Filename, r),
			}
		}
	}()

	if doc.Err != nil {
		result.Err = doc.Err
		log.Warn("document rejected", zap.Error(doc.Err))
		return result
	}

	if p.opts.DocumentTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.opts.DocumentTimeout)
		defer cancel()
	}

	text, err := p.extractor.Extract(ctx, doc)
	if err != nil {
		result.Err = err
		log.Warn("document failed", zap.Error(err))
		return result
	}

	record := p.fields.Extract(ctx, text)
	if record.HasSkills() {
		match := p.matcher.Match(required, record.Skills)
		record.FitScore = match.Score
		result.MatchedSkills = match.Matched
	}

	log.Debug("document processed",
		zap.Strings("skills", record.Skills),
		zap.Strings("matched_skills", result.MatchedSkills),
		zap.Float64("fit_score", record.FitScore),
	)

	result.Record = &record
	return result
}

// persist appends successful records in input order. A failed append marks
// only its own document.
func (p *pipeline) persist(ctx context.Context, batch *models.BatchResult) {
	if p.store == nil {
		return
	}

	for i := range batch.Results {
		res := &batch.Results[i]
		if !res.Succeeded() {
			continue
		}

		row := res.Record.ToRow()
		row.ID = uuid.New()
		row.BatchID = batch.BatchID
		row.SourceFile = res.Filename

		if err := p.store.Append(ctx, &row); err != nil {
			res.Err = fmt.Errorf("%w: %v", models.ErrPersistence, err)
			p.logger.Error("failed to persist candidate",
				logger.Filename(res.Filename),
				zap.Error(err),
			)
		}
	}
}
