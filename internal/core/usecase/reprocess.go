package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/metrodocs/docflow/internal/core/domain"
	"github.com/metrodocs/docflow/internal/core/ports"
	"github.com/metrodocs/docflow/internal/core/routing"
)

// ReprocessUseCase re-runs extraction, enrichment and routing for a document
// that already has a stored blob and row. Enrichment fields are overwritten
// wholesale, never merged with a previous run's output; tags merge-dedupe
// against the current row.
type ReprocessUseCase struct {
	repo     ports.DocumentRepository
	notifier ports.Notifier
	pipeline pipeline
}

func NewReprocessUseCase(
	repo ports.DocumentRepository,
	events ports.EventRepository,
	blobs ports.BlobStore,
	recognizer ports.TextRecognizer,
	extractor ports.TextExtractor,
	enricher ports.Enricher,
	notifier ports.Notifier,
	rules []routing.Rule,
	logger *slog.Logger,
) *ReprocessUseCase {
	return &ReprocessUseCase{
		repo:     repo,
		notifier: notifier,
		pipeline: pipeline{
			events:     events,
			blobs:      blobs,
			recognizer: recognizer,
			extractor:  extractor,
			enricher:   enricher,
			rules:      rules,
			logger:     logger,
		},
	}
}

func (uc *ReprocessUseCase) ReprocessByID(ctx context.Context, documentID string) error {
	doc, err := uc.repo.GetByID(ctx, documentID)
	if err != nil {
		return fmt.Errorf("fetch document by id: %w", err)
	}

	if err := uc.repo.UpdateStatus(ctx, doc.ID, domain.StatusProcessing); err != nil {
		return fmt.Errorf("set status=processing: %w", err)
	}
	doc.Status = domain.StatusProcessing

	extracted := uc.pipeline.runExtraction(ctx, doc)
	outcome := uc.pipeline.runEnrichment(ctx, doc, extracted)

	result, decision := uc.pipeline.finalize(ctx, doc, outcome)
	uc.pipeline.applyResult(ctx, uc.repo, doc, result)
	uc.pipeline.appendEvent(ctx, doc.ID, domain.StageRouted, domain.EventCompleted, "Routed to "+decision.Department)

	if uc.notifier != nil {
		if err := uc.notifier.PublishDocumentChanged(ctx, doc.ID); err != nil {
			uc.pipeline.logger.Warn("publish_change_failed", "document_id", doc.ID, "error", err)
		}
	}
	return nil
}

var _ ports.DocumentReprocessor = (*ReprocessUseCase)(nil)
var _ ports.DocumentIntake = (*IntakeUseCase)(nil)
