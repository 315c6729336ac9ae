package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/metrodocs/docflow/internal/core/domain"
	"github.com/metrodocs/docflow/internal/core/ports"
	"github.com/metrodocs/docflow/internal/core/routing"
)

// IntakeUseCase runs the full upload pipeline for one document: blob upload,
// record creation, best-effort extraction and enrichment, routing and the
// final combined update. Blob upload and record creation are the only fatal
// stages; once both succeed the document always reaches status=ready.
type IntakeUseCase struct {
	repo     ports.DocumentRepository
	notifier ports.Notifier
	pipeline pipeline
}

func NewIntakeUseCase(
	repo ports.DocumentRepository,
	events ports.EventRepository,
	blobs ports.BlobStore,
	recognizer ports.TextRecognizer,
	extractor ports.TextExtractor,
	enricher ports.Enricher,
	notifier ports.Notifier,
	rules []routing.Rule,
	logger *slog.Logger,
) *IntakeUseCase {
	return &IntakeUseCase{
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

func (uc *IntakeUseCase) ProcessUpload(ctx context.Context, req ports.UploadRequest) (*ports.ProcessedResult, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "process upload", errors.New("title is required"))
	}
	if strings.TrimSpace(req.Department) == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "process upload", errors.New("department is required"))
	}
	if req.Body == nil {
		return nil, domain.WrapError(domain.ErrInvalidInput, "process upload", errors.New("file body is required"))
	}

	path := BlobPath(req.CreatorID, time.Now(), req.Filename)
	if err := uc.pipeline.blobs.Put(ctx, path, req.MimeType, req.Body); err != nil {
		return nil, fmt.Errorf("upload to blob store: %w", err)
	}

	priority := req.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}
	fileType := req.MimeType
	if fileType == "" {
		fileType = strings.TrimPrefix(filepath.Ext(req.Filename), ".")
	}
	if fileType == "" {
		fileType = "bin"
	}

	now := time.Now().UTC()
	doc := &domain.Document{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		Source:      "upload",
		FilePath:    path,
		FileType:    fileType,
		Language:    req.Language,
		Department:  req.Department,
		Tags:        append([]string{}, req.Tags...),
		Priority:    priority,
		Status:      domain.StatusProcessing,
		CreatedBy:   req.CreatorID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("create document record: %w", err)
	}

	uc.pipeline.appendEvent(ctx, doc.ID, domain.StageUploaded, domain.EventCompleted, "File uploaded to storage")

	extracted := uc.pipeline.runExtraction(ctx, doc)
	outcome := uc.pipeline.runEnrichment(ctx, doc, extracted)

	result, decision := uc.pipeline.finalize(ctx, doc, outcome)
	final := uc.pipeline.applyResult(ctx, uc.repo, doc, result)
	uc.pipeline.appendEvent(ctx, doc.ID, domain.StageRouted, domain.EventCompleted, "Routed to "+decision.Department)

	if uc.notifier != nil {
		if err := uc.notifier.PublishDocumentChanged(ctx, doc.ID); err != nil {
			uc.pipeline.logger.Warn("publish_change_failed", "document_id", doc.ID, "error", err)
		}
	}

	processed := &ports.ProcessedResult{Document: final}
	if outcome.summary.OK() {
		processed.Summary = outcome.summary.Value.Summary
		processed.KeyInsights = domain.CapInsights(outcome.summary.Value.KeyInsights)
	}
	return processed, nil
}

// BlobPath builds the storage path for an upload:
// {creator|anonymous}/{epochMillis}-{sanitizedFilename}.
func BlobPath(creatorID string, at time.Time, filename string) string {
	owner := creatorID
	if owner == "" {
		owner = "anonymous"
	}
	return fmt.Sprintf("%s/%d-%s", owner, at.UnixMilli(), sanitizeFilename(filename))
}

// sanitizeFilename replaces every character outside [A-Za-z0-9_.-] with '_'.
func sanitizeFilename(name string) string {
	base := filepath.Base(name)
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= 'A' && r <= 'Z':
			return r
		case r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	if base == "" || base == "." {
		return "document.bin"
	}
	return base
}
