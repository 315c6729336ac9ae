package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/metrodocs/docflow/internal/core/domain"
	"github.com/metrodocs/docflow/internal/core/ports"
	"github.com/metrodocs/docflow/internal/core/routing"
)

// enrichmentInputLimit bounds the text handed to the AI service when falling
// back to title+description.
const enrichmentInputLimit = 4000

// pipeline holds the stage logic shared by first-time intake and reprocessing.
// Extraction and enrichment are best-effort: their failures become error
// events and safe defaults, never pipeline failures.
type pipeline struct {
	events     ports.EventRepository
	blobs      ports.BlobStore
	recognizer ports.TextRecognizer
	extractor  ports.TextExtractor
	enricher   ports.Enricher
	rules      []routing.Rule
	logger     *slog.Logger
}

type enrichmentOutcome struct {
	attempted      bool
	summary        stageResult[domain.Summary]
	classification stageResult[domain.Classification]
}

func (p *pipeline) appendEvent(ctx context.Context, documentID string, stage domain.Stage, status domain.EventStatus, message string) {
	event := &domain.ProcessingEvent{
		ID:         uuid.NewString(),
		DocumentID: documentID,
		Stage:      stage,
		Status:     status,
		Message:    message,
		CreatedAt:  time.Now().UTC(),
	}
	if err := p.events.Append(ctx, event); err != nil {
		p.logger.Warn("append_event_failed",
			"document_id", documentID,
			"stage", string(stage),
			"status", string(status),
			"error", err,
		)
	}
}

// runExtraction produces raw text for the enrichment stage. Images go through
// the OCR service; PDF/spreadsheet/plain uploads go through the native
// extractor; everything else skips the stage and yields empty text.
func (p *pipeline) runExtraction(ctx context.Context, doc *domain.Document) string {
	switch {
	case strings.HasPrefix(doc.FileType, "image/"):
		p.appendEvent(ctx, doc.ID, domain.StageOCR, domain.EventInProgress, "OCR started")
		result := softly(func() (domain.OCRResult, error) {
			reader, err := p.blobs.Open(ctx, doc.FilePath)
			if err != nil {
				return domain.OCRResult{}, fmt.Errorf("open stored file: %w", err)
			}
			defer reader.Close()
			return p.recognizer.Recognize(ctx, reader, ocrLanguage(doc.Language))
		})
		if !result.OK() {
			p.appendEvent(ctx, doc.ID, domain.StageOCR, domain.EventError, "OCR failed: "+result.Err.Error())
			return ""
		}
		p.appendEvent(ctx, doc.ID, domain.StageOCR, domain.EventCompleted,
			fmt.Sprintf("OCR completed (confidence %.2f)", result.Value.Confidence))
		return result.Value.Text

	case p.extractor != nil && p.extractor.Supports(doc.FileType):
		p.appendEvent(ctx, doc.ID, domain.StageOCR, domain.EventInProgress, "Text extraction started")
		result := softly(func() (string, error) {
			reader, err := p.blobs.Open(ctx, doc.FilePath)
			if err != nil {
				return "", fmt.Errorf("open stored file: %w", err)
			}
			defer reader.Close()
			return p.extractor.Extract(ctx, doc.FileType, reader)
		})
		if !result.OK() {
			p.appendEvent(ctx, doc.ID, domain.StageOCR, domain.EventError, "Text extraction failed: "+result.Err.Error())
			return ""
		}
		p.appendEvent(ctx, doc.ID, domain.StageOCR, domain.EventCompleted, "Text extraction completed")
		return result.Value

	default:
		return ""
	}
}

// runEnrichment issues the two independent AI calls. The stage is skipped
// entirely (no events) when the input text is blank after trimming.
func (p *pipeline) runEnrichment(ctx context.Context, doc *domain.Document, extracted string) enrichmentOutcome {
	base := extracted
	if base == "" {
		base = truncate(doc.Title+"\n"+doc.Description, enrichmentInputLimit)
	}
	if strings.TrimSpace(base) == "" {
		return enrichmentOutcome{}
	}

	p.appendEvent(ctx, doc.ID, domain.StageAICategorized, domain.EventInProgress, "AI analysis started")

	outcome := enrichmentOutcome{attempted: true}
	outcome.summary = softly(func() (domain.Summary, error) {
		return p.enricher.Summarize(ctx, base, summaryLanguage(doc.Language))
	})
	if !outcome.summary.OK() {
		p.appendEvent(ctx, doc.ID, domain.StageAICategorized, domain.EventError,
			"Summarization failed: "+outcome.summary.Err.Error())
	}

	outcome.classification = softly(func() (domain.Classification, error) {
		return p.enricher.Classify(ctx, base)
	})
	if !outcome.classification.OK() {
		p.appendEvent(ctx, doc.ID, domain.StageAICategorized, domain.EventError,
			"Classification failed: "+outcome.classification.Err.Error())
	}

	if outcome.summary.OK() && outcome.classification.OK() {
		p.appendEvent(ctx, doc.ID, domain.StageAICategorized, domain.EventCompleted, "AI analysis completed")
	}
	return outcome
}

// finalize routes the enriched snapshot and builds the single combined write
// that ends the run. Routing is pure and cannot fail.
func (p *pipeline) finalize(ctx context.Context, doc *domain.Document, outcome enrichmentOutcome) (domain.ProcessingResult, routing.Decision) {
	category := doc.Category
	var aiTags []string
	if outcome.classification.OK() {
		if outcome.classification.Value.Category != "" {
			category = outcome.classification.Value.Category
		}
		aiTags = outcome.classification.Value.Tags
	}

	decision := routing.Route(routing.Snapshot{
		Title:      doc.Title,
		Category:   category,
		Department: doc.Department,
		Tags:       doc.Tags,
		Priority:   doc.Priority,
	}, p.rules)

	result := domain.ProcessingResult{
		Category:   category,
		Tags:       domain.MergeTags(doc.Tags, aiTags),
		Department: decision.Department,
		Priority:   decision.Priority,
		Status:     domain.StatusReady,
	}
	if outcome.summary.OK() {
		result.AISummary = outcome.summary.Value.Summary
		result.AIInsights = domain.CapInsights(outcome.summary.Value.KeyInsights)
	}
	return result, decision
}

// applyResult persists the combined final write. The store returning nothing,
// or failing outright, degrades to the in-memory snapshot with the result
// applied; by this point the document row exists and the run has succeeded.
func (p *pipeline) applyResult(ctx context.Context, repo ports.DocumentRepository, doc *domain.Document, result domain.ProcessingResult) *domain.Document {
	updated, err := repo.ApplyResult(ctx, doc.ID, result)
	if err != nil {
		p.logger.Warn("final_update_failed", "document_id", doc.ID, "error", err)
		updated = nil
	}
	if updated == nil {
		fallback := *doc
		fallback.Category = result.Category
		fallback.Tags = result.Tags
		fallback.Department = result.Department
		fallback.Priority = result.Priority
		fallback.Status = result.Status
		fallback.AISummary = result.AISummary
		fallback.AIInsights = result.AIInsights
		fallback.UpdatedAt = time.Now().UTC()
		return &fallback
	}
	return updated
}

func truncate(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	return text[:limit]
}

// ocrLanguage maps a document language to the recognizer's hint set.
func ocrLanguage(language string) string {
	switch language {
	case "ml":
		return "mal"
	case "mixed":
		return "eng+mal"
	default:
		return "eng"
	}
}

func summaryLanguage(language string) string {
	if language == "" {
		return "en"
	}
	return language
}
