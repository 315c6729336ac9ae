package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/metrodocs/docflow/internal/core/domain"
	"github.com/metrodocs/docflow/internal/core/routing"
)

func newReprocessFixture(doc *domain.Document) (*ReprocessUseCase, *repoFake, *eventsFake, *enricherFake) {
	repo := &repoFake{getDoc: doc}
	events := &eventsFake{}
	enricher := &enricherFake{
		summary: domain.Summary{Summary: "fresh summary", KeyInsights: []string{"fresh insight"}},
		cls:     domain.Classification{Category: "engineering", Confidence: 0.7, Tags: []string{"maintenance"}},
	}
	uc := NewReprocessUseCase(
		repo, events, &blobFake{openData: "stored bytes"},
		&recognizerFake{result: domain.OCRResult{Text: "ocr text", Confidence: 0.8}},
		&extractorFake{supported: map[string]bool{"application/pdf": true}, text: "pdf text"},
		enricher, &notifierFake{}, routing.DefaultRules(), discardLogger(),
	)
	return uc, repo, events, enricher
}

func storedDoc() *domain.Document {
	return &domain.Document{
		ID:         "doc-1",
		Title:      "Pump Maintenance Schedule",
		Department: "Operations",
		FileType:   "application/pdf",
		Priority:   domain.PriorityMedium,
		Status:     domain.StatusReady,
		AISummary:  "stale summary",
		AIInsights: []string{"stale insight"},
		Tags:       []string{"pumps"},
	}
}

func TestReprocessOverwritesEnrichmentFields(t *testing.T) {
	uc, repo, events, _ := newReprocessFixture(storedDoc())

	if err := uc.ReprocessByID(context.Background(), "doc-1"); err != nil {
		t.Fatalf("ReprocessByID() error = %v", err)
	}
	if len(repo.statusCalls) != 1 || repo.statusCalls[0] != domain.StatusProcessing {
		t.Fatalf("expected processing status first, got %+v", repo.statusCalls)
	}
	if repo.applied == nil {
		t.Fatalf("expected final combined update")
	}
	if repo.applied.AISummary != "fresh summary" {
		t.Fatalf("expected overwrite, got %q", repo.applied.AISummary)
	}
	if len(repo.applied.AIInsights) != 1 || repo.applied.AIInsights[0] != "fresh insight" {
		t.Fatalf("expected insights replaced, got %+v", repo.applied.AIInsights)
	}
	if repo.applied.Status != domain.StatusReady {
		t.Fatalf("expected ready, got %s", repo.applied.Status)
	}
	// Title matches the maintenance rule regardless of the new category.
	if repo.applied.Department != "Engineering" {
		t.Fatalf("expected Engineering, got %s", repo.applied.Department)
	}
	if len(events.byStage(domain.StageRouted, domain.EventCompleted)) != 1 {
		t.Fatalf("expected routed event, got %+v", events.events)
	}
}

func TestReprocessMergesTagsAgainstCurrentRow(t *testing.T) {
	uc, repo, _, _ := newReprocessFixture(storedDoc())

	if err := uc.ReprocessByID(context.Background(), "doc-1"); err != nil {
		t.Fatalf("ReprocessByID() error = %v", err)
	}
	tags := strings.Join(repo.applied.Tags, ",")
	if tags != "pumps,maintenance" {
		t.Fatalf("expected existing tags preserved and merged, got %q", tags)
	}
}

func TestReprocessUnknownDocumentFails(t *testing.T) {
	uc, repo, _, _ := newReprocessFixture(storedDoc())
	repo.getErr = domain.ErrDocumentNotFound

	err := uc.ReprocessByID(context.Background(), "missing")
	if !domain.IsKind(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestReprocessStatusWriteFailurePropagates(t *testing.T) {
	uc, repo, _, _ := newReprocessFixture(storedDoc())
	repo.statusErr = errors.New("db down")

	if err := uc.ReprocessByID(context.Background(), "doc-1"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestReprocessSkipsEnrichmentWithoutAnyText(t *testing.T) {
	doc := storedDoc()
	doc.Title = "   "
	doc.Description = ""
	doc.FileType = "application/zip"
	uc, _, events, enricher := newReprocessFixture(doc)

	if err := uc.ReprocessByID(context.Background(), "doc-1"); err != nil {
		t.Fatalf("ReprocessByID() error = %v", err)
	}
	if enricher.lastInput != "" {
		t.Fatalf("expected no AI calls, got input %q", enricher.lastInput)
	}
	if len(events.byStage(domain.StageAICategorized, domain.EventInProgress)) != 0 {
		t.Fatalf("expected no AI events, got %+v", events.events)
	}
}
