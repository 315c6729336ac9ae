package ports

import (
	"context"
	"io"

	"github.com/metrodocs/docflow/internal/core/domain"
)

// UploadRequest carries one raw file plus its user-supplied metadata.
// CreatorID is passed explicitly; the pipeline reads no ambient user context.
type UploadRequest struct {
	Filename    string
	MimeType    string
	Body        io.Reader
	Title       string
	Department  string
	Priority    domain.Priority
	Description string
	Tags        []string
	Language    string
	CreatorID   string
}

// ProcessedResult is returned to the upload caller for immediate display.
type ProcessedResult struct {
	Document    *domain.Document
	Summary     string
	KeyInsights []string
}

// DocumentIntake is the inbound contract for the full upload pipeline.
type DocumentIntake interface {
	ProcessUpload(ctx context.Context, req UploadRequest) (*ProcessedResult, error)
}

// DocumentReprocessor re-runs enrichment and routing for a stored document.
type DocumentReprocessor interface {
	ReprocessByID(ctx context.Context, documentID string) error
}

// DocumentReader is the inbound read model for document metadata/state.
type DocumentReader interface {
	GetByID(ctx context.Context, id string) (*domain.Document, error)
}

// EventReader lists a document's processing trail.
type EventReader interface {
	ListByDocument(ctx context.Context, documentID string) ([]domain.ProcessingEvent, error)
}
