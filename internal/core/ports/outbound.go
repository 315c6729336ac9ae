package ports

import (
	"context"
	"io"

	"github.com/metrodocs/docflow/internal/core/domain"
)

// DocumentRepository persists and reads document state.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus) error
	ApplyResult(ctx context.Context, id string, result domain.ProcessingResult) (*domain.Document, error)
}

// EventRepository appends and lists processing audit events. There is no
// update or delete: the trail is append-only.
type EventRepository interface {
	Append(ctx context.Context, event *domain.ProcessingEvent) error
	ListByDocument(ctx context.Context, documentID string) ([]domain.ProcessingEvent, error)
}

// BlobStore stores uploaded source files. Put must refuse to overwrite an
// existing path.
type BlobStore interface {
	Put(ctx context.Context, path, contentType string, content io.Reader) error
	Open(ctx context.Context, path string) (io.ReadCloser, error)
	PublicURL(path string) string
}

// TextRecognizer produces text from an image artifact.
type TextRecognizer interface {
	Recognize(ctx context.Context, image io.Reader, languageHint string) (domain.OCRResult, error)
}

// TextExtractor extracts native text from non-image artifacts by MIME type.
type TextExtractor interface {
	Supports(mimeType string) bool
	Extract(ctx context.Context, mimeType string, content io.Reader) (string, error)
}

// Enricher runs the two independent AI enrichment calls.
type Enricher interface {
	Summarize(ctx context.Context, text, languageHint string) (domain.Summary, error)
	Classify(ctx context.Context, text string) (domain.Classification, error)
}

// Notifier publishes table-scoped change notifications and reprocess
// requests, and lets the worker consume the latter.
type Notifier interface {
	PublishDocumentChanged(ctx context.Context, documentID string) error
	PublishReprocessRequested(ctx context.Context, documentID string) error
	SubscribeReprocessRequested(ctx context.Context, handler func(context.Context, string) error) error
}
