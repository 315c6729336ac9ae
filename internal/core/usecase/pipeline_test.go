package usecase

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/metrodocs/docflow/internal/core/domain"
)

type repoFake struct {
	createErr error
	created   *domain.Document

	getDoc *domain.Document
	getErr error

	statusCalls []domain.DocumentStatus
	statusErr   error

	applied        *domain.ProcessingResult
	appliedID      string
	applyErr       error
	applyReturnNil bool
}

func (f *repoFake) Create(_ context.Context, doc *domain.Document) error {
	if f.createErr != nil {
		return f.createErr
	}
	copyDoc := *doc
	f.created = &copyDoc
	return nil
}

func (f *repoFake) GetByID(context.Context, string) (*domain.Document, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	copyDoc := *f.getDoc
	return &copyDoc, nil
}

func (f *repoFake) UpdateStatus(_ context.Context, _ string, status domain.DocumentStatus) error {
	f.statusCalls = append(f.statusCalls, status)
	return f.statusErr
}

func (f *repoFake) ApplyResult(_ context.Context, id string, result domain.ProcessingResult) (*domain.Document, error) {
	if f.applyErr != nil {
		return nil, f.applyErr
	}
	f.appliedID = id
	copyResult := result
	f.applied = &copyResult
	if f.applyReturnNil {
		return nil, nil
	}
	base := f.created
	if base == nil {
		base = f.getDoc
	}
	updated := *base
	updated.Category = result.Category
	updated.Tags = result.Tags
	updated.Department = result.Department
	updated.Priority = result.Priority
	updated.Status = result.Status
	updated.AISummary = result.AISummary
	updated.AIInsights = result.AIInsights
	return &updated, nil
}

type eventsFake struct {
	appendErr error
	events    []domain.ProcessingEvent
}

func (f *eventsFake) Append(_ context.Context, event *domain.ProcessingEvent) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.events = append(f.events, *event)
	return nil
}

func (f *eventsFake) ListByDocument(context.Context, string) ([]domain.ProcessingEvent, error) {
	return f.events, nil
}

func (f *eventsFake) byStage(stage domain.Stage, status domain.EventStatus) []domain.ProcessingEvent {
	var out []domain.ProcessingEvent
	for _, event := range f.events {
		if event.Stage == stage && event.Status == status {
			out = append(out, event)
		}
	}
	return out
}

type blobFake struct {
	putErr   error
	putPath  string
	putType  string
	putBody  string
	openData string
	openErr  error
}

func (f *blobFake) Put(_ context.Context, path, contentType string, content io.Reader) error {
	if f.putErr != nil {
		return f.putErr
	}
	raw, err := io.ReadAll(content)
	if err != nil {
		return err
	}
	f.putPath = path
	f.putType = contentType
	f.putBody = string(raw)
	return nil
}

func (f *blobFake) Open(context.Context, string) (io.ReadCloser, error) {
	if f.openErr != nil {
		return nil, f.openErr
	}
	return io.NopCloser(strings.NewReader(f.openData)), nil
}

func (f *blobFake) PublicURL(path string) string { return "https://blobs.test/" + path }

type recognizerFake struct {
	result  domain.OCRResult
	err     error
	gotLang string
}

func (f *recognizerFake) Recognize(_ context.Context, image io.Reader, languageHint string) (domain.OCRResult, error) {
	f.gotLang = languageHint
	_, _ = io.Copy(io.Discard, image)
	if f.err != nil {
		return domain.OCRResult{}, f.err
	}
	return f.result, nil
}

type extractorFake struct {
	supported map[string]bool
	text      string
	err       error
}

func (f *extractorFake) Supports(mimeType string) bool { return f.supported[mimeType] }

func (f *extractorFake) Extract(_ context.Context, _ string, content io.Reader) (string, error) {
	_, _ = io.Copy(io.Discard, content)
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

type enricherFake struct {
	summary   domain.Summary
	sumErr    error
	cls       domain.Classification
	clsErr    error
	lastInput string
	lastLang  string
}

func (f *enricherFake) Summarize(_ context.Context, text, languageHint string) (domain.Summary, error) {
	f.lastInput = text
	f.lastLang = languageHint
	if f.sumErr != nil {
		return domain.Summary{}, f.sumErr
	}
	return f.summary, nil
}

func (f *enricherFake) Classify(_ context.Context, text string) (domain.Classification, error) {
	f.lastInput = text
	if f.clsErr != nil {
		return domain.Classification{}, f.clsErr
	}
	return f.cls, nil
}

type notifierFake struct {
	changed    []string
	reprocess  []string
	publishErr error
}

func (f *notifierFake) PublishDocumentChanged(_ context.Context, documentID string) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.changed = append(f.changed, documentID)
	return nil
}

func (f *notifierFake) PublishReprocessRequested(_ context.Context, documentID string) error {
	f.reprocess = append(f.reprocess, documentID)
	return nil
}

func (f *notifierFake) SubscribeReprocessRequested(context.Context, func(context.Context, string) error) error {
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func uploadBody() io.Reader { return bytes.NewBufferString("file-bytes") }
