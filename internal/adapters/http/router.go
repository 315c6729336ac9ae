package httpadapter

import (
	"net/http"
	"strings"

	"github.com/metrodocs/docflow/internal/config"
	"github.com/metrodocs/docflow/internal/core/domain"
	"github.com/metrodocs/docflow/internal/core/ports"
	"github.com/metrodocs/docflow/internal/observability/metrics"
)

const userIDHeader = "X-User-Id"

type Router struct {
	cfg      config.Config
	intake   ports.DocumentIntake
	reader   ports.DocumentReader
	events   ports.EventReader
	notifier ports.Notifier
	metrics  *metrics.HTTPServerMetrics
	files    http.Handler
}

func NewRouter(
	cfg config.Config,
	intake ports.DocumentIntake,
	reader ports.DocumentReader,
	events ports.EventReader,
	notifier ports.Notifier,
	httpMetrics *metrics.HTTPServerMetrics,
	files http.Handler,
) *Router {
	return &Router{
		cfg:      cfg,
		intake:   intake,
		reader:   reader,
		events:   events,
		notifier: notifier,
		metrics:  httpMetrics,
		files:    files,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", rt.healthz)
	mux.HandleFunc("POST /v1/documents", rt.uploadDocument)
	mux.HandleFunc("GET /v1/documents/{id}", rt.getDocument)
	mux.HandleFunc("GET /v1/documents/{id}/events", rt.listEvents)
	mux.HandleFunc("POST /v1/documents/{id}/reprocess", rt.requestReprocess)
	if rt.metrics != nil {
		mux.Handle("GET /metrics", rt.metrics.Handler())
	}
	if rt.files != nil {
		mux.Handle("GET /files/", http.StripPrefix("/files/", rt.files))
	}

	handler := http.Handler(mux)
	handler = rateLimitMiddleware(handler, rt.cfg.RateLimitRPS, rt.cfg.RateLimitBurst)
	if rt.metrics != nil {
		handler = rt.metrics.Middleware("api", handler)
	}
	handler = accessLogMiddleware(handler)
	handler = requestIDMiddleware(handler)
	return handler
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) uploadDocument(w http.ResponseWriter, r *http.Request) {
	maxBytes := int64(rt.cfg.MaxUploadMB) << 20
	if maxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart field 'file' is required"})
		return
	}
	defer file.Close()

	priority, ok := parsePriority(r.FormValue("priority"))
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown priority"})
		return
	}

	result, err := rt.intake.ProcessUpload(r.Context(), ports.UploadRequest{
		Filename:    fileHeader.Filename,
		MimeType:    fileHeader.Header.Get("Content-Type"),
		Body:        file,
		Title:       r.FormValue("title"),
		Department:  r.FormValue("department"),
		Priority:    priority,
		Description: r.FormValue("description"),
		Tags:        splitTags(r.FormValue("tags")),
		Language:    r.FormValue("language"),
		CreatorID:   r.Header.Get(userIDHeader),
	})
	if err != nil {
		writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

func (rt *Router) getDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := rt.reader.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (rt *Router) listEvents(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := rt.reader.GetByID(r.Context(), id); err != nil {
		writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
		return
	}
	events, err := rt.events.ListByDocument(r.Context(), id)
	if err != nil {
		writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
		return
	}
	if events == nil {
		events = []domain.ProcessingEvent{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": events})
}

// requestReprocess queues the document for the worker instead of running the
// pipeline inline; the handler answers as soon as the request is on the bus.
func (rt *Router) requestReprocess(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := rt.reader.GetByID(r.Context(), id); err != nil {
		writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
		return
	}
	if err := rt.notifier.PublishReprocessRequested(r.Context(), id); err != nil {
		writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "queued", "document_id": id})
}

func parsePriority(raw string) (domain.Priority, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return "", true
	case string(domain.PriorityLow):
		return domain.PriorityLow, true
	case string(domain.PriorityMedium):
		return domain.PriorityMedium, true
	case string(domain.PriorityHigh):
		return domain.PriorityHigh, true
	case string(domain.PriorityUrgent):
		return domain.PriorityUrgent, true
	default:
		return "", false
	}
}

func splitTags(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, part := range parts {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
