// Package extract pulls native text out of uploaded files so documents that
// already carry machine-readable content skip OCR entirely.
package extract

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// Extractor dispatches on MIME type: PDFs, spreadsheets and plain text get
// native extraction, everything else is unsupported.
type Extractor struct{}

func New() *Extractor {
	return &Extractor{}
}

func (e *Extractor) Supports(mimeType string) bool {
	switch normalizeMIME(mimeType) {
	case "application/pdf",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		"application/vnd.ms-excel":
		return true
	}
	return strings.HasPrefix(normalizeMIME(mimeType), "text/")
}

func (e *Extractor) Extract(ctx context.Context, mimeType string, content io.Reader) (string, error) {
	raw, err := io.ReadAll(content)
	if err != nil {
		return "", fmt.Errorf("read content: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	switch mime := normalizeMIME(mimeType); {
	case mime == "application/pdf":
		return extractPDF(raw)
	case mime == "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		mime == "application/vnd.ms-excel":
		return extractExcel(raw)
	case strings.HasPrefix(mime, "text/"):
		return string(raw), nil
	default:
		return "", fmt.Errorf("unsupported mime type %q", mimeType)
	}
}

// normalizeMIME drops parameters like "; charset=utf-8".
func normalizeMIME(mimeType string) string {
	if idx := strings.IndexByte(mimeType, ';'); idx >= 0 {
		mimeType = mimeType[:idx]
	}
	return strings.ToLower(strings.TrimSpace(mimeType))
}
