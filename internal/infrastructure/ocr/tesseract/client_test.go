package tesseract

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestRecognizeParsesResponse(t *testing.T) {
	var gotLang string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/recognize" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		gotLang = r.FormValue("lang")
		_ = json.NewEncoder(w).Encode(map[string]any{"text": "scanned words", "confidence": 91.5})
	}))
	defer server.Close()

	client := New(server.URL, 5*time.Second, nil)
	result, err := client.Recognize(context.Background(), bytes.NewBufferString("png"), "eng+mal")
	if err != nil {
		t.Fatalf("Recognize() error = %v", err)
	}
	if result.Text != "scanned words" {
		t.Fatalf("unexpected text %q", result.Text)
	}
	if result.Confidence < 0.91 || result.Confidence > 0.92 {
		t.Fatalf("expected normalized confidence, got %f", result.Confidence)
	}
	if gotLang != "eng+mal" {
		t.Fatalf("expected language hint forwarded, got %q", gotLang)
	}
}

func TestRecognizeSurfacesServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "engine exploded", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := New(server.URL, 5*time.Second, nil)
	_, err := client.Recognize(context.Background(), bytes.NewBufferString("png"), "eng")
	if err == nil || !strings.Contains(err.Error(), "engine exploded") {
		t.Fatalf("expected status error with body, got %v", err)
	}
}

func TestRecognizeDefaultsLanguage(t *testing.T) {
	var gotLang string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseMultipartForm(1 << 20)
		gotLang = r.FormValue("lang")
		_ = json.NewEncoder(w).Encode(map[string]any{"text": "", "confidence": 0})
	}))
	defer server.Close()

	client := New(server.URL, 5*time.Second, nil)
	if _, err := client.Recognize(context.Background(), bytes.NewBufferString("png"), ""); err != nil {
		t.Fatalf("Recognize() error = %v", err)
	}
	if gotLang != "eng" {
		t.Fatalf("expected default eng hint, got %q", gotLang)
	}
}
