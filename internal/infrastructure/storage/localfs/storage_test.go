package localfs

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
)

func TestPutAndOpenRoundTrip(t *testing.T) {
	storage, err := New(t.TempDir(), "https://files.test")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	path := "user-1/1700000000000-report.pdf"
	if err := storage.Put(context.Background(), path, "application/pdf", bytes.NewBufferString("content")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	reader, err := storage.Open(context.Background(), path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer reader.Close()

	raw, err := io.ReadAll(reader)
	if err != nil {
		t.Fatalf("read blob: %v", err)
	}
	if string(raw) != "content" {
		t.Fatalf("expected stored content, got %q", raw)
	}
}

func TestPutRefusesOverwrite(t *testing.T) {
	storage, err := New(t.TempDir(), "")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	path := "anonymous/1-x.bin"
	if err := storage.Put(context.Background(), path, "", bytes.NewBufferString("first")); err != nil {
		t.Fatalf("first Put() error = %v", err)
	}

	err = storage.Put(context.Background(), path, "", bytes.NewBufferString("second"))
	if err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Fatalf("expected overwrite refusal, got %v", err)
	}
}

func TestPublicURL(t *testing.T) {
	storage, err := New(t.TempDir(), "https://files.test/")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if got := storage.PublicURL("a/b.png"); got != "https://files.test/a/b.png" {
		t.Fatalf("PublicURL() = %q", got)
	}
}
