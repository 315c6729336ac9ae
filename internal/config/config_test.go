package config

import "testing"

func TestLoadUsesDefaults(t *testing.T) {
	t.Setenv("API_PORT", "")
	t.Setenv("STORAGE_BACKEND", "")
	t.Setenv("NATS_CHANGED_SUBJECT", "")
	t.Setenv("NATS_REPROCESS_SUBJECT", "")
	t.Setenv("OPENAI_MODEL", "")
	t.Setenv("RATE_LIMIT_RPS", "")

	cfg := Load()
	if cfg.APIPort != "8080" {
		t.Fatalf("expected default api port 8080, got %q", cfg.APIPort)
	}
	if cfg.StorageBackend != "localfs" {
		t.Fatalf("expected default storage backend localfs, got %q", cfg.StorageBackend)
	}
	if cfg.NATSChangedSubject != "documents.changed" {
		t.Fatalf("expected default changed subject, got %q", cfg.NATSChangedSubject)
	}
	if cfg.NATSReprocessSubject != "documents.reprocess" {
		t.Fatalf("expected default reprocess subject, got %q", cfg.NATSReprocessSubject)
	}
	if cfg.OpenAIModel != "gpt-4o-mini" {
		t.Fatalf("expected default model, got %q", cfg.OpenAIModel)
	}
	if cfg.RateLimitRPS != 10 {
		t.Fatalf("expected default rate limit 10, got %d", cfg.RateLimitRPS)
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "gcs")
	t.Setenv("GCS_BUCKET", "docflow-prod")
	t.Setenv("OCR_TIMEOUT_SECONDS", "90")
	t.Setenv("MAX_UPLOAD_MB", "not-a-number")

	cfg := Load()
	if cfg.StorageBackend != "gcs" {
		t.Fatalf("expected storage backend override, got %q", cfg.StorageBackend)
	}
	if cfg.GCSBucket != "docflow-prod" {
		t.Fatalf("expected bucket override, got %q", cfg.GCSBucket)
	}
	if cfg.OCRTimeoutSeconds != 90 {
		t.Fatalf("expected ocr timeout 90, got %d", cfg.OCRTimeoutSeconds)
	}
	if cfg.MaxUploadMB != 25 {
		t.Fatalf("expected fallback on bad int, got %d", cfg.MaxUploadMB)
	}
}
