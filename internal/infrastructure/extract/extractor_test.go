package extract

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestSupports(t *testing.T) {
	extractor := New()

	cases := []struct {
		mime string
		want bool
	}{
		{"application/pdf", true},
		{"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", true},
		{"application/vnd.ms-excel", true},
		{"text/plain", true},
		{"text/csv; charset=utf-8", true},
		{"image/png", false},
		{"application/zip", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := extractor.Supports(tc.mime); got != tc.want {
			t.Errorf("Supports(%q) = %v, want %v", tc.mime, got, tc.want)
		}
	}
}

func TestExtractPlainText(t *testing.T) {
	extractor := New()

	text, err := extractor.Extract(context.Background(), "text/plain; charset=utf-8", strings.NewReader("hello report"))
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if text != "hello report" {
		t.Fatalf("unexpected text %q", text)
	}
}

func TestExtractSpreadsheet(t *testing.T) {
	workbook := excelize.NewFile()
	if err := workbook.SetSheetRow("Sheet1", "A1", &[]any{"item", "qty"}); err != nil {
		t.Fatalf("build fixture: %v", err)
	}
	if err := workbook.SetSheetRow("Sheet1", "A2", &[]any{"pump", 3}); err != nil {
		t.Fatalf("build fixture: %v", err)
	}
	var buf bytes.Buffer
	if err := workbook.Write(&buf); err != nil {
		t.Fatalf("serialize fixture: %v", err)
	}

	extractor := New()
	text, err := extractor.Extract(context.Background(),
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", &buf)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if !strings.Contains(text, "item\tqty") || !strings.Contains(text, "pump\t3") {
		t.Fatalf("unexpected text %q", text)
	}
}

func TestExtractRejectsUnsupportedType(t *testing.T) {
	extractor := New()

	_, err := extractor.Extract(context.Background(), "application/zip", strings.NewReader("PK"))
	if err == nil || !strings.Contains(err.Error(), "unsupported mime type") {
		t.Fatalf("expected unsupported type error, got %v", err)
	}
}
