package openai

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/metrodocs/docflow/internal/core/domain"
)

const fallbackSummaryLimit = 1200

// Enricher runs the two enrichment calls. Transport failures surface as
// errors; a model that answers but ignores the JSON contract degrades to
// documented fallback values instead.
type Enricher struct {
	client *Client
}

func NewEnricher(client *Client) *Enricher {
	return &Enricher{client: client}
}

func (e *Enricher) Summarize(ctx context.Context, text, languageHint string) (domain.Summary, error) {
	raw, err := e.client.chat(ctx, "summarize", buildSummarySystemPrompt(languageHint), snippet(text))
	if err != nil {
		return domain.Summary{}, err
	}

	var decoded struct {
		Summary     string   `json:"summary"`
		KeyInsights []string `json:"key_insights"`
	}
	if err := json.Unmarshal([]byte(extractJSONObject(raw)), &decoded); err != nil || strings.TrimSpace(decoded.Summary) == "" {
		// The model answered in prose. Its text is still a usable summary;
		// insights are not recoverable.
		return domain.Summary{Summary: truncate(raw, fallbackSummaryLimit)}, nil
	}
	return domain.Summary{
		Summary:     strings.TrimSpace(decoded.Summary),
		KeyInsights: domain.CapInsights(decoded.KeyInsights),
	}, nil
}

func (e *Enricher) Classify(ctx context.Context, text string) (domain.Classification, error) {
	raw, err := e.client.chat(ctx, "classify", classifySystemPrompt, snippet(text))
	if err != nil {
		return domain.Classification{}, err
	}

	var decoded struct {
		Category   string   `json:"category"`
		Confidence float64  `json:"confidence"`
		Tags       []string `json:"tags"`
	}
	if err := json.Unmarshal([]byte(extractJSONObject(raw)), &decoded); err != nil {
		return domain.Classification{Category: "general", Confidence: 0.5, Tags: []string{}}, nil
	}

	category := strings.ToLower(strings.TrimSpace(decoded.Category))
	if category == "" {
		category = "general"
	}
	confidence := decoded.Confidence
	if confidence <= 0 {
		confidence = 0.5
	}
	if confidence > 1 {
		confidence = 1
	}
	if decoded.Tags == nil {
		decoded.Tags = []string{}
	}
	return domain.Classification{
		Category:   category,
		Confidence: confidence,
		Tags:       decoded.Tags,
	}, nil
}

// extractJSONObject tolerates models that wrap the object in code fences or
// commentary.
func extractJSONObject(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		return raw[start : end+1]
	}
	return raw
}

func truncate(text string, limit int) string {
	text = strings.TrimSpace(text)
	if len(text) <= limit {
		return text
	}
	return text[:limit]
}
