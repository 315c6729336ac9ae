package domain

import "time"

type DocumentStatus string

const (
	StatusProcessing DocumentStatus = "processing"
	StatusReady      DocumentStatus = "ready"
	StatusError      DocumentStatus = "error"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

const (
	// MaxTags caps the merged tag set on a document.
	MaxTags = 20
	// MaxKeyInsights caps the persisted AI key-insight list.
	MaxKeyInsights = 20
)

type Document struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	Source      string         `json:"source"`
	FilePath    string         `json:"file_path"`
	FileType    string         `json:"file_type"`
	Language    string         `json:"language,omitempty"`
	Department  string         `json:"department"`
	Category    string         `json:"category,omitempty"`
	Tags        []string       `json:"tags,omitempty"`
	Priority    Priority       `json:"priority"`
	Status      DocumentStatus `json:"status"`
	CreatedBy   string         `json:"created_by,omitempty"`
	AssignedTo  string         `json:"assigned_to,omitempty"`
	AISummary   string         `json:"ai_summary,omitempty"`
	AIInsights  []string       `json:"ai_key_insights,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// ProcessingResult is the single combined write that finalizes a pipeline run.
// AISummary and AIInsights replace the previous values wholesale; they are
// never merged with the outcome of an earlier run.
type ProcessingResult struct {
	Category   string
	Tags       []string
	Department string
	Priority   Priority
	Status     DocumentStatus
	AISummary  string
	AIInsights []string
}

type Summary struct {
	Summary     string   `json:"summary"`
	KeyInsights []string `json:"keyInsights"`
}

type Classification struct {
	Category   string   `json:"category"`
	Confidence float64  `json:"confidence"`
	Tags       []string `json:"tags"`
}

type OCRResult struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// MergeTags appends incoming tags to the existing set, dropping duplicates
// and truncating the result to MaxTags. Existing order is preserved.
func MergeTags(existing, incoming []string) []string {
	merged := make([]string, 0, len(existing)+len(incoming))
	seen := make(map[string]struct{}, len(existing)+len(incoming))
	for _, tags := range [][]string{existing, incoming} {
		for _, tag := range tags {
			if tag == "" {
				continue
			}
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			merged = append(merged, tag)
			if len(merged) == MaxTags {
				return merged
			}
		}
	}
	return merged
}

// CapInsights truncates a key-insight list to MaxKeyInsights.
func CapInsights(insights []string) []string {
	if len(insights) > MaxKeyInsights {
		return insights[:MaxKeyInsights]
	}
	return insights
}
