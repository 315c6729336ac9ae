package domain

import "time"

// Stage names one discrete unit of pipeline work.
type Stage string

const (
	StageUploaded      Stage = "uploaded"
	StageOCR           Stage = "ocr"
	StageAICategorized Stage = "ai_categorized"
	StageRouted        Stage = "routed"
)

type EventStatus string

const (
	EventInProgress EventStatus = "in_progress"
	EventCompleted  EventStatus = "completed"
	EventError      EventStatus = "error"
)

// ProcessingEvent is one append-only audit record of a stage outcome.
// Events are never updated or deleted; a stage may emit several of them
// (in_progress, then completed or error).
type ProcessingEvent struct {
	ID         string      `json:"id"`
	DocumentID string      `json:"document_id"`
	Stage      Stage       `json:"stage"`
	Status     EventStatus `json:"status"`
	Message    string      `json:"message,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
}
