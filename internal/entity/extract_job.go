package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/atlanticofertlog/cargo-docs/constants"
)

// ExtractJob is one document run through a text source and an extractor.
type ExtractJob struct {
	ID           uuid.UUID              `json:"id"`
	BatchID      *uuid.UUID             `json:"batch_id,omitempty"`
	Kind         constants.DocumentKind `json:"kind"`
	SourcePath   string                 `json:"source_path"`
	Format       string                 `json:"format"`
	StartedAt    time.Time              `json:"started_at"`
	FinishedAt   *time.Time             `json:"finished_at,omitempty"`
	Status       constants.JobStatus    `json:"status"`
	ErrorMessage *string                `json:"error_message,omitempty"`
	NeedsReview  bool                   `json:"needs_review"`
	Text         *string                `json:"text,omitempty"`
	RecordJSON   json.RawMessage        `json:"record_json,omitempty"`
}
