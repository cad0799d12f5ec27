package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/atlanticofertlog/cargo-docs/constants"
	"github.com/atlanticofertlog/cargo-docs/internal/entity"
	"github.com/atlanticofertlog/cargo-docs/internal/extract"
	"github.com/atlanticofertlog/cargo-docs/internal/ocr"
	"github.com/atlanticofertlog/cargo-docs/internal/repository"
)

type ExtractStage struct {
	JobsRepo repository.ExtractJobRepository
	Engine   *extract.Engine
	Logger   *slog.Logger
}

func NewExtractStage(jobs repository.ExtractJobRepository, engine *extract.Engine, logger *slog.Logger) *ExtractStage {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExtractStage{JobsRepo: jobs, Engine: engine, Logger: logger}
}

// Run extracts the record for a job whose text is stored, validates it and
// persists it with the review flag.
func (s *ExtractStage) Run(ctx context.Context, jobID uuid.UUID, kind constants.DocumentKind, text extract.TextResult) (extract.Result, []string, error) {
	res, err := s.Engine.Extract(ctx, kind, text.Text)
	if err != nil {
		_ = s.JobsRepo.FinishFailure(context.WithoutCancel(ctx), jobID, err.Error())
		return res, nil, err
	}

	raw, err := json.Marshal(res.Record)
	if err != nil {
		_ = s.JobsRepo.FinishFailure(context.WithoutCancel(ctx), jobID, err.Error())
		return res, nil, fmt.Errorf("encode record: %w", err)
	}

	reasons := ReviewReasons(res, text)
	if len(reasons) > 0 {
		s.Logger.Warn("record needs review", "job_id", jobID, "doc_kind", kind, "reasons", reasons)
	}
	if err := s.JobsRepo.FinishExtracted(ctx, jobID, raw, len(reasons) > 0); err != nil {
		return res, reasons, err
	}
	return res, reasons, nil
}

// ReviewReasons lists why an extracted record should be checked by a person.
func ReviewReasons(res extract.Result, text extract.TextResult) []string {
	var reasons []string
	if text.SourceType == constants.IMAGE && text.Confidence > 0 && text.Confidence < ocr.ImageConfidenceThreshold {
		reasons = append(reasons, fmt.Sprintf("low ocr confidence %.2f", text.Confidence))
	}
	if res.Records == 0 {
		return append(reasons, "no records found")
	}
	switch r := res.Record.(type) {
	case entity.LicenseRecord:
		for _, f := range r.Missing() {
			reasons = append(reasons, "missing "+f)
		}
	case entity.RegistrationRecord:
		for _, f := range r.Missing() {
			reasons = append(reasons, "missing "+f)
		}
	case entity.CarrierRecord:
		if r.RNTRC == "" {
			reasons = append(reasons, "missing rntrc")
		}
	}
	if err := entity.Validate(res.Kind, res.Record); err != nil {
		reasons = append(reasons, "schema: "+err.Error())
	}
	return reasons
}
