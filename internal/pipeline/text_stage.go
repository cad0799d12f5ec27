package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/atlanticofertlog/cargo-docs/constants"
	"github.com/atlanticofertlog/cargo-docs/internal/common"
	"github.com/atlanticofertlog/cargo-docs/internal/extract"
	"github.com/atlanticofertlog/cargo-docs/internal/repository"
)

type TextStage struct {
	JobsRepo repository.ExtractJobRepository
	Source   extract.TextSource
	Logger   *slog.Logger
}

func NewTextStage(jobs repository.ExtractJobRepository, src extract.TextSource, logger *slog.Logger) *TextStage {
	if logger == nil {
		logger = slog.Default()
	}
	return &TextStage{JobsRepo: jobs, Source: src, Logger: logger}
}

// Run starts an extract_job for the document, reads its text and stores it.
func (s *TextStage) Run(ctx context.Context, doc Document) (uuid.UUID, extract.TextResult, error) {
	format := constants.MapExtToFormat(filepath.Ext(doc.Path))
	if format == "" {
		return uuid.Nil, extract.TextResult{}, common.NewAppError("UNSUPPORTED_FORMAT",
			fmt.Sprintf("unsupported format: %s", filepath.Ext(doc.Path)), common.ErrUnsupported)
	}

	job, err := s.JobsRepo.Start(ctx, doc.Kind, doc.Path, format, doc.BatchID)
	if err != nil {
		return uuid.Nil, extract.TextResult{}, err
	}

	res, err := s.Source.Extract(ctx, doc.Path)
	if err != nil {
		_ = s.JobsRepo.FinishFailure(context.WithoutCancel(ctx), job.ID, err.Error())
		return job.ID, res, fmt.Errorf("read text: %w", err)
	}
	for _, w := range res.Warnings {
		s.Logger.Warn("text extraction warning", "job_id", job.ID, "path", doc.Path, "warning", w)
	}

	if err := s.JobsRepo.FinishText(ctx, job.ID, res.Text); err != nil {
		return job.ID, res, err
	}
	return job.ID, res, nil
}
