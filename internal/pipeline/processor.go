// Package pipeline runs documents through text extraction and field
// extraction, recording every run as an extract_job.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/atlanticofertlog/cargo-docs/constants"
	"github.com/atlanticofertlog/cargo-docs/internal/common"
	"github.com/atlanticofertlog/cargo-docs/internal/extract"
	"github.com/atlanticofertlog/cargo-docs/internal/metrics"
)

// Document is one file to process.
type Document struct {
	Path    string
	Kind    constants.DocumentKind
	BatchID *uuid.UUID
}

// Outcome is what a processed document produced.
type Outcome struct {
	JobID         uuid.UUID
	Document      Document
	Result        extract.Result
	ReviewReasons []string
}

func (o Outcome) NeedsReview() bool { return len(o.ReviewReasons) > 0 }

// Processor coordinates the text stage then the extract stage.
type Processor struct {
	Logger  *slog.Logger
	Text    *TextStage
	Extract *ExtractStage
}

func NewProcessor(logger *slog.Logger, text *TextStage, ext *ExtractStage) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{Logger: logger, Text: text, Extract: ext}
}

// Process runs both stages for doc. The returned Outcome carries the job ID
// even when a stage fails. A batch ID on ctx applies when doc has none.
func (p *Processor) Process(ctx context.Context, doc Document) (Outcome, error) {
	start := time.Now()
	if doc.BatchID == nil {
		if id, err := uuid.Parse(common.BatchIDFromContext(ctx)); err == nil {
			doc.BatchID = &id
		}
	}
	out := Outcome{Document: doc}
	logger := p.Logger
	if rid := common.RequestIDFromContext(ctx); rid != "" {
		logger = logger.With("request_id", rid)
	}

	jobID, text, err := p.Text.Run(ctx, doc)
	out.JobID = jobID
	if err != nil {
		logger.Error("processor.text.failed", "path", doc.Path, "job_id", jobID, "err", err)
		metrics.DocumentsProcessed.WithLabelValues(string(doc.Kind), "failed").Inc()
		return out, err
	}
	logger.Info("processor.text.ok",
		"path", doc.Path,
		"job_id", jobID,
		"method", text.Method,
		"pages", text.Pages,
		"confidence", text.Confidence,
	)

	res, reasons, err := p.Extract.Run(ctx, jobID, doc.Kind, text)
	out.Result, out.ReviewReasons = res, reasons
	if err != nil {
		logger.Error("processor.extract.failed", "job_id", jobID, "doc_kind", doc.Kind, "err", err)
		metrics.DocumentsProcessed.WithLabelValues(string(doc.Kind), "failed").Inc()
		return out, err
	}

	status := "ok"
	if out.NeedsReview() {
		status = "needs_review"
	}
	metrics.DocumentsProcessed.WithLabelValues(string(doc.Kind), status).Inc()
	metrics.RecordsExtracted.WithLabelValues(string(doc.Kind)).Add(float64(res.Records))
	metrics.ExtractionDuration.WithLabelValues(string(doc.Kind)).Observe(time.Since(start).Seconds())
	logger.Info("processor.extract.ok",
		"job_id", jobID,
		"doc_kind", doc.Kind,
		"records", res.Records,
		"needs_review", out.NeedsReview(),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}
