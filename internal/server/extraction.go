package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/atlanticofertlog/cargo-docs/constants"
	"github.com/atlanticofertlog/cargo-docs/internal/citylocator"
	"github.com/atlanticofertlog/cargo-docs/internal/common"
	"github.com/atlanticofertlog/cargo-docs/internal/entity"
	"github.com/atlanticofertlog/cargo-docs/internal/extract"
	"github.com/atlanticofertlog/cargo-docs/internal/pipeline"
	"github.com/atlanticofertlog/cargo-docs/internal/repository"
)

// maxTextRunes caps inline document text; larger documents go through ProcessFile.
const maxTextRunes = 1 << 20

// ExtractionService serves field extraction over gRPC.
type ExtractionService struct {
	engine *extract.Engine
	proc   *pipeline.Processor
	jobs   repository.ExtractJobRepository
	logger *zap.Logger
}

func NewExtractionService(engine *extract.Engine, proc *pipeline.Processor, jobs repository.ExtractJobRepository, logger *zap.Logger) *ExtractionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExtractionService{engine: engine, proc: proc, jobs: jobs, logger: logger}
}

func (s *ExtractionService) Extract(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	kind, err := kindField(req)
	if err != nil {
		return nil, err
	}
	text := stringField(req, "text")
	v := common.NewValidator().Field("text", text, common.Required, common.MaxLengthRule(maxTextRunes))
	if err := common.ValidateAndReturnError(v); err != nil {
		return nil, err
	}

	start := time.Now()
	res, err := s.engine.Extract(ctx, kind, text)
	if err != nil {
		s.logger.Warn("extract failed", zap.String("doc_kind", string(kind)), zap.Error(err))
		return nil, toStatus(err)
	}
	reasons := pipeline.ReviewReasons(res, extract.TextResult{Text: text, SourceType: constants.TEXT})
	s.logger.Info("extract ok",
		zap.String("doc_kind", string(kind)),
		zap.Int("records", res.Records),
		zap.Int("review_reasons", len(reasons)),
		zap.Int64("elapsed_ms", time.Since(start).Milliseconds()),
	)
	return resultStruct(res, reasons, "")
}

func (s *ExtractionService) ProcessFile(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if s.proc == nil {
		return nil, status.Error(codes.Unimplemented, "file processing is not enabled")
	}
	kind, err := kindField(req)
	if err != nil {
		return nil, err
	}
	path := strings.TrimSpace(stringField(req, "path"))
	v := common.NewValidator().Field("path", path, common.Required, common.MaxLengthRule(4096))
	if err := common.ValidateAndReturnError(v); err != nil {
		return nil, err
	}

	out, err := s.proc.Process(ctx, pipeline.Document{Path: path, Kind: kind})
	if err != nil {
		s.logger.Warn("process file failed", zap.String("path", path), zap.String("job_id", out.JobID.String()), zap.Error(err))
		return nil, toStatus(err)
	}
	return resultStruct(out.Result, out.ReviewReasons, out.JobID.String())
}

func (s *ExtractionService) GetJob(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if s.jobs == nil {
		return nil, status.Error(codes.Unimplemented, "job store is not enabled")
	}
	raw := strings.TrimSpace(stringField(req, "job_id"))
	v := common.NewValidator().Field("job_id", raw, common.Required, common.UUID)
	if err := common.ValidateAndReturnError(v); err != nil {
		return nil, err
	}
	job, err := s.jobs.Get(ctx, uuid.MustParse(raw))
	if err != nil {
		return nil, toStatus(err)
	}
	return jobStruct(job)
}

func kindField(req *structpb.Struct) (constants.DocumentKind, error) {
	raw := stringField(req, "kind")
	kind, ok := constants.ParseDocumentKind(raw)
	if !ok {
		return "", common.InvalidArgumentErrorf("kind %q is not one of %s", raw, strings.Join(constants.Kinds(), ", "))
	}
	return kind, nil
}

func stringField(req *structpb.Struct, name string) string {
	if req == nil {
		return ""
	}
	return req.GetFields()[name].GetStringValue()
}

// toValue converts any JSON-encodable value into a structpb.Value.
func toValue(v any) (*structpb.Value, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, err
	}
	return structpb.NewValue(generic)
}

func resultStruct(res extract.Result, reasons []string, jobID string) (*structpb.Struct, error) {
	record, err := toValue(res.Record)
	if err != nil {
		return nil, common.InternalErrorf("encode record: %v", err)
	}
	reviewList := make([]any, len(reasons))
	for i, r := range reasons {
		reviewList[i] = r
	}
	out, err := structpb.NewStruct(map[string]any{
		"kind":           string(res.Kind),
		"records":        res.Records,
		"needs_review":   len(reasons) > 0,
		"review_reasons": reviewList,
	})
	if err != nil {
		return nil, common.InternalErrorf("encode response: %v", err)
	}
	out.Fields["record"] = record
	if jobID != "" {
		out.Fields["job_id"] = structpb.NewStringValue(jobID)
	}
	return out, nil
}

func jobStruct(job *entity.ExtractJob) (*structpb.Struct, error) {
	fields := map[string]any{
		"job_id":       job.ID.String(),
		"kind":         string(job.Kind),
		"source_path":  job.SourcePath,
		"format":       job.Format,
		"status":       string(job.Status),
		"started_at":   job.StartedAt.Format(time.RFC3339Nano),
		"needs_review": job.NeedsReview,
	}
	if job.BatchID != nil {
		fields["batch_id"] = job.BatchID.String()
	}
	if job.FinishedAt != nil {
		fields["finished_at"] = job.FinishedAt.Format(time.RFC3339Nano)
	}
	if job.ErrorMessage != nil {
		fields["error_message"] = *job.ErrorMessage
	}
	out, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, common.InternalErrorf("encode job: %v", err)
	}
	if len(job.RecordJSON) > 0 {
		var record any
		if err := json.Unmarshal(job.RecordJSON, &record); err != nil {
			return nil, common.InternalErrorf("decode stored record: %v", err)
		}
		v, err := structpb.NewValue(record)
		if err != nil {
			return nil, common.InternalErrorf("encode record: %v", err)
		}
		out.Fields["record"] = v
	}
	return out, nil
}

// toStatus maps domain errors onto gRPC codes.
func toStatus(err error) error {
	switch {
	case errors.Is(err, common.ErrInvalidInput), errors.Is(err, common.ErrUnsupported):
		return common.InvalidArgumentError(err.Error())
	case errors.Is(err, common.ErrNotFound):
		return common.NotFoundError(err.Error())
	case errors.Is(err, citylocator.ErrNoChooser):
		return common.FailedPreconditionError(err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		return common.InternalError(fmt.Sprintf("extraction failed: %v", err))
	}
}
