package common

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("DB_URL", "postgres://u:p@localhost:5432/docs")
	t.Setenv("QUEUE_WORKERS", "8")
	t.Setenv("QUEUE_JOB_TIMEOUT", "30s")
	t.Setenv("OCR_DPI", "not-a-number")

	cfg := LoadConfig()
	assert.Equal(t, "postgres://u:p@localhost:5432/docs", cfg.Store.DSN)
	assert.Equal(t, 8, cfg.Queue.Workers)
	assert.Equal(t, 30*time.Second, cfg.Queue.JobTimeout)
	assert.Equal(t, 300, cfg.OCR.DPI, "invalid values fall back to the default")
	assert.Equal(t, "por", cfg.OCR.TesseractLang)
	require.NoError(t, cfg.Validate())
}

func TestConfigValidate(t *testing.T) {
	cfg := LoadConfig()
	cfg.Queue.Workers = 0
	err := cfg.Validate()
	require.Error(t, err)

	var appErr *AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "CONFIG_ERROR", appErr.Code)
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestAppError(t *testing.T) {
	err := NewAppError("UNSUPPORTED_KIND", "no extractor", ErrUnsupported)
	assert.Equal(t, "UNSUPPORTED_KIND: no extractor: unsupported", err.Error())
	assert.ErrorIs(t, err, ErrUnsupported)
	assert.Nil(t, WrapError(nil, "ignored"))
	assert.EqualError(t, WrapError(ErrDatabase, "insert job"), "insert job: database error")
}

func TestGRPCHelpers(t *testing.T) {
	assert.Equal(t, codes.InvalidArgument, status.Code(InvalidArgumentErrorf("bad %s", "kind")))
	assert.Equal(t, codes.FailedPrecondition, status.Code(FailedPreconditionError("no chooser")))
	assert.Equal(t, codes.Internal, status.Code(InternalErrorf("boom")))
}

func TestValidator(t *testing.T) {
	v := NewValidator()
	v.Field("job_id", "not-a-uuid", Required, UUID)
	v.Field("text", "", Required)
	v.Field("text", "abcdef", MaxLengthRule(3))
	require.True(t, v.HasErrors())
	assert.Len(t, v.Errors(), 3)
	assert.Equal(t, codes.InvalidArgument, status.Code(ValidateAndReturnError(v)))

	ok := NewValidator().Field("job_id", "0b9c4f0e-8f43-4a4e-9d3c-1f1c2f6a7b55", Required, UUID)
	assert.NoError(t, ok.Error())
}

func TestContextIDs(t *testing.T) {
	ctx := WithBatchID(WithRequestID(context.Background(), "req-1"), "batch-1")
	assert.Equal(t, "req-1", RequestIDFromContext(ctx))
	assert.Equal(t, "batch-1", BatchIDFromContext(ctx))
	assert.Empty(t, RequestIDFromContext(context.Background()))

	tctx, cancel := WithTimeout(ctx, 0)
	defer cancel()
	_, hasDeadline := tctx.Deadline()
	assert.False(t, hasDeadline)
}
