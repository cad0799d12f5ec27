package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/atlanticofertlog/cargo-docs/constants"
	"github.com/atlanticofertlog/cargo-docs/internal/common"
	"github.com/atlanticofertlog/cargo-docs/internal/entity"
)

type ExtractJobRepository interface {
	Start(ctx context.Context, kind constants.DocumentKind, sourcePath, format string, batchID *uuid.UUID) (*entity.ExtractJob, error)
	FinishText(ctx context.Context, jobID uuid.UUID, text string) error
	FinishExtracted(ctx context.Context, jobID uuid.UUID, recordJSON []byte, needsReview bool) error
	FinishFailure(ctx context.Context, jobID uuid.UUID, message string) error
	Get(ctx context.Context, jobID uuid.UUID) (*entity.ExtractJob, error)
	ListByBatch(ctx context.Context, batchID uuid.UUID) ([]entity.ExtractJob, error)
}

type extractJobRepo struct {
	db  *DB
	log *slog.Logger
}

func NewExtractJobRepository(db *DB, log *slog.Logger) ExtractJobRepository {
	if log == nil {
		log = slog.Default()
	}
	return &extractJobRepo{db: db, log: log}
}

const jobColumns = `id, batch_id, kind, source_path, format, status, started_at, finished_at,
	error_message, needs_review, text, record_json`

func (r *extractJobRepo) Start(ctx context.Context, kind constants.DocumentKind, sourcePath, format string, batchID *uuid.UUID) (*entity.ExtractJob, error) {
	job := &entity.ExtractJob{
		ID:         uuid.New(),
		BatchID:    batchID,
		Kind:       kind,
		SourcePath: sourcePath,
		Format:     format,
		Status:     constants.JobStatusRunning,
		StartedAt:  time.Now().UTC(),
	}
	var batch any
	if batchID != nil {
		batch = batchID.String()
	}
	_, err := r.db.SQL.ExecContext(ctx, r.db.rebind(`INSERT INTO extract_job
		(id, batch_id, kind, source_path, format, status, started_at, needs_review)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`),
		job.ID.String(), batch, string(kind), sourcePath, format, string(job.Status), job.StartedAt, false)
	if err != nil {
		r.log.Error("extract_job start failed", "source_path", sourcePath, "err", err)
		return nil, common.NewAppError("DB_ERROR", "insert extract_job", errors.Join(common.ErrDatabase, err))
	}
	r.log.Info("extract_job started", "job_id", job.ID, "kind", kind, "format", format)
	return job, nil
}

func (r *extractJobRepo) FinishText(ctx context.Context, jobID uuid.UUID, text string) error {
	return r.update(ctx, jobID, `UPDATE extract_job SET text = ?, status = ? WHERE id = ?`,
		text, string(constants.JobStatusTextOK), jobID.String())
}

func (r *extractJobRepo) FinishExtracted(ctx context.Context, jobID uuid.UUID, recordJSON []byte, needsReview bool) error {
	err := r.update(ctx, jobID, `UPDATE extract_job SET record_json = ?, needs_review = ?, status = ?, finished_at = ? WHERE id = ?`,
		string(recordJSON), needsReview, string(constants.JobStatusExtracted), time.Now().UTC(), jobID.String())
	if err == nil {
		r.log.Info("extract_job finished (EXTRACTED)", "job_id", jobID, "needs_review", needsReview)
	}
	return err
}

func (r *extractJobRepo) FinishFailure(ctx context.Context, jobID uuid.UUID, message string) error {
	err := r.update(ctx, jobID, `UPDATE extract_job SET error_message = ?, status = ?, finished_at = ? WHERE id = ?`,
		message, string(constants.JobStatusFailed), time.Now().UTC(), jobID.String())
	if err == nil {
		r.log.Warn("extract_job finished (FAILED)", "job_id", jobID, "error", message)
	}
	return err
}

func (r *extractJobRepo) update(ctx context.Context, jobID uuid.UUID, query string, args ...any) error {
	res, err := r.db.SQL.ExecContext(ctx, r.db.rebind(query), args...)
	if err != nil {
		r.log.Error("extract_job update failed", "job_id", jobID, "err", err)
		return common.NewAppError("DB_ERROR", "update extract_job", errors.Join(common.ErrDatabase, err))
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.NewAppError("NOT_FOUND", fmt.Sprintf("extract_job %s", jobID), common.ErrNotFound)
	}
	return nil
}

func (r *extractJobRepo) Get(ctx context.Context, jobID uuid.UUID) (*entity.ExtractJob, error) {
	row := r.db.SQL.QueryRowContext(ctx, r.db.rebind(`SELECT `+jobColumns+` FROM extract_job WHERE id = ?`), jobID.String())
	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.NewAppError("NOT_FOUND", fmt.Sprintf("extract_job %s", jobID), common.ErrNotFound)
	}
	if err != nil {
		return nil, common.NewAppError("DB_ERROR", "get extract_job", errors.Join(common.ErrDatabase, err))
	}
	return job, nil
}

func (r *extractJobRepo) ListByBatch(ctx context.Context, batchID uuid.UUID) ([]entity.ExtractJob, error) {
	rows, err := r.db.SQL.QueryContext(ctx, r.db.rebind(`SELECT `+jobColumns+` FROM extract_job
		WHERE batch_id = ? ORDER BY started_at, source_path`), batchID.String())
	if err != nil {
		return nil, common.NewAppError("DB_ERROR", "list extract_job", errors.Join(common.ErrDatabase, err))
	}
	defer rows.Close()

	var out []entity.ExtractJob
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, common.NewAppError("DB_ERROR", "scan extract_job", errors.Join(common.ErrDatabase, err))
		}
		out = append(out, *job)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanJob(s scanner) (*entity.ExtractJob, error) {
	var (
		id, kind, status    string
		batch, errMsg, text sql.NullString
		record              sql.NullString
		finished            sql.NullTime
		job                 entity.ExtractJob
	)
	err := s.Scan(&id, &batch, &kind, &job.SourcePath, &job.Format, &status, &job.StartedAt,
		&finished, &errMsg, &job.NeedsReview, &text, &record)
	if err != nil {
		return nil, err
	}
	if job.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("parse job id: %w", err)
	}
	if batch.Valid {
		b, err := uuid.Parse(batch.String)
		if err != nil {
			return nil, fmt.Errorf("parse batch id: %w", err)
		}
		job.BatchID = &b
	}
	job.Kind = constants.DocumentKind(kind)
	job.Status = constants.JobStatus(status)
	if finished.Valid {
		t := finished.Time
		job.FinishedAt = &t
	}
	if errMsg.Valid {
		job.ErrorMessage = &errMsg.String
	}
	if text.Valid {
		job.Text = &text.String
	}
	if record.Valid && record.String != "" {
		job.RecordJSON = []byte(record.String)
	}
	return &job, nil
}
