package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/execdiff/internal/model"
)

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// WriteExecution inserts an execution record.
// Uses ON CONFLICT(id) DO NOTHING for idempotency - duplicate IDs are silently ignored.
func (s *Store) WriteExecution(ctx context.Context, exec model.Execution) error {
	if err := writeExecution(ctx, s.db, exec); err != nil {
		return fmt.Errorf("write execution: %w", err)
	}
	return nil
}

// WriteTestRun inserts a test run record.
// The execution referenced by ExecutionID must exist (foreign key constraint).
func (s *Store) WriteTestRun(ctx context.Context, run model.TestRun) error {
	if err := writeTestRun(ctx, s.db, run); err != nil {
		return fmt.Errorf("write test run: %w", err)
	}
	return nil
}

// WriteLogRecord inserts a log record.
// The test run and, if set, the parent record must exist. Ancestors on the
// step are ignored; the chain is rebuilt from parent_id on read.
func (s *Store) WriteLogRecord(ctx context.Context, step model.Step) error {
	if err := writeLogRecord(ctx, s.db, step); err != nil {
		return fmt.Errorf("write log record: %w", err)
	}
	return nil
}

// WriteExecutionAtomic writes an execution with its test runs and log
// records in a single transaction. Records must be ordered parents-first.
//
// If exec.Seq is zero the next sequence number is assigned. Returns the
// execution as written.
func (s *Store) WriteExecutionAtomic(
	ctx context.Context,
	exec model.Execution,
	runs []model.TestRun,
	records []model.Step,
) (model.Execution, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Execution{}, fmt.Errorf("atomic write: begin tx: %w", err)
	}
	defer tx.Rollback()

	if exec.Seq == 0 {
		if err := tx.QueryRowContext(ctx,
			`SELECT COALESCE(MAX(seq), 0) + 1 FROM executions`,
		).Scan(&exec.Seq); err != nil {
			return model.Execution{}, fmt.Errorf("atomic write: next seq: %w", err)
		}
	}

	if err := writeExecution(ctx, tx, exec); err != nil {
		return model.Execution{}, fmt.Errorf("atomic write: %w", err)
	}
	for _, run := range runs {
		if err := writeTestRun(ctx, tx, run); err != nil {
			return model.Execution{}, fmt.Errorf("atomic write: test run %s: %w", run.ID, err)
		}
	}
	for _, rec := range records {
		if err := writeLogRecord(ctx, tx, rec); err != nil {
			return model.Execution{}, fmt.Errorf("atomic write: log record %s: %w", rec.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return model.Execution{}, fmt.Errorf("atomic write: commit: %w", err)
	}
	return exec, nil
}

// DeleteExecution removes an execution and, by cascade, its test runs and
// log records. Deleting a missing execution is not an error.
func (s *Store) DeleteExecution(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM executions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete execution: %w", err)
	}
	return nil
}

func writeExecution(ctx context.Context, db execer, exec model.Execution) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO executions (id, name, test_plan_id, scope_driven, seq)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		exec.ID,
		exec.Name,
		exec.TestPlanID,
		exec.ScopeDriven,
		exec.Seq,
	)
	return err
}

func writeTestRun(ctx context.Context, db execer, run model.TestRun) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO test_runs
		(id, execution_id, name, test_case_id, status, duration_ms, content_hash, ord, section)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		run.ID,
		run.ExecutionID,
		run.Name,
		run.TestCaseID,
		string(run.Status),
		run.DurationMs,
		run.ContentHash,
		run.Order,
		string(run.Section),
	)
	return err
}

func writeLogRecord(ctx context.Context, db execer, step model.Step) error {
	var parent sql.NullString
	if step.ParentID != "" {
		parent = sql.NullString{String: step.ParentID, Valid: true}
	}

	_, err := db.ExecContext(ctx, `
		INSERT INTO log_records
		(id, test_run_id, parent_id, name, kind, status, duration_ms, content_hash, seq)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		step.ID,
		step.TestRunID,
		parent,
		step.Name,
		string(step.Kind),
		string(step.Status),
		step.DurationMs,
		step.ContentHash,
		step.Seq,
	)
	return err
}
