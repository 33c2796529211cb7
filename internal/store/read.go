package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/execdiff/internal/model"
)

// maxAncestorDepth bounds the recursive ancestor walk.
const maxAncestorDepth = 64

// Execution retrieves a single execution by ID.
// Returns an error wrapping ErrNotFound if it does not exist.
func (s *Store) Execution(ctx context.Context, id string) (model.Execution, error) {
	var exec model.Execution
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, test_plan_id, scope_driven, seq
		FROM executions
		WHERE id = ?
	`, id).Scan(&exec.ID, &exec.Name, &exec.TestPlanID, &exec.ScopeDriven, &exec.Seq)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Execution{}, fmt.Errorf("execution %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.Execution{}, fmt.Errorf("read execution: %w", err)
	}
	return exec, nil
}

// ExecutionPlan returns the owning test plan id of an execution, or "" for an
// ad-hoc execution.
func (s *Store) ExecutionPlan(ctx context.Context, id string) (string, error) {
	exec, err := s.Execution(ctx, id)
	if err != nil {
		return "", err
	}
	return exec.TestPlanID, nil
}

// ListExecutions returns all executions ordered by seq ASC, id ASC.
// Returns an empty slice (not nil) if there are none.
func (s *Store) ListExecutions(ctx context.Context) ([]model.Execution, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, test_plan_id, scope_driven, seq
		FROM executions
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query executions: %w", err)
	}
	defer rows.Close()

	executions := []model.Execution{}
	for rows.Next() {
		var exec model.Execution
		if err := rows.Scan(&exec.ID, &exec.Name, &exec.TestPlanID, &exec.ScopeDriven, &exec.Seq); err != nil {
			return nil, fmt.Errorf("scan execution: %w", err)
		}
		executions = append(executions, exec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate executions: %w", err)
	}
	return executions, nil
}

// TestRun retrieves a single test run by ID.
// Returns an error wrapping ErrNotFound if it does not exist.
func (s *Store) TestRun(ctx context.Context, id string) (model.TestRun, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, execution_id, name, test_case_id, status, duration_ms, content_hash, ord, section
		FROM test_runs
		WHERE id = ?
	`, id)

	run, err := scanTestRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.TestRun{}, fmt.Errorf("test run %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.TestRun{}, fmt.Errorf("read test run: %w", err)
	}
	return run, nil
}

// TestRunSequence returns the test runs of an execution in natural order
// (ord ASC, id ASC). Returns an empty slice (not nil) if there are none.
func (s *Store) TestRunSequence(ctx context.Context, executionID string) ([]model.TestRun, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, execution_id, name, test_case_id, status, duration_ms, content_hash, ord, section
		FROM test_runs
		WHERE execution_id = ?
		ORDER BY ord ASC, id COLLATE BINARY ASC
	`, executionID)
	if err != nil {
		return nil, fmt.Errorf("query test runs: %w", err)
	}
	defer rows.Close()

	runs := []model.TestRun{}
	for rows.Next() {
		run, err := scanTestRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan test run: %w", err)
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate test runs: %w", err)
	}
	return runs, nil
}

// LogRecordSequence returns the log records of a test run in natural order
// (seq ASC, id ASC), each with its ancestor chain closest-first.
// Returns an empty slice (not nil) if there are none.
func (s *Store) LogRecordSequence(ctx context.Context, testRunID string) ([]model.Step, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, test_run_id, COALESCE(parent_id, ''), name, kind, status, duration_ms, content_hash, seq
		FROM log_records
		WHERE test_run_id = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, testRunID)
	if err != nil {
		return nil, fmt.Errorf("query log records: %w", err)
	}
	defer rows.Close()

	steps := []model.Step{}
	for rows.Next() {
		var st model.Step
		var kind, status string
		if err := rows.Scan(
			&st.ID, &st.TestRunID, &st.ParentID, &st.Name, &kind, &status,
			&st.DurationMs, &st.ContentHash, &st.Seq,
		); err != nil {
			return nil, fmt.Errorf("scan log record: %w", err)
		}
		st.Kind = model.Kind(kind)
		st.Status = model.Status(status)
		steps = append(steps, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate log records: %w", err)
	}

	ancestors, err := s.readAncestors(ctx, testRunID)
	if err != nil {
		return nil, err
	}
	for k := range steps {
		steps[k].Ancestors = ancestors[steps[k].ID]
	}

	return steps, nil
}

// readAncestors resolves ancestor chains for every record of a test run.
// Chains are ordered closest-first (depth ASC).
func (s *Store) readAncestors(ctx context.Context, testRunID string) (map[string][]model.Ancestor, error) {
	rows, err := s.db.QueryContext(ctx, `
		WITH RECURSIVE chain(step_id, ancestor_id, depth) AS (
			SELECT id, parent_id, 1
			FROM log_records
			WHERE test_run_id = ? AND parent_id IS NOT NULL
			UNION ALL
			SELECT c.step_id, lr.parent_id, c.depth + 1
			FROM chain c
			JOIN log_records lr ON lr.id = c.ancestor_id
			WHERE lr.parent_id IS NOT NULL AND c.depth < ?
		)
		SELECT c.step_id, a.id, a.name, a.kind, a.content_hash
		FROM chain c
		JOIN log_records a ON a.id = c.ancestor_id
		ORDER BY c.step_id COLLATE BINARY ASC, c.depth ASC
	`, testRunID, maxAncestorDepth)
	if err != nil {
		return nil, fmt.Errorf("query ancestors: %w", err)
	}
	defer rows.Close()

	chains := make(map[string][]model.Ancestor)
	for rows.Next() {
		var stepID, kind string
		var a model.Ancestor
		if err := rows.Scan(&stepID, &a.ID, &a.Name, &kind, &a.ContentHash); err != nil {
			return nil, fmt.Errorf("scan ancestor: %w", err)
		}
		a.Kind = model.Kind(kind)
		chains[stepID] = append(chains[stepID], a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ancestors: %w", err)
	}
	return chains, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTestRun(row rowScanner) (model.TestRun, error) {
	var run model.TestRun
	var status, section string
	if err := row.Scan(
		&run.ID, &run.ExecutionID, &run.Name, &run.TestCaseID, &status,
		&run.DurationMs, &run.ContentHash, &run.Order, &section,
	); err != nil {
		return model.TestRun{}, err
	}
	run.Status = model.Status(status)
	run.Section = model.Section(section)
	return run, nil
}
