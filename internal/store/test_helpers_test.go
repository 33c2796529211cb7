package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/roach88/execdiff/internal/model"
)

// createTestStore creates a new store in a temp directory for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestExecution writes an execution with one test run and returns both.
func createTestExecution(t *testing.T, s *Store, execID, runID string) (model.Execution, model.TestRun) {
	t.Helper()
	exec := model.Execution{ID: execID, Name: "exec " + execID, TestPlanID: "plan-1"}
	run := model.TestRun{
		ID:          runID,
		ExecutionID: execID,
		Name:        "Checkout",
		TestCaseID:  "case-1",
		Status:      model.StatusPassed,
		DurationMs:  100,
		Order:       1,
	}
	written, err := s.WriteExecutionAtomic(context.Background(), exec, []model.TestRun{run}, nil)
	if err != nil {
		t.Fatalf("WriteExecutionAtomic() failed: %v", err)
	}
	return written, run
}

// createTestRecord creates a log record with minimal required fields.
func createTestRecord(id, runID, parentID, name string, kind model.Kind, seq int64) model.Step {
	return model.Step{
		ID:         id,
		TestRunID:  runID,
		ParentID:   parentID,
		Name:       name,
		Kind:       kind,
		Status:     model.StatusPassed,
		DurationMs: 10,
		Seq:        seq,
	}
}
