package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/execdiff/internal/model"
)

func TestWriteExecutionAtomic_AssignsSeq(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	first, err := s.WriteExecutionAtomic(ctx, model.Execution{ID: "e1", Name: "first"}, nil, nil)
	require.NoError(t, err)
	second, err := s.WriteExecutionAtomic(ctx, model.Execution{ID: "e2", Name: "second"}, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, int64(1), first.Seq)
	assert.Equal(t, int64(2), second.Seq)
}

func TestWriteExecutionAtomic_KeepsExplicitSeq(t *testing.T) {
	s := createTestStore(t)

	got, err := s.WriteExecutionAtomic(context.Background(), model.Execution{ID: "e1", Seq: 42}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(42), got.Seq)
}

func TestWriteExecutionAtomic_RollsBackOnError(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	exec := model.Execution{ID: "e1"}
	run := model.TestRun{ID: "r1", ExecutionID: "e1", Name: "Login", Status: model.StatusPassed}
	// Parent does not exist, violating the self foreign key.
	orphan := createTestRecord("s1", "r1", "missing-parent", "Click", model.KindAction, 1)

	_, err := s.WriteExecutionAtomic(ctx, exec, []model.TestRun{run}, []model.Step{orphan})
	require.Error(t, err)

	_, err = s.Execution(ctx, "e1")
	assert.True(t, errors.Is(err, ErrNotFound), "execution should not survive rollback, got %v", err)
}

func TestWriteExecution_Idempotent(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	exec := model.Execution{ID: "e1", Name: "original", Seq: 1}
	require.NoError(t, s.WriteExecution(ctx, exec))

	exec.Name = "changed"
	require.NoError(t, s.WriteExecution(ctx, exec))

	got, err := s.Execution(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, "original", got.Name, "duplicate insert must be ignored")
}

func TestWriteTestRun_RequiresExecution(t *testing.T) {
	s := createTestStore(t)

	err := s.WriteTestRun(context.Background(), model.TestRun{ID: "r1", ExecutionID: "nope"})
	assert.Error(t, err)
}

func TestWriteLogRecord_RejectsUnknownKind(t *testing.T) {
	s := createTestStore(t)
	createTestExecution(t, s, "e1", "r1")

	rec := createTestRecord("s1", "r1", "", "Click", model.Kind("bogus"), 1)
	assert.Error(t, s.WriteLogRecord(context.Background(), rec))
}

func TestDeleteExecution_Cascades(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	createTestExecution(t, s, "e1", "r1")
	require.NoError(t, s.WriteLogRecord(ctx, createTestRecord("s1", "r1", "", "Click", model.KindAction, 1)))

	require.NoError(t, s.DeleteExecution(ctx, "e1"))

	_, err := s.TestRun(ctx, "r1")
	assert.ErrorIs(t, err, ErrNotFound)

	steps, err := s.LogRecordSequence(ctx, "r1")
	require.NoError(t, err)
	assert.Empty(t, steps)

	// Deleting again is a no-op.
	assert.NoError(t, s.DeleteExecution(ctx, "e1"))
}
