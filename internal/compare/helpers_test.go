package compare

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/roach88/execdiff/internal/logging"
	"github.com/roach88/execdiff/internal/model"
)

var errNotFound = errors.New("not found")

// fakeStore is an in-memory SequenceProvider and PlanLookup that counts
// every call it receives.
type fakeStore struct {
	mu      sync.Mutex
	calls   int
	execs   map[string]model.Execution
	runs    map[string][]model.TestRun
	records map[string][]model.Step
	fail    map[string]error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		execs:   make(map[string]model.Execution),
		runs:    make(map[string][]model.TestRun),
		records: make(map[string][]model.Step),
		fail:    make(map[string]error),
	}
}

func (f *fakeStore) count() {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
}

func (f *fakeStore) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeStore) addExecution(exec model.Execution, runs ...model.TestRun) {
	f.execs[exec.ID] = exec
	for k := range runs {
		runs[k].ExecutionID = exec.ID
	}
	f.runs[exec.ID] = runs
}

func (f *fakeStore) TestRunSequence(ctx context.Context, executionID string) ([]model.TestRun, error) {
	f.count()
	return f.runs[executionID], nil
}

func (f *fakeStore) LogRecordSequence(ctx context.Context, testRunID string) ([]model.Step, error) {
	f.count()
	if err := f.fail[testRunID]; err != nil {
		return nil, err
	}
	return f.records[testRunID], nil
}

func (f *fakeStore) ExecutionPlan(ctx context.Context, executionID string) (string, error) {
	exec, err := f.Execution(ctx, executionID)
	return exec.TestPlanID, err
}

func (f *fakeStore) Execution(ctx context.Context, executionID string) (model.Execution, error) {
	f.count()
	exec, ok := f.execs[executionID]
	if !ok {
		return model.Execution{}, fmt.Errorf("execution %s: %w", executionID, errNotFound)
	}
	return exec, nil
}

func (f *fakeStore) TestRun(ctx context.Context, testRunID string) (model.TestRun, error) {
	f.count()
	for _, runs := range f.runs {
		for _, r := range runs {
			if r.ID == testRunID {
				return r, nil
			}
		}
	}
	return model.TestRun{}, fmt.Errorf("test run %s: %w", testRunID, errNotFound)
}

func newService(f *fakeStore, blobs BlobLookup) *Service {
	return New(f, f, blobs, WithLogger(logging.Discard()), WithConcurrency(2))
}

func testRun(id, name, testCase string, order int, dur int64) model.TestRun {
	return model.TestRun{
		ID:         id,
		Name:       name,
		TestCaseID: testCase,
		Status:     model.StatusPassed,
		DurationMs: dur,
		Order:      order,
	}
}

func record(id, name, hash string, dur int64) model.Step {
	return model.Step{
		ID:          id,
		Name:        name,
		Kind:        model.KindAction,
		Status:      model.StatusPassed,
		DurationMs:  dur,
		ContentHash: hash,
	}
}

// scenarioA stores the two test runs of the simple-match scenario.
func scenarioA(f *fakeStore) {
	f.addExecution(model.Execution{ID: "exec-a"}, testRun("run-a", "Flow", "", 1, 13))
	f.addExecution(model.Execution{ID: "exec-b"}, testRun("run-b", "Flow", "", 1, 13))

	logout := record("b2", "Logout", "X", 3)
	logout.Status = model.StatusFailed
	f.records["run-a"] = []model.Step{record("a1", "Login", "L", 5), record("a2", "Submit", "S", 8)}
	f.records["run-b"] = []model.Step{record("b1", "Submit", "S", 10), logout}
}
