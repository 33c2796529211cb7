package compare

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/roach88/execdiff/internal/align"
	"github.com/roach88/execdiff/internal/blob"
	"github.com/roach88/execdiff/internal/model"
)

// SequenceProvider returns steps in their natural order.
type SequenceProvider interface {
	TestRunSequence(ctx context.Context, executionID string) ([]model.TestRun, error)
	LogRecordSequence(ctx context.Context, testRunID string) ([]model.Step, error)
}

// PlanLookup resolves execution and test run identity.
type PlanLookup interface {
	ExecutionPlan(ctx context.Context, executionID string) (string, error)
	Execution(ctx context.Context, executionID string) (model.Execution, error)
	TestRun(ctx context.Context, testRunID string) (model.TestRun, error)
}

// BlobLookup returns the screenshot for a step, or nil if it has none.
type BlobLookup interface {
	Screenshot(ctx context.Context, stepID string) (*blob.Screenshot, error)
}

// Scope selects the level CompareSteps aligns at.
type Scope string

const (
	// ScopeTestRun aligns the test runs of executions.
	ScopeTestRun Scope = "test-run"

	// ScopeLogRecord aligns the log records of test runs.
	ScopeLogRecord Scope = "log-record"
)

// DefaultConcurrency bounds parallel fetches and pair builds.
const DefaultConcurrency = 4

// Service runs comparisons against its collaborators.
// Safe for concurrent use; every call builds its own matrices.
type Service struct {
	seq         SequenceProvider
	plans       PlanLookup
	blobs       BlobLookup
	logger      *slog.Logger
	concurrency int
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithConcurrency bounds parallel work. Values below 1 are ignored.
func WithConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// New creates a Service. blobs may be nil when screenshot content is never
// requested.
func New(seq SequenceProvider, plans PlanLookup, blobs BlobLookup, opts ...Option) *Service {
	s := &Service{
		seq:         seq,
		plans:       plans,
		blobs:       blobs,
		logger:      slog.Default(),
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CompareTestRuns matches whole test runs across executions. The first id is
// the baseline. Runs are matched by test case when every execution belongs
// to the same test plan, by name otherwise.
func (s *Service) CompareTestRuns(ctx context.Context, executionIDs []string) (Table, error) {
	if err := validateIDs(executionIDs); err != nil {
		return Table{}, err
	}
	if len(executionIDs) == 0 {
		return emptyTable(), nil
	}

	m, err := s.matchTestRuns(ctx, executionIDs)
	if err != nil {
		return Table{}, err
	}
	align.ApplyDeltas(m)

	owners := make([]owner, len(executionIDs))
	for k, id := range executionIDs {
		owners[k] = owner{executionID: id}
	}
	return tableFromMatrix(m, executionIDs, owners), nil
}

// matchTestRuns fetches, orders and matches the test runs of executions.
func (s *Service) matchTestRuns(ctx context.Context, executionIDs []string) (*align.Matrix, error) {
	execs := make([]model.Execution, len(executionIDs))
	runs := make([][]model.TestRun, len(executionIDs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for k, id := range executionIDs {
		g.Go(func() error {
			exec, err := s.plans.Execution(gctx, id)
			if err != nil {
				return fmt.Errorf("lookup execution %s: %w", id, err)
			}
			seq, err := s.seq.TestRunSequence(gctx, id)
			if err != nil {
				return fmt.Errorf("fetch test runs of %s: %w", id, err)
			}
			execs[k] = exec
			runs[k] = seq
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	samePlan := sharePlan(execs)
	for k, exec := range execs {
		runs[k] = orderRuns(exec, runs[k])
	}

	s.logger.Debug("matching test runs",
		"executions", len(executionIDs),
		"same_plan", samePlan,
	)
	return align.MatchTestRuns(runs, samePlan), nil
}

// orderRuns puts an execution's test runs in display order. Scope-driven
// executions are regrouped into sections first.
func orderRuns(exec model.Execution, runs []model.TestRun) []model.TestRun {
	if exec.ScopeDriven {
		return align.ReorderSections(runs)
	}
	return align.SortByOrder(runs)
}

// sharePlan reports whether every execution belongs to the same test plan.
// Ad-hoc executions share nothing.
func sharePlan(execs []model.Execution) bool {
	if len(execs) == 0 || execs[0].TestPlanID == "" {
		return false
	}
	for _, e := range execs[1:] {
		if e.TestPlanID != execs[0].TestPlanID {
			return false
		}
	}
	return true
}

// CompareSteps aligns sequences positionally. For ScopeTestRun the ids are
// executions and the sequences their test runs; for ScopeLogRecord the ids
// are test runs and the sequences their log records. The first id is the
// baseline.
func (s *Service) CompareSteps(ctx context.Context, scope Scope, ids []string) (Table, error) {
	if scope != ScopeTestRun && scope != ScopeLogRecord {
		return Table{}, &RequestError{
			Code:    CodeInvalidScope,
			Message: fmt.Sprintf("unknown scope %q (want %s or %s)", scope, ScopeTestRun, ScopeLogRecord),
		}
	}
	if err := validateIDs(ids); err != nil {
		return Table{}, err
	}
	if len(ids) == 0 {
		return emptyTable(), nil
	}

	sources := make([][]*align.Record, len(ids))
	owners := make([]owner, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for k, id := range ids {
		g.Go(func() error {
			steps, own, err := s.fetchSteps(gctx, scope, id)
			if err != nil {
				return err
			}
			sources[k] = align.DeriveSequence(id, steps)
			owners[k] = own
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Table{}, err
	}

	m := align.Align(sources)
	align.Order(m)
	align.ApplyDeltas(m)

	s.logger.Debug("aligned steps",
		"scope", string(scope),
		"sources", len(ids),
		"rows", len(m.Rows),
	)
	return tableFromMatrix(m, ids, owners), nil
}

// fetchSteps loads one source's sequence and who owns it.
func (s *Service) fetchSteps(ctx context.Context, scope Scope, id string) ([]model.Step, owner, error) {
	if scope == ScopeTestRun {
		exec, err := s.plans.Execution(ctx, id)
		if err != nil {
			return nil, owner{}, fmt.Errorf("lookup execution %s: %w", id, err)
		}
		runs, err := s.seq.TestRunSequence(ctx, id)
		if err != nil {
			return nil, owner{}, fmt.Errorf("fetch test runs of %s: %w", id, err)
		}
		runs = orderRuns(exec, runs)
		steps := make([]model.Step, len(runs))
		for k, r := range runs {
			steps[k] = r.AsStep()
		}
		return steps, owner{executionID: id}, nil
	}

	run, err := s.plans.TestRun(ctx, id)
	if err != nil {
		return nil, owner{}, fmt.Errorf("lookup test run %s: %w", id, err)
	}
	steps, err := s.seq.LogRecordSequence(ctx, id)
	if err != nil {
		return nil, owner{}, fmt.Errorf("fetch log records of %s: %w", id, err)
	}
	return steps, owner{executionID: run.ExecutionID, testRunID: id}, nil
}
