package fixture

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/roach88/execdiff/internal/blob"
	"github.com/roach88/execdiff/internal/model"
)

// ExecutionWriter persists an execution with its children in one step.
type ExecutionWriter interface {
	WriteExecutionAtomic(ctx context.Context, exec model.Execution, runs []model.TestRun, records []model.Step) (model.Execution, error)
}

// ScreenshotWriter stores screenshot content by log record id.
type ScreenshotWriter interface {
	Put(ctx context.Context, stepID string, shot blob.Screenshot) error
}

// Importer turns fixture documents into stored executions.
type Importer struct {
	store  ExecutionWriter
	blobs  ScreenshotWriter
	ids    model.IDGenerator
	logger *slog.Logger
}

// NewImporter creates an importer. blobs may be nil, in which case documents
// that reference screenshots are rejected.
func NewImporter(store ExecutionWriter, blobs ScreenshotWriter, ids model.IDGenerator, logger *slog.Logger) *Importer {
	if ids == nil {
		ids = model.UUIDv7Generator{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Importer{store: store, blobs: blobs, ids: ids, logger: logger}
}

// Result summarises one import.
type Result struct {
	Execution   model.Execution `json:"execution"`
	TestRuns    int             `json:"test_runs"`
	LogRecords  int             `json:"log_records"`
	Screenshots int             `json:"screenshots"`
}

// pendingShot is a screenshot file waiting to be stored.
type pendingShot struct {
	stepID string
	path   string
}

// Import flattens doc and writes it. Screenshots are stored before the
// execution so a failed blob write leaves no half-imported execution behind.
func (im *Importer) Import(ctx context.Context, doc *Document) (Result, error) {
	exec := model.Execution{
		ID:          doc.Execution.ID,
		Name:        doc.Execution.Name,
		TestPlanID:  doc.Execution.TestPlanID,
		ScopeDriven: doc.Execution.ScopeDriven,
	}
	if exec.ID == "" {
		exec.ID = im.ids.Generate()
	}

	var runs []model.TestRun
	var records []model.Step
	var shots []pendingShot

	for i, tr := range doc.Execution.TestRuns {
		run := model.TestRun{
			ID:          tr.ID,
			ExecutionID: exec.ID,
			Name:        tr.Name,
			TestCaseID:  tr.TestCaseID,
			Status:      statusOf(tr.Status),
			DurationMs:  tr.DurationMs,
			ContentHash: tr.ContentHash,
			Order:       tr.Order,
			Section:     model.Section(tr.Section),
		}
		if run.ID == "" {
			run.ID = im.ids.Generate()
		}
		if run.Order == 0 {
			run.Order = i + 1
		}
		if doc.DeriveHashes && run.ContentHash == "" {
			run.ContentHash = model.TestRunHash(run.TestCaseID, run.Name)
		}
		runs = append(runs, run)

		f := flattener{im: im, runID: run.ID, derive: doc.DeriveHashes}
		f.walk(tr.Records, "", "")
		records = append(records, f.out...)
		shots = append(shots, f.shots...)
	}

	if len(shots) > 0 && im.blobs == nil {
		return Result{}, fmt.Errorf("import %s: document references screenshots but no blob store is configured", exec.Name)
	}
	for _, ps := range shots {
		if err := im.putScreenshot(ctx, doc.Dir, ps); err != nil {
			return Result{}, fmt.Errorf("import %s: %w", exec.Name, err)
		}
	}

	written, err := im.store.WriteExecutionAtomic(ctx, exec, runs, records)
	if err != nil {
		return Result{}, fmt.Errorf("import %s: %w", exec.Name, err)
	}

	im.logger.Info("imported execution",
		"id", written.ID,
		"seq", written.Seq,
		"test_runs", len(runs),
		"log_records", len(records),
		"screenshots", len(shots),
	)

	return Result{
		Execution:   written,
		TestRuns:    len(runs),
		LogRecords:  len(records),
		Screenshots: len(shots),
	}, nil
}

func (im *Importer) putScreenshot(ctx context.Context, dir string, ps pendingShot) error {
	path := ps.path
	if !filepath.IsAbs(path) {
		path = filepath.Join(dir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read screenshot: %w", err)
	}
	shot := blob.Screenshot{ContentType: http.DetectContentType(data), Data: data}
	if err := im.blobs.Put(ctx, ps.stepID, shot); err != nil {
		return err
	}
	im.logger.Debug("stored screenshot", "step", ps.stepID, "bytes", len(data))
	return nil
}

// flattener walks nested records in pre-order, assigning parent ids and a
// per-test-run sequence number.
type flattener struct {
	im     *Importer
	runID  string
	derive bool
	seq    int64
	out    []model.Step
	shots  []pendingShot
}

func (f *flattener) walk(recs []Record, parentID, parentHash string) {
	for _, r := range recs {
		f.seq++
		step := model.Step{
			ID:          r.ID,
			TestRunID:   f.runID,
			ParentID:    parentID,
			Name:        r.Name,
			Kind:        kindOf(r),
			Status:      statusOf(r.Status),
			DurationMs:  r.DurationMs,
			ContentHash: r.ContentHash,
			Seq:         f.seq,
		}
		if step.ID == "" {
			step.ID = f.im.ids.Generate()
		}
		if f.derive && step.ContentHash == "" {
			step.ContentHash = model.StepHash(step.Kind, step.Name, parentHash)
		}
		f.out = append(f.out, step)

		if r.Screenshot != "" {
			f.shots = append(f.shots, pendingShot{stepID: step.ID, path: r.Screenshot})
		}
		f.walk(r.Children, step.ID, step.ContentHash)
	}
}

// kindOf defaults records with children to compound and leaves to action.
func kindOf(r Record) model.Kind {
	if r.Kind != "" {
		return model.Kind(r.Kind)
	}
	if len(r.Children) > 0 {
		return model.KindCompound
	}
	return model.KindAction
}

func statusOf(s string) model.Status {
	if s == "" {
		return model.StatusUnknown
	}
	return model.Status(s)
}
