package compare

import (
	"github.com/roach88/execdiff/internal/align"
	"github.com/roach88/execdiff/internal/model"
)

// RowType classifies a table row.
type RowType string

const (
	RowStep     RowType = "step"
	RowCompound RowType = "compound"
)

// Cell is one execution's view of a row.
type Cell struct {
	ExecutionID string       `json:"execution_id,omitempty"`
	TestRunID   string       `json:"test_run_id,omitempty"`
	StepID      string       `json:"step_id,omitempty"`
	Status      model.Status `json:"status,omitempty"`
	DurationMs  int64        `json:"duration_ms"`
	DeltaMs     int64        `json:"delta_ms"`
	Empty       bool         `json:"empty"`
}

// Row is one aligned step with exactly one cell per source.
type Row struct {
	Name  string  `json:"name"`
	Type  RowType `json:"type"`
	Cells []Cell  `json:"cells"`
}

// Table is a flat comparison. Sources lists the compared ids in column order.
type Table struct {
	Sources []string `json:"sources"`
	Rows    []Row    `json:"rows"`
}

// emptyTable is returned for requests with no ids.
func emptyTable() Table {
	return Table{Sources: []string{}, Rows: []Row{}}
}

// owner maps a source column to the execution and test run that own it.
type owner struct {
	executionID string
	testRunID   string
}

// tableFromMatrix shapes an aligned matrix. owners has one entry per column.
func tableFromMatrix(m *align.Matrix, sources []string, owners []owner) Table {
	t := Table{Sources: sources, Rows: make([]Row, 0, len(m.Rows))}

	for _, r := range m.Rows {
		first := r.First()
		if first == nil {
			continue
		}
		row := Row{
			Name:  first.Payload.Name,
			Type:  RowStep,
			Cells: make([]Cell, len(r.Slots)),
		}
		if first.Payload.Kind.IsCompound() {
			row.Type = RowCompound
		}

		for k, s := range r.Slots {
			if s.Empty() {
				row.Cells[k] = Cell{Empty: true}
				continue
			}
			step := s.Record.Payload
			row.Cells[k] = Cell{
				ExecutionID: owners[k].executionID,
				TestRunID:   owners[k].testRunID,
				StepID:      step.ID,
				Status:      step.Status,
				DurationMs:  step.DurationMs,
				DeltaMs:     s.DeltaMs,
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}
