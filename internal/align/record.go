package align

import (
	"github.com/roach88/execdiff/internal/model"
)

// Record is one step from one source, normalized for matching.
type Record struct {
	// SourceID identifies the execution or test run the record belongs to.
	SourceID string

	// OriginalIndex is the record's zero-based position in its own source.
	OriginalIndex int

	// Fingerprint identifies step content for matching.
	Fingerprint string

	// StructuralPath disambiguates equal fingerprints under different
	// compound branches. Empty when no compound ancestor was skipped.
	StructuralPath string

	// Payload is the underlying step. Never mutated by the engine.
	Payload model.Step

	consumed bool
	rowIndex int
}

// RowIndex returns the creation index of the row holding the record, or -1
// if the record has not been placed.
func (r *Record) RowIndex() int {
	return r.rowIndex
}

// matches reports whether two records represent the same step.
// Both the fingerprint and the structural path must be equal; two empty
// paths are equal.
func (r *Record) matches(other *Record) bool {
	return r.Fingerprint == other.Fingerprint && r.StructuralPath == other.StructuralPath
}

// Slot is one cell of the matrix: a record or an empty placeholder.
type Slot struct {
	Record *Record

	// RowIndex is the creation index of the row the slot belongs to.
	RowIndex int

	// DeltaMs is the duration drift from the row's first populated slot.
	// Set by ApplyDeltas; always 0 for placeholders.
	DeltaMs int64
}

// Empty reports whether the slot is a placeholder.
func (s Slot) Empty() bool {
	return s.Record == nil
}

// Row holds exactly one slot per source once alignment completes.
type Row struct {
	// Index is the row's creation index within the matrix.
	Index int

	Slots []Slot

	// MaxOriginalIndex is the highest OriginalIndex among populated slots.
	// Used only for ordering.
	MaxOriginalIndex int
}

// First returns the first populated slot's record, or nil for an all-empty row.
func (r *Row) First() *Record {
	for _, s := range r.Slots {
		if !s.Empty() {
			return s.Record
		}
	}
	return nil
}

// place appends rec as the next slot and records the row index on it.
func (r *Row) place(rec *Record) {
	rec.rowIndex = r.Index
	r.Slots = append(r.Slots, Slot{Record: rec, RowIndex: r.Index})
	if rec.OriginalIndex > r.MaxOriginalIndex {
		r.MaxOriginalIndex = rec.OriginalIndex
	}
}

// pad appends placeholders until the row has width slots.
func (r *Row) pad(width int) {
	for len(r.Slots) < width {
		r.Slots = append(r.Slots, Slot{RowIndex: r.Index})
	}
}

// Matrix is the aligned table. Width is the number of sources.
//
// INVARIANTS (after Align returns):
//   - every row has exactly Width slots
//   - every input record appears in exactly one slot of exactly one row
type Matrix struct {
	Width int
	Rows  []*Row

	// byIndex resolves creation indexes after Order has permuted Rows.
	byIndex []*Row
}

// newRow appends a row left-padded with column placeholders and places rec
// in slot column.
func (m *Matrix) newRow(column int, rec *Record) *Row {
	row := &Row{Index: len(m.byIndex), MaxOriginalIndex: rec.OriginalIndex}
	row.pad(column)
	row.place(rec)
	m.Rows = append(m.Rows, row)
	m.byIndex = append(m.byIndex, row)
	return row
}

// row returns the row created at index i.
func (m *Matrix) row(i int) *Row {
	return m.byIndex[i]
}

// padAll pads every row to width slots.
func (m *Matrix) padAll(width int) {
	for _, row := range m.Rows {
		row.pad(width)
	}
}
