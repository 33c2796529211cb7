package align

import (
	"fmt"
	"strings"

	"github.com/roach88/execdiff/internal/model"
)

// step builds a root-level action step whose fingerprint is hash.
func step(id, name, hash string, durationMs int64) model.Step {
	return model.Step{
		ID:          id,
		Name:        name,
		Kind:        model.KindAction,
		Status:      model.StatusPassed,
		DurationMs:  durationMs,
		ContentHash: hash,
	}
}

// sources derives one record sequence per step list, naming sources s0, s1, ...
func sources(lists ...[]model.Step) [][]*Record {
	out := make([][]*Record, len(lists))
	for i, steps := range lists {
		out[i] = DeriveSequence(fmt.Sprintf("s%d", i), steps)
	}
	return out
}

// renderMatrix renders rows as "name@duration(delta)" cells, "-" for placeholders.
func renderMatrix(m *Matrix) string {
	var b strings.Builder
	for _, row := range m.Rows {
		cells := make([]string, len(row.Slots))
		for k, s := range row.Slots {
			if s.Empty() {
				cells[k] = "-"
				continue
			}
			p := s.Record.Payload
			cells[k] = fmt.Sprintf("%s@%d(%+d)", p.Name, p.DurationMs, s.DeltaMs)
		}
		b.WriteString(strings.Join(cells, " | "))
		b.WriteString("\n")
	}
	return b.String()
}

// rowIDs returns the step ids of each row, "-" for placeholders.
func rowIDs(m *Matrix) [][]string {
	out := make([][]string, len(m.Rows))
	for r, row := range m.Rows {
		ids := make([]string, len(row.Slots))
		for k, s := range row.Slots {
			if s.Empty() {
				ids[k] = "-"
				continue
			}
			ids[k] = s.Record.Payload.ID
		}
		out[r] = ids
	}
	return out
}

// pipeline runs Align, Order and ApplyDeltas.
func pipeline(srcs [][]*Record) *Matrix {
	m := Align(srcs)
	Order(m)
	ApplyDeltas(m)
	return m
}
