package align

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrder_SortsByMaxOriginalIndexStable(t *testing.T) {
	m := &Matrix{Width: 1}
	for _, idx := range []int{2, 0, 2, 1} {
		m.newRow(0, &Record{OriginalIndex: idx})
	}

	Order(m)

	var got []int
	for _, row := range m.Rows {
		got = append(got, row.Index)
	}
	assert.Equal(t, []int{1, 3, 0, 2}, got, "ties keep creation order")
}

func TestOrder_KeepsCreationIndexResolvable(t *testing.T) {
	m := &Matrix{Width: 1}
	a := &Record{OriginalIndex: 5}
	b := &Record{OriginalIndex: 1}
	m.newRow(0, a)
	m.newRow(0, b)

	Order(m)

	assert.Same(t, b, m.Rows[0].First())
	assert.Same(t, a, m.row(a.RowIndex()).First())
}

func TestApplyDeltas_EmptySlotsReportZero(t *testing.T) {
	m := &Matrix{Width: 3}
	row := m.newRow(1, &Record{Payload: step("x", "X", "X", 10)})
	row.place(&Record{Payload: step("y", "X", "X", 4)})

	ApplyDeltas(m)

	assert.True(t, row.Slots[0].Empty())
	assert.Zero(t, row.Slots[0].DeltaMs)
	assert.Zero(t, row.Slots[1].DeltaMs, "first populated slot is the reference")
	assert.Equal(t, int64(-6), row.Slots[2].DeltaMs)
}
