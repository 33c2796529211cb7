package align

import "sort"

// Order sorts rows by MaxOriginalIndex ascending. Ties keep insertion order,
// so baseline rows and earlier-created rows come before later insertions at
// the same position.
func Order(m *Matrix) {
	sort.SliceStable(m.Rows, func(a, b int) bool {
		return m.Rows[a].MaxOriginalIndex < m.Rows[b].MaxOriginalIndex
	})
}
