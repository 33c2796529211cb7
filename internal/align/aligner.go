package align

// candidate is a baseline record in the per-source working copy.
type candidate struct {
	rec      *Record
	consumed bool
}

// Align builds the alignment matrix for sources[0..N-1].
// sources[0] is the baseline. Records must already be derived.
//
// For every later source i, each record r is placed by the first rule that
// applies:
//  1. an unconsumed matching baseline record, scanning from the highest
//     baseline position consumed so far during this source's pass
//  2. a matching record from sources 1..i-1 whose row has no slot for i yet
//  3. a new row, left-padded with placeholders for sources 0..i-1
//
// After each source every row is padded to i+1 slots. The scan start makes
// matching monotonic: once baseline position k is matched, later records of
// the same source only match baseline positions at or after k. This resolves
// duplicate fingerprints positionally and is the reason the result depends on
// input order.
func Align(sources [][]*Record) *Matrix {
	m := &Matrix{Width: len(sources)}
	if len(sources) == 0 {
		return m
	}

	for _, src := range sources {
		for _, rec := range src {
			rec.consumed = false
			rec.rowIndex = -1
		}
	}

	for _, rec := range sources[0] {
		m.newRow(0, rec)
	}

	for i := 1; i < len(sources); i++ {
		alignSource(m, sources, i)
		m.padAll(i + 1)
	}

	return m
}

// alignSource places every record of sources[i].
func alignSource(m *Matrix, sources [][]*Record, i int) {
	baseline := make([]candidate, len(sources[0]))
	for k, rec := range sources[0] {
		baseline[k] = candidate{rec: rec}
	}

	// Position in baseline of the consumed record with the highest
	// OriginalIndex; -1 until something is consumed.
	highPos := -1

	for _, r := range sources[i] {
		if r.consumed {
			continue
		}

		if pos := scanBaseline(m, baseline, highPos, r, i); pos >= 0 {
			baseline[pos].consumed = true
			if highPos < 0 || baseline[pos].rec.OriginalIndex > baseline[highPos].rec.OriginalIndex {
				highPos = pos
			}
			m.row(baseline[pos].rec.rowIndex).place(r)
			continue
		}

		if match := scanEarlier(m, sources, r, i); match != nil {
			m.row(match.rowIndex).place(r)
			r.consumed = true
			continue
		}

		m.newRow(i, r)
	}
}

// scanBaseline returns the position of the first unconsumed baseline record
// matching r, starting at highPos (or 0). Returns -1 if none.
func scanBaseline(m *Matrix, baseline []candidate, highPos int, r *Record, i int) int {
	start := highPos
	if start < 0 {
		start = 0
	}
	for pos := start; pos < len(baseline); pos++ {
		c := &baseline[pos]
		if c.consumed || !c.rec.matches(r) {
			continue
		}
		// The row may already hold a record from source i via an earlier-
		// source match; a row never takes two records from one source.
		if len(m.row(c.rec.rowIndex).Slots) > i {
			c.consumed = true
			continue
		}
		return pos
	}
	return -1
}

// scanEarlier searches sources 1..i-1 from the start for a record matching r
// whose row can still accept a slot for source i.
func scanEarlier(m *Matrix, sources [][]*Record, r *Record, i int) *Record {
	for j := 1; j < i; j++ {
		for _, e := range sources[j] {
			if e.rowIndex < 0 || !e.matches(r) {
				continue
			}
			if len(m.row(e.rowIndex).Slots) > i {
				continue
			}
			return e
		}
	}
	return nil
}
