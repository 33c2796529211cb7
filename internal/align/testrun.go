package align

import (
	"sort"

	"github.com/roach88/execdiff/internal/model"
)

// sectionRank orders scope sections; unsectioned runs go last.
var sectionRank = map[model.Section]int{
	model.SectionPrerequisite: 0,
	model.SectionExecution:    1,
	model.SectionValidation:   2,
	model.SectionNone:         3,
}

func rankOf(s model.Section) int {
	if r, ok := sectionRank[s]; ok {
		return r
	}
	return sectionRank[model.SectionNone]
}

// ReorderSections returns a copy of runs bucketed prerequisite → execution →
// validation → unsectioned, each bucket ordered by its existing Order, with
// contiguous order numbers 1..n assigned across buckets.
func ReorderSections(runs []model.TestRun) []model.TestRun {
	out := make([]model.TestRun, len(runs))
	copy(out, runs)

	sort.SliceStable(out, func(a, b int) bool {
		ra, rb := rankOf(out[a].Section), rankOf(out[b].Section)
		if ra != rb {
			return ra < rb
		}
		return out[a].Order < out[b].Order
	})
	for k := range out {
		out[k].Order = k + 1
	}
	return out
}

// SortByOrder returns a copy of runs stably sorted by Order.
func SortByOrder(runs []model.TestRun) []model.TestRun {
	out := make([]model.TestRun, len(runs))
	copy(out, runs)
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Order < out[b].Order
	})
	return out
}

// testRunKey is the matching key for a whole test run. With a shared test
// plan the originating test case wins; runs without one fall back to name.
func testRunKey(run model.TestRun, samePlan bool) string {
	if samePlan && run.TestCaseID != "" {
		return "case:" + run.TestCaseID
	}
	return "name:" + model.NormalizeName(run.Name)
}

// MatchTestRuns aligns whole test runs across executions without the
// positional scan. executions[k] must already be in display order (see
// SortByOrder and ReorderSections).
//
// Each run goes to the first row with an equal key that has no slot for its
// execution yet; otherwise it starts a new row with placeholders before it.
// Rows stay in creation order.
func MatchTestRuns(executions [][]model.TestRun, samePlan bool) *Matrix {
	m := &Matrix{Width: len(executions)}
	rowsByKey := make(map[string][]*Row)

	for i, runs := range executions {
		for k, run := range runs {
			key := testRunKey(run, samePlan)
			rec := &Record{
				SourceID:      run.ExecutionID,
				OriginalIndex: k,
				Fingerprint:   key,
				Payload:       run.AsStep(),
				rowIndex:      -1,
			}

			placed := false
			for _, row := range rowsByKey[key] {
				if len(row.Slots) == i {
					row.place(rec)
					placed = true
					break
				}
			}
			if !placed {
				rowsByKey[key] = append(rowsByKey[key], m.newRow(i, rec))
			}
		}
		m.padAll(i + 1)
	}

	return m
}
