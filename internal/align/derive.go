package align

import (
	"strings"

	"github.com/roach88/execdiff/internal/model"
)

// PathSeparator joins skipped ancestor fingerprints in a structural path.
const PathSeparator = " / "

// Derive builds the comparable record for one step.
//
// Fingerprint rules, by number of ancestors:
//   - none: the step's own content hash, else its name
//   - one: the parent's content identity (the step is co-located with it)
//   - several: the content identity of the closest ancestor that is not
//     compound; compound ancestors skipped on the way form the structural path
//
// Content identity is the content hash, else the normalized name. When no
// ancestor qualifies the step's own fingerprint is used and the path still
// lists every skipped compound ancestor.
func Derive(sourceID string, index int, step model.Step) *Record {
	fingerprint, path := deriveKey(step)
	return &Record{
		SourceID:       sourceID,
		OriginalIndex:  index,
		Fingerprint:    fingerprint,
		StructuralPath: path,
		Payload:        step,
		rowIndex:       -1,
	}
}

// DeriveSequence derives records for an ordered sequence of steps.
// Returns an empty slice (not nil) for an empty sequence.
func DeriveSequence(sourceID string, steps []model.Step) []*Record {
	records := make([]*Record, len(steps))
	for i, step := range steps {
		records[i] = Derive(sourceID, i, step)
	}
	return records
}

func deriveKey(step model.Step) (fingerprint, path string) {
	switch len(step.Ancestors) {
	case 0:
		return step.Fingerprint(), ""
	case 1:
		return step.Ancestors[0].Fingerprint(), ""
	}

	var skipped []string
	for _, a := range step.Ancestors {
		if a.Kind.IsCompound() {
			skipped = append(skipped, a.Fingerprint())
			continue
		}
		if fp := a.Fingerprint(); fp != "" {
			return fp, strings.Join(skipped, PathSeparator)
		}
	}
	return step.Fingerprint(), strings.Join(skipped, PathSeparator)
}
