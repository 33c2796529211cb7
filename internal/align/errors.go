package align

import (
	"errors"
	"fmt"
)

// ErrNotPairwise is returned by BuildTree for a matrix that does not have
// exactly two sources.
var ErrNotPairwise = errors.New("tree reconstruction requires exactly two sources")

// MissingAncestorsError reports a step that names a parent but carries no
// ancestor chain.
type MissingAncestorsError struct {
	StepID   string
	ParentID string
}

func (e *MissingAncestorsError) Error() string {
	return fmt.Sprintf("step %s: parent %s set but ancestor chain is empty", e.StepID, e.ParentID)
}

// IsMissingAncestors returns true if err is (or wraps) a MissingAncestorsError.
func IsMissingAncestors(err error) bool {
	var me *MissingAncestorsError
	return errors.As(err, &me)
}
