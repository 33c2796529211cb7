package model

// Kind distinguishes actionable steps from purely structural containers.
type Kind string

const (
	// KindAction is a step that does something observable (click, assert, request).
	KindAction Kind = "action"

	// KindCompound is a grouping step; transparent to content matching.
	KindCompound Kind = "compound"
)

// IsCompound reports whether k is a structural container.
func (k Kind) IsCompound() bool {
	return k == KindCompound
}

// Status is the display status of a test run or step.
type Status string

const (
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
	StatusBlocked Status = "blocked"
	StatusUnknown Status = "unknown"
)

// ValidStatuses lists the statuses accepted on import.
var ValidStatuses = map[Status]bool{
	StatusPassed:  true,
	StatusFailed:  true,
	StatusSkipped: true,
	StatusBlocked: true,
	StatusUnknown: true,
}

// Section is the scope bucket a test run belongs to in scope-driven executions.
type Section string

const (
	SectionNone         Section = ""
	SectionPrerequisite Section = "prerequisite"
	SectionExecution    Section = "execution"
	SectionValidation   Section = "validation"
)

// Execution is one run of a test plan (or an ad-hoc set of test runs).
type Execution struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	TestPlanID  string `json:"test_plan_id,omitempty"`
	ScopeDriven bool   `json:"scope_driven"`
	Seq         int64  `json:"seq"`
}

// TestRun is the execution of one test case inside an execution.
type TestRun struct {
	ID          string  `json:"id"`
	ExecutionID string  `json:"execution_id"`
	Name        string  `json:"name"`
	TestCaseID  string  `json:"test_case_id,omitempty"`
	Status      Status  `json:"status"`
	DurationMs  int64   `json:"duration_ms"`
	ContentHash string  `json:"content_hash,omitempty"`
	Order       int     `json:"order"`
	Section     Section `json:"section,omitempty"`
}

// AsStep views a test run as a step so that test-run sequences can be fed
// through the same alignment pipeline as log records.
func (r TestRun) AsStep() Step {
	return Step{
		ID:          r.ID,
		Name:        r.Name,
		Kind:        KindAction,
		Status:      r.Status,
		DurationMs:  r.DurationMs,
		ContentHash: r.ContentHash,
	}
}

// Ancestor is one entry in a step's ancestor chain.
type Ancestor struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Kind        Kind   `json:"kind"`
	ContentHash string `json:"content_hash,omitempty"`
}

// Fingerprint returns the ancestor's content identity, falling back to its name.
func (a Ancestor) Fingerprint() string {
	if a.ContentHash != "" {
		return a.ContentHash
	}
	return NormalizeName(a.Name)
}

// Step is one log record (or a test run viewed as a step).
//
// Ancestors are ordered closest-first: Ancestors[0] is the direct parent.
// A step with a ParentID but no Ancestors has lost its ancestor metadata.
type Step struct {
	ID          string     `json:"id"`
	TestRunID   string     `json:"test_run_id,omitempty"`
	ParentID    string     `json:"parent_id,omitempty"`
	Name        string     `json:"name"`
	Kind        Kind       `json:"kind"`
	Status      Status     `json:"status"`
	DurationMs  int64      `json:"duration_ms"`
	ContentHash string     `json:"content_hash,omitempty"`
	Seq         int64      `json:"seq"`
	Ancestors   []Ancestor `json:"ancestors,omitempty"`
}

// Fingerprint returns the step's own content identity, falling back to its name.
func (s Step) Fingerprint() string {
	if s.ContentHash != "" {
		return s.ContentHash
	}
	return NormalizeName(s.Name)
}
