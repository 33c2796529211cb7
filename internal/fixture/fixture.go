// Package fixture loads execution documents from YAML and imports them into
// the store.
//
// A document describes one execution with its test runs and nested log
// records. Documents are checked against an embedded CUE schema before they
// are decoded into Go types.
package fixture

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaCUE string

// Error codes for fixture failures.
const (
	ErrCodeRead   = "FIXTURE_READ"
	ErrCodeParse  = "FIXTURE_PARSE"
	ErrCodeSchema = "FIXTURE_SCHEMA"
)

// Error reports a fixture that could not be loaded.
type Error struct {
	Code    string
	Path    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %s", e.Path, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// IsSchemaError returns true if err is a fixture schema violation.
func IsSchemaError(err error) bool {
	var fe *Error
	return errors.As(err, &fe) && fe.Code == ErrCodeSchema
}

// Document is the top-level fixture file.
type Document struct {
	Execution    Execution `yaml:"execution"`
	DeriveHashes bool      `yaml:"derive_hashes"`

	// Dir resolves relative screenshot paths. Set by Load.
	Dir string `yaml:"-"`
}

// Execution describes the execution being imported.
type Execution struct {
	ID          string    `yaml:"id"`
	Name        string    `yaml:"name"`
	TestPlanID  string    `yaml:"test_plan_id"`
	ScopeDriven bool      `yaml:"scope_driven"`
	TestRuns    []TestRun `yaml:"test_runs"`
}

// TestRun describes one test run and its log records.
type TestRun struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	TestCaseID  string   `yaml:"test_case_id"`
	Status      string   `yaml:"status"`
	DurationMs  int64    `yaml:"duration_ms"`
	ContentHash string   `yaml:"content_hash"`
	Order       int      `yaml:"order"`
	Section     string   `yaml:"section"`
	Records     []Record `yaml:"records"`
}

// Record describes a log record. Children nest under it.
type Record struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Kind        string   `yaml:"kind"`
	Status      string   `yaml:"status"`
	DurationMs  int64    `yaml:"duration_ms"`
	ContentHash string   `yaml:"content_hash"`
	Screenshot  string   `yaml:"screenshot"`
	Children    []Record `yaml:"children"`
}

// Load reads and validates a fixture file.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Code: ErrCodeRead, Path: path, Message: err.Error(), Err: err}
	}

	doc, err := Parse(data)
	if err != nil {
		var fe *Error
		if errors.As(err, &fe) {
			fe.Path = path
		}
		return nil, err
	}
	doc.Dir = filepath.Dir(path)
	return doc, nil
}

// Parse validates data against the schema and decodes it.
func Parse(data []byte) (*Document, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &Error{Code: ErrCodeParse, Message: err.Error(), Err: err}
	}
	if raw == nil {
		return nil, &Error{Code: ErrCodeSchema, Message: "empty document"}
	}
	if err := validate(raw); err != nil {
		return nil, err
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, &Error{Code: ErrCodeParse, Message: err.Error(), Err: err}
	}
	return &doc, nil
}

// validate unifies the decoded YAML with #Document and requires a concrete,
// conflict-free result.
func validate(raw any) error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile fixture schema: %w", err)
	}

	doc := ctx.Encode(raw)
	if err := doc.Err(); err != nil {
		return &Error{Code: ErrCodeParse, Message: err.Error(), Err: err}
	}

	v := schema.LookupPath(cue.ParsePath("#Document")).Unify(doc)
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return &Error{Code: ErrCodeSchema, Message: err.Error(), Err: err}
	}
	return nil
}
