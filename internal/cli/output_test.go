package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/execdiff/internal/align"
	"github.com/roach88/execdiff/internal/compare"
	"github.com/roach88/execdiff/internal/fixture"
	"github.com/roach88/execdiff/internal/store"
)

func TestOutputFormatter_JSONSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	data := map[string]string{"result": "success"}
	err := formatter.Success(data)
	require.NoError(t, err)

	var resp CLIResponse
	err = json.Unmarshal(buf.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Status)
	assert.NotNil(t, resp.Data)
}

func TestOutputFormatter_JSONError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	err := formatter.Error("NOT_FOUND", "execution not found", nil)
	require.NoError(t, err)

	var resp CLIResponse
	err = json.Unmarshal(buf.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "error", resp.Status)
	assert.NotNil(t, resp.Error)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
	assert.Equal(t, "execution not found", resp.Error.Message)
}

func TestOutputFormatter_JSONErrorWithDetails(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	details := map[string]string{"file": "run.yaml", "line": "42"}
	err := formatter.Error("FIXTURE_SCHEMA", "invalid document", details)
	require.NoError(t, err)

	var resp CLIResponse
	err = json.Unmarshal(buf.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "error", resp.Status)
	assert.NotNil(t, resp.Error)
	assert.NotNil(t, resp.Error.Details)
}

func TestOutputFormatter_TextSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "text",
		Writer: buf,
	}

	err := formatter.Success("Imported 1 execution")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Imported 1 execution")
}

func TestOutputFormatter_TextError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format:  "text",
		Writer:  buf,
		Verbose: false,
	}

	err := formatter.Error("NOT_FOUND", "execution not found", nil)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Error [NOT_FOUND]")
	assert.Contains(t, buf.String(), "execution not found")
}

func TestOutputFormatter_TextErrorVerbose(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format:  "text",
		Writer:  buf,
		Verbose: true,
	}

	details := map[string]string{"file": "run.yaml"}
	err := formatter.Error("NOT_FOUND", "execution not found", details)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Error [NOT_FOUND]")
	assert.Contains(t, buf.String(), "Details:")
}

func TestOutputFormatter_VerboseLog(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		wantLog bool
	}{
		{"verbose_enabled", true, true},
		{"verbose_disabled", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := &bytes.Buffer{}
			diag := &bytes.Buffer{}
			formatter := &OutputFormatter{
				Format:    "json",
				Writer:    out,
				ErrWriter: diag,
				Verbose:   tt.verbose,
			}

			formatter.VerboseLog("Importing %s", "run.yaml")

			assert.Empty(t, out.String(), "diagnostics must not reach stdout")
			if tt.wantLog {
				assert.Contains(t, diag.String(), "Importing run.yaml")
			} else {
				assert.Empty(t, diag.String())
			}
		})
	}
}

func TestErrorCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			"request error keeps its code",
			WrapExitError(ExitCommandError, "invalid comparison request", &compare.RequestError{Code: compare.CodeInvalidPair}),
			"INVALID_PAIR",
		},
		{
			"fixture error keeps its code",
			WrapExitError(ExitCommandError, "invalid document", &fixture.Error{Code: fixture.ErrCodeSchema}),
			"FIXTURE_SCHEMA",
		},
		{
			"missing ancestors",
			fmt.Errorf("build tree: %w", &align.MissingAncestorsError{StepID: "s", ParentID: "p"}),
			CodeMissingAncestors,
		},
		{
			"not found",
			WrapExitError(ExitCommandError, "comparison failed", fmt.Errorf("lookup execution x: %w", store.ErrNotFound)),
			CodeNotFound,
		},
		{"command error", WrapExitError(ExitCommandError, "database not found", nil), CodeCommandError},
		{"anything else", errors.New("disk on fire"), CodeFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errorCode(tt.err))
		})
	}
}

func TestOutputFormatter_ReportError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf}

	err := WrapExitError(ExitCommandError, "invalid document",
		&fixture.Error{Code: fixture.ErrCodeParse, Path: "run.yaml", Message: "bad indent"})
	require.NoError(t, formatter.reportError(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "FIXTURE_PARSE", resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "bad indent")
	assert.Equal(t, map[string]interface{}{"path": "run.yaml"}, resp.Error.Details)
}

func TestCLIResponse_JSON(t *testing.T) {
	resp := CLIResponse{
		Status: "ok",
		Data:   map[string]int{"count": 42},
	}

	data, err := json.Marshal(resp)
	require.NoError(t, err)

	var decoded CLIResponse
	err = json.Unmarshal(data, &decoded)
	require.NoError(t, err)
	assert.Equal(t, "ok", decoded.Status)
}

func TestCLIError_JSON(t *testing.T) {
	cliErr := CLIError{
		Code:    "DUPLICATE_EXECUTION",
		Message: "ids must be unique",
		Details: []string{"exec-1"},
	}

	data, err := json.Marshal(cliErr)
	require.NoError(t, err)

	var decoded CLIError
	err = json.Unmarshal(data, &decoded)
	require.NoError(t, err)
	assert.Equal(t, "DUPLICATE_EXECUTION", decoded.Code)
	assert.Equal(t, "ids must be unique", decoded.Message)
}
