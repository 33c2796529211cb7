package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "execdiff", cmd.Use)
	assert.Contains(t, cmd.Long, "aligned")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := [][]string{
		{"import"},
		{"list"},
		{"compare"},
		{"compare", "runs"},
		{"compare", "steps"},
		{"screenshots"},
	}

	for _, path := range commands {
		t.Run(path[len(path)-1], func(t *testing.T) {
			subCmd, _, err := cmd.Find(path)
			require.NoError(t, err, "Command %v should exist", path)
			require.NotNil(t, subCmd)
			assert.Equal(t, path[len(path)-1], subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	for _, name := range []string{"config", "db", "blobs", "concurrency", "color"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), "missing --%s", name)
	}
}

func TestCompareStepsScopeFlag(t *testing.T) {
	cmd := NewRootCommand()
	stepsCmd, _, err := cmd.Find([]string{"compare", "steps"})
	require.NoError(t, err)

	scopeFlag := stepsCmd.Flags().Lookup("scope")
	require.NotNil(t, scopeFlag)
	assert.Equal(t, "log-record", scopeFlag.DefValue)
}

func TestFormatValidation(t *testing.T) {
	assert.True(t, isValidFormat("text"))
	assert.True(t, isValidFormat("json"))

	assert.False(t, isValidFormat("xml"))
	assert.False(t, isValidFormat(""))
	assert.False(t, isValidFormat("TEXT"))
}

func TestFormatValidationIntegration(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetArgs([]string{"--format", "invalid", "list"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitCommandError, GetExitCode(WrapExitError(ExitCommandError, "bad", nil)))
	assert.Equal(t, ExitFailure, GetExitCode(assert.AnError))
}

func TestTruncateID(t *testing.T) {
	assert.Equal(t, "short", truncateID("short"))
	assert.Equal(t, "0192e0a1...9f3c2b1a", truncateID("0192e0a1-7c3d-7b2e-8a41-5d0e9f3c2b1a"))
}

func TestRun_Success(t *testing.T) {
	opts := testOptions(t, "text")
	importFixtures(t, opts)

	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	code := Run([]string{"--db", opts.DB, "list"}, stdout, stderr)

	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, stdout.String(), "exec-41")
	assert.Empty(t, stderr.String())
}

func TestRun_JSONErrorResponse(t *testing.T) {
	opts := testOptions(t, "json")
	importFixtures(t, opts)

	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	code := Run([]string{"--format", "json", "--db", opts.DB, "compare", "runs", "exec-41", "exec-41"}, stdout, stderr)

	assert.Equal(t, ExitCommandError, code)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "DUPLICATE_EXECUTION", resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "exec-41")
}

func TestRun_JSONSchemaErrorCarriesPath(t *testing.T) {
	dir := t.TempDir()
	stdout := &bytes.Buffer{}
	code := Run([]string{
		"--format", "json",
		"--db", filepath.Join(dir, "test.db"),
		"--blobs", filepath.Join(dir, "blobs"),
		"import", "testdata/nope.yaml",
	}, stdout, &bytes.Buffer{})

	assert.Equal(t, ExitCommandError, code)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "FIXTURE_READ", resp.Error.Code)
	assert.Equal(t, map[string]interface{}{"path": "testdata/nope.yaml"}, resp.Error.Details)
}

func TestRun_TextErrorGoesToStderr(t *testing.T) {
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	code := Run([]string{"--db", filepath.Join(t.TempDir(), "missing.db"), "list"}, stdout, stderr)

	assert.Equal(t, ExitCommandError, code)
	assert.Empty(t, stdout.String())
	assert.Contains(t, stderr.String(), "Error [COMMAND_ERROR]: database not found")
}
