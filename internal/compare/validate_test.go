package compare

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateUnique(t *testing.T) {
	tests := []struct {
		name string
		ids  []string
		want bool
	}{
		{"empty", nil, true},
		{"single", []string{"a"}, true},
		{"distinct", []string{"a", "b", "c"}, true},
		{"adjacent duplicate", []string{"a", "a"}, false},
		{"distant duplicate", []string{"a", "b", "c", "a"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateUnique(tt.ids))
		})
	}
}

func TestDuplicateRejectedBeforeFetch(t *testing.T) {
	ctx := context.Background()
	dup := []string{"exec-a", "exec-b", "exec-a"}

	calls := map[string]func(s *Service) error{
		"test runs": func(s *Service) error {
			_, err := s.CompareTestRuns(ctx, dup)
			return err
		},
		"steps": func(s *Service) error {
			_, err := s.CompareSteps(ctx, ScopeLogRecord, dup)
			return err
		},
		"screenshots": func(s *Service) error {
			_, err := s.CompareScreenshots(ctx, ScreenshotRequest{ExecutionIDs: []string{"exec-a", "exec-a"}})
			return err
		},
	}

	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			f := newFakeStore()
			scenarioA(f)

			err := call(newService(f, nil))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrDuplicateExecution))
			assert.True(t, IsRequestError(err))

			var re *RequestError
			require.ErrorAs(t, err, &re)
			assert.Equal(t, CodeDuplicateExecution, re.Code)
			assert.Zero(t, f.Calls(), "no collaborator may be called for a rejected request")
		})
	}
}

func TestEmptyIDRejected(t *testing.T) {
	f := newFakeStore()
	_, err := newService(f, nil).CompareTestRuns(context.Background(), []string{"a", ""})

	var re *RequestError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, CodeEmptyID, re.Code)
	assert.Zero(t, f.Calls())
}

func TestRequestError_Message(t *testing.T) {
	err := &RequestError{Code: CodeInvalidPair, Message: "need two"}
	assert.Equal(t, "INVALID_PAIR: need two", err.Error())
	assert.Nil(t, errors.Unwrap(err))
}
