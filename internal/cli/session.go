package cli

import (
	"errors"
	"os"

	"github.com/roach88/execdiff/internal/blob"
	"github.com/roach88/execdiff/internal/compare"
	"github.com/roach88/execdiff/internal/store"
)

// session holds the stores a command works against.
type session struct {
	store *store.Store
	blobs *blob.Store
}

// openSession opens the database and, when withBlobs is set, the blob store.
// The database must already exist unless create is set.
func openSession(opts *RootOptions, withBlobs, create bool) (*session, error) {
	if !create {
		if _, err := os.Stat(opts.DB); errors.Is(err, os.ErrNotExist) {
			return nil, WrapExitError(ExitCommandError, "database not found", err)
		}
	}

	st, err := store.Open(opts.DB)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	s := &session{store: st}

	if withBlobs {
		b, err := blob.OpenBadger(opts.Blobs)
		if err != nil {
			st.Close()
			return nil, WrapExitError(ExitCommandError, "failed to open blob store", err)
		}
		s.blobs = b
	}
	return s, nil
}

// service builds a comparison service over the session.
func (s *session) service(opts *RootOptions) *compare.Service {
	var blobs compare.BlobLookup
	if s.blobs != nil {
		blobs = s.blobs
	}
	return compare.New(s.store, s.store, blobs,
		compare.WithLogger(opts.logger()),
		compare.WithConcurrency(opts.Concurrency),
	)
}

func (s *session) Close() {
	if s.blobs != nil {
		s.blobs.Close()
	}
	s.store.Close()
}

// comparisonError maps a comparison failure to an exit error.
func comparisonError(err error) error {
	var re *compare.RequestError
	if errors.As(err, &re) {
		return WrapExitError(ExitCommandError, "invalid comparison request", err)
	}
	if errors.Is(err, store.ErrNotFound) {
		return WrapExitError(ExitCommandError, "comparison failed", err)
	}
	return WrapExitError(ExitFailure, "comparison failed", err)
}
