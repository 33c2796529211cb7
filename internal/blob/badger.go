package blob

import (
	"errors"
	"fmt"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
)

// OpenBadger opens (creating if needed) a Badger-backed Store in dir.
// Values are compressed by the codec, so Badger's own compression is off.
func OpenBadger(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create blob dir: %w", err)
	}

	opts := badger.DefaultOptions(dir).
		WithCompression(options.None).
		WithBlockCacheSize(0).
		WithNumMemtables(2).
		WithMemTableSize(16 << 20).
		WithValueLogFileSize(64 << 20).
		WithLoggingLevel(badger.ERROR).
		WithMetricsEnabled(false)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open blob db: %w", err)
	}
	return &Store{b: &badgerBackend{db: db}}, nil
}

type badgerBackend struct {
	db *badger.DB
}

func (b *badgerBackend) save(key string, value []byte) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
}

func (b *badgerBackend) load(key string) ([]byte, bool, error) {
	var raw []byte
	var found bool
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return nil
			}
			return err
		}
		found = true
		raw, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, false, err
	}
	return raw, found, nil
}

func (b *badgerBackend) delete(key string) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}

func (b *badgerBackend) close() error {
	return b.db.Close()
}
