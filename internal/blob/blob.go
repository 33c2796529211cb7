// Package blob stores screenshot content keyed by log record id.
//
// Screenshots are wrapped in a msgpack envelope that keeps the content type
// next to the bytes, then zstd-compressed before they reach the backend.
package blob

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrEmptyKey is returned when a blob operation is given an empty step id.
var ErrEmptyKey = errors.New("blob: empty step id")

// Screenshot is an image captured for a single log record.
type Screenshot struct {
	ContentType string `msgpack:"ct"`
	Data        []byte `msgpack:"d"`
}

// backend is the raw key/value layer underneath Store.
type backend interface {
	save(key string, value []byte) error
	load(key string) ([]byte, bool, error)
	delete(key string) error
	close() error
}

// Store saves and loads screenshots.
type Store struct {
	b backend
}

// Put stores the screenshot for stepID, replacing any previous content.
func (s *Store) Put(ctx context.Context, stepID string, shot Screenshot) error {
	if stepID == "" {
		return ErrEmptyKey
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	raw, err := encode(shot)
	if err != nil {
		return fmt.Errorf("put screenshot %s: %w", stepID, err)
	}
	if err := s.b.save(screenshotKey(stepID), raw); err != nil {
		return fmt.Errorf("put screenshot %s: %w", stepID, err)
	}
	return nil
}

// Screenshot returns the screenshot stored for stepID.
// Returns nil, nil if the step has no screenshot.
func (s *Store) Screenshot(ctx context.Context, stepID string) (*Screenshot, error) {
	if stepID == "" {
		return nil, ErrEmptyKey
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, ok, err := s.b.load(screenshotKey(stepID))
	if err != nil {
		return nil, fmt.Errorf("load screenshot %s: %w", stepID, err)
	}
	if !ok {
		return nil, nil
	}

	shot, err := decode(raw)
	if err != nil {
		return nil, fmt.Errorf("decode screenshot %s: %w", stepID, err)
	}
	return shot, nil
}

// Delete removes the screenshot for stepID. Deleting a missing key is not
// an error.
func (s *Store) Delete(ctx context.Context, stepID string) error {
	if stepID == "" {
		return ErrEmptyKey
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.b.delete(screenshotKey(stepID)); err != nil {
		return fmt.Errorf("delete screenshot %s: %w", stepID, err)
	}
	return nil
}

// Close releases the backend.
func (s *Store) Close() error {
	return s.b.close()
}

func screenshotKey(stepID string) string {
	return "shot:" + stepID
}

// NewMemStore returns a Store held entirely in memory.
func NewMemStore() *Store {
	return &Store{b: &memBackend{data: make(map[string][]byte)}}
}

type memBackend struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func (m *memBackend) save(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *memBackend) load(key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (m *memBackend) delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *memBackend) close() error {
	return nil
}
