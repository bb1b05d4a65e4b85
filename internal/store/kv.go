package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
)

const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

var ErrUnknownBackend = errors.New("unknown storage backend")

// KV is the keyed text store the field state is persisted in.
type KV interface {
	// Get returns the stored text for key. ok is false when the key was never written.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Close() error
}

// stampedKV is implemented by backends that know when a key was written.
type stampedKV interface {
	UpdatedAt(ctx context.Context, key string) (time.Time, bool, error)
}

// LastSaved reports when key was last written. ok is false when the key was
// never written or the backend keeps no timestamps.
func LastSaved(ctx context.Context, kv KV, key string) (at time.Time, ok bool, err error) {
	s, stamped := kv.(stampedKV)
	if !stamped {
		return time.Time{}, false, nil
	}
	return s.UpdatedAt(ctx, key)
}

func Backends() []string {
	return []string{BackendFile, BackendSQLite, BackendMemory}
}

func ValidBackend(name string) bool {
	for _, b := range Backends() {
		if b == name {
			return true
		}
	}
	return false
}

// Open returns the KV for backend rooted at dir.
func Open(ctx context.Context, backend, dir string) (KV, error) {
	switch strings.TrimSpace(backend) {
	case BackendFile, "":
		return NewFileKV(dir)
	case BackendSQLite:
		return OpenSQLiteKV(ctx, dir)
	case BackendMemory:
		return NewMemoryKV(), nil
	}
	return nil, fmt.Errorf("%w: %q (expected one of: %s)", ErrUnknownBackend, backend, strings.Join(Backends(), ", "))
}

// MemoryKV keeps values in a map. It is used by tests and --backend memory.
type MemoryKV struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{values: map[string]string{}}
}

func (m *MemoryKV) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	v, ok := m.values[key]
	m.mu.RUnlock()
	return v, ok, nil
}

func (m *MemoryKV) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	m.values[key] = value
	m.mu.Unlock()
	return nil
}

func (m *MemoryKV) Close() error { return nil }
