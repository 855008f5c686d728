package store

import (
	"context"
	"sync"
)

// Memory is an in-memory Store, used by the reference server's tests
// and by anyone embedding syncsrv without a sqlite dependency.
type Memory struct {
	mu   sync.Mutex
	data map[string]entry
}

type entry struct {
	blob     []byte
	revision uint32
}

// NewMemory constructs an empty in-memory Store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]entry)}
}

func (m *Memory) Get(_ context.Context, name string) ([]byte, uint32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.data[name]
	if !ok {
		return nil, 0, ErrNotFound
	}
	return e.blob, e.revision, nil
}

// Revision returns 0, nil for a database that has never been
// uploaded: getdbrevision.php's wire contract is to report "0" for an
// unknown database, not to fail, so a brand-new local database can
// probe the remote revision before its first upload.
func (m *Memory) Revision(_ context.Context, name string) (uint32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.data[name].revision, nil
}

func (m *Memory) Put(_ context.Context, name string, blob []byte) (uint32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	revision := m.data[name].revision + 1
	m.data[name] = entry{blob: blob, revision: revision}
	return revision, nil
}

func (m *Memory) Delete(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.data[name]; !ok {
		return ErrNotFound
	}
	delete(m.data, name)
	return nil
}
