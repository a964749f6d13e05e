// Package storage holds the key-value backends that persist the serialized
// roster, report and session collections.
package storage

import (
	"context"
	"sync"
)

// Keys under which the collections are persisted.
const (
	KeyReports = "dlc_reports"
	KeyTeams   = "dlc_teams"
	KeyMembers = "dlc_members"
	KeyUser    = "dlc_user"
)

// KV is a string key-value store. Get reports ok=false for a missing key.
type KV interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Memory is a process-local KV, used in tests and with driver "memory".
type Memory struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewMemory() *Memory { return &Memory{data: map[string]string{}} }

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	m.data[key] = value
	m.mu.Unlock()
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.data, key)
	m.mu.Unlock()
	return nil
}

func (m *Memory) Close() error { return nil }
