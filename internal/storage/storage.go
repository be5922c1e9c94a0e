// Package storage defines the durable key/value port the session store persists to.
package storage

import (
	"errors"
	"sync"
)

var (
	ErrNotDir      = errors.New("given root is not a directory")
	ErrInternal    = errors.New("internal error")
	ErrNotExist    = errors.New("key does not exist")
	ErrInvalidKey  = errors.New("invalid key")
	ErrUnavailable = errors.New("storage unavailable")
)

// KV is a small string key/value store. Get returns ErrNotExist for missing keys and Delete of a
// missing key is not an error.
type KV interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
}

// Nop is the fallback for environments without durable storage: nothing is ever found and writes
// are discarded.
type Nop struct{}

func (Nop) Get(string) (string, error) { return "", ErrNotExist }
func (Nop) Set(string, string) error   { return nil }
func (Nop) Delete(string) error        { return nil }

// Memory is an in-process KV. Nothing survives the process.
type Memory struct {
	mu     sync.Mutex
	values map[string]string
}

func NewMemory() *Memory {
	return &Memory{values: map[string]string{}}
}

func (m *Memory) Get(key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	if !ok {
		return "", ErrNotExist
	}
	return v, nil
}

func (m *Memory) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *Memory) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}
