package store

import (
	"context"
	"fmt"
	"sort"
)

// Memory is an in-process DocumentRepo. The zero value is not usable;
// call NewMemory.
type Memory struct {
	docs map[string]string

	// SaveErr, when set, is returned by every Save.
	SaveErr error
	// Saves counts successful Save calls.
	Saves int
}

// NewMemory returns an empty Memory repo.
func NewMemory() *Memory {
	return &Memory{docs: make(map[string]string)}
}

func (m *Memory) Exists(_ context.Context, key string) (bool, error) {
	_, ok := m.docs[key]
	return ok, nil
}

func (m *Memory) Load(_ context.Context, key string) (string, error) {
	text, ok := m.docs[key]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrNotFound, key)
	}
	return text, nil
}

func (m *Memory) Save(_ context.Context, key, text string) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.docs[key] = text
	m.Saves++
	return nil
}

func (m *Memory) Keys(_ context.Context) ([]string, error) {
	keys := make([]string, 0, len(m.docs))
	for k := range m.docs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	delete(m.docs, key)
	return nil
}
