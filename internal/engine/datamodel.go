package engine

import (
	"context"
	"fmt"

	"github.com/abhisek/competency/internal/competence"
)

// LoadDataModel reads and decodes a static model document. Any failure to
// find or parse the document is reported as ErrModelNotFound.
func (c *Component) LoadDataModel(ctx context.Context, key string) (*competence.Model, error) {
	if c.adapter == nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrModelNotFound, key, ErrStorageUnavailable)
	}
	text, err := c.adapter.Load(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrModelNotFound, key, err)
	}
	m, err := competence.Decode(key, text, c.log)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrModelNotFound, key, err)
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrModelNotFound, key, err)
	}
	return m, nil
}

// StoreDataModel encodes m and saves it under key. The format follows the
// key's extension.
func (c *Component) StoreDataModel(ctx context.Context, m *competence.Model, key string) error {
	if c.adapter == nil {
		c.log.Warn("no storage adapter, model not saved", "key", key)
		return fmt.Errorf("store model %q: %w", key, ErrStorageUnavailable)
	}
	text, err := competence.Encode(key, m)
	if err != nil {
		return err
	}
	if err := c.adapter.Save(ctx, key, text); err != nil {
		return fmt.Errorf("store model %q: %w", key, err)
	}
	c.log.Info("model stored", "key", key, "competences", len(m.Competences()))
	return nil
}
