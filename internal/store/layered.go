package store

import (
	"context"
	"errors"
)

// Layered reads from Primary first and falls back to Fallback; writes
// always go to Primary. The CLI uses it so a model file on disk is found
// before it has been imported into the database.
type Layered struct {
	Primary  Adapter
	Fallback Adapter
}

func (l Layered) Exists(ctx context.Context, key string) (bool, error) {
	ok, err := l.Primary.Exists(ctx, key)
	if err != nil || ok || l.Fallback == nil {
		return ok, err
	}
	return l.Fallback.Exists(ctx, key)
}

func (l Layered) Load(ctx context.Context, key string) (string, error) {
	text, err := l.Primary.Load(ctx, key)
	if err == nil || !errors.Is(err, ErrNotFound) || l.Fallback == nil {
		return text, err
	}
	return l.Fallback.Load(ctx, key)
}

func (l Layered) Save(ctx context.Context, key, text string) error {
	return l.Primary.Save(ctx, key, text)
}
