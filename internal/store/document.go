package store

import (
	"context"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

const documentsTable = "documents"

// documentRepo implements DocumentRepo on the documents table.
type documentRepo struct {
	drv *entsql.Driver
}

func (r *documentRepo) builder() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}

func (r *documentRepo) Exists(ctx context.Context, key string) (bool, error) {
	query, args := r.builder().
		Select(entsql.Count("*")).
		From(entsql.Table(documentsTable)).
		Where(entsql.EQ("name", key)).
		Query()

	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return false, fmt.Errorf("query document %q: %w", key, err)
	}
	defer rows.Close()

	var count int
	if rows.Next() {
		if err := rows.Scan(&count); err != nil {
			return false, fmt.Errorf("scan document count: %w", err)
		}
	}
	return count > 0, rows.Err()
}

func (r *documentRepo) Load(ctx context.Context, key string) (string, error) {
	query, args := r.builder().
		Select("body").
		From(entsql.Table(documentsTable)).
		Where(entsql.EQ("name", key)).
		Limit(1).
		Query()

	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return "", fmt.Errorf("query document %q: %w", key, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return "", fmt.Errorf("read document %q: %w", key, err)
		}
		return "", fmt.Errorf("%w: %q", ErrNotFound, key)
	}
	var body string
	if err := rows.Scan(&body); err != nil {
		return "", fmt.Errorf("scan document %q: %w", key, err)
	}
	return body, nil
}

func (r *documentRepo) Save(ctx context.Context, key, text string) error {
	query, args := r.builder().
		Insert(documentsTable).
		Columns("name", "body", "updated_at").
		Values(key, text, time.Now().UTC()).
		OnConflict(
			entsql.ConflictColumns("name"),
			entsql.ResolveWithNewValues(),
		).
		Query()

	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("save document %q: %w", key, err)
	}
	return nil
}

func (r *documentRepo) Keys(ctx context.Context) ([]string, error) {
	query, args := r.builder().
		Select("name").
		From(entsql.Table(documentsTable)).
		OrderBy("name").
		Query()

	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("query document keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("scan document key: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

func (r *documentRepo) Delete(ctx context.Context, key string) error {
	query, args := r.builder().
		Delete(documentsTable).
		Where(entsql.EQ("name", key)).
		Query()

	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("delete document %q: %w", key, err)
	}
	return nil
}
