// internal/repository/postgres/tag_repo.go
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type TagRepository struct {
	db *pgxpool.Pool
}

func NewTagRepository(db *pgxpool.Pool) *TagRepository {
	return &TagRepository{db: db}
}

// FindAll returns the tag vocabulary in admin-defined order.
func (r *TagRepository) FindAll(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT name FROM predefined_tags ORDER BY position ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	defer rows.Close()

	tags := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to read tag: %w", err)
		}
		tags = append(tags, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read tags: %w", err)
	}
	return tags, nil
}

// ReplaceAll swaps the whole vocabulary in one transaction, preserving the
// given order. Records keep any tags later removed from the vocabulary; the
// vocabulary only limits what new submissions can pick.
func (r *TagRepository) ReplaceAll(ctx context.Context, tags []string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin tag replace: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM predefined_tags`); err != nil {
		return fmt.Errorf("failed to clear tags: %w", err)
	}
	for i, name := range tags {
		if _, err := tx.Exec(ctx,
			`INSERT INTO predefined_tags (name, position) VALUES ($1, $2) ON CONFLICT (name) DO NOTHING`,
			name, i,
		); err != nil {
			return fmt.Errorf("failed to insert tag %q: %w", name, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit tag replace: %w", err)
	}
	return nil
}

// Delete removes one tag from the vocabulary. Deleting an unknown tag is not
// an error.
func (r *TagRepository) Delete(ctx context.Context, name string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM predefined_tags WHERE name = $1`, name); err != nil {
		return fmt.Errorf("failed to delete tag: %w", err)
	}
	return nil
}

// SeedDefaults inserts the starter vocabulary when the table is empty.
func (r *TagRepository) SeedDefaults(ctx context.Context, tags []string) error {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM predefined_tags`).Scan(&count); err != nil {
		return fmt.Errorf("failed to count tags: %w", err)
	}
	if count > 0 {
		return nil
	}
	return r.ReplaceAll(ctx, tags)
}
