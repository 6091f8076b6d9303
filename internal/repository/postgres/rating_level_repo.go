// internal/repository/postgres/rating_level_repo.go
package postgres

import (
	"context"
	"fmt"

	"atlas-service/internal/domain/rating"

	"github.com/jackc/pgx/v5/pgxpool"
)

type RatingLevelRepository struct {
	db *pgxpool.Pool
}

func NewRatingLevelRepository(db *pgxpool.Pool) *RatingLevelRepository {
	return &RatingLevelRepository{db: db}
}

// FindAll returns the rating-level mapping keyed by rating key.
func (r *RatingLevelRepository) FindAll(ctx context.Context) (rating.Levels, error) {
	query := `SELECT key, label, value, color, description FROM rating_levels`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list rating levels: %w", err)
	}
	defer rows.Close()

	levels := rating.Levels{}
	for rows.Next() {
		var lvl rating.Level
		if err := rows.Scan(&lvl.Key, &lvl.Label, &lvl.Value, &lvl.Color, &lvl.Description); err != nil {
			return nil, fmt.Errorf("failed to read rating level: %w", err)
		}
		levels[lvl.Key] = lvl
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read rating levels: %w", err)
	}
	return levels, nil
}

// SeedDefaults inserts the standard five levels when the table is empty.
func (r *RatingLevelRepository) SeedDefaults(ctx context.Context) error {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM rating_levels`).Scan(&count); err != nil {
		return fmt.Errorf("failed to count rating levels: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, lvl := range rating.Defaults() {
		if _, err := r.db.Exec(ctx,
			`INSERT INTO rating_levels (key, label, value, color, description)
			 VALUES ($1, $2, $3, $4, $5) ON CONFLICT (key) DO NOTHING`,
			lvl.Key, lvl.Label, lvl.Value, lvl.Color, lvl.Description,
		); err != nil {
			return fmt.Errorf("failed to seed rating level %q: %w", lvl.Key, err)
		}
	}
	return nil
}
