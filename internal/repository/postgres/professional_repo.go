// internal/repository/postgres/professional_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"atlas-service/internal/domain/professional"
	xerrors "atlas-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ProfessionalRepository struct {
	db *pgxpool.Pool
}

func NewProfessionalRepository(db *pgxpool.Pool) *ProfessionalRepository {
	return &ProfessionalRepository{db: db}
}

const professionalColumns = `
	id, full_name, brokerage, type, phone, email, website,
	service_area_type, service_area, service_areas, tags,
	latitude, longitude, rating, submitted_by, address_last_deal, notes,
	created_at, updated_at
`

// Create inserts a new professional. The caller assigns the ULID.
func (r *ProfessionalRepository) Create(ctx context.Context, p *professional.Professional) error {
	query := `
		INSERT INTO professionals (
			id, full_name, brokerage, type, phone, email, website,
			service_area_type, service_area, service_areas, tags,
			latitude, longitude, rating, submitted_by, address_last_deal, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(
		ctx, query,
		p.ID, p.FullName, p.Brokerage, p.Type, p.Phone, p.Email, p.Website,
		p.ServiceAreaType, p.ServiceArea, p.ServiceAreas, p.Tags,
		p.Latitude, p.Longitude, p.Rating, p.SubmittedBy, p.AddressLastDeal, p.Notes,
	).Scan(&p.CreatedAt, &p.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create professional: %w", err)
	}
	return nil
}

// FindAll returns the full roster, oldest first. Filtering happens in memory
// through the directory package, never in SQL, so every screen shares one
// code path.
func (r *ProfessionalRepository) FindAll(ctx context.Context) ([]professional.Professional, error) {
	query := `SELECT ` + professionalColumns + ` FROM professionals ORDER BY created_at ASC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list professionals: %w", err)
	}
	defer rows.Close()

	pros := []professional.Professional{}
	for rows.Next() {
		var p professional.Professional
		if err := scanProfessional(rows, &p); err != nil {
			return nil, err
		}
		pros = append(pros, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read professionals: %w", err)
	}
	return pros, nil
}

// FindByID retrieves one professional.
func (r *ProfessionalRepository) FindByID(ctx context.Context, id string) (*professional.Professional, error) {
	query := `SELECT ` + professionalColumns + ` FROM professionals WHERE id = $1`

	var p professional.Professional
	err := scanProfessional(r.db.QueryRow(ctx, query, id), &p)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find professional: %w", err)
	}
	return &p, nil
}

// Analytics aggregates for the admin dashboard.

func (r *ProfessionalRepository) CountAll(ctx context.Context) (int64, error) {
	return r.countWhere(ctx, "")
}

func (r *ProfessionalRepository) CountWithRating(ctx context.Context) (int64, error) {
	return r.countWhere(ctx, "WHERE rating <> ''")
}

func (r *ProfessionalRepository) CountWithLocation(ctx context.Context) (int64, error) {
	return r.countWhere(ctx, "WHERE latitude IS NOT NULL AND longitude IS NOT NULL")
}

func (r *ProfessionalRepository) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM professionals WHERE created_at >= $1`, since).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count recent professionals: %w", err)
	}
	return count, nil
}

// CountByTag returns how many professionals carry each tag.
func (r *ProfessionalRepository) CountByTag(ctx context.Context) (map[string]int64, error) {
	query := `SELECT t, COUNT(*) FROM professionals, UNNEST(tags) AS t GROUP BY t`
	return r.countGroups(ctx, query, "failed to count by tag")
}

// CountByRating returns how many professionals hold each rating key.
func (r *ProfessionalRepository) CountByRating(ctx context.Context) (map[string]int64, error) {
	query := `SELECT rating, COUNT(*) FROM professionals WHERE rating <> '' GROUP BY rating`
	return r.countGroups(ctx, query, "failed to count by rating")
}

func (r *ProfessionalRepository) countWhere(ctx context.Context, where string) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM professionals `+where).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count professionals: %w", err)
	}
	return count, nil
}

func (r *ProfessionalRepository) countGroups(ctx context.Context, query, errMsg string) (map[string]int64, error) {
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errMsg, err)
	}
	defer rows.Close()

	counts := map[string]int64{}
	for rows.Next() {
		var key string
		var count int64
		if err := rows.Scan(&key, &count); err != nil {
			return nil, fmt.Errorf("%s: %w", errMsg, err)
		}
		counts[key] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", errMsg, err)
	}
	return counts, nil
}

func scanProfessional(row pgx.Row, p *professional.Professional) error {
	return row.Scan(
		&p.ID, &p.FullName, &p.Brokerage, &p.Type, &p.Phone, &p.Email, &p.Website,
		&p.ServiceAreaType, &p.ServiceArea, &p.ServiceAreas, &p.Tags,
		&p.Latitude, &p.Longitude, &p.Rating, &p.SubmittedBy, &p.AddressLastDeal, &p.Notes,
		&p.CreatedAt, &p.UpdatedAt,
	)
}
