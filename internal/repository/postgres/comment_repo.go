// internal/repository/postgres/comment_repo.go
package postgres

import (
	"context"
	"fmt"

	"atlas-service/internal/domain/comment"

	"github.com/jackc/pgx/v5/pgxpool"
)

type CommentRepository struct {
	db *pgxpool.Pool
}

func NewCommentRepository(db *pgxpool.Pool) *CommentRepository {
	return &CommentRepository{db: db}
}

// Create inserts a comment; CreatedAt comes back from the database so every
// client sees the server-assigned timestamp.
func (r *CommentRepository) Create(ctx context.Context, c *comment.Comment) error {
	query := `
		INSERT INTO comments (id, professional_id, author_name, content, rating)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`

	err := r.db.QueryRow(ctx, query, c.ID, c.ProfessionalID, c.AuthorName, c.Content, c.Rating).
		Scan(&c.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	return nil
}

// FindByProfessional lists a professional's comments, newest first.
func (r *CommentRepository) FindByProfessional(ctx context.Context, professionalID string) ([]comment.Comment, error) {
	query := `
		SELECT id, professional_id, author_name, content, rating, created_at
		FROM comments
		WHERE professional_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, professionalID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	comments := []comment.Comment{}
	for rows.Next() {
		var c comment.Comment
		if err := rows.Scan(&c.ID, &c.ProfessionalID, &c.AuthorName, &c.Content, &c.Rating, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to read comment: %w", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read comments: %w", err)
	}
	return comments, nil
}
