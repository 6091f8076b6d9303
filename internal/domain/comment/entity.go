// internal/domain/comment/entity.go
package comment

import "time"

// Comment belongs to exactly one professional. Rating is an optional key into
// the rating-level mapping; the server assigns ID and CreatedAt.
type Comment struct {
	ID             string    `json:"id" db:"id"`
	ProfessionalID string    `json:"professional_id" db:"professional_id"`
	AuthorName     string    `json:"author_name" db:"author_name"`
	Content        string    `json:"content" db:"content"`
	Rating         string    `json:"rating,omitempty" db:"rating"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}
