// internal/domain/comment/dto.go
package comment

type CreateCommentRequest struct {
	// ProfessionalID may come from the body or the nested route path.
	ProfessionalID string `json:"professional_id"`
	AuthorName     string `json:"author_name" binding:"required,max=255"`
	Content        string `json:"content" binding:"required"`
	Rating         string `json:"rating"`
}
