package professional

import (
	"net/http"

	"atlas-service/internal/directory"
	"atlas-service/internal/domain/comment"
	"atlas-service/internal/domain/professional"
	xerrors "atlas-service/internal/pkg/errors"
	"atlas-service/internal/pkg/response"
	service "atlas-service/internal/service/directory"

	"github.com/gin-gonic/gin"
)

type ProfessionalHandler struct {
	directoryService *service.DirectoryService
}

func NewProfessionalHandler(directoryService *service.DirectoryService) *ProfessionalHandler {
	return &ProfessionalHandler{
		directoryService: directoryService,
	}
}

// ListProfessionals returns the roster filtered by the query criteria. With
// no criteria it returns everyone.
func (h *ProfessionalHandler) ListProfessionals(c *gin.Context) {
	criteria := directory.CriteriaFromQuery(c.Request.URL.Query())

	pros, err := h.directoryService.Visible(c.Request.Context(), criteria)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to list professionals", err)
		return
	}

	response.Success(c, http.StatusOK, "professionals retrieved", professional.ListResponse{
		Professionals: pros,
		Total:         len(pros),
	})
}

// GetProfessional retrieves a single professional by ID.
func (h *ProfessionalHandler) GetProfessional(c *gin.Context) {
	p, err := h.directoryService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if xerrors.Is(err, xerrors.ErrNotFound) {
			response.NotFound(c, "professional not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "failed to get professional", err)
		return
	}
	response.Success(c, http.StatusOK, "professional retrieved", p)
}

// CreateProfessional accepts a new directory submission.
func (h *ProfessionalHandler) CreateProfessional(c *gin.Context) {
	var req professional.CreateProfessionalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	p, err := h.directoryService.Create(c.Request.Context(), &req)
	if err != nil {
		if xerrors.Is(err, xerrors.ErrInvalidInput) {
			response.ValidationError(c, "invalid submission", err)
			return
		}
		response.Error(c, http.StatusInternalServerError, "failed to create professional", err)
		return
	}
	response.Success(c, http.StatusCreated, "professional created", p)
}

// ListComments returns one professional's comment thread, newest first.
func (h *ProfessionalHandler) ListComments(c *gin.Context) {
	comments, err := h.directoryService.Comments(c.Request.Context(), c.Param("id"))
	if err != nil {
		if xerrors.Is(err, xerrors.ErrNotFound) {
			response.NotFound(c, "professional not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "failed to list comments", err)
		return
	}
	response.Success(c, http.StatusOK, "comments retrieved", comments)
}

// CreateComment appends a comment to a professional's thread. On the nested
// route the path ID wins over any professional_id in the body.
func (h *ProfessionalHandler) CreateComment(c *gin.Context) {
	var req comment.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}
	if id := c.Param("id"); id != "" {
		req.ProfessionalID = id
	}
	if req.ProfessionalID == "" {
		response.ValidationError(c, "professional_id is required", nil)
		return
	}

	cm, err := h.directoryService.AddComment(c.Request.Context(), &req)
	if err != nil {
		if xerrors.Is(err, xerrors.ErrNotFound) {
			response.NotFound(c, "professional not found")
			return
		}
		if xerrors.Is(err, xerrors.ErrInvalidInput) {
			response.ValidationError(c, "invalid comment", err)
			return
		}
		response.Error(c, http.StatusInternalServerError, "failed to create comment", err)
		return
	}
	response.Success(c, http.StatusCreated, "comment created", cm)
}

// ListTags returns the tag vocabulary in display order.
func (h *ProfessionalHandler) ListTags(c *gin.Context) {
	tags, err := h.directoryService.Tags(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to list tags", err)
		return
	}
	response.Success(c, http.StatusOK, "tags retrieved", tags)
}

// ListRatingLevels returns the rating vocabulary keyed by rating key.
func (h *ProfessionalHandler) ListRatingLevels(c *gin.Context) {
	levels, err := h.directoryService.RatingLevels(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to list rating levels", err)
		return
	}
	response.Success(c, http.StatusOK, "rating levels retrieved", levels)
}

// CoverageAreas returns the GeoJSON circle overlay for the visible roster.
// Unlike the other surfaces this returns raw GeoJSON, not the envelope, so
// map libraries can consume it directly.
func (h *ProfessionalHandler) CoverageAreas(c *gin.Context) {
	criteria := directory.CriteriaFromQuery(c.Request.URL.Query())

	fc, err := h.directoryService.CoverageAreas(c.Request.Context(), criteria)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to build coverage areas", err)
		return
	}
	c.JSON(http.StatusOK, fc)
}

// ExportCSV streams the visible roster as a CSV attachment.
func (h *ProfessionalHandler) ExportCSV(c *gin.Context) {
	criteria := directory.CriteriaFromQuery(c.Request.URL.Query())

	data, err := h.directoryService.ExportCSV(c.Request.Context(), criteria)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to export csv", err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="professionals.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}

// Analytics returns the premium dashboard counters.
func (h *ProfessionalHandler) Analytics(c *gin.Context) {
	summary, err := h.directoryService.Analytics(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to compute analytics", err)
		return
	}
	response.Success(c, http.StatusOK, "analytics retrieved", summary)
}
