package admin

import (
	"net/http"

	"atlas-service/internal/middleware"
	xerrors "atlas-service/internal/pkg/errors"
	"atlas-service/internal/pkg/response"
	service "atlas-service/internal/service/admin"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	adminService *service.AdminService
}

func NewAdminHandler(adminService *service.AdminService) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
	}
}

type loginRequest struct {
	Password string `json:"password" binding:"required"`
}

// Login exchanges the admin password for a bearer token.
func (h *AdminHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.adminService.Login(c.Request.Context(), req.Password)
	if err != nil {
		if xerrors.Is(err, xerrors.ErrUnauthorized) {
			response.Unauthorized(c, "invalid password")
			return
		}
		response.Error(c, http.StatusInternalServerError, "login failed", err)
		return
	}
	response.Success(c, http.StatusOK, "login successful", result)
}

// Logout revokes the calling token's session.
func (h *AdminHandler) Logout(c *gin.Context) {
	tokenID := middleware.TokenID(c)
	if tokenID == "" {
		response.Unauthorized(c, "no active session")
		return
	}
	if err := h.adminService.Logout(c.Request.Context(), tokenID); err != nil {
		response.Error(c, http.StatusInternalServerError, "logout failed", err)
		return
	}
	response.Success(c, http.StatusOK, "logged out", nil)
}

type replaceTagsRequest struct {
	Tags []string `json:"tags" binding:"required"`
}

// ReplaceTags swaps in a new tag vocabulary.
func (h *AdminHandler) ReplaceTags(c *gin.Context) {
	var req replaceTagsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	tags, err := h.adminService.ReplaceTags(c.Request.Context(), req.Tags)
	if err != nil {
		if xerrors.Is(err, xerrors.ErrInvalidInput) {
			response.ValidationError(c, "invalid tag list", err)
			return
		}
		response.Error(c, http.StatusInternalServerError, "failed to replace tags", err)
		return
	}
	response.Success(c, http.StatusOK, "tags replaced", tags)
}

// DeleteTag removes one tag from the vocabulary.
func (h *AdminHandler) DeleteTag(c *gin.Context) {
	if err := h.adminService.DeleteTag(c.Request.Context(), c.Param("name")); err != nil {
		if xerrors.Is(err, xerrors.ErrInvalidInput) {
			response.ValidationError(c, "invalid tag name", err)
			return
		}
		response.Error(c, http.StatusInternalServerError, "failed to delete tag", err)
		return
	}
	response.Success(c, http.StatusOK, "tag deleted", nil)
}
