// internal/app/router.go
package app

import (
	adminHandler "atlas-service/internal/handlers/admin"
	crmHandler "atlas-service/internal/handlers/crm"
	professionalHandler "atlas-service/internal/handlers/professional"
	searchHandler "atlas-service/internal/handlers/search"
	wsHandler "atlas-service/internal/handlers/ws"
	"atlas-service/internal/middleware"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	ProfessionalHandler *professionalHandler.ProfessionalHandler
	SearchHandler       *searchHandler.SearchHandler
	CRMHandler          *crmHandler.CRMHandler
	AdminHandler        *adminHandler.AdminHandler
	LiveSearchHandler   *wsHandler.LiveSearchHandler
	AuthMiddleware      *middleware.AuthMiddleware
}

func SetupRouter(r *gin.Engine, h *Handlers) {
	api := r.Group("/api/v1")

	// ==================== Health Check ====================
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "version": "1.0.0"})
	})

	// ==================== Live Search (per-connection session) ====================
	r.GET("/ws/search", h.LiveSearchHandler.HandleConnection)

	// ==================== Directory ====================
	agents := api.Group("/agents")
	{
		agents.GET("", h.ProfessionalHandler.ListProfessionals)
		agents.POST("", h.ProfessionalHandler.CreateProfessional)
		agents.GET("/:id", h.ProfessionalHandler.GetProfessional)
		agents.GET("/:id/comments", h.ProfessionalHandler.ListComments)
		agents.POST("/:id/comments", h.ProfessionalHandler.CreateComment)
	}
	api.POST("/comments", h.ProfessionalHandler.CreateComment)

	// ==================== Vocabularies ====================
	api.GET("/tags", h.ProfessionalHandler.ListTags)
	api.GET("/rating-levels", h.ProfessionalHandler.ListRatingLevels)

	// ==================== Map overlays & geocoding ====================
	api.GET("/coverage-areas", h.ProfessionalHandler.CoverageAreas)
	api.GET("/search-suggestions", h.SearchHandler.Suggest)
	api.GET("/search-location", h.SearchHandler.Resolve)

	// ==================== CRM ====================
	api.POST("/ghl/add-contact", h.CRMHandler.PushContact)

	// ==================== Admin ====================
	api.POST("/admin/auth", h.AdminHandler.Login)

	adminProtected := api.Group("/admin")
	adminProtected.Use(h.AuthMiddleware.AdminOnly()...)
	{
		adminProtected.POST("/logout", h.AdminHandler.Logout)
		adminProtected.GET("/tags", h.ProfessionalHandler.ListTags)
		adminProtected.POST("/tags", h.AdminHandler.ReplaceTags)
		adminProtected.DELETE("/tags/:name", h.AdminHandler.DeleteTag)
		adminProtected.GET("/export", h.ProfessionalHandler.ExportCSV)
		adminProtected.GET("/analytics", h.ProfessionalHandler.Analytics)
	}
}
