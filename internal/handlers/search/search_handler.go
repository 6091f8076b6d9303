package search

import (
	"errors"
	"net/http"
	"strings"

	"atlas-service/internal/geocode"
	"atlas-service/internal/pkg/response"
	"atlas-service/internal/search"

	"github.com/gin-gonic/gin"
)

// SearchHandler exposes the geocoding surface over plain HTTP for clients
// that do not hold a live-search websocket.
type SearchHandler struct {
	suggester search.Suggester
	resolver  search.Resolver
}

func NewSearchHandler(suggester search.Suggester, resolver search.Resolver) *SearchHandler {
	return &SearchHandler{
		suggester: suggester,
		resolver:  resolver,
	}
}

// Suggest returns address suggestions for a partial query. Queries shorter
// than the minimum length return an empty list without an upstream call,
// mirroring the live-search controller.
func (h *SearchHandler) Suggest(c *gin.Context) {
	query := strings.TrimSpace(c.Query("query"))
	if len(query) < search.MinQueryLen {
		response.Success(c, http.StatusOK, "suggestions retrieved", []search.Suggestion{})
		return
	}

	suggestions, err := h.suggester.Suggest(c.Request.Context(), query)
	if err != nil {
		response.Error(c, http.StatusBadGateway, "geocoding failed", err)
		return
	}
	response.Success(c, http.StatusOK, "suggestions retrieved", suggestions)
}

// Resolve geocodes a committed query to a single location with a suggested
// zoom level.
func (h *SearchHandler) Resolve(c *gin.Context) {
	query := strings.TrimSpace(c.Query("query"))
	if query == "" {
		response.ValidationError(c, "query is required", nil)
		return
	}

	loc, err := h.resolver.Resolve(c.Request.Context(), query)
	if err != nil {
		if errors.Is(err, geocode.ErrNoResult) {
			response.NotFound(c, "no match for query")
			return
		}
		response.Error(c, http.StatusBadGateway, "geocoding failed", err)
		return
	}
	response.Success(c, http.StatusOK, "location resolved", loc)
}
