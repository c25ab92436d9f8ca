package search

import (
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	zlog "github.com/rs/zerolog/log"

	"tunescout/pkg/models"
)

type Handler struct {
	Service *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Service: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.search) // GET /search?term=
}

func (h *Handler) search(c *gin.Context) {
	result, err := h.Service.Search(c.Request.Context(), c.Query("term"))
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SearchResponse{
		Success: true,
		Data:    result.Items,
		Count:   len(result.Items),
		Term:    result.Term,
		Cached:  result.Cached,
	})
}

// fail maps the error taxonomy onto status classes: blank input is the
// caller's fault, everything else is a server-side failure with a
// generic message so internal detail never leaks to the UI.
func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrEmptyTerm):
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Search term is required",
		})
	case errors.Is(err, ErrUpstream):
		zlog.Error().Err(err).Msg("upstream search failed")
		c.JSON(http.StatusBadGateway, gin.H{
			"success": false,
			"error":   "The catalog provider is unavailable, please try again later",
		})
	default:
		zlog.Error().Err(err).Msg("search failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "An unexpected error occurred",
		})
	}
}
