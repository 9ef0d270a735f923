package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/farofertas/backend/internal/domain"
	"github.com/farofertas/backend/internal/logger"
	"github.com/farofertas/backend/internal/usecase"
)

// ProductSearcher runs a product search over the feed
type ProductSearcher interface {
	Search(ctx context.Context, request *domain.SearchRequest) (*domain.SearchResult, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	products ProductSearcher
}

// NewHandler creates a new HTTP handler
func NewHandler(products ProductSearcher) *Handler {
	return &Handler{products: products}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "farofertas-backend",
		"version": "1.0.0",
	})
}

// SearchProducts handles GET /api/v1/products
//
// Query parameters: q, category, price_max, min_rating, limit and debug=1.
// With debug=1 the response carries the run statistics instead of the items.
func (h *Handler) SearchProducts(c *gin.Context) {
	if h.products == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "product search not configured",
		})
		return
	}

	ctx := c.Request.Context()
	request := parseSearchQuery(c)

	result, err := h.products.Search(ctx, request)
	if err != nil {
		status := statusForError(err)
		logger.From(ctx).Error("product search failed",
			zap.Int("status", status),
			zap.Error(err),
		)
		c.JSON(status, gin.H{
			"error":  "failed to process feed",
			"detail": err.Error(),
		})
		return
	}

	if c.Query("debug") == "1" {
		c.JSON(http.StatusOK, gin.H{"debug": result.Stats})
		return
	}

	items := result.Items
	if items == nil {
		items = []domain.Product{}
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// parseSearchQuery maps query parameters onto a search request. Unparsable
// numeric filters are ignored; an unparsable limit becomes the minimum.
func parseSearchQuery(c *gin.Context) *domain.SearchRequest {
	var maxPrice *float64
	if v, ok := parseFloat(c.Query("price_max")); ok {
		maxPrice = &v
	}

	minRating, _ := parseFloat(c.Query("min_rating"))

	limit := usecase.DefaultLimit
	if raw, ok := c.GetQuery("limit"); ok {
		v, _ := parseFloat(raw)
		limit = int(v)
	}

	return &domain.SearchRequest{
		Filters: usecase.NewFilterSpec(c.Query("q"), c.Query("category"), maxPrice, minRating),
		Limit:   limit,
	}
}

func parseFloat(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// statusForError maps pipeline failures to HTTP status codes
func statusForError(err error) int {
	var upstream *domain.UpstreamStatusError
	var transport *domain.TransportError

	switch {
	case errors.As(err, &upstream),
		errors.As(err, &transport),
		errors.Is(err, domain.ErrNoTextEntry):
		return http.StatusBadGateway
	case errors.Is(err, domain.ErrInvalidRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
