package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"storefront-service/internal/clients"
	"storefront-service/internal/models"
	"storefront-service/internal/repository"
)

// SearchHandler aggregates local catalog hits with external marketplace
// listings for the storefront's infinite-scroll search.
type SearchHandler struct {
	repo        *repository.ProductsRepository
	marketplace *clients.MarketplaceClient
	logger      *logrus.Logger
}

func NewSearchHandler(repo *repository.ProductsRepository, marketplace *clients.MarketplaceClient, logger *logrus.Logger) *SearchHandler {
	return &SearchHandler{repo: repo, marketplace: marketplace, logger: logger}
}

type searchResponse struct {
	Local      []models.Product             `json:"local"`
	External   []clients.MarketplaceListing `json:"external"`
	NextCursor string                       `json:"nextCursor,omitempty"`
}

// Search godoc
// @Summary Search local and marketplace products
// @Description Local catalog hits appear on the first page only; subsequent pages follow the opaque marketplace cursor
// @Tags search
// @Produce json
// @Param q query string true "Search query"
// @Param cursor query string false "Opaque pagination cursor"
// @Param limit query int false "External page size"
// @Success 200 {object} searchResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /search [get]
func (h *SearchHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		respondError(c, http.StatusBadRequest, "MISSING_QUERY", "q is required")
		return
	}
	cursor := c.Query("cursor")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	resp := searchResponse{
		Local:    []models.Product{},
		External: []clients.MarketplaceListing{},
	}

	// Local results only belong on the first page; cursors are marketplace
	// cursors and say nothing about local pagination.
	if cursor == "" {
		local, _, err := h.repo.ListProducts(c.Request.Context(), &models.ListProductsQuery{
			Status: string(models.ProductStatusActive),
			Search: query,
			Limit:  limit,
		})
		if err != nil {
			h.logger.WithError(err).Error("Local search failed")
		} else {
			resp.Local = local
		}
	}

	if h.marketplace != nil {
		page, err := h.marketplace.Search(c.Request.Context(), query, cursor, limit)
		if err != nil {
			// External outage degrades to local-only results.
			h.logger.WithError(err).Warn("Marketplace search failed")
		} else {
			resp.External = page.Listings
			resp.NextCursor = page.NextCursor
		}
	}

	c.JSON(http.StatusOK, resp)
}
