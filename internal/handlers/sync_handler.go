package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"storefront-service/internal/clients"
	"storefront-service/internal/importer"
	"storefront-service/internal/models"
	"storefront-service/internal/repository"
)

// bizhubPageSize is the fetch size per Bizhub API call during a sync.
const bizhubPageSize = 100

// SyncHandler pulls the Bizhub inventory feed into the local catalog.
type SyncHandler struct {
	repo   *repository.ProductsRepository
	bizhub *clients.BizhubClient
	logger *logrus.Logger
}

func NewSyncHandler(repo *repository.ProductsRepository, bizhub *clients.BizhubClient, logger *logrus.Logger) *SyncHandler {
	return &SyncHandler{repo: repo, bizhub: bizhub, logger: logger}
}

// SyncBizhub godoc
// @Summary Import the Bizhub inventory feed
// @Description Walks the Bizhub product feed page by page and inserts each product, tagged with source=bizhub and its external ID
// @Tags sync
// @Produce json
// @Success 200 {object} models.ImportResponse
// @Failure 502 {object} models.ErrorResponse
// @Router /products/sync/bizhub [post]
func (h *SyncHandler) SyncBizhub(c *gin.Context) {
	if h.bizhub == nil {
		respondError(c, http.StatusServiceUnavailable, "NOT_CONFIGURED", "Bizhub integration is not configured")
		return
	}

	result := models.ImportResult{Errors: []string{}}
	cursor := ""
	for {
		page, err := h.bizhub.FetchProducts(c.Request.Context(), cursor, bizhubPageSize)
		if err != nil {
			if result.Total == 0 {
				h.logger.WithError(err).Error("Bizhub fetch failed")
				respondError(c, http.StatusBadGateway, "UPSTREAM_ERROR", "Bizhub feed is unavailable")
				return
			}
			// Mid-sync failure keeps what was already imported.
			result.Errors = append(result.Errors, "feed interrupted: "+err.Error())
			break
		}

		for _, bp := range page.Products {
			result.Total++
			req := bp.ToCreateRequest()
			product := &models.Product{
				Name:          req.Name,
				Description:   req.Description,
				Price:         req.Price,
				OriginalPrice: req.OriginalPrice,
				Category:      importer.NormalizeCategory(req.Category),
				Condition:     importer.NormalizeCondition(req.Condition),
				Status:        models.ProductStatusActive,
				Stock:         req.Stock,
				ImageURL:      req.ImageURL,
				DetailedSpecs: req.DetailedSpecs,
				ExternalID:    req.ExternalID,
			}
			source := "bizhub"
			product.Source = &source

			if err := h.repo.CreateProduct(c.Request.Context(), product); err != nil {
				result.Failed++
				result.Errors = append(result.Errors, bp.Name+": "+err.Error())
				continue
			}
			result.Successful++
		}

		if page.NextCursor == "" {
			break
		}
		cursor = page.NextCursor
	}

	h.logger.WithFields(logrus.Fields{
		"total":      result.Total,
		"successful": result.Successful,
		"failed":     result.Failed,
	}).Info("Bizhub sync finished")

	c.JSON(http.StatusOK, models.ImportResponse{
		Message:    "Bizhub sync complete",
		Total:      result.Total,
		Successful: result.Successful,
		Failed:     result.Failed,
		Errors:     result.Errors,
	})
}
