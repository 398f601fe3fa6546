package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"storefront-service/internal/importer"
	"storefront-service/internal/models"
	"storefront-service/internal/repository"
)

// ProductsHandler serves the product catalog endpoints.
type ProductsHandler struct {
	repo   *repository.ProductsRepository
	logger *logrus.Logger
}

func NewProductsHandler(repo *repository.ProductsRepository, logger *logrus.Logger) *ProductsHandler {
	return &ProductsHandler{repo: repo, logger: logger}
}

// ListProducts godoc
// @Summary List products
// @Description Returns a paginated product list with optional status, category, and text-search filters
// @Tags products
// @Produce json
// @Param status query string false "Filter by status"
// @Param category query string false "Filter by category"
// @Param search query string false "Search name and description"
// @Param limit query int false "Page size (max 100)"
// @Param page query int false "Page number"
// @Success 200 {object} models.ProductListResponse
// @Router /products [get]
func (h *ProductsHandler) ListProducts(c *gin.Context) {
	var query models.ListProductsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_QUERY", err.Error())
		return
	}

	products, total, err := h.repo.ListProducts(c.Request.Context(), &query)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list products")
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to list products")
		return
	}

	limit := query.Limit
	if limit <= 0 {
		limit = 20
	}
	page := query.Page
	if page <= 0 {
		page = 1
	}
	totalPages := int((total + int64(limit) - 1) / int64(limit))

	c.JSON(http.StatusOK, models.ProductListResponse{
		Success: true,
		Data:    products,
		Pagination: &models.PaginationInfo{
			Page:        page,
			Limit:       limit,
			Total:       total,
			TotalPages:  totalPages,
			HasNext:     page < totalPages,
			HasPrevious: page > 1,
		},
	})
}

// GetProduct godoc
// @Summary Get a product by ID
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} models.ProductResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /products/{id} [get]
func (h *ProductsHandler) GetProduct(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "product id must be a UUID")
		return
	}

	product, err := h.repo.GetProductByID(c.Request.Context(), productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, "NOT_FOUND", "product not found")
			return
		}
		h.logger.WithError(err).WithField("productId", productID).Error("Failed to get product")
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to get product")
		return
	}

	c.JSON(http.StatusOK, models.ProductResponse{Success: true, Data: product})
}

// CreateProduct godoc
// @Summary Create a product
// @Description Accepts the storefront create payload, including payloads relayed from the Bizhub inventory feed
// @Tags products
// @Accept json
// @Produce json
// @Param product body models.CreateProductRequest true "Product"
// @Success 201 {object} models.ProductResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /products [post]
func (h *ProductsHandler) CreateProduct(c *gin.Context) {
	var req models.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	product := &models.Product{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		OriginalPrice: req.OriginalPrice,
		Category:      importer.NormalizeCategory(req.Category),
		Condition:     importer.NormalizeCondition(req.Condition),
		Status:        models.ProductStatus(importer.NormalizeStatus(req.Status)),
		Stock:         req.Stock,
		ImageURL:      req.ImageURL,
		DetailedSpecs: req.DetailedSpecs,
		ExternalID:    req.ExternalID,
	}
	if len(req.AdditionalImages) > 0 {
		images := make(models.JSONArray, 0, len(req.AdditionalImages))
		for _, img := range req.AdditionalImages {
			images = append(images, img)
		}
		product.AdditionalImages = &images
	}
	if req.ExternalID != nil {
		source := "bizhub"
		product.Source = &source
	}

	if err := h.repo.CreateProduct(c.Request.Context(), product); err != nil {
		h.logger.WithError(err).Error("Failed to create product")
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to create product")
		return
	}

	h.logger.WithFields(logrus.Fields{
		"productId": product.ID,
		"name":      product.Name,
	}).Info("Product created")

	c.JSON(http.StatusCreated, models.ProductResponse{Success: true, Data: product})
}

// UpdateProduct godoc
// @Summary Partially update a product
// @Tags products
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Param product body models.UpdateProductRequest true "Fields to update"
// @Success 200 {object} models.ProductResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /products/{id} [patch]
func (h *ProductsHandler) UpdateProduct(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "product id must be a UUID")
		return
	}

	var req models.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "price must be a positive number")
			return
		}
		updates["price"] = *req.Price
	}
	if req.OriginalPrice != nil {
		updates["original_price"] = *req.OriginalPrice
	}
	if req.Category != nil {
		updates["category"] = importer.NormalizeCategory(*req.Category)
	}
	if req.Condition != nil {
		updates["condition"] = importer.NormalizeCondition(*req.Condition)
	}
	if req.Status != nil {
		updates["status"] = importer.NormalizeStatus(*req.Status)
	}
	if req.Stock != nil {
		updates["stock"] = *req.Stock
	}
	if req.ImageURL != nil {
		updates["image_url"] = *req.ImageURL
	}
	if req.AdditionalImages != nil {
		images := make(models.JSONArray, 0, len(req.AdditionalImages))
		for _, img := range req.AdditionalImages {
			images = append(images, img)
		}
		updates["additional_images"] = images
	}
	if req.DetailedSpecs != nil {
		updates["detailed_specs"] = *req.DetailedSpecs
	}
	if len(updates) == 0 {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "no fields to update")
		return
	}

	product, err := h.repo.UpdateProduct(c.Request.Context(), productID, updates)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, "NOT_FOUND", "product not found")
			return
		}
		h.logger.WithError(err).WithField("productId", productID).Error("Failed to update product")
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to update product")
		return
	}

	c.JSON(http.StatusOK, models.ProductResponse{Success: true, Data: product})
}

// DeleteProduct godoc
// @Summary Delete a product
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} models.SuccessResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /products/{id} [delete]
func (h *ProductsHandler) DeleteProduct(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "product id must be a UUID")
		return
	}

	if err := h.repo.DeleteProduct(c.Request.Context(), productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, "NOT_FOUND", "product not found")
			return
		}
		h.logger.WithError(err).WithField("productId", productID).Error("Failed to delete product")
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to delete product")
		return
	}

	msg := "product deleted"
	c.JSON(http.StatusOK, models.SuccessResponse{Success: true, Message: &msg})
}

// ListCategories godoc
// @Summary List categories with product counts
// @Tags products
// @Produce json
// @Success 200 {object} models.SuccessResponse
// @Router /categories [get]
func (h *ProductsHandler) ListCategories(c *gin.Context) {
	categories, err := h.repo.ListCategories(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to list categories")
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to list categories")
		return
	}
	c.JSON(http.StatusOK, models.SuccessResponse{Success: true, Data: categories})
}

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, models.ErrorResponse{
		Success: false,
		Error:   models.Error{Code: code, Message: message},
	})
}
