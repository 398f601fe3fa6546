package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"storefront-service/internal/cart"
	"storefront-service/internal/models"
)

// CartHandler serves session cart state.
type CartHandler struct {
	store  *cart.Store
	logger *logrus.Logger
}

func NewCartHandler(store *cart.Store, logger *logrus.Logger) *CartHandler {
	return &CartHandler{store: store, logger: logger}
}

type cartResponse struct {
	Items    []cart.Item `json:"items"`
	Subtotal float64     `json:"subtotal"`
	Count    int         `json:"count"`
}

func toCartResponse(state cart.State) cartResponse {
	items := state.Items
	if items == nil {
		items = []cart.Item{}
	}
	return cartResponse{
		Items:    items,
		Subtotal: state.Subtotal(),
		Count:    state.Count(),
	}
}

// GetCart godoc
// @Summary Get the cart for a session
// @Tags cart
// @Produce json
// @Param sessionId path string true "Session ID"
// @Success 200 {object} models.SuccessResponse
// @Router /cart/{sessionId} [get]
func (h *CartHandler) GetCart(c *gin.Context) {
	sessionID := c.Param("sessionId")
	if sessionID == "" {
		respondError(c, http.StatusBadRequest, "MISSING_SESSION", "session id is required")
		return
	}

	state, err := h.store.Get(c.Request.Context(), sessionID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load cart")
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to load cart")
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{Success: true, Data: toCartResponse(state)})
}

// ApplyAction godoc
// @Summary Apply a cart action
// @Description Applies one add, remove, update, or clear action and returns the resulting cart
// @Tags cart
// @Accept json
// @Produce json
// @Param sessionId path string true "Session ID"
// @Param action body cart.Action true "Cart action"
// @Success 200 {object} models.SuccessResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /cart/{sessionId}/actions [post]
func (h *CartHandler) ApplyAction(c *gin.Context) {
	sessionID := c.Param("sessionId")
	if sessionID == "" {
		respondError(c, http.StatusBadRequest, "MISSING_SESSION", "session id is required")
		return
	}

	var action cart.Action
	if err := c.ShouldBindJSON(&action); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	state, err := h.store.Apply(c.Request.Context(), sessionID, action)
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_ACTION", err.Error())
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{Success: true, Data: toCartResponse(state)})
}
