package handlers

import (
	"net/http"

	"atelier_backend/internal/services"
	"atelier_backend/internal/services/dto"
	"atelier_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type CustomizationHandler struct {
	*BaseHandler
	customizations services.CustomizationService
}

func NewCustomizationHandler(base *BaseHandler, customizations services.CustomizationService) *CustomizationHandler {
	return &CustomizationHandler{
		BaseHandler:    base,
		customizations: customizations,
	}
}

func (h *CustomizationHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/order-items/:itemId/customizations", h.Save)
	r.GET("/orders/:orderId/customizations", h.ListByOrder)
}

// Save upserts one customization slot for an order item.
func (h *CustomizationHandler) Save(c *gin.Context) {
	var req dto.SaveCustomizationRequest
	if !h.BindAndValidate(c, &req) {
		return
	}

	res, err := h.customizations.Save(c.Request.Context(), c.Param("itemId"), &req)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// ListByOrder returns the sanitized customization view for fulfillment.
func (h *CustomizationHandler) ListByOrder(c *gin.Context) {
	res, err := h.customizations.ListByOrder(c.Request.Context(), c.Param("orderId"))
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"customizations": res})
}
