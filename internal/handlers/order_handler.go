package handlers

import (
	"net/http"

	"atelier_backend/internal/services"
	"atelier_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	*BaseHandler
	orders   services.OrderService
	finalize services.FinalizeService
	checkout services.CheckoutService
	cleanup  services.CleanupService
}

func NewOrderHandler(base *BaseHandler, orders services.OrderService, finalize services.FinalizeService, checkout services.CheckoutService, cleanup services.CleanupService) *OrderHandler {
	return &OrderHandler{
		BaseHandler: base,
		orders:      orders,
		finalize:    finalize,
		checkout:    checkout,
		cleanup:     cleanup,
	}
}

func (h *OrderHandler) RegisterRoutes(r *gin.RouterGroup) {
	orders := r.Group("/orders")
	{
		orders.GET("/:orderId", h.Get)
		orders.POST("/:orderId/finalize", h.Finalize)
		orders.GET("/:orderId/checkout/validate", h.ValidateCheckout)
		orders.POST("/:orderId/cleanup", h.Cleanup)
	}
}

// Get returns the order with its items and sanitized customizations.
func (h *OrderHandler) Get(c *gin.Context) {
	res, err := h.orders.GetOrder(c.Request.Context(), c.Param("orderId"))
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Finalize migrates the order's customization assets to durable storage.
func (h *OrderHandler) Finalize(c *gin.Context) {
	res, err := h.finalize.FinalizeOrder(c.Request.Context(), c.Param("orderId"))
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// ValidateCheckout reports whether the order may proceed to payment.
func (h *OrderHandler) ValidateCheckout(c *gin.Context) {
	res, err := h.checkout.ValidateCheckout(c.Request.Context(), c.Param("orderId"))
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Cleanup sweeps content-free customizations off the order.
func (h *OrderHandler) Cleanup(c *gin.Context) {
	res, err := h.cleanup.SweepOrder(c.Request.Context(), c.Param("orderId"))
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
