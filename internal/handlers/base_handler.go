package handlers

import (
	"atelier_backend/internal/validator"
	"atelier_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// BaseHandler carries the cross-cutting pieces every handler needs.
type BaseHandler struct {
	validator *validator.Validator
}

func NewBaseHandler(v *validator.Validator) *BaseHandler {
	return &BaseHandler{validator: v}
}

// BindAndValidate decodes the JSON body and runs struct validation,
// writing the error response itself on failure.
func (h *BaseHandler) BindAndValidate(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		apperrors.HandleValidationError(c, err)
		return false
	}
	if err := h.validator.Validate(dst); err != nil {
		apperrors.HandleError(c, apperrors.ValidationError(err.Error()))
		return false
	}
	return true
}
