package handlers

import (
	"net/http"

	"atelier_backend/internal/services"
	"atelier_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type UploadHandler struct {
	*BaseHandler
	uploads services.UploadService
}

func NewUploadHandler(base *BaseHandler, uploads services.UploadService) *UploadHandler {
	return &UploadHandler{
		BaseHandler: base,
		uploads:     uploads,
	}
}

func (h *UploadHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/uploads/temp", h.UploadTransient)
}

// UploadTransient accepts a pre-checkout file into transient storage.
// The returned URL is what clients embed into customization payloads.
func (h *UploadHandler) UploadTransient(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("missing 'file' form field"))
		return
	}

	res, err := h.uploads.SaveTransient(c.Request.Context(), file)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}
