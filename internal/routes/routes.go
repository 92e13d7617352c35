package routes

import (
	"atelier_backend/internal/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires all HTTP routes onto the engine. The transient
// and durable file directories are served statically so locally stored
// assets resolve at the URLs embedded in payloads.
func RegisterRoutes(ginRouter *gin.Engine, appHandlers *handlers.AppHandlers, transientPath, drivePath string) {
	api := ginRouter.Group("/api/v1")
	{
		appHandlers.CustomizationHandler.RegisterRoutes(api)
		appHandlers.OrderHandler.RegisterRoutes(api)
		appHandlers.UploadHandler.RegisterRoutes(api)
	}

	if transientPath != "" {
		ginRouter.Static("/uploads/temp", transientPath)
	}
	if drivePath != "" {
		ginRouter.Static("/files", drivePath)
	}
}
