package handlers

// AppHandlers holds every HTTP handler of the application.
type AppHandlers struct {
	CustomizationHandler *CustomizationHandler
	OrderHandler         *OrderHandler
	UploadHandler        *UploadHandler
}
