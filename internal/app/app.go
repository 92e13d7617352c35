package app

import (
	"context"
	"fmt"
	"time"

	"atelier_backend/internal/config"
	"atelier_backend/internal/handlers"
	"atelier_backend/internal/logger"
	"atelier_backend/internal/middleware"
	"atelier_backend/internal/models"
	"atelier_backend/internal/repositories"
	"atelier_backend/internal/routes"
	"atelier_backend/internal/services"
	"atelier_backend/internal/storage"
	"atelier_backend/internal/validator"
	"atelier_backend/internal/workers"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Run boots the whole service: config, logging, database, storage,
// background workers and the HTTP server.
func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	gormDB, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := migrate(gormDB); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}

	ginRouter, sweeper := SetupRouter(cfg, gormDB)
	sweeper.Start(context.Background())

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Server starting", "address", address)
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Order{},
		&models.OrderItem{},
		&models.OrderItemCustomization{},
		&models.Product{},
		&models.Component{},
		&models.Item{},
		&models.Additional{},
		&models.CustomizationRule{},
		&models.DynamicLayout{},
		&models.Layout{},
		&models.TransientAsset{},
	)
}

// SetupRouter builds the dependency graph and returns the configured
// engine plus the background sweeper for the caller to start.
func SetupRouter(cfg *config.Config, gormDB *gorm.DB) (*gin.Engine, *workers.TransientSweeper) {
	folderStorage, err := storage.NewFolderStorage(storage.Config{
		Type:       cfg.Storage.Type,
		BasePath:   cfg.Storage.BasePath,
		BaseURL:    cfg.Storage.BaseURL,
		Bucket:     cfg.Storage.Bucket,
		Region:     cfg.Storage.Region,
		AccessKey:  cfg.Storage.AccessKey,
		SecretKey:  cfg.Storage.SecretKey,
		Endpoint:   cfg.Storage.Endpoint,
		PublicRead: cfg.Storage.PublicRead,
	})
	if err != nil {
		logger.Fatal("Failed to initialize durable storage", "error", err)
	}

	transientFiles, err := storage.NewTransientFiles(cfg.Transient.BasePath, cfg.Transient.BackupDir)
	if err != nil {
		logger.Fatal("Failed to initialize transient storage", "error", err)
	}

	// Repositories
	orderRepo := repositories.NewOrderRepository(gormDB)
	customizationRepo := repositories.NewCustomizationRepository(gormDB)
	productRepo := repositories.NewProductRepository(gormDB)
	layoutRepo := repositories.NewLayoutRepository(gormDB)
	transientRepo := repositories.NewTransientRepository(gormDB)

	// Services
	labels := services.NewLabelResolver(productRepo, layoutRepo)
	uploader := services.NewAssetUploader(
		folderStorage, transientFiles,
		time.Duration(cfg.Upload.FetchTimeoutMS)*time.Millisecond)

	customizationService := services.NewCustomizationService(
		customizationRepo, orderRepo, transientRepo, labels, transientFiles)
	orderService := services.NewOrderService(orderRepo)
	finalizeService := services.NewFinalizeService(
		orderRepo, customizationRepo, transientRepo, folderStorage, transientFiles, uploader, labels)
	checkoutService := services.NewCheckoutService(
		orderRepo, transientRepo, transientFiles, folderStorage)
	cleanupService := services.NewCleanupService(orderRepo, customizationRepo)
	uploadService := services.NewUploadService(transientRepo, transientFiles, services.UploadLimits{
		MaxSize:      cfg.Upload.MaxSize,
		AllowedTypes: cfg.Upload.AllowedTypes,
		TTL:          time.Duration(cfg.Transient.TTLHours) * time.Hour,
	})

	// Handlers
	base := handlers.NewBaseHandler(validator.New())
	appHandlers := &handlers.AppHandlers{
		CustomizationHandler: handlers.NewCustomizationHandler(base, customizationService),
		OrderHandler:         handlers.NewOrderHandler(base, orderService, finalizeService, checkoutService, cleanupService),
		UploadHandler:        handlers.NewUploadHandler(base, uploadService),
	}

	if cfg.Server.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	ginRouter := gin.New()
	ginRouter.Use(gin.Recovery())
	ginRouter.Use(middleware.RequestIDMiddleware())
	ginRouter.Use(middleware.LoggingMiddleware())

	var transientPath, drivePath string
	transientPath = cfg.Transient.BasePath
	if cfg.Storage.Type == "local" {
		drivePath = cfg.Storage.BasePath
	}
	routes.RegisterRoutes(ginRouter, appHandlers, transientPath, drivePath)

	sweeper := workers.NewTransientSweeper(uploadService, time.Hour)
	return ginRouter, sweeper
}
