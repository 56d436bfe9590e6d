package main

import (
	"os"

	_ "flavoradmin/api/swagger" // swagger docs
	"flavoradmin/internal/database"
	"flavoradmin/internal/handler"
	"flavoradmin/internal/logger"
	"flavoradmin/internal/middleware"
	"flavoradmin/internal/repository"
	"flavoradmin/internal/service"
	"flavoradmin/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// @title           Flavor Admin API
// @version         1.0
// @description     Back-office API for the flavor catalog: brands, flavors, stock, approval requests, users and audit.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Missing .env is fine, dev defaults below cover it
	_ = godotenv.Load("configs/.env")

	log := logger.New()
	defer log.Sync()

	dsn := "postgres://" + envOr("DB_USER", "postgres") +
		":" + envOr("DB_PASSWORD", "postgres") +
		"@" + envOr("DB_HOST", "localhost") +
		":" + envOr("DB_PORT", "5432") +
		"/" + envOr("DB_NAME", "flavoradmin") +
		"?sslmode=" + envOr("DB_SSLMODE", "disable")

	db, err := database.NewConnection(dsn)
	if err != nil {
		log.Fatalw("database connection failed", "error", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalw("database migration failed", "error", err)
	}
	if err := database.Seed(db); err != nil {
		log.Fatalw("database seeding failed", "error", err)
	}
	log.Info("connected to postgres")

	secret := []byte(envOr("JWT_SECRET", "dev-secret-change-me"))
	uploadDir := envOr("UPLOAD_DIR", "uploads")

	wsHub := websocket.NewHub(log)
	go wsHub.Run()

	// Repositories
	txManager := repository.NewTransactionManager(db)
	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	permRepo := repository.NewPermissionRepository(db)
	brandRepo := repository.NewBrandRepository(db)
	flavorRepo := repository.NewFlavorRepository(db)
	stockRepo := repository.NewStockRepository(db)
	requestRepo := repository.NewRequestRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	importRepo := repository.NewImportJobRepository(db)
	dashboardRepo := repository.NewDashboardRepository(db)

	// Services
	authService := service.NewAuthService(userRepo, roleRepo, auditRepo, txManager, wsHub, secret)
	userService := service.NewUserService(userRepo, roleRepo, permRepo, auditRepo, txManager, wsHub)
	roleService := service.NewRoleService(roleRepo, userRepo, permRepo, auditRepo, txManager, wsHub)
	brandService := service.NewBrandService(brandRepo, auditRepo, txManager, wsHub)
	flavorService := service.NewFlavorService(flavorRepo, brandRepo, auditRepo, txManager, wsHub)
	stockService := service.NewStockService(stockRepo, flavorRepo, auditRepo, txManager, wsHub)
	requestService := service.NewRequestService(requestRepo, flavorRepo, auditRepo, txManager, wsHub)
	auditService := service.NewAuditService(auditRepo)
	importService := service.NewImportService(importRepo, flavorRepo, stockRepo, auditRepo, txManager, wsHub, uploadDir)
	exportService := service.NewExportService(flavorRepo, stockRepo)
	dashboardService := service.NewDashboardService(dashboardRepo, requestRepo, txManager)

	sweeper := service.NewSweeper(importService, log)
	if err := sweeper.Start(); err != nil {
		log.Fatalw("failed to start import sweeper", "error", err)
	}
	defer sweeper.Stop()

	guard := middleware.NewGuard(secret, permRepo)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(log))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173"}
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, secret)
	})

	api := router.Group("")
	handler.NewAuthHandler(authService).RegisterRoutes(api, guard)
	handler.NewUserHandler(userService).RegisterRoutes(api, guard)
	handler.NewRoleHandler(roleService).RegisterRoutes(api, guard)
	handler.NewBrandHandler(brandService).RegisterRoutes(api, guard)
	handler.NewFlavorHandler(flavorService).RegisterRoutes(api, guard)
	handler.NewStockHandler(stockService).RegisterRoutes(api, guard)
	handler.NewRequestHandler(requestService).RegisterRoutes(api, guard)
	handler.NewAuditHandler(auditService).RegisterRoutes(api, guard)
	handler.NewImportHandler(importService, sweeper).RegisterRoutes(api, guard)
	handler.NewExportHandler(exportService).RegisterRoutes(api, guard)
	handler.NewDashboardHandler(dashboardService).RegisterRoutes(api, guard)

	port := envOr("PORT", "8080")
	log.Infow("server listening", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalw("server failed", "error", err)
	}
}
