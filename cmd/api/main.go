package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-pos-inventory/internal/cache"
	"go-pos-inventory/internal/config"
	"go-pos-inventory/internal/events"
	"go-pos-inventory/internal/handler"
	"go-pos-inventory/internal/middleware"
	"go-pos-inventory/internal/model"
	"go-pos-inventory/internal/repository"
	"go-pos-inventory/internal/service"
	"go-pos-inventory/internal/ws"
	"go-pos-inventory/pkg/database"
	"go-pos-inventory/pkg/jwt"
	"go-pos-inventory/pkg/logger"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	// 1. Config & logging
	cfg := config.Load()
	if err := logger.Init(cfg.Server.Env); err != nil {
		panic(err)
	}
	defer logger.Sync()
	log := logger.Get()

	jwt.Configure(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.JWTTTLHours)*time.Hour)

	// 2. Setup Database
	db, err := database.ConnectDB(cfg.Database.DSN(), cfg.Server.IsProduction())
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal("database migration failed", zap.Error(err))
	}

	// 3. Seed default admin user
	seedAdmin(db, cfg.Seed)

	// 4. Live updates: websocket hub, optional Kafka, optional Redis cache
	wsHub := ws.NewHub()
	go wsHub.Run()

	publishers := []events.Publisher{wsHub}
	var kafkaPublisher *events.KafkaPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaPublisher = events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		publishers = append(publishers, kafkaPublisher)
		log.Info("kafka publisher enabled", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	}
	dispatcher := events.NewDispatcher(publishers...)

	var appCache cache.Cache = cache.Noop{}
	var redisCache *cache.RedisCache
	if cfg.Redis.Addr != "" {
		redisCache = cache.NewRedisCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := redisCache.Ping(ctx); err != nil {
			log.Warn("redis unavailable, caching disabled", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
			redisCache.Close()
			redisCache = nil
		} else {
			appCache = redisCache
			log.Info("redis cache enabled", zap.String("addr", cfg.Redis.Addr))
		}
		cancel()
	}
	cacheTTL := time.Duration(cfg.Redis.CacheTTLSeconds) * time.Second

	// 5. Dependency Injection (Wiring Layers)
	userRepo := repository.NewUserRepo(db)
	productRepo := repository.NewProductRepo(db)
	categoryRepo := repository.NewCategoryRepo(db)
	supplierRepo := repository.NewSupplierRepo(db)
	customerRepo := repository.NewCustomerRepo(db)
	saleRepo := repository.NewSaleRepo(db)
	purchaseRepo := repository.NewPurchaseRepo(db)
	movementRepo := repository.NewMovementRepo(db)
	settingRepo := repository.NewSettingRepo(db)
	statsRepo := repository.NewStatsRepo(db)

	authService := service.NewAuthService(userRepo, dispatcher)
	userService := service.NewUserService(userRepo)
	catalogService := service.NewCatalogService(db, productRepo, categoryRepo, movementRepo, settingRepo, dispatcher, appCache)
	partnerService := service.NewPartnerService(supplierRepo, customerRepo)
	saleService := service.NewSaleService(db, saleRepo, productRepo, customerRepo, movementRepo, settingRepo, dispatcher, appCache)
	purchaseService := service.NewPurchaseService(db, purchaseRepo, productRepo, supplierRepo, movementRepo, dispatcher, appCache)
	inventoryService := service.NewInventoryService(db, productRepo, movementRepo, saleRepo, dispatcher, appCache, cacheTTL)
	dashboardService := service.NewDashboardService(statsRepo, saleRepo, productRepo, appCache, cacheTTL)
	settingsService := service.NewSettingsService(settingRepo)

	handlers := handler.Handlers{
		Auth:      handler.NewAuthHandler(authService, userService),
		User:      handler.NewUserHandler(userService),
		Role:      handler.NewRoleHandler(userService),
		Catalog:   handler.NewCatalogHandler(catalogService),
		Partner:   handler.NewPartnerHandler(partnerService),
		Sale:      handler.NewSaleHandler(saleService),
		Purchase:  handler.NewPurchaseHandler(purchaseService),
		Inventory: handler.NewInventoryHandler(inventoryService),
		Dashboard: handler.NewDashboardHandler(dashboardService),
		Settings:  handler.NewSettingsHandler(settingsService),
	}

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "POS Inventory v1.0",
	})

	// Middleware
	app.Use(fiberlogger.New()) // Logging request
	app.Use(recover.New())     // Panic recovery
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.Server.CORSOrigins}))
	app.Use(middleware.Metrics())

	app.Get("/health", func(c *fiber.Ctx) error {
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(c.UserContext()) != nil {
			return c.Status(503).JSON(fiber.Map{"status": "unavailable"})
		}
		return c.JSON(fiber.Map{"status": "ok", "ws_clients": wsHub.ClientCount()})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// 7. Routes
	handler.RegisterRoutes(app, handlers, authService)

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 8. Graceful Shutdown
	go func() {
		if err := app.Listen(cfg.Server.Address()); err != nil {
			log.Panic("server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}
	dispatcher.Close()
	if kafkaPublisher != nil {
		if err := kafkaPublisher.Close(); err != nil {
			log.Warn("kafka writer close failed", zap.Error(err))
		}
	}
	if redisCache != nil {
		redisCache.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}

	log.Info("server exited")
}

// seedAdmin creates the first administrator when no user holds the admin role
func seedAdmin(db *gorm.DB, seed config.SeedConfig) {
	log := logger.Get()
	userRepo := repository.NewUserRepo(db)

	count, err := userRepo.CountByRole(model.RoleAdmin)
	if err != nil {
		log.Warn("failed to count admins", zap.Error(err))
		return
	}
	if count > 0 {
		return
	}

	if _, err := userRepo.FindByEmail(seed.AdminEmail); err == nil {
		log.Warn("seed admin e-mail already belongs to a non-admin user", zap.String("email", seed.AdminEmail))
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Warn("failed to look up seed admin", zap.Error(err))
		return
	}

	admin := &model.User{
		Username: "admin",
		Email:    seed.AdminEmail,
		FullName: "Administrator",
		Role:     model.RoleAdmin,
		IsActive: true,
	}
	admin.CreatedBy = "system"
	admin.UpdatedBy = "system"

	if err := admin.SetPassword(seed.AdminPassword); err != nil {
		log.Warn("failed to hash admin password", zap.Error(err))
		return
	}

	if err := userRepo.Create(admin); err != nil {
		log.Warn("failed to create admin user", zap.Error(err))
		return
	}
	log.Info("admin user created", zap.String("email", admin.Email), zap.String("username", admin.Username))
}
