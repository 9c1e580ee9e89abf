package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go-boutique-pos/internal/config"
	"go-boutique-pos/internal/export"
	"go-boutique-pos/internal/handler"
	"go-boutique-pos/internal/middleware"
	"go-boutique-pos/internal/repository"
	"go-boutique-pos/internal/scheduler"
	"go-boutique-pos/internal/service"
	"go-boutique-pos/internal/ws"
	"go-boutique-pos/pkg/database"
	"go-boutique-pos/pkg/jwt"
	"go-boutique-pos/pkg/log"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	jsoniter "github.com/json-iterator/go"
)

const pinRoute = "/api/v1/settings/pin"

func main() {
	// 1. Load config
	cfg, err := config.NewConfig()
	if err != nil {
		log.L.Fatalf("failed to load config: %v", err)
	}
	log.Setup(cfg.App.LogLevel)
	jwt.SetSecretKey(cfg.Auth.Secret)
	loc := cfg.Location()

	// 2. Setup Database
	db, err := database.Connect(cfg.Database, cfg.App.LogLevel)
	if err != nil {
		log.L.Fatalf("failed to connect database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.L.Fatalf("failed to migrate database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.L.Fatalf("failed to access connection pool: %v", err)
	}

	// 3. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 4. Dependency Injection (Wiring Layers)
	customerRepo := repository.NewCustomerRepo(db)
	categoryRepo := repository.NewCategoryRepo(db)
	productRepo := repository.NewProductRepo(db)
	saleRepo := repository.NewSaleRepo(db)
	expenseRepo := repository.NewExpenseRepo(db)
	expenseCategoryRepo := repository.NewExpenseCategoryRepo(db)
	preferenceRepo := repository.NewPreferenceRepo(db)

	settingsService := service.NewSettingsService(preferenceRepo, wsHub, cfg.Auth.SessionTTL, loc)
	customerService := service.NewCustomerService(customerRepo, wsHub)
	catalogService := service.NewCatalogService(categoryRepo, productRepo, saleRepo, wsHub)
	salesService := service.NewSalesService(saleRepo, productRepo, customerRepo, wsHub)
	expenseService := service.NewExpenseService(expenseRepo, expenseCategoryRepo, wsHub)
	dashService := service.NewDashboardService(saleRepo, expenseRepo, settingsService, loc)

	driverName := "sqlite"
	if cfg.Database.Driver == database.DriverPostgres {
		driverName = "pgx"
	}
	exporter := export.NewExporter(sqlDB, driverName, loc)

	authHandler := handler.NewAuthHandler(settingsService)
	settingsHandler := handler.NewSettingsHandler(settingsService)
	customerHandler := handler.NewCustomerHandler(customerService)
	catalogHandler := handler.NewCatalogHandler(catalogService)
	salesHandler := handler.NewSalesHandler(salesService)
	expenseHandler := handler.NewExpenseHandler(expenseService)
	dashHandler := handler.NewDashboardHandler(dashService, loc)
	exportHandler := handler.NewExportHandler(exporter)

	// 5. Scheduled backups
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	backups := scheduler.NewBackupService(exporter, cfg)
	if err := backups.Start(ctx); err != nil {
		log.L.WithError(err).Error("Backup scheduler not started")
	}

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName:     cfg.App.Name,
		JSONEncoder: jsoniter.ConfigCompatibleWithStandardLibrary.Marshal,
		JSONDecoder: jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal,
	})

	// Middleware
	app.Use(logger.New())  // Logging request
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS
	app.Use(middleware.CorrelationID())

	// 7. Routes
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/unlock", authHandler.Unlock)
	auth.Post("/recover", authHandler.Recover)
	auth.Get("/status", authHandler.Status)

	// ============ PROTECTED ROUTES ============
	// Open while the PIN gate is off
	protected := api.Group("", middleware.RequirePIN(settingsService, pinRoute))

	protected.Get("/customers", customerHandler.GetCustomers)
	protected.Post("/customers", customerHandler.CreateCustomer)
	protected.Get("/customers/:id", customerHandler.GetCustomer)
	protected.Put("/customers/:id", customerHandler.UpdateCustomer)
	protected.Delete("/customers/:id", customerHandler.DeleteCustomer)

	protected.Get("/categories", catalogHandler.GetCategories)
	protected.Post("/categories", catalogHandler.CreateCategory)
	protected.Put("/categories/:id", catalogHandler.UpdateCategory)
	protected.Delete("/categories/:id", catalogHandler.DeleteCategory)

	// static product routes before /products/:id
	protected.Get("/products/totals", catalogHandler.GetInventoryTotals)
	protected.Post("/products/mark-sold", catalogHandler.MarkSold)
	protected.Post("/products/mark-available", catalogHandler.MarkAvailable)
	protected.Get("/products", catalogHandler.GetProducts)
	protected.Post("/products", catalogHandler.CreateProduct)
	protected.Get("/products/:id", catalogHandler.GetProduct)
	protected.Put("/products/:id", catalogHandler.UpdateProduct)
	protected.Delete("/products/:id", catalogHandler.DeleteProduct)

	protected.Get("/sales", salesHandler.GetSales)
	protected.Post("/sales", salesHandler.CreateSale)
	protected.Get("/sales/:id", salesHandler.GetSale)
	protected.Put("/sales/:id", salesHandler.UpdateSale)
	protected.Delete("/sales/:id", salesHandler.DeleteSale)
	protected.Post("/sales/:id/payments", salesHandler.CreatePayment)
	protected.Put("/payments/:id", salesHandler.UpdatePayment)

	protected.Get("/expenses/total", expenseHandler.GetTotal)
	protected.Get("/expenses", expenseHandler.GetExpenses)
	protected.Post("/expenses", expenseHandler.CreateExpense)
	protected.Put("/expenses/:id", expenseHandler.UpdateExpense)
	protected.Delete("/expenses/:id", expenseHandler.DeleteExpense)

	protected.Get("/expense-categories", expenseHandler.GetCategories)
	protected.Post("/expense-categories", expenseHandler.CreateCategory)
	protected.Put("/expense-categories/:id", expenseHandler.UpdateCategory)
	protected.Delete("/expense-categories/:id", expenseHandler.DeleteCategory)

	protected.Get("/settings", settingsHandler.GetSettings)
	protected.Put("/settings/store", settingsHandler.UpdateStore)
	protected.Put("/settings/pin", settingsHandler.SetPIN)
	protected.Delete("/settings/pin", settingsHandler.DisablePIN)
	protected.Put("/settings/biometric", settingsHandler.SetBiometric)
	protected.Put("/settings/security-question", settingsHandler.SetSecurityQuestion)

	protected.Get("/dashboard", dashHandler.GetDashboardStats)
	protected.Put("/dashboard/period", dashHandler.SavePeriod)

	protected.Get("/export/backup", exportHandler.GetBackup)

	// WebSocket Route, gated like the API; clients pass ?token= on the handshake
	app.Use("/ws", middleware.RequirePIN(settingsService, pinRoute), func(c *fiber.Ctx) error {
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
		if err := app.Listen(":" + cfg.Server.Port); err != nil {
			log.L.Fatalf("server stopped: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.L.Info("Shutting down server...")
	cancel()
	if err := app.Shutdown(); err != nil {
		log.L.Fatalf("Server forced to shutdown: %v", err)
	}
	if err := sqlDB.Close(); err != nil {
		log.L.WithError(err).Warn("closing database")
	}

	log.L.Info("Server exited")
}
