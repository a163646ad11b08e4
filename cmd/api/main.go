package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	_ "github.com/lib/pq"
	log "github.com/sirupsen/logrus"

	"github.com/fairway-commerce/storefront-service/internal/config"
	"github.com/fairway-commerce/storefront-service/internal/database"
	"github.com/fairway-commerce/storefront-service/internal/handlers"
	"github.com/fairway-commerce/storefront-service/internal/messaging"
	"github.com/fairway-commerce/storefront-service/internal/repository"
	"github.com/fairway-commerce/storefront-service/internal/service"
)

func main() {
	log.SetFormatter(&log.JSONFormatter{})
	log.Info("Storefront service starting...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Config load error: %v", err)
	}

	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		log.Fatalf("Database connection error: %v", err)
	}
	defer db.Close()

	if err := database.RunMigrations(&cfg.Database); err != nil {
		log.Fatalf("Migration error: %v", err)
	}

	rabbitConfig := messaging.NewRabbitMQConfig()
	rabbitClient := messaging.NewRabbitMQClient(rabbitConfig)
	if err := rabbitClient.Connect(); err != nil {
		log.Fatalf("RabbitMQ connection error: %v", err)
	}
	defer rabbitClient.Close()

	publisher := messaging.NewRetryingPublisher(messaging.NewPublisher(rabbitClient), rabbitConfig.RetryCount)
	consumer := messaging.NewConsumer(rabbitClient, "storefront-notifications", service.ServiceName)

	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	inventoryRepo := repository.NewInventoryRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	orderService := service.NewOrderService(orderRepo, productRepo, customerRepo, inventoryRepo, publisher)
	inventoryService := service.NewInventoryService(productRepo, inventoryRepo, publisher)
	catalogService := service.NewCatalogService(productRepo)
	notificationService := service.NewNotificationService(notificationRepo, service.LogSender{},
		cfg.Inventory.LowStockThreshold, cfg.Inventory.AlertRecipient)

	orderHandler := handlers.NewOrderHandler(orderService)
	inventoryHandler := handlers.NewInventoryHandler(inventoryService)
	productHandler := handlers.NewProductHandler(catalogService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	eventConsumer := handlers.NewEventConsumer(consumer, notificationService)

	app := setupFiberApp(cfg)
	setupRoutes(app, orderHandler, inventoryHandler, productHandler, notificationHandler)

	go func() {
		if err := eventConsumer.StartConsuming(); err != nil {
			log.WithError(err).Error("event consumption stopped")
		}
	}()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info("Storefront service shutting down...")
		if err := app.Shutdown(); err != nil {
			log.WithError(err).Error("shutdown error")
		}
	}()

	log.Infof("Storefront service listening on :%s", cfg.Server.Port)
	if err := app.Listen(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Server start error: %v", err)
	}
}

func setupFiberApp(cfg *config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "Storefront Service v1.0",
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		ErrorHandler: errorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} - ${latency}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization,X-Request-ID",
	}))

	return app
}

func setupRoutes(app *fiber.App,
	orderHandler *handlers.OrderHandler,
	inventoryHandler *handlers.InventoryHandler,
	productHandler *handlers.ProductHandler,
	notificationHandler *handlers.NotificationHandler,
) {
	api := app.Group("/api/v1")

	api.Get("/health", orderHandler.HealthCheck)

	orders := api.Group("/orders")
	orders.Post("/", orderHandler.CreateOrder)
	orders.Get("/:id", orderHandler.GetOrderByID)
	orders.Put("/:id/status", orderHandler.UpdateOrderStatus)

	customers := api.Group("/customers")
	customers.Get("/:customer_id/orders", orderHandler.GetOrdersByCustomerID)

	products := api.Group("/products")
	products.Get("/", productHandler.ListProducts)
	products.Get("/:id", productHandler.GetProduct)
	products.Post("/", productHandler.CreateProduct)

	inventory := api.Group("/inventory")
	inventory.Get("/", inventoryHandler.ListItems)
	inventory.Post("/", inventoryHandler.HandlePost)
	inventory.Delete("/:id", inventoryHandler.DeleteItem)

	api.Get("/notifications", notificationHandler.GetNotifications)

	app.Use("*", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Route not found",
		})
	})
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}
