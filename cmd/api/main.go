package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-storefront-ws/internal/handler"
	"go-storefront-ws/internal/middleware"
	"go-storefront-ws/internal/model"
	"go-storefront-ws/internal/repository"
	"go-storefront-ws/internal/service"
	"go-storefront-ws/internal/store"
	"go-storefront-ws/internal/ws"
	"go-storefront-ws/pkg/ai"
	"go-storefront-ws/pkg/database"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	zl := zerolog.New(os.Stdout).With().Timestamp().Logger()

	// 2. Pick the persistence backend once, by static configuration check:
	// remote table store when URL and key are both set, local JSON
	// snapshots otherwise.
	var backend store.Backend
	var userRepo repository.UserRepository
	if database.Configured() {
		db := database.ConnectDB()
		if err := db.AutoMigrate(&model.Product{}, &model.Order{}, &model.Profile{}, &model.User{}); err != nil {
			log.Fatal("Migration failed: ", err)
		}

		productRepo := repository.NewProductRepo(db)
		orderRepo := repository.NewOrderRepo(db)
		profileRepo := repository.NewProfileRepo(db)
		userRepo = repository.NewUserRepo(db)

		backend = store.NewRemoteBackend(productRepo, orderRepo, profileRepo, os.Getenv("SELLER_ID"))
	} else {
		dataDir := os.Getenv("DATA_DIR")
		if dataDir == "" {
			dataDir = "./data"
		}
		var err error
		backend, err = store.NewLocalBackend(dataDir)
		if err != nil {
			log.Fatal("Failed to open local snapshots: ", err)
		}
		zl.Warn().Str("dir", dataDir).Msg("no remote store configured, using local snapshots")
	}

	// 3. Build the store and load the collections
	st := store.New(backend, zl)
	if err := st.Load(); err != nil {
		log.Fatal("Failed to load collections: ", err)
	}

	// 4. Setup WebSocket Hub
	wsHub := ws.NewHub(zl)
	go wsHub.Run()

	// 5. Dependency Injection (Wiring Layers)
	invService := service.NewInventoryService(st, wsHub, zl)
	orderService := service.NewOrderService(st, wsHub, zl)
	analyticsService := service.NewAnalyticsService(st)

	aiClient := ai.NewClient(os.Getenv("AI_BASE_URL"), os.Getenv("AI_API_KEY"), os.Getenv("AI_MODEL"))
	assistantService := service.NewAssistantService(st, orderService, aiClient, 2*time.Second, zl)

	productHandler := handler.NewProductHandler(invService)
	orderHandler := handler.NewOrderHandler(orderService)
	dashHandler := handler.NewDashboardHandler(analyticsService)
	chatHandler := handler.NewChatHandler(assistantService)
	profileHandler := handler.NewProfileHandler(st)

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "Storefront Engine v1.0",
	})

	// Middleware
	app.Use(logger.New())  // Logging request
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS

	// 7. Routes
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	// Storefront: catalog, checkout, chat assistant
	api.Get("/catalog", productHandler.GetProducts)
	api.Get("/catalog/:id", productHandler.GetProduct)
	api.Get("/profile", profileHandler.GetProfile)
	api.Post("/orders", orderHandler.CreateOrder)
	api.Post("/chat", chatHandler.Chat)
	api.Post("/chat/confirm-payment", chatHandler.ConfirmPayment)

	// ============ PROTECTED ROUTES (admin dashboard) ============
	var guard fiber.Handler
	if userRepo != nil {
		authService := service.NewAuthService(userRepo, zl)
		authHandler := handler.NewAuthHandler(authService)
		auth := api.Group("/auth")
		auth.Post("/login", authHandler.Login)
		auth.Post("/register", authHandler.Register)

		guard = middleware.RequireAuth(userRepo)
	} else {
		// Local single-tenant mode has no accounts
		guard = middleware.LocalMode()
	}
	protected := api.Group("", guard)

	protected.Get("/products", productHandler.GetProducts)
	protected.Post("/products", productHandler.CreateProduct)
	protected.Put("/products/:id", productHandler.UpdateProduct)
	protected.Delete("/products/:id", productHandler.DeleteProduct)

	protected.Get("/orders", orderHandler.GetOrders)
	protected.Get("/orders/:id", orderHandler.GetOrder)
	protected.Patch("/orders/:id/status", orderHandler.AdvanceStatus)
	protected.Post("/orders/:id/cancel", orderHandler.CancelOrder)

	protected.Get("/dashboard/stats", dashHandler.GetStats)
	protected.Get("/dashboard/revenue-series", dashHandler.GetRevenueSeries)
	protected.Get("/dashboard/top-sellers", dashHandler.GetTopSellers)
	protected.Get("/dashboard/customers", dashHandler.GetCustomers)

	protected.Put("/profile", profileHandler.UpdateProfile)

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
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		if err := app.Listen(":" + port); err != nil {
			log.Panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
