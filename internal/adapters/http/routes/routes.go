package routes

import (
	"transportconnect/internal/adapters/http/handlers"
	"transportconnect/internal/adapters/http/middleware"
	"transportconnect/internal/adapters/messaging"
	"transportconnect/internal/adapters/persistence/repositories"
	"transportconnect/internal/adapters/ws"
	"transportconnect/internal/config"
	"transportconnect/internal/core/services"
	"transportconnect/internal/pkg/mailer"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config, hub *ws.Hub, publisher *messaging.Publisher, m *mailer.Mailer) {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	listingRepo := repositories.NewListingRepository(db)
	requestRepo := repositories.NewTransportRequestRepository(db)
	evaluationRepo := repositories.NewEvaluationRepository(db)
	notificationRepo := repositories.NewNotificationRepository(db)
	messageRepo := repositories.NewMessageRepository(db)

	// A nil *messaging.Publisher must stay a nil interface so the
	// notification service skips publishing instead of calling through it
	var eventPublisher services.EventPublisher
	if publisher != nil {
		eventPublisher = publisher
	}

	// Initialize services
	authService := services.NewAuthService(userRepo, refreshTokenRepo, cfg)
	userService := services.NewUserService(userRepo, evaluationRepo)
	listingService := services.NewListingService(listingRepo)
	notificationService := services.NewNotificationService(notificationRepo, userRepo, m, hub, eventPublisher)
	requestService := services.NewRequestService(requestRepo, listingRepo, notificationService)
	evaluationService := services.NewEvaluationService(evaluationRepo, requestRepo, notificationService)
	chatService := services.NewChatService(messageRepo, userRepo, hub)
	dashboardService := services.NewDashboardService(db)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService, cfg)
	userHandler := handlers.NewUserHandler(userService)
	listingHandler := handlers.NewListingHandler(listingService)
	requestHandler := handlers.NewRequestHandler(requestService)
	evaluationHandler := handlers.NewEvaluationHandler(evaluationService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	chatHandler := handlers.NewChatHandler(chatService, hub)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)
	adminHandler := handlers.NewAdminHandler(userService, listingService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	apiV1.Get("/", healthHandler.APIInfo)

	auth := middleware.AuthMiddleware(authService)

	// Auth routes (public)
	authRoutes := apiV1.Group("/auth")
	setupAuthRoutes(authRoutes, authHandler, auth)

	// Listing routes (search and detail are public)
	listingRoutes := apiV1.Group("/listings")
	setupListingRoutes(listingRoutes, listingHandler, auth)

	// Public user profiles and their evaluations
	apiV1.Get("/users/:id", middleware.PublicSearchCache(), userHandler.GetPublicProfile)
	apiV1.Get("/users/:id/evaluations", evaluationHandler.ForUser)

	// Profile routes (authenticated users)
	profileRoutes := apiV1.Group("/profile")
	profileRoutes.Use(auth)
	setupProfileRoutes(profileRoutes, userHandler)

	// Transport request routes (authenticated users)
	requestRoutes := apiV1.Group("/requests")
	requestRoutes.Use(auth)
	setupRequestRoutes(requestRoutes, requestHandler)

	// Evaluation routes (authenticated users)
	evaluationRoutes := apiV1.Group("/evaluations")
	evaluationRoutes.Use(auth)
	setupEvaluationRoutes(evaluationRoutes, evaluationHandler)

	// Notification routes (authenticated users)
	notificationRoutes := apiV1.Group("/notifications")
	notificationRoutes.Use(auth)
	notificationRoutes.Use(middleware.NoCacheHeaders())
	notificationRoutes.Get("/", notificationHandler.List)
	notificationRoutes.Patch("/:id/read", notificationHandler.MarkRead)

	// Chat routes (authenticated users)
	chatRoutes := apiV1.Group("/chat")
	chatRoutes.Use(auth)
	chatRoutes.Get("/:listingId/:userId", chatHandler.History)

	// Websocket endpoint (authenticated users)
	app.Use("/ws", auth, chatHandler.Upgrade)
	app.Get("/ws", chatHandler.Serve())

	// Dashboard routes
	dashboardRoutes := apiV1.Group("/dashboard")
	dashboardRoutes.Use(auth)
	setupDashboardRoutes(dashboardRoutes, dashboardHandler)

	// Admin routes (Admin only)
	adminRoutes := apiV1.Group("/admin")
	adminRoutes.Use(auth)
	adminRoutes.Use(middleware.AdminOnly())
	setupAdminRoutes(adminRoutes, adminHandler, requestHandler)
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, handler *handlers.AuthHandler, auth fiber.Handler) {
	// Public routes, rate limited against brute force
	router.Post("/register", middleware.AuthRateLimiter(), handler.Register)
	router.Post("/login", middleware.AuthRateLimiter(), handler.Login)
	router.Post("/refresh", middleware.AuthRateLimiter(), handler.RefreshToken)
	router.Post("/logout", handler.Logout)

	// Protected routes
	router.Get("/me", auth, handler.Me)
	router.Post("/logout-all", auth, handler.LogoutAll)
}

// setupListingRoutes configures listing routes
func setupListingRoutes(router fiber.Router, handler *handlers.ListingHandler, auth fiber.Handler) {
	// Public search and detail
	router.Get("/", middleware.PublicSearchCache(), handler.Search)

	// Carrier routes
	router.Post("/", auth, middleware.CarrierOnly(), handler.Create)
	router.Get("/mine", auth, middleware.CarrierOnly(), handler.Mine)

	// Detail must come after /mine so "mine" is not parsed as an ID
	router.Get("/:id", middleware.PublicSearchCache(), handler.Get)
	router.Put("/:id", auth, handler.Update)
	router.Patch("/:id/status", auth, handler.UpdateStatus)
	router.Delete("/:id", auth, handler.Delete)
}

// setupProfileRoutes configures profile routes (authenticated)
func setupProfileRoutes(router fiber.Router, handler *handlers.UserHandler) {
	router.Get("/", handler.GetProfile)
	router.Put("/", handler.UpdateProfile)
	router.Put("/password", handler.ChangePassword)
}

// setupRequestRoutes configures transport request routes
func setupRequestRoutes(router fiber.Router, handler *handlers.RequestHandler) {
	router.Post("/", middleware.ShipperOnly(), handler.Create)
	router.Get("/sent", middleware.ShipperOnly(), handler.Sent)
	router.Get("/received", middleware.CarrierOnly(), handler.Received)
	router.Get("/:id", handler.Get)
	router.Put("/:id", middleware.ShipperOnly(), handler.Update)

	// Lifecycle transitions (carrier side)
	router.Post("/:id/respond", middleware.CarrierOnly(), handler.Respond)
	router.Post("/:id/transit", middleware.CarrierOnly(), handler.StartTransit)
	router.Post("/:id/deliver", middleware.CarrierOnly(), handler.MarkDelivered)
}

// setupEvaluationRoutes configures evaluation routes
func setupEvaluationRoutes(router fiber.Router, handler *handlers.EvaluationHandler) {
	router.Post("/", handler.Create)
	router.Get("/sent", handler.Sent)
	router.Get("/:id", handler.Get)
	router.Put("/:id", handler.Update)
	router.Delete("/:id", handler.Delete)
}

// setupDashboardRoutes configures dashboard routes
func setupDashboardRoutes(router fiber.Router, handler *handlers.DashboardHandler) {
	// Auto-detect role dashboard (all authenticated users)
	router.Get("/", handler.GetMyDashboard)

	// Carrier dashboard (carrier only)
	router.Get("/carrier", middleware.CarrierOnly(), handler.GetCarrierDashboard)

	// Shipper dashboard (shipper only)
	router.Get("/shipper", middleware.ShipperOnly(), handler.GetShipperDashboard)

	// Admin dashboard (admin only)
	router.Get("/admin", middleware.AdminOnly(), handler.GetAdminDashboard)
}

// setupAdminRoutes configures platform administration routes (admin only)
func setupAdminRoutes(router fiber.Router, handler *handlers.AdminHandler, requestHandler *handlers.RequestHandler) {
	// User moderation
	router.Get("/users", handler.ListUsers)
	router.Patch("/users/:id/verify", handler.VerifyUser)
	router.Patch("/users/:id/suspend", handler.SuspendUser)
	router.Delete("/users/:id", handler.DeleteUser)

	// Listing moderation
	router.Get("/listings", handler.ListListings)
	router.Delete("/listings/:id", handler.DeleteListing)

	// Request oversight
	router.Get("/requests", requestHandler.ListAll)
}
