package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/nilkanth/internal/config"
	"github.com/example/nilkanth/internal/handlers"
	"github.com/example/nilkanth/internal/middleware"
	"github.com/example/nilkanth/internal/otp"
	"github.com/example/nilkanth/internal/services"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	mailService := services.NewMailService(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom)
	smsService := services.NewSMSService(cfg.Fast2SMSKey)
	googleService := services.NewGoogleService(cfg.GoogleClientID)

	var otpStore otp.Store = otp.NewMemoryStore()
	if cfg.RedisAddr != "" {
		otpStore = otp.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	}

	authHandler := handlers.NewAuthHandler(db, cfg, googleService)
	otpHandler := handlers.NewOTPHandler(db, cfg, otpStore, smsService)
	resetHandler := handlers.NewPasswordResetHandler(db, cfg, mailService)
	profileHandler := handlers.NewProfileHandler(db)
	orderHandler := handlers.NewOrderHandler(db)
	adminHandler := handlers.NewAdminHandler(db, cfg)

	api := app.Group("/api")

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/signup", authHandler.Signup)
	auth.Post("/login", authHandler.Login)
	auth.Post("/google", authHandler.GoogleLogin)
	auth.Post("/logout", authHandler.Logout)
	auth.Get("/me", authHandler.Me)

	auth.Post("/otp/request", otpHandler.RequestOTP)
	auth.Post("/otp/verify", otpHandler.VerifyOTP)

	auth.Post("/reset/request", resetHandler.RequestReset)
	auth.Post("/reset/complete", resetHandler.CompleteReset)

	// Protected routes
	protected := api.Group("", middleware.AuthMiddleware(cfg))

	protected.Get("/profile", profileHandler.GetProfile)
	protected.Put("/profile", profileHandler.UpdateProfile)

	protected.Post("/orders", orderHandler.CreateOrder)
	protected.Get("/orders/mine", orderHandler.ListMyOrders)
	protected.Get("/orders/:id", orderHandler.GetOrder)

	// Admin routes
	admin := api.Group("/admin")
	admin.Post("/login", adminHandler.Login)

	adminProtected := admin.Group("", middleware.AdminMiddleware())
	adminProtected.Get("/orders", adminHandler.ListAllOrders)
	adminProtected.Put("/orders/status", adminHandler.UpdateOrderStatus)
	adminProtected.Get("/stats", adminHandler.DashboardStats)
}
