package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/estatedeli/internal/config"
	"github.com/example/estatedeli/internal/handlers"
	"github.com/example/estatedeli/internal/middleware"
	"github.com/example/estatedeli/internal/services"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	emailService := services.NewEmailService(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom)

	authHandler := handlers.NewAuthHandler(db, cfg, emailService)
	shopHandler := handlers.NewShopHandler(db)
	orderHandler := handlers.NewOrderHandler(db, cfg, emailService)

	api := app.Group("/api")

	authenticated := middleware.AuthMiddleware(db, cfg)
	adminOnly := middleware.RequireAdmin()

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/verify-otp", authHandler.VerifyOTP)
	auth.Post("/resend-otp", authHandler.ResendOTP)
	auth.Post("/login", authHandler.Login)
	auth.Get("/profile", authenticated, authHandler.GetProfile)
	auth.Put("/profile", authenticated, authHandler.UpdateProfile)

	// Shop catalog: public reads, admin writes
	shop := api.Group("/shop")
	shop.Get("/items", shopHandler.ListItems)
	shop.Get("/items/:id", shopHandler.GetItem)
	shop.Post("/items", authenticated, adminOnly, shopHandler.CreateItem)
	shop.Put("/items/:id", authenticated, adminOnly, shopHandler.UpdateItem)
	shop.Delete("/items/:id", authenticated, adminOnly, shopHandler.DeleteItem)

	// Orders
	orders := api.Group("/orders", authenticated)
	orders.Post("/", orderHandler.CreateOrder)
	orders.Get("/", orderHandler.ListOrders)
	orders.Get("/admin/all", adminOnly, orderHandler.ListAllOrders)
	orders.Get("/:id", orderHandler.GetOrder)
	orders.Put("/:id/status", adminOnly, orderHandler.UpdateStatus)
}
