package userRoutes

import (
	controllers "lms/controllers/userControllers"
	"lms/middleware"

	"github.com/gofiber/fiber/v2"
)

// SetupUserRoutes sets up user-level routes
func SetupUserRoutes(app *fiber.App) {
	userGroup := app.Group("/user")

	userGroup.Get("/notifications", middleware.JWTMiddleware, controllers.GetUserNotifications)
	userGroup.Put("/notifications/:id/read", middleware.JWTMiddleware, controllers.MarkNotificationRead)
}
