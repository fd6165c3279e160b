package courseRoutes

import (
	controllers "lms/controllers/course"
	"lms/middleware"
	"lms/models"
	validators "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupInstructorRoutes sets up the payment review routes for instructors
func SetupInstructorRoutes(app *fiber.App) {
	group := app.Group("/instructor", middleware.JWTMiddleware, middleware.RequireRole(models.RoleInstructor, models.RoleAdmin))

	group.Get("/payments", controllers.GetInstructorPayments)
	group.Put("/payment/:id/review", validators.PaymentID(), controllers.MarkPaymentInReview)
	group.Post("/payment/:id/process", validators.ProcessPayment(), controllers.ProcessPayment)
	group.Get("/payment/:id/history", validators.PaymentID(), controllers.GetPaymentHistory)
}
