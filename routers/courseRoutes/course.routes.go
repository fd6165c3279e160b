package courseRoutes

import (
	controllers "lms/controllers/course"
	"lms/middleware"
	validators "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up all user-facing course routes
func SetupCourseRoutes(app *fiber.App) {
	userGroup := app.Group("/course")

	// Course listing and details (published courses)
	userGroup.Get("/list", middleware.JWTMiddleware, validators.CourseList(), controllers.GetAllCourses)
	userGroup.Get("/:id", middleware.JWTMiddleware, validators.GetCourseDetail(), controllers.GetCourseDetails)

	// Enrollment
	userGroup.Post("/:id/enroll", middleware.JWTMiddleware, validators.EnrollCourse(), controllers.EnrollInCourse)

	// Content viewing (for enrolled users)
	userGroup.Get("/:id/content", middleware.JWTMiddleware, validators.CourseContentList(), controllers.GetCourseContent)

	// Material completion
	userGroup.Post("/:course_id/module/:module_id/material/:material_id/complete", middleware.JWTMiddleware, validators.MarkMaterialComplete(), controllers.MarkMaterialComplete)

	// Quiz
	userGroup.Get("/:course_id/module/:module_id/quiz", middleware.JWTMiddleware, validators.GetModuleQuiz(), controllers.GetModuleQuiz)
	userGroup.Post("/:course_id/quiz/:quiz_id/submit", middleware.JWTMiddleware, validators.SubmitQuiz(), controllers.SubmitQuiz)

	// Progress tracking and completion recovery
	userGroup.Get("/:course_id/progress", middleware.JWTMiddleware, validators.GetCourseProgress(), controllers.GetUserProgress)
	userGroup.Post("/:course_id/completion/evaluate", middleware.JWTMiddleware, validators.GetCourseProgress(), controllers.EvaluateCompletion)

	// Payment proof for paid courses
	userGroup.Post("/:course_id/payment", middleware.JWTMiddleware, validators.SubmitPaymentProof(), controllers.SubmitPaymentProof)
	app.Delete("/payment/:id", middleware.JWTMiddleware, validators.PaymentID(), controllers.CancelPayment)

	// User enrollments and certificates
	userEnrollGroup := app.Group("/user")
	userEnrollGroup.Get("/enrollments", middleware.JWTMiddleware, controllers.GetUserEnrollmentsList)
	userEnrollGroup.Get("/certificates", middleware.JWTMiddleware, controllers.GetUserCertificates)

	// Public certificate verification
	app.Get("/certificate/verify/:code", controllers.VerifyCertificate)
}
