package controllers

import (
	"context"
	"io"

	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"lms/services"

	"github.com/gofiber/fiber/v2"
)

// SubmitPaymentProof files proof of payment for a paid course enrollment.
// The receipt image/PDF goes through blob storage; the payment row and its
// first history entry are written by the engine.
func SubmitPaymentProof(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)

	reqData, ok := c.Locals("validatedPaymentProof").(*struct {
		Method string  `json:"method" form:"method" validate:"required,oneof=BANK_TRANSFER UPI CASH OTHER"`
		Amount float64 `json:"amount" form:"amount" validate:"required,gt=0"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	enrollment, err := findEnrollment(userID, uint(courseID))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this course!", nil)
	}

	// Optional receipt upload
	receiptURL := ""
	if file, err := c.FormFile("receipt"); err == nil {
		src, err := file.Open()
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Failed to read receipt!", nil)
		}
		data, err := io.ReadAll(src)
		src.Close()
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Failed to read receipt!", nil)
		}

		stored, err := services.Storage.Store(context.Background(), data, file.Filename, file.Header.Get("Content-Type"), "receipts")
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadGateway, false, "Failed to store receipt!", nil)
		}
		receiptURL = stored.URL
	}

	payment, err := services.SubmitPaymentProof(database.Database.Db, userID, enrollment.ID, reqData.Method, reqData.Amount, receiptURL)
	if err != nil {
		return middleware.JsonResponse(c, services.HTTPStatus(err), false, err.Error(), nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Payment proof submitted successfully!", payment)
}

// CancelPayment lets the student withdraw an undecided payment
func CancelPayment(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	paymentID := c.Locals("paymentID").(int)

	if err := services.CancelPayment(database.Database.Db, userID, uint(paymentID)); err != nil {
		return middleware.JsonResponse(c, services.HTTPStatus(err), false, err.Error(), nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Payment cancelled!", nil)
}

// GetInstructorPayments lists undecided payments for the instructor's courses
func GetInstructorPayments(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	type PaymentWithCourse struct {
		courseModels.Payment
		CourseTitle string `json:"course_title"`
		StudentName string `json:"student_name"`
	}

	var payments []courseModels.Payment
	if err := database.Database.Db.Select("payments.*").
		Joins("JOIN courses ON courses.id = payments.course_id").
		Where("courses.instructor_id = ? AND courses.is_deleted = ?", userID, false).
		Where("payments.status IN ? AND payments.is_deleted = ?", []string{courseModels.PaymentPending, courseModels.PaymentProcessing}, false).
		Order("payments.created_at asc").
		Find(&payments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch payments!", nil)
	}

	result := make([]PaymentWithCourse, len(payments))
	for i, p := range payments {
		var course courseModels.Course
		database.Database.Db.Where("id = ?", p.CourseID).First(&course)
		var student models.User
		database.Database.Db.Select("id, name").Where("id = ?", p.UserID).First(&student)
		result[i] = PaymentWithCourse{Payment: p, CourseTitle: course.Title, StudentName: student.Name}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Payments fetched successfully!", fiber.Map{
		"payments": result,
		"total":    len(result),
	})
}

// MarkPaymentInReview moves a pending payment into review
func MarkPaymentInReview(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	paymentID := c.Locals("paymentID").(int)

	payment, err := services.MarkPaymentInReview(database.Database.Db, userID, uint(paymentID))
	if err != nil {
		return middleware.JsonResponse(c, services.HTTPStatus(err), false, err.Error(), nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Payment marked in review!", payment)
}

// ProcessPayment records the instructor's approve/reject decision
func ProcessPayment(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	paymentID := c.Locals("paymentID").(int)

	reqData, ok := c.Locals("validatedPaymentDecision").(*struct {
		Decision string `json:"decision" validate:"required,oneof=approve reject"`
		Note     string `json:"note" validate:"max=1000"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if err := services.ProcessPayment(database.Database.Db, userID, uint(paymentID), reqData.Decision, reqData.Note); err != nil {
		return middleware.JsonResponse(c, services.HTTPStatus(err), false, err.Error(), nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Payment processed successfully!", nil)
}

// GetPaymentHistory returns the full audit chain of one payment
func GetPaymentHistory(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	paymentID := c.Locals("paymentID").(int)

	var payment courseModels.Payment
	if err := database.Database.Db.Where("id = ?", paymentID).First(&payment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Payment not found!", nil)
	}

	// Only the course's instructor or the paying student may read the chain
	var course courseModels.Course
	if err := database.Database.Db.Where("id = ?", payment.CourseID).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}
	if course.InstructorID != userID && payment.UserID != userID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not have access to this payment!", nil)
	}

	var history []courseModels.PaymentHistoryEntry
	if err := database.Database.Db.Where("payment_id = ?", paymentID).Order("created_at asc").Find(&history).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch payment history!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Payment history fetched successfully!", fiber.Map{
		"payment": payment,
		"history": history,
	})
}
