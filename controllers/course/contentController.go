package controllers

import (
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"

	"github.com/gofiber/fiber/v2"
)

// MaterialWithStatus is a material plus the caller's completion flag
type MaterialWithStatus struct {
	courseModels.Material
	IsCompleted bool `json:"is_completed"`
}

// ModuleWithMaterials groups a module's materials and quiz reference
type ModuleWithMaterials struct {
	courseModels.Module
	Materials []MaterialWithStatus `json:"materials"`
	QuizID    *uint                `json:"quiz_id,omitempty"`
}

// GetCourseContent returns the module/material tree for an enrolled user
func GetCourseContent(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)

	enrollment, err := findEnrollment(userID, uint(courseID))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this course!", nil)
	}
	if enrollment.Status == courseModels.EnrollmentPending || enrollment.Status == courseModels.EnrollmentPaymentRejected {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Course is locked until your payment is approved!", nil)
	}

	var modules []courseModels.Module
	if err := database.Database.Db.Where("course_id = ? AND is_deleted = ?", courseID, false).Order("order_index asc").Find(&modules).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch course content!", nil)
	}

	result := make([]ModuleWithMaterials, len(modules))
	for i, mod := range modules {
		var materials []courseModels.Material
		database.Database.Db.Where("module_id = ? AND is_deleted = ? AND is_published = ?", mod.ID, false, true).Order("order_index asc").Find(&materials)

		withStatus := make([]MaterialWithStatus, len(materials))
		for j, mat := range materials {
			var record courseModels.ProgressRecord
			completed := database.Database.Db.Where("enrollment_id = ? AND material_id = ? AND completed = ?", enrollment.ID, mat.ID, true).First(&record).Error == nil
			withStatus[j] = MaterialWithStatus{Material: mat, IsCompleted: completed}
		}

		result[i] = ModuleWithMaterials{Module: mod, Materials: withStatus}

		var quiz courseModels.Quiz
		if database.Database.Db.Where("module_id = ? AND is_deleted = ?", mod.ID, false).First(&quiz).Error == nil {
			quizID := quiz.ID
			result[i].QuizID = &quizID
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course content fetched successfully!", fiber.Map{
		"modules": result,
	})
}
