package controllers

import (
	"errors"

	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"lms/services"

	"github.com/gofiber/fiber/v2"
)

// MarkMaterialComplete records completion of a single material and returns
// whatever it cascaded into (module completion, quiz gate, course completion)
func MarkMaterialComplete(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)
	moduleID := c.Locals("moduleID").(int)
	materialID := c.Locals("materialID").(int)

	enrollment, err := findEnrollment(userID, uint(courseID))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this course!", nil)
	}

	outcome, err := services.RecordMaterialProgress(database.Database.Db, userID, enrollment.ID, uint(moduleID), uint(materialID))
	if err != nil {
		return middleware.JsonResponse(c, services.HTTPStatus(err), false, err.Error(), nil)
	}

	message := "Progress recorded!"
	if outcome.NeedQuiz {
		message = "All materials done. Pass the module quiz to complete the module!"
	} else if outcome.CourseCompleted {
		message = "Course completed!"
	} else if outcome.ModuleCompleted {
		message = "Module completed!"
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, message, outcome)
}

// GetUserProgress gets the user's progress in a course
func GetUserProgress(c *fiber.Ctx) error {
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

	var modules []courseModels.Module
	database.Database.Db.Where("course_id = ? AND is_deleted = ?", courseID, false).Order("order_index asc").Find(&modules)

	type ModuleProgress struct {
		ModuleID           uint    `json:"module_id"`
		ModuleTitle        string  `json:"module_title"`
		TotalMaterials     int64   `json:"total_materials"`
		CompletedMaterials int64   `json:"completed_materials"`
		Progress           float64 `json:"progress"`
		ModuleCompleted    bool    `json:"module_completed"`
		HasQuiz            bool    `json:"has_quiz"`
		QuizPassed         bool    `json:"quiz_passed"`
	}

	moduleProgress := make([]ModuleProgress, len(modules))
	for i, mod := range modules {
		var totalMaterials int64
		var completedMaterials int64

		database.Database.Db.Model(&courseModels.Material{}).Where("module_id = ? AND is_deleted = ? AND is_published = ?", mod.ID, false, true).Count(&totalMaterials)
		database.Database.Db.Model(&courseModels.ProgressRecord{}).
			Joins("JOIN materials ON materials.id = progress_records.material_id").
			Where("progress_records.enrollment_id = ? AND progress_records.module_id = ? AND progress_records.completed = ?", enrollment.ID, mod.ID, true).
			Where("materials.is_deleted = ? AND materials.is_published = ?", false, true).
			Count(&completedMaterials)

		progress := float64(0)
		if totalMaterials > 0 {
			progress = float64(completedMaterials) / float64(totalMaterials) * 100
		}

		var moduleRecord courseModels.ProgressRecord
		moduleCompleted := database.Database.Db.Where("enrollment_id = ? AND module_id = ? AND material_id IS NULL AND completed = ?", enrollment.ID, mod.ID, true).First(&moduleRecord).Error == nil

		hasQuiz := false
		quizPassed := false
		var quiz courseModels.Quiz
		if database.Database.Db.Where("module_id = ? AND is_deleted = ?", mod.ID, false).First(&quiz).Error == nil {
			hasQuiz = true
			var result courseModels.QuizResult
			quizPassed = database.Database.Db.Where("enrollment_id = ? AND quiz_id = ? AND passed = ?", enrollment.ID, quiz.ID, true).First(&result).Error == nil
		}

		moduleProgress[i] = ModuleProgress{
			ModuleID:           mod.ID,
			ModuleTitle:        mod.Title,
			TotalMaterials:     totalMaterials,
			CompletedMaterials: completedMaterials,
			Progress:           progress,
			ModuleCompleted:    moduleCompleted,
			HasQuiz:            hasQuiz,
			QuizPassed:         quizPassed,
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully!", fiber.Map{
		"enrollment":      enrollment,
		"module_progress": moduleProgress,
	})
}

// EvaluateCompletion re-runs course completion for the caller's enrollment.
// Used to recover from a previously failed certificate issuance.
func EvaluateCompletion(c *fiber.Ctx) error {
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

	outcome, err := services.EvaluateCourseCompletion(database.Database.Db, enrollment.ID, uint(courseID))
	if err != nil {
		return middleware.JsonResponse(c, services.HTTPStatus(err), false, err.Error(), nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Completion evaluated!", outcome)
}

// findEnrollment resolves the caller's enrollment in a course
func findEnrollment(userID, courseID uint) (*courseModels.Enrollment, error) {
	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&enrollment).Error; err != nil {
		return nil, errors.New("not enrolled")
	}
	return &enrollment, nil
}
