package services

import (
	"errors"
	"time"

	course "lms/models/course"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProgressOutcome reports what a material completion cascaded into
type ProgressOutcome struct {
	ModuleCompleted   bool `json:"module_completed"`
	CourseCompleted   bool `json:"course_completed"`
	NeedQuiz          bool `json:"need_quiz"`
	QuizID            uint `json:"quiz_id,omitempty"`
	CertificateIssued bool `json:"certificate_issued"`
}

// RecordMaterialProgress marks one material done for the caller's enrollment
// and derives module and course completion synchronously. Re-marking an
// already-completed material is a no-op success. When the material closes its
// module but the module's quiz is still unpassed, the module-level record is
// withheld and the caller is told to take the quiz.
func RecordMaterialProgress(db *gorm.DB, userID, enrollmentID, moduleID, materialID uint) (ProgressOutcome, error) {
	var out ProgressOutcome
	var enr course.Enrollment
	var moduleNew, courseNew bool

	err := db.Transaction(func(tx *gorm.DB) error {
		e, err := loadOwnedEnrollment(tx, userID, enrollmentID)
		if err != nil {
			return err
		}
		enr = *e

		// Completed enrollments take idempotent re-marks without side effects
		if e.Status == course.EnrollmentCompleted {
			out.ModuleCompleted = true
			out.CourseCompleted = true
			return nil
		}
		if e.Status != course.EnrollmentActive {
			return invalidState("Enrollment is not active!")
		}

		var mod course.Module
		if err := tx.Where("id = ? AND course_id = ? AND is_deleted = false", moduleID, e.CourseID).First(&mod).Error; err != nil {
			return notFound("Module not found!")
		}

		var mat course.Material
		if err := tx.Where("id = ? AND module_id = ? AND is_deleted = false AND is_published = true", materialID, moduleID).First(&mat).Error; err != nil {
			return notFound("Material not found!")
		}

		now := time.Now()
		matID := materialID
		record := course.ProgressRecord{
			EnrollmentID: e.ID,
			ModuleID:     moduleID,
			MaterialID:   &matID,
			Completed:    true,
			CompletedAt:  &now,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:     []clause.Column{{Name: "enrollment_id"}, {Name: "material_id"}},
			TargetWhere: clause.Where{Exprs: []clause.Expression{clause.Expr{SQL: "material_id IS NOT NULL"}}},
			DoNothing:   true,
		}).Create(&record).Error; err != nil {
			return err
		}

		// Re-evaluate strictly after the write: is the module now fully done?
		remaining, err := remainingMaterials(tx, e.ID, moduleID)
		if err != nil {
			return err
		}
		if remaining > 0 {
			return nil
		}

		// Quiz gate: the module-level record is withheld until the quiz passes
		var quiz course.Quiz
		if err := tx.Where("module_id = ? AND is_deleted = false", moduleID).First(&quiz).Error; err == nil {
			passed, err := quizPassed(tx, e.ID, quiz.ID)
			if err != nil {
				return err
			}
			if !passed {
				out.NeedQuiz = true
				out.QuizID = quiz.ID
				return nil
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		moduleNew, err = completeModule(tx, e.ID, moduleID)
		if err != nil {
			return err
		}
		out.ModuleCompleted = true

		complete, newly, err := evaluateCompletionTx(tx, e)
		if err != nil {
			return err
		}
		out.CourseCompleted = complete
		courseNew = newly
		return nil
	})
	if err != nil {
		return ProgressOutcome{}, err
	}

	if moduleNew {
		sendNotification(enr.UserID, "MODULE_COMPLETED", "Module completed", "You finished a module. Keep going!", "")
	}
	if courseNew {
		out.CertificateIssued = finalizeCompletion(db, &enr)
	}
	return out, nil
}

// remainingMaterials counts published materials of the module with no
// completed material-level progress record for the enrollment.
func remainingMaterials(tx *gorm.DB, enrollmentID, moduleID uint) (int64, error) {
	var total, done int64

	if err := tx.Model(&course.Material{}).
		Where("module_id = ? AND is_deleted = false AND is_published = true", moduleID).
		Count(&total).Error; err != nil {
		return 0, err
	}

	if err := tx.Model(&course.ProgressRecord{}).
		Joins("JOIN materials ON materials.id = progress_records.material_id").
		Where("progress_records.enrollment_id = ? AND progress_records.module_id = ? AND progress_records.completed = true", enrollmentID, moduleID).
		Where("materials.is_deleted = false AND materials.is_published = true").
		Count(&done).Error; err != nil {
		return 0, err
	}

	return total - done, nil
}

// completeModule upserts the module-level progress record. Returns whether a
// new record was written, so notifications fire only on the first completion.
func completeModule(tx *gorm.DB, enrollmentID, moduleID uint) (bool, error) {
	now := time.Now()
	record := course.ProgressRecord{
		EnrollmentID: enrollmentID,
		ModuleID:     moduleID,
		Completed:    true,
		CompletedAt:  &now,
	}
	res := tx.Clauses(clause.OnConflict{
		Columns:     []clause.Column{{Name: "enrollment_id"}, {Name: "module_id"}},
		TargetWhere: clause.Where{Exprs: []clause.Expression{clause.Expr{SQL: "material_id IS NULL"}}},
		DoNothing:   true,
	}).Create(&record)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func quizPassed(tx *gorm.DB, enrollmentID, quizID uint) (bool, error) {
	var result course.QuizResult
	err := tx.Where("enrollment_id = ? AND quiz_id = ? AND passed = true", enrollmentID, quizID).First(&result).Error
	if err == nil {
		return true, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return false, err
}

func loadOwnedEnrollment(tx *gorm.DB, userID, enrollmentID uint) (*course.Enrollment, error) {
	var e course.Enrollment
	if err := tx.Where("id = ? AND is_deleted = false", enrollmentID).First(&e).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("Enrollment not found!")
		}
		return nil, err
	}
	if e.UserID != userID {
		return nil, forbidden("Enrollment does not belong to you!")
	}
	return &e, nil
}
