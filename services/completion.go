package services

import (
	"errors"
	"log"
	"time"

	course "lms/models/course"

	"gorm.io/gorm"
)

// CompletionOutcome reports a standalone completion evaluation
type CompletionOutcome struct {
	CourseCompleted   bool `json:"course_completed"`
	CertificateIssued bool `json:"certificate_issued"`
}

// EvaluateCourseCompletion decides whether the enrollment's course is fully
// complete and, if so, transitions the enrollment and triggers certificate
// issuance. It is idempotent: calling it on an already-completed enrollment
// only retries a missing certificate, which makes it the recovery path after
// a failed issuance.
func EvaluateCourseCompletion(db *gorm.DB, enrollmentID, courseID uint) (CompletionOutcome, error) {
	var out CompletionOutcome
	var enr course.Enrollment
	var newly bool

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND course_id = ? AND is_deleted = false", enrollmentID, courseID).First(&enr).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("Enrollment not found!")
			}
			return err
		}

		if enr.Status == course.EnrollmentCompleted {
			out.CourseCompleted = true
			return nil
		}
		if enr.Status != course.EnrollmentActive {
			return invalidState("Enrollment is not active!")
		}

		complete, n, err := evaluateCompletionTx(tx, &enr)
		if err != nil {
			return err
		}
		out.CourseCompleted = complete
		newly = n
		return nil
	})
	if err != nil {
		return CompletionOutcome{}, err
	}

	if newly {
		out.CertificateIssued = finalizeCompletion(db, &enr)
	} else if out.CourseCompleted {
		// Already completed earlier: retry issuance if the certificate is missing
		cert, err := IssueCertificate(db, enr.ID)
		if err != nil {
			log.Printf("certificate retry for enrollment %d failed: %v", enr.ID, err)
		}
		out.CertificateIssued = cert != nil
	}
	return out, nil
}

// evaluateCompletionTx checks the completion conjunction and, when satisfied,
// flips the enrollment to COMPLETED. The compare-and-swap on status makes the
// first of two racing evaluators win; the loser sees zero rows affected.
func evaluateCompletionTx(tx *gorm.DB, e *course.Enrollment) (complete bool, newlyCompleted bool, err error) {
	complete, err = courseComplete(tx, e.ID, e.CourseID)
	if err != nil || !complete {
		return complete, false, err
	}

	now := time.Now()
	res := tx.Model(&course.Enrollment{}).
		Where("id = ? AND status = ?", e.ID, course.EnrollmentActive).
		Updates(map[string]interface{}{
			"status":       course.EnrollmentCompleted,
			"completed_at": now,
		})
	if res.Error != nil {
		return true, false, res.Error
	}
	if res.RowsAffected == 1 {
		e.Status = course.EnrollmentCompleted
		e.CompletedAt = &now
		return true, true, nil
	}
	return true, false, nil
}

// courseComplete is a strict conjunction: every module of the course has a
// completed module-level progress record AND every quiz of the course has a
// passed result. Partial progress never counts, regardless of percentage.
func courseComplete(tx *gorm.DB, enrollmentID, courseID uint) (bool, error) {
	var totalModules int64
	if err := tx.Model(&course.Module{}).
		Where("course_id = ? AND is_deleted = false", courseID).
		Count(&totalModules).Error; err != nil {
		return false, err
	}
	if totalModules == 0 {
		// An empty course never completes; nothing was ever learnable
		return false, nil
	}

	var doneModules int64
	if err := tx.Model(&course.ProgressRecord{}).
		Joins("JOIN modules ON modules.id = progress_records.module_id").
		Where("progress_records.enrollment_id = ? AND progress_records.material_id IS NULL AND progress_records.completed = true", enrollmentID).
		Where("modules.course_id = ? AND modules.is_deleted = false", courseID).
		Count(&doneModules).Error; err != nil {
		return false, err
	}
	if doneModules < totalModules {
		return false, nil
	}

	var totalQuizzes int64
	if err := tx.Model(&course.Quiz{}).
		Where("course_id = ? AND is_deleted = false", courseID).
		Count(&totalQuizzes).Error; err != nil {
		return false, err
	}
	if totalQuizzes == 0 {
		return true, nil
	}

	var passedQuizzes int64
	if err := tx.Model(&course.QuizResult{}).
		Joins("JOIN quizzes ON quizzes.id = quiz_results.quiz_id").
		Where("quiz_results.enrollment_id = ? AND quiz_results.passed = true", enrollmentID).
		Where("quizzes.course_id = ? AND quizzes.is_deleted = false", courseID).
		Count(&passedQuizzes).Error; err != nil {
		return false, err
	}

	return passedQuizzes >= totalQuizzes, nil
}

// finalizeCompletion runs after the completing transaction commits: it
// notifies the student and attempts certificate issuance. Issuance failure is
// logged and swallowed; completion already stands and the retry scheduler or
// a standalone evaluation will pick it up.
func finalizeCompletion(db *gorm.DB, e *course.Enrollment) bool {
	sendNotification(e.UserID, "COURSE_COMPLETED", "Course completed",
		"Congratulations, you completed the course! Your certificate is on its way.", "")

	cert, err := IssueCertificate(db, e.ID)
	if err != nil {
		log.Printf("certificate issuance for enrollment %d failed (will retry): %v", e.ID, err)
		return false
	}
	return cert != nil
}
