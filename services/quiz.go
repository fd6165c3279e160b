package services

import (
	"encoding/json"
	"errors"
	"math"
	"time"

	course "lms/models/course"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// QuizAnswer is one selected option for one question
type QuizAnswer struct {
	QuestionID uint `json:"question_id"`
	OptionID   uint `json:"option_id"`
}

// QuizOutcome reports scoring plus whatever the attempt cascaded into
type QuizOutcome struct {
	Score             int  `json:"score"`
	Passed            bool `json:"passed"`
	MinScore          int  `json:"min_score"`
	AttemptCount      int  `json:"attempt_count"`
	ModuleCompleted   bool `json:"module_completed"`
	CourseCompleted   bool `json:"course_completed"`
	CertificateIssued bool `json:"certificate_issued"`
}

// SubmitQuizAttempt scores a submitted answer set against the quiz's question
// points, upserts the result (latest attempt wins, attempt count always
// increments) and, on a pass, completes the quiz's module and re-evaluates
// course completion. Answers referencing unknown questions or foreign options
// score as incorrect; they are never fatal.
func SubmitQuizAttempt(db *gorm.DB, userID, enrollmentID, quizID uint, answers []QuizAnswer) (QuizOutcome, error) {
	var out QuizOutcome
	var enr course.Enrollment
	var moduleNew, courseNew bool

	err := db.Transaction(func(tx *gorm.DB) error {
		e, err := loadOwnedEnrollment(tx, userID, enrollmentID)
		if err != nil {
			return err
		}
		enr = *e

		if e.Status != course.EnrollmentActive {
			return invalidState("Enrollment is not active!")
		}

		var quiz course.Quiz
		if err := tx.Where("id = ? AND course_id = ? AND is_deleted = false", quizID, e.CourseID).First(&quiz).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("Quiz not found!")
			}
			return err
		}

		score, err := scoreAttempt(tx, quiz.ID, answers)
		if err != nil {
			return err
		}
		passed := score >= quiz.MinScore

		answersJSON, _ := json.Marshal(answers)
		now := time.Now()
		result := course.QuizResult{
			EnrollmentID:  e.ID,
			QuizID:        quiz.ID,
			Score:         score,
			Passed:        passed,
			AttemptCount:  1,
			Answers:       answersJSON,
			LastAttemptAt: now,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "enrollment_id"}, {Name: "quiz_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"score":           score,
				"passed":          passed,
				"answers":         answersJSON,
				"last_attempt_at": now,
				"attempt_count":   gorm.Expr("quiz_results.attempt_count + 1"),
				"updated_at":      now,
			}),
		}).Create(&result).Error; err != nil {
			return err
		}

		var stored course.QuizResult
		if err := tx.Where("enrollment_id = ? AND quiz_id = ?", e.ID, quiz.ID).First(&stored).Error; err != nil {
			return err
		}

		out.Score = score
		out.Passed = passed
		out.MinScore = quiz.MinScore
		out.AttemptCount = stored.AttemptCount

		if !passed {
			return nil
		}

		// A passed quiz completes its module even if materials finished earlier
		moduleNew, err = completeModule(tx, e.ID, quiz.ModuleID)
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
		return QuizOutcome{}, err
	}

	if moduleNew {
		sendNotification(enr.UserID, "MODULE_COMPLETED", "Module completed", "Quiz passed, module complete. Keep going!", "")
	}
	if courseNew {
		out.CertificateIssued = finalizeCompletion(db, &enr)
	}
	return out, nil
}

// scoreAttempt awards each question's point value when the selected option is
// one of its marked-correct options, then converts earned over available
// points to a rounded integer percent. Only the first answer per question
// counts.
func scoreAttempt(tx *gorm.DB, quizID uint, answers []QuizAnswer) (int, error) {
	var questions []course.QuizQuestion
	if err := tx.Where("quiz_id = ? AND is_deleted = false", quizID).Find(&questions).Error; err != nil {
		return 0, err
	}

	totalPoints := 0
	questionPoints := make(map[uint]int, len(questions))
	for _, q := range questions {
		points := q.Points
		if points <= 0 {
			points = 1
		}
		questionPoints[q.ID] = points
		totalPoints += points
	}
	if totalPoints == 0 {
		// A quiz without questions cannot fail anyone
		return 100, nil
	}

	var options []course.QuizOption
	if err := tx.Select("quiz_options.*").
		Joins("JOIN quiz_questions ON quiz_questions.id = quiz_options.question_id").
		Where("quiz_questions.quiz_id = ? AND quiz_options.is_correct = true AND quiz_options.is_deleted = false", quizID).
		Find(&options).Error; err != nil {
		return 0, err
	}
	correct := make(map[uint]map[uint]bool) // questionID -> correct option IDs
	for _, opt := range options {
		if correct[opt.QuestionID] == nil {
			correct[opt.QuestionID] = make(map[uint]bool)
		}
		correct[opt.QuestionID][opt.ID] = true
	}

	earned := 0
	answered := make(map[uint]bool, len(answers))
	for _, a := range answers {
		points, known := questionPoints[a.QuestionID]
		if !known || answered[a.QuestionID] {
			continue
		}
		answered[a.QuestionID] = true
		if correct[a.QuestionID][a.OptionID] {
			earned += points
		}
	}

	return int(math.Round(float64(earned) / float64(totalPoints) * 100)), nil
}
