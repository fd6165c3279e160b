package course

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Quiz gates completion of its module. At most one quiz per module.
type Quiz struct {
	gorm.Model
	ModuleID  uint   `json:"module_id" gorm:"uniqueIndex:uq_quiz_module,where:is_deleted = false;not null"`
	CourseID  uint   `json:"course_id" gorm:"index;not null"`
	Title     string `json:"title"`
	MinScore  int    `json:"min_score" gorm:"default:70"` // passing threshold, 0-100
	IsDeleted bool   `gorm:"default:false"`
}

// QuizQuestion carries a point value; the quiz score is the earned share of
// all question points, as a rounded percent.
type QuizQuestion struct {
	gorm.Model
	QuizID     uint   `json:"quiz_id" gorm:"index;not null"`
	Text       string `json:"text" gorm:"type:text"`
	Points     int    `json:"points" gorm:"default:1"`
	OrderIndex int    `json:"order_index" gorm:"default:0"`
	IsDeleted  bool   `gorm:"default:false"`
}

// QuizOption is one selectable answer for a question
type QuizOption struct {
	gorm.Model
	QuestionID uint   `json:"question_id" gorm:"index;not null"`
	Text       string `json:"text"`
	IsCorrect  bool   `json:"is_correct" gorm:"default:false"`
	OrderIndex int    `json:"order_index" gorm:"default:0"`
	IsDeleted  bool   `gorm:"default:false"`
}

// QuizResult holds the latest attempt per (enrollment, quiz). Resubmission
// upserts the row and bumps AttemptCount.
type QuizResult struct {
	gorm.Model
	EnrollmentID  uint           `json:"enrollment_id" gorm:"uniqueIndex:uq_result_enrollment_quiz;not null"`
	QuizID        uint           `json:"quiz_id" gorm:"uniqueIndex:uq_result_enrollment_quiz;not null"`
	Score         int            `json:"score"` // 0-100
	Passed        bool           `json:"passed" gorm:"default:false"`
	AttemptCount  int            `json:"attempt_count" gorm:"default:0"`
	Answers       datatypes.JSON `json:"answers"` // submitted answer set of the latest attempt
	LastAttemptAt time.Time      `json:"last_attempt_at"`
}
