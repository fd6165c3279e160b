package course

import (
	"time"

	"gorm.io/gorm"
)

// Enrollment statuses
const (
	EnrollmentPending         = "PENDING" // paid course, payment not yet approved
	EnrollmentActive          = "ACTIVE"
	EnrollmentCompleted       = "COMPLETED"
	EnrollmentSuspended       = "SUSPENDED"
	EnrollmentPaymentRejected = "PAYMENT_REJECTED"
)

// Enrollment links one student to one course and is the aggregate root for
// progress, quiz results, certificate and payment rows.
type Enrollment struct {
	gorm.Model
	UserID              uint       `json:"user_id" gorm:"uniqueIndex:uq_enrollment_user_course,where:is_deleted = false;not null"`
	CourseID            uint       `json:"course_id" gorm:"uniqueIndex:uq_enrollment_user_course,where:is_deleted = false;not null"`
	Status              string     `json:"status" gorm:"default:'PENDING'"`
	EnrolledAt          time.Time  `json:"enrolled_at"`
	CompletedAt         *time.Time `json:"completed_at"`
	PaymentConfirmed    bool       `json:"payment_confirmed" gorm:"default:false"`
	InstructorConfirmed bool       `json:"instructor_confirmed" gorm:"default:false"`
	IsDeleted           bool       `gorm:"default:false"`
}

// ProgressRecord marks completion for one enrollment. MaterialID nil means a
// module-level record: the module as a whole is done (all materials plus the
// quiz gate, if any). At most one module-level record per (enrollment, module)
// and one material-level record per (enrollment, material).
type ProgressRecord struct {
	gorm.Model
	EnrollmentID uint       `json:"enrollment_id" gorm:"index;not null;uniqueIndex:uq_progress_material,where:material_id IS NOT NULL;uniqueIndex:uq_progress_module,where:material_id IS NULL"`
	ModuleID     uint       `json:"module_id" gorm:"index;not null;uniqueIndex:uq_progress_module,where:material_id IS NULL"`
	MaterialID   *uint      `json:"material_id" gorm:"uniqueIndex:uq_progress_material,where:material_id IS NOT NULL"`
	Completed    bool       `json:"completed" gorm:"default:false"`
	CompletedAt  *time.Time `json:"completed_at"`
}
