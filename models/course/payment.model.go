package course

import "gorm.io/gorm"

// Payment statuses. PAID, REJECTED and CANCELLED are terminal.
const (
	PaymentPending    = "PENDING"
	PaymentProcessing = "PROCESSING"
	PaymentPaid       = "PAID"
	PaymentRejected   = "REJECTED"
	PaymentCancelled  = "CANCELLED"
)

// Payment methods
const (
	PaymentMethodBankTransfer = "BANK_TRANSFER"
	PaymentMethodUPI          = "UPI"
	PaymentMethodCash         = "CASH"
	PaymentMethodOther        = "OTHER"
)

// Actor types for history entries
const (
	ActorStudent    = "STUDENT"
	ActorInstructor = "INSTRUCTOR"
	ActorSystem     = "SYSTEM"
)

// Payment is the proof-of-payment row gating a paid enrollment. At most one
// live row per enrollment; a rejected or cancelled row is soft-deleted when
// the student resubmits, keeping its history chain intact.
type Payment struct {
	gorm.Model
	EnrollmentID uint    `json:"enrollment_id" gorm:"uniqueIndex:uq_payment_enrollment,where:is_deleted = false;not null"`
	UserID       uint    `json:"user_id" gorm:"index;not null"`
	CourseID     uint    `json:"course_id" gorm:"index;not null"`
	Method       string  `json:"method" gorm:"default:'BANK_TRANSFER'"`
	Amount       float64 `json:"amount"`
	ReceiptURL   string  `json:"receipt_url"`
	Status       string  `json:"status" gorm:"default:'PENDING'"`
	IsDeleted    bool    `gorm:"default:false"`
}

// PaymentHistoryEntry is the append-only audit log of payment transitions.
// Rows are never updated or deleted.
type PaymentHistoryEntry struct {
	gorm.Model
	PaymentID  uint   `json:"payment_id" gorm:"index;not null"`
	FromStatus string `json:"from_status"`
	ToStatus   string `json:"to_status"`
	ActorID    uint   `json:"actor_id"` // 0 for system
	ActorType  string `json:"actor_type" gorm:"default:'STUDENT'"`
	Note       string `json:"note" gorm:"type:text"`
}
