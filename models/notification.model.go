package models

import "gorm.io/gorm"

// Notification kinds emitted by the enrollment engine
const (
	NotifyModuleCompleted   = "MODULE_COMPLETED"
	NotifyCourseCompleted   = "COURSE_COMPLETED"
	NotifyCertificateIssued = "CERTIFICATE_ISSUED"
	NotifyPaymentSubmitted  = "PAYMENT_SUBMITTED"
	NotifyPaymentApproved   = "PAYMENT_APPROVED"
	NotifyPaymentRejected   = "PAYMENT_REJECTED"
)

// Notification is a persisted message for a user, written fire-and-forget
// by the engine and listed by the user controller.
type Notification struct {
	gorm.Model
	UserID    uint   `json:"user_id" gorm:"index;not null"`
	Kind      string `json:"kind" gorm:"index"`
	Title     string `json:"title"`
	Body      string `json:"body" gorm:"type:text"`
	Link      string `json:"link"`
	IsRead    bool   `json:"is_read" gorm:"default:false"`
	IsDeleted bool   `gorm:"default:false"`
}
