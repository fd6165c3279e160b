package course

import (
	"time"

	"gorm.io/gorm"
)

// Certificate is the issued proof of course completion. One row per
// enrollment; the unique index on EnrollmentID is the mutual exclusion for
// racing issuance attempts, and VerificationCode never changes once written.
type Certificate struct {
	gorm.Model
	EnrollmentID     uint      `json:"enrollment_id" gorm:"uniqueIndex:uq_certificate_enrollment;not null"`
	UserID           uint      `json:"user_id" gorm:"index;not null"`
	CourseID         uint      `json:"course_id" gorm:"index;not null"`
	VerificationCode string    `json:"verification_code" gorm:"unique"`
	CertificateURL   string    `json:"certificate_url"`
	Provider         string    `json:"provider"` // storage backend that holds the PDF
	IssuedAt         time.Time `json:"issued_at"`
	IsDeleted        bool      `gorm:"default:false"`
}
