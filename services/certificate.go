package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"lms/models"
	course "lms/models/course"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// IssueCertificate renders, stores and records the certificate for a
// completed enrollment. It is idempotent: an existing certificate is returned
// unchanged, so verification codes never change once issued, and the unique
// index on enrollment_id makes the first of two racing issuers win while the
// second reads the winner's row.
func IssueCertificate(db *gorm.DB, enrollmentID uint) (*course.Certificate, error) {
	var enr course.Enrollment
	if err := db.Where("id = ? AND is_deleted = false", enrollmentID).First(&enr).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("Enrollment not found!")
		}
		return nil, err
	}
	if enr.Status != course.EnrollmentCompleted {
		return nil, invalidState("Course is not completed yet!")
	}

	var existing course.Certificate
	if err := db.Where("enrollment_id = ? AND is_deleted = false", enrollmentID).First(&existing).Error; err == nil {
		return &existing, nil
	}

	var student models.User
	if err := db.Where("id = ? AND is_deleted = false", enr.UserID).First(&student).Error; err != nil {
		return nil, notFound("Student not found!")
	}
	var crs course.Course
	if err := db.Where("id = ? AND is_deleted = false", enr.CourseID).First(&crs).Error; err != nil {
		return nil, notFound("Course not found!")
	}
	var instructor models.User
	if err := db.Where("id = ?", crs.InstructorID).First(&instructor).Error; err != nil {
		instructor.Name = "" // instructor may have been removed; certificate still issues
	}

	issuedAt := time.Now()
	code := verificationCode(enr.CourseID, enr.ID)
	completedAt := issuedAt
	if enr.CompletedAt != nil {
		completedAt = *enr.CompletedAt
	}

	data := CertificateData{
		StudentName:      student.Name,
		CourseTitle:      crs.Title,
		InstructorName:   instructor.Name,
		VerificationCode: code,
		CompletedAt:      completedAt,
		IssuedAt:         issuedAt,
	}

	// Rendering and storage run under a deadline so a slow renderer cannot
	// stall the student-facing request; on timeout the enrollment stays
	// completed with no certificate and issuance is retried later.
	ctx, cancel := context.WithTimeout(context.Background(), RenderTimeout)
	defer cancel()

	pdf, err := Renderer.Render(ctx, data)
	if err != nil {
		return nil, dependency("certificate rendering failed", err)
	}

	stored, err := Storage.Store(ctx, pdf, fmt.Sprintf("certificate-%d.pdf", enr.ID), "application/pdf", "certificates")
	if err != nil {
		return nil, dependency("certificate storage failed", err)
	}

	cert := course.Certificate{
		EnrollmentID:     enr.ID,
		UserID:           enr.UserID,
		CourseID:         enr.CourseID,
		VerificationCode: code,
		CertificateURL:   stored.URL,
		Provider:         stored.Provider,
		IssuedAt:         issuedAt,
	}
	res := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "enrollment_id"}},
		DoNothing: true,
	}).Create(&cert)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		// Lost the race: another issuer wrote first, its code stands
		if err := db.Where("enrollment_id = ? AND is_deleted = false", enrollmentID).First(&existing).Error; err != nil {
			return nil, err
		}
		return &existing, nil
	}

	sendNotification(enr.UserID, "CERTIFICATE_ISSUED", "Certificate issued",
		fmt.Sprintf("Your certificate for %q is ready. Verification code: %s", crs.Title, code), stored.URL)

	return &cert, nil
}

// verificationCode composes course id, enrollment id and a random component.
// Uniqueness is backed by the unique column; the ids make the code traceable.
func verificationCode(courseID, enrollmentID uint) string {
	random := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:12])
	return fmt.Sprintf("CERT-%d-%d-%s", courseID, enrollmentID, random)
}
