package services

import (
	"errors"
	"fmt"
	"strings"

	course "lms/models/course"

	"gorm.io/gorm"
)

// Payment decisions accepted by ProcessPayment
const (
	DecisionApprove = "approve"
	DecisionReject  = "reject"
)

// SubmitPaymentProof files proof of payment for a paid enrollment. At most
// one live payment exists per enrollment: a pending, processing or paid row
// blocks resubmission, while a rejected or cancelled row is soft-deleted
// (its history chain stays) and replaced by the fresh PENDING payment.
func SubmitPaymentProof(db *gorm.DB, userID, enrollmentID uint, method string, amount float64, receiptURL string) (*course.Payment, error) {
	var payment course.Payment
	var crs course.Course

	err := db.Transaction(func(tx *gorm.DB) error {
		e, err := loadOwnedEnrollment(tx, userID, enrollmentID)
		if err != nil {
			return err
		}

		if err := tx.Where("id = ? AND is_deleted = false", e.CourseID).First(&crs).Error; err != nil {
			return notFound("Course not found!")
		}
		if !crs.IsPaid {
			return invalidState("Course is free, no payment required!")
		}
		if e.Status != course.EnrollmentPending && e.Status != course.EnrollmentPaymentRejected {
			return invalidState("Enrollment is not awaiting payment!")
		}

		var existing course.Payment
		if err := tx.Where("enrollment_id = ? AND is_deleted = false", e.ID).First(&existing).Error; err == nil {
			switch existing.Status {
			case course.PaymentRejected, course.PaymentCancelled:
				// Resubmission after a decided payment replaces the dead row
				if err := tx.Model(&existing).Update("is_deleted", true).Error; err != nil {
					return err
				}
			default:
				return invalidState("A payment for this enrollment is already on file!")
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		payment = course.Payment{
			EnrollmentID: e.ID,
			UserID:       userID,
			CourseID:     e.CourseID,
			Method:       method,
			Amount:       amount,
			ReceiptURL:   receiptURL,
			Status:       course.PaymentPending,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}
		if err := appendPaymentHistory(tx, payment.ID, "", course.PaymentPending, userID, course.ActorStudent, "Payment proof submitted"); err != nil {
			return err
		}

		if e.Status == course.EnrollmentPaymentRejected {
			if err := tx.Model(&course.Enrollment{}).Where("id = ?", e.ID).
				Update("status", course.EnrollmentPending).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sendNotification(crs.InstructorID, "PAYMENT_SUBMITTED", "Payment proof submitted",
		fmt.Sprintf("A student submitted payment proof for %q. Please review it.", crs.Title), "")

	return &payment, nil
}

// MarkPaymentInReview moves a pending payment to PROCESSING while the
// instructor checks the receipt. Optional step; ProcessPayment accepts both.
func MarkPaymentInReview(db *gorm.DB, actorID, paymentID uint) (*course.Payment, error) {
	var payment course.Payment

	err := db.Transaction(func(tx *gorm.DB) error {
		p, err := loadInstructorPayment(tx, actorID, paymentID)
		if err != nil {
			return err
		}

		res := tx.Model(&course.Payment{}).
			Where("id = ? AND status = ? AND is_deleted = false", p.ID, course.PaymentPending).
			Update("status", course.PaymentProcessing)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return invalidState("Payment is not pending!")
		}
		if err := appendPaymentHistory(tx, p.ID, course.PaymentPending, course.PaymentProcessing, actorID, course.ActorInstructor, "Review started"); err != nil {
			return err
		}
		payment = *p
		payment.Status = course.PaymentProcessing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// ProcessPayment records the instructor's single decision on a payment.
// Approval activates the enrollment; rejection parks it in PAYMENT_REJECTED
// so the student can resubmit. A decided payment cannot be processed again:
// the compare-and-swap on status rejects the second call before any history
// entry or enrollment flip happens.
func ProcessPayment(db *gorm.DB, actorID, paymentID uint, decision, note string) error {
	decision = strings.ToLower(strings.TrimSpace(decision))
	if decision != DecisionApprove && decision != DecisionReject {
		return validation("Decision must be approve or reject!")
	}

	var studentID uint
	var courseTitle string
	approved := decision == DecisionApprove

	err := db.Transaction(func(tx *gorm.DB) error {
		p, err := loadInstructorPayment(tx, actorID, paymentID)
		if err != nil {
			return err
		}

		newStatus := course.PaymentRejected
		if approved {
			newStatus = course.PaymentPaid
		}

		res := tx.Model(&course.Payment{}).
			Where("id = ? AND status IN ? AND is_deleted = false", p.ID, []string{course.PaymentPending, course.PaymentProcessing}).
			Update("status", newStatus)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return invalidState("Payment has already been decided!")
		}

		if err := appendPaymentHistory(tx, p.ID, p.Status, newStatus, actorID, course.ActorInstructor, note); err != nil {
			return err
		}

		enrollmentUpdate := map[string]interface{}{"status": course.EnrollmentPaymentRejected}
		if approved {
			enrollmentUpdate = map[string]interface{}{
				"status":               course.EnrollmentActive,
				"payment_confirmed":    true,
				"instructor_confirmed": true,
			}
		}
		if err := tx.Model(&course.Enrollment{}).Where("id = ?", p.EnrollmentID).
			Updates(enrollmentUpdate).Error; err != nil {
			return err
		}

		var crs course.Course
		if err := tx.Where("id = ?", p.CourseID).First(&crs).Error; err == nil {
			courseTitle = crs.Title
		}
		studentID = p.UserID
		return nil
	})
	if err != nil {
		return err
	}

	if approved {
		sendNotification(studentID, "PAYMENT_APPROVED", "Payment approved",
			fmt.Sprintf("Your payment for %q was approved. The course is now unlocked.", courseTitle), "")
	} else {
		sendNotification(studentID, "PAYMENT_REJECTED", "Payment rejected",
			fmt.Sprintf("Your payment for %q was rejected. You can submit a new proof. Note: %s", courseTitle, note), "")
	}
	return nil
}

// CancelPayment lets the student withdraw an undecided payment
func CancelPayment(db *gorm.DB, userID, paymentID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var p course.Payment
		if err := tx.Where("id = ? AND is_deleted = false", paymentID).First(&p).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("Payment not found!")
			}
			return err
		}
		if p.UserID != userID {
			return forbidden("Payment does not belong to you!")
		}

		res := tx.Model(&course.Payment{}).
			Where("id = ? AND status IN ? AND is_deleted = false", p.ID, []string{course.PaymentPending, course.PaymentProcessing}).
			Update("status", course.PaymentCancelled)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return invalidState("Payment has already been decided!")
		}
		return appendPaymentHistory(tx, p.ID, p.Status, course.PaymentCancelled, userID, course.ActorStudent, "Cancelled by student")
	})
}

// appendPaymentHistory writes one immutable audit entry. History rows are
// never updated or deleted anywhere in the engine.
func appendPaymentHistory(tx *gorm.DB, paymentID uint, from, to string, actorID uint, actorType, note string) error {
	entry := course.PaymentHistoryEntry{
		PaymentID:  paymentID,
		FromStatus: from,
		ToStatus:   to,
		ActorID:    actorID,
		ActorType:  actorType,
		Note:       note,
	}
	return tx.Create(&entry).Error
}

// loadInstructorPayment fetches a payment and checks the actor owns the
// course it pays for.
func loadInstructorPayment(tx *gorm.DB, actorID, paymentID uint) (*course.Payment, error) {
	var p course.Payment
	if err := tx.Where("id = ? AND is_deleted = false", paymentID).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("Payment not found!")
		}
		return nil, err
	}

	var crs course.Course
	if err := tx.Where("id = ? AND is_deleted = false", p.CourseID).First(&crs).Error; err != nil {
		return nil, notFound("Course not found!")
	}
	if crs.InstructorID != actorID {
		return nil, forbidden("You do not own the course for this payment!")
	}
	return &p, nil
}
