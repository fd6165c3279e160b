package utils

import (
	"fmt"
	"log"
	"time"

	"lms/config"
	"lms/database"
	courseModels "lms/models/course"
	"lms/services"

	"github.com/robfig/cron/v3"
)

// logScheduler logs scheduler events with timestamp
func logScheduler(message string) {
	log.Printf("[CERT-SCHEDULER %s] %s", time.Now().Format(time.RFC3339), message)
}

// retryMissingCertificates sweeps completed enrollments that have no
// certificate yet. Certificate issuance is best-effort at completion time
// (renderer or storage may be down or slow); this job converges them.
func retryMissingCertificates() {
	db := database.Database.Db

	var enrollments []courseModels.Enrollment
	if err := db.
		Where("status = ? AND is_deleted = false", courseModels.EnrollmentCompleted).
		Where("id NOT IN (?)", db.Model(&courseModels.Certificate{}).
			Select("enrollment_id").Where("is_deleted = false")).
		Limit(50).
		Find(&enrollments).Error; err != nil {
		logScheduler("Error fetching enrollments without certificates: " + err.Error())
		return
	}

	for _, enrollment := range enrollments {
		if _, err := services.IssueCertificate(db, enrollment.ID); err != nil {
			logScheduler(fmt.Sprintf("Retry failed for enrollment %d: %v", enrollment.ID, err))
			continue
		}
		logScheduler(fmt.Sprintf("Issued missing certificate for enrollment %d", enrollment.ID))
	}
}

// InitializeCertScheduler starts the certificate retry cron
func InitializeCertScheduler() *cron.Cron {
	c := cron.New()

	if _, err := c.AddFunc(config.AppConfig.CertRetryCron, retryMissingCertificates); err != nil {
		logScheduler("Invalid CERT_RETRY_CRON, falling back to every 10 minutes: " + err.Error())
		c.AddFunc("*/10 * * * *", retryMissingCertificates)
	}

	c.Start()
	logScheduler("Certificate retry scheduler started")
	return c
}
