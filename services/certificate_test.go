package services

import (
	"strings"
	"testing"

	course "lms/models/course"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func completedEnrollment(t *testing.T, db *gorm.DB, f fixture) {
	t.Helper()
	require.NoError(t, db.Model(&course.Enrollment{}).Where("id = ?", f.Enrollment.ID).
		Update("status", course.EnrollmentCompleted).Error)
}

func TestIssueCertificate_RequiresCompletedEnrollment(t *testing.T) {
	db := setupTestDB(t)
	wireFakes(t)
	f := seedFixture(t, db)

	_, err := IssueCertificate(db, f.Enrollment.ID)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestIssueCertificate_IssuesOnceWithStableCode(t *testing.T) {
	db := setupTestDB(t)
	renderer, store, notifier := wireFakes(t)
	f := seedFixture(t, db)
	completedEnrollment(t, db, f)

	first, err := IssueCertificate(db, f.Enrollment.ID)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(first.VerificationCode, "CERT-"))
	assert.Contains(t, first.CertificateURL, "certificates/")

	second, err := IssueCertificate(db, f.Enrollment.ID)
	require.NoError(t, err)
	assert.Equal(t, first.VerificationCode, second.VerificationCode)
	assert.Equal(t, first.ID, second.ID)

	var certs int64
	require.NoError(t, db.Model(&course.Certificate{}).Where("enrollment_id = ?", f.Enrollment.ID).Count(&certs).Error)
	assert.Equal(t, int64(1), certs)

	// Renderer ran once; the second call returned the stored row
	assert.Equal(t, 1, renderer.calls)
	assert.Equal(t, 1, store.calls)
	assert.Equal(t, 1, notifier.count("CERTIFICATE_ISSUED"))
}

func TestIssueCertificate_RendererFailureLeavesNoRow(t *testing.T) {
	db := setupTestDB(t)
	renderer, _, notifier := wireFakes(t)
	f := seedFixture(t, db)
	completedEnrollment(t, db, f)

	renderer.fail = true
	_, err := IssueCertificate(db, f.Enrollment.ID)
	assert.ErrorIs(t, err, ErrDependency)

	var certs int64
	require.NoError(t, db.Model(&course.Certificate{}).Where("enrollment_id = ?", f.Enrollment.ID).Count(&certs).Error)
	assert.Zero(t, certs)
	assert.Zero(t, notifier.count("CERTIFICATE_ISSUED"))
}

func TestIssueCertificate_StorageFailureLeavesNoRow(t *testing.T) {
	db := setupTestDB(t)
	_, store, _ := wireFakes(t)
	f := seedFixture(t, db)
	completedEnrollment(t, db, f)

	store.fail = true
	_, err := IssueCertificate(db, f.Enrollment.ID)
	assert.ErrorIs(t, err, ErrDependency)
}

func TestIssueCertificate_MissingEnrollment(t *testing.T) {
	db := setupTestDB(t)
	wireFakes(t)

	_, err := IssueCertificate(db, 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestVerificationCode_Shape(t *testing.T) {
	code := verificationCode(7, 31)
	assert.True(t, strings.HasPrefix(code, "CERT-7-31-"))
	suffix := strings.TrimPrefix(code, "CERT-7-31-")
	assert.Len(t, suffix, 12)
	assert.Equal(t, strings.ToUpper(suffix), suffix)

	// Random component differs between calls
	assert.NotEqual(t, code, verificationCode(7, 31))
}
