package services

import (
	"testing"

	"lms/models"
	course "lms/models/course"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordMaterialProgress_SingleMaterialDoesNotCompleteModule(t *testing.T) {
	db := setupTestDB(t)
	wireFakes(t)
	f := seedFixture(t, db)

	out := completeMaterial(t, db, f, f.Materials1[0])

	assert.False(t, out.ModuleCompleted)
	assert.False(t, out.CourseCompleted)
	assert.False(t, out.NeedQuiz)
}

func TestRecordMaterialProgress_QuizGateWithholdsModuleRecord(t *testing.T) {
	db := setupTestDB(t)
	wireFakes(t)
	f := seedFixture(t, db)

	completeMaterial(t, db, f, f.Materials1[0])
	out := completeMaterial(t, db, f, f.Materials1[1])

	assert.True(t, out.NeedQuiz)
	assert.Equal(t, f.Quiz.ID, out.QuizID)
	assert.False(t, out.ModuleCompleted)

	var moduleRecords int64
	require.NoError(t, db.Model(&course.ProgressRecord{}).
		Where("enrollment_id = ? AND module_id = ? AND material_id IS NULL", f.Enrollment.ID, f.Module1.ID).
		Count(&moduleRecords).Error)
	assert.Zero(t, moduleRecords)
}

func TestRecordMaterialProgress_IdempotentRemark(t *testing.T) {
	db := setupTestDB(t)
	_, _, notifier := wireFakes(t)
	f := seedFixture(t, db)

	completeMaterial(t, db, f, f.Material2)
	out := completeMaterial(t, db, f, f.Material2)

	assert.True(t, out.ModuleCompleted)
	assert.False(t, out.CourseCompleted)

	var materialRecords int64
	require.NoError(t, db.Model(&course.ProgressRecord{}).
		Where("enrollment_id = ? AND material_id = ?", f.Enrollment.ID, f.Material2.ID).
		Count(&materialRecords).Error)
	assert.Equal(t, int64(1), materialRecords)

	// The module completion notification fires once, not on the re-mark
	assert.Equal(t, 1, notifier.count(models.NotifyModuleCompleted))
}

func TestRecordMaterialProgress_UnpublishedMaterialRejected(t *testing.T) {
	db := setupTestDB(t)
	wireFakes(t)
	f := seedFixture(t, db)

	hidden := course.Material{CourseID: f.Course.ID, ModuleID: f.Module2.ID, Title: "Draft", OrderIndex: 2}
	require.NoError(t, db.Create(&hidden).Error)

	_, err := RecordMaterialProgress(db, f.Student.ID, f.Enrollment.ID, f.Module2.ID, hidden.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRecordMaterialProgress_ForeignEnrollmentForbidden(t *testing.T) {
	db := setupTestDB(t)
	wireFakes(t)
	f := seedFixture(t, db)

	other := models.User{Name: "Other", Email: "other@test.local"}
	require.NoError(t, db.Create(&other).Error)

	_, err := RecordMaterialProgress(db, other.ID, f.Enrollment.ID, f.Module1.ID, f.Materials1[0].ID)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestRecordMaterialProgress_PendingEnrollmentRejected(t *testing.T) {
	db := setupTestDB(t)
	wireFakes(t)
	f := seedFixture(t, db)

	require.NoError(t, db.Model(&course.Enrollment{}).Where("id = ?", f.Enrollment.ID).
		Update("status", course.EnrollmentPending).Error)

	_, err := RecordMaterialProgress(db, f.Student.ID, f.Enrollment.ID, f.Module1.ID, f.Materials1[0].ID)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestRecordMaterialProgress_CompletedEnrollmentAcksWithoutWrites(t *testing.T) {
	db := setupTestDB(t)
	wireFakes(t)
	f := seedFixture(t, db)

	require.NoError(t, db.Model(&course.Enrollment{}).Where("id = ?", f.Enrollment.ID).
		Update("status", course.EnrollmentCompleted).Error)

	out, err := RecordMaterialProgress(db, f.Student.ID, f.Enrollment.ID, f.Module1.ID, f.Materials1[0].ID)
	require.NoError(t, err)
	assert.True(t, out.ModuleCompleted)
	assert.True(t, out.CourseCompleted)

	var records int64
	require.NoError(t, db.Model(&course.ProgressRecord{}).Where("enrollment_id = ?", f.Enrollment.ID).Count(&records).Error)
	assert.Zero(t, records)
}

// Full lifecycle: materials, quiz gate, second module, completion, certificate.
func TestProgressLifecycle_CompletesCourseAndIssuesCertificate(t *testing.T) {
	db := setupTestDB(t)
	renderer, store, notifier := wireFakes(t)
	f := seedFixture(t, db)

	completeMaterial(t, db, f, f.Materials1[0])
	gate := completeMaterial(t, db, f, f.Materials1[1])
	require.True(t, gate.NeedQuiz)

	quizOut := passQuiz(t, db, f)
	assert.True(t, quizOut.ModuleCompleted)
	assert.False(t, quizOut.CourseCompleted)

	final := completeMaterial(t, db, f, f.Material2)
	assert.True(t, final.ModuleCompleted)
	assert.True(t, final.CourseCompleted)
	assert.True(t, final.CertificateIssued)

	var enr course.Enrollment
	require.NoError(t, db.First(&enr, f.Enrollment.ID).Error)
	assert.Equal(t, course.EnrollmentCompleted, enr.Status)
	require.NotNil(t, enr.CompletedAt)

	var cert course.Certificate
	require.NoError(t, db.Where("enrollment_id = ?", f.Enrollment.ID).First(&cert).Error)
	assert.NotEmpty(t, cert.VerificationCode)
	assert.Equal(t, "stub", cert.Provider)

	assert.Equal(t, 1, renderer.calls)
	assert.Equal(t, 1, store.calls)
	assert.Equal(t, 2, notifier.count(models.NotifyModuleCompleted))
	assert.Equal(t, 1, notifier.count(models.NotifyCourseCompleted))
	assert.Equal(t, 1, notifier.count(models.NotifyCertificateIssued))
}
