package services

import (
	"context"
	"errors"
	"testing"

	"lms/database"
	"lms/models"
	course "lms/models/course"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1) // one connection keeps the in-memory database alive

	require.NoError(t, db.AutoMigrate(database.Models()...))
	return db
}

type stubRenderer struct {
	fail  bool
	calls int
}

func (r *stubRenderer) Render(_ context.Context, _ CertificateData) ([]byte, error) {
	r.calls++
	if r.fail {
		return nil, errors.New("renderer down")
	}
	return []byte("%PDF-1.4 fake"), nil
}

type stubStore struct {
	fail  bool
	calls int
}

func (s *stubStore) Store(_ context.Context, _ []byte, name, _, folder string) (StoredFile, error) {
	s.calls++
	if s.fail {
		return StoredFile{}, errors.New("storage down")
	}
	return StoredFile{URL: "https://files.test/" + folder + "/" + name, Provider: "stub"}, nil
}

type recordedNotification struct {
	UserID uint
	Kind   string
}

type recordingNotifier struct {
	sent []recordedNotification
}

func (n *recordingNotifier) Notify(userID uint, kind, _, _, _ string) {
	n.sent = append(n.sent, recordedNotification{UserID: userID, Kind: kind})
}

func (n *recordingNotifier) count(kind string) int {
	c := 0
	for _, s := range n.sent {
		if s.Kind == kind {
			c++
		}
	}
	return c
}

// wireFakes swaps the package collaborators for test doubles and restores
// the previous ones when the test finishes.
func wireFakes(t *testing.T) (*stubRenderer, *stubStore, *recordingNotifier) {
	t.Helper()

	renderer := &stubRenderer{}
	store := &stubStore{}
	notifier := &recordingNotifier{}

	prevRenderer, prevStore, prevNotifier := Renderer, Storage, ActiveNotifier
	Renderer = renderer
	Storage = store
	ActiveNotifier = notifier
	t.Cleanup(func() {
		Renderer = prevRenderer
		Storage = prevStore
		ActiveNotifier = prevNotifier
	})

	return renderer, store, notifier
}

// fixture is a seeded two-module course: module one has two materials and a
// quiz, module two has a single material and no quiz.
type fixture struct {
	Student    models.User
	Instructor models.User
	Course     course.Course
	Module1    course.Module
	Module2    course.Module
	Materials1 []course.Material
	Material2  course.Material
	Quiz       course.Quiz
	Question   course.QuizQuestion
	Correct    course.QuizOption
	Wrong      course.QuizOption
	Enrollment course.Enrollment
}

func seedFixture(t *testing.T, db *gorm.DB) fixture {
	t.Helper()

	var f fixture

	f.Instructor = models.User{Name: "Ira Instructor", Email: "ira@test.local", Role: models.RoleInstructor}
	require.NoError(t, db.Create(&f.Instructor).Error)
	f.Student = models.User{Name: "Sam Student", Email: "sam@test.local", Role: models.RoleStudent}
	require.NoError(t, db.Create(&f.Student).Error)

	f.Course = course.Course{Title: "Test Course", InstructorID: f.Instructor.ID, Status: "ACTIVE", IsPublished: true}
	require.NoError(t, db.Create(&f.Course).Error)

	f.Module1 = course.Module{CourseID: f.Course.ID, Title: "Module One", OrderIndex: 1}
	require.NoError(t, db.Create(&f.Module1).Error)
	f.Module2 = course.Module{CourseID: f.Course.ID, Title: "Module Two", OrderIndex: 2}
	require.NoError(t, db.Create(&f.Module2).Error)

	for i, title := range []string{"Reading One", "Reading Two"} {
		m := course.Material{CourseID: f.Course.ID, ModuleID: f.Module1.ID, Title: title, OrderIndex: i + 1, IsPublished: true}
		require.NoError(t, db.Create(&m).Error)
		f.Materials1 = append(f.Materials1, m)
	}
	f.Material2 = course.Material{CourseID: f.Course.ID, ModuleID: f.Module2.ID, Title: "Reading Three", OrderIndex: 1, IsPublished: true}
	require.NoError(t, db.Create(&f.Material2).Error)

	f.Quiz = course.Quiz{ModuleID: f.Module1.ID, CourseID: f.Course.ID, Title: "Checkpoint", MinScore: 70}
	require.NoError(t, db.Create(&f.Quiz).Error)
	f.Question = course.QuizQuestion{QuizID: f.Quiz.ID, Text: "Pick the right one", Points: 2, OrderIndex: 1}
	require.NoError(t, db.Create(&f.Question).Error)
	f.Correct = course.QuizOption{QuestionID: f.Question.ID, Text: "right", IsCorrect: true, OrderIndex: 1}
	require.NoError(t, db.Create(&f.Correct).Error)
	f.Wrong = course.QuizOption{QuestionID: f.Question.ID, Text: "wrong", OrderIndex: 2}
	require.NoError(t, db.Create(&f.Wrong).Error)

	f.Enrollment = course.Enrollment{UserID: f.Student.ID, CourseID: f.Course.ID, Status: course.EnrollmentActive}
	require.NoError(t, db.Create(&f.Enrollment).Error)

	return f
}

func passQuiz(t *testing.T, db *gorm.DB, f fixture) QuizOutcome {
	t.Helper()
	out, err := SubmitQuizAttempt(db, f.Student.ID, f.Enrollment.ID, f.Quiz.ID, []QuizAnswer{
		{QuestionID: f.Question.ID, OptionID: f.Correct.ID},
	})
	require.NoError(t, err)
	require.True(t, out.Passed)
	return out
}

func completeMaterial(t *testing.T, db *gorm.DB, f fixture, mat course.Material) ProgressOutcome {
	t.Helper()
	out, err := RecordMaterialProgress(db, f.Student.ID, f.Enrollment.ID, mat.ModuleID, mat.ID)
	require.NoError(t, err)
	return out
}
