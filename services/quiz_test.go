package services

import (
	"testing"

	course "lms/models/course"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitQuizAttempt_WrongAnswerFails(t *testing.T) {
	db := setupTestDB(t)
	wireFakes(t)
	f := seedFixture(t, db)

	out, err := SubmitQuizAttempt(db, f.Student.ID, f.Enrollment.ID, f.Quiz.ID, []QuizAnswer{
		{QuestionID: f.Question.ID, OptionID: f.Wrong.ID},
	})
	require.NoError(t, err)

	assert.Equal(t, 0, out.Score)
	assert.False(t, out.Passed)
	assert.Equal(t, 70, out.MinScore)
	assert.Equal(t, 1, out.AttemptCount)
	assert.False(t, out.ModuleCompleted)
}

func TestSubmitQuizAttempt_RetryBumpsAttemptCountAndKeepsLatest(t *testing.T) {
	db := setupTestDB(t)
	wireFakes(t)
	f := seedFixture(t, db)

	_, err := SubmitQuizAttempt(db, f.Student.ID, f.Enrollment.ID, f.Quiz.ID, []QuizAnswer{
		{QuestionID: f.Question.ID, OptionID: f.Wrong.ID},
	})
	require.NoError(t, err)

	out, err := SubmitQuizAttempt(db, f.Student.ID, f.Enrollment.ID, f.Quiz.ID, []QuizAnswer{
		{QuestionID: f.Question.ID, OptionID: f.Correct.ID},
	})
	require.NoError(t, err)

	assert.Equal(t, 100, out.Score)
	assert.True(t, out.Passed)
	assert.Equal(t, 2, out.AttemptCount)

	var results []course.QuizResult
	require.NoError(t, db.Where("enrollment_id = ? AND quiz_id = ?", f.Enrollment.ID, f.Quiz.ID).Find(&results).Error)
	require.Len(t, results, 1)
	assert.Equal(t, 100, results[0].Score)
	assert.True(t, results[0].Passed)
	assert.Equal(t, 2, results[0].AttemptCount)
}

func TestSubmitQuizAttempt_ScoreAtThresholdPasses(t *testing.T) {
	db := setupTestDB(t)
	wireFakes(t)
	f := seedFixture(t, db)

	// Earning 2 of 5 points is exactly 40; set the threshold there.
	q2 := course.QuizQuestion{QuizID: f.Quiz.ID, Text: "Second", Points: 3, OrderIndex: 2}
	require.NoError(t, db.Create(&q2).Error)
	q2correct := course.QuizOption{QuestionID: q2.ID, Text: "yes", IsCorrect: true}
	require.NoError(t, db.Create(&q2correct).Error)

	require.NoError(t, db.Model(&course.Quiz{}).Where("id = ?", f.Quiz.ID).Update("min_score", 40).Error)

	out, err := SubmitQuizAttempt(db, f.Student.ID, f.Enrollment.ID, f.Quiz.ID, []QuizAnswer{
		{QuestionID: f.Question.ID, OptionID: f.Correct.ID},
		{QuestionID: q2.ID, OptionID: f.Wrong.ID},
	})
	require.NoError(t, err)

	assert.Equal(t, 40, out.Score)
	assert.True(t, out.Passed, "score equal to the minimum passes")
}

func TestSubmitQuizAttempt_MalformedAnswersScoreZeroNotError(t *testing.T) {
	db := setupTestDB(t)
	wireFakes(t)
	f := seedFixture(t, db)

	out, err := SubmitQuizAttempt(db, f.Student.ID, f.Enrollment.ID, f.Quiz.ID, []QuizAnswer{
		{QuestionID: 9999, OptionID: f.Correct.ID}, // unknown question
		{QuestionID: f.Question.ID, OptionID: 9999}, // unknown option
	})
	require.NoError(t, err)

	assert.Equal(t, 0, out.Score)
	assert.False(t, out.Passed)
}

func TestSubmitQuizAttempt_FirstAnswerPerQuestionWins(t *testing.T) {
	db := setupTestDB(t)
	wireFakes(t)
	f := seedFixture(t, db)

	out, err := SubmitQuizAttempt(db, f.Student.ID, f.Enrollment.ID, f.Quiz.ID, []QuizAnswer{
		{QuestionID: f.Question.ID, OptionID: f.Wrong.ID},
		{QuestionID: f.Question.ID, OptionID: f.Correct.ID}, // duplicate, ignored
	})
	require.NoError(t, err)

	assert.Equal(t, 0, out.Score)
}

func TestSubmitQuizAttempt_EmptyAnswerSetScoresZero(t *testing.T) {
	db := setupTestDB(t)
	wireFakes(t)
	f := seedFixture(t, db)

	out, err := SubmitQuizAttempt(db, f.Student.ID, f.Enrollment.ID, f.Quiz.ID, nil)
	require.NoError(t, err)

	assert.Equal(t, 0, out.Score)
	assert.False(t, out.Passed)
	assert.Equal(t, 1, out.AttemptCount)
}

func TestSubmitQuizAttempt_PassAfterMaterialsCompletesModule(t *testing.T) {
	db := setupTestDB(t)
	wireFakes(t)
	f := seedFixture(t, db)

	completeMaterial(t, db, f, f.Materials1[0])
	gate := completeMaterial(t, db, f, f.Materials1[1])
	require.True(t, gate.NeedQuiz)

	out := passQuiz(t, db, f)
	assert.True(t, out.ModuleCompleted)

	var moduleRecords int64
	require.NoError(t, db.Model(&course.ProgressRecord{}).
		Where("enrollment_id = ? AND module_id = ? AND material_id IS NULL", f.Enrollment.ID, f.Module1.ID).
		Count(&moduleRecords).Error)
	assert.Equal(t, int64(1), moduleRecords)
}

func TestSubmitQuizAttempt_PassBeforeMaterialsStillCompletesModule(t *testing.T) {
	db := setupTestDB(t)
	wireFakes(t)
	f := seedFixture(t, db)

	// Quiz passed first; the module record appears immediately and material
	// completion later does not duplicate it.
	out := passQuiz(t, db, f)
	assert.True(t, out.ModuleCompleted)

	completeMaterial(t, db, f, f.Materials1[0])
	completeMaterial(t, db, f, f.Materials1[1])

	var moduleRecords int64
	require.NoError(t, db.Model(&course.ProgressRecord{}).
		Where("enrollment_id = ? AND module_id = ? AND material_id IS NULL", f.Enrollment.ID, f.Module1.ID).
		Count(&moduleRecords).Error)
	assert.Equal(t, int64(1), moduleRecords)
}

func TestSubmitQuizAttempt_InactiveEnrollmentRejected(t *testing.T) {
	db := setupTestDB(t)
	wireFakes(t)
	f := seedFixture(t, db)

	require.NoError(t, db.Model(&course.Enrollment{}).Where("id = ?", f.Enrollment.ID).
		Update("status", course.EnrollmentCompleted).Error)

	_, err := SubmitQuizAttempt(db, f.Student.ID, f.Enrollment.ID, f.Quiz.ID, []QuizAnswer{
		{QuestionID: f.Question.ID, OptionID: f.Correct.ID},
	})
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestSubmitQuizAttempt_QuizFromAnotherCourseNotFound(t *testing.T) {
	db := setupTestDB(t)
	wireFakes(t)
	f := seedFixture(t, db)

	otherCourse := course.Course{Title: "Other", InstructorID: f.Instructor.ID}
	require.NoError(t, db.Create(&otherCourse).Error)
	otherModule := course.Module{CourseID: otherCourse.ID, Title: "M"}
	require.NoError(t, db.Create(&otherModule).Error)
	otherQuiz := course.Quiz{ModuleID: otherModule.ID, CourseID: otherCourse.ID, Title: "Q"}
	require.NoError(t, db.Create(&otherQuiz).Error)

	_, err := SubmitQuizAttempt(db, f.Student.ID, f.Enrollment.ID, otherQuiz.ID, nil)
	assert.ErrorIs(t, err, ErrNotFound)
}
