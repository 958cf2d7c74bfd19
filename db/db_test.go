package db

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AmazzarK/back-edu-math-AI/models"
)

func optPtr(i int) *int { return &i }

func newTestDB(t *testing.T) *DB {
	t.Helper()

	database, err := InitDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	return database
}

func createTestUser(t *testing.T, database *DB, email, role string) *models.User {
	t.Helper()

	user, err := database.CreateUser(models.RegisterRequest{
		FullName: "Test User",
		Email:    email,
		Role:     role,
	}, "not-a-real-hash")
	require.NoError(t, err)
	return user
}

func createTestExercise(t *testing.T, database *DB, creatorID string, published bool) *models.Exercise {
	t.Helper()

	ex, err := database.CreateExercise(models.ExerciseRequest{
		Title:    "fractions",
		Subject:  "math",
		Type:     models.TypeMultipleChoice,
		MaxScore: 100,
		Questions: []models.Question{
			{Text: "1/2 + 1/2 = ?", Options: []string{"1", "2"}},
		},
		Solutions:   []models.Solution{{CorrectOption: optPtr(0)}},
		IsPublished: published,
	}, creatorID)
	require.NoError(t, err)
	return ex
}

func TestCreateAndGetUser(t *testing.T) {
	database := newTestDB(t)

	user := createTestUser(t, database, "alice@example.com", models.RoleStudent)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, models.RoleStudent, user.Role)

	byEmail, err := database.GetUserByEmail("alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	_, err = database.GetUserByID("missing")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	database := newTestDB(t)

	createTestUser(t, database, "dup@example.com", models.RoleStudent)
	_, err := database.CreateUser(models.RegisterRequest{
		FullName: "Other",
		Email:    "dup@example.com",
	}, "hash")

	assert.Error(t, err)
}

func TestExerciseRoundTrip(t *testing.T) {
	database := newTestDB(t)
	prof := createTestUser(t, database, "prof@example.com", models.RoleProfessor)

	ex := createTestExercise(t, database, prof.ID, true)
	assert.NotZero(t, ex.ID)
	require.Len(t, ex.Questions, 1)
	require.Len(t, ex.Solutions, 1)
	assert.Equal(t, 0, *ex.Solutions[0].CorrectOption)

	published, err := database.ListPublishedExercises()
	require.NoError(t, err)
	assert.Len(t, published, 1)

	_, err = database.GetExerciseByID(9999)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestCreateExerciseRejectsInvalidDefinition(t *testing.T) {
	database := newTestDB(t)
	prof := createTestUser(t, database, "prof@example.com", models.RoleProfessor)

	_, err := database.CreateExercise(models.ExerciseRequest{
		Title:    "broken",
		Type:     models.TypeMultipleChoice,
		MaxScore: 100,
	}, prof.ID)

	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestStartAttemptUpsert(t *testing.T) {
	database := newTestDB(t)
	prof := createTestUser(t, database, "prof@example.com", models.RoleProfessor)
	student := createTestUser(t, database, "student@example.com", models.RoleStudent)
	ex := createTestExercise(t, database, prof.ID, true)

	first, err := database.StartAttempt(student.ID, ex.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, first.Status)
	assert.Equal(t, 1, first.Attempts)
	assert.NotNil(t, first.StartedAt)

	second, err := database.StartAttempt(student.ID, ex.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "one row per student/exercise pair")
	assert.Equal(t, 2, second.Attempts)

	all, err := database.ListAttemptsByStudent(student.ID)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestUpdateAttemptSubmission(t *testing.T) {
	database := newTestDB(t)
	prof := createTestUser(t, database, "prof@example.com", models.RoleProfessor)
	student := createTestUser(t, database, "student@example.com", models.RoleStudent)
	ex := createTestExercise(t, database, prof.ID, true)

	attempt, err := database.StartAttempt(student.ID, ex.ID)
	require.NoError(t, err)

	now := time.Now().UTC()
	score := 100.0
	attempt.Status = models.StatusCompleted
	attempt.Answers = []models.SubmittedAnswer{{SelectedOption: optPtr(0)}}
	attempt.Score = &score
	attempt.TimeSpent = 42
	attempt.SubmittedAt = &now
	attempt.CompletedAt = &now

	updated, err := database.UpdateAttemptSubmission(attempt)
	require.NoError(t, err)

	assert.Equal(t, models.StatusCompleted, updated.Status)
	require.NotNil(t, updated.Score)
	assert.Equal(t, 100.0, *updated.Score)
	assert.Equal(t, 42, updated.TimeSpent)
	require.Len(t, updated.Answers, 1)
	assert.NotNil(t, updated.CompletedAt)
}

func TestUpdateAttemptSubmissionMissingRow(t *testing.T) {
	database := newTestDB(t)

	_, err := database.UpdateAttemptSubmission(&models.Attempt{
		StudentID:  "ghost",
		ExerciseID: 1,
		Status:     models.StatusCompleted,
	})

	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestGetAttemptNotFound(t *testing.T) {
	database := newTestDB(t)

	_, err := database.GetAttempt("nobody", 1)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestListAttemptsByStudents(t *testing.T) {
	database := newTestDB(t)
	prof := createTestUser(t, database, "prof@example.com", models.RoleProfessor)
	a := createTestUser(t, database, "a@example.com", models.RoleStudent)
	b := createTestUser(t, database, "b@example.com", models.RoleStudent)
	c := createTestUser(t, database, "c@example.com", models.RoleStudent)
	ex := createTestExercise(t, database, prof.ID, true)

	for _, student := range []*models.User{a, b, c} {
		_, err := database.StartAttempt(student.ID, ex.ID)
		require.NoError(t, err)
	}

	subset, err := database.ListAttemptsByStudents([]string{a.ID, b.ID})
	require.NoError(t, err)
	assert.Len(t, subset, 2)

	empty, err := database.ListAttemptsByStudents(nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestEnrollmentIdempotent(t *testing.T) {
	database := newTestDB(t)
	prof := createTestUser(t, database, "prof@example.com", models.RoleProfessor)
	student := createTestUser(t, database, "student@example.com", models.RoleStudent)

	class, err := database.CreateClass(models.ClassRequest{Name: "Algebra I", Subject: "math"}, prof.ID)
	require.NoError(t, err)

	first, err := database.EnrollStudent(class.ID, student.ID)
	require.NoError(t, err)
	second, err := database.EnrollStudent(class.ID, student.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	ids, err := database.ListEnrolledStudentIDs(class.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{student.ID}, ids)
}
