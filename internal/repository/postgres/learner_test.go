package postgres

import (
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLearnerRepo_IsAuthorized(t *testing.T) {
	tests := []struct {
		name          string
		userID        int64
		mockRows      *sqlmock.Rows
		mockError     error
		expectedAuth  bool
		expectedError bool
	}{
		{
			name:         "authorized learner",
			userID:       123,
			mockRows:     sqlmock.NewRows([]string{"authorized"}).AddRow(true),
			expectedAuth: true,
		},
		{
			name:         "unauthorized learner",
			userID:       456,
			mockRows:     sqlmock.NewRows([]string{"authorized"}).AddRow(false),
			expectedAuth: false,
		},
		{
			name:         "learner not exists",
			userID:       789,
			mockError:    sql.ErrNoRows,
			expectedAuth: false,
		},
		{
			name:          "database error",
			userID:        1,
			mockError:     fmt.Errorf("connection reset"),
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			assert.NoError(t, err)
			defer db.Close()

			repo := NewLearnerRepo(db)

			query := "SELECT authorized FROM learners WHERE user_id = \\$1"

			if tt.mockError != nil {
				mock.ExpectQuery(query).WithArgs(tt.userID).WillReturnError(tt.mockError)
			} else {
				mock.ExpectQuery(query).WithArgs(tt.userID).WillReturnRows(tt.mockRows)
			}

			authorized, err := repo.IsAuthorized(tt.userID)

			if tt.expectedError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedAuth, authorized)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestLearnerRepo_Authorize(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewLearnerRepo(db)

	mock.ExpectExec("INSERT INTO learners").
		WithArgs(int64(123)).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = repo.Authorize(123)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLearnerRepo_EnsureLearner(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewLearnerRepo(db)

	mock.ExpectExec("INSERT INTO learners").
		WithArgs(int64(123)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.EnsureLearner(123)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLearnerRepo_SetCourse(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewLearnerRepo(db)

	mock.ExpectExec("UPDATE learners SET course_key").
		WithArgs(int64(123), "eng to deu").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.SetCourse(123, "eng to deu")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLearnerRepo_GetLearner(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewLearnerRepo(db)
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	query := "SELECT user_id, authorized, course_key, created_at FROM learners WHERE user_id = \\$1"

	mock.ExpectQuery(query).WithArgs(int64(123)).WillReturnRows(
		sqlmock.NewRows([]string{"user_id", "authorized", "course_key", "created_at"}).
			AddRow(int64(123), true, "eng to deu", created),
	)
	mock.ExpectQuery(query).WithArgs(int64(5)).WillReturnError(sql.ErrNoRows)

	learner, err := repo.GetLearner(123)
	require.NoError(t, err)
	require.NotNil(t, learner)
	assert.True(t, learner.Authorized)
	assert.Equal(t, "eng to deu", learner.CourseKey)
	assert.Equal(t, created, learner.CreatedAt)

	learner, err = repo.GetLearner(5)
	assert.NoError(t, err)
	assert.Nil(t, learner)

	assert.NoError(t, mock.ExpectationsWereMet())
}
