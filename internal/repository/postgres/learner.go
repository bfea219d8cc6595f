package postgres

import (
	"database/sql"

	"drillbot/internal/domain"
)

// LearnerRepo implements repository.LearnerRepository
type LearnerRepo struct {
	db *sql.DB
}

// NewLearnerRepo creates a new learner repository
func NewLearnerRepo(db *sql.DB) *LearnerRepo {
	return &LearnerRepo{db: db}
}

// IsAuthorized checks if the chat is authorized
func (r *LearnerRepo) IsAuthorized(userID int64) (bool, error) {
	var authorized bool
	query := `SELECT authorized FROM learners WHERE user_id = $1`
	err := r.db.QueryRow(query, userID).Scan(&authorized)

	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return authorized, nil
}

// Authorize marks the chat as authorized
func (r *LearnerRepo) Authorize(userID int64) error {
	query := `
		INSERT INTO learners (user_id, authorized)
		VALUES ($1, TRUE)
		ON CONFLICT (user_id)
		DO UPDATE SET authorized = TRUE
	`
	_, err := r.db.Exec(query, userID)
	return err
}

// EnsureLearner creates the learner if not exists
func (r *LearnerRepo) EnsureLearner(userID int64) error {
	query := `
		INSERT INTO learners (user_id, authorized)
		VALUES ($1, FALSE)
		ON CONFLICT (user_id) DO NOTHING
	`
	_, err := r.db.Exec(query, userID)
	return err
}

// SetCourse remembers the active course of the chat
func (r *LearnerRepo) SetCourse(userID int64, courseKey string) error {
	query := `UPDATE learners SET course_key = $2 WHERE user_id = $1`
	_, err := r.db.Exec(query, userID, courseKey)
	return err
}

// GetLearner returns the learner or nil if it doesn't exist
func (r *LearnerRepo) GetLearner(userID int64) (*domain.Learner, error) {
	var l domain.Learner
	query := `SELECT user_id, authorized, course_key, created_at FROM learners WHERE user_id = $1`
	err := r.db.QueryRow(query, userID).Scan(&l.UserID, &l.Authorized, &l.CourseKey, &l.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &l, nil
}
