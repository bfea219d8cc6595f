package repository

import (
	"errors"

	"drillbot/internal/domain"
)

// ErrCourseNotFound is returned when a course key is not in the course index
var ErrCourseNotFound = errors.New("course not found")

// LearnerRepository defines learner data operations
type LearnerRepository interface {
	EnsureLearner(userID int64) error
	IsAuthorized(userID int64) (bool, error)
	Authorize(userID int64) error
	SetCourse(userID int64, courseKey string) error
	GetLearner(userID int64) (*domain.Learner, error)
}

// KnowledgeRepository stores exercise records by language.
// Save persists immediately.
type KnowledgeRepository interface {
	GetLanguage(language string) (domain.LanguageKnowledge, error)
	Get(language, exerciseID string) (*domain.ExerciseRecord, error)
	Save(language, exerciseID string, rec *domain.ExerciseRecord) error
	// Import stores records that are not present yet and returns how many were written
	Import(k domain.Knowledge) (int, error)
	Export() (domain.Knowledge, error)
}

// CourseRepository reads the read-only course data
type CourseRepository interface {
	List() ([]domain.CourseMeta, error)
	Get(key string) (*domain.Course, error)
}
