package service

import (
	"errors"
	"fmt"

	"drillbot/internal/domain"
	"drillbot/internal/repository"

	"go.uber.org/zap"
)

// ErrUnknownCourse is returned for a course key missing from the course index
var ErrUnknownCourse = errors.New("unknown course")

// LocaleMigrator moves legacy locale-keyed knowledge onto a course
type LocaleMigrator interface {
	MigrateLocale(course *domain.Course) (int, error)
}

// CourseService lists courses and tracks the active course of each chat
type CourseService struct {
	courseRepo  repository.CourseRepository
	learnerRepo repository.LearnerRepository
	migrator    LocaleMigrator
	logger      *zap.Logger
}

// NewCourseService creates a new course service. migrator may be nil.
func NewCourseService(
	courseRepo repository.CourseRepository,
	learnerRepo repository.LearnerRepository,
	migrator LocaleMigrator,
	logger *zap.Logger,
) *CourseService {
	return &CourseService{
		courseRepo:  courseRepo,
		learnerRepo: learnerRepo,
		migrator:    migrator,
		logger:      logger,
	}
}

// List returns the available courses
func (s *CourseService) List() ([]domain.CourseMeta, error) {
	return s.courseRepo.List()
}

// Get loads a course by key
func (s *CourseService) Get(key string) (*domain.Course, error) {
	course, err := s.courseRepo.Get(key)
	if errors.Is(err, repository.ErrCourseNotFound) {
		return nil, fmt.Errorf("%q: %w", key, ErrUnknownCourse)
	}
	if err != nil {
		return nil, err
	}
	return course, nil
}

// Select makes key the active course of the chat
func (s *CourseService) Select(userID int64, key string) (*domain.Course, error) {
	course, err := s.Get(key)
	if err != nil {
		return nil, err
	}

	if s.migrator != nil {
		migrated, err := s.migrator.MigrateLocale(course)
		if err != nil {
			return nil, fmt.Errorf("failed to migrate legacy knowledge: %w", err)
		}
		if migrated > 0 {
			s.logger.Info("Migrated legacy knowledge",
				zap.String("course", key),
				zap.Int("records", migrated),
			)
		}
	}

	if err := s.learnerRepo.SetCourse(userID, key); err != nil {
		return nil, fmt.Errorf("failed to save active course: %w", err)
	}
	return course, nil
}

// Active returns the active course of the chat or nil when none is chosen
func (s *CourseService) Active(userID int64) (*domain.Course, error) {
	learner, err := s.learnerRepo.GetLearner(userID)
	if err != nil {
		return nil, err
	}
	if learner == nil || learner.CourseKey == "" {
		return nil, nil
	}

	course, err := s.Get(learner.CourseKey)
	if errors.Is(err, ErrUnknownCourse) {
		s.logger.Warn("Active course no longer available",
			zap.Int64("user_id", userID),
			zap.String("course", learner.CourseKey),
		)
		return nil, nil
	}
	return course, err
}
