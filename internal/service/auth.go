package service

import (
	"fmt"

	"drillbot/internal/repository"
)

// AuthService handles the password gate
type AuthService struct {
	learnerRepo   repository.LearnerRepository
	botPassword   string
	defaultCourse string
}

// NewAuthService creates a new auth service
func NewAuthService(learnerRepo repository.LearnerRepository, botPassword string) *AuthService {
	return &AuthService{
		learnerRepo: learnerRepo,
		botPassword: botPassword,
	}
}

// WithDefaultCourse makes Authorize open courseKey for learners without an
// active course. An empty key leaves the choice to the learner.
func (s *AuthService) WithDefaultCourse(courseKey string) *AuthService {
	s.defaultCourse = courseKey
	return s
}

// CheckPassword verifies if provided password matches
func (s *AuthService) CheckPassword(password string) bool {
	return password == s.botPassword
}

// IsAuthorized checks if the chat is authorized
func (s *AuthService) IsAuthorized(userID int64) (bool, error) {
	return s.learnerRepo.IsAuthorized(userID)
}

// Authorize authorizes a chat and gives a learner without an active course
// the default one. A course chosen earlier is kept.
func (s *AuthService) Authorize(userID int64) error {
	if err := s.learnerRepo.Authorize(userID); err != nil {
		return err
	}
	if s.defaultCourse == "" {
		return nil
	}

	learner, err := s.learnerRepo.GetLearner(userID)
	if err != nil {
		return fmt.Errorf("failed to load learner: %w", err)
	}
	if learner != nil && learner.CourseKey != "" {
		return nil
	}

	if err := s.learnerRepo.SetCourse(userID, s.defaultCourse); err != nil {
		return fmt.Errorf("failed to set default course: %w", err)
	}
	return nil
}

// EnsureLearner creates the learner record if it doesn't exist
func (s *AuthService) EnsureLearner(userID int64) error {
	return s.learnerRepo.EnsureLearner(userID)
}
