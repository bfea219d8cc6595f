package testutil

import (
	"drillbot/internal/domain"

	"github.com/stretchr/testify/mock"
)

// MockLearnerRepository is a mock for LearnerRepository
type MockLearnerRepository struct {
	mock.Mock
}

func (m *MockLearnerRepository) IsAuthorized(userID int64) (bool, error) {
	args := m.Called(userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockLearnerRepository) Authorize(userID int64) error {
	args := m.Called(userID)
	return args.Error(0)
}

func (m *MockLearnerRepository) EnsureLearner(userID int64) error {
	args := m.Called(userID)
	return args.Error(0)
}

func (m *MockLearnerRepository) SetCourse(userID int64, courseKey string) error {
	args := m.Called(userID, courseKey)
	return args.Error(0)
}

func (m *MockLearnerRepository) GetLearner(userID int64) (*domain.Learner, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Learner), args.Error(1)
}

// MockKnowledgeRepository is a mock for KnowledgeRepository
type MockKnowledgeRepository struct {
	mock.Mock
}

func (m *MockKnowledgeRepository) GetLanguage(language string) (domain.LanguageKnowledge, error) {
	args := m.Called(language)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.LanguageKnowledge), args.Error(1)
}

func (m *MockKnowledgeRepository) Get(language, exerciseID string) (*domain.ExerciseRecord, error) {
	args := m.Called(language, exerciseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExerciseRecord), args.Error(1)
}

func (m *MockKnowledgeRepository) Save(language, exerciseID string, rec *domain.ExerciseRecord) error {
	args := m.Called(language, exerciseID, rec)
	return args.Error(0)
}

func (m *MockKnowledgeRepository) Import(k domain.Knowledge) (int, error) {
	args := m.Called(k)
	return args.Int(0), args.Error(1)
}

func (m *MockKnowledgeRepository) Export() (domain.Knowledge, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.Knowledge), args.Error(1)
}

// MockCourseRepository is a mock for CourseRepository
type MockCourseRepository struct {
	mock.Mock
}

func (m *MockCourseRepository) List() ([]domain.CourseMeta, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CourseMeta), args.Error(1)
}

func (m *MockCourseRepository) Get(key string) (*domain.Course, error) {
	args := m.Called(key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Course), args.Error(1)
}

// MockLocaleMigrator is a mock for service.LocaleMigrator
type MockLocaleMigrator struct {
	mock.Mock
}

func (m *MockLocaleMigrator) MigrateLocale(course *domain.Course) (int, error) {
	args := m.Called(course)
	return args.Int(0), args.Error(1)
}
