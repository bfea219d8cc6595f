package service

import (
	"fmt"

	"drillbot/internal/domain"
	"drillbot/internal/repository"

	"go.uber.org/zap"
)

// StatsService computes learning progress
type StatsService struct {
	courseRepo    repository.CourseRepository
	knowledgeRepo repository.KnowledgeRepository
	logger        *zap.Logger
}

// NewStatsService creates a new stats service
func NewStatsService(
	courseRepo repository.CourseRepository,
	knowledgeRepo repository.KnowledgeRepository,
	logger *zap.Logger,
) *StatsService {
	return &StatsService{
		courseRepo:    courseRepo,
		knowledgeRepo: knowledgeRepo,
		logger:        logger,
	}
}

// CourseProgress counts the statuses of every exercise of the course
func (s *StatsService) CourseProgress(course *domain.Course) (domain.Progress, error) {
	return s.progressFor(course, course.Exercises())
}

// LessonProgress counts the statuses of the exercises of one lesson
func (s *StatsService) LessonProgress(course *domain.Course, lesson domain.Lesson) (domain.Progress, error) {
	return s.progressFor(course, course.LessonExercises(lesson))
}

func (s *StatsService) progressFor(course *domain.Course, exercises []domain.Translation) (domain.Progress, error) {
	k, err := s.knowledgeRepo.GetLanguage(course.To)
	if err != nil {
		return domain.Progress{}, fmt.Errorf("failed to load knowledge: %w", err)
	}
	return k.ProgressFor(exercises), nil
}

// ReportProgress logs the progress of every course in the index
func (s *StatsService) ReportProgress() error {
	metas, err := s.courseRepo.List()
	if err != nil {
		s.logger.Error("Failed to list courses", zap.Error(err))
		return err
	}

	for _, meta := range metas {
		course, err := s.courseRepo.Get(meta.Key())
		if err != nil {
			s.logger.Warn("Failed to load course", zap.String("course", meta.Key()), zap.Error(err))
			continue
		}

		p, err := s.CourseProgress(course)
		if err != nil {
			s.logger.Error("Failed to compute progress", zap.String("course", meta.Key()), zap.Error(err))
			return err
		}

		s.logger.Info("Course progress",
			zap.String("course", meta.Key()),
			zap.Int("learned", p.Learned),
			zap.Int("somewhat", p.Somewhat),
			zap.Int("wrong", p.Wrong),
			zap.Int("unseen", p.Unseen),
		)
	}

	return nil
}
