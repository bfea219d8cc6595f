package service

import (
	"fmt"
	"time"

	"drillbot/internal/domain"
	"drillbot/internal/repository"

	"go.uber.org/zap"
)

// KnowledgeService records answers and reads exercise knowledge
type KnowledgeService struct {
	repo   repository.KnowledgeRepository
	logger *zap.Logger
	now    func() time.Time
}

// NewKnowledgeService creates a new knowledge service
func NewKnowledgeService(repo repository.KnowledgeRepository, logger *zap.Logger) *KnowledgeService {
	return &KnowledgeService{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// RecordAnswer applies an answer to the exercise record and persists it immediately
func (s *KnowledgeService) RecordAnswer(language, exerciseID string, correct bool) (*domain.ExerciseRecord, error) {
	rec, err := s.repo.Get(language, exerciseID)
	if err != nil {
		return nil, fmt.Errorf("failed to load record: %w", err)
	}

	rec = domain.RecordAnswer(rec, correct, s.now())

	if err := s.repo.Save(language, exerciseID, rec); err != nil {
		return nil, fmt.Errorf("failed to save record: %w", err)
	}

	s.logger.Debug("Answer recorded",
		zap.String("language", language),
		zap.String("exercise_id", exerciseID),
		zap.Bool("correct", correct),
		zap.Int("balance", rec.Balance()),
		zap.Time("hidden_until", rec.HiddenUntilTime()),
	)
	return rec, nil
}

// LanguageKnowledge returns all records of a language
func (s *KnowledgeService) LanguageKnowledge(language string) (domain.LanguageKnowledge, error) {
	return s.repo.GetLanguage(language)
}

// Status classifies one exercise
func (s *KnowledgeService) Status(language, exerciseID string) (domain.ExerciseStatus, error) {
	rec, err := s.repo.Get(language, exerciseID)
	if err != nil {
		return "", err
	}
	return domain.Classify(rec), nil
}
