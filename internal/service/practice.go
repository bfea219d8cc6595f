package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"drillbot/internal/answer"
	"drillbot/internal/domain"
	"drillbot/internal/scheduler"
	"drillbot/internal/session"

	"go.uber.org/zap"
)

var (
	// ErrNothingToPractice is returned when a selection yields no exercises
	ErrNothingToPractice = errors.New("nothing to practice")
	// ErrNoSession is returned when there is no exercise to answer
	ErrNoSession = errors.New("no active exercise")
	// ErrNoTranslation is returned for an exercise without a linked question
	ErrNoTranslation = errors.New("exercise has no translation")
)

const (
	distractorCount = 2
	typeModeChance  = 0.5
)

// ConfirmResult describes what a confirmation did to the session
type ConfirmResult struct {
	// Evaluated is false when the confirmation only dismissed the correct answer hint
	Evaluated bool
	Correct   bool
	Record    *domain.ExerciseRecord
	// Finished is true when the session has no exercise left
	Finished bool
}

// PracticeService runs practice sessions
type PracticeService struct {
	knowledge *KnowledgeService
	matcher   *answer.Matcher
	rng       scheduler.Rand
	batchSize int
	logger    *zap.Logger
	now       func() time.Time
}

// NewPracticeService creates a new practice service.
// rng must be safe for concurrent use when sessions run in parallel.
func NewPracticeService(
	knowledge *KnowledgeService,
	matcher *answer.Matcher,
	rng scheduler.Rand,
	batchSize int,
	logger *zap.Logger,
) *PracticeService {
	return &PracticeService{
		knowledge: knowledge,
		matcher:   matcher,
		rng:       rng,
		batchSize: batchSize,
		logger:    logger,
		now:       time.Now,
	}
}

// Candidates resolves a selection of the course to candidate exercises
func (s *PracticeService) Candidates(course *domain.Course, sel domain.Selection) ([]domain.Translation, error) {
	k, err := s.knowledge.LanguageKnowledge(course.To)
	if err != nil {
		return nil, fmt.Errorf("failed to load knowledge: %w", err)
	}
	return course.Candidates(sel, k)
}

// StartSession selects a batch for the selection and presents its first exercise
func (s *PracticeService) StartSession(course *domain.Course, sel domain.Selection) (*session.Session, error) {
	k, err := s.knowledge.LanguageKnowledge(course.To)
	if err != nil {
		return nil, fmt.Errorf("failed to load knowledge: %w", err)
	}
	candidates, err := course.Candidates(sel, k)
	if err != nil {
		return nil, err
	}

	now := s.now()
	batch := scheduler.SelectBatch(candidates, k, s.batchSize, now, s.rng)
	if len(batch) == 0 {
		return nil, ErrNothingToPractice
	}

	sess := session.New(course.Key(), sel, batch, now)
	if _, err := s.Present(course, sess); err != nil {
		return nil, err
	}

	s.logger.Info("Practice session started",
		zap.String("session_id", sess.ID.String()),
		zap.String("course", course.Key()),
		zap.String("selection", sel.String()),
		zap.Int("candidates", len(candidates)),
		zap.Int("batch", len(batch)),
	)
	return sess, nil
}

// Present builds the current exercise of the session, skipping exercises
// that cannot be asked. It returns nil once the session is done.
func (s *PracticeService) Present(course *domain.Course, sess *session.Session) (*session.Exercise, error) {
	for !sess.Done() {
		ex, err := s.BuildExercise(course, sess.CurrentID())
		if errors.Is(err, ErrNoTranslation) {
			s.logger.Warn("Skipping exercise without translation",
				zap.String("course", course.Key()),
				zap.String("exercise_id", sess.CurrentID()),
			)
			sess.Advance()
			continue
		}
		if err != nil {
			return nil, err
		}
		sess.Current = ex
		return ex, nil
	}
	return nil, nil
}

// BuildExercise prepares an exercise: a linked question in the source
// language, the accepted answers and either options to pick from or word
// suggestions for typing.
func (s *PracticeService) BuildExercise(course *domain.Course, exerciseID string) (*session.Exercise, error) {
	correct, ok := course.Sentence(exerciseID)
	if !ok {
		return nil, fmt.Errorf("exercise %q: %w", exerciseID, ErrNoTranslation)
	}
	questions := course.Linked(exerciseID, course.From)
	if len(questions) == 0 {
		return nil, fmt.Errorf("exercise %q: %w", exerciseID, ErrNoTranslation)
	}
	question := scheduler.PickRandom(questions, s.rng)

	accepted := []string{correct.Text}
	for _, t := range course.Linked(question.ID, course.To) {
		if t.ID != correct.ID {
			accepted = append(accepted, t.Text)
		}
	}

	options := append(
		[]domain.Translation{correct},
		scheduler.SampleDistractors(question, distractorCount, course, course.To, s.rng)...,
	)
	s.rng.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})

	ex := &session.Exercise{
		ID:       exerciseID,
		Question: question,
		Correct:  correct,
		Accepted: accepted,
		Mode:     session.ModePick,
		Options:  options,
	}

	if s.rng.Float64() < typeModeChance && strings.Contains(question.Text, " ") {
		texts := make([]string, len(options))
		for i, o := range options {
			texts[i] = o.Text
		}
		ex.Mode = session.ModeType
		ex.Options = nil
		ex.Suggestions = s.matcher.WordSuggestions(texts, course.To, s.rng)
	}

	return ex, nil
}

// Confirm evaluates the answer to the current exercise.
// Once the exercise was answered it only dismisses the feedback and moves
// on. Otherwise the answer is recorded right away; a wrong answer shows the
// hint, a correct one marks the exercise solved and leaves advancing to the
// caller.
func (s *PracticeService) Confirm(course *domain.Course, sess *session.Session, answerText string) (ConfirmResult, error) {
	if sess == nil || sess.Current == nil {
		return ConfirmResult{}, ErrNoSession
	}
	sess.CancelCountdown()

	if sess.Answered() {
		more, err := s.Next(course, sess)
		if err != nil {
			return ConfirmResult{}, err
		}
		return ConfirmResult{Finished: !more}, nil
	}

	ex := sess.Current
	sess.Answer = answerText
	correct := s.matcher.MatchesAny(answerText, ex.Accepted, course.To)

	rec, err := s.knowledge.RecordAnswer(course.To, ex.ID, correct)
	if err != nil {
		return ConfirmResult{}, err
	}

	sess.HintVisible = !correct
	sess.Solved = correct

	s.logger.Info("Answer confirmed",
		zap.String("session_id", sess.ID.String()),
		zap.String("exercise_id", ex.ID),
		zap.String("mode", string(ex.Mode)),
		zap.Bool("correct", correct),
	)
	return ConfirmResult{Evaluated: true, Correct: correct, Record: rec}, nil
}

// Next moves the session to its next exercise without recording anything.
// It reports whether an exercise is left.
func (s *PracticeService) Next(course *domain.Course, sess *session.Session) (bool, error) {
	if sess == nil {
		return false, ErrNoSession
	}
	sess.Advance()
	ex, err := s.Present(course, sess)
	if err != nil {
		return false, err
	}
	return ex != nil, nil
}

// Progress counts the statuses of the session batch
func (s *PracticeService) Progress(course *domain.Course, sess *session.Session) (domain.Progress, error) {
	k, err := s.knowledge.LanguageKnowledge(course.To)
	if err != nil {
		return domain.Progress{}, err
	}
	var p domain.Progress
	for _, id := range sess.Exercises() {
		p.Add(k.Status(id))
	}
	return p, nil
}
