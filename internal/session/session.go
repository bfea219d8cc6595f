// Package session holds the state of one practice run: a fixed batch of
// exercises, the exercise on screen and the feedback around it.
package session

import (
	"time"

	"drillbot/internal/domain"

	"github.com/google/uuid"
)

// Mode is how the learner answers an exercise
type Mode string

const (
	// ModePick offers the correct answer among distractors
	ModePick Mode = "pick"
	// ModeType asks for a typed translation
	ModeType Mode = "type"
)

// Exercise is one exercise as presented to the learner
type Exercise struct {
	ID          string
	Question    domain.Translation
	Correct     domain.Translation
	Accepted    []string
	Mode        Mode
	Options     []domain.Translation
	Suggestions []string
}

// Overlay is the definition view state: either OverlayHidden or OverlayVisible
type Overlay interface {
	overlay()
}

// OverlayHidden means no definition is shown
type OverlayHidden struct{}

// OverlayVisible shows the definition of a sentence
type OverlayVisible struct {
	SentenceID string
}

func (OverlayHidden) overlay()  {}
func (OverlayVisible) overlay() {}

// Session is one practice run over a batch chosen when it started.
// It is not safe for concurrent use; callers serialize access per learner.
type Session struct {
	ID        uuid.UUID
	CourseKey string
	Selection domain.Selection
	StartedAt time.Time

	Current *Exercise
	Answer  string
	// HintVisible is set after a wrong answer, Solved after a correct one
	HintVisible bool
	Solved      bool
	Overlay     Overlay
	MessageID   int

	exercises []string
	position  int
	countdown *Countdown
}

// New starts a session over batch. The batch order is never changed afterwards.
func New(courseKey string, sel domain.Selection, batch []string, now time.Time) *Session {
	exercises := make([]string, len(batch))
	copy(exercises, batch)
	return &Session{
		ID:        uuid.New(),
		CourseKey: courseKey,
		Selection: sel,
		StartedAt: now,
		Overlay:   OverlayHidden{},
		exercises: exercises,
	}
}

// Exercises returns the batch exercise ids in presentation order
func (s *Session) Exercises() []string {
	result := make([]string, len(s.exercises))
	copy(result, s.exercises)
	return result
}

// CurrentID returns the id of the exercise to practice, "" when done
func (s *Session) CurrentID() string {
	if s.Done() {
		return ""
	}
	return s.exercises[s.position]
}

// Position returns the 1-based number of the current exercise
func (s *Session) Position() int {
	return min(s.position+1, len(s.exercises))
}

// Total returns the batch size
func (s *Session) Total() int {
	return len(s.exercises)
}

// Done reports whether every exercise has been shown
func (s *Session) Done() bool {
	return s.position >= len(s.exercises)
}

// Advance moves to the next exercise and clears the per-exercise state.
// It reports whether an exercise is left.
func (s *Session) Advance() bool {
	s.CancelCountdown()
	if !s.Done() {
		s.position++
	}
	s.Current = nil
	s.Answer = ""
	s.HintVisible = false
	s.Solved = false
	s.Overlay = OverlayHidden{}
	return !s.Done()
}

// ShowDefinition opens the definition view for a sentence
func (s *Session) ShowDefinition(sentenceID string) {
	s.Overlay = OverlayVisible{SentenceID: sentenceID}
}

// HideDefinition closes the definition view
func (s *Session) HideDefinition() {
	s.Overlay = OverlayHidden{}
}

// Definition returns the sentence whose definition is shown
func (s *Session) Definition() (string, bool) {
	v, ok := s.Overlay.(OverlayVisible)
	if !ok {
		return "", false
	}
	return v.SentenceID, true
}

// ArmCountdown replaces the pending countdown with c
func (s *Session) ArmCountdown(c *Countdown) {
	s.countdown.Cancel()
	s.countdown = c
}

// CancelCountdown stops the pending countdown, if any
func (s *Session) CancelCountdown() {
	s.countdown.Cancel()
	s.countdown = nil
}

// Answered reports whether the current exercise already got an answer
func (s *Session) Answered() bool {
	return s.HintVisible || s.Solved
}

// IsArmed reports whether c is still the pending countdown
func (s *Session) IsArmed(c *Countdown) bool {
	return c != nil && s.countdown == c
}
