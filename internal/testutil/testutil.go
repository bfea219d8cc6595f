package testutil

import (
	"time"

	"drillbot/internal/domain"

	"go.uber.org/zap"
)

// NewTestLogger creates a no-op logger for tests
func NewTestLogger() *zap.Logger {
	return zap.NewNop()
}

// NewTestLearner creates a test learner
func NewTestLearner(userID int64, authorized bool, courseKey string) *domain.Learner {
	return &domain.Learner{
		UserID:     userID,
		Authorized: authorized,
		CourseKey:  courseKey,
		CreatedAt:  time.Now(),
	}
}

// NewTestCourse creates a small "eng to deu" course.
//
//	e1 "Hello."          d1 "Hallo.", d4 "Servus."
//	e2 "Tom is here."    d2 "Tom ist hier."
//	e3 "I eat bread."    d3 "Ich esse Brot."
//	e4 "Good night."     d5 "Gute Nacht."
//	e5 "Orphan."         (no link)
//
// Lesson "Greetings" holds d1, d4 and d5, lesson "Food" holds d3.
func NewTestCourse() *domain.Course {
	first, second := 1, 2
	return &domain.Course{
		From: "eng",
		To:   "deu",
		Lessons: []domain.Lesson{
			{Title: map[string]string{"eng": "Greetings"}, Order: &first, Exercises: []string{"d1", "d4", "d5"}},
			{Title: map[string]string{"eng": "Food", "deu": "Essen"}, Order: &second, Exercises: []string{"d3"}},
		},
		Sentences: map[string][]domain.Translation{
			"eng": {
				{ID: "e1", Text: "Hello.", Author: "ann"},
				{ID: "e2", Text: "Tom is here.", Author: "bob"},
				{ID: "e3", Text: "I eat bread.", Author: "ann"},
				{ID: "e4", Text: "Good night."},
				{ID: "e5", Text: "Orphan."},
			},
			"deu": {
				{ID: "d1", Text: "Hallo.", Author: "ann"},
				{ID: "d2", Text: "Tom ist hier.", Author: "cid"},
				{ID: "d3", Text: "Ich esse Brot.", Author: "ann"},
				{ID: "d4", Text: "Servus."},
				{ID: "d5", Text: "Gute Nacht."},
				{ID: "d6", Text: "Unverlinkt."},
			},
		},
		Links: []domain.Link{
			{"e1", "d1"}, {"e1", "d4"},
			{"e2", "d2"},
			{"e3", "d3"},
			{"e4", "d5"},
		},
	}
}
