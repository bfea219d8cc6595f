package domain

import (
	"time"
	"unicode/utf8"
)

// RankableExercise is the scheduling view of an exercise, derived from its record
type RankableExercise struct {
	ID          string
	Text        string
	Rank        int
	HiddenUntil int64
	Unseen      bool
}

// ToRankable derives the scheduling view of exercise id with reference text.
// A nil record yields an unseen exercise of rank 0.
func ToRankable(rec *ExerciseRecord, id, text string) RankableExercise {
	if rec == nil {
		return RankableExercise{ID: id, Text: text, Unseen: true}
	}
	return RankableExercise{
		ID:          id,
		Text:        text,
		Rank:        rec.Balance(),
		HiddenUntil: rec.HiddenUntil,
	}
}

// Rankables derives the scheduling view of every exercise
func (k LanguageKnowledge) Rankables(exercises []Translation) []RankableExercise {
	result := make([]RankableExercise, 0, len(exercises))
	for _, e := range exercises {
		result = append(result, ToRankable(k[e.ID], e.ID, e.Text))
	}
	return result
}

// Comparator orders exercises by scheduling priority at now.
// Visible exercises come before hidden ones, then lower rank first,
// then shorter reference text first. A zero result means equal priority.
func Comparator(now time.Time) func(a, b RankableExercise) int {
	nowMilli := now.UnixMilli()
	return func(a, b RankableExercise) int {
		aHidden := a.HiddenUntil > nowMilli
		bHidden := b.HiddenUntil > nowMilli
		if aHidden != bHidden {
			if aHidden {
				return 1
			}
			return -1
		}

		if diff := a.Rank - b.Rank; diff != 0 {
			return diff
		}

		return utf8.RuneCountInString(a.Text) - utf8.RuneCountInString(b.Text)
	}
}
