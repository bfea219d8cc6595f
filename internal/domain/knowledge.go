package domain

import "time"

const (
	// AnswerWindow is the number of most recent answers kept per exercise
	AnswerWindow = 10

	// shortSuppression scales hiding while the answer window is still filling up
	shortSuppression = 10 * time.Minute
	// longSuppression scales hiding once the answer window is full
	longSuppression = 24 * time.Hour
)

// ExerciseRecord is the rolling answer history of one exercise
type ExerciseRecord struct {
	LastAnswersCorrect []bool `json:"lastAnswersCorrect"`
	// HiddenUntil is a unix timestamp in milliseconds
	HiddenUntil int64 `json:"hiddenUntil"`
}

// LanguageKnowledge maps exercise ids to their records for one target language
type LanguageKnowledge map[string]*ExerciseRecord

// Knowledge maps target languages to their exercise records
type Knowledge map[string]LanguageKnowledge

// Language returns the bucket for lang, creating it when missing
func (k Knowledge) Language(lang string) LanguageKnowledge {
	bucket, ok := k[lang]
	if !ok {
		bucket = make(LanguageKnowledge)
		k[lang] = bucket
	}
	return bucket
}

// Balance returns the number of correct minus incorrect answers in the window
func (r *ExerciseRecord) Balance() int {
	if r == nil {
		return 0
	}
	balance := 0
	for _, correct := range r.LastAnswersCorrect {
		if correct {
			balance++
		} else {
			balance--
		}
	}
	return balance
}

// IsHidden reports whether the record is suppressed at now
func (r *ExerciseRecord) IsHidden(now time.Time) bool {
	return r != nil && r.HiddenUntil > now.UnixMilli()
}

// HiddenUntilTime returns HiddenUntil as a time
func (r *ExerciseRecord) HiddenUntilTime() time.Time {
	return time.UnixMilli(r.HiddenUntil)
}

// RecordAnswer appends an answer outcome to rec and recomputes its suppression.
// A nil rec starts a new record. The record is updated in place and returned.
func RecordAnswer(rec *ExerciseRecord, correct bool, now time.Time) *ExerciseRecord {
	if rec == nil {
		rec = &ExerciseRecord{LastAnswersCorrect: []bool{}}
	}

	rec.LastAnswersCorrect = append(rec.LastAnswersCorrect, correct)
	if excess := len(rec.LastAnswersCorrect) - AnswerWindow; excess > 0 {
		rec.LastAnswersCorrect = append([]bool(nil), rec.LastAnswersCorrect[excess:]...)
	}

	if !correct {
		rec.HiddenUntil = 0
		return rec
	}

	// A negative balance lands in the past and does not hide the exercise.
	unit := shortSuppression
	if len(rec.LastAnswersCorrect) >= AnswerWindow {
		unit = longSuppression
	}
	rec.HiddenUntil = now.UnixMilli() + int64(rec.Balance())*unit.Milliseconds()
	return rec
}

// Clone returns a deep copy of the language bucket
func (k LanguageKnowledge) Clone() LanguageKnowledge {
	result := make(LanguageKnowledge, len(k))
	for id, rec := range k {
		result[id] = rec.Clone()
	}
	return result
}

// Clone returns a deep copy of the knowledge
func (k Knowledge) Clone() Knowledge {
	result := make(Knowledge, len(k))
	for lang, bucket := range k {
		result[lang] = bucket.Clone()
	}
	return result
}
