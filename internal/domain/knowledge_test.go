package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func answers(values ...bool) []bool {
	return values
}

func TestRecordAnswer_CreatesRecord(t *testing.T) {
	rec := RecordAnswer(nil, true, testNow)

	require.NotNil(t, rec)
	assert.Equal(t, []bool{true}, rec.LastAnswersCorrect)
	assert.Equal(t, testNow.Add(10*time.Minute).UnixMilli(), rec.HiddenUntil)
}

func TestRecordAnswer_Suppression(t *testing.T) {
	tests := []struct {
		name     string
		before   []bool
		correct  bool
		prior    int64
		expected int64
	}{
		{
			name:     "wrong answer resets hidden until",
			before:   answers(true, true, true),
			correct:  false,
			prior:    testNow.Add(time.Hour).UnixMilli(),
			expected: 0,
		},
		{
			name:     "correct answer with short window uses ten minute steps",
			before:   answers(true, true),
			correct:  true,
			expected: testNow.Add(30 * time.Minute).UnixMilli(),
		},
		{
			name:     "correct answer with full window uses day steps",
			before:   answers(true, true, true, true, true, true, true, true, true, false),
			correct:  true,
			expected: testNow.Add(8 * 24 * time.Hour).UnixMilli(),
		},
		{
			name:     "negative balance lands in the past",
			before:   answers(false, false, false),
			correct:  true,
			expected: testNow.Add(-20 * time.Minute).UnixMilli(),
		},
		{
			name:     "zero balance is now",
			before:   answers(false),
			correct:  true,
			expected: testNow.UnixMilli(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &ExerciseRecord{LastAnswersCorrect: append([]bool(nil), tt.before...), HiddenUntil: tt.prior}
			got := RecordAnswer(rec, tt.correct, testNow)
			assert.Same(t, rec, got)
			assert.Equal(t, tt.expected, got.HiddenUntil)
		})
	}
}

func TestRecordAnswer_EvictsOldest(t *testing.T) {
	rec := &ExerciseRecord{LastAnswersCorrect: answers(false, true, true, true, true, true, true, true, true, true)}

	RecordAnswer(rec, true, testNow)

	assert.Len(t, rec.LastAnswersCorrect, AnswerWindow)
	assert.Equal(t, answers(true, true, true, true, true, true, true, true, true, true), rec.LastAnswersCorrect)
	assert.Equal(t, testNow.Add(10*24*time.Hour).UnixMilli(), rec.HiddenUntil)
}

func TestRecordAnswer_WindowNeverExceedsLimit(t *testing.T) {
	var rec *ExerciseRecord
	for i := 0; i < 57; i++ {
		rec = RecordAnswer(rec, i%3 != 0, testNow)
		assert.LessOrEqual(t, len(rec.LastAnswersCorrect), AnswerWindow)
	}
	assert.Len(t, rec.LastAnswersCorrect, AnswerWindow)
}

func TestExerciseRecord_IsHidden(t *testing.T) {
	var nilRec *ExerciseRecord
	assert.False(t, nilRec.IsHidden(testNow))
	assert.False(t, (&ExerciseRecord{HiddenUntil: testNow.UnixMilli()}).IsHidden(testNow))
	assert.True(t, (&ExerciseRecord{HiddenUntil: testNow.UnixMilli() + 1}).IsHidden(testNow))
}

func TestKnowledge_Language(t *testing.T) {
	k := Knowledge{}
	bucket := k.Language("deu")
	bucket["1"] = &ExerciseRecord{}

	assert.Contains(t, k, "deu")
	assert.Len(t, k.Language("deu"), 1)
}
