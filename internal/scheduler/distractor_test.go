package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"drillbot/internal/domain"
)

// fixedRand replays floats and always picks the first element
type fixedRand struct {
	floats []float64
}

func (r *fixedRand) Float64() float64 {
	if len(r.floats) == 0 {
		return 0.99
	}
	f := r.floats[0]
	r.floats = r.floats[1:]
	return f
}

func (r *fixedRand) Intn(int) int { return 0 }

func (r *fixedRand) Shuffle(int, func(i, j int)) {}

func newDistractorCourse() *domain.Course {
	return &domain.Course{
		From: "eng",
		To:   "deu",
		Lessons: []domain.Lesson{
			{Title: map[string]string{"eng": "Animals"}, Exercises: []string{"d1", "d5"}},
		},
		Sentences: map[string][]domain.Translation{
			"eng": {
				{ID: "e1", Text: "The cat sleeps."},
				{ID: "e2", Text: "Hi."},
				{ID: "e3", Text: "A dog barks."},
			},
			"deu": {
				{ID: "d1", Text: "Die Katze schläft."},
				{ID: "d2", Text: "Die Mieze schläft."},
				{ID: "d3", Text: "Ja."},
				{ID: "d4", Text: "Heute ist ein sehr langer und sonniger Tag."},
				{ID: "d5", Text: "Der Hund bellt."},
				{ID: "d6", Text: "Das Wetter ist schön."},
			},
		},
		Links: []domain.Link{{"e1", "d1"}, {"e1", "d2"}, {"e3", "d5"}},
	}
}

func TestSampleDistractors_DistinctAndNotLinked(t *testing.T) {
	course := newDistractorCourse()
	target := domain.Translation{ID: "e1", Text: "The cat sleeps."}

	for seed := int64(0); seed < 50; seed++ {
		got := SampleDistractors(target, 2, course, course.To, NewRand(seed))
		require.Len(t, got, 2)
		assert.NotEqual(t, got[0].ID, got[1].ID)
		for _, d := range got {
			assert.NotContains(t, []string{"d1", "d2"}, d.ID, "linked translation offered as distractor")
		}
	}
}

func TestSampleDistractors_NeverOffersTarget(t *testing.T) {
	course := newDistractorCourse()
	target := domain.Translation{ID: "d6", Text: "Das Wetter ist schön."}

	for seed := int64(0); seed < 50; seed++ {
		got := SampleDistractors(target, 3, course, course.To, NewRand(seed))
		require.Len(t, got, 3)
		for _, d := range got {
			assert.NotEqual(t, "d6", d.ID)
		}
	}
}

func TestSampleDistractors_ExhaustedPool(t *testing.T) {
	course := newDistractorCourse()
	target := domain.Translation{ID: "d1", Text: "Die Katze schläft."}

	// e1 is linked to d1, leaving e2 and e3.
	got := SampleDistractors(target, 5, course, course.From, NewRand(1))

	assert.ElementsMatch(t, []string{"e2", "e3"}, idsOf(got))
}

func TestSampleDistractors_ZeroCount(t *testing.T) {
	course := newDistractorCourse()

	got := SampleDistractors(course.Sentences["eng"][0], 0, course, course.To, NewRand(1))

	assert.Empty(t, got)
}

func TestSampleDistractors_Branches(t *testing.T) {
	course := newDistractorCourse()
	target := domain.Translation{ID: "e1", Text: "The cat sleeps."}

	tests := []struct {
		name     string
		floats   []float64
		language string
		expected string
	}{
		{
			// lesson of linked d1 holds d5
			name:     "lesson restricted",
			floats:   []float64{0.1},
			language: "deu",
			expected: "d5",
		},
		{
			// d3 is too short, d4 too long
			name:     "length restricted",
			floats:   []float64{0.9, 0.1},
			language: "deu",
			expected: "d5",
		},
		{
			name:     "uniform",
			floats:   []float64{0.9, 0.9},
			language: "deu",
			expected: "d3",
		},
		{
			// lessons only apply to the target language
			name:     "lessons skipped for source language",
			floats:   []float64{0.1, 0.9},
			language: "eng",
			expected: "e2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SampleDistractors(target, 1, course, tt.language, &fixedRand{floats: tt.floats})
			require.Len(t, got, 1)
			assert.Equal(t, tt.expected, got[0].ID)
		})
	}
}

func idsOf(ts []domain.Translation) []string {
	result := make([]string, len(ts))
	for i, t := range ts {
		result[i] = t.ID
	}
	return result
}
