package scheduler

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"drillbot/internal/domain"
)

var testNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func translations(n int) []domain.Translation {
	result := make([]domain.Translation, n)
	for i := range result {
		result[i] = domain.Translation{ID: fmt.Sprintf("c%d", i), Text: fmt.Sprintf("Satz %d.", i)}
	}
	return result
}

func record(answers ...bool) *domain.ExerciseRecord {
	return &domain.ExerciseRecord{LastAnswersCorrect: answers}
}

func TestSelectBatch_Empty(t *testing.T) {
	assert.Empty(t, SelectBatch(nil, nil, 10, testNow, NewRand(1)))
	assert.Empty(t, SelectBatch([]domain.Translation{}, domain.LanguageKnowledge{}, 10, testNow, NewRand(1)))
}

func TestSelectBatch_SizeAndMembership(t *testing.T) {
	tests := []struct {
		name       string
		candidates int
		maxSize    int
		expected   int
	}{
		{name: "fewer candidates than max", candidates: 4, maxSize: 10, expected: 4},
		{name: "more candidates than max", candidates: 25, maxSize: 10, expected: 10},
		{name: "exact", candidates: 10, maxSize: 10, expected: 10},
		{name: "default size", candidates: 25, maxSize: 0, expected: DefaultBatchSize},
		{name: "single", candidates: 1, maxSize: 3, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candidates := translations(tt.candidates)
			inInput := make(map[string]bool)
			for _, c := range candidates {
				inInput[c.ID] = true
			}

			for seed := int64(0); seed < 20; seed++ {
				batch := SelectBatch(candidates, domain.LanguageKnowledge{}, tt.maxSize, testNow, NewRand(seed))
				require.Len(t, batch, tt.expected)

				seen := make(map[string]bool)
				for _, id := range batch {
					assert.True(t, inInput[id], "%s not a candidate", id)
					assert.False(t, seen[id], "%s selected twice", id)
					seen[id] = true
				}
			}
		})
	}
}

func TestSelectBatch_DuplicateCandidates(t *testing.T) {
	candidates := append(translations(3), translations(3)...)

	batch := SelectBatch(candidates, nil, 10, testNow, NewRand(7))

	assert.ElementsMatch(t, []string{"c0", "c1", "c2"}, batch)
}

func TestSelectBatch_ReinforcesWeakestThenFillsUnseen(t *testing.T) {
	// c0..c6 answered wrong, c7..c13 well known, c14..c19 unseen.
	candidates := translations(20)
	knowledge := domain.LanguageKnowledge{}
	for i := 0; i < 7; i++ {
		knowledge[fmt.Sprintf("c%d", i)] = record(false)
	}
	for i := 7; i < 14; i++ {
		knowledge[fmt.Sprintf("c%d", i)] = record(true, true, true)
	}

	for seed := int64(0); seed < 20; seed++ {
		batch := SelectBatch(candidates, knowledge, 10, testNow, NewRand(seed))
		require.Len(t, batch, 10)

		var weak, unseen int
		for _, id := range batch {
			rec, ok := knowledge[id]
			switch {
			case !ok:
				unseen++
			case rec.Balance() < 0:
				weak++
			default:
				t.Errorf("well known exercise %s selected", id)
			}
		}
		assert.Equal(t, 7, weak)
		assert.Equal(t, 3, unseen)
	}
}

func TestSelectBatch_FillsFromPriorityWithoutUnseen(t *testing.T) {
	candidates := translations(12)
	knowledge := domain.LanguageKnowledge{}
	for i := 0; i < 10; i++ {
		knowledge[fmt.Sprintf("c%d", i)] = record(false)
	}
	knowledge["c10"] = record(true, true)
	knowledge["c11"] = record(true, true)

	batch := SelectBatch(candidates, knowledge, 10, testNow, NewRand(3))

	assert.Len(t, batch, 10)
	assert.NotContains(t, batch, "c10")
	assert.NotContains(t, batch, "c11")
}

func TestSelectBatch_HiddenExercisesComeLast(t *testing.T) {
	candidates := translations(4)
	hidden := &domain.ExerciseRecord{
		LastAnswersCorrect: []bool{false},
		HiddenUntil:        testNow.Add(time.Hour).UnixMilli(),
	}
	knowledge := domain.LanguageKnowledge{
		"c0": hidden,
		"c1": record(true),
		"c2": record(true),
		"c3": record(true),
	}

	batch := SelectBatch(candidates, knowledge, 2, testNow, NewRand(5))

	assert.Len(t, batch, 2)
	assert.NotContains(t, batch, "c0")
}

func TestSelectBatch_Deterministic(t *testing.T) {
	candidates := translations(30)

	first := SelectBatch(candidates, nil, 10, testNow, NewRand(42))
	second := SelectBatch(candidates, nil, 10, testNow, NewRand(42))

	assert.Equal(t, first, second)
}

func TestPriorityOrder(t *testing.T) {
	exercises := []domain.RankableExercise{
		{ID: "hidden", Text: "a", Rank: -3, HiddenUntil: testNow.Add(time.Minute).UnixMilli()},
		{ID: "long", Text: "a long sentence", Rank: 1},
		{ID: "weak", Text: "abc", Rank: -1},
		{ID: "short", Text: "ab", Rank: 1},
	}

	ordered := PriorityOrder(exercises, testNow, NewRand(1))

	ids := make([]string, len(ordered))
	for i, e := range ordered {
		ids[i] = e.ID
	}
	assert.Equal(t, []string{"weak", "short", "long", "hidden"}, ids)
	assert.Equal(t, "hidden", exercises[0].ID, "input must not be reordered")
}

func TestPriorityOrder_ShufflesOnlyWithinTies(t *testing.T) {
	exercises := []domain.RankableExercise{
		{ID: "x1", Text: "same", Rank: 0, Unseen: true},
		{ID: "x2", Text: "same", Rank: 0, Unseen: true},
		{ID: "x3", Text: "same", Rank: 0, Unseen: true},
		{ID: "first", Text: "same", Rank: -2},
		{ID: "last", Text: "same", Rank: 4},
	}

	orders := make(map[string]bool)
	for seed := int64(0); seed < 50; seed++ {
		ordered := PriorityOrder(exercises, testNow, NewRand(seed))
		require.Len(t, ordered, 5)
		assert.Equal(t, "first", ordered[0].ID)
		assert.Equal(t, "last", ordered[4].ID)
		orders[ordered[1].ID+ordered[2].ID+ordered[3].ID] = true
	}
	assert.Greater(t, len(orders), 1, "equal-priority run should be shuffled")
}
