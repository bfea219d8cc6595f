package scheduler

import (
	"slices"
	"time"

	"drillbot/internal/domain"
)

// DefaultBatchSize is the number of exercises in one practice session
const DefaultBatchSize = 10

// Share of the batch, in tenths, taken from the weakest and most due exercises.
const reinforcementTenths = 7

// PriorityOrder sorts exercises by scheduling priority at now and shuffles
// each run of equal-priority exercises independently.
func PriorityOrder(exercises []domain.RankableExercise, now time.Time, rng Rand) []domain.RankableExercise {
	ordered := slices.Clone(exercises)
	cmp := domain.Comparator(now)
	slices.SortStableFunc(ordered, cmp)

	for start := 0; start < len(ordered); {
		end := start + 1
		for end < len(ordered) && cmp(ordered[start], ordered[end]) == 0 {
			end++
		}
		bucket := ordered[start:end]
		rng.Shuffle(len(bucket), func(i, j int) {
			bucket[i], bucket[j] = bucket[j], bucket[i]
		})
		start = end
	}

	return ordered
}

// SelectBatch picks at most maxSize exercise ids from candidates for one session.
//
// Seventy percent of the batch (rounded down) comes from the front of the
// priority order. The rest is filled with unseen exercises first, then with
// whatever is next in priority order. The result is shuffled so it does not
// reveal the ranking. Duplicate candidates count once; maxSize <= 0 means
// DefaultBatchSize. Empty candidates give an empty batch.
func SelectBatch(
	candidates []domain.Translation,
	knowledge domain.LanguageKnowledge,
	maxSize int,
	now time.Time,
	rng Rand,
) []string {
	candidates = uniqueByID(candidates)
	if len(candidates) == 0 {
		return nil
	}
	if maxSize <= 0 {
		maxSize = DefaultBatchSize
	}

	amount := min(maxSize, len(candidates))
	ordered := PriorityOrder(knowledge.Rankables(candidates), now, rng)

	reinforce := amount * reinforcementTenths / 10
	picked := make([]domain.RankableExercise, 0, amount)
	picked = append(picked, ordered[:reinforce]...)
	rest := ordered[reinforce:]

	for len(picked) < amount {
		idx := slices.IndexFunc(rest, func(e domain.RankableExercise) bool { return e.Unseen })
		if idx < 0 {
			break
		}
		picked = append(picked, rest[idx])
		rest = slices.Delete(rest, idx, idx+1)
	}

	for len(picked) < amount && len(rest) > 0 {
		picked = append(picked, rest[0])
		rest = rest[1:]
	}

	rng.Shuffle(len(picked), func(i, j int) {
		picked[i], picked[j] = picked[j], picked[i]
	})

	batch := make([]string, len(picked))
	for i, e := range picked {
		batch[i] = e.ID
	}
	return batch
}

func uniqueByID(candidates []domain.Translation) []domain.Translation {
	seen := make(map[string]bool, len(candidates))
	result := make([]domain.Translation, 0, len(candidates))
	for _, c := range candidates {
		if seen[c.ID] {
			continue
		}
		seen[c.ID] = true
		result = append(result, c)
	}
	return result
}
