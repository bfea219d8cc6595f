package scheduler

import (
	"drillbot/internal/domain"
)

const (
	lessonBias = 0.5
	lengthBias = 0.5

	minLengthRatio = 0.5
	maxLengthRatio = 1.5
)

// SampleDistractors picks up to count distinct wrong answers for target from
// the sentences of answerLanguage.
//
// Sentences linked to target (in either direction) and target itself are
// never offered. Each pick is drawn, with probability one half and only for
// the course target language, from the lessons holding a linked sentence; else
// with probability one half from sentences of similar length; else from every
// remaining sentence. When fewer than count candidates exist the result is
// shorter.
func SampleDistractors(
	target domain.Translation,
	count int,
	course *domain.Course,
	answerLanguage string,
	rng Rand,
) []domain.Translation {
	linked := course.LinkedIDs(target.ID)
	lessonIDs := lessonSentenceIDs(course, linked)

	excluded := make(map[string]bool, len(linked)+count+1)
	excluded[target.ID] = true
	for id := range linked {
		excluded[id] = true
	}

	var chosen []domain.Translation
	for len(chosen) < count {
		pool := remaining(course.Sentences[answerLanguage], excluded)
		if len(pool) == 0 {
			break
		}

		pick := drawDistractor(target, pool, lessonIDs, answerLanguage == course.To, rng)
		chosen = append(chosen, pick)
		excluded[pick.ID] = true
	}
	return chosen
}

func drawDistractor(
	target domain.Translation,
	pool []domain.Translation,
	lessonIDs map[string]bool,
	lessonsApply bool,
	rng Rand,
) domain.Translation {
	if chance(rng, lessonBias) && lessonsApply {
		inLessons := filter(pool, func(t domain.Translation) bool { return lessonIDs[t.ID] })
		if len(inLessons) > 0 {
			return pickRandom(inLessons, rng)
		}
	}

	if chance(rng, lengthBias) {
		targetLength := float64(target.Length())
		similar := filter(pool, func(t domain.Translation) bool {
			if targetLength == 0 {
				return false
			}
			ratio := float64(t.Length()) / targetLength
			return ratio > minLengthRatio && ratio < maxLengthRatio
		})
		if len(similar) > 0 {
			return pickRandom(similar, rng)
		}
	}

	return pickRandom(pool, rng)
}

// lessonSentenceIDs collects the exercises of every lesson that contains one of ids
func lessonSentenceIDs(course *domain.Course, ids map[string]bool) map[string]bool {
	result := make(map[string]bool)
	for _, lesson := range course.Lessons {
		matches := false
		for _, id := range lesson.Exercises {
			if ids[id] {
				matches = true
				break
			}
		}
		if !matches {
			continue
		}
		for _, id := range lesson.Exercises {
			result[id] = true
		}
	}
	return result
}

func remaining(sentences []domain.Translation, excluded map[string]bool) []domain.Translation {
	return filter(sentences, func(t domain.Translation) bool { return !excluded[t.ID] })
}

func filter(ts []domain.Translation, keep func(domain.Translation) bool) []domain.Translation {
	var result []domain.Translation
	for _, t := range ts {
		if keep(t) {
			result = append(result, t)
		}
	}
	return result
}

// PickRandom returns a uniformly chosen element of ts, which must not be empty
func PickRandom(ts []domain.Translation, rng Rand) domain.Translation {
	return pickRandom(ts, rng)
}

func pickRandom(ts []domain.Translation, rng Rand) domain.Translation {
	return ts[rng.Intn(len(ts))]
}
