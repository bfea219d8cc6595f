package domain

import (
	"strings"

	"golang.org/x/text/language"
)

const (
	languagePairSeparator = " to "
	legacyExercisePrefix  = "tatoeba/"
)

// MergeLanguagePairBuckets folds buckets keyed "<from> to <to>" into the <to> bucket.
// Existing <to> records win over legacy ones. It returns the number of records moved.
func MergeLanguagePairBuckets(k Knowledge) int {
	moved := 0
	for key, bucket := range k {
		idx := strings.LastIndex(key, languagePairSeparator)
		if idx < 0 {
			continue
		}
		target := k.Language(key[idx+len(languagePairSeparator):])
		for id, rec := range bucket {
			if _, exists := target[id]; exists {
				continue
			}
			target[id] = rec
			moved++
		}
		delete(k, key)
	}
	return moved
}

// MigrateLocaleBuckets moves a two-letter bucket matching the course target
// language (for example "de" for "deu") onto the course's own bucket.
// Legacy exercise ids look like "tatoeba/<id>"; an id that is the source side
// of course links maps to every linked target sentence, an id that already is
// a target sentence maps to itself. Unmappable records are dropped with the
// legacy bucket. It returns the number of records written.
func MigrateLocaleBuckets(k Knowledge, course *Course) int {
	base, err := language.ParseBase(course.To)
	if err != nil {
		return 0
	}
	short := base.String()
	if short == course.To {
		return 0
	}
	legacy, ok := k[short]
	if !ok {
		return 0
	}

	targetIDs := make(map[string]bool)
	for _, s := range course.Sentences[course.To] {
		targetIDs[s.ID] = true
	}

	bucket := k.Language(course.To)
	written := 0
	for key, rec := range legacy {
		ref := strings.TrimPrefix(key, legacyExercisePrefix)
		for _, id := range legacyTargets(course, ref, targetIDs) {
			if _, exists := bucket[id]; exists {
				continue
			}
			bucket[id] = rec.Clone()
			written++
		}
	}
	delete(k, short)
	return written
}

func legacyTargets(course *Course, ref string, targetIDs map[string]bool) []string {
	var ids []string
	for _, link := range course.Links {
		if link.From() == ref {
			ids = append(ids, link.To())
		}
	}
	if len(ids) == 0 && targetIDs[ref] {
		ids = append(ids, ref)
	}
	return ids
}

// Clone returns a deep copy of the record, nil for nil
func (r *ExerciseRecord) Clone() *ExerciseRecord {
	if r == nil {
		return nil
	}
	return &ExerciseRecord{
		LastAnswersCorrect: append([]bool(nil), r.LastAnswersCorrect...),
		HiddenUntil:        r.HiddenUntil,
	}
}
