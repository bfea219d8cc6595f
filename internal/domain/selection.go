package domain

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// SelectionKind names a way of choosing candidate exercises from a course
type SelectionKind string

const (
	SelectAll      SelectionKind = "all"
	SelectLesson   SelectionKind = "lesson"
	SelectTraining SelectionKind = "training"
	SelectShort    SelectionKind = "short"
	SelectFewWords SelectionKind = "few_words"
	SelectNew      SelectionKind = "new"
)

// dynamicLessonSize caps the short and few-words selections
const dynamicLessonSize = 100

// DynamicSelections lists the selections that are computed rather than curated
var DynamicSelections = []SelectionKind{SelectTraining, SelectShort, SelectFewWords, SelectNew}

// Selection identifies a candidate list: a curated lesson or a dynamic one
type Selection struct {
	Kind SelectionKind
	// Lesson is the index into Course.SortedLessons for SelectLesson
	Lesson int
}

// String encodes the selection, e.g. "lesson:2" or "training"
func (s Selection) String() string {
	if s.Kind == SelectLesson {
		return fmt.Sprintf("%s:%d", s.Kind, s.Lesson)
	}
	return string(s.Kind)
}

// ParseSelection decodes the output of Selection.String
func ParseSelection(raw string) (Selection, error) {
	kind, arg, hasArg := strings.Cut(raw, ":")
	switch SelectionKind(kind) {
	case SelectLesson:
		if !hasArg {
			return Selection{}, fmt.Errorf("lesson selection without index: %q", raw)
		}
		idx, err := strconv.Atoi(arg)
		if err != nil || idx < 0 {
			return Selection{}, fmt.Errorf("invalid lesson index %q", arg)
		}
		return Selection{Kind: SelectLesson, Lesson: idx}, nil
	case SelectAll, SelectTraining, SelectShort, SelectFewWords, SelectNew:
		if hasArg {
			return Selection{}, fmt.Errorf("unexpected argument in selection %q", raw)
		}
		return Selection{Kind: SelectionKind(kind)}, nil
	}
	return Selection{}, fmt.Errorf("unknown selection %q", raw)
}

// Candidates resolves a selection to target-language exercises
func (c *Course) Candidates(sel Selection, k LanguageKnowledge) ([]Translation, error) {
	exercises := c.Exercises()

	switch sel.Kind {
	case SelectAll:
		return exercises, nil

	case SelectLesson:
		lessons := c.SortedLessons()
		if sel.Lesson < 0 || sel.Lesson >= len(lessons) {
			return nil, fmt.Errorf("lesson %d out of range (%d lessons)", sel.Lesson, len(lessons))
		}
		return c.LessonExercises(lessons[sel.Lesson]), nil

	case SelectTraining:
		return filterByStatus(exercises, k, StatusWrong, StatusSomewhat), nil

	case SelectNew:
		return filterByStatus(exercises, k, StatusUnseen), nil

	case SelectShort:
		return shortestBy(exercises, func(t Translation) int { return t.Length() }), nil

	case SelectFewWords:
		return shortestBy(exercises, func(t Translation) int { return WordCount(t.Text) }), nil
	}

	return nil, fmt.Errorf("unknown selection kind %q", sel.Kind)
}

func filterByStatus(exercises []Translation, k LanguageKnowledge, statuses ...ExerciseStatus) []Translation {
	var result []Translation
	for _, e := range exercises {
		status := k.Status(e.ID)
		for _, s := range statuses {
			if status == s {
				result = append(result, e)
				break
			}
		}
	}
	return result
}

func shortestBy(exercises []Translation, size func(Translation) int) []Translation {
	sorted := make([]Translation, len(exercises))
	copy(sorted, exercises)
	sort.SliceStable(sorted, func(i, j int) bool {
		return size(sorted[i]) < size(sorted[j])
	})
	if len(sorted) > dynamicLessonSize {
		sorted = sorted[:dynamicLessonSize]
	}
	return sorted
}
