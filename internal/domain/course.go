package domain

import (
	"sort"
	"strings"
	"sync"
	"time"
	"unicode/utf8"
)

// Translation is one sentence in one language
type Translation struct {
	ID      string `json:"id" validate:"required"`
	Text    string `json:"text" validate:"required"`
	Author  string `json:"author,omitempty"`
	Source  string `json:"source,omitempty"`
	Licence string `json:"licence,omitempty"`
}

// Length returns the text length in runes
func (t Translation) Length() int {
	return utf8.RuneCountInString(t.Text)
}

// Link pairs a from-language sentence id with a to-language sentence id.
// It is serialized as a two-element JSON array.
type Link [2]string

// From returns the from-language sentence id
func (l Link) From() string { return l[0] }

// To returns the to-language sentence id
func (l Link) To() string { return l[1] }

// Lesson is a curated subset of target-language exercise ids
type Lesson struct {
	Title       map[string]string `json:"title" validate:"required"`
	Description map[string]string `json:"description,omitempty"`
	Order       *int              `json:"order,omitempty"`
	Exercises   []string          `json:"exercises" validate:"required,min=1,dive,required"`
}

// SortOrder returns the display order, 0 when unset
func (l Lesson) SortOrder() int {
	if l.Order == nil {
		return 0
	}
	return *l.Order
}

// Course is the read-only dataset for one language pair
type Course struct {
	From      string                   `json:"from" validate:"required"`
	To        string                   `json:"to" validate:"required,nefield=From"`
	Lessons   []Lesson                 `json:"lessons" validate:"dive"`
	Sentences map[string][]Translation `json:"sentences" validate:"required,dive,dive"`
	Links     []Link                   `json:"links"`

	indexOnce sync.Once
	byID      map[string]Translation
}

// CourseMeta describes a course in the course index
type CourseMeta struct {
	From      string    `json:"from"`
	To        string    `json:"to"`
	Lessons   int       `json:"lessons"`
	Exercises int       `json:"exercises"`
	BuildTime time.Time `json:"buildTime"`
}

// Key returns the course key used in the course index
func (m CourseMeta) Key() string {
	return CourseKey(m.From, m.To)
}

// CourseKey builds the "<from> to <to>" key of a language pair
func CourseKey(from, to string) string {
	return from + " to " + to
}

// Key returns the course key used in the course index
func (c *Course) Key() string {
	return CourseKey(c.From, c.To)
}

// Exercises returns all target-language sentences
func (c *Course) Exercises() []Translation {
	return c.Sentences[c.To]
}

// Sentence looks a sentence up by id in either language
func (c *Course) Sentence(id string) (Translation, bool) {
	c.indexOnce.Do(func() {
		c.byID = make(map[string]Translation)
		for _, sentences := range c.Sentences {
			for _, s := range sentences {
				c.byID[s.ID] = s
			}
		}
	})
	t, ok := c.byID[id]
	return t, ok
}

// Language returns the language of a sentence id, or "" if it is unknown
func (c *Course) Language(id string) string {
	for lang, sentences := range c.Sentences {
		for _, s := range sentences {
			if s.ID == id {
				return lang
			}
		}
	}
	return ""
}

// LinkedIDs returns the ids linked to id in either link direction
func (c *Course) LinkedIDs(id string) map[string]bool {
	linked := make(map[string]bool)
	for _, link := range c.Links {
		if link.From() == id {
			linked[link.To()] = true
		}
		if link.To() == id {
			linked[link.From()] = true
		}
	}
	return linked
}

// Linked returns the sentences of language lang linked to id
func (c *Course) Linked(id, lang string) []Translation {
	linked := c.LinkedIDs(id)
	var result []Translation
	for _, s := range c.Sentences[lang] {
		if linked[s.ID] {
			result = append(result, s)
		}
	}
	return result
}

// SortedLessons returns the lessons ordered by their display order.
// Lessons without an order sort as 0; ties keep file order.
func (c *Course) SortedLessons() []Lesson {
	lessons := make([]Lesson, len(c.Lessons))
	copy(lessons, c.Lessons)
	sort.SliceStable(lessons, func(i, j int) bool {
		return lessons[i].SortOrder() < lessons[j].SortOrder()
	})
	return lessons
}

// LessonTitle picks the lesson title in the target, source or English language
func (c *Course) LessonTitle(l Lesson) string {
	return pickLocalized(l.Title, c.To, c.From, "eng")
}

// LessonDescription picks the lesson description in the target or source language
func (c *Course) LessonDescription(l Lesson) string {
	return pickLocalized(l.Description, c.To, c.From)
}

// LessonExercises resolves the lesson exercise ids to target-language sentences.
// Ids missing from the course are skipped.
func (c *Course) LessonExercises(l Lesson) []Translation {
	var result []Translation
	for _, id := range l.Exercises {
		if t, ok := c.Sentence(id); ok {
			result = append(result, t)
		}
	}
	return result
}

// Contributor is an author with the number of course sentences they wrote
type Contributor struct {
	Author    string
	Sentences int
}

// Contributors ranks authors of both course languages by sentence count.
// A limit of 0 or less returns everyone.
func (c *Course) Contributors(limit int) []Contributor {
	counts := make(map[string]int)
	for _, lang := range []string{c.From, c.To} {
		for _, s := range c.Sentences[lang] {
			if s.Author == "" {
				continue
			}
			counts[s.Author]++
		}
	}

	result := make([]Contributor, 0, len(counts))
	for author, n := range counts {
		result = append(result, Contributor{Author: author, Sentences: n})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Sentences != result[j].Sentences {
			return result[i].Sentences > result[j].Sentences
		}
		return result[i].Author < result[j].Author
	})

	if limit > 0 && len(result) > limit {
		return result[:limit]
	}
	return result
}

// WordCount counts space separated words of a sentence
func WordCount(text string) int {
	return len(strings.Split(text, " "))
}

func pickLocalized(values map[string]string, langs ...string) string {
	for _, lang := range langs {
		if v := values[lang]; v != "" {
			return v
		}
	}
	return ""
}
