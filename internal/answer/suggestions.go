package answer

import (
	"strings"
)

// suggestedPunctuation lists the punctuation offered as typing suggestions
const suggestedPunctuation = `.¿?,!;"`

// Shuffler permutes n elements through swap
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// WordSuggestions returns the distinct words and punctuation marks of options
// in random order, for building a typed answer by tapping.
func (m *Matcher) WordSuggestions(options []string, lang string, rng Shuffler) []string {
	seen := make(map[string]bool)
	var suggestions []string
	add := func(s string) {
		if s == "" || seen[s] {
			return
		}
		seen[s] = true
		suggestions = append(suggestions, s)
	}

	for _, option := range options {
		for _, word := range m.Words(option, lang) {
			add(word)
		}
	}
	for _, option := range options {
		for _, r := range option {
			if strings.ContainsRune(suggestedPunctuation, r) {
				add(string(r))
			}
		}
	}

	rng.Shuffle(len(suggestions), func(i, j int) {
		suggestions[i], suggestions[j] = suggestions[j], suggestions[i]
	})
	return suggestions
}

// AppendSuggestion adds a tapped suggestion to the answer typed so far.
// Words are separated by a space, punctuation is glued to the previous word.
func AppendSuggestion(current, suggestion string) string {
	switch {
	case current == "":
		return suggestion
	case len([]rune(suggestion)) == 1 && strings.Contains(suggestedPunctuation, suggestion):
		return current + suggestion
	default:
		return current + " " + suggestion
	}
}
