// Package answer decides whether a typed or picked answer matches a reference
// translation and offers word suggestions for typing.
package answer

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Matcher compares answers word by word, ignoring case and punctuation.
// It is safe for concurrent use.
type Matcher struct {
	fallback Segmenter
	byLang   map[string]Segmenter
}

// NewMatcher creates a matcher with the default segmenters.
// Japanese text is split with the IPA dictionary, everything else on
// Unicode word boundaries.
func NewMatcher() (*Matcher, error) {
	ja, err := newJapaneseSegmenter()
	if err != nil {
		return nil, err
	}
	return &Matcher{
		fallback: UnicodeSegmenter{},
		byLang:   map[string]Segmenter{"ja": ja},
	}, nil
}

// NewMatcherWithSegmenters creates a matcher that splits every language with
// fallback unless byLang holds a segmenter for its base language ("ja", "de").
func NewMatcherWithSegmenters(fallback Segmenter, byLang map[string]Segmenter) *Matcher {
	return &Matcher{fallback: fallback, byLang: byLang}
}

// Matches reports whether candidate equals reference once both are reduced to
// their lowercased, normalized words.
func (m *Matcher) Matches(candidate, reference, lang string) bool {
	return m.Normalize(candidate, lang) == m.Normalize(reference, lang)
}

// MatchesAny reports whether candidate matches one of references
func (m *Matcher) MatchesAny(candidate string, references []string, lang string) bool {
	normalized := m.Normalize(candidate, lang)
	for _, ref := range references {
		if normalized == m.Normalize(ref, lang) {
			return true
		}
	}
	return false
}

// Normalize keeps the words of text, lowercased for lang and NFC composed,
// joined by single spaces.
func (m *Matcher) Normalize(text, lang string) string {
	tag := language.Make(lang)
	lower := cases.Lower(tag)

	var words []string
	for _, seg := range m.segmenter(tag).Segment(norm.NFC.String(text)) {
		if !seg.WordLike {
			continue
		}
		words = append(words, norm.NFC.String(lower.String(seg.Text)))
	}
	return strings.Join(words, " ")
}

// Words returns the word-like segments of text
func (m *Matcher) Words(text, lang string) []string {
	var words []string
	for _, seg := range m.segmenter(language.Make(lang)).Segment(text) {
		if seg.WordLike {
			words = append(words, seg.Text)
		}
	}
	return words
}

func (m *Matcher) segmenter(tag language.Tag) Segmenter {
	base, _ := tag.Base()
	if s, ok := m.byLang[base.String()]; ok {
		return s
	}
	return m.fallback
}
