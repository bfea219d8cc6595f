package answer

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"
	"github.com/rivo/uniseg"
)

// Segment is one piece of a segmented sentence
type Segment struct {
	Text     string
	WordLike bool
}

// Segmenter splits text into words and the separators between them
type Segmenter interface {
	Segment(text string) []Segment
}

// UnicodeSegmenter splits on UAX #29 word boundaries
type UnicodeSegmenter struct{}

func (UnicodeSegmenter) Segment(text string) []Segment {
	var segments []Segment
	state := -1
	for len(text) > 0 {
		var word string
		word, text, state = uniseg.FirstWordInString(text, state)
		segments = append(segments, Segment{Text: word, WordLike: isWordLike(word)})
	}
	return segments
}

// japaneseSegmenter splits unspaced Japanese text with a morphological dictionary
type japaneseSegmenter struct {
	t *tokenizer.Tokenizer
}

func newJapaneseSegmenter() (*japaneseSegmenter, error) {
	t, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, fmt.Errorf("failed to create japanese tokenizer: %w", err)
	}
	return &japaneseSegmenter{t: t}, nil
}

func (s *japaneseSegmenter) Segment(text string) []Segment {
	tokens := s.t.Tokenize(text)
	segments := make([]Segment, 0, len(tokens))
	for _, token := range tokens {
		if token.Class == tokenizer.DUMMY {
			continue
		}
		if strings.TrimSpace(token.Surface) == "" {
			segments = append(segments, Segment{Text: token.Surface})
			continue
		}
		segments = append(segments, Segment{Text: token.Surface, WordLike: isWordLike(token.Surface)})
	}
	return segments
}

// isWordLike reports whether s holds at least one letter or digit
func isWordLike(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			return true
		}
	}
	return false
}
