package domain

import "net/url"

var licenceNames = map[string]string{
	"https://creativecommons.org/licenses/by-sa/3.0/": "CC BY-SA 3.0",
	"https://creativecommons.org/licenses/by/2.0/fr/": "Attribution 2.0 France (CC BY 2.0 FR)",
}

// Definition is the detail view of one sentence and its accepted translations
type Definition struct {
	Sentence            Translation
	Language            string
	Translations        []Translation
	TranslationLanguage string
}

// Definition builds the detail view of sentence id.
// Translations come from the other course language.
func (c *Course) Definition(id string) (Definition, bool) {
	sentence, ok := c.Sentence(id)
	if !ok {
		return Definition{}, false
	}

	lang, other := c.To, c.From
	if c.Language(id) == c.From {
		lang, other = c.From, c.To
	}

	return Definition{
		Sentence:            sentence,
		Language:            lang,
		Translations:        c.Linked(id, other),
		TranslationLanguage: other,
	}, true
}

// LicenceName returns a display name for a licence URL
func LicenceName(licence string) string {
	if name, ok := licenceNames[licence]; ok {
		return name
	}
	return licence
}

// SourceHost returns the host of a source URL, or the raw value if it does not parse
func SourceHost(source string) string {
	u, err := url.Parse(source)
	if err != nil || u.Host == "" {
		return source
	}
	return u.Host
}
