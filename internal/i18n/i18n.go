// Package i18n holds the translation table and language negotiation.
package i18n

import (
	"strings"

	"golang.org/x/text/language"

	"edupath/internal/models"
	"edupath/internal/utils"
)

// Catalog resolves (language, key) pairs. The zero value is not usable; use
// Default.
type Catalog struct {
	entries map[models.Language]map[string]string
}

// Default returns the built-in table.
func Default() *Catalog { return &Catalog{entries: catalog} }

// Lookup returns the text for key in lang, then English, then the key itself.
func (c *Catalog) Lookup(lang models.Language, key string) string {
	if s, ok := c.entries[lang][key]; ok {
		return s
	}
	if s, ok := c.entries[models.LangEnglish][key]; ok {
		return s
	}
	return key
}

// Has reports whether lang defines key without falling back.
func (c *Catalog) Has(lang models.Language, key string) bool {
	_, ok := c.entries[lang][key]
	return ok
}

var (
	supportedTags = []language.Tag{
		language.English,
		language.Hindi,
		language.MustParse("ks"),
	}
	matcher = language.NewMatcher(supportedTags)
)

// Parse maps a user-supplied code ("hi-IN", "ks_IN", "EN") to a supported
// language.
func Parse(code string) (models.Language, error) {
	code = strings.TrimSpace(strings.ReplaceAll(code, "_", "-"))
	if code == "" {
		return "", utils.ErrUnsupportedLanguage
	}
	tag, err := language.Parse(code)
	if err != nil {
		return "", utils.ErrUnsupportedLanguage
	}
	_, idx, conf := matcher.Match(tag)
	if conf < language.High {
		return "", utils.ErrUnsupportedLanguage
	}
	return models.Languages[idx], nil
}

// Tag returns the BCP-47 tag for a supported language.
func Tag(lang models.Language) language.Tag {
	for i, l := range models.Languages {
		if l == lang {
			return supportedTags[i]
		}
	}
	return language.English
}
