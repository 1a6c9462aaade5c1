package i18n

import (
	"errors"
	"testing"

	"edupath/internal/models"
	"edupath/internal/utils"
)

func TestLookupFallback(t *testing.T) {
	c := Default()

	if got := c.Lookup(models.LangHindi, "tab.overview"); got != "अवलोकन" {
		t.Fatalf("hindi overview = %q", got)
	}
	if c.Has(models.LangKashmiri, "validation.role") {
		t.Fatal("kashmiri table should not define validation.role")
	}
	if got := c.Lookup(models.LangKashmiri, "validation.role"); got != c.Lookup(models.LangEnglish, "validation.role") {
		t.Fatalf("expected english fallback, got %q", got)
	}
	if got := c.Lookup(models.LangHindi, "no.such.key"); got != "no.such.key" {
		t.Fatalf("expected key fallback, got %q", got)
	}
}

func TestEnglishCoversEveryKey(t *testing.T) {
	for lang, entries := range catalog {
		for key := range entries {
			if _, ok := catalog[models.LangEnglish][key]; !ok {
				t.Errorf("%s defines %q which english lacks", lang, key)
			}
		}
	}
}

func TestParse(t *testing.T) {
	cases := map[string]models.Language{
		"en":    models.LangEnglish,
		"EN":    models.LangEnglish,
		"en-US": models.LangEnglish,
		"hi":    models.LangHindi,
		"hi-IN": models.LangHindi,
		"ks":    models.LangKashmiri,
		"ks_IN": models.LangKashmiri,
	}
	for in, want := range cases {
		got, err := Parse(in)
		if err != nil || got != want {
			t.Errorf("Parse(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	for _, in := range []string{"", "fr", "not a tag"} {
		if _, err := Parse(in); !errors.Is(err, utils.ErrUnsupportedLanguage) {
			t.Errorf("Parse(%q) err = %v", in, err)
		}
	}
}
