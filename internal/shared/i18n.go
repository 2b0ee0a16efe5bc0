package shared

import (
	"net/http"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var supportedLocales = []language.Tag{language.Turkish, language.English}

// Translator selects a message printer per request based on Accept-Language.
type Translator struct {
	tags     []language.Tag
	matcher  language.Matcher
	fallback language.Tag
}

// NewTranslator builds a Translator preferring defaultLocale when the client
// expresses no usable preference. Unknown locales fall back to Turkish.
func NewTranslator(defaultLocale string) *Translator {
	fallback := language.Turkish
	if tag, err := language.Parse(defaultLocale); err == nil {
		base, _ := tag.Base()
		for _, supported := range supportedLocales {
			if sb, _ := supported.Base(); sb == base {
				fallback = supported
				break
			}
		}
	}
	tags := []language.Tag{fallback}
	for _, tag := range supportedLocales {
		if tag != fallback {
			tags = append(tags, tag)
		}
	}
	return &Translator{tags: tags, matcher: language.NewMatcher(tags), fallback: fallback}
}

// Printer returns the printer matching the request language.
func (t *Translator) Printer(r *http.Request) *message.Printer {
	if t == nil {
		return message.NewPrinter(language.English)
	}
	if r == nil {
		return message.NewPrinter(t.fallback)
	}
	// The matched index is used instead of the returned tag, which may carry
	// region extensions the catalog lookup does not resolve.
	_, idx := language.MatchStrings(t.matcher, r.Header.Get("Accept-Language"))
	return message.NewPrinter(t.tags[idx])
}

// Fallback reports the locale used when no preference matches.
func (t *Translator) Fallback() language.Tag {
	if t == nil {
		return language.English
	}
	return t.fallback
}
