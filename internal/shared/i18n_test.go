package shared

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func TestTranslatorPrinter(t *testing.T) {
	tr := NewTranslator("tr")

	req := httptest.NewRequest("GET", "/", nil)
	assert.Equal(t, "Geçersiz ID", tr.Printer(req).Sprintf("invalid ID"))

	req.Header.Set("Accept-Language", "en-GB,en;q=0.8")
	assert.Equal(t, "invalid ID", tr.Printer(req).Sprintf("invalid ID"))

	req.Header.Set("Accept-Language", "tr-TR")
	assert.Equal(t, "API isteği başarısız: 502 - Bad Gateway",
		tr.Printer(req).Sprintf("upstream request failed: %d - %s", 502, "Bad Gateway"))
}

func TestTranslatorFallback(t *testing.T) {
	assert.Equal(t, language.English, NewTranslator("en").Fallback())
	assert.Equal(t, language.Turkish, NewTranslator("xx-invalid").Fallback())
	assert.Equal(t, language.English, (*Translator)(nil).Fallback())

	req := httptest.NewRequest("GET", "/", nil)
	assert.Equal(t, "invalid ID", NewTranslator("en").Printer(req).Sprintf("invalid ID"))
}
