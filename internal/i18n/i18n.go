// Package i18n provides the user-facing message bundles.
// Bundles are embedded JSON files keyed by language; the language is read
// from a client-side cookie with a configurable fallback. This mirrors the
// locale handling the HTML pages were written for: the server keeps no
// per-user locale state.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"net/http"
)

//go:embed locales/*.json
var localesFS embed.FS

// Bundle holds the loaded message tables for all supported languages.
type Bundle struct {
	messages map[string]map[string]string
	fallback string
}

// NewBundle loads the embedded locales.
// fallback must be one of the embedded languages.
func NewBundle(fallback string) (*Bundle, error) {
	entries, err := localesFS.ReadDir("locales")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded locales: %w", err)
	}

	b := &Bundle{
		messages: make(map[string]map[string]string),
		fallback: fallback,
	}

	for _, entry := range entries {
		data, err := localesFS.ReadFile("locales/" + entry.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to read locale %s: %w", entry.Name(), err)
		}

		var table map[string]string
		if err := json.Unmarshal(data, &table); err != nil {
			return nil, fmt.Errorf("failed to parse locale %s: %w", entry.Name(), err)
		}

		lang := entry.Name()[:len(entry.Name())-len(".json")]
		b.messages[lang] = table
	}

	if _, ok := b.messages[fallback]; !ok {
		return nil, fmt.Errorf("fallback language %q is not embedded", fallback)
	}

	return b, nil
}

// Supported reports whether lang has an embedded message table.
func (b *Bundle) Supported(lang string) bool {
	_, ok := b.messages[lang]
	return ok
}

// T returns the message for key in the given language.
// Unknown languages fall back to the bundle fallback; unknown keys return
// the key itself so a missing translation is visible instead of blank.
func (b *Bundle) T(lang, key string) string {
	table, ok := b.messages[lang]
	if !ok {
		table = b.messages[b.fallback]
	}
	if msg, ok := table[key]; ok {
		return msg
	}
	if msg, ok := b.messages[b.fallback][key]; ok {
		return msg
	}
	return key
}

// Language extracts the preferred language from the request cookie,
// falling back to the bundle default.
func (b *Bundle) Language(r *http.Request, cookieName string) string {
	cookie, err := r.Cookie(cookieName)
	if err != nil || !b.Supported(cookie.Value) {
		return b.fallback
	}
	return cookie.Value
}
