// Package i18n holds the bot's reply strings in the two supported languages
// and a small placeholder-interpolation helper.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"
)

// Language is one of the two supported language tags.
type Language string

const (
	LangID Language = "id"
	LangEN Language = "en"
)

// Default is the language used when nothing better is known.
const Default = LangID

//go:embed translations/*.json
var translationFS embed.FS

// Parse normalizes a language tag, falling back to the default.
func Parse(s string) Language {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "en":
		return LangEN
	case "id":
		return LangID
	default:
		return Default
	}
}

// Bundle holds the per-language dictionaries loaded from the embedded files.
type Bundle struct {
	dicts map[Language]map[string]string
}

// NewBundle parses the embedded translation files.
func NewBundle() (*Bundle, error) {
	b := &Bundle{dicts: make(map[Language]map[string]string)}
	for _, lang := range []Language{LangID, LangEN} {
		raw, err := translationFS.ReadFile(fmt.Sprintf("translations/%s.json", lang))
		if err != nil {
			return nil, fmt.Errorf("reading translations for %q: %w", lang, err)
		}
		dict := make(map[string]string)
		if err := json.Unmarshal(raw, &dict); err != nil {
			return nil, fmt.Errorf("parsing translations for %q: %w", lang, err)
		}
		b.dicts[lang] = dict
	}
	return b, nil
}

// T returns a Translator bound to lang, falling back to the default language
// for unknown tags.
func (b *Bundle) T(lang Language) *Translator {
	dict, ok := b.dicts[lang]
	if !ok {
		dict = b.dicts[Default]
		lang = Default
	}
	return &Translator{lang: lang, dict: dict}
}

// Translator resolves keys in one language.
type Translator struct {
	lang Language
	dict map[string]string
}

func (t *Translator) Lang() Language { return t.lang }

// Get returns the string for key, or the key itself when missing so that a
// gap in the dictionaries stays visible in chat instead of sending nothing.
func (t *Translator) Get(key string) string {
	if s, ok := t.dict[key]; ok {
		return s
	}
	return key
}

// Format resolves key and replaces {{var}} placeholders from vars.
func (t *Translator) Format(key string, vars map[string]string) string {
	s := t.Get(key)
	for k, v := range vars {
		s = strings.ReplaceAll(s, "{{"+k+"}}", v)
	}
	return s
}

// Label translates a category or type label, e.g. "income" -> "Pemasukan".
func (t *Translator) Label(key string) string {
	if s, ok := t.dict["label_"+key]; ok {
		return s
	}
	return key
}
