// Package translate converts recognized source-language text to English.
// Two variants implement the same capability: a remote service client and a
// deterministic table-driven fallback. The variant is selected once at
// construction from configuration validity; translation never fails outward.
package translate

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"

	"live-translation-relay/internal/config"
	"live-translation-relay/internal/observability/logging"
)

// Service labels reported by Translator.Service.
const (
	ServiceExternal = "external"
	ServiceFallback = "fallback"
)

// Translator converts one text segment to the target language. All internal
// errors degrade to the fallback table; the result is always usable.
type Translator interface {
	// Translate returns the translated text. Deterministic: the same input
	// under the same configuration state yields the same output.
	Translate(ctx context.Context, text string) string

	// Service reports which variant serves translations.
	Service() string
}

// New selects the translator variant from configuration. A missing or
// placeholder credential selects the fallback table.
func New(ctx context.Context, cfg *config.Config) Translator {
	logger := logging.WithComponent("translate")

	if !cfg.TranslatorConfigured() {
		logger.Warn().Msg("Translation service not configured, using fallback table")
		return NewFallback()
	}

	remote, err := NewRemote(ctx, cfg.Translator.Key, cfg.Translator.SourceLanguage, cfg.Translator.TargetLanguage)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to create remote translator, using fallback table")
		return NewFallback()
	}
	return remote
}

// corrections fixes known misrecognition artifacts in translated output.
// Ordered: substitutions apply first to last on the lowercased text.
var corrections = []struct{ from, to string }{
	{"tank you", "thank you"},
	{"how are you too", "how are you"},
	{"i am pine", "i am fine"},
	{"good mourning", "good morning"},
	{"excuse my", "excuse me"},
}

// properNouns are re-capitalized after the lowercase substitution pass.
var properNouns = []string{
	"English",
	"Sinhala",
	"Colombo",
	"Kandy",
}

// contractions are fixed grammar touches applied to fallback output.
var contractions = []struct{ from, to string }{
	{"do not", "don't"},
	{"can not", "can't"},
	{"i am", "I'm"},
	{"it is", "it's"},
	{"you are", "you're"},
	{"we are", "we're"},
}

// postProcess normalizes remote translation output: lowercase phrase
// corrections, then capitalization of the first letter and proper nouns.
func postProcess(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	for _, c := range corrections {
		s = strings.ReplaceAll(s, c.from, c.to)
	}
	s = capitalizeFirst(s)
	for _, n := range properNouns {
		s = strings.ReplaceAll(s, strings.ToLower(n), n)
	}
	return s
}

func fixContractions(text string) string {
	for _, c := range contractions {
		text = strings.ReplaceAll(text, c.from, c.to)
	}
	return text
}

func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}
