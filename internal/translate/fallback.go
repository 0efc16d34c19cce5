package translate

import (
	"context"
	"strings"
)

// phraseTable is the fixed bilingual lookup for the fallback path.
var phraseTable = map[string]string{
	"ආයුබෝවන්": "hello",
	"කොහොමද":   "how are",
	"ඔබට":      "you",
	"මට":       "me",
	"මම":       "i am",
	"හොඳයි":    "good",
	"ඔව්":      "yes",
	"නැහැ":     "no",
	"කරුණාකර":  "please",
	"ස්තූතියි":  "thank you",
	"සුභ":      "good",
	"උදෑසනක්":  "morning",
	"දවසක්":    "day",
	"රාත්‍රියක්": "night",
	"සමාවෙන්න": "excuse me",
	"උදව්":     "help",
	"ඕනේ":      "need",
	"තේරෙනවා":  "understand",
	"නවත්තන්න": "stop",
	"පටන්":     "start",
	"ගන්න":     "take",
}

// Fallback translates word by word against the fixed phrase table. Unknown
// words pass through wrapped in bracket markers so untranslated content
// stays visible in the output.
type Fallback struct{}

// NewFallback creates the table-driven translator.
func NewFallback() *Fallback {
	return &Fallback{}
}

// Translate looks each word up in the phrase table, marks unmatched words
// as [word], applies contraction fixes, and capitalizes the result.
func (f *Fallback) Translate(_ context.Context, text string) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}

	out := make([]string, 0, len(words))
	for _, w := range words {
		core, punct := splitTrailingPunct(w)
		if en, ok := phraseTable[core]; ok {
			out = append(out, en+punct)
		} else {
			out = append(out, "["+core+"]"+punct)
		}
	}

	result := fixContractions(strings.Join(out, " "))
	return capitalizeFirst(result)
}

// Service reports the fallback variant.
func (f *Fallback) Service() string {
	return ServiceFallback
}

func splitTrailingPunct(w string) (core, punct string) {
	core = strings.TrimRight(w, "?!.,;:")
	return core, w[len(core):]
}
