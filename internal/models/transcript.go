// Package models defines the data structures shared across the pipeline.
package models

import "time"

// Transcript is one committed original/translated pair for a session.
// Immutable once created.
type Transcript struct {
	Timestamp          time.Time `json:"timestamp"`
	OriginalText       string    `json:"originalText"`
	OriginalLanguage   string    `json:"originalLanguage"`
	TranslatedText     string    `json:"translatedText"`
	TranslatedLanguage string    `json:"translatedLanguage"`
	SessionID          string    `json:"sessionId"`
}

// EventKind tags a recognition event variant.
type EventKind int

const (
	// EventPartial is a provisional recognition result.
	EventPartial EventKind = iota
	// EventFinal is the committed text for one utterance.
	EventFinal
	// EventError reports a recognizer failure; the session survives it.
	EventError
)

// String returns the string representation of the kind.
func (k EventKind) String() string {
	switch k {
	case EventPartial:
		return "partial"
	case EventFinal:
		return "final"
	case EventError:
		return "error"
	default:
		return "unknown"
	}
}

// RecognitionEvent is a transient message produced by a recognizer adapter
// and consumed exactly once by the dispatcher owning its session.
type RecognitionEvent struct {
	Kind       EventKind
	SessionID  string
	Text       string
	Confidence float64
	Message    string // error detail, set only for EventError
	Timestamp  time.Time
}
