package models

import "time"

// Frame type tags for the duplex connection, client to server.
const (
	FrameTypeStartTranscription = "start_transcription"
	FrameTypeStopTranscription  = "stop_transcription"
)

// Frame type tags for the duplex connection, server to client.
const (
	FrameTypeTranscriptionStarted = "transcription_started"
	FrameTypePartialResult        = "partial_result"
	FrameTypeFinalResult          = "final_result"
	FrameTypeError                = "error"
	FrameTypeTranscriptionStopped = "transcription_stopped"
)

// ControlFrame is an inbound JSON control message.
type ControlFrame struct {
	Type string `json:"type"`
}

// StartedFrame acknowledges a started transcription session.
type StartedFrame struct {
	Type      string `json:"type"`
	SessionID string `json:"session_id"`
	Message   string `json:"message,omitempty"`
}

// PartialFrame carries an untranslated interim result.
type PartialFrame struct {
	Type      string `json:"type"`
	Text      string `json:"text"`
	Language  string `json:"language"`
	Timestamp string `json:"timestamp"`
}

// TextBlock is one language side of a final result.
type TextBlock struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

// FinalFrame carries a committed original/translated pair.
type FinalFrame struct {
	Type       string    `json:"type"`
	SessionID  string    `json:"session_id"`
	Timestamp  string    `json:"timestamp"`
	Original   TextBlock `json:"original"`
	Translated TextBlock `json:"translated"`
}

// ErrorFrame reports a recoverable error to the client.
type ErrorFrame struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// StoppedFrame acknowledges a stopped transcription session.
type StoppedFrame struct {
	Type    string `json:"type"`
	Message string `json:"message,omitempty"`
}

// NewPartialFrame builds the outbound frame for a partial result.
func NewPartialFrame(text, language string, ts time.Time) PartialFrame {
	return PartialFrame{
		Type:      FrameTypePartialResult,
		Text:      text,
		Language:  language,
		Timestamp: ts.Format(time.RFC3339),
	}
}

// NewFinalFrame builds the outbound frame for a committed transcript.
func NewFinalFrame(t Transcript) FinalFrame {
	return FinalFrame{
		Type:      FrameTypeFinalResult,
		SessionID: t.SessionID,
		Timestamp: t.Timestamp.Format(time.RFC3339),
		Original: TextBlock{
			Text:     t.OriginalText,
			Language: t.OriginalLanguage,
		},
		Translated: TextBlock{
			Text:     t.TranslatedText,
			Language: t.TranslatedLanguage,
		},
	}
}

// NewErrorFrame builds an outbound error frame.
func NewErrorFrame(message string) ErrorFrame {
	return ErrorFrame{
		Type:    FrameTypeError,
		Message: message,
	}
}
