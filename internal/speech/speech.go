// Package speech defines the interface for speech recognizer adapters.
package speech

import "context"

// Callback receives recognition results from the recognizer. Implementations
// must be safe to invoke from the recognizer's own callback context; session
// logic never runs inline here.
type Callback interface {
	// OnPartial is called when an interim/partial result is received.
	OnPartial(text string)

	// OnFinal is called when a final result is received.
	OnFinal(text string, confidence float64)

	// OnError is called when an error occurs during recognition.
	OnError(err error)
}

// Factory constructs a fresh recognizer adapter for one session. The
// variant (remote or scripted) is selected once at construction.
type Factory func(ctx context.Context) Adapter

// Adapter defines the duplex audio-to-text contract for one session.
type Adapter interface {
	// Start begins a streaming recognition session.
	Start(ctx context.Context, cb Callback) error

	// SendAudio forwards raw audio bytes to the recognizer's input stream
	// unmodified. No buffering, framing, or resampling happens here.
	SendAudio(ctx context.Context, audio []byte) error

	// Close halts recognition and releases resources. Idempotent: closing
	// twice, or a never-started adapter, is a no-op.
	Close() error
}
