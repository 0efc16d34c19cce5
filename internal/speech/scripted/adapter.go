// Package scripted provides a deterministic fallback recognizer used when
// the remote speech service is unconfigured. It guarantees observable
// pipeline behavior without live credentials: one partial result, then one
// final result, on a fixed schedule.
package scripted

import (
	"context"
	"sync"
	"time"

	"live-translation-relay/internal/speech"
)

// Canned phrases emitted by the scripted sequence.
const (
	PartialText = "කොහොමද"
	FinalText   = "කොහොමද ඔබට?"

	finalConfidence = 0.90
)

// Default emission schedule.
const (
	DefaultPartialDelay = 2 * time.Second
	DefaultFinalDelay   = 1 * time.Second
)

// Adapter implements speech.Adapter with a scripted result sequence.
type Adapter struct {
	mu           sync.Mutex
	cb           speech.Callback
	partialDelay time.Duration
	finalDelay   time.Duration
	audioBytes   int64
	started      bool
	closed       bool
}

// New creates a scripted adapter with the default schedule.
func New() *Adapter {
	return NewWithDelays(DefaultPartialDelay, DefaultFinalDelay)
}

// NewWithDelays creates a scripted adapter with a custom emission schedule.
func NewWithDelays(partialDelay, finalDelay time.Duration) *Adapter {
	return &Adapter{
		partialDelay: partialDelay,
		finalDelay:   finalDelay,
	}
}

// Start begins the scripted sequence: after partialDelay one partial is
// emitted, after a further finalDelay one final is emitted.
func (a *Adapter) Start(ctx context.Context, cb speech.Callback) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.started {
		return nil
	}
	a.started = true
	a.cb = cb

	go a.run(ctx)
	return nil
}

func (a *Adapter) run(ctx context.Context) {
	select {
	case <-time.After(a.partialDelay):
	case <-ctx.Done():
		return
	}
	a.emit(func(cb speech.Callback) { cb.OnPartial(PartialText) })

	select {
	case <-time.After(a.finalDelay):
	case <-ctx.Done():
		return
	}
	a.emit(func(cb speech.Callback) { cb.OnFinal(FinalText, finalConfidence) })
}

func (a *Adapter) emit(fn func(speech.Callback)) {
	a.mu.Lock()
	cb := a.cb
	closed := a.closed
	a.mu.Unlock()

	if closed || cb == nil {
		return
	}
	fn(cb)
}

// SendAudio accepts and counts audio bytes; the scripted sequence does not
// consume them.
func (a *Adapter) SendAudio(ctx context.Context, audio []byte) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return nil
	}
	a.audioBytes += int64(len(audio))
	return nil
}

// AudioBytes returns the total audio bytes received.
func (a *Adapter) AudioBytes() int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.audioBytes
}

// Close halts the scripted sequence. Idempotent.
func (a *Adapter) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closed = true
	return nil
}
