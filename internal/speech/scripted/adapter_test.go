package scripted

import (
	"context"
	"sync"
	"testing"
	"time"
)

// testCallback implements speech.Callback for testing
type testCallback struct {
	mu       sync.Mutex
	partials []string
	finals   []finalResult
	errors   []error
}

type finalResult struct {
	text       string
	confidence float64
}

func (c *testCallback) OnPartial(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.partials = append(c.partials, text)
}

func (c *testCallback) OnFinal(text string, confidence float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.finals = append(c.finals, finalResult{text, confidence})
}

func (c *testCallback) OnError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errors = append(c.errors, err)
}

func (c *testCallback) getPartials() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string{}, c.partials...)
}

func (c *testCallback) getFinals() []finalResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]finalResult{}, c.finals...)
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return cond()
}

func TestAdapter_EmitsPartialThenFinal(t *testing.T) {
	adapter := NewWithDelays(20*time.Millisecond, 20*time.Millisecond)
	cb := &testCallback{}

	if err := adapter.Start(context.Background(), cb); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !waitFor(t, time.Second, func() bool { return len(cb.getFinals()) == 1 }) {
		t.Fatal("expected a final result within the time window")
	}

	partials := cb.getPartials()
	if len(partials) != 1 {
		t.Fatalf("expected exactly 1 partial, got %d", len(partials))
	}
	if partials[0] != PartialText {
		t.Errorf("expected partial %q, got %q", PartialText, partials[0])
	}

	finals := cb.getFinals()
	if finals[0].text != FinalText {
		t.Errorf("expected final %q, got %q", FinalText, finals[0].text)
	}
	if finals[0].confidence <= 0 || finals[0].confidence > 1 {
		t.Errorf("invalid confidence %f", finals[0].confidence)
	}
}

func TestAdapter_PartialArrivesBeforeFinal(t *testing.T) {
	adapter := NewWithDelays(20*time.Millisecond, 40*time.Millisecond)
	cb := &testCallback{}
	adapter.Start(context.Background(), cb)

	if !waitFor(t, time.Second, func() bool { return len(cb.getPartials()) == 1 }) {
		t.Fatal("expected a partial result")
	}
	if len(cb.getFinals()) != 0 {
		t.Error("expected no final before the final delay elapsed")
	}

	if !waitFor(t, time.Second, func() bool { return len(cb.getFinals()) == 1 }) {
		t.Fatal("expected a final result")
	}
}

func TestAdapter_SendAudio_CountsBytes(t *testing.T) {
	adapter := New()
	cb := &testCallback{}
	adapter.Start(context.Background(), cb)

	for i := 0; i < 3; i++ {
		if err := adapter.SendAudio(context.Background(), []byte("audio")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if adapter.AudioBytes() != 15 {
		t.Errorf("expected 15 audio bytes, got %d", adapter.AudioBytes())
	}
}

func TestAdapter_Close_SuppressesEmission(t *testing.T) {
	adapter := NewWithDelays(20*time.Millisecond, 20*time.Millisecond)
	cb := &testCallback{}
	adapter.Start(context.Background(), cb)

	adapter.Close()
	time.Sleep(100 * time.Millisecond)

	if len(cb.getPartials()) != 0 || len(cb.getFinals()) != 0 {
		t.Error("expected no results after close")
	}
}

func TestAdapter_Close_Idempotent(t *testing.T) {
	adapter := New()
	cb := &testCallback{}
	adapter.Start(context.Background(), cb)

	adapter.Close()
	if err := adapter.Close(); err != nil {
		t.Fatalf("unexpected error on second close: %v", err)
	}
}

func TestAdapter_Close_WithoutStart(t *testing.T) {
	adapter := New()
	// Closing a never-started adapter is a no-op, not a fault.
	if err := adapter.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAdapter_SendAudio_AfterClose(t *testing.T) {
	adapter := New()
	cb := &testCallback{}
	adapter.Start(context.Background(), cb)
	adapter.Close()

	if err := adapter.SendAudio(context.Background(), []byte("audio")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAdapter_Start_Idempotent(t *testing.T) {
	adapter := NewWithDelays(20*time.Millisecond, 20*time.Millisecond)
	cb := &testCallback{}

	adapter.Start(context.Background(), cb)
	adapter.Start(context.Background(), cb)

	if !waitFor(t, time.Second, func() bool { return len(cb.getFinals()) >= 1 }) {
		t.Fatal("expected a final result")
	}
	// A double start must not double the scripted sequence.
	time.Sleep(100 * time.Millisecond)
	if got := len(cb.getFinals()); got != 1 {
		t.Errorf("expected exactly 1 final, got %d", got)
	}
	if got := len(cb.getPartials()); got != 1 {
		t.Errorf("expected exactly 1 partial, got %d", got)
	}
}

func TestAdapter_ContextCancelStopsSequence(t *testing.T) {
	adapter := NewWithDelays(50*time.Millisecond, 50*time.Millisecond)
	cb := &testCallback{}

	ctx, cancel := context.WithCancel(context.Background())
	adapter.Start(ctx, cb)
	cancel()

	time.Sleep(200 * time.Millisecond)
	if len(cb.getPartials()) != 0 && len(cb.getFinals()) != 0 {
		// The partial may have raced the cancel; the final must not follow it.
		if len(cb.getFinals()) != 0 {
			t.Error("expected no final after context cancel")
		}
	}
}
