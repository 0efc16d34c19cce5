package pipeline

import (
	"time"

	"live-translation-relay/internal/models"
)

// QueueCallback adapts recognizer callbacks into queue puts. It runs in the
// recognizer's callback context and does nothing but enqueue: session logic
// stays in the dispatcher's goroutine.
type QueueCallback struct {
	sessionID string
	queue     *Queue
}

// NewQueueCallback creates a callback that tags events with sessionID.
func NewQueueCallback(sessionID string, queue *Queue) *QueueCallback {
	return &QueueCallback{
		sessionID: sessionID,
		queue:     queue,
	}
}

// OnPartial enqueues a partial recognition event.
func (c *QueueCallback) OnPartial(text string) {
	c.queue.Put(models.RecognitionEvent{
		Kind:      models.EventPartial,
		SessionID: c.sessionID,
		Text:      text,
		Timestamp: time.Now().UTC(),
	})
}

// OnFinal enqueues a final recognition event.
func (c *QueueCallback) OnFinal(text string, confidence float64) {
	c.queue.Put(models.RecognitionEvent{
		Kind:       models.EventFinal,
		SessionID:  c.sessionID,
		Text:       text,
		Confidence: confidence,
		Timestamp:  time.Now().UTC(),
	})
}

// OnError enqueues a recognizer error event.
func (c *QueueCallback) OnError(err error) {
	c.queue.Put(models.RecognitionEvent{
		Kind:      models.EventError,
		SessionID: c.sessionID,
		Message:   err.Error(),
		Timestamp: time.Now().UTC(),
	})
}
