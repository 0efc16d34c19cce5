// Package session holds the process-wide registry of active transcription
// sessions and the per-session transcript log.
package session

import (
	"sync"
	"time"

	"live-translation-relay/internal/models"
)

// Status is the lifecycle state of a session.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusActive  Status = "active"
	StatusStopped Status = "stopped"
)

// Sink delivers outbound frames to the session's owning channel.
// A session owns at most one sink.
type Sink interface {
	SendFrame(v any) error
}

// Session is one logical transcription conversation, from start to stop.
type Session struct {
	mu          sync.RWMutex
	id          string
	status      Status
	startedAt   time.Time
	endedAt     *time.Time
	transcripts []models.Transcript
	sink        Sink
}

// View is a point-in-time JSON snapshot of a session.
type View struct {
	SessionID      string              `json:"sessionId"`
	Status         Status              `json:"status"`
	StartTime      time.Time           `json:"startTime"`
	EndTime        *time.Time          `json:"endTime,omitempty"`
	Transcriptions []models.Transcript `json:"transcriptions"`
}

func newSession(id string) *Session {
	return &Session{
		id:        id,
		status:    StatusActive,
		startedAt: time.Now().UTC(),
	}
}

// ID returns the session id.
func (s *Session) ID() string {
	return s.id
}

// Status returns the current lifecycle state.
func (s *Session) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// SetSink attaches the session's exclusive outbound channel.
func (s *Session) SetSink(sink Sink) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sink = sink
}

// Sink returns the session's outbound channel, or nil if none is attached.
func (s *Session) Sink() Sink {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sink
}

// Stop marks the session stopped and records the end time. Idempotent.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status == StatusStopped {
		return
	}
	s.status = StatusStopped
	now := time.Now().UTC()
	s.endedAt = &now
}

// Append appends a transcript record. Records arrive in order and are
// never reordered once appended.
func (s *Session) Append(t models.Transcript) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transcripts = append(s.transcripts, t)
}

// Transcripts returns a copy of the transcript log in arrival order.
func (s *Session) Transcripts() []models.Transcript {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Transcript, len(s.transcripts))
	copy(out, s.transcripts)
	return out
}

// LastN returns up to the last n transcripts in arrival order.
func (s *Session) LastN(n int) []models.Transcript {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if n <= 0 || len(s.transcripts) == 0 {
		return nil
	}
	start := len(s.transcripts) - n
	if start < 0 {
		start = 0
	}
	out := make([]models.Transcript, len(s.transcripts)-start)
	copy(out, s.transcripts[start:])
	return out
}

// Duration returns how long the session has been (or was) running.
func (s *Session) Duration() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.endedAt != nil {
		return s.endedAt.Sub(s.startedAt)
	}
	return time.Since(s.startedAt)
}

// Snapshot returns a point-in-time view for serialization.
func (s *Session) Snapshot() View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	transcripts := make([]models.Transcript, len(s.transcripts))
	copy(transcripts, s.transcripts)
	return View{
		SessionID:      s.id,
		Status:         s.status,
		StartTime:      s.startedAt,
		EndTime:        s.endedAt,
		Transcriptions: transcripts,
	}
}
