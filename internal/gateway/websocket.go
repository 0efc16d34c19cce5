package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"live-translation-relay/internal/models"
	"live-translation-relay/internal/speech"
)

// wsConn is the per-connection sink. The dispatcher goroutine and the read
// loop both write frames, so writes are serialized by a mutex.
type wsConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *wsConn) SendFrame(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

// wsSession tracks the single live transcription bound to a connection.
type wsSession struct {
	id      string
	adapter speech.Adapter
	cancel  context.CancelFunc
}

// handleWebSocket runs the duplex session loop: JSON text frames carry
// control messages, binary frames carry raw audio for the active session.
// Closing the connection tears the session down.
func (g *Gateway) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.logger.Error().Err(err).Msg("Websocket upgrade failed")
		return
	}
	defer conn.Close()

	sink := &wsConn{conn: conn}
	var current *wsSession
	defer func() {
		if current != nil {
			g.endSession(current.id, current.adapter, current.cancel)
		}
	}()

	g.logger.Info().Str("remote", r.RemoteAddr).Msg("Websocket client connected")

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				g.logger.Warn().Err(err).Msg("Websocket read error")
			}
			return
		}

		switch msgType {
		case websocket.TextMessage:
			current = g.handleControl(sink, current, data)
		case websocket.BinaryMessage:
			g.handleAudio(current, data)
		}
	}
}

// handleControl applies one control frame and returns the updated session
// binding. Malformed or unknown frames produce an error frame and leave
// any running session untouched.
func (g *Gateway) handleControl(sink *wsConn, current *wsSession, data []byte) *wsSession {
	var frame models.ControlFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		g.sendError(sink, "Invalid control message")
		return current
	}
	g.metrics.RecordFrameReceived(frame.Type)

	switch frame.Type {
	case models.FrameTypeStartTranscription:
		return g.handleStart(sink, current)
	case models.FrameTypeStopTranscription:
		return g.handleStop(sink, current)
	default:
		g.sendError(sink, "Unknown message type: "+frame.Type)
		return current
	}
}

func (g *Gateway) handleStart(sink *wsConn, current *wsSession) *wsSession {
	// A start on a live connection replaces the running session.
	if current != nil {
		g.endSession(current.id, current.adapter, current.cancel)
	}

	id := "ws-session-" + uuid.NewString()
	cancel, adapter, dispatch, err := g.startSession(id, sink)
	if err != nil {
		g.logger.Error().Err(err).Str("sessionId", id).Msg("Failed to start recognizer")
		g.sendError(sink, "Failed to start transcription")
		return nil
	}

	// Acknowledge before dispatching so the started frame always precedes
	// the first result frame.
	g.sendFrame(sink, models.StartedFrame{
		Type:      models.FrameTypeTranscriptionStarted,
		SessionID: id,
		Message:   "Real-time transcription started",
	})
	dispatch()
	return &wsSession{id: id, adapter: adapter, cancel: cancel}
}

func (g *Gateway) handleStop(sink *wsConn, current *wsSession) *wsSession {
	if current != nil {
		g.endSession(current.id, current.adapter, current.cancel)
	}
	// Stop is acknowledged even without a running session.
	g.sendFrame(sink, models.StoppedFrame{
		Type:    models.FrameTypeTranscriptionStopped,
		Message: "Transcription stopped",
	})
	return nil
}

// handleAudio forwards one binary chunk to the active recognizer. Audio
// before start or after stop is dropped silently.
func (g *Gateway) handleAudio(current *wsSession, data []byte) {
	if current == nil {
		return
	}
	g.metrics.RecordAudioReceived(len(data))
	if err := current.adapter.SendAudio(context.Background(), data); err != nil {
		g.logger.Error().Err(err).Str("sessionId", current.id).Msg("Failed to forward audio")
	}
}

func (g *Gateway) sendError(sink *wsConn, message string) {
	g.sendFrame(sink, models.NewErrorFrame(message))
}

func (g *Gateway) sendFrame(sink *wsConn, v any) {
	if err := sink.SendFrame(v); err != nil {
		g.logger.Error().Err(err).Msg("Failed to write websocket frame")
		return
	}
	if frame, ok := frameType(v); ok {
		g.metrics.RecordFrameSent(frame)
	}
}

func frameType(v any) (string, bool) {
	switch f := v.(type) {
	case models.StartedFrame:
		return f.Type, true
	case models.StoppedFrame:
		return f.Type, true
	case models.ErrorFrame:
		return f.Type, true
	default:
		return "", false
	}
}
