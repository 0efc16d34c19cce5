package gateway

import (
	"encoding/json"
	"net/http"
	"strings"
)

// Activity is the inbound chat-platform webhook payload. Only the fields
// the relay acts on are decoded.
type Activity struct {
	Type         string `json:"type"`
	Text         string `json:"text"`
	Conversation struct {
		ID string `json:"id"`
	} `json:"conversation"`
	Value struct {
		CallID    string `json:"callId"`
		EventType string `json:"eventType"`
	} `json:"value"`
}

// handleMessages is the chat-platform webhook. Text commands and call
// lifecycle events both map onto session start/stop; everything else is
// acknowledged and ignored so the platform does not retry.
func (g *Gateway) handleMessages(w http.ResponseWriter, r *http.Request) {
	var activity Activity
	if err := json.NewDecoder(r.Body).Decode(&activity); err != nil {
		g.logger.Error().Err(err).Msg("Failed to decode webhook activity")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	g.metrics.RecordWebhookActivity(activity.Type)

	switch activity.Type {
	case "message":
		g.handleMessageActivity(activity)
	case "invoke":
		g.handleCallEvent(activity)
	default:
		g.logger.Debug().Str("activityType", activity.Type).Msg("Ignoring activity")
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

// handleMessageActivity matches the start/stop text commands. Matching is
// case-insensitive and tolerates surrounding text such as bot mentions.
func (g *Gateway) handleMessageActivity(activity Activity) {
	id := activity.Conversation.ID
	if id == "" {
		return
	}

	text := strings.ToLower(activity.Text)
	switch {
	case strings.Contains(text, "start transcription"):
		g.startWebhookSession(id)
	case strings.Contains(text, "stop transcription"):
		g.endSession(id, nil, nil)
	}
}

// handleCallEvent maps call lifecycle invokes onto sessions keyed by the
// call id.
func (g *Gateway) handleCallEvent(activity Activity) {
	id := activity.Value.CallID
	if id == "" {
		return
	}

	switch activity.Value.EventType {
	case "callStarted":
		g.startWebhookSession(id)
	case "callEnded":
		g.endSession(id, nil, nil)
	}
}

// startWebhookSession registers a session without a recognizer. Webhook
// sessions have no audio channel of their own; they track the meeting so
// its transcripts and summary are queryable.
func (g *Gateway) startWebhookSession(id string) {
	g.registry.Create(id)
	g.metrics.RecordSessionStart()
	g.logger.Info().Str("sessionId", id).Msg("Webhook transcription session started")
}
