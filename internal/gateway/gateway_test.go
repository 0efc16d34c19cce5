package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"live-translation-relay/internal/config"
	"live-translation-relay/internal/events"
	"live-translation-relay/internal/models"
	"live-translation-relay/internal/pipeline"
	"live-translation-relay/internal/session"
	"live-translation-relay/internal/speech"
	"live-translation-relay/internal/speech/scripted"
	"live-translation-relay/internal/translate"
)

func newTestGateway(t *testing.T, factory speech.Factory) (*Gateway, *session.Registry) {
	t.Helper()

	cfg := config.Load()
	registry := session.NewRegistry()
	queue := pipeline.NewQueue()
	translator := translate.New(context.Background(), cfg)
	publisher := events.New(nil)

	if factory == nil {
		factory = func(ctx context.Context) speech.Adapter {
			return scripted.NewWithDelays(10*time.Millisecond, 10*time.Millisecond)
		}
	}
	return New(cfg, registry, translator, publisher, queue, factory), registry
}

func postActivity(t *testing.T, srv *httptest.Server, activity Activity) map[string]string {
	t.Helper()

	body, err := json.Marshal(activity)
	if err != nil {
		t.Fatalf("marshal activity: %v", err)
	}
	resp, err := http.Post(srv.URL+"/api/messages", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("post activity: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var out map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

func TestWebhook_StartTranscriptionCreatesSession(t *testing.T) {
	g, registry := newTestGateway(t, nil)
	srv := httptest.NewServer(g.Routes())
	defer srv.Close()

	var activity Activity
	activity.Type = "message"
	activity.Text = "@bot please START TRANSCRIPTION now"
	activity.Conversation.ID = "conv-1"

	out := postActivity(t, srv, activity)
	if out["status"] != "success" {
		t.Fatalf("expected success status, got %q", out["status"])
	}

	sess := registry.Get("conv-1")
	if sess == nil {
		t.Fatal("expected session conv-1 to exist")
	}
	if sess.Status() != session.StatusActive {
		t.Fatalf("expected active session, got %v", sess.Status())
	}
}

func TestWebhook_StopTranscriptionRemovesSession(t *testing.T) {
	g, registry := newTestGateway(t, nil)
	srv := httptest.NewServer(g.Routes())
	defer srv.Close()

	var start Activity
	start.Type = "message"
	start.Text = "start transcription"
	start.Conversation.ID = "conv-2"
	postActivity(t, srv, start)

	var stop Activity
	stop.Type = "message"
	stop.Text = "stop transcription"
	stop.Conversation.ID = "conv-2"
	postActivity(t, srv, stop)

	if registry.Get("conv-2") != nil {
		t.Fatal("expected session conv-2 to be removed")
	}
}

func TestWebhook_CallLifecycle(t *testing.T) {
	g, registry := newTestGateway(t, nil)
	srv := httptest.NewServer(g.Routes())
	defer srv.Close()

	var started Activity
	started.Type = "invoke"
	started.Value.CallID = "call-7"
	started.Value.EventType = "callStarted"
	postActivity(t, srv, started)

	if registry.Get("call-7") == nil {
		t.Fatal("expected session call-7 to exist")
	}

	var ended Activity
	ended.Type = "invoke"
	ended.Value.CallID = "call-7"
	ended.Value.EventType = "callEnded"
	postActivity(t, srv, ended)

	if registry.Get("call-7") != nil {
		t.Fatal("expected session call-7 to be removed")
	}
}

func TestWebhook_UnknownActivityAcknowledged(t *testing.T) {
	g, registry := newTestGateway(t, nil)
	srv := httptest.NewServer(g.Routes())
	defer srv.Close()

	var activity Activity
	activity.Type = "typing"

	out := postActivity(t, srv, activity)
	if out["status"] != "success" {
		t.Fatalf("expected success status, got %q", out["status"])
	}
	if registry.Count() != 0 {
		t.Fatalf("expected no sessions, got %d", registry.Count())
	}
}

func TestWebhook_MalformedBody(t *testing.T) {
	g, _ := newTestGateway(t, nil)
	srv := httptest.NewServer(g.Routes())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/messages", "application/json", strings.NewReader("{not json"))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.StatusCode)
	}
	var out map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out["error"] == "" {
		t.Fatal("expected error field in response")
	}
}

func TestGetSession_NotFound(t *testing.T) {
	g, _ := newTestGateway(t, nil)
	srv := httptest.NewServer(g.Routes())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/sessions/missing")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	var out map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out["error"] != "Session not found" {
		t.Fatalf("unexpected error message %q", out["error"])
	}
}

func TestGetSession_Snapshot(t *testing.T) {
	g, registry := newTestGateway(t, nil)
	srv := httptest.NewServer(g.Routes())
	defer srv.Close()

	sess := registry.Create("conv-3")
	sess.Append(models.Transcript{
		Timestamp:          time.Now().UTC(),
		OriginalText:       "කොහොමද",
		OriginalLanguage:   "si",
		TranslatedText:     "How are",
		TranslatedLanguage: "en",
		SessionID:          "conv-3",
	})

	resp, err := http.Get(srv.URL + "/api/sessions/conv-3")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var view session.View
	if err := json.NewDecoder(resp.Body).Decode(&view); err != nil {
		t.Fatalf("decode view: %v", err)
	}
	if view.SessionID != "conv-3" {
		t.Fatalf("unexpected session id %q", view.SessionID)
	}
	if len(view.Transcriptions) != 1 {
		t.Fatalf("expected 1 transcript, got %d", len(view.Transcriptions))
	}
	if view.Transcriptions[0].TranslatedText != "How are" {
		t.Fatalf("unexpected translation %q", view.Transcriptions[0].TranslatedText)
	}
}

func TestHealth(t *testing.T) {
	g, registry := newTestGateway(t, nil)
	srv := httptest.NewServer(g.Routes())
	defer srv.Close()

	registry.Create("conv-a")
	registry.Create("conv-b")

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var out struct {
		Status         string `json:"status"`
		Timestamp      string `json:"timestamp"`
		ActiveSessions int    `json:"active_sessions"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out.Status != "healthy" {
		t.Fatalf("unexpected status %q", out.Status)
	}
	if out.ActiveSessions != 2 {
		t.Fatalf("expected 2 active sessions, got %d", out.ActiveSessions)
	}
	if _, err := time.Parse(time.RFC3339, out.Timestamp); err != nil {
		t.Fatalf("timestamp not RFC3339: %v", err)
	}
}

func TestTranslateEndpoint(t *testing.T) {
	g, _ := newTestGateway(t, nil)
	srv := httptest.NewServer(g.Routes())
	defer srv.Close()

	body := strings.NewReader(`{"text":"කොහොමද ඔබට?"}`)
	resp, err := http.Post(srv.URL+"/api/translate", "application/json", body)
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var out map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out["original"] != "කොහොමද ඔබට?" {
		t.Fatalf("unexpected original %q", out["original"])
	}
	if out["translation"] != "How are you?" {
		t.Fatalf("unexpected translation %q", out["translation"])
	}
	if out["service"] != translate.ServiceFallback {
		t.Fatalf("unexpected service %q", out["service"])
	}
}

func TestTranslateEndpoint_NoText(t *testing.T) {
	g, _ := newTestGateway(t, nil)
	srv := httptest.NewServer(g.Routes())
	defer srv.Close()

	for _, body := range []string{`{}`, `{"text":""}`, `not json`} {
		resp, err := http.Post(srv.URL+"/api/translate", "application/json", strings.NewReader(body))
		if err != nil {
			t.Fatalf("post %q: %v", body, err)
		}
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("body %q: expected 400, got %d", body, resp.StatusCode)
		}
		var out map[string]string
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		resp.Body.Close()
		if out["error"] != "No text provided" {
			t.Fatalf("body %q: unexpected error %q", body, out["error"])
		}
	}
}

func TestBuildSummaryCard(t *testing.T) {
	transcripts := []models.Transcript{
		{
			Timestamp:          time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
			OriginalText:       "කොහොමද ඔබට?",
			OriginalLanguage:   "si",
			TranslatedText:     "How are you?",
			TranslatedLanguage: "en",
		},
		{
			Timestamp:          time.Date(2025, 6, 1, 10, 0, 5, 0, time.UTC),
			OriginalText:       "ස්තූතියි",
			OriginalLanguage:   "si",
			TranslatedText:     "Thank you",
			TranslatedLanguage: "en",
		},
	}

	card := BuildSummaryCard(transcripts)
	if card.Type != "AdaptiveCard" {
		t.Fatalf("unexpected card type %q", card.Type)
	}
	// Header, count line, then three blocks per transcript.
	if want := 2 + 3*len(transcripts); len(card.Body) != want {
		t.Fatalf("expected %d body blocks, got %d", want, len(card.Body))
	}
	if card.Body[1].Text != "Last 2 transcriptions:" {
		t.Fatalf("unexpected count line %q", card.Body[1].Text)
	}
	if card.Body[2].Text != "si: කොහොමද ඔබට?" {
		t.Fatalf("unexpected original block %q", card.Body[2].Text)
	}
	if card.Body[3].Text != "en: How are you?" {
		t.Fatalf("unexpected translated block %q", card.Body[3].Text)
	}
}

func TestBuildSummaryCard_Empty(t *testing.T) {
	card := BuildSummaryCard(nil)
	if len(card.Body) != 2 {
		t.Fatalf("expected header blocks only, got %d", len(card.Body))
	}
	if card.Body[1].Text != "Last 0 transcriptions:" {
		t.Fatalf("unexpected count line %q", card.Body[1].Text)
	}
}
