package gateway

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Routes builds the public HTTP surface of the relay.
func (g *Gateway) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/ws", g.handleWebSocket)
	r.Post("/api/messages", g.handleMessages)
	r.Get("/api/sessions/{sessionID}", g.handleGetSession)
	r.Post("/api/translate", g.handleTranslate)
	r.Get("/health", g.handleHealth)

	return r
}

// handleGetSession returns a point-in-time snapshot of one session.
func (g *Gateway) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	sess := g.registry.Get(id)
	if sess == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Session not found"})
		return
	}
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

// handleTranslate runs a single text through the active translator.
func (g *Gateway) handleTranslate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Text == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "No text provided"})
		return
	}

	start := time.Now()
	translated := g.translator.Translate(r.Context(), req.Text)
	g.metrics.RecordTranslation(g.translator.Service(), time.Since(start).Seconds())

	writeJSON(w, http.StatusOK, map[string]string{
		"original":    req.Text,
		"translation": translated,
		"service":     g.translator.Service(),
	})
}

// handleHealth reports liveness plus the live session count.
func (g *Gateway) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":          "healthy",
		"timestamp":       time.Now().UTC().Format(time.RFC3339),
		"active_sessions": g.registry.Count(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
