package gateway

import (
	"encoding/json"
	"fmt"
	"time"

	"live-translation-relay/internal/models"
)

// summaryWindow is how many trailing transcripts the end-of-session
// summary card shows.
const summaryWindow = 5

// AdaptiveCard is the chat-platform card payload for the session summary.
type AdaptiveCard struct {
	Type    string      `json:"type"`
	Version string      `json:"version"`
	Body    []CardBlock `json:"body"`
}

// CardBlock is one text block of an adaptive card.
type CardBlock struct {
	Type   string `json:"type"`
	Text   string `json:"text"`
	Weight string `json:"weight,omitempty"`
	Size   string `json:"size,omitempty"`
	Color  string `json:"color,omitempty"`
	Wrap   bool   `json:"wrap,omitempty"`
}

// BuildSummaryCard renders the trailing transcripts of a session into an
// adaptive card: a header, then per transcript the original line, its
// translation, and a small timestamp.
func BuildSummaryCard(transcripts []models.Transcript) AdaptiveCard {
	body := []CardBlock{
		{
			Type:   "TextBlock",
			Text:   "Transcription Summary",
			Weight: "Bolder",
			Size:   "Large",
		},
		{
			Type: "TextBlock",
			Text: fmt.Sprintf("Last %d transcriptions:", len(transcripts)),
			Wrap: true,
		},
	}

	for _, t := range transcripts {
		body = append(body,
			CardBlock{
				Type:   "TextBlock",
				Text:   fmt.Sprintf("%s: %s", t.OriginalLanguage, t.OriginalText),
				Weight: "Bolder",
				Wrap:   true,
			},
			CardBlock{
				Type: "TextBlock",
				Text: fmt.Sprintf("%s: %s", t.TranslatedLanguage, t.TranslatedText),
				Wrap: true,
			},
			CardBlock{
				Type:  "TextBlock",
				Text:  t.Timestamp.Format(time.RFC3339),
				Size:  "Small",
				Color: "Accent",
			},
		)
	}

	return AdaptiveCard{
		Type:    "AdaptiveCard",
		Version: "1.4",
		Body:    body,
	}
}

// deliverSummary hands the summary card to the chat platform. Without bot
// credentials the card is logged so the content stays inspectable.
func (g *Gateway) deliverSummary(sessionID string, card AdaptiveCard) {
	payload, err := json.Marshal(card)
	if err != nil {
		g.logger.Error().Err(err).Str("sessionId", sessionID).Msg("Failed to encode summary card")
		return
	}
	g.logger.Info().
		Str("sessionId", sessionID).
		RawJSON("card", payload).
		Msg("Session summary card")
}
