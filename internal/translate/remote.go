package translate

import (
	"context"

	gtranslate "cloud.google.com/go/translate"
	"github.com/rs/zerolog"
	"golang.org/x/text/language"
	"google.golang.org/api/option"

	"live-translation-relay/internal/observability/logging"
)

// Remote translates through the external translation service. Any remote
// failure or empty result degrades to the fallback table for that call.
type Remote struct {
	client   *gtranslate.Client
	source   language.Tag
	target   language.Tag
	fallback *Fallback
	logger   zerolog.Logger
}

// NewRemote creates a translator backed by the external service.
func NewRemote(ctx context.Context, apiKey, source, target string) (*Remote, error) {
	client, err := gtranslate.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}

	sourceTag, err := language.Parse(source)
	if err != nil {
		return nil, err
	}
	targetTag, err := language.Parse(target)
	if err != nil {
		return nil, err
	}

	return &Remote{
		client:   client,
		source:   sourceTag,
		target:   targetTag,
		fallback: NewFallback(),
		logger:   logging.WithComponent("translate"),
	}, nil
}

// Translate calls the external service and post-processes the result. On
// error or empty response it serves the fallback table instead.
func (r *Remote) Translate(ctx context.Context, text string) string {
	res, err := r.client.Translate(ctx, []string{text}, r.target, &gtranslate.Options{
		Source: r.source,
		Format: gtranslate.Text,
	})
	if err != nil {
		r.logger.Error().Err(err).Str("operation", "translate").Msg("Remote translation failed, serving fallback")
		return r.fallback.Translate(ctx, text)
	}
	if len(res) == 0 || res[0].Text == "" {
		r.logger.Warn().Str("operation", "translate").Msg("Remote translation empty, serving fallback")
		return r.fallback.Translate(ctx, text)
	}

	return postProcess(res[0].Text)
}

// Service reports the external variant.
func (r *Remote) Service() string {
	return ServiceExternal
}

// Close releases the remote client.
func (r *Remote) Close() error {
	return r.client.Close()
}
