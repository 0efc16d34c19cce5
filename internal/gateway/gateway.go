// Package gateway is the transport-facing shell of the relay: a duplex
// websocket connection per live session plus the chat-platform webhook and
// query endpoints. It translates both surfaces into registry and pipeline
// calls and serializes outbound frames back to callers.
package gateway

import (
	"context"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"live-translation-relay/internal/config"
	"live-translation-relay/internal/events"
	"live-translation-relay/internal/observability/logging"
	"live-translation-relay/internal/observability/metrics"
	"live-translation-relay/internal/pipeline"
	"live-translation-relay/internal/session"
	"live-translation-relay/internal/speech"
	"live-translation-relay/internal/speech/google"
	"live-translation-relay/internal/speech/scripted"
	"live-translation-relay/internal/translate"
)

// Gateway wires the public HTTP surface to the session pipeline.
type Gateway struct {
	cfg         *config.Config
	registry    *session.Registry
	translator  translate.Translator
	publisher   *events.Publisher
	queue       *pipeline.Queue
	recognizers speech.Factory
	upgrader    websocket.Upgrader
	metrics     *metrics.Metrics
	logger      zerolog.Logger
}

// New creates a gateway. The recognizer factory is injected so tests can
// run the pipeline against the scripted variant with short delays.
func New(
	cfg *config.Config,
	registry *session.Registry,
	translator translate.Translator,
	publisher *events.Publisher,
	queue *pipeline.Queue,
	recognizers speech.Factory,
) *Gateway {
	return &Gateway{
		cfg:         cfg,
		registry:    registry,
		translator:  translator,
		publisher:   publisher,
		queue:       queue,
		recognizers: recognizers,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		metrics: metrics.DefaultMetrics,
		logger:  logging.WithComponent("gateway"),
	}
}

// DefaultRecognizerFactory selects the recognizer variant once from
// configuration validity. A missing or placeholder speech credential
// selects the scripted fallback so the pipeline stays observable without
// live credentials.
func DefaultRecognizerFactory(cfg *config.Config) speech.Factory {
	logger := logging.WithComponent("speech")

	if !cfg.SpeechConfigured() {
		logger.Warn().Msg("Speech service not configured, using scripted recognizer")
		return func(ctx context.Context) speech.Adapter {
			return scripted.New()
		}
	}

	googleCfg := google.Config{
		LanguageCode:   cfg.Speech.LanguageCode,
		SampleRateHz:   cfg.Speech.SampleRateHz,
		AudioEncoding:  cfg.Speech.AudioEncoding,
		InterimResults: cfg.Speech.InterimResults,
	}
	return func(ctx context.Context) speech.Adapter {
		adapter, err := google.New(ctx, googleCfg)
		if err != nil {
			logger.Error().Err(err).Msg("Failed to create remote recognizer, falling back to scripted")
			return scripted.New()
		}
		return adapter
	}
}

// startSession registers a session with its exclusive sink and starts the
// recognizer. The returned dispatch func runs the session's dispatcher and
// is launched by the caller once the start acknowledgement is on the wire;
// recognition events buffer in the queue until then.
func (g *Gateway) startSession(id string, sink session.Sink) (context.CancelFunc, speech.Adapter, func(), error) {
	sess := g.registry.Create(id)
	sess.SetSink(sink)

	ctx, cancel := context.WithCancel(context.Background())

	adapter := g.recognizers(ctx)
	cb := pipeline.NewQueueCallback(id, g.queue)
	if err := adapter.Start(ctx, cb); err != nil {
		g.registry.Remove(id)
		cancel()
		return nil, nil, nil, err
	}

	dispatcher := pipeline.NewDispatcher(
		id, g.queue, g.registry, g.translator, g.publisher,
		g.cfg.Translator.SourceLanguage, g.cfg.Translator.TargetLanguage,
	)
	dispatch := func() { go dispatcher.Run(ctx) }

	g.metrics.RecordSessionStart()
	g.logger.Info().Str("sessionId", id).Msg("Transcription session started")
	return cancel, adapter, dispatch, nil
}

// endSession produces the summary card, stops the recognizer, and removes
// the session, which terminates its dispatcher. Safe to call repeatedly or
// for unknown ids. A panic inside recognizer teardown is caught here.
func (g *Gateway) endSession(id string, adapter speech.Adapter, cancel context.CancelFunc) {
	defer func() {
		if r := recover(); r != nil {
			g.logger.Error().Interface("panic", r).Str("sessionId", id).Msg("Panic during session teardown")
		}
	}()

	sess := g.registry.Get(id)
	if sess != nil {
		g.deliverSummary(id, BuildSummaryCard(sess.LastN(summaryWindow)))
		sess.Stop()
		g.metrics.RecordSessionEnd(sess.Duration().Seconds())
	}

	if adapter != nil {
		if err := adapter.Close(); err != nil {
			g.logger.Error().Err(err).Str("sessionId", id).Msg("Error closing recognizer")
		}
	}
	if cancel != nil {
		cancel()
	}

	g.registry.Remove(id)
	g.logger.Info().Str("sessionId", id).Msg("Transcription session ended")
}
