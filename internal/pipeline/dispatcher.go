package pipeline

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"live-translation-relay/internal/events"
	"live-translation-relay/internal/models"
	"live-translation-relay/internal/observability/logging"
	"live-translation-relay/internal/observability/metrics"
	"live-translation-relay/internal/session"
	"live-translation-relay/internal/translate"
)

const (
	defaultPollInterval = 100 * time.Millisecond
	requeueBackoff      = 5 * time.Millisecond
)

// Dispatcher drains recognition events for one session and turns them into
// ordered outbound frames. Partials go out immediately untranslated; finals
// are translated, appended to the session transcript, and published. Events
// belonging to other sessions are requeued, never dropped.
type Dispatcher struct {
	sessionID    string
	queue        *Queue
	registry     *session.Registry
	translator   translate.Translator
	publisher    *events.Publisher
	sourceLang   string
	targetLang   string
	pollInterval time.Duration
	metrics      *metrics.Metrics
	logger       zerolog.Logger
}

// NewDispatcher creates a dispatcher for one session.
func NewDispatcher(
	sessionID string,
	queue *Queue,
	registry *session.Registry,
	translator translate.Translator,
	publisher *events.Publisher,
	sourceLang, targetLang string,
) *Dispatcher {
	return &Dispatcher{
		sessionID:    sessionID,
		queue:        queue,
		registry:     registry,
		translator:   translator,
		publisher:    publisher,
		sourceLang:   sourceLang,
		targetLang:   targetLang,
		pollInterval: defaultPollInterval,
		metrics:      metrics.DefaultMetrics,
		logger:       logging.WithSession(sessionID),
	}
}

// Run drains the queue until the session leaves the registry or ctx is
// cancelled. Call in its own goroutine, one per session.
func (d *Dispatcher) Run(ctx context.Context) {
	d.logger.Debug().Msg("Dispatcher started")
	defer d.logger.Debug().Msg("Dispatcher stopped")

	for {
		sess := d.registry.Get(d.sessionID)
		if sess == nil {
			return
		}
		select {
		case <-ctx.Done():
			return
		default:
		}

		ev, ok := d.queue.Poll(ctx, d.pollInterval)
		if !ok {
			continue
		}

		if ev.SessionID != d.sessionID {
			// Not ours: requeue for its owner. The pause keeps this loop
			// from spinning on an event whose owner already left.
			d.queue.Put(ev)
			d.metrics.RecordEventRequeued()
			time.Sleep(requeueBackoff)
			continue
		}

		d.handle(ctx, sess, ev)
	}
}

func (d *Dispatcher) handle(ctx context.Context, sess *session.Session, ev models.RecognitionEvent) {
	switch ev.Kind {
	case models.EventPartial:
		d.handlePartial(ctx, sess, ev)
	case models.EventFinal:
		d.handleFinal(ctx, sess, ev)
	case models.EventError:
		d.handleError(sess, ev)
	default:
		d.logger.Warn().Str("kind", ev.Kind.String()).Msg("Unknown recognition event kind")
	}
}

// handlePartial forwards the interim text immediately, no translation.
func (d *Dispatcher) handlePartial(ctx context.Context, sess *session.Session, ev models.RecognitionEvent) {
	d.metrics.RecordPartialTranscript()

	if err := d.publisher.PublishPartial(ctx, d.sessionID, events.NewPartialEvent(d.sessionID, ev.Text, d.sourceLang)); err != nil {
		d.logger.Error().Err(err).Str("operation", "publish_partial").Msg("Failed to publish partial event")
	}

	d.send(sess, models.NewPartialFrame(ev.Text, d.sourceLang, ev.Timestamp), models.FrameTypePartialResult)
}

// handleFinal translates, commits the transcript, and emits one combined
// frame. Translation failures degrade inside the translator; a panic there
// is caught here so it cannot take the gateway down.
func (d *Dispatcher) handleFinal(ctx context.Context, sess *session.Session, ev models.RecognitionEvent) {
	d.metrics.RecordFinalTranscript()

	translated := d.translateSafe(ctx, ev.Text)

	transcript := models.Transcript{
		Timestamp:          ev.Timestamp,
		OriginalText:       ev.Text,
		OriginalLanguage:   d.sourceLang,
		TranslatedText:     translated,
		TranslatedLanguage: d.targetLang,
		SessionID:          d.sessionID,
	}
	sess.Append(transcript)

	if err := d.publisher.PublishFinal(ctx, d.sessionID, events.NewFinalEvent(transcript)); err != nil {
		d.logger.Error().Err(err).Str("operation", "publish_final").Msg("Failed to publish final event")
	}

	d.send(sess, models.NewFinalFrame(transcript), models.FrameTypeFinalResult)
}

// handleError forwards the error verbatim; the session survives it.
func (d *Dispatcher) handleError(sess *session.Session, ev models.RecognitionEvent) {
	d.metrics.RecordRecognizerError()
	d.logger.Warn().Str("operation", "recognize").Str("reason", ev.Message).Msg("Recognizer error")
	d.send(sess, models.NewErrorFrame(ev.Message), models.FrameTypeError)
}

func (d *Dispatcher) translateSafe(ctx context.Context, text string) (out string) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error().Interface("panic", r).Str("operation", "translate").Msg("Translation panicked, passing original through")
			out = text
		}
	}()

	start := time.Now()
	out = d.translator.Translate(ctx, text)
	d.metrics.RecordTranslation(d.translator.Service(), time.Since(start).Seconds())
	return out
}

func (d *Dispatcher) send(sess *session.Session, frame any, frameType string) {
	sink := sess.Sink()
	if sink == nil {
		return
	}
	if err := sink.SendFrame(frame); err != nil {
		d.logger.Error().Err(err).Str("frameType", frameType).Msg("Failed to send outbound frame")
		return
	}
	d.metrics.RecordFrameSent(frameType)
}
