// Package google provides a Google Cloud Speech-to-Text recognizer adapter.
package google

import (
	"context"
	"errors"
	"io"
	"sync"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	stt "live-translation-relay/internal/speech"
)

// Config holds the streaming recognition settings for one session.
type Config struct {
	LanguageCode   string
	SampleRateHz   int
	AudioEncoding  string
	InterimResults bool
}

// DefaultConfig returns the default streaming recognition settings.
func DefaultConfig() Config {
	return Config{
		LanguageCode:   "si-LK",
		SampleRateHz:   16000,
		AudioEncoding:  "LINEAR16",
		InterimResults: true,
	}
}

// Adapter implements speech.Adapter using Google Cloud Speech-to-Text.
// Requires GOOGLE_APPLICATION_CREDENTIALS to be set.
type Adapter struct {
	client *speech.Client
	cfg    Config

	mu     sync.Mutex
	stream speechpb.Speech_StreamingRecognizeClient
	cb     stt.Callback
	closed bool
}

// New creates a new Google recognizer adapter.
func New(ctx context.Context, cfg Config) (*Adapter, error) {
	c, err := speech.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	return &Adapter{client: c, cfg: cfg}, nil
}

// Start opens the streaming session, sends the initial config, and begins
// pumping responses into the callback from a listener goroutine.
func (a *Adapter) Start(ctx context.Context, cb stt.Callback) error {
	stream, err := a.client.StreamingRecognize(ctx)
	if err != nil {
		return err
	}

	if err := stream.Send(&speechpb.StreamingRecognizeRequest{
		StreamingRequest: &speechpb.StreamingRecognizeRequest_StreamingConfig{
			StreamingConfig: &speechpb.StreamingRecognitionConfig{
				Config: &speechpb.RecognitionConfig{
					Encoding:        parseAudioEncoding(a.cfg.AudioEncoding),
					SampleRateHertz: int32(a.cfg.SampleRateHz),
					LanguageCode:    a.cfg.LanguageCode,
				},
				InterimResults: a.cfg.InterimResults,
			},
		},
	}); err != nil {
		return err
	}

	a.mu.Lock()
	a.stream = stream
	a.cb = cb
	a.mu.Unlock()

	go a.listen(stream, cb)
	return nil
}

// listen receives responses from the recognizer's own stream and hands each
// result to the callback. It never runs session logic itself.
func (a *Adapter) listen(stream speechpb.Speech_StreamingRecognizeClient, cb stt.Callback) {
	for {
		resp, err := stream.Recv()
		if err != nil {
			if !recvTerminal(err) {
				cb.OnError(err)
			}
			return
		}

		for _, r := range resp.Results {
			if len(r.Alternatives) == 0 {
				continue
			}
			alt := r.Alternatives[0]
			if r.IsFinal {
				cb.OnFinal(alt.Transcript, float64(alt.Confidence))
			} else {
				cb.OnPartial(alt.Transcript)
			}
		}
	}
}

// recvTerminal reports whether a stream receive error is an expected
// end-of-stream rather than a recognizer failure.
func recvTerminal(err error) bool {
	if errors.Is(err, io.EOF) {
		return true
	}
	return status.Code(err) == codes.Canceled
}

// SendAudio forwards audio bytes to the recognizer's input stream.
func (a *Adapter) SendAudio(ctx context.Context, audio []byte) error {
	a.mu.Lock()
	stream := a.stream
	closed := a.closed
	a.mu.Unlock()

	if closed || stream == nil {
		return nil
	}
	return stream.Send(&speechpb.StreamingRecognizeRequest{
		StreamingRequest: &speechpb.StreamingRecognizeRequest_AudioContent{
			AudioContent: audio,
		},
	})
}

// Close ends the streaming session and releases the client. Idempotent.
func (a *Adapter) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return nil
	}
	a.closed = true

	var err error
	if a.stream != nil {
		err = a.stream.CloseSend()
	}
	if a.client != nil {
		if cerr := a.client.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

func parseAudioEncoding(s string) speechpb.RecognitionConfig_AudioEncoding {
	switch s {
	case "LINEAR16":
		return speechpb.RecognitionConfig_LINEAR16
	case "MULAW":
		return speechpb.RecognitionConfig_MULAW
	case "FLAC":
		return speechpb.RecognitionConfig_FLAC
	case "AMR":
		return speechpb.RecognitionConfig_AMR
	case "AMR_WB":
		return speechpb.RecognitionConfig_AMR_WB
	case "OGG_OPUS":
		return speechpb.RecognitionConfig_OGG_OPUS
	case "SPEEX_WITH_HEADER_BYTE":
		return speechpb.RecognitionConfig_SPEEX_WITH_HEADER_BYTE
	case "WEBM_OPUS":
		return speechpb.RecognitionConfig_WEBM_OPUS
	default:
		return speechpb.RecognitionConfig_LINEAR16
	}
}
