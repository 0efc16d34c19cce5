package google

import (
	"context"
	"errors"
	"io"
	"testing"

	"cloud.google.com/go/speech/apiv1/speechpb"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.LanguageCode != "si-LK" {
		t.Errorf("expected default language 'si-LK', got %s", cfg.LanguageCode)
	}
	if cfg.SampleRateHz != 16000 {
		t.Errorf("expected default sample rate 16000, got %d", cfg.SampleRateHz)
	}
	if cfg.InterimResults != true {
		t.Errorf("expected default interim results true, got %v", cfg.InterimResults)
	}
	if cfg.AudioEncoding != "LINEAR16" {
		t.Errorf("expected default encoding 'LINEAR16', got %s", cfg.AudioEncoding)
	}
}

func TestParseAudioEncoding(t *testing.T) {
	tests := []struct {
		input    string
		expected speechpb.RecognitionConfig_AudioEncoding
	}{
		{"LINEAR16", speechpb.RecognitionConfig_LINEAR16},
		{"MULAW", speechpb.RecognitionConfig_MULAW},
		{"FLAC", speechpb.RecognitionConfig_FLAC},
		{"AMR", speechpb.RecognitionConfig_AMR},
		{"AMR_WB", speechpb.RecognitionConfig_AMR_WB},
		{"OGG_OPUS", speechpb.RecognitionConfig_OGG_OPUS},
		{"SPEEX_WITH_HEADER_BYTE", speechpb.RecognitionConfig_SPEEX_WITH_HEADER_BYTE},
		{"WEBM_OPUS", speechpb.RecognitionConfig_WEBM_OPUS},
		{"UNKNOWN", speechpb.RecognitionConfig_LINEAR16}, // fallback
		{"linear16", speechpb.RecognitionConfig_LINEAR16}, // lowercase -> fallback
		{"", speechpb.RecognitionConfig_LINEAR16},         // fallback
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := parseAudioEncoding(tt.input)
			if got != tt.expected {
				t.Errorf("parseAudioEncoding(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestRecvTerminal(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		terminal bool
	}{
		{"eof", io.EOF, true},
		{"grpc canceled", status.Error(codes.Canceled, "canceled"), true},
		{"grpc unavailable", status.Error(codes.Unavailable, "unavailable"), false},
		{"plain error", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := recvTerminal(tt.err); got != tt.terminal {
				t.Errorf("recvTerminal(%v) = %v, want %v", tt.err, got, tt.terminal)
			}
		})
	}
}

func TestSendAudio_BeforeStart_NoOp(t *testing.T) {
	a := &Adapter{cfg: DefaultConfig()}

	// No stream yet; must not panic or error.
	if err := a.SendAudio(context.Background(), []byte("audio")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestClose_WithoutStart_Idempotent(t *testing.T) {
	a := &Adapter{cfg: DefaultConfig()}

	if err := a.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := a.Close(); err != nil {
		t.Fatalf("unexpected error on second close: %v", err)
	}
}
