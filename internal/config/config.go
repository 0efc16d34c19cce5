// Package config loads service configuration from the environment.
package config

import (
	"os"
	"strconv"
	"strings"
)

// Placeholder is the literal credential value that marks a dependency as
// unconfigured. A placeholder activates that dependency's fallback path
// instead of failing startup.
const Placeholder = "mock_value"

// ServiceConfig holds process-level settings.
type ServiceConfig struct {
	Principal   string
	Port        string
	MetricsAddr string
}

// SpeechConfig holds recognizer settings.
type SpeechConfig struct {
	Key            string
	Region         string
	LanguageCode   string
	SampleRateHz   int
	AudioEncoding  string
	InterimResults bool
}

// TranslatorConfig holds translation service settings.
type TranslatorConfig struct {
	Key            string
	Region         string
	SourceLanguage string
	TargetLanguage string
}

// BotConfig holds chat-platform app credentials.
type BotConfig struct {
	AppID       string
	AppPassword string
}

// KafkaConfig holds transcript event fan-out settings.
type KafkaConfig struct {
	Enabled      bool
	Brokers      []string
	TopicPartial string
	TopicFinal   string
}

// ObservabilityConfig holds logging settings.
type ObservabilityConfig struct {
	LogLevel  string
	LogFormat string
}

// Config is the full service configuration.
type Config struct {
	Service       ServiceConfig
	Speech        SpeechConfig
	Translator    TranslatorConfig
	Bot           BotConfig
	Kafka         KafkaConfig
	Observability ObservabilityConfig
}

// Load reads configuration from environment variables, falling back to
// defaults on missing or unparseable values. It never fails: missing
// credentials select fallback behavior downstream.
func Load() *Config {
	return &Config{
		Service: ServiceConfig{
			Principal:   envOrDefault("SERVICE_PRINCIPAL", "svc-translation-relay"),
			Port:        envOrDefault("PORT", "8080"),
			MetricsAddr: envOrDefault("METRICS_ADDR", ":9090"),
		},
		Speech: SpeechConfig{
			Key:            os.Getenv("SPEECH_KEY"),
			Region:         os.Getenv("SPEECH_REGION"),
			LanguageCode:   envOrDefault("SPEECH_LANGUAGE_CODE", "si-LK"),
			SampleRateHz:   envIntOrDefault("SPEECH_SAMPLE_RATE_HZ", 16000),
			AudioEncoding:  envOrDefault("SPEECH_AUDIO_ENCODING", "LINEAR16"),
			InterimResults: envBoolOrDefault("SPEECH_INTERIM_RESULTS", true),
		},
		Translator: TranslatorConfig{
			Key:            os.Getenv("TRANSLATOR_KEY"),
			Region:         os.Getenv("TRANSLATOR_REGION"),
			SourceLanguage: envOrDefault("TRANSLATOR_SOURCE_LANGUAGE", "si"),
			TargetLanguage: envOrDefault("TRANSLATOR_TARGET_LANGUAGE", "en"),
		},
		Bot: BotConfig{
			AppID:       os.Getenv("BOT_APP_ID"),
			AppPassword: os.Getenv("BOT_APP_PASSWORD"),
		},
		Kafka: KafkaConfig{
			Enabled:      envBoolOrDefault("KAFKA_ENABLED", false),
			Brokers:      envListOrDefault("KAFKA_BROKERS", nil),
			TopicPartial: envOrDefault("KAFKA_TOPIC_PARTIAL", "session.transcript.partial"),
			TopicFinal:   envOrDefault("KAFKA_TOPIC_FINAL", "session.transcript.final"),
		},
		Observability: ObservabilityConfig{
			LogLevel:  envOrDefault("LOG_LEVEL", "info"),
			LogFormat: envOrDefault("LOG_FORMAT", "json"),
		},
	}
}

// SpeechConfigured reports whether the remote recognizer can be used.
func (c *Config) SpeechConfigured() bool {
	return configured(c.Speech.Key)
}

// TranslatorConfigured reports whether the remote translator can be used.
func (c *Config) TranslatorConfigured() bool {
	return configured(c.Translator.Key)
}

func configured(key string) bool {
	return key != "" && key != Placeholder
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOrDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func envBoolOrDefault(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func envListOrDefault(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
