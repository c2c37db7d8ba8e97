package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config contains all runtime settings for the assistant.
type Config struct {
	AIName       string
	WakePhrases  []string
	MaxExchanges int
	SystemPrompt string

	// Mode selects the responder: "local" rule-based or "remote" Gemini.
	Mode string

	GeminiAPIKey    string
	GeminiModel     string
	Temperature     float64
	MaxOutputTokens int
	RequestTimeout  int // seconds

	// TTSProvider selects the synthesizer: "command" or "elevenlabs".
	TTSProvider string
	TTSBinary   string
	SpeechRate  int
	SpeechVol   float64
	VoiceIndex  int

	ElevenLabsAPIKey  string
	ElevenLabsVoiceID string

	CaptureBinary     string
	CaptureSampleRate int
	CaptureMaxSeconds int
	Language          string

	BindAddr  string
	APISecret string

	MetricsNamespace string
}

// Load reads environment variables and applies safe defaults.
func Load() (Config, error) {
	cfg := Config{
		AIName:            envOrDefault("HARO_AI_NAME", "Haro"),
		MaxExchanges:      10,
		Mode:              strings.ToLower(envOrDefault("HARO_MODE", "local")),
		GeminiAPIKey:      strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		GeminiModel:       envOrDefault("HARO_GEMINI_MODEL", "gemini-2.0-flash"),
		Temperature:       0.7,
		MaxOutputTokens:   150,
		RequestTimeout:    30,
		TTSProvider:       strings.ToLower(envOrDefault("HARO_TTS_PROVIDER", "command")),
		TTSBinary:         envOrDefault("HARO_TTS_BINARY", "espeak"),
		SpeechRate:        150,
		SpeechVol:         0.9,
		VoiceIndex:        0,
		ElevenLabsAPIKey:  strings.TrimSpace(os.Getenv("ELEVENLABS_API_KEY")),
		ElevenLabsVoiceID: envOrDefault("ELEVENLABS_VOICE_ID", ""),
		CaptureBinary:     envOrDefault("HARO_CAPTURE_BINARY", "arecord"),
		CaptureSampleRate: 16000,
		CaptureMaxSeconds: 5,
		Language:          envOrDefault("HARO_LANGUAGE", "en-US"),
		BindAddr:          envOrDefault("HARO_BIND_ADDR", "127.0.0.1:8080"),
		APISecret:         strings.TrimSpace(os.Getenv("HARO_API_SECRET")),
		MetricsNamespace:  envOrDefault("HARO_METRICS_NAMESPACE", "haro"),
	}

	cfg.SystemPrompt = envOrDefault("HARO_SYSTEM_PROMPT",
		"You are "+cfg.AIName+", a friendly and helpful AI companion. "+
			"Keep responses conversational and concise since they will be spoken aloud.")
	cfg.WakePhrases = listFromEnv("HARO_WAKE_PHRASES", []string{"hey " + strings.ToLower(cfg.AIName), strings.ToLower(cfg.AIName), "ai"})

	var err error
	cfg.MaxExchanges, err = intFromEnv("HARO_MAX_EXCHANGES", cfg.MaxExchanges)
	if err != nil {
		return Config{}, err
	}
	cfg.Temperature, err = floatFromEnv("HARO_TEMPERATURE", cfg.Temperature)
	if err != nil {
		return Config{}, err
	}
	cfg.MaxOutputTokens, err = intFromEnv("HARO_MAX_OUTPUT_TOKENS", cfg.MaxOutputTokens)
	if err != nil {
		return Config{}, err
	}
	cfg.RequestTimeout, err = intFromEnv("HARO_REQUEST_TIMEOUT_SECONDS", cfg.RequestTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.SpeechRate, err = intFromEnv("HARO_SPEECH_RATE", cfg.SpeechRate)
	if err != nil {
		return Config{}, err
	}
	cfg.SpeechVol, err = floatFromEnv("HARO_SPEECH_VOLUME", cfg.SpeechVol)
	if err != nil {
		return Config{}, err
	}
	cfg.VoiceIndex, err = intFromEnv("HARO_VOICE_INDEX", cfg.VoiceIndex)
	if err != nil {
		return Config{}, err
	}
	cfg.CaptureSampleRate, err = intFromEnv("HARO_CAPTURE_SAMPLE_RATE", cfg.CaptureSampleRate)
	if err != nil {
		return Config{}, err
	}
	cfg.CaptureMaxSeconds, err = intFromEnv("HARO_CAPTURE_MAX_SECONDS", cfg.CaptureMaxSeconds)
	if err != nil {
		return Config{}, err
	}

	if cfg.Mode != "local" && cfg.Mode != "remote" {
		return Config{}, fmt.Errorf("HARO_MODE must be local or remote, got %q", cfg.Mode)
	}
	if cfg.Mode == "remote" && cfg.GeminiAPIKey == "" {
		return Config{}, fmt.Errorf("GEMINI_API_KEY is required in remote mode")
	}
	if cfg.TTSProvider != "command" && cfg.TTSProvider != "elevenlabs" {
		return Config{}, fmt.Errorf("HARO_TTS_PROVIDER must be command or elevenlabs, got %q", cfg.TTSProvider)
	}
	if cfg.TTSProvider == "elevenlabs" && cfg.ElevenLabsAPIKey == "" {
		return Config{}, fmt.Errorf("ELEVENLABS_API_KEY is required with the elevenlabs provider")
	}
	if cfg.MaxExchanges < 0 {
		return Config{}, fmt.Errorf("HARO_MAX_EXCHANGES must be >= 0")
	}
	if cfg.Temperature < 0 || cfg.Temperature > 2 {
		return Config{}, fmt.Errorf("HARO_TEMPERATURE must be between 0 and 2")
	}
	if cfg.MaxOutputTokens <= 0 {
		return Config{}, fmt.Errorf("HARO_MAX_OUTPUT_TOKENS must be positive")
	}
	if cfg.RequestTimeout <= 0 {
		return Config{}, fmt.Errorf("HARO_REQUEST_TIMEOUT_SECONDS must be positive")
	}
	if cfg.SpeechRate <= 0 {
		return Config{}, fmt.Errorf("HARO_SPEECH_RATE must be positive")
	}
	if cfg.SpeechVol < 0 || cfg.SpeechVol > 1 {
		return Config{}, fmt.Errorf("HARO_SPEECH_VOLUME must be between 0 and 1")
	}
	if cfg.CaptureSampleRate <= 0 {
		return Config{}, fmt.Errorf("HARO_CAPTURE_SAMPLE_RATE must be positive")
	}
	if cfg.CaptureMaxSeconds <= 0 {
		return Config{}, fmt.Errorf("HARO_CAPTURE_MAX_SECONDS must be positive")
	}
	if len(cfg.WakePhrases) == 0 {
		return Config{}, fmt.Errorf("HARO_WAKE_PHRASES must name at least one phrase")
	}

	return cfg, nil
}

// Print writes the resolved configuration to stdout with secrets masked.
func (c Config) Print() {
	fmt.Println("Configuration:")
	fmt.Printf("  AI name:            %s\n", c.AIName)
	fmt.Printf("  Wake phrases:       %s\n", strings.Join(c.WakePhrases, ", "))
	fmt.Printf("  Max exchanges:      %d\n", c.MaxExchanges)
	fmt.Printf("  Mode:               %s\n", c.Mode)
	fmt.Printf("  Gemini model:       %s\n", c.GeminiModel)
	fmt.Printf("  Gemini API key:     %s\n", mask(c.GeminiAPIKey))
	fmt.Printf("  Temperature:        %.2f\n", c.Temperature)
	fmt.Printf("  Max output tokens:  %d\n", c.MaxOutputTokens)
	fmt.Printf("  TTS provider:       %s\n", c.TTSProvider)
	fmt.Printf("  Speech rate:        %d wpm\n", c.SpeechRate)
	fmt.Printf("  Speech volume:      %.2f\n", c.SpeechVol)
	fmt.Printf("  Voice index:        %d\n", c.VoiceIndex)
	fmt.Printf("  ElevenLabs API key: %s\n", mask(c.ElevenLabsAPIKey))
	fmt.Printf("  Capture:            %s @ %d Hz, %ds clips\n", c.CaptureBinary, c.CaptureSampleRate, c.CaptureMaxSeconds)
	fmt.Printf("  Language:           %s\n", c.Language)
	fmt.Printf("  Bind address:       %s\n", c.BindAddr)
	fmt.Printf("  API secret:         %s\n", mask(c.APISecret))
}

func mask(secret string) string {
	if secret == "" {
		return "(not set)"
	}
	return "(set)"
}

func envOrDefault(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func listFromEnv(key string, fallback []string) []string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func intFromEnv(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return n, nil
}

func floatFromEnv(key string, fallback float64) (float64, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return f, nil
}
