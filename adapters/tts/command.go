package tts

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/haroai/haro/domain/repositories"
)

const (
	defaultBinary = "espeak"
	defaultRate   = 150 // words per minute
	defaultVolume = 0.9
)

// defaultVoices are the selectable voices for the command synthesizer, in
// voice-index order.
var defaultVoices = []string{"en", "en-us", "en+f3"}

// CommandConfig configures the command-line synthesizer.
type CommandConfig struct {
	Binary     string // synthesis binary, default espeak
	Rate       int    // words per minute
	Volume     float64
	VoiceIndex int
	Voices     []string
}

// ValidateCommandConfig validates the CommandConfig.
func ValidateCommandConfig(config CommandConfig) error {
	if config.Rate < 0 {
		return fmt.Errorf("speech rate must be positive, got %d", config.Rate)
	}
	if config.Volume < 0 || config.Volume > 1 {
		return fmt.Errorf("volume must be between 0 and 1, got %f", config.Volume)
	}
	return nil
}

// CommandSynthesizer renders speech by running a synthesis command per
// segment. Speak blocks the calling goroutine until playback finishes or
// Stop kills the process.
type CommandSynthesizer struct {
	binary    string
	rate      int
	amplitude int
	voice     string
	logger    *zap.Logger

	mu     sync.Mutex
	cmd    *exec.Cmd
	halted bool
}

var _ repositories.Synthesizer = (*CommandSynthesizer)(nil)

// NewCommandSynthesizer verifies the binary and resolves the voice. An
// out-of-range voice index degrades to the default voice instead of failing.
func NewCommandSynthesizer(config CommandConfig, logger *zap.Logger) (*CommandSynthesizer, error) {
	if err := ValidateCommandConfig(config); err != nil {
		return nil, err
	}

	binary := config.Binary
	if binary == "" {
		binary = defaultBinary
	}
	if _, err := exec.LookPath(binary); err != nil {
		return nil, fmt.Errorf("synthesis binary %q not found: %w", binary, err)
	}

	rate := config.Rate
	if rate == 0 {
		rate = defaultRate
	}
	volume := config.Volume
	if volume == 0 {
		volume = defaultVolume
	}

	return &CommandSynthesizer{
		binary:    binary,
		rate:      rate,
		amplitude: int(volume * 200), // espeak amplitude range is 0-200
		voice:     selectVoice(config.Voices, config.VoiceIndex, logger),
		logger:    logger,
	}, nil
}

// selectVoice resolves a voice by index, falling back to the default voice
// when the index is out of range.
func selectVoice(voices []string, index int, logger *zap.Logger) string {
	if len(voices) == 0 {
		voices = defaultVoices
	}
	if index < 0 || index >= len(voices) {
		logger.Warn("Requested voice index not available, using default",
			zap.Int("index", index),
			zap.Int("available", len(voices)))
		return voices[0]
	}
	return voices[index]
}

// Speak renders one text segment and blocks until it finishes. A segment
// halted by Stop is not an error.
func (s *CommandSynthesizer) Speak(text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	cmd := exec.Command(s.binary,
		"-s", strconv.Itoa(s.rate),
		"-a", strconv.Itoa(s.amplitude),
		"-v", s.voice,
		text)

	s.mu.Lock()
	s.cmd = cmd
	s.halted = false
	s.mu.Unlock()

	err := cmd.Run()

	s.mu.Lock()
	halted := s.halted
	s.cmd = nil
	s.mu.Unlock()

	if err != nil && !halted {
		return fmt.Errorf("synthesis failed: %w", err)
	}
	return nil
}

// Stop halts in-flight playback if any.
func (s *CommandSynthesizer) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cmd != nil && s.cmd.Process != nil {
		s.halted = true
		if err := s.cmd.Process.Kill(); err != nil {
			s.logger.Debug("Failed to kill synthesis process", zap.Error(err))
		}
	}
}

// Close halts playback and releases the synthesizer.
func (s *CommandSynthesizer) Close() error {
	s.Stop()
	return nil
}
