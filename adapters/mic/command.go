package mic

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/haroai/haro/domain/repositories"
)

const (
	defaultBinary     = "arecord"
	defaultSampleRate = 16000
	defaultMaxSeconds = 5
)

// CommandConfig configures the command-line capture device.
type CommandConfig struct {
	Binary     string // recording binary, default arecord
	SampleRate int
	MaxSeconds int // hard per-clip time limit
}

// CommandDevice captures bounded audio clips by running a recording command.
// Each Capture call records one clip of at most MaxSeconds.
type CommandDevice struct {
	binary     string
	sampleRate int
	maxSeconds int
	logger     *zap.Logger
}

var _ repositories.CaptureDevice = (*CommandDevice)(nil)

// NewCommandDevice verifies the recording binary is available. A missing
// binary is a startup-time resource failure.
func NewCommandDevice(config CommandConfig, logger *zap.Logger) (*CommandDevice, error) {
	binary := config.Binary
	if binary == "" {
		binary = defaultBinary
	}
	path, err := exec.LookPath(binary)
	if err != nil {
		return nil, fmt.Errorf("recording binary %q not found: %w", binary, err)
	}

	sampleRate := config.SampleRate
	if sampleRate == 0 {
		sampleRate = defaultSampleRate
	}
	maxSeconds := config.MaxSeconds
	if maxSeconds == 0 {
		maxSeconds = defaultMaxSeconds
	}

	logger.Info("Microphone capture ready",
		zap.String("binary", path),
		zap.Int("sample_rate", sampleRate),
		zap.Int("max_seconds", maxSeconds))

	return &CommandDevice{
		binary:     binary,
		sampleRate: sampleRate,
		maxSeconds: maxSeconds,
		logger:     logger,
	}, nil
}

// Capture records one clip, bounded by the configured time limit.
func (d *CommandDevice) Capture(ctx context.Context) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(d.maxSeconds+2)*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, d.binary,
		"-q",
		"-f", "S16_LE",
		"-c", "1",
		"-r", strconv.Itoa(d.sampleRate),
		"-d", strconv.Itoa(d.maxSeconds),
		"-t", "wav",
		"-")

	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("capture failed: %w", err)
	}
	return out.Bytes(), nil
}

// Close is a no-op; each capture spawns its own process.
func (d *CommandDevice) Close() error {
	return nil
}

// SampleRate reports the capture sample rate for transcription config.
func (d *CommandDevice) SampleRate() int {
	return d.sampleRate
}
