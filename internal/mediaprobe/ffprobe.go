package mediaprobe

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/tidwall/gjson"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

var ErrNoDuration = errors.New("probe output has no duration")

// FFprobeConfig holds configuration for the ffprobe-based prober.
type FFprobeConfig struct {
	// Timeout bounds a single ffprobe run.
	// Default: 30s
	Timeout time.Duration
}

func DefaultFFprobeConfig() FFprobeConfig {
	return FFprobeConfig{Timeout: 30 * time.Second}
}

// probeFunc matches ffmpeg.ProbeWithTimeout so tests can replace the binary call.
type probeFunc func(fileName string, timeout time.Duration, kwargs ffmpeg.KwArgs) (string, error)

// FFprobe implements Prober by running ffprobe and reading format.duration.
type FFprobe struct {
	config FFprobeConfig
	probe  probeFunc
}

var _ Prober = (*FFprobe)(nil)

func NewFFprobe(cfg FFprobeConfig) *FFprobe {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultFFprobeConfig().Timeout
	}
	return &FFprobe{config: cfg, probe: ffmpeg.ProbeWithTimeout}
}

func (p *FFprobe) Duration(ctx context.Context, path string) (float64, error) {
	if err := validateInput(path); err != nil {
		return 0, err
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	timeout := p.config.Timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}

	out, err := p.probe(path, timeout, ffmpeg.KwArgs{})
	if err != nil {
		return 0, fmt.Errorf("ffprobe failed: %w", err)
	}
	return parseDuration(out)
}

// parseDuration reads format.duration, which ffprobe reports as a decimal string.
func parseDuration(probeJSON string) (float64, error) {
	if !gjson.Valid(probeJSON) {
		return 0, fmt.Errorf("ffprobe returned invalid JSON")
	}
	raw := gjson.Get(probeJSON, "format.duration")
	if !raw.Exists() {
		return 0, ErrNoDuration
	}
	d, err := strconv.ParseFloat(raw.String(), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", raw.String(), err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid duration %q", raw.String())
	}
	return d, nil
}

func validateInput(inputPath string) error {
	info, err := os.Stat(inputPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("input file does not exist: %s", inputPath)
		}
		return fmt.Errorf("failed to access input file: %w", err)
	}

	if info.IsDir() {
		return fmt.Errorf("input path is a directory, expected a file: %s", inputPath)
	}

	return nil
}
