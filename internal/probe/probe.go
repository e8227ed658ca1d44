// Package probe resolves media durations by shelling out to ffprobe.
package probe

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
)

type Result struct {
	Duration float64
	Width    int
	Height   int
	Codec    string
}

type Prober interface {
	Probe(ctx context.Context, path string) (*Result, error)
}

// FFprobe runs the ffprobe binary against a local media file.
type FFprobe struct {
	bin    string
	logger *slog.Logger
}

func NewFFprobe(bin string, logger *slog.Logger) *FFprobe {
	if bin == "" {
		bin = "ffprobe"
	}
	return &FFprobe{bin: bin, logger: logger}
}

func (f *FFprobe) Probe(ctx context.Context, path string) (*Result, error) {
	cmd := exec.CommandContext(ctx, f.bin,
		"-v", "error",
		"-show_entries", "format=duration",
		"-show_entries", "stream=codec_name,width,height",
		"-of", "default=noprint_wrappers=1",
		path,
	)
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ffprobe failed: %w", err)
	}

	res := &Result{}
	for _, line := range strings.Split(string(out), "\n") {
		key, value, ok := strings.Cut(strings.TrimSpace(line), "=")
		if !ok || value == "N/A" {
			continue
		}
		switch key {
		case "duration":
			if d, err := strconv.ParseFloat(value, 64); err == nil && d > res.Duration {
				res.Duration = d
			}
		case "width":
			if v, err := strconv.Atoi(value); err == nil && res.Width == 0 {
				res.Width = v
			}
		case "height":
			if v, err := strconv.Atoi(value); err == nil && res.Height == 0 {
				res.Height = v
			}
		case "codec_name":
			if res.Codec == "" {
				res.Codec = value
			}
		}
	}

	if res.Duration <= 0 {
		return nil, fmt.Errorf("ffprobe reported no duration for %s", path)
	}

	if f.logger != nil {
		f.logger.Debug("probed media", "path", path, "duration", res.Duration)
	}
	return res, nil
}

// Stub returns canned results, for tests and environments without ffmpeg.
type Stub struct {
	Durations map[string]float64
	Err       error
}

func (s *Stub) Probe(_ context.Context, path string) (*Result, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if d, ok := s.Durations[path]; ok {
		return &Result{Duration: d}, nil
	}
	return nil, fmt.Errorf("no stubbed duration for %s", path)
}
