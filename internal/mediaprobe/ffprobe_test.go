package mediaprobe

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

func writeTempFile(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("dummy"), 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}
	return path
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    float64
		wantErr bool
	}{
		{"typical output", `{"format":{"filename":"a.mp4","duration":"12.480000"}}`, 12.48, false},
		{"missing duration", `{"format":{"filename":"a.png"}}`, 0, true},
		{"not json", `ffprobe: command not found`, 0, true},
		{"garbage duration", `{"format":{"duration":"N/A"}}`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseDuration(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseDuration() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseDuration() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFFprobe_Duration(t *testing.T) {
	t.Run("non-existent file returns error without probing", func(t *testing.T) {
		p := NewFFprobe(DefaultFFprobeConfig())
		p.probe = func(string, time.Duration, ffmpeg.KwArgs) (string, error) {
			t.Fatal("probe should not run")
			return "", nil
		}
		if _, err := p.Duration(context.Background(), "/non/existent/file.mp4"); err == nil {
			t.Error("expected error for non-existent file")
		}
	})

	t.Run("directory returns error", func(t *testing.T) {
		p := NewFFprobe(DefaultFFprobeConfig())
		if _, err := p.Duration(context.Background(), t.TempDir()); err == nil {
			t.Error("expected error when input is a directory")
		}
	})

	t.Run("parses probe output", func(t *testing.T) {
		path := writeTempFile(t, "clip.mp4")
		p := NewFFprobe(FFprobeConfig{Timeout: time.Minute})
		var gotTimeout time.Duration
		p.probe = func(name string, timeout time.Duration, _ ffmpeg.KwArgs) (string, error) {
			if name != path {
				t.Errorf("probe file = %q, want %q", name, path)
			}
			gotTimeout = timeout
			return `{"format":{"duration":"3.5"}}`, nil
		}

		d, err := p.Duration(context.Background(), path)
		if err != nil {
			t.Fatalf("Duration() unexpected error = %v", err)
		}
		if d != 3.5 {
			t.Errorf("Duration() = %v, want 3.5", d)
		}
		if gotTimeout != time.Minute {
			t.Errorf("probe timeout = %v, want %v", gotTimeout, time.Minute)
		}
	})

	t.Run("context deadline shortens timeout", func(t *testing.T) {
		path := writeTempFile(t, "clip.mp4")
		p := NewFFprobe(FFprobeConfig{Timeout: time.Hour})
		p.probe = func(_ string, timeout time.Duration, _ ffmpeg.KwArgs) (string, error) {
			if timeout > time.Minute {
				t.Errorf("probe timeout = %v, want at most 1m", timeout)
			}
			return `{"format":{"duration":"1"}}`, nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if _, err := p.Duration(ctx, path); err != nil {
			t.Fatalf("Duration() unexpected error = %v", err)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		path := writeTempFile(t, "clip.mp4")
		p := NewFFprobe(DefaultFFprobeConfig())
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, err := p.Duration(ctx, path); !errors.Is(err, context.Canceled) {
			t.Errorf("Duration() error = %v, want context.Canceled", err)
		}
	})

	t.Run("probe failure is wrapped", func(t *testing.T) {
		path := writeTempFile(t, "clip.mp4")
		p := NewFFprobe(DefaultFFprobeConfig())
		sentinel := errors.New("exit status 1")
		p.probe = func(string, time.Duration, ffmpeg.KwArgs) (string, error) {
			return "", sentinel
		}
		if _, err := p.Duration(context.Background(), path); !errors.Is(err, sentinel) {
			t.Errorf("Duration() error = %v, want wrapped %v", err, sentinel)
		}
	})
}
