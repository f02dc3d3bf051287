package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/user/mjpegw/pkg/ports"
)

func TestConsoleLogger_LevelFiltering(t *testing.T) {
	tests := []struct {
		level    ports.LogLevel
		wantOut  int
		wantErrs int
	}{
		{ports.LevelDebug, 2, 2},
		{ports.LevelInfo, 1, 2},
		{ports.LevelWarn, 0, 2},
		{ports.LevelError, 0, 1},
		{ports.LevelQuiet, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			var out, errOut bytes.Buffer
			l := NewWriter(tt.level, &out, &errOut)

			l.Debug("debug %d", 1)
			l.Info("info %d", 2)
			l.Warn("warn %d", 3)
			l.Error("error %d", 4)

			if got := strings.Count(out.String(), "\n"); got != tt.wantOut {
				t.Errorf("stdout lines = %d, want %d: %q", got, tt.wantOut, out.String())
			}
			if got := strings.Count(errOut.String(), "\n"); got != tt.wantErrs {
				t.Errorf("stderr lines = %d, want %d: %q", got, tt.wantErrs, errOut.String())
			}
		})
	}
}

func TestConsoleLogger_FormatsArgs(t *testing.T) {
	var out bytes.Buffer
	l := NewWriter(ports.LevelInfo, &out, &out)

	l.Info("wrote %d frames to %s", 12, "out.avi")
	if got := out.String(); got != "wrote 12 frames to out.avi\n" {
		t.Errorf("got %q", got)
	}
}

func TestConsoleLogger_WithComponent(t *testing.T) {
	var out bytes.Buffer
	l := NewWriter(ports.LevelDebug, &out, &out)

	l.WithComponent("avi").Debug("header written")
	if got := out.String(); got != "[avi] header written\n" {
		t.Errorf("got %q", got)
	}

	out.Reset()
	l.Debug("plain")
	if got := out.String(); got != "plain\n" {
		t.Errorf("parent logger gained a prefix: %q", got)
	}
}

func TestNoopLogger(t *testing.T) {
	l := NewNoop()
	l.Info("nothing %d", 1)
	if l.WithComponent("x") != ports.Logger(l) {
		t.Error("expected WithComponent to return the same logger")
	}
}
