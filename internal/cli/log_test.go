package cli

import (
	"bytes"
	"context"
	"regexp"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"info at info", log.InfoLevel, func(l *log.Logger) { l.Info("laid out") }, true},
		{"debug at info", log.InfoLevel, func(l *log.Logger) { l.Debug("pass") }, false},
		{"debug at debug", log.DebugLevel, func(l *log.Logger) { l.Debug("pass") }, true},
		{"warn at error", log.ErrorLevel, func(l *log.Logger) { l.Warn("depth") }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))
			if got := buf.Len() > 0; got != tt.wantLog {
				t.Errorf("wrote output = %v, want %v", got, tt.wantLog)
			}
		})
	}
}

func TestNewLoggerTimestamp(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, log.InfoLevel).Info("hello")

	if !regexp.MustCompile(`^\d\d:\d\d:\d\d\.\d\d `).MatchString(buf.String()) {
		t.Errorf("output %q should start with a HH:MM:SS.ms timestamp", buf.String())
	}
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	newProgress(newLogger(&buf, log.InfoLevel)).done("Rendered 2 files")

	out := buf.String()
	if !strings.Contains(out, "Rendered 2 files (") || !strings.Contains(out, "s)") {
		t.Errorf("output %q should contain the message and elapsed time", out)
	}
}

func TestLoggerFromContext(t *testing.T) {
	var buf bytes.Buffer
	custom := newLogger(&buf, log.InfoLevel)

	if got := loggerFromContext(withLogger(context.Background(), custom)); got != custom {
		t.Error("attached logger not returned")
	}
	if got := loggerFromContext(context.Background()); got != log.Default() {
		t.Error("empty context should fall back to log.Default()")
	}
	//nolint:staticcheck // nil context is accepted
	if got := loggerFromContext(nil); got != log.Default() {
		t.Error("nil context should fall back to log.Default()")
	}
}
