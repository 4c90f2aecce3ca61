package logging_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/pthm/issuesreport/internal/logging"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    slog.Level
		wantErr bool
	}{
		{input: "debug", want: slog.LevelDebug},
		{input: "INFO", want: slog.LevelInfo},
		{input: "", want: slog.LevelInfo},
		{input: "warning", want: slog.LevelWarn},
		{input: "error", want: slog.LevelError},
		{input: "trace", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := logging.ParseLevel(tt.input)
			if tt.wantErr {
				gt.Error(t, err)
				return
			}
			gt.NoError(t, err)
			gt.Equal(t, got, tt.want)
		})
	}
}

func TestParseFormat(t *testing.T) {
	f, err := logging.ParseFormat("json")
	gt.NoError(t, err)
	gt.Equal(t, f, logging.FormatJSON)

	f, err = logging.ParseFormat("")
	gt.NoError(t, err)
	gt.Equal(t, f, logging.FormatAuto)

	_, err = logging.ParseFormat("xml")
	gt.Error(t, err)
}

func TestNewAutoNonTerminalIsJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(slog.LevelInfo, &buf, logging.FormatAuto)
	logger.Debug("hidden")
	logger.Info("hello", "key", "value")

	var entry map[string]any
	gt.NoError(t, json.Unmarshal(buf.Bytes(), &entry)).Required()
	gt.V(t, entry["msg"]).Equal("hello")
	gt.V(t, entry["key"]).Equal("value")
}

func TestNewConsole(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(slog.LevelDebug, &buf, logging.FormatConsole)
	logger.Debug("console message")
	gt.S(t, buf.String()).Contains("console message")
}
