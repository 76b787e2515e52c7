package logger

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/delugian/midi/sdk/contracts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLevelFiltering(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewZapLoggerFrom(zap.New(core))
	log.SetLevel(contracts.WarnLevel)

	log.Debug("debug")
	log.Info("info")
	log.Warn("warn")
	log.Error("error")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "warn", entries[0].Message)
	assert.Equal(t, "error", entries[1].Message)

	log.SetLevel(contracts.DebugLevel)
	log.Debug("debug again")
	assert.Equal(t, 1, logs.FilterMessage("debug again").Len())
}

func TestFieldsAreStructured(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewZapLoggerFrom(zap.New(core))

	log.Info("device selected",
		log.Field().Int("deviceID", 2),
		log.Field().String("deviceName", "Keyboard"),
		log.Field().Uint8("note", 64),
		log.Field().Error("error", errors.New("boom")),
		log.Field().Error("nilError", nil))

	require.Equal(t, 1, logs.Len())
	ctx := logs.All()[0].ContextMap()
	assert.Equal(t, int64(2), ctx["deviceID"])
	assert.Equal(t, "Keyboard", ctx["deviceName"])
	assert.Equal(t, uint8(64), ctx["note"])
	assert.Equal(t, "boom", ctx["error"])
	assert.NotContains(t, ctx, "nilError")
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		name  string
		level contracts.LogLevel
		ok    bool
	}{
		{"debug", contracts.DebugLevel, true},
		{"info", contracts.InfoLevel, true},
		{"warning", contracts.WarnLevel, true},
		{"error", contracts.ErrorLevel, true},
		{"loud", contracts.InfoLevel, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level, ok := contracts.ParseLogLevel(tt.name)
			assert.Equal(t, tt.level, level)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestSetDestinationFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "midi.log")
	log := NewZapLogger()
	log.SetDestination(contracts.FileLog, path)
	log.Info("written to file", log.Field().Int("deviceID", 1))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to file")
	assert.Contains(t, string(data), `"deviceID":1`)
}
