package log_test

import (
	"errors"
	"testing"

	"github.com/plus3/bodysync/internal/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want log.Level
	}{
		{"debug", log.LevelDebug},
		{"INFO", log.LevelInfo},
		{"", log.LevelInfo},
		{"warning", log.LevelWarn},
		{" error ", log.LevelError},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := log.ParseLevel(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := log.ParseLevel("verbose")
	assert.Error(t, err)
}

func TestNilLoggerDiscards(t *testing.T) {
	var l *log.Logger

	assert.NotPanics(t, func() {
		l.Info("ignored", log.String("k", "v"))
		l.With(log.Int("n", 1)).Warn("ignored")
		l.Named("child").Error("ignored", log.Error(errors.New("boom")))
		assert.NoError(t, l.Sync())
	})
	assert.False(t, l.Enabled(log.LevelError))
}

func TestFromZapWritesFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := log.FromZap(zap.New(core)).With(log.String("system", "input"))

	l.Debug("created body", log.Uint64("entity", 7))

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "created body", entries[0].Message)
	ctx := entries[0].ContextMap()
	assert.Equal(t, "input", ctx["system"])
	assert.Equal(t, uint64(7), ctx["entity"])
}

func TestNewRejectsUnknownEncoding(t *testing.T) {
	_, err := log.New(log.LevelInfo, "xml")
	assert.Error(t, err)

	l, err := log.New(log.LevelWarn, "console")
	require.NoError(t, err)
	assert.Equal(t, log.LevelWarn, l.GetLevel())
	assert.False(t, l.Enabled(log.LevelInfo))

	l.SetLevel(log.LevelDebug)
	assert.True(t, l.Enabled(log.LevelDebug))
}
