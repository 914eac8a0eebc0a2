package log

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestErrorPrependsErr(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	Use(zap.New(core))

	Error("fetch failed", errors.New("boom"), "id", "events")

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "fetch failed", entries[0].Message)
	assert.Equal(t, "boom", fields["err"])
	assert.Equal(t, "events", fields["id"])
}

func TestInfoAndDebugLevels(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	Use(zap.New(core))

	Debug("hidden")
	Info("shown", "count", 3)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "shown", entries[0].Message)
	assert.EqualValues(t, 3, entries[0].ContextMap()["count"])
}
