package logger

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewHonoursLevel(t *testing.T) {
	log, err := New("production", "warn")
	require.NoError(t, err)
	require.False(t, log.Core().Enabled(zapcore.InfoLevel))
	require.True(t, log.Core().Enabled(zapcore.WarnLevel))
}

func TestNewFallsBackToInfoOnUnknownLevel(t *testing.T) {
	log, err := New("production", "chatty")
	require.NoError(t, err)
	require.True(t, log.Core().Enabled(zapcore.InfoLevel))
	require.False(t, log.Core().Enabled(zapcore.DebugLevel))
}

func TestNamedToleratesNilBase(t *testing.T) {
	require.NotNil(t, Named(nil, "svc"))
}
