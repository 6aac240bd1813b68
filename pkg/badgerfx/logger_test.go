package badgerfx

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLogger_Levels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := newLogger(zap.New(core))

	l.Infof("Replaying file id: %d\n", 3)
	l.Debugf("debug %s", "line")
	l.Warningf("slow %s\n", "write")
	l.Errorf("broken")

	entries := logs.AllUntimed()
	require.Len(t, entries, 4)

	require.Equal(t, zapcore.DebugLevel, entries[0].Level)
	require.Equal(t, "Replaying file id: 3", entries[0].Message)
	require.Equal(t, zapcore.DebugLevel, entries[1].Level)
	require.Equal(t, zapcore.WarnLevel, entries[2].Level)
	require.Equal(t, "slow write", entries[2].Message)
	require.Equal(t, zapcore.ErrorLevel, entries[3].Level)
}

func TestZapLogger_QuietAtInfo(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	l := newLogger(zap.New(core))

	l.Infof("All %d tables opened in %s\n", 2, "1ms")

	require.Zero(t, logs.Len())
}
