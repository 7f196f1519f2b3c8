package logger

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewLevels(t *testing.T) {
	t.Parallel()

	for level, want := range map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		" WARN ":  zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"":        zapcore.InfoLevel,
		"verbose": zapcore.InfoLevel,
	} {
		l := New(level)
		require.Truef(t, l.Core().Enabled(want), "level %q should enable %s", level, want)
		if want > zapcore.DebugLevel {
			require.Falsef(t, l.Core().Enabled(want-1), "level %q should not enable %s", level, want-1)
		}
	}
}
