package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestLevelerSetAndGet(t *testing.T) {
	leveler := GetLeveler()

	leveler.SetLevel("logging-test", zapcore.DebugLevel)
	assert.Equal(t, zapcore.DebugLevel, leveler.GetLevel("logging-test"))

	leveler.SetLevel("logging-test", zapcore.WarnLevel)
	assert.Equal(t, zapcore.WarnLevel, leveler.GetLevel("logging-test"))
}

func TestUnconfiguredNameUsesDefaultLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	assert.Equal(t, zapcore.InfoLevel, GetLeveler().GetLevel("never-configured"))

	t.Setenv("LOG_LEVEL", "debug")
	assert.Equal(t, zapcore.DebugLevel, GetLeveler().GetLevel("never-configured"))

	t.Setenv("LOG_LEVEL", "not-a-level")
	assert.Equal(t, zapcore.InfoLevel, GetLeveler().GetLevel("never-configured"))
}

func TestNew(t *testing.T) {
	logger := New("logging-test-new")
	require.NotNil(t, logger)
	logger.Debugw("below default level, not emitted")
}
