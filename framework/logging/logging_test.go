package logging_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/km-arc/go-container/framework/config"
	"github.com/km-arc/go-container/framework/logging"
)

func cfgWith(env, level, format string) *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "test", Env: env},
		Log: config.LogConfig{Level: level, Format: format},
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zap.AtomicLevel
	}{
		{"debug", zap.NewAtomicLevelAt(zap.DebugLevel)},
		{"", zap.NewAtomicLevelAt(zap.InfoLevel)},
		{"INFO", zap.NewAtomicLevelAt(zap.InfoLevel)},
		{"warn", zap.NewAtomicLevelAt(zap.WarnLevel)},
		{"error", zap.NewAtomicLevelAt(zap.ErrorLevel)},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := logging.ParseLevel(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want.Level(), got)
		})
	}

	_, err := logging.ParseLevel("loud")
	assert.Error(t, err)
}

func TestNew_LevelApplied(t *testing.T) {
	logger, err := logging.New(cfgWith("local", "warn", "console"))
	require.NoError(t, err)

	assert.False(t, logger.Core().Enabled(zap.InfoLevel))
	assert.True(t, logger.Core().Enabled(zap.WarnLevel))
}

func TestNew_Production(t *testing.T) {
	logger, err := logging.New(cfgWith("production", "debug", "json"))
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zap.DebugLevel))
}

func TestNew_Invalid(t *testing.T) {
	_, err := logging.New(cfgWith("local", "loud", "console"))
	assert.ErrorContains(t, err, "unknown level")

	_, err = logging.New(cfgWith("local", "info", "xml"))
	assert.ErrorContains(t, err, "unknown format")
}
