package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewBuildsLoggerAtRequestedLevel(t *testing.T) {
	log, err := New("hos-planner", "development", "debug")

	require.NoError(t, err)
	require.NotNil(t, log)
	assert.True(t, log.Desugar().Core().Enabled(zapcore.DebugLevel))
}

func TestWithContextRoundTrip(t *testing.T) {
	log := Default()
	ctx := ToContext(context.Background(), log)

	got := WithContext(ctx)

	assert.Same(t, log, got)
}

func TestWithContextFallsBackToDefault(t *testing.T) {
	got := WithContext(context.Background())

	assert.NotNil(t, got)
}

func TestWithRequestIDDoesNotMutateOriginal(t *testing.T) {
	log := Default()
	original := log.SugaredLogger
	derived := log.WithRequestID("req-1")

	assert.NotNil(t, derived)
	assert.Same(t, original, log.SugaredLogger)
	assert.NotSame(t, log.SugaredLogger, derived.SugaredLogger)
}
