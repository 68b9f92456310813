package logging

import (
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/log"
	"github.com/stretchr/testify/assert"
)

func TestNewLoggerLevels(t *testing.T) {
	ctx := context.Background()

	debug := NewLogger("debug", false)
	assert.True(t, debug.Handler().Enabled(ctx, log.LevelDebug))

	warn := NewLogger("warn", false)
	assert.False(t, warn.Handler().Enabled(ctx, log.LevelInfo))
	assert.True(t, warn.Handler().Enabled(ctx, log.LevelWarn))
}

func TestNewLoggerUnknownLevelFallsBackToInfo(t *testing.T) {
	logger := NewLogger("chatty", false)
	assert.True(t, logger.Handler().Enabled(context.Background(), log.LevelInfo))
	assert.False(t, logger.Handler().Enabled(context.Background(), log.LevelDebug))
}
