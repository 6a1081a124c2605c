package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLogsThroughGlobalLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	restore := zap.ReplaceGlobals(zap.New(core))
	defer restore()

	New("scheduler").Infow("job ran", "removed", 2)

	entries := logs.All()
	assert.Len(t, entries, 1)
	assert.Equal(t, "scheduler", entries[0].LoggerName)
	assert.Equal(t, "job ran", entries[0].Message)
	assert.Equal(t, int64(2), entries[0].ContextMap()["removed"])
}
