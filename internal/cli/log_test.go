package cli

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		level     log.Level
		wantDebug bool
	}{
		{LogInfo, false},
		{LogDebug, true},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		logger := newLogger(&buf, tt.level)
		logger.Debug("frame", "offset", 18)
		logger.Info("decoded")

		out := buf.String()
		assert.Contains(t, out, "decoded")
		assert.Equal(t, tt.wantDebug, bytes.Contains(buf.Bytes(), []byte("offset=18")), "level %v", tt.level)
	}
}

func TestSetLogLevel(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf, LogInfo)
	c.Logger.Debug("hidden")
	c.SetLogLevel(LogDebug)
	c.Logger.Debug("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	newProgress(newLogger(&buf, LogInfo)).done("decoded", "vertices", 34)

	out := buf.String()
	assert.Contains(t, out, "decoded")
	assert.Contains(t, out, "vertices=34")
	assert.Contains(t, out, "elapsed=")
}
