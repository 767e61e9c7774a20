package internal

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	t.Run("prod writes json", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf, "prod", "info")
		logger.Info("cart persisted", "session_id", "abc")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "cart persisted", entry["msg"])
		assert.Equal(t, "vortex", entry["service"])
		assert.Equal(t, "abc", entry["session_id"])
	})

	t.Run("level filters debug", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf, "dev", "warn")
		logger.Info("hidden")
		logger.Warn("shown")

		out := buf.String()
		assert.False(t, strings.Contains(out, "hidden"))
		assert.True(t, strings.Contains(out, "shown"))
	})
}
