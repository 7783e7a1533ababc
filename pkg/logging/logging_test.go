package logging

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevels(t *testing.T) {
	var buf bytes.Buffer
	Init(LevelInfo, &buf)
	t.Cleanup(func() {
		mu.Lock()
		defaultLogger = nil
		mu.Unlock()
	})

	Debug("Controller", "hidden %d", 1)
	assert.Empty(t, buf.String())

	Info("Controller", "event %s", "newTodo")
	assert.Contains(t, buf.String(), "level=INFO")
	assert.Contains(t, buf.String(), `msg="event newTodo"`)
	assert.Contains(t, buf.String(), "subsystem=Controller")

	buf.Reset()
	Error("Store", errors.New("disk full"), "save failed")
	assert.Contains(t, buf.String(), "level=ERROR")
	assert.Contains(t, buf.String(), `error="disk full"`)
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]LogLevel{
		"":      LevelInfo,
		"DEBUG": LevelDebug,
		"warn":  LevelWarn,
		"error": LevelError,
	} {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseLevel("loud")
	assert.Error(t, err)
}
