package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_WritesFieldsAsJSON(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "debug")

	l.WithField("stage", "planning").Info("starting")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "info", line["level"])
	assert.Equal(t, "planning", line["stage"])
	assert.Equal(t, "starting", line["message"])
}

func TestNew_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "warn")

	l.Debug("hidden")
	l.Info("hidden")
	l.Warn("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
}

func TestNew_UnknownLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "loud")

	l.Debug("hidden")
	l.Info("shown")

	assert.Equal(t, 1, strings.Count(buf.String(), "\n"))
}

func TestNewFileLogger(t *testing.T) {
	dir := t.TempDir()
	l, closer, err := NewFileLogger(dir, "info")
	require.NoError(t, err)

	l.Info("hello")
	require.NoError(t, closer.Close())

	content, err := os.ReadFile(filepath.Join(dir, "dapp.log"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "hello")
}

func TestNullLogger(t *testing.T) {
	l := NewNullLogger()
	assert.NotPanics(t, func() {
		l.WithField("k", "v").Info("nothing")
	})
}
