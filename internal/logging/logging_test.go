package logging

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProduction(t *testing.T) {
	log, err := New(false, "")
	require.NoError(t, err)
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, log.Formatter)
}

func TestNewDevelopment(t *testing.T) {
	log, err := New(true, "")
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, log.Formatter)
}

func TestNewWithLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bombtris.log")

	log, err := New(false, path)
	require.NoError(t, err)
	log.SetOutput(io.Discard)

	log.WithField("session", 3).Info("game over")
	log.Debug("filtered out")

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "game over", entry["msg"])
	assert.Equal(t, float64(3), entry["session"])
}
