package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cureconnect/cureconnect/internal/config"
)

func TestNew_JSONStampsServiceField(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.log")

	log, err := New("cureconnect", config.LogConfig{Level: "info", Format: "json", OutputPath: path})
	require.NoError(t, err)

	log.Info("startup check")
	require.NoError(t, log.Sync())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"service":"cureconnect"`)
	assert.Contains(t, string(raw), `"ts":`)
}

func TestNew_ConsoleFormat(t *testing.T) {
	log, err := New("cureconnect", config.LogConfig{Level: "debug", Format: "console", OutputPath: "stderr"})

	assert.NoError(t, err)
	assert.NotNil(t, log)
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New("cureconnect", config.LogConfig{Level: "chatty", Format: "json", OutputPath: "stderr"})

	assert.Error(t, err)
}
