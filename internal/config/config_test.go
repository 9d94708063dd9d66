package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := loadFrom(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)

	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadFromMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"hotkey": "<super>+d", "debounce_ms": 500}`), 0600))

	cfg, err := loadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, "<super>+d", cfg.Hotkey)
	assert.Equal(t, 500, cfg.DebounceMS)
	// Untouched fields keep their defaults.
	assert.Equal(t, 120, cfg.ProcessingDeadlineSec)
	assert.True(t, cfg.SoundFeedback)
	assert.Equal(t, "auto", cfg.InputMethod)
}

func TestLoadFromRejectsMalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0600))

	_, err := loadFrom(path)
	assert.Error(t, err)
}

func TestDurationAccessors(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 300*time.Millisecond, cfg.Debounce())
	assert.Equal(t, 2*time.Minute, cfg.ProcessingDeadline())
	assert.Equal(t, time.Second, cfg.PollTimeout())
	assert.Equal(t, 30*time.Second, cfg.HealthInterval())
	assert.Equal(t, time.Minute, cfg.MaxUtterance())
}
