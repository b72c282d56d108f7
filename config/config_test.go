package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromFile_MissingFileUsesDefaults(t *testing.T) {
	cfg := FromFile(filepath.Join(t.TempDir(), "nope.json"))
	assert.Equal(t, Default(), cfg)
}

func TestFromFile_CorruptFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	cfg := FromFile(path)
	assert.Equal(t, Default(), cfg)
}

func TestFromFile_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.json")
	body := `{"router_model": "custom-router", "session_timeout_minutes": 5, "escalation_enabled": false}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg := FromFile(path)
	assert.Equal(t, "custom-router", cfg.RouterModel)
	assert.Equal(t, 5*time.Minute, cfg.SessionTimeout())
	assert.False(t, cfg.EscalationEnabled)

	// Untouched fields fall back to defaults.
	assert.Equal(t, Default().Model, cfg.Model)
	assert.Equal(t, 0.7, cfg.CodeRoutingThreshold)
	assert.Equal(t, 30*time.Second, cfg.CompletionTimeout())
	assert.True(t, cfg.FollowUpDetection)
}
