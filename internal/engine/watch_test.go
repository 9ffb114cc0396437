package engine

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driftwatch/driftwatch/internal/config"
	"github.com/driftwatch/driftwatch/internal/gitstate"
)

func TestWatchIgnored(t *testing.T) {
	root := t.TempDir()
	cfg := config.Default()
	cfg.Scanners = []string{"css"}
	eng, err := New(context.Background(), Options{Root: root, Config: cfg, Git: gitstate.None{}})
	require.NoError(t, err)

	assert.True(t, eng.watchIgnored(filepath.Join(root, "node_modules", "pkg", "index.js")))
	assert.True(t, eng.watchIgnored(filepath.Join(root, ".driftwatch", "cache.json")))
	assert.True(t, eng.watchIgnored(filepath.Join(root, "dist", "app.css")))
	assert.False(t, eng.watchIgnored(filepath.Join(root, "src", "app.css")))
}
