package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lognode/logship/internal/utils"
)

func TestShipperConfigFromJSONC(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.jsonc")
	content := `{
	"source": "stdin",
	"queue": 500,
	"sinks": [
		// one ES target, one local mirror
		{"name": "es-main", "type": "elastic", "cfg": {"url": "http://localhost:9200", "user": "admin", "pass": "admin"}},
		{"name": "mirror", "type": "stdout", "cfg": {"pretty": true}},
	],
	"rules": {"myid": "node-1"},
}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg := defaultConfig
	require.NoError(t, utils.LoadJSONCFromFile(path, &cfg))

	assert.Equal(t, 500, cfg.Queue)
	require.Len(t, cfg.Sinks, 2)
	assert.Equal(t, "es-main", cfg.Sinks[0].Name)
	assert.Equal(t, "elastic", cfg.Sinks[0].Type)
	assert.JSONEq(t, `{"url": "http://localhost:9200", "user": "admin", "pass": "admin"}`, string(cfg.Sinks[0].Cfg))
	assert.Equal(t, "node-1", cfg.Rules.MyID)
}

func TestShipperConfigDefaults(t *testing.T) {
	cfg := defaultConfig
	assert.Equal(t, "stdin", cfg.Source)
	assert.Equal(t, 100, cfg.Queue)
	assert.Empty(t, cfg.Sinks)
}
