package rules

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const levelRule = `package logship

default ship = false

ship {
	input.level == "error"
}

ship {
	input.level == "warning"
}
`

func TestShouldShipWithoutRule(t *testing.T) {
	cfg := &RulesConfig{}
	assert.True(t, cfg.ShouldShip(context.Background(), map[string]interface{}{"level": "debug"}))

	var nilCfg *RulesConfig
	assert.True(t, nilCfg.ShouldShip(context.Background(), nil))
}

func TestShouldShipLevelGate(t *testing.T) {
	cfg := &RulesConfig{}
	require.NoError(t, cfg.CompileString(levelRule))

	ctx := context.Background()
	assert.True(t, cfg.ShouldShip(ctx, map[string]interface{}{"level": "error"}))
	assert.True(t, cfg.ShouldShip(ctx, map[string]interface{}{"level": "warning"}))
	assert.False(t, cfg.ShouldShip(ctx, map[string]interface{}{"level": "debug"}))
}

func TestCompileFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ship.rego")
	require.NoError(t, os.WriteFile(path, []byte(levelRule), 0o600))

	cfg := &RulesConfig{Rules: RuleFiles{Ship: path}}
	require.NoError(t, Compile(cfg))
	assert.True(t, cfg.ShouldShip(context.Background(), map[string]interface{}{"level": "error"}))
}

func TestCompileBadRule(t *testing.T) {
	cfg := &RulesConfig{}
	require.Error(t, cfg.CompileString("this is not rego"))
}

func TestCompileMissingFileIsOptional(t *testing.T) {
	require.NoError(t, Compile(&RulesConfig{}))
	require.NoError(t, Compile(nil))

	cfg := &RulesConfig{Rules: RuleFiles{Ship: "/does/not/exist.rego"}}
	require.Error(t, Compile(cfg))
}
