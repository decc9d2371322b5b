package utils

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackoffRetriesUntilSuccess(t *testing.T) {
	attempts := 0
	err := Backoff(context.Background(), func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return errors.New("transient")
		}
		return nil
	}, time.Second, time.Millisecond, 10*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestBackoffStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Backoff(ctx, func(ctx context.Context) error {
		return errors.New("never succeeds")
	}, time.Second, time.Millisecond, time.Millisecond)
	require.ErrorIs(t, err, context.Canceled)
}

func TestLoadJSONCFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.jsonc")
	content := `{
	// shipping target
	"source": "stdin",
	"queue": 42, // small queue for the test
}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	var cfg struct {
		Source string `json:"source"`
		Queue  int    `json:"queue"`
	}
	require.NoError(t, LoadJSONCFromFile(path, &cfg))
	assert.Equal(t, "stdin", cfg.Source)
	assert.Equal(t, 42, cfg.Queue)
}

func TestLoadJSONCFromFileMissing(t *testing.T) {
	var cfg struct{}
	require.Error(t, LoadJSONCFromFile("/does/not/exist.jsonc", &cfg))
}
