package redis

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lognode/logship/internal/config"
)

func TestMakeValidation(t *testing.T) {
	_, err := Make(context.Background(), nil, logrus.New())
	require.Error(t, err)

	def := &config.SinkDef{Name: "r1", Type: "redis", Cfg: json.RawMessage(`{"addr":123}`)}
	_, err = Make(context.Background(), def, logrus.New())
	require.Error(t, err)
}

func TestMakeDefaults(t *testing.T) {
	def := &config.SinkDef{
		Name: "r1",
		Type: "redis",
		Cfg:  json.RawMessage(`{"addr":"127.0.0.1:6379","db":2}`),
	}
	s, err := Make(context.Background(), def, logrus.New())
	require.NoError(t, err)

	rs := s.(*RedisSink)
	assert.Equal(t, DefaultKey, rs.cfg.Key)
	assert.Equal(t, int64(MaxEvents), rs.cfg.Cap)
	assert.Equal(t, 2, rs.cfg.DB)
	require.NoError(t, rs.Close())
}
