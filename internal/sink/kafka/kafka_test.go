package kafka

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lognode/logship/internal/config"
)

func TestMakeValidation(t *testing.T) {
	_, err := Make(context.Background(), nil, logrus.New())
	require.Error(t, err)

	def := &config.SinkDef{Name: "k1", Type: "kafka", Cfg: json.RawMessage(`{"addr":"localhost:9092"}`)}
	_, err = Make(context.Background(), def, logrus.New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "topic")
}

func TestMakeDefaults(t *testing.T) {
	def := &config.SinkDef{
		Name: "k1",
		Type: "kafka",
		Cfg:  json.RawMessage(`{"addr":"localhost:9092","topic":"logs","compression":true}`),
	}
	s, err := Make(context.Background(), def, logrus.New())
	require.NoError(t, err)

	ks := s.(*KafkaSink)
	assert.Equal(t, "logs", ks.kc.Topic)
	assert.Equal(t, 100, ks.kc.BatchSize)
	assert.Equal(t, time.Second, ks.kc.BatchTimeout)
	require.NoError(t, ks.Close())
}
