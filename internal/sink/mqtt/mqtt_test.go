package mqtt

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lognode/logship/internal/config"
)

func TestConfigDefaults(t *testing.T) {
	cfg := MQTTConfig{ClientId: "shipper", Qos: 7}
	cfg.defaults()

	assert.Equal(t, "localhost", cfg.Broker)
	assert.Equal(t, 1883, cfg.Port)
	assert.Equal(t, 0, cfg.Qos)
	assert.Equal(t, "logship/events", cfg.Topic)
	// client id gets a uuid suffix so parallel shippers do not collide
	assert.Contains(t, cfg.ClientId, "shipper-")
}

func TestMakeValidation(t *testing.T) {
	_, err := Make(context.Background(), nil, logrus.New())
	require.Error(t, err)

	def := &config.SinkDef{Name: "m1", Type: "mqtt", Cfg: json.RawMessage(`{"broker":1}`)}
	_, err = Make(context.Background(), def, logrus.New())
	require.Error(t, err)
}

func TestMakeBuildsClient(t *testing.T) {
	def := &config.SinkDef{
		Name: "m1",
		Type: "mqtt",
		Cfg:  json.RawMessage(`{"broker":"broker.local","port":8883,"topic":"logs"}`),
	}
	s, err := Make(context.Background(), def, logrus.New())
	require.NoError(t, err)

	ms := s.(*MQTTSink)
	assert.Equal(t, "logs", ms.cfg.Topic)
	assert.NotNil(t, ms.mc)
}
