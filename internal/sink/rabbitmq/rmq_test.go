package rabbitmq

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

	// stream mode without a cluster
	def := &config.SinkDef{Name: "q1", Type: "rabbitmq", Cfg: json.RawMessage(`{}`)}
	_, err = Make(context.Background(), def, logrus.New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stream-cluster")

	// classic mode without an exchange
	def = &config.SinkDef{Name: "q1", Type: "rabbitmq", Cfg: json.RawMessage(`{"classic":true,"url":"amqp://localhost"}`)}
	_, err = Make(context.Background(), def, logrus.New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exchange")
}
