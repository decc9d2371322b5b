package mqtt

import (
	"context"

	"github.com/lognode/logship/internal/config"
	"github.com/lognode/logship/internal/sink"
	log "github.com/sirupsen/logrus"
)

type mqttFactory struct {
}

func (df mqttFactory) Name() string {
	return "mqtt"
}

func (df mqttFactory) Build(ctx context.Context, cfg *config.SinkDef, log *log.Logger) (sink.Sink, error) {
	return Make(ctx, cfg, log)
}

func init() {
	sink.RegisterFactory("mqtt", &mqttFactory{})
}
