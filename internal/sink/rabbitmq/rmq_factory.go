package rabbitmq

import (
	"context"

	"github.com/lognode/logship/internal/config"
	"github.com/lognode/logship/internal/sink"
	log "github.com/sirupsen/logrus"
)

type rmqFactory struct {
}

func (df rmqFactory) Name() string {
	return "rabbitmq"
}

func (df rmqFactory) Build(ctx context.Context, cfg *config.SinkDef, log *log.Logger) (sink.Sink, error) {
	return Make(ctx, cfg, log)
}

func init() {
	sink.RegisterFactory("rabbitmq", &rmqFactory{})
}
