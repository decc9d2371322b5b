package kafka

import (
	"context"

	"github.com/lognode/logship/internal/config"
	"github.com/lognode/logship/internal/sink"
	log "github.com/sirupsen/logrus"
)

type kafkaFactory struct {
}

func (df kafkaFactory) Name() string {
	return "kafka"
}

func (df kafkaFactory) Build(ctx context.Context, cfg *config.SinkDef, log *log.Logger) (sink.Sink, error) {
	return Make(ctx, cfg, log)
}

func init() {
	sink.RegisterFactory("kafka", &kafkaFactory{})
}
