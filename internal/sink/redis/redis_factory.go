package redis

import (
	"context"

	"github.com/lognode/logship/internal/config"
	"github.com/lognode/logship/internal/sink"
	log "github.com/sirupsen/logrus"
)

type redisFactory struct {
}

func (df redisFactory) Name() string {
	return "redis"
}

func (df redisFactory) Build(ctx context.Context, cfg *config.SinkDef, log *log.Logger) (sink.Sink, error) {
	return Make(ctx, cfg, log)
}

func init() {
	sink.RegisterFactory("redis", &redisFactory{})
}
