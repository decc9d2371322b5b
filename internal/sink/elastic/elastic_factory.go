package elastic

import (
	"context"

	"github.com/lognode/logship/internal/config"
	"github.com/lognode/logship/internal/sink"
	log "github.com/sirupsen/logrus"
)

type elasticFactory struct {
}

func (df elasticFactory) Name() string {
	return "elastic"
}

func (df elasticFactory) Build(ctx context.Context, cfg *config.SinkDef, log *log.Logger) (sink.Sink, error) {
	return Make(ctx, cfg, log)
}

func init() {
	sink.RegisterFactory("elastic", &elasticFactory{})
}
