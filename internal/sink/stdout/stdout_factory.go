package stdout

import (
	"context"

	"github.com/lognode/logship/internal/config"
	"github.com/lognode/logship/internal/sink"
	log "github.com/sirupsen/logrus"
)

type stdoutFactory struct {
}

func (df stdoutFactory) Name() string {
	return "stdout"
}

func (df stdoutFactory) Build(ctx context.Context, cfg *config.SinkDef, log *log.Logger) (sink.Sink, error) {
	return Make(ctx, cfg, log)
}

func init() {
	sink.RegisterFactory("stdout", &stdoutFactory{})
}
