package sink

import (
	"context"
	"fmt"
	"strings"

	"github.com/lognode/logship/internal/config"
	log "github.com/sirupsen/logrus"
)

type Factory interface {
	Name() string
	Build(ctx context.Context, cfg *config.SinkDef, log *log.Logger) (Sink, error)
}

var sinkFactories map[string]Factory

func RegisterFactory(name string, factory Factory) {
	if sinkFactories == nil {
		sinkFactories = make(map[string]Factory)
	}
	sinkFactories[strings.ToLower(name)] = factory
}

func SinkByName(ctx context.Context, name string, cfg *config.SinkDef, log *log.Logger) (Sink, error) {
	if val, ok := sinkFactories[strings.ToLower(name)]; ok {
		return val.Build(ctx, cfg, log)
	}
	return nil, fmt.Errorf("no Sink factory for %s", name)
}
