// Copyright (C) 2023 LogNode Org.
//
// logship is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// logship is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with logship.  If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/lognode/logship/internal/config"
	"github.com/lognode/logship/internal/rules"
	"github.com/lognode/logship/internal/sink"

	_ "github.com/lognode/logship/internal/sink/elastic"
	_ "github.com/lognode/logship/internal/sink/kafka"
	_ "github.com/lognode/logship/internal/sink/mqtt"
	_ "github.com/lognode/logship/internal/sink/rabbitmq"
	_ "github.com/lognode/logship/internal/sink/redis"
	_ "github.com/lognode/logship/internal/sink/stdout"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	log := logrus.New()
	log.SetOutput(os.Stderr)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.WithError(err).Fatal("failed to load config")
	}

	if err := rules.Compile(cfg.Rules); err != nil {
		log.WithError(err).Fatal("failed to compile ship rules")
	}

	sinks, err := buildSinks(ctx, &cfg, log)
	if err != nil {
		log.WithError(err).Fatal("failed to build sinks")
	}
	if len(sinks) == 0 {
		log.Fatal("no sinks configured")
	}

	events, err := sourceStream(ctx, &cfg, log)
	if err != nil {
		log.WithError(err).Fatal("failed to open source")
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return ship(ctx, &cfg, events, sinks)
	})
	if err := g.Wait(); err != nil && err != context.Canceled {
		log.WithError(err).Error("shipper exited")
	}

	for _, s := range sinks {
		s.Close()
	}
}

func buildSinks(ctx context.Context, cfg *config.ShipperConfig, log *logrus.Logger) ([]sink.Sink, error) {
	defs := cfg.Sinks
	if cfg.Stdout {
		defs = []*config.SinkDef{{Name: "stdout", Type: "stdout", Cfg: json.RawMessage("{}")}}
	}

	sinks := make([]sink.Sink, 0, len(defs))
	for _, def := range defs {
		s, err := sink.SinkByName(ctx, def.Type, def, log)
		if err != nil {
			return nil, err
		}
		if err := s.Start(ctx); err != nil {
			return nil, err
		}
		log.WithFields(logrus.Fields{"sink": def.Name, "type": def.Type}).Info("sink started")
		sinks = append(sinks, s)
	}
	return sinks, nil
}

func ship(ctx context.Context, cfg *config.ShipperConfig, events <-chan *sink.Event, sinks []sink.Sink) error {
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if !cfg.Rules.ShouldShip(ctx, ev.Doc()) {
				continue
			}
			for _, s := range sinks {
				s.Process(ctx, ev, true)
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
