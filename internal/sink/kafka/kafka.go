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

package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/lognode/logship/internal/config"
	"github.com/lognode/logship/internal/sink"
	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

type KafkaConfig struct {
	Addr        string  `json:"addr"`
	Topic       string  `json:"topic"`
	Compression bool    `json:"compression"`
	Batch       int     `json:"batch"`
	TickSec     float64 `json:"tick"`
}

type KafkaSink struct {
	sink.SinkCommon
	cfg KafkaConfig
	kc  *kafka.Writer
}

func Make(ctx context.Context, cfg *config.SinkDef, log *logrus.Logger) (sink.Sink, error) {

	var ks = &KafkaSink{}

	if cfg == nil {
		return nil, errors.New("kafka config is missing")
	}

	if err := json.Unmarshal(cfg.Cfg, &ks.cfg); err != nil {
		return nil, errors.Wrap(err, "kafka config parsing error")
	}

	if ks.cfg.Addr == "" || ks.cfg.Topic == "" {
		return nil, errors.New("kafka sink requires addr and topic")
	}
	if ks.cfg.Batch <= 0 {
		ks.cfg.Batch = 100
	}
	if ks.cfg.TickSec <= 0 {
		ks.cfg.TickSec = 1
	}

	ks.MakeDefault(log, cfg.Name)

	// The writer owns batching and flushing; Batch and TickSec map
	// onto its in-library batch size and timeout.
	ks.kc = &kafka.Writer{
		Addr:         kafka.TCP(ks.cfg.Addr),
		Topic:        ks.cfg.Topic,
		Balancer:     &kafka.LeastBytes{},
		BatchSize:    ks.cfg.Batch,
		BatchTimeout: time.Duration(ks.cfg.TickSec * float64(time.Second)),
		Async:        true,
	}
	if ks.cfg.Compression {
		ks.kc.Compression = kafka.Gzip
	}

	return ks, nil

}

func (ks *KafkaSink) Start(ctx context.Context) error {
	go func() {
		for {
			select {
			case ev := <-ks.Events:
				payload, err := ev.JSON()
				if err != nil {
					ks.Log.WithError(err).Error("dropping unencodable event")
					continue
				}
				if err := ks.kc.WriteMessages(ctx, kafka.Message{
					Key:   []byte(ev.Level),
					Value: payload,
				}); err != nil {
					ks.Log.WithError(err).Warn("kafka write failed")
				}
			case <-ctx.Done():
				return
			}
		}
	}()
	return nil
}

func (ks *KafkaSink) Close() error {
	return ks.kc.Close()
}
