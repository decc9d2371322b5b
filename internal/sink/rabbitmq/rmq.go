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

package rabbitmq

import (
	"context"
	"encoding/json"
	"sync/atomic"

	"github.com/lognode/logship/internal/config"
	"github.com/lognode/logship/internal/sink"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	amqp91 "github.com/rabbitmq/amqp091-go"
	"github.com/rabbitmq/rabbitmq-stream-go-client/pkg/amqp"
	"github.com/rabbitmq/rabbitmq-stream-go-client/pkg/stream"
)

type RmqConfig struct {
	ClusterStr []string `json:"stream-cluster"`
	StreamName string   `json:"stream"`
	URL        string   `json:"url"`
	Exchange   string   `json:"exchange"`
	RoutingKey string   `json:"routing-key"`
	Classic    bool     `json:"classic"`
}

type RmqSink struct {
	sink.SinkCommon
	cfg      RmqConfig
	env      *stream.Environment
	producer *stream.Producer
	conn     *amqp91.Connection
	ch       *amqp91.Channel
}

var counter int32 = 0
var fail int32 = 0

func Make(ctx context.Context, cfg *config.SinkDef, log *logrus.Logger) (sink.Sink, error) {

	var rs = &RmqSink{}

	if cfg == nil {
		return nil, errors.New("rabbitmq config is missing")
	}

	if err := json.Unmarshal(cfg.Cfg, &rs.cfg); err != nil {
		return nil, errors.Wrap(err, "rmq config parsing error")
	}

	rs.MakeDefault(log, cfg.Name)

	if rs.cfg.Classic {
		if err := rs.dialClassic(); err != nil {
			return nil, err
		}
		return rs, nil
	}
	if err := rs.dialStream(); err != nil {
		return nil, err
	}
	return rs, nil
}

func (rs *RmqSink) dialStream() error {
	if len(rs.cfg.ClusterStr) == 0 || rs.cfg.StreamName == "" {
		return errors.New("rmq stream sink requires stream-cluster and stream")
	}

	var err error
	rs.env, err = stream.NewEnvironment(
		stream.NewEnvironmentOptions().SetUris(rs.cfg.ClusterStr))
	if err != nil {
		return err
	}

	if err = rs.env.DeclareStream(rs.cfg.StreamName,
		stream.NewStreamOptions().SetMaxLengthBytes(stream.ByteCapacity{}.GB(1))); err != nil {
		return errors.Wrapf(err, "error declaring stream %s", rs.cfg.StreamName)
	}

	rs.producer, err = rs.env.NewProducer(rs.cfg.StreamName, stream.NewProducerOptions())
	if err != nil {
		return err
	}

	confirms := rs.producer.NotifyPublishConfirmation()
	go func() {
		for messageStatus := range confirms {
			for _, message := range messageStatus {
				if message.IsConfirmed() {
					atomic.AddInt32(&counter, 1)
				} else {
					atomic.AddInt32(&fail, 1)
					rs.Log.Warnf("NOT Confirmed %d messages", atomic.LoadInt32(&fail))
				}
			}
		}
	}()
	return nil
}

func (rs *RmqSink) dialClassic() error {
	if rs.cfg.URL == "" || rs.cfg.Exchange == "" {
		return errors.New("rmq classic sink requires url and exchange")
	}

	var err error
	rs.conn, err = amqp91.Dial(rs.cfg.URL)
	if err != nil {
		return err
	}
	rs.ch, err = rs.conn.Channel()
	if err != nil {
		return err
	}
	return rs.ch.ExchangeDeclare(rs.cfg.Exchange, "topic", true, false, false, false, nil)
}

func (rs *RmqSink) publish(ctx context.Context, ev *sink.Event) error {
	payload, err := ev.JSON()
	if err != nil {
		rs.Log.WithError(err).Error("dropping unencodable event")
		return nil
	}
	if rs.cfg.Classic {
		key := rs.cfg.RoutingKey
		if key == "" {
			key = "logship." + ev.Level
		}
		return rs.ch.PublishWithContext(ctx, rs.cfg.Exchange, key, false, false, amqp91.Publishing{
			ContentType: "application/json",
			Timestamp:   ev.Ts,
			Body:        payload,
		})
	}
	return rs.producer.Send(amqp.NewMessage(payload))
}

func (rs *RmqSink) Start(ctx context.Context) error {
	go func() {
		for {
			select {
			case ev := <-rs.Events:
				if err := rs.publish(ctx, ev); err != nil {
					rs.Log.WithError(err).Warn("rmq publish failed")
				}
			case <-ctx.Done():
				return
			}
		}
	}()
	return nil
}

func (rs *RmqSink) Close() error {
	if rs.cfg.Classic {
		if rs.ch != nil {
			rs.ch.Close()
		}
		if rs.conn != nil {
			return rs.conn.Close()
		}
		return nil
	}
	if rs.producer != nil {
		rs.producer.Close()
	}
	if rs.env != nil {
		return rs.env.Close()
	}
	return nil
}
