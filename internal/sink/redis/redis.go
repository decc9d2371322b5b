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

package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/lognode/logship/internal/config"
	"github.com/lognode/logship/internal/sink"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/go-redis/redis/v8"
)

const (
	DefaultKey = "logship:events"
	MaxEvents  = 10000
)

type RedisConfig struct {
	Addr     string `json:"addr"`
	Username string `json:"user"`
	Password string `json:"pass"`
	DB       int    `json:"db"`
	Key      string `json:"key"`
	Cap      int64  `json:"cap"`
	Channel  string `json:"channel"`
}

type RedisSink struct {
	sink.SinkCommon
	cfg RedisConfig
	rc  *redis.Client
}

func Make(ctx context.Context, cfg *config.SinkDef, log *logrus.Logger) (sink.Sink, error) {

	var rs = &RedisSink{}

	if cfg == nil {
		return nil, errors.New("redis config is missing")
	}

	if err := json.Unmarshal(cfg.Cfg, &rs.cfg); err != nil {
		return nil, errors.Wrap(err, "redis config parsing error")
	}

	if rs.cfg.Key == "" {
		rs.cfg.Key = DefaultKey
	}
	if rs.cfg.Cap <= 0 {
		rs.cfg.Cap = MaxEvents
	}

	rs.MakeDefault(log, cfg.Name)

	rs.rc = redis.NewClient(&redis.Options{
		Addr:       rs.cfg.Addr,
		Password:   rs.cfg.Password,
		Username:   rs.cfg.Username,
		DB:         rs.cfg.DB,
		MaxRetries: 0,
		PoolSize:   50,
	})

	return rs, nil

}

func (rs *RedisSink) Start(ctx context.Context) error {
	go func() {
		for {
			select {
			case ev := <-rs.Events:
				for {
					err := rs.handleEvent(ctx, ev)
					if err == nil {
						break
					}
					if ctx.Err() != nil {
						return
					}
					time.Sleep(time.Second)
				}
			case <-ctx.Done():
				return
			}
		}
	}()
	return nil
}

// handleEvent pushes the event onto a capped list and fans it out on
// the pub/sub channel when one is configured.
func (rs *RedisSink) handleEvent(ctx context.Context, ev *sink.Event) error {
	payload, err := ev.JSON()
	if err != nil {
		rs.Log.WithError(err).Error("dropping unencodable event")
		return nil
	}
	p := rs.rc.Pipeline()
	p.LPush(ctx, rs.cfg.Key, payload)
	p.LTrim(ctx, rs.cfg.Key, 0, rs.cfg.Cap-1)
	if rs.cfg.Channel != "" {
		p.Publish(ctx, rs.cfg.Channel, payload)
	}
	if _, err := p.Exec(ctx); err != nil {
		rs.Log.WithError(err).Warn("redis push failed")
		return err
	}
	return nil
}

func (rs *RedisSink) Close() error {
	return rs.rc.Close()
}
