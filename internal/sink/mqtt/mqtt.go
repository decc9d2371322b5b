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

package mqtt

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/lognode/logship/internal/config"
	"github.com/lognode/logship/internal/sink"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
)

type MQTTConfig struct {
	Broker    string `json:"broker"`
	Port      int    `json:"port"`
	ClientId  string `json:"clientid"`
	Username  string `json:"user"`
	Password  string `json:"pass"`
	Topic     string `json:"topic"`
	Qos       int    `json:"qos"`
	Retained  bool   `json:"retained"`
	CleanSess bool   `json:"cleansess"`
}

// Set some sane defaults for unspecified config
func (cfg *MQTTConfig) defaults() {
	uuid := uuid.New()

	if cfg.Broker == "" {
		cfg.Broker = "localhost"
	}
	if cfg.Port < 1 {
		cfg.Port = 1883
	}
	if cfg.ClientId != "" {
		cfg.ClientId = fmt.Sprintf("%s-%s", cfg.ClientId, uuid.String())
	} else {
		cfg.ClientId = uuid.String()
	}
	if cfg.Qos < 0 || cfg.Qos > 2 {
		cfg.Qos = 0
	}
	if cfg.Topic == "" {
		cfg.Topic = "logship/events"
	}
}

type MQTTSink struct {
	sink.SinkCommon
	cfg MQTTConfig
	mc  mqtt.Client
}

func Make(ctx context.Context, cfg *config.SinkDef, log *logrus.Logger) (sink.Sink, error) {

	var ms = &MQTTSink{}

	if cfg == nil {
		return nil, errors.New("mqtt config is missing")
	}

	if err := json.Unmarshal(cfg.Cfg, &ms.cfg); err != nil {
		return nil, errors.Wrap(err, "mqtt config parsing error")
	}
	ms.cfg.defaults()

	ms.MakeDefault(log, cfg.Name)

	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s:%d", ms.cfg.Broker, ms.cfg.Port))
	opts.SetClientID(ms.cfg.ClientId)
	opts.SetCleanSession(ms.cfg.CleanSess)
	opts.SetUsername(ms.cfg.Username)
	opts.SetPassword(ms.cfg.Password)
	opts.SetAutoReconnect(true)
	opts.OnConnect = func(client mqtt.Client) {
		ms.Log.Info("mqtt connected")
	}
	opts.OnConnectionLost = func(client mqtt.Client, err error) {
		ms.Log.WithError(err).Warn("mqtt connection lost")
	}
	ms.mc = mqtt.NewClient(opts)

	return ms, nil

}

func (ms *MQTTSink) Start(ctx context.Context) error {
	if token := ms.mc.Connect(); token.Wait() && token.Error() != nil {
		return errors.Wrap(token.Error(), "mqtt connect")
	}
	go func() {
		for {
			select {
			case ev := <-ms.Events:
				payload, err := ev.JSON()
				if err != nil {
					ms.Log.WithError(err).Error("dropping unencodable event")
					continue
				}
				token := ms.mc.Publish(ms.cfg.Topic, byte(ms.cfg.Qos), ms.cfg.Retained, payload)
				// Handle the token in a goroutine so this loop keeps
				// draining regardless of delivery status.
				go func() {
					if token.Wait() && token.Error() != nil {
						ms.Log.WithError(token.Error()).Warn("mqtt publish failed")
					}
				}()
			case <-ctx.Done():
				ms.mc.Disconnect(250)
				return
			}
		}
	}()
	return nil
}

func (ms *MQTTSink) Close() error {
	ms.mc.Disconnect(250)
	return nil
}
