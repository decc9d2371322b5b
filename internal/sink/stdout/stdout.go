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

package stdout

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/lognode/logship/internal/config"
	"github.com/lognode/logship/internal/sink"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type StdoutConfig struct {
	Pretty bool `json:"pretty"`
}

type StdoutSink struct {
	sink.SinkCommon
	cfg StdoutConfig
	out io.Writer
}

func Make(ctx context.Context, cfg *config.SinkDef, log *logrus.Logger) (sink.Sink, error) {
	var ss = &StdoutSink{out: os.Stdout}

	if cfg == nil {
		return nil, errors.New("stdout config is missing")
	}

	if len(cfg.Cfg) > 0 {
		if err := json.Unmarshal(cfg.Cfg, &ss.cfg); err != nil {
			return nil, errors.Wrap(err, "stdout config parsing error")
		}
	}

	ss.MakeDefault(log, cfg.Name)

	return ss, nil

}

func (ss *StdoutSink) handleEvent(ev *sink.Event) error {
	var (
		payload []byte
		err     error
	)
	if ss.cfg.Pretty {
		payload, err = json.MarshalIndent(ev, "", "  ")
	} else {
		payload, err = ev.JSON()
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(ss.out, string(payload))
	return nil
}

func (ss *StdoutSink) Start(ctx context.Context) error {
	go func() {
		for {
			select {
			case ev := <-ss.Events:
				if err := ss.handleEvent(ev); err != nil {
					ss.Log.WithError(err).Error("stdout encode failed")
				}
			case <-ctx.Done():
				return
			}
		}
	}()
	return nil
}
