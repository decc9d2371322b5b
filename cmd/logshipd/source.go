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
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/lognode/logship/internal/config"
	"github.com/lognode/logship/internal/sink"
)

// sourceStream reads JSON log lines from the configured source and
// queues them as events. Lines that are not JSON objects ship verbatim
// as info-level messages, so plain text logs still flow.
func sourceStream(ctx context.Context, cfg *config.ShipperConfig, log *logrus.Logger) (<-chan *sink.Event, error) {
	var in io.ReadCloser = os.Stdin
	src := cfg.Source
	if src == "" {
		src = "stdin"
	}
	if src != "stdin" && src != "-" {
		f, err := os.Open(src)
		if err != nil {
			return nil, err
		}
		in = f
	}

	qDepth := cfg.Queue
	if qDepth < 1 {
		qDepth = 100
	}
	events := make(chan *sink.Event, qDepth)

	go func() {
		defer close(events)
		defer in.Close()
		scanner := bufio.NewScanner(in)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			line := scanner.Bytes()
			if len(line) == 0 {
				continue
			}
			ev := parseLine(line, src)
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil {
			log.WithError(err).Error("source read failed")
		}
	}()

	return events, nil
}

func parseLine(line []byte, src string) *sink.Event {
	var ev sink.Event
	if err := json.Unmarshal(line, &ev); err == nil && ev.Msg != "" {
		if ev.Ts.IsZero() {
			ev.Ts = time.Now()
		}
		if ev.Level == "" {
			ev.Level = "info"
		}
		if ev.Src == "" {
			ev.Src = src
		}
		return &ev
	}
	return &sink.Event{
		Ts:    time.Now(),
		Level: "info",
		Msg:   string(line),
		Src:   src,
	}
}
