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

package sink

import (
	"encoding/json"
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

// Event is the record shipped to every configured backend.
type Event struct {
	Ts     time.Time              `json:"ts"`
	Level  string                 `json:"level"`
	Msg    string                 `json:"msg"`
	Fields map[string]interface{} `json:"fields,omitempty"`
	Src    string                 `json:"src,omitempty"`
	Host   string                 `json:"host,omitempty"`
}

var hostname, _ = os.Hostname()

// FromEntry wraps a logrus entry for shipping.
func FromEntry(e *logrus.Entry, src string) *Event {
	ev := &Event{
		Ts:    e.Time,
		Level: e.Level.String(),
		Msg:   e.Message,
		Src:   src,
		Host:  hostname,
	}
	if len(e.Data) > 0 {
		ev.Fields = make(map[string]interface{}, len(e.Data))
		for k, v := range e.Data {
			ev.Fields[k] = v
		}
	}
	return ev
}

func (ev *Event) JSON() ([]byte, error) {
	return json.Marshal(ev)
}

// Doc returns the event as a flat document for index-style backends.
func (ev *Event) Doc() map[string]interface{} {
	doc := map[string]interface{}{
		"@timestamp": ev.Ts.UTC().Format(time.RFC3339Nano),
		"level":      ev.Level,
		"message":    ev.Msg,
	}
	if ev.Src != "" {
		doc["src"] = ev.Src
	}
	if ev.Host != "" {
		doc["host"] = ev.Host
	}
	for k, v := range ev.Fields {
		// user fields must not clobber the reserved keys above
		if _, reserved := doc[k]; reserved {
			doc["fields."+k] = v
			continue
		}
		doc[k] = v
	}
	return doc
}
