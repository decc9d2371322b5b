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

package config

import (
	"encoding/json"
	"flag"

	"github.com/lognode/logship/internal/rules"
	"github.com/lognode/logship/internal/utils"
)

var cfgFile = flag.String("f", "config.jsonc", "config file")
var stdoutFlag = flag.Bool("s", false, "dump events to stdout instead of configured sinks")

// SinkDef names one backend instance; Cfg is an opaque blob the
// backend's factory unmarshals itself.
type SinkDef struct {
	Name string          `json:"name"`
	Type string          `json:"type"`
	Cfg  json.RawMessage `json:"cfg"`
}

// ShipperConfig is logshipd's configuration structure
type ShipperConfig struct {
	Source string             `json:"source"`
	Queue  int                `json:"queue"`
	Sinks  []*SinkDef         `json:"sinks"`
	Rules  *rules.RulesConfig `json:"rules"`
	Stdout bool               `json:"-"`
}

var defaultConfig = ShipperConfig{
	Source: "stdin",
	Queue:  100,
	Sinks:  []*SinkDef{},
	Rules: &rules.RulesConfig{
		MyID: "localhost",
	},
}

// LoadConfig loads the configuration from the specified file, merging into the default configuration.
func LoadConfig() (cfg ShipperConfig, err error) {
	flag.Parse()
	cfg = defaultConfig
	err = utils.LoadJSONCFromFile(*cfgFile, &cfg)
	cfg.Stdout = *stdoutFlag
	return cfg, err
}
