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

package rules

import (
	"context"
	"os"

	"github.com/open-policy-agent/opa/ast"
	"github.com/open-policy-agent/opa/rego"
	"github.com/pkg/errors"
)

// shipQuery is the boolean rule consulted per event. The rule file is
// expected to declare `package logship` with a `ship` rule.
const shipQuery = "data.logship.ship"

type RuleFiles struct {
	Ship string `json:"ship"`
}

type RulesConfig struct {
	MyID  string    `json:"myid"`
	Rules RuleFiles `json:"rules"`

	compiler *ast.Compiler
}

// Compile loads and compiles the configured rule file. A missing rule
// file is not an error; it means every event ships.
func Compile(cfg *RulesConfig) error {
	if cfg == nil || cfg.Rules.Ship == "" {
		return nil
	}
	data, err := os.ReadFile(cfg.Rules.Ship)
	if err != nil {
		return errors.Wrapf(err, "reading rule file %s", cfg.Rules.Ship)
	}
	c, err := ast.CompileModules(map[string]string{
		"ship": string(data),
	})
	if err != nil {
		return errors.Wrapf(err, "compiling rule file %s", cfg.Rules.Ship)
	}
	cfg.compiler = c
	return nil
}

// CompileString is Compile for inline rule sources.
func (cfg *RulesConfig) CompileString(src string) error {
	c, err := ast.CompileModules(map[string]string{
		"ship": src,
	})
	if err != nil {
		return errors.Wrap(err, "compiling inline rule")
	}
	cfg.compiler = c
	return nil
}

// ShouldShip evaluates the ship rule against the event. Without a
// compiled rule everything ships; an evaluation error drops nothing.
func (cfg *RulesConfig) ShouldShip(ctx context.Context, input interface{}) bool {
	if cfg == nil || cfg.compiler == nil {
		return true
	}
	rs, err := rego.New(
		rego.Query(shipQuery),
		rego.Compiler(cfg.compiler),
		rego.Input(input),
	).Eval(ctx)
	if err != nil || len(rs) == 0 || len(rs[0].Expressions) == 0 {
		return true
	}
	allow, ok := rs[0].Expressions[0].Value.(bool)
	if !ok {
		return true
	}
	return allow
}
