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

// Package logship registers Elasticsearch shipping hooks on a logrus
// logger. Construction validates its inputs and wires the external
// bulk engine; it performs no network I/O of its own.
package logship

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/lognode/logship/internal/sink"
	esink "github.com/lognode/logship/internal/sink/elastic"
)

const (
	DefaultIndex        = esink.DefaultIndex
	DefaultMaxBatchSize = esink.DefaultMaxBatchSize
	DefaultTick         = esink.DefaultTick
)

// ConnectionSettings identifies the target cluster: endpoint, basic-auth
// credentials and the default index events land in. Built once per
// registration and handed to the sink by reference.
type ConnectionSettings struct {
	URL      string
	Username string
	Password string
	Index    string
}

// SinkOptions caps the bulk flush size and sets the wall-clock flush
// interval. Zero values mean the defaults (1000 events, 1s).
type SinkOptions struct {
	MaxBatchSize int
	Tick         time.Duration
}

// LevelSwitch is re-exported so callers can hold the runtime severity
// handle without importing internal packages.
type LevelSwitch = sink.LevelSwitch

func NewLevelSwitch(level logrus.Level) *LevelSwitch {
	return sink.NewLevelSwitch(level)
}

// AddElasticSink appends one Elasticsearch shipping hook to the logger
// and returns the same logger for chaining. A nil opts selects the
// defaults. The static level applies only while sw is nil; a non-nil
// switch supersedes it for the lifetime of the process.
func AddElasticSink(logger *logrus.Logger, conn *ConnectionSettings, opts *SinkOptions, level logrus.Level, sw *LevelSwitch) (*logrus.Logger, error) {
	if logger == nil {
		return nil, errors.New("logger is missing")
	}
	if conn == nil {
		return nil, errors.New("connection settings are missing")
	}
	if conn.URL == "" {
		return nil, errors.New("url is missing")
	}
	if opts == nil {
		opts = &SinkOptions{}
	}

	// Sink diagnostics go to a detached logger: a child of the hooked
	// logger would re-enter the hook from inside the sink.
	diag := logrus.New()
	diag.SetOutput(logger.Out)
	diag.SetLevel(logger.GetLevel())

	ctx := context.Background()
	es, err := esink.NewSink(ctx, esink.Params{
		URL:          conn.URL,
		Username:     conn.Username,
		Password:     conn.Password,
		Index:        conn.Index,
		MaxBatchSize: opts.MaxBatchSize,
		Tick:         opts.Tick,
	}, diag, "elastic")
	if err != nil {
		return nil, err
	}
	if err := es.Start(ctx); err != nil {
		return nil, err
	}

	logger.AddHook(sink.NewHook(es, "elastic", level, sw))
	return logger, nil
}

// AddElasticSinkURL is AddElasticSink over primitive parameters. An
// empty index falls back to "logs"; the password is not validated
// beyond being supplied, so an empty one passes through to basic auth.
func AddElasticSinkURL(logger *logrus.Logger, url, user, password, index string, opts *SinkOptions, level logrus.Level, sw *LevelSwitch) (*logrus.Logger, error) {
	if logger == nil {
		return nil, errors.New("logger is missing")
	}
	if url == "" {
		return nil, errors.New("url is missing")
	}
	if user == "" {
		return nil, errors.New("user is missing")
	}
	if index == "" {
		index = DefaultIndex
	}

	conn := &ConnectionSettings{
		URL:      url,
		Username: user,
		Password: password,
		Index:    index,
	}
	return AddElasticSink(logger, conn, opts, level, sw)
}

// AddElasticSinkSimple registers elogrus's async hook directly, without
// the bulk engine. Filtering is static; there is no switch handle here
// because the hook advertises its level set once at registration.
func AddElasticSinkSimple(logger *logrus.Logger, conn *ConnectionSettings, level logrus.Level) (*logrus.Logger, error) {
	if logger == nil {
		return nil, errors.New("logger is missing")
	}
	if conn == nil {
		return nil, errors.New("connection settings are missing")
	}
	if conn.URL == "" {
		return nil, errors.New("url is missing")
	}
	index := conn.Index
	if index == "" {
		index = DefaultIndex
	}

	client, err := esink.NewClient(conn.URL, conn.Username, conn.Password)
	if err != nil {
		return nil, err
	}
	hook, err := esink.NewSimpleHook(client, conn.URL, level, index)
	if err != nil {
		return nil, err
	}
	logger.AddHook(hook)
	return logger, nil
}
