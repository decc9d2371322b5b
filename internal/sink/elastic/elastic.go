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

package elastic

import (
	"context"
	"encoding/json"
	"time"

	"github.com/lognode/logship/internal/config"
	"github.com/lognode/logship/internal/sink"
	"github.com/olivere/elastic"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/sohlich/elogrus.v3"
)

const (
	DefaultIndex        = "logs"
	DefaultMaxBatchSize = 1000
	DefaultTick         = time.Second
)

type ElasticConfig struct {
	URL      string  `json:"url"`
	Username string  `json:"user"`
	Password string  `json:"pass"`
	Index    string  `json:"index"`
	Batch    int     `json:"batch"`
	TickSec  float64 `json:"tick"`
	Mode     string  `json:"mode"`
}

// Params is the normalized form of ElasticConfig used by direct
// (non config-file) construction.
type Params struct {
	URL          string
	Username     string
	Password     string
	Index        string
	MaxBatchSize int
	Tick         time.Duration
}

func (p *Params) normalize() {
	if p.Index == "" {
		p.Index = DefaultIndex
	}
	if p.MaxBatchSize <= 0 {
		p.MaxBatchSize = DefaultMaxBatchSize
	}
	if p.Tick <= 0 {
		p.Tick = DefaultTick
	}
}

type ElasticSink struct {
	sink.SinkCommon
	params Params
	client *elastic.Client
	bulk   *elastic.BulkProcessor
}

// NewClient builds an ES client that does no I/O up front. Sniffing and
// health checks stay off so registration never touches the network.
func NewClient(url, username, password string) (*elastic.Client, error) {
	return elastic.NewClient(
		elastic.SetURL(url),
		elastic.SetBasicAuth(username, password),
		elastic.SetSniff(false),
		elastic.SetHealthcheck(false),
	)
}

// NewSink builds the bulk-shipping ES sink. Batching, flushing and
// retry belong to the bulk processor, not to this package.
func NewSink(ctx context.Context, params Params, olog *logrus.Logger, name string) (*ElasticSink, error) {
	if params.URL == "" {
		return nil, errors.New("elastic url is missing")
	}
	params.normalize()

	es := &ElasticSink{params: params}
	es.MakeDefault(olog, name)

	client, err := NewClient(params.URL, params.Username, params.Password)
	if err != nil {
		return nil, errors.Wrap(err, "elastic client")
	}
	es.client = client

	bulk, err := client.BulkProcessor().
		Name("logship-" + name).
		Workers(1).
		BulkActions(params.MaxBatchSize).
		FlushInterval(params.Tick).
		Do(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "elastic bulk processor")
	}
	es.bulk = bulk
	return es, nil
}

func Make(ctx context.Context, cfg *config.SinkDef, olog *logrus.Logger) (sink.Sink, error) {
	if cfg == nil {
		return nil, errors.New("elastic config is missing")
	}
	var ec ElasticConfig
	if err := json.Unmarshal(cfg.Cfg, &ec); err != nil {
		return nil, errors.Wrap(err, "elastic config parsing error")
	}

	if ec.Mode == "simple" {
		return makeSimple(ec, olog, cfg.Name)
	}

	return NewSink(ctx, Params{
		URL:          ec.URL,
		Username:     ec.Username,
		Password:     ec.Password,
		Index:        ec.Index,
		MaxBatchSize: ec.Batch,
		Tick:         time.Duration(ec.TickSec * float64(time.Second)),
	}, olog, cfg.Name)
}

// Index reports the target index the sink resolved to.
func (es *ElasticSink) Index() string { return es.params.Index }

// Config reports the normalized construction parameters.
func (es *ElasticSink) Config() Params { return es.params }

// Client exposes the underlying ES client for callers that share it.
func (es *ElasticSink) Client() *elastic.Client { return es.client }

func (es *ElasticSink) Start(ctx context.Context) error {
	go func() {
		for {
			select {
			case ev := <-es.Events:
				es.bulk.Add(elastic.NewBulkIndexRequest().
					Index(es.params.Index).
					Type("_doc").
					Doc(ev.Doc()))
			case <-ctx.Done():
				if err := es.bulk.Close(); err != nil {
					es.Log.WithError(err).Warn("bulk processor close")
				}
				return
			}
		}
	}()
	return nil
}

func (es *ElasticSink) Close() error {
	if err := es.bulk.Flush(); err != nil {
		return err
	}
	return es.bulk.Close()
}

// entryFirer is the slice of the elogrus hook the simple sink needs.
type entryFirer interface {
	Fire(*logrus.Entry) error
	Cancel()
}

// simpleSink delegates delivery per event to the elogrus async hook,
// skipping the bulk processor entirely.
type simpleSink struct {
	sink.SinkCommon
	hook entryFirer
}

func makeSimple(ec ElasticConfig, olog *logrus.Logger, name string) (sink.Sink, error) {
	if ec.URL == "" {
		return nil, errors.New("elastic url is missing")
	}
	if ec.Index == "" {
		ec.Index = DefaultIndex
	}

	client, err := NewClient(ec.URL, ec.Username, ec.Password)
	if err != nil {
		return nil, errors.Wrap(err, "elastic client")
	}
	hook, err := NewSimpleHook(client, ec.URL, logrus.TraceLevel, ec.Index)
	if err != nil {
		return nil, err
	}

	ss := &simpleSink{hook: hook}
	ss.MakeDefault(olog, name)
	return ss, nil
}

// NewSimpleHook wraps elogrus's async hook construction.
func NewSimpleHook(client *elastic.Client, host string, level logrus.Level, index string) (*elogrus.ElasticHook, error) {
	hook, err := elogrus.NewAsyncElasticHook(client, host, level, index)
	if err != nil {
		return nil, errors.Wrap(err, "elogrus hook")
	}
	return hook, nil
}

func (ss *simpleSink) Start(ctx context.Context) error {
	go func() {
		for {
			select {
			case ev := <-ss.Events:
				lvl, err := logrus.ParseLevel(ev.Level)
				if err != nil {
					lvl = logrus.InfoLevel
				}
				if err := ss.hook.Fire(&logrus.Entry{
					Time:    ev.Ts,
					Level:   lvl,
					Message: ev.Msg,
					Data:    logrus.Fields(ev.Fields),
				}); err != nil {
					ss.Log.WithError(err).Warn("elastic delivery failed")
				}
			case <-ctx.Done():
				ss.hook.Cancel()
				return
			}
		}
	}()
	return nil
}
