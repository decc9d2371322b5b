package stdout

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lognode/logship/internal/config"
	"github.com/lognode/logship/internal/sink"
)

func TestMakeNilConfig(t *testing.T) {
	_, err := Make(context.Background(), nil, logrus.New())
	require.Error(t, err)
}

func TestHandleEvent(t *testing.T) {
	def := &config.SinkDef{Name: "out", Type: "stdout", Cfg: json.RawMessage(`{}`)}
	s, err := Make(context.Background(), def, logrus.New())
	require.NoError(t, err)

	ss := s.(*StdoutSink)
	var buf bytes.Buffer
	ss.out = &buf

	ev := &sink.Event{Ts: time.Now(), Level: "info", Msg: "hello", Src: "test"}
	require.NoError(t, ss.handleEvent(ev))

	var got sink.Event
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "hello", got.Msg)
	assert.Equal(t, "info", got.Level)
	assert.Equal(t, "test", got.Src)
}
