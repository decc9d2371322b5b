package sink

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lognode/logship/internal/config"
)

func TestProcessWouldBlock(t *testing.T) {
	sc := &SinkCommon{
		Events: make(chan *Event, 1),
		Log:    logrus.New().WithField("sink", "test"),
	}
	ctx := context.Background()
	ev := &Event{Ts: time.Now(), Level: "info", Msg: "x"}

	require.NoError(t, sc.Process(ctx, ev, false))
	// queue full, non-blocking call reports instead of waiting
	err := sc.Process(ctx, ev, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "would block")
}

func TestProcessBlockingHonorsCancel(t *testing.T) {
	sc := &SinkCommon{
		Events: make(chan *Event, 1),
		Log:    logrus.New().WithField("sink", "test"),
	}
	ev := &Event{Ts: time.Now(), Level: "info", Msg: "x"}
	require.NoError(t, sc.Process(context.Background(), ev, true))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	done := make(chan struct{})
	go func() {
		sc.Process(ctx, ev, true)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("blocking Process ignored cancellation")
	}
}

type stubSink struct {
	SinkCommon
}

func (s *stubSink) Start(ctx context.Context) error { return nil }

type stubFactory struct{}

func (f stubFactory) Name() string { return "stub" }

func (f stubFactory) Build(ctx context.Context, cfg *config.SinkDef, log *logrus.Logger) (Sink, error) {
	s := &stubSink{}
	s.MakeDefault(log, cfg.Name)
	return s, nil
}

func TestFactoryRegistry(t *testing.T) {
	RegisterFactory("stub", stubFactory{})

	def := &config.SinkDef{Name: "s1", Type: "stub"}
	s, err := SinkByName(context.Background(), "StUb", def, logrus.New())
	require.NoError(t, err)
	require.NotNil(t, s)

	_, err = SinkByName(context.Background(), "nope", def, logrus.New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no Sink factory")
}
