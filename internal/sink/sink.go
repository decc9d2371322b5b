package sink

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
)

type SinkCommon struct {
	Events chan *Event
	Log    *logrus.Entry
}

type Sink interface {
	Start(context.Context) error
	MakeDefault(*logrus.Logger, string)
	Process(context.Context, *Event, bool) error
	Close() error
}

func (sink *SinkCommon) MakeDefault(olog *logrus.Logger, sinkName string) {
	sink.Events = make(chan *Event, 10000)
	sink.Log = olog.WithFields(logrus.Fields{"sink": sinkName})
}

func (sink *SinkCommon) Process(ctx context.Context, ev *Event, blocking bool) error {
	select {
	case sink.Events <- ev:
	case <-ctx.Done():
	default:
		if !blocking {
			// Not logged here: the non-blocking path is fed by the
			// logrus hook, and logging on a saturated sink would
			// re-fire that hook on the same logger.
			return errors.New("would block")
		}
		sink.Log.Error("Sink is blocked")
		select {
		case sink.Events <- ev:
		case <-ctx.Done():
		}
	}
	return nil
}

func (sink *SinkCommon) Close() error {
	return nil
}
