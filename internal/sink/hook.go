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
	"context"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// LevelSwitch is a runtime-adjustable minimum level shared between the
// caller and a registered hook. When attached to a hook it supersedes
// the hook's static level for the lifetime of the process.
type LevelSwitch struct {
	lvl uint32
}

func NewLevelSwitch(level logrus.Level) *LevelSwitch {
	ls := &LevelSwitch{}
	ls.SetLevel(level)
	return ls
}

func (ls *LevelSwitch) Level() logrus.Level {
	return logrus.Level(atomic.LoadUint32(&ls.lvl))
}

func (ls *LevelSwitch) SetLevel(level logrus.Level) {
	atomic.StoreUint32(&ls.lvl, uint32(level))
}

// Hook adapts a Sink to the logrus hook interface. Level filtering is
// dynamic: the hook subscribes to all levels and drops entries itself,
// so a LevelSwitch update takes effect without re-registration.
type Hook struct {
	sink  Sink
	src   string
	level logrus.Level
	swtch *LevelSwitch
}

func NewHook(s Sink, src string, level logrus.Level, swtch *LevelSwitch) *Hook {
	return &Hook{
		sink:  s,
		src:   src,
		level: level,
		swtch: swtch,
	}
}

// Sink exposes the backend this hook feeds.
func (h *Hook) Sink() Sink {
	return h.sink
}

func (h *Hook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// enabled reports whether entries at the given level pass the filter.
// logrus orders levels most-severe-first, so "at least as severe" is <=.
func (h *Hook) enabled(level logrus.Level) bool {
	min := h.level
	if h.swtch != nil {
		min = h.swtch.Level()
	}
	return level <= min
}

func (h *Hook) Fire(entry *logrus.Entry) error {
	if !h.enabled(entry.Level) {
		return nil
	}
	return h.sink.Process(context.Background(), FromEntry(entry, h.src), false)
}
