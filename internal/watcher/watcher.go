// Package watcher observes local media folders for changes so the bin can
// refresh without waiting for the next scheduled scan.
package watcher

import (
	"context"
	"log/slog"
)

type Watcher interface {
	Watch(ctx context.Context, path string) error
	Stop() error
	OnChange(callback func(path string, event EventType))
}

type EventType int

const (
	EventCreate EventType = iota
	EventModify
	EventDelete
)

// StubWatcher logs watch requests without delivering events; the periodic
// bin refresh covers folder changes until real file watching lands.
type StubWatcher struct {
	logger   *slog.Logger
	callback func(path string, event EventType)
}

func NewStubWatcher(logger *slog.Logger) *StubWatcher {
	return &StubWatcher{logger: logger}
}

func (w *StubWatcher) Watch(ctx context.Context, path string) error {
	w.logger.Info("watcher stub: media folder registered, relying on periodic refresh", "path", path)
	return nil
}

func (w *StubWatcher) Stop() error {
	w.logger.Info("watcher stub: stop requested")
	return nil
}

func (w *StubWatcher) OnChange(callback func(path string, event EventType)) {
	w.callback = callback
}
