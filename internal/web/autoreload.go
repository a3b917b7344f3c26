package web

import (
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/r9s-ai/sdmxrest/internal/logx"
)

type closerFunc func() error

func (c closerFunc) Close() error { return c() }

// installConfigAutoReload watches the directory of cfgPath and calls reload
// once per burst of events on the file. Editors that save by rename are
// seen as Create or Rename on the directory.
func installConfigAutoReload(cfgPath string, debounce time.Duration, reload func() error, l *logx.Logger) (io.Closer, error) {
	abs, err := filepath.Abs(cfgPath)
	if err != nil {
		return nil, err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		_ = watcher.Close()
		return nil, err
	}
	w := &configWatcher{
		path:     abs,
		base:     filepath.Base(abs),
		debounce: debounce,
		reload:   reload,
		log:      l,
		fs:       watcher,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go w.loop()

	l.Info().Str("path", abs).Int64("debounce_ms", debounce.Milliseconds()).Msg("config auto-reload enabled")
	return closerFunc(w.close), nil
}

type configWatcher struct {
	path     string
	base     string
	debounce time.Duration
	reload   func() error
	log      *logx.Logger
	fs       *fsnotify.Watcher
	stop     chan struct{}
	done     chan struct{}
}

func (w *configWatcher) loop() {
	defer close(w.done)
	// Reset on a stopped timer never delivers a stale tick (Go 1.23 timers).
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-w.stop:
			return
		case <-timer.C:
			if err := w.reload(); err != nil {
				w.log.Warn().Err(err).Str("path", w.path).Msg("config reload failed (auto)")
				continue
			}
			w.log.Info().Str("path", w.path).Msg("config reloaded (auto)")
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.log.Warn().Err(err).Msg("config watcher error")
		case evt, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if shouldTriggerConfigReload(evt, w.base) {
				timer.Reset(w.debounce)
			}
		}
	}
}

func (w *configWatcher) close() error {
	close(w.stop)
	err := w.fs.Close()
	<-w.done
	return err
}

func shouldTriggerConfigReload(evt fsnotify.Event, base string) bool {
	if strings.TrimSpace(evt.Name) == "" {
		return false
	}
	if evt.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
		return false
	}
	return filepath.Base(evt.Name) == base
}
