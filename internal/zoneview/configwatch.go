package zoneview

import (
	"fmt"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/radovskyb/watcher"

	"github.com/tradezones/zonedesk/internal/observability"
)

// DefaultConfigPollInterval is how often the config directory is polled.
const DefaultConfigPollInterval = time.Second

// ConfigWatcher polls the config directory and reports edits to the
// config file as ConfigChangedMsg.
type ConfigWatcher struct {
	path     string
	interval time.Duration
	w        *watcher.Watcher
	logger   *observability.CoreLogger
}

// NewConfigWatcher watches the directory holding path. The directory
// must exist.
func NewConfigWatcher(
	path string,
	interval time.Duration,
	logger *observability.CoreLogger,
) (*ConfigWatcher, error) {
	if logger == nil {
		logger = observability.NewNoOpLogger()
	}
	if interval <= 0 {
		interval = DefaultConfigPollInterval
	}

	w := watcher.New()
	w.SetMaxEvents(1)
	w.FilterOps(watcher.Write, watcher.Create, watcher.Rename, watcher.Move)
	if err := w.Add(filepath.Dir(path)); err != nil {
		return nil, fmt.Errorf("config watch: %v", err)
	}

	return &ConfigWatcher{
		path:     filepath.Clean(path),
		interval: interval,
		w:        w,
		logger:   logger,
	}, nil
}

// Run polls until Close is called, passing a ConfigChangedMsg to send for
// every change to the config file.
func (cw *ConfigWatcher) Run(send func(tea.Msg)) error {
	go cw.forward(send)
	return cw.w.Start(cw.interval)
}

func (cw *ConfigWatcher) forward(send func(tea.Msg)) {
	for {
		select {
		case ev := <-cw.w.Event:
			if cw.matches(ev) {
				send(ConfigChangedMsg{})
			}
		case err := <-cw.w.Error:
			cw.logger.Warn(fmt.Sprintf("config watch: %v", err))
		case <-cw.w.Closed:
			return
		}
	}
}

func (cw *ConfigWatcher) matches(ev watcher.Event) bool {
	return filepath.Clean(ev.Path) == cw.path ||
		(ev.OldPath != "" && filepath.Clean(ev.OldPath) == cw.path)
}

// Close stops polling. Run returns once the poll loop exits.
func (cw *ConfigWatcher) Close() {
	cw.w.Close()
}
