package zoneview

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/tradezones/zonedesk/internal/observability"
)

const (
	DefaultBaseURL           = "http://localhost:5000"
	DefaultRequestTimeout    = 10 * time.Second
	DefaultSearchDebounce    = 300 * time.Millisecond
	DefaultFilterDebounce    = 300 * time.Millisecond
	DefaultRequestsPerSecond = 10.0

	// maxDebounce bounds the configurable debounce delays.
	maxDebounce = 5 * time.Second
)

// Config is the persisted zonedesk configuration.
type Config struct {
	BaseURL           string        `yaml:"base_url"`
	Token             string        `yaml:"token,omitempty"`
	SessionCookie     string        `yaml:"session_cookie,omitempty"`
	RequestTimeout    time.Duration `yaml:"request_timeout"`
	SearchDebounce    time.Duration `yaml:"search_debounce"`
	FilterDebounce    time.Duration `yaml:"filter_debounce"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`

	ActivityPaneVisible bool `yaml:"activity_pane_visible"`
	FilterPaneVisible   bool `yaml:"filter_pane_visible"`

	SentryDSN string `yaml:"sentry_dsn,omitempty"`
}

func defaultConfig() Config {
	return Config{
		BaseURL:           DefaultBaseURL,
		RequestTimeout:    DefaultRequestTimeout,
		SearchDebounce:    DefaultSearchDebounce,
		FilterDebounce:    DefaultFilterDebounce,
		RequestsPerSecond: DefaultRequestsPerSecond,
		FilterPaneVisible: true,
	}
}

// normalize replaces out-of-range values with defaults.
func (c *Config) normalize() {
	d := defaultConfig()
	if c.BaseURL == "" {
		c.BaseURL = d.BaseURL
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = d.RequestTimeout
	}
	if c.SearchDebounce <= 0 || c.SearchDebounce > maxDebounce {
		c.SearchDebounce = d.SearchDebounce
	}
	if c.FilterDebounce <= 0 || c.FilterDebounce > maxDebounce {
		c.FilterDebounce = d.FilterDebounce
	}
	if c.RequestsPerSecond < 0 {
		c.RequestsPerSecond = d.RequestsPerSecond
	}
}

// ConfigManager loads, exposes and persists the configuration.
type ConfigManager struct {
	mu   sync.RWMutex
	fs   afero.Fs
	path string

	// stored mirrors the file; config is stored plus session overrides.
	stored    Config
	config    Config
	overrides []func(*Config)

	logger *observability.CoreLogger
}

// DefaultConfigPath is config.yaml in the user's zonedesk config dir.
func DefaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "zonedesk", "config.yaml")
}

// NewConfigManager loads the configuration at path.
//
// A missing file yields the defaults. An unreadable or malformed file is
// logged and also yields the defaults; it is not overwritten until a
// setter persists a change.
func NewConfigManager(
	fsys afero.Fs,
	path string,
	logger *observability.CoreLogger,
) *ConfigManager {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	if logger == nil {
		logger = observability.NewNoOpLogger()
	}
	cm := &ConfigManager{
		fs:     fsys,
		path:   path,
		stored: defaultConfig(),
		config: defaultConfig(),
		logger: logger,
	}
	if err := cm.load(); err != nil {
		logger.Warn(fmt.Sprintf("config: using defaults: %v", err))
	}
	return cm
}

func (cm *ConfigManager) load() error {
	data, err := afero.ReadFile(cm.fs, cm.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %v", cm.path, err)
	}

	cfg := defaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("parse %s: %v", cm.path, err)
	}
	cfg.normalize()

	cm.mu.Lock()
	cm.stored = cfg
	cm.refresh()
	cm.mu.Unlock()
	return nil
}

// save writes the configuration through a temp file and a rename.
//
// Must be called with cm.mu held.
func (cm *ConfigManager) save() error {
	data, err := yaml.Marshal(cm.stored)
	if err != nil {
		return fmt.Errorf("config: marshal: %v", err)
	}
	if err := cm.fs.MkdirAll(filepath.Dir(cm.path), 0o755); err != nil {
		return fmt.Errorf("config: create dir: %v", err)
	}
	tmp := cm.path + ".tmp"
	if err := afero.WriteFile(cm.fs, tmp, data, 0o600); err != nil {
		return fmt.Errorf("config: write: %v", err)
	}
	if err := cm.fs.Rename(tmp, cm.path); err != nil {
		return fmt.Errorf("config: rename: %v", err)
	}
	return nil
}

// Reload re-reads the file, keeping session overrides. On error the
// current configuration is left unchanged.
func (cm *ConfigManager) Reload() error {
	return cm.load()
}

// Path returns the config file location.
func (cm *ConfigManager) Path() string { return cm.path }

// Snapshot returns a copy of the current configuration.
func (cm *ConfigManager) Snapshot() Config {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.config
}

// Override applies session-only changes, such as command line flags.
// They survive setters but are never written to the file.
func (cm *ConfigManager) Override(apply func(*Config)) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.overrides = append(cm.overrides, apply)
	cm.refresh()
}

// refresh rebuilds the effective configuration from the stored one.
//
// Must be called with cm.mu held.
func (cm *ConfigManager) refresh() {
	cfg := cm.stored
	for _, apply := range cm.overrides {
		apply(&cfg)
	}
	cfg.normalize()
	cm.config = cfg
}

func (cm *ConfigManager) BaseURL() string {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.config.BaseURL
}

func (cm *ConfigManager) RequestTimeout() time.Duration {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.config.RequestTimeout
}

func (cm *ConfigManager) SearchDebounce() time.Duration {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.config.SearchDebounce
}

func (cm *ConfigManager) FilterDebounce() time.Duration {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.config.FilterDebounce
}

func (cm *ConfigManager) ActivityPaneVisible() bool {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.config.ActivityPaneVisible
}

func (cm *ConfigManager) FilterPaneVisible() bool {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.config.FilterPaneVisible
}

// SetActivityPaneVisible persists whether the activity log starts open.
func (cm *ConfigManager) SetActivityPaneVisible(visible bool) error {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.stored.ActivityPaneVisible = visible
	cm.refresh()
	return cm.save()
}

// SetFilterPaneVisible persists whether the filter pane starts open.
func (cm *ConfigManager) SetFilterPaneVisible(visible bool) error {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.stored.FilterPaneVisible = visible
	cm.refresh()
	return cm.save()
}

// SetBaseURL persists the zones API address.
func (cm *ConfigManager) SetBaseURL(url string) error {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.stored.BaseURL = url
	cm.stored.normalize()
	cm.refresh()
	return cm.save()
}
