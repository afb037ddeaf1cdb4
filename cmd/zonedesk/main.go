// Command zonedesk is a terminal client for the trading zones API.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/tradezones/zonedesk/internal/observability"
	"github.com/tradezones/zonedesk/internal/zoneapi"
	"github.com/tradezones/zonedesk/internal/zoneview"
)

// version is set at build time.
var version = "dev"

// Credentials read from the environment when not given as flags.
const (
	envToken   = "ZONEDESK_TOKEN"
	envSession = "ZONEDESK_SESSION"
)

type rootFlags struct {
	configPath    string
	baseURL       string
	token         string
	sessionCookie string
	timeout       time.Duration
	logFile       string
	debug         bool
	saveBaseURL   bool
	metricsFile   string
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "zonedesk",
		Short:         "Manage trading zones from the terminal",
		Version:       version,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(flags)
		},
	}

	cmd.PersistentFlags().StringVar(&flags.configPath, "config", zoneview.DefaultConfigPath(), "path to the config file")

	f := cmd.Flags()
	f.StringVar(&flags.baseURL, "base-url", "", "zones API address (overrides the config)")
	f.StringVar(&flags.token, "token", "", "bearer token for the zones API (default $"+envToken+")")
	f.StringVar(&flags.sessionCookie, "session", "", "session cookie for the zones API (default $"+envSession+")")
	f.DurationVar(&flags.timeout, "timeout", 0, "per-request timeout (overrides the config)")
	f.StringVar(&flags.logFile, "log-file", defaultLogPath(), "log file; empty disables logging")
	f.BoolVar(&flags.debug, "debug", false, "log at debug level")
	f.BoolVar(&flags.saveBaseURL, "save-base-url", false, "persist --base-url to the config file")
	f.StringVar(&flags.metricsFile, "metrics-file", "", "write request metrics to this file on exit")

	cmd.AddCommand(newConfigPathCommand(flags))
	return cmd
}

func newConfigPathCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "config-path",
		Short: "Print the config file location",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), flags.configPath)
			return err
		},
	}
}

func run(flags *rootFlags) error {
	logWriter, closeLog, err := openLog(flags.logFile)
	if err != nil {
		return err
	}
	defer closeLog()

	level := slog.LevelInfo
	if flags.debug {
		level = slog.LevelDebug
	}

	// The Sentry DSN lives in the config, which needs a logger to report
	// problems loading it. Load with a local logger first.
	bootLogger := observability.NewCoreLogger(observability.CoreLoggerParams{
		Writer: logWriter,
		Level:  level,
	})
	cfg := zoneview.NewConfigManager(afero.NewOsFs(), flags.configPath, bootLogger)

	logger := bootLogger
	if dsn := cfg.Snapshot().SentryDSN; dsn != "" {
		logger = observability.NewCoreLogger(observability.CoreLoggerParams{
			Writer:    logWriter,
			Level:     level,
			SentryDSN: dsn,
			Release:   version,
		})
	}
	defer logger.Close()

	if err := applyFlags(cfg, flags); err != nil {
		logger.CaptureError(fmt.Errorf("zonedesk: %v", err))
		return err
	}

	snapshot := cfg.Snapshot()
	registry := prometheus.NewRegistry()
	metrics := zoneapi.NewMetrics(registry)
	client, err := zoneapi.NewClient(zoneapi.ClientParams{
		BaseURL:           snapshot.BaseURL,
		Token:             snapshot.Token,
		SessionCookie:     snapshot.SessionCookie,
		Timeout:           snapshot.RequestTimeout,
		RequestsPerSecond: snapshot.RequestsPerSecond,
		Metrics:           metrics,
		Logger:            logger,
	})
	if err != nil {
		return err
	}

	logger.Info("zonedesk: starting", "version", version, "base_url", snapshot.BaseURL)

	m := zoneview.NewModel(zoneview.ModelParams{
		Store:  client,
		Config: cfg,
		Logger: logger,
	})
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())

	if watcher, werr := zoneview.NewConfigWatcher(
		flags.configPath, zoneview.DefaultConfigPollInterval, logger,
	); werr != nil {
		logger.Warn(fmt.Sprintf("zonedesk: not watching config: %v", werr))
	} else {
		go func() {
			if err := watcher.Run(p.Send); err != nil {
				logger.Warn(fmt.Sprintf("zonedesk: config watch stopped: %v", err))
			}
		}()
		defer watcher.Close()
	}

	_, err = p.Run()

	logRequestSummary(logger, metrics)
	if flags.metricsFile != "" {
		if werr := writeMetricsFile(flags.metricsFile, registry); werr != nil {
			logger.Warn(fmt.Sprintf("zonedesk: %v", werr))
		}
	}
	if err != nil {
		logger.CaptureError(fmt.Errorf("zonedesk: program: %v", err))
		return err
	}
	return nil
}

// applyFlags layers command line values over the config file.
func applyFlags(cfg *zoneview.ConfigManager, flags *rootFlags) error {
	if flags.saveBaseURL && flags.baseURL != "" {
		if err := cfg.SetBaseURL(flags.baseURL); err != nil {
			return fmt.Errorf("saving base URL: %v", err)
		}
	}
	token := flags.token
	if token == "" {
		token = os.Getenv(envToken)
	}
	session := flags.sessionCookie
	if session == "" {
		session = os.Getenv(envSession)
	}
	cfg.Override(func(c *zoneview.Config) {
		if flags.baseURL != "" {
			c.BaseURL = flags.baseURL
		}
		if token != "" {
			c.Token = token
		}
		if session != "" {
			c.SessionCookie = session
		}
		if flags.timeout > 0 {
			c.RequestTimeout = flags.timeout
		}
	})
	return nil
}

func defaultLogPath() string {
	return filepath.Join(filepath.Dir(zoneview.DefaultConfigPath()), "zonedesk.log")
}

// openLog opens the log file. The terminal belongs to the UI, so
// without a file nothing is logged.
func openLog(path string) (io.Writer, func(), error) {
	if path == "" {
		return io.Discard, func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("creating log dir: %v", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %v", err)
	}
	return f, func() { _ = f.Close() }, nil
}

func logRequestSummary(logger *observability.CoreLogger, metrics *zoneapi.Metrics) {
	ops := []zoneapi.Operation{
		zoneapi.OpList, zoneapi.OpUpdate, zoneapi.OpCreate, zoneapi.OpDelete, zoneapi.OpSearch,
	}
	for _, op := range ops {
		ok := metrics.RequestCount(op, zoneapi.OutcomeOK)
		rejected := metrics.RequestCount(op, zoneapi.OutcomeRejected)
		failed := metrics.RequestCount(op, zoneapi.OutcomeTransport)
		if ok+rejected+failed == 0 {
			continue
		}
		logger.Info("zonedesk: requests",
			"op", op, "ok", ok, "rejected", rejected, "transport_error", failed)
	}
}

func writeMetricsFile(path string, g prometheus.Gatherer) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("opening metrics file: %v", err)
	}
	if err := zoneapi.WriteMetrics(f, g); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
