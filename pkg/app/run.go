// Package app wires configuration, Slack adapters, sinks and the
// operational endpoints into the rtmtail commands.
package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/flemzord/rtmtail/internal/config"
	"github.com/flemzord/rtmtail/internal/cron"
	"github.com/flemzord/rtmtail/internal/gateway"
	"github.com/flemzord/rtmtail/internal/stream"
	"github.com/flemzord/rtmtail/internal/tracing"
)

const shutdownTimeout = 5 * time.Second

// RunParams configures one streaming or replay session.
type RunParams struct {
	// ConfigPath is the YAML file. Empty searches the default locations and
	// falls back to environment-only configuration.
	ConfigPath string

	// Inflate forces identifier inflation on, whatever the config says.
	Inflate bool

	// SnapshotFile, when set, replaces the configured snapshot source with
	// a file on disk.
	SnapshotFile string

	// Source replaces the websocket (replay).
	Source stream.Source

	// Stdout receives events; Stderr receives logs. Nil means os.Stdout
	// and os.Stderr.
	Stdout io.Writer
	Stderr io.Writer

	Version string
}

// LoadConfig resolves, loads, applies overrides and validates the config.
func LoadConfig(path, snapshotFile string, inflate bool) (*config.Config, error) {
	if path == "" {
		path = ResolveConfigPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if snapshotFile != "" {
		cfg.Slack.Snapshot = config.SnapshotFile
		cfg.Slack.SnapshotFile = snapshotFile
	}
	if inflate {
		cfg.Output.Inflate = true
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Run streams (or replays) events until the source ends or ctx is
// cancelled. The caller owns signal handling through ctx.
func Run(ctx context.Context, p RunParams) (err error) {
	stdout, stderr := p.Stdout, p.Stderr
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}

	cfg, err := LoadConfig(p.ConfigPath, p.SnapshotFile, p.Inflate)
	if err != nil {
		return err
	}

	logger := NewLogger(stderr, cfg.LogLevel(), NewRedactor(cfg))

	shutdownTracing, err := tracing.Setup(ctx, tracing.Config{
		Endpoint: cfg.Tracing.Endpoint,
		Insecure: cfg.Tracing.Insecure,
		Version:  p.Version,
	})
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		err = errors.Join(err, shutdownTracing(sctx))
	}()

	sinks, err := NewSinks(ctx, cfg, stdout)
	if err != nil {
		return err
	}

	metrics := stream.NewMetrics()
	runner := &stream.Runner{
		Provider: NewProvider(cfg),
		Source:   p.Source,
		Dial:     Dialer(cfg.Slack.ReadLimit),
		Sinks:    sinks,
		Inflate:  cfg.Output.Inflate,
		Fields:   cfg.Output.InflateFields,
		Logger:   logger,
		Metrics:  metrics,
	}

	stop, err := startBackground(ctx, cfg, runner, metrics, logger)
	if err != nil {
		return errors.Join(err, closeAll(sinks))
	}
	defer stop()

	logger.Info("rtmtail starting",
		"version", p.Version,
		"snapshot", cfg.Slack.Snapshot,
		"archive", cfg.Archive.Path != "",
	)
	return runner.Run(ctx)
}

// startBackground starts the optional HTTP server and stats scheduler and
// returns a function that stops whichever were started.
func startBackground(ctx context.Context, cfg *config.Config, runner *stream.Runner, metrics *stream.Metrics, logger *slog.Logger) (func(), error) {
	var stops []func(context.Context) error
	stop := func() {
		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		for i := len(stops) - 1; i >= 0; i-- {
			if err := stops[i](sctx); err != nil {
				logger.Warn("shutdown error", "error", err)
			}
		}
	}

	if cfg.Metrics.Listen != "" {
		srv := gateway.New(gateway.Config{
			Listen:      cfg.Metrics.Listen,
			BearerToken: cfg.Metrics.BearerToken,
		}, metrics.Registry, runner, logger)
		if err := srv.Start(ctx); err != nil {
			stop()
			return nil, err
		}
		stops = append(stops, srv.Stop)
	}

	if cfg.Stats.Schedule != "" {
		sched := cron.NewScheduler(logger)
		if err := sched.RegisterJob(&cron.StatsJob{
			Source:       runner,
			Logger:       logger,
			ScheduleExpr: cfg.Stats.Schedule,
		}); err != nil {
			stop()
			return nil, err
		}
		if err := sched.Start(); err != nil {
			stop()
			return nil, err
		}
		stops = append(stops, sched.Stop)
	}

	return stop, nil
}

// ResolveConfigPath returns the first existing file among
// $XDG_CONFIG_HOME/rtmtail/rtmtail.yaml (or ~/.config/rtmtail/rtmtail.yaml)
// and ./rtmtail.yaml, or "" when there is none.
func ResolveConfigPath() string {
	var candidates []string

	if xdg, ok := os.LookupEnv("XDG_CONFIG_HOME"); ok {
		candidates = append(candidates, filepath.Join(xdg, "rtmtail", "rtmtail.yaml"))
	} else if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".config", "rtmtail", "rtmtail.yaml"))
	}
	candidates = append(candidates, "rtmtail.yaml")

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
