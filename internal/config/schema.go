// Package config handles YAML configuration loading, environment variable
// expansion and overrides, and structural validation for rtmtail.
package config

import (
	"log/slog"
	"strings"
)

// Snapshot sources.
const (
	SnapshotRTM  = "rtm"
	SnapshotWeb  = "web"
	SnapshotFile = "file"
)

// Config is the top-level configuration structure.
type Config struct {
	// Version is the config format version. Currently only "1" is supported.
	Version string `yaml:"version"`

	Slack   SlackConfig   `yaml:"slack"`
	Output  OutputConfig  `yaml:"output"`
	Archive ArchiveConfig `yaml:"archive"`
	Metrics MetricsConfig `yaml:"metrics"`
	Stats   StatsConfig   `yaml:"stats"`
	Tracing TracingConfig `yaml:"tracing"`
	Log     LogConfig     `yaml:"log"`
}

// SlackConfig selects where the startup snapshot comes from and how the
// stream is read.
type SlackConfig struct {
	// Token is the Slack API token. Usually supplied through SLACK_TOKEN.
	Token string `yaml:"token" env:"SLACK_TOKEN"`

	// APIURL overrides the Web API base URL.
	APIURL string `yaml:"api_url" env:"RTMTAIL_API_URL"`

	// Snapshot is one of "rtm" (default), "web" or "file".
	Snapshot string `yaml:"snapshot" env:"RTMTAIL_SNAPSHOT"`

	// SnapshotFile is the snapshot path used when Snapshot is "file".
	SnapshotFile string `yaml:"snapshot_file" env:"RTMTAIL_SNAPSHOT_FILE"`

	// ReadLimit caps the size of one stream frame in bytes. Defaults to
	// DefaultReadLimit.
	ReadLimit int64 `yaml:"read_limit" env:"RTMTAIL_READ_LIMIT"`
}

// OutputConfig controls how processed events are written.
type OutputConfig struct {
	// Inflate replaces identifier fields with full directory entities.
	Inflate bool `yaml:"inflate" env:"RTMTAIL_INFLATE"`

	// InflateFields lists the fields to inflate. Defaults to user, channel.
	InflateFields []string `yaml:"inflate_fields" env:"RTMTAIL_INFLATE_FIELDS"`

	// Pretty indents each JSON event.
	Pretty bool `yaml:"pretty" env:"RTMTAIL_PRETTY"`
}

// ArchiveConfig enables the SQLite event archive when Path is set.
type ArchiveConfig struct {
	Path string `yaml:"path" env:"RTMTAIL_ARCHIVE"`
}

// MetricsConfig enables the /health and /metrics endpoints when Listen is set.
type MetricsConfig struct {
	Listen string `yaml:"listen" env:"RTMTAIL_METRICS_LISTEN"`

	// BearerToken, when set, is required to scrape /metrics.
	BearerToken string `yaml:"bearer_token" env:"RTMTAIL_METRICS_TOKEN"`
}

// StatsConfig schedules a periodic stats log line.
type StatsConfig struct {
	// Schedule is a cron expression or descriptor such as "@every 1m".
	Schedule string `yaml:"schedule" env:"RTMTAIL_STATS_SCHEDULE"`
}

// TracingConfig enables OTLP/HTTP trace export when Endpoint is set.
type TracingConfig struct {
	Endpoint string `yaml:"endpoint" env:"RTMTAIL_OTLP_ENDPOINT"`
	Insecure bool   `yaml:"insecure" env:"RTMTAIL_OTLP_INSECURE"`
}

// LogConfig sets the minimum log level.
type LogConfig struct {
	Level string `yaml:"level" env:"RTMTAIL_LOG_LEVEL"`
}

// DefaultReadLimit is the frame size cap used when read_limit is unset.
// Team-join and channel-created frames carry whole profiles and routinely
// exceed the websocket library's 32 KiB default.
const DefaultReadLimit int64 = 64 << 20

// defaults applies default values to unset fields.
func (c *Config) defaults() {
	if c.Slack.Snapshot == "" {
		c.Slack.Snapshot = SnapshotRTM
	}
	if c.Slack.ReadLimit == 0 {
		c.Slack.ReadLimit = DefaultReadLimit
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// LogLevel returns the configured slog level. Unknown names map to info;
// Validate rejects them beforehand.
func (c *Config) LogLevel() slog.Level {
	level, _ := parseLevel(c.Log.Level)
	return level
}

func parseLevel(name string) (slog.Level, bool) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, true
	case "", "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}
