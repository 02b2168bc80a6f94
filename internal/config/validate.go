package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"

	"github.com/flemzord/rtmtail/internal/cron"
)

// Validate checks the structural validity of a Config and reports every
// problem at once.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.Version == "" {
		errs = append(errs, errors.New("config: version field is required"))
	} else if cfg.Version != "1" {
		errs = append(errs, fmt.Errorf("config: unsupported version %q (supported: \"1\")", cfg.Version))
	}

	errs = append(errs, validateSlack(cfg.Slack)...)

	for i, field := range cfg.Output.InflateFields {
		if field == "" {
			errs = append(errs, fmt.Errorf("config: output.inflate_fields[%d] is empty", i))
		}
	}

	if cfg.Metrics.Listen != "" {
		if _, _, err := net.SplitHostPort(cfg.Metrics.Listen); err != nil {
			errs = append(errs, fmt.Errorf("config: metrics.listen %q: %w", cfg.Metrics.Listen, err))
		}
	}

	if cfg.Stats.Schedule != "" {
		if err := cron.ValidateSchedule(cfg.Stats.Schedule); err != nil {
			errs = append(errs, fmt.Errorf("config: stats.schedule: %w", err))
		}
	}

	if _, ok := parseLevel(cfg.Log.Level); !ok {
		errs = append(errs, fmt.Errorf("config: unknown log.level %q (use debug, info, warn or error)", cfg.Log.Level))
	}

	return errors.Join(errs...)
}

func validateSlack(s SlackConfig) []error {
	var errs []error

	switch s.Snapshot {
	case SnapshotRTM, SnapshotWeb:
		if s.Token == "" {
			errs = append(errs, fmt.Errorf("config: slack.token is required for snapshot %q (set SLACK_TOKEN)", s.Snapshot))
		}
	case SnapshotFile:
		if s.SnapshotFile == "" {
			errs = append(errs, errors.New("config: slack.snapshot_file is required when snapshot is \"file\""))
		}
	default:
		errs = append(errs, fmt.Errorf("config: invalid slack.snapshot %q (must be \"rtm\", \"web\" or \"file\")", s.Snapshot))
	}

	if s.APIURL != "" {
		u, err := url.Parse(s.APIURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			errs = append(errs, fmt.Errorf("config: slack.api_url must be a valid http/https URL, got %q", s.APIURL))
		}
	}

	if s.ReadLimit < 0 {
		errs = append(errs, fmt.Errorf("config: slack.read_limit must be non-negative, got %d", s.ReadLimit))
	}

	return errs
}
