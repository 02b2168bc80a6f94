package app

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/flemzord/rtmtail/internal/archive"
	"github.com/flemzord/rtmtail/internal/config"
	"github.com/flemzord/rtmtail/internal/rtm"
	"github.com/flemzord/rtmtail/internal/security"
	"github.com/flemzord/rtmtail/internal/stream"
)

// NewLogger returns a text logger on w whose output passes through the
// redactor.
func NewLogger(w io.Writer, level slog.Level, redactor *security.Redactor) *slog.Logger {
	inner := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(security.NewRedactingHandler(inner, redactor))
}

// NewRedactor returns a redactor that also knows the configured secrets.
func NewRedactor(cfg *config.Config) *security.Redactor {
	r := security.NewRedactor()
	r.AddLiteral(cfg.Slack.Token)
	r.AddLiteral(cfg.Metrics.BearerToken)
	return r
}

// NewProvider selects the snapshot provider named by slack.snapshot.
func NewProvider(cfg *config.Config) stream.SnapshotProvider {
	switch cfg.Slack.Snapshot {
	case config.SnapshotWeb:
		return rtm.NewWebProvider(cfg.Slack.Token, cfg.Slack.APIURL)
	case config.SnapshotFile:
		return &rtm.FileProvider{Path: cfg.Slack.SnapshotFile}
	default:
		return &rtm.RTMProvider{Client: rtm.NewClient(cfg.Slack.Token, cfg.Slack.APIURL)}
	}
}

// Dialer opens websocket sources with the given frame size limit.
func Dialer(readLimit int64) stream.DialFunc {
	return func(ctx context.Context, url string) (stream.Source, error) {
		if url == "" {
			return nil, rtm.ErrNoURL
		}
		src, err := rtm.DialWebsocket(ctx, url, readLimit)
		if err != nil {
			return nil, err
		}
		return src, nil
	}
}

// NewSinks returns the JSON sink on w, plus the archive when archive.path
// is set.
func NewSinks(ctx context.Context, cfg *config.Config, w io.Writer) ([]stream.Sink, error) {
	sinks := []stream.Sink{stream.NewJSONSink(w, cfg.Output.Pretty)}
	if cfg.Archive.Path == "" {
		return sinks, nil
	}

	store, err := archive.Open(ctx, cfg.Archive.Path)
	if err != nil {
		return nil, errors.Join(err, closeAll(sinks))
	}
	return append(sinks, store), nil
}

func closeAll(sinks []stream.Sink) error {
	var errs []error
	for _, s := range sinks {
		errs = append(errs, s.Close())
	}
	return errors.Join(errs...)
}
