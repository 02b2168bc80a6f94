package stream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/flemzord/rtmtail/internal/cron"
	"github.com/flemzord/rtmtail/internal/directory"
	"github.com/flemzord/rtmtail/internal/event"
)

const tracerName = "github.com/flemzord/rtmtail/internal/stream"

// Runner owns one streaming session. Configure the exported fields, then
// call Run once.
type Runner struct {
	Provider SnapshotProvider

	// Source is used as-is when set (replay). Otherwise Dial opens one for
	// the session URL.
	Source Source
	Dial   DialFunc

	Sinks []Sink

	// Inflate and Fields configure the event processor.
	Inflate bool
	Fields  []string

	Logger  *slog.Logger
	Metrics *Metrics     // optional
	Tracer  trace.Tracer // nil uses the global provider

	processed atomic.Int64
	failed    atomic.Int64
	inflated  atomic.Int64
	entities  atomic.Int64
	streaming atomic.Bool
}

var _ cron.StatsSource = (*Runner)(nil)

// Run fetches the snapshot, opens the source and processes frames until
// the source ends, the context is cancelled or a sink fails. A normal end
// of stream and cancellation both return nil. Sinks are closed on return.
func (r *Runner) Run(ctx context.Context) (err error) {
	logger := r.logger()
	defer func() {
		r.streaming.Store(false)
		err = errors.Join(err, r.closeSinks())
	}()

	if r.Provider == nil {
		return ErrNoProvider
	}

	dir, url, err := r.snapshot(ctx)
	if err != nil {
		return err
	}

	src, err := r.open(ctx, url)
	if err != nil {
		return err
	}
	defer func() { _ = src.Close() }()

	proc := &event.Processor{Directory: dir, Inflate: r.Inflate, Fields: r.Fields}
	r.streaming.Store(true)
	logger.Info("stream: reading events", "inflate", r.Inflate)

	for {
		raw, err := src.Next(ctx)
		if err != nil {
			switch {
			case errors.Is(err, io.EOF):
				logger.Info("stream: source ended")
				return nil
			case ctx.Err() != nil:
				logger.Info("stream: stopped")
				return nil
			default:
				return fmt.Errorf("stream: read: %w", err)
			}
		}
		if err := r.handle(ctx, proc, raw); err != nil {
			return err
		}
	}
}

func (r *Runner) snapshot(ctx context.Context) (*directory.Directory, string, error) {
	ctx, span := r.tracer().Start(ctx, "rtmtail.snapshot")
	defer span.End()

	sess, err := r.Provider.Snapshot(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "snapshot failed")
		return nil, "", fmt.Errorf("stream: fetch snapshot: %w", err)
	}

	dir := directory.Build(sess.Snapshot)
	r.entities.Store(int64(dir.Len()))
	if r.Metrics != nil {
		r.Metrics.directory.Set(float64(dir.Len()))
	}
	span.SetAttributes(attribute.Int("rtmtail.directory.entities", dir.Len()))

	r.logger().Info("stream: directory built",
		"entities", dir.Len(),
		"users", len(sess.Snapshot.Users),
		"channels", len(sess.Snapshot.Channels),
		"groups", len(sess.Snapshot.Groups),
		"mpims", len(sess.Snapshot.MPIMs),
		"ims", len(sess.Snapshot.IMs),
	)
	return dir, sess.URL, nil
}

func (r *Runner) open(ctx context.Context, url string) (Source, error) {
	if r.Source != nil {
		return r.Source, nil
	}
	if r.Dial == nil {
		return nil, ErrNoSource
	}
	src, err := r.Dial(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("stream: open source: %w", err)
	}
	return src, nil
}

// handle processes one frame. Malformed frames are logged and skipped; a
// sink failure is returned.
func (r *Runner) handle(ctx context.Context, proc *event.Processor, raw []byte) error {
	start := time.Now()
	ctx, span := r.tracer().Start(ctx, "rtmtail.event")
	defer span.End()

	ev, res, err := proc.Process(raw)
	if err != nil {
		r.failed.Add(1)
		r.observe(resultMalformed, 0, start)
		span.RecordError(err)
		span.SetStatus(codes.Error, "malformed frame")
		r.logger().Warn("stream: skipping malformed frame", "error", err, "size", len(raw))
		return nil
	}
	span.SetAttributes(
		attribute.String("rtmtail.event.type", ev.Type()),
		attribute.Int("rtmtail.event.inflated", res.Inflated),
	)

	for _, sink := range r.Sinks {
		if err := sink.Write(ctx, ev); err != nil {
			r.observe(resultSinkError, res.Inflated, start)
			span.RecordError(err)
			span.SetStatus(codes.Error, "sink failed")
			return fmt.Errorf("stream: write event: %w", err)
		}
	}

	r.processed.Add(1)
	r.inflated.Add(int64(res.Inflated))
	r.observe(resultOK, res.Inflated, start)
	return nil
}

func (r *Runner) observe(result string, inflated int, start time.Time) {
	if r.Metrics == nil {
		return
	}
	r.Metrics.events.WithLabelValues(result).Inc()
	r.Metrics.inflations.Add(float64(inflated))
	r.Metrics.duration.Observe(time.Since(start).Seconds())
}

func (r *Runner) closeSinks() error {
	var errs []error
	for _, sink := range r.Sinks {
		if err := sink.Close(); err != nil {
			errs = append(errs, fmt.Errorf("stream: close sink: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Stats returns the counters accumulated so far.
func (r *Runner) Stats() cron.Stats {
	return cron.Stats{
		Processed: r.processed.Load(),
		Failed:    r.failed.Load(),
		Inflated:  r.inflated.Load(),
		Directory: int(r.entities.Load()),
	}
}

// Streaming reports whether the runner is past the snapshot and reading
// events.
func (r *Runner) Streaming() bool {
	return r.streaming.Load()
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.Default()
	}
	return r.Logger
}

func (r *Runner) tracer() trace.Tracer {
	if r.Tracer == nil {
		return otel.Tracer(tracerName)
	}
	return r.Tracer
}
