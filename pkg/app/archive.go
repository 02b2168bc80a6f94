package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/flemzord/rtmtail/internal/archive"
	"github.com/flemzord/rtmtail/internal/config"
)

// errNoArchive is returned by ArchiveTail when no archive path is known.
var errNoArchive = errors.New("app: no archive path (set archive.path or pass --path)")

// ArchiveParams configures ArchiveTail.
type ArchiveParams struct {
	ConfigPath string

	// Path overrides archive.path from the configuration.
	Path string

	// Limit is the number of events printed.
	Limit int

	Stdout io.Writer
	Stderr io.Writer
}

// ArchiveTail prints the last Limit archived events, oldest first, as one
// JSON line each. A summary line goes to Stderr when it is set. The
// archive must already exist.
func ArchiveTail(ctx context.Context, p ArchiveParams) error {
	path := p.Path
	if path == "" {
		cfgPath := p.ConfigPath
		if cfgPath == "" {
			cfgPath = ResolveConfigPath()
		}
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return err
		}
		path = cfg.Archive.Path
	}
	if path == "" {
		return errNoArchive
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("app: archive: %w", err)
	}

	store, err := archive.Open(ctx, path)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	total, err := store.Count(ctx)
	if err != nil {
		return err
	}
	records, err := store.Recent(ctx, p.Limit)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(p.Stdout)
	for _, rec := range records {
		if _, err := w.Write(rec.Raw); err != nil {
			return err
		}
		if err := w.WriteByte('\n'); err != nil {
			return err
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if p.Stderr != nil {
		_, err = fmt.Fprintf(p.Stderr, "%d of %d archived events (%s)\n", len(records), total, path)
	}
	return err
}
