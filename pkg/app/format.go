package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/flemzord/rtmtail/internal/config"
	"github.com/flemzord/rtmtail/internal/directory"
	"github.com/flemzord/rtmtail/internal/format"
)

// errNoInput is returned by Format when there is nothing to render.
var errNoInput = errors.New("app: no text to format")

// FormatParams configures Format.
type FormatParams struct {
	ConfigPath   string
	SnapshotFile string

	// Texts are rendered in order. When empty, Stdin is read line by line.
	Texts  []string
	Stdin  io.Reader
	Stdout io.Writer
}

// Format renders message markup against the directory built from the
// configured snapshot, one output line per input text.
func Format(ctx context.Context, p FormatParams) error {
	if len(p.Texts) == 0 && p.Stdin == nil {
		return errNoInput
	}

	cfg, err := LoadConfig(p.ConfigPath, p.SnapshotFile, false)
	if err != nil {
		return err
	}
	sess, err := NewProvider(cfg).Snapshot(ctx)
	if err != nil {
		return err
	}
	dir := directory.Build(sess.Snapshot)

	w := bufio.NewWriter(p.Stdout)
	if len(p.Texts) > 0 {
		for _, text := range p.Texts {
			if _, err := fmt.Fprintln(w, format.Resolve(text, dir)); err != nil {
				return err
			}
		}
		return w.Flush()
	}

	sc := bufio.NewScanner(p.Stdin)
	for sc.Scan() {
		if _, err := fmt.Fprintln(w, format.Resolve(sc.Text(), dir)); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("app: read input: %w", err)
	}
	return w.Flush()
}

// CheckConfig loads and validates the file at path, then prints the
// effective configuration with secrets redacted.
func CheckConfig(path string, w io.Writer) error {
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("app: marshal config: %w", err)
	}
	var tree map[string]any
	if err := yaml.Unmarshal(raw, &tree); err != nil {
		return fmt.Errorf("app: reparse config: %w", err)
	}
	NewRedactor(cfg).RedactMap(tree)

	out, err := yaml.Marshal(tree)
	if err != nil {
		return fmt.Errorf("app: marshal config: %w", err)
	}
	_, err = fmt.Fprintf(w, "Configuration OK (snapshot: %s)\n\n%s", cfg.Slack.Snapshot, strings.TrimLeft(string(out), "\n"))
	return err
}
