// Package main is the entry point for the rtmtail CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/flemzord/rtmtail/internal/rtm"
	"github.com/flemzord/rtmtail/pkg/app"
)

// Set by goreleaser ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "rtmtail",
		Short:         "Print a Slack workspace's real-time events as readable JSON",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(streamCmd(), replayCmd(), formatCmd(), archiveCmd(), configCmd(), versionCmd())
	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "rtmtail %s (commit: %s, built: %s)\n", version, commit, date)
		},
	}
}

func streamCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stream",
		Short: "Connect to the real-time stream and print each event",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfgPath, _ := cmd.Flags().GetString("config")
			inflate, _ := cmd.Flags().GetBool("inflate")
			snapshot, _ := cmd.Flags().GetString("snapshot")

			return app.Run(cmd.Context(), app.RunParams{
				ConfigPath:   cfgPath,
				Inflate:      inflate,
				SnapshotFile: snapshot,
				Stdout:       cmd.OutOrStdout(),
				Stderr:       cmd.ErrOrStderr(),
				Version:      version,
			})
		},
	}
	addCommonFlags(cmd)
	cmd.Flags().BoolP("inflate", "i", false, "Replace user and channel ids with full directory entries")
	return cmd
}

func replayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay <file>",
		Short: "Process a recorded stream (one JSON frame per line) instead of connecting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, _ := cmd.Flags().GetString("config")
			inflate, _ := cmd.Flags().GetBool("inflate")
			snapshot, _ := cmd.Flags().GetString("snapshot")

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer func() { _ = f.Close() }()

			return app.Run(cmd.Context(), app.RunParams{
				ConfigPath:   cfgPath,
				Inflate:      inflate,
				SnapshotFile: snapshot,
				Source:       rtm.NewReaderSource(f),
				Stdout:       cmd.OutOrStdout(),
				Stderr:       cmd.ErrOrStderr(),
				Version:      version,
			})
		},
	}
	addCommonFlags(cmd)
	cmd.Flags().BoolP("inflate", "i", false, "Replace user and channel ids with full directory entries")
	return cmd
}

func formatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "format [text...]",
		Short: "Render message markup against the workspace directory",
		Long: "Render message markup against the workspace directory. " +
			"Each argument is rendered on its own line; with no arguments, stdin is read line by line.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, _ := cmd.Flags().GetString("config")
			snapshot, _ := cmd.Flags().GetString("snapshot")

			p := app.FormatParams{
				ConfigPath:   cfgPath,
				SnapshotFile: snapshot,
				Texts:        args,
				Stdout:       cmd.OutOrStdout(),
			}
			if len(args) == 0 {
				p.Stdin = cmd.InOrStdin()
			}
			return app.Format(cmd.Context(), p)
		},
	}
	addCommonFlags(cmd)
	return cmd
}

func archiveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Inspect the local event archive",
	}
	tail := &cobra.Command{
		Use:   "tail",
		Short: "Print the most recent archived events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfgPath, _ := cmd.Flags().GetString("config")
			path, _ := cmd.Flags().GetString("path")
			n, _ := cmd.Flags().GetInt("lines")

			return app.ArchiveTail(cmd.Context(), app.ArchiveParams{
				ConfigPath: cfgPath,
				Path:       path,
				Limit:      n,
				Stdout:     cmd.OutOrStdout(),
				Stderr:     cmd.ErrOrStderr(),
			})
		},
	}
	tail.Flags().StringP("config", "c", "", "Path to configuration file")
	tail.Flags().String("path", "", "Archive database (defaults to archive.path)")
	tail.Flags().IntP("lines", "n", 20, "Number of events to print")
	cmd.AddCommand(tail)
	return cmd
}

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "check <path>",
		Short: "Validate a configuration file and print the effective settings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.CheckConfig(args[0], cmd.OutOrStdout())
		},
	})
	return cmd
}

func addCommonFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("config", "c", "", "Path to configuration file")
	cmd.Flags().String("snapshot", "", "Read the workspace snapshot from this file instead of the API")
}
