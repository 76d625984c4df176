package main

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"creditspanel/internal/logging"
	"creditspanel/internal/logs"
)

const logFollowInterval = 500 * time.Millisecond

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var lines int
	var follow bool
	var level string
	var component string

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show the panel's log file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if cfg.Logging.Dir == "" {
				return errors.New("logging.dir is not set; file logging is disabled")
			}
			filter := logs.Filter{Component: strings.TrimSpace(component)}
			if strings.TrimSpace(level) != "" {
				var lvl slog.Level
				if err := lvl.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
					return fmt.Errorf("invalid --level %q", level)
				}
				filter.Level = lvl
			}

			path := filepath.Join(cfg.Logging.Dir, logging.LogFileName)
			chunk, err := logs.Last(path, lines, filter)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, line := range chunk.Lines {
				fmt.Fprintln(w, line)
			}
			if !follow {
				return nil
			}
			return logs.Follow(cmd.Context(), path, chunk.Offset, logFollowInterval, filter, func(line string) {
				fmt.Fprintln(w, line)
			})
		},
	}
	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "Number of trailing lines to show")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Keep printing new lines until interrupted")
	cmd.Flags().StringVar(&level, "level", "", "Minimum level to show (debug, info, warn, error)")
	cmd.Flags().StringVar(&component, "component", "", "Only show lines from this component")
	return cmd
}
