package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newImportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import [filename]",
		Short: "Download a video and add it to the end of the host timeline",
		Long: "Download a video and add it to the end of the host timeline.\n\n" +
			"Without a filename the most recently generated video is imported.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := ctx.openSession(sessionOptions{onBanner: progressBanners(cmd)})
			if err != nil {
				return err
			}
			defer sess.Close()

			filename := ""
			if len(args) == 1 {
				filename = strings.TrimSpace(args[0])
			}
			if filename == "" {
				last, ok, err := sess.store.LastArtifact(cmd.Context())
				if err != nil {
					return fmt.Errorf("read last artifact: %w", err)
				}
				if !ok {
					return fmt.Errorf("no video to import; run `creditspanel generate` or pass a filename")
				}
				filename = last.Filename
			}

			if _, err := sess.panel.ImportArtifact(cmd.Context(), filename); err != nil {
				return asUserError(err)
			}
			snap := sess.panel.Status()
			w := cmd.OutOrStdout()
			colorize := shouldColorize(w)
			fmt.Fprintln(w, renderBanner(snap.Banner, colorize))
			if snap.ProjectLine != "" {
				fmt.Fprintln(w, snap.ProjectLine)
			}
			return nil
		},
	}
}
