package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newFFmpegCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ffmpeg",
		Short: "Check or install FFmpeg on the backend",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Probe the backend and report FFmpeg availability",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := ctx.openSession(sessionOptions{})
			if err != nil {
				return err
			}
			defer sess.Close()

			online := sess.panel.CheckServer(cmd.Context())
			snap := sess.panel.Status()
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, renderStatusLine("Server", serverStatusKind(snap), snap.ServerLine, shouldColorize(w)))
			if !online {
				return fmt.Errorf("backend at %s is offline", sess.client.BaseURL())
			}
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "install",
		Short: "Ask the backend to download and install FFmpeg",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := ctx.openSession(sessionOptions{onBanner: progressBanners(cmd)})
			if err != nil {
				return err
			}
			defer sess.Close()

			if err := sess.panel.InstallFFmpeg(cmd.Context()); err != nil {
				return asUserError(err)
			}
			snap := sess.panel.Status()
			w := cmd.OutOrStdout()
			colorize := shouldColorize(w)
			fmt.Fprintln(w, renderBanner(snap.Banner, colorize))
			fmt.Fprintln(w, renderStatusLine("Server", serverStatusKind(snap), snap.ServerLine, colorize))
			return nil
		},
	})
	return cmd
}
