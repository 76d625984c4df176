package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPatronsCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patrons",
		Short: "Manage the backend's patron list",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "refresh",
		Short: "Force the backend to refetch the patron list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := ctx.openSession(sessionOptions{onBanner: progressBanners(cmd)})
			if err != nil {
				return err
			}
			defer sess.Close()

			if _, err := sess.panel.RefreshPatrons(cmd.Context()); err != nil {
				return asUserError(err)
			}
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, renderBanner(sess.panel.Status().Banner, shouldColorize(w)))
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "count",
		Short: "Print the cached patron count",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.backendClient()
			if err != nil {
				return err
			}
			count, err := client.PatronCount(cmd.Context())
			if err != nil {
				return asUserError(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), count)
			return nil
		},
	})
	return cmd
}
