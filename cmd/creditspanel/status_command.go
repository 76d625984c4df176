package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"creditspanel/internal/logging"
	"creditspanel/internal/preflight"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show readiness checks, backend and host project state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := ctx.openSession(sessionOptions{})
			if err != nil {
				return err
			}
			defer sess.Close()

			w := cmd.OutOrStdout()
			colorize := shouldColorize(w)
			var lines []string

			lines = append(lines, renderSectionHeader("Checks", colorize)...)
			for _, r := range preflight.RunAll(cmd.Context(), sess.cfg) {
				kind := statusOK
				if !r.Passed {
					kind = statusError
				}
				lines = append(lines, renderStatusLine(r.Name, kind, r.Detail, colorize))
			}

			lines = append(lines, "")
			lines = append(lines, renderSectionHeader("Panel", colorize)...)
			online := sess.panel.CheckServer(cmd.Context())
			if _, err := sess.panel.UpdateProjectInfo(cmd.Context()); err != nil {
				ctx.log().Debug("project info unavailable", logging.Error(err))
			}
			snap := sess.panel.Status()
			lines = append(lines, renderStatusLine("Server", serverStatusKind(snap), snap.ServerLine, colorize))
			projectKind := statusInfo
			if snap.Project.HasProject() {
				projectKind = statusOK
			}
			lines = append(lines, renderStatusLine("Project", projectKind, snap.ProjectLine, colorize))
			if online {
				if count, err := sess.client.PatronCount(cmd.Context()); err == nil {
					lines = append(lines, renderStatusLine("Patrons", statusInfo, strconv.Itoa(count), colorize))
				}
			}
			if last, ok, err := sess.store.LastArtifact(cmd.Context()); err == nil && ok {
				detail := fmt.Sprintf("%s (%d patrons, %s)", last.Filename, last.PatronCount, humanize.Time(last.GeneratedAt))
				lines = append(lines, renderStatusLine("Last video", statusInfo, detail, colorize))
			}

			fmt.Fprintln(w, strings.Join(lines, "\n"))
			return nil
		},
	}
}
