package main

import (
	"fmt"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"creditspanel/internal/gallery"
	"creditspanel/internal/panel"
	"creditspanel/internal/preflight"
)

const panelRefreshInterval = 500 * time.Millisecond

func newPanelCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "panel",
		Short: "Embedded panel surface",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "run",
		Short: "Poll the backend, host project and video list until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			colorize := shouldColorize(w)
			var outMu sync.Mutex
			printLine := func(line string) {
				outMu.Lock()
				defer outMu.Unlock()
				fmt.Fprintf(w, "%s %s\n", time.Now().Format("15:04:05"), line)
			}

			sess, err := ctx.openSession(sessionOptions{
				onBanner: func(b panel.Banner) { printLine(renderBanner(b, colorize)) },
			})
			if err != nil {
				return err
			}
			defer sess.Close()

			if check := preflight.CheckDirectoryAccess("User data directory", sess.cfg.Host.UserDataDir); !check.Passed {
				return fmt.Errorf("%s: %s", check.Name, check.Detail)
			}

			runCtx := cmd.Context()
			done := make(chan error, 1)
			go func() {
				done <- sess.panel.Run(runCtx, panel.Intervals{
					Server:  sess.cfg.ServerPollInterval(),
					Project: sess.cfg.ProjectPollInterval(),
					Gallery: sess.cfg.GalleryPollInterval(),
				})
			}()

			surface := sess.syncer.Surface(gallery.SurfacePanel)
			var lastServer, lastProject string
			lastCount := -1
			ticker := time.NewTicker(panelRefreshInterval)
			defer ticker.Stop()
			for {
				select {
				case err := <-done:
					return err
				case <-ticker.C:
					snap := sess.panel.Status()
					if snap.ServerLine != "" && snap.ServerLine != lastServer {
						lastServer = snap.ServerLine
						printLine(renderStatusLine("Server", serverStatusKind(snap), snap.ServerLine, colorize))
					}
					if snap.ProjectLine != "" && snap.ProjectLine != lastProject {
						lastProject = snap.ProjectLine
						printLine(renderStatusLine("Project", statusInfo, snap.ProjectLine, colorize))
					}
					if !surface.RefreshedAt().IsZero() && surface.Count() != lastCount {
						lastCount = surface.Count()
						printLine(renderStatusLine("Videos", statusInfo, fmt.Sprintf("%d", lastCount), colorize))
					}
				}
			}
		},
	})
	return cmd
}
