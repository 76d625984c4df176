package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"creditspanel/internal/gallery"
)

func newGalleryCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gallery",
		Short: "List or delete generated videos",
	}
	cmd.AddCommand(newGalleryListCommand(ctx))
	cmd.AddCommand(newGalleryDeleteCommand(ctx))
	return cmd
}

func parseSurface(value string) (gallery.SurfaceKind, error) {
	switch kind := gallery.SurfaceKind(strings.ToLower(strings.TrimSpace(value))); kind {
	case gallery.SurfaceGallery, gallery.SurfacePanel:
		return kind, nil
	default:
		return "", fmt.Errorf("unknown surface %q (want %s or %s)", value, gallery.SurfaceGallery, gallery.SurfacePanel)
	}
}

func newGalleryListCommand(ctx *commandContext) *cobra.Command {
	var surfaceFlag string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List generated videos, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseSurface(surfaceFlag)
			if err != nil {
				return err
			}
			sess, err := ctx.openSession(sessionOptions{})
			if err != nil {
				return err
			}
			defer sess.Close()

			surface := sess.syncer.Surface(kind)
			artifacts, err := surface.Refresh(cmd.Context())
			if err != nil {
				return asUserError(err)
			}
			rows := make([]gallery.Row, 0, len(artifacts))
			for _, a := range artifacts {
				row := gallery.FormatRow(a)
				row.VideoURL = sess.client.ResolveURL(row.VideoURL)
				row.DownloadURL = sess.client.ResolveURL(row.DownloadURL)
				row.ThumbnailURL = sess.client.ResolveURL(row.ThumbnailURL)
				rows = append(rows, row)
			}
			if jsonOutput {
				return writeJSON(cmd, rows)
			}

			w := cmd.OutOrStdout()
			if surface.Empty() {
				fmt.Fprintln(w, "No videos yet. Run `creditspanel generate` to create one.")
				return nil
			}
			tableRows := make([][]string, 0, len(rows))
			for _, r := range rows {
				tableRows = append(tableRows, []string{r.Filename, r.Size, r.Created, r.Age, r.VideoURL})
			}
			title := fmt.Sprintf("%d video(s)", surface.Count())
			fmt.Fprintln(w, renderTable(title,
				[]string{"Filename", "Size", "Created", "Age", "Video URL"},
				tableRows,
				[]columnAlignment{alignLeft, alignRight, alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}
	cmd.Flags().StringVar(&surfaceFlag, "surface", string(gallery.SurfaceGallery), "Surface to refresh: gallery or panel")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print rows as JSON")
	return cmd
}

func newGalleryDeleteCommand(ctx *commandContext) *cobra.Command {
	var assumeYes bool
	var surfaceFlag string

	cmd := &cobra.Command{
		Use:   "delete <filename>...",
		Short: "Delete generated videos from the backend",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseSurface(surfaceFlag)
			if err != nil {
				return err
			}
			opts := sessionOptions{}
			if !assumeYes {
				opts.confirmer = newPromptConfirmer(cmd)
			}
			sess, err := ctx.openSession(opts)
			if err != nil {
				return err
			}
			defer sess.Close()

			surface := sess.syncer.Surface(kind)
			if _, err := surface.Refresh(cmd.Context()); err != nil {
				return asUserError(err)
			}
			w := cmd.OutOrStdout()
			var failures []error
			for _, filename := range args {
				err := surface.Delete(cmd.Context(), filename)
				switch {
				case errors.Is(err, gallery.ErrDeclined):
					fmt.Fprintf(w, "Skipped %s\n", filename)
				case err != nil:
					failures = append(failures, fmt.Errorf("%s: %w", filename, asUserError(err)))
				default:
					fmt.Fprintf(w, "Deleted %s (%d remaining)\n", filename, surface.Count())
				}
			}
			return errors.Join(failures...)
		},
	}
	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Delete without asking for confirmation")
	cmd.Flags().StringVar(&surfaceFlag, "surface", string(gallery.SurfaceGallery), "Surface the delete is issued from: gallery or panel")
	return cmd
}
