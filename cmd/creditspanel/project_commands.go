package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"creditspanel/internal/timeline"
)

var errNoProject = errors.New("no project open; run `creditspanel project open <name>`")

func newProjectCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Inspect or edit the host editing project",
	}
	cmd.AddCommand(newProjectShowCommand(ctx))
	cmd.AddCommand(newProjectOpenCommand(ctx))
	cmd.AddCommand(newProjectCloseCommand(ctx))
	cmd.AddCommand(newProjectSequenceCommand(ctx))
	cmd.AddCommand(newProjectImportCommand(ctx))
	return cmd
}

func newProjectShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the open project, its sequences and the active timeline",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := ctx.openSession(sessionOptions{})
			if err != nil {
				return err
			}
			defer sess.Close()

			info, err := sess.panel.UpdateProjectInfo(cmd.Context())
			if err != nil {
				return asUserError(err)
			}
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, info.Describe())
			if !info.HasProject() {
				return nil
			}

			var media, sequences, clips [][]string
			sess.sandbox.View(func(app *timeline.MemoryApp) {
				project := app.Current()
				if project == nil {
					return
				}
				for _, item := range project.Items() {
					media = append(media, []string{item.Name(), item.Length().String(), item.MediaPath()})
				}
				active := project.Active()
				for _, seq := range project.Sequences() {
					sequences = append(sequences, []string{
						seq.Name(),
						strconv.Itoa(len(seq.Tracks())),
						seq.End().String(),
						yesNo(seq == active),
					})
				}
				if active == nil {
					return
				}
				for i, track := range active.Tracks() {
					for _, c := range track.Clips() {
						clips = append(clips, []string{
							fmt.Sprintf("V%d", i+1), c.Start.String(), c.End().String(), c.Item,
						})
					}
				}
			})

			if len(media) > 0 {
				fmt.Fprintln(w, renderTable("Media", []string{"Item", "Length", "Path"}, media, nil))
			}
			if len(sequences) > 0 {
				fmt.Fprintln(w, renderTable("Sequences", []string{"Name", "Tracks", "End", "Active"}, sequences,
					[]columnAlignment{alignLeft, alignRight, alignRight, alignLeft}))
			}
			if len(clips) > 0 {
				fmt.Fprintln(w, renderTable("Timeline", []string{"Track", "Start", "End", "Item"}, clips,
					[]columnAlignment{alignLeft, alignRight, alignRight, alignLeft}))
			}
			return nil
		},
	}
}

func newProjectOpenCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "open <name>",
		Short: "Open a new empty project, replacing any open one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(args[0])
			if name == "" {
				return errors.New("project name is required")
			}
			sess, err := ctx.openSession(sessionOptions{})
			if err != nil {
				return err
			}
			defer sess.Close()

			if err := sess.sandbox.Mutate(func(app *timeline.MemoryApp) error {
				app.Open(name)
				return nil
			}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Opened project %s\n", name)
			return nil
		},
	}
}

func newProjectCloseCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "close",
		Short: "Close the open project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := ctx.openSession(sessionOptions{})
			if err != nil {
				return err
			}
			defer sess.Close()

			if err := sess.sandbox.Mutate(func(app *timeline.MemoryApp) error {
				app.Close()
				return nil
			}); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Project closed")
			return nil
		},
	}
}

func newProjectSequenceCommand(ctx *commandContext) *cobra.Command {
	var tracks int
	cmd := &cobra.Command{
		Use:   "sequence <name>",
		Short: "Create a sequence and make it active",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(args[0])
			if name == "" {
				return errors.New("sequence name is required")
			}
			if tracks < 0 {
				return fmt.Errorf("--tracks must be zero or more (got %d)", tracks)
			}
			sess, err := ctx.openSession(sessionOptions{})
			if err != nil {
				return err
			}
			defer sess.Close()

			if err := sess.sandbox.Mutate(func(app *timeline.MemoryApp) error {
				project := app.Current()
				if project == nil {
					return errNoProject
				}
				project.AddSequence(name, tracks)
				return nil
			}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created sequence %s with %d video track(s)\n", name, tracks)
			return nil
		},
	}
	cmd.Flags().IntVar(&tracks, "tracks", 1, "Number of video tracks")
	return cmd
}

func newProjectImportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import <path>",
		Short: "Import a local media file into the project without touching the timeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := ctx.openSession(sessionOptions{})
			if err != nil {
				return err
			}
			defer sess.Close()

			path, err := sess.adapter.ImportVideo(cmd.Context(), args[0])
			if err != nil {
				return asUserError(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %s\n", path)
			return nil
		},
	}
}
