package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"creditspanel/internal/api"
	"creditspanel/internal/generation"
)

type generateFlags struct {
	message      string
	names        []string
	namesFile    string
	duration     int
	resolution   string
	columns      int
	nameAlign    string
	truncate     int
	wordWrap     bool
	nameSpacing  bool
	bgColor      string
	useCache     bool
	messageFont  string
	messageSize  int
	messageColor string
	messageBold  bool
	messageAlign string
	patronFont   string
	patronSize   int
	patronColor  string
	patronBold   bool

	importAfter bool
	jsonOutput  bool
}

type generateOutput struct {
	Filename    string    `json:"filename"`
	VideoURL    string    `json:"video_url"`
	DownloadURL string    `json:"download_url"`
	PatronCount int       `json:"patron_count"`
	GeneratedAt time.Time `json:"generated_at"`
	Imported    string    `json:"imported,omitempty"`
}

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	var f generateFlags
	defaults := api.DefaultGenerationRequest()

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Render a credits video on the backend",
		Long: "Render a credits video on the backend.\n\n" +
			"Unset flags fall back to the last submitted form, then to [generation] in the config.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := ctx.openSession(sessionOptions{onBanner: progressBanners(cmd)})
			if err != nil {
				return err
			}
			defer sess.Close()

			form, _, err := sess.store.LoadForm(cmd.Context(), sess.cfg.GenerationDefaults())
			if err != nil {
				return fmt.Errorf("load saved form: %w", err)
			}
			req, err := f.apply(cmd.Flags().Changed, form)
			if err != nil {
				return err
			}

			result, err := sess.panel.Generate(cmd.Context(), req)
			if err != nil {
				return asUserError(err)
			}
			out := generateOutput{
				Filename:    result.Filename,
				VideoURL:    sess.client.ResolveURL(result.VideoURL),
				DownloadURL: sess.client.DownloadURL(result.Filename),
				PatronCount: result.PatronCount,
				GeneratedAt: result.GeneratedAt,
			}
			banner := sess.panel.Status().Banner

			if f.importAfter {
				reply, err := sess.panel.Import(cmd.Context())
				if err != nil {
					return asUserError(err)
				}
				out.Imported = reply.Message
				banner = sess.panel.Status().Banner
			}

			if f.jsonOutput {
				return writeJSON(cmd, out)
			}
			w := cmd.OutOrStdout()
			colorize := shouldColorize(w)
			fmt.Fprintln(w, renderBanner(banner, colorize))
			fmt.Fprintf(w, "  Filename:  %s\n", out.Filename)
			fmt.Fprintf(w, "  Video URL: %s\n", out.VideoURL)
			fmt.Fprintf(w, "  Download:  %s\n", out.DownloadURL)
			if !f.importAfter {
				fmt.Fprintln(w, "Run `creditspanel import` to add it to the timeline.")
			}
			return nil
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.message, "message", "m", defaults.Message, "Header message shown above the names")
	fl.StringSliceVar(&f.names, "names", nil, "Custom names replacing the patron list (repeatable or comma-separated)")
	fl.StringVar(&f.namesFile, "names-file", "", "Read custom names from a .txt (one per line) or .csv file")
	fl.IntVar(&f.duration, "duration", defaults.Duration, "Video duration in seconds (5-60)")
	fl.StringVar(&f.resolution, "resolution", defaults.Resolution, "Resolution: "+strings.Join(api.Resolutions, ", "))
	fl.IntVar(&f.columns, "columns", defaults.Columns, "Name columns (1-5)")
	fl.StringVar(&f.nameAlign, "name-align", defaults.NameAlign, "Name alignment: "+strings.Join(api.NameAlignments, ", "))
	fl.IntVar(&f.truncate, "truncate", defaults.TruncateLength, "Truncate names longer than this (0 disables)")
	fl.BoolVar(&f.wordWrap, "word-wrap", defaults.WordWrap, "Wrap long names instead of truncating")
	fl.BoolVar(&f.nameSpacing, "name-spacing", defaults.NameSpacing, "Add extra spacing between names")
	fl.StringVar(&f.bgColor, "bg-color", defaults.BGColor, "Background colour (#rrggbb)")
	fl.BoolVar(&f.useCache, "use-cache", defaults.UseCache, "Reuse the backend's cached patron list")
	fl.StringVar(&f.messageFont, "message-font", defaults.MessageStyle.Font, "Header font key")
	fl.IntVar(&f.messageSize, "message-size", defaults.MessageStyle.Size, "Header font size")
	fl.StringVar(&f.messageColor, "message-color", defaults.MessageStyle.Color, "Header colour (#rrggbb)")
	fl.BoolVar(&f.messageBold, "message-bold", defaults.MessageStyle.Bold, "Bold header")
	fl.StringVar(&f.messageAlign, "message-align", defaults.MessageStyle.Align, "Header alignment: "+strings.Join(api.TextAlignments, ", "))
	fl.StringVar(&f.patronFont, "patron-font", defaults.PatronStyle.Font, "Name font key")
	fl.IntVar(&f.patronSize, "patron-size", defaults.PatronStyle.Size, "Name font size")
	fl.StringVar(&f.patronColor, "patron-color", defaults.PatronStyle.Color, "Name colour (#rrggbb)")
	fl.BoolVar(&f.patronBold, "patron-bold", defaults.PatronStyle.Bold, "Bold names")
	fl.BoolVar(&f.importAfter, "import", false, "Import the generated video into the host timeline")
	fl.BoolVar(&f.jsonOutput, "json", false, "Print the result as JSON")
	return cmd
}

// apply overlays the flags the user set onto form.
func (f *generateFlags) apply(changed func(string) bool, form api.GenerationRequest) (api.GenerationRequest, error) {
	req := form.Clone()
	set := func(name string, fn func()) {
		if changed(name) {
			fn()
		}
	}
	set("message", func() { req.Message = f.message })
	set("duration", func() { req.Duration = f.duration })
	set("resolution", func() { req.Resolution = f.resolution })
	set("columns", func() { req.Columns = f.columns })
	set("name-align", func() { req.NameAlign = f.nameAlign })
	set("truncate", func() { req.TruncateLength = f.truncate })
	set("word-wrap", func() { req.WordWrap = f.wordWrap })
	set("name-spacing", func() { req.NameSpacing = f.nameSpacing })
	set("bg-color", func() { req.BGColor = f.bgColor })
	set("use-cache", func() { req.UseCache = f.useCache })
	set("message-font", func() { req.MessageStyle.Font = f.messageFont })
	set("message-size", func() { req.MessageStyle.Size = f.messageSize })
	set("message-color", func() { req.MessageStyle.Color = f.messageColor })
	set("message-bold", func() { req.MessageStyle.Bold = f.messageBold })
	set("message-align", func() { req.MessageStyle.Align = f.messageAlign })
	set("patron-font", func() { req.PatronStyle.Font = f.patronFont })
	set("patron-size", func() { req.PatronStyle.Size = f.patronSize })
	set("patron-color", func() { req.PatronStyle.Color = f.patronColor })
	set("patron-bold", func() { req.PatronStyle.Bold = f.patronBold })

	if changed("names") || changed("names-file") {
		names := append([]string(nil), f.names...)
		if f.namesFile != "" {
			data, err := os.ReadFile(f.namesFile)
			if err != nil {
				return api.GenerationRequest{}, fmt.Errorf("read names file: %w", err)
			}
			fromFile, err := generation.ParseNamesFile(filepath.Base(f.namesFile), data)
			if err != nil {
				return api.GenerationRequest{}, asUserError(err)
			}
			names = generation.MergeNames(names, fromFile)
		}
		req.CustomNames = names
	}
	return req, nil
}
