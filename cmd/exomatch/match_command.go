package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"exomatch/internal/pipeline"
	"exomatch/internal/preflight"
	"exomatch/internal/review"
)

func newMatchCommand(ctx *commandContext) *cobra.Command {
	var opts pipeline.MatchOptions
	var showAll bool
	var skipPreflight bool

	cmd := &cobra.Command{
		Use:   "match [path...]",
		Short: "Match documents against the catalog and write a review report",
		Long: "Parse the documents (documents_dir by default), match every catalog video of the\n" +
			"selected type that is missing fields, and write a report to report_dir.\n" +
			"Nothing is written to the catalog until the report is applied.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !skipPreflight {
				if err := requirePreflight(cmd, ctx, len(args) > 0); err != nil {
					return err
				}
			}

			session, err := ctx.openSession(cmd, true)
			if err != nil {
				return err
			}
			defer session.Close()

			opts.Paths = args
			report, err := session.runner.Match(cmd.Context(), opts)
			if err != nil {
				return err
			}
			path := filepath.Join(session.cfg.Paths.ReportDir, review.FileName(report))
			if err := review.Write(path, report); err != nil {
				return err
			}

			if ctx.JSONMode() {
				return writeJSON(cmd, map[string]any{"path": path, "report": report})
			}
			out := cmd.OutOrStdout()
			if err := review.Render(out, report, review.RenderOptions{
				Color:     shouldColorize(out),
				Unmatched: showAll,
				MaxTitle:  48,
			}); err != nil {
				return err
			}
			fmt.Fprintf(out, "Report written to %s\n", path)
			fmt.Fprintln(out, "Set decision to OUI or NON per entry, then run `exomatch apply`.")
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.VideoType, "type", "", "Video type to fill (default from config)")
	cmd.Flags().StringVar(&opts.Region, "region", "", "Only match videos of this region")
	cmd.Flags().StringSliceVar(&opts.CrossTypes, "cross-type", nil, "Other video types used as fallback candidates")
	cmd.Flags().StringSliceVar(&opts.Fields, "field", nil, "Restrict proposed updates to these fields")
	cmd.Flags().BoolVar(&opts.Overwrite, "overwrite", false, "Propose values for fields that are already set")
	cmd.Flags().BoolVar(&showAll, "all", false, "Include unmatched videos in the table")
	cmd.Flags().BoolVar(&skipPreflight, "skip-preflight", false, "Skip readiness checks")
	return cmd
}

// requirePreflight runs the readiness checks and fails on the first blocking
// one. The documents check is advisory when explicit paths are given.
func requirePreflight(cmd *cobra.Command, ctx *commandContext, explicitPaths bool) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	var blocking []string
	for _, r := range preflight.Failed(preflight.RunAll(cmd.Context(), cfg)) {
		if explicitPaths && r.Name == "Documents" {
			continue
		}
		blocking = append(blocking, fmt.Sprintf("%s: %s", r.Name, r.Detail))
	}
	if len(blocking) > 0 {
		return fmt.Errorf("preflight failed (run `exomatch doctor` for details):\n  %s", strings.Join(blocking, "\n  "))
	}
	return nil
}
