package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"exomatch/internal/matcher"
	"exomatch/internal/pipeline"
	"exomatch/internal/review"
)

func newApplyCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool
	var accept string

	cmd := &cobra.Command{
		Use:   "apply [report]",
		Short: "Write approved report entries to the catalog",
		Long: "Apply every entry whose decision is OUI. The report defaults to the newest one\n" +
			"in report_dir. --accept approves pending entries at or above a confidence first.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := ctx.openSession(cmd, true)
			if err != nil {
				return err
			}
			defer session.Close()

			path, err := resolveReportPath(session.cfg.Paths.ReportDir, args)
			if err != nil {
				return err
			}
			report, err := review.Read(path)
			if err != nil {
				return err
			}

			if level := strings.TrimSpace(accept); level != "" {
				min, err := matcher.ParseConfidence(level)
				if err != nil {
					return err
				}
				if n := report.AutoApprove(min); n > 0 && !dryRun {
					if err := review.Write(path, report); err != nil {
						return err
					}
				}
			}

			result, err := session.runner.Apply(cmd.Context(), report, pipeline.ApplyOptions{DryRun: dryRun})
			if err != nil {
				if errors.Is(err, pipeline.ErrLocked) {
					return fmt.Errorf("apply %s: %w", path, err)
				}
				return err
			}

			if ctx.JSONMode() {
				return writeJSON(cmd, map[string]any{"path": path, "result": result})
			}
			out := cmd.OutOrStdout()
			verb := "applied"
			if dryRun {
				verb = "would apply"
			}
			fmt.Fprintf(out, "%s %d / failed %d / skipped %d (%s)\n", verb, result.Applied, result.Failed, result.Skipped, path)
			if len(result.Failures) > 0 {
				rows := make([][]string, 0, len(result.Failures))
				for _, f := range result.Failures {
					rows = append(rows, []string{f.Subject, f.Message})
				}
				fmt.Fprintln(out, renderTable([]string{"Video", "Error"}, rows, nil))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Validate and count without writing")
	cmd.Flags().StringVar(&accept, "accept", "", "Approve pending entries at or above this confidence (high, medium, low)")
	return cmd
}

func resolveReportPath(dir string, args []string) (string, error) {
	if len(args) > 0 && strings.TrimSpace(args[0]) != "" {
		return strings.TrimSpace(args[0]), nil
	}
	return review.Latest(dir)
}
