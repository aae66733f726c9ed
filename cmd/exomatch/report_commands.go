package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"exomatch/internal/review"
)

func newReportCommand(ctx *commandContext) *cobra.Command {
	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Inspect and edit review reports",
	}

	reportCmd.AddCommand(newReportShowCommand(ctx))
	reportCmd.AddCommand(newReportDecideCommand(ctx))

	return reportCmd
}

func newReportShowCommand(ctx *commandContext) *cobra.Command {
	var showAll bool

	cmd := &cobra.Command{
		Use:   "show [report]",
		Short: "Render a report (newest by default)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path, err := resolveReportPath(cfg.Paths.ReportDir, args)
			if err != nil {
				return err
			}
			report, err := review.Read(path)
			if err != nil {
				return err
			}
			if ctx.JSONMode() {
				return writeJSON(cmd, map[string]any{"path": path, "report": report, "summary": report.Summary()})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Report %s (run %s, type %s, threshold %.2f)\n", path, report.RunID, report.VideoType, report.Threshold)
			return review.Render(out, report, review.RenderOptions{
				Color:     shouldColorize(out),
				Unmatched: showAll,
				MaxTitle:  48,
			})
		},
	}

	cmd.Flags().BoolVar(&showAll, "all", false, "Include unmatched videos")
	return cmd
}

func newReportDecideCommand(ctx *commandContext) *cobra.Command {
	var reportPath string

	cmd := &cobra.Command{
		Use:   "decide <video-id> <OUI|NON>",
		Short: "Record a decision for one report entry",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path, err := resolveReportPath(cfg.Paths.ReportDir, []string{reportPath})
			if err != nil {
				return err
			}
			decision, err := review.ParseDecision(args[1])
			if err != nil {
				return err
			}
			report, err := review.Read(path)
			if err != nil {
				return err
			}
			if err := report.SetDecision(args[0], decision); err != nil {
				return err
			}
			if err := review.Write(path, report); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", args[0], decisionText(decision))
			return nil
		},
	}

	cmd.Flags().StringVar(&reportPath, "report", "", "Report file (newest by default)")
	return cmd
}

func decisionText(d review.Decision) string {
	if d == review.DecisionPending {
		return "pending"
	}
	return string(d)
}
