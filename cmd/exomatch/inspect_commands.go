package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"exomatch/internal/extract"
	"exomatch/internal/pipeline"
)

type fileFailure struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

func toFailures(errs []extract.FileError) []fileFailure {
	out := make([]fileFailure, 0, len(errs))
	for _, e := range errs {
		out = append(out, fileFailure{Path: e.Path, Error: e.Err.Error()})
	}
	return out
}

func newParseCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "parse [path...]",
		Short: "Parse exercise documents and list the records found",
		Long:  "Extract and parse documents without touching the catalog. Paths default to documents_dir.",
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := ctx.openSession(cmd, false)
			if err != nil {
				return err
			}
			defer session.Close()

			paths := args
			if len(paths) == 0 {
				paths = []string{session.cfg.Paths.DocumentsDir}
			}
			docs, err := session.runner.LoadDocuments(cmd.Context(), paths)
			if err != nil {
				return err
			}

			if ctx.JSONMode() {
				return writeJSON(cmd, map[string]any{
					"documents": docs.Paths,
					"records":   docs.Records,
					"failures":  toFailures(docs.Failures),
				})
			}

			out := cmd.OutOrStdout()
			rows := make([][]string, 0, len(docs.Records))
			for i, rec := range docs.Records {
				rows = append(rows, []string{
					strconv.Itoa(i + 1),
					rec.Title,
					rec.Region,
					strings.Join(rec.TargetedMuscles, ", "),
					rec.Intensity,
					rec.Source,
				})
			}
			if len(rows) > 0 {
				fmt.Fprintln(out, renderTable(
					[]string{"#", "Title", "Region", "Muscles", "Intensity", "Source"},
					rows,
					[]columnAlignment{alignRight},
				))
			}
			fmt.Fprintf(out, "%d records from %d documents, %d failed\n", len(docs.Records), len(docs.Paths), len(docs.Failures))
			for _, f := range docs.Failures {
				fmt.Fprintf(out, "failed: %s\n", f.Error())
			}
			return nil
		},
	}
}

func newNormalizeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "normalize <title>...",
		Short: "Show the normalized form of titles",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			components, err := pipeline.BuildComponents(cfg)
			if err != nil {
				return err
			}

			type normalized struct {
				Raw        string `json:"raw"`
				Normalized string `json:"normalized"`
			}
			results := make([]normalized, 0, len(args))
			for _, raw := range args {
				results = append(results, normalized{Raw: raw, Normalized: components.Normalizer.Normalize(raw)})
			}
			if ctx.JSONMode() {
				return writeJSON(cmd, results)
			}
			rows := make([][]string, 0, len(results))
			for _, r := range results {
				rows = append(rows, []string{r.Raw, r.Normalized})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Title", "Normalized"}, rows, nil))
			return nil
		},
	}
}

func newScoreCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "score <title-a> <title-b>",
		Short: "Score two titles and show every sub-score",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			components, err := pipeline.BuildComponents(cfg)
			if err != nil {
				return err
			}
			b := components.Scorer.Breakdown(args[0], args[1])
			if ctx.JSONMode() {
				return writeJSON(cmd, b)
			}
			rows := [][]string{
				{"normalized a", b.A},
				{"normalized b", b.B},
				{"containment", formatScore(b.Containment)},
				{"keywords", formatScore(b.Keywords)},
				{"levenshtein", formatScore(b.Levenshtein)},
			}
			if cfg.Matching.JaroWinkler {
				rows = append(rows, []string{"jaro-winkler", formatScore(b.JaroWinkler)})
			}
			rows = append(rows, []string{"score", formatScore(b.Score)})
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Measure", "Value"}, rows, []columnAlignment{alignLeft, alignRight}))
			return nil
		},
	}
}

func newDifficultyCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "difficulty <intensity>",
		Short: "Map an intensity description onto a difficulty",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			components, err := pipeline.BuildComponents(cfg)
			if err != nil {
				return err
			}
			intensity := strings.TrimSpace(strings.Join(args, " "))
			if intensity == "" {
				return errors.New("intensity is required")
			}
			level, label := components.Mapper.Difficulty(intensity)
			if ctx.JSONMode() {
				return writeJSON(cmd, map[string]string{
					"intensity":  intensity,
					"difficulty": string(level),
					"label":      label,
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s (%s)\n", intensity, level, label)
			return nil
		},
	}
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}
