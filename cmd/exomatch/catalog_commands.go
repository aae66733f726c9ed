package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"exomatch/internal/catalog"
)

func newCatalogCommand(ctx *commandContext) *cobra.Command {
	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect and seed the video catalog",
	}

	catalogCmd.AddCommand(newCatalogListCommand(ctx))
	catalogCmd.AddCommand(newCatalogImportKeysCommand(ctx))

	return catalogCmd
}

func newCatalogListCommand(ctx *commandContext) *cobra.Command {
	var filter catalog.Filter
	var allTypes bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog videos",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := catalog.Open(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			if filter.VideoType == "" && !allTypes {
				filter.VideoType = cfg.Catalog.VideoType
			}
			videos, err := store.List(cmd.Context(), filter)
			if err != nil {
				return err
			}

			if ctx.JSONMode() {
				if videos == nil {
					videos = []catalog.Video{}
				}
				return writeJSON(cmd, videos)
			}

			out := cmd.OutOrStdout()
			if len(videos) == 0 {
				fmt.Fprintln(out, "No videos")
				return nil
			}
			rows := make([][]string, 0, len(videos))
			for _, v := range videos {
				rows = append(rows, []string{
					v.VideoNumber,
					v.Title,
					v.Region,
					v.VideoType,
					v.Difficulty,
					missingSummary(v),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"#", "Title", "Region", "Type", "Difficulty", "Missing"},
				rows,
				[]columnAlignment{alignRight},
			))
			return nil
		},
	}

	cmd.Flags().StringVar(&filter.VideoType, "type", "", "Video type (default from config)")
	cmd.Flags().BoolVar(&allTypes, "all-types", false, "List every video type")
	cmd.Flags().StringVar(&filter.Region, "region", "", "Only this region")
	cmd.Flags().StringSliceVar(&filter.MissingFields, "missing", nil, "Only videos missing any of these fields")
	cmd.Flags().IntVar(&filter.Limit, "limit", 0, "Maximum rows (0 for all)")
	return cmd
}

func missingSummary(v catalog.Video) string {
	var missing []string
	for _, field := range catalog.Fields() {
		if v.Missing(field) {
			missing = append(missing, field)
		}
	}
	if len(missing) == len(catalog.Fields()) {
		return "all"
	}
	return strings.Join(missing, ", ")
}

func newCatalogImportKeysCommand(ctx *commandContext) *cobra.Command {
	var videoType string

	cmd := &cobra.Command{
		Use:   "import-keys [file|-]",
		Short: "Seed catalog rows from an object storage key listing",
		Long: "Read one storage key per line (stdin when the file is omitted or \"-\") and\n" +
			"create a row for each video file. Keys already imported are left untouched.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			var in io.Reader = cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("open key listing: %w", err)
				}
				defer f.Close()
				in = f
			}
			keys, err := readKeys(in)
			if err != nil {
				return err
			}

			store, err := catalog.Open(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			if videoType == "" {
				videoType = cfg.Catalog.VideoType
			}
			result, err := store.ImportKeys(cmd.Context(), keys, videoType)
			if err != nil {
				return err
			}
			if ctx.JSONMode() {
				return writeJSON(cmd, result)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %d / existing %d / skipped %d\n", result.Created, result.Existing, len(result.Skipped))
			return nil
		},
	}

	cmd.Flags().StringVar(&videoType, "type", "", "Video type of the imported rows (default from config)")
	return cmd
}

func readKeys(r io.Reader) ([]string, error) {
	var keys []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if key := strings.TrimSpace(scanner.Text()); key != "" {
			keys = append(keys, key)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read key listing: %w", err)
	}
	return keys, nil
}
