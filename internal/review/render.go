package review

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"exomatch/internal/matcher"
)

// RenderOptions controls Render.
type RenderOptions struct {
	Color bool
	// Unmatched includes entries without a match in the table.
	Unmatched bool
	// MaxTitle truncates long titles; zero keeps them whole.
	MaxTitle int
}

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiGray   = "\x1b[90m"
)

var confidenceColors = map[matcher.Confidence]string{
	matcher.ConfidenceHigh:   ansiGreen,
	matcher.ConfidenceMedium: ansiYellow,
	matcher.ConfidenceLow:    ansiRed,
	matcher.ConfidenceNone:   ansiGray,
}

// Render writes the entry table, the error table and the summary lines.
func Render(w io.Writer, r *Report, opts RenderOptions) error {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"#", "Video", "Query", "Matched", "Score", "Method", "Confidence", "Fields", "Decision"})

	n := 0
	for _, e := range r.Entries {
		if !e.IsMatch() && !opts.Unmatched {
			continue
		}
		n++
		confidence := string(e.Confidence)
		if opts.Color {
			if color, ok := confidenceColors[e.Confidence]; ok {
				confidence = color + confidence + ansiReset
			}
		}
		method := string(e.Method)
		if e.RegionFallback {
			method += "*"
		}
		score := ""
		if e.IsMatch() {
			score = strconv.FormatFloat(e.Score, 'f', 2, 64)
		}
		tw.AppendRow(table.Row{
			n,
			shortID(e.VideoID),
			truncate(e.Query, opts.MaxTitle),
			truncate(e.Matched, opts.MaxTitle),
			score,
			method,
			confidence,
			strings.Join(e.Fields.Keys(), ", "),
			decisionLabel(e.Decision),
		})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})

	if n > 0 {
		if _, err := fmt.Fprintln(w, tw.Render()); err != nil {
			return err
		}
	}

	if len(r.Errors) > 0 {
		et := table.NewWriter()
		et.SetStyle(table.StyleRounded)
		et.AppendHeader(table.Row{"Stage", "Subject", "Error"})
		for _, p := range r.Errors {
			et.AppendRow(table.Row{p.Stage, p.Subject, p.Message})
		}
		if _, err := fmt.Fprintln(w, et.Render()); err != nil {
			return err
		}
	}

	for _, line := range SummaryLines(r.Summary()) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if n > 0 && hasFallback(r) {
		if _, err := fmt.Fprintln(w, "* matched outside the query region"); err != nil {
			return err
		}
	}
	return nil
}

// SummaryLines formats the summary for terminal output.
func SummaryLines(s Summary) []string {
	return []string{
		fmt.Sprintf("matched %d / not matched %d / errors %d", s.Matched, s.NotMatched, s.Errors),
		fmt.Sprintf("confidence: high %d, medium %d, low %d",
			s.ByConfidence[matcher.ConfidenceHigh],
			s.ByConfidence[matcher.ConfidenceMedium],
			s.ByConfidence[matcher.ConfidenceLow]),
		fmt.Sprintf("decisions: approved %d, rejected %d, pending %d", s.Approved, s.Rejected, s.Pending),
	}
}

func hasFallback(r *Report) bool {
	for _, e := range r.Entries {
		if e.RegionFallback {
			return true
		}
	}
	return false
}

func decisionLabel(d Decision) string {
	if d == DecisionPending {
		return "-"
	}
	return string(d)
}

func truncate(value string, limit int) string {
	if limit <= 0 {
		return value
	}
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	return string(runes[:limit-1]) + "…"
}
