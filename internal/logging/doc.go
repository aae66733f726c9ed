// Package logging assembles the structured slog loggers used by exomatch.
//
// It owns the console and JSON handlers, the per-run log file, and the
// helpers that keep warning and decision records in one shape. Every record
// written during a pipeline run carries the run_id attribute so a run's
// lines can be pulled out of the daily JSON file.
package logging
