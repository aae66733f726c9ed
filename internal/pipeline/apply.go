package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/flock"

	"exomatch/internal/logging"
	"exomatch/internal/review"
)

// ErrLocked is returned when another apply run holds the catalog lock.
var ErrLocked = errors.New("another apply run holds the catalog lock")

// ApplyOptions controls one apply run.
type ApplyOptions struct {
	// DryRun validates and counts approved entries without writing.
	DryRun bool
}

// ApplyResult counts the outcome of an apply run.
type ApplyResult struct {
	Applied  int              `json:"applied"`
	Failed   int              `json:"failed"`
	Skipped  int              `json:"skipped"`
	DryRun   bool             `json:"dryRun,omitempty"`
	Failures []review.Problem `json:"failures,omitempty"`
}

// Apply writes every approved entry of report to the catalog. A failing row
// is recorded and the run continues with the next one.
func (r *Runner) Apply(ctx context.Context, report *review.Report, opts ApplyOptions) (ApplyResult, error) {
	var result ApplyResult
	if report == nil {
		return result, errors.New("pipeline: nil report")
	}
	if r.store == nil {
		return result, errors.New("pipeline: apply needs a catalog")
	}
	ctx = logging.WithRunID(ctx, r.runID)
	result.DryRun = opts.DryRun

	approved := report.Approved()
	result.Skipped = len(report.Entries) - len(approved)
	if opts.DryRun {
		for _, entry := range approved {
			if err := entry.Fields.Validate(); err != nil {
				result.Failed++
				result.Failures = append(result.Failures, review.Problem{Stage: "apply", Subject: entry.VideoID, Message: err.Error()})
				continue
			}
			result.Applied++
		}
		return result, nil
	}

	lock := flock.New(r.cfg.CatalogLockPath())
	ok, err := lock.TryLock()
	if err != nil {
		return result, fmt.Errorf("acquire catalog lock: %w", err)
	}
	if !ok {
		return result, ErrLocked
	}
	defer func() {
		_ = lock.Unlock()
	}()

	started := time.Now()
	for _, entry := range approved {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if err := r.store.Update(ctx, entry.VideoID, entry.Fields); err != nil {
			result.Failed++
			result.Failures = append(result.Failures, review.Problem{Stage: "apply", Subject: entry.VideoID, Message: err.Error()})
			logging.WarnWithContext(r.logger, "catalog update failed", "apply_failed",
				logging.String(logging.FieldVideoID, entry.VideoID),
				logging.String(logging.FieldTitle, entry.Query),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "rerun match to refresh the report"),
				logging.String(logging.FieldImpact, "this video keeps its current fields"),
			)
			continue
		}
		result.Applied++
		r.logger.DebugContext(ctx, "video updated",
			logging.String(logging.FieldVideoID, entry.VideoID),
			logging.Int("fields", len(entry.Fields)),
		)
	}

	r.logger.InfoContext(ctx, "apply run complete",
		logging.String(logging.FieldEventType, "apply_complete"),
		logging.Int("applied", result.Applied),
		logging.Int("failed", result.Failed),
		logging.Int("skipped", result.Skipped),
		logging.Duration("elapsed", time.Since(started)),
	)
	return result, nil
}
