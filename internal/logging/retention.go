package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// PruneOlderThan deletes files in dir matching pattern whose modification
// time is before cutoff, except the paths in keep. It returns how many
// files were removed; failures are logged and skipped.
func PruneOlderThan(logger *slog.Logger, dir, pattern string, cutoff time.Time, keep ...string) int {
	if dir == "" {
		return 0
	}
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return 0
	}
	kept := make(map[string]struct{}, len(keep))
	for _, k := range keep {
		if k != "" {
			kept[filepath.Clean(k)] = struct{}{}
		}
	}

	removed := 0
	for _, path := range matches {
		if _, ok := kept[filepath.Clean(path)]; ok {
			continue
		}
		info, err := os.Stat(path)
		if err != nil || info.IsDir() || !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.Remove(path); err != nil {
			WarnWithContext(logger, "old log file not removed", "log_retention_failed",
				String("path", path),
				Error(err),
				String(FieldErrorHint, "check permissions on log_dir"),
				String(FieldImpact, "the file stays on disk until the next run"),
			)
			continue
		}
		removed++
		if logger != nil {
			logger.Debug("log pruned", String("path", path), String(FieldEventType, "log_pruned"))
		}
	}
	return removed
}
