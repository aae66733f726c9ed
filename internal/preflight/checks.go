package preflight

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/gofrs/flock"
	"golang.org/x/sys/unix"

	"exomatch/internal/catalog"
	"exomatch/internal/config"
	"exomatch/internal/extract"
	"exomatch/internal/titlenorm"
)

// CheckCatalog opens the configured catalog, which also verifies the schema
// version, and counts the videos of the configured type.
func CheckCatalog(ctx context.Context, cfg *config.Config) Result {
	const name = "Catalog"

	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	store, err := catalog.Open(checkCtx, cfg)
	if err != nil {
		return Result{Name: name, Detail: summarizeCatalogError(err)}
	}
	defer store.Close()

	n, err := store.Count(checkCtx, cfg.Catalog.VideoType)
	if err != nil {
		return Result{Name: name, Detail: summarizeCatalogError(err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s, %d %s videos", store.Driver(), n, cfg.Catalog.VideoType)}
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckDocuments verifies the documents directory is readable and holds at
// least one supported document.
func CheckDocuments(path string) Result {
	const name = "Documents"

	if err := unix.Access(path, unix.R_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	found, err := extract.Discover(path)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	if len(found) == 0 {
		return Result{Name: name, Detail: fmt.Sprintf("%s (no supported documents)", path)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%d documents)", path, len(found))}
}

// CheckApplyLock fails when another apply run currently holds the catalog lock.
func CheckApplyLock(path string) Result {
	const name = "Apply lock"

	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	if !ok {
		return Result{Name: name, Detail: "apply run in progress"}
	}
	_ = lock.Unlock()
	return Result{Name: name, Passed: true, Detail: "free"}
}

// CheckRulesFile verifies that an external normalization table loads and compiles.
func CheckRulesFile(path string) Result {
	const name = "Normalization rules"

	rules, err := titlenorm.LoadRulesFile(path)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%d rules, version %d)", path, len(rules.Rules), rules.Version)}
}

// summarizeCatalogError produces a human-readable summary for catalog failures.
func summarizeCatalogError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "catalog check timed out (database unresponsive)"
	}
	if errors.Is(err, catalog.ErrSchemaMismatch) {
		return "schema version mismatch (rebuild or migrate the catalog)"
	}
	return err.Error()
}
