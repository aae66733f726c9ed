package testsupport

import (
	"context"
	"testing"

	"exomatch/internal/catalog"
	"exomatch/internal/config"
)

// MustOpenStore opens a catalog.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *catalog.Store {
	t.Helper()

	store, err := catalog.Open(context.Background(), cfg)
	if err != nil {
		t.Fatalf("catalog.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// SeedVideos upserts the given rows.
func SeedVideos(t testing.TB, store *catalog.Store, videos ...catalog.Video) []catalog.Video {
	t.Helper()

	out := make([]catalog.Video, 0, len(videos))
	for _, v := range videos {
		if err := store.Upsert(context.Background(), &v); err != nil {
			t.Fatalf("store.Upsert(%q): %v", v.Title, err)
		}
		out = append(out, v)
	}
	return out
}
