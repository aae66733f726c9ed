package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"

	"exomatch/internal/fieldmap"
)

var videoExtensions = map[string]struct{}{
	".mp4": {}, ".mov": {}, ".m4v": {}, ".webm": {}, ".mkv": {},
}

// ImportResult counts what ImportKeys did.
type ImportResult struct {
	Created  int      `json:"created"`
	Existing int      `json:"existing"`
	Skipped  []string `json:"skipped,omitempty"`
}

// KeyID derives the stable video id of an object key, so importing the same
// listing twice never duplicates rows.
func KeyID(key string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(strings.TrimSpace(key))).String()
}

// VideoFromKey builds a video row from an object storage key such as
// "Video/groupes-musculaires/abdos/12. Crunch au sol.mp4". Keys that are
// not video files return false.
func VideoFromKey(key, videoType string) (Video, bool) {
	key = strings.TrimSpace(key)
	if _, ok := videoExtensions[strings.ToLower(path.Ext(key))]; !ok {
		return Video{}, false
	}
	title := fieldmap.TitleFromFilename(key)
	if title == "" {
		return Video{}, false
	}
	v := Video{
		ID:          KeyID(key),
		Title:       title,
		Region:      fieldmap.RegionFromPath(key),
		VideoType:   videoType,
		VideoNumber: fieldmap.OrdinalFromFilename(key),
		SourceKey:   key,
	}
	if v.Region != "" {
		v.MuscleGroups = []string{v.Region}
	}
	return v, true
}

// ImportKeys seeds rows from a storage key listing. Existing rows (same
// source key) are left untouched, so their filled fields survive a re-import.
func (s *Store) ImportKeys(ctx context.Context, keys []string, videoType string) (ImportResult, error) {
	var result ImportResult
	if strings.TrimSpace(videoType) == "" {
		return result, errors.New("import keys: video type is required")
	}
	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if strings.TrimSpace(key) == "" {
			continue
		}
		video, ok := VideoFromKey(key, videoType)
		if !ok {
			result.Skipped = append(result.Skipped, key)
			continue
		}
		exists, err := s.hasSourceKey(ctx, video.SourceKey)
		if err != nil {
			return result, err
		}
		if exists {
			result.Existing++
			continue
		}
		if err := s.Upsert(ctx, &video); err != nil {
			return result, fmt.Errorf("import %q: %w", key, err)
		}
		result.Created++
	}
	return result, nil
}

func (s *Store) hasSourceKey(ctx context.Context, key string) (bool, error) {
	var id string
	err := s.db.QueryRowContext(ctx, s.rebind("SELECT id FROM videos WHERE source_key = ?"), key).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("lookup source key: %w", err)
	}
	return true, nil
}
