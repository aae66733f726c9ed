package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Filter narrows List. Empty fields match everything; MissingFields keeps
// rows lacking any of the named fields.
type Filter struct {
	VideoType     string
	VideoTypes    []string
	Region        string
	MissingFields []string
	Limit         int
}

// List returns videos ordered by type, region, number and title.
func (s *Store) List(ctx context.Context, filter Filter) ([]Video, error) {
	var (
		where []string
		args  []any
	)
	types := append([]string(nil), filter.VideoTypes...)
	if filter.VideoType != "" {
		types = append(types, filter.VideoType)
	}
	if len(types) > 0 {
		where = append(where, "video_type IN ("+placeholders(len(types))+")")
		for _, t := range types {
			args = append(args, t)
		}
	}
	if region := strings.TrimSpace(filter.Region); region != "" {
		where = append(where, "region = ?")
		args = append(args, strings.ToLower(region))
	}
	if len(filter.MissingFields) > 0 {
		var missing []string
		for _, field := range filter.MissingFields {
			column, ok := fieldColumns[field]
			if !ok {
				return nil, fmt.Errorf("list: unknown field %q", field)
			}
			missing = append(missing, column+" = ''")
		}
		where = append(where, "("+strings.Join(missing, " OR ")+")")
	}

	query := "SELECT " + videoColumns + " FROM videos"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY video_type, region, video_number, title, id"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	defer rows.Close()

	var out []Video
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			return nil, fmt.Errorf("scan video: %w", err)
		}
		out = append(out, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate videos: %w", err)
	}
	return out, nil
}

// Get fetches one video. It returns ErrNotFound when the id is unknown.
func (s *Store) Get(ctx context.Context, id string) (*Video, error) {
	row := s.db.QueryRowContext(ctx, s.rebind("SELECT "+videoColumns+" FROM videos WHERE id = ?"), id)
	v, err := scanVideo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get video: %w", err)
	}
	return v, nil
}

// Upsert inserts or fully replaces a video. An empty ID receives a new UUID.
func (s *Store) Upsert(ctx context.Context, v *Video) error {
	if v == nil {
		return errors.New("video is nil")
	}
	if strings.TrimSpace(v.Title) == "" {
		return errors.New("video title is required")
	}
	if strings.TrimSpace(v.VideoType) == "" {
		return errors.New("video type is required")
	}
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	v.UpdatedAt = time.Now().UTC()

	var sourceKey any
	if v.SourceKey != "" {
		sourceKey = v.SourceKey
	}
	_, err := s.execWithRetry(ctx,
		`INSERT INTO videos (`+videoColumns+`)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
         ON CONFLICT (id) DO UPDATE SET
             title = excluded.title, region = excluded.region, video_type = excluded.video_type,
             video_number = excluded.video_number, difficulty = excluded.difficulty,
             intensity = excluded.intensity, targeted_muscles = excluded.targeted_muscles,
             muscle_groups = excluded.muscle_groups,
             starting_position = excluded.starting_position, movement = excluded.movement,
             series = excluded.series, contraindications = excluded.contraindications,
             theme = excluded.theme, source_key = excluded.source_key, updated_at = excluded.updated_at`,
		v.ID,
		strings.TrimSpace(v.Title),
		strings.ToLower(strings.TrimSpace(v.Region)),
		v.VideoType,
		v.VideoNumber,
		v.Difficulty,
		v.Intensity,
		encodeList(v.TargetedMuscles),
		encodeList(v.MuscleGroups),
		v.StartingPosition,
		v.Movement,
		v.Series,
		v.Constraints,
		v.Theme,
		sourceKey,
		v.UpdatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("upsert video %s: %w", v.ID, err)
	}
	return nil
}

// Update applies patch to one video. Unknown fields are rejected before any
// write; a missing row returns ErrNotFound.
func (s *Store) Update(ctx context.Context, id string, patch Patch) error {
	if len(patch) == 0 {
		return nil
	}
	if err := patch.Validate(); err != nil {
		return fmt.Errorf("update video %s: %w", id, err)
	}

	keys := patch.Keys()
	sets := make([]string, 0, len(keys)+1)
	args := make([]any, 0, len(keys)+2)
	for _, field := range keys {
		value, err := columnValue(field, patch[field])
		if err != nil {
			return fmt.Errorf("update video %s: %w", id, err)
		}
		if field == FieldRegion {
			value = strings.ToLower(value)
		}
		sets = append(sets, fieldColumns[field]+" = ?")
		args = append(args, value)
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, time.Now().UTC().Format(time.RFC3339Nano), id)

	res, err := s.execWithRetry(ctx, "UPDATE videos SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return fmt.Errorf("update video %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// Count returns the number of videos of a type, all types when empty.
func (s *Store) Count(ctx context.Context, videoType string) (int, error) {
	query := "SELECT COUNT(1) FROM videos"
	var args []any
	if videoType != "" {
		query += " WHERE video_type = ?"
		args = append(args, videoType)
	}
	var n int
	if err := s.db.QueryRowContext(ctx, s.rebind(query), args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count videos: %w", err)
	}
	return n, nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
