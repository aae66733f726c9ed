package catalog

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	"exomatch/internal/exercise"
)

// Video is one catalog row.
type Video struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Region           string    `json:"region,omitempty"`
	VideoType        string    `json:"videoType"`
	VideoNumber      string    `json:"videoNumber,omitempty"`
	Difficulty       string    `json:"difficulty,omitempty"`
	Intensity        string    `json:"intensity,omitempty"`
	TargetedMuscles  []string  `json:"targetedMuscles,omitempty"`
	MuscleGroups     []string  `json:"muscleGroups,omitempty"`
	StartingPosition string    `json:"startingPosition,omitempty"`
	Movement         string    `json:"movement,omitempty"`
	Series           string    `json:"series,omitempty"`
	Constraints      string    `json:"constraints,omitempty"`
	Theme            string    `json:"theme,omitempty"`
	SourceKey        string    `json:"sourceKey,omitempty"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// Writable fields, named like the exercise record JSON keys.
const (
	FieldRegion           = "region"
	FieldDifficulty       = "difficulty"
	FieldIntensity        = "intensity"
	FieldTargetedMuscles  = "targetedMuscles"
	FieldMuscleGroups     = "muscleGroups"
	FieldStartingPosition = "startingPosition"
	FieldMovement         = "movement"
	FieldSeries           = "series"
	FieldConstraints      = "constraints"
	FieldTheme            = "theme"
)

// fieldColumns is the write whitelist.
var fieldColumns = map[string]string{
	FieldRegion:           "region",
	FieldDifficulty:       "difficulty",
	FieldIntensity:        "intensity",
	FieldTargetedMuscles:  "targeted_muscles",
	FieldMuscleGroups:     "muscle_groups",
	FieldStartingPosition: "starting_position",
	FieldMovement:         "movement",
	FieldSeries:           "series",
	FieldConstraints:      "contraindications",
	FieldTheme:            "theme",
}

// Fields lists the writable field names in a stable order.
func Fields() []string {
	return []string{
		FieldDifficulty,
		FieldIntensity,
		FieldTargetedMuscles,
		FieldMuscleGroups,
		FieldStartingPosition,
		FieldMovement,
		FieldSeries,
		FieldConstraints,
		FieldTheme,
		FieldRegion,
	}
}

// ValidField reports whether name is writable.
func ValidField(name string) bool {
	_, ok := fieldColumns[name]
	return ok
}

// listFields hold string lists, stored as JSON arrays.
var listFields = map[string]struct{}{
	FieldTargetedMuscles: {},
	FieldMuscleGroups:    {},
}

// Patch is a partial field update. Values are strings, except the list
// fields which take a []string (or the []any produced by JSON decoding).
type Patch map[string]any

// Keys returns the patch fields in Fields() order.
func (p Patch) Keys() []string {
	keys := make([]string, 0, len(p))
	for _, name := range Fields() {
		if _, ok := p[name]; ok {
			keys = append(keys, name)
		}
	}
	return keys
}

// Validate checks field names and value types.
func (p Patch) Validate() error {
	for name, value := range p {
		if !ValidField(name) {
			return fmt.Errorf("field %q is not writable", name)
		}
		if _, err := columnValue(name, value); err != nil {
			return err
		}
	}
	return nil
}

func columnValue(field string, value any) (string, error) {
	if _, list := listFields[field]; list {
		items, err := toStrings(value)
		if err != nil {
			return "", fmt.Errorf("field %s: %w", field, err)
		}
		return encodeList(items), nil
	}
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v), nil
	case nil:
		return "", nil
	case fmt.Stringer:
		return strings.TrimSpace(v.String()), nil
	}
	return "", fmt.Errorf("field %s: unsupported value type %T", field, value)
}

func toStrings(value any) ([]string, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case []string:
		return v, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("list item has type %T", item)
			}
			out = append(out, s)
		}
		return out, nil
	case string:
		if strings.TrimSpace(v) == "" {
			return nil, nil
		}
		return []string{v}, nil
	}
	return nil, fmt.Errorf("unsupported value type %T", value)
}

func encodeList(items []string) string {
	cleaned := make([]string, 0, len(items))
	for _, m := range items {
		if trimmed := strings.TrimSpace(m); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	if len(cleaned) == 0 {
		return ""
	}
	data, err := json.Marshal(cleaned)
	if err != nil {
		return ""
	}
	return string(data)
}

func decodeList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		// Rows written by other tools may hold a plain comma list.
		for _, part := range strings.Split(raw, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				out = append(out, trimmed)
			}
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Value returns the current value of a writable field.
func (v Video) Value(field string) any {
	switch field {
	case FieldRegion:
		return v.Region
	case FieldDifficulty:
		return v.Difficulty
	case FieldIntensity:
		return v.Intensity
	case FieldTargetedMuscles:
		return slices.Clone(v.TargetedMuscles)
	case FieldMuscleGroups:
		return slices.Clone(v.MuscleGroups)
	case FieldStartingPosition:
		return v.StartingPosition
	case FieldMovement:
		return v.Movement
	case FieldSeries:
		return v.Series
	case FieldConstraints:
		return v.Constraints
	case FieldTheme:
		return v.Theme
	}
	return nil
}

// Missing reports whether a writable field has no value.
func (v Video) Missing(field string) bool {
	if _, list := listFields[field]; list {
		items, _ := v.Value(field).([]string)
		return len(items) == 0
	}
	s, _ := v.Value(field).(string)
	return strings.TrimSpace(s) == ""
}

// Record projects the row into an exercise record, used when a catalog
// serves as match candidates.
func (v Video) Record() exercise.Record {
	return exercise.Record{
		ID:               v.ID,
		Title:            v.Title,
		Region:           v.Region,
		Ordinal:          v.VideoNumber,
		Intensity:        v.Intensity,
		TargetedMuscles:  slices.Clone(v.TargetedMuscles),
		StartingPosition: v.StartingPosition,
		Movement:         v.Movement,
		Series:           v.Series,
		Constraints:      v.Constraints,
		Theme:            v.Theme,
		Source:           v.SourceKey,
	}
}

const videoColumns = "id, title, region, video_type, video_number, difficulty, intensity, targeted_muscles, muscle_groups, starting_position, movement, series, contraindications, theme, source_key, updated_at"

func scanVideo(scanner interface{ Scan(dest ...any) error }) (*Video, error) {
	var (
		v         Video
		muscles   string
		groups    string
		sourceKey *string
		updated   string
	)
	if err := scanner.Scan(
		&v.ID,
		&v.Title,
		&v.Region,
		&v.VideoType,
		&v.VideoNumber,
		&v.Difficulty,
		&v.Intensity,
		&muscles,
		&groups,
		&v.StartingPosition,
		&v.Movement,
		&v.Series,
		&v.Constraints,
		&v.Theme,
		&sourceKey,
		&updated,
	); err != nil {
		return nil, err
	}
	v.TargetedMuscles = decodeList(muscles)
	v.MuscleGroups = decodeList(groups)
	if sourceKey != nil {
		v.SourceKey = *sourceKey
	}
	if ts, err := time.Parse(time.RFC3339Nano, updated); err == nil {
		v.UpdatedAt = ts
	}
	return &v, nil
}
