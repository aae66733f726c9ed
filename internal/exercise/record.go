package exercise

import "strings"

// Record is one exercise parsed from a document or projected from a catalog row.
type Record struct {
	Title            string   `json:"title"`
	TargetedMuscles  []string `json:"targetedMuscles,omitempty"`
	StartingPosition string   `json:"startingPosition,omitempty"`
	Movement         string   `json:"movement,omitempty"`
	Intensity        string   `json:"intensity,omitempty"`
	Series           string   `json:"series,omitempty"`
	Constraints      string   `json:"constraints,omitempty"`
	Theme            string   `json:"theme,omitempty"`
	Source           string   `json:"source,omitempty"`
	Region           string   `json:"region,omitempty"`
	Ordinal          string   `json:"ordinal,omitempty"`
	// ID is set only for records projected from the catalog.
	ID string `json:"id,omitempty"`
}

var noConstraintValues = map[string]struct{}{
	"aucune": {},
	"aucun":  {},
	"neant":  {},
	"néant":  {},
	"rien":   {},
}

// HasConstraints reports whether the record carries a real contraindication.
// Empty text and "aucune" style placeholders count as none.
func (r Record) HasConstraints() bool {
	value := strings.ToLower(strings.TrimSpace(r.Constraints))
	value = strings.TrimRight(value, ". ")
	if value == "" {
		return false
	}
	_, none := noConstraintValues[value]
	return !none
}

// HasRegion reports whether a region classification is present.
func (r Record) HasRegion() bool {
	return strings.TrimSpace(r.Region) != ""
}

// Clone returns a copy that does not share the muscle slice.
func (r Record) Clone() Record {
	out := r
	if len(r.TargetedMuscles) > 0 {
		out.TargetedMuscles = append([]string(nil), r.TargetedMuscles...)
	}
	return out
}
