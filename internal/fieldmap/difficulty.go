package fieldmap

import (
	"strings"

	"exomatch/internal/exercise"
	"exomatch/internal/titlenorm"
)

var (
	allLevelMarkers     = []string{"tout niveau", "tous niveaux", "tous les niveaux", "all levels"}
	advancedMarkers     = []string{"avance", "niveau 2", "niveau 3", "advanced"}
	intermediateMarkers = []string{"intermediaire", "intermediate"}
	beginnerMarkers     = []string{"debutant", "beginner"}
)

// MapIntensityToDifficulty classifies free-text intensity. First match wins:
// all-levels, advanced, beginner+intermediate, intermediate, beginner, else
// undefined. Matching ignores case and accents.
func MapIntensityToDifficulty(intensity string) exercise.Difficulty {
	text := titlenorm.StripAccents(strings.ToLower(intensity))
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return exercise.DifficultyUndefined
	}
	hasBeginner := containsAny(text, beginnerMarkers)
	hasIntermediate := containsAny(text, intermediateMarkers)
	switch {
	case containsAny(text, allLevelMarkers):
		return exercise.DifficultyUndefined
	case containsAny(text, advancedMarkers):
		return exercise.DifficultyAdvanced
	case hasBeginner && hasIntermediate:
		return exercise.DifficultyIntermediate
	case hasIntermediate:
		return exercise.DifficultyIntermediate
	case hasBeginner:
		return exercise.DifficultyBeginner
	default:
		return exercise.DifficultyUndefined
	}
}

func containsAny(text string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(text, m) {
			return true
		}
	}
	return false
}

// Mapper renders derived values in a deployment's vocabulary.
type Mapper struct {
	Vocabulary exercise.Vocabulary
}

// Difficulty maps intensity and renders the label to persist.
func (m Mapper) Difficulty(intensity string) (exercise.Difficulty, string) {
	d := MapIntensityToDifficulty(intensity)
	return d, d.Label(m.Vocabulary)
}
