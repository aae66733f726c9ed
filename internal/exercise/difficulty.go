package exercise

import (
	"fmt"
	"strings"
)

// Difficulty is the controlled three-level difficulty vocabulary plus UNDEFINED.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "BEGINNER"
	DifficultyIntermediate Difficulty = "INTERMEDIATE"
	DifficultyAdvanced     Difficulty = "ADVANCED"
	DifficultyUndefined    Difficulty = "UNDEFINED"
)

// Vocabulary selects how a Difficulty is rendered when persisted.
type Vocabulary string

const (
	// VocabularyEnglish renders BEGINNER / INTERMEDIATE / ADVANCED / UNDEFINED.
	VocabularyEnglish Vocabulary = "english"
	// VocabularyFrench renders debutant / intermediaire / avance / indefini.
	VocabularyFrench Vocabulary = "french"
)

var frenchLabels = map[Difficulty]string{
	DifficultyBeginner:     "debutant",
	DifficultyIntermediate: "intermediaire",
	DifficultyAdvanced:     "avance",
	DifficultyUndefined:    "indefini",
}

// Label renders the difficulty in the requested vocabulary.
func (d Difficulty) Label(v Vocabulary) string {
	if d == "" {
		d = DifficultyUndefined
	}
	if v == VocabularyFrench {
		return frenchLabels[d]
	}
	return string(d)
}

// ParseDifficulty accepts either vocabulary, case-insensitively.
func ParseDifficulty(value string) (Difficulty, error) {
	trimmed := strings.ToLower(strings.TrimSpace(value))
	switch trimmed {
	case "beginner", "debutant", "débutant":
		return DifficultyBeginner, nil
	case "intermediate", "intermediaire", "intermédiaire":
		return DifficultyIntermediate, nil
	case "advanced", "avance", "avancé":
		return DifficultyAdvanced, nil
	case "undefined", "indefini", "indéfini", "":
		return DifficultyUndefined, nil
	}
	return DifficultyUndefined, fmt.Errorf("unknown difficulty %q", value)
}

// ParseVocabulary validates a vocabulary name.
func ParseVocabulary(value string) (Vocabulary, error) {
	switch Vocabulary(strings.ToLower(strings.TrimSpace(value))) {
	case VocabularyEnglish, "":
		return VocabularyEnglish, nil
	case VocabularyFrench:
		return VocabularyFrench, nil
	}
	return "", fmt.Errorf("unknown difficulty vocabulary %q", value)
}
