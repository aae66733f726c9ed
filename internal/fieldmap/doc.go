// Package fieldmap derives controlled-vocabulary values from free text.
//
// MapIntensityToDifficulty classifies an intensity string with ordered
// substring rules. The remaining helpers derive catalog fields from object
// keys and titles: the body region of a key path, a display title from a
// filename, and region tags from title keywords.
package fieldmap
