// Package config loads, normalizes, and validates exomatch configuration.
//
// It supplies defaults, expands user paths (including tilde shortcuts),
// reads TOML files, and honours the DATABASE_URL environment fallback for the
// catalog connection. Matching thresholds, region policy, the normalization
// rule file, and the difficulty vocabulary are all set here so the matching
// core receives them as explicit parameters.
package config
