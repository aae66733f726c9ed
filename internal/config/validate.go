package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateCatalog(); err != nil {
		return err
	}
	if err := c.validateMatching(); err != nil {
		return err
	}
	if err := c.validateParsing(); err != nil {
		return err
	}
	if err := c.validateDifficulty(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateCatalog() error {
	switch c.Catalog.Driver {
	case DriverSQLite:
	case DriverPostgres:
		if c.Catalog.DSN == "" {
			defaultPath, err := DefaultConfigPath()
			if err != nil {
				defaultPath = "~/.config/exomatch/config.toml"
			}
			return fmt.Errorf("catalog.dsn is required for postgres. Set DATABASE_URL or edit %s (create with 'exomatch config init')", defaultPath)
		}
	default:
		return fmt.Errorf("catalog.driver: unsupported value %q (want sqlite or postgres)", c.Catalog.Driver)
	}
	return nil
}

func (c *Config) validateMatching() error {
	m := c.Matching
	for _, check := range []struct {
		key   string
		value float64
	}{
		{"matching.threshold", m.Threshold},
		{"matching.exact_band", m.ExactBand},
		{"matching.keywords_band", m.KeywordsBand},
	} {
		if check.value < 0 || check.value > 1 {
			return fmt.Errorf("%s must be between 0 and 1", check.key)
		}
	}
	if m.KeywordsBand > m.ExactBand {
		return errors.New("matching.keywords_band must not exceed matching.exact_band")
	}
	switch m.RegionPolicy {
	case "off", "strict", "preferred":
	default:
		return fmt.Errorf("matching.region_policy: unsupported value %q (want off, strict or preferred)", m.RegionPolicy)
	}
	switch m.AutoApprove {
	case "none", "high", "medium", "low":
	default:
		return fmt.Errorf("matching.auto_approve: unsupported value %q (want none, high, medium or low)", m.AutoApprove)
	}
	if !m.Levenshtein && !m.JaroWinkler && m.Threshold < 0.5 {
		return errors.New("matching.threshold below 0.5 needs levenshtein or jaro_winkler scoring")
	}
	return nil
}

var knownSections = map[string]struct{}{
	"muscles": {}, "position": {}, "movement": {}, "intensity": {},
	"series": {}, "constraints": {}, "theme": {},
}

func (c *Config) validateParsing() error {
	if c.Parsing.Lookahead > 10 {
		return errors.New("parsing.lookahead must be 10 or less")
	}
	for section, pattern := range c.Parsing.Sections {
		if _, ok := knownSections[section]; !ok {
			return fmt.Errorf("parsing.sections: unknown section %q", section)
		}
		if strings.TrimSpace(pattern) == "" {
			return fmt.Errorf("parsing.sections.%s: pattern is empty", section)
		}
		if _, err := regexp.Compile(pattern); err != nil {
			return fmt.Errorf("parsing.sections.%s: %w", section, err)
		}
	}
	return nil
}

func (c *Config) validateDifficulty() error {
	switch c.Difficulty.Vocabulary {
	case "english", "french":
		return nil
	}
	return fmt.Errorf("difficulty.vocabulary: unsupported value %q (want english or french)", c.Difficulty.Vocabulary)
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
