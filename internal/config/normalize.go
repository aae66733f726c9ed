package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeCatalog(); err != nil {
		return err
	}
	if err := c.normalizeNormalization(); err != nil {
		return err
	}
	c.normalizeMatching()
	c.normalizeParsing()
	c.normalizeLogging()
	c.Difficulty.Vocabulary = strings.ToLower(strings.TrimSpace(c.Difficulty.Vocabulary))
	if c.Difficulty.Vocabulary == "" {
		c.Difficulty.Vocabulary = defaultVocabulary
	}
	if c.Extract.MaxFileSizeMB <= 0 {
		c.Extract.MaxFileSizeMB = defaultMaxFileSizeMB
	}
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.DocumentsDir) == "" {
		c.Paths.DocumentsDir = filepath.Join(c.Paths.DataDir, "documents")
	}
	if c.Paths.DocumentsDir, err = expandPath(c.Paths.DocumentsDir); err != nil {
		return fmt.Errorf("paths.documents_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.ReportDir) == "" {
		c.Paths.ReportDir = filepath.Join(c.Paths.DataDir, "reports")
	}
	if c.Paths.ReportDir, err = expandPath(c.Paths.ReportDir); err != nil {
		return fmt.Errorf("paths.report_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = filepath.Join(c.Paths.DataDir, "logs")
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeCatalog() error {
	c.Catalog.Driver = strings.ToLower(strings.TrimSpace(c.Catalog.Driver))
	switch c.Catalog.Driver {
	case "", "sqlite3":
		c.Catalog.Driver = DriverSQLite
	case "postgresql", "pg":
		c.Catalog.Driver = DriverPostgres
	}
	c.Catalog.DSN = strings.TrimSpace(c.Catalog.DSN)
	if c.Catalog.DSN == "" && c.Catalog.Driver == DriverPostgres {
		if value, ok := os.LookupEnv("DATABASE_URL"); ok {
			c.Catalog.DSN = strings.TrimSpace(value)
		}
	}
	if c.Catalog.Driver == DriverSQLite {
		if c.Catalog.DSN == "" {
			c.Catalog.DSN = filepath.Join(c.Paths.DataDir, defaultCatalogFile)
		}
		if c.Catalog.DSN != ":memory:" {
			expanded, err := expandPath(c.Catalog.DSN)
			if err != nil {
				return fmt.Errorf("catalog.dsn: %w", err)
			}
			c.Catalog.DSN = expanded
		}
	}
	c.Catalog.VideoType = strings.TrimSpace(c.Catalog.VideoType)
	if c.Catalog.VideoType == "" {
		c.Catalog.VideoType = defaultVideoType
	}
	c.Catalog.CrossTypes = trimList(c.Catalog.CrossTypes)
	return nil
}

func (c *Config) normalizeNormalization() error {
	c.Normalization.RulesPath = strings.TrimSpace(c.Normalization.RulesPath)
	if c.Normalization.RulesPath != "" {
		expanded, err := expandPath(c.Normalization.RulesPath)
		if err != nil {
			return fmt.Errorf("normalization.rules_path: %w", err)
		}
		c.Normalization.RulesPath = expanded
	}
	c.Normalization.StopWords = trimList(c.Normalization.StopWords)
	return nil
}

func (c *Config) normalizeMatching() {
	c.Matching.RegionPolicy = strings.ToLower(strings.TrimSpace(c.Matching.RegionPolicy))
	if c.Matching.RegionPolicy == "" {
		c.Matching.RegionPolicy = defaultRegionPolicy
	}
	c.Matching.AutoApprove = strings.ToLower(strings.TrimSpace(c.Matching.AutoApprove))
	if c.Matching.AutoApprove == "" {
		c.Matching.AutoApprove = defaultAutoApproveDecision
	}
}

func (c *Config) normalizeParsing() {
	if c.Parsing.Lookahead <= 0 {
		c.Parsing.Lookahead = defaultLookahead
	}
	c.Parsing.InstructionVerbs = trimList(c.Parsing.InstructionVerbs)
}

func (c *Config) normalizeLogging() {
	format := strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch format {
	case "", "console":
		c.Logging.Format = "console"
	default:
		c.Logging.Format = format
	}
	level := strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if level == "" {
		level = defaultLogLevel
	}
	c.Logging.Level = level
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
}

func trimList(values []string) []string {
	out := values[:0]
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
