package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Catalog drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Paths contains directory configuration.
type Paths struct {
	DataDir      string `toml:"data_dir"`
	DocumentsDir string `toml:"documents_dir"`
	ReportDir    string `toml:"report_dir"`
	LogDir       string `toml:"log_dir"`
}

// Catalog selects the video catalog database.
type Catalog struct {
	Driver    string `toml:"driver"`
	DSN       string `toml:"dsn"`
	VideoType string `toml:"video_type"`
	// CrossTypes lists other video types used as extra match candidates.
	CrossTypes []string `toml:"cross_types"`
}

// Matching holds the scorer and matcher parameters.
type Matching struct {
	Threshold           float64 `toml:"threshold"`
	ExactBand           float64 `toml:"exact_band"`
	KeywordsBand        float64 `toml:"keywords_band"`
	RegionPolicy        string  `toml:"region_policy"`
	MissingRegionPasses bool    `toml:"missing_region_passes"`
	Ordinals            bool    `toml:"ordinals"`
	Levenshtein         bool    `toml:"levenshtein"`
	JaroWinkler         bool    `toml:"jaro_winkler"`
	Overwrite           bool    `toml:"overwrite"`
	// AutoApprove pre-approves entries at or above this confidence
	// ("high", "medium", "low") or nothing when "none".
	AutoApprove string `toml:"auto_approve"`
}

// Normalization configures the title normalizer.
type Normalization struct {
	RulesPath string `toml:"rules_path"`
	// ReplaceRules swaps the embedded table for the file instead of
	// appending the file's rules after it.
	ReplaceRules bool     `toml:"replace_rules"`
	StopWords    []string `toml:"stop_words"`
}

// Parsing configures the document parser.
type Parsing struct {
	Lookahead        int               `toml:"lookahead"`
	InstructionVerbs []string          `toml:"instruction_verbs"`
	Sections         map[string]string `toml:"sections"`
}

// Difficulty selects the persisted difficulty vocabulary.
type Difficulty struct {
	Vocabulary string `toml:"vocabulary"`
}

// Extract configures document extraction.
type Extract struct {
	MaxFileSizeMB int `toml:"max_file_size_mb"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format        string `toml:"format"`
	Level         string `toml:"level"`
	RetentionDays int    `toml:"retention_days"`
}

// Config encapsulates all configuration values for exomatch.
//
// Configuration sections:
//   - Paths: data, document, report and log directories
//   - Catalog: database driver, DSN and the video type being filled
//   - Matching: threshold, tier bands, region policy, scorer options
//   - Normalization: rule table file and stop words
//   - Parsing: title lookahead, instruction verbs, section keywords
//   - Difficulty: persisted vocabulary
//   - Extract: document size cap
//   - Logging: log format, level, and retention
type Config struct {
	Paths         Paths         `toml:"paths"`
	Catalog       Catalog       `toml:"catalog"`
	Matching      Matching      `toml:"matching"`
	Normalization Normalization `toml:"normalization"`
	Parsing       Parsing       `toml:"parsing"`
	Difficulty    Difficulty    `toml:"difficulty"`
	Extract       Extract       `toml:"extract"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/exomatch/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file).DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			var strict *toml.StrictMissingError
			if errors.As(err, &strict) {
				return nil, "", false, fmt.Errorf("parse config: %s", strict.String())
			}
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("exomatch.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the data, report and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.ReportDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// CatalogLockPath is the file guarding catalog writes.
func (c *Config) CatalogLockPath() string {
	return filepath.Join(c.Paths.DataDir, "apply.lock")
}

// MaxFileSizeBytes converts the extraction cap to bytes.
func (c *Config) MaxFileSizeBytes() int64 {
	return int64(c.Extract.MaxFileSizeMB) << 20
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
