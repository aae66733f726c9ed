package config

const (
	defaultDataDir             = "~/.local/share/exomatch"
	defaultCatalogDriver       = DriverSQLite
	defaultCatalogFile         = "catalog.db"
	defaultVideoType           = "MUSCLE_GROUPS"
	defaultThreshold           = 0.7
	defaultExactBand           = 0.85
	defaultKeywordsBand        = 0.70
	defaultRegionPolicy        = "preferred"
	defaultLookahead           = 3
	defaultVocabulary          = "english"
	defaultMaxFileSizeMB       = 50
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
	defaultLogRetentionDays    = 30
	defaultAutoApproveDecision = "none"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
		},
		Catalog: Catalog{
			Driver:    defaultCatalogDriver,
			VideoType: defaultVideoType,
		},
		Matching: Matching{
			Threshold:           defaultThreshold,
			ExactBand:           defaultExactBand,
			KeywordsBand:        defaultKeywordsBand,
			RegionPolicy:        defaultRegionPolicy,
			MissingRegionPasses: true,
			Ordinals:            true,
			Levenshtein:         true,
			AutoApprove:         defaultAutoApproveDecision,
		},
		Parsing: Parsing{
			Lookahead: defaultLookahead,
		},
		Difficulty: Difficulty{
			Vocabulary: defaultVocabulary,
		},
		Extract: Extract{
			MaxFileSizeMB: defaultMaxFileSizeMB,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
