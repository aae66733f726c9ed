package pipeline

import (
	"fmt"

	"exomatch/internal/config"
	"exomatch/internal/docparse"
	"exomatch/internal/exercise"
	"exomatch/internal/fieldmap"
	"exomatch/internal/matcher"
	"exomatch/internal/similarity"
	"exomatch/internal/titlenorm"
)

// Components are the pure building blocks configured from one Config. The
// CLI's inspection commands use them without a catalog.
type Components struct {
	Normalizer *titlenorm.Normalizer
	Scorer     *similarity.Scorer
	Parser     *docparse.Parser
	Matcher    *matcher.Matcher
	Mapper     fieldmap.Mapper
}

// BuildComponents turns configuration into components.
func BuildComponents(cfg *config.Config) (Components, error) {
	if cfg == nil {
		def := config.Default()
		cfg = &def
	}

	var normOpts titlenorm.Options
	if cfg.Normalization.RulesPath != "" {
		extra, err := titlenorm.LoadRulesFile(cfg.Normalization.RulesPath)
		if err != nil {
			return Components{}, fmt.Errorf("normalization rules: %w", err)
		}
		rules := extra
		if !cfg.Normalization.ReplaceRules {
			rules = titlenorm.DefaultRules().Extend(extra)
		}
		normOpts.Rules = &rules
	}
	if len(cfg.Normalization.StopWords) > 0 {
		normOpts.StopWords = append(append([]string(nil), titlenorm.DefaultStopWords...), cfg.Normalization.StopWords...)
	}
	normalizer := titlenorm.New(normOpts)

	scorer := similarity.New(similarity.Options{
		Containment: true,
		Keywords:    true,
		Levenshtein: cfg.Matching.Levenshtein,
		JaroWinkler: cfg.Matching.JaroWinkler,
		Normalizer:  normalizer,
	})

	region, err := matcher.ParseRegionPolicy(cfg.Matching.RegionPolicy)
	if err != nil {
		return Components{}, err
	}
	policy := matcher.Policy{
		Threshold:           cfg.Matching.Threshold,
		ExactBand:           cfg.Matching.ExactBand,
		KeywordsBand:        cfg.Matching.KeywordsBand,
		Region:              region,
		MissingRegionPasses: cfg.Matching.MissingRegionPasses,
		Ordinals:            cfg.Matching.Ordinals,
	}
	if err := policy.Validate(); err != nil {
		return Components{}, fmt.Errorf("matching policy: %w", err)
	}

	parseOpts := docparse.Options{
		Lookahead:        cfg.Parsing.Lookahead,
		InstructionVerbs: cfg.Parsing.InstructionVerbs,
	}
	if len(cfg.Parsing.Sections) > 0 {
		parseOpts.Sections = overrideSections(docparse.DefaultSections, cfg.Parsing.Sections)
	}
	parser, err := docparse.New(parseOpts)
	if err != nil {
		return Components{}, fmt.Errorf("parser: %w", err)
	}

	vocab, err := exercise.ParseVocabulary(cfg.Difficulty.Vocabulary)
	if err != nil {
		return Components{}, err
	}

	return Components{
		Normalizer: normalizer,
		Scorer:     scorer,
		Parser:     parser,
		Matcher:    matcher.New(scorer, policy),
		Mapper:     fieldmap.Mapper{Vocabulary: vocab},
	}, nil
}

// overrideSections replaces the pattern of each configured section, keeping
// the table order.
func overrideSections(table []docparse.SectionKeyword, overrides map[string]string) []docparse.SectionKeyword {
	out := make([]docparse.SectionKeyword, len(table))
	copy(out, table)
	for i, kw := range out {
		if pattern, ok := overrides[string(kw.Section)]; ok {
			out[i].Pattern = pattern
		}
	}
	return out
}
