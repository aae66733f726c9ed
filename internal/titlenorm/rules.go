package titlenorm

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

//go:embed rules.yaml
var defaultRulesYAML []byte

// Rule is one ordered (pattern, replacement) correction.
type Rule struct {
	Pattern string `yaml:"pattern"`
	Replace string `yaml:"replace"`

	re *regexp.Regexp
}

// RuleSet is a versioned, ordered rule table.
type RuleSet struct {
	Version int    `yaml:"version"`
	Rules   []Rule `yaml:"rules"`
}

// ErrEmptyPattern is returned when a rule has no pattern.
var ErrEmptyPattern = errors.New("rule pattern is empty")

// DefaultRules returns the embedded rule table, compiled.
func DefaultRules() RuleSet {
	set, err := parseRules(defaultRulesYAML)
	if err != nil {
		// The embedded table is covered by tests.
		panic(fmt.Sprintf("titlenorm: embedded rules: %v", err))
	}
	return set
}

// LoadRules decodes and compiles a YAML rule table.
func LoadRules(r io.Reader) (RuleSet, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return RuleSet{}, fmt.Errorf("read rules: %w", err)
	}
	return parseRules(data)
}

// LoadRulesFile reads a rule table from disk.
func LoadRulesFile(path string) (RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RuleSet{}, fmt.Errorf("read rules file: %w", err)
	}
	set, err := parseRules(data)
	if err != nil {
		return RuleSet{}, fmt.Errorf("%s: %w", path, err)
	}
	return set, nil
}

func parseRules(data []byte) (RuleSet, error) {
	var set RuleSet
	if err := yaml.Unmarshal(data, &set); err != nil {
		return RuleSet{}, fmt.Errorf("parse rules: %w", err)
	}
	if err := set.compile(); err != nil {
		return RuleSet{}, err
	}
	return set, nil
}

func (s *RuleSet) compile() error {
	for i := range s.Rules {
		if s.Rules[i].Pattern == "" {
			return fmt.Errorf("rule %d: %w", i+1, ErrEmptyPattern)
		}
		re, err := regexp.Compile(s.Rules[i].Pattern)
		if err != nil {
			return fmt.Errorf("rule %d %q: %w", i+1, s.Rules[i].Pattern, err)
		}
		s.Rules[i].re = re
	}
	return nil
}

// Extend returns a new set with extra rules appended after the receiver's.
// The version of the receiver is kept.
func (s RuleSet) Extend(extra RuleSet) RuleSet {
	out := RuleSet{Version: s.Version}
	out.Rules = make([]Rule, 0, len(s.Rules)+len(extra.Rules))
	out.Rules = append(out.Rules, s.Rules...)
	out.Rules = append(out.Rules, extra.Rules...)
	return out
}

func (s RuleSet) apply(value string) string {
	for _, rule := range s.Rules {
		if rule.re == nil {
			continue
		}
		value = rule.applyRepeated(value)
	}
	return value
}

// applyRepeated rewrites until the rule stops matching, so nested forms such
// as "bosu souple souple" collapse in one call. The loop is bounded by the
// input length for rules whose replacement keeps matching.
func (r Rule) applyRepeated(value string) string {
	for range len(value) + 1 {
		next := r.re.ReplaceAllString(value, r.Replace)
		if next == value {
			break
		}
		value = next
	}
	return value
}
