package titlenorm

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"exomatch/internal/exercise"
)

// DefaultStopWords are the French function words dropped before comparison.
var DefaultStopWords = []string{
	"le", "la", "les", "l",
	"un", "une",
	"des", "du", "de", "d",
	"et", "ou",
	"avec", "sur", "au", "aux", "en", "a",
}

// DefaultCodeSuffixes are the single-letter annotation codes stripped from the end of a title.
var DefaultCodeSuffixes = []string{"f", "h", "x"}

// minPasses is the pass budget for short inputs. Longer inputs get one more
// pass per byte, since every pass that changes a key either drops text or
// rewrites it into a rule's fixed form.
const minPasses = 16

var (
	leadingOrdinal = regexp.MustCompile(`^(?:\d+(?:\.\d+)?(?:\.\s*|\s+|$))+`)
	ordinalPrefix  = regexp.MustCompile(`^\s*(\d+(?:\.\d+)?)(?:\.?[\s_\-]+|\.?$)`)
	whitespace     = regexp.MustCompile(`\s+`)
)

// Options configures a Normalizer. Zero values fall back to the defaults.
type Options struct {
	Rules        *RuleSet
	StopWords    []string
	CodeSuffixes []string
}

// Normalizer turns raw titles into comparison keys.
type Normalizer struct {
	rules    RuleSet
	stop     map[string]struct{}
	suffixes map[string]struct{}
}

// New builds a Normalizer from opts.
func New(opts Options) *Normalizer {
	rules := DefaultRules()
	if opts.Rules != nil {
		rules = *opts.Rules
	}
	stopWords := opts.StopWords
	if len(stopWords) == 0 {
		stopWords = DefaultStopWords
	}
	codes := opts.CodeSuffixes
	if len(codes) == 0 {
		codes = DefaultCodeSuffixes
	}
	return &Normalizer{
		rules:    rules,
		stop:     toSet(stopWords),
		suffixes: toSet(codes),
	}
}

var defaultNormalizer = New(Options{})

// Default returns the shared normalizer built from the embedded tables.
func Default() *Normalizer {
	return defaultNormalizer
}

// Normalize is shorthand for Default().Normalize.
func Normalize(raw string) string {
	return defaultNormalizer.Normalize(raw)
}

// Normalize returns the comparison key for raw. It never fails and is
// idempotent: the pass is repeated until its output stops changing.
func (n *Normalizer) Normalize(raw string) string {
	current := n.pass(raw)
	for i := 1; i < minPasses+len(raw); i++ {
		next := n.pass(current)
		if next == current {
			break
		}
		current = next
	}
	return current
}

func (n *Normalizer) pass(raw string) string {
	value := strings.TrimSpace(strings.ToLower(raw))
	if value == "" {
		return ""
	}
	value = StripAccents(value)
	value = n.stripCodeSuffix(value)
	value = leadingOrdinal.ReplaceAllString(value, "")
	value = n.dropStopWords(value)
	value = n.rules.apply(value)
	return cleanup(value)
}

// StripAccents removes combining marks after canonical decomposition.
func StripAccents(value string) string {
	chain := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(chain, value)
	if err != nil {
		return value
	}
	return out
}

func (n *Normalizer) stripCodeSuffix(value string) string {
	for {
		trimmed := strings.TrimRightFunc(value, unicode.IsSpace)
		idx := strings.LastIndexFunc(trimmed, unicode.IsSpace)
		if idx < 0 {
			return trimmed
		}
		if _, ok := n.suffixes[trimmed[idx+1:]]; !ok {
			return trimmed
		}
		value = trimmed[:idx]
	}
}

func (n *Normalizer) dropStopWords(value string) string {
	fields := strings.Fields(value)
	kept := fields[:0]
	for _, field := range fields {
		field = stripElision(field)
		if field == "" {
			continue
		}
		if _, stop := n.stop[field]; stop {
			continue
		}
		kept = append(kept, field)
	}
	return strings.Join(kept, " ")
}

// stripElision turns "d'haltere" or "l’elastique" into the bare word.
func stripElision(token string) string {
	for _, apostrophe := range []string{"'", "’"} {
		if idx := strings.Index(token, apostrophe); idx > 0 && idx <= 2 {
			head := token[:idx]
			if head == "d" || head == "l" || head == "qu" {
				return token[idx+len(apostrophe):]
			}
		}
	}
	return token
}

func cleanup(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	for _, r := range value {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '+':
			b.WriteRune(r)
		default:
			b.WriteByte(' ')
		}
	}
	return strings.TrimSpace(whitespace.ReplaceAllString(b.String(), " "))
}

// ExtractOrdinal returns the leading numeric label of a title or filename.
func ExtractOrdinal(raw string) (exercise.Ordinal, bool) {
	match := ordinalPrefix.FindStringSubmatch(raw)
	if match == nil {
		return exercise.Ordinal{}, false
	}
	return exercise.ParseOrdinal(match[1])
}

// StripOrdinal removes the leading numeric label, keeping the rest verbatim.
func StripOrdinal(raw string) string {
	loc := ordinalPrefix.FindStringIndex(raw)
	if loc == nil {
		return strings.TrimSpace(raw)
	}
	return strings.TrimSpace(raw[loc[1]:])
}

// Tokens splits a normalized key into its words.
func Tokens(normalized string) []string {
	return strings.Fields(normalized)
}

func toSet(values []string) map[string]struct{} {
	out := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "" {
			out[v] = struct{}{}
		}
	}
	return out
}
