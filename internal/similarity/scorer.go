package similarity

import (
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"github.com/hbollon/go-edlib"

	"exomatch/internal/titlenorm"
)

const (
	// ContainmentScore is awarded when one normalized title contains the other.
	ContainmentScore = 0.9
	// MinKeywordLength is the shortest token that counts as a keyword.
	MinKeywordLength = 3
)

// Options selects which sub-scores contribute to Score.
type Options struct {
	Containment bool
	Keywords    bool
	Levenshtein bool
	JaroWinkler bool
	Normalizer  *titlenorm.Normalizer
}

// DefaultOptions enables containment, keywords and Levenshtein.
func DefaultOptions() Options {
	return Options{Containment: true, Keywords: true, Levenshtein: true}
}

// Breakdown reports every sub-score for one comparison.
type Breakdown struct {
	A           string  `json:"a"`
	B           string  `json:"b"`
	Containment float64 `json:"containment"`
	Keywords    float64 `json:"keywords"`
	Levenshtein float64 `json:"levenshtein"`
	JaroWinkler float64 `json:"jaroWinkler,omitempty"`
	Score       float64 `json:"score"`
}

// Scorer compares titles. It is safe for concurrent use.
type Scorer struct {
	opts Options
	norm *titlenorm.Normalizer
}

// New builds a Scorer. A nil normalizer falls back to titlenorm.Default.
func New(opts Options) *Scorer {
	n := opts.Normalizer
	if n == nil {
		n = titlenorm.Default()
	}
	return &Scorer{opts: opts, norm: n}
}

// Normalizer exposes the normalizer the scorer compares with.
func (s *Scorer) Normalizer() *titlenorm.Normalizer {
	return s.norm
}

// Score returns the similarity of two raw titles.
func (s *Scorer) Score(a, b string) float64 {
	return s.ScoreNormalized(s.norm.Normalize(a), s.norm.Normalize(b))
}

// ScoreNormalized compares two keys that were already normalized.
func (s *Scorer) ScoreNormalized(na, nb string) float64 {
	return s.breakdown(na, nb).Score
}

// BreakdownNormalized returns the sub-scores of two normalized keys.
func (s *Scorer) BreakdownNormalized(na, nb string) Breakdown {
	return s.breakdown(na, nb)
}

// Breakdown returns the sub-scores of two raw titles.
func (s *Scorer) Breakdown(a, b string) Breakdown {
	return s.breakdown(s.norm.Normalize(a), s.norm.Normalize(b))
}

func (s *Scorer) breakdown(na, nb string) Breakdown {
	out := Breakdown{A: na, B: nb}
	if s.opts.Containment {
		out.Containment = Containment(na, nb)
		out.Score = max(out.Score, out.Containment)
	}
	if s.opts.Keywords {
		out.Keywords = KeywordOverlap(na, nb)
		out.Score = max(out.Score, out.Keywords)
	}
	if s.opts.Levenshtein {
		out.Levenshtein = LevenshteinRatio(na, nb)
		out.Score = max(out.Score, out.Levenshtein)
	}
	if s.opts.JaroWinkler {
		out.JaroWinkler = JaroWinkler(na, nb)
		out.Score = max(out.Score, out.JaroWinkler)
	}
	return out
}

// Containment is 1 for identical keys, 0.9 when one contains the other, else 0.
func Containment(na, nb string) float64 {
	if na == "" || nb == "" {
		return 0
	}
	if na == nb {
		return 1
	}
	if strings.Contains(na, nb) || strings.Contains(nb, na) {
		return ContainmentScore
	}
	return 0
}

// KeywordOverlap is the share of discriminating tokens the two keys have in
// common. Tokens relate when one equals or contains the other. Matches are
// counted from both sides and the smaller count is used, so the score is
// symmetric.
func KeywordOverlap(na, nb string) float64 {
	ta := keywords(na)
	tb := keywords(nb)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}
	common := min(countRelated(ta, tb), countRelated(tb, ta))
	return float64(common) / float64(max(len(ta), len(tb)))
}

func keywords(normalized string) []string {
	fields := titlenorm.Tokens(normalized)
	seen := make(map[string]struct{}, len(fields))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if utf8.RuneCountInString(f) < MinKeywordLength {
			continue
		}
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}

func countRelated(from, to []string) int {
	n := 0
	for _, a := range from {
		for _, b := range to {
			if a == b || strings.Contains(a, b) || strings.Contains(b, a) {
				n++
				break
			}
		}
	}
	return n
}

// LevenshteinRatio is 1 - distance/maxLen, counted in runes.
func LevenshteinRatio(na, nb string) float64 {
	longest := max(utf8.RuneCountInString(na), utf8.RuneCountInString(nb))
	if longest == 0 || na == "" || nb == "" {
		return 0
	}
	dist := levenshtein.ComputeDistance(na, nb)
	return 1 - float64(dist)/float64(longest)
}

// JaroWinkler wraps edlib's Jaro-Winkler similarity.
func JaroWinkler(na, nb string) float64 {
	if na == "" || nb == "" {
		return 0
	}
	return float64(edlib.JaroWinklerSimilarity(na, nb))
}
