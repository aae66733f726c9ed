package matcher

import (
	"strings"

	"exomatch/internal/exercise"
	"exomatch/internal/similarity"
)

// Query is one title to place in the catalog.
type Query struct {
	Title   string
	Ordinal string
	Region  string
}

// Result is the outcome of one Find. Candidate is nil when nothing cleared
// the threshold, in which case Method is MethodNone.
type Result struct {
	Candidate *exercise.Record
	Index     int
	Score     float64
	Method    Method
	// RegionFallback is set when the winner came from outside the query
	// region under RegionPreferred.
	RegionFallback bool
	Breakdown      similarity.Breakdown
}

// Matched reports whether a candidate was selected.
func (r Result) Matched() bool {
	return r.Candidate != nil
}

// Confidence buckets the result score. Unmatched results have no confidence.
func (r Result) Confidence() Confidence {
	if !r.Matched() {
		return ConfidenceNone
	}
	return ConfidenceFor(r.Score)
}

func noMatch() Result {
	return Result{Index: -1, Method: MethodNone}
}

// Matcher applies a Policy with a Scorer.
type Matcher struct {
	scorer *similarity.Scorer
	policy Policy
}

// New builds a Matcher. A nil scorer uses the default similarity options.
func New(scorer *similarity.Scorer, policy Policy) *Matcher {
	if scorer == nil {
		scorer = similarity.New(similarity.DefaultOptions())
	}
	return &Matcher{scorer: scorer, policy: policy}
}

// Policy returns the matching policy.
func (m *Matcher) Policy() Policy {
	return m.policy
}

// Index holds candidates with their precomputed normalized titles.
type Index struct {
	m        *Matcher
	records  []exercise.Record
	keys     []string
	ordinals []exercise.Ordinal
	hasOrd   []bool
}

// Index normalizes candidates once for repeated lookups. Candidate order is
// kept and decides ties.
func (m *Matcher) Index(candidates []exercise.Record) *Index {
	idx := &Index{
		m:        m,
		records:  candidates,
		keys:     make([]string, len(candidates)),
		ordinals: make([]exercise.Ordinal, len(candidates)),
		hasOrd:   make([]bool, len(candidates)),
	}
	norm := m.scorer.Normalizer()
	for i, c := range candidates {
		idx.keys[i] = norm.Normalize(c.Title)
		idx.ordinals[i], idx.hasOrd[i] = exercise.ParseOrdinal(c.Ordinal)
	}
	return idx
}

// Len returns the number of candidates.
func (idx *Index) Len() int {
	return len(idx.records)
}

// Find matches q against candidates.
func (m *Matcher) Find(q Query, candidates []exercise.Record) Result {
	return m.Index(candidates).Find(q)
}

// Find returns the best candidate for q under the matcher policy.
func (idx *Index) Find(q Query) Result {
	p := idx.m.policy
	region := strings.TrimSpace(q.Region)
	if p.Region == RegionOff || region == "" {
		return idx.search(q, nil)
	}
	inRegion := func(i int) bool {
		candidate := strings.TrimSpace(idx.records[i].Region)
		if candidate == "" {
			return p.MissingRegionPasses
		}
		return strings.EqualFold(candidate, region)
	}
	res := idx.search(q, inRegion)
	if res.Matched() || p.Region == RegionStrict {
		return res
	}
	res = idx.search(q, nil)
	res.RegionFallback = res.Matched()
	return res
}

func (idx *Index) search(q Query, allow func(int) bool) Result {
	if idx.m.policy.Ordinals {
		if res, ok := idx.searchOrdinal(q, allow); ok {
			return res
		}
	}
	return idx.searchTitle(q, allow)
}

func (idx *Index) searchOrdinal(q Query, allow func(int) bool) (Result, bool) {
	want, ok := exercise.ParseOrdinal(q.Ordinal)
	if !ok {
		return Result{}, false
	}
	partial := -1
	for i := range idx.records {
		if !idx.hasOrd[i] || (allow != nil && !allow(i)) {
			continue
		}
		got := idx.ordinals[i]
		if got == want {
			return idx.result(i, 1, MethodExact, similarity.Breakdown{}), true
		}
		if partial < 0 && got.Major == want.Major && want.HasMinor != got.HasMinor {
			partial = i
		}
	}
	if partial >= 0 && PartialOrdinalScore >= idx.m.policy.Threshold {
		return idx.result(partial, PartialOrdinalScore, MethodPartial, similarity.Breakdown{}), true
	}
	return Result{}, false
}

func (idx *Index) searchTitle(q Query, allow func(int) bool) Result {
	scorer := idx.m.scorer
	key := scorer.Normalizer().Normalize(q.Title)
	best := -1
	var bestBreakdown similarity.Breakdown
	for i := range idx.records {
		if allow != nil && !allow(i) {
			continue
		}
		b := scorer.BreakdownNormalized(key, idx.keys[i])
		if best < 0 || b.Score > bestBreakdown.Score {
			best = i
			bestBreakdown = b
		}
	}
	if best < 0 || bestBreakdown.Score <= 0 || bestBreakdown.Score < idx.m.policy.Threshold {
		return noMatch()
	}
	return idx.result(best, bestBreakdown.Score, idx.m.policy.method(bestBreakdown.Score), bestBreakdown)
}

func (idx *Index) result(i int, score float64, method Method, b similarity.Breakdown) Result {
	rec := idx.records[i]
	return Result{
		Candidate: &rec,
		Index:     i,
		Score:     score,
		Method:    method,
		Breakdown: b,
	}
}

// FindBestMatch matches a raw title with the default scorer and bands. An
// empty region disables region filtering; otherwise the region is strict and
// candidates without a region pass.
func FindBestMatch(query string, candidates []exercise.Record, threshold float64, region string) Result {
	p := DefaultPolicy()
	p.Threshold = threshold
	p.Region = RegionStrict
	return New(nil, p).Find(Query{Title: query, Region: region}, candidates)
}
