package matcher

import (
	"fmt"
	"strings"
)

// RegionPolicy controls how a query region restricts the candidate set.
type RegionPolicy string

const (
	// RegionOff ignores regions entirely.
	RegionOff RegionPolicy = "off"
	// RegionStrict only considers candidates in the query region.
	RegionStrict RegionPolicy = "strict"
	// RegionPreferred tries the query region first and falls back to every
	// candidate when nothing in the region clears the threshold.
	RegionPreferred RegionPolicy = "preferred"
)

// ParseRegionPolicy validates a policy name. Empty means preferred.
func ParseRegionPolicy(value string) (RegionPolicy, error) {
	switch p := RegionPolicy(strings.ToLower(strings.TrimSpace(value))); p {
	case "":
		return RegionPreferred, nil
	case RegionOff, RegionStrict, RegionPreferred:
		return p, nil
	}
	return "", fmt.Errorf("unknown region policy %q", value)
}

const (
	DefaultThreshold    = 0.7
	DefaultExactBand    = 0.85
	DefaultKeywordsBand = 0.70
	// PartialOrdinalScore is awarded when an integer ordinal and a numbered
	// sub-variant share their base ("10" against "10.2", either way round).
	PartialOrdinalScore = 0.95
)

// Policy holds the tunable parameters of one matching pass.
type Policy struct {
	Threshold    float64
	ExactBand    float64
	KeywordsBand float64
	Region       RegionPolicy
	// MissingRegionPasses lets candidates without a region through the
	// region filter.
	MissingRegionPasses bool
	// Ordinals enables the numeric fast path.
	Ordinals bool
}

// DefaultPolicy returns the default bands with a preferred region policy.
func DefaultPolicy() Policy {
	return Policy{
		Threshold:           DefaultThreshold,
		ExactBand:           DefaultExactBand,
		KeywordsBand:        DefaultKeywordsBand,
		Region:              RegionPreferred,
		MissingRegionPasses: true,
		Ordinals:            true,
	}
}

// Validate checks that thresholds are in range and the bands are ordered.
func (p Policy) Validate() error {
	for name, v := range map[string]float64{
		"threshold":     p.Threshold,
		"exact_band":    p.ExactBand,
		"keywords_band": p.KeywordsBand,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("%s must be within [0,1], got %v", name, v)
		}
	}
	if p.KeywordsBand > p.ExactBand {
		return fmt.Errorf("keywords_band (%v) must not exceed exact_band (%v)", p.KeywordsBand, p.ExactBand)
	}
	if _, err := ParseRegionPolicy(string(p.Region)); err != nil {
		return err
	}
	return nil
}

// Method names the tier that produced a match.
type Method string

const (
	MethodExact      Method = "exact"
	MethodPartial    Method = "partial"
	MethodKeywords   Method = "keywords"
	MethodSimilarity Method = "similarity"
	MethodNone       Method = "none"
)

// Confidence buckets a score for review.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
	ConfidenceNone   Confidence = "none"
)

// ConfidenceFor maps a score onto the review buckets.
func ConfidenceFor(score float64) Confidence {
	switch {
	case score >= 0.90:
		return ConfidenceHigh
	case score >= 0.70:
		return ConfidenceMedium
	case score >= 0.50:
		return ConfidenceLow
	default:
		return ConfidenceNone
	}
}

// ParseConfidence validates a confidence bucket name.
func ParseConfidence(value string) (Confidence, error) {
	switch c := Confidence(strings.ToLower(strings.TrimSpace(value))); c {
	case ConfidenceHigh, ConfidenceMedium, ConfidenceLow, ConfidenceNone:
		return c, nil
	}
	return "", fmt.Errorf("unknown confidence %q", value)
}

// AtLeast reports whether c is at or above other.
func (c Confidence) AtLeast(other Confidence) bool {
	return confidenceRank[c] >= confidenceRank[other]
}

var confidenceRank = map[Confidence]int{
	ConfidenceNone:   0,
	ConfidenceLow:    1,
	ConfidenceMedium: 2,
	ConfidenceHigh:   3,
}

func (p Policy) method(score float64) Method {
	switch {
	case score >= p.ExactBand:
		return MethodExact
	case score >= p.KeywordsBand:
		return MethodKeywords
	default:
		return MethodSimilarity
	}
}
