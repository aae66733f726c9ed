package exercise

import (
	"regexp"
	"strconv"
	"strings"
)

// Ordinal is the leading numeric label of a numbered exercise ("10", "10.1").
type Ordinal struct {
	Major    int
	Minor    int
	HasMinor bool
}

var ordinalPattern = regexp.MustCompile(`^(\d+)(?:\.(\d+))?\.?$`)

// ParseOrdinal parses "10", "10.", "10.1". It rejects anything else.
func ParseOrdinal(value string) (Ordinal, bool) {
	match := ordinalPattern.FindStringSubmatch(strings.TrimSpace(value))
	if match == nil {
		return Ordinal{}, false
	}
	major, err := strconv.Atoi(match[1])
	if err != nil {
		return Ordinal{}, false
	}
	ord := Ordinal{Major: major}
	if match[2] != "" {
		minor, err := strconv.Atoi(match[2])
		if err != nil {
			return Ordinal{}, false
		}
		ord.Minor = minor
		ord.HasMinor = true
	}
	return ord, true
}

// String renders the canonical form without a trailing dot.
func (o Ordinal) String() string {
	if o.HasMinor {
		return strconv.Itoa(o.Major) + "." + strconv.Itoa(o.Minor)
	}
	return strconv.Itoa(o.Major)
}

// IsInteger reports whether the ordinal has no sub-variant component.
func (o Ordinal) IsInteger() bool {
	return !o.HasMinor
}
