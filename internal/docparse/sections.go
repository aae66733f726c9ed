package docparse

import (
	"fmt"
	"regexp"
)

// Section names a labeled field of an exercise record.
type Section string

const (
	SectionNone        Section = ""
	SectionMuscles     Section = "muscles"
	SectionPosition    Section = "position"
	SectionMovement    Section = "movement"
	SectionIntensity   Section = "intensity"
	SectionSeries      Section = "series"
	SectionConstraints Section = "constraints"
	SectionTheme       Section = "theme"
)

// SectionKeyword maps a header keyword pattern onto a section. Pattern is an
// RE2 fragment matched case-insensitively at the start of a line. The rest of
// the line, after an optional ":", ".", or dash, is the inline value.
type SectionKeyword struct {
	Section Section `toml:"section" yaml:"section"`
	Pattern string  `toml:"pattern" yaml:"pattern"`
}

// DefaultSections is the header table of the coaching documents.
var DefaultSections = []SectionKeyword{
	{SectionMuscles, `muscles?\s+cibl[ée]e?s?`},
	{SectionPosition, `positions?\s+(?:de\s+)?d[ée]part`},
	{SectionMovement, `mouvements?`},
	{SectionIntensity, `intensit[ée]s?`},
	{SectionSeries, `s[ée]ries?`},
	{SectionConstraints, `contre\s*-?\s*indications?`},
	{SectionTheme, `th[èée]mes?`},
}

// DefaultInstructionVerbs start instruction lines, which are never titles.
var DefaultInstructionVerbs = []string{
	"tenir", "tenez", "tiens",
	"inspirer", "inspirez", "inspire",
	"expirer", "expirez", "expire",
	"monter", "montez", "monte",
	"descendre", "descendez", "descends",
	"garder", "gardez", "garde",
	"revenir", "revenez", "reviens",
	"relever", "relevez", "releve",
	"pousser", "poussez", "pousse",
	"tirer", "tirez", "tire",
	"flechir", "flechissez", "flechis",
	"tendre", "tendez", "tends",
	"maintenir", "maintenez", "maintiens",
	"contracter", "contractez", "contracte",
	"ramener", "ramenez", "ramene",
	"effectuer", "effectuez", "effectue",
	"realiser", "realisez", "realise",
	"repeter", "repetez", "repete",
	"placer", "placez", "place",
	"lever", "levez", "leve",
	"baisser", "baissez", "baisse",
	"rester", "restez", "reste",
	"alterner", "alternez", "alterne",
}

// DefaultTitleMarkers are the folded phrases whose presence below a line
// marks that line as an exercise title.
var DefaultTitleMarkers = []string{"muscle cible", "muscles cible"}

type sectionMatcher struct {
	section Section
	re      *regexp.Regexp
}

func compileSections(table []SectionKeyword) ([]sectionMatcher, error) {
	out := make([]sectionMatcher, 0, len(table))
	for _, kw := range table {
		if kw.Pattern == "" {
			return nil, fmt.Errorf("section %q: empty pattern", kw.Section)
		}
		re, err := regexp.Compile(`(?i)^(?:` + kw.Pattern + `)(?:\s*[:.\-–—]\s*|\s+|$)(.*)$`)
		if err != nil {
			return nil, fmt.Errorf("section %q: %w", kw.Section, err)
		}
		out = append(out, sectionMatcher{section: kw.Section, re: re})
	}
	return out, nil
}

func matchSection(matchers []sectionMatcher, line string) (Section, string, bool) {
	for _, m := range matchers {
		if sub := m.re.FindStringSubmatch(line); sub != nil {
			return m.section, trimValue(sub[1]), true
		}
	}
	return SectionNone, "", false
}
