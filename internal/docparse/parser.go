package docparse

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"

	"exomatch/internal/exercise"
	"exomatch/internal/fieldmap"
	"exomatch/internal/titlenorm"
)

// DefaultLookahead is how many non-empty lines below a candidate title are
// searched for a title marker.
const DefaultLookahead = 3

// RegionResolver turns a heading or a source identifier into a region.
// It returns "" when nothing is known.
type RegionResolver func(value string) string

// Options configures a Parser. Zero values fall back to the defaults.
type Options struct {
	Sections         []SectionKeyword
	InstructionVerbs []string
	TitleMarkers     []string
	Lookahead        int
	// Region resolves markdown headings and source names. Nil uses
	// fieldmap.RegionFromFilename.
	Region RegionResolver
}

// Parser turns document text into records. It holds no per-document state
// and is safe for concurrent use.
type Parser struct {
	sections  []sectionMatcher
	verbs     map[string]struct{}
	markers   []string
	lookahead int
	region    RegionResolver
}

// New compiles opts into a Parser.
func New(opts Options) (*Parser, error) {
	table := opts.Sections
	if len(table) == 0 {
		table = DefaultSections
	}
	sections, err := compileSections(table)
	if err != nil {
		return nil, err
	}
	verbs := opts.InstructionVerbs
	if len(verbs) == 0 {
		verbs = DefaultInstructionVerbs
	}
	markers := opts.TitleMarkers
	if len(markers) == 0 {
		markers = DefaultTitleMarkers
	}
	lookahead := opts.Lookahead
	if lookahead <= 0 {
		lookahead = DefaultLookahead
	}
	region := opts.Region
	if region == nil {
		region = fieldmap.RegionFromFilename
	}
	p := &Parser{
		sections:  sections,
		verbs:     make(map[string]struct{}, len(verbs)),
		lookahead: lookahead,
		region:    region,
	}
	for _, v := range verbs {
		p.verbs[fold(v)] = struct{}{}
	}
	for _, m := range markers {
		p.markers = append(p.markers, fold(m))
	}
	return p, nil
}

// Default returns a parser built from the default tables.
func Default() *Parser {
	p, err := New(Options{})
	if err != nil {
		panic("docparse: default tables: " + err.Error())
	}
	return p
}

type line struct {
	text    string
	heading bool
	folded  string
}

var (
	headingPrefix = regexp.MustCompile(`^#{1,6}\s*`)
	bulletPrefix  = regexp.MustCompile(`^(?:[-*•▪◦]|\d+\))\s+`)
	emphasis      = strings.NewReplacer("**", "", "__", "")
	spaces        = regexp.MustCompile(`\s+`)
)

func splitLines(text string) []line {
	raw := strings.Split(norm.NFC.String(strings.ReplaceAll(text, "\r\n", "\n")), "\n")
	out := make([]line, 0, len(raw))
	for _, r := range raw {
		value := strings.TrimSpace(r)
		heading := headingPrefix.MatchString(value)
		value = headingPrefix.ReplaceAllString(value, "")
		value = emphasis.Replace(value)
		value = bulletPrefix.ReplaceAllString(strings.TrimSpace(value), "")
		value = strings.TrimSpace(spaces.ReplaceAllString(value, " "))
		if value == "" {
			continue
		}
		out = append(out, line{text: value, heading: heading, folded: fold(value)})
	}
	return out
}

func fold(value string) string {
	return titlenorm.StripAccents(strings.ToLower(strings.TrimSpace(value)))
}

func trimValue(value string) string {
	return strings.TrimSpace(value)
}

// Parse segments text into records. sourceID is copied into each record's
// Source and is also used to resolve a default region.
func (p *Parser) Parse(text, sourceID string) []exercise.Record {
	lines := splitLines(text)
	st := state{sourceRegion: p.region(sourceID), source: sourceID}

	for i, ln := range lines {
		if p.isTitle(lines, i) {
			st.startRecord(ln.text)
			continue
		}
		if section, inline, ok := matchSection(p.sections, ln.text); ok {
			if st.current == nil {
				continue
			}
			st.section = section
			if inline != "" {
				st.appendContent(inline)
			}
			continue
		}
		if ln.heading {
			if region := p.region(ln.text); region != "" {
				st.headingRegion = region
			}
			continue
		}
		if st.current == nil || st.section == SectionNone {
			continue
		}
		st.appendContent(ln.text)
	}
	st.finish()
	return st.out
}

// eligible reports whether a line could be a title on its own merits.
func (p *Parser) eligible(ln line) bool {
	if _, _, header := matchSection(p.sections, ln.text); header {
		return false
	}
	if p.hasMarker(ln) {
		return false
	}
	first := ln.folded
	if idx := strings.IndexAny(first, " ,.:;!"); idx >= 0 {
		first = first[:idx]
	}
	_, verb := p.verbs[first]
	return !verb
}

func (p *Parser) hasMarker(ln line) bool {
	for _, m := range p.markers {
		if strings.Contains(ln.folded, m) {
			return true
		}
	}
	return false
}

// isTitle applies the lookahead rule: a marker must follow within the window
// and no other eligible line may sit between the candidate and the marker.
func (p *Parser) isTitle(lines []line, i int) bool {
	if !p.eligible(lines[i]) {
		return false
	}
	for j := i + 1; j < len(lines) && j <= i+p.lookahead; j++ {
		if p.hasMarker(lines[j]) {
			return true
		}
		if p.eligible(lines[j]) {
			return false
		}
	}
	return false
}

type state struct {
	source        string
	sourceRegion  string
	headingRegion string
	current       *exercise.Record
	section       Section
	out           []exercise.Record
}

func (st *state) startRecord(title string) {
	st.finish()
	rec := exercise.Record{
		Title:  title,
		Source: st.source,
		Region: st.headingRegion,
	}
	if rec.Region == "" {
		rec.Region = st.sourceRegion
	}
	if ord, ok := titlenorm.ExtractOrdinal(title); ok {
		rec.Ordinal = ord.String()
	}
	st.current = &rec
	st.section = SectionNone
}

func (st *state) finish() {
	if st.current != nil && strings.TrimSpace(st.current.Title) != "" {
		st.out = append(st.out, *st.current)
	}
	st.current = nil
	st.section = SectionNone
}

func (st *state) appendContent(value string) {
	rec := st.current
	switch st.section {
	case SectionMuscles:
		rec.TargetedMuscles = append(rec.TargetedMuscles, splitMuscles(value)...)
	case SectionPosition:
		rec.StartingPosition = join(rec.StartingPosition, value)
	case SectionMovement:
		rec.Movement = join(rec.Movement, value)
	case SectionIntensity:
		rec.Intensity = join(rec.Intensity, value)
	case SectionSeries:
		rec.Series = join(rec.Series, value)
	case SectionConstraints:
		rec.Constraints = join(rec.Constraints, value)
	case SectionTheme:
		rec.Theme = join(rec.Theme, value)
	}
}

func join(existing, value string) string {
	if existing == "" {
		return value
	}
	return existing + " " + value
}

func splitMuscles(value string) []string {
	pieces := strings.FieldsFunc(value, func(r rune) bool { return r == ',' || r == ';' })
	out := make([]string, 0, len(pieces))
	for _, piece := range pieces {
		piece = strings.TrimSpace(strings.TrimRight(strings.TrimSpace(piece), "."))
		if piece == "" || fold(piece) == "muscle" {
			continue
		}
		out = append(out, piece)
	}
	return out
}
