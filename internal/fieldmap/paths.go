package fieldmap

import (
	"path"
	"regexp"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"exomatch/internal/titlenorm"
)

// Key prefixes whose next segment names the body region.
var regionFolders = map[string]struct{}{
	"programmes-predefinis": {},
	"groupes-musculaires":   {},
}

// RegionFromPath returns the region folder of an object key such as
// "Video/groupes-musculaires/abdos/12. Crunch.mp4". Keys outside the known
// folders return "".
func RegionFromPath(key string) string {
	parts := strings.Split(strings.Trim(strings.ReplaceAll(key, "\\", "/"), "/"), "/")
	for i := 0; i+1 < len(parts); i++ {
		if _, ok := regionFolders[strings.ToLower(parts[i])]; !ok {
			continue
		}
		if i+1 == len(parts)-1 && path.Ext(parts[i+1]) != "" {
			return ""
		}
		return strings.ToLower(strings.TrimSpace(parts[i+1]))
	}
	return ""
}

var separators = regexp.MustCompile(`[-_]+`)

// TitleFromFilename builds a display title: extension and ordinal dropped,
// dashes and underscores turned into spaces, sentence case.
func TitleFromFilename(name string) string {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	if ext := path.Ext(base); len(ext) > 1 && len(ext) <= 5 && !strings.ContainsRune(ext, ' ') {
		base = strings.TrimSuffix(base, ext)
	}
	base = titlenorm.StripOrdinal(base)
	base = strings.Join(strings.Fields(separators.ReplaceAllString(base, " ")), " ")
	if base == "" {
		return ""
	}
	lower := cases.Lower(language.French).String(base)
	first, size := utf8.DecodeRuneInString(lower)
	return cases.Upper(language.French).String(string(first)) + lower[size:]
}

// OrdinalFromFilename returns the leading numeric label of a key's filename.
func OrdinalFromFilename(name string) string {
	ord, ok := titlenorm.ExtractOrdinal(path.Base(strings.ReplaceAll(name, "\\", "/")))
	if !ok {
		return ""
	}
	return ord.String()
}

// RegionFromFilename guesses the region of a document from its name. It only
// answers when the name points at exactly one region.
func RegionFromFilename(name string) string {
	if region := RegionFromPath(name); region != "" {
		return region
	}
	groups := MuscleGroupsFromTitle(TitleFromFilename(name))
	if len(groups) != 1 {
		return ""
	}
	return groups[0]
}

type regionKeyword struct {
	region   string
	words    []string
	prefixes []string
}

// Ordered so the output is stable.
var titleRegions = []regionKeyword{
	{region: "fessiers-jambes", prefixes: []string{"fessier", "jambe", "cuisse", "mollet", "ischio", "quadri"}},
	{region: "pectoraux", words: []string{"pec", "pecs"}, prefixes: []string{"pectora"}},
	{region: "dos", words: []string{"dos"}, prefixes: []string{"lombaire", "dorsa"}},
	{region: "abdos", prefixes: []string{"abdo", "gainage", "crunch"}},
	{region: "epaules", prefixes: []string{"epaule", "deltoide"}},
	{region: "triceps", prefixes: []string{"triceps"}},
	{region: "biceps", prefixes: []string{"biceps"}},
}

// MuscleGroupsFromTitle tags a title with the regions its words point at.
func MuscleGroupsFromTitle(title string) []string {
	tokens := strings.FieldsFunc(titlenorm.StripAccents(strings.ToLower(title)), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	var out []string
	for _, rk := range titleRegions {
		if rk.matches(tokens) {
			out = append(out, rk.region)
		}
	}
	return out
}

func (rk regionKeyword) matches(tokens []string) bool {
	for _, tok := range tokens {
		if slices.Contains(rk.words, tok) {
			return true
		}
		for _, p := range rk.prefixes {
			if strings.HasPrefix(tok, p) {
				return true
			}
		}
	}
	return false
}
