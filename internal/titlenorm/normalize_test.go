package titlenorm

import (
	"errors"
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"whitespace", "   \t ", ""},
		{"trailing code", "Crunch au sol F", "crunch sol"},
		{"ordinal and accents", "10.1 Développé couché haltères", "developpe couche haltere"},
		{"ordinal with dot", "47. Pompes", "pompe"},
		{"equipment synonym", "Squat avec Kettle Bell", "squat kettlebell"},
		{"elided article", "Fente arrière d'haltère", "fente arriere haltere"},
		{"counted limbs", "Pont fessier 2 pieds", "pont fessier pied"},
		{"medecine ball", "Lancer de Médecine Ball", "lancer medecinball"},
		{"punctuation", "Gainage (planche) - bras tendus!", "gainage planche bras tendus"},
		{"keeps plus", "Squat + jump", "squat + jump"},
		{"does not eat sets", "3x15 squats", "3x15 squats"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

var idempotenceCorpus = []string{
	"", "x", "f", "10", "10.", "Le 10 squat", "d' l' ", "Œuf de Pâques",
	"Crunch-F", "Crunch au sol F", "3x15", "Squat sumo avec KB h",
	"12.3 Soulevé de terre jambes tendues", "Pompes sur les genoux",
	"DV couché haltères sur Swiss ball", "Step up sur banc x",
	"1 2 3 4 5 6 7 8 9 10 squat", "Flament rose sur 1 jambe",
	"l’élastique à la main", "Hip trust au sol – 2 jambes",
	"Tapis Airex : équilibre", "__**Gainage**__",
	"Squat bosu" + strings.Repeat(" souple", 20),
	"Gainage" + strings.Repeat(" face", 20) + strings.Repeat(" souple", 20),
	"Fente bou" + strings.Repeat(" dure", 30) + " f",
	"deux 2 1 pieds" + strings.Repeat(" 2 jambes", 10),
}

func TestNormalizeIdempotent(t *testing.T) {
	for _, raw := range idempotenceCorpus {
		once := Normalize(raw)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q then %q", raw, once, twice)
		}
		if strings.TrimSpace(once) != once || strings.Contains(once, "  ") {
			t.Errorf("Normalize(%q) = %q has stray whitespace", raw, once)
		}
	}
}

func TestNormalizeCollapsesNestedRules(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Squat bosu" + strings.Repeat(" souple", 20), "squat bosu"},
		{"Gainage" + strings.Repeat(" face", 20) + strings.Repeat(" souple", 20), "gainage"},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func FuzzNormalizeIdempotent(f *testing.F) {
	for _, raw := range idempotenceCorpus {
		f.Add(raw)
	}
	f.Fuzz(func(t *testing.T, raw string) {
		once := Normalize(raw)
		if twice := Normalize(once); twice != once {
			t.Fatalf("Normalize not idempotent for %q: %q then %q", raw, once, twice)
		}
	})
}

func TestNormalizerOptions(t *testing.T) {
	n := New(Options{StopWords: []string{"sol"}})
	if got := n.Normalize("Crunch au sol"); got != "crunch au" {
		t.Fatalf("custom stop words: got %q", got)
	}

	rules, err := LoadRules(strings.NewReader("version: 1\nrules:\n  - { pattern: 'crunch', replace: 'abdo' }\n"))
	if err != nil {
		t.Fatalf("LoadRules: %v", err)
	}
	n = New(Options{Rules: &rules})
	if got := n.Normalize("Crunch au sol"); got != "abdo sol" {
		t.Fatalf("custom rules: got %q", got)
	}
}

func TestLoadRulesErrors(t *testing.T) {
	_, err := LoadRules(strings.NewReader("version: 1\nrules:\n  - { pattern: '', replace: 'x' }\n"))
	if !errors.Is(err, ErrEmptyPattern) {
		t.Fatalf("expected ErrEmptyPattern, got %v", err)
	}
	if _, err := LoadRules(strings.NewReader("version: 1\nrules:\n  - { pattern: '(', replace: 'x' }\n")); err == nil {
		t.Fatal("expected compile error")
	}
	if _, err := LoadRulesFile("/nonexistent/rules.yaml"); err == nil {
		t.Fatal("expected read error")
	}
}

func TestDefaultRulesOrderPreserved(t *testing.T) {
	rules := DefaultRules()
	if rules.Version == 0 || len(rules.Rules) == 0 {
		t.Fatalf("embedded rules empty: %+v", rules)
	}
	extra := RuleSet{Version: 9, Rules: []Rule{{Pattern: "zzz", Replace: "y"}}}
	if err := extra.compile(); err != nil {
		t.Fatalf("compile: %v", err)
	}
	merged := rules.Extend(extra)
	if merged.Version != rules.Version {
		t.Fatalf("Extend changed version to %d", merged.Version)
	}
	if last := merged.Rules[len(merged.Rules)-1]; last.Pattern != "zzz" {
		t.Fatalf("extra rule not appended last: %q", last.Pattern)
	}
}

func TestExtractOrdinal(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"10.1 Squat", "10.1", true},
		{"47. Pompes", "47", true},
		{"12-fente-avant", "12", true},
		{"14", "14", true},
		{"Squat", "", false},
		{"3x15 squats", "", false},
	}
	for _, tt := range tests {
		got, ok := ExtractOrdinal(tt.in)
		if ok != tt.ok {
			t.Fatalf("ExtractOrdinal(%q) ok = %v, want %v", tt.in, ok, tt.ok)
		}
		if ok && got.String() != tt.want {
			t.Fatalf("ExtractOrdinal(%q) = %q, want %q", tt.in, got.String(), tt.want)
		}
	}
	if got := StripOrdinal("47. Pompes"); got != "Pompes" {
		t.Fatalf("StripOrdinal = %q", got)
	}
}

func TestStripAccents(t *testing.T) {
	if got := StripAccents("élévation à genoux"); got != "elevation a genoux" {
		t.Fatalf("StripAccents = %q", got)
	}
}
