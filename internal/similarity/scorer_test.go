package similarity

import (
	"math"
	"testing"
)

var titles = []string{
	"Crunch au sol",
	"Crunch au sol F",
	"Crunch au sol jambes levées",
	"Développé couché barre",
	"DV couché haltères",
	"Étirement du mollet",
	"Fente avant",
	"Fente arrière avec haltères",
	"Pont fessier 2 pieds",
	"Pont fessier 1 pied",
	"Squat sumo kettlebell",
	"Squat",
	"",
	"de la",
}

func TestScoreSymmetric(t *testing.T) {
	s := New(DefaultOptions())
	for _, a := range titles {
		for _, b := range titles {
			ab := s.Score(a, b)
			ba := s.Score(b, a)
			if ab != ba {
				t.Errorf("Score(%q, %q) = %v but Score(%q, %q) = %v", a, b, ab, b, a, ba)
			}
			if ab < 0 || ab > 1 {
				t.Errorf("Score(%q, %q) = %v out of range", a, b, ab)
			}
		}
	}
}

func FuzzScoreSymmetric(f *testing.F) {
	for i, a := range titles {
		f.Add(a, titles[(i+1)%len(titles)])
	}
	f.Add("Squat bosu souple souple", "squat bosu")
	s := New(DefaultOptions())
	f.Fuzz(func(t *testing.T, a, b string) {
		ab := s.Score(a, b)
		if ba := s.Score(b, a); ab != ba {
			t.Fatalf("Score(%q, %q) = %v but reversed = %v", a, b, ab, ba)
		}
		if ab < 0 || ab > 1 {
			t.Fatalf("Score(%q, %q) = %v out of range", a, b, ab)
		}
	})
}

func TestScoreIdentity(t *testing.T) {
	s := New(DefaultOptions())
	for _, title := range titles {
		if s.Normalizer().Normalize(title) == "" {
			continue
		}
		if got := s.Score(title, title); got != 1 {
			t.Errorf("Score(%q, itself) = %v, want 1", title, got)
		}
	}
}

func TestScoreContainment(t *testing.T) {
	s := New(DefaultOptions())
	if got := s.Score("Squat", "Squat sumo kettlebell"); got < ContainmentScore {
		t.Fatalf("containment score = %v, want >= %v", got, ContainmentScore)
	}
	if got := s.Score("Crunch au sol F", "Crunch au sol"); got != 1 {
		t.Fatalf("code suffix should not matter, got %v", got)
	}
}

func TestScoreUnrelated(t *testing.T) {
	s := New(DefaultOptions())
	if got := s.Score("Développé couché barre", "Étirement du mollet"); got >= 0.5 {
		t.Fatalf("unrelated titles scored %v", got)
	}
}

func TestScoreEmpty(t *testing.T) {
	s := New(DefaultOptions())
	b := s.Breakdown("", "Squat")
	if b.Containment != 0 || b.Keywords != 0 || b.Levenshtein != 0 || b.Score != 0 {
		t.Fatalf("empty breakdown = %+v", b)
	}
	if got := s.Score("", ""); got != 0 {
		t.Fatalf("Score(empty, empty) = %v", got)
	}
}

func TestKeywordOverlap(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical", "fente avant", "fente avant", 1},
		{"half", "fente avant", "fente arriere", 0.5},
		{"substring tokens", "pont fessier", "pont fessiers", 1},
		{"short tokens ignored", "a b c", "a b c", 0},
		{"duplicates collapse", "squat squat", "squat", 1},
		{"many to one stays symmetric", "gainage gain", "gainage", 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := KeywordOverlap(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("KeywordOverlap(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
			if rev := KeywordOverlap(tt.b, tt.a); rev != got {
				t.Errorf("KeywordOverlap not symmetric: %v vs %v", got, rev)
			}
		})
	}
}

func TestLevenshteinRatio(t *testing.T) {
	if got := LevenshteinRatio("fente avant", "fente arriere"); math.Abs(got-(1-6.0/13.0)) > 1e-9 {
		t.Fatalf("LevenshteinRatio = %v", got)
	}
	if got := LevenshteinRatio("", ""); got != 0 {
		t.Fatalf("LevenshteinRatio(empty) = %v", got)
	}
}

func TestOptionsSelectSubScores(t *testing.T) {
	s := New(Options{Containment: true})
	b := s.Breakdown("Fente avant", "Fente arrière")
	if b.Keywords != 0 || b.Levenshtein != 0 {
		t.Fatalf("disabled sub-scores computed: %+v", b)
	}
	if b.Score != 0 {
		t.Fatalf("containment-only score = %v", b.Score)
	}

	jw := New(Options{JaroWinkler: true})
	if got := jw.Score("Squat", "Squat"); got != 1 {
		t.Fatalf("JaroWinkler identity = %v", got)
	}
}
