package review_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"exomatch/internal/catalog"
	"exomatch/internal/matcher"
	"exomatch/internal/review"
)

func sampleReport() *review.Report {
	return &review.Report{
		RunID:     "0f8fad5b-d9cb-469f-a165-70867728950e",
		CreatedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		VideoType: "MUSCLE_GROUPS",
		Threshold: 0.7,
		Entries: []review.Entry{
			{VideoID: "v-low", Query: "Gainage", Matched: "Gainage latéral", Score: 0.55, Method: matcher.MethodSimilarity, Confidence: matcher.ConfidenceLow, Fields: catalog.Patch{catalog.FieldSeries: "3x30s"}},
			{VideoID: "v-none", Query: "Burpees", Method: matcher.MethodNone, Confidence: matcher.ConfidenceNone},
			{VideoID: "v-high", Query: "Crunch au sol F", Matched: "Crunch au sol", Score: 0.95, Method: matcher.MethodExact, Confidence: matcher.ConfidenceHigh, Fields: catalog.Patch{catalog.FieldDifficulty: "BEGINNER"}},
			{VideoID: "v-med", Query: "Rowing", Matched: "Rowing haltère", Score: 0.75, Method: matcher.MethodKeywords, Confidence: matcher.ConfidenceMedium, RegionFallback: true, Fields: catalog.Patch{catalog.FieldMovement: "Tirer"}},
			{VideoID: "v-empty", Query: "Pompes", Matched: "Pompes", Score: 1, Method: matcher.MethodExact, Confidence: matcher.ConfidenceHigh},
		},
	}
}

func TestParseDecision(t *testing.T) {
	tests := []struct {
		in   string
		want review.Decision
		err  bool
	}{
		{"OUI", review.DecisionApprove, false},
		{"yes", review.DecisionApprove, false},
		{" non ", review.DecisionReject, false},
		{"", review.DecisionPending, false},
		{"peut-etre", review.DecisionPending, true},
	}
	for _, tt := range tests {
		got, err := review.ParseDecision(tt.in)
		if (err != nil) != tt.err || got != tt.want {
			t.Errorf("ParseDecision(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestSummaryAndAutoApprove(t *testing.T) {
	r := sampleReport()
	r.AddError("extract", "broken.docx", errors.New("zip: not a valid zip file"))
	r.AddError("extract", "ignored", nil)

	if n := r.AutoApprove(matcher.ConfidenceMedium); n != 2 {
		t.Fatalf("auto-approved %d, want 2", n)
	}
	if n := r.AutoApprove(matcher.ConfidenceNone); n != 0 {
		t.Fatalf("none level approved %d", n)
	}

	s := r.Summary()
	if s.Total != 5 || s.Matched != 4 || s.NotMatched != 1 || s.Errors != 1 {
		t.Fatalf("summary = %+v", s)
	}
	if s.ByConfidence[matcher.ConfidenceHigh] != 2 || s.ByConfidence[matcher.ConfidenceLow] != 1 {
		t.Fatalf("by confidence = %v", s.ByConfidence)
	}
	if s.Approved != 2 || s.Pending != 2 {
		t.Fatalf("decisions = %+v", s)
	}

	approved := r.Approved()
	if len(approved) != 2 {
		t.Fatalf("approved = %+v", approved)
	}

	if err := r.SetDecision("v-high", review.DecisionReject); err != nil {
		t.Fatalf("SetDecision: %v", err)
	}
	if len(r.Approved()) != 1 {
		t.Fatal("rejected entry still approved")
	}
	if err := r.SetDecision("missing", review.DecisionApprove); !errors.Is(err, review.ErrUnknownEntry) {
		t.Fatalf("err = %v", err)
	}
}

func TestSortPutsMatchesFirst(t *testing.T) {
	r := sampleReport()
	r.Sort()
	var ids []string
	for _, e := range r.Entries {
		ids = append(ids, e.VideoID)
	}
	want := "v-empty,v-high,v-med,v-low,v-none"
	if strings.Join(ids, ",") != want {
		t.Fatalf("order = %v, want %s", ids, want)
	}
}

func TestWriteReadRoundTripWithEdits(t *testing.T) {
	dir := t.TempDir()
	r := sampleReport()
	path := filepath.Join(dir, review.FileName(r))
	if filepath.Base(path) != "report-20260301-100000-0f8fad5b.json" {
		t.Fatalf("file name = %s", filepath.Base(path))
	}
	if err := review.Write(path, r); err != nil {
		t.Fatalf("Write: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	edited := strings.Replace(string(data), `"decision": ""`, `"decision": "oui"`, 1)
	if err := os.WriteFile(path, []byte(edited), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := review.Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got.Entries[0].Decision != review.DecisionApprove {
		t.Fatalf("decision = %q", got.Entries[0].Decision)
	}
	if got.Entries[0].Fields[catalog.FieldSeries] != "3x30s" {
		t.Fatalf("fields = %v", got.Entries[0].Fields)
	}

	latest, err := review.Latest(dir)
	if err != nil || latest != path {
		t.Fatalf("Latest = %q, %v", latest, err)
	}
	if _, err := review.Latest(t.TempDir()); err == nil {
		t.Fatal("expected error for empty dir")
	}
}

func TestLatestOrdersBySameSecondCreation(t *testing.T) {
	dir := t.TempDir()
	older := sampleReport()
	older.RunID = "ffffffff-0000-0000-0000-000000000000"
	older.CreatedAt = time.Date(2026, 3, 1, 10, 0, 0, 100, time.UTC)
	newer := sampleReport()
	newer.RunID = "00000000-0000-0000-0000-000000000000"
	newer.CreatedAt = older.CreatedAt.Add(500 * time.Millisecond)

	newerPath := filepath.Join(dir, review.FileName(newer))
	for _, r := range []*review.Report{newer, older} {
		if err := review.Write(filepath.Join(dir, review.FileName(r)), r); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}
	if review.FileName(older) < review.FileName(newer) {
		t.Fatalf("fixture names should sort against creation order")
	}

	latest, err := review.Latest(dir)
	if err != nil || latest != newerPath {
		t.Fatalf("Latest = %q, %v; want %q", latest, err, newerPath)
	}
}

func TestReadRejectsUnknownField(t *testing.T) {
	path := filepath.Join(t.TempDir(), "r.json")
	body := `{"runId":"x","entries":[{"videoId":"v","query":"q","method":"exact","fields":{"title":"x"},"decision":"OUI"}]}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := review.Read(path); err == nil {
		t.Fatal("expected error for non-writable field")
	}
}

func TestRender(t *testing.T) {
	r := sampleReport()
	r.AddError("apply", "v-9", errors.New("database is locked"))
	var buf bytes.Buffer
	if err := review.Render(&buf, r, review.RenderOptions{}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"Crunch au sol",
		"0.95",
		"keywords*",
		"database is locked",
		"matched 4 / not matched 1 / errors 1",
		"confidence: high 2, medium 1, low 1",
		"* matched outside the query region",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Burpees") {
		t.Fatal("unmatched entry rendered without Unmatched option")
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatal("unexpected color codes")
	}

	buf.Reset()
	if err := review.Render(&buf, r, review.RenderOptions{Unmatched: true, Color: true}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(buf.String(), "Burpees") || !strings.Contains(buf.String(), "\x1b[") {
		t.Fatalf("expected unmatched rows and colors:\n%s", buf.String())
	}
}
