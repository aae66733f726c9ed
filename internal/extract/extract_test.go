package extract_test

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"exomatch/internal/extract"
	"exomatch/internal/testsupport"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		path string
		want extract.Format
		err  bool
	}{
		{"a/Dos.docx", extract.FormatDocx, false},
		{"a/Dos.DOCX", extract.FormatDocx, false},
		{"b.odt", extract.FormatODT, false},
		{"c.md", extract.FormatMarkdown, false},
		{"d.txt", extract.FormatText, false},
		{"e.htm", extract.FormatHTML, false},
		{"f.pdf", "", true},
		{"noext", "", true},
	}
	for _, tt := range tests {
		got, err := extract.Detect(tt.path)
		if tt.err {
			if !errors.Is(err, extract.ErrUnsupportedFormat) {
				t.Errorf("Detect(%q) err = %v, want ErrUnsupportedFormat", tt.path, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("Detect(%q) = %q, %v; want %q", tt.path, got, err, tt.want)
		}
	}
}

func TestExtractDocx(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Pectoraux.docx")
	testsupport.WriteDocx(t, path, testsupport.Lines(
		"# Pectoraux",
		"Pompes inclinées",
		"Muscles ciblés : Pectoraux, Triceps",
		"Séries & répétitions : 3x12",
	))

	doc, err := extract.New(extract.Options{}).Extract(context.Background(), path)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	want := "# Pectoraux\nPompes inclinées\nMuscles ciblés : Pectoraux, Triceps\nSéries & répétitions : 3x12\n"
	if doc.Text != want {
		t.Fatalf("text = %q, want %q", doc.Text, want)
	}
	if doc.Format != extract.FormatDocx {
		t.Fatalf("format = %q", doc.Format)
	}
}

func TestExtractODT(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Dos.odt")
	testsupport.WriteODT(t, path, []testsupport.Paragraph{
		{Text: "Dos", Level: 2},
		{Text: "Rowing haltère"},
		{Text: ""},
		{Text: "Intensité : débutant"},
	})

	doc, err := extract.New(extract.Options{}).Extract(context.Background(), path)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	want := "## Dos\nRowing haltère\nIntensité : débutant\n"
	if doc.Text != want {
		t.Fatalf("text = %q, want %q", doc.Text, want)
	}
}

func TestExtractHTMLSanitizes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.html")
	testsupport.WriteFile(t, path, `<html><body><h1>Dos</h1><p>Rowing haltère</p><script>alert(1)</script></body></html>`)

	doc, err := extract.New(extract.Options{}).Extract(context.Background(), path)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if !strings.Contains(doc.Text, "# Dos") || !strings.Contains(doc.Text, "Rowing haltère") {
		t.Fatalf("unexpected markdown %q", doc.Text)
	}
	if strings.Contains(doc.Text, "alert") {
		t.Fatalf("script survived sanitizing: %q", doc.Text)
	}
}

func TestExtractTextStripsBOM(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	testsupport.WriteFile(t, path, "\ufeffPompes\r\nSéries : 3x10\r\n")

	doc, err := extract.New(extract.Options{}).Extract(context.Background(), path)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if doc.Text != "Pompes\nSéries : 3x10\n" {
		t.Fatalf("text = %q", doc.Text)
	}
}

func TestExtractTooLarge(t *testing.T) {
	path := filepath.Join(t.TempDir(), "big.txt")
	testsupport.WriteFile(t, path, strings.Repeat("x", 64))

	_, err := extract.New(extract.Options{MaxFileSize: 10}).Extract(context.Background(), path)
	if !errors.Is(err, extract.ErrTooLarge) {
		t.Fatalf("err = %v, want ErrTooLarge", err)
	}
}

func TestExtractCorruptDocx(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.docx")
	testsupport.WriteFile(t, path, "not a zip")

	if _, err := extract.New(extract.Options{}).Extract(context.Background(), path); err == nil {
		t.Fatal("expected error for corrupt docx")
	}
}

func TestExtractAllCollectsFailures(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "a.md")
	bad := filepath.Join(dir, "b.docx")
	testsupport.WriteFile(t, good, "# Dos\nRowing\n")
	testsupport.WriteFile(t, bad, "garbage")

	docs, failures := extract.New(extract.Options{}).ExtractAll(context.Background(), []string{good, bad})
	if len(docs) != 1 || docs[0].Path != good {
		t.Fatalf("docs = %+v", docs)
	}
	if len(failures) != 1 || failures[0].Path != bad {
		t.Fatalf("failures = %+v", failures)
	}
}

func TestExtractAllCancelled(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.md")
	testsupport.WriteFile(t, path, "x")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	docs, failures := extract.New(extract.Options{}).ExtractAll(ctx, []string{path})
	if len(docs) != 0 || len(failures) != 1 || !errors.Is(failures[0], context.Canceled) {
		t.Fatalf("docs=%v failures=%v", docs, failures)
	}
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{
		"groupes-musculaires/dos/Dos.docx",
		"groupes-musculaires/dos/~$Dos.docx",
		"groupes-musculaires/.cache/x.md",
		"programmes-predefinis/notes.md",
		"scan.pdf",
		".hidden.txt",
	} {
		testsupport.WriteFile(t, filepath.Join(root, name), "x")
	}

	paths, err := extract.Discover(root)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	want := []string{
		filepath.Join(root, "groupes-musculaires/dos/Dos.docx"),
		filepath.Join(root, "programmes-predefinis/notes.md"),
	}
	if strings.Join(paths, "|") != strings.Join(want, "|") {
		t.Fatalf("paths = %v, want %v", paths, want)
	}

	single := filepath.Join(root, "scan.pdf")
	got, err := extract.Discover(single)
	if err != nil || len(got) != 1 || got[0] != single {
		t.Fatalf("Discover(file) = %v, %v", got, err)
	}

	if _, err := extract.Discover(filepath.Join(root, "missing")); err == nil {
		t.Fatal("expected error for missing root")
	}
}
