package testsupport

import (
	"archive/zip"
	"encoding/xml"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// WriteFile writes content to path, creating parent directories.
func WriteFile(t testing.TB, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// Paragraph is one paragraph of a generated office document. Level > 0
// marks a heading.
type Paragraph struct {
	Text  string
	Level int
}

// Lines turns plain lines into body paragraphs. Lines starting with "# "
// become level 1 headings.
func Lines(lines ...string) []Paragraph {
	out := make([]Paragraph, 0, len(lines))
	for _, line := range lines {
		if rest, ok := strings.CutPrefix(line, "# "); ok {
			out = append(out, Paragraph{Text: rest, Level: 1})
			continue
		}
		out = append(out, Paragraph{Text: line})
	}
	return out
}

// WriteDocx builds a minimal .docx archive holding the paragraphs.
func WriteDocx(t testing.TB, path string, paragraphs []Paragraph) {
	t.Helper()
	var body strings.Builder
	body.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
	body.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	for _, p := range paragraphs {
		body.WriteString("<w:p>")
		if p.Level > 0 {
			body.WriteString(`<w:pPr><w:pStyle w:val="Heading` + string(rune('0'+p.Level)) + `"/></w:pPr>`)
		}
		body.WriteString(`<w:r><w:t xml:space="preserve">`)
		body.WriteString(escape(p.Text))
		body.WriteString("</w:t></w:r></w:p>")
	}
	body.WriteString("</w:body></w:document>")

	writeZip(t, path, map[string]string{
		"[Content_Types].xml": `<?xml version="1.0" encoding="UTF-8"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"/>`,
		"word/document.xml":   body.String(),
	})
}

// WriteODT builds a minimal .odt archive holding the paragraphs.
func WriteODT(t testing.TB, path string, paragraphs []Paragraph) {
	t.Helper()
	var body strings.Builder
	body.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	body.WriteString(`<office:document-content xmlns:office="urn:oasis:names:tc:opendocument:xmlns:office:1.0" xmlns:text="urn:oasis:names:tc:opendocument:xmlns:text:1.0"><office:body><office:text>`)
	for _, p := range paragraphs {
		if p.Level > 0 {
			body.WriteString(`<text:h text:outline-level="` + string(rune('0'+p.Level)) + `">` + escape(p.Text) + `</text:h>`)
			continue
		}
		body.WriteString("<text:p>" + escape(p.Text) + "</text:p>")
	}
	body.WriteString("</office:text></office:body></office:document-content>")

	writeZip(t, path, map[string]string{
		"mimetype":    "application/vnd.oasis.opendocument.text",
		"content.xml": body.String(),
	})
}

func writeZip(t testing.TB, path string, members map[string]string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	for name, content := range members {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip create %s: %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("zip write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
}

func escape(value string) string {
	var b strings.Builder
	if err := xml.EscapeText(&b, []byte(value)); err != nil {
		return value
	}
	return b.String()
}
