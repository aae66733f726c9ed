package extract

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// openZipMember opens one member of an office archive.
func openZipMember(path, member string) (io.ReadCloser, func() error, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open zip: %w", err)
	}
	for _, f := range r.File {
		if f.Name != member {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			r.Close()
			return nil, nil, fmt.Errorf("open %s: %w", member, err)
		}
		return rc, func() error {
			rc.Close()
			return r.Close()
		}, nil
	}
	r.Close()
	return nil, nil, fmt.Errorf("%s not found in archive", member)
}

// paragraphWriter collects paragraphs as lines, headings prefixed with
// markdown hashes so the parser sees them as headings.
type paragraphWriter struct {
	out     strings.Builder
	current strings.Builder
}

func (w *paragraphWriter) flush(level int) {
	text := strings.TrimSpace(w.current.String())
	w.current.Reset()
	if text == "" {
		return
	}
	if level > 0 {
		w.out.WriteString(strings.Repeat("#", min(level, 6)))
		w.out.WriteByte(' ')
	}
	w.out.WriteString(text)
	w.out.WriteByte('\n')
}

func (w *paragraphWriter) String() string {
	return w.out.String()
}

func nextToken(decoder *xml.Decoder) (xml.Token, bool, error) {
	tok, err := decoder.Token()
	if errors.Is(err, io.EOF) {
		return nil, true, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("decode xml: %w", err)
	}
	return tok, false, nil
}

// extractDocx reads word/document.xml from a .docx archive. Only text inside
// <w:t> runs is kept; tabs and breaks become whitespace.
func extractDocx(path string) (string, error) {
	rc, closeFn, err := openZipMember(path, "word/document.xml")
	if err != nil {
		return "", err
	}
	defer closeFn()

	decoder := xml.NewDecoder(rc)
	var w paragraphWriter
	var inParagraph, inText bool
	var style string

	for {
		tok, done, err := nextToken(decoder)
		if err != nil {
			return "", err
		}
		if done {
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				inParagraph = true
				style = ""
				w.current.Reset()
			case "pStyle":
				for _, attr := range t.Attr {
					if attr.Name.Local == "val" {
						style = attr.Value
					}
				}
			case "t":
				inText = inParagraph
			case "tab":
				if inParagraph {
					w.current.WriteByte(' ')
				}
			case "br", "cr":
				if inParagraph {
					w.current.WriteByte('\n')
				}
			}
		case xml.CharData:
			if inText {
				w.current.Write(t)
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				if inParagraph {
					w.flush(docxHeadingLevel(style))
					inParagraph = false
				}
			}
		}
	}
	return w.String(), nil
}

// docxHeadingLevel maps paragraph styles such as "Heading1", "Titre2" or
// "Title" onto a heading level, 0 for body text.
func docxHeadingLevel(style string) int {
	lower := strings.ToLower(strings.ReplaceAll(style, " ", ""))
	switch lower {
	case "title", "titre":
		return 1
	case "subtitle", "sous-titre":
		return 2
	}
	for _, prefix := range []string{"heading", "titre"} {
		rest, ok := strings.CutPrefix(lower, prefix)
		if !ok {
			continue
		}
		if n, err := strconv.Atoi(rest); err == nil && n >= 1 && n <= 9 {
			return n
		}
	}
	return 0
}

// extractODT reads content.xml from an OpenDocument text archive.
func extractODT(path string) (string, error) {
	rc, closeFn, err := openZipMember(path, "content.xml")
	if err != nil {
		return "", err
	}
	defer closeFn()

	decoder := xml.NewDecoder(rc)
	var w paragraphWriter
	depth := 0
	level := 0

	for {
		tok, done, err := nextToken(decoder)
		if err != nil {
			return "", err
		}
		if done {
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "h":
				depth++
				level = 1
				for _, attr := range t.Attr {
					if attr.Name.Local == "outline-level" {
						if n, err := strconv.Atoi(attr.Value); err == nil && n > 0 {
							level = n
						}
					}
				}
			case "p":
				if depth == 0 {
					level = 0
				}
				depth++
			case "tab", "s":
				if depth > 0 {
					w.current.WriteByte(' ')
				}
			case "line-break":
				if depth > 0 {
					w.current.WriteByte('\n')
				}
			}
		case xml.CharData:
			if depth > 0 {
				w.current.Write(t)
			}
		case xml.EndElement:
			if t.Name.Local == "h" || t.Name.Local == "p" {
				depth--
				if depth <= 0 {
					depth = 0
					w.flush(level)
					level = 0
				}
			}
		}
	}
	return w.String(), nil
}
