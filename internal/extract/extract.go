package extract

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"exomatch/internal/logging"
)

// Format identifies a supported document type.
type Format string

const (
	FormatDocx     Format = "docx"
	FormatODT      Format = "odt"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "text"
	FormatHTML     Format = "html"
)

var (
	// ErrUnsupportedFormat is returned for extensions with no extractor.
	ErrUnsupportedFormat = errors.New("unsupported document format")
	// ErrTooLarge is returned when a file exceeds the configured size cap.
	ErrTooLarge = errors.New("document too large")
)

// DefaultMaxFileSize caps a single document at 50 MiB.
const DefaultMaxFileSize int64 = 50 << 20

// Document is the extracted text of one file.
type Document struct {
	Path   string `json:"path"`
	Format Format `json:"format"`
	Text   string `json:"-"`
}

// FileError records a per-file extraction failure.
type FileError struct {
	Path string `json:"path"`
	Err  error  `json:"-"`
}

func (e FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e FileError) Unwrap() error {
	return e.Err
}

// Options configures an Extractor.
type Options struct {
	MaxFileSize int64
	Logger      *slog.Logger
}

// Extractor reads documents from disk.
type Extractor struct {
	maxSize int64
	logger  *slog.Logger
	html    *htmlConverter
}

// New builds an Extractor.
func New(opts Options) *Extractor {
	maxSize := opts.MaxFileSize
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Extractor{
		maxSize: maxSize,
		logger:  logger,
		html:    newHTMLConverter(),
	}
}

// Detect maps a path onto a Format by extension.
func Detect(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".docx":
		return FormatDocx, nil
	case ".odt":
		return FormatODT, nil
	case ".md", ".markdown":
		return FormatMarkdown, nil
	case ".txt", ".text":
		return FormatText, nil
	case ".html", ".htm":
		return FormatHTML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
}

// Extract reads one document.
func (e *Extractor) Extract(ctx context.Context, path string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	format, err := Detect(path)
	if err != nil {
		return Document{}, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return Document{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.Size() > e.maxSize {
		return Document{}, fmt.Errorf("%w: %d bytes (max %d)", ErrTooLarge, info.Size(), e.maxSize)
	}

	e.logger.Debug("extracting document",
		logging.String("path", path),
		logging.String("format", string(format)),
	)

	var text string
	switch format {
	case FormatDocx:
		text, err = extractDocx(path)
	case FormatODT:
		text, err = extractODT(path)
	case FormatMarkdown, FormatText:
		text, err = readText(path)
	case FormatHTML:
		text, err = e.html.convertFile(path)
	}
	if err != nil {
		return Document{}, fmt.Errorf("extract %s (%s): %w", path, format, err)
	}
	return Document{Path: path, Format: format, Text: text}, nil
}

// ExtractAll reads every path. Failures are collected, never fatal, except
// for context cancellation which stops the batch.
func (e *Extractor) ExtractAll(ctx context.Context, paths []string) ([]Document, []FileError) {
	docs := make([]Document, 0, len(paths))
	var failures []FileError
	for _, path := range paths {
		if ctx.Err() != nil {
			failures = append(failures, FileError{Path: path, Err: ctx.Err()})
			continue
		}
		doc, err := e.Extract(ctx, path)
		if err != nil {
			logging.WarnWithContext(e.logger, "document extraction failed", "extract_failed",
				logging.String("path", path),
				logging.String(logging.FieldErrorHint, "check the file opens in a word processor"),
				logging.String(logging.FieldImpact, "exercises from this document are skipped"),
				logging.Error(err),
			)
			failures = append(failures, FileError{Path: path, Err: err})
			continue
		}
		docs = append(docs, doc)
	}
	return docs, failures
}

// Discover lists supported documents under root, sorted. Office lock files
// ("~$name.docx") and hidden files are skipped. A file root is returned as is.
func Discover(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", root, err)
	}
	if !info.IsDir() {
		return []string{root}, nil
	}
	var out []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if path != root && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, "~$") || strings.HasPrefix(name, ".") {
			return nil
		}
		if _, err := Detect(path); err != nil {
			return nil
		}
		out = append(out, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	sort.Strings(out)
	return out, nil
}

func readText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	text := strings.TrimPrefix(string(data), "\ufeff")
	return strings.ReplaceAll(text, "\r\n", "\n"), nil
}
