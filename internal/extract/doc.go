// Package extract turns source documents into plain text for the parser.
//
// Supported formats:
//   - .docx      Word (archive/zip, word/document.xml)
//   - .odt       OpenDocument (archive/zip, content.xml)
//   - .md, .txt  read as-is
//   - .html      sanitized, then converted to markdown
//
// Paragraphs become lines. Failures are per file: ExtractAll keeps going and
// returns the failed paths alongside the documents it could read.
package extract
