// Package docparse segments extracted document text into exercise records.
//
// The parser walks non-empty lines with two pieces of state: the record in
// progress and the section its content lines belong to. A line starts a new
// exercise when it is title-eligible and a "muscle cible" marker follows
// within the lookahead window. Section headers switch the current section
// and may carry an inline value. Parsing is best effort: unrecognized lines
// are skipped and malformed documents yield fewer records, never an error.
package docparse
