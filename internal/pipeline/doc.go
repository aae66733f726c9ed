// Package pipeline wires extraction, parsing, matching and field mapping
// into the two operator-facing runs.
//
// Match reads documents and catalog rows and produces a review report; it
// never writes. Apply takes a reviewed report and writes the approved
// entries, one row at a time, under an exclusive lock beside the catalog.
package pipeline
