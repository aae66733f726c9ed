// Package exercise defines the records shared by the matching pipeline.
//
// A Record is one parsed unit of exercise metadata: a human-authored title plus
// the labeled free-text fields found under it in a coaching document. Records
// are created once per parse pass and treated as read-only afterwards; catalog
// rows are projected into the same shape at the catalog boundary so the
// matcher only ever compares Records.
//
// Difficulty is the controlled vocabulary derived from free-text intensity by
// the fieldmap package. Ordinal is the leading numeric label ("10.1", "47.")
// that numbered documents and video filenames carry.
package exercise
