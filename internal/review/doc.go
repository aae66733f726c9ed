// Package review holds the match report a pipeline run produces and an
// operator approves before anything is written to the catalog.
//
// A report is saved as JSON. Each entry carries a decision: "OUI" approves
// the fields of that entry, "NON" rejects them, empty leaves it pending.
// Apply only ever writes approved entries.
package review
