// Package catalog persists the video catalog that exercise records are
// matched against.
//
// The store speaks database/sql to either an embedded SQLite file
// (modernc.org/sqlite, the default for local review runs) or the platform's
// PostgreSQL database (lib/pq). Queries are written once with "?"
// placeholders and rebound for postgres.
//
// Writes are per row. Update applies a partial field map to a single video
// and never spans several rows, so a failed batch leaves earlier rows
// updated.
package catalog
