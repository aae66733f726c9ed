package catalog

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is bumped with every change to schema.sql.
const schemaVersion = 2

// ErrSchemaMismatch is returned when an existing catalog was created by a
// different schema version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// versionTableQuery reports whether schema_version exists, per driver.
var versionTableQuery = map[string]string{
	DriverSQLite:   "SELECT COUNT(1) FROM sqlite_master WHERE type = 'table' AND name = 'schema_version'",
	DriverPostgres: "SELECT COUNT(1) FROM information_schema.tables WHERE table_schema = current_schema() AND table_name = 'schema_version'",
}

func (s *Store) initSchema(ctx context.Context) error {
	var n int
	if err := s.db.QueryRowContext(ctx, versionTableQuery[s.driver]).Scan(&n); err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}
	if n == 0 {
		return s.createSchema(ctx)
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: catalog %s has version %d, this build expects %d",
			ErrSchemaMismatch, s.dsnLabel(), version, schemaVersion)
	}
	return nil
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create catalog schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, s.rebind("INSERT INTO schema_version (version) VALUES (?)"), schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	return tx.Commit()
}

// dsnLabel names the catalog in errors without leaking postgres credentials.
func (s *Store) dsnLabel() string {
	if s.driver == DriverPostgres {
		return "(postgres)"
	}
	return s.dsn
}
