// Package duckdb provides the persistent store for annotation tables and
// signature collections. Annotation rows and signature genes are written in
// bulk through the DuckDB Appender API and keep their source order via a
// sequence column.
package duckdb

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/marcboeker/go-duckdb"
)

// Store manages a DuckDB connection holding annotation tables and signatures.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates a DuckDB database at the given path.
// Use an empty string for an in-memory database.
func Open(path string) (*Store, error) {
	if path != "" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for direct access.
func (s *Store) DB() *sql.DB {
	return s.db
}

// ensureSchema creates tables if they don't exist.
func (s *Store) ensureSchema() error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS annot_tables (
			key VARCHAR PRIMARY KEY,
			version VARCHAR,
			row_count BIGINT,
			source_path VARCHAR,
			source_size BIGINT,
			created_at TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS annot_rows (
			key VARCHAR,
			seq BIGINT,
			entrez_id VARCHAR,
			symbol VARCHAR,
			symbol_alt VARCHAR,
			chr_pos VARCHAR,
			synonyms VARCHAR,
			title VARCHAR
		)`,
		`CREATE TABLE IF NOT EXISTS sig_sets (
			key VARCHAR PRIMARY KEY,
			source VARCHAR,
			bias DOUBLE,
			info VARCHAR,
			gene_count BIGINT,
			created_at TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS sig_genes (
			key VARCHAR,
			seq BIGINT,
			gene VARCHAR,
			weight DOUBLE
		)`,
	}
	for _, stmt := range ddl {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
