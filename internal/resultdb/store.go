// Package resultdb persists per-variant results in DuckDB so that report
// runs can be queried afterwards without re-reading the BAM.
package resultdb

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/marcboeker/go-duckdb"

	"github.com/openvax/isovar-go/internal/genome"
	"github.com/openvax/isovar-go/internal/result"
)

// Store manages a DuckDB connection holding one row per variant.
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
			return nil, fmt.Errorf("create database directory: %w", err)
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

// ensureSchema creates the results table if it does not exist. The column
// list follows the flat record schema, minus the per-run filter columns,
// which vary with configuration.
func (s *Store) ensureSchema() error {
	var b strings.Builder
	b.WriteString(`CREATE TABLE IF NOT EXISTS isovar_results (
	chrom VARCHAR,
	pos BIGINT,
	ref VARCHAR,
	alt VARCHAR`)
	for _, col := range resultColumns {
		fmt.Fprintf(&b, ",\n\t%s %s", col.name, col.kind.sqlType())
	}
	b.WriteString(",\n\tPRIMARY KEY (chrom, pos, ref, alt)\n)")

	_, err := s.db.Exec(b.String())
	return err
}

// variantKey is the composite key deduplicating results before writing.
type variantKey struct {
	chrom, ref, alt string
	pos             int64
}

func keyOf(r *result.Result) variantKey {
	return variantKey{
		chrom: genome.NormalizeChrom(r.Variant.Chrom),
		pos:   r.Variant.Pos,
		ref:   r.Variant.Ref,
		alt:   r.Variant.Alt,
	}
}

// ClearResults removes every stored result.
func (s *Store) ClearResults() error {
	_, err := s.db.Exec("DELETE FROM isovar_results")
	return err
}
