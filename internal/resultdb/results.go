package resultdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"strings"

	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/openvax/isovar-go/internal/genome"
	"github.com/openvax/isovar-go/internal/report"
	"github.com/openvax/isovar-go/internal/result"
)

// StoredResult is one persisted row: the variant key plus the flat record
// it was written with.
type StoredResult struct {
	Chrom  string
	Pos    int64
	Ref    string
	Alt    string
	Record *report.Record
}

// Pass reports the stored pass flag.
func (sr *StoredResult) Pass() bool {
	v, _ := sr.Record.Get("pass")
	b, ok := v.(bool)
	return ok && b
}

// WriteResults batch-inserts results using the DuckDB appender. Duplicate
// (chrom, pos, ref, alt) entries keep their first occurrence. Chromosome
// names are normalized so lookups are spelling-insensitive.
func (s *Store) WriteResults(results []*result.Result) error {
	if len(results) == 0 {
		return nil
	}

	seen := make(map[variantKey]bool, len(results))
	deduped := make([]*result.Result, 0, len(results))
	for _, r := range results {
		if r.Variant == nil {
			continue
		}
		k := keyOf(r)
		if !seen[k] {
			seen[k] = true
			deduped = append(deduped, r)
		}
	}

	conn, err := s.db.Conn(context.Background())
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", "isovar_results")
		return err
	}); err != nil {
		return fmt.Errorf("create appender: %w", err)
	}
	defer appender.Close()

	for _, r := range deduped {
		rec := r.ToRecord()
		row := make([]driver.Value, 0, 4+len(resultColumns))
		row = append(row,
			genome.NormalizeChrom(r.Variant.Chrom),
			r.Variant.Pos,
			r.Variant.Ref,
			r.Variant.Alt,
		)
		for _, col := range resultColumns {
			raw, _ := rec.Get(col.name)
			v, err := appendValue(raw, col.kind)
			if err != nil {
				return fmt.Errorf("column %s: %w", col.name, err)
			}
			row = append(row, v)
		}
		if err := appender.AppendRow(row...); err != nil {
			return fmt.Errorf("append result: %w", err)
		}
	}
	return appender.Flush()
}

func selectColumns() string {
	return "chrom, pos, ref, alt, " + strings.Join(columnNames(), ", ")
}

// LookupVariant returns the stored result for one variant, or nil when
// the variant was never written.
func (s *Store) LookupVariant(chrom string, pos int64, ref, alt string) (*StoredResult, error) {
	query := "SELECT " + selectColumns() + ` FROM isovar_results
		WHERE chrom=? AND pos=? AND ref=? AND alt=?`

	sr := &StoredResult{}
	dests := make([]any, 0, 4+len(resultColumns))
	dests = append(dests, &sr.Chrom, &sr.Pos, &sr.Ref, &sr.Alt)
	for _, col := range resultColumns {
		dests = append(dests, scanDest(col.kind))
	}

	err := s.db.QueryRow(query, genome.NormalizeChrom(chrom), pos, ref, alt).Scan(dests...)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup variant: %w", err)
	}
	sr.Record = recordFromDests(dests[4:])
	return sr, nil
}

// SearchByGene returns the stored results whose variant overlaps the gene
// or whose predicted effect lands in it.
func (s *Store) SearchByGene(geneName string) ([]*StoredResult, error) {
	query := "SELECT " + selectColumns() + ` FROM isovar_results
		WHERE predicted_effect_gene_name = ?
		   OR list_contains(string_split(variant_gene, ';'), ?)
		ORDER BY chrom, pos`

	rows, err := s.db.Query(query, geneName, geneName)
	if err != nil {
		return nil, fmt.Errorf("query by gene: %w", err)
	}
	defer rows.Close()
	return scanStoredResults(rows)
}

// PassingResults returns every stored result whose pass flag is true, in
// genomic order.
func (s *Store) PassingResults() ([]*StoredResult, error) {
	query := "SELECT " + selectColumns() + ` FROM isovar_results
		WHERE pass ORDER BY chrom, pos`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("query passing results: %w", err)
	}
	defer rows.Close()
	return scanStoredResults(rows)
}

func scanStoredResults(rows *sql.Rows) ([]*StoredResult, error) {
	var out []*StoredResult
	for rows.Next() {
		sr := &StoredResult{}
		dests := make([]any, 0, 4+len(resultColumns))
		dests = append(dests, &sr.Chrom, &sr.Pos, &sr.Ref, &sr.Alt)
		for _, col := range resultColumns {
			dests = append(dests, scanDest(col.kind))
		}
		if err := rows.Scan(dests...); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		sr.Record = recordFromDests(dests[4:])
		out = append(out, sr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate results: %w", err)
	}
	return out, nil
}
