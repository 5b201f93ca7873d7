package resultdb

import (
	"database/sql"
	"fmt"

	"github.com/openvax/isovar-go/internal/report"
	"github.com/openvax/isovar-go/internal/result"
)

type columnKind int

const (
	kindText columnKind = iota
	kindDouble
	kindBool
	kindBigint
)

func (k columnKind) sqlType() string {
	switch k {
	case kindDouble:
		return "DOUBLE"
	case kindBool:
		return "BOOLEAN"
	case kindBigint:
		return "BIGINT"
	}
	return "VARCHAR"
}

type column struct {
	name string
	kind columnKind
}

// resultColumns is the persisted record schema in table order: variant
// identity columns come first in the table itself, then these.
var resultColumns = buildColumns()

func buildColumns() []column {
	cols := []column{
		{"variant", kindText},
		{"variant_gene", kindText},
	}
	for _, name := range result.StatNames() {
		cols = append(cols, column{name, kindDouble})
	}
	cols = append(cols,
		column{"predicted_effect", kindText},
		column{"predicted_effect_class", kindText},
		column{"predicted_effect_gene_name", kindText},
		column{"predicted_effect_gene_id", kindText},
		column{"predicted_effect_transcript_id", kindText},
		column{"predicted_effect_transcript_name", kindText},
		column{"predicted_effect_modifies_protein_sequence", kindBool},
		column{"predicted_effect_original_protein_sequence", kindText},
		column{"predicted_effect_aa_mutation_start_offset", kindBigint},
		column{"predicted_effect_aa_mutation_end_offset", kindBigint},
		column{"predicted_effect_mutant_protein_sequence", kindText},
		column{"pass", kindBool},
		column{"protein_sequence", kindText},
		column{"protein_sequence_mutation_start", kindBigint},
		column{"protein_sequence_mutation_end", kindBigint},
		column{"protein_sequence_ends_with_stop_codon", kindBool},
		column{"protein_sequence_mismatches", kindBigint},
		column{"protein_sequence_mismatches_before_variant", kindBigint},
		column{"protein_sequence_mismatches_after_variant", kindBigint},
		column{"protein_sequence_num_supporting_reads", kindBigint},
		column{"protein_sequence_num_supporting_fragments", kindBigint},
	)
	return cols
}

// columnNames returns the persisted column names joined for SELECT lists.
func columnNames() []string {
	names := make([]string, len(resultColumns))
	for i, col := range resultColumns {
		names[i] = col.name
	}
	return names
}

// appendValue converts a record value to the appender representation for
// its column. nil stays nil (NULL); ints widen to int64 for BIGINT columns.
func appendValue(v any, kind columnKind) (any, error) {
	if v == nil {
		return nil, nil
	}
	switch kind {
	case kindText:
		if s, ok := v.(string); ok {
			return s, nil
		}
	case kindDouble:
		if f, ok := v.(float64); ok {
			return f, nil
		}
	case kindBool:
		if b, ok := v.(bool); ok {
			return b, nil
		}
	case kindBigint:
		switch n := v.(type) {
		case int:
			return int64(n), nil
		case int64:
			return n, nil
		}
	}
	return nil, fmt.Errorf("value %v (%T) does not fit column type %s", v, v, kind.sqlType())
}

// scanDest returns a Scan destination for one column.
func scanDest(kind columnKind) any {
	switch kind {
	case kindDouble:
		return new(sql.NullFloat64)
	case kindBool:
		return new(sql.NullBool)
	case kindBigint:
		return new(sql.NullInt64)
	}
	return new(sql.NullString)
}

// destValue unwraps a scanned destination back into a record value, nil
// for NULL.
func destValue(dest any) any {
	switch d := dest.(type) {
	case *sql.NullString:
		if d.Valid {
			return d.String
		}
	case *sql.NullFloat64:
		if d.Valid {
			return d.Float64
		}
	case *sql.NullBool:
		if d.Valid {
			return d.Bool
		}
	case *sql.NullInt64:
		if d.Valid {
			return d.Int64
		}
	}
	return nil
}

// recordFromDests rebuilds a record from scanned column destinations.
func recordFromDests(dests []any) *report.Record {
	rec := report.NewRecord()
	for i, col := range resultColumns {
		rec.Set(col.name, destValue(dests[i]))
	}
	return rec
}
