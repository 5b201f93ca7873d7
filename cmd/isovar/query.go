package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/openvax/isovar-go/internal/output"
	"github.com/openvax/isovar-go/internal/resultdb"
	"github.com/openvax/isovar-go/internal/vcf"
)

func runQuery(args []string) int {
	fs := flag.NewFlagSet("query", flag.ExitOnError)

	var (
		dbPath       string
		variantSpec  string
		geneName     string
		passingOnly  bool
		outputFile   string
		outputFormat string
	)

	fs.StringVar(&dbPath, "db", "", "DuckDB results database written by report")
	fs.StringVar(&variantSpec, "variant", "", "Look up one variant (chrom:pos:ref:alt)")
	fs.StringVar(&geneName, "gene", "", "List results for a gene (predicted-effect or overlapping gene name)")
	fs.BoolVar(&passingOnly, "passing", false, "List results that pass all filters")
	fs.StringVar(&outputFile, "output", "", "Output file (default: stdout)")
	fs.StringVar(&outputFile, "o", "", "Output file (shorthand)")
	fs.StringVar(&outputFormat, "format", "tsv", "Output format: tsv or csv")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Query a DuckDB results database written by isovar report.

Usage:
  isovar query [options]

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  isovar query --db results.duckdb --variant chr12:25245351:C:A
  isovar query --db results.duckdb --gene KRAS
  isovar query --db results.duckdb --passing -o passing.tsv
`)
	}

	if err := fs.Parse(args); err != nil {
		return ExitUsage
	}

	if dbPath == "" {
		fmt.Fprintf(os.Stderr, "Error: --db is required\n\n")
		fs.Usage()
		return ExitUsage
	}

	modes := 0
	if variantSpec != "" {
		modes++
	}
	if geneName != "" {
		modes++
	}
	if passingOnly {
		modes++
	}
	if modes != 1 {
		fmt.Fprintf(os.Stderr, "Error: exactly one of --variant, --gene or --passing is required\n\n")
		fs.Usage()
		return ExitUsage
	}

	format, err := output.ParseFormat(outputFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitUsage
	}

	// Opening a missing path would create an empty database
	if _, err := os.Stat(dbPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot read database %s: %v\n", dbPath, err)
		fmt.Fprintf(os.Stderr, "Hint: Write one first with: isovar report --db %s ...\n", dbPath)
		return ExitError
	}

	store, err := resultdb.Open(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening results database: %v\n", err)
		return ExitError
	}
	defer store.Close()

	var results []*resultdb.StoredResult
	switch {
	case variantSpec != "":
		v, err := vcf.ParseVariantSpec(variantSpec)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return ExitUsage
		}
		r, err := store.LookupVariant(v.Chrom, v.Pos, v.Ref, v.Alt)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return ExitError
		}
		if r != nil {
			results = append(results, r)
		}
	case geneName != "":
		results, err = store.SearchByGene(geneName)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return ExitError
		}
	default:
		results, err = store.PassingResults()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return ExitError
		}
	}

	var out *os.File
	if outputFile == "" {
		out = os.Stdout
	} else {
		out, err = os.Create(outputFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating output file: %v\n", err)
			return ExitError
		}
		defer out.Close()
	}

	w := output.NewRecordWriter(out, format)
	for _, r := range results {
		if err := w.Write(r.Record); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing result: %v\n", err)
			return ExitError
		}
	}
	if err := w.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "Error flushing output: %v\n", err)
		return ExitError
	}

	fmt.Fprintf(os.Stderr, "Found %d results\n", len(results))
	return ExitSuccess
}
