package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/openvax/isovar-go/internal/maf"
	"github.com/openvax/isovar-go/internal/output"
	"github.com/openvax/isovar-go/internal/pipeline"
	"github.com/openvax/isovar-go/internal/proteinseq"
	"github.com/openvax/isovar-go/internal/reads"
	"github.com/openvax/isovar-go/internal/result"
	"github.com/openvax/isovar-go/internal/resultdb"
	"github.com/openvax/isovar-go/internal/vcf"
)

// repeatedFlag collects every value of a flag given multiple times,
// in command-line order.
type repeatedFlag []string

func (f *repeatedFlag) String() string {
	return strings.Join(*f, ",")
}

func (f *repeatedFlag) Set(value string) error {
	*f = append(*f, value)
	return nil
}

func runReport(args []string) int {
	fs := flag.NewFlagSet("report", flag.ExitOnError)

	var (
		inputPath    string
		inputFormat  string
		bamPath      string
		genomeDir    string
		assembly     string
		outputFile   string
		outputFormat string
		dbPath       string
		parallel     int
		verbose      bool

		minMappingQuality int
		useSecondary      bool
		useDuplicates     bool
		useSoftClipped    bool

		maxRefMismatches int
		minPrefixLength  int

		variantSpecs repeatedFlag
		filterSpecs  repeatedFlag
	)

	fs.StringVar(&inputPath, "input", "", "Input VCF or MAF file (use '-' for stdin)")
	fs.StringVar(&inputPath, "i", "", "Input VCF or MAF file (shorthand)")
	fs.StringVar(&inputFormat, "input-format", "", "Input format: vcf, maf (auto-detected if not specified)")
	fs.Var(&variantSpecs, "variant", "Variant literal (chrom:pos:ref:alt or chr12:g.25245351C>A); repeatable")
	fs.StringVar(&bamPath, "bam", "", "Aligned RNA reads (BAM)")
	fs.StringVar(&genomeDir, "genome-dir", "", "Annotation directory (default: ~/.isovar/<assembly>)")
	fs.StringVar(&assembly, "assembly", stringDefault("report.assembly", "GRCh38"), "Genome assembly: GRCh37 or GRCh38")

	fs.IntVar(&minMappingQuality, "min-mapping-quality", intDefault("report.min_mapping_quality", 1), "Drop reads with MAPQ below this value")
	fs.BoolVar(&useSecondary, "use-secondary-alignments", boolDefault("report.use_secondary_alignments", true), "Include secondary alignments")
	fs.BoolVar(&useDuplicates, "use-duplicate-reads", boolDefault("report.use_duplicate_reads", false), "Include duplicate reads")
	fs.BoolVar(&useSoftClipped, "use-soft-clipped-bases", boolDefault("report.use_soft_clipped_bases", false), "Keep soft-clipped bases in read sequences")

	fs.IntVar(&maxRefMismatches, "max-reference-transcript-mismatches", intDefault("report.max_reference_transcript_mismatches", 2), "Max mismatches against the reference transcript for protein sequence assembly")
	fs.IntVar(&minPrefixLength, "min-transcript-prefix-length", intDefault("report.min_transcript_prefix_length", 10), "Min reference transcript bases before the variant for protein sequence assembly")

	fs.Var(&filterSpecs, "filter", "Result filter as name=value (e.g. min_num_alt_reads=2); repeatable, applied in order")
	fs.StringVar(&outputFile, "output", "", "Output file (default: stdout)")
	fs.StringVar(&outputFile, "o", "", "Output file (shorthand)")
	fs.StringVar(&outputFormat, "format", stringDefault("report.format", "tsv"), "Output format: tsv or csv")
	fs.StringVar(&dbPath, "db", "", "DuckDB database to store results (optional)")
	fs.IntVar(&parallel, "parallel", intDefault("report.parallel", 0), "Worker count (default: number of CPUs)")
	fs.BoolVar(&verbose, "verbose", false, "Enable debug logging")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Count ref/alt/other read support for variants against a BAM file.

Usage:
  isovar report [options] [<input-file>]

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  isovar report --input variants.vcf --bam tumor.bam
  isovar report --input mutations.maf --bam tumor.bam -o report.tsv
  isovar report --variant chr12:25245351:C:A --bam tumor.bam --db results.duckdb
  isovar report --input variants.vcf --bam tumor.bam --filter min_num_alt_reads=5
`)
	}

	if err := fs.Parse(args); err != nil {
		return ExitUsage
	}

	if inputPath == "" && fs.NArg() > 0 {
		inputPath = fs.Arg(0)
	}
	if inputPath == "" && len(variantSpecs) == 0 {
		fmt.Fprintf(os.Stderr, "Error: an input file or --variant is required\n\n")
		fs.Usage()
		return ExitUsage
	}
	if bamPath == "" {
		fmt.Fprintf(os.Stderr, "Error: --bam is required\n\n")
		fs.Usage()
		return ExitUsage
	}

	format, err := output.ParseFormat(outputFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitUsage
	}

	thresholds, err := parseFilters(filterSpecs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitUsage
	}

	source, err := buildVariantSource(inputPath, inputFormat, variantSpecs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Hint: Check that the file path is correct\n")
		}
		return ExitError
	}
	defer source.Close()

	// Create output writer
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

	var store *resultdb.Store
	if dbPath != "" {
		store, err = resultdb.Open(dbPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening results database: %v\n", err)
			return ExitError
		}
		defer store.Close()
	}

	logger := newLogger(verbose)
	defer logger.Sync()

	creator := newProteinCreator(proteinseq.Config{
		MaxReferenceTranscriptMismatches: maxRefMismatches,
		MinTranscriptPrefixLength:        minPrefixLength,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts := pipeline.FileOptions{
		Source:    source,
		BAMPath:   bamPath,
		GenomeDir: genomeDir,
		Assembly:  assembly,
		Extraction: reads.Config{
			UseSecondaryAlignments: useSecondary,
			UseDuplicateReads:      useDuplicates,
			MinMappingQuality:      minMappingQuality,
			UseSoftClippedBases:    useSoftClipped,
		},
		Thresholds: thresholds,
		Creator:    creator,
		Workers:    parallel,
		Output:     out,
		Format:     format,
		Store:      store,
		Logger:     logger,
	}

	if err := pipeline.RunFiles(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}

	return ExitSuccess
}

// buildVariantSource opens the input file and/or parses variant literals.
// When literals are present the file is drained eagerly so both feed a
// single source.
func buildVariantSource(path, format string, literals []string) (vcf.VariantSource, error) {
	var fileSource vcf.VariantSource
	if path != "" {
		detected := format
		if detected == "" {
			detected = detectInputFormat(path)
		}

		var err error
		switch detected {
		case "maf":
			fileSource, err = maf.NewParser(path)
		case "vcf":
			fileSource, err = vcf.NewParser(path)
		default:
			return nil, fmt.Errorf("unknown input format %q (want vcf or maf)", detected)
		}
		if err != nil {
			return nil, err
		}
	}

	if len(literals) == 0 {
		return fileSource, nil
	}

	var variants []*vcf.Variant
	if fileSource != nil {
		defer fileSource.Close()
		for {
			v, err := fileSource.Next()
			if err != nil {
				return nil, err
			}
			if v == nil {
				break
			}
			variants = append(variants, v)
		}
	}

	for _, lit := range literals {
		v, err := vcf.ParseVariantSpec(lit)
		if err != nil {
			return nil, err
		}
		variants = append(variants, v)
	}

	return vcf.NewSliceSource(variants), nil
}

// parseFilters merges name=value filter settings onto the default
// thresholds, preserving command-line order for new names.
func parseFilters(specs []string) (*result.FilterThresholds, error) {
	thresholds := result.DefaultFilterThresholds()
	for _, spec := range specs {
		name, value, ok := strings.Cut(spec, "=")
		if !ok {
			return nil, fmt.Errorf("filter %q: want name=value", spec)
		}
		cutoff, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("filter %q: invalid value %q", name, value)
		}
		thresholds.Set(name, cutoff)
	}
	return thresholds, nil
}

// newProteinCreator returns the protein-sequence engine for the run.
// No engine ships in this build; reports then carry nil protein
// sequence columns.
func newProteinCreator(proteinseq.Config) proteinseq.Creator {
	return nil
}

// newLogger builds the CLI logger: a development logger at debug level
// when verbose, otherwise a production logger.
func newLogger(verbose bool) *zap.Logger {
	var logger *zap.Logger
	var err error
	if verbose {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
