// Package main provides the isovar command-line tool.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Exit codes
const (
	ExitSuccess = 0
	ExitError   = 1
	ExitUsage   = 2
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Global flags
	var showVersion bool
	flag.BoolVar(&showVersion, "version", false, "Show version information")

	// Parse global flags first
	flag.Parse()

	if showVersion {
		printVersion()
		return ExitSuccess
	}

	// Check for subcommand
	args := flag.Args()
	if len(args) < 1 {
		printUsage()
		return ExitUsage
	}

	initConfig()

	switch args[0] {
	case "report":
		return runReport(args[1:])
	case "query":
		return runQuery(args[1:])
	case "download":
		return runDownload(args[1:])
	case "config":
		return runConfig(args[1:])
	case "version":
		printVersion()
		return ExitSuccess
	case "help":
		printUsage()
		return ExitSuccess
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n\n", args[0])
		printUsage()
		return ExitUsage
	}
}

func printVersion() {
	fmt.Printf("isovar version %s (%s) built %s\n", version, commit, date)
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `isovar - RNA read evidence for genomic variants

Usage:
  isovar [options] <command> [arguments]

Commands:
  report      Count ref/alt/other read support for variants in a BAM file
  query       Query a DuckDB results database written by report
  download    Download GENCODE annotation files
  config      Show or edit configuration (~/.isovar.yaml)
  version     Show version information
  help        Show this help message

Global Options:
  --version   Show version information

Examples:
  # Download GENCODE annotations (one-time setup)
  isovar download --assembly GRCh38

  # Report read evidence for variants in a VCF against a BAM
  isovar report --input variants.vcf --bam tumor.bam

  # Same, for a single variant literal, storing results in DuckDB
  isovar report --variant chr12:25245351:C:A --bam tumor.bam --db results.duckdb

  # Query stored results by gene
  isovar query --db results.duckdb --gene KRAS

For more information on a command, use:
  isovar <command> --help
`)
}

// detectInputFormat detects the input file format based on extension or content.
func detectInputFormat(path string) string {
	// Check by extension
	lowerPath := strings.ToLower(path)

	// Handle gzipped files
	if strings.HasSuffix(lowerPath, ".gz") {
		lowerPath = lowerPath[:len(lowerPath)-3]
	}

	if strings.HasSuffix(lowerPath, ".vcf") {
		return "vcf"
	}
	if strings.HasSuffix(lowerPath, ".maf") {
		return "maf"
	}

	// Check for cBioPortal MAF filenames
	baseName := filepath.Base(lowerPath)
	if baseName == "data_mutations.txt" || baseName == "data_mutations_extended.txt" {
		return "maf"
	}

	// For .txt files or stdin, try to detect from content
	if path == "-" {
		// Default to VCF for stdin
		return "vcf"
	}

	// Try to peek at the file to detect format
	file, err := os.Open(path)
	if err != nil {
		return "vcf" // Default to VCF
	}
	defer file.Close()

	buf := make([]byte, 512)
	n, err := file.Read(buf)
	if err != nil || n == 0 {
		return "vcf"
	}

	content := string(buf[:n])

	// Check for VCF header
	if strings.HasPrefix(content, "##fileformat=VCF") || strings.HasPrefix(content, "#CHROM") {
		return "vcf"
	}

	// Check for MAF header columns
	if strings.Contains(content, "Hugo_Symbol") && strings.Contains(content, "Chromosome") {
		return "maf"
	}

	// Default to VCF
	return "vcf"
}
