// Package maf reads variants from MAF (Mutation Annotation Format) files.
package maf

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/openvax/isovar-go/internal/vcf"
)

// Required MAF column names
const (
	ColChromosome      = "Chromosome"
	ColStartPosition   = "Start_Position"
	ColReferenceAllele = "Reference_Allele"
	ColTumorSeqAllele2 = "Tumor_Seq_Allele2"
)

// ColumnIndices holds the indices of the MAF columns used to build variants.
type ColumnIndices struct {
	Chromosome      int
	StartPosition   int
	ReferenceAllele int
	TumorSeqAllele2 int
}

// Parser reads variants from a MAF file.
type Parser struct {
	reader     *bufio.Reader
	file       *os.File
	gzipReader *gzip.Reader
	lineNumber int
	columns    ColumnIndices
	headerLine string
}

// NewParser creates a new MAF parser for the given file.
// Supports both plain MAF and gzipped MAF (.maf.gz) files.
func NewParser(path string) (*Parser, error) {
	if path == "-" {
		return NewParserFromReader(os.Stdin)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open maf file: %w", err)
	}

	p := &Parser{file: file}

	// Check for gzip magic bytes
	buf := make([]byte, 2)
	_, err = file.Read(buf)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("read maf header: %w", err)
	}

	// Seek back to beginning
	_, err = file.Seek(0, 0)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("seek maf file: %w", err)
	}

	// Check for gzip magic number (0x1f, 0x8b)
	if buf[0] == 0x1f && buf[1] == 0x8b {
		p.gzipReader, err = gzip.NewReader(file)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("create gzip reader: %w", err)
		}
		p.reader = bufio.NewReader(p.gzipReader)
	} else {
		p.reader = bufio.NewReader(file)
	}

	// Parse header
	if err := p.parseHeader(); err != nil {
		p.Close()
		return nil, err
	}

	return p, nil
}

// NewParserFromReader creates a parser from an io.Reader (e.g., stdin).
func NewParserFromReader(r io.Reader) (*Parser, error) {
	p := &Parser{
		reader: bufio.NewReader(r),
	}

	if err := p.parseHeader(); err != nil {
		return nil, err
	}

	return p, nil
}

// parseHeader reads and parses the MAF header line to find column indices.
func (p *Parser) parseHeader() error {
	for {
		line, err := p.reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				return &ParseError{
					Line:    p.lineNumber,
					Message: "no header line found",
				}
			}
			return fmt.Errorf("read header: %w", err)
		}
		p.lineNumber++

		line = strings.TrimRight(line, "\r\n")

		// Skip comment lines (start with #)
		if strings.HasPrefix(line, "#") {
			continue
		}

		// Skip empty lines
		if line == "" {
			continue
		}

		// This should be the header line
		p.headerLine = line
		if err := p.parseColumnIndices(line); err != nil {
			return err
		}
		return nil
	}
}

// parseColumnIndices parses the header line to find column indices.
func (p *Parser) parseColumnIndices(headerLine string) error {
	columns := strings.Split(headerLine, "\t")

	// Initialize all indices to -1 (not found)
	p.columns = ColumnIndices{
		Chromosome:      -1,
		StartPosition:   -1,
		ReferenceAllele: -1,
		TumorSeqAllele2: -1,
	}

	for i, col := range columns {
		switch col {
		case ColChromosome:
			p.columns.Chromosome = i
		case ColStartPosition:
			p.columns.StartPosition = i
		case ColReferenceAllele:
			p.columns.ReferenceAllele = i
		case ColTumorSeqAllele2:
			p.columns.TumorSeqAllele2 = i
		}
	}

	// Validate required columns
	if p.columns.Chromosome == -1 {
		return &ParseError{
			Line:    p.lineNumber,
			Message: "required column 'Chromosome' not found in header",
		}
	}
	if p.columns.StartPosition == -1 {
		return &ParseError{
			Line:    p.lineNumber,
			Message: "required column 'Start_Position' not found in header",
		}
	}
	if p.columns.ReferenceAllele == -1 {
		return &ParseError{
			Line:    p.lineNumber,
			Message: "required column 'Reference_Allele' not found in header",
		}
	}
	if p.columns.TumorSeqAllele2 == -1 {
		return &ParseError{
			Line:    p.lineNumber,
			Message: "required column 'Tumor_Seq_Allele2' not found in header",
		}
	}

	return nil
}

// Next reads the next variant from the MAF file.
// Returns nil, nil when there are no more variants.
func (p *Parser) Next() (*vcf.Variant, error) {
	line, err := p.reader.ReadString('\n')
	if err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("read variant line: %w", err)
	}
	p.lineNumber++

	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return p.Next() // Skip empty lines
	}

	// Skip comment lines
	if strings.HasPrefix(line, "#") {
		return p.Next()
	}

	return p.parseLine(line)
}

// parseLine parses a single MAF data line into a Variant.
//
// MAF uses "-" for the absent side of an indel: a deletion's
// Tumor_Seq_Allele2 is "-" with Start_Position naming the first deleted
// base, and an insertion's Reference_Allele is "-" with Start_Position
// naming the base before the inserted sequence. Both map directly onto
// the empty-allele Variant forms.
func (p *Parser) parseLine(line string) (*vcf.Variant, error) {
	fields := strings.Split(line, "\t")

	// Ensure we have enough columns
	minCols := max(p.columns.Chromosome, p.columns.StartPosition, p.columns.ReferenceAllele, p.columns.TumorSeqAllele2)
	if len(fields) <= minCols {
		return nil, &ParseError{
			Line:    p.lineNumber,
			Message: fmt.Sprintf("expected at least %d columns, found %d", minCols+1, len(fields)),
		}
	}

	pos, err := strconv.ParseInt(fields[p.columns.StartPosition], 10, 64)
	if err != nil {
		return nil, &ParseError{
			Line:    p.lineNumber,
			Message: fmt.Sprintf("invalid position: %s", fields[p.columns.StartPosition]),
		}
	}

	return &vcf.Variant{
		Chrom:  fields[p.columns.Chromosome],
		Pos:    pos,
		ID:     ".",
		Ref:    vcf.CleanAllele(fields[p.columns.ReferenceAllele]),
		Alt:    vcf.CleanAllele(fields[p.columns.TumorSeqAllele2]),
		Qual:   0,
		Filter: ".",
		Info:   make(map[string]interface{}),
	}, nil
}

// Header returns the MAF header line.
func (p *Parser) Header() string {
	return p.headerLine
}

// Columns returns the parsed column indices.
func (p *Parser) Columns() ColumnIndices {
	return p.columns
}

// LineNumber returns the current line number being processed.
func (p *Parser) LineNumber() int {
	return p.lineNumber
}

// Close closes the parser and underlying file.
func (p *Parser) Close() error {
	if p.gzipReader != nil {
		p.gzipReader.Close()
	}
	if p.file != nil {
		return p.file.Close()
	}
	return nil
}

// ParseError represents an error during MAF parsing with line context.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("maf parse error at line %d: %s", e.Line, e.Message)
}
