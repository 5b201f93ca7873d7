package genome

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Loader resolves GENCODE annotation files in a data directory and loads
// them into an Index, using a gob snapshot to skip parsing on repeat runs.
type Loader struct {
	dir      string
	assembly string
	logger   *zap.Logger
}

// NewLoader creates a loader for the given data directory and assembly.
// If dir is empty, the default data directory for the assembly is used.
func NewLoader(dir, assembly string) *Loader {
	if dir == "" {
		dir = DefaultDataDir(assembly)
	}
	return &Loader{dir: dir, assembly: assembly, logger: zap.NewNop()}
}

// SetLogger sets the logger used during loading.
func (l *Loader) SetLogger(logger *zap.Logger) {
	if logger != nil {
		l.logger = logger
	}
}

// DefaultDataDir returns the default annotation directory for an assembly,
// e.g. ~/.isovar/grch38.
func DefaultDataDir(assembly string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	if assembly == "" {
		assembly = "GRCh38"
	}
	return filepath.Join(home, ".isovar", strings.ToLower(assembly))
}

// Load builds the annotation index from the data directory. A valid gob
// snapshot is used when present; otherwise the GTF and FASTA files are
// parsed and a new snapshot is written.
func (l *Loader) Load() (*Index, error) {
	gtfPath, err := findFile(l.dir, "*.annotation.gtf.gz", "*.annotation.gtf", "*.gtf.gz", "*.gtf")
	if err != nil {
		return nil, fmt.Errorf("locate GTF in %s (run `isovar download` first): %w", l.dir, err)
	}

	// FASTA and canonical overrides are optional
	fastaPath, _ := findFile(l.dir, "*pc_transcripts.fa.gz", "*pc_transcripts.fa", "*transcripts.fa.gz", "*.fa.gz", "*.fa")
	canonicalPath := filepath.Join(l.dir, CanonicalFileName())
	if _, err := os.Stat(canonicalPath); err != nil {
		canonicalPath = ""
	}

	gtfFP, err := StatFile(gtfPath)
	if err != nil {
		return nil, fmt.Errorf("stat GTF: %w", err)
	}
	var fastaFP, canonicalFP FileFingerprint
	if fastaPath != "" {
		fastaFP, _ = StatFile(fastaPath)
	}
	if canonicalPath != "" {
		canonicalFP, _ = StatFile(canonicalPath)
	}

	snap := NewSnapshot(l.dir)
	if snap.Valid(gtfFP, fastaFP, canonicalFP) {
		ix, err := snap.Load()
		if err == nil {
			l.logger.Info("loaded annotation snapshot",
				zap.String("dir", l.dir),
				zap.Int("transcripts", ix.TranscriptCount()),
				zap.Int("genes", ix.GeneCount()))
			return ix, nil
		}
		l.logger.Warn("annotation snapshot unreadable, reparsing", zap.Error(err))
		snap.Clear()
	}

	l.logger.Info("parsing annotations",
		zap.String("gtf", gtfPath),
		zap.String("fasta", fastaPath))

	ix := NewIndex()
	if err := NewGTFLoader(gtfPath).Load(ix); err != nil {
		return nil, fmt.Errorf("load GTF: %w", err)
	}

	if fastaPath != "" {
		fasta := NewFASTALoader(fastaPath)
		if err := fasta.Load(); err != nil {
			return nil, fmt.Errorf("load FASTA: %w", err)
		}
		attachSequences(ix, fasta)
	}

	if canonicalPath != "" {
		overrides, err := LoadCanonicalOverrides(canonicalPath)
		if err != nil {
			l.logger.Warn("canonical overrides unreadable", zap.Error(err))
		} else {
			ApplyCanonicalOverrides(ix, overrides)
		}
	}

	ix.Build()

	if err := snap.Write(ix, gtfFP, fastaFP, canonicalFP); err != nil {
		l.logger.Warn("writing annotation snapshot failed", zap.Error(err))
	}

	l.logger.Info("annotations loaded",
		zap.Int("transcripts", ix.TranscriptCount()),
		zap.Int("genes", ix.GeneCount()))
	return ix, nil
}

// attachSequences copies CDS and 3'UTR sequences onto coding transcripts.
func attachSequences(ix *Index, fasta *FASTALoader) {
	for _, chrom := range ix.Chromosomes() {
		for _, t := range ix.TranscriptsByChrom(chrom) {
			if seq := fasta.CDSSequence(t.ID); seq != "" {
				t.CDSSequence = seq
				t.UTR3Sequence = fasta.UTR3Sequence(t.ID)
			}
		}
	}
}

// findFile returns the first file in dir matching any of the glob patterns.
func findFile(dir string, patterns ...string) (string, error) {
	for _, pattern := range patterns {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			continue
		}
		if len(matches) > 0 {
			return matches[0], nil
		}
	}
	return "", fmt.Errorf("no file matching %v", patterns)
}
