package genome

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// FileFingerprint holds stat-based identity for a source file.
type FileFingerprint struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// StatFile creates a FileFingerprint from an on-disk file.
func StatFile(path string) (FileFingerprint, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileFingerprint{}, err
	}
	return FileFingerprint{
		Path:    path,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}

// Snapshot persists a loaded annotation index as gob so that repeated runs
// skip GTF/FASTA parsing. Files are stored alongside the GENCODE sources:
//
//	~/.isovar/{assembly}/annotations.gob       (serialized index)
//	~/.isovar/{assembly}/annotations.gob.meta  (source file fingerprints)
type Snapshot struct {
	dir string // data directory (e.g. ~/.isovar/grch38)
}

// snapshotData is the on-disk gob payload.
type snapshotData struct {
	Transcripts map[string][]*Transcript
	Genes       map[string][]*Gene
}

// NewSnapshot creates a snapshot manager for the given directory.
func NewSnapshot(dir string) *Snapshot {
	return &Snapshot{dir: dir}
}

func (s *Snapshot) gobPath() string {
	return filepath.Join(s.dir, "annotations.gob")
}

func (s *Snapshot) metaPath() string {
	return filepath.Join(s.dir, "annotations.gob.meta")
}

// Valid checks whether the snapshot matches the current source files.
func (s *Snapshot) Valid(gtf, fasta, canonical FileFingerprint) bool {
	meta, err := s.readMeta()
	if err != nil {
		return false
	}

	checks := []struct{ key, val string }{
		{"gtf_size", strconv.FormatInt(gtf.Size, 10)},
		{"gtf_modtime", gtf.ModTime.UTC().Format(time.RFC3339Nano)},
		{"fasta_size", strconv.FormatInt(fasta.Size, 10)},
		{"fasta_modtime", fasta.ModTime.UTC().Format(time.RFC3339Nano)},
		{"canonical_size", strconv.FormatInt(canonical.Size, 10)},
		{"canonical_modtime", canonical.ModTime.UTC().Format(time.RFC3339Nano)},
	}

	for _, c := range checks {
		if meta[c.key] != c.val {
			return false
		}
	}

	// Verify gob file exists
	if _, err := os.Stat(s.gobPath()); err != nil {
		return false
	}
	return true
}

// Load reads a serialized index from disk.
func (s *Snapshot) Load() (*Index, error) {
	f, err := os.Open(s.gobPath())
	if err != nil {
		return nil, fmt.Errorf("open annotation snapshot: %w", err)
	}
	defer f.Close()

	var data snapshotData
	if err := gob.NewDecoder(f).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode annotation snapshot: %w", err)
	}

	ix := NewIndex()
	for _, transcripts := range data.Transcripts {
		for _, t := range transcripts {
			ix.AddTranscript(t)
		}
	}
	for _, genes := range data.Genes {
		for _, g := range genes {
			ix.AddGene(g)
		}
	}
	ix.Build()
	return ix, nil
}

// Write serializes the index to disk along with source fingerprints.
func (s *Snapshot) Write(ix *Index, gtf, fasta, canonical FileFingerprint) error {
	data := snapshotData{
		Transcripts: make(map[string][]*Transcript),
		Genes:       make(map[string][]*Gene),
	}
	for _, chrom := range ix.Chromosomes() {
		if ts := ix.TranscriptsByChrom(chrom); len(ts) > 0 {
			data.Transcripts[chrom] = ts
		}
		if gs := ix.GenesByChrom(chrom); len(gs) > 0 {
			data.Genes[chrom] = gs
		}
	}

	f, err := os.Create(s.gobPath())
	if err != nil {
		return fmt.Errorf("create annotation snapshot: %w", err)
	}

	if err := gob.NewEncoder(f).Encode(data); err != nil {
		f.Close()
		os.Remove(s.gobPath())
		return fmt.Errorf("encode annotation snapshot: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close annotation snapshot: %w", err)
	}

	// Write metadata
	return s.writeMeta(gtf, fasta, canonical)
}

// Clear removes the snapshot files.
func (s *Snapshot) Clear() {
	os.Remove(s.gobPath())
	os.Remove(s.metaPath())
}

func (s *Snapshot) writeMeta(gtf, fasta, canonical FileFingerprint) error {
	lines := []string{
		"gtf_size=" + strconv.FormatInt(gtf.Size, 10),
		"gtf_modtime=" + gtf.ModTime.UTC().Format(time.RFC3339Nano),
		"fasta_size=" + strconv.FormatInt(fasta.Size, 10),
		"fasta_modtime=" + fasta.ModTime.UTC().Format(time.RFC3339Nano),
		"canonical_size=" + strconv.FormatInt(canonical.Size, 10),
		"canonical_modtime=" + canonical.ModTime.UTC().Format(time.RFC3339Nano),
		"created_at=" + time.Now().UTC().Format(time.RFC3339),
		"",
	}
	return os.WriteFile(s.metaPath(), []byte(strings.Join(lines, "\n")), 0644)
}

func (s *Snapshot) readMeta() (map[string]string, error) {
	data, err := os.ReadFile(s.metaPath())
	if err != nil {
		return nil, err
	}

	meta := make(map[string]string)
	for _, line := range strings.Split(string(data), "\n") {
		if k, v, ok := strings.Cut(line, "="); ok {
			meta[k] = v
		}
	}
	return meta, nil
}
