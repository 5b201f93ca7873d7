// Package genome provides the gene/transcript annotation index.
package genome

// Transcript represents a specific gene isoform.
type Transcript struct {
	ID              string // Transcript ID (e.g., ENST00000311936)
	Name            string // Transcript name (e.g., KRAS-201)
	GeneID          string // Parent gene ID
	GeneName        string // Parent gene symbol
	Chrom           string // Chromosome
	Start           int64  // Transcript start (1-based)
	End             int64  // Transcript end (1-based, inclusive)
	Strand          int8   // +1 or -1
	Biotype         string // Transcript biotype
	IsCanonical     bool   // Ensembl canonical flag
	IsMANESelect    bool   // MANE Select transcript
	Exons           []Exon // Ordered exons
	CDSStart        int64  // CDS start (genomic, 1-based), 0 if non-coding
	CDSEnd          int64  // CDS end (genomic, 1-based), 0 if non-coding
	CDSSequence     string // Coding DNA sequence (loaded from FASTA)
	UTR3Sequence    string // 3'UTR sequence immediately following CDSSequence (for stop scanning)
	ProteinSequence string // Translated protein sequence (computed on demand)
}

// Exon represents a single exon within a transcript.
type Exon struct {
	Number   int   // Exon number (1-based)
	Start    int64 // Genomic start (1-based)
	End      int64 // Genomic end (1-based, inclusive)
	CDSStart int64 // CDS portion start, 0 if entirely non-coding
	CDSEnd   int64 // CDS portion end, 0 if entirely non-coding
	Frame    int   // Reading frame (0, 1, or 2), -1 if non-coding
}

// IsProteinCoding returns true if the transcript has a coding sequence.
// This includes protein_coding, nonsense_mediated_decay, IG/TR gene segments,
// and any other biotype with CDS features in GENCODE.
func (t *Transcript) IsProteinCoding() bool {
	return t.CDSStart > 0 && t.CDSEnd > 0
}

// IsForwardStrand returns true if the transcript is on the forward strand.
func (t *Transcript) IsForwardStrand() bool {
	return t.Strand == 1
}

// IsReverseStrand returns true if the transcript is on the reverse strand.
func (t *Transcript) IsReverseStrand() bool {
	return t.Strand == -1
}

// Contains returns true if the given position is within the transcript boundaries.
func (t *Transcript) Contains(pos int64) bool {
	return pos >= t.Start && pos <= t.End
}

// ContainsCDS returns true if the given position is within the CDS boundaries.
func (t *Transcript) ContainsCDS(pos int64) bool {
	if !t.IsProteinCoding() {
		return false
	}
	return pos >= t.CDSStart && pos <= t.CDSEnd
}

// Span returns the transcript's genomic interval.
func (t *Transcript) Span() (int64, int64) {
	return t.Start, t.End
}

// FindExon returns the exon containing the given genomic position, or nil if not in an exon.
// Uses binary search. Handles both forward-strand (ascending Start) and
// reverse-strand (descending Start) exon ordering.
func (t *Transcript) FindExon(pos int64) *Exon {
	n := len(t.Exons)
	if n == 0 {
		return nil
	}
	// Detect ordering: forward-strand exons are ascending, reverse-strand descending.
	ascending := n < 2 || t.Exons[0].Start <= t.Exons[n-1].Start
	lo, hi := 0, n-1
	for lo <= hi {
		mid := lo + (hi-lo)/2
		e := &t.Exons[mid]
		if pos >= e.Start && pos <= e.End {
			return e
		}
		if ascending {
			if pos < e.Start {
				hi = mid - 1
			} else {
				lo = mid + 1
			}
		} else {
			// Descending: higher Start values come first
			if pos > e.End {
				hi = mid - 1
			} else {
				lo = mid + 1
			}
		}
	}
	return nil
}

// NearestExonDistance returns the distance from pos to the closest exon
// boundary, or 0 when pos lies inside an exon. Used for splice-site and
// intron classification.
func (t *Transcript) NearestExonDistance(pos int64) int64 {
	best := int64(-1)
	for i := range t.Exons {
		e := &t.Exons[i]
		if pos >= e.Start && pos <= e.End {
			return 0
		}
		d := e.Start - pos
		if pos > e.End {
			d = pos - e.End
		}
		if best < 0 || d < best {
			best = d
		}
	}
	return best
}

// IsCoding returns true if the exon contains coding sequence.
func (e *Exon) IsCoding() bool {
	return e.CDSStart > 0 && e.CDSEnd > 0
}
