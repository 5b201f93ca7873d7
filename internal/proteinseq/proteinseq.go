// Package proteinseq defines the protein sequence data contract shared by
// assembly engines and the result pipeline. The package fixes the shape of
// assembled mutant protein sequences without providing an assembler itself.
package proteinseq

import (
	"github.com/openvax/isovar-go/internal/reads"
	"github.com/openvax/isovar-go/internal/vcf"
)

// ProteinSequence is one assembled mutant protein sequence supported by
// variant reads. MutationStart and MutationEnd delimit the mutated amino
// acids as a half-open interval into AminoAcids.
type ProteinSequence struct {
	AminoAcids       string
	ContainsMutation bool
	MutationStart    int
	MutationEnd      int

	EndsWithStopCodon bool
	Frameshift        bool

	// Mismatches against the reference transcript, split around the
	// variant locus.
	MismatchesBeforeVariant int
	MismatchesAfterVariant  int

	NumSupportingReads     int
	NumSupportingFragments int

	// TranscriptIDs lists the reference transcripts whose reading frame
	// agrees with this sequence.
	TranscriptIDs []string
}

// Mismatches returns the total reference transcript mismatch count.
func (p *ProteinSequence) Mismatches() int {
	return p.MismatchesBeforeVariant + p.MismatchesAfterVariant
}

// Config bounds which assembled sequences an engine may report.
type Config struct {
	// MaxReferenceTranscriptMismatches is the largest tolerated number of
	// mismatches between assembled reads and the reference transcript.
	MaxReferenceTranscriptMismatches int

	// MinTranscriptPrefixLength is the minimum number of reference
	// transcript bases that must match before the variant locus.
	MinTranscriptPrefixLength int
}

// DefaultConfig returns the assembly thresholds of the original tool.
func DefaultConfig() Config {
	return Config{
		MaxReferenceTranscriptMismatches: 2,
		MinTranscriptPrefixLength:        10,
	}
}

// Creator assembles candidate protein sequences for a variant from its
// read evidence. Implementations return sequences best first under a
// total order of their choosing, breaking ties deterministically.
type Creator interface {
	ProteinSequencesForVariant(v *vcf.Variant, ev *reads.Evidence) []*ProteinSequence
}
