// Package effect predicts the transcript-level consequences of genomic
// variants: effect class, amino acid change, and mutant protein sequence.
package effect

import (
	"sort"

	"github.com/openvax/isovar-go/internal/vcf"
)

// Effect class names, ordered from least to most severe in classPriority.
const (
	ClassIntergenic          = "Intergenic"
	ClassDownstream          = "Downstream"
	ClassUpstream            = "Upstream"
	ClassNoncodingTranscript = "NoncodingTranscript"
	ClassIntronic            = "Intronic"
	ClassThreePrimeUTR       = "ThreePrimeUTR"
	ClassFivePrimeUTR        = "FivePrimeUTR"
	ClassSilent              = "Silent"
	ClassSubstitution        = "Substitution"
	ClassInsertion           = "Insertion"
	ClassDeletion            = "Deletion"
	ClassStopLoss            = "StopLoss"
	ClassSpliceDonor         = "SpliceDonor"
	ClassSpliceAcceptor      = "SpliceAcceptor"
	ClassPrematureStop       = "PrematureStop"
	ClassStartLoss           = "StartLoss"
	ClassFrameShift          = "FrameShift"
)

var classPriority = map[string]int{
	ClassIntergenic:          0,
	ClassDownstream:          1,
	ClassUpstream:            2,
	ClassNoncodingTranscript: 3,
	ClassIntronic:            4,
	ClassThreePrimeUTR:       5,
	ClassFivePrimeUTR:        6,
	ClassSilent:              7,
	ClassSubstitution:        8,
	ClassInsertion:           9,
	ClassDeletion:            10,
	ClassStopLoss:            11,
	ClassSpliceDonor:         12,
	ClassSpliceAcceptor:      13,
	ClassPrematureStop:       14,
	ClassStartLoss:           15,
	ClassFrameShift:          16,
}

// Effect is the predicted consequence of a variant on one transcript
// (or, for intergenic variants, on no transcript at all).
type Effect struct {
	Class   string
	Variant *vcf.Variant

	GeneName       string
	GeneID         string
	TranscriptID   string
	TranscriptName string
	IsCanonical    bool

	// CDSPosition and ProteinPosition are 1-based; 0 when the variant does
	// not land in the coding sequence.
	CDSPosition     int64
	ProteinPosition int64

	// Reference amino acids removed and alternate amino acids added by the
	// variant, single-letter codes. Both empty for silent and non-coding
	// effects.
	RefAminoAcids string
	AltAminoAcids string

	// Half-open 0-based range of the original protein affected by the
	// variant. Nil when the effect does not change the protein (or the
	// change cannot be localized, as for splice variants).
	AAMutationStartOffset *int64
	AAMutationEndOffset   *int64

	OriginalProteinSequence string
	MutantProteinSequence   string
}

// Priority returns the severity rank of the effect class. Unknown classes
// rank lowest.
func (e *Effect) Priority() int {
	return classPriority[e.Class]
}

// ModifiesProteinSequence reports whether the effect changes the protein.
// Splice donor/acceptor disruptions count as modifying even though the
// resulting protein is unknown.
func (e *Effect) ModifiesProteinSequence() bool {
	switch e.Class {
	case ClassSubstitution, ClassInsertion, ClassDeletion, ClassFrameShift,
		ClassPrematureStop, ClassStopLoss, ClassStartLoss,
		ClassSpliceDonor, ClassSpliceAcceptor:
		return true
	}
	return false
}

// ModifiesCodingSequence reports whether the variant changes the spliced
// coding sequence of the transcript (silent changes included).
func (e *Effect) ModifiesCodingSequence() bool {
	return e.Class == ClassSilent || e.ModifiesProteinSequence()
}

// TopPriorityEffect returns the most severe effect. Ties prefer the
// canonical transcript, then the lexicographically smallest transcript ID
// for determinism. Returns nil for an empty slice.
func TopPriorityEffect(effects []*Effect) *Effect {
	var best *Effect
	for _, e := range effects {
		if best == nil || effectLess(best, e) {
			best = e
		}
	}
	return best
}

// SortByPriority orders effects most severe first, in place.
func SortByPriority(effects []*Effect) {
	sort.SliceStable(effects, func(i, j int) bool {
		return effectLess(effects[j], effects[i])
	})
}

// effectLess reports whether a ranks strictly below b.
func effectLess(a, b *Effect) bool {
	if a.Priority() != b.Priority() {
		return a.Priority() < b.Priority()
	}
	if a.IsCanonical != b.IsCanonical {
		return b.IsCanonical
	}
	return a.TranscriptID > b.TranscriptID
}
