// Package result aggregates everything known about one variant: its
// predicted effect, the read evidence at its locus, assembled protein
// sequences, and filter outcomes. Results are immutable; updates go
// through CloneWith.
package result

import (
	"github.com/openvax/isovar-go/internal/effect"
	"github.com/openvax/isovar-go/internal/genome"
	"github.com/openvax/isovar-go/internal/proteinseq"
	"github.com/openvax/isovar-go/internal/reads"
	"github.com/openvax/isovar-go/internal/vcf"
)

// Result is the per-variant aggregate. SortedProteinSequences is ordered
// best first by whoever assembled it and is never re-sorted here. The
// genome index rides along so overlap queries need no extra plumbing.
type Result struct {
	Variant                *vcf.Variant
	PredictedEffect        *effect.Effect
	ReadEvidence           *reads.Evidence
	SortedProteinSequences []*proteinseq.ProteinSequence
	FilterValues           *FilterValues
	GenomeIndex            *genome.Index
}

// Override replaces one field during CloneWith.
type Override func(*Result)

// WithVariant overrides the variant.
func WithVariant(v *vcf.Variant) Override {
	return func(r *Result) { r.Variant = v }
}

// WithPredictedEffect overrides the predicted effect.
func WithPredictedEffect(e *effect.Effect) Override {
	return func(r *Result) { r.PredictedEffect = e }
}

// WithReadEvidence overrides the read evidence.
func WithReadEvidence(ev *reads.Evidence) Override {
	return func(r *Result) { r.ReadEvidence = ev }
}

// WithProteinSequences overrides the sorted protein sequences.
func WithProteinSequences(seqs []*proteinseq.ProteinSequence) Override {
	return func(r *Result) { r.SortedProteinSequences = seqs }
}

// WithFilterValues overrides the filter values.
func WithFilterValues(fv *FilterValues) Override {
	return func(r *Result) { r.FilterValues = fv }
}

// WithGenomeIndex overrides the genome index.
func WithGenomeIndex(ix *genome.Index) Override {
	return func(r *Result) { r.GenomeIndex = ix }
}

// CloneWith returns a copy of the result with the given fields replaced.
// The receiver is never modified.
func (r *Result) CloneWith(overrides ...Override) *Result {
	out := *r
	for _, o := range overrides {
		o(&out)
	}
	return &out
}

// TopProteinSequence returns the best assembled protein sequence, or nil
// when none exists.
func (r *Result) TopProteinSequence() *proteinseq.ProteinSequence {
	if len(r.SortedProteinSequences) == 0 {
		return nil
	}
	return r.SortedProteinSequences[0]
}
