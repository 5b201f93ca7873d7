package effect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openvax/isovar-go/internal/vcf"
)

func TestEffectPriorityOrdering(t *testing.T) {
	// Every class must have a distinct priority, with frameshift ranked
	// highest and intergenic lowest
	assert.Equal(t, 0, (&Effect{Class: ClassIntergenic}).Priority())

	ordered := []string{
		ClassIntergenic, ClassDownstream, ClassUpstream,
		ClassNoncodingTranscript, ClassIntronic, ClassThreePrimeUTR,
		ClassFivePrimeUTR, ClassSilent, ClassSubstitution, ClassInsertion,
		ClassDeletion, ClassStopLoss, ClassSpliceDonor, ClassSpliceAcceptor,
		ClassPrematureStop, ClassStartLoss, ClassFrameShift,
	}
	for i := 1; i < len(ordered); i++ {
		prev := &Effect{Class: ordered[i-1]}
		cur := &Effect{Class: ordered[i]}
		assert.Greater(t, cur.Priority(), prev.Priority(),
			"%s should outrank %s", ordered[i], ordered[i-1])
	}
}

func TestTopPriorityEffect(t *testing.T) {
	assert.Nil(t, TopPriorityEffect(nil))

	intronic := &Effect{Class: ClassIntronic, TranscriptID: "ENST1"}
	missense := &Effect{Class: ClassSubstitution, TranscriptID: "ENST2"}
	frameshift := &Effect{Class: ClassFrameShift, TranscriptID: "ENST3"}

	top := TopPriorityEffect([]*Effect{intronic, missense, frameshift})
	assert.Same(t, frameshift, top)
}

func TestTopPriorityEffect_Ties(t *testing.T) {
	// Same class: the canonical transcript wins
	alt := &Effect{Class: ClassSubstitution, TranscriptID: "ENST00000001"}
	canonical := &Effect{Class: ClassSubstitution, TranscriptID: "ENST00000002", IsCanonical: true}
	assert.Same(t, canonical, TopPriorityEffect([]*Effect{alt, canonical}))
	assert.Same(t, canonical, TopPriorityEffect([]*Effect{canonical, alt}))

	// Same class and canonical flag: smallest transcript ID wins for
	// deterministic output
	a := &Effect{Class: ClassSilent, TranscriptID: "ENST00000100"}
	b := &Effect{Class: ClassSilent, TranscriptID: "ENST00000200"}
	assert.Same(t, a, TopPriorityEffect([]*Effect{b, a}))
}

func TestSortByPriority(t *testing.T) {
	effects := []*Effect{
		{Class: ClassIntronic, TranscriptID: "ENST1"},
		{Class: ClassFrameShift, TranscriptID: "ENST2"},
		{Class: ClassSilent, TranscriptID: "ENST3"},
		{Class: ClassSubstitution, TranscriptID: "ENST4", IsCanonical: true},
		{Class: ClassSubstitution, TranscriptID: "ENST5"},
	}
	SortByPriority(effects)

	require.Len(t, effects, 5)
	assert.Equal(t, ClassFrameShift, effects[0].Class)
	assert.Equal(t, ClassSubstitution, effects[1].Class)
	assert.Equal(t, "ENST4", effects[1].TranscriptID)
	assert.Equal(t, "ENST5", effects[2].TranscriptID)
	assert.Equal(t, ClassSilent, effects[3].Class)
	assert.Equal(t, ClassIntronic, effects[4].Class)
}

func TestModifiesProteinSequence(t *testing.T) {
	modifying := []string{
		ClassSubstitution, ClassInsertion, ClassDeletion, ClassFrameShift,
		ClassPrematureStop, ClassStopLoss, ClassStartLoss,
		ClassSpliceDonor, ClassSpliceAcceptor,
	}
	for _, class := range modifying {
		assert.True(t, (&Effect{Class: class}).ModifiesProteinSequence(), class)
		assert.True(t, (&Effect{Class: class}).ModifiesCodingSequence(), class)
	}

	nonModifying := []string{
		ClassIntergenic, ClassDownstream, ClassUpstream,
		ClassNoncodingTranscript, ClassIntronic,
		ClassThreePrimeUTR, ClassFivePrimeUTR, ClassSilent,
	}
	for _, class := range nonModifying {
		assert.False(t, (&Effect{Class: class}).ModifiesProteinSequence(), class)
	}

	// Silent changes the coding sequence without changing the protein
	assert.True(t, (&Effect{Class: ClassSilent}).ModifiesCodingSequence())
	assert.False(t, (&Effect{Class: ClassIntronic}).ModifiesCodingSequence())
}

func TestShortDescription_Formats(t *testing.T) {
	tests := []struct {
		name string
		eff  *Effect
		want string
	}{
		{
			"multi-residue deletion",
			&Effect{Class: ClassDeletion, RefAminoAcids: "KAL", ProteinPosition: 5},
			"p.K5_L7del",
		},
		{
			"deletion with replacement residues",
			&Effect{Class: ClassDeletion, RefAminoAcids: "KA", AltAminoAcids: "Q", ProteinPosition: 5},
			"p.KA5delinsQ",
		},
		{
			"insertion with replacement residues",
			&Effect{Class: ClassInsertion, RefAminoAcids: "K", AltAminoAcids: "QW", ProteinPosition: 5},
			"p.K5delinsQW",
		},
		{
			"stop loss without detail",
			&Effect{Class: ClassStopLoss},
			"stop-loss",
		},
		{
			"frameshift without detail",
			&Effect{Class: ClassFrameShift},
			"frameshift",
		},
		{
			"premature stop without reference residue",
			&Effect{Class: ClassPrematureStop, ProteinPosition: 7},
			"p.7*",
		},
		{
			"splice donor",
			&Effect{Class: ClassSpliceDonor},
			"splice-donor",
		},
		{
			"non-coding transcript",
			&Effect{Class: ClassNoncodingTranscript},
			"non-coding transcript",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.eff.ShortDescription())
		})
	}
}

func TestEffectString(t *testing.T) {
	v := &vcf.Variant{Chrom: "12", Pos: 25245351, Ref: "C", Alt: "A"}

	eff := &Effect{
		Class:           ClassSubstitution,
		Variant:         v,
		TranscriptID:    "ENST00000311936",
		ProteinPosition: 12,
		RefAminoAcids:   "G",
		AltAminoAcids:   "C",
	}
	assert.Equal(t,
		"Substitution(chr12 g.25245351C>A, ENST00000311936, p.G12C)",
		eff.String())

	intergenic := &Effect{Class: ClassIntergenic, Variant: v}
	assert.Equal(t, "Intergenic(chr12 g.25245351C>A)", intergenic.String())
}
