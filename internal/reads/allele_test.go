package reads

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openvax/isovar-go/internal/vcf"
)

func TestNewAlleleRead(t *testing.T) {
	t.Run("single base allele", func(t *testing.T) {
		ar := NewAlleleRead(&LocusRead{
			Name:                 "r1",
			Sequence:             "TTTTTTTTTGACTTTTTTTT",
			ReadPosBeforeVariant: 9,
			ReadPosAfterVariant:  11,
		})
		require.NotNil(t, ar)
		assert.Equal(t, "TTTTTTTTTG", ar.Prefix)
		assert.Equal(t, "A", ar.Allele)
		assert.Equal(t, "CTTTTTTTT", ar.Suffix)
	})

	t.Run("empty allele for deletion", func(t *testing.T) {
		ar := NewAlleleRead(&LocusRead{
			Name:                 "r1",
			Sequence:             "TTTTTTTTTGTTTTTTTTTT",
			ReadPosBeforeVariant: 9,
			ReadPosAfterVariant:  10,
		})
		require.NotNil(t, ar)
		assert.Equal(t, "", ar.Allele)
		assert.Equal(t, "TTTTTTTTTG", ar.Prefix)
		assert.Equal(t, "TTTTTTTTTT", ar.Suffix)
	})

	t.Run("ambiguous allele dropped", func(t *testing.T) {
		ar := NewAlleleRead(&LocusRead{
			Name:                 "r1",
			Sequence:             "TTTTTTTTTGNCTTTTTTTT",
			ReadPosBeforeVariant: 9,
			ReadPosAfterVariant:  11,
		})
		assert.Nil(t, ar)
	})

	t.Run("ambiguous flank kept", func(t *testing.T) {
		ar := NewAlleleRead(&LocusRead{
			Name:                 "r1",
			Sequence:             "NTTTTTTTTGACTTTTTTTN",
			ReadPosBeforeVariant: 9,
			ReadPosAfterVariant:  11,
		})
		require.NotNil(t, ar)
		assert.Equal(t, "A", ar.Allele)
	})

	t.Run("inconsistent offsets", func(t *testing.T) {
		base := LocusRead{Name: "r1", Sequence: "ACGTACGT"}

		lr := base
		lr.ReadPosBeforeVariant = -1
		lr.ReadPosAfterVariant = 3
		assert.Nil(t, NewAlleleRead(&lr))

		lr = base
		lr.ReadPosBeforeVariant = 3
		lr.ReadPosAfterVariant = 3
		assert.Nil(t, NewAlleleRead(&lr))

		lr = base
		lr.ReadPosBeforeVariant = 3
		lr.ReadPosAfterVariant = 9
		assert.Nil(t, NewAlleleRead(&lr))
	})
}

func TestCountFragments(t *testing.T) {
	assert.Equal(t, 0, CountFragments(nil))

	reads := []*AlleleRead{
		{Name: "fragA", Allele: "A"},
		{Name: "fragA", Allele: "A"},
		{Name: "fragB", Allele: "A"},
	}
	assert.Equal(t, 2, CountFragments(reads))
}

func TestVariantLocus(t *testing.T) {
	tests := []struct {
		name       string
		variant    *vcf.Variant
		wantBefore int64
		wantAfter  int64
	}{
		{
			"snv",
			&vcf.Variant{Chrom: "12", Pos: 25245351, Ref: "C", Alt: "A"},
			25245350, 25245352,
		},
		{
			"vcf style insertion",
			&vcf.Variant{Chrom: "4", Pos: 100, Ref: "A", Alt: "AGG"},
			100, 101,
		},
		{
			"anchored insertion",
			&vcf.Variant{Chrom: "4", Pos: 100, Ref: "", Alt: "GG"},
			100, 101,
		},
		{
			"vcf style deletion",
			&vcf.Variant{Chrom: "12", Pos: 25245350, Ref: "CAT", Alt: "C"},
			25245350, 25245353,
		},
		{
			"mnv",
			&vcf.Variant{Chrom: "7", Pos: 100, Ref: "AT", Alt: "GC"},
			99, 102,
		},
		{
			"shared suffix trimmed",
			&vcf.Variant{Chrom: "7", Pos: 200, Ref: "TG", Alt: "CG"},
			199, 201,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			locus := VariantLocus(tt.variant)
			assert.Equal(t, tt.variant.Chrom, locus.Chrom)
			assert.Equal(t, tt.wantBefore, locus.Base1Before)
			assert.Equal(t, tt.wantAfter, locus.Base1After)
			assert.Equal(t, tt.wantBefore-1, locus.Base0Before())
			assert.Equal(t, tt.wantAfter-1, locus.Base0After())
		})
	}
}
