package result

import (
	"math"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openvax/isovar-go/internal/reads"
	"github.com/openvax/isovar-go/internal/vcf"
)

func testVariant() *vcf.Variant {
	return &vcf.Variant{Chrom: "12", Pos: 25245351, Ref: "C", Alt: "A"}
}

// testEvidence: 2 ref reads (2 fragments), 3 alt reads (2 fragments,
// alt1 is a mate pair), 1 other read.
func testEvidence() *reads.Evidence {
	return &reads.Evidence{
		Base1Start: 25245351,
		Ref:        "C",
		Alt:        "A",
		RefReads: []*reads.AlleleRead{
			{Name: "ref1", Allele: "C"},
			{Name: "ref2", Allele: "C"},
		},
		AltReads: []*reads.AlleleRead{
			{Name: "alt1", Allele: "A"},
			{Name: "alt1", Allele: "A"},
			{Name: "alt2", Allele: "A"},
		},
		OtherReads: []*reads.AlleleRead{
			{Name: "oth1", Allele: "T"},
		},
	}
}

func testResult() *Result {
	return &Result{
		Variant:      testVariant(),
		ReadEvidence: testEvidence(),
	}
}

func stat(t *testing.T, r *Result, name string) float64 {
	t.Helper()
	v, ok := r.Stat(name)
	require.True(t, ok, "unknown statistic %q", name)
	return v
}

func TestStatCounts(t *testing.T) {
	r := testResult()

	assert.Equal(t, 2.0, stat(t, r, "num_ref_reads"))
	assert.Equal(t, 3.0, stat(t, r, "num_alt_reads"))
	assert.Equal(t, 1.0, stat(t, r, "num_other_reads"))
	assert.Equal(t, 2.0, stat(t, r, "num_ref_fragments"))
	assert.Equal(t, 2.0, stat(t, r, "num_alt_fragments"))
	assert.Equal(t, 1.0, stat(t, r, "num_other_fragments"))
	assert.Equal(t, 6.0, stat(t, r, "num_total_reads"))
	assert.Equal(t, 5.0, stat(t, r, "num_total_fragments"))
}

func TestStatFractionsAndRatios(t *testing.T) {
	r := testResult()

	assert.InDelta(t, 2.0/6.0, stat(t, r, "fraction_ref_reads"), 1e-12)
	assert.InDelta(t, 0.5, stat(t, r, "fraction_alt_reads"), 1e-12)
	assert.InDelta(t, 1.0/6.0, stat(t, r, "fraction_other_reads"), 1e-12)
	assert.InDelta(t, 0.4, stat(t, r, "fraction_ref_fragments"), 1e-12)
	assert.InDelta(t, 0.4, stat(t, r, "fraction_alt_fragments"), 1e-12)
	assert.InDelta(t, 0.2, stat(t, r, "fraction_other_fragments"), 1e-12)

	assert.InDelta(t, 0.5, stat(t, r, "ratio_other_to_ref_reads"), 1e-12)
	assert.InDelta(t, 1.0/3.0, stat(t, r, "ratio_other_to_alt_reads"), 1e-12)
	assert.InDelta(t, 2.0, stat(t, r, "ratio_ref_to_other_reads"), 1e-12)
	assert.InDelta(t, 3.0, stat(t, r, "ratio_alt_to_other_reads"), 1e-12)
	assert.InDelta(t, 0.5, stat(t, r, "ratio_other_to_ref_fragments"), 1e-12)
	assert.InDelta(t, 0.5, stat(t, r, "ratio_other_to_alt_fragments"), 1e-12)
	assert.InDelta(t, 2.0, stat(t, r, "ratio_ref_to_other_fragments"), 1e-12)
	assert.InDelta(t, 2.0, stat(t, r, "ratio_alt_to_other_fragments"), 1e-12)
}

func TestStatZeroDenominators(t *testing.T) {
	empty := &Result{Variant: testVariant(), ReadEvidence: &reads.Evidence{}}
	assert.Equal(t, 0.0, stat(t, empty, "num_total_reads"))
	assert.True(t, math.IsNaN(stat(t, empty, "fraction_alt_reads")))
	assert.True(t, math.IsNaN(stat(t, empty, "fraction_ref_fragments")))
	assert.True(t, math.IsNaN(stat(t, empty, "ratio_other_to_alt_reads")))

	nilEv := &Result{Variant: testVariant()}
	assert.Equal(t, 0.0, stat(t, nilEv, "num_alt_reads"))
	assert.True(t, math.IsNaN(stat(t, nilEv, "fraction_alt_reads")))
}

func TestTotalFragmentsUnion(t *testing.T) {
	// One fragment whose mates carry different alleles lands in two
	// groups but still counts once in the total.
	r := &Result{
		Variant: testVariant(),
		ReadEvidence: &reads.Evidence{
			RefReads: []*reads.AlleleRead{{Name: "shared", Allele: "C"}},
			AltReads: []*reads.AlleleRead{{Name: "shared", Allele: "A"}},
		},
	}

	assert.Equal(t, 2.0, stat(t, r, "num_total_reads"))
	assert.Equal(t, 1.0, stat(t, r, "num_ref_fragments"))
	assert.Equal(t, 1.0, stat(t, r, "num_alt_fragments"))
	assert.Equal(t, 1.0, stat(t, r, "num_total_fragments"))
}

func TestStatNames(t *testing.T) {
	names := StatNames()
	assert.Len(t, names, 22)
	assert.True(t, sort.StringsAreSorted(names))
	assert.Contains(t, names, "num_total_fragments")
	assert.Contains(t, names, "ratio_alt_to_other_fragments")

	_, ok := testResult().Stat("num_amazing_reads")
	assert.False(t, ok)
}
