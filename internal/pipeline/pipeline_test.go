package pipeline

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biogo/hts/sam"

	"github.com/openvax/isovar-go/internal/effect"
	"github.com/openvax/isovar-go/internal/proteinseq"
	"github.com/openvax/isovar-go/internal/reads"
	"github.com/openvax/isovar-go/internal/result"
	"github.com/openvax/isovar-go/internal/vcf"
)

// g12cRecord is a 20-base match starting at base-0 25245340 carrying the
// given base at the variant position.
func g12cRecord(name string, variantBase byte) *sam.Record {
	seq := []byte("TTTTTTTTTGACTTTTTTTT")
	seq[10] = variantBase
	qual := make([]byte, len(seq))
	for i := range qual {
		qual[i] = 30
	}
	return &sam.Record{
		Name:  name,
		Pos:   25245340,
		MapQ:  60,
		Cigar: sam.Cigar{sam.NewCigarOp(sam.CigarMatch, 20)},
		Seq:   sam.NewSeq(seq),
		Qual:  qual,
	}
}

type fakeCreator struct{}

func (fakeCreator) ProteinSequencesForVariant(v *vcf.Variant, ev *reads.Evidence) []*proteinseq.ProteinSequence {
	return []*proteinseq.ProteinSequence{{
		AminoAcids:             "MTEYKLVVVGACGVGKSALT",
		ContainsMutation:       true,
		NumSupportingReads:     ev.NumAltReads(),
		NumSupportingFragments: ev.NumAltFragments(),
	}}
}

type sliceSource struct {
	variants []*vcf.Variant
	i        int
}

func (s *sliceSource) Next() (*vcf.Variant, error) {
	if s.i >= len(s.variants) {
		return nil, nil
	}
	v := s.variants[s.i]
	s.i++
	return v, nil
}

func (s *sliceSource) Close() error { return nil }

func (s *sliceSource) LineNumber() int { return s.i }

func TestProcessVariant(t *testing.T) {
	p := newTestPipeline()
	p.SetCreator(fakeCreator{})

	v := &vcf.Variant{Chrom: "12", Pos: 25245351, Ref: "C", Alt: "A"}
	records := []*sam.Record{
		g12cRecord("alt1", 'A'),
		g12cRecord("alt2", 'A'),
		g12cRecord("ref1", 'C'),
	}

	r, err := p.ProcessVariant(v, records)
	require.NoError(t, err)

	assert.Equal(t, 2.0, mustStat(t, r, "num_alt_reads"))
	assert.Equal(t, 1.0, mustStat(t, r, "num_ref_reads"))
	assert.True(t, r.PassesAllFilters(), "2 alt reads and fragments meet the defaults")

	// Empty index: every variant is intergenic
	require.NotNil(t, r.PredictedEffect)
	assert.Equal(t, effect.ClassIntergenic, r.PredictedEffect.Class)

	top := r.TopProteinSequence()
	require.NotNil(t, top)
	assert.Equal(t, 2, top.NumSupportingReads)
}

func TestProcessVariant_NoReads(t *testing.T) {
	p := newTestPipeline()

	v := &vcf.Variant{Chrom: "12", Pos: 25245351, Ref: "C", Alt: "A"}
	r, err := p.ProcessVariant(v, nil)
	require.NoError(t, err)

	assert.Equal(t, 0.0, mustStat(t, r, "num_total_reads"))
	assert.False(t, r.PassesAllFilters())
	assert.Nil(t, r.TopProteinSequence())
}

func mustStat(t *testing.T, r *result.Result, name string) float64 {
	t.Helper()
	v, ok := r.Stat(name)
	require.True(t, ok)
	return v
}

func TestRun(t *testing.T) {
	p := newTestPipeline()

	variants := []*vcf.Variant{
		{Chrom: "12", Pos: 25245351, Ref: "C", Alt: "A"},
		{Chrom: "7", Pos: 140753336, Ref: "A", Alt: "T"},
		{Chrom: "1", Pos: 100, Ref: "G", Alt: "C"},
	}

	locus := reads.VariantLocus(variants[0])
	recordsByLocus := map[reads.Locus][]*sam.Record{
		locus: {
			g12cRecord("alt1", 'A'),
			g12cRecord("alt2", 'A'),
		},
	}

	results, err := p.Run(context.Background(), variants, recordsByLocus)
	require.NoError(t, err)
	require.Len(t, results, 3)

	// Input order is preserved
	for i, r := range results {
		assert.Equal(t, variants[i], r.Variant)
	}
	assert.True(t, results[0].PassesAllFilters())
	assert.False(t, results[1].PassesAllFilters(), "no reads for this variant")
}

func TestRun_ConfigError(t *testing.T) {
	ix := newTestPipeline().index
	th := result.NewFilterThresholds()
	th.Set("min_bogus_stat", 1)
	p := New(ix, reads.NewCollector(reads.DefaultConfig()), th)

	_, err := p.Run(context.Background(),
		[]*vcf.Variant{{Chrom: "1", Pos: 100, Ref: "A", Alt: "T"}}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "min_bogus_stat")
}

func TestRun_Cancelled(t *testing.T) {
	p := newTestPipeline()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	variants := make([]*vcf.Variant, 500)
	for i := range variants {
		variants[i] = &vcf.Variant{Chrom: "1", Pos: int64(i + 1), Ref: "A", Alt: "T"}
	}

	_, err := p.Run(ctx, variants, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunFiles_MissingBAM(t *testing.T) {
	var buf bytes.Buffer
	err := RunFiles(context.Background(), FileOptions{
		Source: &sliceSource{variants: []*vcf.Variant{
			{Chrom: "12", Pos: 25245351, Ref: "C", Alt: "A"},
		}},
		BAMPath: filepath.Join(t.TempDir(), "missing.bam"),
		Genome:  newTestPipeline().index,
		Output:  &buf,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open bam")
}
