package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFilters(t *testing.T) {
	thresholds, err := parseFilters([]string{"min_num_alt_reads=5", "max_num_other_reads=10"})
	require.NoError(t, err)

	// Defaults stay, same names update in place, new names append
	assert.Equal(t, []string{
		"min_num_alt_reads",
		"min_num_alt_fragments",
		"min_fraction_alt_reads",
		"max_num_other_reads",
	}, thresholds.Names())

	cutoff, ok := thresholds.Get("min_num_alt_reads")
	require.True(t, ok)
	assert.Equal(t, 5.0, cutoff)

	cutoff, ok = thresholds.Get("max_num_other_reads")
	require.True(t, ok)
	assert.Equal(t, 10.0, cutoff)
}

func TestParseFilters_Errors(t *testing.T) {
	_, err := parseFilters([]string{"min_num_alt_reads"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name=value")

	_, err = parseFilters([]string{"min_num_alt_reads=lots"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid value")
}

func TestDetectInputFormat(t *testing.T) {
	assert.Equal(t, "vcf", detectInputFormat("sample.vcf"))
	assert.Equal(t, "vcf", detectInputFormat("sample.VCF.GZ"))
	assert.Equal(t, "maf", detectInputFormat("sample.maf"))
	assert.Equal(t, "maf", detectInputFormat("sample.maf.gz"))
	assert.Equal(t, "maf", detectInputFormat("data_mutations.txt"))
	assert.Equal(t, "vcf", detectInputFormat("-"))
}

func TestDetectInputFormat_Content(t *testing.T) {
	dir := t.TempDir()

	vcfPath := filepath.Join(dir, "variants.txt")
	require.NoError(t, os.WriteFile(vcfPath, []byte("##fileformat=VCFv4.2\n"), 0644))
	assert.Equal(t, "vcf", detectInputFormat(vcfPath))

	mafPath := filepath.Join(dir, "mutations.txt")
	require.NoError(t, os.WriteFile(mafPath, []byte("Hugo_Symbol\tChromosome\tStart_Position\n"), 0644))
	assert.Equal(t, "maf", detectInputFormat(mafPath))
}

func TestBuildVariantSource_Literals(t *testing.T) {
	source, err := buildVariantSource("", "", []string{"chr12:25245351:C:A", "7:g.140753336A>T"})
	require.NoError(t, err)
	defer source.Close()

	v, err := source.Next()
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, "12", v.Chrom)
	assert.Equal(t, int64(25245351), v.Pos)

	v, err = source.Next()
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, "7", v.Chrom)
	assert.Equal(t, "T", v.Alt)

	v, err = source.Next()
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestBuildVariantSource_FilePlusLiterals(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "one.vcf")
	content := "##fileformat=VCFv4.2\n" +
		"#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\n" +
		"chr12\t25245351\t.\tC\tA\t.\tPASS\t.\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	source, err := buildVariantSource(path, "", []string{"17:7674220:G:A"})
	require.NoError(t, err)
	defer source.Close()

	var chroms []string
	for {
		v, err := source.Next()
		require.NoError(t, err)
		if v == nil {
			break
		}
		chroms = append(chroms, v.Chrom)
	}
	assert.Equal(t, []string{"chr12", "17"}, chroms)
}

func TestBuildVariantSource_BadLiteral(t *testing.T) {
	_, err := buildVariantSource("", "", []string{"not-a-variant"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "variant specification")
}
