package genome

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// copyGenomeTestFile copies a repository fixture into dst.
func copyGenomeTestFile(t *testing.T, name, dst string) {
	t.Helper()
	data, err := os.ReadFile(findGenomeTestFile(t, name))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(dst, data, 0644))
}

func appendToFile(t *testing.T, path, content string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	require.NoError(t, err)
	_, err = f.WriteString(content)
	require.NoError(t, err)
	require.NoError(t, f.Close())
}

// kras202GTF is a second KRAS transcript matching the KRAS-202 record in
// sample_cds.fa, for appending to the sample GTF.
func kras202GTF() string {
	return gtf(
		gtfLine("chr12", "HAVANA", "transcript", "25205246", "25250936", ".", "-", ".",
			`gene_id "ENSG00000133703.14"; transcript_id "ENST00000256078.10"; gene_name "KRAS"; transcript_name "KRAS-202"; transcript_type "protein_coding";`),
		gtfLine("chr12", "HAVANA", "exon", "25205246", "25250936", ".", "-", ".",
			`transcript_id "ENST00000256078.10"; exon_number 1;`),
	)
}

func TestLoader_Load(t *testing.T) {
	dir := t.TempDir()
	copyGenomeTestFile(t, "sample.gtf", filepath.Join(dir, "test.annotation.gtf"))
	copyGenomeTestFile(t, "sample_cds.fa", filepath.Join(dir, "test.pc_transcripts.fa"))

	ix, err := NewLoader(dir, "GRCh38").Load()
	require.NoError(t, err)

	assert.Equal(t, 1, ix.GeneCount())
	assert.Equal(t, 1, ix.TranscriptCount())

	tx := ix.TranscriptByID("ENST00000311936")
	require.NotNil(t, tx)
	assert.Equal(t, "KRAS", tx.GeneName)
	assert.True(t, tx.IsCanonical)

	// CDS sequence attached from the FASTA: starts with ATG, codon 12 is GGT
	require.GreaterOrEqual(t, len(tx.CDSSequence), 36)
	assert.Equal(t, "ATG", tx.CDSSequence[:3])
	assert.Equal(t, "GGT", tx.CDSSequence[33:36])
	assert.Equal(t, "AAATTTGGGCCCAAATTTGGGCCCAAATTT", tx.UTR3Sequence)

	// The returned index is built and queryable
	txs := ix.TranscriptsOverlapping("12", 25245350, 25245350)
	require.Len(t, txs, 1)
	assert.Equal(t, "ENST00000311936", txs[0].ID)

	// A snapshot was written next to the annotation files
	_, err = os.Stat(filepath.Join(dir, "annotations.gob"))
	assert.NoError(t, err)
}

func TestLoader_Load_UsesSnapshot(t *testing.T) {
	dir := t.TempDir()
	gtfPath := filepath.Join(dir, "test.annotation.gtf")
	copyGenomeTestFile(t, "sample.gtf", gtfPath)

	first, err := NewLoader(dir, "GRCh38").Load()
	require.NoError(t, err)
	require.Equal(t, 1, first.TranscriptCount())

	// Blank out the GTF but keep its fingerprint: the second load must be
	// served by the snapshot, not a reparse.
	info, err := os.Stat(gtfPath)
	require.NoError(t, err)
	blank := strings.Repeat("#", int(info.Size()))
	require.NoError(t, os.WriteFile(gtfPath, []byte(blank), 0644))
	require.NoError(t, os.Chtimes(gtfPath, info.ModTime(), info.ModTime()))

	second, err := NewLoader(dir, "GRCh38").Load()
	require.NoError(t, err)
	assert.Equal(t, 1, second.TranscriptCount())
	assert.NotNil(t, second.TranscriptByID("ENST00000311936"))
}

func TestLoader_Load_ReparsesWhenGTFChanges(t *testing.T) {
	dir := t.TempDir()
	gtfPath := filepath.Join(dir, "test.annotation.gtf")
	copyGenomeTestFile(t, "sample.gtf", gtfPath)
	copyGenomeTestFile(t, "sample_cds.fa", filepath.Join(dir, "test.pc_transcripts.fa"))

	first, err := NewLoader(dir, "GRCh38").Load()
	require.NoError(t, err)
	require.Equal(t, 1, first.TranscriptCount())

	// Appending a transcript changes the GTF size, invalidating the snapshot
	appendToFile(t, gtfPath, kras202GTF())

	second, err := NewLoader(dir, "GRCh38").Load()
	require.NoError(t, err)
	assert.Equal(t, 2, second.TranscriptCount())

	// The new transcript picks up its sequence from the FASTA
	tx := second.TranscriptByID("ENST00000256078")
	require.NotNil(t, tx)
	assert.Equal(t, "ATGGCTGAATATAAACTTTAA", tx.CDSSequence)
}

func TestLoader_Load_CanonicalOverrides(t *testing.T) {
	dir := t.TempDir()
	gtfPath := filepath.Join(dir, "test.annotation.gtf")
	copyGenomeTestFile(t, "sample.gtf", gtfPath)
	appendToFile(t, gtfPath, kras202GTF())

	overrides := "hgnc_symbol\tensembl_canonical_gene\tensembl_canonical_transcript\tgenome_nexus_canonical_gene\tgenome_nexus_canonical_transcript\n" +
		"KRAS\tENSG00000133703\tENST00000311936\tENSG00000133703\tENST00000256078.10\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, CanonicalFileName()), []byte(overrides), 0644))

	ix, err := NewLoader(dir, "GRCh38").Load()
	require.NoError(t, err)

	// The override re-marks KRAS-202 as canonical in place of KRAS-201
	tx := ix.TranscriptByID("ENST00000256078")
	require.NotNil(t, tx)
	assert.True(t, tx.IsCanonical)
	assert.False(t, ix.TranscriptByID("ENST00000311936").IsCanonical)
}

func TestLoader_Load_MissingGTF(t *testing.T) {
	_, err := NewLoader(t.TempDir(), "GRCh38").Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "locate GTF")
}

func TestDefaultDataDir(t *testing.T) {
	assert.True(t, strings.HasSuffix(DefaultDataDir("GRCh37"), filepath.Join(".isovar", "grch37")))
	assert.True(t, strings.HasSuffix(DefaultDataDir(""), filepath.Join(".isovar", "grch38")))
}
