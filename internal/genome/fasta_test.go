package genome

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFASTAHeader(t *testing.T) {
	loader := NewFASTALoader("")

	tests := []struct {
		name     string
		header   string
		expected string
	}{
		{
			name:     "GENCODE pipe-delimited",
			header:   ">ENST00000456328.2|ENSG00000290825.1|OTTHUMG00000002860.3|-|DDX11L2-202|DDX11L2|1657|",
			expected: "ENST00000456328",
		},
		{
			name:     "simple with description",
			header:   ">ENST00000311936.8 cdna chromosome:GRCh38:12",
			expected: "ENST00000311936",
		},
		{
			name:     "bare ID",
			header:   ">ENST00000311936",
			expected: "ENST00000311936",
		},
		{
			name:     "bare ID with version",
			header:   ">ENST00000311936.8",
			expected: "ENST00000311936",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, loader.parseHeader(tt.header))
		})
	}
}

func TestParseCDSRange(t *testing.T) {
	tests := []struct {
		name          string
		header        string
		expectedStart int
		expectedEnd   int
		expectedOK    bool
	}{
		{
			name:          "full GENCODE header",
			header:        ">ENST001.1|ENSG001.1|-|-|X-201|X|29|UTR5:1-10|CDS:11-19|UTR3:20-29|",
			expectedStart: 11,
			expectedEnd:   19,
			expectedOK:    true,
		},
		{
			name:          "CDS only",
			header:        ">ENST002.1|ENSG002.1|-|-|Y-201|Y|9|CDS:1-9|",
			expectedStart: 1,
			expectedEnd:   9,
			expectedOK:    true,
		},
		{
			name:       "no CDS field",
			header:     ">ENST003.1|ENSG003.1|-|-|Z-201|Z|100|",
			expectedOK: false,
		},
		{
			name:       "malformed range",
			header:     ">ENST004.1|CDS:abc-def|",
			expectedOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, ok := parseCDSRange(tt.header)
			assert.Equal(t, tt.expectedOK, ok)
			if tt.expectedOK {
				assert.Equal(t, tt.expectedStart, start)
				assert.Equal(t, tt.expectedEnd, end)
			}
		})
	}
}

func TestParseFASTA_CDSExtraction(t *testing.T) {
	content := strings.Join([]string{
		">ENST001.1|ENSG001.1|-|-|X-201|X|29|UTR5:1-10|CDS:11-19|UTR3:20-29|",
		"GGGGGGGGGG",
		"ATGCCCGAA",
		"TTTTTTTTTT",
		">ENST002.1|ENSG002.1|-|-|Y-201|Y|9|CDS:1-9|",
		"ATGAAATAG",
	}, "\n")

	loader := NewFASTALoader("")
	require.NoError(t, loader.parseFASTA(strings.NewReader(content)))

	assert.Equal(t, 2, loader.SequenceCount())

	// Only the CDS portion is returned when the header declares a range
	assert.Equal(t, "ATGCCCGAA", loader.CDSSequence("ENST001"))
	assert.Equal(t, "ATGAAATAG", loader.CDSSequence("ENST002"))

	// UTR3 follows the CDS when present
	assert.Equal(t, "TTTTTTTTTT", loader.UTR3Sequence("ENST001"))
	assert.Equal(t, "", loader.UTR3Sequence("ENST002"), "CDS runs to the end")

	// Lookup works with or without a version suffix
	assert.Equal(t, "ATGCCCGAA", loader.CDSSequence("ENST001.1"))
	assert.True(t, loader.HasSequence("ENST001"))
	assert.True(t, loader.HasSequence("ENST001.1"))
	assert.False(t, loader.HasSequence("ENST999"))
	assert.Equal(t, "", loader.CDSSequence("ENST999"))
}

func TestParseFASTA_NoCDSRange(t *testing.T) {
	content := strings.Join([]string{
		">ENST003",
		"ATGGTAGTTGGAGCT",
	}, "\n")

	loader := NewFASTALoader("")
	require.NoError(t, loader.parseFASTA(strings.NewReader(content)))

	// Without a declared range the full sequence is treated as coding
	assert.Equal(t, "ATGGTAGTTGGAGCT", loader.CDSSequence("ENST003"))
	assert.Equal(t, "", loader.UTR3Sequence("ENST003"))
}

func TestLoadFASTA_File(t *testing.T) {
	path := findGenomeTestFile(t, "sample_cds.fa")

	loader := NewFASTALoader(path)
	require.NoError(t, loader.Load())

	require.True(t, loader.HasSequence("ENST00000311936"))
	cds := loader.CDSSequence("ENST00000311936")
	assert.True(t, strings.HasPrefix(cds, "ATG"), "CDS starts with start codon")
	assert.True(t, strings.HasSuffix(cds, "TAA"), "CDS ends with stop codon")
	assert.Equal(t, 0, len(cds)%3, "CDS length is a multiple of 3")
	assert.NotEmpty(t, loader.UTR3Sequence("ENST00000311936"))
}
