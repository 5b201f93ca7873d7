package proteinseq

import "testing"

func TestMismatches(t *testing.T) {
	p := &ProteinSequence{
		MismatchesBeforeVariant: 1,
		MismatchesAfterVariant:  2,
	}
	if got := p.Mismatches(); got != 3 {
		t.Errorf("Mismatches() = %d, want 3", got)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.MaxReferenceTranscriptMismatches != 2 {
		t.Errorf("MaxReferenceTranscriptMismatches = %d, want 2",
			cfg.MaxReferenceTranscriptMismatches)
	}
	if cfg.MinTranscriptPrefixLength != 10 {
		t.Errorf("MinTranscriptPrefixLength = %d, want 10",
			cfg.MinTranscriptPrefixLength)
	}
}
