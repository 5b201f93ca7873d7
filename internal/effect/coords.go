package effect

import "github.com/openvax/isovar-go/internal/genome"

// GenomicToCDS converts a genomic position to a 1-based CDS position within
// a transcript. Returns 0 if the position is not in the CDS.
func GenomicToCDS(genomicPos int64, t *genome.Transcript) int64 {
	if !t.IsProteinCoding() || !t.ContainsCDS(genomicPos) {
		return 0
	}

	var cdsPos int64

	if t.IsForwardStrand() {
		for i := range t.Exons {
			exon := &t.Exons[i]
			if !exon.IsCoding() {
				continue
			}

			if genomicPos >= exon.CDSStart && genomicPos <= exon.CDSEnd {
				return cdsPos + genomicPos - exon.CDSStart + 1
			}
			if genomicPos > exon.CDSEnd {
				cdsPos += exon.CDSEnd - exon.CDSStart + 1
			}
		}
	} else {
		// Reverse strand: exons are stored in ascending genomic order, so
		// walk them backwards to accumulate in transcription order.
		for i := len(t.Exons) - 1; i >= 0; i-- {
			exon := &t.Exons[i]
			if !exon.IsCoding() {
				continue
			}

			if genomicPos >= exon.CDSStart && genomicPos <= exon.CDSEnd {
				return cdsPos + exon.CDSEnd - genomicPos + 1
			}
			if genomicPos < exon.CDSStart {
				cdsPos += exon.CDSEnd - exon.CDSStart + 1
			}
		}
	}

	return 0
}

// CDSToGenomic converts a 1-based CDS position to a genomic position.
// Returns 0 if the CDS position is out of range. Inverse of GenomicToCDS.
func CDSToGenomic(cdsPos int64, t *genome.Transcript) int64 {
	if !t.IsProteinCoding() || cdsPos < 1 {
		return 0
	}

	var cumulative int64

	if t.IsForwardStrand() {
		for i := range t.Exons {
			exon := &t.Exons[i]
			if !exon.IsCoding() {
				continue
			}
			exonLen := exon.CDSEnd - exon.CDSStart + 1
			if cumulative+exonLen >= cdsPos {
				return exon.CDSStart + (cdsPos - cumulative - 1)
			}
			cumulative += exonLen
		}
	} else {
		for i := len(t.Exons) - 1; i >= 0; i-- {
			exon := &t.Exons[i]
			if !exon.IsCoding() {
				continue
			}
			exonLen := exon.CDSEnd - exon.CDSStart + 1
			if cumulative+exonLen >= cdsPos {
				return exon.CDSEnd - (cdsPos - cumulative - 1)
			}
			cumulative += exonLen
		}
	}

	return 0
}

// CDSToCodonPosition converts a 1-based CDS position to a 1-based codon
// number and the 0-based position within that codon.
func CDSToCodonPosition(cdsPos int64) (codonNumber int64, positionInCodon int) {
	if cdsPos < 1 {
		return 0, 0
	}
	codonNumber = (cdsPos-1)/3 + 1
	positionInCodon = int((cdsPos - 1) % 3)
	return
}
