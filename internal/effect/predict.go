package effect

import (
	"github.com/openvax/isovar-go/internal/genome"
	"github.com/openvax/isovar-go/internal/vcf"
)

// PredictEffects predicts the effect of a variant on every overlapping
// transcript, most severe first. Variants overlapping no transcript yield
// a single Intergenic effect.
func PredictEffects(v *vcf.Variant, ix *genome.Index) []*Effect {
	tv := v.Trimmed()
	first, last := affectedSpan(tv)

	transcripts := ix.TranscriptsOverlapping(v.Chrom, first, last)
	if len(transcripts) == 0 {
		return []*Effect{{Class: ClassIntergenic, Variant: v}}
	}

	effects := make([]*Effect, 0, len(transcripts))
	for _, tx := range transcripts {
		effects = append(effects, TranscriptEffect(v, tx))
	}
	SortByPriority(effects)
	return effects
}

// PredictEffect returns the single most severe effect for a variant.
func PredictEffect(v *vcf.Variant, ix *genome.Index) *Effect {
	return TopPriorityEffect(PredictEffects(v, ix))
}

// TranscriptEffect predicts the effect of a variant on one transcript.
func TranscriptEffect(v *vcf.Variant, tx *genome.Transcript) *Effect {
	tv := v.Trimmed()
	eff := &Effect{
		Variant:        v,
		GeneName:       tx.GeneName,
		GeneID:         tx.GeneID,
		TranscriptID:   tx.ID,
		TranscriptName: tx.Name,
		IsCanonical:    tx.IsCanonical,
	}
	if tx.IsProteinCoding() {
		eff.OriginalProteinSequence = originalProtein(tx)
	}

	first, last := affectedSpan(tv)

	// Entirely outside the transcript
	if last < tx.Start || first > tx.End {
		if (first > tx.End) == tx.IsForwardStrand() {
			eff.Class = ClassDownstream
		} else {
			eff.Class = ClassUpstream
		}
		return eff
	}

	// Intronic anchor: splice donor/acceptor at ±1-2bp of an exon boundary,
	// otherwise plain intronic
	if tx.FindExon(tv.Pos) == nil {
		if class := indelSpliceClass(tv, tx); class != "" {
			eff.Class = class
			return eff
		}
		if class := spliceSiteClass(tv.Pos, tx); class != "" {
			eff.Class = class
			return eff
		}
		eff.Class = ClassIntronic
		return eff
	}

	if !tx.IsProteinCoding() {
		eff.Class = ClassNoncodingTranscript
		return eff
	}

	if utr := utrClass(tv.Pos, tx); utr != "" {
		// A multi-base deletion starting in the UTR can reach into a splice
		// site, the start codon, or (from the 3' UTR) the stop codon
		if tv.IsIndel() && len(tv.Ref) > 1 {
			if class := indelSpliceClass(tv, tx); class != "" {
				eff.Class = class
				return eff
			}
			if spansStartCodon(first, last, tx) {
				return startLossEffect(eff, "")
			}
			if utr == ClassThreePrimeUTR && spansStopCodon(first, last, tx) {
				return stopLossEffect(tv, tx, eff)
			}
		}
		eff.Class = utr
		return eff
	}

	eff = codingEffect(tv, tx, eff)

	// Deletions reaching from the CDS into a splice site override the
	// coding classification; the resulting protein is unknown.
	if class := indelSpliceClass(tv, tx); class != "" {
		eff.Class = class
		eff.RefAminoAcids = ""
		eff.AltAminoAcids = ""
		eff.AAMutationStartOffset = nil
		eff.AAMutationEndOffset = nil
		eff.MutantProteinSequence = ""
	}
	return eff
}

// codingEffect classifies a variant whose anchor lands in the CDS.
func codingEffect(tv *vcf.Variant, tx *genome.Transcript, eff *Effect) *Effect {
	first, last := affectedSpan(tv)
	isIndel := len(tv.Ref) != len(tv.Alt)

	if isIndel && tv.Ref != "" {
		if spansStartCodon(first, last, tx) {
			return startLossEffect(eff, "")
		}
		if spansStopCodon(first, last, tx) {
			return stopLossEffect(tv, tx, eff)
		}
	}

	if tv.IsSNV() {
		return snvCodingEffect(tv, tx, eff)
	}

	mut, idx, ok := spliceVariantIntoCDS(tv, tx)
	if !ok || tx.CDSSequence == "" {
		// Variant cannot be fully mapped into the CDS (missing sequence or
		// an intron-crossing span): classify by shape alone.
		switch {
		case !isIndel:
			eff.Class = ClassSubstitution
		case (len(tv.Alt)-len(tv.Ref))%3 != 0:
			eff.Class = ClassFrameShift
		case len(tv.Alt) > len(tv.Ref):
			eff.Class = ClassInsertion
		default:
			eff.Class = ClassDeletion
		}
		return eff
	}

	if tv.Ref == "" {
		// Insertion: idx is the splice point, the anchor base sits before it
		eff.CDSPosition = int64(idx)
		if idx > 0 {
			eff.ProteinPosition = int64((idx-1)/3) + 1
		}
	} else {
		eff.CDSPosition = int64(idx) + 1
		eff.ProteinPosition = int64(idx/3) + 1
	}

	orig := eff.OriginalProteinSequence
	mutProtein := TranslateToStop(mut + tx.UTR3Sequence)
	firstAA, deleted, inserted := diffProteins(orig, mutProtein)

	if deleted == "" && inserted == "" {
		eff.Class = ClassSilent
		eff.MutantProteinSequence = orig
		return eff
	}

	// Readthrough: the original protein survives as a prefix and the mutant
	// keeps going, meaning the stop codon was destroyed
	if firstAA >= len(orig) && len(mutProtein) > len(orig) {
		eff.Class = ClassStopLoss
		eff.RefAminoAcids = "*"
		eff.AltAminoAcids = string(mutProtein[len(orig)])
		eff.ProteinPosition = int64(len(orig)) + 1
		eff.AAMutationStartOffset, eff.AAMutationEndOffset = offsetRange(len(orig), len(orig))
		eff.MutantProteinSequence = mutProtein
		return eff
	}

	diff := len(tv.Alt) - len(tv.Ref)

	if diff%3 != 0 {
		eff.ProteinPosition = int64(firstAA) + 1
		if firstAA < len(orig) {
			eff.RefAminoAcids = string(orig[firstAA])
		}
		eff.AAMutationStartOffset, eff.AAMutationEndOffset = offsetRange(firstAA, len(orig))
		if len(mutProtein) == firstAA {
			// The shifted frame opens with a stop codon
			eff.Class = ClassPrematureStop
			eff.AltAminoAcids = "*"
		} else {
			eff.Class = ClassFrameShift
			eff.AltAminoAcids = ""
		}
		eff.MutantProteinSequence = mutProtein
		return eff
	}

	// In-frame change: compare against the expected mutant length to detect
	// a new stop codon (truncation)
	expectedLen := len(orig) + diff/3
	if len(mutProtein) < expectedLen {
		eff.Class = ClassPrematureStop
		eff.ProteinPosition = int64(firstAA) + 1
		if firstAA < len(orig) {
			eff.RefAminoAcids = string(orig[firstAA])
		}
		eff.AltAminoAcids = "*"
		eff.AAMutationStartOffset, eff.AAMutationEndOffset = offsetRange(firstAA, len(orig))
		eff.MutantProteinSequence = mutProtein
		return eff
	}

	eff.RefAminoAcids = deleted
	eff.AltAminoAcids = inserted
	eff.MutantProteinSequence = mutProtein

	switch {
	case diff == 0:
		eff.Class = ClassSubstitution
		eff.ProteinPosition = int64(firstAA) + 1
		eff.AAMutationStartOffset, eff.AAMutationEndOffset = offsetRange(firstAA, firstAA+len(deleted))
	case diff > 0:
		eff.Class = ClassInsertion
		if firstAA > 0 {
			eff.ProteinPosition = int64(firstAA)
		} else {
			eff.ProteinPosition = 1
		}
		eff.AAMutationStartOffset, eff.AAMutationEndOffset = offsetRange(firstAA, firstAA+len(deleted))
	default:
		eff.Class = ClassDeletion
		eff.ProteinPosition = int64(firstAA) + 1
		eff.AAMutationStartOffset, eff.AAMutationEndOffset = offsetRange(firstAA, firstAA+len(deleted))
	}
	return eff
}

// snvCodingEffect mutates the affected codon directly.
func snvCodingEffect(tv *vcf.Variant, tx *genome.Transcript, eff *Effect) *Effect {
	cdsPos := GenomicToCDS(tv.Pos, tx)
	if cdsPos < 1 {
		eff.Class = ClassIntronic
		return eff
	}
	eff.CDSPosition = cdsPos

	codonNum, posInCodon := CDSToCodonPosition(cdsPos)
	eff.ProteinPosition = codonNum

	cds := tx.CDSSequence
	refCodon := GetCodon(cds, codonNum)
	if len(refCodon) != 3 {
		eff.Class = ClassSubstitution
		return eff
	}

	altBase := tv.Alt[0]
	if tx.IsReverseStrand() {
		altBase = Complement(altBase)
	}
	altCodon := MutateCodon(refCodon, posInCodon, altBase)

	refAA := TranslateCodon(refCodon)
	altAA := TranslateCodon(altCodon)
	orig := eff.OriginalProteinSequence

	switch {
	case refAA == altAA:
		eff.Class = ClassSilent
		eff.MutantProteinSequence = orig

	case altAA == '*':
		eff.Class = ClassPrematureStop
		eff.RefAminoAcids = string(refAA)
		eff.AltAminoAcids = "*"
		eff.AAMutationStartOffset, eff.AAMutationEndOffset = offsetRange(int(codonNum)-1, len(orig))
		if int(codonNum)-1 <= len(orig) {
			eff.MutantProteinSequence = orig[:codonNum-1]
		}

	case refAA == '*':
		eff.Class = ClassStopLoss
		eff.RefAminoAcids = "*"
		eff.AltAminoAcids = string(altAA)
		eff.AAMutationStartOffset, eff.AAMutationEndOffset = offsetRange(len(orig), len(orig))
		if mut, _, ok := spliceVariantIntoCDS(tv, tx); ok {
			eff.MutantProteinSequence = TranslateToStop(mut + tx.UTR3Sequence)
		}

	case refAA == 'M' && codonNum == 1:
		return startLossEffect(eff, string(altAA))

	default:
		eff.Class = ClassSubstitution
		eff.RefAminoAcids = string(refAA)
		eff.AltAminoAcids = string(altAA)
		eff.AAMutationStartOffset, eff.AAMutationEndOffset = offsetRange(int(codonNum)-1, int(codonNum))
		if int(codonNum) <= len(orig) {
			eff.MutantProteinSequence = orig[:codonNum-1] + string(altAA) + orig[codonNum:]
		}
	}
	return eff
}

func startLossEffect(eff *Effect, altAA string) *Effect {
	eff.Class = ClassStartLoss
	eff.ProteinPosition = 1
	eff.RefAminoAcids = "M"
	eff.AltAminoAcids = altAA
	eff.AAMutationStartOffset, eff.AAMutationEndOffset = offsetRange(0, 1)
	eff.MutantProteinSequence = ""
	return eff
}

func stopLossEffect(tv *vcf.Variant, tx *genome.Transcript, eff *Effect) *Effect {
	eff.Class = ClassStopLoss
	orig := eff.OriginalProteinSequence
	eff.RefAminoAcids = "*"
	eff.ProteinPosition = int64(len(orig)) + 1
	eff.AAMutationStartOffset, eff.AAMutationEndOffset = offsetRange(len(orig), len(orig))
	if mut, _, ok := spliceVariantIntoCDS(tv, tx); ok {
		eff.MutantProteinSequence = TranslateToStop(mut + tx.UTR3Sequence)
		if len(eff.MutantProteinSequence) > len(orig) {
			eff.AltAminoAcids = string(eff.MutantProteinSequence[len(orig)])
		}
	}
	return eff
}

// spliceVariantIntoCDS builds the mutant coding sequence with the variant
// applied on the coding strand. idx is the 0-based CDS index where the
// change begins. ok is false when the variant cannot be fully mapped into
// the CDS (missing sequence, outside the CDS, or crossing an intron).
func spliceVariantIntoCDS(tv *vcf.Variant, tx *genome.Transcript) (mut string, idx int, ok bool) {
	cds := tx.CDSSequence
	if cds == "" {
		return "", 0, false
	}

	// Insertion between tv.Pos and tv.Pos+1
	if tv.Ref == "" {
		altCoding := tv.Alt
		var c int64
		if tx.IsForwardStrand() {
			// Inserted bases follow the anchor base in coding order
			c = GenomicToCDS(tv.Pos, tx)
		} else {
			// On the reverse strand the base after the anchor comes first
			// in coding order, so the insertion precedes the anchor
			altCoding = ReverseComplement(tv.Alt)
			c = GenomicToCDS(tv.Pos+1, tx)
		}
		if c < 1 || int(c) > len(cds) {
			return "", 0, false
		}
		idx = int(c)
		return cds[:idx] + altCoding + cds[idx:], idx, true
	}

	first := tv.Pos
	last := tv.Pos + int64(len(tv.Ref)) - 1

	cA := GenomicToCDS(first, tx)
	cB := GenomicToCDS(last, tx)
	if cA < 1 || cB < 1 {
		return "", 0, false
	}
	span := cB - cA
	if span < 0 {
		span = -span
	}
	if span+1 != int64(len(tv.Ref)) {
		// The genomic span covers intronic bases
		return "", 0, false
	}

	refCoding, altCoding := tv.Ref, tv.Alt
	c := cA
	if tx.IsReverseStrand() {
		refCoding = ReverseComplement(tv.Ref)
		altCoding = ReverseComplement(tv.Alt)
		c = cB
	}

	idx = int(c) - 1
	end := idx + len(refCoding)
	if end > len(cds) {
		return "", 0, false
	}
	return cds[:idx] + altCoding + cds[end:], idx, true
}

// diffProteins finds the changed region between two protein sequences:
// the 0-based index of the first difference, the amino acids removed from
// orig, and the amino acids added in mut.
func diffProteins(orig, mut string) (first int, deleted, inserted string) {
	for first < len(orig) && first < len(mut) && orig[first] == mut[first] {
		first++
	}
	oi, mi := len(orig)-1, len(mut)-1
	for oi >= first && mi >= first && orig[oi] == mut[mi] {
		oi--
		mi--
	}
	if oi >= first {
		deleted = orig[first : oi+1]
	}
	if mi >= first {
		inserted = mut[first : mi+1]
	}
	return
}

// originalProtein returns the transcript's reference protein, translating
// the CDS on demand.
func originalProtein(tx *genome.Transcript) string {
	if tx.ProteinSequence != "" {
		return tx.ProteinSequence
	}
	return TranslateToStop(tx.CDSSequence)
}

// affectedSpan returns the inclusive genomic range touched by a trimmed
// variant. Insertions straddle the junction between Pos and Pos+1.
func affectedSpan(tv *vcf.Variant) (int64, int64) {
	if tv.Ref == "" {
		return tv.Pos, tv.Pos + 1
	}
	return tv.Pos, tv.Pos + int64(len(tv.Ref)) - 1
}

func utrClass(pos int64, t *genome.Transcript) string {
	if t.IsForwardStrand() {
		if pos < t.CDSStart {
			return ClassFivePrimeUTR
		}
		if pos > t.CDSEnd {
			return ClassThreePrimeUTR
		}
	} else {
		if pos > t.CDSEnd {
			return ClassFivePrimeUTR
		}
		if pos < t.CDSStart {
			return ClassThreePrimeUTR
		}
	}
	return ""
}

// spliceSiteClass reports a splice donor/acceptor hit for a single
// position at ±1-2bp on the intron side of an exon boundary.
//
// Forward strand: exon.End+1/+2 = donor, exon.Start-1/-2 = acceptor.
// Reverse strand: the roles swap.
func spliceSiteClass(pos int64, t *genome.Transcript) string {
	for i := range t.Exons {
		e := &t.Exons[i]
		if pos == e.End+1 || pos == e.End+2 {
			if t.IsForwardStrand() {
				return ClassSpliceDonor
			}
			return ClassSpliceAcceptor
		}
		if pos == e.Start-1 || pos == e.Start-2 {
			if t.IsForwardStrand() {
				return ClassSpliceAcceptor
			}
			return ClassSpliceDonor
		}
	}
	return ""
}

// indelSpliceClass scans a multi-base indel's span for splice site overlap.
func indelSpliceClass(tv *vcf.Variant, t *genome.Transcript) string {
	if !tv.IsIndel() || len(tv.Ref) <= 1 {
		return ""
	}
	endPos := tv.Pos + int64(len(tv.Ref)) - 1
	for pos := tv.Pos; pos <= endPos; pos++ {
		if class := spliceSiteClass(pos, t); class != "" {
			return class
		}
	}
	return ""
}

func spansStartCodon(first, last int64, t *genome.Transcript) bool {
	scStart, scEnd := t.CDSStart, t.CDSStart+2
	if !t.IsForwardStrand() {
		scStart, scEnd = t.CDSEnd-2, t.CDSEnd
	}
	return last >= scStart && first <= scEnd
}

func spansStopCodon(first, last int64, t *genome.Transcript) bool {
	scStart, scEnd := t.CDSEnd-2, t.CDSEnd
	if !t.IsForwardStrand() {
		scStart, scEnd = t.CDSStart, t.CDSStart+2
	}
	return last >= scStart && first <= scEnd
}

func offsetRange(start, end int) (*int64, *int64) {
	s, e := int64(start), int64(end)
	return &s, &e
}
