package effect

import "fmt"

// ShortDescription renders the effect as a compact human-readable string,
// using p. protein notation for coding effects.
func (e *Effect) ShortDescription() string {
	switch e.Class {
	case ClassIntergenic:
		return "intergenic"
	case ClassDownstream:
		return "downstream"
	case ClassUpstream:
		return "upstream"
	case ClassNoncodingTranscript:
		return "non-coding transcript"
	case ClassIntronic:
		return "intronic"
	case ClassThreePrimeUTR:
		return "3' UTR"
	case ClassFivePrimeUTR:
		return "5' UTR"
	case ClassSilent:
		return "silent"
	case ClassSpliceDonor:
		return "splice-donor"
	case ClassSpliceAcceptor:
		return "splice-acceptor"
	case ClassStartLoss:
		return "p.M1?"

	case ClassSubstitution:
		if e.RefAminoAcids == "" {
			return "substitution"
		}
		return fmt.Sprintf("p.%s%d%s", e.RefAminoAcids, e.ProteinPosition, e.AltAminoAcids)

	case ClassPrematureStop:
		if e.RefAminoAcids == "" {
			return fmt.Sprintf("p.%d*", e.ProteinPosition)
		}
		return fmt.Sprintf("p.%s%d*", e.RefAminoAcids, e.ProteinPosition)

	case ClassStopLoss:
		if e.AltAminoAcids == "" {
			return "stop-loss"
		}
		return fmt.Sprintf("p.*%d%s", e.ProteinPosition, e.AltAminoAcids)

	case ClassInsertion:
		if e.AltAminoAcids == "" {
			return "insertion"
		}
		if e.RefAminoAcids != "" {
			return fmt.Sprintf("p.%s%ddelins%s", e.RefAminoAcids, e.ProteinPosition, e.AltAminoAcids)
		}
		return fmt.Sprintf("p.%d_%dins%s", e.ProteinPosition, e.ProteinPosition+1, e.AltAminoAcids)

	case ClassDeletion:
		if e.RefAminoAcids == "" {
			return "deletion"
		}
		if e.AltAminoAcids != "" {
			return fmt.Sprintf("p.%s%ddelins%s", e.RefAminoAcids, e.ProteinPosition, e.AltAminoAcids)
		}
		if len(e.RefAminoAcids) == 1 {
			return fmt.Sprintf("p.%s%ddel", e.RefAminoAcids, e.ProteinPosition)
		}
		return fmt.Sprintf("p.%c%d_%c%ddel",
			e.RefAminoAcids[0], e.ProteinPosition,
			e.RefAminoAcids[len(e.RefAminoAcids)-1],
			e.ProteinPosition+int64(len(e.RefAminoAcids))-1)

	case ClassFrameShift:
		if e.RefAminoAcids == "" {
			return "frameshift"
		}
		return fmt.Sprintf("p.%s%dfs", e.RefAminoAcids, e.ProteinPosition)
	}
	return e.Class
}

func (e *Effect) String() string {
	variant := "?"
	if e.Variant != nil {
		variant = e.Variant.ShortDescription()
	}
	if e.TranscriptID == "" {
		return fmt.Sprintf("%s(%s)", e.Class, variant)
	}
	return fmt.Sprintf("%s(%s, %s, %s)", e.Class, variant, e.TranscriptID, e.ShortDescription())
}
