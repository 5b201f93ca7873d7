package reads

import "strings"

// AlleleRead is a locus read split around the variant: the bases before
// the locus, the bases at the locus (the read's allele), and the bases
// after. Never mutated after construction.
type AlleleRead struct {
	Name   string
	Prefix string
	Allele string
	Suffix string
}

// NewAlleleRead splits a LocusRead around its variant offsets. Returns nil
// when the offsets are inconsistent or the allele contains an ambiguous N
// base.
func NewAlleleRead(lr *LocusRead) *AlleleRead {
	before := lr.ReadPosBeforeVariant
	after := lr.ReadPosAfterVariant
	if before < 0 || after < before+1 || after > len(lr.Sequence) {
		return nil
	}

	allele := lr.Sequence[before+1 : after]
	if strings.ContainsRune(allele, 'N') {
		return nil
	}

	return &AlleleRead{
		Name:   lr.Name,
		Prefix: lr.Sequence[:before+1],
		Allele: allele,
		Suffix: lr.Sequence[after:],
	}
}

// CountFragments counts distinct read names, so that mate pairs sharing a
// name count once.
func CountFragments(alleleReads []*AlleleRead) int {
	names := make(map[string]struct{}, len(alleleReads))
	for _, r := range alleleReads {
		names[r.Name] = struct{}{}
	}
	return len(names)
}
