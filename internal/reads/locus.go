package reads

import (
	"github.com/openvax/isovar-go/internal/vcf"
)

// Locus is the pair of base-1 reference positions flanking a variant:
// the last base before the changed bases and the first base after them.
// For an insertion the two are the adjacent bases around the insertion
// point.
type Locus struct {
	Chrom       string
	Base1Before int64
	Base1After  int64
}

// Base0Before returns the base-0 form of the before boundary.
func (l Locus) Base0Before() int64 { return l.Base1Before - 1 }

// Base0After returns the base-0 form of the after boundary.
func (l Locus) Base0After() int64 { return l.Base1After - 1 }

// VariantLocus computes the flanking locus of a variant after trimming
// shared prefix and suffix bases.
func VariantLocus(v *vcf.Variant) Locus {
	tv := v.Trimmed()
	if len(tv.Ref) == 0 {
		// Insertion: the trimmed position is the base before the inserted
		// sequence
		return Locus{
			Chrom:       tv.Chrom,
			Base1Before: tv.Pos,
			Base1After:  tv.Pos + 1,
		}
	}
	return Locus{
		Chrom:       tv.Chrom,
		Base1Before: tv.Pos - 1,
		Base1After:  tv.Pos + int64(len(tv.Ref)),
	}
}
