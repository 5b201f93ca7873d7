package reads

import (
	"github.com/openvax/isovar-go/internal/vcf"
)

// Evidence partitions the allele reads at a variant locus by the allele
// they carry: exact matches of the trimmed alt, exact matches of the
// trimmed ref, and everything else.
type Evidence struct {
	// Base1Start is the base-1 position of the first changed reference
	// base (for insertions, the position following the anchor base).
	Base1Start int64
	Ref        string
	Alt        string

	RefReads   []*AlleleRead
	AltReads   []*AlleleRead
	OtherReads []*AlleleRead
}

// GatherEvidence groups allele reads by comparing each read's allele with
// the variant's trimmed ref and alt alleles.
func GatherEvidence(v *vcf.Variant, alleleReads []*AlleleRead) *Evidence {
	tv := v.Trimmed()
	locus := VariantLocus(v)

	ev := &Evidence{
		Base1Start: locus.Base1Before + 1,
		Ref:        tv.Ref,
		Alt:        tv.Alt,
	}

	for _, r := range alleleReads {
		switch r.Allele {
		case tv.Alt:
			ev.AltReads = append(ev.AltReads, r)
		case tv.Ref:
			ev.RefReads = append(ev.RefReads, r)
		default:
			ev.OtherReads = append(ev.OtherReads, r)
		}
	}
	return ev
}

// AllReads returns ref, alt, and other reads as one slice, in that order.
func (ev *Evidence) AllReads() []*AlleleRead {
	all := make([]*AlleleRead, 0, len(ev.RefReads)+len(ev.AltReads)+len(ev.OtherReads))
	all = append(all, ev.RefReads...)
	all = append(all, ev.AltReads...)
	all = append(all, ev.OtherReads...)
	return all
}

// NumRefReads returns the count of reads carrying the reference allele.
func (ev *Evidence) NumRefReads() int { return len(ev.RefReads) }

// NumAltReads returns the count of reads carrying the alt allele.
func (ev *Evidence) NumAltReads() int { return len(ev.AltReads) }

// NumOtherReads returns the count of reads carrying any other allele.
func (ev *Evidence) NumOtherReads() int { return len(ev.OtherReads) }

// NumRefFragments counts distinct fragments among the ref reads.
func (ev *Evidence) NumRefFragments() int { return CountFragments(ev.RefReads) }

// NumAltFragments counts distinct fragments among the alt reads.
func (ev *Evidence) NumAltFragments() int { return CountFragments(ev.AltReads) }

// NumOtherFragments counts distinct fragments among the other reads.
func (ev *Evidence) NumOtherFragments() int { return CountFragments(ev.OtherReads) }
