// Package vcf provides the variant model and VCF file parsing.
package vcf

import (
	"fmt"
	"strings"
)

// Variant represents a single genomic variant.
type Variant struct {
	Chrom  string                 // Chromosome name (e.g., "12", "chr12")
	Pos    int64                  // 1-based genomic position
	ID     string                 // Variant identifier (e.g., rs ID)
	Ref    string                 // Reference allele
	Alt    string                 // Alternate allele (single allele after splitting)
	Qual   float64                // Quality score
	Filter string                 // Filter status (PASS or filter name)
	Info   map[string]interface{} // INFO field key-value pairs
}

// IsSNV returns true if the variant is a single nucleotide variant.
func (v *Variant) IsSNV() bool {
	return len(v.Ref) == 1 && len(v.Alt) == 1
}

// IsIndel returns true if the variant is an insertion or deletion.
func (v *Variant) IsIndel() bool {
	return len(v.Ref) != len(v.Alt)
}

// IsInsertion returns true if the variant is an insertion.
func (v *Variant) IsInsertion() bool {
	return len(v.Alt) > len(v.Ref)
}

// IsDeletion returns true if the variant is a deletion.
func (v *Variant) IsDeletion() bool {
	return len(v.Ref) > len(v.Alt)
}

// NormalizeChrom returns the chromosome name without "chr" prefix.
func (v *Variant) NormalizeChrom() string {
	if len(v.Chrom) > 3 && v.Chrom[:3] == "chr" {
		return v.Chrom[3:]
	}
	return v.Chrom
}

// Trimmed returns a copy of v with shared flanking bases removed from
// Ref/Alt and Pos adjusted accordingly. After trimming, Pos names the
// first changed reference base, except for insertions, which are
// anchored at the reference base immediately before the inserted
// sequence. Variants already minimal are returned unchanged (as a copy).
func (v *Variant) Trimmed() *Variant {
	ref, alt, pos := v.Ref, v.Alt, v.Pos

	prefix := 0
	for len(ref) > 0 && len(alt) > 0 && ref[0] == alt[0] {
		ref = ref[1:]
		alt = alt[1:]
		prefix++
	}
	for len(ref) > 0 && len(alt) > 0 && ref[len(ref)-1] == alt[len(alt)-1] {
		ref = ref[:len(ref)-1]
		alt = alt[:len(alt)-1]
	}

	if len(ref) == 0 {
		// Insertion: the last shared prefix base is the anchor. When the
		// caller already supplied an anchored insertion (empty ref), the
		// position is kept as-is.
		if prefix > 0 {
			pos += int64(prefix - 1)
		}
	} else {
		pos += int64(prefix)
	}

	out := *v
	out.Pos = pos
	out.Ref = ref
	out.Alt = alt
	return &out
}

// ShortDescription returns a compact human-readable description of the
// trimmed variant in genomic notation, e.g. "chr12 g.25245350C>A",
// "chr4 g.55593605_55593606insT" or "chr7 g.140453136_140453137delCT".
func (v *Variant) ShortDescription() string {
	chrom := "chr" + v.NormalizeChrom()
	if v.Ref == v.Alt {
		// No actual change; report the reference base(s) at the locus.
		return fmt.Sprintf("%s g.%d%s", chrom, v.Pos, v.Ref)
	}
	t := v.Trimmed()
	switch {
	case len(t.Ref) == 0:
		return fmt.Sprintf("%s g.%d_%dins%s", chrom, t.Pos, t.Pos+1, t.Alt)
	case len(t.Alt) == 0:
		return fmt.Sprintf("%s g.%d_%ddel%s", chrom, t.Pos, t.Pos+int64(len(t.Ref))-1, t.Ref)
	default:
		return fmt.Sprintf("%s g.%d%s>%s", chrom, t.Pos, t.Ref, t.Alt)
	}
}

// String implements fmt.Stringer.
func (v *Variant) String() string {
	ref, alt := v.Ref, v.Alt
	if ref == "" {
		ref = "-"
	}
	if alt == "" {
		alt = "-"
	}
	return fmt.Sprintf("%s:%d %s>%s", v.Chrom, v.Pos, ref, alt)
}

// CleanAllele normalizes an allele string: placeholder values used by
// MAF and some callers ("-", ".", "") become the empty allele, and
// bases are uppercased.
func CleanAllele(allele string) string {
	allele = strings.TrimSpace(allele)
	if allele == "-" || allele == "." {
		return ""
	}
	return strings.ToUpper(allele)
}
