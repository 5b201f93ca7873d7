package vcf

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Regexes for variant literal parsing.
var (
	// Separator form: chr12:25245350:C:A  or  12-25245350-C-A  or  chr12:25245350:C>A
	reSeparator = regexp.MustCompile(`^(chr)?(\w+)[:\-](\d+)[:\-]([ACGTNacgtn]+)[>:\-/]([ACGTNacgtn]+)$`)
	// Genomic notation: chr12:g.25245350C>A  or  12 g.25245350C>A
	reGenomic = regexp.MustCompile(`^(chr)?(\w+)[:\s]g\.(\d+)([ACGTNacgtn]+)>([ACGTNacgtn]+)$`)
)

// ParseVariantSpec parses a variant literal such as "chr12:25245350:C:A",
// "12-25245350-C-A" or "chr12:g.25245350C>A" into a Variant.
func ParseVariantSpec(input string) (*Variant, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, fmt.Errorf("empty variant specification")
	}

	for _, re := range []*regexp.Regexp{reSeparator, reGenomic} {
		m := re.FindStringSubmatch(input)
		if m == nil {
			continue
		}
		pos, err := strconv.ParseInt(m[3], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid position in variant specification %q", input)
		}
		return &Variant{
			Chrom:  m[2],
			Pos:    pos,
			ID:     input,
			Ref:    strings.ToUpper(m[4]),
			Alt:    strings.ToUpper(m[5]),
			Filter: "PASS",
			Info:   map[string]interface{}{},
		}, nil
	}

	return nil, fmt.Errorf("cannot parse variant specification %q (expected chrom:pos:ref:alt or chrom:g.POSREF>ALT)", input)
}
