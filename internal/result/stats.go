package result

import (
	"math"
	"sort"

	"github.com/openvax/isovar-go/internal/reads"
)

// statRegistry is the closed set of filterable statistics. Filter names
// reference these fields, and ToRecord emits them in alphabetical order;
// adding a statistic here is the only way to make it filterable.
var statRegistry = map[string]func(*Result) float64{
	"num_ref_reads":       func(r *Result) float64 { return float64(r.numRefReads()) },
	"num_alt_reads":       func(r *Result) float64 { return float64(r.numAltReads()) },
	"num_other_reads":     func(r *Result) float64 { return float64(r.numOtherReads()) },
	"num_ref_fragments":   func(r *Result) float64 { return float64(r.numRefFragments()) },
	"num_alt_fragments":   func(r *Result) float64 { return float64(r.numAltFragments()) },
	"num_other_fragments": func(r *Result) float64 { return float64(r.numOtherFragments()) },
	"num_total_reads":     func(r *Result) float64 { return float64(r.numTotalReads()) },
	"num_total_fragments": func(r *Result) float64 { return float64(r.numTotalFragments()) },

	"fraction_ref_reads": func(r *Result) float64 {
		return safeDiv(float64(r.numRefReads()), float64(r.numTotalReads()))
	},
	"fraction_alt_reads": func(r *Result) float64 {
		return safeDiv(float64(r.numAltReads()), float64(r.numTotalReads()))
	},
	"fraction_other_reads": func(r *Result) float64 {
		return safeDiv(float64(r.numOtherReads()), float64(r.numTotalReads()))
	},
	"fraction_ref_fragments": func(r *Result) float64 {
		return safeDiv(float64(r.numRefFragments()), float64(r.numTotalFragments()))
	},
	"fraction_alt_fragments": func(r *Result) float64 {
		return safeDiv(float64(r.numAltFragments()), float64(r.numTotalFragments()))
	},
	"fraction_other_fragments": func(r *Result) float64 {
		return safeDiv(float64(r.numOtherFragments()), float64(r.numTotalFragments()))
	},

	"ratio_other_to_ref_reads": func(r *Result) float64 {
		return safeDiv(float64(r.numOtherReads()), float64(r.numRefReads()))
	},
	"ratio_other_to_alt_reads": func(r *Result) float64 {
		return safeDiv(float64(r.numOtherReads()), float64(r.numAltReads()))
	},
	"ratio_ref_to_other_reads": func(r *Result) float64 {
		return safeDiv(float64(r.numRefReads()), float64(r.numOtherReads()))
	},
	"ratio_alt_to_other_reads": func(r *Result) float64 {
		return safeDiv(float64(r.numAltReads()), float64(r.numOtherReads()))
	},
	"ratio_other_to_ref_fragments": func(r *Result) float64 {
		return safeDiv(float64(r.numOtherFragments()), float64(r.numRefFragments()))
	},
	"ratio_other_to_alt_fragments": func(r *Result) float64 {
		return safeDiv(float64(r.numOtherFragments()), float64(r.numAltFragments()))
	},
	"ratio_ref_to_other_fragments": func(r *Result) float64 {
		return safeDiv(float64(r.numRefFragments()), float64(r.numOtherFragments()))
	},
	"ratio_alt_to_other_fragments": func(r *Result) float64 {
		return safeDiv(float64(r.numAltFragments()), float64(r.numOtherFragments()))
	},
}

// statNames is the registry's key set, sorted once at init.
var statNames = func() []string {
	names := make([]string, 0, len(statRegistry))
	for name := range statRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}()

// StatNames returns every statistic name in alphabetical order.
func StatNames() []string {
	out := make([]string, len(statNames))
	copy(out, statNames)
	return out
}

// Stat computes the named statistic. The second return is false for names
// outside the registry.
func (r *Result) Stat(name string) (float64, bool) {
	fn, ok := statRegistry[name]
	if !ok {
		return 0, false
	}
	return fn(r), true
}

// safeDiv divides, mapping a zero denominator to NaN.
func safeDiv(num, denom float64) float64 {
	if denom == 0 {
		return math.NaN()
	}
	return num / denom
}

func (r *Result) numRefReads() int {
	if r.ReadEvidence == nil {
		return 0
	}
	return r.ReadEvidence.NumRefReads()
}

func (r *Result) numAltReads() int {
	if r.ReadEvidence == nil {
		return 0
	}
	return r.ReadEvidence.NumAltReads()
}

func (r *Result) numOtherReads() int {
	if r.ReadEvidence == nil {
		return 0
	}
	return r.ReadEvidence.NumOtherReads()
}

func (r *Result) numRefFragments() int {
	if r.ReadEvidence == nil {
		return 0
	}
	return r.ReadEvidence.NumRefFragments()
}

func (r *Result) numAltFragments() int {
	if r.ReadEvidence == nil {
		return 0
	}
	return r.ReadEvidence.NumAltFragments()
}

func (r *Result) numOtherFragments() int {
	if r.ReadEvidence == nil {
		return 0
	}
	return r.ReadEvidence.NumOtherFragments()
}

func (r *Result) numTotalReads() int {
	return r.numRefReads() + r.numAltReads() + r.numOtherReads()
}

// numTotalFragments counts distinct read names across all three groups.
// A fragment whose mates land in different groups still counts once.
func (r *Result) numTotalFragments() int {
	if r.ReadEvidence == nil {
		return 0
	}
	return reads.CountFragments(r.ReadEvidence.AllReads())
}
