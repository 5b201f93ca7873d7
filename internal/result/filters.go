package result

import (
	"fmt"
	"math"
	"strings"
)

// FilterThresholds is an ordered mapping from filter name to numeric
// cutoff. Names look like min_num_alt_reads or max_ratio_other_to_alt_reads:
// a comparison prefix followed by a statistic from the registry.
type FilterThresholds struct {
	names  []string
	cutoff map[string]float64
}

// NewFilterThresholds creates an empty threshold set.
func NewFilterThresholds() *FilterThresholds {
	return &FilterThresholds{cutoff: make(map[string]float64)}
}

// DefaultFilterThresholds returns the default filters of the original
// tool: at least two alt reads, at least two alt fragments, and any
// nonzero alt read fraction.
func DefaultFilterThresholds() *FilterThresholds {
	t := NewFilterThresholds()
	t.Set("min_num_alt_reads", 2)
	t.Set("min_num_alt_fragments", 2)
	t.Set("min_fraction_alt_reads", 0.0)
	return t
}

// Set stores a cutoff under name. An existing name keeps its position.
func (t *FilterThresholds) Set(name string, cutoff float64) {
	if _, ok := t.cutoff[name]; !ok {
		t.names = append(t.names, name)
	}
	t.cutoff[name] = cutoff
}

// Get returns the cutoff for name and whether it exists.
func (t *FilterThresholds) Get(name string) (float64, bool) {
	c, ok := t.cutoff[name]
	return c, ok
}

// Names returns the filter names in insertion order.
func (t *FilterThresholds) Names() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

// Len returns the number of thresholds.
func (t *FilterThresholds) Len() int {
	return len(t.names)
}

// FilterValues is an ordered mapping from filter name to pass/fail.
type FilterValues struct {
	names  []string
	passed map[string]bool
}

// NewFilterValues creates an empty value set.
func NewFilterValues() *FilterValues {
	return &FilterValues{passed: make(map[string]bool)}
}

// Set stores an outcome under name. An existing name keeps its position.
func (v *FilterValues) Set(name string, pass bool) {
	if _, ok := v.passed[name]; !ok {
		v.names = append(v.names, name)
	}
	v.passed[name] = pass
}

// Get returns the outcome for name and whether it exists.
func (v *FilterValues) Get(name string) (bool, bool) {
	p, ok := v.passed[name]
	return p, ok
}

// Names returns the filter names in insertion order.
func (v *FilterValues) Names() []string {
	out := make([]string, len(v.names))
	copy(out, v.names)
	return out
}

// Len returns the number of values.
func (v *FilterValues) Len() int {
	return len(v.names)
}

// Clone returns an independent copy preserving order.
func (v *FilterValues) Clone() *FilterValues {
	out := NewFilterValues()
	if v == nil {
		return out
	}
	for _, name := range v.names {
		out.Set(name, v.passed[name])
	}
	return out
}

// ApplyFilters evaluates thresholds against this result in order. A
// malformed filter name or a name referencing an unknown statistic is a
// configuration error and aborts evaluation.
func (r *Result) ApplyFilters(thresholds *FilterThresholds) (*FilterValues, error) {
	out := NewFilterValues()
	if thresholds == nil {
		return out, nil
	}
	for _, name := range thresholds.Names() {
		cutoff, _ := thresholds.Get(name)
		pass, err := r.evaluateFilter(name, cutoff)
		if err != nil {
			return nil, err
		}
		out.Set(name, pass)
	}
	return out, nil
}

// evaluateFilter checks one threshold. NaN statistics fail both min and
// max comparisons, so fractions over an empty denominator never pass.
func (r *Result) evaluateFilter(name string, cutoff float64) (bool, error) {
	parts := strings.SplitN(name, "_", 2)
	if len(parts) != 2 || (parts[0] != "min" && parts[0] != "max") {
		return false, fmt.Errorf("filter %q: name must start with min_ or max_", name)
	}

	field := parts[1]
	value, ok := r.Stat(field)
	if !ok {
		return false, fmt.Errorf("filter %q: unknown field %q", name, field)
	}
	if math.IsNaN(value) {
		return false, nil
	}
	if parts[0] == "min" {
		return value >= cutoff, nil
	}
	return value <= cutoff, nil
}

// CloneWithExtraFilters evaluates additional thresholds and returns a
// clone whose filter values are the merge of the existing ones and the
// new outcomes. Re-used names are overwritten in place, new names are
// appended; the receiver's own filter values are untouched.
func (r *Result) CloneWithExtraFilters(thresholds *FilterThresholds) (*Result, error) {
	extra, err := r.ApplyFilters(thresholds)
	if err != nil {
		return nil, err
	}

	merged := r.FilterValues.Clone()
	for _, name := range extra.Names() {
		pass, _ := extra.Get(name)
		merged.Set(name, pass)
	}
	return r.CloneWith(WithFilterValues(merged)), nil
}

// PassesAllFilters reports whether every filter value is true. A result
// with no filters passes.
func (r *Result) PassesAllFilters() bool {
	if r.FilterValues == nil {
		return true
	}
	for _, name := range r.FilterValues.names {
		if !r.FilterValues.passed[name] {
			return false
		}
	}
	return true
}
