// Package vcf provides the variant model and VCF file parsing.
package vcf

// VariantSource is the interface for parsers that read variants.
// Both VCF and MAF parsers implement this interface.
type VariantSource interface {
	// Next reads the next variant.
	// Returns nil, nil when there are no more variants.
	Next() (*Variant, error)

	// Close closes the source and releases resources.
	Close() error

	// LineNumber returns the current line number being processed.
	LineNumber() int
}

// SliceSource is a VariantSource over an in-memory slice, used for
// variant literals given on the command line.
type SliceSource struct {
	variants []*Variant
	next     int
}

// NewSliceSource returns a source yielding the given variants in order.
func NewSliceSource(variants []*Variant) *SliceSource {
	return &SliceSource{variants: variants}
}

// Next returns the next variant, or nil, nil after the last one.
func (s *SliceSource) Next() (*Variant, error) {
	if s.next >= len(s.variants) {
		return nil, nil
	}
	v := s.variants[s.next]
	s.next++
	return v, nil
}

// Close is a no-op.
func (s *SliceSource) Close() error { return nil }

// LineNumber returns the number of variants yielded so far.
func (s *SliceSource) LineNumber() int { return s.next }
