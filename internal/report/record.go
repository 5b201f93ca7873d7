// Package report defines the flat per-variant record emitted for tabular output.
package report

// Record is an ordered key/value mapping representing one row of a report.
// Keys keep their insertion order; setting an existing key overwrites its
// value in place. Values may be nil to mark a field with no data.
type Record struct {
	keys   []string
	values map[string]any
}

// NewRecord creates an empty record.
func NewRecord() *Record {
	return &Record{values: make(map[string]any)}
}

// Set stores a value under key, appending the key on first use.
func (r *Record) Set(key string, value any) {
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

// Get returns the value stored under key and whether the key exists.
func (r *Record) Get(key string) (any, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Keys returns the record's keys in insertion order.
func (r *Record) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Len returns the number of keys in the record.
func (r *Record) Len() int {
	return len(r.keys)
}
