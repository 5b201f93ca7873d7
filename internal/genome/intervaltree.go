package genome

import "sort"

// Ranged is implemented by annotation features that occupy a genomic interval.
type Ranged interface {
	Span() (start, end int64)
}

// IntervalTree provides O(log n + k) overlap queries using a sorted-slice
// approach. Features are loaded once and never modified after build.
type IntervalTree[T Ranged] struct {
	intervals []interval[T]
	maxEnd    []int64 // maxEnd[i] = max(End) for intervals[:i+1]
}

type interval[T Ranged] struct {
	start int64
	end   int64
	item  T
}

// BuildIntervalTree creates an interval tree from a slice of features.
func BuildIntervalTree[T Ranged](items []T) *IntervalTree[T] {
	if len(items) == 0 {
		return &IntervalTree[T]{}
	}

	intervals := make([]interval[T], len(items))
	for i, it := range items {
		s, e := it.Span()
		intervals[i] = interval[T]{start: s, end: e, item: it}
	}

	sort.Slice(intervals, func(i, j int) bool {
		return intervals[i].start < intervals[j].start
	})

	// Build prefix-max array: maxEnd[i] = max(end) for intervals[:i+1]
	maxEnd := make([]int64, len(intervals))
	maxEnd[0] = intervals[0].end
	for i := 1; i < len(intervals); i++ {
		maxEnd[i] = intervals[i].end
		if maxEnd[i-1] > maxEnd[i] {
			maxEnd[i] = maxEnd[i-1]
		}
	}

	return &IntervalTree[T]{intervals: intervals, maxEnd: maxEnd}
}

// Overlapping returns all features whose [Start, End] range intersects
// [start, end] (1-based, inclusive on both sides).
func (t *IntervalTree[T]) Overlapping(start, end int64) []T {
	if len(t.intervals) == 0 {
		return nil
	}

	var result []T

	// Binary search: find rightmost interval with start <= end.
	// All candidates must begin at or before the query end, so we only
	// need to scan from that boundary down to index 0.
	hi := sort.Search(len(t.intervals), func(i int) bool {
		return t.intervals[i].start > end
	})
	// hi is the first index with start > end; candidates are [0, hi).

	for i := hi - 1; i >= 0; i-- {
		// Prune: maxEnd[i] is the max end for intervals[:i+1].
		// If maxEnd[i] < start, no interval from 0..i can reach the query.
		if t.maxEnd[i] < start {
			break
		}
		if t.intervals[i].end >= start {
			result = append(result, t.intervals[i].item)
		}
	}

	return result
}

// At returns all features containing the single position pos.
func (t *IntervalTree[T]) At(pos int64) []T {
	return t.Overlapping(pos, pos)
}

// Len returns the number of features in the tree.
func (t *IntervalTree[T]) Len() int {
	return len(t.intervals)
}
