package util

import (
	"iter"
	"sort"
)

// TransformSlice maps every element of in with converter, keeping order.
func TransformSlice[T any, R any](in []T, converter func(T) R) []R {
	out := make([]R, len(in))
	for i, v := range in {
		out[i] = converter(v)
	}
	return out
}

// FilterSlice returns the elements of in for which keep returns true, in
// their original order. The input is not modified.
func FilterSlice[T any](in []T, keep func(T) bool) []T {
	var out []T
	for _, v := range in {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}

// CanonicalMapIter yields the entries of m sorted by key, so that output
// built from a map, such as test runs or dumps, does not depend on map order.
func CanonicalMapIter[T any](m map[string]T) iter.Seq2[string, T] {
	return func(yield func(string, T) bool) {
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			if !yield(k, m[k]) {
				return
			}
		}
	}
}
