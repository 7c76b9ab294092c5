package render

import (
	"sort"
	"strconv"
	"strings"
)

// Count is one bucket of a tally.
type Count struct {
	Key string
	N   int
}

// Tally counts the non-blank keys of items, most frequent first and ties
// broken alphabetically.
func Tally[T any](items []T, key func(T) string) []Count {
	counts := make(map[string]int)
	for _, it := range items {
		if k := strings.TrimSpace(key(it)); k != "" {
			counts[k]++
		}
	}
	out := make([]Count, 0, len(counts))
	for k, n := range counts {
		out = append(out, Count{Key: k, N: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].N != out[j].N {
			return out[i].N > out[j].N
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// ByKey re-sorts a tally by key, numerically when both keys are integers.
func ByKey(counts []Count, desc bool) []Count {
	out := make([]Count, len(counts))
	copy(out, counts)
	sort.SliceStable(out, func(i, j int) bool {
		if desc {
			return keyLess(out[j].Key, out[i].Key)
		}
		return keyLess(out[i].Key, out[j].Key)
	})
	return out
}

// Top returns at most n buckets.
func Top(counts []Count, n int) []Count {
	if len(counts) > n {
		return counts[:n]
	}
	return counts
}

// YearRange returns the smallest and largest integer year in years.
func YearRange(years []string) (lo, hi int, ok bool) {
	for _, y := range years {
		n, err := strconv.Atoi(strings.TrimSpace(y))
		if err != nil {
			continue
		}
		if !ok || n < lo {
			lo = n
		}
		if !ok || n > hi {
			hi = n
		}
		ok = true
	}
	return lo, hi, ok
}

func keyLess(a, b string) bool {
	x, errA := strconv.Atoi(a)
	y, errB := strconv.Atoi(b)
	if errA == nil && errB == nil {
		return x < y
	}
	return a < b
}
