package command

import (
	"iter"
	"slices"
)

// Combinations gives every way to split have words among the given number of
// placeholders such that each placeholder gets at least one word. Each
// yielded slice has one element per placeholder and its elements sum to have.
//
// The order is greedy-leftmost-largest: the first placeholder is given as many
// words as it can possibly take, and for each amount it is given, the
// remaining words are split among the rest of the placeholders by the same
// rule. For example, Combinations(4, 2) yields [3 1], [2 2], [1 3].
//
// If have is less than placeholders, nothing is yielded. The returned sequence
// may be ranged over any number of times, and each yielded slice is a fresh
// copy that the caller may keep.
func Combinations(have, placeholders int) iter.Seq[[]int] {
	return func(yield func([]int) bool) {
		if placeholders < 0 || have < 0 {
			return
		}
		buckets := make([]int, placeholders)
		compose(buckets, 0, have, yield)
	}
}

// compose fills buckets[pos:] with every split of have words and yields the
// full buckets slice for each. It returns false if yield asked to stop.
func compose(buckets []int, pos int, have int, yield func([]int) bool) bool {
	slots := len(buckets) - pos

	switch {
	case have < slots:
		return true
	case have == slots:
		for i := pos; i < len(buckets); i++ {
			buckets[i] = 1
		}
		return yield(slices.Clone(buckets))
	case slots == 1:
		buckets[pos] = have
		return yield(slices.Clone(buckets))
	case slots == 0:
		// words left over with nowhere to put them
		return true
	}

	// greedy; start by taking everything the others don't need, then back off
	for take := have - (slots - 1); take > 0; take-- {
		buckets[pos] = take
		if !compose(buckets, pos+1, have-take, yield) {
			return false
		}
	}
	return true
}
