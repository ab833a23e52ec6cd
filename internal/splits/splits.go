// Package implementing the weight accumulator and the bounded split list.
// Each distinct k-mer votes once for the split its color-set induces; votes
// are folded into a scalar weight per split, and the top-weight splits are
// kept in an ordered list for the compatibility filters.
package splits

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/jsdoublel/sartre/internal/index"
	"github.com/jsdoublel/sartre/internal/taxa"
)

// Split is one candidate bipartition: the canonical side of the color-set
// and its weight.
type Split[C comparable] struct {
	Weight float64
	Set    C
}

// List is an ordered collection of splits, highest weight first, ties broken
// by ascending set encoding so that output never depends on hash iteration
// order. A positive bound keeps only the top entries; the lowest is evicted
// after each insertion beyond the bound.
type List[C comparable] struct {
	tc     taxa.Coder[C]
	top    int
	splits []Split[C]
}

// NewList returns an empty list bounded to the top entries by weight;
// top = 0 means unbounded.
func NewList[C comparable](tc taxa.Coder[C], top int) *List[C] {
	return &List[C]{tc: tc, top: top}
}

func (l *List[C]) order(a, b Split[C]) int {
	if r := cmp.Compare(b.Weight, a.Weight); r != 0 {
		return r
	}
	return l.tc.Cmp(a.Set, b.Set)
}

// Add inserts a split keeping the list ordered; duplicates are allowed.
func (l *List[C]) Add(weight float64, set C) {
	s := Split[C]{Weight: weight, Set: set}
	i, _ := slices.BinarySearchFunc(l.splits, s, l.order)
	l.splits = slices.Insert(l.splits, i, s)
	if l.top > 0 && len(l.splits) > l.top {
		l.splits = l.splits[:l.top]
	}
}

func (l *List[C]) Len() int { return len(l.splits) }

// Entries returns the splits in order, copied so filters can read the list
// independently.
func (l *List[C]) Entries() []Split[C] {
	return slices.Clone(l.splits)
}

// Weights returns just the weights in list order.
func (l *List[C]) Weights() []float64 {
	weights := make([]float64, len(l.splits))
	for i, s := range l.splits {
		weights[i] = s.Weight
	}
	return weights
}

// Accumulate drains the k-mer index into the split list. Every entry whose
// color-set is neither empty nor full votes once for its split: the vote
// lands in counter slot 0 if the color-set already was the canonical side,
// slot 1 if it had to be flipped. The mean function then folds each counter
// pair into a weight. The index is cleared afterwards to free its memory.
// The result does not depend on index iteration order.
func Accumulate[K, C comparable](ix *index.Index[K, C], tc taxa.Coder[C], mean MeanFunc, list *List[C], verbose bool) {
	counts := make(map[C][2]uint32)
	total := ix.Len()
	count := 0
	for _, colors := range ix.Entries() {
		count++
		if verbose {
			LogEveryNPercent(count, 10, total, fmt.Sprintf("accumulated %d of %d k-mers\n", count, total))
		}
		if tc.IsEmpty(colors) || tc.IsFull(colors) {
			continue
		}
		rep, flipped := tc.Rep(colors)
		pair := counts[rep]
		if flipped {
			pair[1]++
		} else {
			pair[0]++
		}
		counts[rep] = pair
	}
	ix.Reset()
	for set, pair := range counts {
		list.Add(mean(pair[0], pair[1]), set)
	}
}
