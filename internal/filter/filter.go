// Package implementing the greedy compatibility filters. Candidates are
// drawn from the split list in weight-descending order; each is accepted iff
// it passes the filter's compatibility test against everything accepted so
// far, so the result is a greedy maximum-weight compatible subset.
package filter

import (
	"fmt"
	"log"
	"strings"

	"github.com/jsdoublel/sartre/internal/newick"
	"github.com/jsdoublel/sartre/internal/splits"
	"github.com/jsdoublel/sartre/internal/taxa"
)

// StrictlyCompatible reports whether two splits can coexist as edges of one
// unrooted tree: at least one of the four intersections of their sides must
// be empty.
func StrictlyCompatible[C comparable](tc taxa.Coder[C], a, b C) bool {
	na, nb := tc.Not(a), tc.Not(b)
	return tc.Disjoint(a, b) || tc.Disjoint(a, nb) ||
		tc.Disjoint(na, b) || tc.Disjoint(na, nb)
}

// WeaklyCompatible reports the Bandelt-Dress condition on a triple of
// splits: among the eight triple intersections of the sides, at least one of
// the four even-orientation ones and at least one of the four odd-orientation
// ones must be empty. A pairwise strictly compatible set always passes.
func WeaklyCompatible[C comparable](tc taxa.Coder[C], a, b, c C) bool {
	na, nb, nc := tc.Not(a), tc.Not(b), tc.Not(c)
	even := empty3(tc, a, b, c) || empty3(tc, a, nb, nc) ||
		empty3(tc, na, b, nc) || empty3(tc, na, nb, c)
	if !even {
		return false
	}
	return empty3(tc, na, nb, nc) || empty3(tc, na, b, c) ||
		empty3(tc, a, nb, c) || empty3(tc, a, b, nc)
}

func empty3[C comparable](tc taxa.Coder[C], a, b, c C) bool {
	return tc.IsEmpty(tc.Inter(tc.Inter(a, b), c))
}

// Strict greedily selects a maximum-weight subset in which every pair is
// strictly compatible; the result is the edge set of a single unrooted tree.
func Strict[C comparable](tc taxa.Coder[C], list *splits.List[C], verbose bool) []splits.Split[C] {
	candidates := list.Entries()
	accepted := make([]splits.Split[C], 0, len(candidates))
	for i, s := range candidates {
		if verbose {
			splits.LogEveryNPercent(i+1, 10, len(candidates), fmt.Sprintf("filtered %d of %d splits\n", i+1, len(candidates)))
		}
		if compatibleWithAll(tc, s.Set, accepted) {
			accepted = append(accepted, s)
		}
	}
	log.Printf("strict filter kept %d of %d splits\n", len(accepted), len(candidates))
	return accepted
}

func compatibleWithAll[C comparable](tc taxa.Coder[C], side C, accepted []splits.Split[C]) bool {
	for _, a := range accepted {
		if !StrictlyCompatible(tc, side, a.Set) {
			return false
		}
	}
	return true
}

// Weakly greedily selects a maximum-weight subset in which every triple is
// weakly compatible; the result corresponds to a split network rather than
// a tree. Triples impose no constraint until two splits are accepted, so
// the first two candidates always pass.
func Weakly[C comparable](tc taxa.Coder[C], list *splits.List[C], verbose bool) []splits.Split[C] {
	candidates := list.Entries()
	accepted := make([]splits.Split[C], 0, len(candidates))
	for i, s := range candidates {
		if verbose {
			splits.LogEveryNPercent(i+1, 10, len(candidates), fmt.Sprintf("filtered %d of %d splits\n", i+1, len(candidates)))
		}
		ok := true
	pairs:
		for j := range accepted {
			for l := j + 1; l < len(accepted); l++ {
				if !WeaklyCompatible(tc, s.Set, accepted[j].Set, accepted[l].Set) {
					ok = false
					break pairs
				}
			}
		}
		if ok {
			accepted = append(accepted, s)
		}
	}
	log.Printf("weak filter kept %d of %d splits\n", len(accepted), len(candidates))
	return accepted
}

// NTree greedily fills n independent strictly compatible sets: each
// candidate is accepted into the first set it is compatible with and dropped
// only if it fits none. The sets correspond to up to n trees.
func NTree[C comparable](n int, tc taxa.Coder[C], list *splits.List[C], verbose bool) [][]splits.Split[C] {
	if n < 1 {
		panic(fmt.Sprintf("invalid number of trees (%d)", n))
	}
	candidates := list.Entries()
	forest := make([][]splits.Split[C], n)
	for i := range forest {
		forest[i] = make([]splits.Split[C], 0)
	}
	kept := 0
	for i, s := range candidates {
		if verbose {
			splits.LogEveryNPercent(i+1, 10, len(candidates), fmt.Sprintf("filtered %d of %d splits\n", i+1, len(candidates)))
		}
		for t := range forest {
			if compatibleWithAll(tc, s.Set, forest[t]) {
				forest[t] = append(forest[t], s)
				kept++
				break
			}
		}
	}
	log.Printf("%d-tree filter kept %d of %d splits\n", n, kept, len(candidates))
	return forest
}

// StrictNewick runs the strict filter and serializes the resulting tree.
func StrictNewick[C comparable](tc taxa.Coder[C], list *splits.List[C], labels newick.LabelFunc, verbose bool) (string, []splits.Split[C]) {
	accepted := Strict(tc, list, verbose)
	return newick.Write(tc, newick.Build(tc, accepted), labels), accepted
}

// NTreeNewick runs the n-tree filter and serializes all resulting trees,
// one newick string per line.
func NTreeNewick[C comparable](n int, tc taxa.Coder[C], list *splits.List[C], labels newick.LabelFunc, verbose bool) (string, [][]splits.Split[C]) {
	forest := NTree(n, tc, list, verbose)
	nwks := make([]string, len(forest))
	for i, accepted := range forest {
		nwks[i] = newick.Write(tc, newick.Build(tc, accepted), labels)
	}
	return strings.Join(nwks, "\n"), forest
}
