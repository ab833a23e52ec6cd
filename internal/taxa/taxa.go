// Package containing the color-set codecs. A color-set is a bit vector over
// the n input genomes; it doubles as "which taxa a k-mer occurred in" and as
// one side of a candidate split. Like the k-mer codecs, two backings exist:
// a single machine word for n up to 64, and a bitset-backed key for
// arbitrary n.
package taxa

import (
	"errors"
	"iter"
)

// MaxWordN is the largest taxon count the single-word backing can hold.
const MaxWordN = 64

var ErrTaxaCount = errors.New("taxon count out of range")

// Coder manipulates color-sets of one fixed universe size n. All other
// packages treat color-sets as opaque comparable values and go through a
// Coder.
type Coder[C comparable] interface {
	// N returns the number of taxa.
	N() int
	Empty() C
	Full() C
	// Singleton returns the set containing only taxon i; i outside [0, n)
	// is a programming error and panics.
	Singleton(i int) C
	Has(c C, i int) bool
	Union(a, b C) C
	Inter(a, b C) C
	// Not complements within the n-taxon universe.
	Not(a C) C
	Count(a C) int
	IsEmpty(a C) bool
	IsFull(a C) bool
	// Subset reports whether a is a subset of b.
	Subset(a, b C) bool
	Disjoint(a, b C) bool
	// Rep returns the canonical side of the split {a, ¬a}: the side not
	// containing taxon 0. Reports whether the input was flipped.
	Rep(a C) (C, bool)
	// Cmp is a deterministic total order used for tie-breaking.
	Cmp(a, b C) int
	// Members yields the taxon ids in a, ascending.
	Members(a C) iter.Seq[int]
}
