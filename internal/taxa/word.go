package taxa

import (
	"cmp"
	"fmt"
	"iter"
	"math/bits"
)

// Word holds a color-set over up to 64 taxa in a single uint64.
type Word struct {
	n    int
	mask uint64 // low n bits
}

func NewWord(n int) (Word, error) {
	if n < 1 || n > MaxWordN {
		return Word{}, fmt.Errorf("%w, n = %d not in [1, %d]", ErrTaxaCount, n, MaxWordN)
	}
	return Word{n: n, mask: ^uint64(0) >> (64 - n)}, nil
}

func (c Word) N() int { return c.n }

func (c Word) Empty() uint64 { return 0 }

func (c Word) Full() uint64 { return c.mask }

func (c Word) Singleton(i int) uint64 {
	if i < 0 || i >= c.n {
		panic(fmt.Sprintf("taxon id %d out of range [0, %d)", i, c.n))
	}
	return 1 << i
}

func (c Word) Has(s uint64, i int) bool {
	if i < 0 || i >= c.n {
		panic(fmt.Sprintf("taxon id %d out of range [0, %d)", i, c.n))
	}
	return s>>i&1 == 1
}

func (c Word) Union(a, b uint64) uint64 { return a | b }

func (c Word) Inter(a, b uint64) uint64 { return a & b }

func (c Word) Not(a uint64) uint64 { return ^a & c.mask }

func (c Word) Count(a uint64) int { return bits.OnesCount64(a) }

func (c Word) IsEmpty(a uint64) bool { return a == 0 }

func (c Word) IsFull(a uint64) bool { return a == c.mask }

func (c Word) Subset(a, b uint64) bool { return a&^b == 0 }

func (c Word) Disjoint(a, b uint64) bool { return a&b == 0 }

func (c Word) Rep(a uint64) (uint64, bool) {
	if a&1 == 1 {
		return c.Not(a), true
	}
	return a, false
}

func (c Word) Cmp(a, b uint64) int { return cmp.Compare(a, b) }

func (c Word) Members(a uint64) iter.Seq[int] {
	return func(yield func(int) bool) {
		for a != 0 {
			if !yield(bits.TrailingZeros64(a)) {
				return
			}
			a &= a - 1
		}
	}
}
