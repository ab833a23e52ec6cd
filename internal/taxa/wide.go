package taxa

import (
	"cmp"
	"encoding/binary"
	"fmt"
	"iter"

	"github.com/bits-and-blooms/bitset"
)

// Wide holds a color-set over any number of taxa as a string key packing the
// little-endian bytes of a bitset's words (8⌈n/64⌉ bytes). Operations unpack
// into bitset.BitSet values and repack the result.
type Wide struct {
	n     int
	words int
}

func NewWide(n int) (Wide, error) {
	if n < 1 {
		return Wide{}, fmt.Errorf("%w, n = %d is not positive", ErrTaxaCount, n)
	}
	return Wide{n: n, words: (n + 63) / 64}, nil
}

func (c Wide) unpack(key string) *bitset.BitSet {
	w := make([]uint64, c.words)
	for i := range w {
		w[i] = binary.LittleEndian.Uint64([]byte(key[8*i : 8*i+8]))
	}
	return bitset.FromWithLength(uint(c.n), w)
}

func (c Wide) pack(b *bitset.BitSet) string {
	buf := make([]byte, 8*c.words)
	for i, x := range b.Bytes() {
		binary.LittleEndian.PutUint64(buf[8*i:], x)
	}
	return string(buf)
}

func (c Wide) N() int { return c.n }

func (c Wide) Empty() string {
	return c.pack(bitset.New(uint(c.n)))
}

func (c Wide) Full() string {
	return c.pack(bitset.New(uint(c.n)).Complement())
}

func (c Wide) Singleton(i int) string {
	if i < 0 || i >= c.n {
		panic(fmt.Sprintf("taxon id %d out of range [0, %d)", i, c.n))
	}
	return c.pack(bitset.New(uint(c.n)).Set(uint(i)))
}

func (c Wide) Has(s string, i int) bool {
	if i < 0 || i >= c.n {
		panic(fmt.Sprintf("taxon id %d out of range [0, %d)", i, c.n))
	}
	return c.unpack(s).Test(uint(i))
}

func (c Wide) Union(a, b string) string {
	return c.pack(c.unpack(a).Union(c.unpack(b)))
}

func (c Wide) Inter(a, b string) string {
	return c.pack(c.unpack(a).Intersection(c.unpack(b)))
}

func (c Wide) Not(a string) string {
	return c.pack(c.unpack(a).Complement())
}

func (c Wide) Count(a string) int {
	return int(c.unpack(a).Count())
}

func (c Wide) IsEmpty(a string) bool {
	return c.unpack(a).None()
}

func (c Wide) IsFull(a string) bool {
	return int(c.unpack(a).Count()) == c.n
}

func (c Wide) Subset(a, b string) bool {
	return c.unpack(b).IsSuperSet(c.unpack(a))
}

func (c Wide) Disjoint(a, b string) bool {
	return c.unpack(a).IntersectionCardinality(c.unpack(b)) == 0
}

func (c Wide) Rep(a string) (string, bool) {
	set := c.unpack(a)
	if set.Test(0) {
		return c.pack(set.Complement()), true
	}
	return a, false
}

func (c Wide) Cmp(a, b string) int {
	for i := c.words - 1; i >= 0; i-- {
		wa := binary.LittleEndian.Uint64([]byte(a[8*i : 8*i+8]))
		wb := binary.LittleEndian.Uint64([]byte(b[8*i : 8*i+8]))
		if r := cmp.Compare(wa, wb); r != 0 {
			return r
		}
	}
	return 0
}

func (c Wide) Members(a string) iter.Seq[int] {
	set := c.unpack(a)
	return func(yield func(int) bool) {
		for i, ok := set.NextSet(0); ok; i, ok = set.NextSet(i + 1) {
			if !yield(int(i)) {
				return
			}
		}
	}
}
