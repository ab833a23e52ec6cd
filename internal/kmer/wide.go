package kmer

import (
	"cmp"
	"encoding/binary"
	"fmt"

	"github.com/jsdoublel/sartre/internal/dna"
)

// Wide packs a k-mer of arbitrary length into a string key holding the
// little-endian bytes of the underlying words (8⌈2k/64⌉ bytes). Strings are
// used instead of byte slices so keys stay comparable and hashable.
type Wide struct {
	k     int
	words int
	top   uint64 // mask for the highest word
}

func NewWide(k int) (Wide, error) {
	if k < 1 {
		return Wide{}, fmt.Errorf("%w, k = %d is not positive", ErrKmerLength, k)
	}
	words := (2*k + 63) / 64
	top := ^uint64(0)
	if rem := (2 * k) % 64; rem != 0 {
		top = ^uint64(0) >> (64 - rem)
	}
	return Wide{k: k, words: words, top: top}, nil
}

func (c Wide) unpack(key string) []uint64 {
	w := make([]uint64, c.words)
	for i := range w {
		w[i] = binary.LittleEndian.Uint64([]byte(key[8*i : 8*i+8]))
	}
	return w
}

func (c Wide) pack(w []uint64) string {
	buf := make([]byte, 8*len(w))
	for i, x := range w {
		binary.LittleEndian.PutUint64(buf[8*i:], x)
	}
	return string(buf)
}

func (c Wide) K() int { return c.k }

func (c Wide) Zero() string {
	return c.pack(make([]uint64, c.words))
}

func (c Wide) Shift(key string, code uint8) string {
	w := c.unpack(key)
	carry := uint64(code & 3)
	for i := range w {
		next := w[i] >> 62
		w[i] = w[i]<<2 | carry
		carry = next
	}
	w[c.words-1] &= c.top
	return c.pack(w)
}

// base code at position i, 0 being the oldest (leftmost) base; bit pairs are
// aligned, so a base never straddles a word boundary
func (c Wide) base(w []uint64, i int) uint64 {
	p := 2 * (c.k - 1 - i)
	return w[p/64] >> (p % 64) & 3
}

func (c Wide) RevComp(key string) string {
	w := c.unpack(key)
	r := make([]uint64, c.words)
	for i := range c.k {
		code := c.base(w, c.k-1-i) ^ 3
		p := 2 * (c.k - 1 - i)
		r[p/64] |= code << (p % 64)
	}
	return c.pack(r)
}

func (c Wide) Canonical(key string) (string, bool) {
	if rc := c.RevComp(key); c.Cmp(rc, key) < 0 {
		return rc, true
	}
	return key, false
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

func (c Wide) Decode(key string) []byte {
	w := c.unpack(key)
	out := make([]byte, c.k)
	for i := range c.k {
		out[i] = dna.Letter(uint8(c.base(w, i)))
	}
	return out
}
