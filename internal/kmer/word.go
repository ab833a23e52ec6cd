package kmer

import (
	"cmp"
	"fmt"

	"github.com/jsdoublel/sartre/internal/dna"
)

// Word packs a k-mer of length up to 32 into a single uint64.
type Word struct {
	k    int
	mask uint64 // low 2k bits
}

func NewWord(k int) (Word, error) {
	if k < 1 || k > MaxWordK {
		return Word{}, fmt.Errorf("%w, k = %d not in [1, %d]", ErrKmerLength, k, MaxWordK)
	}
	return Word{k: k, mask: ^uint64(0) >> (64 - 2*k)}, nil
}

func (c Word) K() int { return c.k }

func (c Word) Zero() uint64 { return 0 }

func (c Word) Shift(key uint64, code uint8) uint64 {
	return (key<<2 | uint64(code&3)) & c.mask
}

func (c Word) RevComp(key uint64) uint64 {
	key = ^key // complements every base at once
	key = (key>>2)&0x3333333333333333 | (key&0x3333333333333333)<<2
	key = (key>>4)&0x0F0F0F0F0F0F0F0F | (key&0x0F0F0F0F0F0F0F0F)<<4
	key = (key>>8)&0x00FF00FF00FF00FF | (key&0x00FF00FF00FF00FF)<<8
	key = (key>>16)&0x0000FFFF0000FFFF | (key&0x0000FFFF0000FFFF)<<16
	key = key>>32 | key<<32
	return key >> (64 - 2*c.k) // drops the complemented unused bits
}

func (c Word) Canonical(key uint64) (uint64, bool) {
	if rc := c.RevComp(key); rc < key {
		return rc, true
	}
	return key, false
}

func (c Word) Cmp(a, b uint64) int {
	return cmp.Compare(a, b)
}

func (c Word) Decode(key uint64) []byte {
	out := make([]byte, c.k)
	for i := c.k - 1; i >= 0; i-- {
		out[i] = dna.Letter(uint8(key & 3))
		key >>= 2
	}
	return out
}
