// Package containing the DNA alphabet tables used for k-mer encoding:
// 2-bit base codes, complements, and IUPAC ambiguity expansions
package dna

import "math/bits"

var letters = [4]byte{'A', 'C', 'G', 'T'}

// 4-bit mask per input byte; bit i is set iff base code i is a possible
// reading of the symbol. Zero for bytes that are not IUPAC symbols.
var iupac = func() [256]uint8 {
	var table [256]uint8
	set := func(b byte, mask uint8) {
		table[b] = mask
		table[b|0x20] = mask // lower case
	}
	set('A', 0b0001)
	set('C', 0b0010)
	set('G', 0b0100)
	set('T', 0b1000)
	set('U', 0b1000)
	set('R', 0b0101) // A/G
	set('Y', 0b1010) // C/T
	set('S', 0b0110) // C/G
	set('W', 0b1001) // A/T
	set('K', 0b1100) // G/T
	set('M', 0b0011) // A/C
	set('B', 0b1110) // C/G/T
	set('D', 0b1101) // A/G/T
	set('H', 0b1011) // A/C/T
	set('V', 0b0111) // A/C/G
	set('N', 0b1111)
	return table
}()

// concrete base codes per 4-bit mask, ascending
var expansions = func() [16][]uint8 {
	var table [16][]uint8
	for mask := 1; mask < 16; mask++ {
		for code := uint8(0); code < 4; code++ {
			if mask>>code&1 == 1 {
				table[mask] = append(table[mask], code)
			}
		}
	}
	return table
}()

// Code returns the 2-bit code of an unambiguous base (A=0, C=1, G=2, T=3,
// either case, U treated as T). Reports false for every other byte.
func Code(b byte) (uint8, bool) {
	switch iupac[b] {
	case 0b0001:
		return 0, true
	case 0b0010:
		return 1, true
	case 0b0100:
		return 2, true
	case 0b1000:
		return 3, true
	}
	return 0, false
}

// Codes returns the concrete base codes an IUPAC symbol may stand for, in
// A < C < G < T order. Returns nil if the byte is not a recognized symbol.
func Codes(b byte) []uint8 {
	return expansions[iupac[b]]
}

// Factor returns the number of concrete bases an IUPAC symbol may stand for
// (1 for a plain base, 4 for N, 0 for a byte that is not a symbol at all).
func Factor(b byte) int {
	return bits.OnesCount8(iupac[b])
}

// Comp returns the 2-bit code of the complementary base.
func Comp(code uint8) uint8 {
	return code ^ 3
}

// Letter returns the upper case letter for a 2-bit base code.
func Letter(code uint8) byte {
	return letters[code&3]
}
