// Package implementing the k-mer index: a hash table from canonical k-mer
// to the set of colors (input genomes) it was seen in. The table is an
// intermediate aggregate; it is drained and cleared once split weights are
// accumulated.
package index

import (
	"errors"
	"fmt"
	"iter"
	"maps"

	"github.com/jsdoublel/sartre/internal/dna"
	"github.com/jsdoublel/sartre/internal/kmer"
	"github.com/jsdoublel/sartre/internal/taxa"
)

var ErrTaxonRange = errors.New("color id out of taxon range")

type Index[K, C comparable] struct {
	kc       kmer.Coder[K]
	tc       taxa.Coder[C]
	table    map[K]C
	skipped  uint64 // ambiguous windows dropped for exceeding the cap
	expanded uint64 // concrete k-mers generated from ambiguous windows
}

func New[K, C comparable](kc kmer.Coder[K], tc taxa.Coder[C]) *Index[K, C] {
	return &Index[K, C]{kc: kc, tc: tc, table: make(map[K]C)}
}

// AddKmers slides a window of length k across seq and ORs the color bit into
// the table entry of every complete window. Bytes that are not an
// unambiguous base reset the window, so no k-mer spans them; this skips
// malformed residues without failing the rest of the sequence. When rc is
// set, windows are canonicalized against their reverse complement first.
func (ix *Index[K, C]) AddKmers(seq []byte, color int, rc bool) error {
	if color < 0 || color >= ix.tc.N() {
		return fmt.Errorf("%w, color %d not in [0, %d)", ErrTaxonRange, color, ix.tc.N())
	}
	bit := ix.tc.Singleton(color)
	k := ix.kc.K()
	key := ix.kc.Zero()
	run := 0
	for _, b := range seq {
		code, ok := dna.Code(b)
		if !ok {
			key = ix.kc.Zero()
			run = 0
			continue
		}
		key = ix.kc.Shift(key, code)
		if run < k {
			run++
		}
		if run == k {
			ix.insert(key, rc, bit)
		}
	}
	return nil
}

// AddKmersIUPAC is AddKmers with ambiguity support. Windows made of plain
// bases behave exactly as in AddKmers. A window containing IUPAC symbols
// stands for the product of its per-base expansion factors many concrete
// k-mers; if that multiplicity is at most maxExp, every concrete k-mer is
// generated (expanding one base at a time, deduplicating as the oldest base
// drops out) and inserted. Windows above the cap are skipped, and since the
// partial expansions cannot be kept without blowing up memory, the window
// restarts after the offending base; maxExp = 0 therefore skips every window
// touching an ambiguous base. Bytes that are not IUPAC at all reset the
// window like malformed residues in AddKmers.
func (ix *Index[K, C]) AddKmersIUPAC(seq []byte, color int, rc bool, maxExp uint64) error {
	if color < 0 || color >= ix.tc.N() {
		return fmt.Errorf("%w, color %d not in [0, %d)", ErrTaxonRange, color, ix.tc.N())
	}
	bit := ix.tc.Singleton(color)
	k := ix.kc.K()
	limit := float64(max(maxExp, 1))
	window := make([]uint64, k) // ring of per-base factors for the last k bases
	wlen, wpos := 0, 0
	product := float64(1) // rolling product of the factor window
	cur := []K{ix.kc.Zero()}
	run := 0
	reset := func() {
		wlen, wpos = 0, 0
		product = 1
		cur = cur[:1]
		cur[0] = ix.kc.Zero()
		run = 0
	}
	for _, b := range seq {
		codes := dna.Codes(b)
		if codes == nil {
			reset()
			continue
		}
		f := uint64(len(codes))
		if wlen == k {
			product /= float64(window[wpos])
		} else {
			wlen++
		}
		window[wpos] = f
		wpos = (wpos + 1) % k
		product *= float64(f)
		if product > limit {
			ix.skipped++
			reset()
			continue
		}
		cur = ix.expand(cur, codes)
		if run < k {
			run++
		}
		if run == k {
			for _, key := range cur {
				ix.insert(key, rc, bit)
			}
			if len(cur) > 1 {
				ix.expanded += uint64(len(cur))
			}
		}
	}
	return nil
}

// shifts every possible reading of the next base into every partial k-mer;
// identical keys merge once the base they differed in drops out of the
// window
func (ix *Index[K, C]) expand(cur []K, codes []uint8) []K {
	if len(cur) == 1 && len(codes) == 1 {
		cur[0] = ix.kc.Shift(cur[0], codes[0])
		return cur
	}
	seen := make(map[K]struct{}, len(cur)*len(codes))
	next := make([]K, 0, len(cur)*len(codes))
	for _, key := range cur {
		for _, code := range codes {
			shifted := ix.kc.Shift(key, code)
			if _, ok := seen[shifted]; !ok {
				seen[shifted] = struct{}{}
				next = append(next, shifted)
			}
		}
	}
	return next
}

func (ix *Index[K, C]) insert(key K, rc bool, bit C) {
	if rc {
		key, _ = ix.kc.Canonical(key)
	}
	if colors, ok := ix.table[key]; ok {
		ix.table[key] = ix.tc.Union(colors, bit)
	} else {
		ix.table[key] = bit
	}
}

// Merge ORs another shard's table into this one. Used to combine per-file
// indexes built in parallel.
func (ix *Index[K, C]) Merge(o *Index[K, C]) {
	for key, colors := range o.table {
		if cur, ok := ix.table[key]; ok {
			ix.table[key] = ix.tc.Union(cur, colors)
		} else {
			ix.table[key] = colors
		}
	}
	ix.skipped += o.skipped
	ix.expanded += o.expanded
}

func (ix *Index[K, C]) Len() int { return len(ix.table) }

func (ix *Index[K, C]) Entries() iter.Seq2[K, C] { return maps.All(ix.table) }

// Reset clears the table so its memory can be reclaimed once weights are
// accumulated.
func (ix *Index[K, C]) Reset() { clear(ix.table) }

// Skipped returns the number of ambiguous windows dropped for exceeding the
// expansion cap.
func (ix *Index[K, C]) Skipped() uint64 { return ix.skipped }

// Expanded returns the number of concrete k-mers generated from ambiguous
// windows.
func (ix *Index[K, C]) Expanded() uint64 { return ix.expanded }
