// Package containing the k-mer codecs. A k-mer is packed two bits per base
// with the oldest base in the highest bit pair, so that comparing encoded
// keys is the same as comparing the decoded strings lexicographically. Two
// backings exist: a single machine word for k up to 32, and a packed
// multi-word key for arbitrary k.
package kmer

import "errors"

// MaxWordK is the largest k-mer length the single-word backing can hold.
const MaxWordK = 32

var ErrKmerLength = errors.New("k-mer length out of range")

// Coder encodes and manipulates k-mer keys of one fixed length. All other
// packages treat keys as opaque comparable values and go through a Coder.
type Coder[K comparable] interface {
	// K returns the configured k-mer length.
	K() int
	// Zero returns the all-A key a sliding window starts from.
	Zero() K
	// Shift appends one 2-bit base on the right, dropping the oldest base
	// once the key is full.
	Shift(key K, code uint8) K
	// RevComp returns the reverse complement of a full k-length key.
	RevComp(key K) K
	// Canonical returns the smaller of key and its reverse complement under
	// Cmp, and reports whether the reverse complement was chosen.
	Canonical(key K) (K, bool)
	// Cmp is a total order on keys matching lexicographic order of the
	// decoded strings.
	Cmp(a, b K) int
	// Decode unpacks a key back into ACGT letters.
	Decode(key K) []byte
}
