package kmer

import (
	"errors"
	"testing"

	"github.com/jsdoublel/sartre/internal/dna"
)

func encode[K comparable](t *testing.T, c Coder[K], seq string) K {
	t.Helper()
	if len(seq) != c.K() {
		t.Fatalf("sequence %q does not have length %d; test is written wrong", seq, c.K())
	}
	key := c.Zero()
	for i := range len(seq) {
		code, ok := dna.Code(seq[i])
		if !ok {
			t.Fatalf("bad base %q; test is written wrong", seq[i])
		}
		key = c.Shift(key, code)
	}
	return key
}

func TestWordRevComp(t *testing.T) {
	testCases := []struct {
		name    string
		kmer    string
		revComp string
	}{
		{name: "palindrome", kmer: "ACGT", revComp: "ACGT"},
		{name: "homopolymer", kmer: "AAAA", revComp: "TTTT"},
		{name: "mixed", kmer: "ACGA", revComp: "TCGT"},
		{name: "asymmetric", kmer: "GGCA", revComp: "TGCC"},
	}
	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			c, err := NewWord(len(test.kmer))
			if err != nil {
				t.Fatal(err)
			}
			rc := c.RevComp(encode(t, c, test.kmer))
			if got := string(c.Decode(rc)); got != test.revComp {
				t.Errorf("RevComp(%s) = %s, expected %s", test.kmer, got, test.revComp)
			}
		})
	}
}

func TestWordCanonical(t *testing.T) {
	testCases := []struct {
		name      string
		kmer      string
		canonical string
		flipped   bool
	}{
		{name: "already smaller", kmer: "AACG", canonical: "AACG", flipped: false},
		{name: "revcomp smaller", kmer: "TTTT", canonical: "AAAA", flipped: true},
		{name: "palindrome", kmer: "ACGT", canonical: "ACGT", flipped: false},
	}
	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			c, err := NewWord(len(test.kmer))
			if err != nil {
				t.Fatal(err)
			}
			canon, flipped := c.Canonical(encode(t, c, test.kmer))
			if got := string(c.Decode(canon)); got != test.canonical || flipped != test.flipped {
				t.Errorf("Canonical(%s) = (%s, %v), expected (%s, %v)",
					test.kmer, got, flipped, test.canonical, test.flipped)
			}
		})
	}
}

func TestWordShiftDropsOldest(t *testing.T) {
	c, err := NewWord(3)
	if err != nil {
		t.Fatal(err)
	}
	key := encode(t, c, "ACG")
	code, _ := dna.Code('T')
	key = c.Shift(key, code)
	if got := string(c.Decode(key)); got != "CGT" {
		t.Errorf("shift produced %s, expected CGT", got)
	}
}

func TestWordBounds(t *testing.T) {
	for _, k := range []int{0, -1, 33} {
		if _, err := NewWord(k); !errors.Is(err, ErrKmerLength) {
			t.Errorf("NewWord(%d) error = %v, expected ErrKmerLength", k, err)
		}
	}
	if _, err := NewWide(0); !errors.Is(err, ErrKmerLength) {
		t.Errorf("NewWide(0) error = %v, expected ErrKmerLength", err)
	}
	if _, err := NewWide(1000); err != nil {
		t.Errorf("NewWide(1000) error = %v, expected nil", err)
	}
}

// the wide backing must agree with the word backing wherever both apply
func TestWideMatchesWord(t *testing.T) {
	seqs := []string{
		"ACGTACGTACGTACGTACGTACGTACGTACGT", // k = 32, exactly one word
		"GGGTTTAAACCCGGGTTTAAACCCGGGTTTAA",
		"TACGATCGATCGATCGATCGTAGCTAGCTAGC",
	}
	word, err := NewWord(32)
	if err != nil {
		t.Fatal(err)
	}
	wide, err := NewWide(32)
	if err != nil {
		t.Fatal(err)
	}
	for _, seq := range seqs {
		wkey := encode(t, word, seq)
		xkey := encode(t, wide, seq)
		if got, want := string(wide.Decode(xkey)), string(word.Decode(wkey)); got != want {
			t.Errorf("decode mismatch: wide %s, word %s", got, want)
		}
		wc, wf := word.Canonical(wkey)
		xc, xf := wide.Canonical(xkey)
		if got, want := string(wide.Decode(xc)), string(word.Decode(wc)); got != want || wf != xf {
			t.Errorf("canonical mismatch for %s: wide (%s, %v), word (%s, %v)", seq, got, xf, want, wf)
		}
	}
}

func TestWideMultiWord(t *testing.T) {
	// k = 40 spans two words; the shift must carry across the boundary
	c, err := NewWide(40)
	if err != nil {
		t.Fatal(err)
	}
	seq := "ACGTACGTACGTACGTACGTACGTACGTACGTACGTTGCA"
	key := encode(t, c, seq)
	if got := string(c.Decode(key)); got != seq {
		t.Errorf("decode = %s, expected %s", got, seq)
	}
	rc := c.RevComp(key)
	if got := string(c.Decode(c.RevComp(rc))); got != seq {
		t.Errorf("double revcomp = %s, expected %s", got, seq)
	}
	if c.Cmp(key, rc) <= 0 {
		canon, flipped := c.Canonical(key)
		if canon != key || flipped {
			t.Error("canonical should keep the smaller key")
		}
	} else {
		canon, flipped := c.Canonical(key)
		if canon != rc || !flipped {
			t.Error("canonical should pick the reverse complement")
		}
	}
}
