package splitio

import (
	"bytes"
	"testing"

	sp "github.com/jsdoublel/sartre/internal/splits"
	"github.com/jsdoublel/sartre/internal/taxa"
)

func TestWriteSplits(t *testing.T) {
	testCases := []struct {
		name     string
		splits   []sp.Split[uint64]
		expected string
	}{
		{
			name: "basic",
			splits: []sp.Split[uint64]{
				{Weight: 4, Set: 0b0110},
				{Weight: 1.5, Set: 0b1000},
			},
			expected: "4\tbeta\tgamma\n1.5\tdelta\n",
		},
		{
			name:     "empty list",
			splits:   []sp.Split[uint64]{},
			expected: "",
		},
	}
	names := []string{"alpha", "beta", "gamma", "delta"}
	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			tc, err := taxa.NewWord(4)
			if err != nil {
				t.Fatal(err)
			}
			var buf bytes.Buffer
			if err := WriteSplits[uint64](&buf, tc, test.splits, names); err != nil {
				t.Fatal(err)
			}
			if got := buf.String(); got != test.expected {
				t.Errorf("output = %q, expected %q", got, test.expected)
			}
		})
	}
}

func TestWriteNewick(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteNewick(&buf, "(a:1,b:2);"); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "(a:1,b:2);\n" {
		t.Errorf("output = %q", got)
	}
}

func TestWriteWeightLineplot(t *testing.T) {
	prefix := t.TempDir() + "/weights"
	if err := WriteWeightLineplot([]float64{5, 3, 2, 2, 1}, prefix); err != nil {
		t.Fatal(err)
	}
}
