package newick

import (
	"slices"
	"strings"
	"testing"

	gonewick "github.com/evolbioinfo/gotree/io/newick"
	"github.com/evolbioinfo/gotree/tree"

	"github.com/jsdoublel/sartre/internal/splits"
	"github.com/jsdoublel/sartre/internal/taxa"
)

func makeTaxa(t *testing.T, n int) taxa.Coder[uint64] {
	t.Helper()
	tc, err := taxa.NewWord(n)
	if err != nil {
		t.Fatal(err)
	}
	return tc
}

// checks the nested-set invariants: children partition the parent's taxa
func checkNode(t *testing.T, tc taxa.Coder[uint64], node *Node[uint64]) {
	t.Helper()
	if len(node.Children) == 0 {
		if tc.Count(node.Taxa) != 1 {
			t.Errorf("leaf with %d taxa", tc.Count(node.Taxa))
		}
		return
	}
	union := tc.Empty()
	for _, child := range node.Children {
		if !tc.Disjoint(union, child.Taxa) {
			t.Error("sibling taxa sets overlap")
		}
		union = tc.Union(union, child.Taxa)
		checkNode(t, tc, child)
	}
	if union != node.Taxa {
		t.Errorf("children taxa %b do not partition parent taxa %b", union, node.Taxa)
	}
}

func TestBuild(t *testing.T) {
	testCases := []struct {
		name   string
		n      int
		splits []splits.Split[uint64]
	}{
		{
			name:   "star tree from no splits",
			n:      4,
			splits: nil,
		},
		{
			name: "single internal split",
			n:    4,
			splits: []splits.Split[uint64]{
				{Weight: 2, Set: 0b0110},
			},
		},
		{
			name: "nested splits",
			n:    6,
			splits: []splits.Split[uint64]{
				{Weight: 5, Set: 0b011110},
				{Weight: 3, Set: 0b000110},
				{Weight: 2, Set: 0b011000},
			},
		},
		{
			name: "pendant split adds leaf weight",
			n:    3,
			splits: []splits.Split[uint64]{
				{Weight: 5, Set: 0b110},
				{Weight: 3, Set: 0b010},
			},
		},
	}
	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			tc := makeTaxa(t, test.n)
			root := Build(tc, test.splits)
			if !tc.IsFull(root.Taxa) {
				t.Error("root must hold the full taxon set")
			}
			checkNode(t, tc, root)
			// every split must be an edge of the resulting tree
			for _, s := range test.splits {
				if !hasEdge(root, s.Set) {
					t.Errorf("split %b has no edge in the tree", s.Set)
				}
			}
		})
	}
}

func hasEdge(node *Node[uint64], side uint64) bool {
	for _, child := range node.Children {
		if child.Taxa == side || hasEdge(child, side) {
			return true
		}
	}
	return false
}

func TestBuildIncompatiblePanics(t *testing.T) {
	tc := makeTaxa(t, 4)
	defer func() {
		if recover() == nil {
			t.Error("building from crossing splits should panic")
		}
	}()
	Build(tc, []splits.Split[uint64]{
		{Weight: 5, Set: 0b0110},
		{Weight: 3, Set: 0b1100},
	})
}

func TestWrite(t *testing.T) {
	tc := makeTaxa(t, 3)
	root := Build(tc, []splits.Split[uint64]{
		{Weight: 5, Set: 0b110},
		{Weight: 3, Set: 0b010},
	})
	labels := func(i int) string { return []string{"A", "B", "C"}[i] }
	if got := Write(tc, root, labels); got != "(A:0,(B:3,C:0):5);" {
		t.Errorf("newick = %s, expected (A:0,(B:3,C:0):5);", got)
	}
	if got := Write(tc, root, nil); got != "(0:0,(1:3,2:0):5);" {
		t.Errorf("newick with nil labels = %s", got)
	}
}

// the emitted newick must parse back into a tree with the same leaf
// partition as the accepted splits
func TestWriteRoundTrip(t *testing.T) {
	tc := makeTaxa(t, 6)
	accepted := []splits.Split[uint64]{
		{Weight: 7, Set: 0b011110},
		{Weight: 4, Set: 0b000110},
		{Weight: 2, Set: 0b011000},
		{Weight: 1, Set: 0b000010},
	}
	names := []string{"t0", "t1", "t2", "t3", "t4", "t5"}
	nwk := Write(tc, Build(tc, accepted), func(i int) string { return names[i] })
	tre, err := gonewick.NewParser(strings.NewReader(nwk)).Parse()
	if err != nil {
		t.Fatalf("emitted newick does not parse: %s", err)
	}
	tips := tre.AllTipNames()
	slices.Sort(tips)
	if !slices.Equal(tips, names) {
		t.Errorf("tip names = %v, expected %v", tips, names)
	}
	// collect the leaf set under every internal node of the parsed tree;
	// each non-pendant accepted split must reappear as such a clade
	clades := make(map[string]bool)
	leaves := make(map[int][]string)
	tre.PostOrder(func(cur, prev *tree.Node, e *tree.Edge) (keep bool) {
		if cur.Tip() {
			leaves[cur.Id()] = []string{cur.Name()}
			return true
		}
		all := make([]string, 0)
		for _, n := range cur.Neigh() {
			if n != prev {
				all = append(all, leaves[n.Id()]...)
			}
		}
		leaves[cur.Id()] = all
		sorted := slices.Clone(all)
		slices.Sort(sorted)
		clades[strings.Join(sorted, ",")] = true
		return true
	})
	for _, s := range accepted {
		if tc.Count(s.Set) < 2 {
			continue // pendant edge, not an internal clade
		}
		members := make([]string, 0)
		for i := range tc.Members(s.Set) {
			members = append(members, names[i])
		}
		if key := strings.Join(members, ","); !clades[key] {
			t.Errorf("split {%s} lost in round trip; clades = %v", key, clades)
		}
	}
}
