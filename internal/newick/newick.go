// Package building rooted trees from tree-compatible split sets and
// serializing them as newick strings. Nodes are exclusively owned by their
// parent; the algorithm never needs a parent pointer.
package newick

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jsdoublel/sartre/internal/splits"
	"github.com/jsdoublel/sartre/internal/taxa"
)

// LabelFunc maps a taxon id to its caller-facing name at serialization time.
type LabelFunc func(taxon int) string

// Node of a split tree. Taxa holds every leaf beneath the node and Weight
// the weight of the split that created it (zero for the root and for leaves
// no pendant split voted for).
type Node[C comparable] struct {
	Taxa     C
	Weight   float64
	Children []*Node[C]
}

// Build constructs the tree induced by a tree-compatible split set, refining
// a star tree over the full taxon set by every split in the given order.
// The caller (a strict compatibility filter) guarantees compatibility;
// violations are a programming error and panic inside refine.
func Build[C comparable](tc taxa.Coder[C], accepted []splits.Split[C]) *Node[C] {
	root := &Node[C]{Taxa: tc.Full(), Children: make([]*Node[C], 0, tc.N())}
	for i := range tc.N() {
		root.Children = append(root.Children, &Node[C]{Taxa: tc.Singleton(i)})
	}
	for _, s := range accepted {
		refine(tc, root, s.Set, s.Weight)
	}
	return root
}

// refine inserts one split side into the subtree rooted at node, whose taxa
// must contain the side. A side equal to an existing child is a pendant
// edge and just adds weight; a side inside a child recurses; otherwise the
// children fully inside the side are spliced under a new intermediate node.
func refine[C comparable](tc taxa.Coder[C], node *Node[C], side C, weight float64) {
	for _, child := range node.Children {
		if child.Taxa == side {
			child.Weight += weight
			return
		}
		if tc.Subset(side, child.Taxa) {
			refine(tc, child, side, weight)
			return
		}
	}
	grouped := make([]*Node[C], 0, len(node.Children))
	rest := make([]*Node[C], 0, len(node.Children))
	union := tc.Empty()
	for _, child := range node.Children {
		switch {
		case tc.Subset(child.Taxa, side):
			grouped = append(grouped, child)
			union = tc.Union(union, child.Taxa)
		case tc.Disjoint(child.Taxa, side):
			rest = append(rest, child)
		default:
			panic(fmt.Sprintf("refine: split straddles a child (%d common taxa), not tree compatible",
				tc.Count(tc.Inter(child.Taxa, side))))
		}
	}
	if union != side || len(grouped) < 2 {
		panic("refine: split does not group children of any node, not tree compatible")
	}
	node.Children = append(rest, &Node[C]{Taxa: side, Weight: weight, Children: grouped})
}

// Write serializes the tree as a newick string terminated by ';'. Leaves
// print as label:weight via labels (numeric ids if labels is nil), internal
// nodes as (child,...):weight, and the root bare.
func Write[C comparable](tc taxa.Coder[C], root *Node[C], labels LabelFunc) string {
	if labels == nil {
		labels = strconv.Itoa
	}
	var sb strings.Builder
	writeNode(tc, root, labels, &sb, true)
	sb.WriteByte(';')
	return sb.String()
}

func writeNode[C comparable](tc taxa.Coder[C], node *Node[C], labels LabelFunc, sb *strings.Builder, isRoot bool) {
	if len(node.Children) == 0 {
		taxon := -1
		for i := range tc.Members(node.Taxa) {
			taxon = i
			break
		}
		if taxon < 0 {
			panic("leaf node without a taxon")
		}
		sb.WriteString(labels(taxon))
	} else {
		sb.WriteByte('(')
		for i, child := range node.Children {
			if i > 0 {
				sb.WriteByte(',')
			}
			writeNode(tc, child, labels, sb, false)
		}
		sb.WriteByte(')')
	}
	if !isRoot {
		sb.WriteByte(':')
		sb.WriteString(strconv.FormatFloat(node.Weight, 'f', -1, 64))
	}
}
