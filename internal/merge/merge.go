// Package merge implements the cross-translation-unit merge engine: given a
// finished aggregate tree, it produces one merged tree per compilation
// stage, summing durations per distinct identifier (spec §4.7).
//
// Grounded on original_source/source/backend/merge.cpp for the merge
// algorithm; the name->index lookup uses github.com/cespare/xxhash/v2,
// grounded on the teacher's internal/core/file_content_store.go use of
// xxhash for fast equality checks.
package merge

import (
	"github.com/cespare/xxhash/v2"

	"github.com/clang-build-profiler/cbp-go/internal/treemodel"
)

// stageOrder fixes the child order of the synthetic merge_summary root and
// the display name substituted for each stage's synthetic root node.
var stageOrder = []struct {
	kind treemodel.Kind
	name string
}{
	{treemodel.Parsing, "Parsing"},
	{treemodel.Instantiation, "Template instantiation"},
	{treemodel.LLVMCodegen, "LLVM IR generation"},
	{treemodel.Optimization, "Optimization"},
	{treemodel.NativeCodegen, "Machine code generation"},
}

// Summary is the result of merging a finished tree: one merged tree for
// each of the five stages (an empty zero-total node for a stage absent from
// the source tree), plus a synthetic root wrapping all of them for display.
type Summary struct {
	Stages map[treemodel.Kind]*treemodel.Node
	Root   *treemodel.Node
}

// Merge walks tree, visiting descendants but never descending past a
// compilation-stage node (or a parse/instantiate node, which can only ever
// occur beneath one), and unions every node of a given stage kind into a
// single accumulator tree per stage (spec §4.7).
func Merge(tree *treemodel.Node) *Summary {
	accumulators := make(map[treemodel.Kind]*treemodel.Node, len(stageOrder))

	var walk func(n *treemodel.Node)
	walk = func(n *treemodel.Node) {
		if n.Kind.Is(treemodel.CompilationStage) {
			if acc, ok := accumulators[n.Kind]; ok {
				mergeInto(acc, n.Clone())
			} else {
				accumulators[n.Kind] = n.Clone()
			}
			return
		}
		if n.Kind.Is(treemodel.NodeGroup) {
			return
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(tree)

	root := &treemodel.Node{Kind: treemodel.TranslationUnit, Name: "merge_summary"}
	for _, stage := range stageOrder {
		acc, ok := accumulators[stage.kind]
		if !ok {
			acc = &treemodel.Node{Kind: stage.kind, Name: stage.name}
			accumulators[stage.kind] = acc
		}
		acc.Name = stage.name
		root.Children = append(root.Children, acc)
		root.Total += acc.Total
	}

	return &Summary{Stages: accumulators, Root: root}
}

// MergeNodes merges two same-kind nodes, producing a in place, using the
// same merge-by-name-index step that Merge applies per stage. It exposes
// that step for ad hoc unions of two subtrees.
func MergeNodes(a, b *treemodel.Node) {
	mergeInto(a, b)
}

// mergeInto implements spec §4.7's merge-of-two-nodes algorithm: totals are
// summed, B's children are folded into A by name (recursively merging
// same-named children, moving the rest), and A's children are re-sorted by
// descending total.
func mergeInto(a, b *treemodel.Node) {
	a.Total += b.Total
	a.Self += b.Self

	index := newNameIndex(a.Children)

	for _, bc := range b.Children {
		if i, ok := index.find(a.Children, bc.Name); ok {
			mergeInto(a.Children[i], bc)
			continue
		}
		a.Children = append(a.Children, bc)
		index.add(bc.Name, len(a.Children)-1)
	}

	a.SortChildrenByTotalDesc()
}

// nameIndex maps an xxhash of a child's name to the (possibly multiple, on
// hash collision) indices of children sharing that hash, giving O(n+m)
// merging without repeated string comparisons for the common case of large
// same-named subtrees (e.g. the same header appearing in hundreds of TUs).
type nameIndex map[uint64][]int

func newNameIndex(children []*treemodel.Node) nameIndex {
	idx := make(nameIndex, len(children))
	for i, c := range children {
		h := xxhash.Sum64String(c.Name)
		idx[h] = append(idx[h], i)
	}
	return idx
}

func (idx nameIndex) find(children []*treemodel.Node, name string) (int, bool) {
	h := xxhash.Sum64String(name)
	for _, i := range idx[h] {
		if children[i].Name == name {
			return i, true
		}
	}
	return -1, false
}

func (idx nameIndex) add(name string, i int) {
	h := xxhash.Sum64String(name)
	idx[h] = append(idx[h], i)
}
