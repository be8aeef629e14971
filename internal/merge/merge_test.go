package merge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clang-build-profiler/cbp-go/internal/treemodel"
)

func tuWithParsingHeader(tuName, headerName string, total treemodel.Microseconds) *treemodel.Node {
	header := treemodel.New(treemodel.Parse, headerName, total)
	parsing := &treemodel.Node{Kind: treemodel.Parsing, Name: "Parsing", Total: total, Children: []*treemodel.Node{header}}
	return &treemodel.Node{Kind: treemodel.TranslationUnit, Name: tuName, Total: total, Children: []*treemodel.Node{parsing}}
}

// Spec §8 scenario 6: merge across TUs sums same-named headers.
func TestMerge_SumsSameNamedHeaderAcrossTUs(t *testing.T) {
	root := &treemodel.Node{Kind: treemodel.Targets, Name: "targets"}
	target := &treemodel.Node{Kind: treemodel.Target, Name: "t"}
	target.Children = append(target.Children,
		tuWithParsingHeader("a.cpp", "a.h", 10),
		tuWithParsingHeader("b.cpp", "a.h", 15),
	)
	root.Children = append(root.Children, target)

	summary := Merge(root)

	parsing, ok := summary.Stages[treemodel.Parsing]
	require.True(t, ok)
	require.Len(t, parsing.Children, 1)
	assert.Equal(t, "a.h", parsing.Children[0].Name)
	assert.EqualValues(t, 25, parsing.Children[0].Total)
	assert.EqualValues(t, 25, parsing.Total)
}

// Spec §4.7: merge_summary always wraps all five per-stage totals, even
// stages entirely absent from the source tree.
func TestMerge_RootWrapsAllFiveStagesEvenWhenAbsent(t *testing.T) {
	root := &treemodel.Node{Kind: treemodel.Targets, Name: "targets"}
	target := &treemodel.Node{Kind: treemodel.Target, Name: "t"}
	target.Children = append(target.Children, tuWithParsingHeader("a.cpp", "a.h", 10))
	root.Children = append(root.Children, target)

	summary := Merge(root)

	require.Len(t, summary.Root.Children, 5)
	names := make([]string, len(summary.Root.Children))
	for i, c := range summary.Root.Children {
		names[i] = c.Name
	}
	assert.Equal(t, []string{
		"Parsing", "Template instantiation", "LLVM IR generation",
		"Optimization", "Machine code generation",
	}, names)

	for _, c := range summary.Root.Children {
		if c.Name != "Parsing" {
			assert.EqualValues(t, 0, c.Total)
			assert.Empty(t, c.Children)
		}
	}
}

// Spec P7: merge is commutative up to child re-sort.
func TestMergeNodes_Commutative(t *testing.T) {
	a1 := treemodel.New(treemodel.Parse, "h.h", 10)
	a2 := treemodel.New(treemodel.Parse, "g.h", 5)
	a := &treemodel.Node{Kind: treemodel.Parsing, Name: "Parsing", Total: 15, Children: []*treemodel.Node{a1, a2}}

	b1 := treemodel.New(treemodel.Parse, "h.h", 3)
	b := &treemodel.Node{Kind: treemodel.Parsing, Name: "Parsing", Total: 3, Children: []*treemodel.Node{b1}}

	aClone, bClone := a.Clone(), b.Clone()
	MergeNodes(a, b)

	bClone2, aClone2 := bClone.Clone(), aClone.Clone()
	MergeNodes(bClone2, aClone2)

	assert.Equal(t, a.Total, bClone2.Total)
	assert.ElementsMatch(t, namesAndTotals(a.Children), namesAndTotals(bClone2.Children))
}

type nameTotal struct {
	name  string
	total treemodel.Microseconds
}

func namesAndTotals(children []*treemodel.Node) []nameTotal {
	out := make([]nameTotal, len(children))
	for i, c := range children {
		out[i] = nameTotal{c.Name, c.Total}
	}
	return out
}
