// Package analyze builds the per-translation-unit tree: the parsing
// subtree, the instantiation subtree, and the reconciliation pass that
// turns raw accumulated totals into invariant-satisfying total/self pairs
// (spec §4.3, §4.4, §4.5).
//
// Grounded on original_source/source/backend/analyze.cpp.
package analyze

import (
	"math"
	"sort"

	"github.com/clang-build-profiler/cbp-go/internal/cbperrors"
	"github.com/clang-build-profiler/cbp-go/internal/trace"
	"github.com/clang-build-profiler/cbp-go/internal/treemodel"
)

// BuildParsingSubtree merges parsingEvents and instantiationEvents into one
// chronologically ordered stream and walks it with an explicit stack to
// reconstruct #include nesting, subtracting early (in-parsing) template
// instantiation time via Carry so it is attributed to the instantiation
// subtree instead (spec §4.3).
func BuildParsingSubtree(parsingEvents, instantiationEvents []trace.Event) (*treemodel.Node, error) {
	merged := make([]trace.Event, 0, len(parsingEvents)+len(instantiationEvents))
	merged = append(merged, parsingEvents...)
	merged = append(merged, instantiationEvents...)
	sort.SliceStable(merged, func(i, j int) bool { return merged[i].Time < merged[j].Time })

	root := &treemodel.Node{Kind: treemodel.Parsing, Name: "Parsing"}
	stack := []*treemodel.Node{root}

	lastInstantiationEnd := treemodel.Microseconds(math.MinInt64)

	for _, e := range merged {
		top := stack[len(stack)-1]

		switch {
		case e.Name == "Source" && e.Phase == trace.PhaseBegin:
			detail, ok := e.Detail()
			if !ok {
				return nil, cbperrors.New(cbperrors.SchemaMismatch, "'Source' begin event missing args.detail")
			}
			child := &treemodel.Node{Kind: treemodel.Parse, Name: detail, Total: -e.Time}
			top.Children = append(top.Children, child)
			stack = append(stack, child)

		case e.Name == "Source" && e.Phase == trace.PhaseEnd:
			top.Total += e.Time
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return nil, cbperrors.New(cbperrors.SchemaMismatch, "'Source' event begin/end mismatch")
			}

		default: // an instantiation event interleaved with parsing
			if e.Duration == nil {
				return nil, cbperrors.New(cbperrors.SchemaMismatch, "instantiation event missing duration")
			}
			if e.Time < lastInstantiationEnd {
				continue // nested instantiation inside an already-counted one, skip
			}
			if len(stack) == 1 {
				continue // not currently inside a parse node (stack holds only the root)
			}
			top.Carry -= *e.Duration
			lastInstantiationEnd = e.Time + *e.Duration
		}
	}

	if len(stack) != 1 {
		return nil, cbperrors.New(cbperrors.SchemaMismatch, "'Source' event begin/end mismatch: unclosed include at end of trace")
	}

	for _, child := range root.Children {
		root.Total += child.Total
	}

	return root, nil
}
