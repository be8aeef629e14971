package analyze

import (
	"github.com/clang-build-profiler/cbp-go/internal/cbperrors"
	"github.com/clang-build-profiler/cbp-go/internal/classify"
	"github.com/clang-build-profiler/cbp-go/internal/trace"
	"github.com/clang-build-profiler/cbp-go/internal/treemodel"
)

// AssembleTranslationUnit builds a translation_unit node from one trace's
// events and reconciles it so every invariant in spec §3 holds (spec §4.5).
// events must already be chronologically ordered (trace.Read guarantees
// this); name is the display name for the resulting node (aggregate passes
// the trace file's path as discovered under its target directory).
func AssembleTranslationUnit(events []trace.Event, name string) (*treemodel.Node, error) {
	if len(events) == 0 {
		return nil, cbperrors.New(cbperrors.EmptyTrace, "trace has no events")
	}

	root := &treemodel.Node{
		Kind:  treemodel.TranslationUnit,
		Name:  name,
		Total: events[len(events)-1].Time - events[0].Time,
	}

	c := classify.Classify(events)

	// Fixed child order: parsing, instantiation, llvm_codegen, optimization,
	// native_codegen (spec §4.5 step 3).
	if len(c.Parsing) > 0 {
		parsingSubtree, err := BuildParsingSubtree(c.Parsing, c.Instantiation)
		if err != nil {
			return nil, err
		}
		root.Children = append(root.Children, parsingSubtree)
	}

	if len(c.Instantiation) > 0 {
		instantiationSubtree, err := BuildInstantiationSubtree(c.Instantiation)
		if err != nil {
			return nil, err
		}
		root.Children = append(root.Children, instantiationSubtree)
	}

	if c.LLVMCodegen.Present {
		root.Children = append(root.Children, stageLeaf(treemodel.LLVMCodegen, "LLVM IR generation", c.LLVMCodegen.Event))
	}
	if c.Optimization.Present {
		root.Children = append(root.Children, stageLeaf(treemodel.Optimization, "Optimization", c.Optimization.Event))
	}
	if c.NativeCodegen.Present {
		root.Children = append(root.Children, stageLeaf(treemodel.NativeCodegen, "Machine code generation", c.NativeCodegen.Event))
	}

	rootCarry := reconcile(root)
	// Subtract the carry that bubbled all the way to the TU root a second
	// time: whatever wall time could not be attributed to any child stays
	// with the translation unit itself rather than inflating it (spec §4.5
	// step 5).
	root.Total -= rootCarry
	root.Self -= rootCarry

	return root, nil
}

func stageLeaf(kind treemodel.Kind, name string, event trace.Event) *treemodel.Node {
	duration := *event.Duration
	return treemodel.New(kind, name, duration)
}

// reconcile performs the depth-first post-order reconciliation pass
// described in spec §4.5 step 4: it computes self durations, folds Carry
// into Total bottom-up, and (for every node except the translation unit
// root, whose children must keep stage order) stably sorts children by
// descending Total. It returns the node's own Carry after clearing it to
// zero, so callers can fold it into their own Carry.
func reconcile(n *treemodel.Node) treemodel.Microseconds {
	var childrenCarry, childrenTotal treemodel.Microseconds

	for _, child := range n.Children {
		childrenCarry += reconcile(child)
		childrenTotal += child.Total
	}

	n.Carry += childrenCarry
	n.Total += n.Carry
	n.Self = n.Total - childrenTotal

	if n.Kind != treemodel.TranslationUnit {
		n.SortChildrenByTotalDesc()
	}

	carry := n.Carry
	n.Carry = 0
	return carry
}
