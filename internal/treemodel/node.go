// Package treemodel defines the tagged-union tree type shared by every
// stage of the pipeline: trace analysis, target/build aggregation, the
// merge engine, and the preprocessor all operate on the same *Node shape.
//
// Grounded on original_source/include/backend/tree.hpp (the C++ tree_type
// bitflag enum and tree struct) and, for the Go shape of a mutable
// pointer-tree with ordered children, the teacher's
// internal/display/tree_formatter.go TreeNode.
package treemodel

import (
	"encoding/json"
	"sort"
)

// Microseconds is the unit every duration in the system is expressed in.
type Microseconds int64

// Kind is the tagged-union discriminator for a Node. It is a closed sum
// type: every switch over Kind in this module is expected to be exhaustive.
type Kind uint16

const (
	Targets Kind = 1 << iota
	Target
	TranslationUnit
	Parsing
	Parse
	Instantiation
	Instantiate
	LLVMCodegen
	Optimization
	NativeCodegen
)

// CompilationStage and NodeGroup are bitflag groupings over Kind, not additional
// variants (original_source/include/backend/tree.hpp §"bitflag groups").
const (
	CompilationStage = Parsing | Instantiation | LLVMCodegen | Optimization | NativeCodegen
	NodeGroup        = Parse | Instantiate
)

// Is reports whether k belongs to the bitflag group g (e.g. k.Is(CompilationStage)).
func (k Kind) Is(group Kind) bool {
	return k&group != 0
}

func (k Kind) String() string {
	switch k {
	case Targets:
		return "targets"
	case Target:
		return "target"
	case TranslationUnit:
		return "translation_unit"
	case Parsing:
		return "parsing"
	case Parse:
		return "parse"
	case Instantiation:
		return "instantiation"
	case Instantiate:
		return "instantiate"
	case LLVMCodegen:
		return "llvm_codegen"
	case Optimization:
		return "optimization"
	case NativeCodegen:
		return "native_codegen"
	default:
		return "unknown"
	}
}

// MarshalJSON renders a Kind as its spec §3 string name rather than its
// numeric bitflag value, so a serialized tree reads the way spec.md names
// the kind enum.
func (k Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// Category is the coarse severity bucket assigned by the preprocessor from
// a node's Total via the configured thresholds.
type Category uint8

const (
	CategoryNone Category = iota
	CategoryGray
	CategoryWhite
	CategoryYellow
	CategoryRed
)

func (c Category) String() string {
	switch c {
	case CategoryGray:
		return "gray"
	case CategoryWhite:
		return "white"
	case CategoryYellow:
		return "yellow"
	case CategoryRed:
		return "red"
	default:
		return "none"
	}
}

// MarshalJSON renders a Category as its spec §3 string name.
func (c Category) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// Node is the sole structural element of the output tree (spec §3).
// Carry is an internal accumulator used only during reconciliation in
// package analyze; it is always zero by the time a tree leaves that
// package, and every other package may treat it as dead weight.
type Node struct {
	Kind     Kind         `json:"kind"`
	Name     string       `json:"name"`
	Total    Microseconds `json:"total"`
	Self     Microseconds `json:"self"`
	Carry    Microseconds `json:"carry,omitempty"`
	Category Category     `json:"category"`
	Children []*Node      `json:"children,omitempty"`
}

// New constructs a leaf node with Total and Self both set to total, the
// common case for stage-total leaves built directly from a single event.
func New(kind Kind, name string, total Microseconds) *Node {
	return &Node{Kind: kind, Name: name, Total: total, Self: total}
}

// SortChildrenByTotalDesc stably sorts a node's children by descending
// Total, the ordering rule spec §3 invariant 4 requires for every non-TU
// parent (translation_unit children keep stage order instead).
func (n *Node) SortChildrenByTotalDesc() {
	sort.SliceStable(n.Children, func(i, j int) bool {
		return n.Children[i].Total > n.Children[j].Total
	})
}

// ForAll visits n and every descendant in pre-order.
func (n *Node) ForAll(fn func(*Node)) {
	fn(n)
	for _, child := range n.Children {
		child.ForAll(fn)
	}
}

// Clone makes a deep copy of the subtree rooted at n.
func (n *Node) Clone() *Node {
	clone := &Node{
		Kind:     n.Kind,
		Name:     n.Name,
		Total:    n.Total,
		Self:     n.Self,
		Carry:    n.Carry,
		Category: n.Category,
	}
	if len(n.Children) > 0 {
		clone.Children = make([]*Node, len(n.Children))
		for i, c := range n.Children {
			clone.Children[i] = c.Clone()
		}
	}
	return clone
}
