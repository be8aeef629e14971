// Package cliapp wires the core pipeline (trace analysis, merge,
// prettification) to a thin urfave/cli/v2 front end (spec §6: "Outputs...
// Serialization is the responsibility of external collaborators").
//
// Grounded on the teacher's cmd/lci/main.go for the cli.App/Command shape
// and internal/display/tree_formatter.go for the ASCII tree renderer,
// adapted to the duration/category shape of a treemodel.Node instead of a
// call-graph FunctionTree.
package cliapp

import (
	"fmt"
	"strings"

	"github.com/clang-build-profiler/cbp-go/internal/treemodel"
)

// FormatTree renders root as an indented ASCII tree, one line per node,
// annotated with each node's total duration and category.
func FormatTree(root *treemodel.Node) string {
	var sb strings.Builder
	formatNode(&sb, root, "", true, true)
	return sb.String()
}

func formatNode(sb *strings.Builder, n *treemodel.Node, prefix string, isLast, isRoot bool) {
	var branch string
	switch {
	case isRoot:
		branch = ""
	case isLast:
		branch = "└─ "
	default:
		branch = "├─ "
	}

	sb.WriteString(prefix)
	sb.WriteString(branch)
	sb.WriteString(n.Name)
	sb.WriteString(fmt.Sprintf(" (%s, %s)", formatDuration(n.Total), n.Category))
	sb.WriteString("\n")

	childPrefix := prefix
	if !isRoot {
		if isLast {
			childPrefix += "   "
		} else {
			childPrefix += "│  "
		}
	}

	for i, child := range n.Children {
		formatNode(sb, child, childPrefix, i == len(n.Children)-1, false)
	}
}

// formatDuration renders a microsecond count the way a developer reading a
// build trace report expects to see it: milliseconds with one decimal.
func formatDuration(us treemodel.Microseconds) string {
	return fmt.Sprintf("%.1fms", float64(us)/1000)
}
