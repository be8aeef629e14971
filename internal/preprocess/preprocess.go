// Package preprocess applies the display-oriented transforms spec §4.9
// describes: categorizing nodes by duration, pruning the uninteresting
// ones, normalizing names, and prettifying instantiate nodes.
//
// Grounded on original_source/source/backend/preprocess.cpp (per spec
// §4.9's description; the algorithm is specified precisely enough that no
// separate reading of the C++ source was required) and, for the recursive
// in-place tree-rewrite shape, the teacher's internal/display/tree_formatter.go.
package preprocess

import (
	"path"
	"strings"

	"github.com/clang-build-profiler/cbp-go/internal/config"
	"github.com/clang-build-profiler/cbp-go/internal/prettify"
	"github.com/clang-build-profiler/cbp-go/internal/treemodel"
)

// Run applies the full preprocessing pass to tree in place (spec §4.9).
// When the walk reaches a target node, that node's original name (the
// directory it was analyzed from) is used to strip the target prefix from
// its TU children's names; outside a target's subtree no prefix is stripped.
func Run(tree *treemodel.Node, cfg *config.Tree) error {
	if err := walk(tree, cfg, ""); err != nil {
		return err
	}
	categorize(tree, cfg.Categorize)
	return nil
}

// walk performs one node's worth of the per-node steps (spec §4.9 steps
// 1-6) before recursing into its (possibly pruned) children.
func walk(n *treemodel.Node, cfg *config.Tree, targetPath string) error {
	if n.Kind == treemodel.Target {
		targetPath = n.Name
		n.Name = simplifyTargetName(n.Name)
	}

	kept := n.Children[:0]
	for _, child := range n.Children {
		categorizeOne(child, cfg.Categorize)
		if child.Category == treemodel.CategoryNone {
			continue
		}
		kept = append(kept, child)
	}
	n.Children = kept

	for _, child := range n.Children {
		if n.Kind == treemodel.Target && child.Kind == treemodel.TranslationUnit {
			child.Name = simplifyTUName(child.Name, targetPath)
		}

		if child.Kind == treemodel.Parse || child.Kind == treemodel.TranslationUnit {
			child.Name = path.Clean(child.Name)
			child.Name = applyFilepathRules(child.Name, cfg.ReplaceFilepath)
		}

		if child.Kind == treemodel.Instantiate {
			pretty, err := prettify.Identifier(child.Name)
			if err != nil {
				return err
			}
			child.Name = pretty
		}

		if err := walk(child, cfg, targetPath); err != nil {
			return err
		}
	}

	return nil
}

// categorize assigns the root's own category, the one node categorizeOne
// never reaches since it is only ever called on someone's child.
func categorize(root *treemodel.Node, thresholds config.Categorize) {
	categorizeOne(root, thresholds)
}

func categorizeOne(n *treemodel.Node, t config.Categorize) {
	ms := int(n.Total / 1000)
	switch {
	case ms >= t.Red:
		n.Category = treemodel.CategoryRed
	case ms >= t.Yellow:
		n.Category = treemodel.CategoryYellow
	case ms >= t.White:
		n.Category = treemodel.CategoryWhite
	case ms >= t.Gray:
		n.Category = treemodel.CategoryGray
	default:
		n.Category = treemodel.CategoryNone
	}
}

// simplifyTargetName reduces a target's name to the basename of its
// analyzed directory, stripping the CMake-style ".dir" suffix if present
// (spec §4.9 step 3).
func simplifyTargetName(name string) string {
	base := path.Base(name)
	return strings.TrimSuffix(base, ".dir")
}

// simplifyTUName strips the target's own path prefix and the trace file's
// .json suffix from a TU child's name (spec §4.9 step 3).
func simplifyTUName(name, targetPath string) string {
	name = strings.TrimPrefix(name, targetPath+"/")
	return strings.TrimSuffix(name, ".json")
}

func applyFilepathRules(name string, rules []config.FilepathRule) string {
	for _, rule := range rules {
		if strings.HasPrefix(name, rule.From) {
			name = rule.To + strings.TrimPrefix(name, rule.From)
		}
	}
	return name
}
