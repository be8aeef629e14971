package analyze

import (
	"github.com/clang-build-profiler/cbp-go/internal/cbperrors"
	"github.com/clang-build-profiler/cbp-go/internal/trace"
	"github.com/clang-build-profiler/cbp-go/internal/treemodel"
)

// BuildInstantiationSubtree walks complete instantiation events in
// chronological order and recursively absorbs every subsequent event whose
// start time lies strictly before the current one's end time, reconstructing
// template dependency nesting (spec §4.4).
func BuildInstantiationSubtree(events []trace.Event) (*treemodel.Node, error) {
	root := &treemodel.Node{Kind: treemodel.Instantiation, Name: "Template instantiation"}

	cursor := 0
	for cursor < len(events) {
		child, err := handleInstantiationEvent(events, &cursor)
		if err != nil {
			return nil, err
		}
		root.Children = append(root.Children, child)
	}

	for _, child := range root.Children {
		root.Total += child.Total
	}

	return root, nil
}

func handleInstantiationEvent(events []trace.Event, cursor *int) (*treemodel.Node, error) {
	e := events[*cursor]

	detail, ok := e.Detail()
	if !ok {
		return nil, cbperrors.New(cbperrors.SchemaMismatch, "instantiation event missing args.detail")
	}
	if e.Duration == nil {
		return nil, cbperrors.New(cbperrors.SchemaMismatch, "instantiation event missing duration")
	}

	node := &treemodel.Node{Kind: treemodel.Instantiate, Name: detail, Total: *e.Duration}
	endTime := e.Time + *e.Duration

	*cursor++
	for *cursor < len(events) && events[*cursor].Time < endTime {
		child, err := handleInstantiationEvent(events, cursor)
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, child)
	}

	return node, nil
}
