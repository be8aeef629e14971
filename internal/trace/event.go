// Package trace decodes a -ftime-trace JSON document into a chronologically
// ordered Event sequence (spec §4.1, §6).
//
// Grounded on original_source/include/trace.hpp (the event/phase shape) and
// the teacher's internal/core/file_loader.go for the "read fully into
// memory, then validate" discipline (spec §5's resource model).
package trace

import "github.com/clang-build-profiler/cbp-go/internal/treemodel"

// Phase is the single-character event phase from the Chrome trace format.
type Phase string

const (
	PhaseBegin    Phase = "b"
	PhaseEnd      Phase = "e"
	PhaseComplete Phase = "X"
)

// Event is a single read-only record from a trace (spec §3).
type Event struct {
	Name     string
	Phase    Phase
	Thread   uint64
	Time     treemodel.Microseconds
	Duration *treemodel.Microseconds
	Args     map[string]any
}

// Detail returns the string stored at args.detail, used to name Parse and
// Instantiate nodes. The second return is false when the field is absent
// or not a string.
func (e Event) Detail() (string, bool) {
	raw, ok := e.Args["detail"]
	if !ok {
		return "", false
	}
	s, ok := raw.(string)
	return s, ok
}

// End returns the event's end time: Time+Duration for a complete event,
// and Time itself for begin/end events (which have no duration).
func (e Event) End() treemodel.Microseconds {
	if e.Duration != nil {
		return e.Time + *e.Duration
	}
	return e.Time
}
