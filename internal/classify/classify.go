// Package classify partitions a chronologically ordered event sequence into
// disjoint role groups, preserving chronological order within each group
// (spec §4.2).
//
// Grounded on original_source/source/backend/analyze.cpp's extract_events /
// extract_event_by_name helpers.
package classify

import "github.com/clang-build-profiler/cbp-go/internal/trace"

// StageTotal is a single stage-total event extracted by name (spec §4.2):
// at most one per translation unit for each of llvm_codegen, optimization
// and native_codegen.
type StageTotal struct {
	Event   trace.Event
	Present bool
}

// Classified holds the disjoint partitions produced from one translation
// unit's event sequence.
type Classified struct {
	Parsing       []trace.Event
	Instantiation []trace.Event
	LLVMCodegen   StageTotal
	Optimization  StageTotal
	NativeCodegen StageTotal
}

// Classify partitions events by role. events must already be chronologically
// ordered (trace.Read guarantees this).
func Classify(events []trace.Event) Classified {
	var c Classified

	var frontendEvents []trace.Event

	for _, e := range events {
		switch {
		case e.Name == "Source" && (e.Phase == trace.PhaseBegin || e.Phase == trace.PhaseEnd):
			c.Parsing = append(c.Parsing, e)
		case (e.Name == "InstantiateClass" || e.Name == "InstantiateFunction") && e.Phase == trace.PhaseComplete:
			c.Instantiation = append(c.Instantiation, e)
		case e.Name == "Frontend" && e.Phase == trace.PhaseComplete:
			frontendEvents = append(frontendEvents, e)
		case e.Name == "Total Optimizer" && e.Phase == trace.PhaseComplete:
			if !c.Optimization.Present {
				c.Optimization = StageTotal{Event: e, Present: true}
			}
		case e.Name == "Total CodeGenPasses" && e.Phase == trace.PhaseComplete:
			if !c.NativeCodegen.Present {
				c.NativeCodegen = StageTotal{Event: e, Present: true}
			}
		}
	}

	// The trace emits two "Frontend" complete events: the first summarizes
	// parsing+instantiation (already decomposed by those subtrees, so using
	// it would double-count), the second covers IR generation, which has no
	// finer-grained events of its own. Only the second is kept.
	if len(frontendEvents) >= 2 {
		c.LLVMCodegen = StageTotal{Event: frontendEvents[1], Present: true}
	}

	return c
}
