package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clang-build-profiler/cbp-go/internal/trace"
	"github.com/clang-build-profiler/cbp-go/internal/treemodel"
)

func complete(name string, t, dur int64) trace.Event {
	d := treemodel.Microseconds(dur)
	return trace.Event{Name: name, Phase: trace.PhaseComplete, Time: treemodel.Microseconds(t), Duration: &d}
}

func TestClassify_PartitionsByRole(t *testing.T) {
	events := []trace.Event{
		{Name: "Source", Phase: trace.PhaseBegin, Time: 0, Args: map[string]any{"detail": "a.h"}},
		{Name: "Source", Phase: trace.PhaseEnd, Time: 10},
		complete("InstantiateClass", 2, 3),
		complete("Frontend", 50, 100),
		complete("Total Optimizer", 150, 20),
		complete("Total CodeGenPasses", 170, 30),
		complete("Frontend", 200, 40),
	}

	c := Classify(events)

	assert.Len(t, c.Parsing, 2)
	assert.Len(t, c.Instantiation, 1)
	require.True(t, c.Optimization.Present)
	assert.EqualValues(t, 20, *c.Optimization.Event.Duration)
	require.True(t, c.NativeCodegen.Present)
	assert.EqualValues(t, 30, *c.NativeCodegen.Event.Duration)

	// Only the second "Frontend" event becomes llvm_codegen.
	require.True(t, c.LLVMCodegen.Present)
	assert.EqualValues(t, 200, c.LLVMCodegen.Event.Time)
}

func TestClassify_SingleFrontendEventYieldsNoLLVMCodegen(t *testing.T) {
	events := []trace.Event{complete("Frontend", 0, 10)}
	c := Classify(events)
	assert.False(t, c.LLVMCodegen.Present)
}

func TestClassify_KeepsFirstOfDuplicateStageTotals(t *testing.T) {
	events := []trace.Event{
		complete("Total Optimizer", 0, 5),
		complete("Total Optimizer", 10, 99),
	}
	c := Classify(events)
	require.True(t, c.Optimization.Present)
	assert.EqualValues(t, 5, *c.Optimization.Event.Duration)
}
