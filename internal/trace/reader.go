package trace

import (
	"encoding/json"
	"sort"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/clang-build-profiler/cbp-go/internal/cbperrors"
	"github.com/clang-build-profiler/cbp-go/internal/treemodel"
)

// documentSchema describes the minimal top-level shape of a -ftime-trace
// document (spec §6): a "traceEvents" array, plus an optional
// "beginningOfTime" number. It is resolved once at package init and reused
// across every Read call, matching the teacher's own practice of building
// jsonschema.Schema values once (internal/mcp/server.go) rather than per
// request.
var documentSchema = &jsonschema.Schema{
	Type: "object",
	Properties: map[string]*jsonschema.Schema{
		"traceEvents":     {Type: "array"},
		"beginningOfTime": {Type: "number"},
	},
	Required: []string{"traceEvents"},
}

var resolvedDocumentSchema = mustResolve(documentSchema)

func mustResolve(s *jsonschema.Schema) *jsonschema.Resolved {
	resolved, err := s.Resolve(nil)
	if err != nil {
		// The schema above is a package-level literal; a failure here is a
		// programmer error, not a user-facing one.
		panic("trace: invalid document schema: " + err.Error())
	}
	return resolved
}

// rawEvent mirrors the on-the-wire shape of a single trace event (spec §6):
// name, ph (phase char), tid, ts (unsigned microseconds), optionally dur
// and args. Unknown keys are ignored.
type rawEvent struct {
	Name     string         `json:"name"`
	Phase    string         `json:"ph"`
	Thread   uint64         `json:"tid"`
	Time     uint64         `json:"ts"`
	Duration *uint64        `json:"dur,omitempty"`
	Args     map[string]any `json:"args,omitempty"`
}

// rawDocument mirrors the top-level trace document shape.
type rawDocument struct {
	TraceEvents     []rawEvent `json:"traceEvents"`
	BeginningOfTime *int64     `json:"beginningOfTime,omitempty"`
}

// Read decodes a -ftime-trace JSON document and returns its events ordered
// per the ordering predicate in spec §3 (earlier Time first, stable among
// ties). path is used only to annotate errors.
func Read(data []byte, path string) ([]Event, error) {
	// Generic validation first: a structurally malformed document (not even
	// valid JSON, or JSON of the wrong shape) should fail with a precise
	// malformed_trace message naming what's missing, rather than a bare
	// json.Unmarshal error.
	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return nil, cbperrors.New(cbperrors.MalformedTrace, "not valid JSON: %v", err).WithPath(path)
	}
	if err := resolvedDocumentSchema.Validate(generic); err != nil {
		return nil, cbperrors.New(cbperrors.MalformedTrace, "document does not match trace schema: %v", err).WithPath(path)
	}

	var doc rawDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, cbperrors.New(cbperrors.MalformedTrace, "could not decode trace events: %v", err).WithPath(path)
	}

	events := make([]Event, 0, len(doc.TraceEvents))
	for _, re := range doc.TraceEvents {
		var duration *treemodel.Microseconds
		if re.Duration != nil {
			d := treemodel.Microseconds(*re.Duration)
			duration = &d
		}
		events = append(events, Event{
			Name:     re.Name,
			Phase:    Phase(re.Phase),
			Thread:   re.Thread,
			Time:     treemodel.Microseconds(re.Time),
			Duration: duration,
			Args:     re.Args,
		})
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Time < events[j].Time
	})

	return events, nil
}
