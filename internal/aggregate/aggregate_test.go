package aggregate

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/clang-build-profiler/cbp-go/internal/treemodel"
)

// TestMain verifies the errgroup-based worker pool in AnalyzeTarget leaves
// no goroutines running after every test completes.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
	)
}

func writeTrace(t *testing.T, path string, events int) {
	t.Helper()
	doc := map[string]any{
		"traceEvents": []map[string]any{
			{"name": "Source", "ph": "b", "ts": 0, "args": map[string]any{"detail": "a.h"}},
			{"name": "Source", "ph": "e", "ts": events},
		},
	}
	data, err := json.Marshal(doc)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func TestAnalyzeTarget_SkipsMalformedFilesAndSumsRest(t *testing.T) {
	dir := t.TempDir()
	writeTrace(t, filepath.Join(dir, "good1.json"), 100)
	writeTrace(t, filepath.Join(dir, "good2.json"), 200)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte("not json"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte("nope"), 0o644))

	MaxWorkers = 2
	target, err := AnalyzeTarget(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, treemodel.Target, target.Kind)
	require.Len(t, target.Children, 2)
	assert.EqualValues(t, 300, target.Total)
}

func TestAnalyzeBuild_FailsWithoutManifest(t *testing.T) {
	dir := t.TempDir()
	_, err := AnalyzeBuild(context.Background(), dir)
	require.Error(t, err)
}

func TestAnalyzeBuild_SkipsMissingAndEmptyDirs(t *testing.T) {
	build := t.TempDir()
	present := t.TempDir()
	writeTrace(t, filepath.Join(present, "a.json"), 50)

	empty := t.TempDir()

	require.NoError(t, os.MkdirAll(filepath.Join(build, "CMakeFiles"), 0o755))
	manifest := filepath.Join(build, "CMakeFiles", "TargetDirectories.txt")
	content := present + "\n" + empty + "\n/does/not/exist\n"
	require.NoError(t, os.WriteFile(manifest, []byte(content), 0o644))

	root, err := AnalyzeBuild(context.Background(), build)
	require.NoError(t, err)
	assert.Equal(t, treemodel.Targets, root.Kind)
	require.Len(t, root.Children, 1)
}
