package cliapp

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTrace(t *testing.T, path string) {
	t.Helper()
	doc := map[string]any{
		"traceEvents": []map[string]any{
			{"name": "Source", "ph": "b", "ts": 0, "args": map[string]any{"detail": "a.h"}},
			{"name": "Source", "ph": "e", "ts": 100},
		},
	}
	data, err := json.Marshal(doc)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func TestApp_AnalyzeCommand_TextOutput(t *testing.T) {
	dir := t.TempDir()
	writeTrace(t, filepath.Join(dir, "main.cpp.json"))

	var out bytes.Buffer
	app := New("test")
	app.Writer = &out

	err := app.Run([]string{"cbp", "analyze", dir})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "main.cpp")
}

func TestApp_AnalyzeCommand_JSONOutput(t *testing.T) {
	dir := t.TempDir()
	writeTrace(t, filepath.Join(dir, "main.cpp.json"))

	var out bytes.Buffer
	app := New("test")
	app.Writer = &out

	err := app.Run([]string{"cbp", "--output", "json", "analyze", dir})
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	assert.Equal(t, "target", decoded["kind"])
}

func TestApp_AnalyzeCommand_RequiresOneArgument(t *testing.T) {
	app := New("test")
	app.Writer = &bytes.Buffer{}

	err := app.Run([]string{"cbp", "analyze"})
	require.Error(t, err)
}
