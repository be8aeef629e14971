// Package config defines the typed configuration record (spec §3/§6) and
// loads it from a YAML document, following the teacher's
// internal/config/config.go split between a plain data struct and a
// separate Validator. The document shape trades the teacher's KDL format
// for gopkg.in/yaml.v3, since spec §6 fixes the wire format to YAML.
package config

import (
	"bytes"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/clang-build-profiler/cbp-go/internal/cbperrors"
)

// DefaultPath is where the host CLI looks for a config file when none is
// given explicitly (spec §6).
const DefaultPath = ".clang-build-profiler"

// Config is the typed configuration record (spec §3).
type Config struct {
	Version     string      `yaml:"version"`
	Tree        Tree        `yaml:"tree"`
	Performance Performance `yaml:"performance"`
}

// Tree holds every tree-shaping option.
type Tree struct {
	Categorize            Categorize     `yaml:"categorize"`
	DetectStandardHeaders  bool           `yaml:"detect_standard_headers"`
	DetectProjectHeaders   bool           `yaml:"detect_project_headers"`
	ReplaceFilepath        []FilepathRule `yaml:"replace_filepath"`
}

// Performance holds host-layer tuning knobs that govern aggregation but
// carry no tree-shaping semantics of their own (spec §5's optional
// worker-pool note, mirroring the teacher's Performance.ParallelFileWorkers).
type Performance struct {
	// ParallelWorkers bounds how many translation units are analyzed
	// concurrently during target/build aggregation. 0 means auto-detect
	// (runtime.NumCPU()).
	ParallelWorkers int `yaml:"parallel_workers"`
}

// Categorize holds the four ascending millisecond thresholds the
// preprocessor compares each node's Total against (spec §4.9).
type Categorize struct {
	Gray   int `yaml:"gray"`
	White  int `yaml:"white"`
	Yellow int `yaml:"yellow"`
	Red    int `yaml:"red"`
}

// FilepathRule is one ordered prefix rewrite applied to parse and
// translation_unit node names (spec §4.9 step 6).
type FilepathRule struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// Default returns the configuration spec §6's example document describes,
// used whenever a section is missing from the loaded document.
func Default() *Config {
	return &Config{
		Version: "1.0.0",
		Tree: Tree{
			Categorize: Categorize{
				Gray:   0,
				White:  50,
				Yellow: 150,
				Red:    300,
			},
			DetectStandardHeaders: true,
			DetectProjectHeaders:  true,
		},
	}
}

// Load reads and validates the YAML document at path. A missing tree
// section inherits the defaults wholesale; a present one is decoded over
// the defaults, so keys it omits keep their default values (spec §6:
// "Missing sections inherit defaults").
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, cbperrors.Wrap(cbperrors.InvalidConfig, "reading config", err).WithPath(path)
	}
	return Parse(data)
}

// Parse validates and returns the configuration encoded in data. The
// tree: section is decoded strictly (unrecognized keys under it fail with
// invalid_config); anything else at the document root is accepted and
// ignored, matching spec §6's "unknown keys are ignored" for the trace
// format and "missing sections inherit defaults" for config.
func Parse(data []byte) (*Config, error) {
	cfg := Default()

	var raw struct {
		Version     string       `yaml:"version"`
		Tree        yaml.Node    `yaml:"tree"`
		Performance *Performance `yaml:"performance"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, cbperrors.Wrap(cbperrors.InvalidConfig, "parsing YAML", err)
	}

	if raw.Version != "" {
		cfg.Version = raw.Version
	}
	if raw.Tree.Kind != 0 {
		tree, err := decodeTreeStrict(&raw.Tree)
		if err != nil {
			return nil, err
		}
		cfg.Tree = *tree
	}
	if raw.Performance != nil {
		cfg.Performance = *raw.Performance
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// decodeTreeStrict re-encodes the tree: subtree and decodes it through a
// KnownFields(true) decoder, so a typo under tree: (e.g. "categorise")
// fails loudly as invalid_config instead of being silently ignored, while
// the rest of the document stays lenient.
func decodeTreeStrict(node *yaml.Node) (*Tree, error) {
	raw, err := yaml.Marshal(node)
	if err != nil {
		return nil, cbperrors.Wrap(cbperrors.InvalidConfig, "re-encoding tree section", err)
	}

	tree := Default().Tree
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&tree); err != nil {
		return nil, cbperrors.Wrap(cbperrors.InvalidConfig, "parsing tree section", err)
	}
	return &tree, nil
}
