package cliapp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/clang-build-profiler/cbp-go/internal/aggregate"
	"github.com/clang-build-profiler/cbp-go/internal/config"
	"github.com/clang-build-profiler/cbp-go/internal/merge"
	"github.com/clang-build-profiler/cbp-go/internal/preprocess"
	"github.com/clang-build-profiler/cbp-go/internal/treemodel"
)

// New builds the cbp command-line application. version is injected by
// cmd/cbp/main.go so the module's own version tag is the single source of
// truth (the teacher's cmd/lci/main.go does the equivalent with
// internal/version.Version).
func New(version string) *cli.App {
	return &cli.App{
		Name:    "cbp",
		Usage:   "analyze and report on clang -ftime-trace build profiles",
		Version: version,
		// Return every error from Run (including cli.Exit ones) to the
		// caller instead of letting urfave/cli exit the process itself.
		ExitErrHandler: func(*cli.Context, error) {},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "configuration file path",
				Value:   config.DefaultPath,
			},
			&cli.StringFlag{
				Name:  "output",
				Usage: "output format: text or json",
				Value: "text",
			},
		},
		Commands: []*cli.Command{
			analyzeCommand(),
			buildCommand(),
			mergeCommand(),
		},
	}
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	path := c.String("config")

	cfg := config.Default()
	if _, err := os.Stat(path); err == nil {
		cfg, err = config.Load(path)
		if err != nil {
			return nil, err
		}
	}

	aggregate.MaxWorkers = cfg.Performance.ParallelWorkers
	return cfg, nil
}

func analyzeCommand() *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Usage:     "analyze a single target directory of trace files",
		ArgsUsage: "<target-dir>",
		Action: func(c *cli.Context) error {
			if c.Args().Len() != 1 {
				return cli.Exit("analyze requires exactly one target directory argument", 1)
			}
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}

			target, err := aggregate.AnalyzeTarget(context.Background(), c.Args().First())
			if err != nil {
				return err
			}
			if err := preprocess.Run(target, &cfg.Tree); err != nil {
				return err
			}

			return render(c, target)
		},
	}
}

func buildCommand() *cli.Command {
	return &cli.Command{
		Name:      "build",
		Usage:     "analyze every target in a CMake build directory",
		ArgsUsage: "<build-dir>",
		Action: func(c *cli.Context) error {
			if c.Args().Len() != 1 {
				return cli.Exit("build requires exactly one build directory argument", 1)
			}
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}

			root, err := aggregate.AnalyzeBuild(context.Background(), c.Args().First())
			if err != nil {
				return err
			}
			if err := preprocess.Run(root, &cfg.Tree); err != nil {
				return err
			}

			return render(c, root)
		},
	}
}

func mergeCommand() *cli.Command {
	return &cli.Command{
		Name:      "merge",
		Usage:     "analyze a build directory and print the cross-TU merge summary",
		ArgsUsage: "<build-dir>",
		Action: func(c *cli.Context) error {
			if c.Args().Len() != 1 {
				return cli.Exit("merge requires exactly one build directory argument", 1)
			}
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}

			root, err := aggregate.AnalyzeBuild(context.Background(), c.Args().First())
			if err != nil {
				return err
			}
			if err := preprocess.Run(root, &cfg.Tree); err != nil {
				return err
			}

			summary := merge.Merge(root)
			return render(c, summary.Root)
		},
	}
}

// render writes n to stdout in the format named by the --output flag.
func render(c *cli.Context, n *treemodel.Node) error {
	if c.String("output") == "json" {
		enc := json.NewEncoder(c.App.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(n)
	}

	_, err := fmt.Fprint(c.App.Writer, FormatTree(n))
	return err
}
