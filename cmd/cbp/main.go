// Command cbp is the thin command-line front end over the core analysis,
// merge, and prettification pipeline (spec §1: "command-line argument
// parsing... deliberately out of scope" for the core, specified here).
//
// Grounded on the teacher's cmd/lci/main.go: a package main that builds a
// *cli.App from an internal package and runs it against os.Args.
package main

import (
	"fmt"
	"os"

	"github.com/clang-build-profiler/cbp-go/internal/cliapp"
)

// version is overridden at build time via -ldflags "-X main.version=...",
// the same mechanism the teacher's internal/version package documents.
var version = "dev"

func main() {
	app := cliapp.New(version)
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "cbp:", err)
		os.Exit(1)
	}
}
