// Command zonelabel labels conduits, fittings and fixtures with the scope
// box that contains them. All behavior lives in internal/cli.
package main

import (
	"github.com/chazu/zonelabel/internal/cli"
)

// Set by the release build via ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.Version = version
	cli.Commit = commit
	cli.Date = date

	cli.Execute(cli.NewRootCommand())
}
