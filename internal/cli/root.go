package cli

import (
	"context"
	"fmt"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	version string // semantic version (e.g., "v1.2.3")
	commit  string // git commit SHA
	date    string // build timestamp
)

// SetVersion sets the version information displayed by --version.
// This is typically called by the main package during initialization
// with values injected via ldflags at build time.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the trackplan CLI and returns an error if any command
// fails. This is the main entry point for the CLI application.
//
// The function sets up the root command with all subcommands (place,
// check, graph), configures logging based on the --verbose flag, and
// executes the command tree. The logger is attached to the context and
// accessible to all commands via loggerFromContext.
func Execute(ctx context.Context) error {
	var verbose bool

	root := &cobra.Command{
		Use:          "trackplan",
		Short:        "trackplan places routing wires along one axis",
		Long:         `trackplan resolves a declarative wire specification into consistent track positions: it builds the wire ordering graph, validates shared-wire boundaries, solves ordinals group by group, and converts them into physical coordinates using a technology table.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			ctx := withLogger(cmd.Context(), newLogger(os.Stderr, level))
			cmd.SetContext(ctx)
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("trackplan %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newPlaceCmd())
	root.AddCommand(newCheckCmd())
	root.AddCommand(newGraphCmd())

	return root.ExecuteContext(ctx)
}

// writeOutput writes data to path, or stdout when path is empty.
func writeOutput(path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
