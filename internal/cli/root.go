package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"
)

// Execute runs the stackreel CLI with args and returns an error if any
// command fails. Logs go to stderr at info level, or debug level with
// --verbose (-v), which also routes pipeline, cache and server events to the
// log.
//
// Example:
//
//	func main() {
//	    if err := cli.Execute(ctx, os.Args[1:], os.Stderr); err != nil {
//	        os.Exit(1)
//	    }
//	}
func Execute(ctx context.Context, args []string, stderr io.Writer) error {
	root := newRoot(stderr)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

// newRoot builds the root command with the verbose flag wired to the
// logger level.
func newRoot(stderr io.Writer) *cobra.Command {
	var verbose bool

	c := New(stderr, LogInfo)
	root := c.RootCommand()
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	loadConfig := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if verbose {
			c.SetLogLevel(LogDebug)
		}
		return loadConfig(cmd, args)
	}
	return root
}
