package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	"github.com/tliron/kutil/util"

	"method-integrator/internal/diagnostic"
)

var log = commonlog.GetLogger("method-integrator")

// globalFlags are shared by every command.
type globalFlags struct {
	verbose int
	quiet   bool
	logFile string
}

// newRootCmd builds the command tree.
func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "method-integrator",
		Short: "Rewrite methods inside compiled JVM classes",
		Long: `method-integrator locates methods in JVM class files by name and optional
descriptor, rewrites each match with a strategy (stub, strip-debug,
access-flags, ...) and writes the re-serialized class.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			flags.configureLogging()
		},
	}

	root.PersistentFlags().CountVarP(&flags.verbose, "verbose", "v", "increase log verbosity (repeatable)")
	root.PersistentFlags().BoolVarP(&flags.quiet, "quiet", "q", false, "disable logging")
	root.PersistentFlags().StringVar(&flags.logFile, "log", "", "write logs to this file instead of stderr")

	root.AddCommand(newIntegrateCmd(), newApplyCmd(flags), newInspectCmd())

	return root
}

// configureLogging maps the flags to a commonlog verbosity.
func (f *globalFlags) configureLogging() {
	configureLogging(f.verbosity(), f.logFile)
}

func (f *globalFlags) verbosity() int {
	if f.quiet {
		return -4
	}
	return f.verbose
}

func configureLogging(verbosity int, path string) {
	if path == "" {
		commonlog.Configure(verbosity, nil)
		return
	}
	commonlog.Configure(verbosity, &path)
}

// Execute runs the command line and exits the process. Exit hooks flush the
// buffered log writer.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	err := newRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		log.Error(err.Error())
		util.Exit(1)
	}
	util.Exit(0)
}

// printDiagnostics writes one line per diagnostic, errors first.
func printDiagnostics(w io.Writer, diags *diagnostic.Diagnostics) {
	for _, d := range diags.All() {
		fmt.Fprintf(w, "%s: %s\n", d.Severity, d)
	}
}
