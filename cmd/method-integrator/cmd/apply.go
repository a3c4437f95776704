package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"method-integrator/internal/classpath"
	"method-integrator/internal/plan"
)

type applyOptions struct {
	plan      string
	out       string
	classpath []string
}

func newApplyCmd(global *globalFlags) *cobra.Command {
	opts := &applyOptions{}

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Run an integration plan",
		Long: `Run every integration of a YAML plan. Classes are read from the plan's
classpath (plus --classpath) and written under --out, laid out by package.
A class whose integration fails is written unchanged.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(cmd, global, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.plan, "plan", "p", "", "plan file (YAML)")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "output directory")
	cmd.Flags().StringSliceVar(&opts.classpath, "classpath", nil, "extra classpath entries searched after the plan's")
	_ = cmd.MarkFlagRequired("plan")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}

func runApply(cmd *cobra.Command, global *globalFlags, opts *applyOptions) error {
	f, err := plan.LoadFile(opts.plan)
	if err != nil {
		return err
	}

	// Plan logging settings apply unless overridden on the command line.
	if !cmd.Flags().Changed("verbose") && !global.quiet {
		logFile := global.logFile
		if logFile == "" {
			logFile = f.Logging.File
		}
		configureLogging(f.Logging.Verbosity, logFile)
	}

	f.AddClasspath(opts.classpath...)
	if f.Classpath.IsEmpty() {
		return errors.New("no classpath: set classpath in the plan or pass --classpath")
	}

	runner := plan.NewRunner(classpath.OpenAll(f.Classpath), opts.out, plan.WithLogger(log))
	report, err := runner.Run(cmd.Context(), f)
	printDiagnostics(cmd.ErrOrStderr(), &report.Diagnostics)
	if err != nil {
		return err
	}

	for _, c := range report.Classes {
		status := "ok"
		if c.Failed {
			status = "unchanged (failed)"
		}
		cmd.Printf("%s: %s, %d method(s) transformed -> %s\n", c.Class, status, len(c.Transformed), c.Path)
	}

	if report.Failed() {
		return fmt.Errorf("%d error(s) while applying %s", len(report.Diagnostics.Errors), opts.plan)
	}

	return nil
}
