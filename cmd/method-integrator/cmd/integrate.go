package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"method-integrator/internal/classfile"
	"method-integrator/internal/classpath"
	"method-integrator/internal/integration"
	"method-integrator/internal/plan"
	"method-integrator/internal/strategy"
)

type integrateOptions struct {
	className  string
	method     string
	signature  string
	strategies []string
	classpath  []string
	out        string
	savePlan   string
}

func newIntegrateCmd() *cobra.Command {
	opts := &integrateOptions{}

	cmd := &cobra.Command{
		Use:   "integrate <class-file>",
		Short: "Rewrite the matching methods of one class file",
		Long: `Rewrite every method of a class file whose name matches --method
(case-insensitive) and, when given, whose descriptor equals --signature.

Strategies are applied in order. Options follow the name after a colon:

  --strategy strip-debug --strategy access-flags:set=final,clear=synchronized

List values inside an option use "|" or spaces:

  --strategy strip-debug:attributes=LineNumberTable|LocalVariableTable

--save-plan appends the integration to a plan file (created if missing)
so it can be replayed with "apply".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIntegrate(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.className, "class", "", "class name (default: the name declared by the class file)")
	cmd.Flags().StringVarP(&opts.method, "method", "m", "", "method name")
	cmd.Flags().StringVarP(&opts.signature, "signature", "s", "", "method descriptor, e.g. (I)V")
	cmd.Flags().StringArrayVar(&opts.strategies, "strategy", []string{strategy.NameIdentity}, "strategy name[:key=value,...] (repeatable)")
	cmd.Flags().StringSliceVar(&opts.classpath, "classpath", nil, "directories and jars for auxiliary classes")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "output class file")
	cmd.Flags().StringVar(&opts.savePlan, "save-plan", "", "append this integration to a plan file")
	_ = cmd.MarkFlagRequired("method")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}

func runIntegrate(cmd *cobra.Command, path string, opts *integrateOptions) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read class file: %w", err)
	}

	className := opts.className
	if className == "" {
		c, err := classfile.Parse(data)
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}
		className = c.JavaName()
	}

	steps := make([]strategy.Step, 0, len(opts.strategies))
	for _, s := range opts.strategies {
		step, err := parseStep(s)
		if err != nil {
			return err
		}
		steps = append(steps, step)
	}

	s, err := strategy.Default().BuildChain(steps)
	if err != nil {
		return err
	}

	engine := integration.NewEngine(s, integration.WithLogger(log))
	res, err := engine.Integrate(integration.Request{
		ClassBytes:      data,
		ClassName:       className,
		MethodName:      opts.method,
		MethodSignature: opts.signature,
		Context:         classpath.OpenAll(opts.classpath),
	})
	if err != nil {
		return err
	}

	printDiagnostics(cmd.ErrOrStderr(), &res.Diagnostics)

	if err := os.WriteFile(opts.out, res.Bytes, 0644); err != nil {
		return fmt.Errorf("failed to write class file: %w", err)
	}

	cmd.Printf("%s: %d method(s) transformed, wrote %s\n", className, len(res.Transformed), opts.out)

	if opts.savePlan == "" {
		return nil
	}
	return savePlan(opts.savePlan, plan.Integration{
		Class:      className,
		Method:     opts.method,
		Signature:  opts.signature,
		Strategies: planSteps(steps),
	}, opts.classpath)
}

// savePlan appends in to the plan at path. Classpath entries are stored as
// absolute paths so the plan does not depend on the working directory.
func savePlan(path string, in plan.Integration, entries []string) error {
	f := &plan.File{Version: plan.CurrentVersion}
	if _, err := os.Stat(path); err == nil {
		if f, err = plan.LoadFile(path); err != nil {
			return err
		}
	}

	for _, e := range entries {
		abs, err := filepath.Abs(e)
		if err != nil {
			return fmt.Errorf("failed to resolve classpath entry %s: %w", e, err)
		}
		f.AddClasspath(abs)
	}
	f.Integrations = append(f.Integrations, in)

	if err := plan.WriteFile(f, path); err != nil {
		return err
	}
	log.Infof("saved integration of %s.%s to %s", in.ClassName(), in.Method, path)
	return nil
}

func planSteps(steps []strategy.Step) plan.StepList {
	out := make(plan.StepList, len(steps))
	for i, s := range steps {
		out[i] = plan.Step{Name: s.Name, Options: s.Options}
	}
	return out
}

// parseStep parses "name" or "name:key=value,key=value".
func parseStep(s string) (strategy.Step, error) {
	name, rest, hasOptions := strings.Cut(s, ":")
	step := strategy.Step{Name: strings.TrimSpace(name)}
	if step.Name == "" {
		return step, fmt.Errorf("invalid strategy %q: missing name", s)
	}
	if !hasOptions {
		return step, nil
	}

	step.Options = make(map[string]string)
	for _, kv := range strings.Split(rest, ",") {
		if strings.TrimSpace(kv) == "" {
			continue
		}
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			return step, fmt.Errorf("invalid strategy option %q in %q: want key=value", kv, s)
		}
		step.Options[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}

	return step, nil
}
