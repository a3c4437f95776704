package plan

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tliron/commonlog"

	"method-integrator/internal/classpath"
	"method-integrator/internal/diagnostic"
	"method-integrator/internal/integration"
	"method-integrator/internal/strategy"
)

// ClassReport is the outcome for one class of a plan.
type ClassReport struct {
	// Class is the dotted class name.
	Class string
	// Path is the written output file, empty when nothing was written.
	Path string
	// Transformed lists the replaced methods ("name+descriptor").
	Transformed []string
	// Failed is set when an integration failed and the original bytes were
	// written instead.
	Failed bool
}

// Report is the outcome of Runner.Run.
type Report struct {
	Classes     []ClassReport
	Diagnostics diagnostic.Diagnostics
}

// Failed reports whether any class fell back to its original bytes or
// could not be processed.
func (r *Report) Failed() bool {
	return r.Diagnostics.HasErrors()
}

// Runner applies a plan to classes read from a classpath and writes the
// results into an output directory laid out by package.
type Runner struct {
	source   classpath.Source
	outDir   string
	registry *strategy.Registry
	log      commonlog.Logger
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithRegistry sets the strategy registry. The default is strategy.Default().
func WithRegistry(r *strategy.Registry) RunnerOption {
	return func(rn *Runner) {
		rn.registry = r
	}
}

// WithLogger sets the logger for the runner and the engines it creates.
func WithLogger(l commonlog.Logger) RunnerOption {
	return func(rn *Runner) {
		rn.log = l
	}
}

// NewRunner creates a runner reading classes (and resolving auxiliary
// classes) from source and writing to outDir.
func NewRunner(source classpath.Source, outDir string, opts ...RunnerOption) *Runner {
	r := &Runner{
		source:   source,
		outDir:   outDir,
		registry: strategy.Default(),
		log:      commonlog.GetLogger("method-integrator.plan"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run validates f and applies its integrations class by class. Integration
// failures do not stop the run: the failing class is written unchanged and
// an error diagnostic is recorded. The returned error is reserved for an
// invalid plan, cancellation and output failures.
func (r *Runner) Run(ctx context.Context, f *File) (*Report, error) {
	report := &Report{}

	diags := Validate(f, r.registry)
	report.Diagnostics.Merge(*diags)
	if diags.HasErrors() {
		return report, fmt.Errorf("invalid plan: %w", diags.Error())
	}

	for _, class := range f.Classes() {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		cr, ok := r.runClass(class, f.ForClass(class), &report.Diagnostics)
		if !ok {
			continue
		}

		path, err := r.write(class, cr.data)
		if err != nil {
			report.Diagnostics.AddError(diagnostic.CodeWriteFailed, err.Error(), class, "")
			return report, err
		}
		cr.report.Path = path

		report.Classes = append(report.Classes, cr.report)
	}

	r.log.Infof("processed %d classes", len(report.Classes))

	return report, nil
}

type classResult struct {
	report ClassReport
	data   []byte
}

// runClass applies every integration for class in order. It reports false
// when the class could not be read.
func (r *Runner) runClass(class string, ins []*Integration, diags *diagnostic.Diagnostics) (classResult, bool) {
	original, err := r.source.Find(class)
	if err != nil {
		code := diagnostic.CodeIntegrationFailed
		if errors.Is(err, classpath.ErrClassNotFound) {
			code = diagnostic.CodeClassNotFound
		}
		diags.AddError(code, err.Error(), class, "")
		r.log.Errorf("cannot read %s: %s", class, err)

		return classResult{}, false
	}

	res := classResult{report: ClassReport{Class: class}, data: original}

	for _, in := range ins {
		out, err := r.apply(res.data, in)
		if err != nil {
			diags.AddError(diagnostic.CodeIntegrationFailed, err.Error(), class, in.Target().String())
			r.log.Errorf("%s; keeping original bytes of %s", err, class)

			res.report.Failed = true
			res.report.Transformed = nil
			res.data = original

			return res, true
		}

		diags.Merge(out.Diagnostics)
		res.report.Transformed = append(res.report.Transformed, out.Transformed...)
		res.data = out.Bytes
	}

	return res, true
}

func (r *Runner) apply(data []byte, in *Integration) (*integration.Result, error) {
	s, err := r.registry.BuildChain(in.Strategies.StrategySteps())
	if err != nil {
		return nil, err
	}

	engine := integration.NewEngine(s, integration.WithLogger(r.log))

	return engine.Integrate(integration.Request{
		ClassBytes:      data,
		ClassName:       in.ClassName(),
		MethodName:      in.Method,
		MethodSignature: in.Signature,
		Context:         r.source,
	})
}

func (r *Runner) write(class string, data []byte) (string, error) {
	path := filepath.Join(r.outDir, filepath.FromSlash(classpath.ClassFilePath(class)))

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory for %s: %w", class, err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write class file %s: %w", path, err)
	}

	r.log.Debugf("wrote %s", path)

	return path, nil
}
