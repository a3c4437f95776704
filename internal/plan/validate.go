package plan

import (
	"fmt"
	"strings"

	"method-integrator/internal/classfile"
	"method-integrator/internal/diagnostic"
	"method-integrator/internal/match"
	"method-integrator/internal/strategy"
)

// Validate checks a plan against the strategies known to registry. A nil
// registry means strategy.Default(). Nothing is read from the classpath.
func Validate(f *File, registry *strategy.Registry) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if f == nil {
		res.AddError(diagnostic.CodeMissingField, "plan is nil", "", "")
		return res
	}

	if registry == nil {
		registry = strategy.Default()
	}

	if f.Version != CurrentVersion {
		res.AddError(diagnostic.CodeUnsupportedVersion,
			fmt.Sprintf("unsupported plan version %q (want %q)", f.Version, CurrentVersion), "", "")
	}

	if len(f.Integrations) == 0 {
		res.AddWarning(diagnostic.CodeEmptyPlan, "plan has no integrations", "", "")
	}

	seen := make(map[string]int)

	for i := range f.Integrations {
		in := &f.Integrations[i]
		validateIntegration(res, registry, i, in)

		if in.Class == "" || in.Method == "" {
			continue
		}

		key := in.ClassName() + "#" + strings.ToLower(in.Method) + in.Signature
		if first, dup := seen[key]; dup {
			res.AddWarning(diagnostic.CodeDuplicateTarget,
				fmt.Sprintf("integration %d repeats the target of integration %d", i+1, first+1),
				in.ClassName(), in.Target().String())
			continue
		}
		seen[key] = i
	}

	return res
}

// validateIntegration validates a single integration entry.
func validateIntegration(res *diagnostic.Diagnostics, registry *strategy.Registry, idx int, in *Integration) {
	class, method := in.ClassName(), in.Target().String()

	if in.Class == "" {
		res.AddError(diagnostic.CodeMissingField, fmt.Sprintf("integration %d: class is required", idx+1), "", method)
	}

	if in.Method == "" {
		res.AddError(diagnostic.CodeMissingField, fmt.Sprintf("integration %d: method is required", idx+1), class, "")
	}

	if in.Signature != "" {
		if _, err := classfile.ParseMethodDescriptor(in.Signature); err != nil {
			res.AddError(diagnostic.CodeInvalidSignature, err.Error(), class, method)
		}
	}

	if len(in.Strategies) == 0 {
		res.AddError(diagnostic.CodeMissingField,
			fmt.Sprintf("integration %d: at least one strategy is required", idx+1), class, method)
	}

	for _, step := range in.Strategies {
		validateStep(res, registry, class, method, step)
	}
}

func validateStep(res *diagnostic.Diagnostics, registry *strategy.Registry, class, method string, step Step) {
	if step.Name == "" {
		res.AddError(diagnostic.CodeMissingField, "strategy name is required", class, method)
		return
	}

	if !registry.Has(step.Name) {
		res.Add(diagnostic.Diagnostic{
			Severity:    diagnostic.DiagnosticError,
			Code:        diagnostic.CodeUnknownStrategy,
			Message:     fmt.Sprintf("unknown strategy %q", step.Name),
			Class:       class,
			Method:      method,
			Suggestions: closestNames(step.Name, registry.Names()),
		})

		return
	}

	if _, err := registry.Build(step.Name, step.Options); err != nil {
		res.AddError(diagnostic.CodeInvalidStrategy, err.Error(), class, method)
	}
}

// closestNames returns the registered names resembling name.
func closestNames(name string, names []string) []string {
	var out []string

	for _, n := range names {
		if match.IdentSimilarity(name, n) >= match.DefaultSuggestionThreshold {
			out = append(out, n)
		}
	}

	return out
}
