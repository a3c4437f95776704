package plan

import (
	"slices"

	"method-integrator/internal/common"
	"method-integrator/internal/match"
	"method-integrator/internal/strategy"
)

// CurrentVersion is the plan schema version written by Marshal.
const CurrentVersion = "1"

// File is the root of a YAML integration plan.
type File struct {
	// Version of the plan schema.
	Version string `yaml:"version,omitempty"`

	// Classpath entries (directories or jars) classes are read from and
	// auxiliary classes are resolved against. Relative entries are
	// resolved against the plan file's directory by LoadFile.
	Classpath StringOrArray `yaml:"classpath,omitempty"`

	// Logging configures the command line logger.
	Logging Logging `yaml:"logging,omitempty"`

	// Integrations are applied in order. Several entries may name the same
	// class; each one consumes the previous entry's output.
	Integrations []Integration `yaml:"integrations"`
}

// Logging holds logger settings.
type Logging struct {
	// Verbosity follows commonlog: 0 notice, 1 info, 2 debug, -1 warning.
	Verbosity int `yaml:"verbosity,omitempty"`

	// File receives log output instead of stderr when set.
	File string `yaml:"file,omitempty"`
}

// Integration selects one method (or every overload of a name) in one class.
type Integration struct {
	// Class name with "." or "/" separators.
	Class string `yaml:"class"`

	// Method name, matched case-insensitively.
	Method string `yaml:"method"`

	// Signature is an optional JVM method descriptor, e.g. "(I)V".
	Signature string `yaml:"signature,omitempty"`

	// Strategies are chained in order.
	Strategies StepList `yaml:"strategies"`
}

// Target is the method descriptor selected by the integration.
func (i *Integration) Target() match.MethodDescriptor {
	return match.MethodDescriptor{Name: i.Method, Signature: i.Signature}
}

// ClassName returns the dotted class name.
func (i *Integration) ClassName() string {
	return match.NormalizeClassName(i.Class)
}

// Step is one strategy reference.
type Step struct {
	Name    string            `yaml:"name"`
	Options map[string]string `yaml:"options,omitempty"`
}

// StepList is a list of strategy references. In YAML it may be a single
// name, a single mapping or a sequence of either.
type StepList []Step

// Names returns the strategy names in order.
func (s StepList) Names() []string {
	out := make([]string, len(s))
	for i, st := range s {
		out[i] = st.Name
	}
	return out
}

// StrategySteps converts the list for strategy.Registry.BuildChain.
func (s StepList) StrategySteps() []strategy.Step {
	out := make([]strategy.Step, len(s))
	for i, st := range s {
		out[i] = strategy.Step{Name: st.Name, Options: st.Options}
	}
	return out
}

// StringOrArray holds one or more strings. In YAML it may be a single
// string or a sequence.
type StringOrArray []string

// IsEmpty returns true if the array is empty.
func (s StringOrArray) IsEmpty() bool {
	return common.IsEmpty(s)
}

// Contains returns true if the array contains the given string.
func (s StringOrArray) Contains(str string) bool {
	return slices.Contains(s, str)
}

// AddClasspath appends the entries the plan does not list yet.
func (f *File) AddClasspath(entries ...string) {
	for _, e := range entries {
		if e != "" && !f.Classpath.Contains(e) {
			f.Classpath = append(f.Classpath, e)
		}
	}
}

// Classes returns the dotted names of every class the plan touches, in
// order of first appearance.
func (f *File) Classes() []string {
	var out []string

	seen := make(map[string]bool)
	for i := range f.Integrations {
		name := f.Integrations[i].ClassName()
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}

	return out
}

// ForClass returns the integrations targeting className, in plan order.
func (f *File) ForClass(className string) []*Integration {
	want := match.NormalizeClassName(className)

	var out []*Integration
	for i := range f.Integrations {
		if f.Integrations[i].ClassName() == want {
			out = append(out, &f.Integrations[i])
		}
	}

	return out
}
