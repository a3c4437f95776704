package strategy

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"method-integrator/internal/classfile"
	"method-integrator/internal/integration"
)

// Names of the built-in strategies.
const (
	NameIdentity    = "identity"
	NameStripDebug  = "strip-debug"
	NameStub        = "stub"
	NameAccessFlags = "access-flags"
)

// Factory builds a strategy from string options.
type Factory func(options map[string]string) (integration.Strategy, error)

// Registry maps strategy names to factories.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Default returns a registry holding the built-in strategies.
func Default() *Registry {
	r := NewRegistry()
	for name, f := range map[string]Factory{
		NameIdentity:    newIdentity,
		NameStripDebug:  newStripDebug,
		NameStub:        newStub,
		NameAccessFlags: newAccessFlags,
	} {
		if err := r.Register(name, f); err != nil {
			panic(err)
		}
	}
	return r
}

// Register adds a factory. Names are case-insensitive and must be unique.
func (r *Registry) Register(name string, f Factory) error {
	key := normalizeName(name)
	if key == "" {
		return fmt.Errorf("strategy name must not be empty")
	}
	if f == nil {
		return fmt.Errorf("strategy %s has no factory", key)
	}
	if _, exists := r.factories[key]; exists {
		return fmt.Errorf("strategy %s already registered", key)
	}

	r.factories[key] = f
	return nil
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.factories[normalizeName(name)]
	return ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	return slices.Sorted(maps.Keys(r.factories))
}

// Build creates the strategy registered under name.
func (r *Registry) Build(name string, options map[string]string) (integration.Strategy, error) {
	f, ok := r.factories[normalizeName(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q (known: %s)", ErrUnknownStrategy, name, strings.Join(r.Names(), ", "))
	}

	s, err := f(options)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", normalizeName(name), err)
	}
	return s, nil
}

// Step names one strategy and its options.
type Step struct {
	Name    string
	Options map[string]string
}

// BuildChain builds every step and chains them. A single step is returned
// as is.
func (r *Registry) BuildChain(steps []Step) (integration.Strategy, error) {
	chain := make(Chain, 0, len(steps))
	for _, step := range steps {
		s, err := r.Build(step.Name, step.Options)
		if err != nil {
			return nil, err
		}
		chain = append(chain, s)
	}

	if len(chain) == 1 {
		return chain[0], nil
	}
	return chain, nil
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// checkOptions rejects keys outside allowed.
func checkOptions(options map[string]string, allowed ...string) error {
	for key := range options {
		if !slices.Contains(allowed, key) {
			return fmt.Errorf("%w: unknown option %q", ErrInvalidOptions, key)
		}
	}
	return nil
}

func newIdentity(options map[string]string) (integration.Strategy, error) {
	if err := checkOptions(options); err != nil {
		return nil, err
	}
	return Identity{}, nil
}

func newStub(options map[string]string) (integration.Strategy, error) {
	if err := checkOptions(options); err != nil {
		return nil, err
	}
	return Stub{}, nil
}

// newStripDebug accepts "attributes", a list of Code attribute names
// separated by commas, spaces or "|". The command line reserves commas for
// separating options, so "LineNumberTable|LocalVariableTable" is the form
// it uses.
func newStripDebug(options map[string]string) (integration.Strategy, error) {
	if err := checkOptions(options, "attributes"); err != nil {
		return nil, err
	}

	var s StripDebug
	for _, name := range splitList(options["attributes"]) {
		s.Attributes = append(s.Attributes, name)
	}
	return s, nil
}

// splitList splits an option value the way ParseMethodAccess does.
func splitList(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' || r == '|' })
}

// newAccessFlags accepts "set" and "clear", each a list of access keywords
// such as "public final".
func newAccessFlags(options map[string]string) (integration.Strategy, error) {
	if err := checkOptions(options, "set", "clear"); err != nil {
		return nil, err
	}

	var (
		a   AccessFlags
		err error
	)
	if a.Set, err = classfile.ParseMethodAccess(options["set"]); err != nil {
		return nil, fmt.Errorf("%w: set: %v", ErrInvalidOptions, err)
	}
	if a.Clear, err = classfile.ParseMethodAccess(options["clear"]); err != nil {
		return nil, fmt.Errorf("%w: clear: %v", ErrInvalidOptions, err)
	}
	if a.Set == 0 && a.Clear == 0 {
		return nil, fmt.Errorf("%w: one of set or clear is required", ErrInvalidOptions)
	}
	if a.Set&a.Clear != 0 {
		return nil, fmt.Errorf("%w: %s both set and cleared", ErrInvalidOptions, classfile.FormatMethodAccess(a.Set&a.Clear))
	}
	if err := a.check(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}

	return a, nil
}
