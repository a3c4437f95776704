package integration

import (
	"errors"
	"fmt"

	"method-integrator/internal/classfile"
	"method-integrator/internal/classpath"
	"method-integrator/internal/diagnostic"
	"method-integrator/internal/match"
)

const maxSuggestions = 5

var (
	// ErrInvalidRequest is wrapped when a request lacks class bytes or a
	// method name.
	ErrInvalidRequest = errors.New("invalid integration request")

	errNilMethod  = errors.New("strategy returned no method")
	errNoStrategy = errors.New("engine has no strategy")
)

// Request names the method to rewrite.
type Request struct {
	// ClassBytes is the class file to rewrite. It defines ClassName even
	// when Context also knows that class.
	ClassBytes []byte
	// ClassName is the class defined by ClassBytes, with "." or "/"
	// separators.
	ClassName string
	// MethodName is matched case-insensitively.
	MethodName string
	// MethodSignature is a JVM method descriptor such as "(I)V". Empty
	// matches every overload.
	MethodSignature string
	// Context resolves auxiliary classes for strategies implementing
	// ClassStrategy. May be nil.
	Context classpath.Source
}

// Descriptor returns the method descriptor selected by the request.
func (r Request) Descriptor() match.MethodDescriptor {
	return match.MethodDescriptor{Name: r.MethodName, Signature: r.MethodSignature}
}

// Result is the outcome of a successful integration.
type Result struct {
	// Bytes is the serialized class. When nothing matched it is the
	// re-serialized, unmodified class.
	Bytes []byte
	// Transformed lists the keys ("name+descriptor") of the replaced
	// methods in processing order.
	Transformed []string
	Diagnostics diagnostic.Diagnostics
}

// Found reports whether at least one method matched.
func (r *Result) Found() bool {
	return len(r.Transformed) > 0
}

// Engine replaces matching methods using a Strategy. An Engine holds no
// per-call state and may be used from several goroutines if its Strategy
// and Logger allow it.
type Engine struct {
	strategy  Strategy
	log       Logger
	threshold float64
}

// NewEngine creates an engine applying strategy to every matching method.
// With a nil strategy every match fails with KindTransform.
func NewEngine(strategy Strategy, opts ...Option) *Engine {
	e := &Engine{
		strategy:  strategy,
		log:       defaultLogger(),
		threshold: match.DefaultSuggestionThreshold,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// PerformIntegration rewrites the methods of className selected by
// methodName and methodSignature and returns the new class bytes. On error
// the caller should keep the original bytes.
func (e *Engine) PerformIntegration(
	classBytes []byte, className, methodName, methodSignature string, ctx classpath.Source,
) ([]byte, error) {
	res, err := e.Integrate(Request{
		ClassBytes:      classBytes,
		ClassName:       className,
		MethodName:      methodName,
		MethodSignature: methodSignature,
		Context:         ctx,
	})
	if err != nil {
		return nil, err
	}
	return res.Bytes, nil
}

// Integrate is PerformIntegration with a structured result.
func (e *Engine) Integrate(req Request) (*Result, error) {
	className := match.NormalizeClassName(req.ClassName)
	desc := req.Descriptor()

	if err := validateRequest(req, className); err != nil {
		return nil, e.fail(KindResolution, className, desc.String(), err)
	}

	pool := classpath.NewPool(classpath.Bytes(className, req.ClassBytes), req.Context)
	class, err := pool.Get(className)
	if err != nil {
		return nil, e.fail(KindResolution, className, "", err)
	}
	target := NewTarget(class, pool)

	res := &Result{}

	// Matches are collected before the method table is touched.
	matches := match.Select(class.Methods(), desc)
	if len(matches) == 0 {
		e.reportMissing(class, desc, &res.Diagnostics)
	}

	for _, m := range matches {
		key, err := e.replace(target, m)
		if err != nil {
			return nil, err
		}
		res.Transformed = append(res.Transformed, key)
		res.Diagnostics.AddInfo(diagnostic.CodeMethodTransformed, "method transformed", className, key)
	}

	data, err := class.Bytes()
	if err != nil {
		return nil, e.fail(KindSerialization, className, "", err)
	}
	res.Bytes = data

	return res, nil
}

func validateRequest(req Request, className string) error {
	switch {
	case len(req.ClassBytes) == 0:
		return fmt.Errorf("%w: empty class bytes", ErrInvalidRequest)
	case className == "":
		return fmt.Errorf("%w: empty class name", ErrInvalidRequest)
	case req.MethodName == "":
		return fmt.Errorf("%w: empty method name", ErrInvalidRequest)
	}
	return nil
}

// replace removes m, transforms it and adds the result back.
func (e *Engine) replace(target *Target, m *classfile.Method) (string, error) {
	class := target.Class
	className := class.JavaName()
	name, descriptor, key := m.Name, m.Descriptor, m.Key()

	if e.strategy == nil {
		return "", e.fail(KindTransform, className, key, errNoStrategy)
	}

	if err := class.Remove(m); err != nil {
		return "", e.fail(KindNotFound, className, key, err)
	}

	out, err := Apply(e.strategy, target, m)
	if err == nil && out == nil {
		err = errNilMethod
	}
	if err != nil {
		return "", e.fail(KindTransform, className, key, err)
	}

	if out.Name != name || out.Descriptor != descriptor {
		err := fmt.Errorf("%w: strategy turned %s into %s", classfile.ErrIncompatibleMethod, key, out.Key())
		return "", e.fail(KindIncompatible, className, key, err)
	}

	if err := class.Add(out); err != nil {
		return "", e.fail(KindIncompatible, className, key, err)
	}

	e.log.Debugf("transformed %s.%s", className, key)
	return key, nil
}

func (e *Engine) reportMissing(class *classfile.Class, desc match.MethodDescriptor, diags *diagnostic.Diagnostics) {
	msg := "Could not find method for name: " + desc.Name
	if desc.HasSignature() {
		msg += " (Signature: " + desc.Signature + ")"
	}
	e.log.Errorf("%s", msg)

	d := diagnostic.Diagnostic{
		Severity: diagnostic.DiagnosticWarning,
		Code:     diagnostic.CodeMethodNotFound,
		Message:  msg,
		Class:    class.JavaName(),
		Method:   desc.String(),
	}
	if e.threshold > 0 {
		d.Suggestions = match.Suggest(class.Methods(), desc, e.threshold).Top(maxSuggestions).Keys()
	}
	diags.Add(d)
}

func (e *Engine) fail(kind ErrorKind, className, method string, err error) *Error {
	e.log.Debugf("%s error for %s %s: %v", kind, className, method, err)
	return newError(kind, className, method, err)
}
