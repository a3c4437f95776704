package integration

import (
	"method-integrator/internal/classfile"
	"method-integrator/internal/classpath"
)

// Strategy rewrites one method. The returned method must keep the name and
// descriptor of its input. It may be the input itself or a new method.
type Strategy interface {
	Transform(m *classfile.Method) (*classfile.Method, error)
}

// StrategyFunc adapts a plain function to Strategy.
type StrategyFunc func(m *classfile.Method) (*classfile.Method, error)

// Transform calls f(m).
func (f StrategyFunc) Transform(m *classfile.Method) (*classfile.Method, error) {
	return f(m)
}

// ClassStrategy is a Strategy that needs the class being rewritten. The
// engine calls TransformIn instead of Transform when a strategy implements
// it.
type ClassStrategy interface {
	Strategy
	TransformIn(t *Target, m *classfile.Method) (*classfile.Method, error)
}

// Target is the class under rewrite together with the pool that resolved
// it. The pool searches the request bytes first, then the request context.
type Target struct {
	Class *classfile.Class
	pool  *classpath.Pool
}

// NewTarget binds class to pool. A nil pool resolves nothing.
func NewTarget(class *classfile.Class, pool *classpath.Pool) *Target {
	if pool == nil {
		pool = classpath.NewPool()
	}
	return &Target{Class: class, pool: pool}
}

// Resolve parses an auxiliary class, such as a superclass, from the
// classpath context.
func (t *Target) Resolve(className string) (*classfile.Class, error) {
	return t.pool.Get(className)
}

// Apply runs s on m, passing t along when s implements ClassStrategy.
func Apply(s Strategy, t *Target, m *classfile.Method) (*classfile.Method, error) {
	if cs, ok := s.(ClassStrategy); ok {
		return cs.TransformIn(t, m)
	}
	return s.Transform(m)
}
