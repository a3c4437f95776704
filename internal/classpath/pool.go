package classpath

import (
	"fmt"

	"method-integrator/internal/classfile"
	"method-integrator/internal/match"
)

// Pool resolves class names against an ordered list of sources.
type Pool struct {
	sources Sources
}

// NewPool creates a pool searching sources in the given order. Nil sources
// are skipped.
func NewPool(sources ...Source) *Pool {
	return &Pool{sources: Sources(sources)}
}

// Get resolves className to a freshly parsed class model. The parsed class
// must declare exactly the requested name.
func (p *Pool) Get(className string) (*classfile.Class, error) {
	want := match.NormalizeClassName(className)

	data, err := p.sources.Find(want)
	if err != nil {
		return nil, err
	}

	c, err := classfile.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse class %s: %w", want, err)
	}
	if c.JavaName() != want {
		return nil, fmt.Errorf("%w: requested %s, bytes define %s", ErrNameMismatch, want, c.JavaName())
	}

	return c, nil
}
