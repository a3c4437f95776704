package strategy

import (
	"fmt"

	"method-integrator/internal/classfile"
	"method-integrator/internal/integration"
)

// Chain applies strategies in order, feeding each the previous output.
// An empty chain behaves like Identity.
type Chain []integration.Strategy

// Transform runs every strategy of the chain.
func (c Chain) Transform(m *classfile.Method) (*classfile.Method, error) {
	return c.TransformIn(nil, m)
}

// TransformIn runs every strategy of the chain, handing t to the steps
// that take the declaring class.
func (c Chain) TransformIn(t *integration.Target, m *classfile.Method) (*classfile.Method, error) {
	cur := m
	for i, s := range c {
		next, err := integration.Apply(s, t, cur)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		if next == nil {
			return nil, fmt.Errorf("step %d: no method returned", i+1)
		}
		cur = next
	}
	return cur, nil
}
