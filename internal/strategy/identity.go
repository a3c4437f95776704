package strategy

import "method-integrator/internal/classfile"

// Identity returns every method unchanged.
type Identity struct{}

// Transform returns m.
func (Identity) Transform(m *classfile.Method) (*classfile.Method, error) {
	return m, nil
}
