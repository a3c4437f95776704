package strategy

import (
	"errors"
	"fmt"

	"method-integrator/internal/classfile"
)

// DebugAttributes are the Code attributes removed by StripDebug by default.
var DebugAttributes = []string{
	classfile.AttrLineNumberTable,
	classfile.AttrLocalVariableTable,
	classfile.AttrLocalVariableTypeTable,
}

// StripDebug removes debug attributes from a method's Code attribute.
// Methods without a body are returned unchanged.
type StripDebug struct {
	// Attributes overrides DebugAttributes when non-empty.
	Attributes []string
}

// Transform returns a copy of m without the configured Code attributes.
func (s StripDebug) Transform(m *classfile.Method) (*classfile.Method, error) {
	out := m.Clone()

	code, err := out.Code()
	if errors.Is(err, classfile.ErrNoCode) {
		return out, nil
	}
	if err != nil {
		return nil, fmt.Errorf("strip debug info from %s: %w", m.Key(), err)
	}

	names := s.Attributes
	if len(names) == 0 {
		names = DebugAttributes
	}
	if code.RemoveAttributes(names...) == 0 {
		return out, nil
	}

	if err := out.SetCode(code); err != nil {
		return nil, fmt.Errorf("strip debug info from %s: %w", m.Key(), err)
	}
	return out, nil
}
