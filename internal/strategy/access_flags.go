package strategy

import (
	"fmt"

	"method-integrator/internal/classfile"
)

// bodyFlags decide whether a method carries a Code attribute.
const bodyFlags = classfile.AccAbstract | classfile.AccNative

// AccessFlags sets and clears method access flags. Set is applied before
// Clear.
type AccessFlags struct {
	Set   uint16
	Clear uint16
}

// Transform returns a copy of m with adjusted access flags.
func (a AccessFlags) Transform(m *classfile.Method) (*classfile.Method, error) {
	if err := a.check(); err != nil {
		return nil, err
	}

	out := m.Clone()
	out.AccessFlags = (out.AccessFlags | a.Set) &^ a.Clear
	return out, nil
}

func (a AccessFlags) check() error {
	if changed := (a.Set | a.Clear) & bodyFlags; changed != 0 {
		return fmt.Errorf("%w: %s", ErrForbiddenFlags, classfile.FormatMethodAccess(changed))
	}
	return nil
}
