package strategy

import (
	"fmt"

	"method-integrator/internal/classfile"
	"method-integrator/internal/integration"
)

const (
	opAConstNull = 0x01
	opIConst0    = 0x03
	opLConst0    = 0x09
	opFConst0    = 0x0b
	opDConst0    = 0x0e
	opIReturn    = 0xac
	opLReturn    = 0xad
	opFReturn    = 0xae
	opDReturn    = 0xaf
	opAReturn    = 0xb0
	opReturn     = 0xb1

	opALoad0        = 0x2a
	opInvokeSpecial = 0xb7
)

const (
	constructorName = "<init>"
	objectClass     = "java/lang/Object"
)

// Stub replaces a method body with a return of the default value for the
// method's return type: nothing, zero, false or null.
//
// The exception table and every nested Code attribute are dropped since
// they describe the old bytecode. Method-level attributes such as
// Exceptions and Signature are kept.
//
// A stubbed constructor still calls the superclass's no-argument
// constructor. The superclass is resolved through the target's classpath
// to check that such a constructor exists, so constructors can only be
// stubbed through TransformIn.
type Stub struct{}

// Transform returns a copy of m with a stub body.
func (s Stub) Transform(m *classfile.Method) (*classfile.Method, error) {
	return s.TransformIn(nil, m)
}

// TransformIn is Transform with access to the declaring class.
func (Stub) TransformIn(t *integration.Target, m *classfile.Method) (*classfile.Method, error) {
	if m.IsAbstract() || m.IsNative() {
		return nil, fmt.Errorf("%w: cannot stub %s", ErrNoBody, m.Key())
	}

	typ, err := m.Type()
	if err != nil {
		return nil, err
	}

	locals := typ.ArgSlots()
	if !m.IsStatic() {
		locals++
	}

	code := &classfile.Code{
		MaxStack:  uint16(typ.Return.Slots()),
		MaxLocals: uint16(locals),
		Bytecode:  defaultReturn(typ.Return),
	}
	if m.Name == constructorName {
		if code.Bytecode, err = constructorBody(t, m); err != nil {
			return nil, err
		}
		code.MaxStack = 1
	}

	out := m.Clone()
	if err := out.SetCode(code); err != nil {
		return nil, fmt.Errorf("stub %s: %w", m.Key(), err)
	}

	return out, nil
}

// constructorBody returns "aload_0; invokespecial super.<init>()V; return".
func constructorBody(t *integration.Target, m *classfile.Method) ([]byte, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoClass, m.Key())
	}

	super := t.Class.SuperName()
	if super == "" {
		return []byte{opReturn}, nil
	}

	if super != objectClass {
		sup, err := t.Resolve(super)
		if err != nil {
			return nil, fmt.Errorf("resolve superclass of %s: %w", t.Class.JavaName(), err)
		}
		ctor, ok := sup.Method(constructorName, "()V")
		if !ok || ctor.AccessFlags&classfile.AccPrivate != 0 {
			return nil, fmt.Errorf("%w: %s", ErrNoSuperConstructor, sup.JavaName())
		}
	}

	idx, err := t.Class.Pool().InternMethodref(super, constructorName, "()V")
	if err != nil {
		return nil, err
	}
	return []byte{opALoad0, opInvokeSpecial, byte(idx >> 8), byte(idx), opReturn}, nil
}

// defaultReturn returns the bytecode that pushes the zero value of t and
// returns it.
func defaultReturn(t classfile.FieldType) []byte {
	switch t.Kind() {
	case 'V':
		return []byte{opReturn}
	case 'J':
		return []byte{opLConst0, opLReturn}
	case 'F':
		return []byte{opFConst0, opFReturn}
	case 'D':
		return []byte{opDConst0, opDReturn}
	case 'L', '[':
		return []byte{opAConstNull, opAReturn}
	default: // Z B C S I
		return []byte{opIConst0, opIReturn}
	}
}
