package classfile

import (
	"fmt"
	"strings"
)

// Method is one declared method of a class.
//
// A Method parsed from a class stays bound to that class's constant pool
// after removal, so its attributes remain meaningful and it can be added
// back to the same class. A Method created with NewMethod is detached until
// it is added to a class.
type Method struct {
	AccessFlags uint16
	Name        string
	Descriptor  string
	Attributes  []Attribute

	nameIndex uint16
	descIndex uint16
	pool      *ConstantPool
}

// NewMethod creates a detached method without attributes.
func NewMethod(flags uint16, name, descriptor string) *Method {
	return &Method{AccessFlags: flags, Name: name, Descriptor: descriptor}
}

// Key returns name+descriptor, the identity of a method within a class.
func (m *Method) Key() string {
	return m.Name + m.Descriptor
}

// String returns a readable form such as "public static foo(I)V".
func (m *Method) String() string {
	access := FormatMethodAccess(m.AccessFlags)
	if access == "" {
		return m.Key()
	}
	return access + " " + m.Key()
}

// IsStatic reports whether ACC_STATIC is set.
func (m *Method) IsStatic() bool { return m.AccessFlags&AccStatic != 0 }

// IsAbstract reports whether ACC_ABSTRACT is set.
func (m *Method) IsAbstract() bool { return m.AccessFlags&AccAbstract != 0 }

// IsNative reports whether ACC_NATIVE is set.
func (m *Method) IsNative() bool { return m.AccessFlags&AccNative != 0 }

// Type parses the method's descriptor.
func (m *Method) Type() (*MethodType, error) {
	return ParseMethodDescriptor(m.Descriptor)
}

// Attribute returns the first attribute with the given name.
func (m *Method) Attribute(name string) (Attribute, bool) {
	for _, a := range m.Attributes {
		if a.Name == name {
			return a, true
		}
	}
	return Attribute{}, false
}

// SetAttribute replaces the first attribute with the same name, or appends.
func (m *Method) SetAttribute(a Attribute) {
	for i := range m.Attributes {
		if m.Attributes[i].Name == a.Name {
			a.nameIndex = m.Attributes[i].nameIndex
			m.Attributes[i] = a
			return
		}
	}
	m.Attributes = append(m.Attributes, a)
}

// RemoveAttribute drops every attribute with the given name and reports
// whether any was present.
func (m *Method) RemoveAttribute(name string) bool {
	kept := m.Attributes[:0]
	found := false
	for _, a := range m.Attributes {
		if a.Name == name {
			found = true
			continue
		}
		kept = append(kept, a)
	}
	m.Attributes = kept
	return found
}

// Code decodes the method's Code attribute.
func (m *Method) Code() (*Code, error) {
	a, ok := m.Attribute(AttrCode)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoCode, m.Key())
	}
	if m.pool == nil {
		return nil, fmt.Errorf("%w: %s", ErrDetached, m.Key())
	}
	return DecodeCode(a.Info, m.pool)
}

// SetCode encodes c as the method's Code attribute.
func (m *Method) SetCode(c *Code) error {
	if m.pool == nil {
		return fmt.Errorf("%w: %s", ErrDetached, m.Key())
	}
	info, err := c.Encode(m.pool)
	if err != nil {
		return fmt.Errorf("encode code of %s: %w", m.Key(), err)
	}
	m.SetAttribute(Attribute{Name: AttrCode, Info: info})
	return nil
}

// Clone returns a deep copy bound to the same constant pool.
func (m *Method) Clone() *Method {
	c := *m
	c.Attributes = cloneAttributes(m.Attributes)
	return &c
}

// Equal reports structural equality: flags, name, descriptor and attributes.
func (m *Method) Equal(o *Method) bool {
	if m == nil || o == nil {
		return m == o
	}
	return m.AccessFlags == o.AccessFlags &&
		m.Name == o.Name &&
		m.Descriptor == o.Descriptor &&
		equalAttributes(m.Attributes, o.Attributes)
}

// validate checks that the method can live in a class whose access flags
// are classFlags.
func (m *Method) validate(classFlags uint16) error {
	if err := validMethodName(m.Name); err != nil {
		return err
	}

	mt, err := m.Type()
	if err != nil {
		return err
	}
	switch m.Name {
	case "<init>":
		if mt.Return != "V" {
			return fmt.Errorf("constructor must return void, got %s", mt.Return)
		}
	case "<clinit>":
		if len(mt.Params) != 0 || mt.Return != "V" {
			return fmt.Errorf("class initializer must be ()V, got %s", m.Descriptor)
		}
	}

	_, hasCode := m.Attribute(AttrCode)
	bodyless := m.IsAbstract() || m.IsNative()
	switch {
	case bodyless && hasCode:
		return fmt.Errorf("abstract or native method carries a Code attribute")
	case !bodyless && !hasCode:
		return fmt.Errorf("concrete method has no Code attribute")
	case m.IsAbstract() && classFlags&(AccAbstract|AccInterface) == 0:
		return fmt.Errorf("abstract method in a concrete class")
	}

	if hasCode && m.pool != nil {
		code, err := m.Code()
		if err != nil {
			return err
		}
		need := mt.ArgSlots()
		if !m.IsStatic() {
			need++
		}
		if int(code.MaxLocals) < need {
			return fmt.Errorf("max_locals %d too small for descriptor %s", code.MaxLocals, m.Descriptor)
		}
	}

	return nil
}

func validMethodName(name string) error {
	if name == "" {
		return fmt.Errorf("empty method name")
	}
	if name == "<init>" || name == "<clinit>" {
		return nil
	}
	if strings.ContainsAny(name, ".;[/<>") {
		return fmt.Errorf("illegal method name %q", name)
	}
	return nil
}

func readMethod(r *reader, pool *ConstantPool) (*Method, error) {
	m := &Method{pool: pool}

	var err error
	if m.AccessFlags, err = r.u2(); err != nil {
		return nil, err
	}
	if m.nameIndex, err = r.u2(); err != nil {
		return nil, err
	}
	if m.Name, err = pool.Utf8(m.nameIndex); err != nil {
		return nil, fmt.Errorf("method name: %w", err)
	}
	if m.descIndex, err = r.u2(); err != nil {
		return nil, err
	}
	if m.Descriptor, err = pool.Utf8(m.descIndex); err != nil {
		return nil, fmt.Errorf("method %s descriptor: %w", m.Name, err)
	}
	if m.Attributes, err = readAttributes(r, pool); err != nil {
		return nil, fmt.Errorf("method %s: %w", m.Key(), err)
	}

	return m, nil
}

func (m *Method) write(w *writer, pool *ConstantPool) error {
	ni, err := pool.ref(m.nameIndex, m.Name)
	if err != nil {
		return err
	}
	di, err := pool.ref(m.descIndex, m.Descriptor)
	if err != nil {
		return err
	}

	w.u2(m.AccessFlags)
	w.u2(ni)
	w.u2(di)

	if err := writeAttributes(w, pool, m.Attributes); err != nil {
		return fmt.Errorf("method %s: %w", m.Key(), err)
	}
	return nil
}
