package classfile

import (
	"fmt"
	"strings"
)

// Magic is the class file magic number.
const Magic uint32 = 0xCAFEBABE

// Java8 is the class file major version emitted by javac 8.
const Java8 uint16 = 52

// Class is a mutable model of one class file.
type Class struct {
	MinorVersion uint16
	MajorVersion uint16
	AccessFlags  uint16
	Attributes   []Attribute

	pool       *ConstantPool
	thisClass  uint16
	superClass uint16
	interfaces []uint16
	fields     []*Field
	methods    []*Method
}

// Parse decodes a class file.
func Parse(data []byte) (*Class, error) {
	r := newReader(data)

	magic, err := r.u4()
	if err != nil {
		return nil, err
	}
	if magic != Magic {
		return nil, fmt.Errorf("%w: got 0x%08X", ErrInvalidMagic, magic)
	}

	c := &Class{}
	if c.MinorVersion, err = r.u2(); err != nil {
		return nil, err
	}
	if c.MajorVersion, err = r.u2(); err != nil {
		return nil, err
	}
	if c.pool, err = readConstantPool(r); err != nil {
		return nil, err
	}
	if c.AccessFlags, err = r.u2(); err != nil {
		return nil, err
	}
	if c.thisClass, err = r.u2(); err != nil {
		return nil, err
	}
	if _, err := c.pool.ClassName(c.thisClass); err != nil {
		return nil, fmt.Errorf("this_class: %w", err)
	}
	if c.superClass, err = r.u2(); err != nil {
		return nil, err
	}
	if c.superClass != 0 {
		if _, err := c.pool.ClassName(c.superClass); err != nil {
			return nil, fmt.Errorf("super_class: %w", err)
		}
	}

	n, err := r.u2()
	if err != nil {
		return nil, err
	}
	for i := 0; i < int(n); i++ {
		idx, err := r.u2()
		if err != nil {
			return nil, err
		}
		if _, err := c.pool.ClassName(idx); err != nil {
			return nil, fmt.Errorf("interface %d: %w", i, err)
		}
		c.interfaces = append(c.interfaces, idx)
	}

	if n, err = r.u2(); err != nil {
		return nil, err
	}
	for i := 0; i < int(n); i++ {
		f, err := readField(r, c.pool)
		if err != nil {
			return nil, err
		}
		c.fields = append(c.fields, f)
	}

	if n, err = r.u2(); err != nil {
		return nil, err
	}
	for i := 0; i < int(n); i++ {
		m, err := readMethod(r, c.pool)
		if err != nil {
			return nil, err
		}
		c.methods = append(c.methods, m)
	}

	if c.Attributes, err = readAttributes(r, c.pool); err != nil {
		return nil, fmt.Errorf("class attributes: %w", err)
	}
	if r.remaining() != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrTrailingData, r.remaining())
	}

	return c, nil
}

// New creates an empty public class. name and super are internal names
// ("com/example/Widget"); super may be empty only for java/lang/Object.
func New(name, super string, major uint16) (*Class, error) {
	c := &Class{
		MajorVersion: major,
		AccessFlags:  AccPublic | AccSuper,
		pool:         NewConstantPool(),
	}

	var err error
	if c.thisClass, err = c.pool.InternClass(name); err != nil {
		return nil, err
	}
	if super != "" {
		if c.superClass, err = c.pool.InternClass(super); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// Pool returns the class's constant pool.
func (c *Class) Pool() *ConstantPool {
	return c.pool
}

// Name returns the internal class name, e.g. "com/example/Widget".
func (c *Class) Name() string {
	name, _ := c.pool.ClassName(c.thisClass)
	return name
}

// JavaName returns the dotted class name, e.g. "com.example.Widget".
func (c *Class) JavaName() string {
	return strings.ReplaceAll(c.Name(), "/", ".")
}

// SuperName returns the internal name of the superclass, or "" if none.
func (c *Class) SuperName() string {
	if c.superClass == 0 {
		return ""
	}
	name, _ := c.pool.ClassName(c.superClass)
	return name
}

// Interfaces returns the internal names of the direct superinterfaces.
func (c *Class) Interfaces() []string {
	out := make([]string, 0, len(c.interfaces))
	for _, i := range c.interfaces {
		name, _ := c.pool.ClassName(i)
		out = append(out, name)
	}
	return out
}

// Fields returns a snapshot of the declared fields.
func (c *Class) Fields() []*Field {
	return append([]*Field(nil), c.fields...)
}

// Methods returns a snapshot of the declared methods in declaration order.
// Mutating the class does not affect a previously returned slice.
func (c *Class) Methods() []*Method {
	return append([]*Method(nil), c.methods...)
}

// Method returns the method with the given name and descriptor.
func (c *Class) Method(name, descriptor string) (*Method, bool) {
	for _, m := range c.methods {
		if m.Name == name && m.Descriptor == descriptor {
			return m, true
		}
	}
	return nil, false
}

// Remove removes m, identified by pointer, from the method table. The method
// stays bound to this class's constant pool.
func (c *Class) Remove(m *Method) error {
	for i, cur := range c.methods {
		if cur == m {
			c.methods = append(c.methods[:i], c.methods[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s in %s", ErrMethodNotFound, m.Key(), c.Name())
}

// Add validates m and appends it to the method table. A detached method is
// bound to this class's constant pool.
func (c *Class) Add(m *Method) error {
	if m == nil {
		return fmt.Errorf("%w: nil method", ErrIncompatibleMethod)
	}
	if m.pool != nil && m.pool != c.pool {
		return fmt.Errorf("%w: %s belongs to another class", ErrIncompatibleMethod, m.Key())
	}
	for _, cur := range c.methods {
		if cur == m {
			return fmt.Errorf("%w: %s is already present", ErrIncompatibleMethod, m.Key())
		}
		if cur.Key() == m.Key() {
			return fmt.Errorf("%w: duplicate method %s", ErrIncompatibleMethod, m.Key())
		}
	}

	bound := m.pool != nil
	m.pool = c.pool
	if err := m.validate(c.AccessFlags); err != nil {
		if !bound {
			m.pool = nil
		}
		return fmt.Errorf("%w: %s: %v", ErrIncompatibleMethod, m.Key(), err)
	}

	c.methods = append(c.methods, m)
	return nil
}

// DefineMethod creates a method bound to this class, encodes code (nil for
// abstract and native methods) and adds it.
func (c *Class) DefineMethod(flags uint16, name, descriptor string, code *Code) (*Method, error) {
	m := &Method{AccessFlags: flags, Name: name, Descriptor: descriptor, pool: c.pool}
	if code != nil {
		if err := m.SetCode(code); err != nil {
			return nil, err
		}
	}
	if err := c.Add(m); err != nil {
		return nil, err
	}
	return m, nil
}

// Bytes serializes the class. Names introduced by edits are interned into
// the constant pool; existing entries keep their indices.
func (c *Class) Bytes() ([]byte, error) {
	// The body is written first because it may append to the pool.
	body := &writer{}
	body.u2(c.AccessFlags)
	body.u2(c.thisClass)
	body.u2(c.superClass)

	n, err := count(len(c.interfaces), "interfaces")
	if err != nil {
		return nil, err
	}
	body.u2(n)
	for _, i := range c.interfaces {
		body.u2(i)
	}

	if n, err = count(len(c.fields), "fields"); err != nil {
		return nil, err
	}
	body.u2(n)
	for _, f := range c.fields {
		if err := f.write(body, c.pool); err != nil {
			return nil, err
		}
	}

	if n, err = count(len(c.methods), "methods"); err != nil {
		return nil, err
	}
	body.u2(n)
	for _, m := range c.methods {
		if err := m.write(body, c.pool); err != nil {
			return nil, err
		}
	}

	if err := writeAttributes(body, c.pool, c.Attributes); err != nil {
		return nil, fmt.Errorf("class attributes: %w", err)
	}

	out := &writer{}
	out.u4(Magic)
	out.u2(c.MinorVersion)
	out.u2(c.MajorVersion)
	if err := c.pool.write(out); err != nil {
		return nil, err
	}
	out.raw(body.Bytes())

	return out.Bytes(), nil
}
