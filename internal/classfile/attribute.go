package classfile

import "bytes"

// Well-known attribute names.
const (
	AttrCode                   = "Code"
	AttrStackMapTable          = "StackMapTable"
	AttrExceptions             = "Exceptions"
	AttrLineNumberTable        = "LineNumberTable"
	AttrLocalVariableTable     = "LocalVariableTable"
	AttrLocalVariableTypeTable = "LocalVariableTypeTable"
	AttrSignature              = "Signature"
	AttrSourceFile             = "SourceFile"
)

// Attribute is a named, opaque attribute payload. Indices inside Info refer
// to the constant pool of the class the attribute belongs to.
type Attribute struct {
	Name string
	Info []byte

	nameIndex uint16 // original index, reused while it still holds Name
}

// NewAttribute creates an attribute with a copy of info.
func NewAttribute(name string, info []byte) Attribute {
	return Attribute{Name: name, Info: append([]byte(nil), info...)}
}

// Equal reports whether two attributes have the same name and payload.
func (a Attribute) Equal(o Attribute) bool {
	return a.Name == o.Name && bytes.Equal(a.Info, o.Info)
}

func cloneAttributes(attrs []Attribute) []Attribute {
	if attrs == nil {
		return nil
	}
	out := make([]Attribute, len(attrs))
	for i, a := range attrs {
		out[i] = a
		out[i].Info = append([]byte(nil), a.Info...)
	}
	return out
}

func equalAttributes(a, b []Attribute) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

func readAttributes(r *reader, pool *ConstantPool) ([]Attribute, error) {
	n, err := r.u2()
	if err != nil {
		return nil, err
	}

	attrs := make([]Attribute, 0, n)
	for i := 0; i < int(n); i++ {
		ni, err := r.u2()
		if err != nil {
			return nil, err
		}
		name, err := pool.Utf8(ni)
		if err != nil {
			return nil, err
		}
		l, err := r.u4()
		if err != nil {
			return nil, err
		}
		if uint64(l) > uint64(r.remaining()) {
			return nil, ErrTruncated
		}
		info, err := r.bytes(int(l))
		if err != nil {
			return nil, err
		}
		attrs = append(attrs, Attribute{Name: name, Info: info, nameIndex: ni})
	}

	return attrs, nil
}

func writeAttributes(w *writer, pool *ConstantPool, attrs []Attribute) error {
	n, err := count(len(attrs), "attributes")
	if err != nil {
		return err
	}
	w.u2(n)

	for i := range attrs {
		a := &attrs[i]
		ni, err := pool.ref(a.nameIndex, a.Name)
		if err != nil {
			return err
		}
		l, err := length(len(a.Info), a.Name+" attribute")
		if err != nil {
			return err
		}
		w.u2(ni)
		w.u4(l)
		w.raw(a.Info)
	}

	return nil
}
