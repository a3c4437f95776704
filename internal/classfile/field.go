package classfile

import "fmt"

// Field is one declared field. Fields are carried through unchanged.
type Field struct {
	AccessFlags uint16
	Name        string
	Descriptor  string
	Attributes  []Attribute

	nameIndex uint16
	descIndex uint16
}

func readField(r *reader, pool *ConstantPool) (*Field, error) {
	f := &Field{}

	var err error
	if f.AccessFlags, err = r.u2(); err != nil {
		return nil, err
	}
	if f.nameIndex, err = r.u2(); err != nil {
		return nil, err
	}
	if f.Name, err = pool.Utf8(f.nameIndex); err != nil {
		return nil, fmt.Errorf("field name: %w", err)
	}
	if f.descIndex, err = r.u2(); err != nil {
		return nil, err
	}
	if f.Descriptor, err = pool.Utf8(f.descIndex); err != nil {
		return nil, fmt.Errorf("field %s descriptor: %w", f.Name, err)
	}
	if f.Attributes, err = readAttributes(r, pool); err != nil {
		return nil, fmt.Errorf("field %s: %w", f.Name, err)
	}

	return f, nil
}

func (f *Field) write(w *writer, pool *ConstantPool) error {
	ni, err := pool.ref(f.nameIndex, f.Name)
	if err != nil {
		return err
	}
	di, err := pool.ref(f.descIndex, f.Descriptor)
	if err != nil {
		return err
	}

	w.u2(f.AccessFlags)
	w.u2(ni)
	w.u2(di)

	return writeAttributes(w, pool, f.Attributes)
}
