package classfile

import (
	"fmt"
	"strings"
)

// FieldType is one parsed type from a descriptor, e.g. "I", "[J" or
// "Ljava/lang/String;". The void return type is represented as "V".
type FieldType string

// Kind returns the leading descriptor character ('I', 'L', '[', 'V', ...).
func (t FieldType) Kind() byte {
	if t == "" {
		return 0
	}
	return t[0]
}

// Slots returns the number of local variable slots a value of this type
// occupies: 2 for long and double, 0 for void, 1 otherwise.
func (t FieldType) Slots() int {
	switch t.Kind() {
	case 'J', 'D':
		return 2
	case 'V':
		return 0
	default:
		return 1
	}
}

// IsReference reports whether the type is a class or array type.
func (t FieldType) IsReference() bool {
	k := t.Kind()
	return k == 'L' || k == '['
}

// MethodType is a parsed method descriptor.
type MethodType struct {
	Params []FieldType
	Return FieldType
}

// ArgSlots returns the local variable slots taken by the parameters.
func (m *MethodType) ArgSlots() int {
	n := 0
	for _, p := range m.Params {
		n += p.Slots()
	}
	return n
}

// String reassembles the descriptor.
func (m *MethodType) String() string {
	var b strings.Builder
	b.WriteByte('(')
	for _, p := range m.Params {
		b.WriteString(string(p))
	}
	b.WriteByte(')')
	b.WriteString(string(m.Return))
	return b.String()
}

// ParseMethodDescriptor parses a method descriptor such as "(I[JLjava/lang/String;)V".
func ParseMethodDescriptor(desc string) (*MethodType, error) {
	if len(desc) < 3 || desc[0] != '(' {
		return nil, fmt.Errorf("%w: %q", ErrBadDescriptor, desc)
	}

	mt := &MethodType{}
	i := 1
	for i < len(desc) && desc[i] != ')' {
		t, next, err := parseFieldType(desc, i)
		if err != nil {
			return nil, err
		}
		mt.Params = append(mt.Params, t)
		i = next
	}
	if i >= len(desc) {
		return nil, fmt.Errorf("%w: %q: missing ')'", ErrBadDescriptor, desc)
	}
	i++

	if i < len(desc) && desc[i] == 'V' {
		mt.Return = "V"
		i++
	} else {
		t, next, err := parseFieldType(desc, i)
		if err != nil {
			return nil, err
		}
		mt.Return = t
		i = next
	}
	if i != len(desc) {
		return nil, fmt.Errorf("%w: %q: trailing characters", ErrBadDescriptor, desc)
	}

	return mt, nil
}

// ValidFieldDescriptor reports whether s is exactly one field type.
func ValidFieldDescriptor(s string) bool {
	_, next, err := parseFieldType(s, 0)
	return err == nil && next == len(s)
}

func parseFieldType(desc string, i int) (FieldType, int, error) {
	start := i
	dims := 0
	for i < len(desc) && desc[i] == '[' {
		dims++
		i++
	}
	if dims > 255 {
		return "", 0, fmt.Errorf("%w: %q: more than 255 array dimensions", ErrBadDescriptor, desc)
	}
	if i >= len(desc) {
		return "", 0, fmt.Errorf("%w: %q: unexpected end", ErrBadDescriptor, desc)
	}

	switch desc[i] {
	case 'B', 'C', 'D', 'F', 'I', 'J', 'S', 'Z':
		i++
	case 'L':
		end := strings.IndexByte(desc[i:], ';')
		if end <= 1 {
			return "", 0, fmt.Errorf("%w: %q: bad class type at %d", ErrBadDescriptor, desc, i)
		}
		name := desc[i+1 : i+end]
		if strings.ContainsAny(name, ".[(") {
			return "", 0, fmt.Errorf("%w: %q: bad class name %q", ErrBadDescriptor, desc, name)
		}
		i += end + 1
	default:
		return "", 0, fmt.Errorf("%w: %q: unexpected %q at %d", ErrBadDescriptor, desc, desc[i], i)
	}

	return FieldType(desc[start:i]), i, nil
}
