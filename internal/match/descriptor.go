package match

import (
	"strings"

	"method-integrator/internal/classfile"
)

// MethodDescriptor identifies the methods a request targets. An empty
// Signature matches every overload of Name.
type MethodDescriptor struct {
	Name      string
	Signature string // method descriptor, e.g. "(I)V"
}

// HasSignature reports whether the descriptor narrows by signature.
func (d MethodDescriptor) HasSignature() bool {
	return d.Signature != ""
}

// Matches reports whether a method with the given name and descriptor is
// targeted. Names compare case-insensitively, signatures exactly.
func (d MethodDescriptor) Matches(name, descriptor string) bool {
	if !strings.EqualFold(name, d.Name) {
		return false
	}
	return !d.HasSignature() || descriptor == d.Signature
}

// String returns "foo" or "foo(I)V".
func (d MethodDescriptor) String() string {
	return d.Name + d.Signature
}

// Select returns the methods matched by d, in their given order. The result
// is a new slice, so callers may mutate the class while walking it.
func Select(methods []*classfile.Method, d MethodDescriptor) []*classfile.Method {
	var out []*classfile.Method
	for _, m := range methods {
		if d.Matches(m.Name, m.Descriptor) {
			out = append(out, m)
		}
	}
	return out
}
