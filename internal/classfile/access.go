package classfile

import (
	"fmt"
	"strings"
)

// Access flags for classes and methods.
const (
	AccPublic       uint16 = 0x0001
	AccPrivate      uint16 = 0x0002
	AccProtected    uint16 = 0x0004
	AccStatic       uint16 = 0x0008
	AccFinal        uint16 = 0x0010
	AccSuper        uint16 = 0x0020 // class
	AccSynchronized uint16 = 0x0020 // method
	AccBridge       uint16 = 0x0040
	AccVarargs      uint16 = 0x0080
	AccNative       uint16 = 0x0100
	AccInterface    uint16 = 0x0200
	AccAbstract     uint16 = 0x0400
	AccStrict       uint16 = 0x0800
	AccSynthetic    uint16 = 0x1000
)

var methodAccessNames = []struct {
	flag uint16
	name string
}{
	{AccPublic, "public"},
	{AccPrivate, "private"},
	{AccProtected, "protected"},
	{AccStatic, "static"},
	{AccFinal, "final"},
	{AccSynchronized, "synchronized"},
	{AccBridge, "bridge"},
	{AccVarargs, "varargs"},
	{AccNative, "native"},
	{AccAbstract, "abstract"},
	{AccStrict, "strict"},
	{AccSynthetic, "synthetic"},
}

// FormatMethodAccess renders method access flags as space-separated keywords.
func FormatMethodAccess(flags uint16) string {
	var parts []string
	for _, a := range methodAccessNames {
		if flags&a.flag != 0 {
			parts = append(parts, a.name)
		}
	}
	return strings.Join(parts, " ")
}

// ParseMethodAccess parses a list of method access keywords separated by
// commas, spaces or "|" into flags.
func ParseMethodAccess(s string) (uint16, error) {
	var flags uint16
	for _, tok := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' || r == '|' }) {
		found := false
		for _, a := range methodAccessNames {
			if strings.EqualFold(tok, a.name) {
				flags |= a.flag
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("unknown method access flag %q", tok)
		}
	}
	return flags, nil
}
