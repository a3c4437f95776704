package classfile

import (
	"fmt"
	"math"
)

// Tag identifies the kind of a constant pool entry.
type Tag uint8

const (
	TagUtf8               Tag = 1
	TagInteger            Tag = 3
	TagFloat              Tag = 4
	TagLong               Tag = 5
	TagDouble             Tag = 6
	TagClass              Tag = 7
	TagString             Tag = 8
	TagFieldref           Tag = 9
	TagMethodref          Tag = 10
	TagInterfaceMethodref Tag = 11
	TagNameAndType        Tag = 12
	TagMethodHandle       Tag = 15
	TagMethodType         Tag = 16
	TagDynamic            Tag = 17
	TagInvokeDynamic      Tag = 18
	TagModule             Tag = 19
	TagPackage            Tag = 20
)

// infoSize returns the fixed payload size of a tag, or -1 for Utf8 and
// unknown tags.
func (t Tag) infoSize() int {
	switch t {
	case TagClass, TagString, TagMethodType, TagModule, TagPackage:
		return 2
	case TagMethodHandle:
		return 3
	case TagInteger, TagFloat, TagFieldref, TagMethodref, TagInterfaceMethodref,
		TagNameAndType, TagDynamic, TagInvokeDynamic:
		return 4
	case TagLong, TagDouble:
		return 8
	default:
		return -1
	}
}

// wide reports whether the entry occupies two pool slots.
func (t Tag) wide() bool {
	return t == TagLong || t == TagDouble
}

// Constant is one constant pool entry. Info is the payload after the tag;
// for Utf8 entries it holds the (modified UTF-8) bytes without the length
// prefix. The unusable slot after a Long or Double has Tag 0.
type Constant struct {
	Tag  Tag
	Info []byte
}

// ConstantPool holds the entries of a class's constant pool. Index 0 is
// never valid, matching the class file format.
type ConstantPool struct {
	entries []Constant
	utf8    map[string]uint16 // first index of each Utf8 value
	classes map[string]uint16 // first index of each Class entry by name
}

// NewConstantPool creates an empty constant pool.
func NewConstantPool() *ConstantPool {
	return &ConstantPool{
		entries: []Constant{{}},
		utf8:    make(map[string]uint16),
		classes: make(map[string]uint16),
	}
}

// Count returns the constant_pool_count value (number of slots plus one).
func (p *ConstantPool) Count() int {
	return len(p.entries)
}

// Get returns the entry at index i.
func (p *ConstantPool) Get(i uint16) (Constant, error) {
	if i == 0 || int(i) >= len(p.entries) || p.entries[i].Tag == 0 {
		return Constant{}, fmt.Errorf("%w: %d", ErrBadIndex, i)
	}
	return p.entries[i], nil
}

// Utf8 returns the string stored in the Utf8 entry at index i.
func (p *ConstantPool) Utf8(i uint16) (string, error) {
	c, err := p.Get(i)
	if err != nil {
		return "", err
	}
	if c.Tag != TagUtf8 {
		return "", fmt.Errorf("%w: %d is tag %d, want Utf8", ErrBadIndex, i, c.Tag)
	}
	return string(c.Info), nil
}

// ClassName returns the internal name referenced by the Class entry at i.
func (p *ConstantPool) ClassName(i uint16) (string, error) {
	c, err := p.Get(i)
	if err != nil {
		return "", err
	}
	if c.Tag != TagClass {
		return "", fmt.Errorf("%w: %d is tag %d, want Class", ErrBadIndex, i, c.Tag)
	}
	return p.Utf8(uint16(c.Info[0])<<8 | uint16(c.Info[1]))
}

// LookupUtf8 returns the first index holding s, if any.
func (p *ConstantPool) LookupUtf8(s string) (uint16, bool) {
	i, ok := p.utf8[s]
	return i, ok
}

// InternUtf8 returns the index of a Utf8 entry holding s, appending one if
// needed. Existing indices never move.
func (p *ConstantPool) InternUtf8(s string) (uint16, error) {
	if i, ok := p.utf8[s]; ok {
		return i, nil
	}
	if len(s) > math.MaxUint16 {
		return 0, fmt.Errorf("%w: Utf8 constant of %d bytes", ErrTooLarge, len(s))
	}
	return p.add(Constant{Tag: TagUtf8, Info: []byte(s)})
}

// InternClass returns the index of a Class entry for the internal name,
// appending one (and its Utf8 name) if needed.
func (p *ConstantPool) InternClass(name string) (uint16, error) {
	if i, ok := p.classes[name]; ok {
		return i, nil
	}
	ni, err := p.InternUtf8(name)
	if err != nil {
		return 0, err
	}
	i, err := p.add(Constant{Tag: TagClass, Info: []byte{byte(ni >> 8), byte(ni)}})
	if err != nil {
		return 0, err
	}
	p.classes[name] = i
	return i, nil
}

// InternMethodref returns the index of a Methodref entry for class.name
// with the given descriptor, appending it and its NameAndType if needed.
func (p *ConstantPool) InternMethodref(class, name, descriptor string) (uint16, error) {
	ci, err := p.InternClass(class)
	if err != nil {
		return 0, err
	}
	ni, err := p.InternUtf8(name)
	if err != nil {
		return 0, err
	}
	di, err := p.InternUtf8(descriptor)
	if err != nil {
		return 0, err
	}
	nt, err := p.intern(Constant{Tag: TagNameAndType, Info: u2pair(ni, di)})
	if err != nil {
		return 0, err
	}
	return p.intern(Constant{Tag: TagMethodref, Info: u2pair(ci, nt)})
}

// intern returns the first entry equal to c, appending c if there is none.
func (p *ConstantPool) intern(c Constant) (uint16, error) {
	for i := 1; i < len(p.entries); i++ {
		e := p.entries[i]
		if e.Tag == c.Tag && string(e.Info) == string(c.Info) {
			return uint16(i), nil
		}
	}
	return p.add(c)
}

func u2pair(a, b uint16) []byte {
	return []byte{byte(a >> 8), byte(a), byte(b >> 8), byte(b)}
}

// ref returns idx when it still holds s, otherwise the interned index of s.
// This keeps the original indices of parsed structures stable.
func (p *ConstantPool) ref(idx uint16, s string) (uint16, error) {
	if idx != 0 {
		if cur, err := p.Utf8(idx); err == nil && cur == s {
			return idx, nil
		}
	}
	return p.InternUtf8(s)
}

func (p *ConstantPool) add(c Constant) (uint16, error) {
	slots := 1
	if c.Tag.wide() {
		slots = 2
	}
	if len(p.entries)+slots > math.MaxUint16 {
		return 0, ErrPoolOverflow
	}
	i := uint16(len(p.entries))
	p.entries = append(p.entries, c)
	if c.Tag.wide() {
		p.entries = append(p.entries, Constant{})
	}
	if c.Tag == TagUtf8 {
		if _, ok := p.utf8[string(c.Info)]; !ok {
			p.utf8[string(c.Info)] = i
		}
	}
	return i, nil
}

// reindexClasses fills the class lookup once every Utf8 entry is known.
func (p *ConstantPool) reindexClasses() {
	for i := 1; i < len(p.entries); i++ {
		if p.entries[i].Tag != TagClass {
			continue
		}
		name, err := p.ClassName(uint16(i))
		if err != nil {
			continue
		}
		if _, ok := p.classes[name]; !ok {
			p.classes[name] = uint16(i)
		}
	}
}

func readConstantPool(r *reader) (*ConstantPool, error) {
	n, err := r.u2()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, fmt.Errorf("%w: constant_pool_count is 0", ErrBadConstantPool)
	}

	p := NewConstantPool()
	for len(p.entries) < int(n) {
		t, err := r.u1()
		if err != nil {
			return nil, err
		}
		tag := Tag(t)

		var info []byte
		if tag == TagUtf8 {
			l, err := r.u2()
			if err != nil {
				return nil, err
			}
			if info, err = r.bytes(int(l)); err != nil {
				return nil, err
			}
		} else {
			size := tag.infoSize()
			if size < 0 {
				return nil, fmt.Errorf("%w: unknown tag %d at index %d", ErrBadConstantPool, t, len(p.entries))
			}
			if info, err = r.bytes(size); err != nil {
				return nil, err
			}
		}

		if tag.wide() && len(p.entries)+2 > int(n) {
			return nil, fmt.Errorf("%w: wide constant at last slot %d", ErrBadConstantPool, len(p.entries))
		}
		if _, err := p.add(Constant{Tag: tag, Info: info}); err != nil {
			return nil, err
		}
	}
	p.reindexClasses()

	return p, nil
}

func (p *ConstantPool) write(w *writer) error {
	n, err := count(len(p.entries), "constant pool slots")
	if err != nil {
		return ErrPoolOverflow
	}
	w.u2(n)

	for i := 1; i < len(p.entries); i++ {
		c := p.entries[i]
		if c.Tag == 0 {
			continue
		}
		w.u1(uint8(c.Tag))
		if c.Tag == TagUtf8 {
			l, err := count(len(c.Info), "Utf8 bytes")
			if err != nil {
				return err
			}
			w.u2(l)
		}
		w.raw(c.Info)
	}

	return nil
}
