package classfile

import (
	"fmt"
	"math"
)

// ExceptionHandler is one entry of a Code attribute's exception table.
type ExceptionHandler struct {
	StartPC   uint16
	EndPC     uint16
	HandlerPC uint16
	CatchType uint16 // 0 catches everything
}

// Code is the decoded form of a Code attribute.
type Code struct {
	MaxStack       uint16
	MaxLocals      uint16
	Bytecode       []byte
	ExceptionTable []ExceptionHandler
	Attributes     []Attribute
}

// DecodeCode decodes a Code attribute payload. Nested attribute names are
// resolved against pool.
func DecodeCode(info []byte, pool *ConstantPool) (*Code, error) {
	r := newReader(info)
	c := &Code{}

	var err error
	if c.MaxStack, err = r.u2(); err != nil {
		return nil, fmt.Errorf("code: %w", err)
	}
	if c.MaxLocals, err = r.u2(); err != nil {
		return nil, fmt.Errorf("code: %w", err)
	}
	n, err := r.u4()
	if err != nil {
		return nil, fmt.Errorf("code: %w", err)
	}
	if n == 0 || n > math.MaxUint16 {
		return nil, fmt.Errorf("code: invalid code_length %d", n)
	}
	if c.Bytecode, err = r.bytes(int(n)); err != nil {
		return nil, fmt.Errorf("code: %w", err)
	}

	handlers, err := r.u2()
	if err != nil {
		return nil, fmt.Errorf("code: %w", err)
	}
	for i := 0; i < int(handlers); i++ {
		var h ExceptionHandler
		for _, p := range []*uint16{&h.StartPC, &h.EndPC, &h.HandlerPC, &h.CatchType} {
			if *p, err = r.u2(); err != nil {
				return nil, fmt.Errorf("code: exception table: %w", err)
			}
		}
		c.ExceptionTable = append(c.ExceptionTable, h)
	}

	if c.Attributes, err = readAttributes(r, pool); err != nil {
		return nil, fmt.Errorf("code: %w", err)
	}
	if r.remaining() != 0 {
		return nil, fmt.Errorf("code: %w: %d bytes", ErrTrailingData, r.remaining())
	}

	return c, nil
}

// Encode serializes the Code attribute payload, interning nested attribute
// names into pool.
func (c *Code) Encode(pool *ConstantPool) ([]byte, error) {
	if len(c.Bytecode) == 0 || len(c.Bytecode) > math.MaxUint16 {
		return nil, fmt.Errorf("%w: code_length %d", ErrTooLarge, len(c.Bytecode))
	}

	w := &writer{}
	w.u2(c.MaxStack)
	w.u2(c.MaxLocals)
	w.u4(uint32(len(c.Bytecode)))
	w.raw(c.Bytecode)

	n, err := count(len(c.ExceptionTable), "exception handlers")
	if err != nil {
		return nil, err
	}
	w.u2(n)
	for _, h := range c.ExceptionTable {
		w.u2(h.StartPC)
		w.u2(h.EndPC)
		w.u2(h.HandlerPC)
		w.u2(h.CatchType)
	}

	if err := writeAttributes(w, pool, c.Attributes); err != nil {
		return nil, err
	}

	return w.Bytes(), nil
}

// RemoveAttributes drops every nested attribute whose name is listed and
// returns how many were removed.
func (c *Code) RemoveAttributes(names ...string) int {
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		drop[n] = true
	}

	kept := c.Attributes[:0]
	removed := 0
	for _, a := range c.Attributes {
		if drop[a.Name] {
			removed++
			continue
		}
		kept = append(kept, a)
	}
	c.Attributes = kept

	return removed
}
