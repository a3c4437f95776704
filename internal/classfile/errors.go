package classfile

import "errors"

var (
	ErrTruncated          = errors.New("unexpected end of class data")
	ErrInvalidMagic       = errors.New("invalid magic number: expected 0xCAFEBABE")
	ErrBadConstantPool    = errors.New("malformed constant pool")
	ErrBadIndex           = errors.New("invalid constant pool index")
	ErrBadDescriptor      = errors.New("malformed descriptor")
	ErrTrailingData       = errors.New("trailing data after class file")
	ErrNoCode             = errors.New("method has no Code attribute")
	ErrDetached           = errors.New("method is not bound to a constant pool")
	ErrMethodNotFound     = errors.New("method not found in class")
	ErrIncompatibleMethod = errors.New("method cannot be added to class")
	ErrPoolOverflow       = errors.New("constant pool exceeds 65535 entries")
	ErrTooLarge           = errors.New("class structure exceeds format limits")
)
