// Package classfile provides a mutable in-memory model of a single JVM class
// file.
//
// A Class is decoded with Parse, exposes its declared methods in declaration
// order, supports removing and adding methods, and serializes back to bytes
// with Bytes. Constant-pool indices of an untouched class are preserved, so a
// parse/serialize round trip without edits is byte-identical.
//
// Key types:
//   - Class: the class model (constant pool, fields, methods, attributes)
//   - Method: one declared method (access flags, name, descriptor, attributes)
//   - Code: the decoded form of a method's Code attribute
//   - MethodType: a parsed method descriptor such as "(IJ)Ljava/lang/String;"
package classfile
