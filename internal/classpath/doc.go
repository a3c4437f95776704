// Package classpath resolves class names to parsed class models.
//
// A Source maps a class name to raw class file bytes. Sources are the opaque
// class-loading context handed to the integration engine: raw bytes, a
// directory tree, a jar archive, or any lookup function. A Pool searches its
// sources in order and parses the first hit.
//
// Pools are built per call and hold no state beyond their source list.
package classpath
