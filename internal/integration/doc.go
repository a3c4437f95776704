// Package integration rewrites methods inside compiled JVM classes.
//
// An Engine resolves a class from raw bytes (which take precedence over the
// supplied classpath context), selects every declared method matching a
// name and optional descriptor, and replaces each one with the output of a
// pluggable Strategy. The class is serialized once after all matches have
// been processed.
//
// A request that matches nothing is not a failure: the class is returned
// unchanged and a method_not_found diagnostic is recorded. Every real
// failure is an *Error whose Kind says which step failed; all of them
// satisfy errors.Is(err, ErrIntegrationFailed).
package integration
