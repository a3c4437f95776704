// Package strategy provides the built-in method rewrites and a registry
// that builds them by name from string options, as used by integration
// plans and the command line.
package strategy
