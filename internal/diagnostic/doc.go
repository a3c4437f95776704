// Package diagnostic provides structured warnings and errors reported while
// integrating methods and validating integration plans.
//
// Key capabilities:
//   - "method not found" warnings with closest-name suggestions
//   - failure reports carrying the failing class and method
//   - plan validation errors
package diagnostic
