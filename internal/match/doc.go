// Package match decides which declared methods a request targets and
// normalizes class names.
//
// Key functions:
//   - NormalizeClassName: "com/example/Widget" -> "com.example.Widget"
//   - MethodDescriptor.Matches: case-insensitive name, exact optional signature
//   - Select: snapshot of the matching methods in declaration order
//   - Suggest: closest method names for "not found" diagnostics
package match
