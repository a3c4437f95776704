// Package main provides the CLI entrypoint for method-integrator.
//
// method-integrator rewrites methods inside compiled JVM classes:
//   - integrate rewrites one method (or every overload) of one class file
//   - apply runs a YAML plan over a classpath
//   - inspect lists the methods of a class file
package main

import (
	_ "github.com/tliron/commonlog/simple"

	"method-integrator/cmd/method-integrator/cmd"
)

func main() {
	cmd.Execute()
}
