// Package plan loads YAML integration plans and runs them.
//
// A plan lists classes, the methods to rewrite in each and the strategies
// to apply, plus the classpath the classes are read from:
//
//	version: "1"
//	classpath: [build/classes, lib/dep.jar]
//	integrations:
//	  - class: com/example/Widget
//	    method: foo
//	    signature: "(I)V"
//	    strategies:
//	      - strip-debug
//	      - name: access-flags
//	        options: {set: final}
//
// Strategies may be written as a bare name or as a name with options.
package plan
