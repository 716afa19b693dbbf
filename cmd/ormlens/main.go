// Command ormlens classifies the entities of an ORM model into DDD roles and
// aggregates and reports structural problems in the entity graph.
package main

import (
	"fmt"
	"os"
)

// Set by the linker
var version = "dev"

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}
