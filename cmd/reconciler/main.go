// reconciler pairs person records from a seed source with records from other
// sources and prints a JSON report.
package main

import (
	"fmt"
	"os"

	"generic-matcher/cmd/reconciler/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
