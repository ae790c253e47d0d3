// Command stockdash computes stock dashboard KPIs, charts and filtered
// exports from a price file without starting the web server.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}
