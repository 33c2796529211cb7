// Command execdiff imports test execution results and compares them across
// executions.
package main

import (
	"os"

	"github.com/roach88/execdiff/internal/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:], os.Stdout, os.Stderr))
}
