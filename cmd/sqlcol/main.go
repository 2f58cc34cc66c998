// Package main provides the sqlcol command-line tool.
package main

import (
	"os"

	"github.com/datatrail-labs/sqlcol/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
