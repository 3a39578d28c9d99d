// Command gitlet is a local, single-user version-control system.
package main

import (
	"fmt"
	"os"

	"github.com/cmccarthy-dev/gitlet/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
