// Command wupf is the CLI for creating and inspecting wupf plugin projects.
package main

import (
	"fmt"
	"os"

	"github.com/go-wups/wupf/cmd/wupf/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
