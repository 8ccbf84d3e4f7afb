// Package main provides the igsite binary entry point.
// Igsite renders the interpretive-governance doctrine site from its JSON
// registries and gates the rendered tree for consistency.
package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/c360studio/igsite/commands"
)

const (
	Version   = "1.0.0"
	BuildTime = "dev"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := commands.Root(Version, BuildTime).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
