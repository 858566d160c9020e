// Command miniruby-lsp runs MiniRuby's diagnostics-only language
// server over stdio.
package main

import (
	"fmt"
	"os"

	"github.com/Verseth/miniruby/server"
)

func main() {
	s := server.New()
	if err := s.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "miniruby-lsp: %v\n", err)
		os.Exit(1)
	}
}
