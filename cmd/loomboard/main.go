// cmd/loomboard/main.go
//
// Entry point for the loomboard client. The bare `loomboard` command starts
// the full-screen board TUI; subcommands cover the scriptable pieces
// (login, logout, a plain project listing, version).

package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
