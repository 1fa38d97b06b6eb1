// Package main provides the bowl CLI.
package main

import (
	"fmt"
	"os"
)

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "bowl:", err)
		os.Exit(exitCode(err))
	}
}
