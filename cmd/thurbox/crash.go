package main

import (
	"fmt"
	"os"
	"runtime"
	"runtime/debug"

	goerrors "github.com/go-errors/errors"
)

// printCrashReport prints a stack trace for a recovered panic after the
// screen has already been restored, grounded on the teacher's cmd/thicc
// crash-report block in main() (recover, re-derive a stack, print system
// info) trimmed to what a headless orchestrator actually needs: no Lua
// API error variant, no GitHub issue URL, since Thurbox has no plugin
// layer or its own bug tracker integration to point at.
func printCrashReport(recovered any) {
	stack := goerrors.Wrap(recovered, 2).ErrorStack()

	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "thurbox encountered an unexpected error!")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintf(os.Stderr, "Error: %v\n", recovered)
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Stack trace:")
	fmt.Fprintln(os.Stderr, stack)
	fmt.Fprintf(os.Stderr, "Go: %s (%s/%s)\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
	fmt.Fprintln(os.Stderr, string(debug.Stack()))
}
