// Package main implements the lockcheck CLI tool.
//
// lockcheck finds misuse of lock-shaped APIs — tasklock's primitives,
// sync.Mutex, or anything with the same method names — without running
// the program:
//
//	lockcheck ./...          # run the analysis pass over packages
//	lockcheck mod [dir]      # preflight the enclosing module's go.mod
//	lockcheck version        # show version information
//
// The analysis pass reports discarded TryLock/TryAcquire results and
// acquisitions that are never released in the same function. The mod
// subcommand locates the nearest go.mod and verifies its go directive is
// recent enough for the library (generics and typed atomics).
package main

import (
	"fmt"
	"os"

	"golang.org/x/tools/go/analysis/singlechecker"

	"github.com/kolkov/tasklock/cmd/lockcheck/analyzer"
)

const version = "0.1.0"

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "mod":
			modCommand(os.Args[2:])
			return
		case "version", "--version":
			fmt.Printf("lockcheck version %s\n", version)
			return
		}
	}

	// Everything else is the analysis driver's business, including
	// -help and package patterns.
	singlechecker.Main(analyzer.Analyzer)
}
