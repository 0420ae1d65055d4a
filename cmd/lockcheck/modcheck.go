package main

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/mod/modfile"
	"golang.org/x/mod/semver"
)

// minGoVersion is the oldest go directive the library supports. The
// scoped helpers use generics and the primitives use typed atomics, and
// the deque dependency raises the floor to 1.21.
const minGoVersion = "1.21"

// modCommand implements `lockcheck mod [dir]`: locate the enclosing
// module's go.mod, parse it, and verify the go directive.
func modCommand(args []string) {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}

	path, err := findGoMod(dir)
	if err != nil {
		fmt.Fprintln(os.Stderr, "lockcheck:", err)
		os.Exit(1)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "lockcheck:", err)
		os.Exit(1)
	}

	f, err := modfile.Parse(path, data, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "lockcheck: parsing %s: %v\n", path, err)
		os.Exit(1)
	}

	modPath := "(unnamed)"
	if f.Module != nil {
		modPath = f.Module.Mod.Path
	}
	goVersion := ""
	if f.Go != nil {
		goVersion = f.Go.Version
	}

	fmt.Printf("module:       %s\n", modPath)
	fmt.Printf("go directive: %s\n", orNone(goVersion))

	switch {
	case goVersion == "":
		fmt.Printf("verdict:      no go directive; add `go %s` or newer\n", minGoVersion)
		os.Exit(1)
	case semver.Compare("v"+goVersion, "v"+minGoVersion) < 0:
		fmt.Printf("verdict:      go %s is below the supported minimum %s\n", goVersion, minGoVersion)
		os.Exit(1)
	default:
		fmt.Printf("verdict:      ok (>= %s)\n", minGoVersion)
	}
}

// findGoMod walks up from dir looking for a go.mod, the way build tools
// locate the enclosing module.
func findGoMod(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		path := filepath.Join(dir, "go.mod")
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no go.mod found in or above %s", dir)
		}
		dir = parent
	}
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
