// Package analyzer implements the lockcheck analysis pass.
//
// The pass walks each function body looking for two misuse patterns of
// lock-shaped APIs (tasklock's primitives, sync.Mutex, or anything with
// the same method names):
//
//  1. A TryLock or TryAcquire call whose result is discarded. A
//     non-blocking acquisition that nobody checks is always a bug: the
//     caller proceeds whether or not it got the lock.
//  2. A Lock, RLock, or Acquire statement with no matching Unlock,
//     RUnlock, or Release anywhere in the same function. This is a
//     heuristic — handing a held lock to another function is legal — but
//     in application code an acquisition with no release in sight is
//     nearly always a missing defer.
//
// Only zero-argument method calls are considered, so the context-aware
// forms (LockContext and friends), whose dropped errors other vet passes
// catch, are out of scope here.
package analyzer

import (
	"go/ast"
	"go/types"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
)

// Analyzer is the lockcheck pass.
var Analyzer = &analysis.Analyzer{
	Name:     "lockcheck",
	Doc:      "report discarded TryLock results and lock acquisitions never released in the same function",
	Requires: []*analysis.Analyzer{inspect.Analyzer},
	Run:      run,
}

// release pairs each acquisition method with its release.
var release = map[string]string{
	"Lock":    "Unlock",
	"RLock":   "RUnlock",
	"Acquire": "Release",
}

// tryMethods are non-blocking acquisitions whose result must be used.
var tryMethods = map[string]bool{
	"TryLock":    true,
	"TryAcquire": true,
}

func run(pass *analysis.Pass) (interface{}, error) {
	ins := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)

	nodeFilter := []ast.Node{(*ast.FuncDecl)(nil)}
	ins.Preorder(nodeFilter, func(n ast.Node) {
		fn := n.(*ast.FuncDecl)
		if fn.Body == nil {
			return
		}
		checkFunc(pass, fn.Body)
	})

	return nil, nil
}

// acquisition is a Lock-like statement awaiting a matching release.
type acquisition struct {
	pos    ast.Node
	recv   string
	method string
}

// checkFunc scans one function body for the two misuse patterns.
func checkFunc(pass *analysis.Pass, body *ast.BlockStmt) {
	var acquires []acquisition
	released := make(map[string]bool)

	ast.Inspect(body, func(n ast.Node) bool {
		switch st := n.(type) {
		case *ast.ExprStmt:
			recv, method, ok := lockMethodCall(pass, st.X)
			if !ok {
				return true
			}
			switch {
			case tryMethods[method]:
				pass.Reportf(st.Pos(), "result of %s.%s is never used", recv, method)
			case release[method] != "":
				acquires = append(acquires, acquisition{pos: st, recv: recv, method: method})
			case isRelease(method):
				released[recv] = true
			}
		case *ast.DeferStmt:
			if recv, method, ok := lockMethodCall(pass, st.Call); ok && isRelease(method) {
				released[recv] = true
			}
		}
		return true
	})

	for _, a := range acquires {
		if !released[a.recv] {
			pass.Reportf(a.pos.Pos(), "%s.%s is never released in this function; missing defer %s.%s?",
				a.recv, a.method, a.recv, release[a.method])
		}
	}
}

// isRelease reports whether method is any of the release names.
func isRelease(method string) bool {
	for _, rel := range release {
		if method == rel {
			return true
		}
	}
	return false
}

// lockMethodCall matches a zero-argument method call expression and
// returns the rendered receiver and the method name. Package-level
// function calls (where the selector is a package qualifier, not a
// method selection) are rejected via the type info.
func lockMethodCall(pass *analysis.Pass, expr ast.Expr) (recv, method string, ok bool) {
	call, ok := expr.(*ast.CallExpr)
	if !ok || len(call.Args) != 0 {
		return "", "", false
	}
	sel, ok := call.Fun.(*ast.SelectorExpr)
	if !ok {
		return "", "", false
	}
	if pass.TypesInfo.Selections[sel] == nil {
		// Qualified identifier (pkg.Func), not a method call.
		return "", "", false
	}
	return types.ExprString(sel.X), sel.Sel.Name, true
}
