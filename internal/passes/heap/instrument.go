package heap

import (
	"github.com/wasmglue/jspostproc/internal/ast"
	"github.com/wasmglue/jspostproc/internal/astutil"
)

// instrumentHeapAccesses is the shared shape behind asanify and safeHeap:
// every HEAP*[idx] store becomes storeFn(HEAP*, idx, value), every load
// becomes loadFn(HEAP*, idx), and helper functions matching skipPrefixes or
// skipExact are left unvisited so the instrumentation call sites themselves
// aren't re-instrumented.
func instrumentHeapAccesses(program *ast.Node, storeFn, loadFn string, skipPrefixes, skipExact []string) {
	var tbl map[string]func(*ast.Node, ast.Continue)
	tbl = map[string]func(*ast.Node, ast.Continue){
		"AssignmentExpression": func(n *ast.Node, cont ast.Continue) {
			left := n.Node("left")
			if n.String("operator") == "=" {
				if alias, idx, ok := heapAccess(left); ok {
					objIdent := ast.New("Identifier")
					objIdent.SetString("name", alias)
					cont(idx)
					value := n.Node("right")
					cont(value)
					astutil.MakeCallExpression(n, storeFn, []*ast.Node{objIdent, idx, value})
					return
				}
			}
			cont(left)
			cont(n.Node("right"))
		},
		"MemberExpression": func(n *ast.Node, cont ast.Continue) {
			if alias, idx, ok := heapAccess(n); ok {
				objIdent := ast.New("Identifier")
				objIdent.SetString("name", alias)
				cont(idx)
				astutil.MakeCallExpression(n, loadFn, []*ast.Node{objIdent, idx})
				return
			}
			genericMemberRecurse(n, cont)
		},
		"FunctionDeclaration": functionGate(skipPrefixes, skipExact),
		"FunctionExpression":  functionGate(skipPrefixes, skipExact),
	}
	for _, stmt := range program.List("body") {
		ast.RecursiveWalk(stmt, tbl)
	}
}

// Asanify rewrites HEAP accesses into AddressSanitizer instrumentation
// calls, skipping the sanitizer's own runtime helpers.
func Asanify(program *ast.Node) {
	instrumentHeapAccesses(program, "_asan_js_store", "_asan_js_load",
		[]string{"_asan_js_"}, []string{"establishStackSpace"})
}

// SafeHeap rewrites HEAP accesses into bounds-checked SAFE_HEAP_* calls,
// skipping the checker's own runtime helpers.
func SafeHeap(program *ast.Node) {
	instrumentHeapAccesses(program, "SAFE_HEAP_STORE", "SAFE_HEAP_LOAD",
		[]string{"SAFE_HEAP"}, nil)
}
