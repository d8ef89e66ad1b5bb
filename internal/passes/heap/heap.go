// Package heap implements the five heap-access rewrite passes:
// littleEndianHeap, growableHeap, unsignPointers, asanify, and safeHeap.
// All five share the same recursiveWalk shape as esbuild's own family of
// small, single-purpose AST rewrites (internal/js_parser's substitution
// helpers): a handler table keyed by node type, with helper functions
// whose bodies are excluded from the rewrite by name (a prefix or an exact
// match; unsignPointers excludes none).
package heap

import (
	"strconv"
	"strings"

	"github.com/wasmglue/jspostproc/internal/ast"
)

type heapKind struct {
	t     string // "I", "U", or "F"
	sz    int
	bytes int
}

var heapKinds = map[string]heapKind{
	"HEAP16":  {"I", 16, 2},
	"HEAPU16": {"U", 16, 2},
	"HEAP32":  {"I", 32, 4},
	"HEAPU32": {"U", 32, 4},
	"HEAP64":  {"I", 64, 8},
	"HEAPU64": {"U", 64, 8},
	"HEAPF32": {"F", 32, 4},
	"HEAPF64": {"F", 64, 8},
}

// byteWideHeapNames are HEAP8/HEAPU8: valid heap aliases, left alone by
// littleEndianHeap since a byte access has no byte order, but instrumented
// by asanify and safeHeap like any other heap access.
var byteWideHeapNames = map[string]bool{"HEAP8": true, "HEAPU8": true}

func isHeapAlias(name string) bool {
	if byteWideHeapNames[name] {
		return true
	}
	_, ok := heapKinds[name]
	return ok
}

// heapAccess reports whether n is `HEAP*[idx]` and, if so, returns the alias
// name and the index expression node.
func heapAccess(n *ast.Node) (alias string, idx *ast.Node, ok bool) {
	if n == nil || n.Type != "MemberExpression" || !n.Bool("computed") {
		return "", nil, false
	}
	obj := n.Node("object")
	if obj == nil || obj.Type != "Identifier" {
		return "", nil, false
	}
	name := obj.String("name")
	if !isHeapAlias(name) {
		return "", nil, false
	}
	return name, n.Node("property"), true
}

func numberLiteral(n int) *ast.Node {
	lit := ast.New("Literal")
	lit.Set("value", ast.NumberValue(float64(n)))
	lit.SetString("raw", strconv.Itoa(n))
	return lit
}

func multiplyByBytes(idx *ast.Node, bytes int) *ast.Node {
	bin := ast.New("BinaryExpression")
	bin.SetString("operator", "*")
	bin.SetNode("left", idx)
	bin.SetNode("right", numberLiteral(bytes))
	return bin
}

// genericMemberRecurse is the fallback for MemberExpression nodes that
// aren't a rewrite target: recurse into object, and into property only if
// this is a computed access (matching VisitChildren's own field order).
func genericMemberRecurse(n *ast.Node, cont ast.Continue) {
	cont(n.Node("object"))
	if n.Bool("computed") {
		cont(n.Node("property"))
	}
}

// skipByName reports whether fn (a FunctionDeclaration/FunctionExpression)
// has an id whose name starts with any of prefixes, or exactly equals one of
// exact.
func skipByName(fn *ast.Node, prefixes []string, exact []string) bool {
	id := fn.Node("id")
	if id == nil {
		return false
	}
	name := id.String("name")
	for _, p := range prefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	for _, e := range exact {
		if name == e {
			return true
		}
	}
	return false
}

// functionGate returns handlers for FunctionDeclaration/FunctionExpression
// that suppress recursion into helpers matching prefixes/exact, and recurse
// normally (via VisitChildren) otherwise.
func functionGate(prefixes []string, exact []string) func(*ast.Node, ast.Continue) {
	return func(n *ast.Node, cont ast.Continue) {
		if skipByName(n, prefixes, exact) {
			return
		}
		ast.VisitChildren(n, cont)
	}
}
