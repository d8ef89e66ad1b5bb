package heap

import (
	"strings"

	"github.com/wasmglue/jspostproc/internal/ast"
	"github.com/wasmglue/jspostproc/internal/astutil"
)

// LittleEndianHeap rewrites HEAP*[idx] reads/writes (byte-wide accesses
// excluded) into LE_HEAP_LOAD_<T><Sz>/LE_HEAP_STORE_<T><Sz> calls scaled by
// element size, and Atomics.X(...) calls into LE_ATOMICS_<X> calls.
func LittleEndianHeap(program *ast.Node) {
	var tbl map[string]func(*ast.Node, ast.Continue)
	tbl = map[string]func(*ast.Node, ast.Continue){
		"AssignmentExpression": func(n *ast.Node, cont ast.Continue) {
			left := n.Node("left")
			if n.String("operator") == "=" {
				if alias, idx, ok := heapAccess(left); ok {
					if kind, rewritable := heapKinds[alias]; rewritable {
						cont(idx)
						value := n.Node("right")
						cont(value)
						astutil.MakeCallExpression(n, "LE_HEAP_STORE_"+kind.t+itoa(kind.sz),
							[]*ast.Node{multiplyByBytes(idx.Clone(), kind.bytes), value})
						return
					}
				}
			}
			cont(left)
			cont(n.Node("right"))
		},
		"MemberExpression": func(n *ast.Node, cont ast.Continue) {
			if alias, idx, ok := heapAccess(n); ok {
				if kind, rewritable := heapKinds[alias]; rewritable {
					cont(idx)
					astutil.MakeCallExpression(n, "LE_HEAP_LOAD_"+kind.t+itoa(kind.sz),
						[]*ast.Node{multiplyByBytes(idx.Clone(), kind.bytes)})
					return
				}
			}
			genericMemberRecurse(n, cont)
		},
		"CallExpression": func(n *ast.Node, cont ast.Continue) {
			callee := n.Node("callee")
			if callee != nil && callee.Type == "MemberExpression" && !callee.Bool("computed") {
				obj := callee.Node("object")
				prop := callee.Node("property")
				if obj != nil && obj.Type == "Identifier" && obj.String("name") == "Atomics" &&
					prop != nil && prop.Type == "Identifier" {
					newCallee := ast.New("Identifier")
					newCallee.SetString("name", "LE_ATOMICS_"+strings.ToUpper(prop.String("name")))
					n.SetNode("callee", newCallee)
					for _, a := range n.List("arguments") {
						cont(a)
					}
					return
				}
			}
			cont(callee)
			for _, a := range n.List("arguments") {
				cont(a)
			}
		},
		"FunctionDeclaration": functionGate([]string{"LE_HEAP", "LE_ATOMICS_"}, nil),
		"FunctionExpression":  functionGate([]string{"LE_HEAP", "LE_ATOMICS_"}, nil),
	}
	for _, stmt := range program.List("body") {
		ast.RecursiveWalk(stmt, tbl)
	}
}

func itoa(n int) string {
	switch n {
	case 8:
		return "8"
	case 16:
		return "16"
	case 32:
		return "32"
	case 64:
		return "64"
	default:
		return ""
	}
}
