package heap

import "github.com/wasmglue/jspostproc/internal/ast"

// GrowableHeap wraps every bare read of a HEAP alias identifier in
// `(growMemViews(), HEAP32)` so a preceding memory grow is picked up before
// the access, leaving reassignments of the alias itself (inside
// growMemViews's own body, where the views are rebound) untouched.
func GrowableHeap(program *ast.Node) {
	tbl := map[string]func(*ast.Node, ast.Continue){
		"Identifier": func(n *ast.Node, cont ast.Continue) {
			if isHeapAlias(n.String("name")) {
				wrapGrowMemViews(n)
			}
		},
		"AssignmentExpression": func(n *ast.Node, cont ast.Continue) {
			left := n.Node("left")
			if left != nil && left.Type == "Identifier" && isHeapAlias(left.String("name")) {
				// The reassignment target itself is left bare.
			} else {
				cont(left)
			}
			cont(n.Node("right"))
		},
		"ExportNamedDeclaration":   func(*ast.Node, ast.Continue) {},
		"ExportDefaultDeclaration": func(*ast.Node, ast.Continue) {},
		"FunctionDeclaration":      functionGate(nil, []string{"growMemViews", "LE_HEAP_UPDATE"}),
		"FunctionExpression":       functionGate(nil, []string{"growMemViews", "LE_HEAP_UPDATE"}),
	}
	for _, stmt := range program.List("body") {
		ast.RecursiveWalk(stmt, tbl)
	}
}

func wrapGrowMemViews(n *ast.Node) {
	inner := ast.New("Identifier")
	inner.SetString("name", n.String("name"))

	callee := ast.New("Identifier")
	callee.SetString("name", "growMemViews")
	call := ast.New("CallExpression")
	call.SetNode("callee", callee)
	call.SetBool("optional", false)

	n.Type = "SequenceExpression"
	n.Fields = nil
	n.SetList("expressions", []*ast.Node{call, inner})
}
