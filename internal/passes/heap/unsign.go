package heap

import "github.com/wasmglue/jspostproc/internal/ast"

func isHeapAliasForUnsign(name string) bool {
	return isHeapAlias(name) || name == "heap" || name == "HEAP"
}

// unsign wraps p so it reads as an unsigned 32-bit value: a `>>` shift
// becomes `>>>`; anything else is wrapped `p >>> 0`. Not idempotent:
// running it twice on its own output adds one more `>>> 0` wrap, since the
// inner shift already became `>>>` the first time and so is wrapped on the
// second pass.
func unsign(p *ast.Node) *ast.Node {
	if p != nil && p.Type == "BinaryExpression" && p.String("operator") == ">>" {
		p.SetString("operator", ">>>")
		return p
	}
	bin := ast.New("BinaryExpression")
	bin.SetString("operator", ">>>")
	bin.SetNode("left", p)
	bin.SetNode("right", numberLiteral(0))
	return bin
}

var pointerArgIndexesByMethod = map[string][]int{
	"set":        {1},
	"subarray":   {0, 1},
	"copyWithin": {0, 1, 2},
}

// UnsignPointers rewrites every HEAP*[p] index and every pointer-typed
// argument of HEAP*.set/subarray/copyWithin through unsign.
func UnsignPointers(program *ast.Node) {
	tbl := map[string]func(*ast.Node, ast.Continue){
		"MemberExpression": func(n *ast.Node, cont ast.Continue) {
			if n.Bool("computed") {
				obj := n.Node("object")
				if obj != nil && obj.Type == "Identifier" && isHeapAliasForUnsign(obj.String("name")) {
					idx := n.Node("property")
					cont(idx)
					n.SetNode("property", unsign(idx))
					return
				}
			}
			genericMemberRecurse(n, cont)
		},
		"CallExpression": func(n *ast.Node, cont ast.Continue) {
			callee := n.Node("callee")
			args := n.List("arguments")
			if callee != nil && callee.Type == "MemberExpression" && !callee.Bool("computed") {
				obj := callee.Node("object")
				prop := callee.Node("property")
				if obj != nil && obj.Type == "Identifier" && isHeapAliasForUnsign(obj.String("name")) &&
					prop != nil && prop.Type == "Identifier" {
					if indexes, ok := pointerArgIndexesByMethod[prop.String("name")]; ok {
						for _, a := range args {
							cont(a)
						}
						for _, i := range indexes {
							if i < len(args) {
								args[i] = unsign(args[i])
							}
						}
						n.SetList("arguments", args)
						return
					}
				}
			}
			cont(callee)
			for _, a := range args {
				cont(a)
			}
		},
	}
	for _, stmt := range program.List("body") {
		ast.RecursiveWalk(stmt, tbl)
	}
}
