package dcegraph

import (
	"github.com/wasmglue/jspostproc/internal/ast"
	"github.com/wasmglue/jspostproc/internal/astutil"
	"github.com/wasmglue/jspostproc/internal/extrainfo"
)

type pendingWalk struct {
	subtree *ast.Node
	frame   *string // nil means root
}

// EmitDCEGraph mutates program (erasing the recognized top-level forms so a
// human reading the remaining source sees only what's still load-bearing)
// and returns the reachability graph as indented JSON.
func EmitDCEGraph(program *ast.Node, info *extrainfo.Info, warn func(string, ...any)) ([]byte, error) {
	g := newGraphBuilder(warn)
	applyExtraInfoExports(g, info)

	var defunBodies []pendingWalk
	var importValueWalks []pendingWalk
	depth := 0

	pre := func(n *ast.Node) bool {
		if n.Type == "ArrowFunctionExpression" || (n.Type == "Property" && n.Bool("method")) {
			depth++
		}
		return true
	}
	post := func(n *ast.Node) {
		switch n.Type {
		case "ArrowFunctionExpression":
			depth--
		case "Property":
			if n.Bool("method") {
				depth--
			}
		case "VariableDeclaration":
			tryRecognizeImportsTable(g, n, &importValueWalks)
			tryRecognizeExportDeclarator(g, n)
		case "ExpressionStatement":
			tryRecognizeBareExportAssignment(g, n)
		case "FunctionDeclaration":
			tryRecognizeFunctionDeclaration(g, n, depth, &defunBodies)
		}
	}
	ast.FullWalk(program, post, pre)

	for _, w := range importValueWalks {
		frame := w.frame
		g.walkForReaches(w.subtree, frame)
	}
	for _, w := range defunBodies {
		g.walkForReaches(w.subtree, w.frame)
	}
	g.walkForReaches(program, nil)

	return g.toJSON()
}

func singleDeclarator(n *ast.Node) *ast.Node {
	decls := n.List("declarations")
	if len(decls) != 1 {
		return nil
	}
	return decls[0]
}

func tryRecognizeImportsTable(g *graphBuilder, decl *ast.Node, pending *[]pendingWalk) {
	d := singleDeclarator(decl)
	if d == nil {
		return
	}
	id := d.Node("id")
	init := d.Node("init")
	if id == nil || id.Type != "Identifier" || id.String("name") != "wasmImports" {
		return
	}
	if init == nil || init.Type != "ObjectExpression" {
		return
	}
	for _, prop := range init.List("properties") {
		if prop.Type != "Property" || prop.Bool("method") || prop.Bool("computed") {
			continue
		}
		nativeName := propertyKeyName(prop.Node("key"))
		if nativeName == "" {
			continue
		}
		value := prop.Node("value")
		if value == nil || value.Type != "Identifier" {
			// Literal and function-expression import values carry no
			// JS-side symbol to track reachability for; skip them.
			continue
		}
		jsName := value.String("name")
		graphName := g.saveAsmImport(jsName, "env", nativeName)
		*pending = append(*pending, pendingWalk{subtree: value, frame: &graphName})
	}
	astutil.EmptyOut(decl)
}

func propertyKeyName(key *ast.Node) string {
	if key == nil {
		return ""
	}
	switch key.Type {
	case "Identifier":
		return key.String("name")
	case "Literal":
		if v, ok := key.Get("value"); ok && v.Kind == ast.KindString {
			return v.Str
		}
	}
	return ""
}

func isWasmExportsAccess(n *ast.Node) (wasmName string, ok bool) {
	if n == nil || n.Type != "MemberExpression" || !n.Bool("computed") {
		return "", false
	}
	obj := n.Node("object")
	prop := n.Node("property")
	if obj == nil || obj.Type != "Identifier" || obj.String("name") != "wasmExports" {
		return "", false
	}
	if prop == nil || prop.Type != "Literal" {
		return "", false
	}
	v, ok := prop.Get("value")
	if !ok || v.Kind != ast.KindString {
		return "", false
	}
	return v.Str, true
}

func isModuleAccess(n *ast.Node) (propName string, ok bool) {
	if n == nil || n.Type != "MemberExpression" || !n.Bool("computed") {
		return "", false
	}
	obj := n.Node("object")
	prop := n.Node("property")
	if obj == nil || obj.Type != "Identifier" || obj.String("name") != "Module" {
		return "", false
	}
	if prop == nil || prop.Type != "Literal" {
		return "", false
	}
	v, ok := prop.Get("value")
	if !ok || v.Kind != ast.KindString {
		return "", false
	}
	return v.Str, true
}

// countWasmExportsRefs walks expr looking for wasmExports[...] accesses,
// used to enforce the "exactly one" invariant on the Module[...] = <expr>
// export shape.
func countWasmExportsRefs(expr *ast.Node) (count int, lastWasmName string) {
	ast.FullWalk(expr, func(n *ast.Node) {
		if w, ok := isWasmExportsAccess(n); ok {
			count++
			lastWasmName = w
		}
	}, nil)
	return
}

func tryRecognizeExportDeclarator(g *graphBuilder, decl *ast.Node) {
	d := singleDeclarator(decl)
	if d == nil {
		return
	}
	id := d.Node("id")
	init := d.Node("init")
	if id == nil || id.Type != "Identifier" || init == nil {
		return
	}
	jsName := id.String("name")

	if wasmName, ok := isWasmExportsAccess(init); ok {
		g.saveAsmExport(jsName, wasmName, "")
		astutil.EmptyOut(decl)
		return
	}

	if init.Type == "AssignmentExpression" {
		left := init.Node("left")
		right := init.Node("right")
		if modulePropName, ok := isModuleAccess(left); ok {
			if wasmName, ok := isWasmExportsAccess(right); ok {
				g.saveAsmExport(jsName, wasmName, modulePropName)
				astutil.EmptyOut(decl)
				return
			}
			if count, wasmName := countWasmExportsRefs(right); count == 1 {
				g.saveAsmExport(jsName, wasmName, modulePropName)
				astutil.EmptyOut(decl)
				return
			}
			// No wasmExports reference at all (e.g. a bare numeric
			// global address): no link, just erase.
			astutil.EmptyOut(decl)
		}
	}
}

func tryRecognizeBareExportAssignment(g *graphBuilder, stmt *ast.Node) {
	expr := stmt.Node("expression")
	if expr == nil || expr.Type != "AssignmentExpression" {
		return
	}
	left := expr.Node("left")
	right := expr.Node("right")
	modulePropName, ok := isModuleAccess(left)
	if !ok {
		return
	}
	if wasmName, ok := isWasmExportsAccess(right); ok {
		g.saveAsmExport(modulePropName, wasmName, modulePropName)
		astutil.EmptyOut(stmt)
		return
	}
	if count, wasmName := countWasmExportsRefs(right); count == 1 {
		g.saveAsmExport(modulePropName, wasmName, modulePropName)
		astutil.EmptyOut(stmt)
		return
	}
}

func tryRecognizeFunctionDeclaration(g *graphBuilder, fn *ast.Node, depth int, pending *[]pendingWalk) {
	id := fn.Node("id")
	if id == nil {
		return
	}
	name := id.String("name")

	if name == "assignWasmExports" && depth == 0 {
		recognizeAssignWasmExports(g, fn)
		astutil.EmptyOut(fn)
		return
	}
	if depth != 0 {
		return
	}
	graphName := g.saveDefun(name)
	body := fn.Node("body")
	*pending = append(*pending, pendingWalk{subtree: body, frame: &graphName})
	astutil.EmptyOut(fn)
}

// recognizeAssignWasmExports scans `function assignWasmExports(wasmExports){
// name = wasmExports['w']; ... }` bodies emitted by emscripten's minimal
// runtime, registering one export per assignment statement.
func recognizeAssignWasmExports(g *graphBuilder, fn *ast.Node) {
	body := fn.Node("body")
	if body == nil {
		return
	}
	for _, stmt := range body.List("body") {
		if stmt.Type != "ExpressionStatement" {
			continue
		}
		expr := stmt.Node("expression")
		if expr == nil || expr.Type != "AssignmentExpression" {
			continue
		}
		left := expr.Node("left")
		if left == nil || left.Type != "Identifier" {
			continue
		}
		if wasmName, ok := isWasmExportsAccess(expr.Node("right")); ok {
			g.saveAsmExport(left.String("name"), wasmName, left.String("name"))
		}
	}
}
