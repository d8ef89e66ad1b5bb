package dcegraph

import (
	"encoding/json"
	"fmt"

	"github.com/wasmglue/jspostproc/internal/ast"
	"github.com/wasmglue/jspostproc/internal/astutil"
)

// ApplyDCEGraphRemovals consumes a previously emitted graph (graphJSON) plus
// the caller's unusedImports/unusedExports sets and erases the matching
// wasmImports entries and export-assignment statements from program.
//
// It asserts consistency twice over: every unused name must first resolve
// to something the graph actually declared as an import or export, and
// then must actually be located in program's AST by the walk below — a
// name that passes the first check but is never matched by the walk (for
// example because a prior pass already erased it) is just as much a
// mismatch as one the graph never declared, and fails fatally rather than
// silently doing nothing (a mismatched graph is a build misconfiguration,
// not a recoverable runtime condition).
func ApplyDCEGraphRemovals(program *ast.Node, graphJSON []byte, unusedImports, unusedExports []string) error {
	var nodes []Node
	if err := json.Unmarshal(graphJSON, &nodes); err != nil {
		return fmt.Errorf("dcegraph: parsing graph: %w", err)
	}

	importsByNative := map[string]bool{}
	exportsByWasmName := map[string]bool{}
	for _, n := range nodes {
		if len(n.Import) == 2 {
			importsByNative[n.Import[1]] = true
		}
		if n.Export != "" {
			exportsByWasmName[n.Export] = true
		}
	}
	unusedImportSet := map[string]bool{}
	for _, name := range unusedImports {
		if !importsByNative[name] {
			return &ErrInconsistentGraph{Detail: fmt.Sprintf("unusedImports names %q, which the graph never declared as an import", name)}
		}
		unusedImportSet[name] = true
	}
	unusedExportSet := map[string]bool{}
	for _, name := range unusedExports {
		if !exportsByWasmName[name] {
			return &ErrInconsistentGraph{Detail: fmt.Sprintf("unusedExports names %q, which the graph never declared as an export", name)}
		}
		unusedExportSet[name] = true
	}

	matchedImports := map[string]bool{}
	matchedExports := map[string]bool{}

	ast.FullWalk(program, func(n *ast.Node) {
		switch n.Type {
		case "VariableDeclaration":
			removeUnusedImportsEntry(n, unusedImportSet, matchedImports)
			removeIfUnusedExportDeclarator(n, unusedExportSet, matchedExports)
		case "ExpressionStatement":
			removeIfUnusedBareExportAssignment(n, unusedExportSet, matchedExports)
		}
	}, nil)

	for name := range unusedImportSet {
		if !matchedImports[name] {
			return &ErrInconsistentGraph{Detail: fmt.Sprintf("unusedImports names %q, which never appeared in the AST as a wasmImports entry", name)}
		}
	}
	for name := range unusedExportSet {
		if !matchedExports[name] {
			return &ErrInconsistentGraph{Detail: fmt.Sprintf("unusedExports names %q, which never appeared in the AST as an export declarator or assignment", name)}
		}
	}
	return nil
}

func removeUnusedImportsEntry(decl *ast.Node, unused, matched map[string]bool) {
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
	kept := make([]*ast.Node, 0, len(init.List("properties")))
	for _, prop := range init.List("properties") {
		nativeName := propertyKeyName(prop.Node("key"))
		if nativeName != "" && unused[nativeName] {
			matched[nativeName] = true
			// An unused import whose value still has side effects (e.g. a
			// logical-or fallback that calls something) is kept so that
			// side effect still runs at instantiation time.
			if !astutil.HasSideEffects(prop.Node("value")) {
				continue
			}
		}
		kept = append(kept, prop)
	}
	init.SetList("properties", kept)
}

func removeIfUnusedExportDeclarator(decl *ast.Node, unused, matched map[string]bool) {
	d := singleDeclarator(decl)
	if d == nil {
		return
	}
	init := d.Node("init")
	if init == nil {
		return
	}
	if wasmName, ok := isWasmExportsAccess(init); ok && unused[wasmName] {
		matched[wasmName] = true
		astutil.EmptyOut(decl)
		return
	}
	if init.Type == "AssignmentExpression" {
		right := init.Node("right")
		if wasmName, ok := isWasmExportsAccess(right); ok && unused[wasmName] {
			matched[wasmName] = true
			astutil.EmptyOut(decl)
			return
		}
		if count, wasmName := countWasmExportsRefs(right); count == 1 && unused[wasmName] {
			matched[wasmName] = true
			astutil.EmptyOut(decl)
		}
	}
}

func removeIfUnusedBareExportAssignment(stmt *ast.Node, unused, matched map[string]bool) {
	expr := stmt.Node("expression")
	if expr == nil || expr.Type != "AssignmentExpression" {
		return
	}
	left := expr.Node("left")
	right := expr.Node("right")

	// `_x = wasmExports['x'];` — the assignWasmExports minimal-runtime shape.
	if left != nil && left.Type == "Identifier" {
		if wasmName, ok := isWasmExportsAccess(right); ok && unused[wasmName] {
			matched[wasmName] = true
			astutil.EmptyOut(stmt)
			return
		}
	}

	// `Module['_x'] = _x = wasmExports['x'];` or any single-reference RHS.
	if _, ok := isModuleAccess(left); ok {
		if wasmName, ok := isWasmExportsAccess(right); ok && unused[wasmName] {
			matched[wasmName] = true
			astutil.EmptyOut(stmt)
			return
		}
		if count, wasmName := countWasmExportsRefs(right); count == 1 && unused[wasmName] {
			matched[wasmName] = true
			astutil.EmptyOut(stmt)
		}
	}
}
