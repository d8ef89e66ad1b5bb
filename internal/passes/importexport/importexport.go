// Package importexport implements the registered
// "applyImportAndExportNameChanges" pass: it consumes the {oldName: newName}
// mapping in the sidecar's "mapping" field (extraInfo.mapping, not
// extraInfo.globals — the two sidecar fields serve different passes; the
// suffix minifyGlobals writes is a bare mapping object with no "mapping"
// key, so this pass does not read that suffix as-is) and
// renames the matching JS-side identifiers wherever they occur, including
// the wasmImports property values and the three assignWasmExports shapes
// emitDCEGraph recognizes. Grounded on internal/passes/dcegraph's shape
// matchers (tryRecognizeImportsTable, isWasmExportsAccess, isModuleAccess)
// for what those shapes look like, and on internal/passes/minify's
// renameTable for the identifier-vs-property-name distinction: a wasm-side
// name only ever appears as a string Literal in this AST, never as an
// Identifier, so a plain identifier-rename walk leaves it untouched without
// any special-casing.
package importexport

import (
	"github.com/wasmglue/jspostproc/internal/ast"
	"github.com/wasmglue/jspostproc/internal/extrainfo"
)

// Apply renames every Identifier whose name is a key of info.Mapping,
// everywhere in program, except non-computed member/property-key positions
// (those name real object properties, not variable references). It is a
// no-op if info or info.Mapping is absent.
func Apply(program *ast.Node, info *extrainfo.Info) error {
	if info == nil || len(info.Mapping) == 0 {
		return nil
	}
	ast.RecursiveWalk(program, renameTable(info.Mapping))
	return nil
}

func renameTable(mapping map[string]string) map[string]func(*ast.Node, ast.Continue) {
	return map[string]func(*ast.Node, ast.Continue){
		"Identifier": func(n *ast.Node, cont ast.Continue) {
			if newName, ok := mapping[n.String("name")]; ok {
				n.SetString("name", newName)
			}
		},
		"MemberExpression": func(n *ast.Node, cont ast.Continue) {
			cont(n.Node("object"))
			if n.Bool("computed") {
				cont(n.Node("property"))
			}
		},
		"Property": func(n *ast.Node, cont ast.Continue) {
			if n.Bool("computed") {
				cont(n.Node("key"))
			}
			if n.Bool("shorthand") {
				value := n.Node("value")
				oldName := value.String("name")
				cont(value)
				if value.String("name") != oldName {
					n.SetBool("shorthand", false)
				}
				return
			}
			cont(n.Node("value"))
		},
	}
}
