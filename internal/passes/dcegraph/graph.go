// Package dcegraph implements emitDCEGraph and applyDCEGraphRemovals: the
// two passes that bridge the wasm module's own import/export table and the
// JS glue's reachability, producing (and later consuming) a JSON graph of
// nodes named "emcc$<kind>$<name>". Grounded on gopherjs's dceInfo /
// SelectAliveDecls pending-queue walk (internal/dce style reachability) and
// on HugoDaniel-miniray's entry-point-driven DCE, adapted to the wasm
// import/export vocabulary instead of Go package symbols.
package dcegraph

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"

	"github.com/wasmglue/jspostproc/internal/ast"
	"github.com/wasmglue/jspostproc/internal/extrainfo"
)

// Node is one entry of the emitted graph, in the wire shape: name, then
// at most one of import/export, then the reaches list and root flag.
type Node struct {
	Name    string   `json:"name"`
	Import  []string `json:"import,omitempty"`
	Export  string   `json:"export,omitempty"`
	Reaches []string `json:"reaches"`
	Root    bool     `json:"root,omitempty"`
}

var dynCallExportRE = regexp.MustCompile(`^dynCall_`)

type graphBuilder struct {
	nodes       map[string]*Node
	byAlias     map[string]string // jsName | Module-prop name | wasmName -> graph name
	dynCallExports []string
	warn        func(format string, args ...any)
}

func newGraphBuilder(warn func(string, ...any)) *graphBuilder {
	if warn == nil {
		warn = func(string, ...any) {}
	}
	return &graphBuilder{
		nodes:   map[string]*Node{},
		byAlias: map[string]string{},
		warn:    warn,
	}
}

func (g *graphBuilder) getOrCreate(name string) *Node {
	if n, ok := g.nodes[name]; ok {
		return n
	}
	n := &Node{Name: name, Reaches: nil}
	g.nodes[name] = n
	return n
}

func importGraphName(jsName string) string { return "emcc$import$" + jsName }
func exportGraphName(jsName string) string { return "emcc$export$" + jsName }
func defunGraphName(jsName string) string  { return "emcc$defun$" + jsName }

// saveAsmImport registers one wasmImports entry: jsName is the identifier
// bound as the import's value, module/field identify the wasm-side import.
func (g *graphBuilder) saveAsmImport(jsName, module, field string) string {
	name := importGraphName(jsName)
	n := g.getOrCreate(name)
	n.Import = []string{module, field}
	g.byAlias[jsName] = name
	return name
}

// saveAsmExport registers one JS export: jsName is the local binding,
// wasmName the key into wasmExports, modulePropName the Module[...] alias
// (often equal to jsName but kept distinct for clarity).
func (g *graphBuilder) saveAsmExport(jsName, wasmName, modulePropName string) string {
	name := exportGraphName(jsName)
	n := g.getOrCreate(name)
	n.Export = wasmName
	g.byAlias[jsName] = name
	if modulePropName != "" {
		g.byAlias[modulePropName] = name
	}
	if wasmName != "" {
		g.byAlias[wasmName] = name
	}
	if dynCallExportRE.MatchString(jsName) {
		g.dynCallExports = append(g.dynCallExports, jsName)
	}
	return name
}

func (g *graphBuilder) saveDefun(jsName string) string {
	name := defunGraphName(jsName)
	g.getOrCreate(name)
	g.byAlias[jsName] = name
	return name
}

// recordReach resolves name against the alias table and, if found, either
// extends frame's reaches (frame != nil) or marks the target as a root
// (frame == nil, meaning the reference was seen outside any defun body).
func (g *graphBuilder) recordReach(frame *string, name string) {
	target, ok := g.byAlias[name]
	if !ok {
		return
	}
	if frame != nil {
		src := g.nodes[*frame]
		if src.Reaches == nil {
			src.Reaches = []string{}
		}
		for _, r := range src.Reaches {
			if r == target {
				return
			}
		}
		src.Reaches = append(src.Reaches, target)
		return
	}
	g.nodes[target].Root = true
}

func (g *graphBuilder) markRootByAlias(name string) {
	if target, ok := g.byAlias[name]; ok {
		g.nodes[target].Root = true
	}
}

func (g *graphBuilder) reachAllDynCalls(frame *string) {
	for _, name := range g.dynCallExports {
		g.recordReach(frame, name)
	}
}

// walkForReaches drives the generic identifier/Module/wasmExports/dynCall
// recognizers described in the second pass, attributing everything found
// either to frame (inside a defun or import value) or to root (frame nil).
func (g *graphBuilder) walkForReaches(root *ast.Node, frame *string) {
	if root == nil {
		return
	}
	ast.FullWalk(root, func(n *ast.Node) {
		switch n.Type {
		case "Identifier":
			g.recordReach(frame, n.String("name"))
		case "MemberExpression":
			g.checkMemberExpression(n, frame)
		case "CallExpression":
			g.checkDynCall(n, frame)
		case "Literal":
			if v, ok := n.Get("value"); ok && v.Kind == ast.KindString && v.Str == "dynCall_" {
				g.reachAllDynCalls(frame)
			}
		}
	}, nil)
}

func (g *graphBuilder) checkMemberExpression(n *ast.Node, frame *string) {
	if !n.Bool("computed") {
		return
	}
	obj := n.Node("object")
	prop := n.Node("property")
	if obj == nil || obj.Type != "Identifier" || prop == nil || prop.Type != "Literal" {
		return
	}
	v, ok := prop.Get("value")
	if !ok || v.Kind != ast.KindString {
		return
	}
	switch obj.String("name") {
	case "Module":
		g.recordReach(frame, v.Str)
	case "wasmExports":
		// A stray wasmExports[...] access outside a recognized
		// single-export declarator: the glue reads it straight from the
		// instance, so the export must be kept regardless of who's asking.
		g.markRootByAlias(v.Str)
	}
}

func (g *graphBuilder) checkDynCall(n *ast.Node, frame *string) {
	callee := n.Node("callee")
	if callee == nil || callee.Type != "Identifier" || callee.String("name") != "dynCall" {
		return
	}
	args := n.List("arguments")
	if len(args) > 0 && args[0] != nil && args[0].Type == "Literal" {
		if v, ok := args[0].Get("value"); ok && v.Kind == ast.KindString {
			name := "dynCall_" + v.Str
			if _, known := g.byAlias[name]; !known {
				g.warn("metadce: missing declaration for %s", name)
			}
			g.recordReach(frame, name)
			return
		}
	}
	g.reachAllDynCalls(frame)
}

// toJSON renders the graph as a deterministically ordered JSON array:
// nodes sorted by name, each node's reaches sorted too.
func (g *graphBuilder) toJSON() ([]byte, error) {
	names := make([]string, 0, len(g.nodes))
	for name := range g.nodes {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]Node, 0, len(names))
	for _, name := range names {
		n := *g.nodes[name]
		sort.Strings(n.Reaches)
		out = append(out, n)
	}
	return json.MarshalIndent(out, "", "  ")
}

func applyExtraInfoExports(g *graphBuilder, info *extrainfo.Info) {
	if info == nil {
		return
	}
	for _, e := range info.Exports {
		g.saveAsmExport(e.JSName, e.WasmName, e.JSName)
	}
}

// ErrInconsistentGraph is returned by applyDCEGraphRemovals when the graph
// and the source file it is being applied to disagree about which names
// exist; mirrors the "fatal consistency assertions" called for by the
// removal pass.
type ErrInconsistentGraph struct {
	Detail string
}

func (e *ErrInconsistentGraph) Error() string {
	return fmt.Sprintf("dcegraph: %s", e.Detail)
}
