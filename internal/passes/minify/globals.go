package minify

import (
	"encoding/json"

	"github.com/wasmglue/jspostproc/internal/ast"
	"github.com/wasmglue/jspostproc/internal/astutil"
	"github.com/wasmglue/jspostproc/internal/extrainfo"
)

// ErrShapeViolation reports a pattern a pass expected to hold but didn't,
// the same "assertion" error kind the graph-emit and graph-removal passes
// raise for their own shape checks.
type ErrShapeViolation struct {
	Rule string
}

func (e *ErrShapeViolation) Error() string { return "shape violation: " + e.Rule }

// MinifyGlobals implements the minifyGlobals pass. It assumes program is
// exactly a single top-level `function instantiate(...) { ... }` wrapper,
// mints a short name for every name that function declares (function
// declarations' own id and parameters, function-expression parameters, and
// variable declarators) plus every name extraInfo.globals.Names lists, and
// rewrites every reference. The function's own id is restored afterward,
// and the returned bytes are the JSON {oldName: newName} mapping the
// pipeline driver appends as the printed `// EXTRA_INFO:` suffix.
func MinifyGlobals(program *ast.Node, info *extrainfo.Info, gen *NameGenerator) ([]byte, error) {
	body := program.List("body")
	if len(body) != 1 || body[0].Type != "FunctionDeclaration" {
		return nil, &ErrShapeViolation{Rule: "minifyGlobals input must be a single top-level function declaration"}
	}
	fn := body[0]
	id := fn.Node("id")
	if id == nil {
		return nil, &ErrShapeViolation{Rule: "minifyGlobals input function must have a name"}
	}
	originalID := id.String("name")

	declared := newOrderedSet()
	noop := func(*ast.Node) {}
	ast.FullWalk(fn, noop, func(n *ast.Node) bool {
		switch n.Type {
		case "FunctionDeclaration":
			if fnID := n.Node("id"); fnID != nil {
				declared.add(fnID.String("name"))
			}
			for _, param := range n.List("params") {
				collectPatternNames(param, declared.add)
			}
		case "FunctionExpression":
			for _, param := range n.List("params") {
				collectPatternNames(param, declared.add)
			}
		case "VariableDeclarator":
			collectPatternNames(n.Node("id"), declared.add)
		}
		return true
	})

	if info != nil && info.Globals != nil {
		for _, name := range info.Globals.Names {
			declared.add(name)
		}
	}

	mapping := make(map[string]string, len(declared.order))
	for _, name := range declared.order {
		mapping[name] = gen.Next(nil)
	}

	ast.RecursiveWalk(fn, renameTable(mapping))

	id.SetString("name", originalID)

	return json.Marshal(mapping)
}

// renameTable builds a RecursiveWalk table that renames every Identifier
// whose name is a key of mapping, while leaving non-computed member and
// property-key positions alone: those name real external properties, not
// variable references, even when the text happens to collide with a
// renamed declaration. A shorthand object property whose value gets
// renamed is expanded to explicit `key: value` form so the original
// property name still prints.
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

func collectPatternNames(pattern *ast.Node, add func(string)) {
	astutil.WalkPattern(pattern, func(*ast.Node) {}, add)
}

// orderedSet records first-occurrence order while deduplicating, matching
// the "declaration order" determinism the generator's minting must follow.
type orderedSet struct {
	order []string
	seen  map[string]bool
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: map[string]bool{}}
}

func (s *orderedSet) add(name string) {
	if name == "" || s.seen[name] {
		return
	}
	s.seen[name] = true
	s.order = append(s.order, name)
}
