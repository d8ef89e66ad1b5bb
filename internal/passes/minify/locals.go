package minify

import (
	"github.com/wasmglue/jspostproc/internal/ast"
	"github.com/wasmglue/jspostproc/internal/extrainfo"
)

// MinifyLocals implements the minifyLocals pass: every top-level function
// declaration in program.body is processed independently. Parameters and
// every VariableDeclarator within the function are its locals; each gets a
// fresh generator-minted name on first encounter, reused on every later
// reference. Identifiers naming an extraInfo.globals entry keep that
// pre-assigned minified form instead of being minted fresh. Labels live in
// their own per-function namespace, minted by an independent generator.
func MinifyLocals(program *ast.Node, info *extrainfo.Info, gen *NameGenerator) error {
	for _, stmt := range program.List("body") {
		if stmt.Type != "FunctionDeclaration" {
			continue
		}
		if err := minifyOneFunction(stmt, info, gen); err != nil {
			return err
		}
	}
	return nil
}

func minifyOneFunction(fn *ast.Node, info *extrainfo.Info, gen *NameGenerator) error {
	localNames := map[string]bool{}
	noop := func(*ast.Node) {}

	for _, param := range fn.List("params") {
		collectPatternNames(param, func(name string) { localNames[name] = true })
	}
	ast.FullWalk(fn.Node("body"), noop, func(n *ast.Node) bool {
		if n.Type == "VariableDeclarator" {
			collectPatternNames(n.Node("id"), func(name string) { localNames[name] = true })
		}
		return true
	})

	var globalsMapping map[string]string
	if info != nil && info.Globals != nil {
		globalsMapping = info.Globals.Mapping
	}

	mapping := map[string]string{}
	usedNames := map[string]bool{}

	// Pre-scan: a non-local identifier naming a pre-assigned global keeps
	// that assignment and reserves it, and no local name may be called
	// directly (the shape minifyLocals's caller-inlining assumption rules
	// out an indirect call through a renamed local).
	var shapeErr error
	ast.FullWalk(fn.Node("body"), noop, func(n *ast.Node) bool {
		if n.Type == "Identifier" && !localNames[n.String("name")] {
			if assigned, ok := globalsMapping[n.String("name")]; ok {
				mapping[n.String("name")] = assigned
				usedNames[assigned] = true
			}
		}
		if n.Type == "CallExpression" {
			if callee := n.Node("callee"); callee != nil && callee.Type == "Identifier" && localNames[callee.String("name")] {
				shapeErr = &ErrShapeViolation{Rule: "minifyLocals: local name used as a call callee"}
			}
		}
		return true
	})
	if shapeErr != nil {
		return shapeErr
	}

	skip := func(candidate string) bool {
		return usedNames[candidate] || localNames[candidate]
	}
	mint := func(name string) string {
		if existing, ok := mapping[name]; ok {
			return existing
		}
		fresh := gen.Next(skip)
		mapping[name] = fresh
		usedNames[fresh] = true
		return fresh
	}

	// Parameters are renamed first, in declaration order, before the body
	// walk mints anything else.
	for _, param := range fn.List("params") {
		renamePatternBound(param, mint)
	}

	labelGen := NewNameGenerator()
	labelMapping := map[string]string{}
	mintLabel := func(name string) string {
		if existing, ok := labelMapping[name]; ok {
			return existing
		}
		fresh := labelGen.Next(nil)
		labelMapping[name] = fresh
		return fresh
	}

	tbl := map[string]func(*ast.Node, ast.Continue){
		"Identifier": func(n *ast.Node, cont ast.Continue) {
			name := n.String("name")
			if localNames[name] {
				n.SetString("name", mint(name))
				return
			}
			if newName, ok := mapping[name]; ok {
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
		"LabeledStatement": func(n *ast.Node, cont ast.Continue) {
			label := n.Node("label")
			label.SetString("name", mintLabel(label.String("name")))
			cont(n.Node("body"))
		},
		"BreakStatement": func(n *ast.Node, cont ast.Continue) {
			if label := n.Node("label"); label != nil {
				if newName, ok := labelMapping[label.String("name")]; ok {
					label.SetString("name", newName)
				}
			}
		},
		"ContinueStatement": func(n *ast.Node, cont ast.Continue) {
			if label := n.Node("label"); label != nil {
				if newName, ok := labelMapping[label.String("name")]; ok {
					label.SetString("name", newName)
				}
			}
		},
	}
	ast.RecursiveWalk(fn.Node("body"), tbl)

	if id := fn.Node("id"); id != nil {
		if newName, ok := globalsMapping[id.String("name")]; ok {
			id.SetString("name", newName)
		}
	}

	return nil
}

// renamePatternBound mirrors astutil.WalkPattern's bound-identifier
// traversal but mutates each bound Identifier node in place via mint,
// since WalkPattern's callback only exposes the name, not the node —
// needed here for renaming parameters before the general body walk runs.
func renamePatternBound(pattern *ast.Node, mint func(string) string) {
	if pattern == nil {
		return
	}
	switch pattern.Type {
	case "AssignmentPattern":
		renamePatternBound(pattern.Node("left"), mint)
	case "ObjectPattern":
		for _, prop := range pattern.List("properties") {
			if prop.Type == "RestElement" {
				renamePatternBound(prop.Node("argument"), mint)
				continue
			}
			renamePatternBound(prop.Node("value"), mint)
		}
	case "ArrayPattern":
		for _, el := range pattern.List("elements") {
			if el != nil {
				renamePatternBound(el, mint)
			}
		}
	case "RestElement":
		renamePatternBound(pattern.Node("argument"), mint)
	case "Identifier":
		pattern.SetString("name", mint(pattern.String("name")))
	}
}
