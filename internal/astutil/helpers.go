// Package astutil holds the small node-construction and node-inspection
// primitives every pass builds on: erasure, literal rewriting, the
// destructuring-pattern walk, and the conservative side-effect oracle.
// Grounded on esbuild's internal/js_ast_helpers.go, which plays the same
// role for esbuild's typed AST (SimplifyUnusedExpr there is the direct
// ancestor of HasSideEffects here).
package astutil

import "github.com/wasmglue/jspostproc/internal/ast"

// EmptyOut replaces node's discriminator with the EmptyStatement tombstone
// in place, so existing pointers to node still resolve to "nothing" for
// every later pass. Idempotent: emptying an already-empty node is a no-op.
func EmptyOut(node *ast.Node) {
	if node == nil {
		return
	}
	node.Type = "EmptyStatement"
}

// SetLiteralValue overwrites a Literal node's value, clearing raw so the
// printer regenerates source text instead of reusing stale text.
func SetLiteralValue(item *ast.Node, v ast.Value) {
	item.Set("value", v)
	item.Set("raw", ast.NilValue())
}

// IsLiteralString reports whether n is a string Literal.
func IsLiteralString(n *ast.Node) bool {
	if n == nil || n.Type != "Literal" {
		return false
	}
	v, ok := n.Get("value")
	return ok && v.Kind == ast.KindString
}

// LiteralStringValue returns the string value of a Literal known to satisfy
// IsLiteralString.
func LiteralStringValue(n *ast.Node) string {
	v, _ := n.Get("value")
	return v.Str
}

// MakeCallExpression overwrites node in place to become
// `name(args...)`, preserving whatever parent link pointed at node — the
// node's storage slot is reused rather than replaced.
func MakeCallExpression(node *ast.Node, name string, args []*ast.Node) {
	callee := ast.New("Identifier")
	callee.SetString("name", name)

	node.Type = "CallExpression"
	node.Fields = nil
	node.SetNode("callee", callee)
	node.SetList("arguments", args)
	node.SetBool("optional", false)
}

// WalkPattern descends a destructuring pattern (the LHS of a
// VariableDeclarator, a function parameter, or an assignment target).
// onExpr receives every nested expression that is evaluated rather than
// bound (default values, computed keys, rest/spread targets that are
// themselves further patterns still get recursed); onBoundIdent receives
// the name of every identifier that is actually bound.
func WalkPattern(node *ast.Node, onExpr func(*ast.Node), onBoundIdent func(string)) {
	if node == nil {
		return
	}
	switch node.Type {
	case "AssignmentPattern":
		WalkPattern(node.Node("left"), onExpr, onBoundIdent)
		if right := node.Node("right"); right != nil {
			onExpr(right)
		}
	case "ObjectPattern":
		for _, prop := range node.List("properties") {
			if prop.Type == "RestElement" {
				WalkPattern(prop.Node("argument"), onExpr, onBoundIdent)
				continue
			}
			if prop.Bool("computed") {
				if key := prop.Node("key"); key != nil {
					onExpr(key)
				}
			}
			WalkPattern(prop.Node("value"), onExpr, onBoundIdent)
		}
	case "ArrayPattern":
		for _, el := range node.List("elements") {
			if el == nil {
				continue
			}
			WalkPattern(el, onExpr, onBoundIdent)
		}
	case "RestElement":
		WalkPattern(node.Node("argument"), onExpr, onBoundIdent)
	case "Identifier":
		onBoundIdent(node.String("name"))
	default:
		// Not a pattern shape (e.g. a member expression target in a loose
		// assignment) — treat the whole thing as an evaluated expression.
		onExpr(node)
	}
}

// builtinConstructors is the whitelist of `new X(...)` targets HasSideEffects
// treats as safe. Narrow and hand-picked rather than derived, because the
// point is conservatism.
var builtinConstructors = map[string]bool{
	"TextDecoder": true,
	"ArrayBuffer": true,

	"Int8Array": true, "Uint8Array": true, "Uint8ClampedArray": true,
	"Int16Array": true, "Uint16Array": true,
	"Int32Array": true, "Uint32Array": true,
	"Float32Array": true, "Float64Array": true,
	"BigInt64Array": true, "BigUint64Array": true,
}

// HasSideEffects is a conservative oracle: it returns true the moment it
// finds any construct not on the short safelist below. It does not recurse
// into nested function bodies at all; a function's own effects are judged
// only when and if it's called. Expanding the safelist is a semantic
// change, not a bug fix.
func HasSideEffects(node *ast.Node) bool {
	if node == nil {
		return false
	}
	effectful := false
	var visit func(n *ast.Node)
	visit = func(n *ast.Node) {
		if effectful || n == nil {
			return
		}
		switch n.Type {
		case "Literal", "Identifier", "ThisExpression", "EmptyStatement":
			return
		case "UnaryExpression", "UpdateExpression":
			visit(n.Node("argument"))
		case "BinaryExpression", "LogicalExpression":
			visit(n.Node("left"))
			visit(n.Node("right"))
		case "ConditionalExpression":
			visit(n.Node("test"))
			visit(n.Node("consequent"))
			visit(n.Node("alternate"))
		case "SpreadElement":
			visit(n.Node("argument"))
		case "VariableDeclaration":
			for _, d := range n.List("declarations") {
				visit(d)
			}
		case "VariableDeclarator":
			visit(n.Node("init"))
		case "ObjectExpression":
			for _, p := range n.List("properties") {
				visit(p)
			}
		case "Property":
			if n.Bool("computed") {
				visit(n.Node("key"))
			}
			visit(n.Node("value"))
		case "ArrayExpression":
			for _, el := range n.List("elements") {
				visit(el)
			}
		case "BlockStatement":
			for _, s := range n.List("body") {
				visit(s)
			}
		case "MemberExpression":
			obj := n.Node("object")
			if obj != nil && obj.Type == "Identifier" && obj.String("name") == "Math" {
				return
			}
			effectful = true
		case "NewExpression":
			callee := n.Node("callee")
			if callee != nil && callee.Type == "Identifier" && builtinConstructors[callee.String("name")] {
				for _, a := range n.List("arguments") {
					visit(a)
				}
				return
			}
			effectful = true
		case "ExpressionStatement":
			expr := n.Node("expression")
			if expr != nil && expr.Type == "Literal" {
				if v, ok := expr.Get("value"); ok && v.Kind == ast.KindString {
					// A directive like "use strict" counts as having effects.
					effectful = true
					return
				}
			}
			visit(expr)
		default:
			effectful = true
		}
	}
	visit(node)
	return effectful
}
