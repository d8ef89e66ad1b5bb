package jsdce

import (
	"github.com/wasmglue/jspostproc/internal/ast"
	"github.com/wasmglue/jspostproc/internal/astutil"
)

// cleaner runs the recursiveWalk cleanup pass for one function (or
// top-level program) scope, given the removal set computed for that scope.
// It does not descend into nested function expressions/arrows — those were
// already cleaned up when their own frame was popped — and it never
// traverses a for-in/for-of LHS.
type cleaner struct {
	removal    map[string]bool
	aggressive bool
	erasures   int
	table      map[string]func(*ast.Node, ast.Continue)
}

func newCleaner(removal map[string]bool, aggressive bool) *cleaner {
	cl := &cleaner{removal: removal, aggressive: aggressive}
	cl.table = map[string]func(*ast.Node, ast.Continue){
		"VariableDeclaration":     cl.visitVariableDeclaration,
		"FunctionDeclaration":     cl.visitFunctionDeclaration,
		"FunctionExpression":      skipNode,
		"ArrowFunctionExpression": skipNode,
		"ExpressionStatement":     cl.visitExpressionStatement,
		"ForStatement":            cl.visitForStatement,
		"ForInStatement":          cl.visitForInOf,
		"ForOfStatement":          cl.visitForInOf,
	}
	return cl
}

func skipNode(*ast.Node, ast.Continue) {}

func (cl *cleaner) visit(n *ast.Node) {
	ast.RecursiveWalk(n, cl.table)
}

func (cl *cleaner) keepDeclarator(d *ast.Node) bool {
	if astutil.HasSideEffects(d.Node("init")) {
		return true
	}
	patternEffectful := false
	var boundNames []string
	astutil.WalkPattern(d.Node("id"),
		func(e *ast.Node) {
			if astutil.HasSideEffects(e) {
				patternEffectful = true
			}
		},
		func(name string) { boundNames = append(boundNames, name) },
	)
	if patternEffectful {
		return true
	}
	for _, name := range boundNames {
		if !cl.removal[name] {
			return true
		}
	}
	return false
}

func (cl *cleaner) visitVariableDeclaration(n *ast.Node, _ ast.Continue) {
	decls := n.List("declarations")
	kept := make([]*ast.Node, 0, len(decls))
	for _, d := range decls {
		if cl.keepDeclarator(d) {
			kept = append(kept, d)
		} else {
			cl.erasures++
		}
	}
	if len(kept) == len(decls) {
		return
	}
	if len(kept) == 0 {
		astutil.EmptyOut(n)
		return
	}
	n.SetList("declarations", kept)
}

func (cl *cleaner) visitFunctionDeclaration(n *ast.Node, _ ast.Continue) {
	id := n.Node("id")
	if id != nil && cl.removal[id.String("name")] {
		astutil.EmptyOut(n)
		cl.erasures++
	}
}

func (cl *cleaner) visitExpressionStatement(n *ast.Node, _ ast.Continue) {
	if !cl.aggressive {
		return
	}
	if !astutil.HasSideEffects(n.Node("expression")) {
		astutil.EmptyOut(n)
		cl.erasures++
	}
}

func (cl *cleaner) visitForStatement(n *ast.Node, cont ast.Continue) {
	if init := n.Node("init"); init != nil {
		cont(init)
		if init.Type == "EmptyStatement" {
			n.Set("init", ast.NilValue())
		}
	}
	if test := n.Node("test"); test != nil {
		cont(test)
	}
	if update := n.Node("update"); update != nil {
		cont(update)
	}
	if body := n.Node("body"); body != nil {
		cont(body)
	}
}

// visitForInOf never recurses into "left" — the for-in/for-of LHS binding
// must never be removed regardless of use.
func (cl *cleaner) visitForInOf(n *ast.Node, cont ast.Continue) {
	if right := n.Node("right"); right != nil {
		cont(right)
	}
	if body := n.Node("body"); body != nil {
		cont(body)
	}
}
