// Package jsdce implements the scope-tracked unused-binding elimination
// pass (JSDCE) and its aggressive, fixed-point sibling (AJSDCE).
//
// esbuild's linker decides liveness from a whole-program symbol graph built
// during parsing (internal/js_parser's symbol-use counting feeds
// internal/linker's tree shaking); this pass instead does a single forward
// sweep per function scope with no global symbol table, closer to a
// per-declaration dependency-set walk than to a resolver-driven one.
package jsdce

import (
	"github.com/wasmglue/jspostproc/internal/ast"
	"github.com/wasmglue/jspostproc/internal/astutil"
)

type binding struct {
	def, use, param bool
}

type frame struct {
	names map[string]*binding
}

func newFrame() *frame {
	return &frame{names: make(map[string]*binding)}
}

func (f *frame) get(name string) *binding {
	b, ok := f.names[name]
	if !ok {
		b = &binding{}
		f.names[name] = b
	}
	return b
}

type collector struct {
	stack    []*frame
	erasures int
}

func (c *collector) top() *frame { return c.stack[len(c.stack)-1] }

func (c *collector) markUse(name string) {
	c.top().get(name).use = true
}

func (c *collector) markDef(name string) {
	c.top().get(name).def = true
}

// popAndCleanup pops the current frame, propagates free-variable uses into
// the new top frame (if any remain), computes the removal set for the
// popped frame, and runs the cleanup walk over body using that removal set.
// The erasure count is added to c.erasures rather than just returned, so a
// nested function scope's removals are not lost when enterFunction calls
// this for a scope other than the program's top-level one: Run's caller
// needs the total across every scope popped during the walk, not just the
// outermost pop, or AJSDCE's fixed-point loop stops one iteration early.
func (c *collector) popAndCleanup(body []*ast.Node, aggressive bool) {
	popped := c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]

	removal := make(map[string]bool)
	for name, b := range popped.names {
		switch {
		case b.use && !b.def:
			if len(c.stack) > 0 {
				c.markUse(name)
			}
		case b.def && !b.use && !b.param:
			removal[name] = true
		}
	}

	cl := newCleaner(removal, aggressive)
	for _, stmt := range body {
		cl.visit(stmt)
	}
	c.erasures += cl.erasures
}

// collectionTable builds the recursiveWalk table for the collection pass.
// Every entry receives the collector by closure.
func (c *collector) table(aggressive bool) map[string]func(*ast.Node, ast.Continue) {
	var tbl map[string]func(*ast.Node, ast.Continue)

	exprVisit := func(n *ast.Node) { ast.RecursiveWalk(n, tbl) }

	enterFunction := func(n *ast.Node, namedExprID bool) {
		if !namedExprID {
			if id := n.Node("id"); id != nil {
				c.markDef(id.String("name"))
			}
		}
		c.stack = append(c.stack, newFrame())
		for _, p := range n.List("params") {
			astutil.WalkPattern(p, exprVisit, func(name string) {
				b := c.top().get(name)
				b.def = true
				b.param = true
			})
		}
		body := n.Node("body")
		if body != nil {
			if body.Type == "BlockStatement" {
				for _, stmt := range body.List("body") {
					ast.RecursiveWalk(stmt, tbl)
				}
			} else {
				// Arrow with an expression body.
				exprVisit(body)
			}
		}
		var bodyList []*ast.Node
		if body != nil && body.Type == "BlockStatement" {
			bodyList = body.List("body")
		} else if body != nil {
			bodyList = nil // expression body has nothing to clean up structurally
		}
		c.popAndCleanup(bodyList, aggressive)
	}

	tbl = map[string]func(*ast.Node, ast.Continue){
		"FunctionDeclaration": func(n *ast.Node, _ ast.Continue) {
			if id := n.Node("id"); id != nil {
				c.markDef(id.String("name"))
			}
			enterFunction(n, true)
		},
		"FunctionExpression": func(n *ast.Node, _ ast.Continue) {
			// Named function expressions exist only for stack traces: the id
			// is neither bound in the outer scope nor an ownName inside.
			enterFunction(n, true)
		},
		"ArrowFunctionExpression": func(n *ast.Node, _ ast.Continue) {
			enterFunction(n, true)
		},
		"VariableDeclarator": func(n *ast.Node, _ ast.Continue) {
			astutil.WalkPattern(n.Node("id"), exprVisit, c.markDef)
			if init := n.Node("init"); init != nil {
				exprVisit(init)
			}
		},
		"Identifier": func(n *ast.Node, _ ast.Continue) {
			c.markUse(n.String("name"))
		},
		"ExpressionStatement": func(n *ast.Node, _ ast.Continue) {
			if aggressive && !astutil.HasSideEffects(n.Node("expression")) {
				return
			}
			exprVisit(n.Node("expression"))
		},
		"MemberExpression": func(n *ast.Node, _ ast.Continue) {
			exprVisit(n.Node("object"))
			if n.Bool("computed") {
				exprVisit(n.Node("property"))
			}
		},
		"Property": func(n *ast.Node, _ ast.Continue) {
			if n.Bool("computed") {
				exprVisit(n.Node("key"))
			}
			exprVisit(n.Node("value"))
		},
		"SpreadElement": func(n *ast.Node, _ ast.Continue) {
			exprVisit(n.Node("argument"))
		},
		"ExportNamedDeclaration": func(n *ast.Node, _ ast.Continue) {
			for _, spec := range n.List("specifiers") {
				if local := spec.Node("local"); local != nil {
					c.markUse(local.String("name"))
				}
			}
			if decl := n.Node("declaration"); decl != nil {
				ast.RecursiveWalk(decl, tbl)
			}
		},
		"ExportDefaultDeclaration": func(n *ast.Node, _ ast.Continue) {
			decl := n.Node("declaration")
			if decl != nil {
				if id := decl.Node("id"); id != nil {
					c.markUse(id.String("name"))
				}
				ast.RecursiveWalk(decl, tbl)
			}
		},
	}
	return tbl
}

// Run performs one JSDCE iteration over program's top-level body in place
// and returns the number of erasures it performed across every scope the
// walk visited, not just the top-level one. aggressive enables the
// additional no-effect ExpressionStatement removal used by AJSDCE.
func Run(program *ast.Node, aggressive bool) int {
	c := &collector{stack: []*frame{newFrame()}}
	tbl := c.table(aggressive)

	body := program.List("body")
	for _, stmt := range body {
		ast.RecursiveWalk(stmt, tbl)
	}

	c.popAndCleanup(body, aggressive)
	return c.erasures
}

// JSDCE runs a single non-aggressive iteration.
func JSDCE(program *ast.Node) int {
	return Run(program, false)
}

// AJSDCE runs JSDCE in aggressive mode repeatedly until a pass removes
// nothing, guaranteeing the documented fixed point.
func AJSDCE(program *ast.Node) int {
	total := 0
	for {
		removed := Run(program, true)
		total += removed
		if removed == 0 {
			break
		}
	}
	return total
}
