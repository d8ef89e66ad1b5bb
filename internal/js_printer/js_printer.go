// Package js_printer turns the mutated internal/ast.Node tree back into
// JavaScript source text. Same overall shape as esbuild's internal/js_printer
// (2-space indentation, statement-by-statement emission, a MinifyWhitespace
// option that collapses separators) but walking the generic node shape
// instead of a typed AST.
package js_printer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/wasmglue/jspostproc/internal/ast"
)

type Options struct {
	MinifyWhitespace bool
	// ClosureFriendly preserves statement-level parenthesization that would
	// otherwise be dropped, so Closure Compiler's own later pass sees the
	// same grouping. This printer already never removes parens it didn't
	// itself add, so the flag is accepted for interface parity with the
	// spec's CLI surface but changes nothing here.
	ClosureFriendly bool
}

type printer struct {
	opts   Options
	sb     strings.Builder
	indent int
}

// Print renders program as source text, always followed by a single
// trailing newline.
func Print(program *ast.Node, opts Options) string {
	p := &printer{opts: opts}
	for _, stmt := range program.List("body") {
		p.printStmt(stmt)
	}
	out := p.sb.String()
	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	return out
}

func (p *printer) nl() {
	if !p.opts.MinifyWhitespace {
		p.sb.WriteByte('\n')
	}
}

func (p *printer) writeIndent() {
	if p.opts.MinifyWhitespace {
		return
	}
	for i := 0; i < p.indent; i++ {
		p.sb.WriteString("  ")
	}
}

func (p *printer) semi() {
	p.sb.WriteByte(';')
}

func (p *printer) printStmt(n *ast.Node) {
	if n == nil || n.IsEmpty() {
		return
	}
	p.writeIndent()
	switch n.Type {
	case "BlockStatement":
		p.sb.WriteByte('{')
		p.nl()
		p.indent++
		for _, s := range n.List("body") {
			p.printStmt(s)
		}
		p.indent--
		p.writeIndent()
		p.sb.WriteByte('}')
		p.nl()
	case "VariableDeclaration":
		p.printVariableDeclaration(n)
		p.semi()
		p.nl()
	case "ExpressionStatement":
		p.printExprPrec(n.Node("expression"), 0)
		p.semi()
		p.nl()
	case "FunctionDeclaration":
		p.printFunction("function", n)
		p.nl()
	case "ReturnStatement":
		p.sb.WriteString("return")
		if arg := n.Node("argument"); arg != nil {
			p.sb.WriteByte(' ')
			p.printExprPrec(arg, 0)
		}
		p.semi()
		p.nl()
	case "IfStatement":
		p.sb.WriteString("if (")
		p.printExprPrec(n.Node("test"), 0)
		p.sb.WriteString(") ")
		p.printInlineOrBlock(n.Node("consequent"))
		if alt := n.Node("alternate"); alt != nil {
			p.writeIndent()
			p.sb.WriteString("else ")
			p.printInlineOrBlock(alt)
		}
	case "WhileStatement":
		p.sb.WriteString("while (")
		p.printExprPrec(n.Node("test"), 0)
		p.sb.WriteString(") ")
		p.printInlineOrBlock(n.Node("body"))
	case "DoWhileStatement":
		p.sb.WriteString("do ")
		p.printInlineOrBlock(n.Node("body"))
		p.writeIndent()
		p.sb.WriteString("while (")
		p.printExprPrec(n.Node("test"), 0)
		p.sb.WriteString(")")
		p.semi()
		p.nl()
	case "ForStatement":
		p.sb.WriteString("for (")
		if init := n.Node("init"); init != nil {
			if init.Type == "VariableDeclaration" {
				p.printVariableDeclaration(init)
			} else {
				p.printExprPrec(init, 0)
			}
		}
		p.sb.WriteString("; ")
		if test := n.Node("test"); test != nil {
			p.printExprPrec(test, 0)
		}
		p.sb.WriteString("; ")
		if upd := n.Node("update"); upd != nil {
			p.printExprPrec(upd, 0)
		}
		p.sb.WriteString(") ")
		p.printInlineOrBlock(n.Node("body"))
	case "ForInStatement", "ForOfStatement":
		kw := "in"
		if n.Type == "ForOfStatement" {
			kw = "of"
		}
		p.sb.WriteString("for (")
		left := n.Node("left")
		if left.Type == "VariableDeclaration" {
			p.printVariableDeclaration(left)
		} else {
			p.printExprPrec(left, 0)
		}
		p.sb.WriteString(" " + kw + " ")
		p.printExprPrec(n.Node("right"), 0)
		p.sb.WriteString(") ")
		p.printInlineOrBlock(n.Node("body"))
	case "BreakStatement":
		p.sb.WriteString("break")
		if l := n.Node("label"); l != nil {
			p.sb.WriteByte(' ')
			p.sb.WriteString(l.String("name"))
		}
		p.semi()
		p.nl()
	case "ContinueStatement":
		p.sb.WriteString("continue")
		if l := n.Node("label"); l != nil {
			p.sb.WriteByte(' ')
			p.sb.WriteString(l.String("name"))
		}
		p.semi()
		p.nl()
	case "ThrowStatement":
		p.sb.WriteString("throw ")
		p.printExprPrec(n.Node("argument"), 0)
		p.semi()
		p.nl()
	case "TryStatement":
		p.sb.WriteString("try ")
		p.printInlineOrBlock(n.Node("block"))
		if h := n.Node("handler"); h != nil {
			p.writeIndent()
			p.sb.WriteString("catch ")
			if param := h.Node("param"); param != nil {
				p.sb.WriteByte('(')
				p.printExprPrec(param, 0)
				p.sb.WriteString(") ")
			}
			p.printInlineOrBlock(h.Node("body"))
		}
		if f := n.Node("finalizer"); f != nil {
			p.writeIndent()
			p.sb.WriteString("finally ")
			p.printInlineOrBlock(f)
		}
	case "SwitchStatement":
		p.sb.WriteString("switch (")
		p.printExprPrec(n.Node("discriminant"), 0)
		p.sb.WriteString(") {")
		p.nl()
		p.indent++
		for _, c := range n.List("cases") {
			p.writeIndent()
			if t := c.Node("test"); t != nil {
				p.sb.WriteString("case ")
				p.printExprPrec(t, 0)
				p.sb.WriteString(":")
			} else {
				p.sb.WriteString("default:")
			}
			p.nl()
			p.indent++
			for _, s := range c.List("consequent") {
				p.printStmt(s)
			}
			p.indent--
		}
		p.indent--
		p.writeIndent()
		p.sb.WriteString("}")
		p.nl()
	case "LabeledStatement":
		p.sb.WriteString(n.Node("label").String("name"))
		p.sb.WriteString(": ")
		p.printInlineOrBlock(n.Node("body"))
	case "ExportNamedDeclaration":
		p.sb.WriteString("export ")
		if decl := n.Node("declaration"); decl != nil {
			p.printStmt(decl)
			return
		}
		p.sb.WriteString("{ ")
		specs := n.List("specifiers")
		for i, s := range specs {
			if i > 0 {
				p.sb.WriteString(", ")
			}
			local := s.Node("local").String("name")
			exported := s.Node("exported").String("name")
			p.sb.WriteString(local)
			if exported != local {
				p.sb.WriteString(" as " + exported)
			}
		}
		p.sb.WriteString(" }")
		p.semi()
		p.nl()
	case "ExportDefaultDeclaration":
		p.sb.WriteString("export default ")
		decl := n.Node("declaration")
		if decl.Type == "FunctionDeclaration" {
			p.printFunction("function", decl)
			p.nl()
		} else {
			p.printExprPrec(decl, 0)
			p.semi()
			p.nl()
		}
	case "ImportDeclaration":
		p.sb.WriteString("import ")
		specs := n.List("specifiers")
		for i, s := range specs {
			if i > 0 {
				p.sb.WriteString(", ")
			}
			if s.Type == "ImportDefaultSpecifier" {
				p.sb.WriteString(s.Node("local").String("name"))
			} else {
				p.sb.WriteString("{ " + s.Node("local").String("name") + " }")
			}
		}
		if src := n.String("source"); src != "" {
			p.sb.WriteString(fmt.Sprintf(" from %q", src))
		}
		p.semi()
		p.nl()
	default:
		p.sb.WriteString("/* unsupported statement: " + n.Type + " */")
		p.nl()
	}
}

func (p *printer) printInlineOrBlock(n *ast.Node) {
	if n == nil {
		p.sb.WriteByte('{')
		p.sb.WriteByte('}')
		p.nl()
		return
	}
	if n.Type == "BlockStatement" {
		p.printStmt(n)
		return
	}
	// A single inline statement: already preceded by the caller's "...) ",
	// so print without the usual leading indent.
	save := p.indent
	p.indent = 0
	p.printStmt(n)
	p.indent = save
}

func (p *printer) printVariableDeclaration(n *ast.Node) {
	p.sb.WriteString(n.String("kind"))
	p.sb.WriteByte(' ')
	decls := n.List("declarations")
	for i, d := range decls {
		if i > 0 {
			p.sb.WriteString(", ")
		}
		p.printExprPrec(d.Node("id"), 0)
		if init := d.Node("init"); init != nil {
			p.sb.WriteString(" = ")
			p.printExprPrec(init, 2)
		}
	}
}

func (p *printer) printFunction(keyword string, n *ast.Node) {
	p.sb.WriteString(keyword)
	if id := n.Node("id"); id != nil {
		p.sb.WriteByte(' ')
		p.sb.WriteString(id.String("name"))
	}
	p.sb.WriteByte('(')
	for i, param := range n.List("params") {
		if i > 0 {
			p.sb.WriteString(", ")
		}
		p.printExprPrec(param, 0)
	}
	p.sb.WriteString(") ")
	p.printInlineOrBlock(n.Node("body"))
}

func quoteString(s string) string {
	return strconv.Quote(s)
}
