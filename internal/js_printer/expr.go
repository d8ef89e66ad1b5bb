package js_printer

import (
	"fmt"
	"strconv"

	"github.com/wasmglue/jspostproc/internal/ast"
)

// printExprPrec prints an expression, parenthesizing it if its own
// precedence is lower than minPrec. The table here is intentionally coarse
// rather than a full operator-precedence table — correctness for the
// shapes the passes emit matters more than minimal parens everywhere.
func (p *printer) printExprPrec(n *ast.Node, minPrec int) {
	if n == nil {
		return
	}
	prec := exprPrecedence(n)
	needParens := prec < minPrec
	if needParens {
		p.sb.WriteByte('(')
	}
	p.printExpr(n)
	if needParens {
		p.sb.WriteByte(')')
	}
}

func exprPrecedence(n *ast.Node) int {
	switch n.Type {
	case "SequenceExpression":
		return 0
	case "AssignmentExpression", "ArrowFunctionExpression", "YieldExpression":
		return 1
	case "ConditionalExpression":
		return 2
	case "LogicalExpression", "BinaryExpression":
		return 3
	case "UnaryExpression", "UpdateExpression", "AwaitExpression":
		return 4
	case "NewExpression", "CallExpression", "MemberExpression":
		return 5
	default:
		return 6
	}
}

func (p *printer) printExpr(n *ast.Node) {
	switch n.Type {
	case "Identifier":
		p.sb.WriteString(n.String("name"))
	case "ThisExpression":
		p.sb.WriteString("this")
	case "Literal":
		p.printLiteral(n)
	case "TemplateLiteral":
		p.sb.WriteString(n.String("raw"))
	case "SequenceExpression":
		for i, e := range n.List("expressions") {
			if i > 0 {
				p.sb.WriteString(", ")
			}
			p.printExprPrec(e, 1)
		}
	case "AssignmentExpression":
		p.printExprPrec(n.Node("left"), 2)
		p.sb.WriteString(" " + n.String("operator") + " ")
		p.printExprPrec(n.Node("right"), 1)
	case "ConditionalExpression":
		p.printExprPrec(n.Node("test"), 3)
		p.sb.WriteString(" ? ")
		p.printExprPrec(n.Node("consequent"), 1)
		p.sb.WriteString(" : ")
		p.printExprPrec(n.Node("alternate"), 1)
	case "LogicalExpression", "BinaryExpression":
		p.printExprPrec(n.Node("left"), 3)
		p.sb.WriteString(" " + n.String("operator") + " ")
		p.printExprPrec(n.Node("right"), 4)
	case "UnaryExpression":
		op := n.String("operator")
		p.sb.WriteString(op)
		if len(op) > 1 || op == "+" || op == "-" {
			p.sb.WriteByte(' ')
		}
		p.printExprPrec(n.Node("argument"), 5)
	case "UpdateExpression":
		if n.Bool("prefix") {
			p.sb.WriteString(n.String("operator"))
			p.printExprPrec(n.Node("argument"), 5)
		} else {
			p.printExprPrec(n.Node("argument"), 5)
			p.sb.WriteString(n.String("operator"))
		}
	case "MemberExpression":
		p.printExprPrec(n.Node("object"), 5)
		if n.Bool("optional") {
			p.sb.WriteString("?.")
		}
		if n.Bool("computed") {
			p.sb.WriteByte('[')
			p.printExprPrec(n.Node("property"), 0)
			p.sb.WriteByte(']')
		} else {
			if !n.Bool("optional") {
				p.sb.WriteByte('.')
			}
			p.sb.WriteString(n.Node("property").String("name"))
		}
	case "CallExpression":
		p.printExprPrec(n.Node("callee"), 5)
		if n.Bool("optional") {
			p.sb.WriteString("?.")
		}
		p.sb.WriteByte('(')
		for i, a := range n.List("arguments") {
			if i > 0 {
				p.sb.WriteString(", ")
			}
			p.printExprPrec(a, 1)
		}
		p.sb.WriteByte(')')
	case "NewExpression":
		p.sb.WriteString("new ")
		p.printExprPrec(n.Node("callee"), 5)
		p.sb.WriteByte('(')
		for i, a := range n.List("arguments") {
			if i > 0 {
				p.sb.WriteString(", ")
			}
			p.printExprPrec(a, 1)
		}
		p.sb.WriteByte(')')
	case "ArrayExpression":
		p.sb.WriteByte('[')
		for i, el := range n.List("elements") {
			if i > 0 {
				p.sb.WriteString(", ")
			}
			if el != nil {
				p.printExprPrec(el, 1)
			}
		}
		p.sb.WriteByte(']')
	case "ObjectExpression":
		p.printObjectExpression(n)
	case "SpreadElement":
		p.sb.WriteString("...")
		p.printExprPrec(n.Node("argument"), 1)
	case "FunctionExpression":
		p.printFunction("function", n)
	case "ArrowFunctionExpression":
		p.printArrow(n)
	case "AssignmentPattern":
		p.printExprPrec(n.Node("left"), 0)
		p.sb.WriteString(" = ")
		p.printExprPrec(n.Node("right"), 1)
	case "ObjectPattern":
		p.printObjectPattern(n)
	case "ArrayPattern":
		p.sb.WriteByte('[')
		for i, el := range n.List("elements") {
			if i > 0 {
				p.sb.WriteString(", ")
			}
			if el != nil {
				p.printExprPrec(el, 0)
			}
		}
		p.sb.WriteByte(']')
	case "RestElement":
		p.sb.WriteString("...")
		p.printExprPrec(n.Node("argument"), 0)
	case "EmptyStatement":
		// Can appear where an expression slot was erased by a pass that
		// should have cleared the field to nil instead; render nothing.
	default:
		p.sb.WriteString(fmt.Sprintf("/* unsupported expr: %s */", n.Type))
	}
}

func (p *printer) printLiteral(n *ast.Node) {
	v, ok := n.Get("value")
	if !ok || v.Kind == ast.KindNil {
		p.sb.WriteString("null")
		return
	}
	switch v.Kind {
	case ast.KindString:
		p.sb.WriteString(strconv.Quote(v.Str))
	case ast.KindNumber:
		if raw := n.String("raw"); raw != "" {
			p.sb.WriteString(raw)
			return
		}
		p.sb.WriteString(formatNumber(v.Num))
	case ast.KindBool:
		if v.Bool {
			p.sb.WriteString("true")
		} else {
			p.sb.WriteString("false")
		}
	default:
		p.sb.WriteString("null")
	}
}

func formatNumber(f float64) string {
	if f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func (p *printer) printArrow(n *ast.Node) {
	params := n.List("params")
	if len(params) == 1 && params[0].Type == "Identifier" {
		p.sb.WriteString(params[0].String("name"))
	} else {
		p.sb.WriteByte('(')
		for i, param := range params {
			if i > 0 {
				p.sb.WriteString(", ")
			}
			p.printExprPrec(param, 0)
		}
		p.sb.WriteByte(')')
	}
	p.sb.WriteString(" => ")
	body := n.Node("body")
	if n.Bool("expression") {
		p.printExprPrec(body, 1)
	} else {
		p.printInlineOrBlock(body)
	}
}

func (p *printer) printObjectExpression(n *ast.Node) {
	props := n.List("properties")
	if len(props) == 0 {
		p.sb.WriteString("{}")
		return
	}
	p.sb.WriteString("{ ")
	for i, prop := range props {
		if i > 0 {
			p.sb.WriteString(", ")
		}
		if prop.Type == "SpreadElement" {
			p.sb.WriteString("...")
			p.printExprPrec(prop.Node("argument"), 1)
			continue
		}
		p.printPropertyKey(prop)
		if prop.Bool("shorthand") {
			continue
		}
		p.sb.WriteString(": ")
		p.printExprPrec(prop.Node("value"), 1)
	}
	p.sb.WriteString(" }")
}

func (p *printer) printPropertyKey(prop *ast.Node) {
	key := prop.Node("key")
	if prop.Bool("computed") {
		p.sb.WriteByte('[')
		p.printExprPrec(key, 0)
		p.sb.WriteByte(']')
		return
	}
	if key.Type == "Literal" {
		p.printLiteral(key)
		return
	}
	p.sb.WriteString(key.String("name"))
}

func (p *printer) printObjectPattern(n *ast.Node) {
	p.sb.WriteString("{ ")
	for i, prop := range n.List("properties") {
		if i > 0 {
			p.sb.WriteString(", ")
		}
		if prop.Type == "RestElement" {
			p.sb.WriteString("...")
			p.printExprPrec(prop.Node("argument"), 0)
			continue
		}
		p.printPropertyKey(prop)
		p.sb.WriteString(": ")
		p.printExprPrec(prop.Node("value"), 0)
	}
	p.sb.WriteString(" }")
}
