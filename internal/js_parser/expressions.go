package js_parser

import (
	"github.com/wasmglue/jspostproc/internal/ast"
	"github.com/wasmglue/jspostproc/internal/js_lexer"
)

// parseExpression parses a full comma-separated sequence expression.
func (p *Parser) parseExpression() *ast.Node {
	first := p.parseAssign()
	if !p.lex.IsPunct(",") {
		return first
	}
	exprs := []*ast.Node{first}
	for p.lex.IsPunct(",") {
		p.lex.Next()
		exprs = append(exprs, p.parseAssign())
	}
	n := ast.New("SequenceExpression")
	n.SetList("expressions", exprs)
	return n
}

var assignOps = map[string]bool{
	"=": true, "+=": true, "-=": true, "*=": true, "/=": true, "%=": true,
	"**=": true, "<<=": true, ">>=": true, ">>>=": true,
	"&=": true, "|=": true, "^=": true, "&&=": true, "||=": true, "??=": true,
}

// parseAssign handles arrow-function detection (which needs unbounded
// lookahead past a parenthesized parameter list) before falling through to
// the conditional/binary ladder.
func (p *Parser) parseAssign() *ast.Node {
	if arrow := p.tryParseArrow(); arrow != nil {
		return arrow
	}

	left := p.parseConditional()
	if p.lex.Tok.Kind == js_lexer.TPunctuation && assignOps[p.lex.Tok.Text] {
		op := p.lex.Tok.Text
		p.lex.Next()
		right := p.parseAssign()
		n := ast.New("AssignmentExpression")
		n.SetString("operator", op)
		n.SetNode("left", left)
		n.SetNode("right", right)
		return n
	}
	return left
}

// tryParseArrow attempts to parse an arrow function starting at the current
// position, restoring the lexer and returning nil if this isn't one.
func (p *Parser) tryParseArrow() *ast.Node {
	snapshot := *p.lex

	isAsync := false
	if p.isIdent("async") {
		next := *p.lex
		p.lex.Next()
		if p.lex.Tok.HasNewlineBefor {
			*p.lex = next
		} else {
			isAsync = true
		}
	}

	var params []*ast.Node
	ok := false
	if p.lex.Tok.Kind == js_lexer.TIdentifier && !js_lexer.IsKeyword(p.lex.Tok.Text) {
		id := ast.New("Identifier")
		id.SetString("name", p.lex.Tok.Text)
		p.lex.Next()
		if p.lex.IsPunct("=>") && !p.lex.Tok.HasNewlineBefor {
			params = []*ast.Node{id}
			ok = true
		}
	} else if p.lex.IsPunct("(") {
		func() {
			defer func() {
				if recover() != nil {
					ok = false
				}
			}()
			params = p.parseParams()
			if p.lex.IsPunct("=>") && !p.lex.Tok.HasNewlineBefor {
				ok = true
			}
		}()
	}

	if !ok {
		*p.lex = snapshot
		return nil
	}

	p.expectPunct("=>")
	n := ast.New("ArrowFunctionExpression")
	n.SetBool("async", isAsync)
	n.SetList("params", params)
	if p.lex.IsPunct("{") {
		n.SetNode("body", p.parseBlock())
		n.SetBool("expression", false)
	} else {
		n.SetNode("body", p.parseAssign())
		n.SetBool("expression", true)
	}
	return n
}

func (p *Parser) parseConditional() *ast.Node {
	test := p.parseBinary(0)
	if !p.lex.IsPunct("?") {
		return test
	}
	p.lex.Next()
	cons := p.parseAssign()
	p.expectPunct(":")
	alt := p.parseAssign()
	n := ast.New("ConditionalExpression")
	n.SetNode("test", test)
	n.SetNode("consequent", cons)
	n.SetNode("alternate", alt)
	return n
}

type opInfo struct {
	prec       int
	rightAssoc bool
	logical    bool
}

var binaryOps = map[string]opInfo{
	"??": {1, false, true}, "||": {1, false, true}, "&&": {2, false, true},
	"|": {3, false, false}, "^": {4, false, false}, "&": {5, false, false},
	"==": {6, false, false}, "!=": {6, false, false}, "===": {6, false, false}, "!==": {6, false, false},
	"<": {7, false, false}, "<=": {7, false, false}, ">": {7, false, false}, ">=": {7, false, false},
	"instanceof": {7, false, false}, "in": {7, false, false},
	"<<": {8, false, false}, ">>": {8, false, false}, ">>>": {8, false, false},
	"+": {9, false, false}, "-": {9, false, false},
	"*": {10, false, false}, "/": {10, false, false}, "%": {10, false, false},
	"**": {11, true, false},
}

func (p *Parser) currentBinaryOp() (string, opInfo, bool) {
	if p.lex.Tok.Kind == js_lexer.TPunctuation {
		if info, ok := binaryOps[p.lex.Tok.Text]; ok {
			return p.lex.Tok.Text, info, true
		}
	}
	if p.lex.Tok.Kind == js_lexer.TIdentifier && (p.lex.Tok.Text == "instanceof" || p.lex.Tok.Text == "in") {
		info := binaryOps[p.lex.Tok.Text]
		return p.lex.Tok.Text, info, true
	}
	return "", opInfo{}, false
}

func (p *Parser) parseBinary(minPrec int) *ast.Node {
	left := p.parseUnary()
	for {
		op, info, ok := p.currentBinaryOp()
		if !ok || info.prec < minPrec {
			return left
		}
		p.lex.Next()
		nextMin := info.prec + 1
		if info.rightAssoc {
			nextMin = info.prec
		}
		right := p.parseBinary(nextMin)
		typ := "BinaryExpression"
		if info.logical {
			typ = "LogicalExpression"
		}
		n := ast.New(typ)
		n.SetString("operator", op)
		n.SetNode("left", left)
		n.SetNode("right", right)
		left = n
	}
}

var unaryOps = map[string]bool{
	"+": true, "-": true, "!": true, "~": true,
}

func (p *Parser) parseUnary() *ast.Node {
	if p.lex.Tok.Kind == js_lexer.TPunctuation && unaryOps[p.lex.Tok.Text] {
		op := p.lex.Tok.Text
		p.lex.Next()
		n := ast.New("UnaryExpression")
		n.SetString("operator", op)
		n.SetBool("prefix", true)
		n.SetNode("argument", p.parseUnary())
		return n
	}
	if p.isIdent("typeof") || p.isIdent("void") || p.isIdent("delete") || p.isIdent("await") {
		op := p.lex.Tok.Text
		p.lex.Next()
		n := ast.New("UnaryExpression")
		n.SetString("operator", op)
		n.SetBool("prefix", true)
		n.SetNode("argument", p.parseUnary())
		return n
	}
	if p.lex.IsPunct("++") || p.lex.IsPunct("--") {
		op := p.lex.Tok.Text
		p.lex.Next()
		n := ast.New("UpdateExpression")
		n.SetString("operator", op)
		n.SetBool("prefix", true)
		n.SetNode("argument", p.parseUnary())
		return n
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() *ast.Node {
	expr := p.parseCallMemberChain(p.parsePrimary())
	if (p.lex.IsPunct("++") || p.lex.IsPunct("--")) && !p.lex.Tok.HasNewlineBefor {
		op := p.lex.Tok.Text
		p.lex.Next()
		n := ast.New("UpdateExpression")
		n.SetString("operator", op)
		n.SetBool("prefix", false)
		n.SetNode("argument", expr)
		return n
	}
	return expr
}

// parseCallMemberChain consumes the trailing ".x", "[x]", "(args)", and
// "?." forms after a primary expression, left-associatively.
func (p *Parser) parseCallMemberChain(expr *ast.Node) *ast.Node {
	for {
		switch {
		case p.lex.IsPunct("."):
			p.lex.Next()
			prop := ast.New("Identifier")
			prop.SetString("name", p.lex.Tok.Text)
			p.lex.Next()
			m := ast.New("MemberExpression")
			m.SetNode("object", expr)
			m.SetNode("property", prop)
			m.SetBool("computed", false)
			expr = m
		case p.lex.IsPunct("?."):
			p.lex.Next()
			if p.lex.IsPunct("(") {
				m := ast.New("CallExpression")
				m.SetNode("callee", expr)
				m.SetList("arguments", p.parseArgs())
				m.SetBool("optional", true)
				expr = m
				continue
			}
			if p.lex.IsPunct("[") {
				p.lex.Next()
				key := p.parseExpression()
				p.expectPunct("]")
				m := ast.New("MemberExpression")
				m.SetNode("object", expr)
				m.SetNode("property", key)
				m.SetBool("computed", true)
				m.SetBool("optional", true)
				expr = m
				continue
			}
			prop := ast.New("Identifier")
			prop.SetString("name", p.lex.Tok.Text)
			p.lex.Next()
			m := ast.New("MemberExpression")
			m.SetNode("object", expr)
			m.SetNode("property", prop)
			m.SetBool("computed", false)
			m.SetBool("optional", true)
			expr = m
		case p.lex.IsPunct("["):
			p.lex.Next()
			key := p.parseExpression()
			p.expectPunct("]")
			m := ast.New("MemberExpression")
			m.SetNode("object", expr)
			m.SetNode("property", key)
			m.SetBool("computed", true)
			expr = m
		case p.lex.IsPunct("("):
			c := ast.New("CallExpression")
			c.SetNode("callee", expr)
			c.SetList("arguments", p.parseArgs())
			c.SetBool("optional", false)
			expr = c
		case p.lex.IsPunct("`"):
			// Tagged templates aren't part of this grammar subset.
			return expr
		default:
			return expr
		}
	}
}

func (p *Parser) parseArgs() []*ast.Node {
	p.expectPunct("(")
	var args []*ast.Node
	for !p.lex.IsPunct(")") {
		if p.lex.IsPunct("...") {
			p.lex.Next()
			s := ast.New("SpreadElement")
			s.SetNode("argument", p.parseAssign())
			args = append(args, s)
		} else {
			args = append(args, p.parseAssign())
		}
		if p.lex.IsPunct(",") {
			p.lex.Next()
			continue
		}
		break
	}
	p.expectPunct(")")
	return args
}

func (p *Parser) parsePrimary() *ast.Node {
	tok := p.lex.Tok
	switch {
	case tok.Kind == js_lexer.TNumericLiteral:
		n := ast.New("Literal")
		n.Set("value", ast.NumberValue(tok.NumericValue))
		n.SetString("raw", tok.Text)
		p.lex.Next()
		return n
	case tok.Kind == js_lexer.TStringLiteral:
		n := ast.New("Literal")
		n.Set("value", ast.StringValue(tok.StringValue))
		n.SetString("raw", tok.Text)
		p.lex.Next()
		return n
	case tok.Kind == js_lexer.TNoSubstitutionTemplateLiteral:
		n := ast.New("TemplateLiteral")
		n.SetString("raw", tok.Text)
		p.lex.Next()
		return n
	case p.isIdent("true") || p.isIdent("false"):
		n := ast.New("Literal")
		n.Set("value", ast.BoolValue(tok.Text == "true"))
		n.SetString("raw", tok.Text)
		p.lex.Next()
		return n
	case p.isIdent("null"):
		n := ast.New("Literal")
		n.Set("value", ast.NilValue())
		n.SetString("raw", "null")
		p.lex.Next()
		return n
	case p.isIdent("this"):
		p.lex.Next()
		return ast.New("ThisExpression")
	case p.isIdent("function"):
		return p.parseFunctionExpression()
	case p.isIdent("async") && p.peekIsFunctionAfterAsync():
		p.lex.Next()
		return p.parseFunctionExpression()
	case p.isIdent("new"):
		return p.parseNew()
	case tok.Kind == js_lexer.TIdentifier:
		id := ast.New("Identifier")
		id.SetString("name", tok.Text)
		p.lex.Next()
		return id
	case p.lex.IsPunct("("):
		p.lex.Next()
		expr := p.parseExpression()
		p.expectPunct(")")
		return expr
	case p.lex.IsPunct("["):
		return p.parseArrayExpression()
	case p.lex.IsPunct("{"):
		return p.parseObjectExpression()
	}
	p.fail("unexpected token %q", p.tokenText())
	return nil
}

func (p *Parser) parseFunctionExpression() *ast.Node {
	p.expectPunct("function")
	n := ast.New("FunctionExpression")
	if p.lex.Tok.Kind == js_lexer.TIdentifier {
		id := ast.New("Identifier")
		id.SetString("name", p.lex.Tok.Text)
		p.lex.Next()
		n.SetNode("id", id)
	}
	n.SetList("params", p.parseParams())
	n.SetNode("body", p.parseBlock())
	return n
}

func (p *Parser) parseNew() *ast.Node {
	p.expectPunct("new")
	callee := p.parseCallMemberChainNoCall(p.parsePrimary())
	n := ast.New("NewExpression")
	n.SetNode("callee", callee)
	if p.lex.IsPunct("(") {
		n.SetList("arguments", p.parseArgs())
	} else {
		n.SetList("arguments", nil)
	}
	return p.parseCallMemberChain(n)
}

// parseCallMemberChainNoCall parses member accesses (but not call
// parentheses, which belong to the enclosing `new`) after a `new` callee.
func (p *Parser) parseCallMemberChainNoCall(expr *ast.Node) *ast.Node {
	for {
		switch {
		case p.lex.IsPunct("."):
			p.lex.Next()
			prop := ast.New("Identifier")
			prop.SetString("name", p.lex.Tok.Text)
			p.lex.Next()
			m := ast.New("MemberExpression")
			m.SetNode("object", expr)
			m.SetNode("property", prop)
			m.SetBool("computed", false)
			expr = m
		case p.lex.IsPunct("["):
			p.lex.Next()
			key := p.parseExpression()
			p.expectPunct("]")
			m := ast.New("MemberExpression")
			m.SetNode("object", expr)
			m.SetNode("property", key)
			m.SetBool("computed", true)
			expr = m
		default:
			return expr
		}
	}
}

func (p *Parser) parseArrayExpression() *ast.Node {
	p.expectPunct("[")
	var elems []*ast.Node
	for !p.lex.IsPunct("]") {
		if p.lex.IsPunct(",") {
			elems = append(elems, nil)
			p.lex.Next()
			continue
		}
		if p.lex.IsPunct("...") {
			p.lex.Next()
			s := ast.New("SpreadElement")
			s.SetNode("argument", p.parseAssign())
			elems = append(elems, s)
		} else {
			elems = append(elems, p.parseAssign())
		}
		if p.lex.IsPunct(",") {
			p.lex.Next()
			continue
		}
		break
	}
	p.expectPunct("]")
	n := ast.New("ArrayExpression")
	n.SetList("elements", elems)
	return n
}

func (p *Parser) parseObjectExpression() *ast.Node {
	p.expectPunct("{")
	var props []*ast.Node
	for !p.lex.IsPunct("}") {
		if p.lex.IsPunct("...") {
			p.lex.Next()
			s := ast.New("SpreadElement")
			s.SetNode("argument", p.parseAssign())
			props = append(props, s)
		} else {
			props = append(props, p.parseObjectProperty())
		}
		if p.lex.IsPunct(",") {
			p.lex.Next()
			continue
		}
		break
	}
	p.expectPunct("}")
	n := ast.New("ObjectExpression")
	n.SetList("properties", props)
	return n
}

func (p *Parser) parseObjectProperty() *ast.Node {
	prop := ast.New("Property")
	computed := false
	var key *ast.Node
	if p.lex.IsPunct("[") {
		p.lex.Next()
		computed = true
		key = p.parseAssign()
		p.expectPunct("]")
	} else if p.lex.Tok.Kind == js_lexer.TStringLiteral {
		key = ast.New("Literal")
		key.Set("value", ast.StringValue(p.lex.Tok.StringValue))
		key.SetString("raw", p.lex.Tok.Text)
		p.lex.Next()
	} else if p.lex.Tok.Kind == js_lexer.TNumericLiteral {
		key = ast.New("Literal")
		key.Set("value", ast.NumberValue(p.lex.Tok.NumericValue))
		key.SetString("raw", p.lex.Tok.Text)
		p.lex.Next()
	} else {
		key = ast.New("Identifier")
		key.SetString("name", p.lex.Tok.Text)
		p.lex.Next()
	}
	prop.SetBool("computed", computed)
	prop.SetNode("key", key)

	if p.lex.IsPunct("(") {
		// Method shorthand: `foo(args) { ... }`.
		fn := ast.New("FunctionExpression")
		fn.SetList("params", p.parseParams())
		fn.SetNode("body", p.parseBlock())
		prop.SetNode("value", fn)
		prop.SetBool("method", true)
		return prop
	}
	if p.lex.IsPunct(":") {
		p.lex.Next()
		prop.SetNode("value", p.parseAssign())
		return prop
	}
	// Shorthand `{ x }`.
	prop.SetNode("value", key.Clone())
	prop.SetBool("shorthand", true)
	return prop
}
