package js_parser

import (
	"github.com/wasmglue/jspostproc/internal/ast"
	"github.com/wasmglue/jspostproc/internal/js_lexer"
)

func (p *Parser) parseStatement() *ast.Node {
	if p.lex.IsPunct("{") {
		return p.parseBlock()
	}
	if p.lex.IsPunct(";") {
		p.lex.Next()
		return ast.New("EmptyStatement")
	}

	switch {
	case p.isIdent("var"), p.isIdent("let"), p.isIdent("const"):
		decl := p.parseVariableDeclaration()
		p.consumeSemicolon()
		return decl
	case p.isIdent("function"):
		return p.parseFunctionDeclaration()
	case p.isIdent("async") && p.peekIsFunctionAfterAsync():
		p.lex.Next()
		return p.parseFunctionDeclaration()
	case p.isIdent("if"):
		return p.parseIf()
	case p.isIdent("for"):
		return p.parseFor()
	case p.isIdent("while"):
		return p.parseWhile()
	case p.isIdent("do"):
		return p.parseDoWhile()
	case p.isIdent("return"):
		return p.parseReturn()
	case p.isIdent("break"):
		return p.parseBreakContinue("BreakStatement")
	case p.isIdent("continue"):
		return p.parseBreakContinue("ContinueStatement")
	case p.isIdent("throw"):
		return p.parseThrow()
	case p.isIdent("try"):
		return p.parseTry()
	case p.isIdent("switch"):
		return p.parseSwitch()
	case p.isIdent("export"):
		return p.parseExport()
	case p.isIdent("import"):
		return p.parseImport()
	}

	// Labeled statement: Identifier ":" Statement. Needs one token of
	// lookahead past the identifier, so snapshot the lexer state.
	if p.lex.Tok.Kind == js_lexer.TIdentifier && !js_lexer.IsKeyword(p.lex.Tok.Text) {
		name := p.lex.Tok.Text
		snapshot := *p.lex
		p.lex.Next()
		if p.lex.IsPunct(":") {
			p.lex.Next()
			body := p.parseStatement()
			label := ast.New("LabeledStatement")
			id := ast.New("Identifier")
			id.SetString("name", name)
			label.SetNode("label", id)
			label.SetNode("body", body)
			return label
		}
		*p.lex = snapshot
	}

	return p.parseExpressionStatement()
}

func (p *Parser) peekIsFunctionAfterAsync() bool {
	snapshot := *p.lex
	p.lex.Next()
	isFn := p.isIdent("function")
	*p.lex = snapshot
	return isFn
}

func (p *Parser) parseBlock() *ast.Node {
	p.expectPunct("{")
	var body []*ast.Node
	for !p.lex.IsPunct("}") {
		body = append(body, p.parseStatement())
	}
	p.expectPunct("}")
	n := ast.New("BlockStatement")
	n.SetList("body", body)
	return n
}

func (p *Parser) parseExpressionStatement() *ast.Node {
	expr := p.parseExpression()
	p.consumeSemicolon()
	n := ast.New("ExpressionStatement")
	n.SetNode("expression", expr)
	return n
}

func (p *Parser) parseVariableDeclaration() *ast.Node {
	kind := p.lex.Tok.Text // var | let | const
	p.lex.Next()

	n := ast.New("VariableDeclaration")
	n.SetString("kind", kind)

	var decls []*ast.Node
	for {
		id := p.parseBindingPattern()
		d := ast.New("VariableDeclarator")
		d.SetNode("id", id)
		if p.lex.IsPunct("=") {
			p.lex.Next()
			d.SetNode("init", p.parseAssign())
		}
		decls = append(decls, d)
		if p.lex.IsPunct(",") {
			p.lex.Next()
			continue
		}
		break
	}
	n.SetList("declarations", decls)
	return n
}

func (p *Parser) parseFunctionDeclaration() *ast.Node {
	p.expectPunct("function")
	n := ast.New("FunctionDeclaration")
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

func (p *Parser) parseParams() []*ast.Node {
	p.expectPunct("(")
	var params []*ast.Node
	for !p.lex.IsPunct(")") {
		if p.lex.IsPunct("...") {
			p.lex.Next()
			rest := ast.New("RestElement")
			rest.SetNode("argument", p.parseBindingPattern())
			params = append(params, rest)
		} else {
			pat := p.parseBindingPattern()
			if p.lex.IsPunct("=") {
				p.lex.Next()
				ap := ast.New("AssignmentPattern")
				ap.SetNode("left", pat)
				ap.SetNode("right", p.parseAssign())
				pat = ap
			}
			params = append(params, pat)
		}
		if p.lex.IsPunct(",") {
			p.lex.Next()
			continue
		}
		break
	}
	p.expectPunct(")")
	return params
}

func (p *Parser) parseIf() *ast.Node {
	p.expectPunct("if")
	p.expectPunct("(")
	test := p.parseExpression()
	p.expectPunct(")")
	cons := p.parseStatement()
	n := ast.New("IfStatement")
	n.SetNode("test", test)
	n.SetNode("consequent", cons)
	if p.isIdent("else") {
		p.lex.Next()
		n.SetNode("alternate", p.parseStatement())
	}
	return n
}

func (p *Parser) parseWhile() *ast.Node {
	p.expectPunct("while")
	p.expectPunct("(")
	test := p.parseExpression()
	p.expectPunct(")")
	n := ast.New("WhileStatement")
	n.SetNode("test", test)
	n.SetNode("body", p.parseStatement())
	return n
}

func (p *Parser) parseDoWhile() *ast.Node {
	p.expectPunct("do")
	body := p.parseStatement()
	if !p.isIdent("while") {
		p.fail("expected \"while\" but found %q", p.tokenText())
	}
	p.lex.Next()
	p.expectPunct("(")
	test := p.parseExpression()
	p.expectPunct(")")
	p.consumeSemicolon()
	n := ast.New("DoWhileStatement")
	n.SetNode("body", body)
	n.SetNode("test", test)
	return n
}

func (p *Parser) parseFor() *ast.Node {
	p.expectPunct("for")
	p.expectPunct("(")

	var init *ast.Node
	if !p.lex.IsPunct(";") {
		if p.isIdent("var") || p.isIdent("let") || p.isIdent("const") {
			init = p.parseVariableDeclaration()
		} else {
			init = p.parseExpressionNoIn()
		}
	}

	if p.isIdent("in") || p.isIdent("of") {
		kind := p.lex.Tok.Text
		p.lex.Next()
		var n *ast.Node
		if kind == "in" {
			n = ast.New("ForInStatement")
			n.SetNode("right", p.parseExpression())
		} else {
			n = ast.New("ForOfStatement")
			n.SetNode("right", p.parseAssign())
		}
		n.SetNode("left", forLeftFromInit(init))
		p.expectPunct(")")
		n.SetNode("body", p.parseStatement())
		return n
	}

	n := ast.New("ForStatement")
	if init != nil {
		n.SetNode("init", exprStmtToExpr(init))
	}
	p.expectPunct(";")
	if !p.lex.IsPunct(";") {
		n.SetNode("test", p.parseExpression())
	}
	p.expectPunct(";")
	if !p.lex.IsPunct(")") {
		n.SetNode("update", p.parseExpression())
	}
	p.expectPunct(")")
	n.SetNode("body", p.parseStatement())
	return n
}

// forLeftFromInit normalizes the thing parsed before "in"/"of" was seen —
// either a VariableDeclaration or a bare expression used as an assignment
// target — into the ForInStatement/ForOfStatement "left" field.
func forLeftFromInit(init *ast.Node) *ast.Node {
	return init
}

func exprStmtToExpr(n *ast.Node) *ast.Node { return n }

func (p *Parser) parseExpressionNoIn() *ast.Node {
	// This parser does not special-case the "in" relational operator inside
	// a for-head, since glue code never writes `for (a in b in c);`; we
	// simply parse a normal expression.
	return p.parseExpression()
}

func (p *Parser) parseReturn() *ast.Node {
	p.expectPunct("return")
	n := ast.New("ReturnStatement")
	if !p.lex.IsPunct(";") && !p.lex.IsPunct("}") && p.lex.Tok.Kind != js_lexer.TEndOfFile && !p.lex.Tok.HasNewlineBefor {
		n.SetNode("argument", p.parseExpression())
	}
	p.consumeSemicolon()
	return n
}

func (p *Parser) parseBreakContinue(typ string) *ast.Node {
	p.lex.Next()
	n := ast.New(typ)
	if p.lex.Tok.Kind == js_lexer.TIdentifier && !p.lex.Tok.HasNewlineBefor && !js_lexer.IsKeyword(p.lex.Tok.Text) {
		id := ast.New("Identifier")
		id.SetString("name", p.lex.Tok.Text)
		n.SetNode("label", id)
		p.lex.Next()
	}
	p.consumeSemicolon()
	return n
}

func (p *Parser) parseThrow() *ast.Node {
	p.expectPunct("throw")
	n := ast.New("ThrowStatement")
	n.SetNode("argument", p.parseExpression())
	p.consumeSemicolon()
	return n
}

func (p *Parser) parseTry() *ast.Node {
	p.expectPunct("try")
	n := ast.New("TryStatement")
	n.SetNode("block", p.parseBlock())
	if p.isIdent("catch") {
		p.lex.Next()
		handler := ast.New("CatchClause")
		if p.lex.IsPunct("(") {
			p.lex.Next()
			handler.SetNode("param", p.parseBindingPattern())
			p.expectPunct(")")
		}
		handler.SetNode("body", p.parseBlock())
		n.SetNode("handler", handler)
	}
	if p.isIdent("finally") {
		p.lex.Next()
		n.SetNode("finalizer", p.parseBlock())
	}
	return n
}

func (p *Parser) parseSwitch() *ast.Node {
	p.expectPunct("switch")
	p.expectPunct("(")
	disc := p.parseExpression()
	p.expectPunct(")")
	p.expectPunct("{")
	var cases []*ast.Node
	for !p.lex.IsPunct("}") {
		c := ast.New("SwitchCase")
		if p.isIdent("case") {
			p.lex.Next()
			c.SetNode("test", p.parseExpression())
		} else if p.isIdent("default") {
			p.lex.Next()
		} else {
			p.fail("expected \"case\" or \"default\" but found %q", p.tokenText())
		}
		p.expectPunct(":")
		var body []*ast.Node
		for !p.isIdent("case") && !p.isIdent("default") && !p.lex.IsPunct("}") {
			body = append(body, p.parseStatement())
		}
		c.SetList("consequent", body)
		cases = append(cases, c)
	}
	p.expectPunct("}")
	n := ast.New("SwitchStatement")
	n.SetNode("discriminant", disc)
	n.SetList("cases", cases)
	return n
}

func (p *Parser) parseExport() *ast.Node {
	p.expectPunct("export")
	if p.isIdent("default") {
		p.lex.Next()
		n := ast.New("ExportDefaultDeclaration")
		if p.isIdent("function") {
			n.SetNode("declaration", p.parseFunctionDeclaration())
		} else {
			n.SetNode("declaration", p.parseAssign())
			p.consumeSemicolon()
		}
		return n
	}
	if p.lex.IsPunct("{") {
		p.lex.Next()
		var specs []*ast.Node
		for !p.lex.IsPunct("}") {
			spec := ast.New("ExportSpecifier")
			local := ast.New("Identifier")
			local.SetString("name", p.lex.Tok.Text)
			p.lex.Next()
			spec.SetNode("local", local)
			exported := local
			if p.isIdent("as") {
				p.lex.Next()
				exported = ast.New("Identifier")
				exported.SetString("name", p.lex.Tok.Text)
				p.lex.Next()
			}
			spec.SetNode("exported", exported)
			specs = append(specs, spec)
			if p.lex.IsPunct(",") {
				p.lex.Next()
			}
		}
		p.expectPunct("}")
		n := ast.New("ExportNamedDeclaration")
		n.SetList("specifiers", specs)
		if p.isIdent("from") {
			p.lex.Next()
			n.SetString("source", p.lex.Tok.StringValue)
			p.lex.Next()
		}
		p.consumeSemicolon()
		return n
	}
	n := ast.New("ExportNamedDeclaration")
	n.SetNode("declaration", p.parseStatement())
	return n
}

func (p *Parser) parseImport() *ast.Node {
	p.expectPunct("import")
	n := ast.New("ImportDeclaration")
	var specs []*ast.Node
	for !p.isIdent("from") && p.lex.Tok.Kind != js_lexer.TEndOfFile && !p.lex.IsPunct(";") {
		if p.lex.Tok.Kind == js_lexer.TIdentifier {
			id := ast.New("Identifier")
			id.SetString("name", p.lex.Tok.Text)
			p.lex.Next()
			spec := ast.New("ImportDefaultSpecifier")
			spec.SetNode("local", id)
			specs = append(specs, spec)
		} else if p.lex.IsPunct("{") {
			p.lex.Next()
			for !p.lex.IsPunct("}") {
				spec := ast.New("ImportSpecifier")
				id := ast.New("Identifier")
				id.SetString("name", p.lex.Tok.Text)
				p.lex.Next()
				spec.SetNode("local", id)
				specs = append(specs, spec)
				if p.lex.IsPunct(",") {
					p.lex.Next()
				}
			}
			p.expectPunct("}")
		} else if p.lex.IsPunct(",") {
			p.lex.Next()
		} else {
			break
		}
	}
	n.SetList("specifiers", specs)
	if p.isIdent("from") {
		p.lex.Next()
		n.SetString("source", p.lex.Tok.StringValue)
		p.lex.Next()
	}
	p.consumeSemicolon()
	return n
}
