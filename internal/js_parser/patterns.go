package js_parser

import (
	"github.com/wasmglue/jspostproc/internal/ast"
	"github.com/wasmglue/jspostproc/internal/js_lexer"
)

// parseBindingPattern parses the LHS of a VariableDeclarator, a function
// parameter (default values are layered on by the caller), or a catch
// clause parameter.
func (p *Parser) parseBindingPattern() *ast.Node {
	switch {
	case p.lex.IsPunct("{"):
		return p.parseObjectPattern()
	case p.lex.IsPunct("["):
		return p.parseArrayPattern()
	case p.lex.Tok.Kind == js_lexer.TIdentifier:
		id := ast.New("Identifier")
		id.SetString("name", p.lex.Tok.Text)
		p.lex.Next()
		return id
	default:
		p.fail("expected a binding but found %q", p.tokenText())
		return nil
	}
}

func (p *Parser) parseObjectPattern() *ast.Node {
	p.expectPunct("{")
	n := ast.New("ObjectPattern")
	var props []*ast.Node
	for !p.lex.IsPunct("}") {
		if p.lex.IsPunct("...") {
			p.lex.Next()
			rest := ast.New("RestElement")
			rest.SetNode("argument", p.parseBindingPattern())
			props = append(props, rest)
		} else {
			prop := ast.New("Property")
			if p.lex.IsPunct("[") {
				p.lex.Next()
				prop.SetBool("computed", true)
				prop.SetNode("key", p.parseAssign())
				p.expectPunct("]")
			} else {
				key := ast.New("Identifier")
				key.SetString("name", p.lex.Tok.Text)
				p.lex.Next()
				prop.SetBool("computed", false)
				prop.SetNode("key", key)
			}
			if p.lex.IsPunct(":") {
				p.lex.Next()
				prop.SetNode("value", p.parseBindingPatternWithDefault())
			} else {
				value := prop.Node("key").Clone()
				if p.lex.IsPunct("=") {
					p.lex.Next()
					ap := ast.New("AssignmentPattern")
					ap.SetNode("left", value)
					ap.SetNode("right", p.parseAssign())
					value = ap
				}
				prop.SetNode("value", value)
			}
			props = append(props, prop)
		}
		if p.lex.IsPunct(",") {
			p.lex.Next()
			continue
		}
		break
	}
	p.expectPunct("}")
	n.SetList("properties", props)
	return n
}

func (p *Parser) parseBindingPatternWithDefault() *ast.Node {
	pat := p.parseBindingPattern()
	if p.lex.IsPunct("=") {
		p.lex.Next()
		ap := ast.New("AssignmentPattern")
		ap.SetNode("left", pat)
		ap.SetNode("right", p.parseAssign())
		return ap
	}
	return pat
}

func (p *Parser) parseArrayPattern() *ast.Node {
	p.expectPunct("[")
	n := ast.New("ArrayPattern")
	var elems []*ast.Node
	for !p.lex.IsPunct("]") {
		if p.lex.IsPunct(",") {
			elems = append(elems, nil)
			p.lex.Next()
			continue
		}
		if p.lex.IsPunct("...") {
			p.lex.Next()
			rest := ast.New("RestElement")
			rest.SetNode("argument", p.parseBindingPattern())
			elems = append(elems, rest)
		} else {
			elems = append(elems, p.parseBindingPatternWithDefault())
		}
		if p.lex.IsPunct(",") {
			p.lex.Next()
			continue
		}
		break
	}
	p.expectPunct("]")
	n.SetList("elements", elems)
	return n
}
