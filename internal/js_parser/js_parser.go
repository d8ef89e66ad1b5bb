// Package js_parser builds the generic internal/ast.Node tree the core
// passes operate on. It is the other half of the front end
// (internal/js_lexer is the tokenizer); it only needs to cover the subset
// of JavaScript that emscripten-shaped glue code actually contains, not the
// full grammar.
//
// Same overall shape as esbuild's internal/js_parser: recursive descent
// driven by a Lexer field, a precedence-climbing expression parser keyed by
// the same binding-strength ladder, adapted to build internal/ast.Node
// values instead of a typed Expr/Stmt sum type.
package js_parser

import (
	"fmt"

	"github.com/wasmglue/jspostproc/internal/ast"
	"github.com/wasmglue/jspostproc/internal/js_lexer"
)

type Options struct {
	// ModuleMode parses top-level import/export as module syntax. When
	// false, import/export declarations are still accepted (glue code
	// occasionally carries them even in script mode) but nothing else
	// about parsing changes; the flag mirrors --export-es6 faithfully
	// without gating grammar on it.
	ModuleMode bool
}

type Parser struct {
	lex    *js_lexer.Lexer
	source string
	opts   Options
}

// ParseError carries enough detail for the caller to render a caret.
type ParseError struct {
	Text string
	Pos  int32
}

func (e *ParseError) Error() string { return e.Text }

type parsePanic struct{ text string }

// Parse tokenizes and parses source into a Program node.
func Parse(source string, opts Options) (prog *ast.Node, err error) {
	p := &Parser{lex: js_lexer.NewLexer(source), source: source, opts: opts}
	defer func() {
		if r := recover(); r != nil {
			pp, ok := r.(parsePanic)
			if !ok {
				panic(r)
			}
			prog = nil
			err = &ParseError{Text: pp.text, Pos: p.lex.Tok.Start}
		}
	}()

	prog = ast.New("Program")
	var body []*ast.Node
	for p.lex.Tok.Kind != js_lexer.TEndOfFile {
		body = append(body, p.parseStatement())
	}
	if lerr := p.lex.Err(); lerr != nil {
		panic(parsePanic{text: lerr.Error()})
	}
	prog.SetList("body", body)
	prog.SetString("sourceType", "script")
	return prog, nil
}

func (p *Parser) fail(format string, args ...interface{}) {
	panic(parsePanic{text: fmt.Sprintf(format, args...)})
}

func (p *Parser) expectPunct(s string) {
	if !p.lex.IsPunct(s) && !p.lex.IsKeyword(s) {
		p.fail("expected %q but found %q", s, p.tokenText())
	}
	p.lex.Next()
}

func (p *Parser) tokenText() string {
	if p.lex.Tok.Kind == js_lexer.TEndOfFile {
		return "end of file"
	}
	if p.lex.Tok.Text != "" {
		return p.lex.Tok.Text
	}
	return "<literal>"
}

func (p *Parser) isIdent(name string) bool {
	return p.lex.Tok.Kind == js_lexer.TIdentifier && p.lex.Tok.Text == name
}

// consumeSemicolon implements a minimal ASI: an explicit ";" is consumed;
// otherwise a newline, "}", or EOF is accepted as the statement terminator.
func (p *Parser) consumeSemicolon() {
	if p.lex.IsPunct(";") {
		p.lex.Next()
		return
	}
	if p.lex.Tok.HasNewlineBefor || p.lex.IsPunct("}") || p.lex.Tok.Kind == js_lexer.TEndOfFile {
		return
	}
	p.fail("expected \";\" but found %q", p.tokenText())
}
