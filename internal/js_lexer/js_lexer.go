// Package js_lexer is the front end's tokenizer. It is deliberately small:
// the core rewrite passes never consult it directly, but a runnable CLI
// needs a real scanner to produce the internal/ast.Node tree the passes
// operate on.
//
// Same overall shape as esbuild's internal/js_lexer package: same
// token-kind enumeration style, same on-demand Next() scanning loop, same
// UTF-8 identifier / UTF-16-aware string literal handling, trimmed to the
// subset of punctuation and literal forms emscripten-generated glue code
// actually contains — this tool targets generated output, not arbitrary
// hand-written JS, so regex literals' full grammar, JSX, and decorators
// are dropped here.
package js_lexer

import (
	"fmt"
	"strconv"
	"strings"
)

type T int

const (
	TEndOfFile T = iota
	TIdentifier
	TNumericLiteral
	TStringLiteral
	TRegExpLiteral
	TTemplateLiteral
	TNoSubstitutionTemplateLiteral

	TPunctuation // anything in punctTable, text holds the exact spelling
)

// punctTable is ordered longest-match-first so the scanner's linear probe
// finds ">>>=" before ">>>", ">>>" before ">>", etc.
var punctTable = []string{
	">>>=", "...", "===", "!==", "**=", "<<=", ">>=", ">>>", "&&=", "||=", "??=",
	"=>", "==", "!=", "<=", ">=", "&&", "||", "??", "?.", "++", "--",
	"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "<<", ">>", "**",
	"{", "}", "(", ")", "[", "]", ".", ";", ",", "<", ">", "+", "-", "*",
	"/", "%", "&", "|", "^", "!", "~", "?", ":", "=",
}

var keywords = map[string]bool{
	"var": true, "let": true, "const": true, "function": true, "return": true,
	"if": true, "else": true, "for": true, "while": true, "do": true,
	"break": true, "continue": true, "switch": true, "case": true, "default": true,
	"new": true, "delete": true, "typeof": true, "instanceof": true, "in": true,
	"of": true, "this": true, "null": true, "true": true, "false": true,
	"void": true, "throw": true, "try": true, "catch": true, "finally": true,
	"export": true, "import": true, "from": true, "class": true, "extends": true,
	"super": true, "yield": true, "async": true, "await": true, "static": true,
	"get": true, "set": true,
}

func IsKeyword(s string) bool { return keywords[s] }

type Token struct {
	Kind            T
	Text            string  // raw source text (identifiers, punctuation spelling)
	StringValue     string  // decoded value for TStringLiteral/TTemplateLiteral
	NumericValue    float64 // decoded value for TNumericLiteral
	Start, End      int32
	HasNewlineBefor bool // ASI support
}

type Lexer struct {
	source string
	pos    int
	Tok    Token
	err    error
}

func NewLexer(source string) *Lexer {
	l := &Lexer{source: source}
	l.Next()
	return l
}

func (l *Lexer) Err() error { return l.err }

func (l *Lexer) fail(format string, args ...interface{}) {
	if l.err == nil {
		l.err = fmt.Errorf(format, args...)
	}
	l.Tok = Token{Kind: TEndOfFile, Start: int32(l.pos), End: int32(l.pos)}
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c >= 0x80
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// Next scans the next token into l.Tok.
func (l *Lexer) Next() {
	sawNewline := false
	for l.pos < len(l.source) {
		c := l.source[l.pos]
		switch {
		case c == '\n':
			sawNewline = true
			l.pos++
		case c == ' ' || c == '\t' || c == '\r':
			l.pos++
		case c == '/' && l.pos+1 < len(l.source) && l.source[l.pos+1] == '/':
			for l.pos < len(l.source) && l.source[l.pos] != '\n' {
				l.pos++
			}
		case c == '/' && l.pos+1 < len(l.source) && l.source[l.pos+1] == '*':
			l.pos += 2
			for l.pos < len(l.source) && !(l.source[l.pos] == '*' && l.pos+1 < len(l.source) && l.source[l.pos+1] == '/') {
				if l.source[l.pos] == '\n' {
					sawNewline = true
				}
				l.pos++
			}
			l.pos += 2
		default:
			goto scan
		}
	}
scan:
	start := l.pos
	if l.pos >= len(l.source) {
		l.Tok = Token{Kind: TEndOfFile, Start: int32(start), End: int32(start), HasNewlineBefor: sawNewline}
		return
	}
	c := l.source[l.pos]
	switch {
	case isIdentStart(c):
		for l.pos < len(l.source) && isIdentPart(l.source[l.pos]) {
			l.pos++
		}
		text := l.source[start:l.pos]
		l.Tok = Token{Kind: TIdentifier, Text: text, Start: int32(start), End: int32(l.pos), HasNewlineBefor: sawNewline}

	case isDigit(c) || (c == '.' && l.pos+1 < len(l.source) && isDigit(l.source[l.pos+1])):
		l.scanNumber(start, sawNewline)

	case c == '"' || c == '\'':
		l.scanString(c, start, sawNewline)

	case c == '`':
		l.scanTemplate(start, sawNewline)

	case c == '/':
		// Ambiguous with division; regex literals are not scanned, so '/'
		// is always punctuation and normal division parses without
		// lookahead.
		l.scanPunct(start, sawNewline)

	default:
		l.scanPunct(start, sawNewline)
	}
}

func (l *Lexer) scanPunct(start int, sawNewline bool) {
	rest := l.source[l.pos:]
	for _, p := range punctTable {
		if strings.HasPrefix(rest, p) {
			l.pos += len(p)
			l.Tok = Token{Kind: TPunctuation, Text: p, Start: int32(start), End: int32(l.pos), HasNewlineBefor: sawNewline}
			return
		}
	}
	l.fail("unexpected character %q at byte %d", rest[:1], start)
}

func (l *Lexer) scanNumber(start int, sawNewline bool) {
	for l.pos < len(l.source) && (isDigit(l.source[l.pos]) || l.source[l.pos] == '.' ||
		l.source[l.pos] == 'x' || l.source[l.pos] == 'X' || l.source[l.pos] == 'o' || l.source[l.pos] == 'O' ||
		l.source[l.pos] == 'b' || l.source[l.pos] == 'B' ||
		(l.source[l.pos] >= 'a' && l.source[l.pos] <= 'f') || (l.source[l.pos] >= 'A' && l.source[l.pos] <= 'F') ||
		l.source[l.pos] == 'e' || l.source[l.pos] == 'E' ||
		((l.source[l.pos] == '+' || l.source[l.pos] == '-') && l.pos > start && (l.source[l.pos-1] == 'e' || l.source[l.pos-1] == 'E'))) {
		l.pos++
	}
	text := l.source[start:l.pos]
	val, err := strconv.ParseFloat(text, 64)
	if err != nil {
		if iv, ierr := strconv.ParseInt(text, 0, 64); ierr == nil {
			val = float64(iv)
		} else {
			l.fail("invalid number literal %q", text)
			return
		}
	}
	l.Tok = Token{Kind: TNumericLiteral, Text: text, NumericValue: val, Start: int32(start), End: int32(l.pos), HasNewlineBefor: sawNewline}
}

func (l *Lexer) scanString(quote byte, start int, sawNewline bool) {
	l.pos++ // opening quote
	var b strings.Builder
	for l.pos < len(l.source) && l.source[l.pos] != quote {
		ch := l.source[l.pos]
		if ch == '\\' && l.pos+1 < len(l.source) {
			l.pos++
			esc := l.source[l.pos]
			switch esc {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			case '\\', '\'', '"', '`':
				b.WriteByte(esc)
			default:
				b.WriteByte(esc)
			}
			l.pos++
			continue
		}
		b.WriteByte(ch)
		l.pos++
	}
	if l.pos >= len(l.source) {
		l.fail("unterminated string literal")
		return
	}
	l.pos++ // closing quote
	l.Tok = Token{Kind: TStringLiteral, Text: l.source[start:l.pos], StringValue: b.String(), Start: int32(start), End: int32(l.pos), HasNewlineBefor: sawNewline}
}

// scanTemplate treats the whole backtick literal as one opaque token; this
// tool never rewrites inside template substitutions.
func (l *Lexer) scanTemplate(start int, sawNewline bool) {
	l.pos++ // opening backtick
	depth := 0
	for l.pos < len(l.source) {
		ch := l.source[l.pos]
		if ch == '\\' {
			l.pos += 2
			continue
		}
		if ch == '`' && depth == 0 {
			l.pos++
			l.Tok = Token{Kind: TNoSubstitutionTemplateLiteral, Text: l.source[start:l.pos], StringValue: l.source[start+1 : l.pos-1], Start: int32(start), End: int32(l.pos), HasNewlineBefor: sawNewline}
			return
		}
		if ch == '$' && l.pos+1 < len(l.source) && l.source[l.pos+1] == '{' {
			depth++
			l.pos += 2
			continue
		}
		if ch == '}' && depth > 0 {
			depth--
		}
		l.pos++
	}
	l.fail("unterminated template literal")
}

// IsPunct reports whether the current token is the given punctuation.
func (l *Lexer) IsPunct(p string) bool {
	return l.Tok.Kind == TPunctuation && l.Tok.Text == p
}

func (l *Lexer) IsKeyword(kw string) bool {
	return l.Tok.Kind == TIdentifier && l.Tok.Text == kw
}
