package jsdce

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wasmglue/jspostproc/internal/ast"
	"github.com/wasmglue/jspostproc/internal/js_parser"
	"github.com/wasmglue/jspostproc/internal/js_printer"
)

func render(t *testing.T, src string, run func(program *ast.Node)) string {
	t.Helper()
	prog, err := js_parser.Parse(src, js_parser.Options{})
	require.NoError(t, err)
	run(prog)
	return js_printer.Print(prog, js_printer.Options{})
}

func TestJSDCEScenarioA(t *testing.T) {
	src := `
function f() {}
var x = 1;
var y = 2;
use(y);
`
	out := render(t, src, func(p *ast.Node) { JSDCE(p) })
	assert.NotContains(t, out, "function f")
	assert.NotContains(t, out, "var x")
	assert.Contains(t, out, "var y = 2")
	assert.Contains(t, out, "use(y)")
}

func TestJSDCEKeepsSideEffectingInit(t *testing.T) {
	src := `var x = sideEffect();`
	out := render(t, src, func(p *ast.Node) { JSDCE(p) })
	assert.Contains(t, out, "sideEffect()")
}

func TestAJSDCEKeepsSideEffectingInitToo(t *testing.T) {
	src := `var x = sideEffect();`
	out := render(t, src, func(p *ast.Node) { AJSDCE(p) })
	assert.Contains(t, out, "sideEffect()")
}

func TestAJSDCERemovesNoEffectExpressionStatement(t *testing.T) {
	src := `
var x = 1;
x;
use(2);
`
	out := render(t, src, func(p *ast.Node) { AJSDCE(p) })
	assert.NotContains(t, out, "var x")
	lines := 0
	for _, l := range strings.Split(strings.TrimSpace(out), "\n") {
		if strings.TrimSpace(l) != "" {
			lines++
		}
	}
	assert.Equal(t, 1, lines)
	assert.Contains(t, out, "use(2)")
}

func TestAJSDCEReachesFixedPointAcrossChainedUnusedDefs(t *testing.T) {
	src := `
function a() { return b(); }
function b() { return c(); }
function c() { return 1; }
function entry() { return 42; }
entry();
`
	out := render(t, src, func(p *ast.Node) { AJSDCE(p) })
	assert.NotContains(t, out, "function a")
	assert.NotContains(t, out, "function b")
	assert.NotContains(t, out, "function c")
	assert.Contains(t, out, "function entry")
	assert.Contains(t, out, "entry()")
}

func TestJSDCEPreservesForInLHSEvenWhenUnused(t *testing.T) {
	src := `
var obj = {};
for (var k in obj) {
  count++;
}
`
	out := render(t, src, func(p *ast.Node) { JSDCE(p) })
	assert.Contains(t, out, "for (var k in obj)")
}

func TestRunCountsErasuresFromNestedFunctionScopes(t *testing.T) {
	src := `
function outer() { var y = 1; y; }
outer();
`
	prog, err := js_parser.Parse(src, js_parser.Options{})
	require.NoError(t, err)

	removed := Run(prog, true)
	assert.Greater(t, removed, 0, "expected the no-effect statement nested inside outer() to count")

	out := js_printer.Print(prog, js_printer.Options{})
	assert.NotContains(t, out, "var y")
}

func TestAJSDCEFullyRemovesNestedUnusedLocalInOneCall(t *testing.T) {
	src := `
function outer() { var y = 1; y; }
outer();
`
	out := render(t, src, func(p *ast.Node) { AJSDCE(p) })
	assert.NotContains(t, out, "var y")
	assert.NotContains(t, out, "y;")
	assert.Contains(t, out, "function outer()")
	assert.Contains(t, out, "outer()")
}

func TestJSDCEDoesNotRemoveUsedParam(t *testing.T) {
	src := `
function f(a) {
  return a + 1;
}
f(1);
`
	out := render(t, src, func(p *ast.Node) { JSDCE(p) })
	assert.Contains(t, out, "function f(a)")
}
