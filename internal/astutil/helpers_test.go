package astutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wasmglue/jspostproc/internal/ast"
)

func ident(name string) *ast.Node {
	n := ast.New("Identifier")
	n.SetString("name", name)
	return n
}

func TestHasSideEffectsSafelist(t *testing.T) {
	lit := ast.New("Literal")
	lit.Set("value", ast.NumberValue(1))
	require.False(t, HasSideEffects(lit))
	require.False(t, HasSideEffects(ident("x")))

	mathCall := ast.New("CallExpression")
	mathMember := ast.New("MemberExpression")
	mathMember.SetNode("object", ident("Math"))
	mathMember.SetNode("property", ident("max"))
	mathMember.SetBool("computed", false)
	mathCall.SetNode("callee", mathMember)
	mathCall.SetList("arguments", nil)
	// CallExpression itself isn't on the safelist — only MemberExpression
	// rooted at Math is. A call is always effectful.
	require.True(t, HasSideEffects(mathCall))

	newTyped := ast.New("NewExpression")
	newTyped.SetNode("callee", ident("Uint8Array"))
	newTyped.SetList("arguments", []*ast.Node{lit})
	require.False(t, HasSideEffects(newTyped))

	newOther := ast.New("NewExpression")
	newOther.SetNode("callee", ident("CustomThing"))
	require.True(t, HasSideEffects(newOther))
}

func TestHasSideEffectsDirective(t *testing.T) {
	directive := ast.New("ExpressionStatement")
	str := ast.New("Literal")
	str.Set("value", ast.StringValue("use strict"))
	directive.SetNode("expression", str)
	require.True(t, HasSideEffects(directive))
}

func TestWalkPatternRoutesComputedKeyToExpr(t *testing.T) {
	key := ident("k")
	prop := ast.New("Property")
	prop.SetBool("computed", true)
	prop.SetNode("key", key)
	prop.SetNode("value", ident("v"))

	pattern := ast.New("ObjectPattern")
	pattern.SetList("properties", []*ast.Node{prop})

	var exprs []string
	var binds []string
	WalkPattern(pattern, func(n *ast.Node) { exprs = append(exprs, n.String("name")) }, func(name string) {
		binds = append(binds, name)
	})

	require.Equal(t, []string{"k"}, exprs)
	require.Equal(t, []string{"v"}, binds)
}

func TestMakeCallExpressionOverwritesInPlace(t *testing.T) {
	node := ast.New("BinaryExpression")
	arg := ident("a")
	MakeCallExpression(node, "helper", []*ast.Node{arg})

	require.Equal(t, "CallExpression", node.Type)
	require.Equal(t, "helper", node.Node("callee").String("name"))
	require.Equal(t, []*ast.Node{arg}, node.List("arguments"))
}

func TestEmptyOutAndSetLiteralValue(t *testing.T) {
	lit := ast.New("Literal")
	lit.SetString("raw", "1")
	SetLiteralValue(lit, ast.NumberValue(2))
	v, _ := lit.Get("value")
	require.Equal(t, 2.0, v.Num)
	raw, _ := lit.Get("raw")
	require.Equal(t, ast.KindNil, raw.Kind)
}
