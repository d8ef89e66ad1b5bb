package ast

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVisitChildrenOrderIsDeclarationOrder(t *testing.T) {
	leaf := func(name string) *Node { n := New("Identifier"); n.SetString("name", name); return n }

	node := New("BinaryExpression")
	node.SetNode("left", leaf("a"))
	node.SetString("operator", "+")
	node.SetNode("right", leaf("b"))
	node.SetList("extra", []*Node{leaf("c"), leaf("d")})

	var seen []string
	VisitChildren(node, func(child *Node) {
		seen = append(seen, child.String("name"))
	})

	require.Equal(t, []string{"a", "b", "c", "d"}, seen)
}

func TestVisitChildrenSkipsEmptyStatement(t *testing.T) {
	node := New("VariableDeclarator")
	node.SetNode("id", New("Identifier"))
	node.Type = "EmptyStatement" // tombstoned, but id field is still attached

	var visited int
	VisitChildren(node, func(*Node) { visited++ })
	require.Equal(t, 0, visited)
}

func TestEmptyOutIdempotent(t *testing.T) {
	n := New("VariableDeclaration")
	EmptyOut(n)
	first := n.Type
	EmptyOut(n)
	require.Equal(t, first, n.Type)
	require.Equal(t, "EmptyStatement", n.Type)
}

func TestFullWalkPrePrunesSubtree(t *testing.T) {
	inner := New("Identifier")
	inner.SetString("name", "pruned")
	outer := New("BlockStatement")
	outer.SetList("body", []*Node{inner})

	var postVisited []string
	FullWalk(outer, func(n *Node) { postVisited = append(postVisited, n.Type) }, func(n *Node) bool {
		return n.Type != "BlockStatement"
	})

	require.Empty(t, postVisited)
}

func TestRecursiveWalkCanSkipChildren(t *testing.T) {
	lhs := New("Identifier")
	lhs.SetString("name", "lhs")
	rhs := New("Identifier")
	rhs.SetString("name", "rhs")

	forIn := New("ForInStatement")
	forIn.SetNode("left", lhs)
	forIn.SetNode("right", rhs)

	var visited []string
	table := map[string]func(*Node, Continue){
		"ForInStatement": func(n *Node, cont Continue) {
			// Deliberately skip "left" — the for-in/for-of LHS-preservation rule.
			cont(n.Node("right"))
		},
		"Identifier": func(n *Node, cont Continue) {
			visited = append(visited, n.String("name"))
		},
	}
	RecursiveWalk(forIn, table)

	require.Equal(t, []string{"rhs"}, visited)
}

func TestEmptyOutLeavesFieldsHarmless(t *testing.T) {
	n := New("VariableDeclaration")
	n.SetList("declarations", []*Node{New("VariableDeclarator")})
	EmptyOut(n)

	require.True(t, n.IsEmpty())
	var count int
	VisitChildren(n, func(*Node) { count++ })
	require.Equal(t, 0, count, "printer-facing children must read as zero after erasure")
}
