// Package ast is the generic ESTree-shaped tree this module's passes operate
// on. Unlike the typed sum-of-node-kinds AST a hand-written parser usually
// builds, every node here carries the same shape: a string discriminator and
// an ordered list of named fields. That genericity is the point — the passes
// in internal/passes are specified against "every own property, in
// declaration order," and a Go struct-per-kind AST can't express that without
// reflection keyed to field tags. An ordered field list makes the guarantee
// explicit in the representation instead of leaning on reflection.
package ast

// Loc is a 0-based byte offset into the original source text.
type Loc struct {
	Start int32
}

// Kind distinguishes what a Field's Value holds without a type switch at
// every call site.
type Kind uint8

const (
	KindNil Kind = iota
	KindNode
	KindList
	KindString
	KindNumber
	KindBool
)

// Value is the tagged union a Field carries. Exactly one of Node/List/Str is
// meaningful, selected by Kind; Num and Bool are read directly for KindNumber
// and KindBool.
type Value struct {
	Kind Kind
	Node *Node
	List []*Node
	Str  string
	Num  float64
	Bool bool
}

func NodeValue(n *Node) Value   { return Value{Kind: KindNode, Node: n} }
func ListValue(l []*Node) Value { return Value{Kind: KindList, List: l} }
func StringValue(s string) Value { return Value{Kind: KindString, Str: s} }
func NumberValue(n float64) Value { return Value{Kind: KindNumber, Num: n} }
func BoolValue(b bool) Value    { return Value{Kind: KindBool, Bool: b} }
func NilValue() Value           { return Value{Kind: KindNil} }

// Field is one own property of a Node, in declaration order.
type Field struct {
	Name  string
	Value Value
}

// Node is a single AST node. Type is the ESTree discriminator
// ("Identifier", "CallExpression", "EmptyStatement", ...). Fields holds every
// own property in the order they were set, which is also the order
// visitChildren must walk them in: insertion order is traversal order, and
// that order must stay deterministic.
//
// Loc is kept informational; printers and the lexer-driven parser populate it
// but passes never branch on it.
type Node struct {
	Type   string
	Loc    Loc
	Fields []Field
}

// New creates a node with no fields set.
func New(typ string) *Node {
	return &Node{Type: typ}
}

// Get returns the value of the named field and whether it was present.
func (n *Node) Get(name string) (Value, bool) {
	for i := range n.Fields {
		if n.Fields[i].Name == name {
			return n.Fields[i].Value, true
		}
	}
	return Value{}, false
}

// Set assigns a field, appending it if not already present (preserving the
// position of the first assignment — re-setting a field does not move it to
// the end).
func (n *Node) Set(name string, v Value) {
	for i := range n.Fields {
		if n.Fields[i].Name == name {
			n.Fields[i].Value = v
			return
		}
	}
	n.Fields = append(n.Fields, Field{Name: name, Value: v})
}

// SetNode, SetList, SetString, SetNumber, SetBool are convenience wrappers
// around Set for the common field shapes.
func (n *Node) SetNode(name string, v *Node)    { n.Set(name, NodeValue(v)) }
func (n *Node) SetList(name string, v []*Node)  { n.Set(name, ListValue(v)) }
func (n *Node) SetString(name string, v string) { n.Set(name, StringValue(v)) }
func (n *Node) SetNumber(name string, v float64) { n.Set(name, NumberValue(v)) }
func (n *Node) SetBool(name string, v bool)     { n.Set(name, BoolValue(v)) }

// Node, List, String, Number, Bool read a field back with its zero value on
// absence — convenient in pass code that already knows the node's shape from
// its Type.
func (n *Node) Node(name string) *Node {
	if v, ok := n.Get(name); ok && v.Kind == KindNode {
		return v.Node
	}
	return nil
}

func (n *Node) List(name string) []*Node {
	if v, ok := n.Get(name); ok && v.Kind == KindList {
		return v.List
	}
	return nil
}

func (n *Node) String(name string) string {
	if v, ok := n.Get(name); ok && v.Kind == KindString {
		return v.Str
	}
	return ""
}

func (n *Node) Number(name string) (float64, bool) {
	if v, ok := n.Get(name); ok && v.Kind == KindNumber {
		return v.Num, true
	}
	return 0, false
}

func (n *Node) Bool(name string) bool {
	if v, ok := n.Get(name); ok && v.Kind == KindBool {
		return v.Bool
	}
	return false
}

// IsEmpty reports whether this node has been erased by EmptyOut.
func (n *Node) IsEmpty() bool {
	return n == nil || n.Type == "EmptyStatement"
}

// EmptyOut tombstones n in place by retyping it as an EmptyStatement.
// Stale Fields may remain, but VisitChildren treats EmptyStatement as a
// leaf, so callers never see the erased subtree. Idempotent.
func EmptyOut(n *Node) {
	n.Type = "EmptyStatement"
}

// Clone makes a shallow copy of n: the Fields slice is copied but field
// values (child node pointers) are shared. Used where a pass needs to
// overwrite a node's shape without disturbing callers that still hold the
// old Fields slice.
func (n *Node) Clone() *Node {
	c := &Node{Type: n.Type, Loc: n.Loc}
	c.Fields = append([]Field(nil), n.Fields...)
	return c
}
