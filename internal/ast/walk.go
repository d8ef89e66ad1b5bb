package ast

// Four traversal disciplines, in increasing order of control given to the
// handler. Every pass elsewhere in this module is phrased in terms of
// exactly one of these, picking the weakest one that suffices: each
// rewrite gets its own narrow visitor rather than one do-everything Walk.

// VisitChildren enumerates every own field of node in declaration order. A
// field holding a single node invokes f on that node; a field holding a
// list invokes f on each element. EmptyStatement is treated as a leaf even
// if stale fields remain from before it was erased — callers must not see
// tombstoned subtrees.
func VisitChildren(node *Node, f func(*Node)) {
	if node == nil || node.Type == "EmptyStatement" {
		return
	}
	for _, field := range node.Fields {
		switch field.Value.Kind {
		case KindNode:
			if field.Value.Node != nil {
				f(field.Value.Node)
			}
		case KindList:
			for _, child := range field.Value.List {
				if child != nil {
					f(child)
				}
			}
		}
	}
}

// SimpleWalk visits the whole tree post-order via VisitChildren, then — if
// node.Type has a handler in table — invokes it. The handler has no control
// over recursion; it runs decorate-and-collect style, after children are
// already visited.
func SimpleWalk(node *Node, table map[string]func(*Node)) {
	if node == nil {
		return
	}
	VisitChildren(node, func(child *Node) {
		SimpleWalk(child, table)
	})
	if h, ok := table[node.Type]; ok {
		h(node)
	}
}

// FullWalk is SimpleWalk's hybrid sibling: an optional pre callback can
// prune an entire subtree by returning false, and post always runs after
// children (unless pruned: a pruned node gets no post call either). pre may
// be nil.
func FullWalk(node *Node, post func(*Node), pre func(*Node) bool) {
	if node == nil {
		return
	}
	if pre != nil && !pre(node) {
		return
	}
	VisitChildren(node, func(child *Node) {
		FullWalk(child, post, pre)
	})
	post(node)
}

// Continue is handed to a RecursiveWalk handler so it can recurse into
// exactly the children it chooses to, in whatever order it chooses.
type Continue func(*Node)

// RecursiveWalk gives the handler full control of recursion. If node.Type
// has no entry in table, the default behavior is to recurse into every
// child via VisitChildren. If it does, the handler receives (node, cont)
// and decides which children (if any) to pass to cont — this is the only
// discipline that can skip specific children, needed for for-in/for-of LHS
// preservation, nested-function-scope isolation, and computed-vs-dot member
// distinction.
func RecursiveWalk(node *Node, table map[string]func(*Node, Continue)) {
	if node == nil {
		return
	}
	cont := func(n *Node) { RecursiveWalk(n, table) }
	if h, ok := table[node.Type]; ok {
		h(node, cont)
		return
	}
	VisitChildren(node, cont)
}
