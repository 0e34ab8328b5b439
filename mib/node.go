package mib

import (
	"cmp"
	"iter"
	"slices"
)

// Node is one point in the OID tree. Children live in a slice kept in
// ascending arc order, so in-order iteration is a plain walk and
// lexicographic-successor queries need no sorting step. The entity a
// node stands for (an Object or a Notification) hangs off the node; a
// node with neither is structural.
type Node struct {
	arc    uint32
	name   string
	kind   Kind
	module *Module
	obj    *Object
	notif  *Notification
	parent *Node
	kids   []*Node // ascending arc order
}

// Arc returns this node's sub-identifier relative to its parent.
func (n *Node) Arc() uint32 { return n.arc }

// Name returns the node's label, or "" for an unnamed interior node.
func (n *Node) Name() string { return n.name }

// Kind returns the node's structural classification.
func (n *Node) Kind() Kind { return n.kind }

// IsRoot reports whether this is the unnamed tree root.
func (n *Node) IsRoot() bool { return n.parent == nil }

// Parent returns the parent node, nil at the root.
func (n *Node) Parent() *Node { return n.parent }

// Object returns the OBJECT-TYPE attached here, or nil.
func (n *Node) Object() *Object { return n.obj }

// Notification returns the NOTIFICATION-TYPE/TRAP-TYPE attached here,
// or nil.
func (n *Node) Notification() *Notification { return n.notif }

// Module returns the module that defined this node's entity, falling
// back to the module recorded on the node itself.
func (n *Node) Module() *Module {
	switch {
	case n.obj != nil && n.obj.module != nil:
		return n.obj.module
	case n.notif != nil && n.notif.module != nil:
		return n.notif.module
	default:
		return n.module
	}
}

// OID returns the arc path from the root down to this node.
func (n *Node) OID() OID {
	if n == nil || n.parent == nil {
		return nil
	}
	depth := 0
	for nd := n; nd.parent != nil; nd = nd.parent {
		depth++
	}
	out := make(OID, depth)
	for nd := n; nd.parent != nil; nd = nd.parent {
		depth--
		out[depth] = nd.arc
	}
	return out
}

// childPos returns where arc sits (or would insert) in kids.
func (n *Node) childPos(arc uint32) (int, bool) {
	return slices.BinarySearchFunc(n.kids, arc, func(c *Node, a uint32) int {
		return cmp.Compare(c.arc, a)
	})
}

// Child returns the child at arc, or nil.
func (n *Node) Child(arc uint32) *Node {
	if i, ok := n.childPos(arc); ok {
		return n.kids[i]
	}
	return nil
}

// Children returns the direct children in ascending arc order.
func (n *Node) Children() []*Node { return slices.Clone(n.kids) }

// FirstChild returns the lowest-arc child, or nil.
func (n *Node) FirstChild() *Node {
	if len(n.kids) == 0 {
		return nil
	}
	return n.kids[0]
}

// NextSibling returns the next child of this node's parent in arc
// order, or nil.
func (n *Node) NextSibling() *Node {
	if n.parent == nil {
		return nil
	}
	i, ok := n.parent.childPos(n.arc)
	if !ok || i+1 >= len(n.parent.kids) {
		return nil
	}
	return n.parent.kids[i+1]
}

// GetOrCreateChild returns the child at arc, inserting a structural
// node in arc order if absent.
func (n *Node) GetOrCreateChild(arc uint32) *Node {
	i, ok := n.childPos(arc)
	if ok {
		return n.kids[i]
	}
	child := &Node{arc: arc, parent: n, kind: KindInternal}
	n.kids = slices.Insert(n.kids, i, child)
	return child
}

func (n *Node) getOrCreateChild(arc uint32) *Node { return n.GetOrCreateChild(arc) }

// descend walks as far along oid as the tree reaches, reporting whether
// the full path matched.
func (n *Node) descend(oid OID) (deepest *Node, exact bool) {
	cur := n
	for _, arc := range oid {
		next := cur.Child(arc)
		if next == nil {
			return cur, false
		}
		cur = next
	}
	return cur, true
}

// LongestPrefix returns the deepest node along oid under n.
func (n *Node) LongestPrefix(oid OID) *Node {
	nd, _ := n.descend(oid)
	return nd
}

// Subtree iterates this node and every descendant, depth-first in arc
// order.
func (n *Node) Subtree() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		n.visit(yield)
	}
}

func (n *Node) visit(yield func(*Node) bool) bool {
	if !yield(n) {
		return false
	}
	for _, c := range n.kids {
		if !c.visit(yield) {
			return false
		}
	}
	return true
}

func (n *Node) String() string {
	switch {
	case n == nil:
		return "<nil>"
	case n.parent == nil:
		return "(root)"
	case n.name == "":
		return "(" + n.OID().String() + ")"
	default:
		return n.name + " (" + n.OID().String() + ")"
	}
}

// Setters used by the resolver while linking the tree.
func (n *Node) SetName(name string)             { n.name = name }
func (n *Node) SetKind(k Kind)                  { n.kind = k }
func (n *Node) SetModule(m *Module)             { n.module = m }
func (n *Node) SetObject(o *Object)             { n.obj = o }
func (n *Node) SetNotification(v *Notification) { n.notif = v }

func (n *Node) setName(name string) { n.name = name }
