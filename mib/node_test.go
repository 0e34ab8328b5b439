package mib

import (
	"slices"
	"testing"
)

// growTree materializes a path under root and names the final node.
func growTree(root *Node, path OID, name string) *Node {
	n := root
	for _, arc := range path {
		n = n.GetOrCreateChild(arc)
	}
	n.SetName(name)
	return n
}

func TestNodeChildrenStaySorted(t *testing.T) {
	root := &Node{}
	for _, arc := range []uint32{9, 2, 17, 1, 5} {
		root.GetOrCreateChild(arc)
	}
	var arcs []uint32
	for _, c := range root.Children() {
		arcs = append(arcs, c.Arc())
	}
	if !slices.Equal(arcs, []uint32{1, 2, 5, 9, 17}) {
		t.Errorf("children not in arc order: %v", arcs)
	}

	if root.GetOrCreateChild(5) != root.Child(5) {
		t.Error("GetOrCreateChild must reuse an existing child")
	}
	if root.Child(99) != nil {
		t.Error("Child of an absent arc must be nil")
	}
}

func TestNodeOID(t *testing.T) {
	root := &Node{}
	leaf := growTree(root, OID{1, 3, 6, 1}, "internet")
	if !leaf.OID().Equal(OID{1, 3, 6, 1}) {
		t.Errorf("OID() = %v", leaf.OID())
	}
	if root.OID() != nil {
		t.Error("the root has no OID")
	}
}

func TestNodeSiblingOrder(t *testing.T) {
	root := &Node{}
	a := root.GetOrCreateChild(1)
	c := root.GetOrCreateChild(7)
	b := root.GetOrCreateChild(3)

	if root.FirstChild() != a {
		t.Error("FirstChild should be the lowest arc")
	}
	if a.NextSibling() != b || b.NextSibling() != c {
		t.Error("NextSibling must follow arc order")
	}
	if c.NextSibling() != nil {
		t.Error("the highest arc has no next sibling")
	}
}

func TestNodeSubtreeDepthFirst(t *testing.T) {
	root := &Node{}
	growTree(root, OID{1, 2}, "a")
	growTree(root, OID{1, 1, 5}, "b")

	var order []OID
	for n := range root.Subtree() {
		if n != root {
			order = append(order, n.OID())
		}
	}
	want := []OID{{1}, {1, 1}, {1, 1, 5}, {1, 2}}
	if len(order) != len(want) {
		t.Fatalf("visited %d nodes, want %d", len(order), len(want))
	}
	for i := range want {
		if !order[i].Equal(want[i]) {
			t.Errorf("visit %d = %v, want %v", i, order[i], want[i])
		}
	}
}

func TestNodeDescend(t *testing.T) {
	root := &Node{}
	growTree(root, OID{1, 3, 6}, "dod")

	nd, exact := root.descend(OID{1, 3, 6})
	if !exact || nd.Name() != "dod" {
		t.Errorf("descend exact: got %v/%v", nd, exact)
	}
	nd, exact = root.descend(OID{1, 3, 6, 99, 4})
	if exact || !nd.OID().Equal(OID{1, 3, 6}) {
		t.Errorf("descend partial: got %v/%v", nd, exact)
	}
}
