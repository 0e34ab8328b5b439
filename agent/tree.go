package agent

import (
	"cmp"
	"fmt"
	"slices"
	"sync"

	"github.com/golangsnmp/snmpcore/mib"
)

// Instance is one registered point in the agent's instance tree: a
// backing Cell plus the access mode and per-event binding table
// spec.md §4.6 describes.
type Instance struct {
	OID      mib.OID
	Access   mib.Access
	Cell     Cell
	bindings map[EventKind][]Binding
}

// Bind appends binding to the list fired for kind on this instance.
// Bindings for a single PDU run in definition order, per spec.md §5.
func (inst *Instance) Bind(kind EventKind, binding Binding) {
	if inst.bindings == nil {
		inst.bindings = make(map[EventKind][]Binding)
	}
	inst.bindings[kind] = append(inst.bindings[kind], binding)
}

func (inst *Instance) fire(kind EventKind, ev *Event) error {
	for _, b := range inst.bindings[kind] {
		if err := b(ev); err != nil {
			return err
		}
	}
	return nil
}

// node is one point in the trie backing Tree, mirroring mib.Node's
// arc/children shape but carrying at most one Instance, at the node
// representing a fully materialized instance OID.
type node struct {
	arc      uint32
	parent   *node
	children map[uint32]*node
	inst     *Instance
}

func (n *node) oid() mib.OID {
	var arcs mib.OID
	for cur := n; cur.parent != nil; cur = cur.parent {
		arcs = append(arcs, cur.arc)
	}
	slices.Reverse(arcs)
	return arcs
}

func (n *node) getOrCreateChild(arc uint32) *node {
	if n.children == nil {
		n.children = make(map[uint32]*node)
	}
	if c, ok := n.children[arc]; ok {
		return c
	}
	c := &node{arc: arc, parent: n}
	n.children[arc] = c
	return c
}

func (n *node) sortedChildren() []*node {
	if len(n.children) == 0 {
		return nil
	}
	out := make([]*node, 0, len(n.children))
	for _, c := range n.children {
		out = append(out, c)
	}
	slices.SortFunc(out, func(a, b *node) int { return cmp.Compare(a.arc, b.arc) })
	return out
}

// ColumnTemplate describes a table column that is known to the MIB but
// may not yet have a populated instance for a given row. Registering a
// template lets Set materialize a row on demand when a column's access
// is read-create, per spec.md §4.6's row-creation rule.
type ColumnTemplate struct {
	Access  mib.Access
	NewCell func() Cell
}

// Tree is the agent's instance tree, parallel to (and independent of)
// any mib.Mib the host has loaded, populated only with instances the
// host registers via CreateNode.
type Tree struct {
	mu        sync.RWMutex
	root      *node
	templates map[string]*ColumnTemplate // keyed by column OID string
}

// NewTree returns an empty instance tree.
func NewTree() *Tree {
	return &Tree{root: &node{}, templates: make(map[string]*ColumnTemplate)}
}

// CreateNode rejects a not-accessible access mode, materializes
// intermediate nodes as needed, and registers an Instance backed by
// cell. It does not check that oid is a leaf: an instance may also sit
// at an interior node. It is an error to create the same OID twice.
func (t *Tree) CreateNode(oid mib.OID, access mib.Access, cell Cell) (*Instance, error) {
	if access == mib.AccessNotAccessible {
		return nil, fmt.Errorf("agent: %s is not accessible", oid)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	n := t.root
	for _, arc := range oid {
		n = n.getOrCreateChild(arc)
	}
	if n.inst != nil {
		return nil, fmt.Errorf("agent: instance already registered at %s", oid)
	}
	inst := &Instance{OID: slices.Clone(oid), Access: access, Cell: cell}
	n.inst = inst
	return inst, nil
}

// RegisterColumn records a table column's access and cell factory, so
// Set can create a row under it on demand (spec.md §4.6 row creation).
func (t *Tree) RegisterColumn(columnOID mib.OID, access mib.Access, newCell func() Cell) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.templates[columnOID.String()] = &ColumnTemplate{Access: access, NewCell: newCell}
}

// columnTemplateFor returns the registered column template whose OID is
// the parent of instanceOID (i.e. instanceOID with its index suffix
// removed), if any. Since index length varies by table, every
// registered template is checked for a prefix match.
func (t *Tree) columnTemplateFor(instanceOID mib.OID) (mib.OID, *ColumnTemplate, bool) {
	var bestCol mib.OID
	var best *ColumnTemplate
	for key, tmpl := range t.templates {
		col, err := mib.ParseOID(key)
		if err != nil {
			continue
		}
		if len(col) < len(instanceOID) && instanceOID.HasPrefix(col) {
			if best == nil || len(col) > len(bestCol) {
				bestCol, best = col, tmpl
			}
		}
	}
	return bestCol, best, best != nil
}

func (n *node) find(oid mib.OID) *node {
	cur := n
	for _, arc := range oid {
		if cur.children == nil {
			return nil
		}
		cur = cur.children[arc]
		if cur == nil {
			return nil
		}
	}
	return cur
}

// fireChain fires kind's bindings on the instance at oid and on every
// registered ancestor, most specific first, stopping at the first
// error — the walk-up dispatch rule for set processing. A subtree owner
// can register one check/commit binding on a row or table node and
// observe every column set beneath it.
func (t *Tree) fireChain(kind EventKind, oid mib.OID, ev *Event) error {
	t.mu.RLock()
	var insts []*Instance
	for n := t.root.find(oid); n != nil; n = n.parent {
		if n.inst != nil {
			insts = append(insts, n.inst)
		}
	}
	t.mu.RUnlock()
	for _, inst := range insts {
		if err := inst.fire(kind, ev); err != nil {
			return err
		}
	}
	return nil
}

// lookup returns the Instance at exactly oid, or nil.
func (t *Tree) lookup(oid mib.OID) *Instance {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n := t.root.find(oid)
	if n == nil {
		return nil
	}
	return n.inst
}

// next returns the Instance at the lexicographic successor of oid
// (strictly greater OID with a registered instance), or nil at end of
// tree.
func (t *Tree) next(oid mib.OID) *Instance {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var found *Instance
	var walk func(n *node, prefix mib.OID)
	walk = func(n *node, prefix mib.OID) {
		if found != nil {
			return
		}
		if n.inst != nil && prefix.Compare(oid) > 0 {
			found = n.inst
			return
		}
		for _, c := range n.sortedChildren() {
			walk(c, append(slices.Clone(prefix), c.arc))
			if found != nil {
				return
			}
		}
	}
	walk(t.root, nil)
	return found
}

// createRow materializes a new Instance at instanceOID using the column
// template registered for its parent column, firing the `create`
// binding, per spec.md §4.6.
func (t *Tree) createRow(instanceOID mib.OID) (*Instance, error) {
	colOID, tmpl, ok := t.columnTemplateFor(instanceOID)
	if !ok {
		return nil, fmt.Errorf("agent: no column registered to create a row under %s", instanceOID)
	}
	if tmpl.Access != mib.AccessReadCreate {
		return nil, fmt.Errorf("agent: column %s does not allow row creation", colOID)
	}
	inst, err := t.CreateNode(instanceOID, tmpl.Access, tmpl.NewCell())
	if err != nil {
		return nil, err
	}
	ev := &Event{Kind: EventCreate, OID: instanceOID}
	if err := inst.fire(EventCreate, ev); err != nil {
		return nil, err
	}
	return inst, nil
}
