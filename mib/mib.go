// Package mib holds the in-memory, read-mostly MIB repository: the OID
// tree linked from parsed modules, the type table, and the value,
// index and lookup helpers layered over them. A Mib is assembled once
// by the resolver (via Builder) and treated as immutable afterwards.
package mib

import (
	"iter"
	"slices"
	"strconv"
	"strings"
)

// Mib is the assembled repository.
type Mib struct {
	root *Node

	modules       []*Module
	objects       []*Object
	types         []*Type
	notifications []*Notification

	moduleByName map[string]*Module
	typeByName   map[string]*Type
	nameToNodes  map[string][]*Node

	nodeCount   int
	diagnostics []Diagnostic
	unresolved  []UnresolvedRef
}

func newMib() *Mib {
	return &Mib{
		root:         &Node{kind: KindInternal},
		moduleByName: make(map[string]*Module),
		typeByName:   make(map[string]*Type),
		nameToNodes:  make(map[string][]*Node),
	}
}

// Root is the unnamed root above ccitt/iso/joint-iso-ccitt.
func (m *Mib) Root() *Node { return m.root }

// Nodes iterates the whole tree depth-first in arc order, excluding the
// unnamed root itself.
func (m *Mib) Nodes() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		for _, top := range m.root.kids {
			if !top.visit(yield) {
				return
			}
		}
	}
}

// Node resolves a label to its tree node. Duplicate labels are legal
// (a vendor module may redefine a standard name); the one carrying an
// object wins, then one carrying a notification, then the earliest
// registration.
func (m *Mib) Node(name string) *Node {
	candidates := m.nameToNodes[name]
	for _, nd := range candidates {
		if nd.obj != nil {
			return nd
		}
	}
	for _, nd := range candidates {
		if nd.notif != nil {
			return nd
		}
	}
	if len(candidates) > 0 {
		return candidates[0]
	}
	return nil
}

// Object resolves a label to its OBJECT-TYPE, or nil.
func (m *Mib) Object(name string) *Object {
	for _, nd := range m.nameToNodes[name] {
		if nd.obj != nil {
			return nd.obj
		}
	}
	return nil
}

// Notification resolves a label to its notification, or nil.
func (m *Mib) Notification(name string) *Notification {
	for _, nd := range m.nameToNodes[name] {
		if nd.notif != nil {
			return nd.notif
		}
	}
	return nil
}

// Type resolves a type name, or nil.
func (m *Mib) Type(name string) *Type { return m.typeByName[name] }

// Module resolves a module name, or nil.
func (m *Mib) Module(name string) *Module { return m.moduleByName[name] }

// NodeByOID returns the node at exactly oid, or nil.
func (m *Mib) NodeByOID(oid OID) *Node {
	nd, exact := m.root.descend(oid)
	if !exact {
		return nil
	}
	return nd
}

// LongestPrefixByOID returns the deepest node along oid, even when oid
// itself names no node (an instance OID, say).
func (m *Mib) LongestPrefixByOID(oid OID) *Node {
	nd, _ := m.root.descend(oid)
	return nd
}

// FormatOID renders oid as "MODULE::name.suffix" through the longest
// named prefix, falling back to the dotted numeric form.
//
//	FormatOID({1,3,6,1,2,1,2,2,1,1,5}) => "IF-MIB::ifIndex.5"
//	FormatOID({1,3,999})               => "1.3.999"
func (m *Mib) FormatOID(oid OID) string {
	if len(oid) == 0 {
		return ""
	}
	node := m.LongestPrefixByOID(oid)
	if node == nil || node.Name() == "" {
		return oid.String()
	}

	var b strings.Builder
	if mod := node.Module(); mod != nil {
		b.WriteString(mod.Name())
		b.WriteString("::")
	}
	b.WriteString(node.Name())
	for _, arc := range oid[len(node.OID()):] {
		b.WriteByte('.')
		b.WriteString(strconv.FormatUint(uint64(arc), 10))
	}
	return b.String()
}

func (m *Mib) Modules() []*Module             { return slices.Clone(m.modules) }
func (m *Mib) Objects() []*Object             { return slices.Clone(m.objects) }
func (m *Mib) Types() []*Type                 { return slices.Clone(m.types) }
func (m *Mib) Notifications() []*Notification { return slices.Clone(m.notifications) }

func (m *Mib) Tables() []*Object  { return objectsByKind(m.objects, KindTable) }
func (m *Mib) Scalars() []*Object { return objectsByKind(m.objects, KindScalar) }
func (m *Mib) Columns() []*Object { return objectsByKind(m.objects, KindColumn) }
func (m *Mib) Rows() []*Object    { return objectsByKind(m.objects, KindRow) }

func (m *Mib) NodeCount() int { return m.nodeCount }

func (m *Mib) Unresolved() []UnresolvedRef { return slices.Clone(m.unresolved) }
func (m *Mib) Diagnostics() []Diagnostic   { return slices.Clone(m.diagnostics) }

// HasErrors reports whether any collected diagnostic is at least
// SeverityError.
func (m *Mib) HasErrors() bool {
	return slices.ContainsFunc(m.diagnostics, func(d Diagnostic) bool {
		return d.Severity.AtLeast(SeverityError)
	})
}

func (m *Mib) addModule(mod *Module) {
	m.modules = append(m.modules, mod)
	if mod.name != "" {
		m.moduleByName[mod.name] = mod
	}
}

func (m *Mib) addObject(obj *Object) { m.objects = append(m.objects, obj) }

func (m *Mib) addType(t *Type) {
	m.types = append(m.types, t)
	if t.name != "" && m.typeByName[t.name] == nil {
		m.typeByName[t.name] = t
	}
}

func (m *Mib) addNotification(n *Notification) { m.notifications = append(m.notifications, n) }

func (m *Mib) registerNode(name string, n *Node) {
	if name != "" {
		m.nameToNodes[name] = append(m.nameToNodes[name], n)
	}
}
