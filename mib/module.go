package mib

import "slices"

// Module is one loaded MIB module: its MODULE-IDENTITY metadata plus a
// per-module view of the definitions it contributed, in source order
// and indexed by name.
type Module struct {
	name         string
	language     Language
	oid          OID
	organization string
	contactInfo  string
	description  string
	revisions    []Revision

	nodes         []*Node
	objects       []*Object
	types         []*Type
	notifications []*Notification
	byName        map[string]*Node
}

// NewModule returns a Module shell for the resolver to populate.
func NewModule(name string) *Module {
	return &Module{name: name, byName: make(map[string]*Node)}
}

func (m *Module) Name() string          { return m.name }
func (m *Module) Language() Language    { return m.language }
func (m *Module) OID() OID              { return slices.Clone(m.oid) }
func (m *Module) Organization() string  { return m.organization }
func (m *Module) ContactInfo() string   { return m.contactInfo }
func (m *Module) Description() string   { return m.description }
func (m *Module) Revisions() []Revision { return slices.Clone(m.revisions) }

func (m *Module) Nodes() []*Node                 { return slices.Clone(m.nodes) }
func (m *Module) Objects() []*Object             { return slices.Clone(m.objects) }
func (m *Module) Types() []*Type                 { return slices.Clone(m.types) }
func (m *Module) Notifications() []*Notification { return slices.Clone(m.notifications) }

func (m *Module) Tables() []*Object  { return objectsByKind(m.objects, KindTable) }
func (m *Module) Scalars() []*Object { return objectsByKind(m.objects, KindScalar) }

// Node resolves a name defined by this module specifically.
func (m *Module) Node(name string) *Node { return m.byName[name] }

func (m *Module) SetLanguage(l Language)       { m.language = l }
func (m *Module) SetOID(oid OID)               { m.oid = oid }
func (m *Module) SetOrganization(org string)   { m.organization = org }
func (m *Module) SetContactInfo(info string)   { m.contactInfo = info }
func (m *Module) SetDescription(desc string)   { m.description = desc }
func (m *Module) SetRevisions(revs []Revision) { m.revisions = revs }

// AddNode records a node defined by this module, together with its
// attached entity if any.
func (m *Module) AddNode(n *Node) {
	m.nodes = append(m.nodes, n)
	if n.name != "" {
		m.byName[n.name] = n
	}
	if n.obj != nil {
		m.objects = append(m.objects, n.obj)
	}
	if n.notif != nil {
		m.notifications = append(m.notifications, n.notif)
	}
}

// AddType records a type defined by this module.
func (m *Module) AddType(t *Type) { m.types = append(m.types, t) }
