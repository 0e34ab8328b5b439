package mib

import "slices"

// Notification is a resolved NOTIFICATION-TYPE, or a TRAP-TYPE mapped
// onto the v2 notification model (TrapInfo carries the SMIv1 leftovers).
type Notification struct {
	name    string
	node    *Node
	module  *Module
	status  Status
	desc    string
	objects []*Object
	trap    *TrapInfo
}

// NewNotification returns a Notification shell for the resolver to
// populate.
func NewNotification(name string) *Notification { return &Notification{name: name} }

func (n *Notification) Name() string        { return n.name }
func (n *Notification) Node() *Node         { return n.node }
func (n *Notification) Module() *Module     { return n.module }
func (n *Notification) Status() Status      { return n.status }
func (n *Notification) Description() string { return n.desc }

// Objects returns the OBJECTS (or v1 VARIABLES) clause entries: the
// varbinds this notification carries.
func (n *Notification) Objects() []*Object { return slices.Clone(n.objects) }

// TrapInfo returns the SMIv1 TRAP-TYPE fields, nil for an SMIv2
// definition.
func (n *Notification) TrapInfo() *TrapInfo { return n.trap }

// OID returns the notification's tree position, nil while unlinked.
func (n *Notification) OID() OID {
	if n == nil || n.node == nil {
		return nil
	}
	return n.node.OID()
}

func (n *Notification) String() string {
	if n == nil {
		return "<nil>"
	}
	return n.name + " (" + n.OID().String() + ")"
}

// Setters used by the resolver while populating a freshly constructed
// Notification.
func (n *Notification) SetNode(nd *Node)        { n.node = nd }
func (n *Notification) SetModule(m *Module)     { n.module = m }
func (n *Notification) SetStatus(s Status)      { n.status = s }
func (n *Notification) SetDescription(d string) { n.desc = d }
func (n *Notification) AddObject(o *Object)     { n.objects = append(n.objects, o) }
func (n *Notification) SetTrapInfo(t *TrapInfo) { n.trap = t }
