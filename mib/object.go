package mib

import "slices"

// Object is a resolved OBJECT-TYPE. Its syntax constraints live on the
// Type chain (an anonymous refinement when the definition carried
// inline restrictions), so the value-formatting and index helpers read
// them from Type rather than from a copy here.
type Object struct {
	name     string
	node     *Node
	module   *Module
	typ      *Type
	access   Access
	status   Status
	desc     string
	units    string
	defVal   DefVal
	augments *Object
	index    []IndexEntry
}

// NewObject returns an Object shell for the resolver to populate.
func NewObject(name string) *Object { return &Object{name: name} }

func (o *Object) Name() string         { return o.name }
func (o *Object) Node() *Node          { return o.node }
func (o *Object) Module() *Module      { return o.module }
func (o *Object) Type() *Type          { return o.typ }
func (o *Object) Access() Access       { return o.access }
func (o *Object) Status() Status       { return o.status }
func (o *Object) Description() string  { return o.desc }
func (o *Object) Units() string        { return o.units }
func (o *Object) Augments() *Object    { return o.augments }
func (o *Object) DefaultValue() DefVal { return o.defVal }

// Index returns the row's own INDEX clause entries.
func (o *Object) Index() []IndexEntry { return slices.Clone(o.index) }

// OID returns the object's tree position, nil while unlinked.
func (o *Object) OID() OID {
	if o == nil || o.node == nil {
		return nil
	}
	return o.node.OID()
}

// Kind returns the linked node's classification.
func (o *Object) Kind() Kind {
	if o.node == nil {
		return KindUnknown
	}
	return o.node.kind
}

func (o *Object) IsScalar() bool { return o.Kind() == KindScalar }
func (o *Object) IsTable() bool  { return o.Kind() == KindTable }
func (o *Object) IsRow() bool    { return o.Kind() == KindRow }
func (o *Object) IsColumn() bool { return o.Kind() == KindColumn }

// Row returns the conceptual row a column belongs to, or nil.
func (o *Object) Row() *Object {
	if o.Kind() != KindColumn || o.node.parent == nil {
		return nil
	}
	return o.node.parent.obj
}

// Table returns the enclosing table of a row or column, or nil.
func (o *Object) Table() *Object {
	row := o
	if o.Kind() == KindColumn {
		row = o.Row()
	}
	if row == nil || row.Kind() != KindRow || row.node.parent == nil {
		return nil
	}
	return row.node.parent.obj
}

// Entry returns a table's row object, or nil.
func (o *Object) Entry() *Object {
	if o.Kind() != KindTable {
		return nil
	}
	for _, c := range o.node.kids {
		if c.kind == KindRow && c.obj != nil {
			return c.obj
		}
	}
	return nil
}

// Columns returns a table's or row's column objects in arc order.
func (o *Object) Columns() []*Object {
	row := o
	if o.Kind() == KindTable {
		row = o.Entry()
	}
	if row == nil || row.Kind() != KindRow {
		return nil
	}
	var out []*Object
	for _, c := range row.node.kids {
		if c.kind == KindColumn && c.obj != nil {
			out = append(out, c.obj)
		}
	}
	return out
}

// EffectiveIndexes resolves a row's index columns, chasing AUGMENTS to
// the base row when the row has no INDEX of its own.
func (o *Object) EffectiveIndexes() []IndexEntry {
	seen := map[*Object]bool{}
	for row := o; row != nil && row.Kind() == KindRow && !seen[row]; row = row.augments {
		seen[row] = true
		if len(row.index) > 0 {
			return slices.Clone(row.index)
		}
	}
	return nil
}

func (o *Object) String() string {
	if o == nil {
		return "<nil>"
	}
	return o.name + " (" + o.OID().String() + ")"
}

// objectsByKind filters objs to those linked at nodes of the wanted kind.
func objectsByKind(objs []*Object, kind Kind) []*Object {
	var out []*Object
	for _, obj := range objs {
		if obj.Kind() == kind {
			out = append(out, obj)
		}
	}
	return out
}

// Setters used by the resolver while populating a freshly constructed
// Object.
func (o *Object) SetNode(n *Node)           { o.node = n }
func (o *Object) SetModule(m *Module)       { o.module = m }
func (o *Object) SetType(t *Type)           { o.typ = t }
func (o *Object) SetAccess(a Access)        { o.access = a }
func (o *Object) SetStatus(s Status)        { o.status = s }
func (o *Object) SetDescription(d string)   { o.desc = d }
func (o *Object) SetUnits(u string)         { o.units = u }
func (o *Object) SetDefaultValue(d DefVal)  { o.defVal = d }
func (o *Object) SetAugments(a *Object)     { o.augments = a }
func (o *Object) SetIndex(idx []IndexEntry) { o.index = idx }
