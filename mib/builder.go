package mib

// Builder is the resolver's write handle on a Mib under construction.
// Once Finish is called the Mib is handed to callers as read-only and
// the Builder is discarded.
type Builder struct {
	m *Mib
}

// NewBuilder starts an empty repository.
func NewBuilder() *Builder { return &Builder{m: newMib()} }

// Root returns the unnamed tree root.
func (b *Builder) Root() *Node { return b.m.root }

// GetOrCreateNode materializes the path to oid from the root and
// returns its final node.
func (b *Builder) GetOrCreateNode(oid OID) *Node {
	n := b.m.root
	for _, arc := range oid {
		n = n.GetOrCreateChild(arc)
	}
	return n
}

// RegisterNode indexes node under name for Mib.Node lookup. Duplicate
// names accumulate; lookup disambiguates.
func (b *Builder) RegisterNode(name string, node *Node) {
	b.m.registerNode(name, node)
}

// AddModule records a module shell.
func (b *Builder) AddModule(mod *Module) { b.m.addModule(mod) }

// AddType records a type in the global type table.
func (b *Builder) AddType(t *Type) { b.m.addType(t) }

// AddObject records a resolved OBJECT-TYPE.
func (b *Builder) AddObject(o *Object) { b.m.addObject(o) }

// AddNotification records a resolved notification.
func (b *Builder) AddNotification(n *Notification) { b.m.addNotification(n) }

// AddDiagnostic appends a problem report to the repository.
func (b *Builder) AddDiagnostic(d Diagnostic) {
	b.m.diagnostics = append(b.m.diagnostics, d)
}

// AddUnresolved records a definition whose parent never linked.
func (b *Builder) AddUnresolved(ref UnresolvedRef) {
	b.m.unresolved = append(b.m.unresolved, ref)
}

// Finish caches the node count and releases the built Mib.
func (b *Builder) Finish() *Mib {
	count := 0
	for range b.m.root.Subtree() {
		count++
	}
	b.m.nodeCount = count - 1 // the unnamed root is not a real node
	return b.m
}
