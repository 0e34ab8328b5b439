// Package resolver links parsed smi.Module records into one mib.Mib:
// it orders modules by their IMPORTS, grows the OID tree under the
// three synthetic roots, builds the type table, and attaches
// object/notification entities. Linking is a fixpoint over definitions
// whose parent labels are still strings — a pass that resolves nothing
// further stops, and whatever is left becomes an UnresolvedRef rather
// than a failure.
package resolver

import (
	"fmt"
	"log/slog"

	"github.com/golangsnmp/snmpcore/internal/smi"
	"github.com/golangsnmp/snmpcore/internal/types"
	"github.com/golangsnmp/snmpcore/mib"
)

// Options controls logging and diagnostic filtering.
type Options struct {
	Logger     *slog.Logger
	DiagConfig mib.DiagnosticConfig
}

// Source pairs a parsed module with its raw bytes, which DESCRIPTION
// spans index into.
type Source struct {
	Module *smi.Module
	Bytes  []byte
}

// pendingDef is one definition awaiting a linked parent.
type pendingDef struct {
	mod *smi.Module
	def smi.Def
}

type linker struct {
	opts Options
	log  types.Logger
	b    *mib.Builder

	shells   map[string]*mib.Module
	srcBytes map[string][]byte

	nodeByName map[string]*mib.Node
	typeByName map[string]*mib.Type
	objByName  map[string]*mib.Object
	baseTypes  map[mib.BaseType]*mib.Type

	// linked pairs each resolved def with its node for the entity and
	// per-module bookkeeping passes.
	linked []linkedDef
}

type linkedDef struct {
	mod  *smi.Module
	def  smi.Def
	node *mib.Node
}

// Resolve links sources into a single repository. It never returns
// nil: a wholly unresolvable input still yields the synthetic roots
// plus diagnostics describing what went wrong.
func Resolve(sources []Source, opts Options) *mib.Mib {
	lk := &linker{
		opts:       opts,
		log:        types.Logger{L: opts.Logger},
		b:          mib.NewBuilder(),
		shells:     make(map[string]*mib.Module),
		srcBytes:   make(map[string][]byte),
		nodeByName: make(map[string]*mib.Node),
		typeByName: make(map[string]*mib.Type),
		objByName:  make(map[string]*mib.Object),
		baseTypes:  make(map[mib.BaseType]*mib.Type),
	}

	lk.plantRoots()
	ordered := importOrder(sources)
	for _, src := range ordered {
		lk.registerShell(src)
	}
	lk.resolveTypes(ordered)
	lk.linkNodes(ordered)
	lk.attachObjects()
	lk.resolveIndexes()
	lk.attachNotifications()
	lk.finishModules()
	m := lk.b.Finish()
	lk.log.Debug("resolved modules",
		slog.Int("modules", len(ordered)),
		slog.Int("nodes", m.NodeCount()),
		slog.Int("unresolved", len(m.Unresolved())))
	return m
}

// plantRoots creates and names ccitt(0), iso(1) and joint-iso-ccitt(2).
func (lk *linker) plantRoots() {
	for _, root := range []struct {
		name string
		arc  uint32
	}{{"ccitt", 0}, {"iso", 1}, {"joint-iso-ccitt", 2}} {
		n := lk.b.Root().GetOrCreateChild(root.arc)
		n.SetName(root.name)
		n.SetKind(mib.KindNode)
		lk.b.RegisterNode(root.name, n)
		lk.nodeByName[root.name] = n
	}
}

// importOrder sorts sources so imports precede importers, tolerating
// cycles and imports of absent modules.
func importOrder(sources []Source) []Source {
	byName := make(map[string]Source, len(sources))
	for _, s := range sources {
		byName[s.Module.Name] = s
	}
	var out []Source
	state := make(map[string]int) // 1 = visiting, 2 = done
	var visit func(s Source)
	visit = func(s Source) {
		switch state[s.Module.Name] {
		case 1, 2:
			return
		}
		state[s.Module.Name] = 1
		for _, imp := range s.Module.Imports {
			if dep, ok := byName[imp.From]; ok {
				visit(dep)
			}
		}
		state[s.Module.Name] = 2
		out = append(out, s)
	}
	for _, s := range sources {
		visit(s)
	}
	return out
}

func (lk *linker) registerShell(src Source) {
	m := src.Module
	shell := mib.NewModule(m.Name)
	shell.SetLanguage(m.Language)
	lk.shells[m.Name] = shell
	lk.srcBytes[m.Name] = src.Bytes
	lk.b.AddModule(shell)
	for _, d := range m.Diags {
		lk.b.AddDiagnostic(d)
	}
}

func (lk *linker) diag(mod string, line int, sev mib.Severity, code, format string, args ...any) {
	if !lk.opts.DiagConfig.ShouldReport(code, sev) {
		return
	}
	lk.b.AddDiagnostic(mib.Diagnostic{
		Severity: sev,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Module:   mod,
		Line:     line,
	})
}

// baseType returns the shared anonymous Type for a builtin base syntax.
func (lk *linker) baseType(base mib.BaseType) *mib.Type {
	if t, ok := lk.baseTypes[base]; ok {
		return t
	}
	t := mib.NewType(base.String())
	t.SetBase(base)
	lk.baseTypes[base] = t
	lk.b.AddType(t)
	return t
}

// resolveTypes builds the type table: one pass per module in import
// order, then a fixpoint for forward references within a module.
func (lk *linker) resolveTypes(ordered []Source) {
	type pendingType struct {
		mod *smi.Module
		td  smi.TypeDef
		t   *mib.Type
	}
	var pending []pendingType

	for _, src := range ordered {
		shell := lk.shells[src.Module.Name]
		for _, td := range src.Module.Types {
			t := mib.NewType(td.Name)
			t.SetModule(shell)
			t.SetStatus(td.Status)
			t.SetDisplayHint(td.Hint)
			t.SetDescription(td.Desc.Text(lk.srcBytes[src.Module.Name]))
			if td.IsTC {
				t.SetTextualConvention()
			}
			t.SetRestriction(td.Syntax.RestKind, td.Syntax.Bounds, td.Syntax.Named)
			switch {
			case td.Syntax.Name != "":
				pending = append(pending, pendingType{src.Module, td, t})
			case td.Syntax.Base != mib.BaseUnknown:
				t.SetBase(td.Syntax.Base)
			default:
				lk.diag(src.Module.Name, td.Line, mib.SeverityError, types.DiagUnknownTypeSyntax,
					"type %s has no resolvable syntax", td.Name)
			}
			if lk.typeByName[td.Name] == nil {
				lk.typeByName[td.Name] = t
			}
			lk.b.AddType(t)
			shell.AddType(t)
		}
	}

	for progress := true; progress; {
		progress = false
		rest := pending[:0]
		for _, pt := range pending {
			if parent := lk.typeByName[pt.td.Syntax.Name]; parent != nil {
				pt.t.SetParent(parent)
				progress = true
			} else {
				rest = append(rest, pt)
			}
		}
		pending = rest
	}
	for _, pt := range pending {
		lk.diag(pt.mod.Name, pt.td.Line, mib.SeverityError, types.DiagTypeUnknown,
			"type %s refers to unknown type %s", pt.td.Name, pt.td.Syntax.Name)
	}
}

// linkNodes grows the OID tree: repeated passes over the pending
// definitions until none resolves further.
func (lk *linker) linkNodes(ordered []Source) {
	var pending []pendingDef
	for _, src := range ordered {
		for _, def := range src.Module.Defs {
			pending = append(pending, pendingDef{src.Module, def})
		}
	}

	for progress := true; progress; {
		progress = false
		rest := pending[:0]
		for _, pd := range pending {
			if lk.linkOne(pd.mod, pd.def) {
				progress = true
			} else {
				rest = append(rest, pd)
			}
		}
		pending = rest
	}

	for _, pd := range pending {
		parent := pd.def.Enterprise
		if parent == "" && len(pd.def.OID) > 0 {
			parent = pd.def.OID[0].Label
		}
		lk.b.AddUnresolved(mib.UnresolvedRef{
			Name:       pd.def.Name,
			ParentName: parent,
			Module:     pd.mod.Name,
		})
		lk.diag(pd.mod.Name, pd.def.Line, mib.SeverityError, types.DiagOidOrphan,
			"%s: parent %q never resolved", pd.def.Name, parent)
	}
}

// linkOne tries to place one definition, reporting whether it landed.
func (lk *linker) linkOne(mod *smi.Module, def smi.Def) bool {
	if def.Kind == smi.DefTrapType {
		return lk.linkTrap(mod, def)
	}

	first := def.OID[0]
	cur := lk.nodeByName[first.Label]
	switch {
	case cur != nil:
		// Parent resolved by label; a contradictory explicit arc is a
		// vendor bug worth flagging but not fatal.
		if first.HasArc && cur.Arc() != first.Arc && cur.Parent() != nil {
			lk.diag(mod.Name, def.Line, mib.SeverityWarning, types.DiagOidMismatch,
				"%s: %s is arc %d, not %d", def.Name, first.Label, cur.Arc(), first.Arc)
		}
	case first.HasArc:
		// Arc-qualified unknown label roots itself at the top level.
		cur = lk.b.Root().GetOrCreateChild(first.Arc)
		lk.noteName(cur, first.Label)
	default:
		return false // retry once the parent label exists
	}

	for _, part := range def.OID[1:] {
		if !part.HasArc {
			// An intermediate bare label cannot be positioned; resolve
			// it only if already known, else give up on the def.
			known := lk.nodeByName[part.Label]
			if known == nil {
				return false
			}
			cur = known
			continue
		}
		cur = cur.GetOrCreateChild(part.Arc)
		if part.Label != "" {
			lk.noteName(cur, part.Label)
		}
	}

	lk.place(mod, def, cur)
	return true
}

// linkTrap places a v1 TRAP-TYPE: `<enterprise>.0.<code>`, naming the
// sub-id-0 child "<enterprise>Traps" when it has no name yet so the
// v1-to-v2 notification OID mapping is well defined.
func (lk *linker) linkTrap(mod *smi.Module, def smi.Def) bool {
	ent := lk.nodeByName[def.Enterprise]
	if ent == nil {
		return false
	}
	traps := ent.GetOrCreateChild(0)
	if traps.Name() == "" {
		lk.noteName(traps, def.Enterprise+"Traps")
		traps.SetKind(mib.KindNode)
	}
	node := traps.GetOrCreateChild(uint32(def.SpecificCode))
	lk.place(mod, def, node)
	return true
}

// place finalizes a resolved definition's node.
func (lk *linker) place(mod *smi.Module, def smi.Def, node *mib.Node) {
	lk.noteName(node, def.Name)
	node.SetModule(lk.shells[mod.Name])
	switch def.Kind {
	case smi.DefObjectType:
		node.SetKind(mib.KindScalar) // refined by attachObjects
	case smi.DefNotificationType, smi.DefTrapType:
		node.SetKind(mib.KindNotification)
	case smi.DefObjectGroup, smi.DefNotificationGroup:
		node.SetKind(mib.KindGroup)
	case smi.DefModuleCompliance:
		node.SetKind(mib.KindCompliance)
	case smi.DefAgentCapabilities:
		node.SetKind(mib.KindCapabilities)
	default:
		node.SetKind(mib.KindNode)
	}
	if def.Kind == smi.DefModuleIdentity {
		shell := lk.shells[mod.Name]
		shell.SetOID(node.OID())
		shell.SetOrganization(def.Organization)
		shell.SetContactInfo(def.ContactInfo)
		shell.SetDescription(def.Desc.Text(lk.srcBytes[mod.Name]))
		shell.SetRevisions(def.Revisions)
	}
	lk.linked = append(lk.linked, linkedDef{mod, def, node})
}

// noteName names a node (first writer wins) and indexes it.
func (lk *linker) noteName(n *mib.Node, name string) {
	if n.Name() == "" {
		n.SetName(name)
	}
	if lk.nodeByName[name] == nil {
		lk.nodeByName[name] = n
	}
	lk.b.RegisterNode(name, n)
}

// attachObjects builds the Object entity for every OBJECT-TYPE and
// classifies its node as scalar/table/row/column.
func (lk *linker) attachObjects() {
	for _, ld := range lk.linked {
		if ld.def.Kind != smi.DefObjectType {
			continue
		}
		def, node := ld.def, ld.node
		obj := mib.NewObject(def.Name)
		obj.SetNode(node)
		obj.SetModule(lk.shells[ld.mod.Name])
		obj.SetAccess(def.Access)
		obj.SetStatus(def.Status)
		obj.SetDescription(def.Desc.Text(lk.srcBytes[ld.mod.Name]))
		obj.SetUnits(def.Units)
		if def.DefVal != nil {
			obj.SetDefaultValue(*def.DefVal)
		}
		typ := lk.objectType(ld.mod, def)
		obj.SetType(typ)
		node.SetObject(obj)
		node.SetKind(classify(def, typ, node))
		lk.b.AddObject(obj)
		if lk.objByName[def.Name] == nil {
			lk.objByName[def.Name] = obj
		}
	}
}

// objectType resolves an OBJECT-TYPE's SYNTAX into a Type chain,
// wrapping inline restrictions in an anonymous refinement.
func (lk *linker) objectType(mod *smi.Module, def smi.Def) *mib.Type {
	syntax := def.Syntax
	if syntax == nil {
		lk.diag(mod.Name, def.Line, mib.SeverityError, types.DiagUnknownTypeSyntax,
			"%s has no SYNTAX clause", def.Name)
		return nil
	}
	var parent *mib.Type
	switch {
	case syntax.OfType != "":
		return lk.baseType(mib.BaseSequence)
	case syntax.Name != "":
		parent = lk.typeByName[syntax.Name]
		if parent == nil {
			lk.diag(mod.Name, def.Line, mib.SeverityError, types.DiagTypeUnknown,
				"%s: unknown type %s", def.Name, syntax.Name)
			return nil
		}
	default:
		parent = lk.baseType(syntax.Base)
	}
	if syntax.RestKind == mib.RestNone {
		return parent
	}
	refined := mib.NewType("")
	refined.SetParent(parent)
	refined.SetRestriction(syntax.RestKind, syntax.Bounds, syntax.Named)
	lk.b.AddType(refined)
	return refined
}

// classify derives the node kind from the resolved type and position:
// SEQUENCE OF is a table, a SEQUENCE-typed object its row, a child of
// a row a column.
func classify(def smi.Def, typ *mib.Type, node *mib.Node) mib.Kind {
	switch {
	case def.Syntax != nil && def.Syntax.OfType != "":
		return mib.KindTable
	case typ != nil && typ.EffectiveBase() == mib.BaseSequence:
		return mib.KindRow
	case node.Parent() != nil && node.Parent().Kind() == mib.KindRow:
		return mib.KindColumn
	default:
		return mib.KindScalar
	}
}

// resolveIndexes runs after every object exists so an INDEX clause can
// name a column defined later in its file (or another module), and
// chases AUGMENTS the same way.
func (lk *linker) resolveIndexes() {
	for _, ld := range lk.linked {
		if ld.def.Kind != smi.DefObjectType {
			continue
		}
		obj := ld.node.Object()
		if obj == nil {
			continue
		}
		if ld.def.Augments != "" {
			if base := lk.objByName[ld.def.Augments]; base != nil {
				obj.SetAugments(base)
			} else {
				lk.diag(ld.mod.Name, ld.def.Line, mib.SeverityError, types.DiagIndexUnresolved,
					"%s AUGMENTS unknown row %s", ld.def.Name, ld.def.Augments)
			}
		}
		if len(ld.def.Index) == 0 {
			continue
		}
		entries := make([]mib.IndexEntry, 0, len(ld.def.Index))
		for _, ref := range ld.def.Index {
			col := lk.objByName[ref.Name]
			if col == nil {
				lk.diag(ld.mod.Name, ld.def.Line, mib.SeverityError, types.DiagIndexUnresolved,
					"%s INDEX names unknown column %s", ld.def.Name, ref.Name)
				continue
			}
			entries = append(entries, mib.IndexEntry{Object: col, Implied: ref.Implied})
		}
		obj.SetIndex(entries)
	}
}

// attachNotifications builds the Notification entities, including the
// TrapInfo for v1 TRAP-TYPEs.
func (lk *linker) attachNotifications() {
	for _, ld := range lk.linked {
		if ld.def.Kind != smi.DefNotificationType && ld.def.Kind != smi.DefTrapType {
			continue
		}
		notif := mib.NewNotification(ld.def.Name)
		notif.SetNode(ld.node)
		notif.SetModule(lk.shells[ld.mod.Name])
		notif.SetStatus(ld.def.Status)
		notif.SetDescription(ld.def.Desc.Text(lk.srcBytes[ld.mod.Name]))
		for _, name := range ld.def.Objects {
			if obj := lk.objByName[name]; obj != nil {
				notif.AddObject(obj)
			} else {
				lk.diag(ld.mod.Name, ld.def.Line, mib.SeverityWarning, types.DiagObjectsUnresolved,
					"%s names unknown object %s", ld.def.Name, name)
			}
		}
		if ld.def.Kind == smi.DefTrapType {
			var entOID mib.OID
			if ent := lk.nodeByName[ld.def.Enterprise]; ent != nil {
				entOID = ent.OID()
			}
			notif.SetTrapInfo(&mib.TrapInfo{Enterprise: entOID, SpecificCode: ld.def.SpecificCode})
		}
		ld.node.SetNotification(notif)
		lk.b.AddNotification(notif)
	}
}

// finishModules records each module's per-module node view once all
// entities are attached.
func (lk *linker) finishModules() {
	done := make(map[*mib.Node]map[string]bool)
	for _, ld := range lk.linked {
		shell := lk.shells[ld.mod.Name]
		seen := done[ld.node]
		if seen == nil {
			seen = make(map[string]bool)
			done[ld.node] = seen
		}
		if !seen[ld.mod.Name] {
			seen[ld.mod.Name] = true
			shell.AddNode(ld.node)
		}
	}
}
