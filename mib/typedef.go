package mib

import "slices"

// Type is a named textual convention or an anonymous syntax refinement.
// Types chain through Parent down to a base SMI syntax; a refinement
// carries at most one restriction, discriminated by RestrictionKind:
// Bounds for SIZE/range, Named for enums/BITS.
type Type struct {
	name     string
	module   *Module
	base     BaseType
	parent   *Type
	status   Status
	hint     string
	desc     string
	isTC     bool
	restKind RestrictionKind
	bounds   []Range
	named    []NamedValue
}

// NewType returns a Type shell for the resolver to populate.
func NewType(name string) *Type { return &Type{name: name} }

// Name returns the type's descriptor, or "" for an anonymous refinement.
func (t *Type) Name() string { return t.name }

// Module returns the defining module.
func (t *Type) Module() *Module { return t.module }

// Base returns the directly declared base syntax; zero when inherited.
func (t *Type) Base() BaseType { return t.base }

// Parent returns the next type up the refinement chain, or nil.
func (t *Type) Parent() *Type { return t.parent }

func (t *Type) Status() Status      { return t.status }
func (t *Type) Description() string { return t.desc }

// DisplayHint returns the DISPLAY-HINT declared directly on this type.
func (t *Type) DisplayHint() string { return t.hint }

// IsTextualConvention reports whether the type came from a
// TEXTUAL-CONVENTION (as opposed to a plain type assignment or an
// anonymous refinement).
func (t *Type) IsTextualConvention() bool { return t.isTC }

// RestrictionKind returns which constraint, if any, this type declares
// directly.
func (t *Type) RestrictionKind() RestrictionKind { return t.restKind }

// Bounds returns the SIZE or range terms declared directly on this type.
func (t *Type) Bounds() []Range { return slices.Clone(t.bounds) }

// Named returns the enum or BITS label/value pairs declared directly on
// this type.
func (t *Type) Named() []NamedValue { return slices.Clone(t.named) }

// Enum resolves an enum or BITS label declared anywhere in the chain.
func (t *Type) Enum(label string) (NamedValue, bool) {
	for cur := t; cur != nil; cur = cur.parent {
		if v, ok := findNamedValue(cur.named, label); ok {
			return v, true
		}
	}
	return NamedValue{}, false
}

// chain walks t and its ancestors, calling pick on each until pick
// reports a hit.
func (t *Type) chain(pick func(*Type) bool) {
	for cur := t; cur != nil; cur = cur.parent {
		if pick(cur) {
			return
		}
	}
}

// EffectiveBase resolves the base syntax through the chain.
func (t *Type) EffectiveBase() BaseType {
	out := BaseUnknown
	t.chain(func(c *Type) bool { out = c.base; return c.base != BaseUnknown })
	return out
}

// EffectiveDisplayHint resolves the nearest DISPLAY-HINT in the chain.
func (t *Type) EffectiveDisplayHint() string {
	out := ""
	t.chain(func(c *Type) bool { out = c.hint; return c.hint != "" })
	return out
}

// effectiveRestriction returns the nearest link carrying a restriction
// of the wanted kind.
func (t *Type) effectiveRestriction(kind RestrictionKind) *Type {
	var hit *Type
	t.chain(func(c *Type) bool {
		if c.restKind == kind {
			hit = c
			return true
		}
		return false
	})
	return hit
}

// EffectiveSizes resolves the nearest SIZE restriction in the chain.
func (t *Type) EffectiveSizes() []Range {
	if c := t.effectiveRestriction(RestSize); c != nil {
		return slices.Clone(c.bounds)
	}
	return nil
}

// EffectiveRanges resolves the nearest value-range restriction in the
// chain.
func (t *Type) EffectiveRanges() []Range {
	if c := t.effectiveRestriction(RestRange); c != nil {
		return slices.Clone(c.bounds)
	}
	return nil
}

// EffectiveEnums resolves the nearest INTEGER enumeration in the chain.
func (t *Type) EffectiveEnums() []NamedValue {
	if c := t.effectiveRestriction(RestEnums); c != nil {
		return slices.Clone(c.named)
	}
	return nil
}

// EffectiveBits resolves the nearest BITS position list in the chain.
func (t *Type) EffectiveBits() []NamedValue {
	if c := t.effectiveRestriction(RestBits); c != nil {
		return slices.Clone(c.named)
	}
	return nil
}

func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	if t.name == "" {
		return t.EffectiveBase().String()
	}
	return t.name + " (" + t.EffectiveBase().String() + ")"
}

// Setters used by the resolver while populating a freshly constructed
// Type; a built Mib is treated as read-only afterwards.
func (t *Type) SetModule(m *Module)     { t.module = m }
func (t *Type) SetBase(b BaseType)      { t.base = b }
func (t *Type) SetParent(p *Type)       { t.parent = p }
func (t *Type) SetStatus(s Status)      { t.status = s }
func (t *Type) SetDisplayHint(h string) { t.hint = h }
func (t *Type) SetDescription(d string) { t.desc = d }
func (t *Type) SetTextualConvention()   { t.isTC = true }
func (t *Type) SetRestriction(kind RestrictionKind, bounds []Range, named []NamedValue) {
	t.restKind, t.bounds, t.named = kind, bounds, named
}
