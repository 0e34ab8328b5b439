package mib

// Range is one inclusive bound from a SIZE or range restriction; a
// single-value term ("127") has Min == Max.
type Range struct {
	Min int64
	Max int64
}

// Contains reports whether v falls inside any of the ranges.
func Contains(ranges []Range, v int64) bool {
	for _, r := range ranges {
		if v >= r.Min && v <= r.Max {
			return true
		}
	}
	return false
}

// NamedValue is one label(n) pair from an INTEGER enumeration or a
// BITS position list.
type NamedValue struct {
	Label string
	Value int64
}

func findNamedValue(values []NamedValue, label string) (NamedValue, bool) {
	for _, v := range values {
		if v.Label == label {
			return v, true
		}
	}
	return NamedValue{}, false
}

// IndexEntry is one column reference from a conceptual row's INDEX
// clause; Implied marks the IMPLIED prefix on the final entry.
type IndexEntry struct {
	Object  *Object
	Implied bool
}

// Revision is one REVISION clause of a MODULE-IDENTITY.
type Revision struct {
	Date        string
	Description string
}

// UnresolvedRef records a definition whose parent name never resolved
// during linking: the definition was parsed, but no node with that
// parent label was ever registered.
type UnresolvedRef struct {
	Name       string
	ParentName string
	Module     string
}

// TrapInfo carries the SMIv1 TRAP-TYPE fields a NOTIFICATION-TYPE has
// no slot for: the ENTERPRISE label's resolved OID and the trap's
// specific code, from which the v2 notification OID
// (enterprise.0.specificCode) is derived.
type TrapInfo struct {
	Enterprise   OID
	SpecificCode int64
}

// DefValKind discriminates which DEFVAL form a DefVal holds.
type DefValKind int

const (
	DefValNone DefValKind = iota
	DefValInteger
	DefValString
	DefValHexString
	DefValBinaryString
	DefValOID
	DefValEnum
	DefValBits
)

// DefVal is a resolved DEFVAL clause; only the fields matching Kind are
// meaningful, and the zero value means no clause was present.
type DefVal struct {
	Kind   DefValKind
	Int    int64
	Str    string
	OID    OID
	Labels []string // enum label (one) or BITS labels
}
