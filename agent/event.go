package agent

import (
	"github.com/golangsnmp/snmpcore/mib"
	"github.com/golangsnmp/snmpcore/pdu"
)

// EventKind names the per-instance binding events of spec.md §6:
// get, set, create, check, commit, rollback.
type EventKind int

const (
	EventGet EventKind = iota
	EventSet
	EventCreate
	EventCheck
	EventCommit
	EventRollback
)

func (k EventKind) String() string {
	switch k {
	case EventGet:
		return "get"
	case EventSet:
		return "set"
	case EventCreate:
		return "create"
	case EventCheck:
		return "check"
	case EventCommit:
		return "commit"
	case EventRollback:
		return "rollback"
	default:
		return "unknown"
	}
}

// Event is the typed payload delivered to a binding, spec.md §9 Design
// Notes' "typed Event{kind, pdu, instance, value, prior}". The `%X`
// template substitution table spec.md §6 defines is a concern of the
// session package, not this one.
type Event struct {
	Kind     EventKind
	OID      mib.OID
	PDU      *pdu.PDU
	Value    pdu.Value
	Prior    pdu.Value
	HasPrior bool
}

// Binding is a callable handler fired for one EventKind on one
// Instance. Returning a non-nil error aborts the enclosing request with
// genErr unless the error is (or wraps) a BindingError naming a specific
// v1/v2+ code.
type Binding func(*Event) error

// BindingError lets a binding name a specific v1/v2+ error-status
// instead of the default genErr, per spec.md §7's propagation policy.
type BindingError struct {
	Status pdu.ErrorStatus
	Msg    string
}

func (e *BindingError) Error() string { return e.Msg }
