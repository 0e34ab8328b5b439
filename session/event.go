package session

import (
	"net"
	"sync"

	"github.com/golangsnmp/snmpcore/engine"
	"github.com/golangsnmp/snmpcore/pdu"
)

// EventKind names the session-level callback events of spec.md §6's
// binding table. Per-instance tree events (get/set/create/check/commit/
// rollback) are agent.EventKind, a separate table owned by the tree.
type EventKind int

const (
	EventSend EventKind = iota
	EventRecv
	EventBegin
	EventEnd
	EventTrap
	EventInform
)

func (k EventKind) String() string {
	switch k {
	case EventSend:
		return "send"
	case EventRecv:
		return "recv"
	case EventBegin:
		return "begin"
	case EventEnd:
		return "end"
	case EventTrap:
		return "trap"
	case EventInform:
		return "inform"
	default:
		return "unknown"
	}
}

// Event is the typed value a Binding receives, per spec.md §9's design
// note: "a typed Event{kind, pdu, instance, value, prior}" rendered for
// the session layer (no instance/value/prior here; those belong to
// agent.Event).
type Event struct {
	Kind    EventKind
	Session *Session
	Version engine.Version
	Peer    net.Addr
	PDU     *pdu.PDU
}

// Binding is a session-level callback. Unlike agent.Binding, it cannot
// veto processing: send/recv/begin/end/trap/inform are all observational.
type Binding func(*Event)

type bindingTable struct {
	mu       sync.RWMutex
	bindings map[EventKind][]Binding
}

func newBindingTable() *bindingTable {
	return &bindingTable{bindings: make(map[EventKind][]Binding)}
}

func (t *bindingTable) bind(kind EventKind, b Binding) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.bindings[kind] = append(t.bindings[kind], b)
}

func (t *bindingTable) fire(ev *Event) {
	t.mu.RLock()
	bindings := t.bindings[ev.Kind]
	t.mu.RUnlock()
	for _, b := range bindings {
		b(ev)
	}
}
