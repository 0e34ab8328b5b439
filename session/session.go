// Package session implements the session surface spec.md §2 names as a
// top-level component but leaves undetailed in §4: per-application
// configuration, the event binding table, callback template
// substitution, and construction of the four application types
// (generator, responder, notifier, listener) that wire together the
// message engine, request tracker, transport and (for a responder) the
// agent instance tree. Grounded in damianoneill-net's Session interface
// (Get/GetNext/GetBulk/Walk/BulkWalk) and
// kazuyuki114-snmp_collector's poller/session.go (per-target session
// lifecycle, window-limited outstanding requests).
package session

import (
	"context"
	"sync"
	"time"

	"github.com/golangsnmp/snmpcore/engine"
	"github.com/golangsnmp/snmpcore/transport"
)

// Session is the state shared by every application type: its
// configuration, the message engine it was built against, its wire
// transport, and its own binding table (spec.md §3: "each session owns
// its binding table, its outstanding request list entries, and (for
// responder/listener) its bound socket").
type Session struct {
	Name string

	cfg      Config
	engine   *engine.Engine
	wire     transport.Transport
	bindings *bindingTable
	closeCh  chan struct{}
	start    time.Time
	v3       v3State
}

func newSession(name string, cfg Config, wire transport.Transport, eng *engine.Engine) *Session {
	s := &Session{
		Name:     name,
		cfg:      cfg,
		engine:   eng,
		wire:     wire,
		bindings: newBindingTable(),
		closeCh:  make(chan struct{}),
		start:    time.Now(),
	}
	s.v3.engineID = cfg.ContextEngineID
	s.v3.boots = cfg.EngineBoots
	s.v3.engineTime = cfg.EngineTime
	eng.Tracker.SetWindow(s.sessionKey(), cfg.window())
	return s
}

// v3State caches the authoritative engine identity and time window a
// manager-side session learned through discovery, mutable separately
// from the immutable Config (spec.md §4.4's inbound Report handling).
type v3State struct {
	mu         sync.Mutex
	engineID   string
	boots      int32
	engineTime int32
}

func (v *v3State) snapshot() (engineID string, boots, engineTime int32) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.engineID, v.boots, v.engineTime
}

// adopt updates the cached engine identity and time window from a
// peer's authoritative values, if newer than what is held.
func (v *v3State) adopt(usmp engine.UsmParams) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if usmp.EngineID != "" && usmp.EngineID != v.engineID {
		v.engineID = usmp.EngineID
		v.boots = usmp.EngineBoots
		v.engineTime = usmp.EngineTime
		return
	}
	if usmp.EngineBoots > v.boots || (usmp.EngineBoots == v.boots && usmp.EngineTime > v.engineTime) {
		v.boots = usmp.EngineBoots
		v.engineTime = usmp.EngineTime
	}
}

// uptimeTicks returns centiseconds since this session was created, the
// TimeTicks unit spec.md §6 specifies for sysUpTime and v1 Trap-PDU
// timestamps.
func (s *Session) uptimeTicks() uint32 {
	return uint32(time.Since(s.start).Milliseconds() / 10)
}

// sessionKey is this session's identity in the process-wide request
// tracker: the *Session pointer itself, unique per session.
func (s *Session) sessionKey() any { return s }

// Bind registers a callback for kind. Bindings fire in registration
// order and cannot veto session-level processing.
func (s *Session) Bind(kind EventKind, b Binding) {
	s.bindings.bind(kind, b)
}

func (s *Session) fire(kind EventKind, ev *Event) {
	ev.Kind = kind
	ev.Session = s
	s.bindings.fire(ev)
}

// Wait blocks until every outstanding request on this session has
// completed, or ctx is done — spec.md §5's explicit wait operation.
func (s *Session) Wait(ctx context.Context) error {
	for s.engine.Tracker.Outstanding(s.sessionKey()) > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(10 * time.Millisecond):
		}
	}
	return nil
}

// Close cancels every outstanding request on this session and closes its
// transport.
func (s *Session) Close() error {
	close(s.closeCh)
	s.engine.Tracker.CancelSession(s.sessionKey())
	return s.wire.Close()
}
