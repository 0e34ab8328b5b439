// Package engine implements the transport-agnostic SNMP message engine of
// spec.md §4.4: PDU assembly/disassembly, the v1/v2c/v3 wire envelopes,
// USM authentication, v1-trap canonicalization, and the dispatch of an
// inbound message to the right application. spec.md §9's "global mutable
// state becomes an explicit Engine value" is this type: the MIB
// repository, request tracker and packet counters a host threads through
// every send/receive instead of reaching into package-level globals.
package engine

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/golangsnmp/snmpcore/internal/types"
	"github.com/golangsnmp/snmpcore/mib"
	"github.com/golangsnmp/snmpcore/request"
	"github.com/golangsnmp/snmpcore/usm"
)

// Version is the SNMP protocol version, using the wire INTEGER values
// RFC 3411 assigns (v1=0, v2c=1, v3=3).
type Version int32

const (
	V1  Version = 0
	V2c Version = 1
	V3  Version = 3
)

func (v Version) String() string {
	switch v {
	case V1:
		return "v1"
	case V2c:
		return "v2c"
	case V3:
		return "v3"
	default:
		return "unknown"
	}
}

// Counters backs the SNMP-MIB group spec.md §6 says a responder
// auto-populates (snmpInPkts.0, snmpOutPkts.0, ...). The message engine
// updates these unconditionally on every send/receive so a responder's
// instance tree can wire them in without the engine depending on the
// agent package, per SPEC_FULL.md §5.4.
type Counters struct {
	InPkts          atomic.Int64
	OutPkts         atomic.Int64
	InGetRequests   atomic.Int64
	InGetNexts      atomic.Int64
	InSetRequests   atomic.Int64
	InGetResponses  atomic.Int64
	InTraps         atomic.Int64
	OutGetResponses atomic.Int64
	OutTraps        atomic.Int64

	InTooBigs           atomic.Int64
	InBadCommunityNames atomic.Int64
	InASNParseErrs      atomic.Int64
	InTotalReqVars      atomic.Int64
	InTotalSetVars      atomic.Int64
	OutGenErrs          atomic.Int64

	UsmStatsUnsupportedSecLevels atomic.Int64
	UsmStatsNotInTimeWindows     atomic.Int64
	UsmStatsUnknownUserNames     atomic.Int64
	UsmStatsUnknownEngineIDs     atomic.Int64
	UsmStatsWrongDigests         atomic.Int64
}

// Engine is the per-process (or per-host-embedding) handle threading the
// shared MIB repository, request tracker, USM key cache and packet
// counters through every message-engine operation.
type Engine struct {
	Mib      *mib.Mib
	Tracker  *request.Tracker
	Keys     *usm.KeyStore
	Counters *Counters
	Cache    *request.ResponseCache
	Logger   types.Logger

	paceMu   sync.Mutex
	lastSend time.Time
}

// Pace enforces spec.md §4.4's inter-request pacing: if less than delay
// has elapsed since the previous send on any session sharing this
// Engine, sleep the difference. A delay <= 0 is a no-op.
func (e *Engine) Pace(delay time.Duration) {
	if delay <= 0 {
		return
	}
	e.paceMu.Lock()
	now := time.Now()
	next := e.lastSend.Add(delay)
	if now.Before(next) {
		e.lastSend = next
		e.paceMu.Unlock()
		time.Sleep(next.Sub(now))
		return
	}
	e.lastSend = now
	e.paceMu.Unlock()
}

// New returns an Engine wired to mb (which may be nil for a pure
// command-generator embedding with no local instance tree), with a fresh
// tracker, USM key cache and counters.
func New(mb *mib.Mib, logger *slog.Logger) *Engine {
	return &Engine{
		Mib:      mb,
		Tracker:  request.NewTracker(),
		Keys:     usm.NewKeyStore(),
		Counters: &Counters{},
		Cache:    request.NewResponseCache(),
		Logger:   types.Logger{L: logger},
	}
}
