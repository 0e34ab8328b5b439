package session

import (
	"context"
	"fmt"
	"log/slog"
	"net"

	"github.com/golangsnmp/snmpcore/agent"
	"github.com/golangsnmp/snmpcore/engine"
	"github.com/golangsnmp/snmpcore/pdu"
	"github.com/golangsnmp/snmpcore/transport"
	"github.com/golangsnmp/snmpcore/usm"
)

// Responder is a command-responder application: it answers
// Get/GetNext/GetBulk/SetRequest PDUs against its configured agent.Tree
// and auto-populates the standard instances spec.md §6 names.
type Responder struct {
	*Session
	tree *agent.Tree
}

// NewResponder wires cfg's transport and tree into a ready-to-use
// responder and starts serving requests in the background.
func NewResponder(name string, cfg Config, wire transport.Transport, eng *engine.Engine) (*Responder, error) {
	if cfg.Tree == nil {
		cfg.Tree = agent.NewTree()
	}
	s := newSession(name, cfg, wire, eng)
	registerStandardInstances(cfg.Tree, eng, cfg, s.start)
	r := &Responder{Session: s, tree: cfg.Tree}
	go r.serve()
	return r, nil
}

func (r *Responder) serve() {
	for {
		select {
		case dg, ok := <-r.wire.Receive():
			if !ok {
				return
			}
			r.handle(dg)
		case <-r.closeCh:
			return
		}
	}
}

// requestFingerprint summarizes a request's content for the at-most-once
// cache's retransmission check (spec.md §4.5, testable property 7): two
// messages with the same (peer, request-id) are the same request only if
// their type and varbind list also match.
func requestFingerprint(p *pdu.PDU) string {
	return fmt.Sprintf("%d:%v", p.Type, p.Varbinds)
}

func (r *Responder) handle(dg transport.Datagram) {
	env, err := engine.DecodeEnvelope(dg.Data)
	if err != nil {
		r.engine.Counters.InASNParseErrs.Add(1)
		return
	}
	env.PDU.Peer = dg.Addr
	r.engine.RecordInbound(env.PDU)
	r.fire(EventRecv, &Event{PDU: env.PDU, Peer: dg.Addr, Version: env.Version})
	r.fire(EventBegin, &Event{PDU: env.PDU, Peer: dg.Addr, Version: env.Version})

	if ok, usmErr := r.authenticate(env); !ok {
		if usmErr != nil && env.Reportable() {
			report := engine.BuildReport(env.PDU.RequestID, usmErr, usmCounterValue(r.engine, usmErr))
			r.reply(dg.Addr, env, report, false)
		}
		return
	}

	// A retransmission of an already-answered request is replayed from
	// cache before anything else, so a repeated set never re-fires its
	// handlers (spec.md §8 property 7). Only then does a fresh set clear
	// the peer's remaining cached responses.
	peer := dg.Addr.String()
	fp := requestFingerprint(env.PDU)
	if cached, ok := r.engine.Cache.Lookup(peer, env.PDU.RequestID, fp); ok {
		_ = r.wire.Send(context.Background(), dg.Addr, cached)
		return
	}
	if env.PDU.Type == pdu.TypeSet {
		r.engine.Cache.ClearOnSet(peer)
	}

	var resp *pdu.PDU
	switch env.PDU.Type {
	case pdu.TypeGet:
		resp = r.tree.ProcessGet(env.Version, env.PDU)
	case pdu.TypeGetNext:
		resp = r.tree.ProcessGetNext(env.Version, env.PDU)
	case pdu.TypeGetBulk:
		resp = r.tree.ProcessGetBulk(env.PDU)
	case pdu.TypeSet:
		resp = r.tree.ProcessSet(env.Version, env.PDU)
	case pdu.TypeInform:
		resp = &pdu.PDU{Type: pdu.TypeResponse, RequestID: env.PDU.RequestID}
		r.fire(EventInform, &Event{PDU: env.PDU, Peer: dg.Addr, Version: env.Version})
	default:
		return
	}
	r.fire(EventEnd, &Event{PDU: resp, Peer: dg.Addr, Version: env.Version})
	if msg := r.reply(dg.Addr, env, resp, true); msg != nil && env.PDU.Type != pdu.TypeInform {
		r.engine.Cache.Store(peer, env.PDU.RequestID, fp, msg)
	}
}

// authenticate runs the v1/v2c community check or the v3/USM
// authenticity checks of spec.md §7 against env. ok is false if the
// request must be silently dropped (bad community, or a USM failure
// whose REPORT the caller will send only if the message was marked
// reportable).
func (r *Responder) authenticate(env *engine.Envelope) (ok bool, usmErr *engine.USMError) {
	switch env.Version {
	case engine.V1, engine.V2c:
		if err := r.engine.CheckCommunity(env, r.cfg.Community); err != nil {
			return false, nil
		}
		return true, nil
	default:
		knownUser := env.Usm.UserName == r.cfg.UserName
		var key []byte
		if knownUser {
			key = r.engine.Keys.LocalizedKey(r.cfg.AuthProtocol, r.cfg.AuthPassword, env.Usm.EngineID)
		}
		if usmErr := r.engine.VerifyUSM(env, knownUser, r.cfg.SecurityLevel, r.cfg.AuthProtocol, key, r.cfg.EngineBoots, r.cfg.EngineTime); usmErr != nil {
			return false, usmErr
		}
		return true, nil
	}
}

func usmCounterValue(eng *engine.Engine, usmErr *engine.USMError) int64 {
	switch usmErr.Kind {
	case "unknownUserName":
		return eng.Counters.UsmStatsUnknownUserNames.Load()
	case "unsupportedSecurityLevel":
		return eng.Counters.UsmStatsUnsupportedSecLevels.Load()
	case "unknownEngineID":
		return eng.Counters.UsmStatsUnknownEngineIDs.Load()
	case "wrongDigest":
		return eng.Counters.UsmStatsWrongDigests.Load()
	case "notInTimeWindow":
		return eng.Counters.UsmStatsNotInTimeWindows.Load()
	default:
		return 0
	}
}

// reply encodes resp using env's version/security context, sends it back
// to addr, and returns the encoded bytes (nil on encode failure). A v3
// reply always carries this responder's own authoritative engine
// identity and time window, so a discovery probe's REPORT teaches the
// requester both; authenticate is false for REPORTs, whose requester
// has no localized key yet.
func (r *Responder) reply(addr net.Addr, env *engine.Envelope, resp *pdu.PDU, authenticate bool) []byte {
	resp.RequestID = env.PDU.RequestID
	r.engine.RecordOutbound(resp)

	var msg []byte
	var err error
	switch env.Version {
	case engine.V1, engine.V2c:
		msg, err = engine.EncodeV1V2c(env.Version, env.Community, resp)
	default:
		var authKey []byte
		if authenticate && r.cfg.SecurityLevel == usm.LevelAuth {
			authKey = r.engine.Keys.LocalizedKey(r.cfg.AuthProtocol, r.cfg.AuthPassword, r.cfg.ContextEngineID)
		}
		usmp := engine.UsmParams{
			EngineID:    r.cfg.ContextEngineID,
			EngineBoots: r.cfg.EngineBoots,
			EngineTime:  r.cfg.EngineTime,
			UserName:    env.Usm.UserName,
		}
		msg, err = engine.EncodeV3(env.MsgID, usmp, false, r.cfg.AuthProtocol, authKey, r.cfg.ContextEngineID, env.ContextName, resp)
	}
	if err != nil {
		r.engine.Logger.Warn("session: encode response", slog.Any("error", err))
		return nil
	}
	r.fire(EventSend, &Event{PDU: resp, Peer: addr, Version: env.Version})
	if err := r.wire.Send(context.Background(), addr, msg); err != nil {
		r.engine.Logger.Warn("session: send response", slog.Any("error", err))
		return nil
	}
	return msg
}
