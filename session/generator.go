package session

import (
	"context"
	"fmt"
	"log/slog"
	"net"

	"github.com/golangsnmp/snmpcore/agent"
	"github.com/golangsnmp/snmpcore/engine"
	"github.com/golangsnmp/snmpcore/mib"
	"github.com/golangsnmp/snmpcore/pdu"
	"github.com/golangsnmp/snmpcore/transport"
	"github.com/golangsnmp/snmpcore/usm"
)

// Generator is a command-generator application: it issues
// Get/GetNext/GetBulk requests and walks against a single peer.
type Generator struct {
	*Session
	addr net.Addr
}

// NewGenerator wires cfg's peer, wire transport and eng's tracker/codec
// into a ready-to-use command generator, grounded in
// damianoneill-net's Session.Get/GetNext/GetBulk/Walk/BulkWalk shape.
func NewGenerator(name string, cfg Config, wire transport.Transport, eng *engine.Engine) (*Generator, error) {
	addr, err := peerAddr(cfg)
	if err != nil {
		return nil, fmt.Errorf("session: resolve generator peer: %w", err)
	}
	g := &Generator{Session: newSession(name, cfg, wire, eng), addr: addr}
	go g.recvLoop()
	return g, nil
}

func (g *Generator) recvLoop() {
	for {
		select {
		case dg, ok := <-g.wire.Receive():
			if !ok {
				return
			}
			env, err := engine.DecodeEnvelope(dg.Data)
			if err != nil {
				g.engine.Counters.InASNParseErrs.Add(1)
				g.engine.Logger.Warn("session: malformed response", slog.Any("error", err))
				continue
			}
			env.PDU.Peer = dg.Addr
			g.engine.RecordInbound(env.PDU)
			g.fire(EventRecv, &Event{PDU: env.PDU, Peer: dg.Addr, Version: env.Version})
			g.engine.Tracker.Complete(env.PDU.RequestID, dg.Data)
		case <-g.closeCh:
			return
		}
	}
}

func (g *Generator) encode(p *pdu.PDU) ([]byte, error) {
	switch g.cfg.Version {
	case engine.V1, engine.V2c:
		return engine.EncodeV1V2c(g.cfg.Version, g.cfg.Community, p)
	default:
		engineID, boots, engineTime := g.v3.snapshot()
		var authKey []byte
		if g.cfg.SecurityLevel == usm.LevelAuth && engineID != "" {
			authKey = g.engine.Keys.LocalizedKey(g.cfg.AuthProtocol, g.cfg.AuthPassword, engineID)
		}
		usmp := engine.UsmParams{
			EngineID:    engineID,
			EngineBoots: boots,
			EngineTime:  engineTime,
			UserName:    g.cfg.UserName,
		}
		return engine.EncodeV3(p.RequestID, usmp, true, g.cfg.AuthProtocol, authKey, engineID, g.cfg.ContextName, p)
	}
}

// do submits p to the request tracker, sending (and retransmitting) it
// via this session's transport until a matching response arrives or
// retries are exhausted, per spec.md §4.5. A v3 REPORT reply updates the
// cached engine-boots/time (or the engine-id itself, for discovery) and
// immediately retransmits the original request once with the new time
// window, spec.md §4.4's inbound Report handling and the S6 scenario.
func (g *Generator) do(ctx context.Context, p *pdu.PDU) (*pdu.PDU, error) {
	p = engine.PrepareOutbound(g.cfg.Version, g.cfg.Enterprise, g.cfg.AgentAddr, g.uptimeTicks(), p)
	for rediscovered := false; ; {
		p.RequestID = g.engine.Tracker.AllocateRequestID()
		fut := g.engine.Tracker.Submit(g.sessionKey(), p.RequestID, g.cfg.retries(), g.cfg.perAttempt(), func(attempt int) ([]byte, error) {
			msg, err := g.encode(p)
			if err != nil {
				return nil, err
			}
			g.engine.Pace(g.cfg.InterRequestDelay)
			g.fire(EventSend, &Event{PDU: p, Peer: g.addr, Version: g.cfg.Version})
			g.engine.RecordOutbound(p)
			if err := g.wire.Send(ctx, g.addr, msg); err != nil {
				return nil, err
			}
			return msg, nil
		})
		res, err := fut.Wait(ctx)
		if err != nil {
			return nil, err
		}
		if res.Err != nil {
			return nil, res.Err
		}
		env, err := engine.DecodeEnvelope(res.Data)
		if err != nil {
			return nil, err
		}
		if env.PDU.Type == pdu.TypeReport {
			if g.cfg.Version == engine.V3 && !rediscovered {
				g.v3.adopt(env.Usm)
				rediscovered = true
				continue
			}
			if len(env.PDU.Varbinds) > 0 {
				return nil, fmt.Errorf("session: peer reported %s", env.PDU.Varbinds[0].OID)
			}
			return nil, fmt.Errorf("session: peer reported an unspecified USM failure")
		}
		return env.PDU, nil
	}
}

func nullVarbinds(oids []mib.OID) []pdu.Varbind {
	vbs := make([]pdu.Varbind, len(oids))
	for i, oid := range oids {
		vbs[i] = pdu.Varbind{OID: oid, Value: pdu.Value{Kind: pdu.KindNull}}
	}
	return vbs
}

// Get issues a GetRequest for oids.
func (g *Generator) Get(ctx context.Context, oids []mib.OID) (*pdu.PDU, error) {
	return g.do(ctx, &pdu.PDU{Type: pdu.TypeGet, Varbinds: nullVarbinds(oids)})
}

// GetNext issues a GetNextRequest for oids.
func (g *Generator) GetNext(ctx context.Context, oids []mib.OID) (*pdu.PDU, error) {
	return g.do(ctx, &pdu.PDU{Type: pdu.TypeGetNext, Varbinds: nullVarbinds(oids)})
}

// GetBulk issues a GetBulkRequest for oids. On a v1 session
// engine.PrepareOutbound rewrites it as a GetNextRequest with the bulk
// fields cleared, so engine.EncodeV1V2c never sees this Type.
func (g *Generator) GetBulk(ctx context.Context, nonRepeaters, maxRepetitions int32, oids []mib.OID) (*pdu.PDU, error) {
	p := &pdu.PDU{Type: pdu.TypeGetBulk, Varbinds: nullVarbinds(oids)}
	p.SetNonRepeaters(nonRepeaters)
	p.SetMaxRepetitions(maxRepetitions)
	return g.do(ctx, p)
}

// Walk walks every subtree rooted at bases, calling fn for each
// instance found, using GetNext on a v1 session and the ramped GetBulk
// rounds of agent.Walk otherwise (spec.md §4.6).
func (g *Generator) Walk(ctx context.Context, bases []mib.OID, fn agent.WalkFunc) error {
	return agent.Walk(ctx, g.cfg.Version, func(ctx context.Context, p *pdu.PDU) (*pdu.PDU, error) {
		return g.do(ctx, p)
	}, bases, fn)
}
