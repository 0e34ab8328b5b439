package session

import (
	"context"
	"fmt"
	"net"

	"github.com/golangsnmp/snmpcore/engine"
	"github.com/golangsnmp/snmpcore/mib"
	"github.com/golangsnmp/snmpcore/pdu"
	"github.com/golangsnmp/snmpcore/transport"
	"github.com/golangsnmp/snmpcore/usm"
)

// Notifier is a notification-originator application: it sends
// unconfirmed traps and confirmed informs to a single peer (spec.md §3,
// §6).
type Notifier struct {
	*Session
	addr net.Addr
}

// NewNotifier wires cfg's peer and eng into a ready-to-use notifier.
func NewNotifier(name string, cfg Config, wire transport.Transport, eng *engine.Engine) (*Notifier, error) {
	addr, err := peerAddr(cfg)
	if err != nil {
		return nil, fmt.Errorf("session: resolve notifier peer: %w", err)
	}
	n := &Notifier{Session: newSession(name, cfg, wire, eng), addr: addr}
	go n.recvLoop()
	return n, nil
}

// recvLoop only matters for informs, whose confirming GetResponse
// completes the outstanding request exactly like a generator's reply.
func (n *Notifier) recvLoop() {
	for {
		select {
		case dg, ok := <-n.wire.Receive():
			if !ok {
				return
			}
			env, err := engine.DecodeEnvelope(dg.Data)
			if err != nil {
				n.engine.Logger.Warn("session: malformed notifier reply")
				continue
			}
			env.PDU.Peer = dg.Addr
			n.engine.RecordInbound(env.PDU)
			n.fire(EventRecv, &Event{PDU: env.PDU, Peer: dg.Addr, Version: env.Version})
			n.engine.Tracker.Complete(env.PDU.RequestID, dg.Data)
		case <-n.closeCh:
			return
		}
	}
}

func (n *Notifier) encode(p *pdu.PDU) ([]byte, error) {
	switch n.cfg.Version {
	case engine.V1, engine.V2c:
		return engine.EncodeV1V2c(n.cfg.Version, n.cfg.Community, p)
	default:
		engineID, boots, engineTime := n.v3.snapshot()
		var authKey []byte
		if n.cfg.SecurityLevel == usm.LevelAuth && engineID != "" {
			authKey = n.engine.Keys.LocalizedKey(n.cfg.AuthProtocol, n.cfg.AuthPassword, engineID)
		}
		usmp := engine.UsmParams{
			EngineID:    engineID,
			EngineBoots: boots,
			EngineTime:  engineTime,
			UserName:    n.cfg.UserName,
		}
		return engine.EncodeV3(p.RequestID, usmp, p.Type == pdu.TypeInform, n.cfg.AuthProtocol, authKey, engineID, n.cfg.ContextName, p)
	}
}

// notification assembles the outbound PDU. A v2+ notification leads
// with the two mandatory varbinds (sysUpTime.0, snmpTrapOID.0) RFC 3416
// §4.2.6 puts in front of the caller's payload; a v1 session instead
// folds trapOID into the Trap-PDU's generic/specific fields via
// engine.PrepareOutbound.
func (n *Notifier) notification(trapOID mib.OID, varbinds []pdu.Varbind, typ pdu.Type) *pdu.PDU {
	p := &pdu.PDU{Type: typ, TrapOID: trapOID}
	if n.cfg.Version != engine.V1 {
		p.Varbinds = append(p.Varbinds,
			pdu.Varbind{OID: oidSysUpTime, Value: pdu.Value{Kind: pdu.KindTimeTicks, Int: int64(n.uptimeTicks())}},
			pdu.Varbind{OID: oidSnmpTrapOID0, Value: pdu.Value{Kind: pdu.KindOID, OID: trapOID}},
		)
	}
	p.Varbinds = append(p.Varbinds, varbinds...)
	return engine.PrepareOutbound(n.cfg.Version, n.cfg.Enterprise, n.cfg.AgentAddr, n.uptimeTicks(), p)
}

// SendTrap sends an unconfirmed notification and returns once the
// datagram is on the wire; there is no reply to wait for.
func (n *Notifier) SendTrap(ctx context.Context, trapOID mib.OID, varbinds []pdu.Varbind) error {
	p := n.notification(trapOID, varbinds, pdu.TypeTrapV2)
	msg, err := n.encode(p)
	if err != nil {
		return err
	}
	n.engine.Pace(n.cfg.InterRequestDelay)
	n.fire(EventSend, &Event{PDU: p, Peer: n.addr, Version: n.cfg.Version})
	n.engine.RecordOutbound(p)
	return n.wire.Send(ctx, n.addr, msg)
}

// SendInform sends a confirmed notification and blocks (honoring ctx)
// until the peer's acknowledging GetResponse arrives or retries are
// exhausted, per spec.md §4.5's retransmission handling.
func (n *Notifier) SendInform(ctx context.Context, trapOID mib.OID, varbinds []pdu.Varbind) error {
	p := n.notification(trapOID, varbinds, pdu.TypeInform)
	p.RequestID = n.engine.Tracker.AllocateRequestID()
	fut := n.engine.Tracker.Submit(n.sessionKey(), p.RequestID, n.cfg.retries(), n.cfg.perAttempt(), func(attempt int) ([]byte, error) {
		msg, err := n.encode(p)
		if err != nil {
			return nil, err
		}
		n.engine.Pace(n.cfg.InterRequestDelay)
		n.fire(EventSend, &Event{PDU: p, Peer: n.addr, Version: n.cfg.Version})
		n.engine.RecordOutbound(p)
		if err := n.wire.Send(ctx, n.addr, msg); err != nil {
			return nil, err
		}
		return msg, nil
	})
	res, err := fut.Wait(ctx)
	if err != nil {
		return err
	}
	return res.Err
}
