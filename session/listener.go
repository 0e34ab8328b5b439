package session

import (
	"context"
	"log/slog"

	"github.com/golangsnmp/snmpcore/engine"
	"github.com/golangsnmp/snmpcore/pdu"
	"github.com/golangsnmp/snmpcore/transport"
	"github.com/golangsnmp/snmpcore/usm"
)

// Listener is a notification-receiver application: it authenticates
// inbound Trap/SNMPv2-Trap/Inform PDUs and fires the trap/inform
// bindings of spec.md §6, acknowledging informs with an empty
// GetResponse.
type Listener struct {
	*Session
}

// NewListener wires cfg and wire into a ready-to-use trap/inform
// listener and starts serving in the background.
func NewListener(name string, cfg Config, wire transport.Transport, eng *engine.Engine) *Listener {
	l := &Listener{Session: newSession(name, cfg, wire, eng)}
	go l.serve()
	return l
}

func (l *Listener) serve() {
	for {
		select {
		case dg, ok := <-l.wire.Receive():
			if !ok {
				return
			}
			l.handle(dg)
		case <-l.closeCh:
			return
		}
	}
}

func (l *Listener) handle(dg transport.Datagram) {
	env, err := engine.DecodeEnvelope(dg.Data)
	if err != nil {
		l.engine.Counters.InASNParseErrs.Add(1)
		return
	}
	env.PDU.Peer = dg.Addr
	l.engine.RecordInbound(env.PDU)
	l.fire(EventRecv, &Event{PDU: env.PDU, Peer: dg.Addr, Version: env.Version})

	if ok, _ := l.authenticate(env); !ok {
		return
	}

	switch env.PDU.Type {
	case pdu.TypeTrapV1:
		notification := engine.CanonicalizeTrapV1(env.PDU)
		l.fire(EventTrap, &Event{PDU: notification, Peer: dg.Addr, Version: env.Version})
	case pdu.TypeTrapV2:
		l.fire(EventTrap, &Event{PDU: env.PDU, Peer: dg.Addr, Version: env.Version})
	case pdu.TypeInform:
		l.fire(EventInform, &Event{PDU: env.PDU, Peer: dg.Addr, Version: env.Version})
		l.ack(env)
	default:
	}
}

// authenticate mirrors Responder.authenticate; a listener never sends a
// REPORT for a failed inform (spec.md's bindings list no reportable-REPORT
// path for the listener role), so the USM error is discarded.
func (l *Listener) authenticate(env *engine.Envelope) (ok bool, usmErr *engine.USMError) {
	switch env.Version {
	case engine.V1, engine.V2c:
		if err := l.engine.CheckCommunity(env, l.cfg.Community); err != nil {
			return false, nil
		}
		return true, nil
	default:
		knownUser := env.Usm.UserName == l.cfg.UserName
		var key []byte
		if knownUser {
			key = l.engine.Keys.LocalizedKey(l.cfg.AuthProtocol, l.cfg.AuthPassword, env.Usm.EngineID)
		}
		if usmErr := l.engine.VerifyUSM(env, knownUser, l.cfg.SecurityLevel, l.cfg.AuthProtocol, key, l.cfg.EngineBoots, l.cfg.EngineTime); usmErr != nil {
			return false, usmErr
		}
		return true, nil
	}
}

func (l *Listener) ack(env *engine.Envelope) {
	resp := &pdu.PDU{Type: pdu.TypeResponse, RequestID: env.PDU.RequestID}
	l.engine.RecordOutbound(resp)

	var msg []byte
	var err error
	switch env.Version {
	case engine.V1, engine.V2c:
		msg, err = engine.EncodeV1V2c(env.Version, env.Community, resp)
	default:
		var authKey []byte
		if l.cfg.SecurityLevel == usm.LevelAuth {
			authKey = l.engine.Keys.LocalizedKey(l.cfg.AuthProtocol, l.cfg.AuthPassword, env.Usm.EngineID)
		}
		usmp := engine.UsmParams{
			EngineID:    env.Usm.EngineID,
			EngineBoots: l.cfg.EngineBoots,
			EngineTime:  l.cfg.EngineTime,
			UserName:    env.Usm.UserName,
		}
		msg, err = engine.EncodeV3(env.MsgID, usmp, false, l.cfg.AuthProtocol, authKey, env.ContextEngineID, env.ContextName, resp)
	}
	if err != nil {
		l.engine.Logger.Warn("session: encode inform ack", slog.Any("error", err))
		return
	}
	l.fire(EventSend, &Event{PDU: resp, Peer: env.PDU.Peer, Version: env.Version})
	if err := l.wire.Send(context.Background(), env.PDU.Peer, msg); err != nil {
		l.engine.Logger.Warn("session: send inform ack", slog.Any("error", err))
	}
}
