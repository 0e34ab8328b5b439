package engine

import (
	"fmt"

	"github.com/golangsnmp/snmpcore/mib"
	"github.com/golangsnmp/snmpcore/pdu"
	"github.com/golangsnmp/snmpcore/usm"
)

// Well-known USM counter OIDs (RFC 3414 §5), used as the varbind carried
// by a REPORT PDU responding to each failure, per spec.md §7.
var (
	oidUsmStatsUnsupportedSecLevels = mib.OID{1, 3, 6, 1, 6, 3, 15, 1, 1, 1, 0}
	oidUsmStatsNotInTimeWindows     = mib.OID{1, 3, 6, 1, 6, 3, 15, 1, 1, 2, 0}
	oidUsmStatsUnknownUserNames     = mib.OID{1, 3, 6, 1, 6, 3, 15, 1, 1, 3, 0}
	oidUsmStatsUnknownEngineIDs     = mib.OID{1, 3, 6, 1, 6, 3, 15, 1, 1, 4, 0}
	oidUsmStatsWrongDigests         = mib.OID{1, 3, 6, 1, 6, 3, 15, 1, 1, 5, 0}
)

// USMError is the v3/USM authenticity-check failure taxonomy of
// spec.md §7. Each variant increments its corresponding counter and, if
// the inbound message's reportable flag was set, drives a REPORT PDU.
type USMError struct {
	Kind string
	OID  mib.OID
}

func (e *USMError) Error() string { return fmt.Sprintf("usm: %s", e.Kind) }

// CheckCommunity verifies a v1/v2c envelope's community string against
// expected, incrementing snmpInBadCommunityNames on mismatch.
func (e *Engine) CheckCommunity(env *Envelope, expected string) error {
	if env.Community != expected {
		e.Counters.InBadCommunityNames.Add(1)
		return fmt.Errorf("engine: bad community name")
	}
	return nil
}

// timeWindowSeconds is the RFC 3414 §3.2 replay window: a message is
// acceptable if its claimed engine-time is within 150 seconds of the
// locally-tracked value for that engine-boots, in either direction.
const timeWindowSeconds = 150

// VerifyUSM runs the v3/USM authenticity checks spec.md §7 enumerates:
// unknown user, unsupported security level, unknown engine-id, wrong
// digest, and (if authenticated) the engine-boots/time replay window.
// localBoots/localTime are this engine's cached values for env.Usm.EngineID.
func (e *Engine) VerifyUSM(env *Envelope, knownUser bool, level usm.Level, authProtocol usm.AuthProtocol, key []byte, localBoots, localTime int32) *USMError {
	if env.Usm.EngineID == "" {
		// Engine discovery probe: report the engine identity before any
		// user/level judgement, per RFC 3414 §4 (S6 scenario).
		e.Counters.UsmStatsUnknownEngineIDs.Add(1)
		return &USMError{Kind: "unknownEngineID", OID: oidUsmStatsUnknownEngineIDs}
	}
	if !knownUser {
		e.Counters.UsmStatsUnknownUserNames.Add(1)
		return &USMError{Kind: "unknownUserName", OID: oidUsmStatsUnknownUserNames}
	}
	if level == usm.LevelAuth && !env.Authenticated() {
		e.Counters.UsmStatsUnsupportedSecLevels.Add(1)
		return &USMError{Kind: "unsupportedSecurityLevel", OID: oidUsmStatsUnsupportedSecLevels}
	}
	if env.Authenticated() {
		if !usm.Verify(authProtocol, key, env.Raw, env.AuthParamsStart) {
			e.Counters.UsmStatsWrongDigests.Add(1)
			return &USMError{Kind: "wrongDigest", OID: oidUsmStatsWrongDigests}
		}
		if env.Usm.EngineBoots != localBoots || abs32(env.Usm.EngineTime-localTime) > timeWindowSeconds {
			e.Counters.UsmStatsNotInTimeWindows.Add(1)
			return &USMError{Kind: "notInTimeWindow", OID: oidUsmStatsNotInTimeWindows}
		}
	}
	return nil
}

func abs32(n int32) int32 {
	if n < 0 {
		return -n
	}
	return n
}

// BuildReport constructs a REPORT PDU carrying usmErr's counter OID and
// current value, echoing requestID, per spec.md §4.4's discovery flow
// (S6 scenario).
func BuildReport(requestID int32, usmErr *USMError, counterValue int64) *pdu.PDU {
	return &pdu.PDU{
		Type:      pdu.TypeReport,
		RequestID: requestID,
		Varbinds: []pdu.Varbind{
			{OID: usmErr.OID, Value: pdu.Value{Kind: pdu.KindCounter32, Int: counterValue}},
		},
	}
}

// RecordInbound updates the packet and per-type counters for an inbound
// PDU, per spec.md §6's SNMP-MIB counter group.
func (e *Engine) RecordInbound(p *pdu.PDU) {
	e.Counters.InPkts.Add(1)
	switch p.Type {
	case pdu.TypeGet:
		e.Counters.InGetRequests.Add(1)
	case pdu.TypeGetNext, pdu.TypeGetBulk:
		e.Counters.InGetNexts.Add(1)
	case pdu.TypeSet:
		e.Counters.InSetRequests.Add(1)
		e.Counters.InTotalSetVars.Add(int64(len(p.Varbinds)))
	case pdu.TypeResponse:
		e.Counters.InGetResponses.Add(1)
	case pdu.TypeTrapV1, pdu.TypeTrapV2, pdu.TypeInform:
		e.Counters.InTraps.Add(1)
	}
	if p.Type == pdu.TypeGet || p.Type == pdu.TypeGetNext || p.Type == pdu.TypeGetBulk || p.Type == pdu.TypeSet {
		e.Counters.InTotalReqVars.Add(int64(len(p.Varbinds)))
	}
}

// RecordOutbound updates the outbound packet counters for a PDU about to
// be sent.
func (e *Engine) RecordOutbound(p *pdu.PDU) {
	e.Counters.OutPkts.Add(1)
	switch p.Type {
	case pdu.TypeResponse:
		e.Counters.OutGetResponses.Add(1)
		if p.ErrorStatus == pdu.GenErr {
			e.Counters.OutGenErrs.Add(1)
		}
	case pdu.TypeTrapV1, pdu.TypeTrapV2, pdu.TypeInform:
		e.Counters.OutTraps.Add(1)
	}
}
