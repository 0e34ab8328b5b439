package engine

import (
	"github.com/golangsnmp/snmpcore/mib"
	"github.com/golangsnmp/snmpcore/pdu"
)

// Well-known OIDs used by v1<->v2 trap canonicalization (spec.md §4.4),
// independent of whatever MIB modules happen to be loaded.
var (
	oidSysUpTime         = mib.OID{1, 3, 6, 1, 2, 1, 1, 3, 0}
	oidSnmpTrapOID       = mib.OID{1, 3, 6, 1, 6, 3, 1, 1, 4, 1, 0}
	oidSnmpTrapEnterpris = mib.OID{1, 3, 6, 1, 6, 3, 1, 1, 4, 3, 0}
	oidSnmpTrapAgentAddr = mib.OID{1, 3, 6, 1, 6, 3, 1, 1, 4, 2, 0} // not IANA-standard; this engine's own extension per spec.md §9 Open Question
	oidSnmpTrapsBase     = mib.OID{1, 3, 6, 1, 6, 3, 1, 1, 5}       // snmpTraps.<generic+1>
)

func oidEqual(a, b mib.OID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func oidHasPrefix(o, prefix mib.OID) bool {
	if len(o) < len(prefix) {
		return false
	}
	return oidEqual(o[:len(prefix)], prefix)
}

// CanonicalizeTrapV1 converts an inbound v1 Trap-PDU into its v2 varbind
// form, per spec.md §4.4 and the S2 scenario: two leading synthesized
// varbinds (sysUpTime.0, snmpTrapOID.0), the original varbinds, then a
// trailing snmpTrapEnterprise.0. The true transport source address is
// retained by the caller (spec.md §9's Open Question resolution); call
// AgentAddrVarbind separately to also expose the PDU's agent-addr field,
// since it is not part of the canonical S2 form.
func CanonicalizeTrapV1(p *pdu.PDU) *pdu.PDU {
	trapOID := genericSpecificToOID(p.Enterprise, p.GenericTrap, p.SpecificTrap)
	out := &pdu.PDU{
		Type:      pdu.TypeTrapV2,
		RequestID: 0,
		Peer:      p.Peer,
	}
	out.Varbinds = append(out.Varbinds,
		pdu.Varbind{OID: oidSysUpTime, Value: pdu.Value{Kind: pdu.KindTimeTicks, Int: int64(p.Timestamp)}},
		pdu.Varbind{OID: oidSnmpTrapOID, Value: pdu.Value{Kind: pdu.KindOID, OID: trapOID}},
	)
	out.Varbinds = append(out.Varbinds, p.Varbinds...)
	out.Varbinds = append(out.Varbinds,
		pdu.Varbind{OID: oidSnmpTrapEnterpris, Value: pdu.Value{Kind: pdu.KindOID, OID: p.Enterprise}},
	)
	return out
}

// AgentAddrVarbind returns the snmpTrapAgentAddr.0 varbind for a decoded
// v1 Trap-PDU, for a host that wants the agent-addr field surfaced
// alongside (not instead of) the true transport source address.
func AgentAddrVarbind(p *pdu.PDU) pdu.Varbind {
	return pdu.Varbind{OID: oidSnmpTrapAgentAddr, Value: pdu.Value{Kind: pdu.KindIPAddress, IP: p.AgentAddr}}
}

// genericSpecificToOID maps a v1 Trap-PDU's (enterprise, generic,
// specific) triple onto the v2 notification OID: generic 0..5 map to the
// standard snmpTraps.<generic+1> registrations; generic 6 maps to
// <enterprise>.0.<specific>.
func genericSpecificToOID(enterprise mib.OID, generic, specific int32) mib.OID {
	if generic >= 0 && generic <= 5 {
		return append(append(mib.OID{}, oidSnmpTrapsBase...), uint32(generic+1))
	}
	out := append(append(mib.OID{}, enterprise...), 0, uint32(specific))
	return out
}

// OIDToGenericSpecific performs the literal inverse of
// genericSpecificToOID for outbound v1-trap rewriting (spec.md §4.4): a
// notification OID directly under the standard snmpTraps registration
// point maps to generic = last-1, specific = 0; any other OID is treated
// as enterprise-specific (generic = 6), with enterprise taken as the OID
// with its trailing ".0.<specific>" (or bare "<specific>") stripped.
func OIDToGenericSpecific(trapOID mib.OID) (generic, specific int32, enterprise mib.OID) {
	if len(trapOID) == len(oidSnmpTrapsBase)+1 && oidHasPrefix(trapOID[:len(trapOID)-1], oidSnmpTrapsBase) {
		return int32(trapOID[len(trapOID)-1]) - 1, 0, oidSnmpTrapsBase[:len(oidSnmpTrapsBase)-1]
	}
	if len(trapOID) == 0 {
		return 6, 0, nil
	}
	last := trapOID[len(trapOID)-1]
	if len(trapOID) >= 2 && trapOID[len(trapOID)-2] == 0 {
		return 6, int32(last), trapOID[:len(trapOID)-2]
	}
	return 6, int32(last), trapOID[:len(trapOID)-1]
}
