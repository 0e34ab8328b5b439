package engine

import "github.com/golangsnmp/snmpcore/pdu"

// PrepareOutbound applies spec.md §4.4's version-downgrade rewrites for a
// PDU about to be sent on a v1 session: GetBulk becomes GetNext with its
// bulk fields cleared, and Inform/SNMPv2-Trap become a v1 Trap-PDU (using
// enterprise for the Trap-PDU's enterprise field and agentAddr for its
// agent-addr field). PDUs for v2c/v3 sessions, and v1 PDUs that need no
// rewrite, are returned unchanged.
func PrepareOutbound(version Version, enterprise []uint32, agentAddr [4]byte, timestamp uint32, p *pdu.PDU) *pdu.PDU {
	if version != V1 {
		return p
	}
	switch p.Type {
	case pdu.TypeGetBulk:
		out := *p
		out.Type = pdu.TypeGetNext
		out.ErrorStatus = 0
		out.ErrorIndex = 0
		return &out
	case pdu.TypeInform, pdu.TypeTrapV2:
		generic, specific, ent := OIDToGenericSpecific(p.TrapOID)
		if len(enterprise) > 0 {
			ent = enterprise
		}
		out := &pdu.PDU{
			Peer:         p.Peer,
			Type:         pdu.TypeTrapV1,
			Enterprise:   ent,
			AgentAddr:    agentAddr,
			GenericTrap:  generic,
			SpecificTrap: specific,
			Timestamp:    timestamp,
			Varbinds:     p.Varbinds,
		}
		return out
	default:
		return p
	}
}
