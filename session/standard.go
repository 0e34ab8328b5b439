package session

import (
	"time"

	"github.com/golangsnmp/snmpcore/agent"
	"github.com/golangsnmp/snmpcore/engine"
	"github.com/golangsnmp/snmpcore/mib"
	"github.com/golangsnmp/snmpcore/pdu"
)

// Standard MIB-II and SNMP-MIB instance OIDs a responder auto-populates,
// per spec.md §6.
var (
	oidSysDescr    = mib.OID{1, 3, 6, 1, 2, 1, 1, 1, 0}
	oidSysObjectID = mib.OID{1, 3, 6, 1, 2, 1, 1, 2, 0}
	oidSysUpTime   = mib.OID{1, 3, 6, 1, 2, 1, 1, 3, 0}
	oidSysContact  = mib.OID{1, 3, 6, 1, 2, 1, 1, 4, 0}
	oidSysName     = mib.OID{1, 3, 6, 1, 2, 1, 1, 5, 0}
	oidSysLocation = mib.OID{1, 3, 6, 1, 2, 1, 1, 6, 0}
	oidSysServices = mib.OID{1, 3, 6, 1, 2, 1, 1, 7, 0}

	// snmpTrapOID.0, the second mandatory varbind of every v2+
	// notification (RFC 3416 §4.2.6).
	oidSnmpTrapOID0 = mib.OID{1, 3, 6, 1, 6, 3, 1, 1, 4, 1, 0}

	oidSnmpInPkts              = mib.OID{1, 3, 6, 1, 2, 1, 11, 1, 0}
	oidSnmpOutPkts             = mib.OID{1, 3, 6, 1, 2, 1, 11, 2, 0}
	oidSnmpInBadCommunityNames = mib.OID{1, 3, 6, 1, 2, 1, 11, 4, 0}
	oidSnmpInASNParseErrs      = mib.OID{1, 3, 6, 1, 2, 1, 11, 6, 0}
	oidSnmpInTooBigs           = mib.OID{1, 3, 6, 1, 2, 1, 11, 8, 0}
	oidSnmpInTotalReqVars      = mib.OID{1, 3, 6, 1, 2, 1, 11, 13, 0}
	oidSnmpInTotalSetVars      = mib.OID{1, 3, 6, 1, 2, 1, 11, 14, 0}
	oidSnmpInGetRequests       = mib.OID{1, 3, 6, 1, 2, 1, 11, 15, 0}
	oidSnmpInGetNexts          = mib.OID{1, 3, 6, 1, 2, 1, 11, 16, 0}
	oidSnmpInSetRequests       = mib.OID{1, 3, 6, 1, 2, 1, 11, 17, 0}
	oidSnmpInGetResponses      = mib.OID{1, 3, 6, 1, 2, 1, 11, 18, 0}
	oidSnmpInTraps             = mib.OID{1, 3, 6, 1, 2, 1, 11, 19, 0}
	oidSnmpOutGenErrs          = mib.OID{1, 3, 6, 1, 2, 1, 11, 24, 0}
	oidSnmpOutGetResponses     = mib.OID{1, 3, 6, 1, 2, 1, 11, 28, 0}
	oidSnmpOutTraps            = mib.OID{1, 3, 6, 1, 2, 1, 11, 29, 0}
)

// registerStandardInstances populates tree with the MIB-II system group
// and SNMP-MIB counter group spec.md §6 names, wiring the latter
// straight to eng's live Counters fields (FuncCell, per SPEC_FULL.md
// §5.4: the message engine updates these unconditionally so a
// responder can expose them without the engine depending on agent).
func registerStandardInstances(tree *agent.Tree, eng *engine.Engine, cfg Config, start time.Time) {
	str := func(s string) *agent.FuncCell {
		return &agent.FuncCell{ReadFn: func() pdu.Value {
			return pdu.Value{Kind: pdu.KindOctetString, Bytes: []byte(s)}
		}}
	}
	_, _ = tree.CreateNode(oidSysDescr, mib.AccessReadOnly, str(cfg.SysDescr))
	_, _ = tree.CreateNode(oidSysObjectID, mib.AccessReadOnly, &agent.FuncCell{ReadFn: func() pdu.Value {
		return pdu.Value{Kind: pdu.KindOID, OID: cfg.SysObjectID}
	}})
	_, _ = tree.CreateNode(oidSysUpTime, mib.AccessReadOnly, &agent.FuncCell{ReadFn: func() pdu.Value {
		return pdu.Value{Kind: pdu.KindTimeTicks, Int: int64(time.Since(start).Milliseconds() / 10)}
	}})
	_, _ = tree.CreateNode(oidSysContact, mib.AccessReadWrite, agent.NewValueCell(pdu.Value{Kind: pdu.KindOctetString, Bytes: []byte(cfg.SysContact)}))
	_, _ = tree.CreateNode(oidSysName, mib.AccessReadWrite, agent.NewValueCell(pdu.Value{Kind: pdu.KindOctetString, Bytes: []byte(cfg.SysName)}))
	_, _ = tree.CreateNode(oidSysLocation, mib.AccessReadWrite, agent.NewValueCell(pdu.Value{Kind: pdu.KindOctetString, Bytes: []byte(cfg.SysLocation)}))
	_, _ = tree.CreateNode(oidSysServices, mib.AccessReadOnly, agent.NewValueCell(pdu.Value{Kind: pdu.KindInteger, Int: int64(cfg.SysServices)}))

	counter := func(oid mib.OID, read func() int64) {
		_, _ = tree.CreateNode(oid, mib.AccessReadOnly, &agent.FuncCell{ReadFn: func() pdu.Value {
			return pdu.Value{Kind: pdu.KindCounter32, Int: read()}
		}})
	}
	counter(oidSnmpInPkts, eng.Counters.InPkts.Load)
	counter(oidSnmpOutPkts, eng.Counters.OutPkts.Load)
	counter(oidSnmpInBadCommunityNames, eng.Counters.InBadCommunityNames.Load)
	counter(oidSnmpInASNParseErrs, eng.Counters.InASNParseErrs.Load)
	counter(oidSnmpInTooBigs, eng.Counters.InTooBigs.Load)
	counter(oidSnmpInTotalReqVars, eng.Counters.InTotalReqVars.Load)
	counter(oidSnmpInTotalSetVars, eng.Counters.InTotalSetVars.Load)
	counter(oidSnmpInGetRequests, eng.Counters.InGetRequests.Load)
	counter(oidSnmpInGetNexts, eng.Counters.InGetNexts.Load)
	counter(oidSnmpInSetRequests, eng.Counters.InSetRequests.Load)
	counter(oidSnmpInGetResponses, eng.Counters.InGetResponses.Load)
	counter(oidSnmpInTraps, eng.Counters.InTraps.Load)
	counter(oidSnmpOutGenErrs, eng.Counters.OutGenErrs.Load)
	counter(oidSnmpOutGetResponses, eng.Counters.OutGetResponses.Load)
	counter(oidSnmpOutTraps, eng.Counters.OutTraps.Load)
}
