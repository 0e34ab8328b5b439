package pdu

import (
	"fmt"
	"net"

	"github.com/golangsnmp/snmpcore/ber"
	"github.com/golangsnmp/snmpcore/mib"
)

// Type discriminates the SNMP PDU types named in spec.md §3.
type Type int

const (
	TypeGet Type = iota
	TypeGetNext
	TypeResponse
	TypeSet
	TypeTrapV1
	TypeGetBulk
	TypeInform
	TypeTrapV2
	TypeReport
)

// String names the Type for diagnostics and %T template substitution.
func (t Type) String() string {
	switch t {
	case TypeGet:
		return "GetRequest"
	case TypeGetNext:
		return "GetNextRequest"
	case TypeResponse:
		return "GetResponse"
	case TypeSet:
		return "SetRequest"
	case TypeTrapV1:
		return "Trap"
	case TypeGetBulk:
		return "GetBulkRequest"
	case TypeInform:
		return "InformRequest"
	case TypeTrapV2:
		return "SNMPv2-Trap"
	case TypeReport:
		return "Report"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

func (t Type) tag() (ber.Tag, error) {
	switch t {
	case TypeGet:
		return ber.TagGetRequest, nil
	case TypeGetNext:
		return ber.TagGetNextRequest, nil
	case TypeResponse:
		return ber.TagGetResponse, nil
	case TypeSet:
		return ber.TagSetRequest, nil
	case TypeTrapV1:
		return ber.TagTrap, nil
	case TypeGetBulk:
		return ber.TagGetBulkRequest, nil
	case TypeInform:
		return ber.TagInformRequest, nil
	case TypeTrapV2:
		return ber.TagTrapV2, nil
	case TypeReport:
		return ber.TagReport, nil
	default:
		return 0, fmt.Errorf("pdu: unknown PDU type %d", t)
	}
}

func typeFromTag(tag ber.Tag) (Type, bool) {
	switch tag {
	case ber.TagGetRequest:
		return TypeGet, true
	case ber.TagGetNextRequest:
		return TypeGetNext, true
	case ber.TagGetResponse:
		return TypeResponse, true
	case ber.TagSetRequest:
		return TypeSet, true
	case ber.TagTrap:
		return TypeTrapV1, true
	case ber.TagGetBulkRequest:
		return TypeGetBulk, true
	case ber.TagInformRequest:
		return TypeInform, true
	case ber.TagTrapV2:
		return TypeTrapV2, true
	case ber.TagReport:
		return TypeReport, true
	default:
		return 0, false
	}
}

// ErrorStatus is the v1/v2+ error-status enumeration of spec.md §7. For a
// GetBulk request, the same field slot carries non-repeaters instead.
type ErrorStatus int

const (
	NoError ErrorStatus = iota
	TooBig
	NoSuchName
	BadValue
	ReadOnly
	GenErr
	NoAccess
	WrongType
	WrongLength
	WrongEncoding
	WrongValue
	NoCreation
	InconsistentValue
	ResourceUnavailable
	CommitFailed
	UndoFailed
	AuthorizationError
	NotWritable
	InconsistentName
)

func (e ErrorStatus) String() string {
	names := [...]string{
		"noError", "tooBig", "noSuchName", "badValue", "readOnly", "genErr",
		"noAccess", "wrongType", "wrongLength", "wrongEncoding", "wrongValue",
		"noCreation", "inconsistentValue", "resourceUnavailable", "commitFailed",
		"undoFailed", "authorizationError", "notWritable", "inconsistentName",
	}
	if int(e) >= 0 && int(e) < len(names) {
		return names[e]
	}
	return fmt.Sprintf("ErrorStatus(%d)", int(e))
}

// ToV1 maps a v2+ error-status to the closest v1 code, per RFC 1908 §4.
// v1 only defines noError/tooBig/noSuchName/badValue/readOnly/genErr.
func (e ErrorStatus) ToV1() ErrorStatus {
	switch e {
	case NoError, TooBig, NoSuchName, BadValue, ReadOnly, GenErr:
		return e
	case NoAccess, NoCreation, InconsistentName, AuthorizationError:
		return NoSuchName
	case WrongType, WrongLength, WrongEncoding, WrongValue, InconsistentValue:
		return BadValue
	case NotWritable:
		return ReadOnly
	default:
		return GenErr
	}
}

// Varbind is an (OID, value) pair carried by a PDU, per spec.md §3.
type Varbind struct {
	OID   mib.OID
	Value Value
}

// Encode appends the varbind's `SEQUENCE { oid, value }` encoding to w.
func (vb Varbind) Encode(w *ber.Writer) {
	tok := w.BeginSeq(ber.TagSequence)
	w.WriteOID([]uint32(vb.OID))
	EncodeValue(w, vb.Value)
	w.EndSeq(tok)
}

// DecodeVarbind reads one `SEQUENCE { oid, value }` from r.
func DecodeVarbind(r *ber.Reader) (Varbind, bool) {
	seq, ok := r.EnterSeq(ber.TagSequence)
	if !ok {
		return Varbind{}, false
	}
	arcs, ok := seq.ReadOID()
	if !ok {
		return Varbind{}, false
	}
	val, ok := DecodeValue(seq)
	if !ok {
		return Varbind{}, false
	}
	return Varbind{OID: mib.OID(arcs), Value: val}, true
}

// PDU is the protocol-version-independent request/response/notification
// envelope described in spec.md §3. Fields not meaningful for a given
// Type are left at their zero value; GetBulk repurposes ErrorStatus and
// ErrorIndex as NonRepeaters and MaxRepetitions respectively, matching
// the wire encoding (both are plain INTEGER slots in the same position).
type PDU struct {
	Peer      net.Addr
	Type      Type
	RequestID int32
	// ErrorStatus/ErrorIndex are re-used as NonRepeaters/MaxRepetitions
	// on outbound/inbound GetBulk PDUs; use the accessors below instead
	// of the raw fields when handling a GetBulk.
	ErrorStatus ErrorStatus
	ErrorIndex  int32

	TrapOID mib.OID // v1/v2 notification OID, set for TrapV1/TrapV2/Inform

	// v1 Trap-PDU fields (RFC 1157 §4.1.6); unused by every other Type.
	Enterprise   mib.OID
	AgentAddr    [4]byte
	GenericTrap  int32
	SpecificTrap int32
	Timestamp    uint32

	ContextEngineID string // v3 scoped PDU only
	ContextName     string // v3 scoped PDU only

	Varbinds []Varbind
}

// NonRepeaters returns the GetBulk non-repeaters count.
func (p *PDU) NonRepeaters() int32 { return int32(p.ErrorStatus) }

// SetNonRepeaters sets the GetBulk non-repeaters count.
func (p *PDU) SetNonRepeaters(n int32) { p.ErrorStatus = ErrorStatus(n) }

// MaxRepetitions returns the GetBulk max-repetitions count.
func (p *PDU) MaxRepetitions() int32 { return p.ErrorIndex }

// SetMaxRepetitions sets the GetBulk max-repetitions count.
func (p *PDU) SetMaxRepetitions(n int32) { p.ErrorIndex = n }

// Encode appends the PDU's BER encoding to w. A v1 Trap-PDU gets the
// RFC 1157 §4.1.6 shape (enterprise, agent-addr, generic/specific-trap,
// timestamp, varbind-list); every other type gets the common
// request-id/error-status/error-index/varbind-list shape.
func (p *PDU) Encode(w *ber.Writer) error {
	tag, err := p.Type.tag()
	if err != nil {
		return err
	}
	tok := w.BeginSeq(tag)
	if p.Type == TypeTrapV1 {
		w.WriteOID([]uint32(p.Enterprise))
		w.WriteIPAddress(p.AgentAddr)
		w.WriteInteger(ber.TagInteger, int64(p.GenericTrap))
		w.WriteInteger(ber.TagInteger, int64(p.SpecificTrap))
		w.WriteUnsigned32(ber.TagTimeTicks, uint32(p.Timestamp))
	} else {
		w.WriteInteger(ber.TagInteger, int64(p.RequestID))
		w.WriteInteger(ber.TagInteger, int64(p.ErrorStatus))
		w.WriteInteger(ber.TagInteger, int64(p.ErrorIndex))
	}
	vbTok := w.BeginSeq(ber.TagSequence)
	for _, vb := range p.Varbinds {
		vb.Encode(w)
	}
	w.EndSeq(vbTok)
	w.EndSeq(tok)
	if w.Err() != nil {
		return w.Err()
	}
	return nil
}

// Decode reads one PDU from r, dispatching on its leading application tag.
func Decode(r *ber.Reader) (*PDU, error) {
	tag, ok := r.PeekTag()
	if !ok {
		return nil, fmt.Errorf("pdu: empty PDU")
	}
	typ, ok := typeFromTag(tag)
	if !ok {
		return nil, fmt.Errorf("pdu: unrecognized PDU tag %#x", tag)
	}
	expectTag, _ := typ.tag()
	seq, ok := r.EnterSeq(expectTag)
	if !ok {
		return nil, r.Err()
	}
	if typ == TypeTrapV1 {
		return decodeTrapV1(seq)
	}
	reqID, ok := seq.ReadInteger(ber.TagInteger)
	if !ok {
		return nil, seq.Err()
	}
	errStatus, ok := seq.ReadInteger(ber.TagInteger)
	if !ok {
		return nil, seq.Err()
	}
	errIndex, ok := seq.ReadInteger(ber.TagInteger)
	if !ok {
		return nil, seq.Err()
	}
	vbSeq, ok := seq.EnterSeq(ber.TagSequence)
	if !ok {
		return nil, seq.Err()
	}
	out := &PDU{
		Type:        typ,
		RequestID:   int32(reqID),
		ErrorStatus: ErrorStatus(errStatus),
		ErrorIndex:  int32(errIndex),
	}
	for vbSeq.Remaining() > 0 {
		vb, ok := DecodeVarbind(vbSeq)
		if !ok {
			return nil, vbSeq.Err()
		}
		out.Varbinds = append(out.Varbinds, vb)
	}
	return out, nil
}

func decodeTrapV1(seq *ber.Reader) (*PDU, error) {
	ent, ok := seq.ReadOID()
	if !ok {
		return nil, seq.Err()
	}
	agent, ok := seq.ReadIPAddress()
	if !ok {
		return nil, seq.Err()
	}
	generic, ok := seq.ReadInteger(ber.TagInteger)
	if !ok {
		return nil, seq.Err()
	}
	specific, ok := seq.ReadInteger(ber.TagInteger)
	if !ok {
		return nil, seq.Err()
	}
	ts, ok := seq.ReadUnsigned32(ber.TagTimeTicks)
	if !ok {
		return nil, seq.Err()
	}
	vbSeq, ok := seq.EnterSeq(ber.TagSequence)
	if !ok {
		return nil, seq.Err()
	}
	out := &PDU{
		Type:         TypeTrapV1,
		Enterprise:   mib.OID(ent),
		AgentAddr:    agent,
		GenericTrap:  int32(generic),
		SpecificTrap: int32(specific),
		Timestamp:    ts,
	}
	for vbSeq.Remaining() > 0 {
		vb, ok := DecodeVarbind(vbSeq)
		if !ok {
			return nil, vbSeq.Err()
		}
		out.Varbinds = append(out.Varbinds, vb)
	}
	return out, nil
}
