// Package pdu defines the wire-independent PDU, Varbind and Value types
// that the message engine builds, and their BER encoding/decoding.
package pdu

import (
	"fmt"

	"github.com/golangsnmp/snmpcore/ber"
	"github.com/golangsnmp/snmpcore/mib"
)

// Kind discriminates the variants of Value, mirroring spec.md §9's
// tagged sum type plus Opaque/Bits carried over from the original
// implementation's ASN.1 tag table.
type Kind int

const (
	KindInteger Kind = iota
	KindCounter32
	KindCounter64
	KindUnsigned32 // also used for Gauge32: identical wire tag
	KindTimeTicks
	KindIPAddress
	KindOID
	KindOctetString
	KindOpaque
	KindBits
	KindNull
	KindNoSuchObject
	KindNoSuchInstance
	KindEndOfMibView
)

// String names the Kind for diagnostics and %E-style template substitution.
func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "INTEGER"
	case KindCounter32:
		return "Counter32"
	case KindCounter64:
		return "Counter64"
	case KindUnsigned32:
		return "Unsigned32"
	case KindTimeTicks:
		return "TimeTicks"
	case KindIPAddress:
		return "IpAddress"
	case KindOID:
		return "OBJECT IDENTIFIER"
	case KindOctetString:
		return "OCTET STRING"
	case KindOpaque:
		return "Opaque"
	case KindBits:
		return "BITS"
	case KindNull:
		return "NULL"
	case KindNoSuchObject:
		return "noSuchObject"
	case KindNoSuchInstance:
		return "noSuchInstance"
	case KindEndOfMibView:
		return "endOfMibView"
	default:
		return "unknown"
	}
}

// Value is the tagged-union runtime value carried by a Varbind.
// Exactly one field group is meaningful per Kind: Int for
// Integer/Counter32/Counter64/Unsigned32/TimeTicks, Bytes for
// OctetString/Opaque/Bits, OID for OID, IP for IPAddress. Exception
// kinds (NoSuchObject, NoSuchInstance, EndOfMibView) and Null carry no
// payload.
type Value struct {
	Kind  Kind
	Int   int64
	Bytes []byte
	OID   mib.OID
	IP    [4]byte
}

// IsException reports whether v is one of the three v2+ exception values.
func (v Value) IsException() bool {
	switch v.Kind {
	case KindNoSuchObject, KindNoSuchInstance, KindEndOfMibView:
		return true
	default:
		return false
	}
}

func tagForKind(k Kind) (ber.Tag, error) {
	switch k {
	case KindInteger:
		return ber.TagInteger, nil
	case KindCounter32:
		return ber.TagCounter32, nil
	case KindUnsigned32:
		return ber.TagUnsigned32, nil
	case KindTimeTicks:
		return ber.TagTimeTicks, nil
	case KindCounter64:
		return ber.TagCounter64, nil
	case KindIPAddress:
		return ber.TagIPAddress, nil
	case KindOID:
		return ber.TagObjectID, nil
	case KindOctetString, KindBits:
		return ber.TagOctetString, nil
	case KindOpaque:
		return ber.TagOpaque, nil
	case KindNull:
		return ber.TagNull, nil
	case KindNoSuchObject:
		return ber.TagNoSuchObject, nil
	case KindNoSuchInstance:
		return ber.TagNoSuchInstance, nil
	case KindEndOfMibView:
		return ber.TagEndOfMibView, nil
	default:
		return 0, fmt.Errorf("pdu: unknown value kind %d", k)
	}
}

// EncodeValue appends v's BER encoding to w.
func EncodeValue(w *ber.Writer, v Value) {
	switch v.Kind {
	case KindInteger:
		w.WriteInteger(ber.TagInteger, v.Int)
	case KindCounter32:
		w.WriteUnsigned32(ber.TagCounter32, uint32(v.Int))
	case KindUnsigned32:
		w.WriteUnsigned32(ber.TagUnsigned32, uint32(v.Int))
	case KindTimeTicks:
		w.WriteUnsigned32(ber.TagTimeTicks, uint32(v.Int))
	case KindCounter64:
		w.WriteCounter64(uint64(v.Int))
	case KindIPAddress:
		w.WriteIPAddress(v.IP)
	case KindOID:
		w.WriteOID([]uint32(v.OID))
	case KindOctetString, KindBits, KindOpaque:
		tag, _ := tagForKind(v.Kind)
		w.WriteOctetString(tag, v.Bytes)
	case KindNull:
		w.WriteNull()
	case KindNoSuchObject, KindNoSuchInstance, KindEndOfMibView:
		tag, _ := tagForKind(v.Kind)
		w.WriteRaw(tag, nil)
	}
}

// DecodeValue reads one value TLV from r, dispatching on its leading tag.
func DecodeValue(r *ber.Reader) (Value, bool) {
	tag, ok := r.PeekTag()
	if !ok {
		return Value{}, false
	}
	switch tag {
	case ber.TagInteger:
		n, ok := r.ReadInteger(ber.TagInteger)
		return Value{Kind: KindInteger, Int: n}, ok
	case ber.TagCounter32:
		n, ok := r.ReadUnsigned32(ber.TagCounter32)
		return Value{Kind: KindCounter32, Int: int64(n)}, ok
	case ber.TagUnsigned32: // shared with Gauge32
		n, ok := r.ReadUnsigned32(ber.TagUnsigned32)
		return Value{Kind: KindUnsigned32, Int: int64(n)}, ok
	case ber.TagTimeTicks:
		n, ok := r.ReadUnsigned32(ber.TagTimeTicks)
		return Value{Kind: KindTimeTicks, Int: int64(n)}, ok
	case ber.TagCounter64:
		n, ok := r.ReadCounter64()
		return Value{Kind: KindCounter64, Int: int64(n)}, ok
	case ber.TagIPAddress:
		ip, ok := r.ReadIPAddress()
		return Value{Kind: KindIPAddress, IP: ip}, ok
	case ber.TagObjectID:
		arcs, ok := r.ReadOID()
		return Value{Kind: KindOID, OID: mib.OID(arcs)}, ok
	case ber.TagOctetString:
		b, ok := r.ReadOctetString(ber.TagOctetString)
		return Value{Kind: KindOctetString, Bytes: b}, ok
	case ber.TagOpaque:
		b, ok := r.ReadOctetString(ber.TagOpaque)
		return Value{Kind: KindOpaque, Bytes: b}, ok
	case ber.TagNull:
		ok := r.ReadNull()
		return Value{Kind: KindNull}, ok
	case ber.TagNoSuchObject:
		_, _, ok := r.ReadRaw()
		return Value{Kind: KindNoSuchObject}, ok
	case ber.TagNoSuchInstance:
		_, _, ok := r.ReadRaw()
		return Value{Kind: KindNoSuchInstance}, ok
	case ber.TagEndOfMibView:
		_, _, ok := r.ReadRaw()
		return Value{Kind: KindEndOfMibView}, ok
	default:
		_, content, ok := r.ReadRaw()
		return Value{Kind: KindOctetString, Bytes: content}, ok
	}
}
