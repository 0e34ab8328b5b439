package engine

import (
	"fmt"

	"github.com/golangsnmp/snmpcore/ber"
	"github.com/golangsnmp/snmpcore/pdu"
	"github.com/golangsnmp/snmpcore/usm"
)

// msgFlags bits, RFC 3414 §3.
const (
	flagAuth       byte = 0x01
	flagReportable byte = 0x04
)

// maxMsgSize is the msgMaxSize HeaderData field this engine advertises;
// it bounds only the declared receive buffer, not any allocation here.
const maxMsgSize = 65507

// UsmParams carries the v3 USM security-parameters fields (msgUserName,
// msgAuthoritativeEngineID/Boots/Time) spec.md §3's Session fields name.
type UsmParams struct {
	EngineID    string
	EngineBoots int32
	EngineTime  int32
	UserName    string
}

// EncodeV1V2c builds a complete `SEQUENCE { version, community, PDU }`
// message, spec.md §4.4's v1/v2c envelope.
func EncodeV1V2c(version Version, community string, p *pdu.PDU) ([]byte, error) {
	pduW := ber.NewWriter()
	if err := p.Encode(pduW); err != nil {
		return nil, err
	}
	w := ber.NewWriter()
	tok := w.BeginSeq(ber.TagSequence)
	w.WriteInteger(ber.TagInteger, int64(version))
	w.WriteOctetString(ber.TagOctetString, []byte(community))
	w.AppendEncoded(pduW.Bytes())
	w.EndSeq(tok)
	if w.Err() != nil {
		return nil, w.Err()
	}
	return w.Bytes(), nil
}

// EncodeV3 builds a complete v3 message: `SEQUENCE { version=3,
// HeaderData, msgSecurityParameters, ScopedPDU }`, per spec.md §4.4. If
// authKey is non-nil the message is authenticated: emitted first with a
// zero-filled 12-octet authentication-parameters field, then re-signed
// with the digest over the complete bytes, then patched in place.
func EncodeV3(msgID int32, usmp UsmParams, reportable bool, authProtocol usm.AuthProtocol, authKey []byte, contextEngineID, contextName string, p *pdu.PDU) ([]byte, error) {
	pduW := ber.NewWriter()
	if err := p.Encode(pduW); err != nil {
		return nil, err
	}

	scopedW := ber.NewWriter()
	scopedTok := scopedW.BeginSeq(ber.TagSequence)
	scopedW.WriteOctetString(ber.TagOctetString, []byte(contextEngineID))
	scopedW.WriteOctetString(ber.TagOctetString, []byte(contextName))
	scopedW.AppendEncoded(pduW.Bytes())
	scopedW.EndSeq(scopedTok)
	if scopedW.Err() != nil {
		return nil, scopedW.Err()
	}

	flags := byte(0)
	if authKey != nil {
		flags |= flagAuth
	}
	if reportable {
		flags |= flagReportable
	}

	usmW := ber.NewWriter()
	usmTok := usmW.BeginSeq(ber.TagSequence)
	usmW.WriteOctetString(ber.TagOctetString, []byte(usmp.EngineID))
	usmW.WriteInteger(ber.TagInteger, int64(usmp.EngineBoots))
	usmW.WriteInteger(ber.TagInteger, int64(usmp.EngineTime))
	usmW.WriteOctetString(ber.TagOctetString, []byte(usmp.UserName))
	if authKey != nil {
		usmW.WriteOctetString(ber.TagOctetString, make([]byte, 12))
	} else {
		usmW.WriteOctetString(ber.TagOctetString, nil)
	}
	usmW.WriteOctetString(ber.TagOctetString, nil) // msgPrivacyParameters: always empty, no privacy support
	usmW.EndSeq(usmTok)
	if usmW.Err() != nil {
		return nil, usmW.Err()
	}
	// EndSeq may grow the leading length field, shifting everything
	// right, so locate the 12-octet authentication-parameters window by
	// its distance from the buffer's end: 12 content bytes plus the
	// 2-byte privacy-parameters TLV behind it.
	authParamsInUsm := len(usmW.Bytes()) - 14

	content := ber.NewWriter()
	content.WriteInteger(ber.TagInteger, int64(V3))

	headerTok := content.BeginSeq(ber.TagSequence)
	content.WriteInteger(ber.TagInteger, int64(msgID))
	content.WriteInteger(ber.TagInteger, maxMsgSize)
	content.WriteOctetString(ber.TagOctetString, []byte{flags})
	content.WriteInteger(ber.TagInteger, 3) // msgSecurityModel: USM
	content.EndSeq(headerTok)

	authParamsInContent := content.Len() + tlvHeaderLen(len(usmW.Bytes())) + authParamsInUsm
	content.WriteOctetString(ber.TagOctetString, usmW.Bytes())

	content.AppendEncoded(scopedW.Bytes())
	if content.Err() != nil {
		return nil, content.Err()
	}

	w := ber.NewWriter()
	tok := w.BeginSeq(ber.TagSequence)
	w.AppendEncoded(content.Bytes())
	w.EndSeq(tok)
	if w.Err() != nil {
		return nil, w.Err()
	}

	if authKey == nil {
		return w.Bytes(), nil
	}

	msg := w.Bytes()
	authParamsAbsStart := (len(msg) - content.Len()) + authParamsInContent
	digest, err := usm.Authenticate(authProtocol, authKey, msg, authParamsAbsStart)
	if err != nil {
		return nil, fmt.Errorf("engine: authenticate v3 message: %w", err)
	}
	copy(msg[authParamsAbsStart:authParamsAbsStart+12], digest)
	return msg, nil
}

// Envelope is a fully decoded inbound SNMP message: the version-specific
// header plus the inner PDU, ready for dispatch.
type Envelope struct {
	Version Version

	// v1/v2c only.
	Community string

	// v3 only.
	MsgID           int32
	Flags           byte
	Usm             UsmParams
	AuthParamsStart int // absolute byte offset of the 12-octet auth field, for Verify
	Raw             []byte
	ContextEngineID string
	ContextName     string

	PDU *pdu.PDU
}

// Reportable reports whether the v3 message's Reportable flag is set.
func (e *Envelope) Reportable() bool { return e.Flags&flagReportable != 0 }

// Authenticated reports whether the v3 message's Auth flag is set.
func (e *Envelope) Authenticated() bool { return e.Flags&flagAuth != 0 }

// DecodeEnvelope parses the outer SEQUENCE and version, then dispatches
// to the version-specific body parse, per spec.md §4.4's inbound path.
func DecodeEnvelope(raw []byte) (*Envelope, error) {
	r := ber.NewReader(raw)
	seq, seqStart, ok := r.EnterSeqAt(ber.TagSequence)
	if !ok {
		return nil, fmt.Errorf("engine: malformed message envelope: %w", errOf(r))
	}
	ver, ok := seq.ReadInteger(ber.TagInteger)
	if !ok {
		return nil, fmt.Errorf("engine: malformed version field: %w", errOf(seq))
	}
	switch Version(ver) {
	case V1, V2c:
		community, ok := seq.ReadOctetString(ber.TagOctetString)
		if !ok {
			return nil, fmt.Errorf("engine: malformed community field: %w", errOf(seq))
		}
		p, err := pdu.Decode(seq)
		if err != nil {
			return nil, err
		}
		return &Envelope{Version: Version(ver), Community: string(community), PDU: p}, nil
	case V3:
		return decodeV3(raw, seq, seqStart)
	default:
		return nil, fmt.Errorf("engine: unsupported SNMP version %d", ver)
	}
}

func decodeV3(raw []byte, seq *ber.Reader, seqStart int) (*Envelope, error) {
	header, ok := seq.EnterSeq(ber.TagSequence)
	if !ok {
		return nil, fmt.Errorf("engine: malformed v3 HeaderData: %w", errOf(seq))
	}
	msgID, ok := header.ReadInteger(ber.TagInteger)
	if !ok {
		return nil, fmt.Errorf("engine: malformed msgID: %w", errOf(header))
	}
	if _, ok := header.ReadInteger(ber.TagInteger); !ok { // msgMaxSize, unused on decode
		return nil, fmt.Errorf("engine: malformed msgMaxSize: %w", errOf(header))
	}
	flagBytes, ok := header.ReadOctetString(ber.TagOctetString)
	if !ok || len(flagBytes) != 1 {
		return nil, fmt.Errorf("engine: malformed msgFlags")
	}
	if _, ok := header.ReadInteger(ber.TagInteger); !ok { // msgSecurityModel, USM assumed
		return nil, fmt.Errorf("engine: malformed msgSecurityModel: %w", errOf(header))
	}

	secParamsBytes, secStart, ok := seq.ReadOctetStringAt(ber.TagOctetString)
	if !ok {
		return nil, fmt.Errorf("engine: malformed msgSecurityParameters: %w", errOf(seq))
	}
	secR := ber.NewReader(secParamsBytes)
	usmSeq, usmSeqStart, ok := secR.EnterSeqAt(ber.TagSequence)
	if !ok {
		return nil, fmt.Errorf("engine: malformed UsmSecurityParameters: %w", errOf(secR))
	}
	engineID, ok := usmSeq.ReadOctetString(ber.TagOctetString)
	if !ok {
		return nil, fmt.Errorf("engine: malformed msgAuthoritativeEngineID: %w", errOf(usmSeq))
	}
	engineBoots, ok := usmSeq.ReadInteger(ber.TagInteger)
	if !ok {
		return nil, fmt.Errorf("engine: malformed msgAuthoritativeEngineBoots: %w", errOf(usmSeq))
	}
	engineTime, ok := usmSeq.ReadInteger(ber.TagInteger)
	if !ok {
		return nil, fmt.Errorf("engine: malformed msgAuthoritativeEngineTime: %w", errOf(usmSeq))
	}
	userName, ok := usmSeq.ReadOctetString(ber.TagOctetString)
	if !ok {
		return nil, fmt.Errorf("engine: malformed msgUserName: %w", errOf(usmSeq))
	}
	authParams, authRelStart, ok := usmSeq.ReadOctetStringAt(ber.TagOctetString)
	if !ok {
		return nil, fmt.Errorf("engine: malformed msgAuthenticationParameters: %w", errOf(usmSeq))
	}
	_ = authParams
	if _, ok := usmSeq.ReadOctetString(ber.TagOctetString); !ok { // msgPrivacyParameters, unused (no privacy)
		return nil, fmt.Errorf("engine: malformed msgPrivacyParameters: %w", errOf(usmSeq))
	}

	scoped, ok := seq.EnterSeq(ber.TagSequence)
	if !ok {
		return nil, fmt.Errorf("engine: malformed ScopedPDU: %w", errOf(seq))
	}
	ctxEngineID, ok := scoped.ReadOctetString(ber.TagOctetString)
	if !ok {
		return nil, fmt.Errorf("engine: malformed contextEngineID: %w", errOf(scoped))
	}
	ctxName, ok := scoped.ReadOctetString(ber.TagOctetString)
	if !ok {
		return nil, fmt.Errorf("engine: malformed contextName: %w", errOf(scoped))
	}
	p, err := pdu.Decode(scoped)
	if err != nil {
		return nil, err
	}

	authAbsStart := seqStart + secStart + usmSeqStart + authRelStart
	return &Envelope{
		Version:         V3,
		MsgID:           int32(msgID),
		Flags:           flagBytes[0],
		Usm:             UsmParams{EngineID: string(engineID), EngineBoots: int32(engineBoots), EngineTime: int32(engineTime), UserName: string(userName)},
		AuthParamsStart: authAbsStart,
		Raw:             raw,
		ContextEngineID: string(ctxEngineID),
		ContextName:     string(ctxName),
		PDU:             p,
	}, nil
}

// tlvHeaderLen returns the number of bytes a BER tag+length header occupies
// for content of the given length: 2 bytes (tag + one-byte length) in
// short form, or 2+n in long form with an n-byte length-of-length encoding.
func tlvHeaderLen(contentLen int) int {
	if contentLen < 128 {
		return 2
	}
	n := 0
	for v := contentLen; v > 0; v >>= 8 {
		n++
	}
	return 2 + n
}

func errOf(r *ber.Reader) error {
	if err := r.Err(); err != nil {
		return err
	}
	return fmt.Errorf("truncated message")
}
