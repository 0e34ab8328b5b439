package session

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/golangsnmp/snmpcore/agent"
	"github.com/golangsnmp/snmpcore/pdu"
)

// TemplateContext carries every field spec.md §6's callback substitution
// table names. Not every field is meaningful for a given event: a
// session-level Event has no instance OID, an agent.Event has no peer
// address. Per spec.md §9's design note, this substitution is "a concern
// of the embedding layer, not the engine" — callers that want formatted
// diagnostics build a TemplateContext and call FormatTemplate, while the
// typed Event/agent.Event remains the callback's actual payload.
type TemplateContext struct {
	RequestID      int32
	SessionName    string
	Varbinds       []pdu.Varbind
	ErrorStatus    pdu.ErrorStatus
	ErrorIndex     int32
	PeerAddr       string
	PeerPort       string
	PDUType        string
	ContextName    string
	EngineID       string
	InstanceOID    string
	InstanceSuffix string
	NewValue       string
	PriorValue     string
}

// FromSessionEvent populates the fields a session.Event can supply.
func (c TemplateContext) FromSessionEvent(name string, ev *Event) TemplateContext {
	c.SessionName = name
	if ev.PDU != nil {
		c.RequestID = ev.PDU.RequestID
		c.Varbinds = ev.PDU.Varbinds
		c.ErrorStatus = ev.PDU.ErrorStatus
		c.ErrorIndex = ev.PDU.ErrorIndex
		c.PDUType = ev.PDU.Type.String()
		c.ContextName = ev.PDU.ContextName
	}
	if ev.Peer != nil {
		host, port, err := net.SplitHostPort(ev.Peer.String())
		if err == nil {
			c.PeerAddr, c.PeerPort = host, port
		} else {
			c.PeerAddr = ev.Peer.String()
		}
	}
	return c
}

// FromInstanceEvent populates the fields an agent.Event can supply.
func (c TemplateContext) FromInstanceEvent(name string, ev *agent.Event) TemplateContext {
	c.SessionName = name
	c.InstanceOID = ev.OID.String()
	if len(ev.OID) > 0 {
		c.InstanceSuffix = strconv.FormatUint(uint64(ev.OID[len(ev.OID)-1]), 10)
	}
	c.NewValue = formatValue(ev.Value)
	if ev.HasPrior {
		c.PriorValue = formatValue(ev.Prior)
	}
	if ev.PDU != nil {
		c.RequestID = ev.PDU.RequestID
		c.ErrorStatus = ev.PDU.ErrorStatus
		c.ErrorIndex = ev.PDU.ErrorIndex
		c.PDUType = ev.PDU.Type.String()
		c.ContextName = ev.PDU.ContextName
	}
	return c
}

func formatValue(v pdu.Value) string {
	switch v.Kind {
	case pdu.KindOID:
		return v.OID.String()
	case pdu.KindOctetString, pdu.KindOpaque, pdu.KindBits:
		return string(v.Bytes)
	case pdu.KindIPAddress:
		return net.IP(v.IP[:]).String()
	case pdu.KindNull, pdu.KindNoSuchObject, pdu.KindNoSuchInstance, pdu.KindEndOfMibView:
		return v.Kind.String()
	default:
		return strconv.FormatInt(v.Int, 10)
	}
}

func formatVarbinds(vbs []pdu.Varbind) string {
	parts := make([]string, len(vbs))
	for i, vb := range vbs {
		parts[i] = fmt.Sprintf("%s=%s", vb.OID.String(), formatValue(vb.Value))
	}
	return strings.Join(parts, " ")
}

// FormatTemplate substitutes spec.md §6's callback template directives
// (%R %S %V %E %I %A %P %T %C %G %o %i %v %p %%) into a literal string.
// An unrecognized directive is passed through unchanged.
func FormatTemplate(tmpl string, c TemplateContext) string {
	var b strings.Builder
	for i := 0; i < len(tmpl); i++ {
		if tmpl[i] != '%' || i == len(tmpl)-1 {
			b.WriteByte(tmpl[i])
			continue
		}
		i++
		switch tmpl[i] {
		case 'R':
			b.WriteString(strconv.FormatInt(int64(c.RequestID), 10))
		case 'S':
			b.WriteString(c.SessionName)
		case 'V':
			b.WriteString(formatVarbinds(c.Varbinds))
		case 'E':
			b.WriteString(c.ErrorStatus.String())
		case 'I':
			b.WriteString(strconv.FormatInt(int64(c.ErrorIndex), 10))
		case 'A':
			b.WriteString(c.PeerAddr)
		case 'P':
			b.WriteString(c.PeerPort)
		case 'T':
			b.WriteString(c.PDUType)
		case 'C':
			b.WriteString(c.ContextName)
		case 'G':
			b.WriteString(c.EngineID)
		case 'o':
			b.WriteString(c.InstanceOID)
		case 'i':
			b.WriteString(c.InstanceSuffix)
		case 'v':
			b.WriteString(c.NewValue)
		case 'p':
			b.WriteString(c.PriorValue)
		case '%':
			b.WriteByte('%')
		default:
			b.WriteByte('%')
			b.WriteByte(tmpl[i])
		}
	}
	return b.String()
}
