// Package ber implements the subset of ASN.1 Basic Encoding Rules that
// SNMP uses: universal primitive types, the SEQUENCE constructor, and the
// application-class wrappers for IpAddress/Counter32/Gauge32/TimeTicks/
// Opaque/Counter64. It has no knowledge of SNMP PDUs themselves — pdu
// builds on top of it.
package ber

// Tag is a single BER identifier octet (class + constructed bit + tag
// number), valid for the low tag-number form used throughout SNMP (tag
// number <= 30).
type Tag byte

// Tag classes, per X.690 §8.1.2.
const (
	ClassUniversal   = 0x00
	ClassApplication = 0x40
	ClassContext     = 0x80
	ClassPrivate     = 0xC0
)

// Constructed is ORed onto a tag to mark it as holding nested TLVs rather
// than a primitive value.
const Constructed = 0x20

// Universal class tags.
const (
	TagInteger     Tag = 0x02
	TagOctetString Tag = 0x04
	TagNull        Tag = 0x05
	TagObjectID    Tag = 0x06
	TagSequence    Tag = 0x30 | Constructed
)

// SNMP application-class tags (RFC 1155 §3.2.3, RFC 2578 §7.1.6).
const (
	TagIPAddress Tag = ClassApplication | 0x00
	TagCounter32 Tag = ClassApplication | 0x01
	TagGauge32   Tag = ClassApplication | 0x02
	TagTimeTicks Tag = ClassApplication | 0x03
	TagOpaque    Tag = ClassApplication | 0x04
	TagCounter64 Tag = ClassApplication | 0x06

	// Unsigned32 shares its wire tag with Gauge32; the two are
	// distinguished only by how the MIB type resolves.
	TagUnsigned32 = TagGauge32
)

// Context-class exception tags used in place of a value in a Varbind
// (RFC 1905 §3).
const (
	TagNoSuchObject   Tag = ClassContext | 0x00
	TagNoSuchInstance Tag = ClassContext | 0x01
	TagEndOfMibView   Tag = ClassContext | 0x02
)

// SNMP PDU tags (context-class, constructed).
const (
	TagGetRequest     Tag = ClassContext | Constructed | 0x00
	TagGetNextRequest Tag = ClassContext | Constructed | 0x01
	TagGetResponse    Tag = ClassContext | Constructed | 0x02
	TagSetRequest     Tag = ClassContext | Constructed | 0x03
	TagTrap           Tag = ClassContext | Constructed | 0x04
	TagGetBulkRequest Tag = ClassContext | Constructed | 0x05
	TagInformRequest  Tag = ClassContext | Constructed | 0x06
	TagTrapV2         Tag = ClassContext | Constructed | 0x07
	TagReport         Tag = ClassContext | Constructed | 0x08
)

// Class returns the tag's class bits.
func (t Tag) Class() byte { return byte(t) & 0xC0 }

// IsConstructed reports whether the constructed bit is set.
func (t Tag) IsConstructed() bool { return byte(t)&Constructed != 0 }

// Number returns the tag number, stripping class and constructed bits.
func (t Tag) Number() byte { return byte(t) &^ 0xE0 }
