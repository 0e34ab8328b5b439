package mib

import "fmt"

// Kind classifies what an OID tree node stands for, the macro enum of
// the MIB node model: a structural interior node, an assignment, or one
// of the SMI macros.
type Kind int

const (
	KindUnknown Kind = iota
	KindInternal
	KindNode // OBJECT-IDENTITY, MODULE-IDENTITY, OBJECT IDENTIFIER assignment
	KindScalar
	KindTable
	KindRow
	KindColumn
	KindNotification // NOTIFICATION-TYPE or TRAP-TYPE
	KindGroup        // OBJECT-GROUP or NOTIFICATION-GROUP
	KindCompliance
	KindCapabilities
)

var kindNames = [...]string{
	"unknown", "internal", "node", "scalar", "table", "row", "column",
	"notification", "group", "compliance", "capabilities",
}

func (k Kind) String() string {
	if int(k) >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsObjectType reports whether k is one of the OBJECT-TYPE shapes.
func (k Kind) IsObjectType() bool {
	return k == KindScalar || k == KindTable || k == KindRow || k == KindColumn
}

// Access is the MAX-ACCESS (SMIv2) or ACCESS (SMIv1) clause value.
type Access int

const (
	AccessNotAccessible Access = iota
	AccessAccessibleForNotify
	AccessReadOnly
	AccessReadWrite
	AccessReadCreate
	AccessWriteOnly // SMIv1 only; tolerated from legacy modules
)

var accessNames = [...]string{
	"not-accessible", "accessible-for-notify", "read-only", "read-write",
	"read-create", "write-only",
}

func (a Access) String() string {
	if int(a) >= 0 && int(a) < len(accessNames) {
		return accessNames[a]
	}
	return fmt.Sprintf("Access(%d)", int(a))
}

// Readable reports whether a get against an instance of this access is
// legitimate.
func (a Access) Readable() bool {
	return a == AccessReadOnly || a == AccessReadWrite || a == AccessReadCreate
}

// Writable reports whether a set against an instance of this access is
// legitimate.
func (a Access) Writable() bool {
	return a == AccessReadWrite || a == AccessReadCreate || a == AccessWriteOnly
}

// Status is the STATUS clause value. Mandatory and Optional are the
// SMIv1-only values, kept distinct rather than folded onto the SMIv2
// scale.
type Status int

const (
	StatusCurrent Status = iota
	StatusDeprecated
	StatusObsolete
	StatusMandatory
	StatusOptional
)

var statusNames = [...]string{"current", "deprecated", "obsolete", "mandatory", "optional"}

func (s Status) String() string {
	if int(s) >= 0 && int(s) < len(statusNames) {
		return statusNames[s]
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Language is the SMI dialect a module was written in.
type Language int

const (
	LanguageUnknown Language = iota
	LanguageSMIv1
	LanguageSMIv2
)

func (l Language) String() string {
	switch l {
	case LanguageSMIv1:
		return "SMIv1"
	case LanguageSMIv2:
		return "SMIv2"
	default:
		return "unknown"
	}
}

// BaseType is the fundamental ASN.1/SMI syntax a type chain bottoms out
// at.
type BaseType int

const (
	BaseUnknown BaseType = iota
	BaseInteger32
	BaseUnsigned32
	BaseCounter32
	BaseCounter64
	BaseGauge32
	BaseTimeTicks
	BaseIpAddress
	BaseOctetString
	BaseObjectIdentifier
	BaseBits
	BaseOpaque
	BaseSequence // a conceptual row's column layout
)

var baseTypeNames = [...]string{
	"unknown", "Integer32", "Unsigned32", "Counter32", "Counter64", "Gauge32",
	"TimeTicks", "IpAddress", "OCTET STRING", "OBJECT IDENTIFIER", "BITS",
	"Opaque", "SEQUENCE",
}

func (b BaseType) String() string {
	if int(b) >= 0 && int(b) < len(baseTypeNames) {
		return baseTypeNames[b]
	}
	return fmt.Sprintf("BaseType(%d)", int(b))
}

// RestrictionKind says which constraint a Type carries: none, a SIZE
// on an OCTET STRING shape, a value range on an integer shape, an
// INTEGER enumeration, or a BITS position list.
type RestrictionKind int

const (
	RestNone RestrictionKind = iota
	RestSize
	RestRange
	RestEnums
	RestBits
)

func (r RestrictionKind) String() string {
	switch r {
	case RestNone:
		return "none"
	case RestSize:
		return "size"
	case RestRange:
		return "range"
	case RestEnums:
		return "enums"
	case RestBits:
		return "bits"
	default:
		return fmt.Sprintf("RestrictionKind(%d)", int(r))
	}
}

// Severity orders diagnostics from fatal (0) down to informational.
// Comparisons therefore run backwards: a LOWER value is MORE severe.
type Severity int

const (
	SeverityFatal Severity = iota
	SeveritySevere
	SeverityError
	SeverityMinor
	SeverityStyle
	SeverityWarning
	SeverityInfo
)

var severityNames = [...]string{"fatal", "severe", "error", "minor", "style", "warning", "info"}

func (s Severity) String() string {
	if int(s) >= 0 && int(s) < len(severityNames) {
		return severityNames[s]
	}
	return fmt.Sprintf("Severity(%d)", int(s))
}

// AtLeast reports whether s is at least as severe as min.
func (s Severity) AtLeast(min Severity) bool { return s <= min }

// StrictnessLevel is a severity cutoff: diagnostics less severe than
// the level are suppressed. The named levels match the config presets
// in DiagnosticConfig.
type StrictnessLevel int

const (
	StrictnessStrict     StrictnessLevel = 0
	StrictnessNormal     StrictnessLevel = 3
	StrictnessPermissive StrictnessLevel = 5
	StrictnessSilent     StrictnessLevel = 6
)

func (l StrictnessLevel) String() string {
	switch l {
	case StrictnessStrict:
		return "strict"
	case StrictnessNormal:
		return "normal"
	case StrictnessPermissive:
		return "permissive"
	case StrictnessSilent:
		return "silent"
	default:
		return fmt.Sprintf("StrictnessLevel(%d)", int(l))
	}
}
