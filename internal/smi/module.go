// Package smi parses SMIv1/SMIv2 module text into flat definition
// records. It is deliberately a two-stage affair: the lexer hashes
// reserved words into a token stream, and a hand-written LL parser
// turns the macro grammar into per-module Def/TypeDef lists whose
// parent references are still plain strings — the resolver links them
// into the OID tree afterwards. Grammar coverage is the working subset
// an SNMP engine needs (module header, IMPORTS, OBJECT IDENTIFIER
// assignments, the node-producing macros, TEXTUAL-CONVENTION and type
// assignments with SIZE/range/enum restrictions), not full ASN.1.
package smi

import (
	"github.com/golangsnmp/snmpcore/internal/types"
	"github.com/golangsnmp/snmpcore/mib"
)

// Module is one parsed file: its imports, node-producing definitions
// and type definitions in source order, plus whatever diagnostics the
// lex/parse pass accumulated.
type Module struct {
	Name     string
	Language mib.Language
	Imports  []Import
	Defs     []Def
	Types    []TypeDef
	Diags    []mib.Diagnostic
}

// Import is one `sym, sym FROM Module` clause.
type Import struct {
	From    string
	Symbols []string
}

// DefKind says which construct produced a Def, the macro enum of the
// node model.
type DefKind int

const (
	DefValueAssign DefKind = iota // name OBJECT IDENTIFIER ::= { ... }
	DefObjectType
	DefObjectIdentity
	DefModuleIdentity
	DefNotificationType
	DefTrapType
	DefObjectGroup
	DefNotificationGroup
	DefModuleCompliance
	DefAgentCapabilities
)

var defKindNames = [...]string{
	"value-assignment", "OBJECT-TYPE", "OBJECT-IDENTITY", "MODULE-IDENTITY",
	"NOTIFICATION-TYPE", "TRAP-TYPE", "OBJECT-GROUP", "NOTIFICATION-GROUP",
	"MODULE-COMPLIANCE", "AGENT-CAPABILITIES",
}

func (k DefKind) String() string {
	if int(k) >= 0 && int(k) < len(defKindNames) {
		return defKindNames[k]
	}
	return "unknown"
}

// OidPart is one element of an OID assignment expression
// `{ parent label(n) ... n }`: a bare label, a bare arc, or both.
type OidPart struct {
	Label  string
	Arc    uint32
	HasArc bool
}

// IndexRef is one column named by an INDEX clause.
type IndexRef struct {
	Name    string
	Implied bool
}

// TypeRef is a syntax reference: a named type, a builtin base, or
// SEQUENCE OF, with at most one inline restriction.
type TypeRef struct {
	Name     string       // named reference; "" when Base carries it
	Base     mib.BaseType // nonzero for builtin syntax keywords
	RestKind mib.RestrictionKind
	Bounds   []mib.Range
	Named    []mib.NamedValue
	OfType   string // row type name for `SEQUENCE OF X`
}

// Def is one node-producing definition. Only the fields for its Kind
// are meaningful; OID holds the assignment expression with the parent
// still unresolved.
type Def struct {
	Kind DefKind
	Name string
	Line int
	OID  []OidPart

	// OBJECT-TYPE.
	Syntax   *TypeRef
	Access   mib.Access
	Status   mib.Status
	Desc     types.Span
	Units    string
	Index    []IndexRef
	Augments string
	DefVal   *mib.DefVal

	// NOTIFICATION-TYPE / TRAP-TYPE / group membership.
	Objects []string

	// TRAP-TYPE.
	Enterprise   string
	SpecificCode int64

	// MODULE-IDENTITY.
	Organization string
	ContactInfo  string
	LastUpdated  string
	Revisions    []mib.Revision
}

// TypeDef is one TEXTUAL-CONVENTION or plain type assignment.
type TypeDef struct {
	Name   string
	Line   int
	IsTC   bool
	Hint   string
	Status mib.Status
	Desc   types.Span
	Syntax TypeRef
}
