package smi

import (
	"fmt"

	"github.com/golangsnmp/snmpcore/internal/types"
)

// TokenKind discriminates the token stream the parser consumes:
// punctuation, literals, and the reserved words that matter to the
// grammar. Everything else is an identifier or a type reference.
type TokenKind uint8

const (
	TokEOF       TokenKind = iota
	TokIdent               // lowercase-initial word: value and object names
	TokTypeRef             // uppercase-initial word: type and module names
	TokNumber              // unsigned decimal literal
	TokNegNumber           // '-' immediately followed by digits
	TokQuote               // "..." string; Span covers the unquoted content
	TokHexStr              // 'deadbeef'H
	TokBinStr              // '0101'B

	TokLBrace
	TokRBrace
	TokLParen
	TokRParen
	TokComma
	TokSemicolon
	TokDotDot
	TokPipe
	TokAssign // ::=

	// Module structure.
	TokDEFINITIONS
	TokBEGIN
	TokEND
	TokIMPORTS
	TokEXPORTS
	TokFROM
	TokMACRO

	// Macros that produce tree nodes.
	TokObjectType
	TokObjectIdentity
	TokModuleIdentity
	TokNotificationType
	TokTrapType
	TokObjectGroup
	TokNotificationGroup
	TokModuleCompliance
	TokAgentCapabilities
	TokTextualConvention

	// Clause keywords.
	TokOBJECT
	TokIDENTIFIER
	TokSYNTAX
	TokACCESS
	TokMaxAccess
	TokMinAccess
	TokSTATUS
	TokDESCRIPTION
	TokREFERENCE
	TokUNITS
	TokINDEX
	TokIMPLIED
	TokAUGMENTS
	TokDEFVAL
	TokDisplayHint
	TokOBJECTS
	TokVARIABLES
	TokNOTIFICATIONS
	TokENTERPRISE
	TokLastUpdated
	TokORGANIZATION
	TokContactInfo
	TokREVISION
	TokSEQUENCE
	TokOF
	TokSIZE

	// Clauses of the conformance macros; recognized only so the
	// generic clause skipper knows where one ends and the next begins.
	TokMODULE
	TokMandatoryGroups
	TokGROUP
	TokWriteSyntax
	TokProductRelease
	TokSUPPORTS
	TokINCLUDES
	TokVARIATION
	TokCreationRequires
)

// keywords hashes each reserved word to its kind; the lexer consults it
// once per scanned word.
var keywords = map[string]TokenKind{
	"DEFINITIONS":        TokDEFINITIONS,
	"BEGIN":              TokBEGIN,
	"END":                TokEND,
	"IMPORTS":            TokIMPORTS,
	"EXPORTS":            TokEXPORTS,
	"FROM":               TokFROM,
	"MACRO":              TokMACRO,
	"OBJECT-TYPE":        TokObjectType,
	"OBJECT-IDENTITY":    TokObjectIdentity,
	"MODULE-IDENTITY":    TokModuleIdentity,
	"NOTIFICATION-TYPE":  TokNotificationType,
	"TRAP-TYPE":          TokTrapType,
	"OBJECT-GROUP":       TokObjectGroup,
	"NOTIFICATION-GROUP": TokNotificationGroup,
	"MODULE-COMPLIANCE":  TokModuleCompliance,
	"AGENT-CAPABILITIES": TokAgentCapabilities,
	"TEXTUAL-CONVENTION": TokTextualConvention,
	"OBJECT":             TokOBJECT,
	"IDENTIFIER":         TokIDENTIFIER,
	"SYNTAX":             TokSYNTAX,
	"ACCESS":             TokACCESS,
	"MAX-ACCESS":         TokMaxAccess,
	"MIN-ACCESS":         TokMinAccess,
	"STATUS":             TokSTATUS,
	"DESCRIPTION":        TokDESCRIPTION,
	"REFERENCE":          TokREFERENCE,
	"UNITS":              TokUNITS,
	"INDEX":              TokINDEX,
	"IMPLIED":            TokIMPLIED,
	"AUGMENTS":           TokAUGMENTS,
	"DEFVAL":             TokDEFVAL,
	"DISPLAY-HINT":       TokDisplayHint,
	"OBJECTS":            TokOBJECTS,
	"VARIABLES":          TokVARIABLES,
	"NOTIFICATIONS":      TokNOTIFICATIONS,
	"ENTERPRISE":         TokENTERPRISE,
	"LAST-UPDATED":       TokLastUpdated,
	"ORGANIZATION":       TokORGANIZATION,
	"CONTACT-INFO":       TokContactInfo,
	"REVISION":           TokREVISION,
	"SEQUENCE":           TokSEQUENCE,
	"OF":                 TokOF,
	"SIZE":               TokSIZE,
	"MODULE":             TokMODULE,
	"MANDATORY-GROUPS":   TokMandatoryGroups,
	"GROUP":              TokGROUP,
	"WRITE-SYNTAX":       TokWriteSyntax,
	"PRODUCT-RELEASE":    TokProductRelease,
	"SUPPORTS":           TokSUPPORTS,
	"INCLUDES":           TokINCLUDES,
	"VARIATION":          TokVARIATION,
	"CREATION-REQUIRES":  TokCreationRequires,
}

// isMacroKeyword reports whether k opens one of the node-producing
// macros.
func isMacroKeyword(k TokenKind) bool {
	return k >= TokObjectType && k <= TokTextualConvention
}

// isClauseKeyword reports whether k starts a clause inside a macro
// body, which is where the generic clause skipper stops consuming.
func isClauseKeyword(k TokenKind) bool {
	return k >= TokSYNTAX && k <= TokREVISION || k >= TokMODULE && k <= TokCreationRequires
}

// Token is one lexed unit. Text holds the word or digits for
// identifier-like and numeric kinds; quoted strings carry only their
// Span so DESCRIPTION text is never copied at lex time.
type Token struct {
	Kind TokenKind
	Text string
	Span types.Span
	Line int
	Col  int
}

func (t Token) String() string {
	if t.Text != "" {
		return fmt.Sprintf("%q@%d", t.Text, t.Line)
	}
	return fmt.Sprintf("kind(%d)@%d", t.Kind, t.Line)
}
