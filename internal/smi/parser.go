package smi

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/golangsnmp/snmpcore/internal/types"
	"github.com/golangsnmp/snmpcore/mib"
)

// parser is a hand-written LL(1) walker over the lexer's token stream:
// cur is the token under the cursor, nxt the single lookahead that
// definition dispatch and error recovery need.
type parser struct {
	lx  *lexer
	src []byte
	cur Token
	nxt Token
	mod *Module
	cfg mib.DiagnosticConfig
	log types.Logger
}

// Parse lexes and parses one module's source. It always returns a
// Module — a file broken beyond recovery comes back with an empty Name
// and the diagnostics explaining why. Per-macro errors are non-fatal:
// the offending definition is skipped and parsing resumes at the next
// definition boundary.
func Parse(src []byte, logger *slog.Logger, cfg mib.DiagnosticConfig) *Module {
	p := &parser{
		lx:  newLexer(src),
		src: src,
		mod: &Module{},
		cfg: cfg,
		log: types.Logger{L: logger},
	}
	p.cur = p.lx.next()
	p.nxt = p.lx.next()

	if p.parseHeader() {
		p.parseImports()
		p.parseBody()
	}

	for _, d := range p.lx.diags {
		p.keep(d)
	}
	p.log.Debug("parsed module",
		slog.String("module", p.mod.Name),
		slog.Int("defs", len(p.mod.Defs)),
		slog.Int("types", len(p.mod.Types)),
		slog.Int("diags", len(p.mod.Diags)))
	return p.mod
}

func (p *parser) advance() {
	p.cur = p.nxt
	p.nxt = p.lx.next()
}

func (p *parser) at(kind TokenKind) bool { return p.cur.Kind == kind }

func (p *parser) accept(kind TokenKind) bool {
	if p.cur.Kind == kind {
		p.advance()
		return true
	}
	return false
}

func (p *parser) keep(d mib.Diagnostic) {
	d.Module = p.mod.Name
	if p.cfg.ShouldReport(d.Code, d.Severity) {
		p.mod.Diags = append(p.mod.Diags, d)
	}
}

func (p *parser) diag(sev mib.Severity, code, format string, args ...any) {
	p.keep(mib.Diagnostic{
		Severity: sev,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Line:     p.cur.Line,
		Column:   p.cur.Col,
	})
}

// expect consumes a token of the wanted kind, or reports what was found
// instead.
func (p *parser) expect(kind TokenKind, what string) (Token, bool) {
	if p.cur.Kind != kind {
		p.diag(mib.SeverityError, types.DiagParseError, "expected %s", what)
		return Token{}, false
	}
	tok := p.cur
	p.advance()
	return tok, true
}

// word consumes an identifier or type reference and returns its text.
func (p *parser) word(what string) (string, bool) {
	if p.cur.Kind != TokIdent && p.cur.Kind != TokTypeRef {
		p.diag(mib.SeverityError, types.DiagParseError, "expected %s", what)
		return "", false
	}
	text := p.cur.Text
	p.advance()
	return text, true
}

// quote consumes a quoted string, returning its span.
func (p *parser) quote(what string) (types.Span, bool) {
	if p.cur.Kind != TokQuote {
		p.diag(mib.SeverityError, types.DiagParseError, "expected %s", what)
		return types.Span{}, false
	}
	span := p.cur.Span
	p.advance()
	return span, true
}

// quoteText is quote with the content materialized, for short metadata
// strings that are worth copying.
func (p *parser) quoteText(what string) (string, bool) {
	span, ok := p.quote(what)
	if !ok {
		return "", false
	}
	return span.Text(p.src), true
}

// atDefinitionStart reports whether the cursor sits at something that
// looks like the beginning of a new definition, the resume point for
// error recovery.
func (p *parser) atDefinitionStart() bool {
	switch p.cur.Kind {
	case TokEOF, TokEND:
		return true
	case TokIdent:
		return isMacroKeyword(p.nxt.Kind) || p.nxt.Kind == TokOBJECT
	case TokTypeRef:
		return p.nxt.Kind == TokAssign || p.nxt.Kind == TokMACRO
	}
	return false
}

// recover skips forward to the next definition boundary after a parse
// error, always consuming at least one token.
func (p *parser) recover() {
	p.advance()
	for !p.atDefinitionStart() {
		p.advance()
	}
}

// parseHeader consumes `Name DEFINITIONS ::= BEGIN`.
func (p *parser) parseHeader() bool {
	name, ok := p.word("module name")
	if !ok {
		return false
	}
	if _, ok := p.expect(TokDEFINITIONS, "DEFINITIONS"); !ok {
		return false
	}
	if _, ok := p.expect(TokAssign, "::="); !ok {
		return false
	}
	if _, ok := p.expect(TokBEGIN, "BEGIN"); !ok {
		return false
	}
	p.mod.Name = name
	return true
}

// parseImports consumes an optional EXPORTS clause (discarded) and the
// IMPORTS clause, keeping only the identifier lists.
func (p *parser) parseImports() {
	if p.accept(TokEXPORTS) {
		for !p.at(TokSemicolon) && !p.at(TokEOF) {
			p.advance()
		}
		p.accept(TokSemicolon)
	}
	if !p.accept(TokIMPORTS) {
		return
	}
	var symbols []string
	for !p.at(TokSemicolon) && !p.at(TokEOF) {
		switch {
		case p.at(TokComma):
			p.advance()
		case p.at(TokFROM):
			p.advance()
			from, ok := p.word("module name after FROM")
			if !ok {
				p.advance()
				continue
			}
			p.mod.Imports = append(p.mod.Imports, Import{From: from, Symbols: symbols})
			p.noteImportLanguage(from)
			symbols = nil
		default:
			// Imported macro names arrive as keyword tokens; their text
			// is the symbol.
			symbols = append(symbols, p.cur.Text)
			p.advance()
		}
	}
	p.accept(TokSemicolon)
}

func (p *parser) noteImportLanguage(from string) {
	switch from {
	case "SNMPv2-SMI", "SNMPv2-TC", "SNMPv2-CONF":
		if p.mod.Language == mib.LanguageUnknown {
			p.mod.Language = mib.LanguageSMIv2
		}
	case "RFC1155-SMI", "RFC-1212", "RFC-1215":
		p.mod.Language = mib.LanguageSMIv1
	}
}

// parseBody loops over top-level definitions until END.
func (p *parser) parseBody() {
	for !p.at(TokEND) && !p.at(TokEOF) {
		switch {
		case p.cur.Kind == TokIdent:
			p.parseValueDefinition()
		case p.cur.Kind == TokTypeRef:
			p.parseTypeDefinition()
		case p.nxt.Kind == TokMACRO:
			// `OBJECT-TYPE MACRO ::= BEGIN ... END`: the macro names lex
			// as keywords; the body only matters to an ASN.1 compiler.
			p.advance()
			p.skipMacroBody()
		default:
			p.diag(mib.SeverityError, types.DiagParseError, "expected a definition")
			p.recover()
		}
	}
	if !p.accept(TokEND) {
		p.diag(mib.SeverityFatal, types.DiagParseError, "unterminated module (missing END)")
	}
}

// parseValueDefinition dispatches `name <macro> ...` and
// `name OBJECT IDENTIFIER ::= { ... }`.
func (p *parser) parseValueDefinition() {
	name := p.cur.Text
	line := p.cur.Line
	p.advance()

	switch {
	case p.at(TokOBJECT):
		p.advance()
		if _, ok := p.expect(TokIDENTIFIER, "IDENTIFIER"); !ok {
			p.recover()
			return
		}
		if _, ok := p.expect(TokAssign, "::="); !ok {
			p.recover()
			return
		}
		oid, ok := p.parseOidExpr()
		if !ok {
			p.recover()
			return
		}
		p.mod.Defs = append(p.mod.Defs, Def{Kind: DefValueAssign, Name: name, Line: line, OID: oid})
	case isMacroKeyword(p.cur.Kind) && p.cur.Kind != TokTextualConvention:
		p.parseMacro(name, line)
	default:
		p.diag(mib.SeverityError, types.DiagParseError, "unexpected token after %q", name)
		p.recover()
	}
}

func defKindOf(kind TokenKind) DefKind {
	switch kind {
	case TokObjectType:
		return DefObjectType
	case TokObjectIdentity:
		return DefObjectIdentity
	case TokModuleIdentity:
		return DefModuleIdentity
	case TokNotificationType:
		return DefNotificationType
	case TokTrapType:
		return DefTrapType
	case TokObjectGroup:
		return DefObjectGroup
	case TokNotificationGroup:
		return DefNotificationGroup
	case TokModuleCompliance:
		return DefModuleCompliance
	default:
		return DefAgentCapabilities
	}
}

// parseMacro consumes one node-producing macro invocation: the clause
// list up to ::=, then the OID assignment (or, for TRAP-TYPE, the bare
// trap number).
func (p *parser) parseMacro(name string, line int) {
	macro := p.cur.Kind
	d := Def{Kind: defKindOf(macro), Name: name, Line: line}
	if d.Kind == DefTrapType {
		p.mod.Language = mib.LanguageSMIv1
	}
	p.advance()

	for !p.at(TokAssign) && !p.at(TokEOF) && !p.at(TokEND) {
		switch p.cur.Kind {
		case TokSYNTAX:
			p.advance()
			tr, ok := p.parseSyntax()
			if !ok {
				p.recover()
				return
			}
			d.Syntax = &tr
		case TokACCESS, TokMaxAccess:
			p.advance()
			word, ok := p.word("access value")
			if !ok {
				p.recover()
				return
			}
			d.Access = accessValue(word)
		case TokSTATUS:
			p.advance()
			word, ok := p.word("status value")
			if !ok {
				p.recover()
				return
			}
			d.Status = statusValue(word)
		case TokDESCRIPTION:
			p.advance()
			span, ok := p.quote("DESCRIPTION text")
			if !ok {
				p.recover()
				return
			}
			d.Desc = span
		case TokREFERENCE:
			p.advance()
			if _, ok := p.quote("REFERENCE text"); !ok {
				p.recover()
				return
			}
		case TokUNITS:
			p.advance()
			text, ok := p.quoteText("UNITS text")
			if !ok {
				p.recover()
				return
			}
			d.Units = text
		case TokINDEX:
			p.advance()
			idx, ok := p.parseIndex()
			if !ok {
				p.recover()
				return
			}
			d.Index = idx
		case TokAUGMENTS:
			p.advance()
			names, ok := p.parseNameList()
			if !ok || len(names) != 1 {
				p.diag(mib.SeverityError, types.DiagParseError, "AUGMENTS names exactly one row")
				p.recover()
				return
			}
			d.Augments = names[0]
		case TokDEFVAL:
			p.advance()
			dv, ok := p.parseDefVal()
			if !ok {
				p.recover()
				return
			}
			d.DefVal = dv
		case TokOBJECTS, TokVARIABLES, TokNOTIFICATIONS:
			p.advance()
			names, ok := p.parseNameList()
			if !ok {
				p.recover()
				return
			}
			d.Objects = names
		case TokENTERPRISE:
			p.advance()
			// Usually a bare label; `{ iso ... }` expressions are legal
			// but rare enough to take the final label only.
			if p.at(TokLBrace) {
				parts, ok := p.parseOidExpr()
				if !ok || len(parts) == 0 {
					p.recover()
					return
				}
				for _, part := range parts {
					if part.Label != "" {
						d.Enterprise = part.Label
					}
				}
			} else {
				word, ok := p.word("enterprise name")
				if !ok {
					p.recover()
					return
				}
				d.Enterprise = word
			}
		case TokLastUpdated:
			p.advance()
			d.LastUpdated, _ = p.quoteText("LAST-UPDATED text")
		case TokORGANIZATION:
			p.advance()
			d.Organization, _ = p.quoteText("ORGANIZATION text")
		case TokContactInfo:
			p.advance()
			d.ContactInfo, _ = p.quoteText("CONTACT-INFO text")
		case TokREVISION:
			p.advance()
			date, ok := p.quoteText("REVISION date")
			if !ok {
				p.recover()
				return
			}
			rev := mib.Revision{Date: date}
			if p.accept(TokDESCRIPTION) {
				span, ok := p.quote("revision DESCRIPTION")
				if !ok {
					p.recover()
					return
				}
				rev.Description = span.Text(p.src)
			}
			d.Revisions = append(d.Revisions, rev)
		case TokOBJECT:
			// A compliance/capabilities refinement clause; its details
			// are not modeled.
			p.skipClause()
		default:
			if isClauseKeyword(p.cur.Kind) {
				p.skipClause()
				continue
			}
			p.diag(mib.SeverityWarning, types.DiagParseError, "unexpected token in %s", d.Kind)
			p.advance()
		}
	}

	if _, ok := p.expect(TokAssign, "::="); !ok {
		p.recover()
		return
	}
	if d.Kind == DefTrapType {
		num, ok := p.expect(TokNumber, "trap number")
		if !ok {
			p.recover()
			return
		}
		code, err := strconv.ParseInt(num.Text, 10, 64)
		if err != nil {
			p.diag(mib.SeverityError, types.DiagInvalidI64, "bad trap number %q", num.Text)
			return
		}
		d.SpecificCode = code
	} else {
		oid, ok := p.parseOidExpr()
		if !ok {
			p.recover()
			return
		}
		d.OID = oid
	}
	p.mod.Defs = append(p.mod.Defs, d)
}

// skipMacroBody consumes `MACRO ::= BEGIN ... END`.
func (p *parser) skipMacroBody() {
	for !p.at(TokEND) && !p.at(TokEOF) {
		p.advance()
	}
	p.accept(TokEND)
}

// skipClause consumes one unmodeled clause: the keyword, then tokens up
// to the next clause keyword or ::= at bracket depth zero.
func (p *parser) skipClause() {
	p.advance()
	depth := 0
	for !p.at(TokEOF) && !p.at(TokEND) {
		switch p.cur.Kind {
		case TokLBrace, TokLParen:
			depth++
		case TokRBrace, TokRParen:
			depth--
		case TokAssign:
			if depth <= 0 {
				return
			}
		default:
			if depth <= 0 && (isClauseKeyword(p.cur.Kind) || p.cur.Kind == TokOBJECT) {
				return
			}
		}
		p.advance()
	}
}

// parseTypeDefinition dispatches `Name ::= <syntax>`,
// `Name ::= TEXTUAL-CONVENTION ...` and `Name MACRO ::= ... END` (the
// latter skipped: macro definitions only matter to a full ASN.1
// compiler).
func (p *parser) parseTypeDefinition() {
	name := p.cur.Text
	line := p.cur.Line
	p.advance()

	if p.at(TokMACRO) {
		p.skipMacroBody()
		return
	}

	if _, ok := p.expect(TokAssign, "::="); !ok {
		p.recover()
		return
	}

	td := TypeDef{Name: name, Line: line}
	if p.accept(TokTextualConvention) {
		td.IsTC = true
		for {
			switch p.cur.Kind {
			case TokDisplayHint:
				p.advance()
				td.Hint, _ = p.quoteText("DISPLAY-HINT text")
				continue
			case TokSTATUS:
				p.advance()
				word, ok := p.word("status value")
				if !ok {
					p.recover()
					return
				}
				td.Status = statusValue(word)
				continue
			case TokDESCRIPTION:
				p.advance()
				td.Desc, _ = p.quote("DESCRIPTION text")
				continue
			case TokREFERENCE:
				p.advance()
				_, _ = p.quote("REFERENCE text")
				continue
			}
			break
		}
		if _, ok := p.expect(TokSYNTAX, "SYNTAX"); !ok {
			p.recover()
			return
		}
	}

	syntax, ok := p.parseSyntax()
	if !ok {
		p.recover()
		return
	}
	td.Syntax = syntax
	p.mod.Types = append(p.mod.Types, td)
}

// builtinBases maps the syntax keywords that resolve without a type
// table. The SMIv1 unsized forms alias their 32-bit successors.
var builtinBases = map[string]mib.BaseType{
	"INTEGER":        mib.BaseInteger32,
	"Integer32":      mib.BaseInteger32,
	"Unsigned32":     mib.BaseUnsigned32,
	"Counter":        mib.BaseCounter32,
	"Counter32":      mib.BaseCounter32,
	"Counter64":      mib.BaseCounter64,
	"Gauge":          mib.BaseGauge32,
	"Gauge32":        mib.BaseGauge32,
	"TimeTicks":      mib.BaseTimeTicks,
	"IpAddress":      mib.BaseIpAddress,
	"NetworkAddress": mib.BaseIpAddress,
	"Opaque":         mib.BaseOpaque,
}

// parseSyntax consumes one syntax expression with its optional inline
// restriction.
func (p *parser) parseSyntax() (TypeRef, bool) {
	var tr TypeRef
	switch p.cur.Kind {
	case TokSEQUENCE:
		p.advance()
		if p.at(TokOF) {
			p.advance()
			name, ok := p.word("row type after SEQUENCE OF")
			if !ok {
				return tr, false
			}
			return TypeRef{OfType: name}, true
		}
		// A row's column layout: the fields repeat information the
		// columns themselves carry, so the block is consumed unparsed.
		if _, ok := p.expect(TokLBrace, "{"); !ok {
			return tr, false
		}
		depth := 1
		for depth > 0 && !p.at(TokEOF) {
			switch p.cur.Kind {
			case TokLBrace:
				depth++
			case TokRBrace:
				depth--
			}
			p.advance()
		}
		return TypeRef{Base: mib.BaseSequence}, true
	case TokOBJECT:
		p.advance()
		if _, ok := p.expect(TokIDENTIFIER, "IDENTIFIER"); !ok {
			return tr, false
		}
		return TypeRef{Base: mib.BaseObjectIdentifier}, true
	case TokTypeRef, TokIdent:
		word := p.cur.Text
		p.advance()
		switch word {
		case "OCTET":
			if next, ok := p.word("STRING after OCTET"); !ok || next != "STRING" {
				p.diag(mib.SeverityError, types.DiagUnknownTypeSyntax, "OCTET must be followed by STRING")
				return tr, false
			}
			tr.Base = mib.BaseOctetString
		case "BITS":
			tr.Base = mib.BaseBits
		default:
			if base, ok := builtinBases[word]; ok {
				tr.Base = base
			} else {
				tr.Name = word
			}
		}
		return p.parseRestriction(tr)
	default:
		p.diag(mib.SeverityError, types.DiagUnknownTypeSyntax, "expected a syntax")
		return tr, false
	}
}

// parseRestriction attaches an optional `{ enums }`, `(SIZE (...))` or
// `( ranges )` suffix to tr.
func (p *parser) parseRestriction(tr TypeRef) (TypeRef, bool) {
	switch p.cur.Kind {
	case TokLBrace:
		named, ok := p.parseNamedValues()
		if !ok {
			return tr, false
		}
		if tr.Base == mib.BaseBits {
			tr.RestKind = mib.RestBits
		} else {
			tr.RestKind = mib.RestEnums
		}
		tr.Named = named
	case TokLParen:
		p.advance()
		if p.accept(TokSIZE) {
			if _, ok := p.expect(TokLParen, "( after SIZE"); !ok {
				return tr, false
			}
			bounds, ok := p.parseBounds()
			if !ok {
				return tr, false
			}
			if _, ok := p.expect(TokRParen, ")"); !ok {
				return tr, false
			}
			tr.RestKind = mib.RestSize
			tr.Bounds = bounds
		} else {
			bounds, ok := p.parseBounds()
			if !ok {
				return tr, false
			}
			tr.RestKind = mib.RestRange
			tr.Bounds = bounds
		}
		if _, ok := p.expect(TokRParen, ")"); !ok {
			return tr, false
		}
	}
	return tr, true
}

// parseNamedValues consumes `{ label(n), ... }`.
func (p *parser) parseNamedValues() ([]mib.NamedValue, bool) {
	if _, ok := p.expect(TokLBrace, "{"); !ok {
		return nil, false
	}
	var out []mib.NamedValue
	for !p.at(TokRBrace) && !p.at(TokEOF) {
		label, ok := p.word("enumeration label")
		if !ok {
			return nil, false
		}
		if _, ok := p.expect(TokLParen, "( after label"); !ok {
			return nil, false
		}
		v, ok := p.signedNumber()
		if !ok {
			return nil, false
		}
		if _, ok := p.expect(TokRParen, ")"); !ok {
			return nil, false
		}
		out = append(out, mib.NamedValue{Label: label, Value: v})
		p.accept(TokComma)
	}
	if _, ok := p.expect(TokRBrace, "}"); !ok {
		return nil, false
	}
	return out, true
}

// parseBounds consumes pipe-separated `n` or `n..m` terms.
func (p *parser) parseBounds() ([]mib.Range, bool) {
	var out []mib.Range
	for {
		lo, ok := p.signedNumber()
		if !ok {
			return nil, false
		}
		hi := lo
		if p.accept(TokDotDot) {
			hi, ok = p.signedNumber()
			if !ok {
				return nil, false
			}
		}
		out = append(out, mib.Range{Min: lo, Max: hi})
		if !p.accept(TokPipe) {
			return out, true
		}
	}
}

// signedNumber consumes a decimal, negative-decimal or hex/binary
// literal as an int64.
func (p *parser) signedNumber() (int64, bool) {
	tok := p.cur
	switch tok.Kind {
	case TokNumber, TokNegNumber:
		p.advance()
		v, err := strconv.ParseInt(tok.Text, 10, 64)
		if err != nil {
			p.diag(mib.SeverityError, types.DiagInvalidI64, "bad number %q", tok.Text)
			return 0, false
		}
		return v, true
	case TokHexStr:
		p.advance()
		if tok.Text == "" {
			return 0, true
		}
		v, err := strconv.ParseUint(tok.Text, 16, 64)
		if err != nil {
			p.diag(mib.SeverityError, types.DiagInvalidHexRange, "bad hex literal %q", tok.Text)
			return 0, false
		}
		return int64(v), true
	case TokBinStr:
		p.advance()
		if tok.Text == "" {
			return 0, true
		}
		v, err := strconv.ParseUint(tok.Text, 2, 64)
		if err != nil {
			p.diag(mib.SeverityError, types.DiagInvalidHexRange, "bad binary literal %q", tok.Text)
			return 0, false
		}
		return int64(v), true
	default:
		p.diag(mib.SeverityError, types.DiagParseError, "expected a number")
		return 0, false
	}
}

// parseIndex consumes `{ [IMPLIED] col, ... }`.
func (p *parser) parseIndex() ([]IndexRef, bool) {
	if _, ok := p.expect(TokLBrace, "{"); !ok {
		return nil, false
	}
	var out []IndexRef
	for !p.at(TokRBrace) && !p.at(TokEOF) {
		implied := p.accept(TokIMPLIED)
		name, ok := p.word("index column name")
		if !ok {
			return nil, false
		}
		out = append(out, IndexRef{Name: name, Implied: implied})
		p.accept(TokComma)
	}
	if _, ok := p.expect(TokRBrace, "}"); !ok {
		return nil, false
	}
	return out, true
}

// parseNameList consumes `{ name, ... }` into plain strings.
func (p *parser) parseNameList() ([]string, bool) {
	if _, ok := p.expect(TokLBrace, "{"); !ok {
		return nil, false
	}
	var out []string
	for !p.at(TokRBrace) && !p.at(TokEOF) {
		name, ok := p.word("name")
		if !ok {
			return nil, false
		}
		out = append(out, name)
		p.accept(TokComma)
	}
	if _, ok := p.expect(TokRBrace, "}"); !ok {
		return nil, false
	}
	return out, true
}

// parseOidExpr consumes `{ parent label(n) ... n }` into parts with
// parents still by-name.
func (p *parser) parseOidExpr() ([]OidPart, bool) {
	if _, ok := p.expect(TokLBrace, "{"); !ok {
		return nil, false
	}
	var parts []OidPart
	for !p.at(TokRBrace) && !p.at(TokEOF) {
		switch p.cur.Kind {
		case TokIdent, TokTypeRef:
			part := OidPart{Label: p.cur.Text}
			p.advance()
			if p.accept(TokLParen) {
				num, ok := p.expect(TokNumber, "arc number")
				if !ok {
					return nil, false
				}
				arc, err := strconv.ParseUint(num.Text, 10, 32)
				if err != nil {
					p.diag(mib.SeverityError, types.DiagInvalidU32, "bad arc %q", num.Text)
					return nil, false
				}
				part.Arc = uint32(arc)
				part.HasArc = true
				if _, ok := p.expect(TokRParen, ")"); !ok {
					return nil, false
				}
			}
			parts = append(parts, part)
		case TokNumber:
			arc, err := strconv.ParseUint(p.cur.Text, 10, 32)
			if err != nil {
				p.diag(mib.SeverityError, types.DiagInvalidU32, "bad arc %q", p.cur.Text)
				return nil, false
			}
			parts = append(parts, OidPart{Arc: uint32(arc), HasArc: true})
			p.advance()
		default:
			p.diag(mib.SeverityError, types.DiagParseError, "unexpected token in OID expression")
			return nil, false
		}
	}
	if _, ok := p.expect(TokRBrace, "}"); !ok {
		return nil, false
	}
	if len(parts) == 0 {
		p.diag(mib.SeverityError, types.DiagParseError, "empty OID expression")
		return nil, false
	}
	return parts, true
}

// parseDefVal consumes `DEFVAL { value }`.
func (p *parser) parseDefVal() (*mib.DefVal, bool) {
	if _, ok := p.expect(TokLBrace, "{"); !ok {
		return nil, false
	}
	var dv mib.DefVal
	switch p.cur.Kind {
	case TokNumber, TokNegNumber:
		v, ok := p.signedNumber()
		if !ok {
			return nil, false
		}
		dv = mib.DefVal{Kind: mib.DefValInteger, Int: v}
	case TokQuote:
		text, ok := p.quoteText("DEFVAL string")
		if !ok {
			return nil, false
		}
		dv = mib.DefVal{Kind: mib.DefValString, Str: text}
	case TokHexStr:
		dv = mib.DefVal{Kind: mib.DefValHexString, Str: p.cur.Text}
		p.advance()
	case TokBinStr:
		dv = mib.DefVal{Kind: mib.DefValBinaryString, Str: p.cur.Text}
		p.advance()
	case TokIdent, TokTypeRef:
		dv = mib.DefVal{Kind: mib.DefValEnum, Labels: []string{p.cur.Text}}
		p.advance()
	case TokLBrace:
		inner, ok := p.parseDefValGroup()
		if !ok {
			return nil, false
		}
		dv = inner
	default:
		p.diag(mib.SeverityError, types.DiagUnknownDefval, "unsupported DEFVAL form")
		return nil, false
	}
	if _, ok := p.expect(TokRBrace, "}"); !ok {
		return nil, false
	}
	return &dv, true
}

// parseDefValGroup disambiguates the braced DEFVAL forms: a BITS label
// set (commas, labels) versus a numeric OID value.
func (p *parser) parseDefValGroup() (mib.DefVal, bool) {
	p.advance() // inner {
	var labels []string
	var arcs mib.OID
	sawComma := false
	for !p.at(TokRBrace) && !p.at(TokEOF) {
		switch p.cur.Kind {
		case TokIdent, TokTypeRef:
			labels = append(labels, p.cur.Text)
			p.advance()
		case TokNumber:
			arc, err := strconv.ParseUint(p.cur.Text, 10, 32)
			if err != nil {
				p.diag(mib.SeverityError, types.DiagInvalidU32, "bad arc %q", p.cur.Text)
				return mib.DefVal{}, false
			}
			arcs = append(arcs, uint32(arc))
			p.advance()
		case TokComma:
			sawComma = true
			p.advance()
		default:
			p.diag(mib.SeverityError, types.DiagUnknownDefval, "unsupported DEFVAL group")
			return mib.DefVal{}, false
		}
	}
	if _, ok := p.expect(TokRBrace, "}"); !ok {
		return mib.DefVal{}, false
	}
	if sawComma || len(labels) > 0 && len(arcs) == 0 {
		return mib.DefVal{Kind: mib.DefValBits, Labels: labels}, true
	}
	return mib.DefVal{Kind: mib.DefValOID, OID: arcs}, true
}

// accessValue maps the ACCESS/MAX-ACCESS words.
func accessValue(word string) mib.Access {
	switch word {
	case "not-accessible":
		return mib.AccessNotAccessible
	case "accessible-for-notify":
		return mib.AccessAccessibleForNotify
	case "read-only":
		return mib.AccessReadOnly
	case "read-write":
		return mib.AccessReadWrite
	case "read-create":
		return mib.AccessReadCreate
	case "write-only":
		return mib.AccessWriteOnly
	default:
		return mib.AccessNotAccessible
	}
}

// statusValue maps the STATUS words, both SMIv2 and SMIv1.
func statusValue(word string) mib.Status {
	switch word {
	case "current":
		return mib.StatusCurrent
	case "deprecated":
		return mib.StatusDeprecated
	case "obsolete":
		return mib.StatusObsolete
	case "mandatory":
		return mib.StatusMandatory
	case "optional":
		return mib.StatusOptional
	default:
		return mib.StatusCurrent
	}
}
