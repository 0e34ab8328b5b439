package smi

import (
	"fmt"

	"github.com/golangsnmp/snmpcore/internal/types"
	"github.com/golangsnmp/snmpcore/mib"
)

// lexer scans MIB source into Tokens. Comments run from "--" to end of
// line; a quoted string may span lines and records only its byte span.
type lexer struct {
	src  []byte
	pos  int
	line int
	bol  int // byte offset of the current line's start

	diags []mib.Diagnostic
}

func newLexer(src []byte) *lexer {
	return &lexer{src: src, line: 1}
}

func (lx *lexer) col() int { return lx.pos - lx.bol + 1 }

func (lx *lexer) diag(sev mib.Severity, code, format string, args ...any) {
	lx.diags = append(lx.diags, mib.Diagnostic{
		Severity: sev,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Line:     lx.line,
		Column:   lx.col(),
	})
}

func (lx *lexer) newline() {
	lx.line++
	lx.bol = lx.pos
}

func isWordStart(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func isWordByte(c byte) bool {
	return isWordStart(c) || c >= '0' && c <= '9' || c == '_'
}

// skipBlank consumes whitespace and comments.
func (lx *lexer) skipBlank() {
	for lx.pos < len(lx.src) {
		switch c := lx.src[lx.pos]; {
		case c == '\n':
			lx.pos++
			lx.newline()
		case c == ' ' || c == '\t' || c == '\r' || c == '\f' || c == 11:
			lx.pos++
		case c == '-' && lx.pos+1 < len(lx.src) && lx.src[lx.pos+1] == '-':
			for lx.pos < len(lx.src) && lx.src[lx.pos] != '\n' {
				lx.pos++
			}
		default:
			return
		}
	}
}

// next returns the next token, TokEOF at the end of input. Unlexable
// bytes are reported and skipped.
func (lx *lexer) next() Token {
	for {
		lx.skipBlank()
		if lx.pos >= len(lx.src) {
			return Token{Kind: TokEOF, Line: lx.line, Col: lx.col()}
		}
		tok, ok := lx.scan()
		if ok {
			return tok
		}
	}
}

func (lx *lexer) scan() (Token, bool) {
	start := lx.pos
	line, col := lx.line, lx.col()
	mk := func(kind TokenKind, text string) (Token, bool) {
		return Token{
			Kind: kind,
			Text: text,
			Span: types.NewSpan(types.ByteOffset(start), types.ByteOffset(lx.pos)),
			Line: line,
			Col:  col,
		}, true
	}

	c := lx.src[lx.pos]
	switch {
	case isWordStart(c):
		return mk(lx.scanWord())
	case c >= '0' && c <= '9':
		lx.pos++
		for lx.pos < len(lx.src) && lx.src[lx.pos] >= '0' && lx.src[lx.pos] <= '9' {
			lx.pos++
		}
		return mk(TokNumber, string(lx.src[start:lx.pos]))
	case c == '-' && lx.pos+1 < len(lx.src) && lx.src[lx.pos+1] >= '0' && lx.src[lx.pos+1] <= '9':
		lx.pos++
		for lx.pos < len(lx.src) && lx.src[lx.pos] >= '0' && lx.src[lx.pos] <= '9' {
			lx.pos++
		}
		return mk(TokNegNumber, string(lx.src[start:lx.pos]))
	case c == '"':
		return lx.scanQuote()
	case c == '\'':
		return lx.scanBitHex()
	}

	lx.pos++
	switch c {
	case '{':
		return mk(TokLBrace, "")
	case '}':
		return mk(TokRBrace, "")
	case '(':
		return mk(TokLParen, "")
	case ')':
		return mk(TokRParen, "")
	case ',':
		return mk(TokComma, "")
	case ';':
		return mk(TokSemicolon, "")
	case '|':
		return mk(TokPipe, "")
	case '.':
		if lx.pos < len(lx.src) && lx.src[lx.pos] == '.' {
			lx.pos++
			return mk(TokDotDot, "")
		}
		lx.diag(mib.SeverityWarning, types.DiagParseError, "stray '.'")
		return Token{}, false
	case ':':
		if lx.pos+1 < len(lx.src) && lx.src[lx.pos] == ':' && lx.src[lx.pos+1] == '=' {
			lx.pos += 2
			return mk(TokAssign, "")
		}
		lx.diag(mib.SeverityWarning, types.DiagParseError, "stray ':'")
		return Token{}, false
	default:
		lx.diag(mib.SeverityWarning, types.DiagParseError, "unexpected byte %#x", c)
		return Token{}, false
	}
}

// scanWord consumes an identifier-shaped word. An interior hyphen is
// part of the word only when followed by another word byte, so "foo--x"
// lexes as "foo" with a trailing comment.
func (lx *lexer) scanWord() (TokenKind, string) {
	start := lx.pos
	lx.pos++
	for lx.pos < len(lx.src) {
		c := lx.src[lx.pos]
		if isWordByte(c) {
			lx.pos++
			continue
		}
		if c == '-' && lx.pos+1 < len(lx.src) && isWordByte(lx.src[lx.pos+1]) {
			lx.pos += 2
			continue
		}
		break
	}
	word := string(lx.src[start:lx.pos])
	if kind, ok := keywords[word]; ok {
		return kind, word
	}
	if word[0] >= 'A' && word[0] <= 'Z' {
		return TokTypeRef, word
	}
	return TokIdent, word
}

// scanQuote consumes a double-quoted string, recording the span of the
// content only.
func (lx *lexer) scanQuote() (Token, bool) {
	line, col := lx.line, lx.col()
	lx.pos++ // opening quote
	contentStart := lx.pos
	for lx.pos < len(lx.src) {
		switch lx.src[lx.pos] {
		case '"':
			tok := Token{
				Kind: TokQuote,
				Span: types.NewSpan(types.ByteOffset(contentStart), types.ByteOffset(lx.pos)),
				Line: line,
				Col:  col,
			}
			lx.pos++
			return tok, true
		case '\n':
			lx.pos++
			lx.newline()
		default:
			lx.pos++
		}
	}
	lx.diag(mib.SeverityError, types.DiagParseError, "unterminated string")
	return Token{Kind: TokEOF, Line: line, Col: col}, true
}

// scanBitHex consumes 'xxxx'H or 'xxxx'B literals.
func (lx *lexer) scanBitHex() (Token, bool) {
	line, col := lx.line, lx.col()
	lx.pos++ // opening tick
	contentStart := lx.pos
	for lx.pos < len(lx.src) && lx.src[lx.pos] != '\'' {
		if lx.src[lx.pos] == '\n' {
			lx.pos++
			lx.newline()
			continue
		}
		lx.pos++
	}
	if lx.pos >= len(lx.src) {
		lx.diag(mib.SeverityError, types.DiagParseError, "unterminated hex/binary literal")
		return Token{Kind: TokEOF, Line: line, Col: col}, true
	}
	content := string(lx.src[contentStart:lx.pos])
	lx.pos++ // closing tick
	kind := TokHexStr
	if lx.pos < len(lx.src) {
		switch lx.src[lx.pos] {
		case 'h', 'H':
			lx.pos++
		case 'b', 'B':
			kind = TokBinStr
			lx.pos++
		default:
			lx.diag(mib.SeverityWarning, types.DiagParseError, "hex/binary literal missing radix suffix")
		}
	}
	return Token{
		Kind: kind,
		Text: content,
		Span: types.NewSpan(types.ByteOffset(contentStart), types.ByteOffset(lx.pos)),
		Line: line,
		Col:  col,
	}, true
}
