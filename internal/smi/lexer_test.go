package smi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lexAll(src string) []Token {
	lx := newLexer([]byte(src))
	var out []Token
	for {
		tok := lx.next()
		out = append(out, tok)
		if tok.Kind == TokEOF {
			return out
		}
	}
}

func kinds(toks []Token) []TokenKind {
	out := make([]TokenKind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestLexKeywordsAndWords(t *testing.T) {
	toks := lexAll("TEST-MIB DEFINITIONS ::= BEGIN sysDescr OBJECT-TYPE END")
	assert.Equal(t, []TokenKind{
		TokTypeRef, TokDEFINITIONS, TokAssign, TokBEGIN,
		TokIdent, TokObjectType, TokEND, TokEOF,
	}, kinds(toks))
	assert.Equal(t, "TEST-MIB", toks[0].Text)
	assert.Equal(t, "sysDescr", toks[4].Text)
}

func TestLexCommentsRunToEndOfLine(t *testing.T) {
	toks := lexAll("foo -- a comment ::= BEGIN\nbar")
	assert.Equal(t, []TokenKind{TokIdent, TokIdent, TokEOF}, kinds(toks))
	assert.Equal(t, 2, toks[1].Line)
}

func TestLexWordStopsBeforeComment(t *testing.T) {
	toks := lexAll("counter--old name\n7")
	require.Equal(t, []TokenKind{TokIdent, TokNumber, TokEOF}, kinds(toks))
	assert.Equal(t, "counter", toks[0].Text)
}

func TestLexHyphenatedIdent(t *testing.T) {
	toks := lexAll("mib-2 read-write")
	assert.Equal(t, "mib-2", toks[0].Text)
	assert.Equal(t, "read-write", toks[1].Text)
}

func TestLexNumbers(t *testing.T) {
	toks := lexAll("42 -7")
	require.Equal(t, []TokenKind{TokNumber, TokNegNumber, TokEOF}, kinds(toks))
	assert.Equal(t, "42", toks[0].Text)
	assert.Equal(t, "-7", toks[1].Text)
}

func TestLexQuotedStringRecordsSpanOnly(t *testing.T) {
	src := `DESCRIPTION "two
lines"`
	toks := lexAll(src)
	require.Equal(t, []TokenKind{TokDESCRIPTION, TokQuote, TokEOF}, kinds(toks))
	assert.Empty(t, toks[1].Text, "quoted content must not be copied at lex time")
	assert.Equal(t, "two\nlines", toks[1].Span.Text([]byte(src)))
}

func TestLexHexAndBinaryLiterals(t *testing.T) {
	toks := lexAll("'c0a8'H '0101'b")
	require.Equal(t, []TokenKind{TokHexStr, TokBinStr, TokEOF}, kinds(toks))
	assert.Equal(t, "c0a8", toks[0].Text)
	assert.Equal(t, "0101", toks[1].Text)
}

func TestLexPunctuation(t *testing.T) {
	toks := lexAll("{ ( 0..255 | 7 ) } , ;")
	assert.Equal(t, []TokenKind{
		TokLBrace, TokLParen, TokNumber, TokDotDot, TokNumber, TokPipe,
		TokNumber, TokRParen, TokRBrace, TokComma, TokSemicolon, TokEOF,
	}, kinds(toks))
}

func TestLexReportsStrayBytes(t *testing.T) {
	lx := newLexer([]byte("foo @ bar"))
	var toks []Token
	for {
		tok := lx.next()
		toks = append(toks, tok)
		if tok.Kind == TokEOF {
			break
		}
	}
	assert.Equal(t, []TokenKind{TokIdent, TokIdent, TokEOF}, kinds(toks))
	require.Len(t, lx.diags, 1)
	assert.Equal(t, "parse-error", lx.diags[0].Code)
}
