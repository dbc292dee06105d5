package cursor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gocc/cxxtoken/pkg/token"
	"github.com/gocc/cxxtoken/pkg/version"
)

// want is a compact expectation: tag plus the byte length the token
// should cover. Flags are checked separately where a scenario cares
// about them.
type want struct {
	tag    token.Tag
	length uint32
}

func lexAll(t *testing.T, src string, vers version.StdVersion) []token.Token {
	t.Helper()
	c := New(src, vers)
	var out []token.Token
	total := uint32(0)
	for !c.AtEOF() {
		tok := c.NextToken()
		require.NotZero(t, tok.Length(), "token at offset %d has zero length", total)
		total += tok.Length()
		out = append(out, tok)
	}
	assert.Equal(t, uint32(len(src)), total, "tokens must cover the entire input exactly")
	return out
}

func assertKinds(t *testing.T, toks []token.Token, wants []want) {
	t.Helper()
	require.Len(t, toks, len(wants))
	for i, w := range wants {
		assert.Equalf(t, w.tag, toks[i].Kind().Tag, "token %d tag", i)
		assert.Equalf(t, w.length, toks[i].Length(), "token %d length", i)
	}
}

func TestHelloWorld(t *testing.T) {
	src := `"hello world"`
	toks := lexAll(t, src, version.Cpp20)
	assertKinds(t, toks, []want{{token.Str, uint32(len(src))}})
	assert.False(t, toks[0].Kind().HasEsc)
}

func TestSplicedUniversalChar(t *testing.T) {
	// ሴ with a line splice inserted between the leading
	// backslash and the 'u': \ + \ + newline + u1234.
	src := "\\\\\nu1234"
	toks := lexAll(t, src, version.Cpp20)
	assertKinds(t, toks, []want{{token.Identifier, uint32(len(src))}})
	assert.True(t, toks[0].HasUniversalChar())
	assert.True(t, toks[0].HasNewLine())
}

func TestSplicedLineComment(t *testing.T) {
	src := "// comment\\\nstill comment\n"
	toks := lexAll(t, src, version.Cpp20)
	require.Len(t, toks, 2)
	assert.Equal(t, token.LineComment, toks[0].Kind().Tag)
	assert.Equal(t, uint32(len(src)-1), toks[0].Length())
	assert.True(t, toks[0].HasNewLine())
	assert.Equal(t, token.Whitespace, toks[1].Kind().Tag)
}

func TestUnterminatedString(t *testing.T) {
	src := `"unterminated`
	toks := lexAll(t, src, version.Cpp20)
	assertKinds(t, toks, []want{{token.Str, uint32(len(src))}})
	assert.True(t, toks[0].IsUnterminated())
}

func TestStringDoubleBackslash(t *testing.T) {
	src := `"a\\b"`
	toks := lexAll(t, src, version.Cpp20)
	assertKinds(t, toks, []want{{token.Str, uint32(len(src))}})
	assert.True(t, toks[0].Kind().HasEsc)
	assert.False(t, toks[0].IsUnterminated())
}

func TestIdentifierLookingLikeRawString(t *testing.T) {
	src := "u8Rgary"
	toks := lexAll(t, src, version.Cpp20)
	assertKinds(t, toks, []want{{token.Identifier, uint32(len(src))}})
}

func TestNumberWithSeparatorsEnabled(t *testing.T) {
	src := "1'000"
	toks := lexAll(t, src, version.Cpp14)
	assertKinds(t, toks, []want{{token.Number, uint32(len(src))}})
	assert.True(t, toks[0].Kind().HasSep)
	assert.True(t, toks[0].HasNumSeparator())
}

func TestNumberWithSeparatorsDisabled(t *testing.T) {
	src := `int i = 0xa'b'c'd89f'3llu;`
	toks := lexAll(t, src, version.Cpp11)

	assertKinds(t, toks, []want{
		{token.Identifier, 3}, // int
		{token.Whitespace, 1},
		{token.Identifier, 1}, // i
		{token.Whitespace, 1},
		{token.Equal, 1},
		{token.Whitespace, 1},
		{token.Number, 3},     // 0xa
		{token.CharSeq, 3},    // 'b'
		{token.Identifier, 1}, // c
		{token.CharSeq, 6},    // 'd89f'
		{token.Number, 1},     // 3
		{token.Identifier, 3}, // llu
		{token.SemiColon, 1},
	})

	numTok := toks[6]
	assert.Equal(t, token.Hexadecimal, numTok.Kind().Base)
	assert.False(t, numTok.Kind().HasSep)
}

func TestSystemHeader(t *testing.T) {
	c := New(`<stdio.h>`, version.C17)
	tok := c.NextTokenHeader()
	assert.Equal(t, token.SystemHeader, tok.Kind().Tag)
	assert.Equal(t, uint32(9), tok.Length())
	assert.False(t, tok.IsUnterminated())
}

func TestLocalHeader(t *testing.T) {
	c := New(`"myheader.h"`, version.C17)
	tok := c.NextTokenHeader()
	assert.Equal(t, token.Header, tok.Kind().Tag)
	assert.Equal(t, uint32(12), tok.Length())
}

func TestSplicedSystemHeader(t *testing.T) {
	src := "<stdio\\\n.h>"
	c := New(src, version.C17)
	tok := c.NextTokenHeader()
	assert.Equal(t, token.SystemHeader, tok.Kind().Tag)
	assert.Equal(t, uint32(len(src)), tok.Length())
	assert.True(t, tok.HasNewLine())
}

func TestAngleBracketIsNotHeaderOutsideHeaderMode(t *testing.T) {
	c := New(`<x>`, version.C17)
	tok := c.NextToken()
	assert.Equal(t, token.LessThan, tok.Kind().Tag)
}

func TestAngleBracketsMapConventionally(t *testing.T) {
	toks := lexAll(t, "<>", version.Cpp20)
	assertKinds(t, toks, []want{
		{token.LessThan, 1},
		{token.GreaterThan, 1},
	})
}

func TestLineCommentToEOF(t *testing.T) {
	src := "// no trailing newline"
	toks := lexAll(t, src, version.Cpp20)
	assertKinds(t, toks, []want{{token.LineComment, uint32(len(src))}})
}

func TestBlockCommentUnterminated(t *testing.T) {
	src := "/* oops"
	toks := lexAll(t, src, version.Cpp20)
	assertKinds(t, toks, []want{{token.BlockComment, uint32(len(src))}})
	assert.True(t, toks[0].IsUnterminated())
}

func TestBlockCommentSpanningLines(t *testing.T) {
	src := "/* line1\nline2 */"
	toks := lexAll(t, src, version.Cpp20)
	assertKinds(t, toks, []want{{token.BlockComment, uint32(len(src))}})
	assert.True(t, toks[0].HasNewLine())
	assert.False(t, toks[0].IsUnterminated())
}

func TestRawStringLiteral(t *testing.T) {
	src := `R"ggg(body (with parens))ggg"`
	toks := lexAll(t, src, version.Cpp20)
	require.Len(t, toks, 1)
	assert.Equal(t, token.RawStr, toks[0].Kind().Tag)
	assert.Equal(t, "ggg", toks[0].Kind().Delim.String())
	assert.Equal(t, uint32(len(src)), toks[0].Length())
}

func TestRawStringEmptyDelimiter(t *testing.T) {
	src := `R"(plain body)"`
	toks := lexAll(t, src, version.Cpp20)
	require.Len(t, toks, 1)
	assert.Equal(t, token.RawStr, toks[0].Kind().Tag)
	assert.Equal(t, 0, int(toks[0].Kind().Delim.Count))
}

func TestRawStringBeforeCpp11IsNotRecognized(t *testing.T) {
	src := `R"(x)"`
	toks := lexAll(t, src, version.C99)
	assertKinds(t, toks, []want{
		{token.Identifier, 1}, // R
		{token.Str, 5},        // "(x)"
	})
}

func TestUAndLowerUPrefixesBeforeC11OrCpp11AreIdentifiers(t *testing.T) {
	toks := lexAll(t, `U"x"`, version.C99)
	assertKinds(t, toks, []want{
		{token.Identifier, 1}, // U
		{token.Str, 3},        // "x"
	})

	toks = lexAll(t, `u"x"`, version.C99)
	assertKinds(t, toks, []want{
		{token.Identifier, 1}, // u
		{token.Str, 3},        // "x"
	})
}

func TestUAndLowerUPrefixesSinceC11AreLiterals(t *testing.T) {
	toks := lexAll(t, `U"x"`, version.C11)
	require.Len(t, toks, 1)
	assert.Equal(t, token.Str, toks[0].Kind().Tag)
	assert.Equal(t, token.Utf32, toks[0].Kind().LitType)

	toks = lexAll(t, `u"x"`, version.C11)
	require.Len(t, toks, 1)
	assert.Equal(t, token.Str, toks[0].Kind().Tag)
	assert.Equal(t, token.Utf16, toks[0].Kind().LitType)
}

func TestRawStringRejectsMultiCharDelimiter(t *testing.T) {
	src := `R"ab(body)ab"`
	c := New(src, version.Cpp20)
	tok := c.NextToken()
	assert.Equal(t, token.BadRawStr, tok.Kind().Tag)
	assert.Equal(t, token.PrefixMultiChar, tok.Kind().RawErr)
}

func TestWideAndUtf8StringPrefixes(t *testing.T) {
	toks := lexAll(t, `L"wide"`, version.Cpp20)
	require.Len(t, toks, 1)
	assert.Equal(t, token.Str, toks[0].Kind().Tag)
	assert.Equal(t, token.Wide, toks[0].Kind().LitType)

	toks = lexAll(t, `u8"utf8"`, version.Cpp20)
	require.Len(t, toks, 1)
	assert.Equal(t, token.Utf8, toks[0].Kind().LitType)

	toks = lexAll(t, `u"utf16"`, version.Cpp20)
	require.Len(t, toks, 1)
	assert.Equal(t, token.Utf16, toks[0].Kind().LitType)

	toks = lexAll(t, `U"utf32"`, version.Cpp20)
	require.Len(t, toks, 1)
	assert.Equal(t, token.Utf32, toks[0].Kind().LitType)
}

func TestStrayBackslash(t *testing.T) {
	src := "\\x"
	c := New(src, version.Cpp20)
	tok := c.NextToken()
	assert.Equal(t, token.StrayBackSlash, tok.Kind().Tag)
	assert.Equal(t, uint32(1), tok.Length())
}

func TestStrayNumberPrefix(t *testing.T) {
	c := New("0x", version.Cpp20)
	tok := c.NextToken()
	assert.Equal(t, token.StrayNumPrefix, tok.Kind().Tag)
	assert.Equal(t, token.Hexadecimal, tok.Kind().Base)
}

func TestAllTokensIterator(t *testing.T) {
	src := "a b"
	c := New(src, version.Cpp20)
	var tags []token.Tag
	for tok := range c.AllTokens() {
		tags = append(tags, tok.Kind().Tag)
	}
	assert.Equal(t, []token.Tag{token.Identifier, token.Whitespace, token.Identifier}, tags)
}
