// Package cursor implements the lexical cursor: a resumable, single
// pass scanner that turns a source buffer into a stream of Tokens
// covering the input exactly, with no lookahead surviving between
// calls.
//
// A Cursor never allocates beyond its own fields. It does not resolve
// macros, perform #include processing, classify identifiers as
// keywords, or attach source locations to tokens; callers that need
// those layer them on top using Token.Length to advance their own
// offset tracking.
package cursor

import (
	"unicode/utf8"

	"github.com/gocc/cxxtoken/internal/charclass"
	"github.com/gocc/cxxtoken/pkg/token"
	"github.com/gocc/cxxtoken/pkg/version"
)

// ExpectHeader tells next token whether a quote or angle bracket at
// the outermost dispatch position should be treated as the start of a
// header-name literal. Only the first token after a #include's
// "include" identifier is scanned this way; every other call site
// uses Ordinary.
type ExpectHeader bool

const (
	Ordinary      ExpectHeader = false
	HeaderAllowed ExpectHeader = true
)

// Cursor scans one source buffer. It is cheap to construct and holds
// no allocations beyond the buffer reference itself.
type Cursor struct {
	src  string
	pos  int
	vers version.StdVersion
}

// New constructs a Cursor over src, scanning under the rules of vers.
func New(src string, vers version.StdVersion) *Cursor {
	return &Cursor{src: src, vers: vers}
}

// Version returns the standard version this cursor scans under.
func (c *Cursor) Version() version.StdVersion { return c.vers }

// AtEOF reports whether the cursor has consumed the entire buffer.
func (c *Cursor) AtEOF() bool { return c.pos >= len(c.src) }

// Remaining returns the unconsumed suffix of the source buffer.
func (c *Cursor) Remaining() string { return c.src[c.pos:] }

// state is a checkpoint the speculative splice/UCN scanners save and
// roll back to. It is a plain value; restoring it is O(1).
type state struct {
	pos int
}

func (c *Cursor) save() state       { return state{pos: c.pos} }
func (c *Cursor) restore(s state)   { c.pos = s.pos }

// peek returns the rune at the cursor without consuming it, along
// with its width in bytes. Returns (utf8.RuneError, 0) at EOF.
func (c *Cursor) peek() (rune, int) {
	if c.pos >= len(c.src) {
		return utf8.RuneError, 0
	}
	r, w := utf8.DecodeRuneInString(c.src[c.pos:])
	return r, w
}

// peekAt returns the rune n runes ahead of the cursor without
// consuming anything.
func (c *Cursor) peekAt(n int) (rune, int) {
	pos := c.pos
	var r rune
	var w int
	for i := 0; i <= n; i++ {
		if pos >= len(c.src) {
			return utf8.RuneError, 0
		}
		r, w = utf8.DecodeRuneInString(c.src[pos:])
		if i < n {
			pos += w
		}
	}
	return r, w
}

// bump consumes and returns the rune at the cursor.
func (c *Cursor) bump() (rune, bool) {
	r, w := c.peek()
	if w == 0 {
		return utf8.RuneError, false
	}
	c.pos += w
	return r, true
}

// eat consumes the rune at the cursor if it equals want.
func (c *Cursor) eat(want rune) bool {
	r, w := c.peek()
	if w == 0 || r != want {
		return false
	}
	c.pos += w
	return true
}

// builder accumulates the length and flags of the token under
// construction, measured from the cursor position where scanning
// began.
type builder struct {
	startPos int
	flags    token.Flags
}

func (c *Cursor) startToken() builder {
	return builder{startPos: c.pos}
}

func (b *builder) setNewline()      { b.flags |= token.NEWLINE }
func (b *builder) setUnivChar()     { b.flags |= token.UNIV_CHAR }
func (b *builder) setUnterminated() { b.flags |= token.UNTERMINATED }
func (b *builder) setNumSeparator() { b.flags |= token.NUM_SEPARATOR }

func (c *Cursor) build(b builder, kind token.TokenKind) token.Token {
	length := uint32(c.pos - b.startPos)
	return token.New(kind, length, b.flags)
}

// NextToken scans the next token with quotes and angle brackets at
// the outermost position treated as ordinary punctuation. Once the
// cursor is at EOF it returns a zero-length Unknown token, so callers
// check AtEOF before each call.
func (c *Cursor) NextToken() token.Token {
	return c.nextTokenImpl(Ordinary)
}

// NextTokenHeader scans the next token the way NextToken does, except
// that a '"' or '<' at the outermost position starts a header-name
// literal (SystemHeader or Header) instead of an ordinary string or
// punctuation pair. Callers use this only for the single token that
// follows a #include directive's "include" identifier.
func (c *Cursor) NextTokenHeader() token.Token {
	return c.nextTokenImpl(HeaderAllowed)
}

func (c *Cursor) nextTokenImpl(header ExpectHeader) token.Token {
	b := c.startToken()

	r, w := c.peek()
	if w == 0 {
		return c.build(b, token.KindOf(token.Unknown))
	}

	switch {
	case isWhitespace(r):
		splits := c.eatWhitespace()
		if splits {
			b.setNewline()
		}
		return c.build(b, token.WhitespaceKind(splits))

	case r == '/':
		if next, nw := c.peekAt(1); nw > 0 && next == '/' {
			c.bump()
			c.bump()
			c.eatLineComment(&b)
			return c.build(b, token.KindOf(token.LineComment))
		}
		if next, nw := c.peekAt(1); nw > 0 && next == '*' {
			c.bump()
			c.bump()
			terminated := c.eatBlockComment(&b)
			if !terminated {
				b.setUnterminated()
			}
			return c.build(b, token.KindOf(token.BlockComment))
		}
		c.bump()
		return c.build(b, token.KindOf(token.Slash))

	case r == '"' && bool(header):
		c.bump()
		return c.eatQuotedList(&b, '"', true)

	case r == '<' && bool(header):
		c.bump()
		return c.eatQuotedList(&b, '>', true)

	case r == '"':
		c.bump()
		return c.eatQuotedList(&b, '"', false)

	case r == '\'':
		c.bump()
		return c.eatQuotedList(&b, '\'', false)

	case r == 'L':
		return c.eatLitOrIdentifier(&b, token.Wide)
	case r == 'U' && (c.vers.IsSinceC11() || c.vers.IsSinceCpp11()):
		return c.eatLitOrIdentifier(&b, token.Utf32)
	case r == 'u' && (c.vers.IsSinceC11() || c.vers.IsSinceCpp11()):
		return c.eatLitOrIdentifierU(&b)
	case r == 'R' && c.vers.IsSinceCpp11():
		if tok, ok := c.tryEatRawStringNoPrefix(&b); ok {
			return tok
		}
		c.bump()
		univ := c.eatIdentifierRest(&b)
		if univ {
			b.setUnivChar()
		}
		return c.build(b, token.KindOf(token.Identifier))

	case charclass.IsIDStart(r):
		c.bump()
		univ := c.eatIdentifierRest(&b)
		if univ {
			b.setUnivChar()
		}
		return c.build(b, token.KindOf(token.Identifier))

	case r >= '0' && r <= '9':
		return c.eatNumber(&b)

	case r == '\\':
		c.bump()
		if c.tryEatUniversalChar(&b) {
			univ := c.eatIdentifierRest(&b)
			_ = univ
			b.setUnivChar()
			return c.build(b, token.KindOf(token.Identifier))
		}
		return c.build(b, token.KindOf(token.StrayBackSlash))

	default:
		return c.eatPunct(&b, r, w)
	}
}

func isWhitespace(r rune) bool {
	switch r {
	case ' ', '\t', '\v', '\f', '\n', '\r':
		return true
	default:
		return false
	}
}

// eatWhitespace consumes a maximal run of whitespace and escaped
// newlines, reporting whether any actual newline (spliced or bare)
// was seen.
func (c *Cursor) eatWhitespace() bool {
	splits := false
	for {
		r, w := c.peek()
		if w == 0 {
			return splits
		}
		if r == '\n' {
			splits = true
			c.bump()
			continue
		}
		if isWhitespace(r) {
			c.bump()
			continue
		}
		if r == '\\' {
			save := c.save()
			c.bump()
			if c.tryEatEscNewline() {
				splits = true
				continue
			}
			c.restore(save)
			return splits
		}
		return splits
	}
}

// eatLineComment consumes up to, but not including, the newline that
// ends the line, splicing escaped newlines so that a comment ending in
// "\\\n" continues onto the next physical line rather than terminating.
func (c *Cursor) eatLineComment(b *builder) {
	for {
		r, w := c.peek()
		if w == 0 || r == '\n' {
			return
		}
		if r == '\\' {
			save := c.save()
			c.bump()
			if c.tryEatEscNewline() {
				b.setNewline()
				continue
			}
			c.restore(save)
		}
		c.bump()
	}
}

// eatBlockComment consumes through the closing "*/", reporting false
// if input ended first.
func (c *Cursor) eatBlockComment(b *builder) bool {
	for {
		r, w := c.peek()
		if w == 0 {
			return false
		}
		if r == '\n' {
			b.setNewline()
		}
		if r == '*' {
			if next, nw := c.peekAt(1); nw > 0 && next == '/' {
				c.bump()
				c.bump()
				return true
			}
		}
		c.bump()
	}
}

// eatIdentifierRest consumes the XID_Continue tail of an identifier,
// recognizing splice-tolerant universal character names along the
// way, and reports whether any were consumed.
func (c *Cursor) eatIdentifierRest(b *builder) bool {
	sawUniv := false
	for {
		r, w := c.peek()
		if w > 0 && charclass.IsIDContinue(r) {
			c.bump()
			continue
		}
		if w > 0 && r == '\\' {
			save := c.save()
			c.bump()
			if c.tryEatUniversalChar(b) {
				sawUniv = true
				continue
			}
			c.restore(save)
		}
		return sawUniv
	}
}

// tryEatEscNewline speculatively consumes an escaped newline: a
// backslash (already consumed by the caller) followed by optional
// non-newline whitespace and a line terminator, possibly chained. On
// failure it rolls back to the position right after the backslash so
// the caller can treat it as a stray backslash instead.
func (c *Cursor) tryEatEscNewline() bool {
	save := c.save()
	for {
		r, w := c.peek()
		if w > 0 && r != '\n' && isWhitespace(r) {
			c.bump()
			continue
		}
		break
	}
	r, w := c.peek()
	if w == 0 || r != '\n' {
		c.restore(save)
		return false
	}
	c.bump()

	if r2, w2 := c.peek(); w2 > 0 && r2 == '\\' {
		innerSave := c.save()
		c.bump()
		if c.tryEatEscNewline() {
			return true
		}
		c.restore(innerSave)
	}
	return true
}

// tryEatUniversalChar speculatively consumes a \uXXXX or \UXXXXXXXX
// universal character name (the leading backslash already consumed by
// the caller), tolerating a spliced newline between any two
// characters of the escape. On failure the cursor is rolled back to
// just after the backslash.
func (c *Cursor) tryEatUniversalChar(b *builder) bool {
	save := c.save()

	nextLiteral := func() (rune, bool) {
		for {
			r, w := c.peek()
			if w == 0 {
				return 0, false
			}
			if r == '\\' {
				innerSave := c.save()
				c.bump()
				if c.tryEatEscNewline() {
					b.setNewline()
					continue
				}
				c.restore(innerSave)
			}
			c.bump()
			return r, true
		}
	}

	r, ok := nextLiteral()
	if !ok || (r != 'u' && r != 'U') {
		c.restore(save)
		return false
	}
	want := 4
	if r == 'U' {
		want = 8
	}
	for i := 0; i < want; i++ {
		h, ok := nextLiteral()
		if !ok || !isHexDigit(h) {
			c.restore(save)
			return false
		}
	}
	return true
}

func isHexDigit(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

// eatNumber scans a numeric literal: an optional base prefix, then a
// run of digits matching that base, with optional digit separators in
// C++14/C23 and later. A trailing literal suffix (u, LL, f, ...) is
// left for the next call to scan as its own Identifier token, and so
// is anything past the digit run (e.g. a decimal point or exponent);
// this cursor only recognizes the base-prefixed digit run itself.
func (c *Cursor) eatNumber(b *builder) token.Token {
	base := token.Decimal
	first, _ := c.bump()

	if first == '0' {
		if next, nw := c.peekAt(0); nw > 0 && (next == 'x' || next == 'X') {
			c.bump()
			base = token.Hexadecimal
		} else if nw > 0 && (next == 'b' || next == 'B') {
			c.bump()
			base = token.Binary
		} else if nw > 0 && next == '0' {
			base = token.Octal
		}
	}

	allowSep := c.vers.IsSinceCpp14() || c.vers.IsSinceC23()
	hasSep := false
	sawAnyDigit := base == token.Decimal

	for {
		r, w := c.peek()
		if w == 0 {
			break
		}
		if r == '\'' && allowSep {
			nr, nw := c.peekAt(1)
			if sawAnyDigit && nw > 0 && base.Matches(nr) {
				c.bump()
				hasSep = true
				continue
			}
			break
		}
		if base.Matches(r) {
			c.bump()
			sawAnyDigit = true
			continue
		}
		break
	}

	if base != token.Decimal && !sawAnyDigit {
		return c.build(*b, token.StrayNumPrefixKind(base))
	}
	if hasSep {
		b.setNumSeparator()
	}
	return c.build(*b, token.NumberKind(base, hasSep))
}

// eatLitOrIdentifier handles the 'L' and 'U' prefix letters, which may
// start a wide/utf32 char or string literal, a raw string (C++11+),
// or simply be the start of an ordinary identifier.
func (c *Cursor) eatLitOrIdentifier(b *builder, lit token.LitType) token.Token {
	c.bump()
	if next, w := c.peek(); w > 0 {
		switch next {
		case '"':
			c.bump()
			return c.eatQuotedListLit(b, '"', lit)
		case '\'':
			c.bump()
			return c.eatQuotedListLit(b, '\'', lit)
		case 'R':
			if c.vers.IsSinceCpp11() {
				if tok, ok := c.tryEatRawStringWithPrefix(b, lit); ok {
					return tok
				}
			}
		}
	}
	univ := c.eatIdentifierRest(b)
	if univ {
		b.setUnivChar()
	}
	return c.build(*b, token.KindOf(token.Identifier))
}

// eatLitOrIdentifierU handles the 'u' prefix letter, disambiguating
// u8/u16 (no distinct LitType for u16 in this model beyond Utf16) from
// a plain identifier starting with 'u'.
func (c *Cursor) eatLitOrIdentifierU(b *builder) token.Token {
	c.bump()
	lit := token.Utf16

	if next, w := c.peek(); w > 0 && next == '8' {
		save := c.save()
		c.bump()
		if n2, w2 := c.peek(); w2 > 0 && (n2 == '"' || (n2 == 'R' && c.vers.IsSinceCpp11())) {
			lit = token.Utf8
		} else {
			c.restore(save)
		}
	}

	if next, w := c.peek(); w > 0 {
		switch next {
		case '"':
			c.bump()
			return c.eatQuotedListLit(b, '"', lit)
		case '\'':
			if lit != token.Utf8 {
				c.bump()
				return c.eatQuotedListLit(b, '\'', lit)
			}
		case 'R':
			if c.vers.IsSinceCpp11() {
				if tok, ok := c.tryEatRawStringWithPrefix(b, lit); ok {
					return tok
				}
			}
		}
	}

	univ := c.eatIdentifierRest(b)
	if univ {
		b.setUnivChar()
	}
	return c.build(*b, token.KindOf(token.Identifier))
}

// eatQuotedList scans an ordinary string/char/header literal whose
// opening quote has already been consumed.
func (c *Cursor) eatQuotedList(b *builder, term rune, isHeader bool) token.Token {
	kind := c.quotedKindFor(term, isHeader, token.Default)
	return c.runQuotedBody(b, term, kind)
}

func (c *Cursor) eatQuotedListLit(b *builder, term rune, lit token.LitType) token.Token {
	kind := c.quotedKindFor(term, false, lit)
	return c.runQuotedBody(b, term, kind)
}

func (c *Cursor) quotedKindFor(term rune, isHeader bool, lit token.LitType) token.TokenKind {
	if isHeader {
		if term == '>' {
			return token.KindOf(token.SystemHeader)
		}
		return token.KindOf(token.Header)
	}
	if term == '\'' {
		return token.CharSeqKind(lit, false)
	}
	return token.StrKind(lit, false)
}

func (c *Cursor) runQuotedBody(b *builder, term rune, kind token.TokenKind) token.Token {
	hasEsc := false
	for {
		r, w := c.peek()
		if w == 0 {
			b.setUnterminated()
			return c.build(*b, withHasEsc(kind, hasEsc))
		}
		if r == '\n' {
			b.setUnterminated()
			return c.build(*b, withHasEsc(kind, hasEsc))
		}
		if r == term {
			c.bump()
			return c.build(*b, withHasEsc(kind, hasEsc))
		}
		if r == '\\' {
			hasEsc = true
			c.bump()
			if nr, nw := c.peek(); nw > 0 && nr != '\n' && isWhitespace(nr) {
				innerSave := c.save()
				if c.tryEatEscNewline() {
					b.setNewline()
					continue
				}
				c.restore(innerSave)
			}
			if nr, nw := c.peek(); nw > 0 && nr == '\n' {
				c.bump()
				b.setNewline()
				continue
			}
			if w2, ok := c.bump(); ok {
				_ = w2
				continue
			}
			// Backslash at EOF: the next iteration reports UNTERMINATED.
			continue
		}
		c.bump()
	}
}

func withHasEsc(kind token.TokenKind, hasEsc bool) token.TokenKind {
	kind.HasEsc = hasEsc
	return kind
}

// tryEatRawStringNoPrefix attempts to scan R"delim(...)delim" where
// 'R' begins the token with no encoding prefix. The cursor must sit on
// 'R'. Returns ok=false, with the cursor untouched, when 'R' is not
// actually followed by '"' so the caller can fall back to ordinary
// identifier scanning.
func (c *Cursor) tryEatRawStringNoPrefix(b *builder) (token.Token, bool) {
	return c.tryEatRawStringWithPrefix(b, token.Default)
}

// tryEatRawStringWithPrefix attempts R"delim(...)delim" where the
// caller has already consumed an encoding-prefix letter (or none, for
// token.Default) and the cursor sits on 'R'. Succeeds only if 'R' is
// actually followed by a '"'; otherwise rolls back fully and reports
// failure so the caller resumes ordinary identifier scanning from the
// prefix letter.
func (c *Cursor) tryEatRawStringWithPrefix(b *builder, lit token.LitType) (token.Token, bool) {
	save := c.save()
	r, w := c.bump()
	if w == 0 || r != 'R' {
		c.restore(save)
		return token.Token{}, false
	}
	if next, nw := c.peek(); nw == 0 || next != '"' {
		c.restore(save)
		return token.Token{}, false
	}
	c.bump()

	delim, errKind, ok := c.eatRawDCharPrefix()
	if !ok {
		return c.build(*b, token.BadRawStrKind(errKind)), true
	}
	if !c.eat('(') {
		return c.build(*b, token.BadRawStrKind(token.UnterminatedInPrefix)), true
	}
	if !c.eatRawStrBody(delim) {
		return c.build(*b, token.BadRawStrKind(token.Unterminated)), true
	}
	return c.build(*b, token.RawStrKind(lit, delim)), true
}

// eatRawDCharPrefix scans the d-char-sequence of a raw string
// delimiter. This module's conservative profile only accepts a
// delimiter made of a single d-char repeated 0..MaxDCharSeqLen times,
// matching the reference cursor's behavior; a delimiter using more
// than one distinct d-char is rejected as PrefixMultiChar.
func (c *Cursor) eatRawDCharPrefix() (token.DCharSeq, token.RawStrErr, bool) {
	var seq token.DCharSeq
	for {
		r, w := c.peek()
		if w == 0 {
			return seq, token.UnterminatedInPrefix, false
		}
		if r == '(' {
			return seq, 0, true
		}
		if !charclass.IsDChar(r, c.vers) {
			return seq, token.NotDChar, false
		}
		if seq.Count == 0 {
			seq.DChar = byte(r)
		} else if byte(r) != seq.DChar {
			return seq, token.PrefixMultiChar, false
		}
		if seq.Count >= token.MaxDCharSeqLen {
			return seq, token.PrefixTooLong, false
		}
		seq.Count++
		c.bump()
	}
}

// eatRawStrBody scans from just after the opening '(' through the
// closing delim")" sequence. Any character is accepted inside; the
// body is not checked against charclass.IsRChar.
func (c *Cursor) eatRawStrBody(delim token.DCharSeq) bool {
	for {
		r, w := c.peek()
		if w == 0 {
			return false
		}
		if r == ')' {
			if c.matchRawSuffix(delim) {
				return true
			}
		}
		c.bump()
	}
}

// matchRawSuffix checks for ')' + delim + '"' starting at the cursor,
// consuming it on a match and leaving the cursor untouched otherwise.
func (c *Cursor) matchRawSuffix(delim token.DCharSeq) bool {
	save := c.save()
	if !c.eat(')') {
		return false
	}
	for i := uint8(0); i < delim.Count; i++ {
		r, w := c.peek()
		if w == 0 || byte(r) != delim.DChar {
			c.restore(save)
			return false
		}
		c.bump()
	}
	if !c.eat('"') {
		c.restore(save)
		return false
	}
	return true
}

// eatPunct classifies a single punctuation character. Angle brackets
// map conventionally here: '<' is LessThan and '>' is GreaterThan,
// correcting the swapped naming present in some historical
// implementations of this algorithm.
func (c *Cursor) eatPunct(b *builder, r rune, w int) token.Token {
	c.pos += w
	var tag token.Tag
	switch r {
	case ';':
		tag = token.SemiColon
	case '#':
		tag = token.Pound
	case '&':
		tag = token.Ampersand
	case '|':
		tag = token.Pipe
	case '.':
		tag = token.Dot
	case ',':
		tag = token.Comma
	case '?':
		tag = token.QuestionMark
	case ':':
		tag = token.Colon
	case '=':
		tag = token.Equal
	case '+':
		tag = token.Plus
	case '-':
		tag = token.Minus
	case '*':
		tag = token.Star
	case '%':
		tag = token.Percent
	case '!':
		tag = token.Exclamation
	case '~':
		tag = token.Tilde
	case '^':
		tag = token.Caret
	case '<':
		tag = token.LessThan
	case '>':
		tag = token.GreaterThan
	case '(':
		tag = token.OpenParen
	case ')':
		tag = token.CloseParen
	case '{':
		tag = token.OpenBrace
	case '}':
		tag = token.CloseBrace
	case '[':
		tag = token.OpenBracket
	case ']':
		tag = token.CloseBracket
	default:
		return c.build(*b, token.KindOf(token.Unknown))
	}
	return c.build(*b, token.KindOf(tag))
}

// AllTokens returns an iterator over every token in the buffer,
// stopping once the cursor reaches EOF. This is a convenience layered
// on top of NextToken for callers that want a simple loop instead of
// managing the AtEOF check themselves.
func (c *Cursor) AllTokens() func(yield func(token.Token) bool) {
	return func(yield func(token.Token) bool) {
		for !c.AtEOF() {
			tok := c.NextToken()
			if !yield(tok) {
				return
			}
		}
	}
}
