// Package lex implements the byte-level lexer for the WebAssembly text
// format (spec.md §4.1): it classifies one token at a time out of a
// caller-owned, immutable source buffer, skipping whitespace and comments
// and collecting `(@name ...)` annotations along the way.
package lex

import (
	"fmt"
	"strings"

	"github.com/yuri91/wasp/lib/features"
	"github.com/yuri91/wasp/lib/token"
)

// Lexer holds the cursor into an immutable source buffer. It is not
// reentrant and not safe for concurrent use — spec.md §5 describes the
// whole front end as single-threaded over its inputs.
type Lexer struct {
	src      []byte
	pos      uint32
	features *features.Set
}

// New creates a Lexer over src. The caller must keep src alive for as
// long as any Token or annotation produced from it is in use, since spans
// index into it (Text fields are copies).
func New(src []byte, enabled *features.Set) *Lexer {
	if enabled == nil {
		enabled = features.Default()
	}
	return &Lexer{src: src, features: enabled}
}

func (l *Lexer) byteAt(offset uint32) (byte, bool) {
	if int(offset) >= len(l.src) {
		return 0, false
	}
	return l.src[offset], true
}

func (l *Lexer) peek() (byte, bool) {
	return l.byteAt(l.pos)
}

func (l *Lexer) peekAt(delta uint32) (byte, bool) {
	return l.byteAt(l.pos + delta)
}

// Next implements LexNoWhitespaceCollectAnnots (spec.md §4.1): it
// advances past whitespace and comments, returns the next token, and
// returns any `(@name ...)` annotations fully consumed while doing so.
// A lexical error is reported as a Reserved-kinded token paired with a
// non-nil *token.Error; the lexer has already advanced past a recovery
// point so the caller can keep pulling tokens.
func (l *Lexer) Next() (token.Token, [][]token.Token, *token.Error) {
	var annots [][]token.Token
	for {
		ch, ok := l.peek()
		if !ok {
			return token.Token{Kind: token.Eof, Span: token.Span{Start: l.pos, End: l.pos}}, annots, nil
		}

		if isSpace(ch) {
			l.pos++
			continue
		}

		if ch == ';' {
			if next, ok := l.peekAt(1); ok && next == ';' {
				l.skipLineComment()
				continue
			}
		}

		if ch == '(' {
			if next, ok := l.peekAt(1); ok && next == ';' {
				if err := l.skipBlockComment(); err != nil {
					return token.Token{Kind: token.Reserved, Span: err.Span}, annots, err
				}
				continue
			}
			if next, ok := l.peekAt(1); ok && next == '@' {
				annot, err := l.readAnnotation()
				if err != nil {
					return token.Token{Kind: token.Reserved, Span: err.Span}, annots, err
				}
				annots = append(annots, annot)
				continue
			}
		}

		tok, err := l.readToken()
		return tok, annots, err
	}
}

func (l *Lexer) skipLineComment() {
	l.pos += 2
	for {
		ch, ok := l.peek()
		if !ok || ch == '\n' {
			return
		}
		l.pos++
	}
}

// skipBlockComment consumes a (possibly nested) `(; ... ;)` comment.
func (l *Lexer) skipBlockComment() *token.Error {
	start := l.pos
	l.pos += 2
	depth := 1
	for depth > 0 {
		ch, ok := l.peek()
		if !ok {
			return &token.Error{Span: token.Span{Start: start, End: l.pos}, Message: "unterminated block comment"}
		}
		if ch == '(' {
			if next, ok := l.peekAt(1); ok && next == ';' {
				depth++
				l.pos += 2
				continue
			}
		}
		if ch == ';' {
			if next, ok := l.peekAt(1); ok && next == ')' {
				depth--
				l.pos += 2
				continue
			}
		}
		l.pos++
	}
	return nil
}

// readAnnotation tokenises a full `(@name ...)` region, including its
// outer LparAnn and Rpar, per spec.md §4.1.
func (l *Lexer) readAnnotation() ([]token.Token, *token.Error) {
	start := l.pos
	l.pos += 2 // consume "(@"
	var out []token.Token
	out = append(out, token.Token{Kind: token.LparAnn, Span: token.Span{Start: start, End: l.pos}})

	depth := 1
	for depth > 0 {
		ch, ok := l.peek()
		if !ok {
			return nil, &token.Error{Span: token.Span{Start: start, End: l.pos}, Message: "unterminated annotation"}
		}
		if isSpace(ch) {
			l.pos++
			continue
		}
		if ch == '(' {
			tokStart := l.pos
			l.pos++
			out = append(out, token.Token{Kind: token.Lpar, Span: token.Span{Start: tokStart, End: l.pos}})
			depth++
			continue
		}
		if ch == ')' {
			tokStart := l.pos
			l.pos++
			out = append(out, token.Token{Kind: token.Rpar, Span: token.Span{Start: tokStart, End: l.pos}})
			depth--
			continue
		}
		tok, err := l.readToken()
		if err != nil {
			return nil, err
		}
		out = append(out, tok)
	}
	return out, nil
}

// readToken classifies and consumes exactly one token starting at the
// current position, which must not be whitespace or a comment/annotation
// start.
func (l *Lexer) readToken() (token.Token, *token.Error) {
	start := l.pos
	ch, _ := l.peek()

	switch {
	case ch == '(':
		l.pos++
		return token.Token{Kind: token.Lpar, Span: token.Span{Start: start, End: l.pos}}, nil
	case ch == ')':
		l.pos++
		return token.Token{Kind: token.Rpar, Span: token.Span{Start: start, End: l.pos}}, nil
	case ch == '"':
		return l.readText(start)
	case ch == '$':
		return l.readID(start)
	default:
		return l.readIdCharRun(start)
	}
}

func (l *Lexer) readID(start uint32) (token.Token, *token.Error) {
	l.pos++ // consume '$'
	nameStart := l.pos
	for {
		ch, ok := l.peek()
		if !ok || !isIDChar(ch) {
			break
		}
		l.pos++
	}
	if l.pos == nameStart {
		return token.Token{Kind: token.Reserved, Span: token.Span{Start: start, End: l.pos}}, &token.Error{
			Span: token.Span{Start: start, End: l.pos}, Message: "empty identifier",
		}
	}
	text := string(l.src[start:l.pos])
	return token.Token{Kind: token.Id, Span: token.Span{Start: start, End: l.pos}, Text: text}, nil
}

// readIdCharRun consumes a maximal run of idChars starting at the current
// position and classifies it as a natural number, signed integer, float,
// keyword, opcode, value/reference type, or Reserved.
func (l *Lexer) readIdCharRun(start uint32) (token.Token, *token.Error) {
	for {
		ch, ok := l.peek()
		if !ok || !isIDChar(ch) {
			break
		}
		l.pos++
	}
	if l.pos == start {
		// Not an idchar run and not handled above: an unrecognised byte.
		l.pos++
		return token.Token{Kind: token.Reserved, Span: token.Span{Start: start, End: l.pos}}, &token.Error{
			Span: token.Span{Start: start, End: l.pos}, Message: fmt.Sprintf("unexpected character %q", string(l.src[start:l.pos])),
		}
	}

	text := string(l.src[start:l.pos])
	span := token.Span{Start: start, End: l.pos}

	if kind, numErr := classifyNumber(text); kind != token.Invalid {
		if numErr != nil {
			return token.Token{Kind: kind, Span: span, Text: text}, &token.Error{Span: span, Message: numErr.Error()}
		}
		return token.Token{Kind: kind, Span: span, Text: text}, nil
	}

	if kind, ok := token.LookupKeyword(text, l.features); ok {
		return token.Token{Kind: kind, Span: span, Text: text}, nil
	}

	return token.Token{Kind: token.Reserved, Span: span, Text: text}, nil
}

func (l *Lexer) readText(start uint32) (token.Token, *token.Error) {
	l.pos++ // opening quote
	decodedLen := 0
	for {
		ch, ok := l.peek()
		if !ok {
			return token.Token{Kind: token.Reserved, Span: token.Span{Start: start, End: l.pos}}, &token.Error{
				Span: token.Span{Start: start, End: l.pos}, Message: "unterminated string",
			}
		}
		if ch == '"' {
			l.pos++
			break
		}
		if ch == '\\' {
			n, err := l.escapeLength(start)
			if err != nil {
				return token.Token{Kind: token.Reserved, Span: token.Span{Start: start, End: l.pos}}, err
			}
			esc, _ := DecodeText("\"" + string(l.src[l.pos:l.pos+n]) + "\"")
			l.pos += n
			decodedLen += len(esc)
			continue
		}
		if ch < 0x20 {
			return token.Token{Kind: token.Reserved, Span: token.Span{Start: start, End: l.pos}}, &token.Error{
				Span: token.Span{Start: start, End: l.pos}, Message: "control character in string",
			}
		}
		l.pos++
		decodedLen++
	}
	text := string(l.src[start:l.pos])
	return token.Token{Kind: token.Text, Span: token.Span{Start: start, End: l.pos}, Text: text, DecodedLen: decodedLen}, nil
}

// escapeLength returns how many bytes the escape sequence starting at the
// current position (a '\\') occupies, without decoding it — decoding
// happens lazily in DecodeText, since most callers only need the length.
func (l *Lexer) escapeLength(stringStart uint32) (uint32, *token.Error) {
	next, ok := l.peekAt(1)
	if !ok {
		return 0, &token.Error{Span: token.Span{Start: l.pos, End: l.pos + 1}, Message: "unterminated escape"}
	}
	switch next {
	case 't', 'n', 'r', '"', '\'', '\\':
		return 2, nil
	case 'u':
		if b, ok := l.peekAt(2); ok && b == '{' {
			i := uint32(3)
			for {
				ch, ok := l.peekAt(i)
				if !ok {
					return 0, &token.Error{Span: token.Span{Start: stringStart, End: l.pos + i}, Message: "unterminated \\u{...} escape"}
				}
				if ch == '}' {
					return i + 1, nil
				}
				if !isHexDigit(ch) {
					return 0, &token.Error{Span: token.Span{Start: l.pos, End: l.pos + i}, Message: "invalid \\u{...} escape"}
				}
				i++
			}
		}
		return 0, &token.Error{Span: token.Span{Start: l.pos, End: l.pos + 2}, Message: "invalid \\u escape"}
	default:
		if isHexDigit(next) {
			if b2, ok := l.peekAt(2); ok && isHexDigit(b2) {
				return 3, nil
			}
			return 0, &token.Error{Span: token.Span{Start: l.pos, End: l.pos + 2}, Message: "invalid \\xx escape"}
		}
		return 0, &token.Error{Span: token.Span{Start: l.pos, End: l.pos + 2}, Message: fmt.Sprintf("invalid escape \\%c", next)}
	}
}

// DecodeText decodes a Text token's raw (quoted) Text into its byte
// string value, processing the standard escape set.
func DecodeText(raw string) ([]byte, error) {
	if len(raw) < 2 || raw[0] != '"' || raw[len(raw)-1] != '"' {
		return nil, fmt.Errorf("not a quoted string: %q", raw)
	}
	body := raw[1 : len(raw)-1]
	var out strings.Builder
	for i := 0; i < len(body); i++ {
		ch := body[i]
		if ch != '\\' {
			out.WriteByte(ch)
			continue
		}
		i++
		if i >= len(body) {
			return nil, fmt.Errorf("unterminated escape in %q", raw)
		}
		switch body[i] {
		case 't':
			out.WriteByte('\t')
		case 'n':
			out.WriteByte('\n')
		case 'r':
			out.WriteByte('\r')
		case '"':
			out.WriteByte('"')
		case '\'':
			out.WriteByte('\'')
		case '\\':
			out.WriteByte('\\')
		case 'u':
			// \u{XXXX}
			j := i + 2
			for j < len(body) && body[j] != '}' {
				j++
			}
			hex := body[i+2 : j]
			r, err := parseHexRune(hex)
			if err != nil {
				return nil, err
			}
			out.WriteRune(r)
			i = j
		default:
			hex := body[i : i+2]
			b, err := parseHexByte(hex)
			if err != nil {
				return nil, err
			}
			out.WriteByte(b)
			i++
		}
	}
	return []byte(out.String()), nil
}

func parseHexByte(s string) (byte, error) {
	v, err := parseHexUint(s)
	if err != nil {
		return 0, err
	}
	return byte(v), nil
}

func parseHexRune(s string) (rune, error) {
	v, err := parseHexUint(s)
	if err != nil {
		return 0, err
	}
	return rune(v), nil
}

func parseHexUint(s string) (uint64, error) {
	var v uint64
	if s == "" {
		return 0, fmt.Errorf("empty hex escape")
	}
	for i := 0; i < len(s); i++ {
		ch := s[i]
		var d uint64
		switch {
		case ch >= '0' && ch <= '9':
			d = uint64(ch - '0')
		case ch >= 'a' && ch <= 'f':
			d = uint64(ch-'a') + 10
		case ch >= 'A' && ch <= 'F':
			d = uint64(ch-'A') + 10
		default:
			return 0, fmt.Errorf("invalid hex digit %q", ch)
		}
		v = v*16 + d
	}
	return v, nil
}
