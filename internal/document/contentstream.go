// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package document

import (
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// kernSpace is the TJ displacement (thousandths of text space) treated as a
// word gap.
const kernSpace = -200

type tokenKind int

const (
	tokNumber tokenKind = iota
	tokString
	tokName
	tokArrayStart
	tokArrayEnd
	tokOperator
)

type token struct {
	kind tokenKind
	text string
	num  float64
}

// contentText returns the text shown by a page content stream, one line per
// text line move. Only the operators that show text or start a new line are
// interpreted; everything else is skipped.
func contentText(data []byte) string {
	var (
		b       strings.Builder
		operand []token
		inArray bool
		array   []token
		lastTmY *float64
	)

	newline := func() {
		s := b.String()
		if len(s) > 0 && !strings.HasSuffix(s, "\n") {
			b.WriteByte('\n')
		}
	}
	show := func(raw string) { b.WriteString(decodeWinAnsi(raw)) }

	lex := lexer{data: data}
	for {
		tok, ok := lex.next()
		if !ok {
			break
		}
		switch tok.kind {
		case tokArrayStart:
			inArray = true
			array = array[:0]
			continue
		case tokArrayEnd:
			inArray = false
			continue
		case tokOperator:
		default:
			if inArray {
				array = append(array, tok)
			} else {
				operand = append(operand, tok)
			}
			continue
		}

		switch tok.text {
		case "BT", "T*":
			newline()
		case "Td", "TD":
			if len(operand) >= 2 && operand[len(operand)-1].num != 0 {
				newline()
			}
		case "Tm":
			if len(operand) >= 6 {
				y := operand[len(operand)-1].num
				if lastTmY != nil && *lastTmY != y {
					newline()
				}
				lastTmY = &y
			}
		case "Tj":
			if s, ok := lastString(operand); ok {
				show(s)
			}
		case "'", "\"":
			newline()
			if s, ok := lastString(operand); ok {
				show(s)
			}
		case "TJ":
			for _, el := range array {
				switch {
				case el.kind == tokString:
					show(el.text)
				case el.kind == tokNumber && el.num < kernSpace:
					b.WriteByte(' ')
				}
			}
			array = array[:0]
		}
		operand = operand[:0]
	}
	return b.String()
}

func lastString(operand []token) (string, bool) {
	if len(operand) == 0 || operand[len(operand)-1].kind != tokString {
		return "", false
	}
	return operand[len(operand)-1].text, true
}

func decodeWinAnsi(raw string) string {
	s, err := charmap.Windows1252.NewDecoder().String(raw)
	if err != nil {
		return raw
	}
	return s
}

// lexer splits a content stream into PDF tokens. Dictionaries and inline
// images are tokenised loosely; their contents never reach a text operator.
type lexer struct {
	data []byte
	pos  int
}

func isDelimiter(c byte) bool {
	return strings.IndexByte("()<>[]{}/%", c) >= 0
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\f' || c == 0
}

func (l *lexer) next() (token, bool) {
	for l.pos < len(l.data) {
		c := l.data[l.pos]
		switch {
		case isSpace(c):
			l.pos++
		case c == '%':
			for l.pos < len(l.data) && l.data[l.pos] != '\n' && l.data[l.pos] != '\r' {
				l.pos++
			}
		case c == '(':
			l.pos++
			return token{kind: tokString, text: l.literal()}, true
		case c == '<':
			if l.pos+1 < len(l.data) && l.data[l.pos+1] == '<' {
				l.pos += 2
				continue
			}
			l.pos++
			return token{kind: tokString, text: l.hex()}, true
		case c == '>':
			l.pos++
			if l.pos < len(l.data) && l.data[l.pos] == '>' {
				l.pos++
			}
		case c == '[':
			l.pos++
			return token{kind: tokArrayStart}, true
		case c == ']':
			l.pos++
			return token{kind: tokArrayEnd}, true
		case c == '/':
			l.pos++
			return token{kind: tokName, text: l.word()}, true
		case c == '{' || c == '}' || c == ')':
			l.pos++
		default:
			w := l.word()
			if n, err := strconv.ParseFloat(w, 64); err == nil {
				return token{kind: tokNumber, num: n, text: w}, true
			}
			return token{kind: tokOperator, text: w}, true
		}
	}
	return token{}, false
}

func (l *lexer) word() string {
	start := l.pos
	for l.pos < len(l.data) && !isSpace(l.data[l.pos]) && !isDelimiter(l.data[l.pos]) {
		l.pos++
	}
	if l.pos == start {
		// A lone delimiter we do not handle; consume it to make progress.
		l.pos++
	}
	return string(l.data[start:l.pos])
}

// literal reads a (string) body after the opening parenthesis.
func (l *lexer) literal() string {
	var b strings.Builder
	depth := 1
	for l.pos < len(l.data) {
		c := l.data[l.pos]
		l.pos++
		switch c {
		case '(':
			depth++
			b.WriteByte(c)
		case ')':
			depth--
			if depth == 0 {
				return b.String()
			}
			b.WriteByte(c)
		case '\\':
			if l.pos >= len(l.data) {
				return b.String()
			}
			e := l.data[l.pos]
			l.pos++
			switch e {
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case 't':
				b.WriteByte('\t')
			case 'b':
				b.WriteByte('\b')
			case 'f':
				b.WriteByte('\f')
			case '\r':
				if l.pos < len(l.data) && l.data[l.pos] == '\n' {
					l.pos++
				}
			case '\n':
			default:
				if e >= '0' && e <= '7' {
					v := int(e - '0')
					for i := 0; i < 2 && l.pos < len(l.data); i++ {
						d := l.data[l.pos]
						if d < '0' || d > '7' {
							break
						}
						v = v*8 + int(d-'0')
						l.pos++
					}
					b.WriteByte(byte(v))
				} else {
					b.WriteByte(e)
				}
			}
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// hex reads a <hex string> body after the opening angle bracket.
func (l *lexer) hex() string {
	var digits []byte
	for l.pos < len(l.data) {
		c := l.data[l.pos]
		l.pos++
		if c == '>' {
			break
		}
		if isSpace(c) {
			continue
		}
		digits = append(digits, c)
	}
	if len(digits)%2 == 1 {
		digits = append(digits, '0')
	}
	out := make([]byte, 0, len(digits)/2)
	for i := 0; i < len(digits); i += 2 {
		v, err := strconv.ParseUint(string(digits[i:i+2]), 16, 8)
		if err != nil {
			continue
		}
		out = append(out, byte(v))
	}
	return string(out)
}
