package pdf

import (
	"bufio"
	"bytes"
	"encoding/hex"
	"io"
	"strconv"
)

type tokenKind int

const (
	tokenEOF tokenKind = iota
	tokenNumber
	tokenString
	tokenName
	tokenOperator
	tokenArrayStart
	tokenArrayEnd
	tokenDictStart
	tokenDictEnd
)

type contentToken struct {
	kind  tokenKind
	value string
}

// contentLexer tokenizes a decoded page content stream.
type contentLexer struct {
	reader  *bufio.Reader
	current byte
	hasNext bool
}

func newContentLexer(r io.Reader) *contentLexer {
	l := &contentLexer{reader: bufio.NewReader(r), hasNext: true}
	l.advance()
	return l
}

func (l *contentLexer) advance() {
	if !l.hasNext {
		return
	}
	ch, err := l.reader.ReadByte()
	if err != nil {
		l.hasNext = false
		l.current = 0
		return
	}
	l.current = ch
}

func (l *contentLexer) peek() byte {
	next, err := l.reader.Peek(1)
	if err != nil || len(next) == 0 {
		return 0
	}
	return next[0]
}

func isWhitespace(ch byte) bool {
	switch ch {
	case 0, '\t', '\n', '\f', '\r', ' ':
		return true
	}
	return false
}

func isDelimiter(ch byte) bool {
	switch ch {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

func isRegular(ch byte) bool {
	return !isWhitespace(ch) && !isDelimiter(ch)
}

func (l *contentLexer) next() contentToken {
	for l.hasNext {
		if isWhitespace(l.current) {
			l.advance()
			continue
		}
		if l.current == '%' {
			for l.hasNext && l.current != '\n' && l.current != '\r' {
				l.advance()
			}
			continue
		}
		break
	}
	if !l.hasNext {
		return contentToken{kind: tokenEOF}
	}

	switch l.current {
	case '(':
		return contentToken{kind: tokenString, value: l.readLiteral()}
	case '<':
		if l.peek() == '<' {
			l.advance()
			l.advance()
			return contentToken{kind: tokenDictStart, value: "<<"}
		}
		return contentToken{kind: tokenString, value: l.readHex()}
	case '>':
		l.advance()
		if l.hasNext && l.current == '>' {
			l.advance()
		}
		return contentToken{kind: tokenDictEnd, value: ">>"}
	case '[':
		l.advance()
		return contentToken{kind: tokenArrayStart, value: "["}
	case ']':
		l.advance()
		return contentToken{kind: tokenArrayEnd, value: "]"}
	case '/':
		l.advance()
		return contentToken{kind: tokenName, value: l.readRegular()}
	case ')', '{', '}':
		l.advance()
		return l.next()
	}

	word := l.readRegular()
	if _, err := strconv.ParseFloat(word, 64); err == nil {
		return contentToken{kind: tokenNumber, value: word}
	}
	return contentToken{kind: tokenOperator, value: word}
}

func (l *contentLexer) readRegular() string {
	var buf bytes.Buffer
	for l.hasNext && isRegular(l.current) {
		buf.WriteByte(l.current)
		l.advance()
	}
	return buf.String()
}

func (l *contentLexer) readLiteral() string {
	var buf bytes.Buffer
	l.advance()
	depth := 1

	for l.hasNext && depth > 0 {
		ch := l.current
		switch ch {
		case '(':
			depth++
			buf.WriteByte(ch)
		case ')':
			depth--
			if depth > 0 {
				buf.WriteByte(ch)
			}
		case '\\':
			l.advance()
			if !l.hasNext {
				break
			}
			switch l.current {
			case 'n':
				buf.WriteByte('\n')
			case 'r':
				buf.WriteByte('\r')
			case 't':
				buf.WriteByte('\t')
			case 'b':
				buf.WriteByte('\b')
			case 'f':
				buf.WriteByte('\f')
			case '\n':
			case '\r':
				if l.peek() == '\n' {
					l.advance()
				}
			default:
				if l.current >= '0' && l.current <= '7' {
					octal := []byte{l.current}
					for i := 0; i < 2 && l.peek() >= '0' && l.peek() <= '7'; i++ {
						l.advance()
						octal = append(octal, l.current)
					}
					if v, err := strconv.ParseUint(string(octal), 8, 8); err == nil {
						buf.WriteByte(byte(v))
					}
				} else {
					buf.WriteByte(l.current)
				}
			}
		default:
			buf.WriteByte(ch)
		}
		l.advance()
	}
	return buf.String()
}

func (l *contentLexer) readHex() string {
	var digits bytes.Buffer
	l.advance()
	for l.hasNext && l.current != '>' {
		if !isWhitespace(l.current) {
			digits.WriteByte(l.current)
		}
		l.advance()
	}
	if l.hasNext {
		l.advance()
	}

	raw := digits.Bytes()
	if len(raw)%2 == 1 {
		raw = append(raw, '0')
	}
	decoded := make([]byte, hex.DecodedLen(len(raw)))
	n, err := hex.Decode(decoded, raw)
	if err != nil {
		return ""
	}
	return decodeTextBytes(decoded[:n])
}

// decodeTextBytes handles the two-byte encodings produced by CID fonts with
// an identity mapping onto ASCII; anything else is taken byte for byte.
func decodeTextBytes(b []byte) string {
	if len(b) >= 2 && len(b)%2 == 0 {
		wide := true
		for i := 0; i < len(b); i += 2 {
			if b[i] != 0 {
				wide = false
				break
			}
		}
		if wide {
			out := make([]byte, 0, len(b)/2)
			for i := 1; i < len(b); i += 2 {
				out = append(out, b[i])
			}
			return string(out)
		}
	}
	return string(b)
}
