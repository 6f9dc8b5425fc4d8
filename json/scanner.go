package json

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

type TokenType uint8

const (
	TOKEN_TYPE_OBJECT_START TokenType = iota
	TOKEN_TYPE_OBJECT_END
	TOKEN_TYPE_ARRAY_START
	TOKEN_TYPE_ARRAY_END
	TOKEN_TYPE_COLON
	TOKEN_TYPE_COMMA
	TOKEN_TYPE_STRING
	TOKEN_TYPE_NUMBER
	TOKEN_TYPE_TRUE
	TOKEN_TYPE_FALSE
	TOKEN_TYPE_NULL
	TOKEN_TYPE_EOF
)

var (
	ErrUnexpectedTokenError     = errors.New("unexpected json token encountered")
	ErrUnexpectedValueTypeError = errors.New("unexpected value type encountered")
	ErrUnterminatedString       = errors.New("unterminated json string")
	ErrInvalidEscape            = errors.New("invalid escape sequence in json string")
)

// Token is one lexical element. Value holds the raw bytes for STRING tokens
// (escapes not yet decoded, surrounding quotes stripped) and NUMBER tokens.
type Token struct {
	Type  TokenType
	Value []byte
}

type Scanner struct {
	data []byte
	pos  int
}

func NewScanner(data []byte) Scanner {
	return Scanner{data: data}
}

func (s *Scanner) Next() (Token, error) {
	s.skipWhitespace()

	if s.pos >= len(s.data) {
		return Token{Type: TOKEN_TYPE_EOF}, nil
	}

	switch c := s.data[s.pos]; c {
	case '{':
		s.pos++
		return Token{Type: TOKEN_TYPE_OBJECT_START}, nil
	case '}':
		s.pos++
		return Token{Type: TOKEN_TYPE_OBJECT_END}, nil
	case '[':
		s.pos++
		return Token{Type: TOKEN_TYPE_ARRAY_START}, nil
	case ']':
		s.pos++
		return Token{Type: TOKEN_TYPE_ARRAY_END}, nil
	case ':':
		s.pos++
		return Token{Type: TOKEN_TYPE_COLON}, nil
	case ',':
		s.pos++
		return Token{Type: TOKEN_TYPE_COMMA}, nil
	case '"':
		return s.scanString()
	case 't':
		return s.scanLiteral("true", TOKEN_TYPE_TRUE)
	case 'f':
		return s.scanLiteral("false", TOKEN_TYPE_FALSE)
	case 'n':
		return s.scanLiteral("null", TOKEN_TYPE_NULL)
	default:
		if c == '-' || (c >= '0' && c <= '9') {
			return s.scanNumber()
		}
		return Token{}, fmt.Errorf("json: unexpected character %q at offset %d", c, s.pos)
	}
}

// Peek returns the next token without consuming it.
func (s *Scanner) Peek() (Token, error) {
	pos := s.pos
	token, err := s.Next()
	s.pos = pos
	return token, err
}

func (s *Scanner) skipWhitespace() {
	for s.pos < len(s.data) {
		switch s.data[s.pos] {
		case ' ', '\t', '\n', '\r':
			s.pos++
		default:
			return
		}
	}
}

func (s *Scanner) scanString() (Token, error) {
	s.pos++ // opening quote
	start := s.pos

	for s.pos < len(s.data) {
		switch s.data[s.pos] {
		case '\\':
			s.pos += 2
		case '"':
			raw := s.data[start:s.pos]
			s.pos++
			return Token{Type: TOKEN_TYPE_STRING, Value: raw}, nil
		default:
			s.pos++
		}
	}

	return Token{}, ErrUnterminatedString
}

func (s *Scanner) scanNumber() (Token, error) {
	start := s.pos
	if s.data[s.pos] == '-' {
		s.pos++
	}

	for s.pos < len(s.data) {
		c := s.data[s.pos]
		if (c >= '0' && c <= '9') || c == '.' || c == 'e' || c == 'E' || c == '+' || c == '-' {
			s.pos++
			continue
		}
		break
	}

	if s.pos == start || (s.pos-start == 1 && s.data[start] == '-') {
		return Token{}, fmt.Errorf("json: malformed number at offset %d", start)
	}

	return Token{Type: TOKEN_TYPE_NUMBER, Value: s.data[start:s.pos]}, nil
}

func (s *Scanner) scanLiteral(literal string, tokenType TokenType) (Token, error) {
	if s.pos+len(literal) > len(s.data) || string(s.data[s.pos:s.pos+len(literal)]) != literal {
		return Token{}, fmt.Errorf("json: malformed literal at offset %d", s.pos)
	}

	s.pos += len(literal)
	return Token{Type: tokenType}, nil
}

// unquote decodes the escape sequences of a raw STRING token.
func unquote(raw []byte) (string, error) {
	if bytes.IndexByte(raw, '\\') < 0 {
		return string(raw), nil
	}

	var b strings.Builder
	b.Grow(len(raw))

	for i := 0; i < len(raw); {
		c := raw[i]
		if c != '\\' {
			b.WriteByte(c)
			i++
			continue
		}

		i++
		if i >= len(raw) {
			return "", ErrInvalidEscape
		}

		switch raw[i] {
		case '"':
			b.WriteByte('"')
			i++
		case '\\':
			b.WriteByte('\\')
			i++
		case '/':
			b.WriteByte('/')
			i++
		case 'b':
			b.WriteByte('\b')
			i++
		case 'f':
			b.WriteByte('\f')
			i++
		case 'n':
			b.WriteByte('\n')
			i++
		case 'r':
			b.WriteByte('\r')
			i++
		case 't':
			b.WriteByte('\t')
			i++
		case 'u':
			r, n, err := decodeUnicodeEscape(raw[i-1:])
			if err != nil {
				return "", err
			}
			b.WriteRune(r)
			i += n - 1
		default:
			return "", ErrInvalidEscape
		}
	}

	return b.String(), nil
}

// decodeUnicodeEscape decodes \uXXXX at the start of raw, combining a
// surrogate pair when one follows. Returns the rune and bytes consumed.
func decodeUnicodeEscape(raw []byte) (rune, int, error) {
	r, ok := hex4(raw[1:])
	if !ok {
		return 0, 0, ErrInvalidEscape
	}

	if utf16.IsSurrogate(r) {
		if len(raw) >= 12 && raw[6] == '\\' && raw[7] == 'u' {
			if r2, ok := hex4(raw[7:]); ok {
				if combined := utf16.DecodeRune(r, r2); combined != utf8.RuneError {
					return combined, 12, nil
				}
			}
		}
		return utf8.RuneError, 6, nil
	}

	return r, 6, nil
}

func hex4(raw []byte) (rune, bool) {
	if len(raw) < 5 || raw[0] != 'u' {
		return 0, false
	}

	var r rune
	for _, c := range raw[1:5] {
		var d rune
		switch {
		case c >= '0' && c <= '9':
			d = rune(c - '0')
		case c >= 'a' && c <= 'f':
			d = rune(c-'a') + 10
		case c >= 'A' && c <= 'F':
			d = rune(c-'A') + 10
		default:
			return 0, false
		}
		r = r<<4 | d
	}

	return r, true
}
