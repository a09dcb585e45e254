package literal

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

const maxDepth = 256

// ErrSyntax is wrapped by every parse failure.
var ErrSyntax = errors.New("literal syntax error")

// SyntaxError reports the byte offset of a parse failure.
type SyntaxError struct {
	Offset int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("literal: %s at offset %d", e.Msg, e.Offset)
}

func (e *SyntaxError) Unwrap() error {
	return ErrSyntax
}

// Parse parses src as a single literal. Anything other than whitespace,
// comments or semicolons after the value is an error.
func Parse(src string) (*Value, error) {
	v, n, err := ParsePrefix(src)
	if err != nil {
		return nil, err
	}
	p := parser{src: src, pos: n}
	p.skipSpace()
	for p.pos < len(p.src) && p.src[p.pos] == ';' {
		p.pos++
		p.skipSpace()
	}
	if p.pos < len(p.src) {
		return nil, p.errorf("unexpected %q after value", p.src[p.pos])
	}
	return v, nil
}

// ParsePrefix parses the literal at the start of src and returns it along
// with the number of bytes consumed. Trailing text is left alone, which
// makes it usable on a script that continues after the assignment.
func ParsePrefix(src string) (*Value, int, error) {
	p := parser{src: src}
	v, err := p.value(0)
	if err != nil {
		return nil, 0, err
	}
	return v, p.pos, nil
}

type parser struct {
	src string
	pos int
}

func (p *parser) errorf(format string, args ...any) error {
	return &SyntaxError{Offset: p.pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) peek() byte {
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

// skipSpace skips whitespace and both comment styles.
func (p *parser) skipSpace() {
	for p.pos < len(p.src) {
		switch c := p.src[p.pos]; {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v':
			p.pos++
		case strings.HasPrefix(p.src[p.pos:], "//"):
			end := strings.IndexAny(p.src[p.pos:], "\r\n")
			if end < 0 {
				p.pos = len(p.src)
			} else {
				p.pos += end
			}
		case strings.HasPrefix(p.src[p.pos:], "/*"):
			end := strings.Index(p.src[p.pos+2:], "*/")
			if end < 0 {
				p.pos = len(p.src)
			} else {
				p.pos += end + 4
			}
		default:
			return
		}
	}
}

func (p *parser) value(depth int) (*Value, error) {
	if depth > maxDepth {
		return nil, p.errorf("nesting deeper than %d", maxDepth)
	}
	p.skipSpace()

	switch c := p.peek(); {
	case c == 0:
		return nil, p.errorf("unexpected end of input")
	case c == '{':
		return p.object(depth)
	case c == '[':
		return p.array(depth)
	case c == '"' || c == '\'':
		return p.concatenation()
	case c == '-' || c == '+' || c == '.' || isDigit(c):
		return p.number()
	case isIdentStart(c):
		return p.keyword()
	default:
		return nil, p.errorf("unexpected %q", c)
	}
}

func (p *parser) object(depth int) (*Value, error) {
	p.pos++ // {
	v := &Value{kind: Object, fields: make(map[string]*Value)}

	for {
		p.skipSpace()
		if p.peek() == '}' {
			p.pos++
			return v, nil
		}

		key, err := p.key()
		if err != nil {
			return nil, err
		}

		p.skipSpace()
		if p.peek() != ':' {
			return nil, p.errorf("expected ':' after key %q", key)
		}
		p.pos++

		field, err := p.value(depth + 1)
		if err != nil {
			return nil, err
		}
		if _, dup := v.fields[key]; !dup {
			v.keys = append(v.keys, key)
		}
		v.fields[key] = field

		p.skipSpace()
		switch p.peek() {
		case ',':
			p.pos++
		case '}':
			p.pos++
			return v, nil
		default:
			return nil, p.errorf("expected ',' or '}' in object")
		}
	}
}

func (p *parser) key() (string, error) {
	switch c := p.peek(); {
	case c == '"' || c == '\'':
		return p.quoted()
	case isIdentStart(c):
		return p.ident(), nil
	case isDigit(c):
		start := p.pos
		for p.pos < len(p.src) && isDigit(p.src[p.pos]) {
			p.pos++
		}
		return p.src[start:p.pos], nil
	default:
		return "", p.errorf("unexpected %q where a key was expected", c)
	}
}

func (p *parser) array(depth int) (*Value, error) {
	p.pos++ // [
	v := &Value{kind: Array}

	for {
		p.skipSpace()
		if p.peek() == ']' {
			p.pos++
			return v, nil
		}

		item, err := p.value(depth + 1)
		if err != nil {
			return nil, err
		}
		v.items = append(v.items, item)

		p.skipSpace()
		switch p.peek() {
		case ',':
			p.pos++
		case ']':
			p.pos++
			return v, nil
		default:
			return nil, p.errorf("expected ',' or ']' in array")
		}
	}
}

// concatenation parses one or more string literals joined by +.
func (p *parser) concatenation() (*Value, error) {
	var sb strings.Builder
	for {
		s, err := p.quoted()
		if err != nil {
			return nil, err
		}
		sb.WriteString(s)

		save := p.pos
		p.skipSpace()
		if p.peek() != '+' {
			p.pos = save
			return &Value{kind: String, s: sb.String()}, nil
		}
		p.pos++
		p.skipSpace()
		if c := p.peek(); c != '"' && c != '\'' {
			return nil, p.errorf("expected string after '+'")
		}
	}
}

func (p *parser) quoted() (string, error) {
	quote := p.src[p.pos]
	p.pos++

	var sb strings.Builder
	for {
		if p.pos >= len(p.src) {
			return "", p.errorf("unterminated string")
		}
		c := p.src[p.pos]
		switch {
		case c == quote:
			p.pos++
			return sb.String(), nil
		case c == '\\':
			p.pos++
			if err := p.escape(&sb); err != nil {
				return "", err
			}
		default:
			sb.WriteByte(c)
			p.pos++
		}
	}
}

func (p *parser) escape(sb *strings.Builder) error {
	if p.pos >= len(p.src) {
		return p.errorf("unterminated escape")
	}
	c := p.src[p.pos]
	p.pos++

	switch c {
	case 'n':
		sb.WriteByte('\n')
	case 't':
		sb.WriteByte('\t')
	case 'r':
		sb.WriteByte('\r')
	case 'b':
		sb.WriteByte('\b')
	case 'f':
		sb.WriteByte('\f')
	case 'v':
		sb.WriteByte('\v')
	case '0':
		sb.WriteByte(0)
	case '\n':
		// line continuation
	case 'x':
		r, err := p.hex(2)
		if err != nil {
			return err
		}
		sb.WriteRune(r)
	case 'u':
		r, err := p.hex(4)
		if err != nil {
			return err
		}
		if utf16.IsSurrogate(r) && strings.HasPrefix(p.src[p.pos:], `\u`) {
			save := p.pos
			p.pos += 2
			low, err := p.hex(4)
			if err == nil {
				if pair := utf16.DecodeRune(r, low); pair != utf8.RuneError {
					sb.WriteRune(pair)
					return nil
				}
			}
			p.pos = save
		}
		sb.WriteRune(r)
	default:
		// \" \' \\ \/ and any other escaped character stand for themselves.
		sb.WriteByte(c)
	}
	return nil
}

func (p *parser) hex(digits int) (rune, error) {
	if p.pos+digits > len(p.src) {
		return 0, p.errorf("short escape sequence")
	}
	n, err := strconv.ParseUint(p.src[p.pos:p.pos+digits], 16, 32)
	if err != nil {
		return 0, p.errorf("invalid escape sequence %q", p.src[p.pos:p.pos+digits])
	}
	p.pos += digits
	return rune(n), nil
}

func (p *parser) number() (*Value, error) {
	start := p.pos
	if c := p.peek(); c == '-' || c == '+' {
		p.pos++
	}
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if !isDigit(c) && c != '.' && c != 'e' && c != 'E' && c != '-' && c != '+' {
			break
		}
		// a sign only belongs to the number right after an exponent marker
		if (c == '-' || c == '+') && p.src[p.pos-1] != 'e' && p.src[p.pos-1] != 'E' {
			break
		}
		p.pos++
	}

	text := p.src[start:p.pos]
	n, err := strconv.ParseFloat(strings.TrimPrefix(text, "+"), 64)
	if err != nil {
		p.pos = start
		return nil, p.errorf("invalid number %q", text)
	}
	return &Value{kind: Number, n: n}, nil
}

func (p *parser) keyword() (*Value, error) {
	start := p.pos
	switch word := p.ident(); word {
	case "true":
		return &Value{kind: Bool, b: true}, nil
	case "false":
		return &Value{kind: Bool}, nil
	case "null", "undefined":
		return &Value{kind: Null}, nil
	case "NaN", "Infinity":
		return nil, p.errorf("unsupported number %q", word)
	default:
		p.pos = start
		return nil, p.errorf("unexpected identifier %q", word)
	}
}

func (p *parser) ident() string {
	start := p.pos
	for p.pos < len(p.src) && isIdentPart(p.src[p.pos]) {
		p.pos++
	}
	return p.src[start:p.pos]
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}
