// Package jsonreader implements the JSON Reader (spec §4.8): a
// hand-written recursive-descent parser over a captured source slice,
// not encoding/json, because two extensions require token-level control
// a library JSON decoder cannot give: embedded-builtin pre-evaluation and
// byte-offset error recovery pointing back into the original slice.
package jsonreader

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/ebscore/ebs/value"
)

// BuiltinEvaluator evaluates one `#ns.name(args)` call found embedded in
// a JSON literal (spec §4.8 extension 2) and returns its result rendered
// as a JSON value, ready to splice back into the source text.
type BuiltinEvaluator func(call string) (*value.JsonNode, error)

// Error carries the byte offset into the original slice so the Host can
// point at the right spot (spec §4.8 extension 3).
type Error struct {
	Offset  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("JsonError at offset %d: %s", e.Offset, e.Message)
}

// Options configures the two optional JSON Reader extensions.
type Options struct {
	LowercaseKeys bool
	Eval          BuiltinEvaluator
}

// Parse reads raw as a JSON value with this system's extensions applied.
func Parse(raw string, opts Options) (*value.JsonNode, error) {
	pre, err := preEvaluate(raw, opts.Eval)
	if err != nil {
		return nil, err
	}
	p := &parser{src: pre, opts: opts}
	p.skipSpace()
	node, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, &Error{Offset: p.pos, Message: "unexpected trailing content"}
	}
	return node, nil
}

type parser struct {
	src  string
	pos  int
	opts Options
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *parser) errorf(format string, args ...interface{}) error {
	return &Error{Offset: p.pos, Message: fmt.Sprintf(format, args...)}
}

func (p *parser) parseValue() (*value.JsonNode, error) {
	if p.pos >= len(p.src) {
		return nil, p.errorf("unexpected end of input")
	}
	switch c := p.src[p.pos]; {
	case c == '{':
		return p.parseObject()
	case c == '[':
		return p.parseArray()
	case c == '"':
		s, err := p.parseString()
		if err != nil {
			return nil, err
		}
		return value.NewJsonString(s), nil
	case c == 't' || c == 'f':
		return p.parseBool()
	case c == 'n':
		return p.parseNull()
	case c == '-' || (c >= '0' && c <= '9'):
		return p.parseNumber()
	default:
		return nil, p.errorf("unexpected character %q", c)
	}
}

func (p *parser) expect(b byte) error {
	if p.pos >= len(p.src) || p.src[p.pos] != b {
		return p.errorf("expected %q", b)
	}
	p.pos++
	return nil
}

func (p *parser) parseObject() (*value.JsonNode, error) {
	if err := p.expect('{'); err != nil {
		return nil, err
	}
	obj := value.NewJsonObject()
	p.skipSpace()
	if p.pos < len(p.src) && p.src[p.pos] == '}' {
		p.pos++
		return obj, nil
	}
	for {
		p.skipSpace()
		key, err := p.parseString()
		if err != nil {
			return nil, err
		}
		if p.opts.LowercaseKeys {
			key = strings.ToLower(key)
		}
		p.skipSpace()
		if err := p.expect(':'); err != nil {
			return nil, err
		}
		p.skipSpace()
		val, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		obj.Set(key, val)
		p.skipSpace()
		if p.pos < len(p.src) && p.src[p.pos] == ',' {
			p.pos++
			continue
		}
		break
	}
	p.skipSpace()
	if err := p.expect('}'); err != nil {
		return nil, err
	}
	return obj, nil
}

func (p *parser) parseArray() (*value.JsonNode, error) {
	if err := p.expect('['); err != nil {
		return nil, err
	}
	var items []*value.JsonNode
	p.skipSpace()
	if p.pos < len(p.src) && p.src[p.pos] == ']' {
		p.pos++
		return value.NewJsonArray(items), nil
	}
	for {
		p.skipSpace()
		val, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		items = append(items, val)
		p.skipSpace()
		if p.pos < len(p.src) && p.src[p.pos] == ',' {
			p.pos++
			continue
		}
		break
	}
	p.skipSpace()
	if err := p.expect(']'); err != nil {
		return nil, err
	}
	return value.NewJsonArray(items), nil
}

func (p *parser) parseString() (string, error) {
	if err := p.expect('"'); err != nil {
		return "", err
	}
	var sb strings.Builder
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c == '"' {
			p.pos++
			return sb.String(), nil
		}
		if c == '\\' {
			p.pos++
			if p.pos >= len(p.src) {
				return "", p.errorf("unterminated escape sequence")
			}
			switch esc := p.src[p.pos]; esc {
			case '"', '\\', '/':
				sb.WriteByte(esc)
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
			case 'u':
				if p.pos+4 >= len(p.src) {
					return "", p.errorf("truncated \\u escape")
				}
				code, err := strconv.ParseUint(p.src[p.pos+1:p.pos+5], 16, 32)
				if err != nil {
					return "", p.errorf("invalid \\u escape")
				}
				sb.WriteRune(rune(code))
				p.pos += 4
			default:
				return "", p.errorf("invalid escape %q", esc)
			}
			p.pos++
			continue
		}
		r, size := utf8.DecodeRuneInString(p.src[p.pos:])
		sb.WriteRune(r)
		p.pos += size
	}
	return "", p.errorf("unterminated string")
}

func (p *parser) parseBool() (*value.JsonNode, error) {
	if strings.HasPrefix(p.src[p.pos:], "true") {
		p.pos += 4
		return value.NewJsonBool(true), nil
	}
	if strings.HasPrefix(p.src[p.pos:], "false") {
		p.pos += 5
		return value.NewJsonBool(false), nil
	}
	return nil, p.errorf("invalid literal")
}

func (p *parser) parseNull() (*value.JsonNode, error) {
	if strings.HasPrefix(p.src[p.pos:], "null") {
		p.pos += 4
		return value.NewJsonNull(), nil
	}
	return nil, p.errorf("invalid literal")
}

func (p *parser) parseNumber() (*value.JsonNode, error) {
	start := p.pos
	if p.pos < len(p.src) && p.src[p.pos] == '-' {
		p.pos++
	}
	for p.pos < len(p.src) && isDigit(p.src[p.pos]) {
		p.pos++
	}
	if p.pos < len(p.src) && p.src[p.pos] == '.' {
		p.pos++
		for p.pos < len(p.src) && isDigit(p.src[p.pos]) {
			p.pos++
		}
	}
	if p.pos < len(p.src) && (p.src[p.pos] == 'e' || p.src[p.pos] == 'E') {
		p.pos++
		if p.pos < len(p.src) && (p.src[p.pos] == '+' || p.src[p.pos] == '-') {
			p.pos++
		}
		for p.pos < len(p.src) && isDigit(p.src[p.pos]) {
			p.pos++
		}
	}
	n, err := strconv.ParseFloat(p.src[start:p.pos], 64)
	if err != nil {
		return nil, p.errorf("invalid number literal %q", p.src[start:p.pos])
	}
	return value.NewJsonNumber(n), nil
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
