package ifc

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// Open reads an IFC file from disk. Gzip-compressed files are detected by
// magic bytes regardless of extension.
func Open(path string) (*File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if len(raw) >= 2 && raw[0] == 0x1f && raw[1] == 0x8b {
		zr, err := gzip.NewReader(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("failed to decompress %s: %w", path, err)
		}
		raw, err = io.ReadAll(zr)
		if err != nil {
			return nil, fmt.Errorf("failed to decompress %s: %w", path, err)
		}
	}

	f, err := Read(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	f.Name = filepath.Base(path)
	return f, nil
}

// Read parses an SPF document.
func Read(r io.Reader) (*File, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	f := NewFile()
	inData := false
	for _, stmt := range splitStatements(data) {
		stmt = strings.TrimSpace(stmt)
		switch {
		case stmt == "":
			continue
		case stmt == "DATA":
			inData = true
			continue
		case stmt == "ENDSEC":
			if inData {
				f.sortEntities()
				if f.Len() == 0 {
					return nil, fmt.Errorf("empty DATA section")
				}
				return f, nil
			}
			continue
		case !inData:
			continue
		}

		e, err := parseInstance(stmt)
		if err != nil {
			return nil, err
		}
		if err := f.add(e); err != nil {
			return nil, err
		}
	}

	if !inData {
		return nil, fmt.Errorf("no DATA section found")
	}
	return nil, fmt.Errorf("unterminated DATA section")
}

// splitStatements splits the document on semicolons, honoring quoted strings.
func splitStatements(data []byte) []string {
	var stmts []string
	var cur strings.Builder
	inString := false
	for _, c := range data {
		switch {
		case c == '\'':
			inString = !inString
			cur.WriteByte(c)
		case c == ';' && !inString:
			stmts = append(stmts, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	if s := strings.TrimSpace(cur.String()); s != "" {
		stmts = append(stmts, s)
	}
	return stmts
}

// parseInstance parses one "#id=TYPE(...)" statement.
func parseInstance(stmt string) (*Entity, error) {
	if !strings.HasPrefix(stmt, "#") {
		return nil, fmt.Errorf("malformed instance %q", truncate(stmt))
	}
	eq := strings.Index(stmt, "=")
	if eq < 0 {
		return nil, fmt.Errorf("malformed instance %q", truncate(stmt))
	}
	id, err := strconv.Atoi(strings.TrimSpace(stmt[1:eq]))
	if err != nil {
		return nil, fmt.Errorf("malformed instance id in %q", truncate(stmt))
	}

	p := &parser{input: stmt[eq+1:]}
	p.skipSpace()
	name := p.ident()
	if name == "" {
		return nil, fmt.Errorf("missing type name in instance #%d", id)
	}
	attrs, err := p.list()
	if err != nil {
		return nil, fmt.Errorf("instance #%d: %w", id, err)
	}
	p.skipSpace()
	if !p.eof() {
		return nil, fmt.Errorf("instance #%d: trailing input", id)
	}

	return &Entity{ID: id, Type: strings.ToUpper(name), Attrs: attrs}, nil
}

type parser struct {
	input string
	pos   int
}

func (p *parser) eof() bool {
	return p.pos >= len(p.input)
}

func (p *parser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.input[p.pos]
}

func (p *parser) skipSpace() {
	for !p.eof() {
		switch p.input[p.pos] {
		case ' ', '\t', '\r', '\n':
			p.pos++
		default:
			return
		}
	}
}

// ident consumes a type name (letters, digits, underscores).
func (p *parser) ident() string {
	start := p.pos
	for !p.eof() {
		c := p.input[p.pos]
		if c == '_' || c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z' || c >= '0' && c <= '9' {
			p.pos++
			continue
		}
		break
	}
	return p.input[start:p.pos]
}

// list consumes "(v,v,...)" and returns the parsed values.
func (p *parser) list() ([]Value, error) {
	p.skipSpace()
	if p.peek() != '(' {
		return nil, fmt.Errorf("expected '(' at offset %d", p.pos)
	}
	p.pos++
	p.skipSpace()

	var values []Value
	if p.peek() == ')' {
		p.pos++
		return values, nil
	}
	for {
		v, err := p.value()
		if err != nil {
			return nil, err
		}
		values = append(values, v)
		p.skipSpace()
		switch p.peek() {
		case ',':
			p.pos++
			p.skipSpace()
		case ')':
			p.pos++
			return values, nil
		default:
			return nil, fmt.Errorf("expected ',' or ')' at offset %d", p.pos)
		}
	}
}

func (p *parser) value() (Value, error) {
	p.skipSpace()
	switch c := p.peek(); {
	case c == '$':
		p.pos++
		return Null{}, nil
	case c == '*':
		p.pos++
		return Derived{}, nil
	case c == '\'':
		return p.str()
	case c == '.':
		return p.enum()
	case c == '#':
		p.pos++
		start := p.pos
		for !p.eof() && p.input[p.pos] >= '0' && p.input[p.pos] <= '9' {
			p.pos++
		}
		id, err := strconv.Atoi(p.input[start:p.pos])
		if err != nil {
			return nil, fmt.Errorf("bad reference at offset %d", start)
		}
		return Ref(id), nil
	case c == '(':
		items, err := p.list()
		if err != nil {
			return nil, err
		}
		return List(items), nil
	case c == '-' || c == '+' || c >= '0' && c <= '9':
		return p.number()
	case c == '_' || c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z':
		// Wrapped select value: TYPE(inner)
		name := p.ident()
		inner, err := p.list()
		if err != nil {
			return nil, err
		}
		if len(inner) != 1 {
			return nil, fmt.Errorf("wrapped value %s: want 1 component, got %d", name, len(inner))
		}
		return Typed{Type: strings.ToUpper(name), Value: inner[0]}, nil
	default:
		return nil, fmt.Errorf("unexpected character %q at offset %d", c, p.pos)
	}
}

// str consumes a quoted string, collapsing doubled apostrophes.
func (p *parser) str() (Value, error) {
	p.pos++ // opening quote
	var b strings.Builder
	for {
		if p.eof() {
			return nil, fmt.Errorf("unterminated string")
		}
		c := p.input[p.pos]
		if c == '\'' {
			if p.pos+1 < len(p.input) && p.input[p.pos+1] == '\'' {
				b.WriteByte('\'')
				p.pos += 2
				continue
			}
			p.pos++
			return Str(b.String()), nil
		}
		b.WriteByte(c)
		p.pos++
	}
}

// enum consumes an .ENUM. literal.
func (p *parser) enum() (Value, error) {
	p.pos++ // opening dot
	start := p.pos
	for !p.eof() && p.input[p.pos] != '.' {
		p.pos++
	}
	if p.eof() {
		return nil, fmt.Errorf("unterminated enumeration")
	}
	name := p.input[start:p.pos]
	p.pos++ // closing dot
	return Enum(name), nil
}

func (p *parser) number() (Value, error) {
	start := p.pos
	if c := p.peek(); c == '-' || c == '+' {
		p.pos++
	}
	isFloat := false
	for !p.eof() {
		c := p.input[p.pos]
		switch {
		case c >= '0' && c <= '9':
			p.pos++
		case c == '.' || c == 'E' || c == 'e':
			isFloat = true
			p.pos++
			if c != '.' && !p.eof() && (p.input[p.pos] == '-' || p.input[p.pos] == '+') {
				p.pos++
			}
		default:
			goto done
		}
	}
done:
	text := p.input[start:p.pos]
	if isFloat {
		v, err := strconv.ParseFloat(strings.TrimSuffix(text, "."), 64)
		if err != nil {
			return nil, fmt.Errorf("bad real %q", text)
		}
		return Float(v), nil
	}
	v, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("bad integer %q", text)
	}
	return Int(v), nil
}

func truncate(s string) string {
	if len(s) > 40 {
		return s[:40] + "..."
	}
	return s
}
