// Package toml implements a production-grade TOML v1.0 parser with a strong
// internal AST, deterministic semantics, and safe post-parse operations.
//
// Scope:
// - TOML v1.0.0 core features
// - Explicit AST (Table / Array / Value)
// - Byte-cursor recursive descent over a single immutable input buffer
// - Word-at-a-time whitespace and delimiter scanning
// - Safe dotted-key handling
// - Table extension semantics
// - Deterministic, first-error-wins diagnostics
//
// Non-goals (by design):
// - Comment preservation
// - Formatting round-trip
// - Streaming mutation
//
// This implementation is suitable for production use as a configuration
// ingestion layer.
package toml

import (
	"errors"
	"io"
)

// =========================
// AST Definitions
// =========================

type ValueKind string

var tomlValueKinds = struct {
	ValueString        ValueKind
	ValueInt           ValueKind
	ValueFloat         ValueKind
	ValueBool          ValueKind
	ValueDatetime      ValueKind
	ValueLocalDate     ValueKind
	ValueLocalTime     ValueKind
	ValueLocalDatetime ValueKind
	ValueTable         ValueKind
	ValueArray         ValueKind
}{
	ValueString:        "string",
	ValueInt:           "int",
	ValueFloat:         "float",
	ValueBool:          "bool",
	ValueDatetime:      "datetime",
	ValueLocalDate:     "local_date",
	ValueLocalTime:     "local_time",
	ValueLocalDatetime: "local_datetime",
	ValueTable:         "table",
	ValueArray:         "array",
}

type Node interface {
	Kind() ValueKind
	Value() any
}

// -------- Table --------

type Table struct {
	Items map[string]Node
}

func NewTable() *Table {
	return &Table{Items: make(map[string]Node)}
}

func (*Table) Kind() ValueKind { return tomlValueKinds.ValueTable }

func (*Table) Value() any { return nil }

// -------- Array --------

type Array struct {
	Elems []Node
}

func (v *Array) Kind() ValueKind { return tomlValueKinds.ValueArray }

func (v *Array) Value() any { return v.Elems }

// -------- Value --------

type Value struct {
	Type ValueKind
	V    any
}

func (v *Value) Kind() ValueKind { return v.Type }

func (v *Value) Value() any { return v.V }

// =========================
// Public API
// =========================

// Parse parses a complete TOML document held in input and returns the root
// table. The input buffer is never modified and never read past its end. On
// the first malformed construct parsing stops and the recorded error is
// returned with a nil table.
func Parse(input []byte) (*Table, error) {
	p := &parser{
		buf:           input,
		root:          NewTable(),
		arrayOfTables: make(map[string]bool),
	}
	p.current = p.root

	if !p.prevalidate() {
		return nil, errors.New(p.errmsg)
	}

	p.parseDocument()

	if p.errmsg != "" {
		return nil, errors.New(p.errmsg)
	}
	return p.root, nil
}

// ParseReader reads r to its end and parses the content as a TOML document.
func ParseReader(r io.Reader) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// =========================
// Parser Implementation
// =========================

type parser struct {
	buf     []byte
	cur     int
	root    *Table
	current *Table
	errmsg  string

	// Paths introduced by [[header]] lines, encoded by pathKey. Distinguishes
	// header-grown arrays (extensible) from static arrays (not extensible).
	arrayOfTables map[string]bool
}

func (p *parser) parseDocument() {
	p.skipWhitespace()
	for !p.eof() && !p.hasError() {
		p.skipWhitespace()
		if p.eof() {
			break
		}

		if p.peek() == '#' {
			p.skipComment()
			continue
		}

		if p.peek() == '[' {
			p.advance()
			p.skipWhitespace()

			isArrayOfTables := false
			if p.peek() == '[' {
				isArrayOfTables = true
				p.advance()
				p.skipWhitespace()
			}

			path := p.parseDottedKey()
			if len(path) == 0 {
				p.setError("Empty table header")
				return
			}

			p.skipWhitespace()
			if isArrayOfTables {
				p.expectChar(']')
				p.expectChar(']')
			} else {
				p.expectChar(']')
			}
			p.skipWhitespace()
			p.skipComment()
			if p.hasError() {
				return
			}

			if isArrayOfTables {
				p.current = p.getOrCreateArrayAppendTable(path)
			} else {
				p.current = p.getOrCreateTableAtPath(path)
			}
			if p.current == nil {
				return
			}
			continue
		}

		p.parseKeyValuePair(p.current)
		p.skipWhitespace()
	}
}

// parseValue dispatches on the first byte of a value. Helpers never panic;
// on error they record it and return a neutral value so descent can unwind.
func (p *parser) parseValue() Node {
	p.skipWhitespaceNoNL()

	c := p.peek()

	switch {
	case c == '"':
		if p.cur+2 < len(p.buf) && p.buf[p.cur+1] == '"' && p.buf[p.cur+2] == '"' {
			p.cur += 3
			return &Value{Type: tomlValueKinds.ValueString, V: p.parseMultilineBasicString()}
		}
		return &Value{Type: tomlValueKinds.ValueString, V: p.parseBasicString()}
	case c == '\'':
		if p.cur+2 < len(p.buf) && p.buf[p.cur+1] == '\'' && p.buf[p.cur+2] == '\'' {
			p.cur += 3
			return &Value{Type: tomlValueKinds.ValueString, V: p.parseMultilineLiteralString()}
		}
		return &Value{Type: tomlValueKinds.ValueString, V: p.parseLiteralString()}
	case c == '[':
		return p.parseArray()
	case c == '{':
		return p.parseInlineTable()
	case isDigit(c) || c == '+' || c == '-' || c == '.':
		// Date/time or number: a datetime prefix wins over generic numbers.
		if isDigit(c) && len(p.buf)-p.cur >= 10 &&
			isDigit(p.buf[p.cur+1]) && isDigit(p.buf[p.cur+2]) && isDigit(p.buf[p.cur+3]) &&
			p.buf[p.cur+4] == '-' {
			if v, ok := p.tryParseDatetime(); ok {
				return v
			}
			if p.hasError() {
				return &Value{Type: tomlValueKinds.ValueInt, V: int64(0)}
			}
		}
		if isDigit(c) && len(p.buf)-p.cur >= 8 &&
			isDigit(p.buf[p.cur+1]) && p.buf[p.cur+2] == ':' {
			if v, ok := p.tryParseDatetime(); ok {
				return v
			}
			if p.hasError() {
				return &Value{Type: tomlValueKinds.ValueInt, V: int64(0)}
			}
		}
		return p.parseNumber()
	case c == 't' || c == 'f':
		return &Value{Type: tomlValueKinds.ValueBool, V: p.parseBoolean()}
	case c == 'i' && p.hasSpecialFloatWord("inf"):
		p.cur += 3
		return &Value{Type: tomlValueKinds.ValueFloat, V: posInf()}
	case c == 'n' && p.hasSpecialFloatWord("nan"):
		p.cur += 3
		return &Value{Type: tomlValueKinds.ValueFloat, V: posNaN()}
	default:
		if p.eof() {
			p.setError("Unexpected end of input in value")
		} else {
			p.setError("Unexpected character in value: " + string(c))
		}
		return &Value{Type: tomlValueKinds.ValueInt, V: int64(0)}
	}
}

func (p *parser) parseBoolean() bool {
	if p.peek() == 't' {
		p.expectChar('t')
		p.expectChar('r')
		p.expectChar('u')
		p.expectChar('e')
		return true
	}
	p.expectChar('f')
	p.expectChar('a')
	p.expectChar('l')
	p.expectChar('s')
	p.expectChar('e')
	return false
}

// =========================
// Safe Access Helpers
// =========================

func Get(root *Table, path ...string) (Node, bool) {
	var cur Node = root
	for _, p := range path {
		if len(p) == 0 {
			continue
		}
		t, ok := cur.(*Table)
		if !ok {
			return nil, false
		}
		cur, ok = t.Items[p]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

func GetUntyped(root *Table, path ...string) (any, bool) {
	n, ok := Get(root, path...)
	if !ok {
		return nil, false
	}
	return ToUntyped(n), true
}

func ToUntyped(n Node) any {
	switch v := n.(type) {
	case *Value:
		return v.V
	case *Array:
		out := make([]any, len(v.Elems))
		for i := range v.Elems {
			out[i] = ToUntyped(v.Elems[i])
		}
		return out
	case *Table:
		m := make(map[string]any, len(v.Items))
		for k, child := range v.Items {
			m[k] = ToUntyped(child)
		}
		return m
	default:
		return nil
	}
}

func MustString(n Node) string {
	v := n.(*Value)
	return v.V.(string)
}

func MustInt(n Node) int64 {
	v := n.(*Value)
	return v.V.(int64)
}
