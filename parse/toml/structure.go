package toml

import (
	"fmt"
	"strconv"
	"strings"
)

func isBareKeyChar(c byte) bool {
	return isAlnum(c) || c == '_' || c == '-'
}

// pathKey encodes a dotted path as a set key. Each segment is prefixed with
// its byte length, so the encoding is unambiguous whatever bytes a quoted key
// holds (a \u0000 escape can put NUL into a key).
func pathKey(path []string) string {
	var b strings.Builder
	for _, k := range path {
		b.WriteString(strconv.Itoa(len(k)))
		b.WriteByte(':')
		b.WriteString(k)
	}
	return b.String()
}

// parseKey parses one key segment: bare, basic-quoted, or literal-quoted.
func (p *parser) parseKey() string {
	p.skipWhitespaceNoNL()

	switch p.peek() {
	case '"':
		if p.cur+2 < len(p.buf) && p.buf[p.cur+1] == '"' && p.buf[p.cur+2] == '"' {
			p.cur += 3
			return p.parseMultilineBasicString()
		}
		return p.parseBasicString()
	case '\'':
		if p.cur+2 < len(p.buf) && p.buf[p.cur+1] == '\'' && p.buf[p.cur+2] == '\'' {
			p.cur += 3
			return p.parseMultilineLiteralString()
		}
		return p.parseLiteralString()
	default:
		start := p.cur
		for !p.eof() && isBareKeyChar(p.peek()) {
			p.advance()
		}
		key := string(p.buf[start:p.cur])
		if key == "" {
			p.setError("Expected key")
			// Consume one byte so malformed input cannot stall the parser.
			if !p.eof() {
				p.advance()
			}
		}
		return key
	}
}

// parseDottedKey parses a.b.c style paths; single keys yield one segment.
func (p *parser) parseDottedKey() []string {
	path := []string{p.parseKey()}
	p.skipWhitespaceNoNL()
	for !p.eof() && p.peek() == '.' {
		p.advance()
		p.skipWhitespaceNoNL()
		path = append(path, p.parseKey())
		p.skipWhitespaceNoNL()
	}
	if p.hasError() {
		return nil
	}
	return path
}

func (p *parser) parseKeyValuePair(table *Table) {
	path := p.parseDottedKey()
	if len(path) == 0 {
		return
	}
	p.skipWhitespaceNoNL()
	p.expectChar('=')
	p.skipWhitespaceNoNL()
	value := p.parseValue()
	p.skipWhitespaceNoNL()
	p.skipComment()
	if p.hasError() {
		return
	}
	p.setValueAtPath(table, path, value)
}

// getOrCreateTableAtPath walks path from the root for a [header] line,
// creating missing tables. Descent through an array is permitted only when
// the prefix was introduced by [[header]] lines; it lands on the last
// element.
func (p *parser) getOrCreateTableAtPath(path []string) *Table {
	t := p.root
	for i, key := range path {
		n, ok := t.Items[key]
		if !ok {
			next := NewTable()
			t.Items[key] = next
			t = next
			continue
		}
		switch v := n.(type) {
		case *Table:
			t = v
		case *Array:
			// [arr.subtab] only when arr came from [[arr]]; a static array
			// (a = [...]) cannot be extended.
			if !p.arrayOfTables[pathKey(path[:i+1])] {
				p.setError("Cannot extend static array with table header")
				return nil
			}
			if len(v.Elems) == 0 {
				p.setError("Array of tables is empty")
				return nil
			}
			last, ok := v.Elems[len(v.Elems)-1].(*Table)
			if !ok {
				p.setError(fmt.Sprintf("Key '%s' already defined as non-table", key))
				return nil
			}
			t = last
		default:
			p.setError(fmt.Sprintf("Key '%s' already defined as non-table", key))
			return nil
		}
	}
	return t
}

// getOrCreateArrayAppendTable resolves a [[header]] line: it appends a fresh
// table to the array at path, creating the array on first sight and
// recording the path as header-grown.
func (p *parser) getOrCreateArrayAppendTable(path []string) *Table {
	if len(path) == 0 {
		p.setError("Empty array of tables path")
		return nil
	}
	t := p.root
	for i := 0; i+1 < len(path); i++ {
		key := path[i]
		n, ok := t.Items[key]
		if !ok {
			next := NewTable()
			t.Items[key] = next
			t = next
			continue
		}
		switch v := n.(type) {
		case *Table:
			t = v
		case *Array:
			if !p.arrayOfTables[pathKey(path[:i+1])] {
				p.setError(fmt.Sprintf("Key '%s' already defined as non-table", key))
				return nil
			}
			if len(v.Elems) == 0 {
				p.setError("Array of tables is empty")
				return nil
			}
			last, ok := v.Elems[len(v.Elems)-1].(*Table)
			if !ok {
				p.setError(fmt.Sprintf("Key '%s' already defined as non-array-of-tables", key))
				return nil
			}
			t = last
		default:
			p.setError(fmt.Sprintf("Key '%s' already defined as non-table", key))
			return nil
		}
	}

	lastKey := path[len(path)-1]
	existing, ok := t.Items[lastKey]
	if !ok {
		p.arrayOfTables[pathKey(path)] = true
		newTable := NewTable()
		arr := &Array{Elems: []Node{newTable}}
		t.Items[lastKey] = arr
		return newTable
	}
	arr, ok := existing.(*Array)
	if !ok {
		p.setError(fmt.Sprintf("Key '%s' already defined as non-array", lastKey))
		return nil
	}
	// [[key]] only extends arrays created by a previous [[key]], never a
	// static key = [...] array.
	if !p.arrayOfTables[pathKey(path)] {
		p.setError(fmt.Sprintf("Key '%s' already defined as non-array-of-tables", lastKey))
		return nil
	}
	for _, elem := range arr.Elems {
		if _, ok := elem.(*Table); !ok {
			p.setError(fmt.Sprintf("Key '%s' already defined as non-array-of-tables", lastKey))
			return nil
		}
	}
	newTable := NewTable()
	arr.Elems = append(arr.Elems, newTable)
	return newTable
}

// setValueAtPath binds value at the dotted path inside table, creating
// intermediate tables. Rebinding the final key is rejected.
func (p *parser) setValueAtPath(table *Table, path []string, value Node) {
	if len(path) == 0 {
		return
	}
	t := table
	for i := 0; i+1 < len(path); i++ {
		key := path[i]
		n, ok := t.Items[key]
		if !ok {
			next := NewTable()
			t.Items[key] = next
			t = next
			continue
		}
		sub, ok := n.(*Table)
		if !ok {
			p.setError(fmt.Sprintf("Key '%s' already defined as non-table", key))
			return
		}
		t = sub
	}
	last := path[len(path)-1]
	if _, exists := t.Items[last]; exists {
		p.setError(fmt.Sprintf("duplicate key %q", last))
		return
	}
	t.Items[last] = value
}

// =========================
// Inline Tables and Arrays
// =========================

// parseInlineTable parses { k = v, ... }. Newlines and trailing commas are
// not permitted inside inline tables.
func (p *parser) parseInlineTable() *Table {
	p.expectChar('{')
	p.skipWhitespaceNoNL()
	table := NewTable()
	if p.peekChar('}') {
		p.advance()
		return table
	}
	for !p.eof() && !p.hasError() {
		if p.peekChar('\n') {
			p.setError("Newline not permitted in inline table")
			break
		}
		path := p.parseDottedKey()
		if len(path) == 0 {
			break
		}
		p.skipWhitespaceNoNL()
		p.expectChar('=')
		p.skipWhitespaceNoNL()
		value := p.parseValue()
		if p.hasError() {
			break
		}
		p.setValueAtPath(table, path, value)
		p.skipWhitespaceNoNL()
		if p.peekChar('}') {
			break
		}
		if p.peekChar('\n') {
			p.setError("Newline not permitted in inline table")
			break
		}
		p.expectChar(',')
		p.skipWhitespaceNoNL()
		if p.peekChar('}') {
			p.setError("Trailing comma not permitted in inline table")
			break
		}
	}
	p.expectChar('}')
	return table
}

// skipWhitespaceAndComments skips any run of whitespace and full-line
// comments, in any order.
func (p *parser) skipWhitespaceAndComments() {
	for {
		p.skipWhitespace()
		if !p.peekChar('#') {
			return
		}
		p.skipComment()
	}
}

// parseArray parses [ v1, v2, ... ]. Newlines and comments may appear
// between elements; a trailing comma is permitted. Elements may be
// heterogeneous.
func (p *parser) parseArray() *Array {
	p.expectChar('[')
	arr := &Array{Elems: make([]Node, 0)}
	for !p.eof() && !p.hasError() {
		p.skipWhitespaceAndComments()
		if p.peekChar(']') || p.eof() {
			break
		}
		value := p.parseValue()
		if p.hasError() {
			break
		}
		arr.Elems = append(arr.Elems, value)
		p.skipWhitespaceAndComments()
		if p.peekChar(',') {
			p.advance()
			continue
		}
		if !p.peekChar(']') {
			p.setError("Expected ',' or ']' in array")
		}
		break
	}
	p.expectChar(']')
	return arr
}
