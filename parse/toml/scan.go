package toml

import "fmt"

// Cursor primitives over the immutable input buffer. peek and advance return
// NUL at end of input; NUL is never a valid TOML byte after pre-validation.

func (p *parser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.buf[p.cur]
}

func (p *parser) advance() byte {
	if p.eof() {
		return 0
	}
	c := p.buf[p.cur]
	p.cur++
	return c
}

func (p *parser) eof() bool {
	return p.cur >= len(p.buf)
}

// expectChar consumes c or records an error without advancing.
func (p *parser) expectChar(c byte) {
	if p.eof() || p.peek() != c {
		found := "EOF"
		if !p.eof() {
			found = string(p.peek())
		}
		p.setError(fmt.Sprintf("Expected '%c' but found '%s'", c, found))
		return
	}
	p.advance()
}

func (p *parser) peekChar(c byte) bool {
	return !p.eof() && p.peek() == c
}

// setError records msg unless an earlier error is already recorded.
func (p *parser) setError(msg string) {
	if p.errmsg == "" {
		p.errmsg = msg
	}
}

func (p *parser) hasError() bool {
	return p.errmsg != ""
}

func (p *parser) skipWhitespace() {
	p.cur = skipWhitespace(p.buf, p.cur)
}

func (p *parser) skipWhitespaceNoNL() {
	p.cur = skipWhitespaceNoNL(p.buf, p.cur)
}

func (p *parser) skipComment() {
	if p.peekChar('#') {
		p.cur = findByte(p.buf, p.cur, '\n')
	}
}

// =========================
// Pre-validation
// =========================

// TOML 1.0: control chars U+0000-U+001F (except tab, LF, CR in CRLF) and
// U+007F are not permitted anywhere in the input.
func isForbiddenControl(c byte) bool {
	if c == 0x09 || c == 0x0A || c == 0x0D {
		return false
	}
	return c <= 0x1F || c == 0x7F
}

func (p *parser) prevalidate() bool {
	for i := 0; i < len(p.buf); i++ {
		u := p.buf[i]
		if u == 0x0D {
			// CR only permitted as part of CRLF.
			if i+1 >= len(p.buf) || p.buf[i+1] != '\n' {
				p.setError("Control characters (U+0000-U+001F except tab/LF/CR in CRLF) and U+007F are not permitted")
				return false
			}
		} else if isForbiddenControl(u) {
			p.setError("Control characters (U+0000-U+001F except tab/LF/CR in CRLF) and U+007F are not permitted")
			return false
		}
	}
	return true
}
