package toml

import (
	"encoding/binary"
	"math/bits"
)

// Word-at-a-time scanners for the hot skip/find loops. Each function reads
// 8-byte little-endian chunks while at least a full word remains, classifies
// all eight lanes at once, and jumps to the first interesting lane with a
// count-trailing-zeros; the tail falls back to the scalar loop. Results are
// byte-identical to the scalar path, and no function reads past len(buf).

const (
	swarLows  uint64 = 0x0101010101010101
	swarHighs uint64 = 0x8080808080808080
)

// matchByteMask returns 0x80 in every lane of w whose byte equals c and 0x00
// in every other lane. The add is carried out on the low seven bits of each
// lane so it cannot carry across lanes; the mask is exact.
func matchByteMask(w uint64, c byte) uint64 {
	x := w ^ (swarLows * uint64(c))
	y := (x &^ swarHighs) + ^swarHighs
	return ^(y | x) & swarHighs
}

var asciiWhitespace = [256]bool{
	' ': true, '\t': true, '\r': true, '\n': true,
}

var asciiWhitespaceNoNL = [256]bool{
	' ': true, '\t': true, '\r': true,
}

// skipWhitespace returns the first index >= pos whose byte is not one of
// space, tab, CR, or LF, or len(buf).
func skipWhitespace(buf []byte, pos int) int {
	for len(buf)-pos >= 8 {
		w := binary.LittleEndian.Uint64(buf[pos:])
		ws := matchByteMask(w, ' ') |
			matchByteMask(w, '\t') |
			matchByteMask(w, '\r') |
			matchByteMask(w, '\n')
		if ws != swarHighs {
			return pos + bits.TrailingZeros64(^ws&swarHighs)/8
		}
		pos += 8
	}
	for pos < len(buf) && asciiWhitespace[buf[pos]] {
		pos++
	}
	return pos
}

// skipWhitespaceNoNL is skipWhitespace without the LF lane, so a newline
// stops the scan.
func skipWhitespaceNoNL(buf []byte, pos int) int {
	for len(buf)-pos >= 8 {
		w := binary.LittleEndian.Uint64(buf[pos:])
		ws := matchByteMask(w, ' ') |
			matchByteMask(w, '\t') |
			matchByteMask(w, '\r')
		if ws != swarHighs {
			return pos + bits.TrailingZeros64(^ws&swarHighs)/8
		}
		pos += 8
	}
	for pos < len(buf) && asciiWhitespaceNoNL[buf[pos]] {
		pos++
	}
	return pos
}

// findByte returns the first index >= pos whose byte equals c, or len(buf).
func findByte(buf []byte, pos int, c byte) int {
	for len(buf)-pos >= 8 {
		w := binary.LittleEndian.Uint64(buf[pos:])
		if m := matchByteMask(w, c); m != 0 {
			return pos + bits.TrailingZeros64(m)/8
		}
		pos += 8
	}
	for pos < len(buf) && buf[pos] != c {
		pos++
	}
	return pos
}
