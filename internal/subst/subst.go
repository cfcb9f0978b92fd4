// Package subst implements template substitution against a completed match:
// '&' and '\1'..'\9' group references, '\u'/'\U'/'\l'/'\L' case-conversion
// prefixes, and the fixed literal/numeric escape tables the compiler also
// uses.
//
// Grounded on original_source/regex/RegExp.cpp's SubstituteRE/adjustcase.
package subst

// MaxGroup is the highest capture-group index a template may reference
// (mirrors bytecode.MaxParen without importing it, since subst only needs
// the bound, not the opcode layout).
const MaxGroup = 49

// Substitute expands template against a completed match, writing the result
// into dst (dst's capacity is the hard output limit, matching the reference
// engine's fixed destination buffer). start/end/filled are the capture
// spans; start[0]/end[0] is the whole match.
//
// ok is false if the output had to be truncated to fit dst, or if template
// ends mid case-conversion escape with no following character -- the
// substitution still runs to completion either way, it is just reported as
// degraded, matching SubstituteRE's "execute anyway, return false" contract.
func Substitute(template []byte, subject []byte, start, end [MaxGroup + 1]int, filled [MaxGroup + 1]bool, dst []byte) (out []byte, ok bool) {
	ok = true
	out = dst[:0]
	max := cap(dst)
	if max == 0 {
		max = len(template) + 64 // unbounded caller: just give headroom
	}

	emit := func(c byte) bool {
		if len(out) >= max-1 {
			ok = false
			return false
		}
		out = append(out, c)
		return true
	}

	i := 0
outer:
	for i < len(template) {
		c := template[i]
		i++

		var chgcase byte
		if c == '\\' && i < len(template) {
			switch template[i] {
			case 'u', 'U', 'l', 'L':
				chgcase = template[i]
				i++
				if i >= len(template) {
					ok = false
					break outer
				}
				c = template[i]
				i++
			}
		}

		parenNo := -1
		if c == '&' {
			parenNo = 0
		} else if c == '\\' {
			if i < len(template) && template[i] >= '1' && template[i] <= '9' {
				parenNo = int(template[i] - '0')
				i++
			} else if i < len(template) {
				if v, lok := literalEscape(template[i]); lok {
					c = v
					i++
				} else if v, nlen, nok := numericEscape(template[i:]); nok {
					c = v
					i += nlen
				} else {
					c = '\\' // trailing/unrecognized backslash: literal
				}
			} else {
				c = '\\'
			}
		}

		if parenNo < 0 {
			if chgcase != 0 {
				buf := [1]byte{c}
				adjustCase(buf[:], chgcase)
				c = buf[0]
			}
			if !emit(c) {
				break
			}
			continue
		}

		if parenNo > MaxGroup || !filled[parenNo] {
			continue
		}
		s, e := start[parenNo], end[parenNo]
		if s < 0 || e < s || e > len(subject) {
			continue
		}
		span := subject[s:e]
		groupStart := len(out)
		truncatedHere := false
		for _, b := range span {
			if !emit(b) {
				truncatedHere = true
				break
			}
		}
		if chgcase != 0 {
			adjustCase(out[groupStart:], chgcase)
		}
		if truncatedHere {
			break
		}
	}

	return out, ok
}

// adjustCase rewrites str in place: 'u'/'l' touch only the first byte,
// 'U'/'L' touch every byte.
func adjustCase(str []byte, chgcase byte) {
	n := len(str)
	if (chgcase == 'u' || chgcase == 'l') && n > 1 {
		n = 1
	}
	switch chgcase {
	case 'u', 'U':
		for i := 0; i < n; i++ {
			str[i] = toUpperASCII(str[i])
		}
	case 'l', 'L':
		for i := 0; i < n; i++ {
			str[i] = toLowerASCII(str[i])
		}
	}
}

func toUpperASCII(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - ('a' - 'A')
	}
	return c
}

func toLowerASCII(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}

var literalEscapeFrom = []byte{'a', 'b', 'e', 'f', 'n', 'r', 't', 'v', '(', ')', '-', '[', ']', '<', '>', '{', '}', '.', '\\', '|', '^', '$', '*', '+', '?', '&'}
var literalEscapeTo = []byte{'\a', '\b', 0x1B, '\f', '\n', '\r', '\t', '\v', '(', ')', '-', '[', ']', '<', '>', '{', '}', '.', '\\', '|', '^', '$', '*', '+', '?', '&'}

func literalEscape(c byte) (byte, bool) {
	for i, from := range literalEscapeFrom {
		if from == c {
			return literalEscapeTo[i], true
		}
	}
	return 0, false
}

// numericEscape decodes \0ooo (1-3 octal digits) or \xHH (1-2 hex digits)
// from rest (rest[0] is the lead digit character). It returns the decoded
// byte, the number of bytes of rest consumed, and ok=false if rest doesn't
// start a numeric escape at all. An escape for zero (e.g. "\000") is
// deliberately left unrecognized, same as the reference engine, so it falls
// through to being treated as a literal string instead.
func numericEscape(rest []byte) (value byte, n int, ok bool) {
	if len(rest) == 0 {
		return 0, 0, false
	}
	var digits string
	var radix, width int
	switch rest[0] {
	case '0':
		digits, radix, width = "01234567", 8, 3
	case 'x', 'X':
		digits, radix, width = "0123456789abcdefABCDEF", 16, 2
	default:
		return 0, 0, false
	}

	v := 0
	consumed := 0
	for consumed < width && 1+consumed < len(rest) {
		d := digitValue(rest[1+consumed], digits)
		if d < 0 {
			break
		}
		nv := v*radix + d
		if nv > 255 {
			break
		}
		v = nv
		consumed++
	}
	if v == 0 {
		return 0, 0, false
	}
	return byte(v), 1 + consumed, true
}

func digitValue(c byte, digits string) int {
	for i := 0; i < len(digits); i++ {
		if digits[i] == c {
			if i >= 16 {
				return i - 6
			}
			return i
		}
	}
	return -1
}
