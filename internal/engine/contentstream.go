package engine

import (
	"bytes"
	"encoding/hex"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// textDecoder turns the raw bytes of a string operand into text, given the
// resource name of the font selected by the last Tf.
type textDecoder func(font string, raw []byte) string

// scanTextItems walks a content stream and returns one item per text-showing
// operator (Tj, TJ, ' and "). All string elements of a TJ array form a single
// item, so kerning never splits a word. Empty items are dropped.
func scanTextItems(data []byte, decode textDecoder) []TextItem {
	var (
		items    []TextItem
		pending  [][]byte
		font     string
		lastName string
	)

	for i := 0; i < len(data); {
		c := data[i]
		switch {
		case c == '%':
			for i < len(data) && data[i] != '\n' && data[i] != '\r' {
				i++
			}
		case c == '(':
			s, next := readLiteral(data, i)
			pending = append(pending, s)
			i = next
		case c == '<' && i+1 < len(data) && data[i+1] == '<':
			i += 2
		case c == '<':
			s, next := readHex(data, i)
			pending = append(pending, s)
			i = next
		case c == '/':
			start := i + 1
			i = start
			for i < len(data) && isRegular(data[i]) {
				i++
			}
			lastName = string(data[start:i])
		case isRegular(c):
			start := i
			for i < len(data) && isRegular(data[i]) {
				i++
			}
			op := string(data[start:i])
			switch op {
			case "Tj", "TJ", "'", "\"":
				if len(pending) > 0 {
					if str := decode(font, bytes.Join(pending, nil)); str != "" {
						items = append(items, TextItem{Str: str})
					}
				}
				pending = pending[:0]
			case "Tf":
				font = lastName
				pending = pending[:0]
			case "ID":
				i = skipInlineImage(data, i)
				pending = pending[:0]
			default:
				if !isNumber(op) {
					pending = pending[:0]
				}
			}
		default:
			i++
		}
	}
	return items
}

func readLiteral(data []byte, i int) ([]byte, int) {
	var out []byte
	depth := 0
	for i < len(data) {
		c := data[i]
		switch c {
		case '\\':
			i++
			if i >= len(data) {
				return out, i
			}
			e := data[i]
			switch e {
			case 'n':
				out = append(out, '\n')
			case 'r':
				out = append(out, '\r')
			case 't':
				out = append(out, '\t')
			case 'b':
				out = append(out, '\b')
			case 'f':
				out = append(out, '\f')
			case '\r', '\n':
				// line continuation
			default:
				if e >= '0' && e <= '7' {
					v := int(e - '0')
					for k := 0; k < 2 && i+1 < len(data) && data[i+1] >= '0' && data[i+1] <= '7'; k++ {
						i++
						v = v*8 + int(data[i]-'0')
					}
					out = append(out, byte(v))
				} else {
					out = append(out, e)
				}
			}
		case '(':
			if depth > 0 {
				out = append(out, c)
			}
			depth++
		case ')':
			depth--
			if depth == 0 {
				return out, i + 1
			}
			out = append(out, c)
		default:
			out = append(out, c)
		}
		i++
	}
	return out, i
}

func readHex(data []byte, i int) ([]byte, int) {
	end := bytes.IndexByte(data[i:], '>')
	if end < 0 {
		return nil, len(data)
	}
	digits := make([]byte, 0, end)
	for _, c := range data[i+1 : i+end] {
		if isHexDigit(c) {
			digits = append(digits, c)
		}
	}
	if len(digits)%2 == 1 {
		digits = append(digits, '0')
	}
	out := make([]byte, len(digits)/2)
	if _, err := hex.Decode(out, digits); err != nil {
		return nil, i + end + 1
	}
	return out, i + end + 1
}

func skipInlineImage(data []byte, i int) int {
	for j := i; j+2 < len(data); j++ {
		if isWhite(data[j]) && data[j+1] == 'E' && data[j+2] == 'I' && (j+3 == len(data) || isWhite(data[j+3])) {
			return j + 3
		}
	}
	return len(data)
}

// decodeWinAnsi decodes string operands as WinAnsi, or UTF-16BE when they
// carry a byte order mark. The font is ignored.
func decodeWinAnsi(_ string, raw []byte) string {
	if len(raw) >= 2 && raw[0] == 0xFE && raw[1] == 0xFF {
		out, err := unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder().Bytes(raw)
		if err == nil {
			return string(out)
		}
	}
	out, err := charmap.Windows1252.NewDecoder().Bytes(raw)
	if err != nil {
		return string(raw)
	}
	return string(out)
}

func isWhite(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n', '\f', 0:
		return true
	}
	return false
}

func isDelimiter(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

func isRegular(c byte) bool {
	return !isWhite(c) && !isDelimiter(c)
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isNumber(tok string) bool {
	if tok == "" {
		return false
	}
	for i := 0; i < len(tok); i++ {
		c := tok[i]
		if (c < '0' || c > '9') && c != '.' && c != '-' && c != '+' {
			return false
		}
	}
	return true
}
