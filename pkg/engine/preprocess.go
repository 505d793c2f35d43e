package engine

import "strings"

// kwPrefix marks keyword names rewritten by preprocessSource.
const kwPrefix = "__kw_"

// preprocessSource rewrites script source into something zygomys reads:
//
//   - :keyword becomes the string literal "__kw_keyword", so keywords need
//     no global symbols and cannot collide with user variables.
//   - scope-box becomes scope_box. zygomys reads a hyphen between
//     identifier characters as subtraction.
//   - ; line comments become // comments.
//
// String literals (double-quoted and backtick) pass through untouched.
func preprocessSource(source string) string {
	var out strings.Builder
	out.Grow(len(source) + len(source)/4)
	b := source
	n := len(b)

	for i := 0; i < n; {
		c := b[i]
		switch {
		case c == '"':
			j := i + 1
			for j < n && b[j] != '"' {
				if b[j] == '\\' && j+1 < n {
					j++
				}
				j++
			}
			if j < n {
				j++
			}
			out.WriteString(b[i:j])
			i = j

		case c == '`':
			j := i + 1
			for j < n && b[j] != '`' {
				j++
			}
			if j < n {
				j++
			}
			out.WriteString(b[i:j])
			i = j

		case c == ';':
			j := i
			for j < n && b[j] == ';' {
				j++
			}
			k := j
			for k < n && b[k] != '\n' {
				k++
			}
			out.WriteString("//")
			out.WriteString(b[j:k])
			i = k

		case c == ':' && i+1 < n && b[i+1] == '=':
			out.WriteString(":=")
			i += 2

		case c == ':' && i+1 < n && isLetter(b[i+1]):
			j := i + 1
			for j < n && isKWChar(b[j]) {
				j++
			}
			out.WriteByte('"')
			out.WriteString(kwPrefix)
			out.WriteString(b[i+1 : j])
			out.WriteByte('"')
			i = j

		case c == '-' && i > 0 && i+1 < n && isIdentChar(b[i-1]) && isLetter(b[i+1]):
			out.WriteByte('_')
			i++

		default:
			out.WriteByte(c)
			i++
		}
	}
	return out.String()
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isKWChar(c byte) bool {
	return isLetter(c) || isDigit(c) || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || isDigit(c) || c == '_'
}
