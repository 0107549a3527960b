// Package template substitutes job-scoped placeholders in recipe templates.
//
// Two placeholder kinds share similar delimiters and must never
// cross-resolve: {identifier} is bound from job variables here, while
// ${{identifier}} belongs to the execution environment and is passed
// through verbatim.
package template

import (
	"fmt"
	"strings"
)

// UnboundPlaceholderError reports a {identifier} placeholder with no
// corresponding job variable. Detected at resolution time; leaving the
// literal text in place would surface much later as a confusing script
// failure.
type UnboundPlaceholderError struct {
	Placeholder string
}

func (e *UnboundPlaceholderError) Error() string {
	return fmt.Sprintf("unbound placeholder {%s}", e.Placeholder)
}

// Resolve substitutes every {identifier} in text from vars and copies
// every ${{identifier}} through untouched. A brace that does not open a
// well-formed {identifier} token is literal text.
func Resolve(text string, vars map[string]string) (string, error) {
	var b strings.Builder
	b.Grow(len(text))

	for i := 0; i < len(text); {
		if text[i] == '$' && strings.HasPrefix(text[i:], "${{") {
			end := strings.Index(text[i+3:], "}}")
			if end >= 0 {
				stop := i + 3 + end + 2
				b.WriteString(text[i:stop])
				i = stop
				continue
			}
		}
		if text[i] == '{' {
			if name, width := scanPlaceholder(text[i:]); width > 0 {
				value, bound := vars[name]
				if !bound {
					return "", &UnboundPlaceholderError{Placeholder: name}
				}
				b.WriteString(value)
				i += width
				continue
			}
		}
		b.WriteByte(text[i])
		i++
	}
	return b.String(), nil
}

// scanPlaceholder matches {identifier} at the start of text and returns the
// identifier and the total token width, or width 0 if text does not open a
// placeholder.
func scanPlaceholder(text string) (string, int) {
	if len(text) < 3 || text[0] != '{' {
		return "", 0
	}
	j := 1
	for j < len(text) && isIdentByte(text[j], j == 1) {
		j++
	}
	if j == 1 || j >= len(text) || text[j] != '}' {
		return "", 0
	}
	return text[1:j], j + 1
}

func isIdentByte(c byte, first bool) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '_':
		return true
	case c >= '0' && c <= '9':
		return !first
	default:
		return false
	}
}
