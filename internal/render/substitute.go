package render

import "strings"

// Substitute replaces every {identifier} token in template whose identifier
// is a key in vars. Identifiers are contiguous non-brace characters and are
// matched case-sensitively as literal text. Unknown tokens stay in the
// output untouched, an unmatched '{' is literal text, and substituted
// values are never re-scanned, so a value containing {other} cannot trigger
// a second substitution.
func Substitute(template string, vars map[string]string) string {
	if !strings.Contains(template, "{") {
		return template
	}
	var b strings.Builder
	b.Grow(len(template))
	i := 0
	for i < len(template) {
		if template[i] != '{' {
			next := strings.IndexByte(template[i:], '{')
			if next < 0 {
				b.WriteString(template[i:])
				break
			}
			b.WriteString(template[i : i+next])
			i += next
			continue
		}
		// at '{': the token ends at the first brace of either kind
		j := i + 1
		for j < len(template) && template[j] != '{' && template[j] != '}' {
			j++
		}
		if j >= len(template) || template[j] == '{' {
			// unmatched open brace: literal
			b.WriteByte('{')
			i++
			continue
		}
		name := template[i+1 : j]
		if val, ok := vars[name]; ok && name != "" {
			b.WriteString(val)
		} else {
			b.WriteString(template[i : j+1])
		}
		i = j + 1
	}
	return b.String()
}
