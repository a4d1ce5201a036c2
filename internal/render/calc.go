package render

import (
	"strconv"
	"strings"

	"github.com/ElvisAhmetovic/compass-order-hub-sub002/internal/expr"
)

// SubstituteCalculated replaces {=expression} tokens with the evaluated
// result, two decimals. Expressions may reference the given numeric
// variables. A token that fails to parse or evaluate stays literal, same
// as an unknown {placeholder}.
func SubstituteCalculated(template string, vars map[string]float64) string {
	if !strings.Contains(template, "{=") {
		return template
	}
	var b strings.Builder
	b.Grow(len(template))
	for i := 0; i < len(template); {
		start := strings.Index(template[i:], "{=")
		if start < 0 {
			b.WriteString(template[i:])
			break
		}
		start += i
		end := strings.IndexByte(template[start:], '}')
		if end < 0 {
			b.WriteString(template[i:])
			break
		}
		end += start
		b.WriteString(template[i:start])
		val, err := expr.Eval(template[start+2:end], vars)
		if err != nil {
			b.WriteString(template[start : end+1])
		} else {
			b.WriteString(strconv.FormatFloat(val, 'f', 2, 64))
		}
		i = end + 1
	}
	return b.String()
}
